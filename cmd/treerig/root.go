package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nihei9/treerig/config"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	grammar *string
	config  *string
	trace   *string
}

// cli holds the state shared by subcommands of one invocation.
type cli struct {
	flags rootFlags
	cfg   *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "treerig",
		Short: "Run a grammar against a text and print its parse tree",
		Long: `treerig provides the following features:
- Parses a text with any rule of a grammar and prints the parse tree in a single line.
- Runs test cases that pair texts with their expected parse trees.
- Tokenizes a text according to the grammar.
  This feature is primarily aimed at debugging the grammar.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setUp,
	}
	c.flags.grammar = cmd.PersistentFlags().StringP("grammar", "g", "", "grammar file path")
	c.flags.config = cmd.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("config file path (default ./%v if it exists)", config.FileName))
	c.flags.trace = cmd.PersistentFlags().String("trace", "", "trace level: error, info, or debug")

	cmd.AddCommand(
		newParseCmd(c),
		newTestCmd(c),
		newRulesCmd(c),
		newDescribeCmd(c),
		newTokenizeCmd(c),
	)
	return cmd
}

// setUp loads the config file and lets flags override it.
func (c *cli) setUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(*c.flags.config)
	if err != nil {
		return err
	}
	if *c.flags.grammar != "" {
		cfg.Grammar = *c.flags.grammar
	}
	if *c.flags.trace != "" {
		cfg.Trace = *c.flags.trace
	}
	c.cfg = cfg
	return setTraceLevel(cfg.Trace)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	_, err := os.Stat(config.FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return config.Load(config.FileName)
}

// setTraceLevel installs a Go logger as the core-tracer. Library packages only trace through it.
func setTraceLevel(level string) error {
	var l tracing.TraceLevel
	switch level {
	case "error":
		l = tracing.LevelError
	case "info":
		l = tracing.LevelInfo
	case "debug":
		l = tracing.LevelDebug
	default:
		return fmt.Errorf("unknown trace level: %v", level)
	}
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(l)
	return nil
}

func (c *cli) grammarPath() (string, error) {
	if c.cfg.Grammar == "" {
		return "", fmt.Errorf("a grammar file is required: specify --grammar or set grammar in %v", config.FileName)
	}
	return c.cfg.Grammar, nil
}

func Execute() error {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
