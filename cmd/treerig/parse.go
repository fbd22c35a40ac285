package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/nihei9/treerig/driver"
	"github.com/nihei9/treerig/harness"
	"github.com/spf13/cobra"
)

type parseFlags struct {
	tokens    *bool
	time      *bool
	printTree *bool
}

func newParseCmd(c *cli) *cobra.Command {
	var flags parseFlags
	cmd := &cobra.Command{
		Use:   "parse [<source file path> [<rule> [<tokenize only> [<mode>]]]]",
		Short: "Parse a text and print the parse tree",
		Long: `Parse a text with a rule and print the parse tree as a single line "Tree <tree>".
The source defaults to Text, the rule to the first rule of the grammar, and the mode to ll.
The mode is one of ll, sll, or any other value for exact ambiguity detection.`,
		Example: `  treerig parse input.txt expr false sll --grammar expr.treerig`,
		Args:    cobra.MaximumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args, &flags)
		},
	}
	flags.tokens = cmd.Flags().Bool("tokens", false, "print the tokens to stderr")
	flags.time = cmd.Flags().Bool("time", false, "print the lexer and parser times to stderr")
	flags.printTree = cmd.Flags().Bool("print-tree", false, "print the parse tree in a readable format to stderr")
	return cmd
}

func (c *cli) runParse(cmd *cobra.Command, args []string, flags *parseFlags) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("an unexpected error occurred: %v", v)
		}
		fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
		retErr = err
	}()

	req := &harness.Request{
		SourcePath: c.cfg.Source,
		Rule:       c.cfg.Rule,
		Mode:       harness.ParsePredictionMode(c.cfg.Mode),
	}
	if len(args) > 0 {
		req.SourcePath = args[0]
	}
	if len(args) > 1 {
		req.Rule = args[1]
	}
	if len(args) > 2 {
		req.TokenizeOnly = strings.EqualFold(args[2], "true")
	}
	if len(args) > 3 {
		req.Mode = harness.ParsePredictionMode(args[3])
	}

	a, err := c.readArtifact()
	if err != nil {
		return err
	}
	res, err := harness.Run(a, req)
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	if *flags.time {
		fmt.Fprintf(w, "LexerTime %v\n", res.LexerTime)
		fmt.Fprintf(w, "ParserTime %v\n", res.ParserTime)
	}
	if *flags.tokens {
		fmt.Fprintf(w, "Tokens %v\n", formatTokens(res.Tokens))
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "%v\n", d)
	}
	if *flags.printTree {
		if node, ok := res.Root.(*driver.Node); ok {
			driver.PrintTree(w, node)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Tree %v\n", res.Tree)
	return nil
}
