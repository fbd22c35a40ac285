package main

import (
	"fmt"
	"os"

	"github.com/nihei9/treerig/harness"
	"github.com/spf13/cobra"
)

func newTokenizeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize [<source file path>]",
		Short: "Tokenize a text stream",
		Long: `Tokenize a text according to the grammar and print one token per line.
This command is primarily aimed at debugging the grammar.`,
		Example: `  treerig tokenize input.txt --grammar expr.treerig`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTokenize(cmd, args)
		},
	}
}

func (c *cli) runTokenize(cmd *cobra.Command, args []string) error {
	path := c.cfg.Source
	if len(args) > 0 {
		path = args[0]
	}
	a, err := c.readArtifact()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Cannot open the source file %s: %w", path, err)
	}
	defer f.Close()
	toks, err := harness.Tokenize(f, a)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, tok := range toks {
		var note string
		switch {
		case tok.Invalid:
			note = " (invalid)"
		case tok.Hidden:
			note = " (hidden)"
		}
		fmt.Fprintf(w, "%v:%v: %v %#v%v\n", tok.Row+1, tok.Col+1, tok.KindName, tok.Text, note)
	}
	return nil
}
