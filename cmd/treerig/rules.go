package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rules",
		Short:   "Print the rule names of a grammar in declaration order",
		Example: `  treerig rules --grammar expr.treerig`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.readArtifact()
			if err != nil {
				return err
			}
			for _, name := range a.Grammar().RuleNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
