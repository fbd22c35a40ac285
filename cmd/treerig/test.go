package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nihei9/treerig/tester"
	"github.com/spf13/cobra"
)

var (
	passedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newTestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "test [<test file path>|<test directory path>]...",
		Short: "Test a grammar",
		Long: `Run test cases against a grammar. Without arguments, the paths listed in the [test]
table of the config file are used.`,
		Example: `  treerig test test --grammar expr.treerig`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTest(cmd, args)
		},
	}
}

func (c *cli) runTest(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = c.cfg.Test.Paths
	}
	if len(paths) == 0 {
		return errors.New("no test paths: pass them as arguments or set paths in the [test] table")
	}

	a, err := c.readArtifact()
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}

	var cs []*tester.TestCaseWithMetadata
	{
		errOccurred := false
		for _, path := range paths {
			for _, tc := range tester.ListTestCases(path) {
				if tc.Error != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Failed to read a test case or a directory: %v\n%v\n", tc.FilePath, tc.Error)
					errOccurred = true
					continue
				}
				cs = append(cs, tc)
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Artifact: a,
		Cases:    cs,
	}
	rs := t.Run()
	w := cmd.OutOrStdout()
	failed := 0
	for _, r := range rs {
		fmt.Fprintln(w, styleResult(r))
		if !r.Passed() {
			failed++
		}
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%v passed, %v failed", len(rs)-failed, failed)))
	if failed > 0 {
		return errors.New("Test failed")
	}
	return nil
}

func styleResult(r *tester.TestResult) string {
	s := r.String()
	if r.Passed() {
		return passedStyle.Render("Passed") + strings.TrimPrefix(s, "Passed")
	}
	return failedStyle.Render("Failed") + strings.TrimPrefix(s, "Failed")
}
