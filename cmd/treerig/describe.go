package main

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/nihei9/treerig/grammar"
	"github.com/spf13/cobra"
)

func newDescribeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "describe",
		Short:   "Print the terminals and productions of a grammar in readable format",
		Example: `  treerig describe --grammar expr.treerig`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.readArtifact()
			if err != nil {
				return err
			}
			return writeDescription(cmd.OutOrStdout(), a.Grammar())
		},
	}
}

const descriptionTemplate = `# Name

{{ .Name }}

# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# Follow sets from {{ (index .Rules 0).Name }}

{{ range .Rules -}}
{{ printFollow . }}
{{ end }}`

func writeDescription(w io.Writer, g *grammar.Grammar) error {
	symName := func(sym grammar.Symbol) string {
		if sym.IsTerminal() {
			return g.Terminal(sym).Name
		}
		return g.Rule(sym).Name
	}

	fns := template.FuncMap{
		"printTerminal": func(term *grammar.Terminal) string {
			var attrs []string
			if term.Literal {
				attrs = append(attrs, "literal")
			}
			if term.Skip {
				attrs = append(attrs, "skip")
			}
			if len(attrs) > 0 {
				return fmt.Sprintf("%4v %v %#v (%v)", term.Symbol.Num(), term.Name, term.Pattern, strings.Join(attrs, ", "))
			}
			return fmt.Sprintf("%4v %v %#v", term.Symbol.Num(), term.Name, term.Pattern)
		},
		"printProduction": func(prod *grammar.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%4v %v #%v →", prod.Num, symName(prod.LHS), prod.Alt)
			if len(prod.RHS) == 0 {
				b.WriteString(" ε")
			}
			for _, sym := range prod.RHS {
				fmt.Fprintf(&b, " %v", symName(sym))
			}
			if prod.LeftRecursive() {
				b.WriteString(" (left-recursive)")
			}
			return b.String()
		},
		"printFollow": func(r *grammar.Rule) (string, error) {
			syms, eof, err := g.Follow(g.Rules()[0], r)
			if err != nil {
				return "", err
			}
			names := make([]string, 0, len(syms)+1)
			for _, sym := range syms {
				names = append(names, symName(sym))
			}
			if eof {
				names = append(names, "<EOF>")
			}
			return fmt.Sprintf("%v: {%v}", r.Name, strings.Join(names, ", ")), nil
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descriptionTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, g)
}
