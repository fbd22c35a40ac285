package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/treerig/spec"
)

func buildTestGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func testSymbolName(t *testing.T, g *Grammar, sym Symbol) string {
	t.Helper()

	if sym.IsTerminal() {
		term := g.Terminal(sym)
		if term == nil {
			t.Fatalf("terminal was not found: %v", sym)
		}
		return term.Name
	}
	r := g.Rule(sym)
	if r == nil {
		t.Fatalf("rule was not found: %v", sym)
	}
	return r.Name
}
