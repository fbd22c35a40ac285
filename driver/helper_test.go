package driver

import (
	"strings"
	"testing"

	"github.com/nihei9/treerig/grammar"
	"github.com/nihei9/treerig/spec"
)

const exprGrammar = `
#name expr;

expr
    : expr add term
    | term
    ;
term
    : term mul factor
    | factor
    ;
factor
    : '(' expr ')'
    | id
    ;
ws #skip
    : "[\u{0009}\u{0020}]+";
add
    : '+';
mul
    : '*';
id
    : "[a-z]+";
`

func buildGrammar(t *testing.T, src string) *grammar.Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return g
}
