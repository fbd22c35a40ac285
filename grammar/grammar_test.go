package grammar

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/nihei9/treerig/error"
	"github.com/nihei9/treerig/spec"
)

func TestGrammarBuilder(t *testing.T) {
	g := buildTestGrammar(t, `
#name expr;

expr
    : expr add term
    | term
    ;
term
    : id
    | '(' expr ')'
    | 'if'
    ;
ws #skip
    : "[\u{0009}\u{000A}\u{000D}\u{0020}]+";
add
    : '+';
id
    : "[A-Za-z_][0-9A-Za-z_]*";
`)

	if g.Name != "expr" {
		t.Fatalf("unexpected name: %v", g.Name)
	}
	names := g.RuleNames()
	if strings.Join(names, " ") != "expr term" {
		t.Fatalf("unexpected rule names: %v", names)
	}

	expr, ok := g.RuleByName("expr")
	if !ok {
		t.Fatal("expr was not found")
	}
	if len(expr.Productions) != 2 {
		t.Fatalf("unexpected alternative count: %v", len(expr.Productions))
	}
	for i, prod := range expr.Productions {
		if prod.Alt != i+1 {
			t.Fatalf("unexpected alternative number; want: %v, got: %v", i+1, prod.Alt)
		}
	}
	if !expr.Productions[0].LeftRecursive() || expr.Productions[1].LeftRecursive() {
		t.Fatalf("left recursion was not detected correctly")
	}

	var termNames []string
	for _, term := range g.Terminals() {
		termNames = append(termNames, term.Name)
	}
	if strings.Join(termNames, " ") != "ws add id '(' ')' 'if'" {
		t.Fatalf("unexpected terminals: %v", termNames)
	}
	ws := g.Terminals()[0]
	if !ws.Skip || ws.Anonymous {
		t.Fatalf("unexpected terminal: %+v", ws)
	}
	paren := g.Terminals()[3]
	if !paren.Anonymous || !paren.Literal {
		t.Fatalf("unexpected terminal: %+v", paren)
	}

	if g.LexSpec == nil {
		t.Fatal("the lexical specification was not compiled")
	}
	for i, k := range g.LexSpec.KindNames {
		if i == 0 {
			continue
		}
		term, ok := g.TerminalByKind(i)
		if !ok {
			t.Fatalf("kind %v has no terminal", k)
		}
		if kindName(term) != k {
			t.Fatalf("unexpected mapping; want: %v, got: %v", k, kindName(term))
		}
	}
}

func TestGrammarBuilder_AnonymousTerminalSharesNamedOne(t *testing.T) {
	g := buildTestGrammar(t, `
s
    : s '+' id
    | id
    ;
plus
    : '+';
id
    : "[a-z]+";
`)
	if len(g.Terminals()) != 2 {
		t.Fatalf("unexpected terminal count: %v", len(g.Terminals()))
	}
}

func TestGrammarBuilder_Nullable(t *testing.T) {
	g := buildTestGrammar(t, `
s
    : a b
    ;
a
    :
    | x
    ;
b
    : x
    ;
x
    : 'x';
`)
	nullable := map[string]bool{
		"s": false,
		"a": true,
		"b": false,
	}
	for name, want := range nullable {
		r, _ := g.RuleByName(name)
		if g.Nullable(r.Symbol) != want {
			t.Errorf("unexpected nullability of %v; want: %v", name, want)
		}
	}
}

func TestGrammarBuilder_SemanticError(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		errs    []*SemanticError
	}{
		{
			caption: "an undefined symbol is an error",
			src: `
s
    : foo
    | x
    ;
x
    : 'x';
`,
			errs: []*SemanticError{semErrUndefinedSym},
		},
		{
			caption: "a duplicate production name is an error",
			src: `
s
    : x s
    | x
    ;
s
    : x x
    | x
    ;
x
    : 'x';
`,
			errs: []*SemanticError{semErrDuplicateProductionName},
		},
		{
			caption: "a duplicate alternative is an error",
			src: `
s
    : x
    | x
    ;
x
    : 'x';
`,
			errs: []*SemanticError{semErrDuplicateProduction},
		},
		{
			caption: "a duplicate terminal is an error",
			src: `
s
    : x
    | x x
    ;
x
    : 'x';
x
    : 'y';
`,
			errs: []*SemanticError{semErrDuplicateTerminal},
		},
		{
			caption: "a name cannot be both a terminal and a non-terminal",
			src: `
s
    : x
    | s x
    ;
s
    : 'x';
x
    : 'x';
`,
			errs: []*SemanticError{semErrDuplicateName},
		},
		{
			caption: "a skipped terminal cannot be used in productions",
			src: `
s
    : x ws
    | x
    ;
ws #skip
    : "[\u{0020}]+";
x
    : 'x';
`,
			errs: []*SemanticError{semErrTermCannotBeSkipped},
		},
		{
			caption: "a grammar needs a syntactic production",
			src: `
x
    : 'x';
`,
			errs: []*SemanticError{semErrNoProduction},
		},
		{
			caption: "an unknown grammar directive is an error",
			src: `
#foo bar;

s
    : x
    | x x
    ;
x
    : 'x';
`,
			errs: []*SemanticError{semErrDirInvalidName},
		},
		{
			caption: "the skip directive takes no parameter",
			src: `
s
    : x
    | x x
    ;
ws #skip foo
    : "[\u{0020}]+";
x
    : 'x';
`,
			errs: []*SemanticError{semErrDirInvalidParam},
		},
		{
			caption: "a cyclic derivation is an error",
			src: `
s
    : t
    | x
    ;
t
    : s
    | x x
    ;
x
    : 'x';
`,
			errs: []*SemanticError{semErrCyclicDerivation},
		},
		{
			caption: "a cyclic derivation through empty productions is an error",
			src: `
s
    : e s e
    | x
    ;
e
    :
    | x x
    ;
x
    : 'x';
`,
			errs: []*SemanticError{semErrCyclicDerivation},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := spec.Parse(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			b := GrammarBuilder{
				AST: ast,
			}
			_, err = b.Build()
			if err == nil {
				t.Fatal("an expected error didn't occur")
			}
			var specErrs verr.SpecErrors
			if !errors.As(err, &specErrs) {
				t.Fatalf("unexpected error type: %T, %v", err, err)
			}
			if len(specErrs) != len(tt.errs) {
				t.Fatalf("unexpected error count; want: %v, got: %v (%v)", len(tt.errs), len(specErrs), specErrs)
			}
			for i, e := range tt.errs {
				if specErrs[i].Cause != e {
					t.Fatalf("unexpected error; want: %v, got: %v", e, specErrs[i].Cause)
				}
			}
		})
	}
}
