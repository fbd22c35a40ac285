package spec

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/nihei9/treerig/error"
)

func TestParse(t *testing.T) {
	production := func(lhs string, alts ...*AlternativeNode) *ProductionNode {
		return &ProductionNode{
			LHS: lhs,
			RHS: alts,
		}
	}
	withDirective := func(prod *ProductionNode, dir *DirectiveNode) *ProductionNode {
		prod.Directives = append(prod.Directives, dir)
		return prod
	}
	directive := func(name string, params ...string) *DirectiveNode {
		d := &DirectiveNode{
			Name: name,
		}
		for _, param := range params {
			d.Parameters = append(d.Parameters, &ParameterNode{
				ID: param,
			})
		}
		return d
	}
	alternative := func(elems ...*ElementNode) *AlternativeNode {
		return &AlternativeNode{
			Elements: elems,
		}
	}
	id := func(id string) *ElementNode {
		return &ElementNode{
			ID: id,
		}
	}
	pattern := func(p string) *ElementNode {
		return &ElementNode{
			Pattern: p,
		}
	}
	literal := func(l string) *ElementNode {
		return &ElementNode{
			Pattern:   l,
			Literally: true,
		}
	}

	tests := []struct {
		caption string
		src     string
		ast     *RootNode
		synErr  *SyntaxError
	}{
		{
			caption: "single production is a valid grammar",
			src:     `a: "a";`,
			ast: &RootNode{
				LexProductions: []*ProductionNode{
					production("a", alternative(pattern("a"))),
				},
			},
		},
		{
			caption: "multiple productions are a valid grammar",
			src: `
#name expr;

expr
    : expr add term
    | term
    ;
term
    : id
    | '(' expr ')'
    ;
ws #skip
    : "[\u{0009}\u{0020}]+";
add
    : '+';
id
    : "[A-Za-z_][0-9A-Za-z_]*";
`,
			ast: &RootNode{
				Directives: []*DirectiveNode{
					directive("name", "expr"),
				},
				Productions: []*ProductionNode{
					production("expr",
						alternative(id("expr"), id("add"), id("term")),
						alternative(id("term")),
					),
					production("term",
						alternative(id("id")),
						alternative(literal("("), id("expr"), literal(")")),
					),
				},
				LexProductions: []*ProductionNode{
					withDirective(
						production("ws", alternative(pattern(`[\u{0009}\u{0020}]+`))),
						directive("skip"),
					),
					production("add", alternative(literal("+"))),
					production("id", alternative(pattern("[A-Za-z_][0-9A-Za-z_]*"))),
				},
			},
		},
		{
			caption: "an alternative can be empty",
			src:     `s: a s | ; a: 'a';`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("s",
						alternative(id("a"), id("s")),
						alternative(),
					),
				},
				LexProductions: []*ProductionNode{
					production("a", alternative(literal("a"))),
				},
			},
		},
		{
			caption: "a production whose single element is an ID is a syntactic rule",
			src:     `s: a; a: 'a';`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("s", alternative(id("a"))),
				},
				LexProductions: []*ProductionNode{
					production("a", alternative(literal("a"))),
				},
			},
		},
		{
			caption: "a grammar without productions is invalid",
			src:     `// empty`,
			synErr:  synErrNoProduction,
		},
		{
			caption: "a production must have a name",
			src:     `: "a";`,
			synErr:  synErrNoProductionName,
		},
		{
			caption: "a colon must precede alternatives",
			src:     `a "a";`,
			synErr:  synErrNoColon,
		},
		{
			caption: "a production must end with a semicolon",
			src:     `a: "a"`,
			synErr:  synErrNoSemicolon,
		},
		{
			caption: "a directive needs a name",
			src:     `# ; a: "a";`,
			synErr:  synErrNoDirectiveName,
		},
		{
			caption: "a grammar directive must end with a semicolon",
			src:     `#name g a: "a";`,
			synErr:  synErrNoDirectiveEnd,
		},
		{
			caption: "an invalid token is an error",
			src:     `a: @;`,
			synErr:  synErrInvalidToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := Parse(strings.NewReader(tt.src))
			if tt.synErr != nil {
				var specErr *verr.SpecError
				if !errors.As(err, &specErr) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, err)
				}
				if specErr.Cause != tt.synErr {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, specErr.Cause)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testRootNode(t, ast, tt.ast)
		})
	}
}

func testRootNode(t *testing.T, root, expected *RootNode) {
	t.Helper()
	if len(root.Directives) != len(expected.Directives) {
		t.Fatalf("unexpected directive count; want: %v, got: %v", len(expected.Directives), len(root.Directives))
	}
	for i, dir := range root.Directives {
		testDirectives(t, dir, expected.Directives[i])
	}
	testProductions(t, root.Productions, expected.Productions)
	testProductions(t, root.LexProductions, expected.LexProductions)
}

func testProductions(t *testing.T, prods, expected []*ProductionNode) {
	t.Helper()
	if len(prods) != len(expected) {
		t.Fatalf("unexpected production count; want: %v, got: %v", len(expected), len(prods))
	}
	for i, prod := range prods {
		testProductionNode(t, prod, expected[i])
	}
}

func testProductionNode(t *testing.T, prod, expected *ProductionNode) {
	t.Helper()
	if prod.LHS != expected.LHS {
		t.Fatalf("unexpected LHS; want: %v, got: %v", expected.LHS, prod.LHS)
	}
	if len(prod.Directives) != len(expected.Directives) {
		t.Fatalf("unexpected directive count; want: %v, got: %v", len(expected.Directives), len(prod.Directives))
	}
	for i, dir := range prod.Directives {
		testDirectives(t, dir, expected.Directives[i])
	}
	if len(prod.RHS) != len(expected.RHS) {
		t.Fatalf("unexpected alternative count; want: %v, got: %v", len(expected.RHS), len(prod.RHS))
	}
	for i, alt := range prod.RHS {
		testAlternativeNode(t, alt, expected.RHS[i])
	}
}

func testDirectives(t *testing.T, dir, expected *DirectiveNode) {
	t.Helper()
	if dir.Name != expected.Name {
		t.Fatalf("unexpected directive name; want: %v, got: %v", expected.Name, dir.Name)
	}
	if len(dir.Parameters) != len(expected.Parameters) {
		t.Fatalf("unexpected parameter count; want: %v, got: %v", len(expected.Parameters), len(dir.Parameters))
	}
	for i, param := range dir.Parameters {
		if param.ID != expected.Parameters[i].ID {
			t.Fatalf("unexpected parameter; want: %v, got: %v", expected.Parameters[i].ID, param.ID)
		}
	}
}

func testAlternativeNode(t *testing.T, alt, expected *AlternativeNode) {
	t.Helper()
	if len(alt.Elements) != len(expected.Elements) {
		t.Fatalf("unexpected element count; want: %v, got: %v", len(expected.Elements), len(alt.Elements))
	}
	for i, elem := range alt.Elements {
		testElementNode(t, elem, expected.Elements[i])
	}
}

func testElementNode(t *testing.T, elem, expected *ElementNode) {
	t.Helper()
	if elem.ID != expected.ID || elem.Pattern != expected.Pattern || elem.Literally != expected.Literally {
		t.Fatalf("unexpected element; want: %+v, got: %+v", expected, elem)
	}
}
