package test

import (
	"fmt"
	"strings"
	"testing"
)

func TestDiffTree(t *testing.T) {
	tests := []struct {
		t1        *Tree
		t2        *Tree
		different bool
	}{
		{
			t1: NewRuleTree("a"),
			t2: NewRuleTree("a"),
		},
		{
			t1: NewRuleTree("a",
				NewLeafTree("b"),
			),
			t2: NewRuleTree("a",
				NewLeafTree("b"),
			),
		},
		{
			t1: NewRuleTree("a",
				NewRuleTree("b",
					NewLeafTree("c"),
				),
				NewLeafTree("d"),
			),
			t2: NewRuleTree("a",
				NewRuleTree("b",
					NewLeafTree("c"),
				),
				NewLeafTree("d"),
			),
		},
		// _ matches any rule.
		{
			t1: NewRuleTree("_",
				NewRuleTree("_",
					NewLeafTree("c"),
				),
			),
			t2: NewRuleTree("a",
				NewRuleTree("b",
					NewLeafTree("c"),
				),
			),
		},
		{
			t1:        NewRuleTree("a"),
			t2:        NewRuleTree("b"),
			different: true,
		},
		{
			t1:        NewLeafTree("a"),
			t2:        NewRuleTree("a"),
			different: true,
		},
		// _ doesn't match tokens.
		{
			t1:        NewRuleTree("_"),
			t2:        NewLeafTree("_"),
			different: true,
		},
		{
			t1:        NewLeafTree("a"),
			t2:        NewLeafTree("b"),
			different: true,
		},
		{
			t1: NewRuleTree("a",
				NewLeafTree("b"),
			),
			t2:        NewRuleTree("a"),
			different: true,
		},
		{
			t1: NewRuleTree("a",
				NewLeafTree("b"),
				NewLeafTree("c"),
			),
			t2: NewRuleTree("a",
				NewLeafTree("b"),
				NewLeafTree("c"),
				NewLeafTree("d"),
			),
			different: true,
		},
		{
			t1: NewRuleTree("a",
				NewRuleTree("b",
					NewLeafTree("c"),
				),
			),
			t2: NewRuleTree("a",
				NewRuleTree("b",
					NewLeafTree("d"),
				),
			),
			different: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			diffs := DiffTree(tt.t1.Fill(), tt.t2.Fill())
			if tt.different && len(diffs) == 0 {
				t.Fatalf("unexpected result")
			} else if !tt.different && len(diffs) > 0 {
				t.Fatalf("unexpected result: %v", diffs[0].Message)
			}
		})
	}
}

func TestDiffTree_Path(t *testing.T) {
	expected := NewRuleTree("a",
		NewRuleTree("b",
			NewLeafTree("c"),
		),
	).Fill()
	actual := NewRuleTree("a",
		NewRuleTree("b",
			NewLeafTree("x"),
		),
	).Fill()
	diffs := DiffTree(expected, actual)
	if len(diffs) != 1 {
		t.Fatalf("unexpected diffs: %v", len(diffs))
	}
	if diffs[0].ExpectedPath != `a.[0]b.[0]"c"` || diffs[0].ActualPath != `a.[0]b.[0]"x"` {
		t.Fatalf("unexpected paths: %v, %v", diffs[0].ExpectedPath, diffs[0].ActualPath)
	}
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		tree    *Tree
		err     bool
	}{
		{
			caption: "a rule with a token and a nested rule",
			src:     `A(x B(y))`,
			tree: NewRuleTree("A",
				NewLeafTree("x"),
				NewRuleTree("B",
					NewLeafTree("y"),
				),
			),
		},
		{
			caption: "a rule without children",
			src:     `s()`,
			tree:    NewRuleTree("s"),
		},
		{
			caption: "white spaces between nodes are ignored",
			src: `
expr (
    term ( a )
    +
)
`,
			tree: NewRuleTree("expr",
				NewRuleTree("term",
					NewLeafTree("a"),
				),
				NewLeafTree("+"),
			),
		},
		{
			caption: "escape sequences are interpreted",
			src:     `s(\( \) \\ a\ b \n\r\t \u{3042})`,
			tree: NewRuleTree("s",
				NewLeafTree("("),
				NewLeafTree(")"),
				NewLeafTree(`\`),
				NewLeafTree("a b"),
				NewLeafTree("\n\r\t"),
				NewLeafTree("あ"),
			),
		},
		{
			caption: "a byte escape is interpreted as a raw byte",
			src:     `s(\x{FF} \u{FFFD})`,
			tree: NewRuleTree("s",
				NewLeafTree("\xff"),
				NewLeafTree("\ufffd"),
			),
		},
		{
			caption: "a lone token is a tree",
			src:     `a`,
			tree:    NewLeafTree("a"),
		},
		{
			caption: "an empty tree",
			src:     ``,
			err:     true,
		},
		{
			caption: "an unclosed rule",
			src:     `a(b`,
			err:     true,
		},
		{
			caption: "an unbalanced parenthesis",
			src:     `a(b))`,
			err:     true,
		},
		{
			caption: "a parenthesis without a rule name",
			src:     `(a)`,
			err:     true,
		},
		{
			caption: "two roots",
			src:     `a() b()`,
			err:     true,
		},
		{
			caption: "an unknown escape sequence",
			src:     `a(\q)`,
			err:     true,
		},
		{
			caption: "an incomplete byte escape",
			src:     `a(\x)`,
			err:     true,
		},
		{
			caption: "a byte escape out of range",
			src:     `a(\x{100})`,
			err:     true,
		},
		{
			caption: "an invalid code point",
			src:     `a(\u{110000})`,
			err:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tree, err := ParseTree(strings.NewReader(tt.src))
			if tt.err {
				if err == nil {
					t.Fatalf("an expected error didn't occur")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diffs := DiffTree(tt.tree.Fill(), tree); len(diffs) > 0 {
				t.Fatalf("unexpected tree: %v", diffs[0].Message)
			}
		})
	}
}

func TestTree_String(t *testing.T) {
	src := `s(a\ b \( t())`
	tree, err := ParseTree(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if tree.String() != src {
		t.Fatalf("unexpected text\nwant: %v\ngot:  %v", src, tree.String())
	}

	wild, err := ParseTree(strings.NewReader(`_(a\ b \( _())`))
	if err != nil {
		t.Fatal(err)
	}
	if diffs, ok := Equal(wild, tree); !ok {
		t.Fatalf("a wildcard tree must match: %v", diffs[0].Message)
	}
}

func TestTree_Format(t *testing.T) {
	tree := NewRuleTree("a",
		NewRuleTree("b",
			NewLeafTree("c"),
		),
		NewLeafTree("d"),
	)
	want := `(a
    (b
        "c")
    "d")`
	if string(tree.Format()) != want {
		t.Fatalf("unexpected format\nwant:\n%v\ngot:\n%v", want, string(tree.Format()))
	}
}
