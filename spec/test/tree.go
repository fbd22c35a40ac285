package test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nihei9/treerig/harness"
)

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// Tree is a parse tree read from its serialized form. Label is a rule name for internal nodes and
// the token text for leaves.
type Tree struct {
	Parent   *Tree
	Offset   int
	Label    string
	Leaf     bool
	Children []*Tree
}

func NewRuleTree(rule string, children ...*Tree) *Tree {
	return &Tree{
		Label:    rule,
		Children: children,
	}
}

func NewLeafTree(text string) *Tree {
	return &Tree{
		Label: text,
		Leaf:  true,
	}
}

func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	label := t.Label
	if t.Leaf {
		label = fmt.Sprintf("%q", t.Label)
	}
	if t.Parent == nil {
		return label
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, label)
}

// String returns the serialized form of a tree.
func (t *Tree) String() string {
	var b strings.Builder
	t.serialize(&b)
	return b.String()
}

func (t *Tree) serialize(b *strings.Builder) {
	b.WriteString(harness.Escape(t.Label))
	if t.Leaf {
		return
	}
	b.WriteString("(")
	for i, c := range t.Children {
		if i > 0 {
			b.WriteString(" ")
		}
		c.serialize(b)
	}
	b.WriteString(")")
}

func (t *Tree) hasWildcard() bool {
	if !t.Leaf && t.Label == "_" {
		return true
	}
	for _, c := range t.Children {
		if c.hasWildcard() {
			return true
		}
	}
	return false
}

// Format returns an indented form of a tree, one node per line.
func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	if t.Leaf {
		fmt.Fprintf(buf, "%q", t.Label)
		return
	}
	buf.WriteString("(")
	buf.WriteString(t.Label)
	if len(t.Children) > 0 {
		buf.WriteString("\n")
		for i, c := range t.Children {
			c.format(buf, depth+1)
			if i < len(t.Children)-1 {
				buf.WriteString("\n")
			}
		}
	}
	buf.WriteString(")")
}

// DiffTree compares two trees structurally. A rule labeled `_` in the expected tree matches any
// rule.
func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected == nil || actual == nil {
		return []*TreeDiff{
			{
				Message: "either tree is missing",
			},
		}
	}
	if expected.Leaf != actual.Leaf {
		msg := fmt.Sprintf("unexpected kind: expected %v but got %v", kindOf(expected), kindOf(actual))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if expected.Leaf {
		if expected.Label != actual.Label {
			msg := fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Label, actual.Label)
			return []*TreeDiff{
				newTreeDiff(expected, actual, msg),
			}
		}
		return nil
	}
	// _ matches any rules.
	if expected.Label != "_" && actual.Label != expected.Label {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Label, actual.Label)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

func kindOf(t *Tree) string {
	if t.Leaf {
		return fmt.Sprintf("token '%v'", t.Label)
	}
	return fmt.Sprintf("rule '%v'", t.Label)
}

// Equal reports whether the actual tree matches the expected one. Without wildcards, the
// serialized forms must be identical.
func Equal(expected, actual *Tree) ([]*TreeDiff, bool) {
	diffs := DiffTree(expected, actual)
	if len(diffs) > 0 {
		return diffs, false
	}
	if !expected.hasWildcard() && expected.String() != actual.String() {
		return []*TreeDiff{
			newTreeDiff(expected, actual, fmt.Sprintf("unexpected text: expected %v but got %v", expected, actual)),
		}, false
	}
	return nil, true
}
