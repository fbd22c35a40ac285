package harness

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/emirpasic/gods/stacks/arraystack"
)

type serialFrame struct {
	tree Tree
	next int
}

// Serialize renders a tree depth-first: internal nodes as `Rule(child child ...)` and leaves as
// their escaped token texts. The walk uses an explicit stack, so deep trees are not truncated.
func Serialize(p Parser, t Tree) string {
	if t == nil {
		return ""
	}

	var b strings.Builder
	stack := arraystack.New()
	open := func(n Tree) {
		b.WriteString(Escape(p.NodeText(n)))
		if n.Leaf() {
			return
		}
		b.WriteByte('(')
		stack.Push(&serialFrame{
			tree: n,
		})
	}

	open(t)
	for !stack.Empty() {
		v, _ := stack.Peek()
		f := v.(*serialFrame)
		if f.next >= f.tree.ChildCount() {
			b.WriteByte(')')
			stack.Pop()
			continue
		}
		if f.next > 0 {
			b.WriteByte(' ')
		}
		c := f.tree.Child(f.next)
		f.next++
		open(c)
	}
	return b.String()
}

// Escape escapes structural characters and non-graphic runes so that a serialized tree stays
// unambiguous. A byte that is not part of valid UTF-8 is escaped as \x{XX}.
func Escape(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, `\x{%02X}`, s[0])
			s = s[1:]
			continue
		}
		s = s[size:]
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '(':
			b.WriteString(`\(`)
		case ')':
			b.WriteString(`\)`)
		case ' ':
			b.WriteString(`\ `)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if !unicode.IsGraphic(r) || unicode.IsSpace(r) {
				fmt.Fprintf(&b, `\u{%04X}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
