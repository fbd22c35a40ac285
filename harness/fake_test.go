package harness

import (
	"errors"
	"io"
	"strings"
	"unicode"
)

// fakeArtifact splits a source at white spaces. `#` characters become invalid tokens.
type fakeArtifact struct {
	rules    []string
	lexErr   error
	parseErr error
	panicky  bool

	// invoked counts rule function calls.
	invoked int
}

func (a *fakeArtifact) NewLexer(src io.Reader) (Lexer, error) {
	if a.lexErr != nil {
		return nil, a.lexErr
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &fakeLexer{src: string(b)}, nil
}

func (a *fakeArtifact) NewParser(toks []*Token) (Parser, error) {
	return &fakeParser{
		artifact: a,
		toks:     toks,
	}, nil
}

type fakeLexer struct {
	src string
}

func (l *fakeLexer) AllTokens() ([]*Token, error) {
	var toks []*Token
	offset := 0
	for _, f := range strings.FieldsFunc(l.src, unicode.IsSpace) {
		offset += strings.Index(l.src[offset:], f)
		toks = append(toks, &Token{
			KindName: "word",
			Text:     f,
			Col:      offset,
			Offset:   offset,
			Invalid:  f == "#",
		})
		offset += len(f)
	}
	return toks, nil
}

type fakeNode struct {
	rule     string
	tok      *Token
	children []*fakeNode
}

func (n *fakeNode) Leaf() bool {
	return n.tok != nil
}

func (n *fakeNode) ChildCount() int {
	return len(n.children)
}

func (n *fakeNode) Child(i int) Tree {
	return n.children[i]
}

type fakeParser struct {
	artifact *fakeArtifact
	toks     []*Token
	mode     PredictionMode
	modeSet  bool
}

func (p *fakeParser) SetPredictionMode(mode PredictionMode) {
	p.mode = mode
	p.modeSet = true
}

func (p *fakeParser) RuleNames() []string {
	return p.artifact.rules
}

// Rules returns rules that wrap every valid token into a leaf under a single node named after the
// rule. A rule named `sll_only` fails unless the mode is SLL.
func (p *fakeParser) Rules() map[string]RuleFunc {
	rules := map[string]RuleFunc{}
	for _, name := range p.artifact.rules {
		name := name
		rules[name] = func() (Tree, error) {
			p.artifact.invoked++
			if !p.modeSet {
				return nil, errors.New("no prediction mode")
			}
			if p.artifact.panicky {
				panic("boom")
			}
			if p.artifact.parseErr != nil {
				return nil, p.artifact.parseErr
			}
			if name == "sll_only" && p.mode != SLL {
				return nil, errors.New("not SLL")
			}
			root := &fakeNode{rule: name}
			for _, tok := range p.toks {
				if tok.Invalid {
					continue
				}
				root.children = append(root.children, &fakeNode{tok: tok})
			}
			return root, nil
		}
	}
	return rules
}

func (p *fakeParser) NodeText(t Tree) string {
	n := t.(*fakeNode)
	if n.tok != nil {
		return n.tok.Text
	}
	return n.rule
}

type ambiguousParser struct {
	*fakeParser
}

func (p *ambiguousParser) Ambiguities() []*Ambiguity {
	return []*Ambiguity{
		{
			Rule:         "s",
			Alternatives: []int{1, 2},
			Start:        0,
			Stop:         1,
		},
	}
}

type ambiguousArtifact struct {
	*fakeArtifact
}

func (a *ambiguousArtifact) NewParser(toks []*Token) (Parser, error) {
	p, _ := a.fakeArtifact.NewParser(toks)
	return &ambiguousParser{
		fakeParser: p.(*fakeParser),
	}, nil
}
