package driver

import (
	"io"

	"github.com/nihei9/treerig/grammar"
	"github.com/nihei9/treerig/harness"
)

// Artifact interprets a grammar as a lexer and a parser.
type Artifact struct {
	g    *grammar.Grammar
	opts []ParserOption
}

func NewArtifact(g *grammar.Grammar, opts ...ParserOption) *Artifact {
	return &Artifact{
		g:    g,
		opts: opts,
	}
}

func (a *Artifact) Grammar() *grammar.Grammar {
	return a.g
}

func (a *Artifact) NewLexer(src io.Reader) (harness.Lexer, error) {
	l, err := NewLexer(a.g, src)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (a *Artifact) NewParser(toks []*harness.Token) (harness.Parser, error) {
	p, err := NewParser(a.g, toks, a.opts...)
	if err != nil {
		return nil, err
	}
	return p, nil
}
