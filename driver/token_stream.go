package driver

import (
	"io"

	mldriver "github.com/nihei9/maleeni/driver"
	"github.com/nihei9/treerig/grammar"
	"github.com/nihei9/treerig/harness"
)

const invalidKindName = "<invalid>"

// Lexer converts maleeni tokens into harness tokens.
type Lexer struct {
	g      *grammar.Grammar
	d      *mldriver.Lexer
	offset int
}

func NewLexer(g *grammar.Grammar, src io.Reader) (*Lexer, error) {
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(g.LexSpec), src)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		g: g,
		d: d,
	}, nil
}

// Next returns the next token. It returns nil at the end of the input.
func (l *Lexer) Next() (*harness.Token, error) {
	tok, err := l.d.Next()
	if err != nil {
		return nil, err
	}
	if tok.EOF {
		return nil, nil
	}

	t := &harness.Token{
		Text:   string(tok.Lexeme),
		Row:    tok.Row,
		Col:    tok.Col,
		Offset: l.offset,
	}
	l.offset += len(tok.Lexeme)

	term, ok := l.g.TerminalByKind(int(tok.KindID))
	if tok.Invalid || !ok {
		t.KindName = invalidKindName
		t.Invalid = true
		return t, nil
	}
	t.Kind = term.Symbol.Num()
	t.KindName = term.Name
	t.Hidden = term.Skip
	return t, nil
}

// AllTokens reads tokens until the end of the input.
func (l *Lexer) AllTokens() ([]*harness.Token, error) {
	var toks []*harness.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
