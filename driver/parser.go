package driver

import (
	"fmt"

	"github.com/nihei9/treerig/grammar"
	"github.com/nihei9/treerig/harness"
)

type ParserOption func(p *Parser) error

// PredictionMode sets the initial prediction mode of a parser.
func PredictionMode(mode harness.PredictionMode) ParserOption {
	return func(p *Parser) error {
		p.mode = mode
		return nil
	}
}

// Parser parses a token sequence with any rule of a grammar. Hidden and invalid tokens are
// excluded, and a rule must derive all of the remaining tokens.
type Parser struct {
	g     *grammar.Grammar
	toks  []*harness.Token
	input []*harness.Token
	terms []grammar.Symbol
	mode  harness.PredictionMode
	rules map[string]harness.RuleFunc
	ambs  []*harness.Ambiguity

	eofRow int
	eofCol int
}

func NewParser(g *grammar.Grammar, toks []*harness.Token, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		g:    g,
		toks: toks,
		mode: harness.LL,
	}

	terms := g.Terminals()
	for _, tok := range toks {
		if tok.Hidden || tok.Invalid {
			continue
		}
		if tok.Kind < 1 || tok.Kind > len(terms) {
			return nil, fmt.Errorf("a token has an unknown kind; kind: %v, text: %#v", tok.Kind, tok.Text)
		}
		p.input = append(p.input, tok)
		p.terms = append(p.terms, terms[tok.Kind-1].Symbol)
	}
	p.eofRow, p.eofCol = endPosition(toks)

	p.rules = make(map[string]harness.RuleFunc, len(g.Rules()))
	for _, r := range g.Rules() {
		r := r
		p.rules[r.Name] = func() (harness.Tree, error) {
			node, err := p.parse(r)
			if err != nil {
				return nil, err
			}
			return node, nil
		}
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// endPosition returns the position following the last token.
func endPosition(toks []*harness.Token) (int, int) {
	if len(toks) == 0 {
		return 0, 0
	}
	last := toks[len(toks)-1]
	row, col := last.Row, last.Col
	for _, r := range last.Text {
		if r == '\n' {
			row++
			col = 0
			continue
		}
		col++
	}
	return row, col
}

func (p *Parser) SetPredictionMode(mode harness.PredictionMode) {
	p.mode = mode
}

func (p *Parser) RuleNames() []string {
	return p.g.RuleNames()
}

func (p *Parser) Rules() map[string]harness.RuleFunc {
	return p.rules
}

func (p *Parser) NodeText(t harness.Tree) string {
	n, ok := t.(*Node)
	if !ok || n == nil {
		return ""
	}
	if n.Token != nil {
		return n.Token.Text
	}
	return n.Rule
}

// Ambiguities returns the ambiguities found by the last parse in LLExactAmbiguityDetection mode.
func (p *Parser) Ambiguities() []*harness.Ambiguity {
	return p.ambs
}

// Parse parses the token sequence with a rule.
func (p *Parser) Parse(rule string) (*Node, error) {
	r, ok := p.g.RuleByName(rule)
	if !ok {
		return nil, fmt.Errorf("unknown rule: %v", rule)
	}
	return p.parse(r)
}

func (p *Parser) parse(r *grammar.Rule) (*Node, error) {
	p.ambs = nil

	c := newChart(p.g, p.input, p.terms, r)
	c.run()
	if !c.accepted() {
		return nil, p.chartError(c)
	}

	switch p.mode {
	case harness.SLL:
		b := newSLLBuilder(p, c)
		return b.build(r)
	default:
		b := newLLBuilder(p, c, p.mode == harness.LLExactAmbiguityDetection)
		node, err := b.build(r)
		if err != nil {
			return nil, err
		}
		p.ambs = b.ambiguities()
		return node, nil
	}
}

// position returns the token at a visible position and its location. The token is nil at the
// end of the input.
func (p *Parser) position(pos int) (*harness.Token, int, int) {
	if pos >= len(p.input) {
		return nil, p.eofRow, p.eofCol
	}
	tok := p.input[pos]
	return tok, tok.Row, tok.Col
}

func (p *Parser) newSyntaxError(pos int, message string, expected []string) *SyntaxError {
	tok, row, col := p.position(pos)
	return &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           message,
		Token:             tok,
		ExpectedTerminals: sortedNames(expected),
	}
}

func (p *Parser) terminalNames(syms []grammar.Symbol) []string {
	names := make([]string, 0, len(syms))
	for _, sym := range syms {
		names = append(names, p.g.Terminal(sym).Name)
	}
	return names
}

// chartError reports the furthest position the chart reached.
func (p *Parser) chartError(c *chart) error {
	pos := c.furthest()
	expected := p.terminalNames(c.expectedAt(pos))
	msg := msgMismatchedInput
	if pos < c.n && c.startCompletedAt(pos) {
		expected = append(expected, eofName)
		if len(expected) == 1 {
			msg = msgExtraneousInput
		}
	}
	return p.newSyntaxError(pos, msg, expected)
}
