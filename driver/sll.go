package driver

import (
	"github.com/nihei9/treerig/grammar"
)

type activeFrame struct {
	rule int
	pos  int
}

// sllBuilder extracts a tree committing to each decision without the caller's context. What
// follows a rule is treated as a wildcard, so a decision looks only at how far each alternative
// keeps matching the input. Left-recursive alternatives are applied as a greedy loop after a
// non-left-recursive one. A committed choice is never revisited.
type sllBuilder struct {
	p      *Parser
	c      *chart
	active map[activeFrame]struct{}
}

func newSLLBuilder(p *Parser, c *chart) *sllBuilder {
	return &sllBuilder{
		p:      p,
		c:      c,
		active: map[activeFrame]struct{}{},
	}
}

func (b *sllBuilder) build(r *grammar.Rule) (*Node, error) {
	node, end, err := b.buildRule(r, 0)
	if err != nil {
		return nil, err
	}
	if end != b.c.n {
		return nil, b.p.newSyntaxError(end, msgExtraneousInput, []string{eofName})
	}
	return node, nil
}

func (b *sllBuilder) buildRule(r *grammar.Rule, pos int) (*Node, int, error) {
	key := activeFrame{
		rule: r.Symbol.Num(),
		pos:  pos,
	}
	if _, ok := b.active[key]; ok {
		return nil, 0, b.noViableAlt(r, pos)
	}
	b.active[key] = struct{}{}
	defer delete(b.active, key)

	var bases []*grammar.Production
	for _, prod := range r.Productions {
		if !prod.LeftRecursive() {
			bases = append(bases, prod)
		}
	}
	primary, reach, ok := b.predict(bases, 0, pos)
	if !ok || (reach == pos && !b.completes(primary, 0, pos, pos)) {
		return nil, 0, b.noViableAlt(r, pos)
	}

	node := &Node{
		Rule: r.Name,
		Alt:  primary.Alt,
	}
	q, err := b.buildSeq(node, primary, 0, pos)
	if err != nil {
		return nil, 0, err
	}

	var tails []*grammar.Production
	for _, prod := range r.Productions {
		if prod.LeftRecursive() {
			tails = append(tails, prod)
		}
	}
	for {
		// Stopping here is viable up to q, so a tail must match beyond it.
		tail, reach, ok := b.predict(tails, 1, q)
		if !ok || reach <= q {
			break
		}

		wrapped := &Node{
			Rule:     r.Name,
			Alt:      tail.Alt,
			Children: []*Node{node},
		}
		end, err := b.buildSeq(wrapped, tail, 1, q)
		if err != nil {
			return nil, 0, err
		}
		node = wrapped
		if end == q {
			break
		}
		q = end
	}

	return node, q, nil
}

// predict picks the alternative that keeps matching the input furthest from a position. Among
// alternatives reaching equally far, one completing there beats one getting stuck there, and
// then the lowest-numbered one wins.
func (b *sllBuilder) predict(prods []*grammar.Production, head, pos int) (*grammar.Production, int, bool) {
	var best *grammar.Production
	bestReach := -1
	bestCompletes := false
	for _, prod := range prods {
		reach := b.c.seqReach(prod, head, pos)
		completes := b.completes(prod, head, pos, reach)
		if reach > bestReach || (reach == bestReach && completes && !bestCompletes) {
			best = prod
			bestReach = reach
			bestCompletes = completes
		}
	}
	if best == nil {
		return nil, 0, false
	}
	tracer().Debugf("sll: predict %v #%v at %v; reach: %v", best.LHS, best.Alt, pos, bestReach)
	return best, bestReach, true
}

// completes reports whether prod.RHS[head:] derives input[from:to].
func (b *sllBuilder) completes(prod *grammar.Production, head, from, to int) bool {
	if head == 0 {
		return b.c.prodDerives(prod, from, to)
	}
	return b.c.seqDerives(prod, head, from, to)
}

func (b *sllBuilder) buildSeq(node *Node, prod *grammar.Production, head, pos int) (int, error) {
	q := pos
	for _, sym := range prod.RHS[head:] {
		if sym.IsTerminal() {
			if q >= b.c.n || b.c.terms[q] != sym {
				return 0, b.p.newSyntaxError(q, msgMismatchedInput, []string{b.c.g.Terminal(sym).Name})
			}
			node.Children = append(node.Children, &Node{
				Token: b.c.input[q],
			})
			q++
			continue
		}

		child, end, err := b.buildRule(b.c.g.Rule(sym), q)
		if err != nil {
			return 0, err
		}
		node.Children = append(node.Children, child)
		q = end
	}
	return q, nil
}

func (b *sllBuilder) noViableAlt(r *grammar.Rule, pos int) error {
	var expected []string
	for _, prod := range r.Productions {
		syms, _, err := b.c.g.First(prod, 0)
		if err != nil {
			continue
		}
		expected = append(expected, b.p.terminalNames(syms)...)
	}
	return b.p.newSyntaxError(pos, msgNoViableAlt, expected)
}
