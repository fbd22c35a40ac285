package driver

import (
	"fmt"

	"github.com/nihei9/treerig/grammar"
	"github.com/nihei9/treerig/harness"
)

type ambiguity struct {
	rule  *grammar.Rule
	alts  []int
	start int
	stop  int
}

// llBuilder extracts a tree from an accepting chart using the full context. Each rule node knows
// the end positions its caller can continue from, and takes the lowest-numbered alternative that
// reaches one of them.
type llBuilder struct {
	p      *Parser
	c      *chart
	report bool
	ambs   []*ambiguity
}

func newLLBuilder(p *Parser, c *chart, report bool) *llBuilder {
	return &llBuilder{
		p:      p,
		c:      c,
		report: report,
	}
}

func (b *llBuilder) build(r *grammar.Rule) (*Node, error) {
	node, _, err := b.buildRule(r, 0, []int{b.c.n})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (b *llBuilder) buildRule(r *grammar.Rule, pos int, ends []int) (*Node, int, error) {
	var viable []*grammar.Production
	var viableEnds [][]int
	for _, prod := range r.Productions {
		var es []int
		for _, e := range ends {
			if b.c.prodDerives(prod, pos, e) {
				es = append(es, e)
			}
		}
		if len(es) == 0 {
			continue
		}
		viable = append(viable, prod)
		viableEnds = append(viableEnds, es)
	}
	if len(viable) == 0 {
		return nil, 0, fmt.Errorf("%v has no viable alternative at position %v", r.Name, pos)
	}

	if b.report && len(viable) > 1 {
		amb := &ambiguity{
			rule:  r,
			start: pos,
			stop:  pos,
		}
		for i, prod := range viable {
			amb.alts = append(amb.alts, prod.Alt)
			for _, e := range viableEnds[i] {
				if e > amb.stop {
					amb.stop = e
				}
			}
		}
		tracer().Debugf("ambiguity: %v %v at %v", r.Name, amb.alts, pos)
		b.ambs = append(b.ambs, amb)
	}

	prod := viable[0]
	node := &Node{
		Rule: r.Name,
		Alt:  prod.Alt,
	}
	end, err := b.buildSeq(node, prod, pos, viableEnds[0])
	if err != nil {
		return nil, 0, err
	}
	return node, end, nil
}

func (b *llBuilder) buildSeq(node *Node, prod *grammar.Production, pos int, ends []int) (int, error) {
	q := pos
	for k, sym := range prod.RHS {
		if sym.IsTerminal() {
			if q >= b.c.n || b.c.terms[q] != sym {
				return 0, fmt.Errorf("unexpected terminal at position %v", q)
			}
			node.Children = append(node.Children, &Node{
				Token: b.c.input[q],
			})
			q++
		} else {
			var next []int
			for m := q; m <= b.c.n; m++ {
				if !b.c.derives(sym, q, m) {
					continue
				}
				for _, e := range ends {
					if e >= m && b.c.seqDerives(prod, k+1, m, e) {
						next = append(next, m)
						break
					}
				}
			}
			child, m, err := b.buildRule(b.c.g.Rule(sym), q, next)
			if err != nil {
				return 0, err
			}
			node.Children = append(node.Children, child)
			q = m
		}

		var rest []int
		for _, e := range ends {
			if e >= q && b.c.seqDerives(prod, k+1, q, e) {
				rest = append(rest, e)
			}
		}
		if len(rest) == 0 {
			return 0, fmt.Errorf("%v cannot be completed at position %v", b.c.g.Rule(prod.LHS).Name, q)
		}
		ends = rest
	}
	return q, nil
}

// ambiguities converts visible positions into token indices.
func (b *llBuilder) ambiguities() []*harness.Ambiguity {
	var ambs []*harness.Ambiguity
	for _, amb := range b.ambs {
		tok, row, col := b.p.position(amb.start)
		start := len(b.p.toks)
		if tok != nil {
			start = tok.Index
		}
		stop := start - 1
		if amb.stop > amb.start {
			stop = b.p.input[amb.stop-1].Index
		}
		ambs = append(ambs, &harness.Ambiguity{
			Rule:         amb.rule.Name,
			Alternatives: amb.alts,
			Start:        start,
			Stop:         stop,
			Row:          row,
			Col:          col,
		})
	}
	return ambs
}
