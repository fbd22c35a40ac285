package driver

import (
	"github.com/nihei9/treerig/grammar"
	"github.com/nihei9/treerig/harness"
)

type item struct {
	prod   *grammar.Production
	dot    int
	origin int
}

func (i item) next() (grammar.Symbol, bool) {
	if i.dot >= len(i.prod.RHS) {
		return grammar.SymbolNil, false
	}
	return i.prod.RHS[i.dot], true
}

type itemSet struct {
	items []item
	seen  map[item]struct{}
}

func newItemSet() *itemSet {
	return &itemSet{
		seen: map[item]struct{}{},
	}
}

func (s *itemSet) add(i item) {
	if _, ok := s.seen[i]; ok {
		return
	}
	s.seen[i] = struct{}{}
	s.items = append(s.items, i)
}

type ruleSpan struct {
	rule int
	from int
	to   int
}

type prodSpan struct {
	prod int
	from int
	to   int
}

type reachKey struct {
	num  int
	head int
	from int
}

type seqKey struct {
	prod int
	head int
	from int
	to   int
}

// chart is an Earley chart over visible tokens. Set i holds the items before input[i].
type chart struct {
	g     *grammar.Grammar
	input []*harness.Token
	terms []grammar.Symbol
	n     int
	start *grammar.Rule
	sets  []*itemSet

	completed     map[ruleSpan]struct{}
	prodCompleted map[prodSpan]struct{}
	seq           map[seqKey]bool
	seqReaches    map[reachKey]int
	ruleReaches   map[reachKey]int
}

func newChart(g *grammar.Grammar, input []*harness.Token, terms []grammar.Symbol, start *grammar.Rule) *chart {
	sets := make([]*itemSet, len(input)+1)
	for i := range sets {
		sets[i] = newItemSet()
	}
	return &chart{
		g:             g,
		input:         input,
		terms:         terms,
		n:             len(input),
		start:         start,
		sets:          sets,
		completed:     map[ruleSpan]struct{}{},
		prodCompleted: map[prodSpan]struct{}{},
		seq:           map[seqKey]bool{},
		seqReaches:    map[reachKey]int{},
		ruleReaches:   map[reachKey]int{},
	}
}

func (c *chart) run() {
	for _, prod := range c.start.Productions {
		c.sets[0].add(item{
			prod:   prod,
			dot:    0,
			origin: 0,
		})
	}
	for i := 0; i <= c.n; i++ {
		set := c.sets[i]
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			sym, ok := it.next()
			switch {
			case !ok:
				c.complete(i, it)
			case sym.IsTerminal():
				c.scan(i, it, sym)
			default:
				c.predict(i, it, sym)
			}
		}
	}
	tracer().Debugf("earley: %v tokens, %v completions", c.n, len(c.completed))
}

func (c *chart) scan(i int, it item, sym grammar.Symbol) {
	if i >= c.n || c.terms[i] != sym {
		return
	}
	c.sets[i+1].add(item{
		prod:   it.prod,
		dot:    it.dot + 1,
		origin: it.origin,
	})
}

// predict adds the alternatives of a non-terminal. When the non-terminal is nullable, the item
// also advances over it at once, so that empty completions reach items added later to the set.
func (c *chart) predict(i int, it item, sym grammar.Symbol) {
	r := c.g.Rule(sym)
	for _, prod := range r.Productions {
		c.sets[i].add(item{
			prod:   prod,
			dot:    0,
			origin: i,
		})
	}
	if c.g.Nullable(sym) {
		c.sets[i].add(item{
			prod:   it.prod,
			dot:    it.dot + 1,
			origin: it.origin,
		})
	}
}

func (c *chart) complete(i int, it item) {
	lhs := it.prod.LHS
	c.completed[ruleSpan{rule: lhs.Num(), from: it.origin, to: i}] = struct{}{}
	c.prodCompleted[prodSpan{prod: it.prod.Num, from: it.origin, to: i}] = struct{}{}

	waiting := c.sets[it.origin]
	for j := 0; j < len(waiting.items); j++ {
		w := waiting.items[j]
		sym, ok := w.next()
		if !ok || sym != lhs {
			continue
		}
		c.sets[i].add(item{
			prod:   w.prod,
			dot:    w.dot + 1,
			origin: w.origin,
		})
	}
}

func (c *chart) accepted() bool {
	_, ok := c.completed[ruleSpan{rule: c.start.Symbol.Num(), from: 0, to: c.n}]
	return ok
}

// derives reports whether a symbol derives input[from:to].
func (c *chart) derives(sym grammar.Symbol, from, to int) bool {
	if sym.IsTerminal() {
		return to == from+1 && from < c.n && c.terms[from] == sym
	}
	_, ok := c.completed[ruleSpan{rule: sym.Num(), from: from, to: to}]
	return ok
}

func (c *chart) prodDerives(prod *grammar.Production, from, to int) bool {
	_, ok := c.prodCompleted[prodSpan{prod: prod.Num, from: from, to: to}]
	return ok
}

// seqDerives reports whether prod.RHS[head:] derives input[from:to].
func (c *chart) seqDerives(prod *grammar.Production, head, from, to int) bool {
	if head >= len(prod.RHS) {
		return from == to
	}
	if from > to {
		return false
	}
	key := seqKey{
		prod: prod.Num,
		head: head,
		from: from,
		to:   to,
	}
	if v, ok := c.seq[key]; ok {
		return v
	}

	derived := false
	sym := prod.RHS[head]
	if sym.IsTerminal() {
		derived = c.derives(sym, from, from+1) && c.seqDerives(prod, head+1, from+1, to)
	} else {
		for m := from; m <= to; m++ {
			if c.derives(sym, from, m) && c.seqDerives(prod, head+1, m, to) {
				derived = true
				break
			}
		}
	}
	c.seq[key] = derived
	return derived
}

// seqReach returns the furthest position up to which some derivation of prod.RHS[head:] matches
// the input from a position, whether the derivation completes there or gets stuck.
func (c *chart) seqReach(prod *grammar.Production, head, from int) int {
	key := reachKey{
		num:  prod.Num,
		head: head,
		from: from,
	}
	if v, ok := c.seqReaches[key]; ok {
		return v
	}
	// A recursive derivation sees the starting position until the entry is settled.
	c.seqReaches[key] = from

	reach := from
	if head < len(prod.RHS) {
		sym := prod.RHS[head]
		if sym.IsTerminal() {
			if c.derives(sym, from, from+1) {
				reach = c.seqReach(prod, head+1, from+1)
			}
		} else {
			reach = c.ruleReach(c.g.Rule(sym), from)
			for m := from; m <= c.n; m++ {
				if !c.derives(sym, from, m) {
					continue
				}
				if e := c.seqReach(prod, head+1, m); e > reach {
					reach = e
				}
			}
		}
	}
	c.seqReaches[key] = reach
	return reach
}

// ruleReach returns the furthest position up to which some alternative of a rule matches the
// input from a position.
func (c *chart) ruleReach(r *grammar.Rule, from int) int {
	key := reachKey{
		num:  r.Symbol.Num(),
		head: -1,
		from: from,
	}
	if v, ok := c.ruleReaches[key]; ok {
		return v
	}
	c.ruleReaches[key] = from

	reach := from
	for _, prod := range r.Productions {
		if e := c.seqReach(prod, 0, from); e > reach {
			reach = e
		}
	}
	c.ruleReaches[key] = reach
	return reach
}

// furthest returns the last position the chart reached.
func (c *chart) furthest() int {
	for i := c.n; i > 0; i-- {
		if len(c.sets[i].items) > 0 {
			return i
		}
	}
	return 0
}

// expectedAt returns the terminals the chart can scan at a position.
func (c *chart) expectedAt(i int) []grammar.Symbol {
	var syms []grammar.Symbol
	seen := map[grammar.Symbol]struct{}{}
	for _, it := range c.sets[i].items {
		sym, ok := it.next()
		if !ok || !sym.IsTerminal() {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		syms = append(syms, sym)
	}
	return syms
}

func (c *chart) startCompletedAt(i int) bool {
	_, ok := c.completed[ruleSpan{rule: c.start.Symbol.Num(), from: 0, to: i}]
	return ok
}
