package grammar

import (
	"fmt"
)

// followEntry is FOLLOW of a non-terminal. eof is true when the non-terminal can end the input.
type followEntry struct {
	symbols symbolSet
	eof     bool
}

type followSet map[Symbol]*followEntry

func (flw followSet) find(sym Symbol) (*followEntry, error) {
	e, ok := flw[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

// genFollowSet computes FOLLOW sets for derivations from a start rule. Any rule can be a start
// rule, so the sets depend on which one ends the input.
func genFollowSet(prods *productionSet, first *firstSet, start Symbol) (followSet, error) {
	flw := followSet{}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw[prod.LHS]; !ok {
			flw[prod.LHS] = &followEntry{
				symbols: symbolSet{},
			}
		}
	}
	e, err := flw.find(start)
	if err != nil {
		return nil, err
	}
	e.eof = true

	for changed := true; changed; {
		changed = false
		for _, prod := range prods.getAllProductions() {
			lhs, err := flw.find(prod.LHS)
			if err != nil {
				return nil, err
			}
			for i, sym := range prod.RHS {
				if sym.IsTerminal() {
					continue
				}
				e, err := flw.find(sym)
				if err != nil {
					return nil, err
				}
				fst, err := first.find(prod, i+1)
				if err != nil {
					return nil, err
				}
				if e.symbols.union(fst.symbols) {
					changed = true
				}
				if !fst.empty {
					continue
				}
				if e.symbols.union(lhs.symbols) {
					changed = true
				}
				if lhs.eof && !e.eof {
					e.eof = true
					changed = true
				}
			}
		}
	}

	return flw, nil
}

// Follow returns the terminals that can follow a rule in derivations from a start rule, sorted by
// their numbers, and whether the rule can end the input.
func (g *Grammar) Follow(start, rule *Rule) ([]Symbol, bool, error) {
	flw, err := genFollowSet(g.prods, g.first, start.Symbol)
	if err != nil {
		return nil, false, err
	}
	e, err := flw.find(rule.Symbol)
	if err != nil {
		return nil, false, err
	}
	return e.symbols.sorted(), e.eof, nil
}
