package grammar

import (
	"fmt"
	"sort"
)

// symbolSet is an unordered set of terminals.
type symbolSet map[Symbol]struct{}

func (s symbolSet) add(sym Symbol) bool {
	if _, ok := s[sym]; ok {
		return false
	}
	s[sym] = struct{}{}
	return true
}

func (s symbolSet) union(other symbolSet) bool {
	changed := false
	for sym := range other {
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

// sorted returns the members ordered by their symbol numbers.
func (s symbolSet) sorted() []Symbol {
	syms := make([]Symbol, 0, len(s))
	for sym := range s {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Num() < syms[j].Num()
	})
	return syms
}

// firstEntry is FIRST of a sequence of symbols. empty is true when the whole sequence derives ε.
type firstEntry struct {
	symbols symbolSet
	empty   bool
}

type firstSet struct {
	nullable map[Symbol]bool
	set      map[Symbol]symbolSet
}

func genFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{
		nullable: genNullableSet(prods),
		set:      map[Symbol]symbolSet{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.LHS]; !ok {
			fst.set[prod.LHS] = symbolSet{}
		}
	}

	for changed := true; changed; {
		changed = false
		for _, prod := range prods.getAllProductions() {
			acc := fst.set[prod.LHS]
			for _, sym := range prod.RHS {
				if sym.IsTerminal() {
					if acc.add(sym) {
						changed = true
					}
					break
				}
				if acc.union(fst.set[sym]) {
					changed = true
				}
				if !fst.nullable[sym] {
					break
				}
			}
		}
	}

	return fst
}

// genNullableSet collects the non-terminals that derive ε.
func genNullableSet(prods *productionSet) map[Symbol]bool {
	nullable := map[Symbol]bool{}
	for changed := true; changed; {
		changed = false
		for _, prod := range prods.getAllProductions() {
			if nullable[prod.LHS] {
				continue
			}
			all := true
			for _, sym := range prod.RHS {
				if sym.IsTerminal() || !nullable[sym] {
					all = false
					break
				}
			}
			if all {
				nullable[prod.LHS] = true
				changed = true
			}
		}
	}
	return nullable
}

// find returns FIRST of prod.RHS[head:].
func (fst *firstSet) find(prod *Production, head int) (*firstEntry, error) {
	entry := &firstEntry{
		symbols: symbolSet{},
	}
	if head < len(prod.RHS) {
		for _, sym := range prod.RHS[head:] {
			if sym.IsTerminal() {
				entry.symbols.add(sym)
				return entry, nil
			}
			syms, ok := fst.set[sym]
			if !ok {
				return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
			}
			entry.symbols.union(syms)
			if !fst.nullable[sym] {
				return entry, nil
			}
		}
	}
	entry.empty = true
	return entry, nil
}
