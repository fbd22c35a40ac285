package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs Symbol, rhs []Symbol) productionID {
	seq := lhs.byte()
	for _, sym := range rhs {
		seq = append(seq, sym.byte()...)
	}
	return productionID(sha256.Sum256(seq))
}

// Production is an alternative of a rule.
type Production struct {
	id productionID

	// Num is unique in a grammar. Alt is the 1-based alternative number within the LHS rule.
	Num int
	Alt int
	LHS Symbol
	RHS []Symbol
}

func newProduction(lhs Symbol, rhs []Symbol) (*Production, error) {
	if lhs.IsNil() || lhs.IsTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &Production{
		id:  genProductionID(lhs, rhs),
		LHS: lhs,
		RHS: rhs,
	}, nil
}

func (p *Production) isEmpty() bool {
	return len(p.RHS) == 0
}

// LeftRecursive reports whether the first RHS symbol is the LHS itself.
func (p *Production) LeftRecursive() bool {
	return len(p.RHS) > 0 && p.RHS[0] == p.LHS
}

type productionSet struct {
	lhs2Prods map[Symbol][]*Production
	id2Prod   map[productionID]*Production
	prods     []*Production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[Symbol][]*Production{},
		id2Prod:   map[productionID]*Production{},
	}
}

// append numbers a production and registers it. It returns false when the same production
// already exists.
func (ps *productionSet) append(prod *Production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	prod.Num = len(ps.prods)
	prod.Alt = len(ps.lhs2Prods[prod.LHS]) + 1
	ps.lhs2Prods[prod.LHS] = append(ps.lhs2Prods[prod.LHS], prod)
	ps.id2Prod[prod.id] = prod
	ps.prods = append(ps.prods, prod)

	return true
}

func (ps *productionSet) findByLHS(lhs Symbol) ([]*Production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) getAllProductions() []*Production {
	return ps.prods
}
