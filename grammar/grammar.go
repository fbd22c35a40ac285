package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/treerig/error"
	"github.com/nihei9/treerig/spec"
)

// Terminal is a token kind of a grammar.
type Terminal struct {
	Symbol Symbol

	// Name is a production name for named terminals, and a quoted literal or pattern for
	// anonymous ones.
	Name      string
	Anonymous bool

	// Pattern is a maleeni pattern. Literal terminals hold an escaped literal.
	Pattern string
	Literal bool

	// Skip terminals are recognized by a lexer but never passed to a parser.
	Skip bool
}

// Rule is a non-terminal and its alternatives in declaration order.
type Rule struct {
	Symbol      Symbol
	Name        string
	Productions []*Production
	Pos         spec.Position
}

// Grammar is a compiled grammar description.
type Grammar struct {
	Name    string
	LexSpec *mlspec.CompiledLexSpec

	kindToTerminal []Symbol
	terminals      []*Terminal
	rules          []*Rule
	ruleTab        *linkedhashmap.Map
	prods          *productionSet
	first          *firstSet
}

// RuleNames returns rule names in declaration order.
func (g *Grammar) RuleNames() []string {
	keys := g.ruleTab.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

func (g *Grammar) RuleByName(name string) (*Rule, bool) {
	v, ok := g.ruleTab.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Rule), true
}

// Rules returns rules in declaration order.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

func (g *Grammar) Rule(sym Symbol) *Rule {
	if sym.IsNil() || sym.IsTerminal() || sym.Num() >= len(g.rules) {
		return nil
	}
	return g.rules[sym.Num()]
}

func (g *Grammar) Terminal(sym Symbol) *Terminal {
	if !sym.IsTerminal() || sym.Num() >= len(g.terminals) {
		return nil
	}
	return g.terminals[sym.Num()]
}

// Terminals returns terminals in the order of their numbers.
func (g *Grammar) Terminals() []*Terminal {
	return g.terminals[1:]
}

// TerminalByKind maps a maleeni kind ID to a terminal.
func (g *Grammar) TerminalByKind(kindID int) (*Terminal, bool) {
	if kindID <= 0 || kindID >= len(g.kindToTerminal) {
		return nil, false
	}
	t := g.Terminal(g.kindToTerminal[kindID])
	return t, t != nil
}

func (g *Grammar) Productions() []*Production {
	return g.prods.getAllProductions()
}

// Nullable reports whether a symbol can derive the empty string.
func (g *Grammar) Nullable(sym Symbol) bool {
	if sym.IsTerminal() {
		return false
	}
	return g.first.nullable[sym]
}

// First returns the terminals that can begin the RHS of a production from a head position, sorted
// by their numbers, and whether that part of the RHS can derive the empty string.
func (g *Grammar) First(prod *Production, head int) ([]Symbol, bool, error) {
	e, err := g.first.find(prod, head)
	if err != nil {
		return nil, false, err
	}
	return e.symbols.sorted(), e.empty, nil
}

type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	g := &Grammar{
		terminals: []*Terminal{nil},
		ruleTab:   linkedhashmap.New(),
		prods:     newProductionSet(),
	}

	g.Name = b.genName()

	err := b.genRules(g)
	if err != nil {
		return nil, err
	}

	termTab, pat2Term, err := b.genTerminals(g)
	if err != nil {
		return nil, err
	}

	err = b.genProductions(g, termTab, pat2Term)
	if err != nil {
		return nil, err
	}

	if len(g.rules) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoProduction,
		})
	}
	if len(g.terminals) <= 1 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoTerminal,
		})
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	g.first = genFirstSet(g.prods)
	b.checkCyclicDerivations(g)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	err = b.compileLexSpec(g)
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return g, nil
}

func (b *GrammarBuilder) genName() string {
	var name string
	for _, dir := range b.AST.Directives {
		if dir.Name != "name" {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDirInvalidName,
				Detail: dir.Name,
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
			continue
		}
		if len(dir.Parameters) != 1 {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDirInvalidParam,
				Detail: "'name' directive needs just one ID parameter",
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
			continue
		}
		name = dir.Parameters[0].ID
	}
	return name
}

func (b *GrammarBuilder) genRules(g *Grammar) error {
	for _, prod := range b.AST.Productions {
		if _, exist := g.ruleTab.Get(prod.LHS); exist {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateProductionName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		for _, dir := range prod.Directives {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDirInvalidName,
				Detail: fmt.Sprintf("a syntactic production cannot have '%v' directive", dir.Name),
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
		}

		sym, err := newNonTerminalSymbol(len(g.rules))
		if err != nil {
			return err
		}
		r := &Rule{
			Symbol: sym,
			Name:   prod.LHS,
			Pos:    prod.Pos,
		}
		g.rules = append(g.rules, r)
		g.ruleTab.Put(prod.LHS, r)
	}
	return nil
}

func (b *GrammarBuilder) registerTerminal(g *Grammar, t *Terminal) error {
	sym, err := newTerminalSymbol(len(g.terminals))
	if err != nil {
		return err
	}
	t.Symbol = sym
	g.terminals = append(g.terminals, t)
	return nil
}

func elemPattern(elem *spec.ElementNode) string {
	if elem.Literally {
		return mlspec.EscapePattern(elem.Pattern)
	}
	return elem.Pattern
}

// genTerminals registers named terminals in declaration order and then anonymous terminals in
// order of appearance. An anonymous terminal with the same pattern as another terminal shares it.
func (b *GrammarBuilder) genTerminals(g *Grammar) (map[string]*Terminal, map[string]*Terminal, error) {
	termTab := map[string]*Terminal{}
	pat2Term := map[string]*Terminal{}
	for _, prod := range b.AST.LexProductions {
		if _, exist := g.ruleTab.Get(prod.LHS); exist {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		if _, exist := termTab[prod.LHS]; exist {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateTerminal,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}

		skip := false
		for _, dir := range prod.Directives {
			if dir.Name != "skip" {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDirInvalidName,
					Detail: dir.Name,
					Row:    dir.Pos.Row,
					Col:    dir.Pos.Col,
				})
				continue
			}
			if len(dir.Parameters) > 0 {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDirInvalidParam,
					Detail: "'skip' directive needs no parameter",
					Row:    dir.Pos.Row,
					Col:    dir.Pos.Col,
				})
				continue
			}
			skip = true
		}

		elem := prod.RHS[0].Elements[0]
		t := &Terminal{
			Name:    prod.LHS,
			Pattern: elemPattern(elem),
			Literal: elem.Literally,
			Skip:    skip,
		}
		err := b.registerTerminal(g, t)
		if err != nil {
			return nil, nil, err
		}
		termTab[prod.LHS] = t
		if _, ok := pat2Term[t.Pattern]; !ok {
			pat2Term[t.Pattern] = t
		}
	}

	for _, prod := range b.AST.Productions {
		for _, alt := range prod.RHS {
			for _, elem := range alt.Elements {
				if elem.Pattern == "" {
					continue
				}
				pat := elemPattern(elem)
				if _, ok := pat2Term[pat]; ok {
					continue
				}

				var name string
				if elem.Literally {
					name = fmt.Sprintf("'%v'", elem.Pattern)
				} else {
					name = fmt.Sprintf("\"%v\"", elem.Pattern)
				}
				t := &Terminal{
					Name:      name,
					Anonymous: true,
					Pattern:   pat,
					Literal:   elem.Literally,
				}
				err := b.registerTerminal(g, t)
				if err != nil {
					return nil, nil, err
				}
				pat2Term[pat] = t
			}
		}
	}

	return termTab, pat2Term, nil
}

func (b *GrammarBuilder) genProductions(g *Grammar, termTab map[string]*Terminal, pat2Term map[string]*Terminal) error {
	for _, prod := range b.AST.Productions {
		v, _ := g.ruleTab.Get(prod.LHS)
		r := v.(*Rule)
		if r.Pos != prod.Pos {
			// A duplicate production name was reported already.
			continue
		}

	ALTERNATIVES:
		for _, alt := range prod.RHS {
			rhs := make([]Symbol, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				if elem.Pattern != "" {
					rhs = append(rhs, pat2Term[elemPattern(elem)].Symbol)
					continue
				}
				if v, ok := g.ruleTab.Get(elem.ID); ok {
					rhs = append(rhs, v.(*Rule).Symbol)
					continue
				}
				if t, ok := termTab[elem.ID]; ok {
					if t.Skip {
						b.errs = append(b.errs, &verr.SpecError{
							Cause:  semErrTermCannotBeSkipped,
							Detail: elem.ID,
							Row:    elem.Pos.Row,
							Col:    elem.Pos.Col,
						})
						continue ALTERNATIVES
					}
					rhs = append(rhs, t.Symbol)
					continue
				}
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrUndefinedSym,
					Detail: elem.ID,
					Row:    elem.Pos.Row,
					Col:    elem.Pos.Col,
				})
				continue ALTERNATIVES
			}

			p, err := newProduction(r.Symbol, rhs)
			if err != nil {
				return err
			}
			if !g.prods.append(p) {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDuplicateProduction,
					Detail: prod.LHS,
					Row:    alt.Pos.Row,
					Col:    alt.Pos.Col,
				})
				continue
			}
			r.Productions = append(r.Productions, p)
		}
	}
	return nil
}

// checkCyclicDerivations reports non-terminals A such that A derives A through a chain of
// productions whose other symbols are all nullable.
func (b *GrammarBuilder) checkCyclicDerivations(g *Grammar) {
	edges := make([][]Symbol, len(g.rules))
	for _, prod := range g.prods.getAllProductions() {
		for i, sym := range prod.RHS {
			if sym.IsTerminal() {
				continue
			}
			others := true
			for j, s := range prod.RHS {
				if j != i && !g.Nullable(s) {
					others = false
					break
				}
			}
			if others {
				edges[prod.LHS.Num()] = append(edges[prod.LHS.Num()], sym)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	state := make([]int, len(g.rules))
	reported := make([]bool, len(g.rules))
	var visit func(n int)
	visit = func(n int) {
		state[n] = visiting
		for _, sym := range edges[n] {
			m := sym.Num()
			switch state[m] {
			case unvisited:
				visit(m)
			case visiting:
				if reported[m] {
					continue
				}
				reported[m] = true
				r := g.rules[m]
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrCyclicDerivation,
					Detail: r.Name,
					Row:    r.Pos.Row,
					Col:    r.Pos.Col,
				})
			}
		}
		state[n] = visited
	}
	for n := range g.rules {
		if state[n] == unvisited {
			visit(n)
		}
	}
}

func kindName(t *Terminal) mlspec.LexKindName {
	return mlspec.LexKindName(fmt.Sprintf("x_%v", t.Symbol.Num()))
}

// compileLexSpec compiles terminals with maleeni. Literal terminals precede pattern terminals so
// that a keyword wins over an identifier pattern matching the same text.
func (b *GrammarBuilder) compileLexSpec(g *Grammar) error {
	kind2Term := map[mlspec.LexKindName]*Terminal{}
	var literals, patterns []*mlspec.LexEntry
	for _, t := range g.Terminals() {
		k := kindName(t)
		kind2Term[k] = t
		entry := &mlspec.LexEntry{
			Kind:    k,
			Pattern: mlspec.LexPattern(t.Pattern),
		}
		if t.Literal {
			literals = append(literals, entry)
		} else {
			patterns = append(patterns, entry)
		}
	}

	name := g.Name
	if name == "" {
		name = "grammar"
	}
	lexSpec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    name,
		Entries: append(literals, patterns...),
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) == 0 {
			return err
		}
		for _, cErr := range cErrs {
			var b2 strings.Builder
			if t, ok := kind2Term[mlspec.LexKindName(fmt.Sprint(cErr.Kind))]; ok {
				fmt.Fprintf(&b2, "%v: ", t.Name)
			}
			fmt.Fprintf(&b2, "%v", cErr.Cause)
			if cErr.Detail != "" {
				fmt.Fprintf(&b2, ": %v", cErr.Detail)
			}
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrLexSpec,
				Detail: b2.String(),
			})
		}
		return nil
	}

	kindToTerminal := make([]Symbol, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			kindToTerminal[i] = SymbolNil
			continue
		}
		t, ok := kind2Term[k]
		if !ok {
			return fmt.Errorf("terminal symbol '%v' was not found in a symbol table", k)
		}
		kindToTerminal[i] = t.Symbol
	}

	g.LexSpec = lexSpec
	g.kindToTerminal = kindToTerminal
	return nil
}
