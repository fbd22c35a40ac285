package harness

import (
	"errors"
	"fmt"
)

type dispatchState int

const (
	stateIdle dispatchState = iota
	stateResolving
	stateStrategySet
	stateParsing
	stateDone
	stateFailed
)

func (s dispatchState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateResolving:
		return "Resolving"
	case stateStrategySet:
		return "StrategySet"
	case stateParsing:
		return "Parsing"
	case stateDone:
		return "Done"
	case stateFailed:
		return "Failed"
	}
	return "<unknown>"
}

type dispatcher struct {
	parser Parser
	state  dispatchState
}

// Dispatch resolves a rule by name, applies a prediction mode and invokes the rule. An empty rule
// selects the first declared rule.
func Dispatch(p Parser, rule string, mode PredictionMode) (Tree, error) {
	d := &dispatcher{
		parser: p,
		state:  stateIdle,
	}
	return d.dispatch(rule, mode)
}

func (d *dispatcher) dispatch(rule string, mode PredictionMode) (Tree, error) {
	d.enter(stateResolving)
	name, f, err := d.resolve(rule)
	if err != nil {
		d.enter(stateFailed)
		return nil, err
	}

	d.enter(stateStrategySet)
	d.parser.SetPredictionMode(mode)

	d.enter(stateParsing)
	tree, err := d.invoke(f)
	if err != nil {
		d.enter(stateFailed)
		return nil, &ParseError{
			Rule:  name,
			Mode:  mode,
			Cause: err,
		}
	}

	d.enter(stateDone)
	return tree, nil
}

func (d *dispatcher) enter(s dispatchState) {
	tracer().Debugf("dispatch: %v -> %v", d.state, s)
	d.state = s
}

func (d *dispatcher) resolve(rule string) (string, RuleFunc, error) {
	names := d.parser.RuleNames()
	if len(names) == 0 {
		return "", nil, &UnknownRuleError{
			Rule: rule,
		}
	}
	if rule == "" {
		rule = names[0]
	}
	declared := false
	for _, name := range names {
		if name == rule {
			declared = true
			break
		}
	}
	f, ok := d.parser.Rules()[rule]
	if !declared || !ok || f == nil {
		return "", nil, &UnknownRuleError{
			Rule:  rule,
			Known: names,
		}
	}
	return rule, f, nil
}

func (d *dispatcher) invoke(f RuleFunc) (tree Tree, retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				err = fmt.Errorf("%v", v)
			}
			tree = nil
			retErr = fmt.Errorf("the rule panicked: %w", err)
		}
	}()

	tree, err := f()
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, errors.New("the rule returned no tree")
	}
	return tree, nil
}
