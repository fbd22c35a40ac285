package harness

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies a failed run.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureIO
	FailureLex
	FailureUnknownRule
	FailureParse
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureIO:
		return "io"
	case FailureLex:
		return "lex"
	case FailureUnknownRule:
		return "unknown-rule"
	case FailureParse:
		return "parse"
	}
	return "<unknown>"
}

// ParseFailureKind is the inverse of FailureKind.String.
func ParseFailureKind(s string) (FailureKind, error) {
	for _, k := range []FailureKind{FailureIO, FailureLex, FailureUnknownRule, FailureParse} {
		if k.String() == s {
			return k, nil
		}
	}
	return FailureNone, fmt.Errorf("unknown failure kind: %v", s)
}

// IOError means a source could not be opened or read.
type IOError struct {
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot read the source %v: %v", e.Path, e.Cause)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// LexError means an artifact lexer could not be built or could not produce its tokens.
type LexError struct {
	Cause error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error: %v", e.Cause)
}

func (e *LexError) Unwrap() error {
	return e.Cause
}

// UnknownRuleError means a requested rule does not exist on a parser.
type UnknownRuleError struct {
	Rule  string
	Known []string
}

func (e *UnknownRuleError) Error() string {
	if len(e.Known) == 0 {
		return "the parser has no rules"
	}
	return fmt.Sprintf("unknown rule: %v (known rules: %v)", e.Rule, strings.Join(e.Known, ", "))
}

// ParseError means a rule function reported a fault.
type ParseError struct {
	Rule  string
	Mode  PredictionMode
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse with %v (%v): %v", e.Rule, e.Mode, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// KindOf returns the failure kind of an error returned by this package.
func KindOf(err error) FailureKind {
	var ioErr *IOError
	var lexErr *LexError
	var ruleErr *UnknownRuleError
	var parseErr *ParseError
	switch {
	case err == nil:
		return FailureNone
	case errors.As(err, &ioErr):
		return FailureIO
	case errors.As(err, &lexErr):
		return FailureLex
	case errors.As(err, &ruleErr):
		return FailureUnknownRule
	case errors.As(err, &parseErr):
		return FailureParse
	}
	return FailureNone
}
