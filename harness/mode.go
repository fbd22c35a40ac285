package harness

import (
	"golang.org/x/text/cases"
)

// PredictionMode is a strategy a parser uses to choose among alternatives.
type PredictionMode int

const (
	// LL chooses alternatives using the full parser context.
	LL PredictionMode = iota

	// SLL chooses alternatives ignoring what the caller of a rule needs afterwards.
	SLL

	// LLExactAmbiguityDetection behaves like LL and also reports every ambiguous decision.
	LLExactAmbiguityDetection
)

func (m PredictionMode) String() string {
	switch m {
	case LL:
		return "LL"
	case SLL:
		return "SLL"
	case LLExactAmbiguityDetection:
		return "LL_EXACT_AMBIG_DETECTION"
	}
	return "<unknown>"
}

// ParsePredictionMode maps a strategy string to a PredictionMode. `sll` and `ll` are matched
// case-insensitively; any other string selects LLExactAmbiguityDetection.
func ParsePredictionMode(s string) PredictionMode {
	switch cases.Fold().String(s) {
	case "sll":
		return SLL
	case "ll":
		return LL
	}
	return LLExactAmbiguityDetection
}
