package harness

import "io"

// Token is a lexeme materialized from an artifact lexer.
type Token struct {
	// Index is the position of the token in the materialized sequence.
	Index int

	// Kind is an artifact-defined kind ID. KindName is its display name.
	Kind     int
	KindName string

	Text string

	// Row and Col are 0-based. Col counts code points.
	Row    int
	Col    int
	Offset int

	// Hidden tokens are on an off-channel (white spaces, comments) and are not parsed.
	Hidden bool

	// Invalid tokens are runs of characters no token kind matches.
	Invalid bool
}

// Lexer produces the whole token sequence of a source.
type Lexer interface {
	AllTokens() ([]*Token, error)
}

// RuleFunc parses the token sequence of a parser starting with a particular rule.
type RuleFunc func() (Tree, error)

// Parser is a parser instance bound to one token sequence.
type Parser interface {
	SetPredictionMode(mode PredictionMode)

	// RuleNames returns rule names in declaration order. The first one is the default start rule.
	RuleNames() []string

	// Rules returns an entry point per rule name.
	Rules() map[string]RuleFunc

	// NodeText returns a rule name for an internal node and a token text for a leaf.
	NodeText(t Tree) string
}

// Tree is a parse tree node.
type Tree interface {
	Leaf() bool
	ChildCount() int
	Child(i int) Tree
}

// Artifact is a grammar artifact: a lexer and a parser for one grammar.
type Artifact interface {
	NewLexer(src io.Reader) (Lexer, error)
	NewParser(toks []*Token) (Parser, error)
}

// Ambiguity is a decision where more than one alternative leads to a successful parse.
type Ambiguity struct {
	Rule         string
	Alternatives []int

	// Start and Stop are token indices of the ambiguous span. Stop < Start means the span is empty.
	Start int
	Stop  int

	Row int
	Col int
}

// AmbiguityReporter is implemented by parsers that report ambiguities in
// LLExactAmbiguityDetection mode.
type AmbiguityReporter interface {
	Ambiguities() []*Ambiguity
}
