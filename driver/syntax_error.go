package driver

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/treerig/harness"
)

const eofName = "<EOF>"

const (
	msgMismatchedInput = "mismatched input"
	msgNoViableAlt     = "no viable alternative at input"
	msgExtraneousInput = "extraneous input"
)

// SyntaxError is a parse failure at a token. Token is nil at the end of the input. Row and Col
// are 0-based.
type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             *harness.Token
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	text := eofName
	if e.Token != nil {
		text = e.Token.Text
	}
	fmt.Fprintf(&b, "line %v:%v %v '%v'", e.Row+1, e.Col, e.Message, text)
	switch len(e.ExpectedTerminals) {
	case 0:
	case 1:
		fmt.Fprintf(&b, " expecting %v", e.ExpectedTerminals[0])
	default:
		fmt.Fprintf(&b, " expecting {%v}", strings.Join(e.ExpectedTerminals, ", "))
	}
	return b.String()
}

// sortedNames deduplicates and sorts terminal names.
func sortedNames(names []string) []string {
	set := treeset.NewWithStringComparator()
	for _, name := range names {
		set.Add(name)
	}
	sorted := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		sorted = append(sorted, v.(string))
	}
	return sorted
}
