package main

import (
	"strings"
	"unicode/utf8"

	"github.com/nihei9/treerig/harness"
)

const maxTokenTextLen = 8

// formatTokens lists kind names of tokens. A token text different from its kind name follows
// the name in parentheses.
func formatTokens(toks []*harness.Token) string {
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.KindName)
		text := strings.NewReplacer("\r", "", "\n", "").Replace(tok.Text)
		if !strings.EqualFold(tok.KindName, text) {
			if utf8.RuneCountInString(text) > maxTokenTextLen {
				text = string([]rune(text)[:maxTokenTextLen]) + "..."
			}
			b.WriteString("(")
			b.WriteString(text)
			b.WriteString(")")
		}
		b.WriteString(" ")
	}
	b.WriteString("EOF")
	return b.String()
}
