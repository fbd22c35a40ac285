package harness

import "io"

// Tokenize builds the artifact lexer over src and materializes every token before any parsing
// starts. Lexical recognition errors appear as invalid tokens and do not abort tokenization.
func Tokenize(src io.Reader, a Artifact) ([]*Token, error) {
	lex, err := a.NewLexer(src)
	if err != nil {
		return nil, &LexError{Cause: err}
	}
	toks, err := lex.AllTokens()
	if err != nil {
		return nil, &LexError{Cause: err}
	}
	for i, tok := range toks {
		tok.Index = i
	}
	tracer().Debugf("tokenized: %v tokens", len(toks))
	return toks, nil
}
