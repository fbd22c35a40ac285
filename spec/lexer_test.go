package spec

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/nihei9/treerig/error"
)

func TestLexer_Run(t *testing.T) {
	idTok := func(text string) *token {
		return newIDToken(text, newPosition(1, 0))
	}
	termPatTok := func(text string) *token {
		return newTerminalPatternToken(text, newPosition(1, 0))
	}
	strTok := func(text string) *token {
		return newStringLiteralToken(text, newPosition(1, 0))
	}
	symTok := func(kind tokenKind) *token {
		return newSymbolToken(kind, newPosition(1, 0))
	}
	invalidTok := func(text string) *token {
		return newInvalidToken(text, newPosition(1, 0))
	}

	tests := []struct {
		caption string
		src     string
		tokens  []*token
		err     error
	}{
		{
			caption: "the lexer can recognize all kinds of tokens",
			src:     `id"terminal"'string':|;#`,
			tokens: []*token{
				idTok("id"),
				termPatTok("terminal"),
				strTok(`string`),
				symTok(tokenKindColon),
				symTok(tokenKindOr),
				symTok(tokenKindSemicolon),
				symTok(tokenKindDirectiveMarker),
				newEOFToken(newPosition(1, 0)),
			},
		},
		{
			caption: "white spaces, newlines and comments are skipped",
			src: "a // comment\n\tb\r\nc",
			tokens: []*token{
				idTok("a"),
				idTok("b"),
				idTok("c"),
				newEOFToken(newPosition(1, 0)),
			},
		},
		{
			caption: "the lexer can recognize the escape sequences in a pattern",
			src:     `"\"\\\u{0020}"`,
			tokens: []*token{
				termPatTok(`"\\\u{0020}`),
				newEOFToken(newPosition(1, 0)),
			},
		},
		{
			caption: "the lexer can recognize the escape sequences in a string",
			src:     `'\'\\+'`,
			tokens: []*token{
				strTok(`'\+`),
				newEOFToken(newPosition(1, 0)),
			},
		},
		{
			caption: "a pattern must be closed",
			src:     `"abc`,
			err:     synErrUnclosedTerminal,
		},
		{
			caption: "a string must be closed",
			src:     `'abc`,
			err:     synErrUnclosedString,
		},
		{
			caption: "a pattern must not be empty",
			src:     `""`,
			err:     synErrEmptyPattern,
		},
		{
			caption: "a string must not be empty",
			src:     `''`,
			err:     synErrEmptyString,
		},
		{
			caption: "an incomplete escape sequence in a string is an error",
			src:     `'\`,
			err:     synErrIncompletedEscSeq,
		},
		{
			caption: "an unknown character is an invalid token",
			src:     `a @`,
			tokens: []*token{
				idTok("a"),
				invalidTok("@"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			l, err := newLexer(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			n := 0
			for {
				var tok *token
				tok, err = l.next()
				if err != nil {
					break
				}
				if n >= len(tt.tokens) {
					t.Fatalf("too many tokens; unexpected token: %+v", tok)
				}
				testToken(t, tok, tt.tokens[n])
				n++
				if tok.kind == tokenKindEOF || tok.kind == tokenKindInvalid {
					break
				}
			}
			if tt.err != nil {
				var specErr *verr.SpecError
				if !errors.As(err, &specErr) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.err, err)
				}
				if specErr.Cause != tt.err {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.err, specErr.Cause)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != len(tt.tokens) {
				t.Fatalf("too few tokens; want: %v, got: %v", len(tt.tokens), n)
			}
		})
	}
}

func testToken(t *testing.T, actual, expected *token) {
	t.Helper()

	if actual.kind != expected.kind || actual.text != expected.text {
		t.Fatalf("unexpected token; want: %+v, got: %+v", expected, actual)
	}
}
