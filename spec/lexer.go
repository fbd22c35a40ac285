package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/treerig/error"
)

type tokenKind string

const (
	tokenKindID              = tokenKind("id")
	tokenKindTerminalPattern = tokenKind("terminal pattern")
	tokenKindStringLiteral   = tokenKind("string")
	tokenKindColon           = tokenKind(":")
	tokenKindOr              = tokenKind("|")
	tokenKindSemicolon       = tokenKind(";")
	tokenKindDirectiveMarker = tokenKind("#")
	tokenKindEOF             = tokenKind("eof")
	tokenKindInvalid         = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newTerminalPatternToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindTerminalPattern,
		text: text,
		pos:  pos,
	}
}

func newStringLiteralToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindStringLiteral,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

const (
	modeTerminal      = mlspec.LexModeName("terminal")
	modeStringLiteral = mlspec.LexModeName("string_literal")
)

// lexSpec describes tokens of the grammar description language.
var lexSpec = &mlspec.LexSpec{
	Name: "treerig_grammar",
	Entries: []*mlspec.LexEntry{
		{Kind: "white_space", Pattern: `[\u{0009}\u{0020}]+`},
		{Kind: "newline", Pattern: `\u{000A}|\u{000D}\u{000A}|\u{000D}`},
		{Kind: "line_comment", Pattern: `//[^\u{000A}\u{000D}]*`},
		{Kind: "identifier", Pattern: `[A-Za-z_][0-9A-Za-z_]*`},
		{Kind: "terminal_open", Pattern: `"`, Push: modeTerminal},
		{Kind: "pattern", Pattern: `([^"\\]|\\.)+`, Modes: []mlspec.LexModeName{modeTerminal}},
		{Kind: "pattern_escape_symbol", Pattern: `\\`, Modes: []mlspec.LexModeName{modeTerminal}},
		{Kind: "terminal_close", Pattern: `"`, Modes: []mlspec.LexModeName{modeTerminal}, Pop: true},
		{Kind: "string_literal_open", Pattern: `'`, Push: modeStringLiteral},
		{Kind: "char_seq", Pattern: `[^'\\]+`, Modes: []mlspec.LexModeName{modeStringLiteral}},
		{Kind: "escaped_quot", Pattern: `\\'`, Modes: []mlspec.LexModeName{modeStringLiteral}},
		{Kind: "escaped_back_slash", Pattern: `\\\\`, Modes: []mlspec.LexModeName{modeStringLiteral}},
		{Kind: "string_escape_symbol", Pattern: `\\`, Modes: []mlspec.LexModeName{modeStringLiteral}},
		{Kind: "string_literal_close", Pattern: `'`, Modes: []mlspec.LexModeName{modeStringLiteral}, Pop: true},
		{Kind: "colon", Pattern: `:`},
		{Kind: "or", Pattern: `\|`},
		{Kind: "semicolon", Pattern: `;`},
		{Kind: "directive_marker", Pattern: `#`},
	},
}

var (
	compileOnce sync.Once
	clexSpec    *mlspec.CompiledLexSpec
	compileErr  error
)

func compiledLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileOnce.Do(func() {
		var cErrs []*mlcompiler.CompileError
		clexSpec, compileErr, cErrs = mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if compileErr != nil && len(cErrs) > 0 {
			compileErr = fmt.Errorf("%v: %v", cErrs[0].Kind, cErrs[0].Cause)
		}
	})
	return clexSpec, compileErr
}

type lexer struct {
	s *mlspec.CompiledLexSpec
	d *mldriver.Lexer
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := compiledLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) kindName(tok *mldriver.Token) string {
	return l.s.KindNames[tok.KindID].String()
}

func (l *lexer) next() (*token, error) {
	var tok *mldriver.Token
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return newEOFToken(newPosition(tok.Row+1, tok.Col+1)), nil
		}
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
		}
		switch l.kindName(tok) {
		case "white_space", "newline", "line_comment":
			continue
		}

		break
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	switch l.kindName(tok) {
	case "identifier":
		return newIDToken(string(tok.Lexeme), pos), nil
	case "terminal_open":
		var b strings.Builder
		for {
			tok, err := l.d.Next()
			if err != nil {
				return nil, err
			}
			if tok.EOF {
				return nil, &verr.SpecError{
					Cause: synErrUnclosedTerminal,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			if tok.Invalid {
				return newInvalidToken(string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
			}
			switch l.kindName(tok) {
			case "pattern":
				// The escape sequences are interpreted by maleeni except for the \", which delimits patterns.
				b.WriteString(strings.ReplaceAll(string(tok.Lexeme), `\"`, `"`))
			case "pattern_escape_symbol":
				return nil, &verr.SpecError{
					Cause: synErrIncompletedEscSeq,
					Row:   tok.Row + 1,
					Col:   tok.Col + 1,
				}
			case "terminal_close":
				pat := b.String()
				if pat == "" {
					return nil, &verr.SpecError{
						Cause: synErrEmptyPattern,
						Row:   pos.Row,
						Col:   pos.Col,
					}
				}
				return newTerminalPatternToken(pat, pos), nil
			}
		}
	case "string_literal_open":
		var b strings.Builder
		for {
			tok, err := l.d.Next()
			if err != nil {
				return nil, err
			}
			if tok.EOF {
				return nil, &verr.SpecError{
					Cause: synErrUnclosedString,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			if tok.Invalid {
				return newInvalidToken(string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
			}
			switch l.kindName(tok) {
			case "char_seq":
				b.Write(tok.Lexeme)
			case "escaped_quot":
				b.WriteString(`'`)
			case "escaped_back_slash":
				b.WriteString(`\`)
			case "string_escape_symbol":
				return nil, &verr.SpecError{
					Cause: synErrIncompletedEscSeq,
					Row:   tok.Row + 1,
					Col:   tok.Col + 1,
				}
			case "string_literal_close":
				str := b.String()
				if str == "" {
					return nil, &verr.SpecError{
						Cause: synErrEmptyString,
						Row:   pos.Row,
						Col:   pos.Col,
					}
				}
				return newStringLiteralToken(str, pos), nil
			}
		}
	case "colon":
		return newSymbolToken(tokenKindColon, pos), nil
	case "or":
		return newSymbolToken(tokenKindOr, pos), nil
	case "semicolon":
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case "directive_marker":
		return newSymbolToken(tokenKindDirectiveMarker, pos), nil
	}
	return newInvalidToken(string(tok.Lexeme), pos), nil
}
