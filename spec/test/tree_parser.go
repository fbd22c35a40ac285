package test

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/emirpasic/gods/stacks/arraystack"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

// treeLexSpec describes tokens of serialized trees. A label is a run of characters other than
// parentheses and white spaces, where a backslash escapes the following character.
var treeLexSpec = &mlspec.LexSpec{
	Name: "treerig_tree",
	Entries: []*mlspec.LexEntry{
		{Kind: "white_space", Pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`},
		{Kind: "l_paren", Pattern: `\(`},
		{Kind: "r_paren", Pattern: `\)`},
		{Kind: "label", Pattern: `([^\\()\u{0009}\u{000A}\u{000D}\u{0020}]|\\.)+`},
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
		clexSpec, compileErr, cErrs = mlcompiler.Compile(treeLexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if compileErr != nil && len(cErrs) > 0 {
			compileErr = fmt.Errorf("%v: %v", cErrs[0].Kind, cErrs[0].Cause)
		}
	})
	return clexSpec, compileErr
}

type treeToken struct {
	kind string
	text string
	row  int
	col  int
}

type treeParser struct {
	lineOffset int
}

func (tp *treeParser) errorf(tok *treeToken, format string, a ...interface{}) error {
	return fmt.Errorf("%v:%v: %v", tp.lineOffset+tok.row+1, tok.col+1, fmt.Sprintf(format, a...))
}

func (tp *treeParser) tokenize(src io.Reader) ([]*treeToken, error) {
	s, err := compiledLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	var toks []*treeToken
	for {
		tok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return toks, nil
		}
		t := &treeToken{
			text: string(tok.Lexeme),
			row:  tok.Row,
			col:  tok.Col,
		}
		if tok.Invalid {
			return nil, tp.errorf(t, "invalid token: %#v", t.text)
		}
		t.kind = s.KindNames[tok.KindID].String()
		if t.kind == "white_space" {
			continue
		}
		toks = append(toks, t)
	}
}

// ParseTree reads a serialized tree. A label followed by `(` is a rule; any other label is a
// token text.
func ParseTree(src io.Reader) (*Tree, error) {
	tp := &treeParser{}
	return tp.parseTree(src)
}

func (tp *treeParser) parseTree(src io.Reader) (*Tree, error) {
	toks, err := tp.tokenize(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("a tree is empty")
	}

	var root *Tree
	open := arraystack.New()
	attach := func(tok *treeToken, t *Tree) error {
		if top, ok := open.Peek(); ok {
			parent := top.(*Tree)
			parent.Children = append(parent.Children, t)
			return nil
		}
		if root != nil {
			return tp.errorf(tok, "a tree must have just one root")
		}
		root = t
		return nil
	}
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch tok.kind {
		case "label":
			label, err := tp.unescape(tok)
			if err != nil {
				return nil, err
			}
			if i+1 < len(toks) && toks[i+1].kind == "l_paren" {
				t := NewRuleTree(label)
				if err := attach(tok, t); err != nil {
					return nil, err
				}
				open.Push(t)
				i++
				continue
			}
			if err := attach(tok, NewLeafTree(label)); err != nil {
				return nil, err
			}
		case "l_paren":
			return nil, tp.errorf(tok, "'(' must follow a rule name")
		case "r_paren":
			if _, ok := open.Pop(); !ok {
				return nil, tp.errorf(tok, "unbalanced ')'")
			}
		}
	}
	if !open.Empty() {
		return nil, fmt.Errorf("%v unclosed rule(s)", open.Size())
	}
	return root.Fill(), nil
}

func (tp *treeParser) unescape(tok *treeToken) (string, error) {
	if !strings.Contains(tok.text, `\`) {
		return tok.text, nil
	}
	var b strings.Builder
	s := tok.text
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		r, size = utf8.DecodeRuneInString(s)
		s = s[size:]
		switch r {
		case '\\', '(', ')', ' ':
			b.WriteRune(r)
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u', 'x':
			end := strings.IndexByte(s, '}')
			if !strings.HasPrefix(s, "{") || end < 0 {
				return "", tp.errorf(tok, "incomplete escape sequence: %v", tok.text)
			}
			n, err := strconv.ParseUint(s[1:end], 16, 32)
			if err != nil {
				return "", tp.errorf(tok, "%v", err)
			}
			if r == 'x' {
				if n > 0xff {
					return "", tp.errorf(tok, "invalid byte: %v", s[1:end])
				}
				b.WriteByte(byte(n))
			} else {
				if !utf8.ValidRune(rune(n)) {
					return "", tp.errorf(tok, "invalid code point: %v", s[1:end])
				}
				b.WriteRune(rune(n))
			}
			s = s[end+1:]
		default:
			return "", tp.errorf(tok, "invalid escape sequence: \\%c", r)
		}
	}
	return b.String(), nil
}
