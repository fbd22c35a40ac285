package harness

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Request is a single harness invocation.
type Request struct {
	// SourcePath is read when Source is nil. It also names the source in errors.
	SourcePath string
	Source     io.Reader

	// Rule is a start rule name. An empty string selects the first declared rule.
	Rule string
	Mode PredictionMode

	// TokenizeOnly is reserved. It is carried through a run but changes nothing.
	TokenizeOnly bool
}

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind int

const (
	DiagnosticLexical DiagnosticKind = iota
	DiagnosticAmbiguity
)

// Diagnostic is a non-fatal report produced during a successful run.
type Diagnostic struct {
	Kind DiagnosticKind

	// Row and Col are 0-based.
	Row     int
	Col     int
	Message string
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("line %v:%v %v", d.Row+1, d.Col, d.Message)
}

// Result is the outcome of a successful run.
type Result struct {
	Tree        string
	Root        Tree
	Tokens      []*Token
	Rule        string
	Mode        PredictionMode
	Diagnostics []*Diagnostic
	LexerTime   time.Duration
	ParserTime  time.Duration
}

// Run tokenizes a source, dispatches a rule and serializes the resulting tree. It returns either
// a result or an error, never both.
func Run(a Artifact, req *Request) (*Result, error) {
	src, err := readSource(req)
	if err != nil {
		return nil, err
	}

	lexStart := time.Now()
	toks, err := Tokenize(bytes.NewReader(src), a)
	if err != nil {
		return nil, err
	}
	lexTime := time.Since(lexStart)

	parseStart := time.Now()
	p, err := a.NewParser(toks)
	if err != nil {
		return nil, &ParseError{
			Rule:  req.Rule,
			Mode:  req.Mode,
			Cause: err,
		}
	}
	tree, err := Dispatch(p, req.Rule, req.Mode)
	if err != nil {
		return nil, err
	}
	parseTime := time.Since(parseStart)

	rule := req.Rule
	if rule == "" {
		rule = p.RuleNames()[0]
	}
	res := &Result{
		Tree:       Serialize(p, tree),
		Root:       tree,
		Tokens:     toks,
		Rule:       rule,
		Mode:       req.Mode,
		LexerTime:  lexTime,
		ParserTime: parseTime,
	}
	res.Diagnostics = append(res.Diagnostics, lexicalDiagnostics(toks)...)
	if r, ok := p.(AmbiguityReporter); ok {
		res.Diagnostics = append(res.Diagnostics, ambiguityDiagnostics(r.Ambiguities(), toks)...)
	}
	tracer().Infof("parsed %v with %v (%v): %v diagnostics", sourceName(req), rule, req.Mode, len(res.Diagnostics))
	return res, nil
}

func sourceName(req *Request) string {
	if req.SourcePath == "" {
		return "<input>"
	}
	return req.SourcePath
}

func readSource(req *Request) ([]byte, error) {
	if req.Source != nil {
		src, err := io.ReadAll(req.Source)
		if err != nil {
			return nil, &IOError{
				Path:  sourceName(req),
				Cause: err,
			}
		}
		return src, nil
	}

	f, err := os.Open(req.SourcePath)
	if err != nil {
		return nil, &IOError{
			Path:  req.SourcePath,
			Cause: err,
		}
	}
	defer f.Close()
	src, err := io.ReadAll(f)
	if err != nil {
		return nil, &IOError{
			Path:  req.SourcePath,
			Cause: err,
		}
	}
	return src, nil
}

func lexicalDiagnostics(toks []*Token) []*Diagnostic {
	var ds []*Diagnostic
	for _, tok := range toks {
		if !tok.Invalid {
			continue
		}
		ds = append(ds, &Diagnostic{
			Kind:    DiagnosticLexical,
			Row:     tok.Row,
			Col:     tok.Col,
			Message: fmt.Sprintf("token recognition error at: '%v'", tok.Text),
		})
	}
	return ds
}

func ambiguityDiagnostics(ambs []*Ambiguity, toks []*Token) []*Diagnostic {
	var ds []*Diagnostic
	for _, amb := range ambs {
		var b strings.Builder
		for i := amb.Start; i <= amb.Stop && i < len(toks); i++ {
			if i < 0 {
				continue
			}
			b.WriteString(toks[i].Text)
		}
		alts := make([]string, len(amb.Alternatives))
		for i, alt := range amb.Alternatives {
			alts[i] = fmt.Sprint(alt)
		}
		ds = append(ds, &Diagnostic{
			Kind:    DiagnosticAmbiguity,
			Row:     amb.Row,
			Col:     amb.Col,
			Message: fmt.Sprintf("reportAmbiguity d=%v: ambigAlts={%v}, input='%v'", amb.Rule, strings.Join(alts, ", "), b.String()),
		})
	}
	return ds
}
