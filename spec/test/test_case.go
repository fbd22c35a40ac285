package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/nihei9/treerig/harness"
	"gopkg.in/yaml.v3"
)

// TestCase is a source with the tree or the failure a run must produce. When Error is not
// harness.FailureNone, Output is nil.
type TestCase struct {
	Name        string
	Description string
	Rule        string
	Mode        harness.PredictionMode
	Error       harness.FailureKind
	Source      []byte
	Output      *Tree
}

// ParseTestCase reads a test case consisting of a description, a source, and an expected tree
// separated by `---` lines. The description may contain `#rule`, `#mode`, and `#error`
// directives. The expected tree may be omitted when an error is expected.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	c := &TestCase{}
	err = c.parseDescription(string(parts[0].buf))
	if err != nil {
		return nil, err
	}
	c.Source = parts[1].buf

	if c.Error != harness.FailureNone {
		if len(parts) == 3 && len(bytes.TrimSpace(parts[2].buf)) > 0 {
			return nil, fmt.Errorf("a test case expecting an error cannot have a tree")
		}
		return c, nil
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	tp := &treeParser{
		lineOffset: parts[0].lineCount + parts[1].lineCount + 2,
	}
	tree, err := tp.parseTree(bytes.NewReader(parts[2].buf))
	if err != nil {
		return nil, err
	}
	c.Output = tree
	return c, nil
}

var reDirective = regexp.MustCompile(`^\s*#(\w+)\s+(\S+)\s*$`)

func (c *TestCase) parseDescription(desc string) error {
	var lines []string
	for _, line := range strings.Split(desc, "\n") {
		m := reDirective.FindStringSubmatch(line)
		if m == nil {
			lines = append(lines, line)
			continue
		}
		err := c.setDirective(m[1], m[2])
		if err != nil {
			return err
		}
	}
	c.Description = strings.TrimSpace(strings.Join(lines, "\n"))
	if c.Name == "" {
		c.Name = strings.SplitN(c.Description, "\n", 2)[0]
	}
	return nil
}

func (c *TestCase) setDirective(name, param string) error {
	switch name {
	case "name":
		c.Name = param
	case "rule":
		c.Rule = param
	case "mode":
		c.Mode = harness.ParsePredictionMode(param)
	case "error":
		kind, err := harness.ParseFailureKind(param)
		if err != nil {
			return err
		}
		c.Error = kind
	default:
		return fmt.Errorf("unknown directive: #%v", name)
	}
	return nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteByte('\n')
		buf.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}

type suiteFile struct {
	Cases []*suiteCase `yaml:"cases"`
}

type suiteCase struct {
	Name   string `yaml:"name"`
	Rule   string `yaml:"rule"`
	Mode   string `yaml:"mode"`
	Source string `yaml:"source"`
	Tree   string `yaml:"tree"`
	Error  string `yaml:"error"`
}

// ParseTestSuite reads a YAML document holding a list of test cases.
func ParseTestSuite(r io.Reader) ([]*TestCase, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	var f suiteFile
	err := d.Decode(&f)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("a test suite has no cases")
		}
		return nil, err
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("a test suite has no cases")
	}

	var cases []*TestCase
	for i, sc := range f.Cases {
		c, err := sc.testCase()
		if err != nil {
			return nil, fmt.Errorf("case #%v (%v): %w", i+1, sc.Name, err)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("#%v", i+1)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func (sc *suiteCase) testCase() (*TestCase, error) {
	c := &TestCase{
		Name:   sc.Name,
		Source: []byte(sc.Source),
	}
	if sc.Rule != "" {
		err := c.setDirective("rule", sc.Rule)
		if err != nil {
			return nil, err
		}
	}
	if sc.Mode != "" {
		err := c.setDirective("mode", sc.Mode)
		if err != nil {
			return nil, err
		}
	}
	if sc.Error != "" {
		err := c.setDirective("error", sc.Error)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(sc.Tree) != "" {
			return nil, fmt.Errorf("a test case expecting an error cannot have a tree")
		}
		return c, nil
	}
	tree, err := ParseTree(strings.NewReader(sc.Tree))
	if err != nil {
		return nil, err
	}
	c.Output = tree
	return c, nil
}
