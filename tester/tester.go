package tester

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/treerig/harness"
	tspec "github.com/nihei9/treerig/spec/test"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tspec.TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

// Passed reports whether a test case passed.
func (r *TestResult) Passed() bool {
	return r.Error == nil
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases collects test cases from a file or a directory tree. Files with the .yaml or
// .yml extension are test suites; any other file is a single test case.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		if isSuite(testPath) {
			return listSuiteCases(testPath)
		}
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func isSuite(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

func listSuiteCases(suitePath string) []*TestCaseWithMetadata {
	f, err := os.Open(suitePath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: suitePath,
				Error:    err,
			},
		}
	}
	defer f.Close()
	cs, err := tspec.ParseTestSuite(f)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: suitePath,
				Error:    err,
			},
		}
	}
	cases := make([]*TestCaseWithMetadata, len(cs))
	for i, c := range cs {
		cases[i] = &TestCaseWithMetadata{
			TestCase: c,
			FilePath: fmt.Sprintf("%v:%v", suitePath, c.Name),
		}
	}
	return cases
}

type Tester struct {
	Artifact harness.Artifact
	Cases    []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		r := runTest(t.Artifact, c)
		tracer().Debugf("%v", r)
		rs = append(rs, r)
	}
	return rs
}

func runTest(a harness.Artifact, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	tc := c.TestCase
	res, err := harness.Run(a, &harness.Request{
		SourcePath: c.FilePath,
		Source:     bytes.NewReader(tc.Source),
		Rule:       tc.Rule,
		Mode:       tc.Mode,
	})
	if tc.Error != harness.FailureNone {
		kind := harness.KindOf(err)
		if kind != tc.Error {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("expected a %v failure but got %v: %v", tc.Error, kind, err),
			}
		}
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	actual, err := tspec.ParseTree(strings.NewReader(res.Tree))
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("an output tree is broken: %w", err),
		}
	}
	if diffs, ok := tspec.Equal(tc.Output, actual); !ok {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}
