package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/treerig/driver"
	"github.com/nihei9/treerig/grammar"
	"github.com/nihei9/treerig/spec"
	tspec "github.com/nihei9/treerig/spec/test"
	"github.com/npillmayer/schuko/testconfig"
)

const grammarSrc = `
#name test;

s
    : foo bar baz
    | foo baz
    ;
foos
    : foos foo
    | foo
    ;

ws #skip
    : "[\u{0009}\u{0020}]+";
foo
    : 'foo';
bar
    : 'bar';
baz
    : 'baz';
`

func newArtifact(t *testing.T) *driver.Artifact {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(grammarSrc))
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return driver.NewArtifact(g)
}

func TestTester_Run(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()

	tests := []struct {
		testSrc string
		error   bool
	}{
		{
			testSrc: `
Test
---
foo bar baz
---
s(foo bar baz)
`,
		},
		{
			testSrc: `
Test
---
foo baz
---
_(foo baz)
`,
		},
		{
			testSrc: `
Test
#rule foos
#mode sll
---
foo foo foo
---
foos(foos(foos(foo) foo) foo)
`,
		},
		{
			testSrc: `
Test
#error parse
---
foo foo
`,
		},
		{
			testSrc: `
Test
#rule missing
#error unknown-rule
---
foo
`,
		},
		{
			testSrc: `
Test
---
foo bar baz
---
s()
`,
			error: true,
		},
		{
			testSrc: `
Test
---
foo bar baz
---
s(foo bar)
`,
			error: true,
		},
		{
			testSrc: `
Test
---
foo bar baz
---
s(foo bar xxx)
`,
			error: true,
		},
		{
			testSrc: `
Test
---
foo bar
---
s(foo bar)
`,
			error: true,
		},
		{
			testSrc: `
Test
#error parse
---
foo bar baz
`,
			error: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			c, err := tspec.ParseTestCase(strings.NewReader(tt.testSrc))
			if err != nil {
				t.Fatal(err)
			}
			tester := &Tester{
				Artifact: newArtifact(t),
				Cases: []*TestCaseWithMetadata{
					{
						TestCase: c,
					},
				},
			}
			rs := tester.Run()
			if tt.error {
				errOccurred := false
				for _, r := range rs {
					if r.Error != nil {
						errOccurred = true
					}
				}
				if !errOccurred {
					t.Fatal("this test must fail, but it passed")
				}
			} else {
				for _, r := range rs {
					if r.Error != nil {
						t.Fatalf("unexpected error occurred: %v", r)
					}
				}
			}
		})
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.txt": `A
---
foo bar baz
---
s(foo bar baz)
`,
		filepath.Join("sub", "b.yaml"): `
cases:
  - name: short
    source: foo baz
    tree: s(foo baz)
  - name: wrong
    source: foo baz
    tree: s(foo bar baz)
`,
		filepath.Join("sub", "c.txt"): `broken`,
	}
	for name, src := range files {
		path := filepath.Join(dir, name)
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(path, []byte(src), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}

	cases := ListTestCases(dir)
	if len(cases) != 4 {
		t.Fatalf("unexpected case count: %v", len(cases))
	}

	rs := (&Tester{
		Artifact: newArtifact(t),
		Cases:    cases,
	}).Run()
	want := []struct {
		path   string
		passed bool
	}{
		{path: filepath.Join(dir, "a.txt"), passed: true},
		{path: filepath.Join(dir, "sub", "b.yaml") + ":short", passed: true},
		{path: filepath.Join(dir, "sub", "b.yaml") + ":wrong", passed: false},
		{path: filepath.Join(dir, "sub", "c.txt"), passed: false},
	}
	for i, r := range rs {
		if r.TestCasePath != want[i].path || r.Passed() != want[i].passed {
			t.Fatalf("unexpected result #%v: %v", i, r)
		}
	}
	if !strings.HasPrefix(rs[0].String(), "Passed ") || !strings.HasPrefix(rs[2].String(), "Failed ") {
		t.Fatalf("unexpected report: %v, %v", rs[0], rs[2])
	}

	missing := ListTestCases(filepath.Join(dir, "missing"))
	if len(missing) != 1 || missing[0].Error == nil {
		t.Fatalf("a missing path must be reported")
	}
}
