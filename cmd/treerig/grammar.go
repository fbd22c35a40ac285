package main

import (
	"fmt"
	"os"

	verr "github.com/nihei9/treerig/error"
	"github.com/nihei9/treerig/driver"
	"github.com/nihei9/treerig/grammar"
	"github.com/nihei9/treerig/spec"
)

func readGrammar(path string) (grm *grammar.Grammar, retErr error) {
	defer func() {
		switch err := retErr.(type) {
		case verr.SpecErrors:
			for _, e := range err {
				e.FilePath = path
				e.SourceName = path
			}
		case *verr.SpecError:
			err.FilePath = path
			err.SourceName = path
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}

func (c *cli) readArtifact() (*driver.Artifact, error) {
	path, err := c.grammarPath()
	if err != nil {
		return nil, err
	}
	g, err := readGrammar(path)
	if err != nil {
		return nil, err
	}
	return driver.NewArtifact(g), nil
}
