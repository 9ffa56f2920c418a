// Package test provides testing utilities shared by the jsprune packages.
//
// This follows esbuild's testing patterns with helper functions for
// assertions and diffs, plus a loader for txtar golden files.
package test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// AssertEqual checks if two values are equal and reports a test error if not.
func AssertEqual[T comparable](t *testing.T, actual, expected T) {
	t.Helper()
	if actual != expected {
		t.Errorf("\nexpected: %v\nactual:   %v", expected, actual)
	}
}

// AssertEqualWithDiff checks if two strings are equal and shows a diff if not.
func AssertEqualWithDiff(t *testing.T, actual, expected string) {
	t.Helper()
	if actual != expected {
		t.Errorf("mismatch (-expected +actual):\n%s", Diff(expected, actual))
	}
}

// Diff produces a line-by-line diff between two strings.
func Diff(expected, actual string) string {
	return cmp.Diff(strings.Split(expected, "\n"), strings.Split(actual, "\n"))
}

// Golden is one case of a golden archive: a named input and the output
// expected from it.
type Golden struct {
	Name   string
	Input  string
	Output string
}

// LoadGolden reads every *.txtar file in dir. Each archive holds one or
// more cases as pairs of files named "<case>.js" and "<case>.out.js".
// The archive comment is ignored.
func LoadGolden(t *testing.T, dir string) []Golden {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no golden archives in %s", dir)
	}

	var cases []Golden
	for _, path := range paths {
		ar, err := txtar.ParseFile(path)
		if err != nil {
			t.Fatal(err)
		}
		prefix := strings.TrimSuffix(filepath.Base(path), ".txtar")
		outputs := make(map[string]string)
		for _, f := range ar.Files {
			if name, ok := strings.CutSuffix(f.Name, ".out.js"); ok {
				outputs[name] = string(f.Data)
			}
		}
		for _, f := range ar.Files {
			if strings.HasSuffix(f.Name, ".out.js") {
				continue
			}
			name := strings.TrimSuffix(f.Name, ".js")
			out, ok := outputs[name]
			if !ok {
				t.Fatalf("%s: case %q has no %s.out.js", path, name, name)
			}
			cases = append(cases, Golden{
				Name:   prefix + "/" + name,
				Input:  string(f.Data),
				Output: out,
			})
		}
	}
	return cases
}

// Suite provides a test context for related tests.
type Suite struct {
	t *testing.T
}

// NewSuite creates a new test suite.
func NewSuite(t *testing.T) *Suite {
	return &Suite{t: t}
}

// Run runs a subtest.
func (s *Suite) Run(name string, fn func(t *testing.T)) {
	s.t.Run(name, fn)
}
