package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/HugoDaniel/jsprune/internal/test"
)

// Each archive in testdata describes one invocation:
//
//	args         command line, with $WORK standing for the work directory
//	stdin        piped input
//	stdout       expected standard output
//	want/<path>  expected content of <path> after the run
//
// Every other file is written to the work directory first.
func TestScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			runScript(t, ar)
		})
	}
}

func runScript(t *testing.T, ar *txtar.Archive) {
	t.Helper()
	work := t.TempDir()
	files := make(map[string]string)
	for _, f := range ar.Files {
		files[f.Name] = string(f.Data)
		switch {
		case f.Name == "args", f.Name == "stdin", f.Name == "stdout", strings.HasPrefix(f.Name, "want/"):
			continue
		}
		if err := os.WriteFile(filepath.Join(work, f.Name), f.Data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	var stdout, stderr bytes.Buffer
	c := &cli{stdin: strings.NewReader(files["stdin"]), stdout: &stdout, stderr: &stderr, wd: work}
	args := strings.Fields(strings.ReplaceAll(files["args"], "$WORK", work))
	if err := c.run(args); err != nil {
		t.Fatalf("run %v: %v\nstderr:\n%s", args, err, stderr.String())
	}

	if want, ok := files["stdout"]; ok {
		test.AssertEqualWithDiff(t, strings.TrimSpace(stdout.String()), strings.TrimSpace(want))
	}
	for name, want := range files {
		rel, ok := strings.CutPrefix(name, "want/")
		if !ok {
			continue
		}
		got, err := os.ReadFile(filepath.Join(work, rel))
		if err != nil {
			t.Errorf("missing output %s: %v", rel, err)
			continue
		}
		test.AssertEqualWithDiff(t, strings.TrimSpace(string(got)), strings.TrimSpace(want))
	}
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	c := &cli{stdout: &stdout, stderr: &bytes.Buffer{}}
	if err := c.run([]string{"-version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout.String(), "jsprune v") {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}

func TestParseErrorFails(t *testing.T) {
	var stderr bytes.Buffer
	c := &cli{stdin: strings.NewReader("var = 1;"), stdout: &bytes.Buffer{}, stderr: &stderr}
	if err := c.run([]string{"-no-config"}); err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(stderr.String(), "<stdin>:1:") {
		t.Errorf("expected a positioned error, got %q", stderr.String())
	}
}

func TestSeveralInputsNeedOutputDir(t *testing.T) {
	work := t.TempDir()
	for _, name := range []string{"a.js", "b.js"} {
		if err := os.WriteFile(filepath.Join(work, name), []byte("var x;"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	c := &cli{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	err := c.run([]string{"-no-config", filepath.Join(work, "a.js"), filepath.Join(work, "b.js")})
	if err != errUsage {
		t.Errorf("expected errUsage, got %v", err)
	}
}

func TestCache(t *testing.T) {
	work := t.TempDir()
	input := filepath.Join(work, "app.js")
	db := filepath.Join(work, "cache.db")
	if err := os.WriteFile(input, []byte("var a = 1; var b = 2; alert(b);"), 0644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		c := &cli{stdout: &stdout, stderr: &stderr}
		if err := c.run([]string{"-no-config", "-v", "-cache", db, input}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		test.AssertEqual(t, stdout.String(), "var b=2;alert(b);")
		hit := strings.Contains(stderr.String(), "cache hit")
		test.AssertEqual(t, hit, i == 1)
	}
}
