package optimizer

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HugoDaniel/jsprune/internal/test"
)

func TestPrune(t *testing.T) {
	opts := DefaultOptions()
	opts.MinifyWhitespace = true
	result := New(opts).Prune("var a = 1, b = 2; alert(b);", "function alert() {}")

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	test.AssertEqual(t, result.Code(), "var b=2;alert(b);")
	test.AssertEqual(t, result.Stats.Removed, 1)
	test.AssertEqual(t, result.Stats.Iterations, 2)
	test.AssertEqual(t, result.Stats.PrunedSize, len(result.Code()))
}

func TestPruneKeepGlobals(t *testing.T) {
	opts := DefaultOptions()
	opts.MinifyWhitespace = true
	opts.RemoveGlobal = false
	result := New(opts).Prune("var a = 1; function f(x) { var y; }", "")
	test.AssertEqual(t, result.Code(), "var a=1;function f(x){}")
}

func TestParseErrorsReturnSource(t *testing.T) {
	source := "var a = ;"
	result := New(DefaultOptions()).Prune(source, "")

	if len(result.Errors) == 0 {
		t.Fatal("expected a parse error")
	}
	test.AssertEqual(t, result.Errors[0].File, "input.js")
	test.AssertEqual(t, result.Errors[0].Line, 1)
	test.AssertEqual(t, result.Code(), source)
}

func TestIterationLimitIsReported(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 1
	source := "var a = 1; function f(x) {} f(a);"
	result := New(opts).Prune(source, "")

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Message, "no fixpoint") {
		t.Fatalf("expected a fixpoint error, got %v", result.Errors)
	}
	test.AssertEqual(t, result.Code(), source)
}

func TestPruneFilesSharesGlobalScope(t *testing.T) {
	opts := DefaultOptions()
	opts.MinifyWhitespace = true
	externs := []Source{
		{Path: "dom.js", Code: "var document;"},
		{Path: "console.js", Code: "var console;"},
	}
	sources := []Source{
		{Path: "lib.js", Code: "function used() {} function unused() {}"},
		{Path: "main.js", Code: "console.log(used(), document);"},
	}
	result := New(opts).PruneFiles(context.Background(), externs, sources)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	want := []Source{
		{Path: "lib.js", Code: "function used(){}"},
		{Path: "main.js", Code: "console.log(used(),document);"},
	}
	if diff := cmp.Diff(want, result.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestPruneFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sources := []Source{{Path: "a.js", Code: "var a;"}}
	result := New(DefaultOptions()).PruneFiles(ctx, nil, sources)

	if len(result.Errors) == 0 {
		t.Fatal("expected a cancellation error")
	}
	test.AssertEqual(t, result.Code(), "var a;")
}
