package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoDaniel/jsprune/internal/optimizer"
)

func openTemp(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c, path
}

func TestPutGet(t *testing.T) {
	c, _ := openTemp(t)
	defer c.Close()

	if _, ok, err := c.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}
	if err := c.Put("k", "var a;"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	code, ok, err := c.Get("k")
	if err != nil || !ok || code != "var a;" {
		t.Fatalf("Get(k) = %q, %v, %v", code, ok, err)
	}
	if n, err := c.Len(); err != nil || n != 1 {
		t.Errorf("Len() = %d, %v", n, err)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	c, path := openTemp(t)
	if err := c.Put("k", "alert();"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	if code, ok, _ := c.Get("k"); !ok || code != "alert();" {
		t.Errorf("Get(k) after reopen = %q, %v", code, ok)
	}
}

func TestOpenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	if err := os.WriteFile(path, make([]byte, 8192), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected an error opening a file that is not a database")
	}
}

func TestKey(t *testing.T) {
	opts := optimizer.DefaultOptions()
	src := []optimizer.Source{{Path: "a.js", Code: "var a;"}}
	ext := []optimizer.Source{{Code: "var x;"}, {Code: "var y;"}}
	base := Key(opts, ext, src)

	if Key(opts, ext, src) != base {
		t.Error("key is not deterministic")
	}
	swapped := []optimizer.Source{ext[1], ext[0]}
	if Key(opts, swapped, src) != base {
		t.Error("extern order should not change the key")
	}

	changed := opts
	changed.TrimCallSites = false
	if Key(changed, ext, src) == base {
		t.Error("options should change the key")
	}
	pure := opts
	pure.PureCalls = []string{"Object"}
	if Key(pure, ext, src) == base {
		t.Error("pure calls should change the key")
	}
	preserved := opts
	preserved.PreservedCalls = []string{"keepCalls"}
	if Key(preserved, ext, src) == base {
		t.Error("preserved calls should change the key")
	}

	edited := []optimizer.Source{{Path: "a.js", Code: "var b;"}}
	if Key(opts, ext, edited) == base {
		t.Error("source should change the key")
	}
}
