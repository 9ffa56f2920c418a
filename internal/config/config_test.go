package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HugoDaniel/jsprune/internal/optimizer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "jsprune.json")
	writeFile(t, configPath, `{
		"removeGlobal": false,
		"trimCallSites": true,
		"maxIterations": 7,
		"linkFunctions": ["my.inherits"],
		"externs": ["externs/dom.js"]
	}`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.RemoveGlobal == nil || *cfg.RemoveGlobal != false {
		t.Errorf("RemoveGlobal: got %v, want false", cfg.RemoveGlobal)
	}
	if cfg.TrimCallSites == nil || *cfg.TrimCallSites != true {
		t.Errorf("TrimCallSites: got %v, want true", cfg.TrimCallSites)
	}
	if cfg.MaxIterations == nil || *cfg.MaxIterations != 7 {
		t.Errorf("MaxIterations: got %v, want 7", cfg.MaxIterations)
	}
	if cfg.PreserveFunctionExpressionNames != nil {
		t.Errorf("PreserveFunctionExpressionNames: got %v, want unset", *cfg.PreserveFunctionExpressionNames)
	}
	if diff := cmp.Diff([]string{filepath.Join(tmpDir, "externs", "dom.js")}, cfg.ExternFiles()); diff != "" {
		t.Errorf("ExternFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "jsprune.yaml")
	writeFile(t, configPath, `
removeGlobal: true
preserveFunctionExpressionNames: true
exportPrefix: "$"
linkFunctions:
  - goog.inherits
  - app.extend
pureCalls: [Math.max]
pretty: true
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	opts := cfg.ToOptions()
	if !opts.RemoveGlobal || !opts.PreserveFunctionExpressionNames {
		t.Errorf("unexpected flags: %+v", opts)
	}
	if opts.ExportPrefix != "$" {
		t.Errorf("ExportPrefix: got %q, want %q", opts.ExportPrefix, "$")
	}
	if opts.MinifyWhitespace {
		t.Error("pretty config should disable MinifyWhitespace")
	}
	if diff := cmp.Diff([]string{"goog.inherits", "app.extend"}, opts.LinkFunctions); diff != "" {
		t.Errorf("LinkFunctions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Math.max"}, opts.PureCalls); diff != "" {
		t.Errorf("PureCalls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(optimizer.DefaultOptions().PreservedCalls, opts.PreservedCalls); diff != "" {
		t.Errorf("PreservedCalls mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRcFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".jsprunerc"), `{"trimCallSites": false}`)

	cfg, path, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if filepath.Base(path) != ".jsprunerc" {
		t.Errorf("found %s, want .jsprunerc", path)
	}
	if cfg.ToOptions().TrimCallSites {
		t.Error("TrimCallSites should be disabled")
	}
}

func TestLoad(t *testing.T) {
	// Create nested directories with config in parent
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "project", "src")
	configPath := filepath.Join(tmpDir, "project", "jsprune.json")
	writeFile(t, configPath, `{"preserveFunctionExpressionNames": true}`)
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}

	// Search from src dir - should find config in parent
	cfg, foundPath, err := Load(subDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}
	if foundPath != configPath {
		t.Errorf("found config at %s, expected %s", foundPath, configPath)
	}
	if cfg.PreserveFunctionExpressionNames == nil || !*cfg.PreserveFunctionExpressionNames {
		t.Errorf("PreserveFunctionExpressionNames: got %v, want true", cfg.PreserveFunctionExpressionNames)
	}
}

func TestLoadNotFound(t *testing.T) {
	cfg, path, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != nil || path != "" {
		t.Errorf("expected no config, got %v at %q", cfg, path)
	}
}

func TestLoadErrors(t *testing.T) {
	tmpDir := t.TempDir()

	unknown := filepath.Join(tmpDir, "jsprune.toml")
	writeFile(t, unknown, "removeGlobal = true")
	if _, err := LoadFile(unknown); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}

	badField := filepath.Join(tmpDir, "bad.json")
	writeFile(t, badField, `{"treeShaking": true}`)
	if _, err := LoadFile(badField); err == nil {
		t.Error("expected an error for an unknown field")
	}

	badYAML := filepath.Join(tmpDir, "bad.yaml")
	writeFile(t, badYAML, "removeGlobal: [")
	if _, err := LoadFile(badYAML); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestMerge(t *testing.T) {
	no := false
	yes := true
	cfg := &Config{RemoveGlobal: &yes, TrimCallSites: &yes, Pretty: &yes}

	opts := cfg.Merge(MergeOptions{
		Pretty:        &no,
		KeepGlobals:   true,
		NoTrimCalls:   true,
		MaxIterations: 3,
	})
	if opts.RemoveGlobal {
		t.Error("KeepGlobals should disable RemoveGlobal")
	}
	if opts.TrimCallSites {
		t.Error("NoTrimCalls should disable TrimCallSites")
	}
	if !opts.MinifyWhitespace {
		t.Error("CLI pretty=false should override config")
	}
	if opts.MaxIterations != 3 {
		t.Errorf("MaxIterations: got %d, want 3", opts.MaxIterations)
	}

	// Unset CLI flags keep config values
	opts = cfg.Merge(MergeOptions{})
	if !opts.RemoveGlobal || !opts.TrimCallSites || opts.MinifyWhitespace {
		t.Errorf("config values lost: %+v", opts)
	}
}
