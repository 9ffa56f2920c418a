// Package config handles loading pruning configuration from files.
//
// Configuration can be specified in a JSON file named jsprune.json,
// .jsprunerc or .jsprunerc.json, or in a YAML file named jsprune.yaml or
// .jsprunerc.yaml. The config file is searched for in the current
// directory and parent directories.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HugoDaniel/jsprune/internal/optimizer"
)

// ErrUnknownFormat is returned for a config file whose extension is neither
// JSON nor YAML.
var ErrUnknownFormat = errors.New("unknown config file format")

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
type Config struct {
	// RemoveGlobal allows top-level declarations to be removed (default true)
	RemoveGlobal *bool `json:"removeGlobal,omitempty" yaml:"removeGlobal,omitempty"`

	// PreserveFunctionExpressionNames keeps unused function expression names
	PreserveFunctionExpressionNames *bool `json:"preserveFunctionExpressionNames,omitempty" yaml:"preserveFunctionExpressionNames,omitempty"`

	// TrimCallSites drops arguments of removed parameters (default true)
	TrimCallSites *bool `json:"trimCallSites,omitempty" yaml:"trimCallSites,omitempty"`

	MaxIterations *int    `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty"`
	ExportPrefix  *string `json:"exportPrefix,omitempty" yaml:"exportPrefix,omitempty"`

	// LinkFunctions replaces the default list of inheritance helpers
	LinkFunctions []string `json:"linkFunctions,omitempty" yaml:"linkFunctions,omitempty"`

	PureCalls      []string `json:"pureCalls,omitempty" yaml:"pureCalls,omitempty"`
	PreservedCalls []string `json:"preservedCalls,omitempty" yaml:"preservedCalls,omitempty"`

	// Externs lists extern files, relative to the config file
	Externs []string `json:"externs,omitempty" yaml:"externs,omitempty"`

	// Pretty prints indented output instead of minified whitespace
	Pretty *bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`

	// Directory of the file the config was loaded from
	dir string
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"jsprune.json",
	".jsprunerc",
	".jsprunerc.json",
	"jsprune.yaml",
	".jsprunerc.yaml",
}

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, no config found
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path. Files ending in
// .yaml or .yml are YAML; .json files and extensionless rc files are JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch format(path) {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

func format(path string) string {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	switch {
	case ext == ".yaml" || ext == ".yml":
		return "yaml"
	case ext == ".json" || ext == "" || ext == base:
		// ".jsprunerc" is all extension
		return "json"
	}
	return ""
}

// ExternFiles returns the extern paths resolved against the directory of
// the config file.
func (c *Config) ExternFiles() []string {
	paths := make([]string, 0, len(c.Externs))
	for _, p := range c.Externs {
		if !filepath.IsAbs(p) && c.dir != "" {
			p = filepath.Join(c.dir, p)
		}
		paths = append(paths, p)
	}
	return paths
}

// ToOptions converts a Config to optimizer.Options, using defaults for unset fields.
func (c *Config) ToOptions() optimizer.Options {
	opts := optimizer.DefaultOptions()

	if c.RemoveGlobal != nil {
		opts.RemoveGlobal = *c.RemoveGlobal
	}
	if c.PreserveFunctionExpressionNames != nil {
		opts.PreserveFunctionExpressionNames = *c.PreserveFunctionExpressionNames
	}
	if c.TrimCallSites != nil {
		opts.TrimCallSites = *c.TrimCallSites
	}
	if c.MaxIterations != nil {
		opts.MaxIterations = *c.MaxIterations
	}
	if c.ExportPrefix != nil {
		opts.ExportPrefix = *c.ExportPrefix
	}
	if len(c.LinkFunctions) > 0 {
		opts.LinkFunctions = c.LinkFunctions
	}
	if len(c.PureCalls) > 0 {
		opts.PureCalls = c.PureCalls
	}
	if len(c.PreservedCalls) > 0 {
		opts.PreservedCalls = c.PreservedCalls
	}
	if c.Pretty != nil {
		opts.MinifyWhitespace = !*c.Pretty
	}

	return opts
}

// MergeOptions holds CLI flags that override config file options.
type MergeOptions struct {
	// CLI flags (nil or zero means not specified on CLI)
	Pretty            *bool
	KeepGlobals       bool
	KeepFunctionNames bool
	NoTrimCalls       bool
	MaxIterations     int
}

// Merge merges CLI options with config file options.
// CLI options override config file options when specified.
func (c *Config) Merge(cli MergeOptions) optimizer.Options {
	opts := c.ToOptions()

	// CLI overrides
	if cli.Pretty != nil {
		opts.MinifyWhitespace = !*cli.Pretty
	}
	if cli.KeepGlobals {
		opts.RemoveGlobal = false
	}
	if cli.KeepFunctionNames {
		opts.PreserveFunctionExpressionNames = true
	}
	if cli.NoTrimCalls {
		opts.TrimCallSites = false
	}
	if cli.MaxIterations > 0 {
		opts.MaxIterations = cli.MaxIterations
	}

	return opts
}
