// Command jsprune removes unused variables, functions and parameters from
// JavaScript source code.
//
// Usage:
//
//	jsprune [options] <input.js>
//	jsprune [options] -o <dir> <a.js> <b.js> ...
//	cat input.js | jsprune [options]
//	jsprune                     (interactive, when stdin is a terminal)
//
// Options:
//
//	-o <path>            Write output to file, or to a directory for several inputs
//	-externs <files>     Comma-separated extern files declaring environment names
//	-config <file>       Use specific config file
//	-no-config           Ignore config files
//	-keep-globals        Keep top-level declarations and parameter lists
//	-keep-fn-names       Keep unused function expression names
//	-no-trim-calls       Keep arguments of removed parameters
//	-max-iterations <n>  Bound the analyze/rewrite cycle
//	-pretty              Indent output instead of minifying whitespace
//	-cache <file>        Reuse results stored in a cache database
//	-v                   Log each pass iteration to stderr
//	-version             Print version and exit
//
// Config file:
//
//	jsprune looks for jsprune.json, .jsprunerc, .jsprunerc.json, jsprune.yaml
//	or .jsprunerc.yaml in the input directory and its parents. Config file
//	options are overridden by CLI flags.
//
// Example jsprune.yaml:
//
//	removeGlobal: true
//	trimCallSites: true
//	externs:
//	  - externs/browser.js
//	linkFunctions:
//	  - goog.inherits
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/HugoDaniel/jsprune/internal/cache"
	"github.com/HugoDaniel/jsprune/internal/config"
	"github.com/HugoDaniel/jsprune/internal/diagnostic"
	"github.com/HugoDaniel/jsprune/internal/optimizer"
	"github.com/HugoDaniel/jsprune/internal/repl"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// errUsage reports bad invocation; usage has already been printed.
var errUsage = errors.New("invalid usage")

func main() {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, interactive: interactive}
	if err := c.run(os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

type cli struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool
	wd          string // search start for config files; "" means the process directory
}

func (c *cli) run(args []string) error {
	// Flags
	var (
		outputFile    string
		externFiles   string
		configFile    string
		noConfig      bool
		keepGlobals   bool
		keepFnNames   bool
		noTrimCalls   bool
		maxIterations int
		pretty        bool
		cacheFile     string
		verbose       bool
		showVersion   bool
	)

	fs := flag.NewFlagSet("jsprune", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVar(&outputFile, "o", "", "Write output to `path` (a directory for several inputs)")
	fs.StringVar(&externFiles, "externs", "", "Comma-separated extern `files`")
	fs.StringVar(&configFile, "config", "", "Use specific config `file`")
	fs.BoolVar(&noConfig, "no-config", false, "Ignore config files")
	fs.BoolVar(&keepGlobals, "keep-globals", false, "Keep top-level declarations and parameter lists")
	fs.BoolVar(&keepFnNames, "keep-fn-names", false, "Keep unused function expression names")
	fs.BoolVar(&noTrimCalls, "no-trim-calls", false, "Keep arguments of removed parameters")
	fs.IntVar(&maxIterations, "max-iterations", 0, "Bound the analyze/rewrite cycle (0 uses the default)")
	fs.BoolVar(&pretty, "pretty", false, "Indent output instead of minifying whitespace")
	fs.StringVar(&cacheFile, "cache", "", "Reuse results stored in the cache database `file`")
	fs.BoolVar(&verbose, "v", false, "Log each pass iteration to stderr")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "jsprune - JavaScript unused variable remover v%s\n\n", version)
		fmt.Fprintf(c.stderr, "Usage: jsprune [options] <input.js>\n")
		fmt.Fprintf(c.stderr, "       jsprune [options] -o <dir> <a.js> <b.js> ...\n")
		fmt.Fprintf(c.stderr, "       cat input.js | jsprune [options]\n\n")
		fmt.Fprintf(c.stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(c.stderr, "\nConfig file:\n")
		fmt.Fprintf(c.stderr, "  Searches for jsprune.json, .jsprunerc or jsprune.yaml in the input and parent directories.\n")
		fmt.Fprintf(c.stderr, "  CLI flags override config file settings.\n")
		fmt.Fprintf(c.stderr, "\nExamples:\n")
		fmt.Fprintf(c.stderr, "  jsprune app.js -o app.pruned.js\n")
		fmt.Fprintf(c.stderr, "  jsprune -externs browser.js app.js\n")
		fmt.Fprintf(c.stderr, "  jsprune --keep-globals lib.js\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	if showVersion {
		fmt.Fprintf(c.stdout, "jsprune v%s (%s)\n", version, commit)
		return nil
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))

	// Load config file
	var cfg *config.Config
	if !noConfig {
		var err error
		var configPath string
		if configFile != "" {
			cfg, err = config.LoadFile(configFile)
			if err != nil {
				return fmt.Errorf("loading config file %s: %w", configFile, err)
			}
			configPath = configFile
		} else {
			startDir := c.wd
			if startDir == "" {
				startDir, _ = os.Getwd()
			}
			if fs.NArg() > 0 {
				startDir = filepath.Dir(fs.Arg(0))
			}
			cfg, configPath, err = config.Load(startDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
		}
		if configPath != "" {
			logger.Debug("using config", slog.String("path", configPath))
		}
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Build options from config (or defaults) and CLI overrides
	cliOpts := config.MergeOptions{
		KeepGlobals:       keepGlobals,
		KeepFunctionNames: keepFnNames,
		NoTrimCalls:       noTrimCalls,
		MaxIterations:     maxIterations,
	}
	if pretty {
		cliOpts.Pretty = &pretty
	}
	opts := cfg.Merge(cliOpts)
	opts.Logger = logger

	// Read externs
	externPaths := cfg.ExternFiles()
	if externFiles != "" {
		for _, p := range strings.Split(externFiles, ",") {
			externPaths = append(externPaths, strings.TrimSpace(p))
		}
	}
	externs, err := readSources(externPaths)
	if err != nil {
		return fmt.Errorf("reading externs: %w", err)
	}

	// Read input
	var sources []optimizer.Source
	switch {
	case fs.NArg() > 0:
		sources, err = readSources(fs.Args())
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	case c.interactive:
		session := repl.NewSession(opts, c.stdout, c.stderr)
		for _, e := range externs {
			session.AddExterns(e.Code)
		}
		return session.Run("")
	default:
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		sources = []optimizer.Source{{Path: "<stdin>", Code: string(data)}}
	}
	if len(sources) > 1 && outputFile == "" {
		fs.Usage()
		fmt.Fprintf(c.stderr, "\nerror: several inputs need -o <dir>\n")
		return errUsage
	}

	result, err := c.prune(opts, externs, sources, cacheFile)
	if err != nil {
		return err
	}

	// Check for errors
	if len(result.Errors) > 0 {
		diags := diagnostic.NewList()
		for _, src := range append(externs, sources...) {
			diags.AddSource(src.Path, src.Code)
		}
		for _, e := range result.Errors {
			diags.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Error,
				File:     e.File,
				Line:     e.Line,
				Column:   e.Column,
				Message:  e.Message,
			})
		}
		io.WriteString(c.stderr, diags.Format())
		return fmt.Errorf("pruning failed with %d error(s)", diags.ErrorCount())
	}

	if err := c.write(outputFile, result.Files); err != nil {
		return err
	}

	// Print stats to stderr if output is to file
	if outputFile != "" && result.Stats.OriginalSize > 0 {
		ratio := float64(result.Stats.PrunedSize) / float64(result.Stats.OriginalSize) * 100
		fmt.Fprintf(c.stderr, "Pruned: %d -> %d bytes (%.1f%%), %d removed\n",
			result.Stats.OriginalSize, result.Stats.PrunedSize, ratio, result.Stats.Removed)
	}
	return nil
}

// prune runs the optimizer, going through the cache when one is given.
func (c *cli) prune(opts optimizer.Options, externs, sources []optimizer.Source, cacheFile string) (optimizer.Result, error) {
	o := optimizer.New(opts)
	if cacheFile == "" {
		return o.PruneFiles(context.Background(), externs, sources), nil
	}

	db, err := cache.Open(cacheFile)
	if err != nil {
		return optimizer.Result{}, fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	key := cache.Key(opts, externs, sources)
	hit := optimizer.Result{}
	for i, src := range sources {
		code, ok, err := db.Get(key + ":" + strconv.Itoa(i))
		if err != nil {
			return optimizer.Result{}, fmt.Errorf("reading cache: %w", err)
		}
		if !ok {
			hit.Files = nil
			break
		}
		hit.Files = append(hit.Files, optimizer.Source{Path: src.Path, Code: code})
		hit.Stats.OriginalSize += len(src.Code)
		hit.Stats.PrunedSize += len(code)
	}
	if len(hit.Files) == len(sources) {
		opts.Logger.Debug("cache hit", slog.String("key", key))
		return hit, nil
	}

	result := o.PruneFiles(context.Background(), externs, sources)
	if len(result.Errors) == 0 {
		for i, f := range result.Files {
			if err := db.Put(key+":"+strconv.Itoa(i), f.Code); err != nil {
				return optimizer.Result{}, fmt.Errorf("writing cache: %w", err)
			}
		}
	}
	return result, nil
}

// write sends a single output to outputFile or stdout, and several
// outputs into the directory outputFile.
func (c *cli) write(outputFile string, files []optimizer.Source) error {
	if len(files) == 1 {
		var output io.Writer = c.stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			output = f
		}
		if _, err := io.WriteString(output, files[0].Code); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(outputFile, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(outputFile, filepath.Base(f.Path))
		if err := os.WriteFile(path, []byte(f.Code), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}

func readSources(paths []string) ([]optimizer.Source, error) {
	var out []optimizer.Source
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, optimizer.Source{Path: p, Code: string(data)})
	}
	return out, nil
}
