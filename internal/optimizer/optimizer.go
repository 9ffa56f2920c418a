// Package optimizer provides the main pruning API.
//
// It coordinates parsing, the unused-variable pass, and printing to
// produce pruned JavaScript output.
package optimizer

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/parser"
	"github.com/HugoDaniel/jsprune/internal/printer"
	"github.com/HugoDaniel/jsprune/internal/unused"
)

// Options controls pruning behavior.
type Options struct {
	// MinifyWhitespace removes unnecessary whitespace and newlines
	MinifyWhitespace bool

	// RemoveGlobal allows top-level declarations to be removed. When false
	// only function-local bindings are pruned.
	RemoveGlobal bool

	// PreserveFunctionExpressionNames keeps unused names of function and
	// class expressions.
	PreserveFunctionExpressionNames bool

	// TrimCallSites removes arguments that only fed removed parameters.
	TrimCallSites bool

	// MaxIterations bounds the analyze/rewrite cycle of the pass.
	MaxIterations int

	// ExportPrefix marks global names visible outside the program.
	ExportPrefix string

	// LinkFunctions lists inheritance helpers such as "goog.inherits".
	LinkFunctions []string

	// PreservedCalls lists functions whose call sites are never trimmed.
	PreservedCalls []string

	// PureCalls lists global functions whose calls have no side effects
	// beyond those of their arguments.
	PureCalls []string

	// Logger receives debug records from the pass. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns options for maximum pruning.
func DefaultOptions() Options {
	pass := unused.DefaultOptions()
	return Options{
		MinifyWhitespace: true,
		RemoveGlobal:     pass.RemoveGlobal,
		TrimCallSites:    pass.TrimCallSites,
		MaxIterations:    pass.MaxIterations,
		ExportPrefix:     pass.ExportPrefix,
		LinkFunctions:    pass.LinkFunctions,
		PreservedCalls:   pass.PreservedCalls,
		PureCalls:        pass.PureCalls,
	}
}

// Source is one named JavaScript input.
type Source struct {
	Path string
	Code string
}

// Result contains the pruning output.
type Result struct {
	// Pruned code, one entry per input source in input order
	Files []Source

	// Errors encountered while pruning
	Errors []Error

	// Statistics about the run
	Stats Stats
}

// Code returns the output of the first file, which is the only one for
// single-source runs.
func (r Result) Code() string {
	if len(r.Files) == 0 {
		return ""
	}
	return r.Files[0].Code
}

// Error represents a pruning error.
type Error struct {
	Message string
	File    string
	Line    int
	Column  int
}

// Stats provides pruning statistics.
type Stats struct {
	OriginalSize int
	PrunedSize   int
	Removed      int // declarations, writes, parameters, slots and arguments
	Iterations   int
}

// Optimizer runs the pruning pipeline.
type Optimizer struct {
	options Options
	log     *slog.Logger
}

// New creates a new optimizer with the given options.
func New(options Options) *Optimizer {
	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Optimizer{options: options, log: log}
}

// Prune prunes a single source against the given externs.
func (o *Optimizer) Prune(source, externs string) Result {
	return o.PruneFiles(context.Background(),
		[]Source{{Path: "externs.js", Code: externs}},
		[]Source{{Path: "input.js", Code: source}})
}

// PruneFiles parses externs and sources concurrently, prunes them as one
// program, and prints every source. On any error the original sources are
// returned unchanged.
func (o *Optimizer) PruneFiles(ctx context.Context, externs, sources []Source) Result {
	var result Result
	for _, src := range sources {
		result.Stats.OriginalSize += len(src.Code)
	}
	unchanged := func() Result {
		result.Files = append([]Source(nil), sources...)
		result.Stats.PrunedSize = result.Stats.OriginalSize
		return result
	}

	all := append(append([]Source(nil), externs...), sources...)
	progs := make([]*ast.Program, len(all))
	errs := make([][]parser.ParseError, len(all))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range all {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			progs[i], errs[i] = parser.ParseFile(src.Path, src.Code)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		result.Errors = append(result.Errors, Error{Message: err.Error()})
		return unchanged()
	}

	for i, list := range errs {
		for _, err := range list {
			result.Errors = append(result.Errors, Error{
				Message: err.Message,
				File:    all[i].Path,
				Line:    err.Line,
				Column:  err.Column,
			})
		}
	}
	if len(result.Errors) > 0 {
		return unchanged()
	}

	root := &ast.Root{Externs: mergeExterns(progs[:len(externs)]), Programs: progs[len(externs):]}
	report, err := unused.New(o.passOptions()).Process(root)
	if err != nil {
		var internal *unused.InternalError
		if errors.As(err, &internal) {
			o.log.Error("unused pass failed", slog.Int("iterations", internal.Iterations), slog.Any("err", err))
		}
		result.Errors = append(result.Errors, Error{Message: err.Error()})
		return unchanged()
	}
	result.Stats.Removed = report.Removed
	result.Stats.Iterations = report.Iterations

	p := printer.New(printer.Options{MinifyWhitespace: o.options.MinifyWhitespace})
	for i, prog := range root.Programs {
		code := p.Print(prog)
		result.Files = append(result.Files, Source{Path: sources[i].Path, Code: code})
		result.Stats.PrunedSize += len(code)
	}
	o.log.Debug("pruned",
		slog.Int("files", len(sources)),
		slog.Int("removed", report.Removed),
		slog.Int("iterations", report.Iterations))
	return result
}

func (o *Optimizer) passOptions() unused.Options {
	opts := unused.DefaultOptions()
	opts.RemoveGlobal = o.options.RemoveGlobal
	opts.PreserveFunctionExpressionNames = o.options.PreserveFunctionExpressionNames
	opts.TrimCallSites = o.options.TrimCallSites
	opts.MaxIterations = o.options.MaxIterations
	opts.ExportPrefix = o.options.ExportPrefix
	if o.options.LinkFunctions != nil {
		opts.LinkFunctions = o.options.LinkFunctions
	}
	if o.options.PreservedCalls != nil {
		opts.PreservedCalls = o.options.PreservedCalls
	}
	if o.options.PureCalls != nil {
		opts.PureCalls = o.options.PureCalls
	}
	opts.Logger = o.log
	return opts
}

// mergeExterns combines extern files into the single extern program the
// global scope is built from.
func mergeExterns(progs []*ast.Program) *ast.Program {
	merged := &ast.Program{Path: "externs"}
	for _, prog := range progs {
		merged.Body = append(merged.Body, prog.Body...)
	}
	return merged
}
