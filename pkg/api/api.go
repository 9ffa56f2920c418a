// Package api provides the public API for jsprune.
//
// This package is intended for programmatic use of the pruner.
// For CLI usage, see cmd/jsprune.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HugoDaniel/jsprune/internal/optimizer"
)

// PruneOptions controls which unused code is removed.
type PruneOptions struct {
	// MinifyWhitespace removes unnecessary whitespace and newlines.
	MinifyWhitespace bool

	// KeepGlobals keeps every top-level declaration and every parameter
	// list. Only bindings local to functions and blocks are removed.
	KeepGlobals bool

	// PreserveFunctionExpressionNames keeps the names of function and
	// class expressions even when nothing refers to them.
	PreserveFunctionExpressionNames bool

	// NoTrimCallSites keeps call arguments that feed removed parameters.
	NoTrimCallSites bool

	// MaxIterations bounds the number of analyze/rewrite cycles.
	// Zero uses the default.
	MaxIterations int

	// LinkFunctions replaces the default inheritance helpers, such as
	// "goog.inherits", whose calls do not keep their first argument alive.
	LinkFunctions []string

	// Externs declares names provided by the environment. They are never
	// removed and never rewritten.
	Externs string

	// Logger receives debug records. Nil discards them.
	Logger *slog.Logger
}

// PruneResult contains the pruning output.
type PruneResult struct {
	// Code is the pruned JavaScript source code.
	Code string

	// Errors contains any errors encountered while pruning.
	// If non-empty, Code is the unmodified input.
	Errors []string

	// OriginalSize is the size of the input in bytes.
	OriginalSize int

	// PrunedSize is the size of the output in bytes.
	PrunedSize int

	// Removed counts removed declarations, writes, parameters,
	// destructuring slots and call arguments.
	Removed int
}

// File is a named JavaScript source.
type File struct {
	Path string
	Code string
}

// FilesResult contains the output of PruneFiles.
type FilesResult struct {
	// Files holds the pruned sources in input order.
	Files []File

	// Errors are formatted as "file:line:column: message" when a
	// position is known.
	Errors []string

	Removed int
}

// Prune removes unused variables with default options and minified output.
func Prune(source string) PruneResult {
	return PruneWithOptions(source, PruneOptions{MinifyWhitespace: true})
}

// PruneWithOptions removes unused variables with custom options.
func PruneWithOptions(source string, opts PruneOptions) PruneResult {
	result := optimizer.New(toOptions(opts)).Prune(source, opts.Externs)
	return PruneResult{
		Code:         result.Code(),
		Errors:       formatErrors(result.Errors),
		OriginalSize: result.Stats.OriginalSize,
		PrunedSize:   result.Stats.PrunedSize,
		Removed:      result.Stats.Removed,
	}
}

// PruneFiles prunes several sources that share one global scope. A name
// declared in one file and used in another is kept. Externs are given
// as files too; they are parsed but never printed.
func PruneFiles(ctx context.Context, externs, sources []File, opts PruneOptions) FilesResult {
	result := optimizer.New(toOptions(opts)).PruneFiles(ctx, toSources(externs), toSources(sources))
	out := FilesResult{
		Errors:  formatErrors(result.Errors),
		Removed: result.Stats.Removed,
	}
	for _, f := range result.Files {
		out.Files = append(out.Files, File{Path: f.Path, Code: f.Code})
	}
	return out
}

func toOptions(opts PruneOptions) optimizer.Options {
	o := optimizer.DefaultOptions()
	o.MinifyWhitespace = opts.MinifyWhitespace
	o.RemoveGlobal = !opts.KeepGlobals
	o.PreserveFunctionExpressionNames = opts.PreserveFunctionExpressionNames
	o.TrimCallSites = !opts.NoTrimCallSites
	if opts.MaxIterations > 0 {
		o.MaxIterations = opts.MaxIterations
	}
	if len(opts.LinkFunctions) > 0 {
		o.LinkFunctions = opts.LinkFunctions
	}
	o.Logger = opts.Logger
	return o
}

func toSources(files []File) []optimizer.Source {
	out := make([]optimizer.Source, len(files))
	for i, f := range files {
		out[i] = optimizer.Source{Path: f.Path, Code: f.Code}
	}
	return out
}

func formatErrors(errs []optimizer.Error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		switch {
		case e.File != "" && e.Line > 0:
			out[i] = fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
		case e.File != "":
			out[i] = e.File + ": " + e.Message
		default:
			out[i] = e.Message
		}
	}
	return out
}
