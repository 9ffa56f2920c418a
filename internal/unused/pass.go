// Package unused removes bindings whose values are never observed.
//
// A Pass alternates analysis and rewriting until a rewrite makes no change:
//
//  1. Analysis resolves names through a shared scope.Creator and walks the
//     program lazily: the body of a function, the initializer of a pure
//     declaration and the parts of a removable property write are only
//     visited once the binding that owns them is found to be live.
//  2. Liveness propagates through a worklist seeded by statements with
//     effects, exports, externs and the other roots.
//  3. The rewriter drops dead declarations, assignments, property writes,
//     parameters, destructuring slots and call arguments. Side effects are
//     kept in their original evaluation order.
//
// Removing one binding can leave others without readers, so the cycle
// repeats until it reaches a fixpoint.
package unused

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/scope"
)

// Options controls what the pass may remove.
type Options struct {
	// RemoveGlobal allows removal of top-level bindings. When false every
	// top-level binding is a root and parameter lists are left untouched.
	RemoveGlobal bool

	// PreserveFunctionExpressionNames keeps the names of function and class
	// expressions even when nothing refers to them.
	PreserveFunctionExpressionNames bool

	// TrimCallSites drops trailing arguments that only fed removed
	// parameters.
	TrimCallSites bool

	// MaxIterations bounds the analyze/rewrite cycle.
	MaxIterations int

	// ExportPrefix marks global names that are visible outside the
	// program. An empty prefix disables the convention.
	ExportPrefix string

	// LinkFunctions lists the dotted names of inheritance helpers such as
	// "goog.inherits". A statement calling one of them does not keep its
	// first argument alive.
	LinkFunctions []string

	// PreservedCalls lists functions whose call sites are never modified.
	PreservedCalls []string

	// PureCalls lists global functions whose calls have no side effects
	// beyond those of their arguments.
	PureCalls []string

	// Logger receives one debug record per iteration. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		RemoveGlobal:  true,
		TrimCallSites: true,
		MaxIterations: 100,
		ExportPrefix:  "_",
		LinkFunctions: []string{
			"goog.inherits",
			"goog$inherits",
			"goog.mixin",
			"goog$mixin",
			"$jscomp.inherits",
			"goog.addSingletonGetter",
			"goog$addSingletonGetter",
		},
		PreservedCalls: []string{
			"JSCompiler_renameProperty",
			"JSCompiler_ObjectPropertyString",
		},
		PureCalls: []string{"Object", "Array", "String", "Number", "Boolean", "RegExp", "Error"},
	}
}

// Report summarizes one call to Process.
type Report struct {
	Changed    bool // the tree was modified
	Iterations int  // analyze/rewrite cycles run, including the final one
	Removed    int  // declarations, writes, parameters, slots and arguments removed
}

// ErrNoFixpoint means the rewrite kept changing the tree after
// MaxIterations cycles.
var ErrNoFixpoint = errors.New("no fixpoint reached")

// InternalError reports a failure of the pass itself rather than a problem
// with its input.
type InternalError struct {
	Iterations int
	Err        error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("unused: internal error after %d iterations: %v", e.Iterations, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Pass removes unused bindings. A Pass keeps its scope.Creator between
// calls, so processing the same tree again reuses every scope the previous
// run did not invalidate.
type Pass struct {
	opts      Options
	purity    *ast.PurityContext
	links     map[string]bool
	preserved map[string]bool
	scopes    *scope.Creator
	log       *slog.Logger
}

// New returns a Pass configured by opts.
func New(opts Options) *Pass {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pass{
		opts:      opts,
		purity:    ast.NewPurityContext(opts.PureCalls...),
		links:     toSet(opts.LinkFunctions),
		preserved: toSet(opts.PreservedCalls),
		scopes:    scope.NewCreator(),
		log:       log,
	}
}

// Scopes returns the scope creator shared by every iteration. Other passes
// may read scopes from it between calls to Process.
func (p *Pass) Scopes() *scope.Creator {
	return p.scopes
}

// Process removes unused bindings from root in place. Declarations in
// root.Externs are never removed. The returned error is non-nil only for an
// *InternalError.
func (p *Pass) Process(root *ast.Root) (Report, error) {
	var report Report
	for {
		if report.Iterations >= p.opts.MaxIterations {
			return report, &InternalError{Iterations: report.Iterations, Err: ErrNoFixpoint}
		}
		report.Iterations++

		built := p.scopes.Stats().Built
		p.scopes.Freeze()
		a := p.analyze(root)
		p.scopes.Thaw()

		r := newRewriter(a)
		r.rewriteRoot(root)

		p.log.Debug("unused pass iteration",
			slog.Int("iteration", report.Iterations),
			slog.Int("removed", r.removed),
			slog.Int("scopesRebuilt", p.scopes.Stats().Built-built))

		if r.edits == 0 {
			return report, nil
		}
		report.Changed = true
		report.Removed += r.removed
	}
}

// analyze computes liveness and call-site plans for the current tree.
func (p *Pass) analyze(root *ast.Root) *analysis {
	a := newAnalysis(p)
	nodes := make([]ast.Node, len(root.Programs))
	for i, prog := range root.Programs {
		nodes[i] = prog
	}
	a.purity = p.purity.Without(ast.DeclaredNames(nodes...))
	a.collect(root)
	a.drain()
	if p.opts.TrimCallSites {
		a.planCalls()
	}
	return a
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// dottedName returns "a.b.c" for a chain of identifiers and dots.
func dottedName(e ast.Expr) (string, bool) {
	switch e := e.(type) {
	case *ast.Identifier:
		return e.Name, true
	case *ast.DotExpr:
		if e.Optional {
			return "", false
		}
		if prefix, ok := dottedName(e.Target); ok {
			return prefix + "." + e.Name, true
		}
	}
	return "", false
}

func hasPrefix(name, prefix string) bool {
	return prefix != "" && strings.HasPrefix(name, prefix)
}
