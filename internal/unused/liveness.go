package unused

import (
	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/scope"
)

// binding is the per-iteration state of one scope.Binding.
type binding struct {
	decl *scope.Binding
	live bool

	// Work deferred until the binding becomes live.
	waiting []func()

	// shared is set once the binding may hold a value that other code can
	// reach. Property writes on a shared binding are observable.
	shared bool
	writes int // removable property writes recorded against it

	// Call-site bookkeeping.
	fn         *ast.Function // function value, if declared with one
	defs       int           // declarations and assignments giving it a value
	calls      []ast.Expr    // *ast.CallExpr or *ast.NewExpr using it as callee
	nonCallUse bool          // read other than as a callee
}

// fnInfo is what the walk learned about one function.
type fnInfo struct {
	params        []*binding
	usesArguments bool
	locked        bool // parameters must all stay
}

// analysis holds the reference graph and liveness of one iteration.
type analysis struct {
	pass   *Pass
	scopes *scope.Creator
	purity *ast.PurityContext

	bindings map[*scope.Binding]*binding
	idents   map[*ast.Identifier]*binding
	fns      map[*ast.Function]*fnInfo

	// Removable property writes, by assignment, with their base binding.
	writes map[*ast.AssignExpr]*binding

	// Inheritance-link calls, with their derived binding.
	links map[*ast.CallExpr]*binding

	// Kept argument counts for call sites that can be trimmed.
	trims map[ast.Expr]int

	queue []*binding
}

func newAnalysis(p *Pass) *analysis {
	return &analysis{
		pass:     p,
		scopes:   p.scopes,
		bindings: make(map[*scope.Binding]*binding),
		idents:   make(map[*ast.Identifier]*binding),
		fns:      make(map[*ast.Function]*fnInfo),
		writes:   make(map[*ast.AssignExpr]*binding),
		links:    make(map[*ast.CallExpr]*binding),
		trims:    make(map[ast.Expr]int),
	}
}

// info returns the state of sb, creating it on first use. Roots are marked
// live when created.
func (a *analysis) info(sb *scope.Binding) *binding {
	if b := a.bindings[sb]; b != nil {
		return b
	}
	b := &binding{decl: sb}
	a.bindings[sb] = b
	if a.rooted(sb) {
		a.markLive(b)
	}
	return b
}

// rooted reports whether sb is live regardless of references.
func (a *analysis) rooted(sb *scope.Binding) bool {
	opts := &a.pass.opts
	switch {
	case sb.Extern:
		return true
	case sb.Kind == scope.CatchParam:
		return true
	case sb.Kind == scope.Parameter:
		return !opts.RemoveGlobal || sb.Name == "$super"
	case sb.Scope.IsTopLevel() && !opts.RemoveGlobal:
		return true
	case sb.Scope.Kind == scope.KindGlobal && hasPrefix(sb.Name, opts.ExportPrefix):
		return true
	}
	return false
}

// markLive adds b to the live set. A nil binding is an unresolved name,
// which is always considered live.
func (a *analysis) markLive(b *binding) {
	if b == nil || b.live {
		return
	}
	b.live = true
	a.queue = append(a.queue, b)
}

// when runs f once b is live: now if it already is, otherwise after b is
// marked.
func (a *analysis) when(b *binding, f func()) {
	if b == nil || b.live {
		f()
		return
	}
	b.waiting = append(b.waiting, f)
}

// drain runs deferred work until the live set stops growing. Work may mark
// further bindings live or defer more work; both are picked up by the same
// loop, so no binding's work runs twice.
func (a *analysis) drain() {
	for len(a.queue) > 0 {
		b := a.queue[0]
		a.queue = a.queue[1:]
		waiting := b.waiting
		b.waiting = nil
		for _, f := range waiting {
			f()
		}
	}
}

// share records that b may hold a value visible elsewhere.
func (a *analysis) share(b *binding) {
	if b == nil || b.shared {
		return
	}
	b.shared = true
	if b.writes > 0 {
		a.markLive(b)
	}
}

// addWrite records a removable property write on b.
func (a *analysis) addWrite(b *binding) {
	b.writes++
	if b.shared {
		a.markLive(b)
	}
}

// define records a value given to b by a declaration or assignment. used
// reports whether the assignment's own result is read, which hands the
// value to a second holder.
func (a *analysis) define(b *binding, value ast.Expr, used bool) {
	if b == nil {
		return
	}
	b.defs++
	if fn, ok := value.(*ast.Function); ok && (fn.Kind == ast.FnNormal || fn.Kind == ast.FnArrow) {
		b.fn = fn
	}
	if used || !a.purity.IsLocalValue(value) {
		a.share(b)
	}
}

// useArguments records that the function behind info reads its arguments
// object, which makes every parameter observable.
func (a *analysis) useArguments(info *fnInfo) {
	if info == nil {
		return
	}
	info.usesArguments = true
	for _, b := range info.params {
		a.markLive(b)
	}
}
