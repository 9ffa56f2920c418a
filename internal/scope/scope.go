// Package scope builds the lexical scope tree of a JavaScript program.
//
// A Scope is identified by the node that defines it (see ast.ScopeNode).
// Scopes are produced on demand by a Creator, which memoizes them by node
// identity and lets callers invalidate only the regions they edit.
package scope

import (
	"errors"
	"fmt"

	"github.com/HugoDaniel/jsprune/internal/ast"
)

// Kind classifies a scope by the construct that defines it.
type Kind uint8

const (
	KindGlobal Kind = iota
	KindModule
	KindFunction
	KindBlock
	KindCatch
	KindClass
	KindLoop
)

var kindNames = [...]string{"global", "module", "function", "block", "catch", "class", "loop"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// BindingKind classifies how a name was declared.
type BindingKind uint8

const (
	GlobalVar    BindingKind = iota // var or function declared in the global scope
	LocalVar                        // var or function declared in a function or module
	BlockScoped                     // let, const, class, or a function in a block
	Parameter                       // formal parameter
	FunctionName                    // internal name of a function expression
	ClassName                       // internal name of a class expression
	CatchParam                      // catch clause parameter
)

var bindingKindNames = [...]string{
	"global-var", "local-var", "block-scoped", "parameter",
	"function-expression-name", "class-expression-name", "catch-param",
}

func (k BindingKind) String() string {
	if int(k) < len(bindingKindNames) {
		return bindingKindNames[k]
	}
	return fmt.Sprintf("BindingKind(%d)", k)
}

// Binding is one declared name.
type Binding struct {
	Name  string
	Kind  BindingKind
	Scope *Scope

	// Decl is the first identifier that declared the name.
	Decl *ast.Identifier

	// Site is the declaring construct: *ast.VarDecl, *ast.FunctionDecl,
	// *ast.ClassDecl, *ast.CatchClause, or the *ast.Function / *ast.Class
	// owning a parameter or expression name.
	Site ast.Node

	// Extern marks names declared by the extern boundary. They are never
	// removable.
	Extern bool
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s (%s)", b.Name, b.Kind)
}

// Scope is a lexical region owning a name-to-binding mapping.
type Scope struct {
	Kind   Kind
	Node   ast.ScopeNode
	Parent *Scope

	bindings map[string]*Binding
	order    []*Binding
}

func newScope(kind Kind, node ast.ScopeNode, parent *Scope) *Scope {
	return &Scope{
		Kind:     kind,
		Node:     node,
		Parent:   parent,
		bindings: make(map[string]*Binding),
	}
}

// Get returns the binding declared directly in s, or nil.
func (s *Scope) Get(name string) *Binding {
	return s.bindings[name]
}

// Lookup resolves name by walking the parent chain. It returns nil if no
// enclosing scope declares the name.
func (s *Scope) Lookup(name string) *Binding {
	for scope := s; scope != nil; scope = scope.Parent {
		if b := scope.bindings[name]; b != nil {
			return b
		}
	}
	return nil
}

// Bindings returns the bindings of s in declaration order.
func (s *Scope) Bindings() []*Binding {
	return s.order
}

// IsHoisting reports whether var declarations in nested blocks land in s.
func (s *Scope) IsHoisting() bool {
	return s.Kind == KindGlobal || s.Kind == KindModule || s.Kind == KindFunction
}

// IsTopLevel reports whether s is the global scope or a module scope.
func (s *Scope) IsTopLevel() bool {
	return s.Kind == KindGlobal || s.Kind == KindModule
}

// Hoisting returns the nearest enclosing scope that receives var
// declarations.
func (s *Scope) Hoisting() *Scope {
	scope := s
	for !scope.IsHoisting() {
		scope = scope.Parent
	}
	return scope
}

// declare adds a binding unless one already exists. Expression names are
// the exception: any other declaration of the same name shadows them.
func (s *Scope) declare(id *ast.Identifier, kind BindingKind, site ast.Node, extern bool) *Binding {
	if existing := s.bindings[id.Name]; existing != nil {
		if existing.Kind != FunctionName && existing.Kind != ClassName {
			return existing
		}
		for i, b := range s.order {
			if b == existing {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	b := &Binding{Name: id.Name, Kind: kind, Scope: s, Decl: id, Site: site, Extern: extern}
	s.bindings[id.Name] = b
	s.order = append(s.order, b)
	return b
}

// ----------------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------------

var (
	// ErrInvalidArgument reports a nil parent for a nested scope or a
	// non-nil parent for the global scope.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMismatchedNesting reports a parent scope that is not the scope a
	// correctly nested walk would have supplied.
	ErrMismatchedNesting = errors.New("mismatched nesting")
)

// NestingError is the panic value for malformed CreateScope requests.
// These are programmer errors, so they are not returned.
type NestingError struct {
	Err    error
	Node   ast.ScopeNode
	Detail string
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("scope: %v: %T at offset %d: %s", e.Err, e.Node, e.Node.Pos().Start, e.Detail)
}

func (e *NestingError) Unwrap() error {
	return e.Err
}
