package scope

import (
	"github.com/HugoDaniel/jsprune/internal/ast"
)

// Creator builds scopes on demand and memoizes them by defining node.
//
// The cache follows a freeze/thaw protocol. While frozen, CreateScope
// returns the cached scope for a node, building and caching it on a miss.
// While thawed, CreateScope builds a fresh scope on every call and leaves
// the cache alone, so edits in progress are never observed through stale
// entries. Edits are announced with ReportChange; the next Freeze discards
// the reported scopes and every scope enclosing them, and keeps the rest
// by identity.
//
// A Creator is not safe for concurrent use. Callers serialize cache
// mutation against reads through the freeze/thaw protocol.
type Creator struct {
	frozen bool

	cache    map[ast.ScopeNode]*Scope
	owner    map[ast.ScopeNode]ast.ScopeNode   // child scope node -> enclosing scope node
	children map[ast.ScopeNode][]ast.ScopeNode // scope node -> nested scope nodes
	dirty    map[ast.ScopeNode]bool

	// Functions and classes that are declarations rather than expressions.
	// Their names belong to the enclosing scope.
	fnDecls    map[*ast.Function]bool
	classDecls map[*ast.Class]bool

	stats Stats
}

// Stats counts cache activity since the Creator was made.
type Stats struct {
	Built     int // scopes constructed
	Reused    int // cache hits
	Discarded int // cached scopes dropped by invalidation
}

// NewCreator returns a thawed Creator with an empty cache.
func NewCreator() *Creator {
	return &Creator{
		cache:      make(map[ast.ScopeNode]*Scope),
		owner:      make(map[ast.ScopeNode]ast.ScopeNode),
		children:   make(map[ast.ScopeNode][]ast.ScopeNode),
		dirty:      make(map[ast.ScopeNode]bool),
		fnDecls:    make(map[*ast.Function]bool),
		classDecls: make(map[*ast.Class]bool),
	}
}

// CreateScope returns the scope defined by node. parent must be nil for
// the *ast.Root and must otherwise be the scope of the node that encloses
// node; violations panic with a *NestingError.
func (c *Creator) CreateScope(node ast.ScopeNode, parent *Scope) *Scope {
	c.checkNesting(node, parent)

	if c.frozen {
		if s := c.cache[node]; s != nil && s.Parent == parent {
			c.stats.Reused++
			return s
		}
	}

	s := newScope(kindOf(node), node, parent)
	sc := &scanner{c: c, scope: s}
	sc.scan()
	c.stats.Built++
	c.record(node, sc.children)

	if c.frozen {
		c.cache[node] = s
		c.adopt(s)
	}
	return s
}

func (c *Creator) checkNesting(node ast.ScopeNode, parent *Scope) {
	if _, isRoot := node.(*ast.Root); isRoot {
		if parent != nil {
			panic(&NestingError{Err: ErrInvalidArgument, Node: node, Detail: "global scope cannot have a parent"})
		}
		return
	}
	if parent == nil {
		panic(&NestingError{Err: ErrInvalidArgument, Node: node, Detail: "nested scope requires a parent"})
	}
	if expected, ok := c.owner[node]; !ok || expected != parent.Node {
		panic(&NestingError{Err: ErrMismatchedNesting, Node: node, Detail: "parent scope does not enclose node"})
	}
}

// record stores the nested scope nodes found while building node. Nodes
// that were nested before but are no longer present have been detached,
// so their cached scopes are dropped.
func (c *Creator) record(node ast.ScopeNode, children []ast.ScopeNode) {
	old := c.children[node]
	c.children[node] = children

	present := make(map[ast.ScopeNode]bool, len(children))
	for _, child := range children {
		present[child] = true
		c.owner[child] = node
	}
	for _, child := range old {
		if !present[child] && c.owner[child] == node {
			c.purge(child)
		}
	}
}

// purge forgets node and every scope nested inside it.
func (c *Creator) purge(node ast.ScopeNode) {
	if _, ok := c.cache[node]; ok {
		delete(c.cache, node)
		c.stats.Discarded++
	}
	delete(c.owner, node)
	delete(c.dirty, node)
	switch n := node.(type) {
	case *ast.Function:
		delete(c.fnDecls, n)
	case *ast.Class:
		delete(c.classDecls, n)
	}
	children := c.children[node]
	delete(c.children, node)
	for _, child := range children {
		c.purge(child)
	}
}

// adopt points the cached scopes nested in s at s, which replaces a
// discarded scope for the same node.
func (c *Creator) adopt(s *Scope) {
	for _, child := range c.children[s.Node] {
		if cs := c.cache[child]; cs != nil {
			cs.Parent = s
		}
	}
}

// ReportChange marks the scope defined by node as edited. It takes effect
// at the next Freeze.
func (c *Creator) ReportChange(node ast.ScopeNode) {
	c.dirty[node] = true
}

// Freeze discards the scopes of every reported node and of all scopes
// enclosing them, then enables cached reads. Freezing a frozen Creator
// does nothing.
func (c *Creator) Freeze() {
	if c.frozen {
		return
	}
	for node := range c.dirty {
		for n := node; ; {
			if _, ok := c.cache[n]; ok {
				delete(c.cache, n)
				c.stats.Discarded++
			}
			parent, ok := c.owner[n]
			if !ok {
				break
			}
			n = parent
		}
	}
	clear(c.dirty)
	c.frozen = true
}

// Thaw disables cached reads until the next Freeze.
func (c *Creator) Thaw() {
	c.frozen = false
}

// IsFrozen reports whether cached reads are enabled.
func (c *Creator) IsFrozen() bool {
	return c.frozen
}

// Stats returns the cache counters.
func (c *Creator) Stats() Stats {
	return c.stats
}
