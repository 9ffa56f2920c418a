package ast

// Inspect traverses the tree rooted at n in depth-first order. It calls
// f(node) for every node; if f returns false, Inspect skips the node's
// children. Auxiliary records that are not nodes (declarators, parameters,
// properties, class members, pattern elements, switch cases) are traversed
// through, so f sees the nodes they hold.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	visit := func(child Node) {
		if child != nil {
			Inspect(child, f)
		}
	}
	expr := func(e Expr) {
		if e != nil {
			Inspect(e, f)
		}
	}
	stmt := func(s Stmt) {
		if s != nil {
			Inspect(s, f)
		}
	}
	pattern := func(p Pattern) {
		if p != nil {
			Inspect(p, f)
		}
	}

	switch n := n.(type) {
	case *Root:
		if n.Externs != nil {
			visit(n.Externs)
		}
		for _, p := range n.Programs {
			visit(p)
		}
	case *Program:
		for _, s := range n.Body {
			stmt(s)
		}
	case *Function:
		if n.Name != nil {
			visit(n.Name)
		}
		for _, p := range n.Params {
			pattern(p.Target)
			expr(p.Default)
		}
		if n.Body != nil {
			visit(n.Body)
		}
		expr(n.ExprBody)
	case *Class:
		if n.Name != nil {
			visit(n.Name)
		}
		expr(n.Extends)
		for _, m := range n.Members {
			expr(m.Key)
			visit(m.Value)
		}

	case *ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				pattern(el.Target)
				expr(el.Default)
			}
		}
		pattern(n.Rest)
	case *ObjectPattern:
		for _, prop := range n.Props {
			if !prop.Shorthand {
				expr(prop.Key)
			}
			pattern(prop.Target)
			expr(prop.Default)
		}
		pattern(n.Rest)

	case *VarDecl:
		for _, d := range n.Decls {
			pattern(d.Target)
			expr(d.Init)
		}
	case *FunctionDecl:
		visit(n.Fn)
	case *ClassDecl:
		visit(n.Class)
	case *ExprStmt:
		expr(n.Expr)
	case *BlockStmt:
		for _, s := range n.Body {
			stmt(s)
		}
	case *IfStmt:
		expr(n.Test)
		stmt(n.Then)
		stmt(n.Else)
	case *ForStmt:
		stmt(n.Init)
		expr(n.Test)
		expr(n.Update)
		stmt(n.Body)
	case *ForInStmt:
		if n.Decl != nil {
			visit(n.Decl)
		}
		pattern(n.Target)
		expr(n.Right)
		stmt(n.Body)
	case *WhileStmt:
		expr(n.Test)
		stmt(n.Body)
	case *DoWhileStmt:
		stmt(n.Body)
		expr(n.Test)
	case *ReturnStmt:
		expr(n.Value)
	case *ThrowStmt:
		expr(n.Value)
	case *TryStmt:
		visit(n.Block)
		if n.Catch != nil {
			visit(n.Catch)
		}
		if n.Finally != nil {
			visit(n.Finally)
		}
	case *CatchClause:
		pattern(n.Param)
		visit(n.Body)
	case *SwitchStmt:
		expr(n.Discriminant)
		for _, c := range n.Cases {
			expr(c.Test)
			for _, s := range c.Body {
				stmt(s)
			}
		}
	case *LabeledStmt:
		stmt(n.Body)
	case *WithStmt:
		expr(n.Object)
		stmt(n.Body)
	case *ExportDecl:
		stmt(n.Decl)
	case *ExportDefault:
		stmt(n.Decl)
		expr(n.Expr)
	case *ExportNamed:
		for _, s := range n.Specifiers {
			visit(s.Local)
		}

	case *TemplateLit:
		expr(n.Tag)
		for _, e := range n.Exprs {
			expr(e)
		}
	case *ArrayLit:
		for _, e := range n.Elements {
			expr(e)
		}
	case *ObjectLit:
		for _, p := range n.Props {
			if p.Kind != PropSpread && !p.Shorthand {
				expr(p.Key)
			}
			expr(p.Value)
			expr(p.Default)
		}
	case *SpreadElement:
		expr(n.Arg)
	case *UnaryExpr:
		expr(n.Arg)
	case *BinaryExpr:
		expr(n.Left)
		expr(n.Right)
	case *AssignExpr:
		pattern(n.Target)
		expr(n.Value)
	case *CondExpr:
		expr(n.Test)
		expr(n.Yes)
		expr(n.No)
	case *CallExpr:
		expr(n.Callee)
		for _, a := range n.Args {
			expr(a)
		}
	case *NewExpr:
		expr(n.Callee)
		for _, a := range n.Args {
			expr(a)
		}
	case *DotExpr:
		expr(n.Target)
	case *IndexExpr:
		expr(n.Target)
		expr(n.Index)
	case *YieldExpr:
		expr(n.Arg)
	}
}

// BindingIdentifiers calls f for every identifier bound by the pattern p.
// Member expression targets bind nothing and are skipped.
func BindingIdentifiers(p Pattern, f func(*Identifier)) {
	switch p := p.(type) {
	case *Identifier:
		f(p)
	case *ArrayPattern:
		for _, el := range p.Elements {
			if el != nil && el.Target != nil {
				BindingIdentifiers(el.Target, f)
			}
		}
		if p.Rest != nil {
			BindingIdentifiers(p.Rest, f)
		}
	case *ObjectPattern:
		for _, prop := range p.Props {
			BindingIdentifiers(prop.Target, f)
		}
		if p.Rest != nil {
			BindingIdentifiers(p.Rest, f)
		}
	}
}

// IsFunctionBody reports whether block is the body of fn.
func IsFunctionBody(fn *Function, block *BlockStmt) bool {
	return fn != nil && fn.Body == block
}

// DeclaresLexically reports whether a for or for-in/of head declares let or
// const bindings, which makes the loop a scope of its own.
func DeclaresLexically(s Stmt) bool {
	switch s := s.(type) {
	case *ForStmt:
		if d, ok := s.Init.(*VarDecl); ok {
			return d.Kind != VarVar
		}
	case *ForInStmt:
		return s.Decl != nil && s.Decl.Kind != VarVar
	}
	return false
}

// PropertyKeyName returns the static name of a non-computed property key.
func PropertyKeyName(key Expr) (string, bool) {
	switch k := key.(type) {
	case *Identifier:
		return k.Name, true
	case *StringLit:
		if len(k.Raw) >= 2 {
			return k.Raw[1 : len(k.Raw)-1], true
		}
	case *NumberLit:
		return k.Raw, true
	}
	return "", false
}
