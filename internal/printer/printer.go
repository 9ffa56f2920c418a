// Package printer outputs JavaScript code from an AST.
//
// The printer can operate in two modes:
// - Pretty: Human-readable output with indentation
// - Minified: Minimal whitespace output
//
// Following the esbuild pattern, parentheses are derived from operator
// precedence while printing, so rewritten trees never need explicit
// grouping nodes.
package printer

import (
	"strings"

	"github.com/HugoDaniel/jsprune/internal/ast"
)

// Options controls printer output.
type Options struct {
	// MinifyWhitespace removes unnecessary whitespace
	MinifyWhitespace bool
}

// Printer outputs JavaScript code.
type Printer struct {
	options Options

	buf    strings.Builder
	indent int

	// Set while printing a for-loop initializer, where a bare "in"
	// operator would be read as a for-in loop.
	forbidIn bool
}

// New creates a new printer.
func New(options Options) *Printer {
	return &Printer{options: options}
}

// Print outputs the program as a string.
func (p *Printer) Print(prog *ast.Program) string {
	p.buf.Reset()
	p.indent = 0
	for _, s := range prog.Body {
		p.printStmt(s)
	}
	return p.buf.String()
}

// PrintExpr outputs a single expression.
func (p *Printer) PrintExpr(e ast.Expr) string {
	p.buf.Reset()
	p.printExpr(e, ast.LLowest)
	return p.buf.String()
}

// ----------------------------------------------------------------------------
// Output Helpers
// ----------------------------------------------------------------------------

// print writes s, separating it from the previous output when the two
// would otherwise fuse into a different token.
func (p *Printer) print(s string) {
	if s == "" {
		return
	}
	if n := p.buf.Len(); n > 0 {
		last := p.buf.String()[n-1]
		first := s[0]
		if (isWordByte(last) && isWordByte(first)) ||
			(last == '+' && first == '+') || (last == '-' && first == '-') ||
			(last == '/' && first == '/') {
			p.buf.WriteByte(' ')
		}
	}
	p.buf.WriteString(s)
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '$' || c >= 0x80
}

func (p *Printer) printSpace() {
	if !p.options.MinifyWhitespace {
		p.buf.WriteByte(' ')
	}
}

func (p *Printer) printNewline() {
	if !p.options.MinifyWhitespace {
		p.buf.WriteByte('\n')
	}
}

func (p *Printer) printIndent() {
	if !p.options.MinifyWhitespace {
		for i := 0; i < p.indent; i++ {
			p.buf.WriteString("    ")
		}
	}
}

// printComma prints a list separator.
func (p *Printer) printComma() {
	p.print(",")
	p.printSpace()
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Printer) printStmt(s ast.Stmt) {
	p.printIndent()
	p.printStmtInline(s)
	p.printNewline()
}

// printStmtInline prints a statement without leading indentation or a
// trailing newline.
func (p *Printer) printStmtInline(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.BlockStmt:
		p.printBlock(s)

	case *ast.EmptyStmt:
		p.print(";")

	case *ast.ExprStmt:
		p.printExprStmtValue(s.Expr)
		p.print(";")

	case *ast.VarDecl:
		p.printVarDecl(s)
		p.print(";")

	case *ast.FunctionDecl:
		p.printFunction(s.Fn)

	case *ast.ClassDecl:
		p.printClass(s.Class)

	case *ast.IfStmt:
		p.print("if")
		p.printSpace()
		p.printParenExpr(s.Test)
		then := s.Then
		if s.Else != nil && danglesElse(then) {
			then = &ast.BlockStmt{Body: []ast.Stmt{then}}
		}
		p.printBody(then)
		if s.Else != nil {
			if _, ok := then.(*ast.BlockStmt); ok {
				p.printSpace()
			} else {
				p.printNewline()
				p.printIndent()
			}
			p.print("else")
			if _, ok := s.Else.(*ast.IfStmt); ok {
				p.printSpace()
				p.printStmtInline(s.Else)
			} else {
				p.printBody(s.Else)
			}
		}

	case *ast.ForStmt:
		p.print("for")
		p.printSpace()
		p.print("(")
		switch init := s.Init.(type) {
		case *ast.VarDecl:
			p.forbidIn = true
			p.printVarDecl(init)
			p.forbidIn = false
		case *ast.ExprStmt:
			p.forbidIn = true
			p.printExpr(init.Expr, ast.LLowest)
			p.forbidIn = false
		}
		p.print(";")
		if s.Test != nil {
			p.printSpace()
			p.printExpr(s.Test, ast.LLowest)
		}
		p.print(";")
		if s.Update != nil {
			p.printSpace()
			p.printExpr(s.Update, ast.LLowest)
		}
		p.print(")")
		p.printBody(s.Body)

	case *ast.ForInStmt:
		p.print("for")
		p.printSpace()
		p.print("(")
		if s.Decl != nil {
			p.printVarDecl(s.Decl)
		} else {
			p.printPattern(s.Target)
		}
		p.printSpace()
		if s.Of {
			p.print("of")
			p.print(" ")
			p.printExpr(s.Right, ast.LComma)
		} else {
			p.print("in")
			p.print(" ")
			p.printExpr(s.Right, ast.LLowest)
		}
		p.print(")")
		p.printBody(s.Body)

	case *ast.WhileStmt:
		p.print("while")
		p.printSpace()
		p.printParenExpr(s.Test)
		p.printBody(s.Body)

	case *ast.DoWhileStmt:
		p.print("do")
		p.printBody(s.Body)
		if _, ok := s.Body.(*ast.BlockStmt); ok {
			p.printSpace()
		} else {
			p.printNewline()
			p.printIndent()
		}
		p.print("while")
		p.printSpace()
		p.printParenExpr(s.Test)
		p.print(";")

	case *ast.ReturnStmt:
		p.print("return")
		if s.Value != nil {
			p.print(" ")
			p.printExpr(s.Value, ast.LLowest)
		}
		p.print(";")

	case *ast.ThrowStmt:
		p.print("throw")
		p.print(" ")
		p.printExpr(s.Value, ast.LLowest)
		p.print(";")

	case *ast.BreakStmt:
		p.print("break")
		if s.Label != "" {
			p.print(" ")
			p.print(s.Label)
		}
		p.print(";")

	case *ast.ContinueStmt:
		p.print("continue")
		if s.Label != "" {
			p.print(" ")
			p.print(s.Label)
		}
		p.print(";")

	case *ast.TryStmt:
		p.print("try")
		p.printSpace()
		p.printBlock(s.Block)
		if s.Catch != nil {
			p.printSpace()
			p.print("catch")
			if s.Catch.Param != nil {
				p.printSpace()
				p.print("(")
				p.printPattern(s.Catch.Param)
				p.print(")")
			}
			p.printSpace()
			p.printBlock(s.Catch.Body)
		}
		if s.Finally != nil {
			p.printSpace()
			p.print("finally")
			p.printSpace()
			p.printBlock(s.Finally)
		}

	case *ast.SwitchStmt:
		p.print("switch")
		p.printSpace()
		p.printParenExpr(s.Discriminant)
		p.printSpace()
		p.print("{")
		p.printNewline()
		for _, c := range s.Cases {
			p.printIndent()
			if c.Test != nil {
				p.print("case")
				p.print(" ")
				p.printExpr(c.Test, ast.LLowest)
			} else {
				p.print("default")
			}
			p.print(":")
			p.printNewline()
			p.indent++
			for _, stmt := range c.Body {
				p.printStmt(stmt)
			}
			p.indent--
		}
		p.printIndent()
		p.print("}")

	case *ast.LabeledStmt:
		p.print(s.Label)
		p.print(":")
		p.printSpace()
		p.printStmtInline(s.Body)

	case *ast.WithStmt:
		p.print("with")
		p.printSpace()
		p.printParenExpr(s.Object)
		p.printBody(s.Body)

	case *ast.DebuggerStmt:
		p.print("debugger;")

	case *ast.ExportDecl:
		p.print("export")
		p.print(" ")
		p.printStmtInline(s.Decl)

	case *ast.ExportDefault:
		p.print("export")
		p.print(" ")
		p.print("default")
		p.print(" ")
		if s.Decl != nil {
			p.printStmtInline(s.Decl)
		} else {
			p.printExprStmtValue(s.Expr)
			p.print(";")
		}

	case *ast.ExportNamed:
		p.print("export")
		p.printSpace()
		p.print("{")
		for i, spec := range s.Specifiers {
			if i > 0 {
				p.printComma()
			}
			p.print(spec.Local.Name)
			if spec.Exported != spec.Local.Name {
				p.print(" ")
				p.print("as")
				p.print(" ")
				p.print(spec.Exported)
			}
		}
		p.print("}")
		p.print(";")
	}
}

func (p *Printer) printBlock(b *ast.BlockStmt) {
	if len(b.Body) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.printNewline()
	p.indent++
	for _, s := range b.Body {
		p.printStmt(s)
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

// printBody prints the body of a control statement on the same line.
func (p *Printer) printBody(s ast.Stmt) {
	if _, ok := s.(*ast.EmptyStmt); ok {
		p.print(";")
		return
	}
	p.printSpace()
	p.printStmtInline(s)
}

func (p *Printer) printParenExpr(e ast.Expr) {
	p.print("(")
	p.printExpr(e, ast.LLowest)
	p.print(")")
}

// printExprStmtValue prints an expression in a position where a leading
// "{", "function" or "class" would be read as the start of a statement.
func (p *Printer) printExprStmtValue(e ast.Expr) {
	if startsLikeStatement(e) {
		p.print("(")
		p.printExpr(e, ast.LLowest)
		p.print(")")
		return
	}
	p.printExpr(e, ast.LLowest)
}

func (p *Printer) printVarDecl(d *ast.VarDecl) {
	p.print(d.Kind.String())
	p.print(" ")
	for i, decl := range d.Decls {
		if i > 0 {
			p.printComma()
		}
		p.printPattern(decl.Target)
		if decl.Init != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(decl.Init, ast.LComma)
		}
	}
}

// danglesElse reports whether s, used as the then-branch of an if with an
// else, would capture that else when printed without braces.
func danglesElse(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.IfStmt:
		if s.Else == nil {
			return true
		}
		return danglesElse(s.Else)
	case *ast.ForStmt:
		return danglesElse(s.Body)
	case *ast.ForInStmt:
		return danglesElse(s.Body)
	case *ast.WhileStmt:
		return danglesElse(s.Body)
	case *ast.LabeledStmt:
		return danglesElse(s.Body)
	case *ast.WithStmt:
		return danglesElse(s.Body)
	}
	return false
}

// startsLikeStatement reports whether the leftmost token of e is "{",
// "function" or "class".
func startsLikeStatement(e ast.Expr) bool {
	for {
		switch n := e.(type) {
		case *ast.ObjectLit, *ast.Class:
			return true
		case *ast.Function:
			return !n.IsArrow()
		case *ast.BinaryExpr:
			e = n.Left
		case *ast.AssignExpr:
			if _, ok := n.Target.(*ast.ObjectPattern); ok {
				return true
			}
			target, ok := n.Target.(ast.Expr)
			if !ok {
				return false
			}
			e = target
		case *ast.CondExpr:
			e = n.Test
		case *ast.CallExpr:
			e = n.Callee
		case *ast.DotExpr:
			e = n.Target
		case *ast.IndexExpr:
			e = n.Target
		case *ast.TemplateLit:
			if n.Tag == nil {
				return false
			}
			e = n.Tag
		case *ast.UnaryExpr:
			if n.Op.IsPrefix() {
				return false
			}
			e = n.Arg
		default:
			return false
		}
	}
}

// ----------------------------------------------------------------------------
// Functions and Classes
// ----------------------------------------------------------------------------

func (p *Printer) printFunction(fn *ast.Function) {
	if fn.IsArrow() {
		p.printArrow(fn)
		return
	}
	p.print("function")
	if fn.IsGenerator {
		p.print("*")
	}
	if fn.Name != nil {
		p.print(" ")
		p.print(fn.Name.Name)
	}
	p.printParams(fn.Params)
	p.printSpace()
	p.printBlock(fn.Body)
}

func (p *Printer) printArrow(fn *ast.Function) {
	p.printParams(fn.Params)
	p.printSpace()
	p.print("=>")
	p.printSpace()
	if fn.Body != nil {
		p.printBlock(fn.Body)
		return
	}
	if startsLikeStatement(fn.ExprBody) {
		p.print("(")
		p.printExpr(fn.ExprBody, ast.LLowest)
		p.print(")")
		return
	}
	p.printExpr(fn.ExprBody, ast.LComma)
}

func (p *Printer) printParams(params []*ast.Param) {
	oldForbidIn := p.forbidIn
	p.forbidIn = false
	p.print("(")
	for i, param := range params {
		if i > 0 {
			p.printComma()
		}
		if param.Rest {
			p.print("...")
		}
		p.printPattern(param.Target)
		if param.Default != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(param.Default, ast.LComma)
		}
	}
	p.print(")")
	p.forbidIn = oldForbidIn
}

// printMethod prints a method, accessor or constructor after its key.
func (p *Printer) printMethod(fn *ast.Function) {
	p.printParams(fn.Params)
	p.printSpace()
	p.printBlock(fn.Body)
}

func (p *Printer) printPropertyKey(key ast.Expr, computed bool) {
	if computed {
		p.print("[")
		p.printExpr(key, ast.LComma)
		p.print("]")
		return
	}
	p.printExpr(key, ast.LLowest)
}

func (p *Printer) printClass(c *ast.Class) {
	p.print("class")
	if c.Name != nil {
		p.print(" ")
		p.print(c.Name.Name)
	}
	if c.Extends != nil {
		p.print(" ")
		p.print("extends")
		p.print(" ")
		p.printExpr(c.Extends, ast.LPostfix)
	}
	p.printSpace()
	if len(c.Members) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.printNewline()
	p.indent++
	for _, m := range c.Members {
		p.printIndent()
		if m.Static {
			p.print("static")
			p.print(" ")
		}
		p.printAccessorPrefix(m.Value)
		p.printPropertyKey(m.Key, m.Computed)
		p.printMethod(m.Value)
		p.printNewline()
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *Printer) printAccessorPrefix(fn *ast.Function) {
	switch {
	case fn.Kind == ast.FnGetter:
		p.print("get")
		p.print(" ")
	case fn.Kind == ast.FnSetter:
		p.print("set")
		p.print(" ")
	case fn.IsGenerator:
		p.print("*")
	}
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

func (p *Printer) printPattern(pat ast.Pattern) {
	switch pat := pat.(type) {
	case *ast.Identifier:
		p.print(pat.Name)

	case *ast.DotExpr:
		p.printExpr(pat, ast.LPostfix)

	case *ast.IndexExpr:
		p.printExpr(pat, ast.LPostfix)

	case *ast.ArrayPattern:
		p.print("[")
		for i, el := range pat.Elements {
			if i > 0 {
				p.printComma()
			}
			if el == nil {
				continue
			}
			p.printPattern(el.Target)
			p.printDefault(el.Default)
		}
		if n := len(pat.Elements); n > 0 && pat.Elements[n-1] == nil && pat.Rest == nil {
			p.print(",")
		}
		if pat.Rest != nil {
			if len(pat.Elements) > 0 {
				p.printComma()
			}
			p.print("...")
			p.printPattern(pat.Rest)
		}
		p.print("]")

	case *ast.ObjectPattern:
		p.print("{")
		for i, prop := range pat.Props {
			if i > 0 {
				p.printComma()
			}
			if id, ok := prop.Target.(*ast.Identifier); ok && prop.Shorthand {
				if key, ok := prop.Key.(*ast.Identifier); ok && key.Name == id.Name {
					p.print(id.Name)
					p.printDefault(prop.Default)
					continue
				}
			}
			p.printPropertyKey(prop.Key, prop.Computed)
			p.print(":")
			p.printSpace()
			p.printPattern(prop.Target)
			p.printDefault(prop.Default)
		}
		if pat.Rest != nil {
			if len(pat.Props) > 0 {
				p.printComma()
			}
			p.print("...")
			p.printPattern(pat.Rest)
		}
		p.print("}")
	}
}

func (p *Printer) printDefault(e ast.Expr) {
	if e == nil {
		return
	}
	p.printSpace()
	p.print("=")
	p.printSpace()
	p.printExpr(e, ast.LComma)
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// printExpr prints e, parenthesizing it if it binds no tighter than level.
func (p *Printer) printExpr(e ast.Expr, level ast.L) {
	switch e := e.(type) {
	case *ast.Identifier:
		p.print(e.Name)

	case *ast.NumberLit:
		p.print(e.Raw)

	case *ast.StringLit:
		p.print(e.Raw)

	case *ast.RegExpLit:
		p.print(e.Raw)

	case *ast.BoolLit:
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *ast.NullLit:
		p.print("null")

	case *ast.ThisExpr:
		p.print("this")

	case *ast.SuperExpr:
		p.print("super")

	case *ast.TemplateLit:
		if e.Tag != nil {
			p.printExpr(e.Tag, ast.LPostfix)
		}
		for i, q := range e.Quasis {
			p.buf.WriteString(q)
			if i < len(e.Exprs) {
				p.printExpr(e.Exprs[i], ast.LLowest)
			}
		}

	case *ast.ArrayLit:
		p.print("[")
		oldForbidIn := p.forbidIn
		p.forbidIn = false
		for i, el := range e.Elements {
			if i > 0 {
				p.printComma()
			}
			if el != nil {
				p.printExpr(el, ast.LComma)
			}
		}
		if n := len(e.Elements); n > 0 && e.Elements[n-1] == nil {
			p.print(",")
		}
		p.forbidIn = oldForbidIn
		p.print("]")

	case *ast.ObjectLit:
		p.printObjectLit(e)

	case *ast.SpreadElement:
		p.print("...")
		p.printExpr(e.Arg, ast.LComma)

	case *ast.Function:
		wrap := e.IsArrow() && level >= ast.LAssign
		if wrap {
			p.print("(")
		}
		p.printFunction(e)
		if wrap {
			p.print(")")
		}

	case *ast.Class:
		p.printClass(e)

	case *ast.UnaryExpr:
		p.printUnaryExpr(e, level)

	case *ast.BinaryExpr:
		p.printBinaryExpr(e, level)

	case *ast.AssignExpr:
		wrap := level >= ast.LAssign
		if wrap {
			p.print("(")
		}
		p.printPattern(e.Target)
		p.printSpace()
		p.print(ast.OpTable[e.Op].Text)
		p.printSpace()
		p.printExpr(e.Value, ast.LAssign-1)
		if wrap {
			p.print(")")
		}

	case *ast.CondExpr:
		wrap := level >= ast.LConditional
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Test, ast.LConditional)
		p.printSpace()
		p.print("?")
		p.printSpace()
		p.printExpr(e.Yes, ast.LComma)
		p.printSpace()
		p.print(":")
		p.printSpace()
		p.printExpr(e.No, ast.LComma)
		if wrap {
			p.print(")")
		}

	case *ast.CallExpr:
		wrap := level >= ast.LCall
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Callee, ast.LPostfix)
		if e.Optional {
			p.print("?.")
		}
		p.printArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *ast.NewExpr:
		p.print("new")
		p.print(" ")
		if containsCall(e.Callee) {
			p.print("(")
			p.printExpr(e.Callee, ast.LLowest)
			p.print(")")
		} else {
			p.printExpr(e.Callee, ast.LPostfix)
		}
		p.printArgs(e.Args)

	case *ast.DotExpr:
		p.printMemberTarget(e.Target)
		if e.Optional {
			p.print("?.")
		} else {
			p.print(".")
		}
		p.print(e.Name)

	case *ast.IndexExpr:
		p.printMemberTarget(e.Target)
		if e.Optional {
			p.print("?.")
		}
		p.print("[")
		oldForbidIn := p.forbidIn
		p.forbidIn = false
		p.printExpr(e.Index, ast.LLowest)
		p.forbidIn = oldForbidIn
		p.print("]")

	case *ast.YieldExpr:
		wrap := level >= ast.LAssign
		if wrap {
			p.print("(")
		}
		p.print("yield")
		if e.Delegate {
			p.print("*")
		}
		if e.Arg != nil {
			p.print(" ")
			p.printExpr(e.Arg, ast.LYield)
		}
		if wrap {
			p.print(")")
		}
	}
}

func (p *Printer) printMemberTarget(target ast.Expr) {
	if num, ok := target.(*ast.NumberLit); ok && !strings.ContainsAny(num.Raw, ".eExXoObBn") {
		p.print("(")
		p.print(num.Raw)
		p.print(")")
		return
	}
	p.printExpr(target, ast.LPostfix)
}

func (p *Printer) printArgs(args []ast.Expr) {
	oldForbidIn := p.forbidIn
	p.forbidIn = false
	p.print("(")
	for i, arg := range args {
		if i > 0 {
			p.printComma()
		}
		p.printExpr(arg, ast.LComma)
	}
	p.print(")")
	p.forbidIn = oldForbidIn
}

func (p *Printer) printObjectLit(e *ast.ObjectLit) {
	if len(e.Props) == 0 {
		p.print("{}")
		return
	}
	oldForbidIn := p.forbidIn
	p.forbidIn = false
	p.print("{")
	for i, prop := range e.Props {
		if i > 0 {
			p.printComma()
		}
		switch prop.Kind {
		case ast.PropSpread:
			p.print("...")
			p.printExpr(prop.Value, ast.LComma)
		case ast.PropMethod, ast.PropGetter, ast.PropSetter:
			fn := prop.Value.(*ast.Function)
			p.printAccessorPrefix(fn)
			p.printPropertyKey(prop.Key, prop.Computed)
			p.printMethod(fn)
		default:
			if id, ok := prop.Value.(*ast.Identifier); ok && prop.Shorthand {
				p.print(id.Name)
				p.printDefault(prop.Default)
				continue
			}
			p.printPropertyKey(prop.Key, prop.Computed)
			p.print(":")
			p.printSpace()
			p.printExpr(prop.Value, ast.LComma)
		}
	}
	p.print("}")
	p.forbidIn = oldForbidIn
}

func (p *Printer) printUnaryExpr(e *ast.UnaryExpr, level ast.L) {
	entry := ast.OpTable[e.Op]
	wrap := level >= entry.Level
	if wrap {
		p.print("(")
	}
	if e.Op.IsPrefix() {
		p.print(entry.Text)
		if entry.IsKeyword {
			p.print(" ")
		}
		p.printExpr(e.Arg, ast.LPrefix-1)
	} else {
		p.printExpr(e.Arg, ast.LPostfix)
		p.print(entry.Text)
	}
	if wrap {
		p.print(")")
	}
}

func (p *Printer) printBinaryExpr(e *ast.BinaryExpr, level ast.L) {
	entry := ast.OpTable[e.Op]
	wrap := level >= entry.Level || (e.Op == ast.BinOpIn && p.forbidIn)
	if wrap {
		p.print("(")
	}
	oldForbidIn := p.forbidIn
	if wrap {
		p.forbidIn = false
	}

	leftLevel := entry.Level - 1
	rightLevel := entry.Level
	switch {
	case e.Op.IsRightAssociative():
		leftLevel = entry.Level
		rightLevel = entry.Level - 1
		if u, ok := e.Left.(*ast.UnaryExpr); ok && u.Op.IsPrefix() {
			// "-a ** b" is a syntax error
			leftLevel = ast.LPrefix
		}
	case e.Op == ast.BinOpNullishCoalescing:
		// "??" cannot be mixed with "||" or "&&" without parentheses
		leftLevel = ast.LLogicalAnd
		rightLevel = ast.LLogicalAnd
	case e.Op == ast.BinOpLogicalOr || e.Op == ast.BinOpLogicalAnd:
		if isNullish(e.Left) {
			leftLevel = ast.LNullishCoalescing
		}
		if isNullish(e.Right) {
			rightLevel = ast.LNullishCoalescing
		}
	}

	p.printExpr(e.Left, leftLevel)
	if e.Op != ast.BinOpComma {
		p.printSpace()
	}
	p.print(entry.Text)
	p.printSpace()
	p.printExpr(e.Right, rightLevel)

	p.forbidIn = oldForbidIn
	if wrap {
		p.print(")")
	}
}

func isNullish(e ast.Expr) bool {
	b, ok := e.(*ast.BinaryExpr)
	return ok && b.Op == ast.BinOpNullishCoalescing
}

// containsCall reports whether a "new" callee contains a call in its
// member chain, which would otherwise bind the "new" arguments.
func containsCall(e ast.Expr) bool {
	for {
		switch n := e.(type) {
		case *ast.CallExpr:
			return true
		case *ast.DotExpr:
			e = n.Target
		case *ast.IndexExpr:
			e = n.Target
		case *ast.TemplateLit:
			if n.Tag == nil {
				return false
			}
			e = n.Tag
		default:
			return false
		}
	}
}
