// Package parser provides JavaScript parsing into an AST.
//
// The parser is a recursive-descent statement parser paired with an
// esbuild-style precedence-climbing expression parser. Destructuring
// assignment targets and arrow parameters are parsed as expressions first
// and converted to patterns afterwards (the "cover grammar").
//
// Name resolution is not done here: scopes are built on demand by the
// scope package, so the tree can be edited and re-analyzed.
package parser

import (
	"fmt"

	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/lexer"
	"github.com/HugoDaniel/jsprune/internal/sourcemap"
)

// maxErrors bounds error reporting for badly broken input.
const maxErrors = 10

// Parser parses JavaScript source into an AST.
type Parser struct {
	source    string
	tokens    []lexer.Token
	pos       int
	lineIndex *sourcemap.LineIndex // For converting byte offsets to line/column

	// Context flags
	allowIn     bool
	inGenerator bool
	inFunction  bool
	isModule    bool

	// Errors
	errors []ParseError
}

// ParseError represents a parsing error.
type ParseError struct {
	Message string
	Pos     int
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// bailout unwinds the parser once too many errors have been reported.
type bailout struct{}

// New creates a new parser for the given source.
func New(source string) *Parser {
	lex := lexer.New(source)
	tokens := lex.Tokenize()

	return &Parser{
		source:    source,
		tokens:    tokens,
		lineIndex: sourcemap.NewLineIndex(source),
		allowIn:   true,
	}
}

// Parse parses the source and returns the program.
func (p *Parser) Parse() (prog *ast.Program, errs []ParseError) {
	prog = &ast.Program{}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			errs = p.errors
		}
	}()

	for p.current().Kind != lexer.TokEOF {
		start := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		if p.pos == start {
			// No progress: skip the offending token
			p.advance()
		}
	}
	prog.IsModule = p.isModule
	return prog, p.errors
}

// ParseFile parses source and records path on the resulting program.
func ParseFile(path, source string) (*ast.Program, []ParseError) {
	prog, errs := New(source).Parse()
	prog.Path = path
	return prog, errs
}

// ----------------------------------------------------------------------------
// Token Helpers
// ----------------------------------------------------------------------------

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokEOF, Start: len(p.source), End: len(p.source)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokEOF, Start: len(p.source), End: len(p.source)}
	}
	return p.tokens[pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, bool) {
	tok := p.current()
	if tok.Kind != kind {
		p.unexpected(fmt.Sprintf("expected %q", kind.String()))
		return tok, false
	}
	p.advance()
	return tok, true
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if p.current().Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) isContextual(word string) bool {
	tok := p.current()
	return tok.Kind == lexer.TokIdent && tok.Value == word
}

func (p *Parser) loc() ast.Loc {
	return ast.Loc{Start: int32(p.current().Start)}
}

// consumeSemicolon implements automatic semicolon insertion.
func (p *Parser) consumeSemicolon() {
	tok := p.current()
	switch {
	case tok.Kind == lexer.TokSemicolon:
		p.advance()
	case tok.Kind == lexer.TokRBrace, tok.Kind == lexer.TokEOF, tok.NewlineBefore:
	default:
		p.unexpected(`expected ";"`)
	}
}

func (p *Parser) unexpected(expected string) {
	tok := p.current()
	switch tok.Kind {
	case lexer.TokError:
		p.error(tok.Value)
	case lexer.TokEOF:
		p.error(expected + ", got end of file")
	default:
		p.error(fmt.Sprintf("%s, got %q", expected, tok.Text(p.source)))
	}
}

func (p *Parser) error(msg string) {
	tok := p.current()
	line, col := p.lineIndex.Position(tok.Start)
	p.errors = append(p.errors, ParseError{
		Message: msg,
		Pos:     tok.Start,
		Line:    line + 1, // Convert to 1-based
		Column:  col + 1,  // Convert to 1-based
	})
	if len(p.errors) >= maxErrors || tok.Kind == lexer.TokError {
		panic(bailout{})
	}
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Parser) parseStatement() ast.Stmt {
	tok := p.current()
	loc := p.loc()

	switch tok.Kind {
	case lexer.TokLBrace:
		return p.parseBlock()

	case lexer.TokSemicolon:
		p.advance()
		return &ast.EmptyStmt{Loc: loc}

	case lexer.TokVar, lexer.TokConst:
		decl := p.parseVarDecl()
		p.consumeSemicolon()
		return decl

	case lexer.TokLet:
		switch p.peek(1).Kind {
		case lexer.TokIdent, lexer.TokLBracket, lexer.TokLBrace, lexer.TokYield:
			decl := p.parseVarDecl()
			p.consumeSemicolon()
			return decl
		}

	case lexer.TokFunction:
		fn := p.parseFunction(ast.FnNormal, true)
		return &ast.FunctionDecl{Loc: loc, Fn: fn}

	case lexer.TokClass:
		class := p.parseClass(true)
		return &ast.ClassDecl{Loc: loc, Class: class}

	case lexer.TokIf:
		return p.parseIfStmt()

	case lexer.TokFor:
		return p.parseForStmt()

	case lexer.TokWhile:
		p.advance()
		test := p.parseParenExpr()
		body := p.parseStatement()
		return &ast.WhileStmt{Loc: loc, Test: test, Body: body}

	case lexer.TokDo:
		p.advance()
		body := p.parseStatement()
		p.expect(lexer.TokWhile)
		test := p.parseParenExpr()
		p.match(lexer.TokSemicolon)
		return &ast.DoWhileStmt{Loc: loc, Body: body, Test: test}

	case lexer.TokReturn:
		if !p.inFunction {
			p.error("return outside of a function")
		}
		p.advance()
		var value ast.Expr
		if !p.atStatementEnd() {
			value = p.parseExpr(ast.LLowest)
		}
		p.consumeSemicolon()
		return &ast.ReturnStmt{Loc: loc, Value: value}

	case lexer.TokThrow:
		p.advance()
		if p.current().NewlineBefore {
			p.error("illegal newline after throw")
		}
		value := p.parseExpr(ast.LLowest)
		p.consumeSemicolon()
		return &ast.ThrowStmt{Loc: loc, Value: value}

	case lexer.TokBreak, lexer.TokContinue:
		p.advance()
		label := ""
		if next := p.current(); next.Kind == lexer.TokIdent && !next.NewlineBefore {
			label = next.Value
			p.advance()
		}
		p.consumeSemicolon()
		if tok.Kind == lexer.TokBreak {
			return &ast.BreakStmt{Loc: loc, Label: label}
		}
		return &ast.ContinueStmt{Loc: loc, Label: label}

	case lexer.TokTry:
		return p.parseTryStmt()

	case lexer.TokSwitch:
		return p.parseSwitchStmt()

	case lexer.TokWith:
		p.advance()
		object := p.parseParenExpr()
		body := p.parseStatement()
		return &ast.WithStmt{Loc: loc, Object: object, Body: body}

	case lexer.TokDebugger:
		p.advance()
		p.consumeSemicolon()
		return &ast.DebuggerStmt{Loc: loc}

	case lexer.TokExport:
		return p.parseExport()

	case lexer.TokImport:
		p.error("import declarations are not supported")
		return nil

	case lexer.TokIdent:
		if p.peek(1).Kind == lexer.TokColon {
			p.advance()
			p.advance()
			body := p.parseStatement()
			return &ast.LabeledStmt{Loc: loc, Label: tok.Value, Body: body}
		}
	}

	expr := p.parseExpr(ast.LLowest)
	p.consumeSemicolon()
	return &ast.ExprStmt{Loc: loc, Expr: expr}
}

func (p *Parser) atStatementEnd() bool {
	tok := p.current()
	return tok.Kind == lexer.TokSemicolon || tok.Kind == lexer.TokRBrace ||
		tok.Kind == lexer.TokEOF || tok.NewlineBefore
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	block := &ast.BlockStmt{Loc: p.loc()}
	p.expect(lexer.TokLBrace)
	for {
		kind := p.current().Kind
		if kind == lexer.TokRBrace || kind == lexer.TokEOF {
			break
		}
		start := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		if p.pos == start {
			p.advance()
		}
	}
	p.expect(lexer.TokRBrace)
	return block
}

func (p *Parser) parseParenExpr() ast.Expr {
	p.expect(lexer.TokLParen)
	oldAllowIn := p.allowIn
	p.allowIn = true
	expr := p.parseExpr(ast.LLowest)
	p.allowIn = oldAllowIn
	p.expect(lexer.TokRParen)
	return expr
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	decl := &ast.VarDecl{Loc: p.loc()}
	switch p.advance().Kind {
	case lexer.TokLet:
		decl.Kind = ast.VarLet
	case lexer.TokConst:
		decl.Kind = ast.VarConst
	}
	for {
		d := &ast.Declarator{Target: p.parseBindingPattern()}
		if p.match(lexer.TokEq) {
			d.Init = p.parseExpr(ast.LComma)
		}
		decl.Decls = append(decl.Decls, d)
		if !p.match(lexer.TokComma) {
			break
		}
	}
	return decl
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	stmt := &ast.IfStmt{Loc: p.loc()}
	p.advance()
	stmt.Test = p.parseParenExpr()
	stmt.Then = p.parseStatement()
	if p.match(lexer.TokElse) {
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseForStmt() ast.Stmt {
	loc := p.loc()
	p.advance()
	p.expect(lexer.TokLParen)

	var init ast.Stmt
	oldAllowIn := p.allowIn
	p.allowIn = false

	switch tok := p.current(); {
	case tok.Kind == lexer.TokSemicolon:
	case tok.Kind == lexer.TokVar || tok.Kind == lexer.TokConst ||
		(tok.Kind == lexer.TokLet && p.peek(1).Kind != lexer.TokIn):
		decl := p.parseVarDecl()
		p.allowIn = oldAllowIn
		if p.current().Kind == lexer.TokIn || p.isContextual("of") {
			if len(decl.Decls) != 1 || decl.Decls[0].Init != nil {
				p.error("for-in/of loop must declare exactly one binding without initializer")
			}
			return p.parseForInRest(loc, decl, nil)
		}
		init = decl
	default:
		exprLoc := p.loc()
		expr := p.parseExpr(ast.LLowest)
		p.allowIn = oldAllowIn
		if p.current().Kind == lexer.TokIn || p.isContextual("of") {
			return p.parseForInRest(loc, nil, p.toAssignTarget(expr))
		}
		init = &ast.ExprStmt{Loc: exprLoc, Expr: expr}
	}
	p.allowIn = oldAllowIn

	stmt := &ast.ForStmt{Loc: loc, Init: init}
	p.expect(lexer.TokSemicolon)
	if p.current().Kind != lexer.TokSemicolon {
		stmt.Test = p.parseExpr(ast.LLowest)
	}
	p.expect(lexer.TokSemicolon)
	if p.current().Kind != lexer.TokRParen {
		stmt.Update = p.parseExpr(ast.LLowest)
	}
	p.expect(lexer.TokRParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseForInRest(loc ast.Loc, decl *ast.VarDecl, target ast.Pattern) ast.Stmt {
	stmt := &ast.ForInStmt{Loc: loc, Decl: decl, Target: target}
	if p.isContextual("of") {
		stmt.Of = true
		p.advance()
		stmt.Right = p.parseExpr(ast.LComma)
	} else {
		p.advance()
		stmt.Right = p.parseExpr(ast.LLowest)
	}
	p.expect(lexer.TokRParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseTryStmt() *ast.TryStmt {
	stmt := &ast.TryStmt{Loc: p.loc()}
	p.advance()
	stmt.Block = p.parseBlock()
	if p.current().Kind == lexer.TokCatch {
		clause := &ast.CatchClause{Loc: p.loc()}
		p.advance()
		if p.match(lexer.TokLParen) {
			clause.Param = p.parseBindingPattern()
			p.expect(lexer.TokRParen)
		}
		clause.Body = p.parseBlock()
		stmt.Catch = clause
	}
	if p.match(lexer.TokFinally) {
		stmt.Finally = p.parseBlock()
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		p.unexpected(`expected "catch" or "finally"`)
	}
	return stmt
}

func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	stmt := &ast.SwitchStmt{Loc: p.loc()}
	p.advance()
	stmt.Discriminant = p.parseParenExpr()
	p.expect(lexer.TokLBrace)
	for p.current().Kind != lexer.TokRBrace && p.current().Kind != lexer.TokEOF {
		c := &ast.SwitchCase{}
		if p.match(lexer.TokDefault) {
			p.expect(lexer.TokColon)
		} else if p.match(lexer.TokCase) {
			c.Test = p.parseExpr(ast.LLowest)
			p.expect(lexer.TokColon)
		} else {
			p.unexpected(`expected "case" or "default"`)
			p.advance()
			continue
		}
		for {
			kind := p.current().Kind
			if kind == lexer.TokCase || kind == lexer.TokDefault || kind == lexer.TokRBrace || kind == lexer.TokEOF {
				break
			}
			start := p.pos
			if s := p.parseStatement(); s != nil {
				c.Body = append(c.Body, s)
			}
			if p.pos == start {
				p.advance()
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(lexer.TokRBrace)
	return stmt
}

func (p *Parser) parseExport() ast.Stmt {
	loc := p.loc()
	p.advance()
	p.isModule = true

	switch p.current().Kind {
	case lexer.TokDefault:
		p.advance()
		stmtLoc := p.loc()
		switch p.current().Kind {
		case lexer.TokFunction:
			fn := p.parseFunction(ast.FnNormal, false)
			return &ast.ExportDefault{Loc: loc, Decl: &ast.FunctionDecl{Loc: stmtLoc, Fn: fn}}
		case lexer.TokClass:
			class := p.parseClass(false)
			return &ast.ExportDefault{Loc: loc, Decl: &ast.ClassDecl{Loc: stmtLoc, Class: class}}
		}
		expr := p.parseExpr(ast.LComma)
		p.consumeSemicolon()
		return &ast.ExportDefault{Loc: loc, Expr: expr}

	case lexer.TokVar, lexer.TokLet, lexer.TokConst:
		decl := p.parseVarDecl()
		p.consumeSemicolon()
		return &ast.ExportDecl{Loc: loc, Decl: decl}

	case lexer.TokFunction:
		stmtLoc := p.loc()
		fn := p.parseFunction(ast.FnNormal, true)
		return &ast.ExportDecl{Loc: loc, Decl: &ast.FunctionDecl{Loc: stmtLoc, Fn: fn}}

	case lexer.TokClass:
		stmtLoc := p.loc()
		class := p.parseClass(true)
		return &ast.ExportDecl{Loc: loc, Decl: &ast.ClassDecl{Loc: stmtLoc, Class: class}}

	case lexer.TokLBrace:
		p.advance()
		named := &ast.ExportNamed{Loc: loc}
		for p.current().Kind != lexer.TokRBrace && p.current().Kind != lexer.TokEOF {
			local := p.parseIdentifier()
			spec := &ast.ExportSpecifier{Local: local, Exported: local.Name}
			if p.isContextual("as") {
				p.advance()
				tok := p.advance()
				spec.Exported = tok.Value
			}
			named.Specifiers = append(named.Specifiers, spec)
			if !p.match(lexer.TokComma) {
				break
			}
		}
		p.expect(lexer.TokRBrace)
		if p.isContextual("from") {
			p.error("re-exports are not supported")
		}
		p.consumeSemicolon()
		return named
	}

	p.unexpected("expected declaration after export")
	return nil
}

// ----------------------------------------------------------------------------
// Functions and Classes
// ----------------------------------------------------------------------------

// parseFunction parses "function [*] [name] (params) { body }".
func (p *Parser) parseFunction(kind ast.FnKind, requireName bool) *ast.Function {
	fn := &ast.Function{Loc: p.loc(), Kind: kind}
	p.expect(lexer.TokFunction)
	fn.IsGenerator = p.match(lexer.TokStar)
	if tok := p.current(); tok.Kind == lexer.TokIdent || tok.Kind == lexer.TokYield {
		fn.Name = p.parseIdentifier()
	} else if requireName {
		p.unexpected("expected function name")
	}
	p.parseFunctionRest(fn)
	return fn
}

// parseFunctionRest parses the parameter list and body of fn.
func (p *Parser) parseFunctionRest(fn *ast.Function) {
	oldGenerator, oldFunction, oldAllowIn := p.inGenerator, p.inFunction, p.allowIn
	p.inGenerator, p.inFunction, p.allowIn = fn.IsGenerator, true, true
	defer func() {
		p.inGenerator, p.inFunction, p.allowIn = oldGenerator, oldFunction, oldAllowIn
	}()

	fn.Params = p.parseParams()
	fn.Body = p.parseBlock()
}

func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	p.expect(lexer.TokLParen)
	for p.current().Kind != lexer.TokRParen && p.current().Kind != lexer.TokEOF {
		param := &ast.Param{}
		if p.match(lexer.TokEllipsis) {
			param.Rest = true
		}
		param.Target = p.parseBindingPattern()
		if !param.Rest && p.match(lexer.TokEq) {
			param.Default = p.parseExpr(ast.LComma)
		}
		params = append(params, param)
		if param.Rest || !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRParen)
	return params
}

// parseArrowBody parses everything after "=>".
func (p *Parser) parseArrowBody(fn *ast.Function) {
	oldGenerator, oldFunction, oldAllowIn := p.inGenerator, p.inFunction, p.allowIn
	p.inGenerator, p.inFunction = false, true
	defer func() {
		p.inGenerator, p.inFunction, p.allowIn = oldGenerator, oldFunction, oldAllowIn
	}()

	if p.current().Kind == lexer.TokLBrace {
		p.allowIn = true
		fn.Body = p.parseBlock()
		return
	}
	fn.ExprBody = p.parseExpr(ast.LComma)
}

func (p *Parser) parseClass(requireName bool) *ast.Class {
	class := &ast.Class{Loc: p.loc()}
	p.expect(lexer.TokClass)
	if p.current().Kind == lexer.TokIdent {
		class.Name = p.parseIdentifier()
	} else if requireName {
		p.unexpected("expected class name")
	}
	if p.match(lexer.TokExtends) {
		class.Extends = p.parseExpr(ast.LPostfix)
	}

	p.expect(lexer.TokLBrace)
	for p.current().Kind != lexer.TokRBrace && p.current().Kind != lexer.TokEOF {
		if p.match(lexer.TokSemicolon) {
			continue
		}
		member := &ast.ClassMember{}
		if p.isContextual("static") && p.peek(1).Kind != lexer.TokLParen {
			p.advance()
			member.Static = true
		}
		kind := ast.FnMethod
		generator := false
		switch {
		case p.current().Kind == lexer.TokStar:
			p.advance()
			generator = true
		case (p.isContextual("get") || p.isContextual("set")) && p.startsPropertyKey(p.peek(1)):
			if p.advance().Value == "get" {
				kind = ast.FnGetter
			} else {
				kind = ast.FnSetter
			}
		}
		member.Key, member.Computed = p.parsePropertyKey()
		if name, ok := member.Key.(*ast.Identifier); ok && !member.Static && !member.Computed &&
			name.Name == "constructor" && kind == ast.FnMethod {
			kind = ast.FnConstructor
		}
		if p.current().Kind != lexer.TokLParen {
			p.unexpected(`expected "(" after class member name`)
			return class
		}
		member.Value = p.parseMethod(kind, generator)
		class.Members = append(class.Members, member)
	}
	p.expect(lexer.TokRBrace)
	return class
}

func (p *Parser) parseMethod(kind ast.FnKind, generator bool) *ast.Function {
	fn := &ast.Function{Loc: p.loc(), Kind: kind, IsGenerator: generator}
	p.parseFunctionRest(fn)
	return fn
}

func (p *Parser) startsPropertyKey(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.TokIdent, lexer.TokString, lexer.TokNumber, lexer.TokLBracket:
		return true
	}
	return tok.Kind.IsKeyword()
}

// parsePropertyKey parses an object or class property name.
func (p *Parser) parsePropertyKey() (ast.Expr, bool) {
	tok := p.current()
	loc := p.loc()
	switch {
	case tok.Kind == lexer.TokLBracket:
		p.advance()
		oldAllowIn := p.allowIn
		p.allowIn = true
		key := p.parseExpr(ast.LComma)
		p.allowIn = oldAllowIn
		p.expect(lexer.TokRBracket)
		return key, true
	case tok.Kind == lexer.TokString:
		p.advance()
		return &ast.StringLit{Loc: loc, Raw: tok.Value}, false
	case tok.Kind == lexer.TokNumber:
		p.advance()
		return &ast.NumberLit{Loc: loc, Raw: tok.Value}, false
	case tok.Kind == lexer.TokIdent || tok.Kind.IsKeyword():
		p.advance()
		return &ast.Identifier{Loc: loc, Name: tok.Value}, false
	}
	p.unexpected("expected property name")
	return &ast.Identifier{Loc: loc}, false
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

func (p *Parser) parseIdentifier() *ast.Identifier {
	tok := p.current()
	if tok.Kind != lexer.TokIdent && tok.Kind != lexer.TokYield && tok.Kind != lexer.TokLet {
		p.unexpected("expected identifier")
		return &ast.Identifier{Loc: p.loc()}
	}
	p.advance()
	return &ast.Identifier{Loc: ast.Loc{Start: int32(tok.Start)}, Name: tok.Value}
}

func (p *Parser) parseBindingPattern() ast.Pattern {
	loc := p.loc()
	switch p.current().Kind {
	case lexer.TokLBracket:
		p.advance()
		pat := &ast.ArrayPattern{Loc: loc}
		for p.current().Kind != lexer.TokRBracket && p.current().Kind != lexer.TokEOF {
			if p.match(lexer.TokComma) {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if p.match(lexer.TokEllipsis) {
				pat.Rest = p.parseBindingPattern()
				break
			}
			el := &ast.ArrayPatternElement{Target: p.parseBindingPattern()}
			if p.match(lexer.TokEq) {
				el.Default = p.parseExpr(ast.LComma)
			}
			pat.Elements = append(pat.Elements, el)
			if !p.match(lexer.TokComma) {
				break
			}
		}
		p.expect(lexer.TokRBracket)
		return pat

	case lexer.TokLBrace:
		p.advance()
		pat := &ast.ObjectPattern{Loc: loc}
		for p.current().Kind != lexer.TokRBrace && p.current().Kind != lexer.TokEOF {
			if p.match(lexer.TokEllipsis) {
				pat.Rest = p.parseIdentifier()
				break
			}
			prop := &ast.ObjectPatternProp{}
			keyTok := p.current()
			prop.Key, prop.Computed = p.parsePropertyKey()
			if p.match(lexer.TokColon) {
				prop.Target = p.parseBindingPattern()
			} else if key, ok := prop.Key.(*ast.Identifier); ok && !prop.Computed && keyTok.Kind == lexer.TokIdent {
				prop.Shorthand = true
				prop.Target = &ast.Identifier{Loc: key.Loc, Name: key.Name}
			} else {
				p.unexpected(`expected ":"`)
				prop.Target = &ast.Identifier{Loc: p.loc()}
			}
			if p.match(lexer.TokEq) {
				prop.Default = p.parseExpr(ast.LComma)
			}
			pat.Props = append(pat.Props, prop)
			if !p.match(lexer.TokComma) {
				break
			}
		}
		p.expect(lexer.TokRBrace)
		return pat
	}

	return p.parseIdentifier()
}

// toAssignTarget converts an expression parsed with the cover grammar into
// an assignment target, reporting an error if it is not one.
func (p *Parser) toAssignTarget(expr ast.Expr) ast.Pattern {
	if pat, ok := exprToPattern(expr); ok {
		return pat
	}
	p.error("invalid assignment target")
	return &ast.Identifier{Loc: expr.Pos()}
}

func exprToPattern(expr ast.Expr) (ast.Pattern, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e, true
	case *ast.DotExpr:
		return e, !e.Optional
	case *ast.IndexExpr:
		return e, !e.Optional

	case *ast.ArrayLit:
		pat := &ast.ArrayPattern{Loc: e.Loc}
		for i, el := range e.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if spread, ok := el.(*ast.SpreadElement); ok {
				if i != len(e.Elements)-1 {
					return nil, false
				}
				rest, ok := exprToPattern(spread.Arg)
				if !ok {
					return nil, false
				}
				pat.Rest = rest
				continue
			}
			pe, ok := exprToPatternElement(el)
			if !ok {
				return nil, false
			}
			pat.Elements = append(pat.Elements, &ast.ArrayPatternElement{Target: pe.Target, Default: pe.Default})
		}
		return pat, true

	case *ast.ObjectLit:
		pat := &ast.ObjectPattern{Loc: e.Loc}
		for i, prop := range e.Props {
			switch prop.Kind {
			case ast.PropSpread:
				if i != len(e.Props)-1 {
					return nil, false
				}
				rest, ok := exprToPattern(prop.Value)
				if !ok {
					return nil, false
				}
				pat.Rest = rest
			case ast.PropInit:
				pp := &ast.ObjectPatternProp{Key: prop.Key, Computed: prop.Computed, Shorthand: prop.Shorthand}
				if prop.Shorthand {
					pp.Target = prop.Value.(*ast.Identifier)
					pp.Default = prop.Default
				} else {
					pe, ok := exprToPatternElement(prop.Value)
					if !ok {
						return nil, false
					}
					pp.Target, pp.Default = pe.Target, pe.Default
				}
				pat.Props = append(pat.Props, pp)
			default:
				return nil, false
			}
		}
		return pat, true
	}
	return nil, false
}

func exprToPatternElement(expr ast.Expr) (ast.ArrayPatternElement, bool) {
	if assign, ok := expr.(*ast.AssignExpr); ok && assign.Op == ast.BinOpAssign {
		return ast.ArrayPatternElement{Target: assign.Target, Default: assign.Value}, true
	}
	target, ok := exprToPattern(expr)
	return ast.ArrayPatternElement{Target: target}, ok
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// parseExpr parses an expression whose operators all bind tighter than level.
func (p *Parser) parseExpr(level ast.L) ast.Expr {
	left := p.parsePrefix(level)
	return p.parseSuffix(left, level)
}

func (p *Parser) parsePrefix(level ast.L) ast.Expr {
	tok := p.current()
	loc := p.loc()

	switch tok.Kind {
	case lexer.TokIdent:
		if next := p.peek(1); next.Kind == lexer.TokArrow && !next.NewlineBefore {
			param := p.parseIdentifier()
			p.advance()
			fn := &ast.Function{Loc: loc, Kind: ast.FnArrow, Params: []*ast.Param{{Target: param}}}
			p.parseArrowBody(fn)
			return fn
		}
		p.advance()
		return &ast.Identifier{Loc: loc, Name: tok.Value}

	case lexer.TokNumber:
		p.advance()
		return &ast.NumberLit{Loc: loc, Raw: tok.Value}

	case lexer.TokString:
		p.advance()
		return &ast.StringLit{Loc: loc, Raw: tok.Value}

	case lexer.TokRegExp:
		p.advance()
		return &ast.RegExpLit{Loc: loc, Raw: tok.Value}

	case lexer.TokNoSubstitutionTemplate, lexer.TokTemplateHead:
		return p.parseTemplate(nil)

	case lexer.TokTrue, lexer.TokFalse:
		p.advance()
		return &ast.BoolLit{Loc: loc, Value: tok.Kind == lexer.TokTrue}

	case lexer.TokNull:
		p.advance()
		return &ast.NullLit{Loc: loc}

	case lexer.TokThis:
		p.advance()
		return &ast.ThisExpr{Loc: loc}

	case lexer.TokSuper:
		p.advance()
		return &ast.SuperExpr{Loc: loc}

	case lexer.TokLParen:
		if p.isArrowAhead() {
			fn := &ast.Function{Loc: loc, Kind: ast.FnArrow}
			oldFunction := p.inFunction
			p.inFunction = true
			fn.Params = p.parseParams()
			p.inFunction = oldFunction
			p.expect(lexer.TokArrow)
			p.parseArrowBody(fn)
			return fn
		}
		p.advance()
		oldAllowIn := p.allowIn
		p.allowIn = true
		expr := p.parseExpr(ast.LLowest)
		p.allowIn = oldAllowIn
		p.expect(lexer.TokRParen)
		return expr

	case lexer.TokLBracket:
		return p.parseArrayLit()

	case lexer.TokLBrace:
		return p.parseObjectLit()

	case lexer.TokFunction:
		return p.parseFunction(ast.FnNormal, false)

	case lexer.TokClass:
		return p.parseClass(false)

	case lexer.TokNew:
		p.advance()
		callee := p.parseExpr(ast.LMember)
		expr := &ast.NewExpr{Loc: loc, Callee: callee}
		if p.current().Kind == lexer.TokLParen {
			expr.Args = p.parseArgs()
		}
		return expr

	case lexer.TokYield:
		if !p.inGenerator {
			p.advance()
			return &ast.Identifier{Loc: loc, Name: tok.Value}
		}
		p.advance()
		expr := &ast.YieldExpr{Loc: loc}
		if p.current().Kind == lexer.TokStar && !p.current().NewlineBefore {
			p.advance()
			expr.Delegate = true
		}
		if next := p.current(); expr.Delegate || !next.NewlineBefore && startsExpr(next.Kind) {
			expr.Arg = p.parseExpr(ast.LYield)
		}
		return expr

	case lexer.TokLet:
		p.advance()
		return &ast.Identifier{Loc: loc, Name: tok.Value}
	}

	if op, ok := prefixOps[tok.Kind]; ok {
		p.advance()
		arg := p.parseExpr(ast.LPrefix - 1)
		if op.IsUpdate() {
			if _, ok := exprToPattern(arg); !ok {
				p.error("invalid update target")
			}
		}
		return &ast.UnaryExpr{Loc: loc, Op: op, Arg: arg}
	}

	p.unexpected("expected expression")
	return &ast.Identifier{Loc: loc}
}

var prefixOps = map[lexer.TokenKind]ast.OpCode{
	lexer.TokPlus:       ast.UnOpPos,
	lexer.TokMinus:      ast.UnOpNeg,
	lexer.TokTilde:      ast.UnOpCpl,
	lexer.TokBang:       ast.UnOpNot,
	lexer.TokVoid:       ast.UnOpVoid,
	lexer.TokTypeof:     ast.UnOpTypeof,
	lexer.TokDelete:     ast.UnOpDelete,
	lexer.TokMinusMinus: ast.UnOpPreDec,
	lexer.TokPlusPlus:   ast.UnOpPreInc,
}

var binaryOps = map[lexer.TokenKind]ast.OpCode{
	lexer.TokPlus:                  ast.BinOpAdd,
	lexer.TokMinus:                 ast.BinOpSub,
	lexer.TokStar:                  ast.BinOpMul,
	lexer.TokSlash:                 ast.BinOpDiv,
	lexer.TokPercent:               ast.BinOpRem,
	lexer.TokStarStar:              ast.BinOpPow,
	lexer.TokLess:                  ast.BinOpLt,
	lexer.TokLessEq:                ast.BinOpLe,
	lexer.TokGreater:               ast.BinOpGt,
	lexer.TokGreaterEq:             ast.BinOpGe,
	lexer.TokIn:                    ast.BinOpIn,
	lexer.TokInstanceof:            ast.BinOpInstanceof,
	lexer.TokLessLess:              ast.BinOpShl,
	lexer.TokGreaterGreater:        ast.BinOpShr,
	lexer.TokGreaterGreaterGreater: ast.BinOpUShr,
	lexer.TokEqEq:                  ast.BinOpLooseEq,
	lexer.TokBangEq:                ast.BinOpLooseNe,
	lexer.TokEqEqEq:                ast.BinOpStrictEq,
	lexer.TokBangEqEq:              ast.BinOpStrictNe,
	lexer.TokQuestionQuestion:      ast.BinOpNullishCoalescing,
	lexer.TokPipePipe:              ast.BinOpLogicalOr,
	lexer.TokAmpAmp:                ast.BinOpLogicalAnd,
	lexer.TokPipe:                  ast.BinOpBitwiseOr,
	lexer.TokAmp:                   ast.BinOpBitwiseAnd,
	lexer.TokCaret:                 ast.BinOpBitwiseXor,
}

var assignOps = map[lexer.TokenKind]ast.OpCode{
	lexer.TokEq:                      ast.BinOpAssign,
	lexer.TokPlusEq:                  ast.BinOpAddAssign,
	lexer.TokMinusEq:                 ast.BinOpSubAssign,
	lexer.TokStarEq:                  ast.BinOpMulAssign,
	lexer.TokSlashEq:                 ast.BinOpDivAssign,
	lexer.TokPercentEq:               ast.BinOpRemAssign,
	lexer.TokStarStarEq:              ast.BinOpPowAssign,
	lexer.TokLessLessEq:              ast.BinOpShlAssign,
	lexer.TokGreaterGreaterEq:        ast.BinOpShrAssign,
	lexer.TokGreaterGreaterGreaterEq: ast.BinOpUShrAssign,
	lexer.TokPipeEq:                  ast.BinOpBitwiseOrAssign,
	lexer.TokAmpEq:                   ast.BinOpBitwiseAndAssign,
	lexer.TokCaretEq:                 ast.BinOpBitwiseXorAssign,
	lexer.TokQuestionQuestionEq:      ast.BinOpNullishCoalescingAssign,
	lexer.TokPipePipeEq:              ast.BinOpLogicalOrAssign,
	lexer.TokAmpAmpEq:                ast.BinOpLogicalAndAssign,
}

func (p *Parser) parseSuffix(left ast.Expr, level ast.L) ast.Expr {
	for {
		tok := p.current()
		loc := ast.Loc{Start: left.Pos().Start}

		switch tok.Kind {
		case lexer.TokDot:
			p.advance()
			name := p.advance()
			if name.Kind != lexer.TokIdent && !name.Kind.IsKeyword() {
				p.pos--
				p.unexpected("expected property name")
			}
			left = &ast.DotExpr{Loc: loc, Target: left, Name: name.Value}
			continue

		case lexer.TokQuestionDot:
			if level >= ast.LCall {
				return left
			}
			p.advance()
			switch p.current().Kind {
			case lexer.TokLParen:
				left = &ast.CallExpr{Loc: loc, Callee: left, Args: p.parseArgs(), Optional: true}
			case lexer.TokLBracket:
				p.advance()
				index := p.parseExpr(ast.LLowest)
				p.expect(lexer.TokRBracket)
				left = &ast.IndexExpr{Loc: loc, Target: left, Index: index, Optional: true}
			default:
				name := p.advance()
				left = &ast.DotExpr{Loc: loc, Target: left, Name: name.Value, Optional: true}
			}
			continue

		case lexer.TokLBracket:
			p.advance()
			oldAllowIn := p.allowIn
			p.allowIn = true
			index := p.parseExpr(ast.LLowest)
			p.allowIn = oldAllowIn
			p.expect(lexer.TokRBracket)
			left = &ast.IndexExpr{Loc: loc, Target: left, Index: index}
			continue

		case lexer.TokNoSubstitutionTemplate, lexer.TokTemplateHead:
			left = p.parseTemplate(left)
			continue

		case lexer.TokLParen:
			if level >= ast.LCall {
				return left
			}
			left = &ast.CallExpr{Loc: loc, Callee: left, Args: p.parseArgs()}
			continue

		case lexer.TokPlusPlus, lexer.TokMinusMinus:
			if tok.NewlineBefore || level >= ast.LPostfix {
				return left
			}
			if _, ok := exprToPattern(left); !ok {
				p.error("invalid update target")
			}
			p.advance()
			op := ast.UnOpPostInc
			if tok.Kind == lexer.TokMinusMinus {
				op = ast.UnOpPostDec
			}
			left = &ast.UnaryExpr{Loc: loc, Op: op, Arg: left}
			continue

		case lexer.TokComma:
			if level >= ast.LComma {
				return left
			}
			p.advance()
			right := p.parseExpr(ast.LComma)
			left = &ast.BinaryExpr{Loc: loc, Op: ast.BinOpComma, Left: left, Right: right}
			continue

		case lexer.TokQuestion:
			if level >= ast.LConditional {
				return left
			}
			p.advance()
			oldAllowIn := p.allowIn
			p.allowIn = true
			yes := p.parseExpr(ast.LComma)
			p.allowIn = oldAllowIn
			p.expect(lexer.TokColon)
			no := p.parseExpr(ast.LComma)
			left = &ast.CondExpr{Loc: loc, Test: left, Yes: yes, No: no}
			continue
		}

		if op, ok := assignOps[tok.Kind]; ok {
			if level >= ast.LAssign {
				return left
			}
			var target ast.Pattern
			if op == ast.BinOpAssign {
				target = p.toAssignTarget(left)
			} else {
				switch left.(type) {
				case *ast.Identifier, *ast.DotExpr, *ast.IndexExpr:
					target = left.(ast.Pattern)
				default:
					p.error("invalid assignment target")
					target = &ast.Identifier{Loc: loc}
				}
			}
			p.advance()
			value := p.parseExpr(ast.LAssign - 1)
			left = &ast.AssignExpr{Loc: loc, Op: op, Target: target, Value: value}
			continue
		}

		if op, ok := binaryOps[tok.Kind]; ok {
			if op == ast.BinOpIn && !p.allowIn {
				return left
			}
			opLevel := ast.OpTable[op].Level
			if level >= opLevel {
				return left
			}
			p.advance()
			rightLevel := opLevel
			if op.IsRightAssociative() {
				rightLevel = opLevel - 1
			}
			right := p.parseExpr(rightLevel)
			left = &ast.BinaryExpr{Loc: loc, Op: op, Left: left, Right: right}
			continue
		}

		return left
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	p.expect(lexer.TokLParen)
	oldAllowIn := p.allowIn
	p.allowIn = true
	for p.current().Kind != lexer.TokRParen && p.current().Kind != lexer.TokEOF {
		if p.current().Kind == lexer.TokEllipsis {
			loc := p.loc()
			p.advance()
			args = append(args, &ast.SpreadElement{Loc: loc, Arg: p.parseExpr(ast.LComma)})
		} else {
			args = append(args, p.parseExpr(ast.LComma))
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.allowIn = oldAllowIn
	p.expect(lexer.TokRParen)
	return args
}

func (p *Parser) parseArrayLit() *ast.ArrayLit {
	arr := &ast.ArrayLit{Loc: p.loc()}
	p.advance()
	oldAllowIn := p.allowIn
	p.allowIn = true
	for p.current().Kind != lexer.TokRBracket && p.current().Kind != lexer.TokEOF {
		if p.match(lexer.TokComma) {
			arr.Elements = append(arr.Elements, nil)
			continue
		}
		if p.current().Kind == lexer.TokEllipsis {
			loc := p.loc()
			p.advance()
			arr.Elements = append(arr.Elements, &ast.SpreadElement{Loc: loc, Arg: p.parseExpr(ast.LComma)})
		} else {
			arr.Elements = append(arr.Elements, p.parseExpr(ast.LComma))
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.allowIn = oldAllowIn
	p.expect(lexer.TokRBracket)
	return arr
}

func (p *Parser) parseObjectLit() *ast.ObjectLit {
	obj := &ast.ObjectLit{Loc: p.loc()}
	p.advance()
	oldAllowIn := p.allowIn
	p.allowIn = true
	defer func() { p.allowIn = oldAllowIn }()

	for p.current().Kind != lexer.TokRBrace && p.current().Kind != lexer.TokEOF {
		if p.match(lexer.TokEllipsis) {
			obj.Props = append(obj.Props, &ast.Property{Kind: ast.PropSpread, Value: p.parseExpr(ast.LComma)})
			if !p.match(lexer.TokComma) {
				break
			}
			continue
		}

		prop := &ast.Property{Kind: ast.PropInit}
		generator := false
		switch {
		case p.current().Kind == lexer.TokStar:
			p.advance()
			generator = true
			prop.Kind = ast.PropMethod
		case (p.isContextual("get") || p.isContextual("set")) && p.startsPropertyKey(p.peek(1)):
			if p.advance().Value == "get" {
				prop.Kind = ast.PropGetter
			} else {
				prop.Kind = ast.PropSetter
			}
		}

		keyTok := p.current()
		prop.Key, prop.Computed = p.parsePropertyKey()

		switch {
		case prop.Kind == ast.PropGetter:
			prop.Value = p.parseMethod(ast.FnGetter, false)
		case prop.Kind == ast.PropSetter:
			prop.Value = p.parseMethod(ast.FnSetter, false)
		case p.current().Kind == lexer.TokLParen:
			prop.Kind = ast.PropMethod
			prop.Value = p.parseMethod(ast.FnMethod, generator)
		case p.match(lexer.TokColon):
			prop.Value = p.parseExpr(ast.LComma)
		default:
			key, ok := prop.Key.(*ast.Identifier)
			if !ok || prop.Computed || keyTok.Kind != lexer.TokIdent {
				p.unexpected(`expected ":"`)
				return obj
			}
			prop.Shorthand = true
			prop.Value = &ast.Identifier{Loc: key.Loc, Name: key.Name}
			if p.match(lexer.TokEq) {
				prop.Default = p.parseExpr(ast.LComma)
			}
		}

		obj.Props = append(obj.Props, prop)
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBrace)
	return obj
}

func (p *Parser) parseTemplate(tag ast.Expr) *ast.TemplateLit {
	tmpl := &ast.TemplateLit{Loc: p.loc(), Tag: tag}
	if tag != nil {
		tmpl.Loc = tag.Pos()
	}
	tok := p.advance()
	tmpl.Quasis = append(tmpl.Quasis, tok.Value)
	if tok.Kind == lexer.TokNoSubstitutionTemplate {
		return tmpl
	}
	oldAllowIn := p.allowIn
	p.allowIn = true
	defer func() { p.allowIn = oldAllowIn }()
	for {
		tmpl.Exprs = append(tmpl.Exprs, p.parseExpr(ast.LLowest))
		tok := p.current()
		if tok.Kind != lexer.TokTemplateMiddle && tok.Kind != lexer.TokTemplateTail {
			p.unexpected("expected end of template substitution")
			return tmpl
		}
		p.advance()
		tmpl.Quasis = append(tmpl.Quasis, tok.Value)
		if tok.Kind == lexer.TokTemplateTail {
			return tmpl
		}
	}
}

// isArrowAhead reports whether the parenthesis at the current position
// opens an arrow function parameter list.
func (p *Parser) isArrowAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case lexer.TokLParen, lexer.TokLBracket, lexer.TokLBrace, lexer.TokTemplateHead:
			depth++
		case lexer.TokRParen, lexer.TokRBracket, lexer.TokRBrace, lexer.TokTemplateTail:
			depth--
			if depth == 0 {
				if i+1 < len(p.tokens) {
					next := p.tokens[i+1]
					return next.Kind == lexer.TokArrow && !next.NewlineBefore
				}
				return false
			}
		case lexer.TokEOF, lexer.TokError:
			return false
		}
	}
	return false
}

func startsExpr(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.TokRParen, lexer.TokRBracket, lexer.TokRBrace, lexer.TokComma,
		lexer.TokSemicolon, lexer.TokColon, lexer.TokEOF, lexer.TokTemplateMiddle,
		lexer.TokTemplateTail:
		return false
	}
	return true
}
