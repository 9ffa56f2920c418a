// Package ast defines the Abstract Syntax Tree types for JavaScript.
//
// The AST is designed to be:
// - Small: Only the syntactic shapes the optimizer reasons about
// - Identity-stable: Nodes are pointers, so a node's address identifies it
//   for memoization (scopes are keyed by their defining node)
// - Transformable: Subtrees are detached or replaced in place by rewriting
//   the slices and fields that hold them
package ast

// ----------------------------------------------------------------------------
// Source Location
// ----------------------------------------------------------------------------

// Loc represents a location in source code.
type Loc struct {
	Start int32 // Byte offset of start
}

// ----------------------------------------------------------------------------
// Node Interfaces
// ----------------------------------------------------------------------------

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Loc
}

// Stmt is a statement node.
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	isExpr()
}

// Pattern is a binding or assignment target. The set of implementations is
// closed: *Identifier, *ArrayPattern, *ObjectPattern, and (for assignment
// targets only) *DotExpr and *IndexExpr.
type Pattern interface {
	Node
	isPattern()
}

// ScopeNode is a node that defines a lexical scope: *Root, *Program (for
// modules), *Function, *Class, *BlockStmt, *CatchClause, *SwitchStmt, and
// *ForStmt / *ForInStmt when their head declares let or const bindings.
type ScopeNode interface {
	Node
	isScopeNode()
}

// ----------------------------------------------------------------------------
// Operators (esbuild-style opcode table)
// ----------------------------------------------------------------------------

// L is an operator precedence level.
type L uint8

const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

// OpCode identifies a unary, binary or assignment operator.
type OpCode uint8

// If you add a new operator, remember to add it to OpTable too.
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

// IsPrefix reports whether op is written before its operand.
func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

// IsUpdate reports whether op is ++ or -- in either position.
func (op OpCode) IsUpdate() bool {
	return op >= UnOpPreDec && op <= UnOpPostInc
}

// IsRightAssociative reports whether op groups right to left.
func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

// IsCompoundAssign reports whether op reads its target before writing it.
func (op OpCode) IsCompoundAssign() bool {
	return op > BinOpAssign
}

// OpTableEntry describes how an operator is printed and how tightly it binds.
type OpTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

// OpTable is indexed by OpCode.
var OpTable = []OpTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false},
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

// ----------------------------------------------------------------------------
// Top Level
// ----------------------------------------------------------------------------

// Root is the global scope root of a compilation: the extern declarations
// plus every source program.
type Root struct {
	Externs  *Program
	Programs []*Program
}

// Program is one parsed source file.
type Program struct {
	Loc  Loc
	Path string
	Body []Stmt

	// IsModule is set when the file uses export syntax. Its top-level
	// declarations then live in a module scope instead of the global scope.
	IsModule bool
}

// ----------------------------------------------------------------------------
// Functions and Classes
// ----------------------------------------------------------------------------

// FnKind distinguishes plain functions from methods and accessors.
type FnKind uint8

const (
	FnNormal FnKind = iota
	FnArrow
	FnMethod
	FnGetter
	FnSetter
	FnConstructor
)

// Function is a function declaration, expression, arrow, or method body.
// It is used both as an expression and, wrapped in FunctionDecl, as a
// statement.
type Function struct {
	Loc         Loc
	Kind        FnKind
	Name        *Identifier // nil for anonymous functions and methods
	Params      []*Param
	Body        *BlockStmt
	ExprBody    Expr // concise arrow body; Body is nil when set
	IsGenerator bool
}

// Param is one formal parameter.
type Param struct {
	Target  Pattern
	Default Expr
	Rest    bool
}

// IsArrow reports whether the function is an arrow function.
func (f *Function) IsArrow() bool { return f.Kind == FnArrow }

// Class is a class declaration or expression.
type Class struct {
	Loc     Loc
	Name    *Identifier
	Extends Expr
	Members []*ClassMember
}

// ClassMember is a method, accessor or constructor.
type ClassMember struct {
	Static   bool
	Key      Expr
	Computed bool
	Value    *Function
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

// ArrayPattern is "[a, , b = 1, ...rest]". A nil element is a hole.
type ArrayPattern struct {
	Loc      Loc
	Elements []*ArrayPatternElement
	Rest     Pattern
}

// ArrayPatternElement is one slot of an array pattern.
type ArrayPatternElement struct {
	Target  Pattern
	Default Expr
}

// ObjectPattern is "{a, b: c, [k]: d = 1, ...rest}".
type ObjectPattern struct {
	Loc   Loc
	Props []*ObjectPatternProp
	Rest  Pattern
}

// ObjectPatternProp is one "key: target = default" entry of an object
// pattern. Shorthand entries have a key equal to the target identifier.
type ObjectPatternProp struct {
	Key       Expr
	Computed  bool
	Shorthand bool
	Target    Pattern
	Default   Expr
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// VarKind is the declaration keyword of a VarDecl.
type VarKind uint8

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarLet:
		return "let"
	case VarConst:
		return "const"
	}
	return "var"
}

// VarDecl is "var a = 1, b;".
type VarDecl struct {
	Loc   Loc
	Kind  VarKind
	Decls []*Declarator
}

// Declarator is one "target = init" entry of a VarDecl.
type Declarator struct {
	Target Pattern
	Init   Expr
}

// FunctionDecl is a function declaration statement.
type FunctionDecl struct {
	Loc Loc
	Fn  *Function
}

// ClassDecl is a class declaration statement.
type ClassDecl struct {
	Loc   Loc
	Class *Class
}

// ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	Loc  Loc
	Expr Expr
}

// BlockStmt is "{ ... }". It is also used for function bodies; only blocks
// that are not function bodies define their own scope.
type BlockStmt struct {
	Loc  Loc
	Body []Stmt
}

// EmptyStmt is ";".
type EmptyStmt struct {
	Loc Loc
}

// IfStmt is "if (test) then else alt".
type IfStmt struct {
	Loc  Loc
	Test Expr
	Then Stmt
	Else Stmt
}

// ForStmt is "for (init; test; update) body". Init is a *VarDecl, an
// *ExprStmt, or nil.
type ForStmt struct {
	Loc    Loc
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

// ForInStmt is "for (left in right)" or, when Of is set, "for (left of right)".
// Exactly one of Decl and Target is set.
type ForInStmt struct {
	Loc    Loc
	Of     bool
	Decl   *VarDecl
	Target Pattern
	Right  Expr
	Body   Stmt
}

// WhileStmt is "while (test) body".
type WhileStmt struct {
	Loc  Loc
	Test Expr
	Body Stmt
}

// DoWhileStmt is "do body while (test)".
type DoWhileStmt struct {
	Loc  Loc
	Body Stmt
	Test Expr
}

// ReturnStmt is "return value".
type ReturnStmt struct {
	Loc   Loc
	Value Expr
}

// ThrowStmt is "throw value".
type ThrowStmt struct {
	Loc   Loc
	Value Expr
}

// BreakStmt is "break label".
type BreakStmt struct {
	Loc   Loc
	Label string
}

// ContinueStmt is "continue label".
type ContinueStmt struct {
	Loc   Loc
	Label string
}

// TryStmt is "try {} catch (e) {} finally {}".
type TryStmt struct {
	Loc     Loc
	Block   *BlockStmt
	Catch   *CatchClause
	Finally *BlockStmt
}

// CatchClause is the catch part of a try statement. Param may be nil.
type CatchClause struct {
	Loc   Loc
	Param Pattern
	Body  *BlockStmt
}

// SwitchStmt is "switch (x) { case ...: }".
type SwitchStmt struct {
	Loc          Loc
	Discriminant Expr
	Cases        []*SwitchCase
}

// SwitchCase is one case clause; Test is nil for default.
type SwitchCase struct {
	Test Expr
	Body []Stmt
}

// LabeledStmt is "label: body".
type LabeledStmt struct {
	Loc   Loc
	Label string
	Body  Stmt
}

// WithStmt is "with (object) body".
type WithStmt struct {
	Loc    Loc
	Object Expr
	Body   Stmt
}

// DebuggerStmt is "debugger".
type DebuggerStmt struct {
	Loc Loc
}

// ExportDecl is "export var ...", "export function ...", "export class ...".
type ExportDecl struct {
	Loc  Loc
	Decl Stmt
}

// ExportDefault is "export default ...". Exactly one of Decl (a FunctionDecl
// or ClassDecl) and Expr is set.
type ExportDefault struct {
	Loc  Loc
	Decl Stmt
	Expr Expr
}

// ExportNamed is "export { a, b as c }".
type ExportNamed struct {
	Loc        Loc
	Specifiers []*ExportSpecifier
}

// ExportSpecifier is "local as exported".
type ExportSpecifier struct {
	Local    *Identifier
	Exported string
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Identifier is a name. It is an expression when read and a pattern when
// bound or assigned.
type Identifier struct {
	Loc  Loc
	Name string
}

// NumberLit is a numeric literal kept in its source spelling.
type NumberLit struct {
	Loc Loc
	Raw string
}

// StringLit is a string literal kept in its source spelling, quotes included.
type StringLit struct {
	Loc Loc
	Raw string
}

// TemplateLit is a template literal; Quasis has one more entry than Exprs.
// Each quasi is the raw text between delimiters.
type TemplateLit struct {
	Loc    Loc
	Tag    Expr
	Quasis []string
	Exprs  []Expr
}

// RegExpLit is a regular expression literal.
type RegExpLit struct {
	Loc Loc
	Raw string
}

// BoolLit is true or false.
type BoolLit struct {
	Loc   Loc
	Value bool
}

// NullLit is null.
type NullLit struct {
	Loc Loc
}

// ThisExpr is this.
type ThisExpr struct {
	Loc Loc
}

// SuperExpr is super.
type SuperExpr struct {
	Loc Loc
}

// ArrayLit is "[a, , ...b]". A nil element is a hole.
type ArrayLit struct {
	Loc      Loc
	Elements []Expr
}

// PropKind distinguishes object literal entries.
type PropKind uint8

const (
	PropInit PropKind = iota
	PropMethod
	PropGetter
	PropSetter
	PropSpread
)

// ObjectLit is "{a: 1, b, [c]: 2, m() {}, get g() {}, ...d}".
type ObjectLit struct {
	Loc   Loc
	Props []*Property
}

// Property is one object literal entry. For PropSpread, Value holds the
// spread argument and Key is nil. Default is only set on shorthand entries
// parsed as a destructuring cover grammar ("{a = 1} = obj").
type Property struct {
	Kind      PropKind
	Key       Expr
	Computed  bool
	Shorthand bool
	Value     Expr
	Default   Expr
}

// SpreadElement is "...arg" in an array literal or argument list.
type SpreadElement struct {
	Loc Loc
	Arg Expr
}

// UnaryExpr is a prefix or postfix operator application.
type UnaryExpr struct {
	Loc Loc
	Op  OpCode
	Arg Expr
}

// BinaryExpr is a binary operator application, including the comma operator.
type BinaryExpr struct {
	Loc   Loc
	Op    OpCode
	Left  Expr
	Right Expr
}

// AssignExpr is "target op= value".
type AssignExpr struct {
	Loc    Loc
	Op     OpCode
	Target Pattern
	Value  Expr
}

// CondExpr is "test ? yes : no".
type CondExpr struct {
	Loc  Loc
	Test Expr
	Yes  Expr
	No   Expr
}

// CallExpr is "callee(args)".
type CallExpr struct {
	Loc      Loc
	Callee   Expr
	Args     []Expr
	Optional bool
}

// NewExpr is "new callee(args)".
type NewExpr struct {
	Loc    Loc
	Callee Expr
	Args   []Expr
}

// DotExpr is "target.name".
type DotExpr struct {
	Loc      Loc
	Target   Expr
	Name     string
	Optional bool
}

// IndexExpr is "target[index]".
type IndexExpr struct {
	Loc      Loc
	Target   Expr
	Index    Expr
	Optional bool
}

// YieldExpr is "yield arg" or "yield* arg".
type YieldExpr struct {
	Loc      Loc
	Arg      Expr
	Delegate bool
}

// ----------------------------------------------------------------------------
// Interface Implementations
// ----------------------------------------------------------------------------

func (n *Root) Pos() Loc                { return Loc{} }
func (n *Program) Pos() Loc             { return n.Loc }
func (n *Function) Pos() Loc            { return n.Loc }
func (n *Class) Pos() Loc               { return n.Loc }
func (n *ArrayPattern) Pos() Loc        { return n.Loc }
func (n *ObjectPattern) Pos() Loc       { return n.Loc }
func (n *VarDecl) Pos() Loc             { return n.Loc }
func (n *FunctionDecl) Pos() Loc        { return n.Loc }
func (n *ClassDecl) Pos() Loc           { return n.Loc }
func (n *ExprStmt) Pos() Loc            { return n.Loc }
func (n *BlockStmt) Pos() Loc           { return n.Loc }
func (n *EmptyStmt) Pos() Loc           { return n.Loc }
func (n *IfStmt) Pos() Loc              { return n.Loc }
func (n *ForStmt) Pos() Loc             { return n.Loc }
func (n *ForInStmt) Pos() Loc           { return n.Loc }
func (n *WhileStmt) Pos() Loc           { return n.Loc }
func (n *DoWhileStmt) Pos() Loc         { return n.Loc }
func (n *ReturnStmt) Pos() Loc          { return n.Loc }
func (n *ThrowStmt) Pos() Loc           { return n.Loc }
func (n *BreakStmt) Pos() Loc           { return n.Loc }
func (n *ContinueStmt) Pos() Loc        { return n.Loc }
func (n *TryStmt) Pos() Loc             { return n.Loc }
func (n *CatchClause) Pos() Loc         { return n.Loc }
func (n *SwitchStmt) Pos() Loc          { return n.Loc }
func (n *LabeledStmt) Pos() Loc         { return n.Loc }
func (n *WithStmt) Pos() Loc            { return n.Loc }
func (n *DebuggerStmt) Pos() Loc        { return n.Loc }
func (n *ExportDecl) Pos() Loc          { return n.Loc }
func (n *ExportDefault) Pos() Loc       { return n.Loc }
func (n *ExportNamed) Pos() Loc         { return n.Loc }
func (n *Identifier) Pos() Loc          { return n.Loc }
func (n *NumberLit) Pos() Loc           { return n.Loc }
func (n *StringLit) Pos() Loc           { return n.Loc }
func (n *TemplateLit) Pos() Loc         { return n.Loc }
func (n *RegExpLit) Pos() Loc           { return n.Loc }
func (n *BoolLit) Pos() Loc             { return n.Loc }
func (n *NullLit) Pos() Loc             { return n.Loc }
func (n *ThisExpr) Pos() Loc            { return n.Loc }
func (n *SuperExpr) Pos() Loc           { return n.Loc }
func (n *ArrayLit) Pos() Loc            { return n.Loc }
func (n *ObjectLit) Pos() Loc           { return n.Loc }
func (n *SpreadElement) Pos() Loc       { return n.Loc }
func (n *UnaryExpr) Pos() Loc           { return n.Loc }
func (n *BinaryExpr) Pos() Loc          { return n.Loc }
func (n *AssignExpr) Pos() Loc          { return n.Loc }
func (n *CondExpr) Pos() Loc            { return n.Loc }
func (n *CallExpr) Pos() Loc            { return n.Loc }
func (n *NewExpr) Pos() Loc             { return n.Loc }
func (n *DotExpr) Pos() Loc             { return n.Loc }
func (n *IndexExpr) Pos() Loc           { return n.Loc }
func (n *YieldExpr) Pos() Loc           { return n.Loc }

func (*VarDecl) isStmt()       {}
func (*FunctionDecl) isStmt()  {}
func (*ClassDecl) isStmt()     {}
func (*ExprStmt) isStmt()      {}
func (*BlockStmt) isStmt()     {}
func (*EmptyStmt) isStmt()     {}
func (*IfStmt) isStmt()        {}
func (*ForStmt) isStmt()       {}
func (*ForInStmt) isStmt()     {}
func (*WhileStmt) isStmt()     {}
func (*DoWhileStmt) isStmt()   {}
func (*ReturnStmt) isStmt()    {}
func (*ThrowStmt) isStmt()     {}
func (*BreakStmt) isStmt()     {}
func (*ContinueStmt) isStmt()  {}
func (*TryStmt) isStmt()       {}
func (*SwitchStmt) isStmt()    {}
func (*LabeledStmt) isStmt()   {}
func (*WithStmt) isStmt()      {}
func (*DebuggerStmt) isStmt()  {}
func (*ExportDecl) isStmt()    {}
func (*ExportDefault) isStmt() {}
func (*ExportNamed) isStmt()   {}

func (*Function) isExpr()      {}
func (*Class) isExpr()         {}
func (*Identifier) isExpr()    {}
func (*NumberLit) isExpr()     {}
func (*StringLit) isExpr()     {}
func (*TemplateLit) isExpr()   {}
func (*RegExpLit) isExpr()     {}
func (*BoolLit) isExpr()       {}
func (*NullLit) isExpr()       {}
func (*ThisExpr) isExpr()      {}
func (*SuperExpr) isExpr()     {}
func (*ArrayLit) isExpr()      {}
func (*ObjectLit) isExpr()     {}
func (*SpreadElement) isExpr() {}
func (*UnaryExpr) isExpr()     {}
func (*BinaryExpr) isExpr()    {}
func (*AssignExpr) isExpr()    {}
func (*CondExpr) isExpr()      {}
func (*CallExpr) isExpr()      {}
func (*NewExpr) isExpr()       {}
func (*DotExpr) isExpr()       {}
func (*IndexExpr) isExpr()     {}
func (*YieldExpr) isExpr()     {}

func (*Identifier) isPattern()    {}
func (*ArrayPattern) isPattern()  {}
func (*ObjectPattern) isPattern() {}
func (*DotExpr) isPattern()       {}
func (*IndexExpr) isPattern()     {}

func (*Root) isScopeNode()        {}
func (*Program) isScopeNode()     {}
func (*Function) isScopeNode()    {}
func (*Class) isScopeNode()       {}
func (*BlockStmt) isScopeNode()   {}
func (*CatchClause) isScopeNode() {}
func (*SwitchStmt) isScopeNode()  {}
func (*ForStmt) isScopeNode()     {}
func (*ForInStmt) isScopeNode()   {}
