// Package lexer provides tokenization for JavaScript source code.
//
// The lexer converts a JavaScript source string into a sequence of tokens,
// handling:
// - Keywords (contextual words such as "of", "get" and "static" stay identifiers)
// - Identifiers (including Unicode letters and $)
// - Numeric, string, template and regular expression literals
// - Operators and punctuation
// - Line and block comments
// - A newline-before flag on every token for automatic semicolon insertion
package lexer

import (
	"unicode"
	"unicode/utf8"
)

// ----------------------------------------------------------------------------
// Token Types
// ----------------------------------------------------------------------------

// TokenKind represents the type of a token.
type TokenKind uint8

const (
	TokError TokenKind = iota
	TokEOF

	// Literals
	TokNumber
	TokString
	TokNoSubstitutionTemplate
	TokTemplateHead
	TokTemplateMiddle
	TokTemplateTail
	TokRegExp

	// Identifiers
	TokIdent

	// Keywords
	TokBreak
	TokCase
	TokCatch
	TokClass
	TokConst
	TokContinue
	TokDebugger
	TokDefault
	TokDelete
	TokDo
	TokElse
	TokExport
	TokExtends
	TokFalse
	TokFinally
	TokFor
	TokFunction
	TokIf
	TokImport
	TokIn
	TokInstanceof
	TokLet
	TokNew
	TokNull
	TokReturn
	TokSuper
	TokSwitch
	TokThis
	TokThrow
	TokTrue
	TokTry
	TokTypeof
	TokVar
	TokVoid
	TokWhile
	TokWith
	TokYield

	// Punctuation
	TokLParen    // (
	TokRParen    // )
	TokLBrace    // {
	TokRBrace    // }
	TokLBracket  // [
	TokRBracket  // ]
	TokSemicolon // ;
	TokComma     // ,
	TokDot       // .
	TokEllipsis  // ...
	TokQuestion  // ?
	TokQuestionDot
	TokColon // :
	TokArrow // =>

	// Assignment operators
	TokEq
	TokPlusEq
	TokMinusEq
	TokStarEq
	TokSlashEq
	TokPercentEq
	TokStarStarEq
	TokLessLessEq
	TokGreaterGreaterEq
	TokGreaterGreaterGreaterEq
	TokAmpEq
	TokPipeEq
	TokCaretEq
	TokAmpAmpEq
	TokPipePipeEq
	TokQuestionQuestionEq

	// Binary and unary operators
	TokEqEq
	TokBangEq
	TokEqEqEq
	TokBangEqEq
	TokLess
	TokGreater
	TokLessEq
	TokGreaterEq
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokStarStar
	TokPlusPlus
	TokMinusMinus
	TokLessLess
	TokGreaterGreater
	TokGreaterGreaterGreater
	TokAmp
	TokPipe
	TokCaret
	TokBang
	TokTilde
	TokAmpAmp
	TokPipePipe
	TokQuestionQuestion

	tokCount
)

// String returns the string representation of a token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenNames) && tokenNames[k] != "" {
		return tokenNames[k]
	}
	return "unknown"
}

var tokenNames = [...]string{
	TokError:                  "error",
	TokEOF:                    "end of file",
	TokNumber:                 "number",
	TokString:                 "string",
	TokNoSubstitutionTemplate: "template",
	TokTemplateHead:           "template head",
	TokTemplateMiddle:         "template middle",
	TokTemplateTail:           "template tail",
	TokRegExp:                 "regexp",
	TokIdent:                  "identifier",
	TokBreak:                  "break",
	TokCase:                   "case",
	TokCatch:                  "catch",
	TokClass:                  "class",
	TokConst:                  "const",
	TokContinue:               "continue",
	TokDebugger:               "debugger",
	TokDefault:                "default",
	TokDelete:                 "delete",
	TokDo:                     "do",
	TokElse:                   "else",
	TokExport:                 "export",
	TokExtends:                "extends",
	TokFalse:                  "false",
	TokFinally:                "finally",
	TokFor:                    "for",
	TokFunction:               "function",
	TokIf:                     "if",
	TokImport:                 "import",
	TokIn:                     "in",
	TokInstanceof:             "instanceof",
	TokLet:                    "let",
	TokNew:                    "new",
	TokNull:                   "null",
	TokReturn:                 "return",
	TokSuper:                  "super",
	TokSwitch:                 "switch",
	TokThis:                   "this",
	TokThrow:                  "throw",
	TokTrue:                   "true",
	TokTry:                    "try",
	TokTypeof:                 "typeof",
	TokVar:                    "var",
	TokVoid:                   "void",
	TokWhile:                  "while",
	TokWith:                   "with",
	TokYield:                  "yield",
	TokLParen:                 "(",
	TokRParen:                 ")",
	TokLBrace:                 "{",
	TokRBrace:                 "}",
	TokLBracket:               "[",
	TokRBracket:               "]",
	TokSemicolon:              ";",
	TokComma:                  ",",
	TokDot:                    ".",
	TokEllipsis:               "...",
	TokQuestion:               "?",
	TokQuestionDot:            "?.",
	TokColon:                  ":",
	TokArrow:                  "=>",
	TokEq:                     "=",
	TokPlusEq:                 "+=",
	TokMinusEq:                "-=",
	TokStarEq:                 "*=",
	TokSlashEq:                "/=",
	TokPercentEq:              "%=",
	TokStarStarEq:             "**=",
	TokLessLessEq:             "<<=",
	TokGreaterGreaterEq:       ">>=",
	TokGreaterGreaterGreaterEq: ">>>=",
	TokAmpEq:                  "&=",
	TokPipeEq:                 "|=",
	TokCaretEq:                "^=",
	TokAmpAmpEq:               "&&=",
	TokPipePipeEq:             "||=",
	TokQuestionQuestionEq:     "??=",
	TokEqEq:                   "==",
	TokBangEq:                 "!=",
	TokEqEqEq:                 "===",
	TokBangEqEq:               "!==",
	TokLess:                   "<",
	TokGreater:                ">",
	TokLessEq:                 "<=",
	TokGreaterEq:              ">=",
	TokPlus:                   "+",
	TokMinus:                  "-",
	TokStar:                   "*",
	TokSlash:                  "/",
	TokPercent:                "%",
	TokStarStar:               "**",
	TokPlusPlus:               "++",
	TokMinusMinus:             "--",
	TokLessLess:               "<<",
	TokGreaterGreater:         ">>",
	TokGreaterGreaterGreater:  ">>>",
	TokAmp:                    "&",
	TokPipe:                   "|",
	TokCaret:                  "^",
	TokBang:                   "!",
	TokTilde:                  "~",
	TokAmpAmp:                 "&&",
	TokPipePipe:               "||",
	TokQuestionQuestion:       "??",
}

// IsKeyword reports whether the kind is a reserved word. Reserved words may
// still appear as property names after a dot or as object literal keys.
func (k TokenKind) IsKeyword() bool {
	return k >= TokBreak && k <= TokYield
}

// IsAssign reports whether the kind is "=" or a compound assignment operator.
func (k TokenKind) IsAssign() bool {
	return k >= TokEq && k <= TokQuestionQuestionEq
}

// ----------------------------------------------------------------------------
// Token
// ----------------------------------------------------------------------------

// Token represents a lexical token.
type Token struct {
	Kind  TokenKind
	Start int    // Byte offset in source
	End   int    // Byte offset of end (exclusive)
	Value string // Raw source text for identifiers and literals, message for errors

	// NewlineBefore is set when a line terminator separates this token from
	// the previous one.
	NewlineBefore bool
}

// Text returns the source text of the token.
func (t Token) Text(source string) string {
	if t.Start >= 0 && t.End <= len(source) {
		return source[t.Start:t.End]
	}
	return ""
}

// ----------------------------------------------------------------------------
// Keywords
// ----------------------------------------------------------------------------

// Keywords maps keyword strings to their token kinds.
var Keywords = map[string]TokenKind{
	"break":      TokBreak,
	"case":       TokCase,
	"catch":      TokCatch,
	"class":      TokClass,
	"const":      TokConst,
	"continue":   TokContinue,
	"debugger":   TokDebugger,
	"default":    TokDefault,
	"delete":     TokDelete,
	"do":         TokDo,
	"else":       TokElse,
	"export":     TokExport,
	"extends":    TokExtends,
	"false":      TokFalse,
	"finally":    TokFinally,
	"for":        TokFor,
	"function":   TokFunction,
	"if":         TokIf,
	"import":     TokImport,
	"in":         TokIn,
	"instanceof": TokInstanceof,
	"let":        TokLet,
	"new":        TokNew,
	"null":       TokNull,
	"return":     TokReturn,
	"super":      TokSuper,
	"switch":     TokSwitch,
	"this":       TokThis,
	"throw":      TokThrow,
	"true":       TokTrue,
	"try":        TokTry,
	"typeof":     TokTypeof,
	"var":        TokVar,
	"void":       TokVoid,
	"while":      TokWhile,
	"with":       TokWith,
	"yield":      TokYield,
}

// ----------------------------------------------------------------------------
// Lexer
// ----------------------------------------------------------------------------

// Lexer tokenizes JavaScript source code.
type Lexer struct {
	source  string
	pos     int
	start   int
	tokens  []Token
	newline bool

	// prev is the kind of the last token returned; it decides whether a
	// slash starts a regular expression or a division.
	prev TokenKind

	// Template literal tracking. Each entry is the brace depth at which a
	// "${" substitution was opened.
	braceDepth    int
	templateStack []int
}

// New creates a new lexer for the given source.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		tokens: make([]Token, 0, len(source)/4), // Estimate
		prev:   TokEOF,
	}
}

// Tokenize returns all tokens in the source.
func (l *Lexer) Tokenize() []Token {
	for {
		tok := l.Next()
		l.tokens = append(l.tokens, tok)
		if tok.Kind == TokEOF || tok.Kind == TokError {
			break
		}
	}
	return l.tokens
}

// Next returns the next token.
func (l *Lexer) Next() Token {
	tok := l.next()
	l.prev = tok.Kind
	return tok
}

func (l *Lexer) next() Token {
	l.newline = false
	if errTok, failed := l.skipWhitespaceAndComments(); failed {
		return errTok
	}

	if l.pos >= len(l.source) {
		return Token{Kind: TokEOF, Start: l.pos, End: l.pos, NewlineBefore: l.newline}
	}

	l.start = l.pos
	ch := l.source[l.pos]

	// Identifiers and keywords
	if ch < 128 {
		if asciiIdentStart[ch] {
			return l.scanIdentOrKeyword()
		}
	} else {
		r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
		if isIdentStartSlow(r) {
			return l.scanIdentOrKeyword()
		}
	}

	// Numbers
	if isDigit(ch) || (ch == '.' && l.pos+1 < len(l.source) && isDigit(l.source[l.pos+1])) {
		return l.scanNumber()
	}

	switch ch {
	case '"', '\'':
		return l.scanString(ch)
	case '`':
		l.pos++
		return l.scanTemplate(TokNoSubstitutionTemplate, TokTemplateHead)
	case '/':
		if l.regexpAllowed() {
			return l.scanRegExp()
		}
	case '{':
		l.braceDepth++
	case '}':
		if n := len(l.templateStack); n > 0 && l.templateStack[n-1] == l.braceDepth {
			l.templateStack = l.templateStack[:n-1]
			l.braceDepth--
			l.pos++
			return l.scanTemplate(TokTemplateTail, TokTemplateMiddle)
		}
		l.braceDepth--
	}

	// Operators and punctuation
	return l.scanOperator()
}

func (l *Lexer) token(kind TokenKind) Token {
	return Token{
		Kind:          kind,
		Start:         l.start,
		End:           l.pos,
		Value:         l.source[l.start:l.pos],
		NewlineBefore: l.newline,
	}
}

func (l *Lexer) errorToken(msg string) Token {
	return Token{Kind: TokError, Start: l.start, End: l.pos, Value: msg, NewlineBefore: l.newline}
}

// regexpAllowed reports whether a slash at the current position begins a
// regular expression literal rather than a division operator.
func (l *Lexer) regexpAllowed() bool {
	switch l.prev {
	case TokIdent, TokNumber, TokString, TokNoSubstitutionTemplate, TokTemplateTail,
		TokRegExp, TokRParen, TokRBracket, TokRBrace, TokThis, TokSuper,
		TokTrue, TokFalse, TokNull, TokPlusPlus, TokMinusMinus:
		return false
	}
	return true
}

// ----------------------------------------------------------------------------
// Scanning Helpers
// ----------------------------------------------------------------------------

func (l *Lexer) skipWhitespaceAndComments() (Token, bool) {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]

		if ch == '\n' {
			l.newline = true
			l.pos++
			continue
		}
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f' {
			if ch == '\r' {
				l.newline = true
			}
			l.pos++
			continue
		}

		// Line comment
		if ch == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '/' {
			l.pos += 2
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.pos++
			}
			continue
		}

		// Block comment
		if ch == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '*' {
			l.start = l.pos
			l.pos += 2
			closed := false
			for l.pos+1 < len(l.source) {
				if l.source[l.pos] == '\n' {
					l.newline = true
				}
				if l.source[l.pos] == '*' && l.source[l.pos+1] == '/' {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				l.pos = len(l.source)
				return l.errorToken("unterminated block comment"), true
			}
			continue
		}

		if ch >= 128 {
			r, size := utf8.DecodeRuneInString(l.source[l.pos:])
			if r == '\u2028' || r == '\u2029' {
				l.newline = true
				l.pos += size
				continue
			}
			if r == '\u00a0' || r == '\ufeff' || unicode.Is(unicode.Zs, r) {
				l.pos += size
				continue
			}
		}

		break
	}
	return Token{}, false
}

func (l *Lexer) scanIdentOrKeyword() Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch < 128 {
			if asciiIdentContinue[ch] {
				l.pos++
				continue
			}
			break
		}
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentContinueSlow(r) {
			break
		}
		l.pos += size
	}

	text := l.source[l.start:l.pos]
	if kind, ok := Keywords[text]; ok {
		return l.token(kind)
	}
	return l.token(TokIdent)
}

func (l *Lexer) scanNumber() Token {
	src := l.source

	// Radix prefixes
	if src[l.pos] == '0' && l.pos+1 < len(src) {
		switch src[l.pos+1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.pos += 2
			digits := l.pos
			for l.pos < len(src) && (isHexDigit(src[l.pos]) || src[l.pos] == '_') {
				l.pos++
			}
			if l.pos == digits {
				return l.errorToken("missing digits after radix prefix")
			}
			if l.pos < len(src) && src[l.pos] == 'n' {
				l.pos++
			}
			return l.token(TokNumber)
		}
	}

	for l.pos < len(src) && (isDigit(src[l.pos]) || src[l.pos] == '_') {
		l.pos++
	}
	if l.pos < len(src) && src[l.pos] == 'n' {
		l.pos++
		return l.token(TokNumber)
	}
	if l.pos < len(src) && src[l.pos] == '.' {
		l.pos++
		for l.pos < len(src) && (isDigit(src[l.pos]) || src[l.pos] == '_') {
			l.pos++
		}
	}
	if l.pos < len(src) && (src[l.pos] == 'e' || src[l.pos] == 'E') {
		l.pos++
		if l.pos < len(src) && (src[l.pos] == '+' || src[l.pos] == '-') {
			l.pos++
		}
		digits := l.pos
		for l.pos < len(src) && isDigit(src[l.pos]) {
			l.pos++
		}
		if l.pos == digits {
			return l.errorToken("missing exponent digits")
		}
	}
	if l.pos < len(src) && isASCIIIdentStart(src[l.pos]) {
		return l.errorToken("identifier directly after number")
	}
	return l.token(TokNumber)
}

func (l *Lexer) scanString(quote byte) Token {
	l.pos++
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case quote:
			l.pos++
			return l.token(TokString)
		case '\\':
			l.pos += 2
			continue
		case '\n':
			return l.errorToken("unterminated string literal")
		}
		l.pos++
	}
	l.pos = len(l.source)
	return l.errorToken("unterminated string literal")
}

// scanTemplate scans template characters up to the closing backquote, which
// yields done, or up to a "${", which yields open and pushes a substitution.
// Value holds the raw template text including its delimiters.
func (l *Lexer) scanTemplate(done, open TokenKind) Token {
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case '`':
			l.pos++
			return l.token(done)
		case '\\':
			l.pos += 2
			continue
		case '$':
			if l.pos+1 < len(l.source) && l.source[l.pos+1] == '{' {
				l.pos += 2
				l.braceDepth++
				l.templateStack = append(l.templateStack, l.braceDepth)
				return l.token(open)
			}
		}
		l.pos++
	}
	l.pos = len(l.source)
	return l.errorToken("unterminated template literal")
}

func (l *Lexer) scanRegExp() Token {
	l.pos++
	inClass := false
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		switch {
		case ch == '\\':
			l.pos += 2
			continue
		case ch == '\n':
			return l.errorToken("unterminated regular expression")
		case ch == '[':
			inClass = true
		case ch == ']':
			inClass = false
		case ch == '/' && !inClass:
			l.pos++
			for l.pos < len(l.source) && isASCIIIdentContinue(l.source[l.pos]) {
				l.pos++
			}
			return l.token(TokRegExp)
		}
		l.pos++
	}
	l.pos = len(l.source)
	return l.errorToken("unterminated regular expression")
}

// scanOperator scans the longest operator starting at the current position.
func (l *Lexer) scanOperator() Token {
	src := l.source
	ch := src[l.pos]
	l.pos++

	peek := func(offset int) byte {
		if l.pos+offset < len(src) {
			return src[l.pos+offset]
		}
		return 0
	}

	switch ch {
	case '(':
		return l.token(TokLParen)
	case ')':
		return l.token(TokRParen)
	case '{':
		return l.token(TokLBrace)
	case '}':
		return l.token(TokRBrace)
	case '[':
		return l.token(TokLBracket)
	case ']':
		return l.token(TokRBracket)
	case ';':
		return l.token(TokSemicolon)
	case ',':
		return l.token(TokComma)
	case ':':
		return l.token(TokColon)
	case '~':
		return l.token(TokTilde)

	case '.':
		if peek(0) == '.' && peek(1) == '.' {
			l.pos += 2
			return l.token(TokEllipsis)
		}
		return l.token(TokDot)

	case '?':
		switch {
		case peek(0) == '?' && peek(1) == '=':
			l.pos += 2
			return l.token(TokQuestionQuestionEq)
		case peek(0) == '?':
			l.pos++
			return l.token(TokQuestionQuestion)
		case peek(0) == '.' && !isDigit(peek(1)):
			l.pos++
			return l.token(TokQuestionDot)
		}
		return l.token(TokQuestion)

	case '=':
		switch {
		case peek(0) == '=' && peek(1) == '=':
			l.pos += 2
			return l.token(TokEqEqEq)
		case peek(0) == '=':
			l.pos++
			return l.token(TokEqEq)
		case peek(0) == '>':
			l.pos++
			return l.token(TokArrow)
		}
		return l.token(TokEq)

	case '!':
		switch {
		case peek(0) == '=' && peek(1) == '=':
			l.pos += 2
			return l.token(TokBangEqEq)
		case peek(0) == '=':
			l.pos++
			return l.token(TokBangEq)
		}
		return l.token(TokBang)

	case '+':
		switch peek(0) {
		case '+':
			l.pos++
			return l.token(TokPlusPlus)
		case '=':
			l.pos++
			return l.token(TokPlusEq)
		}
		return l.token(TokPlus)

	case '-':
		switch peek(0) {
		case '-':
			l.pos++
			return l.token(TokMinusMinus)
		case '=':
			l.pos++
			return l.token(TokMinusEq)
		}
		return l.token(TokMinus)

	case '*':
		switch {
		case peek(0) == '*' && peek(1) == '=':
			l.pos += 2
			return l.token(TokStarStarEq)
		case peek(0) == '*':
			l.pos++
			return l.token(TokStarStar)
		case peek(0) == '=':
			l.pos++
			return l.token(TokStarEq)
		}
		return l.token(TokStar)

	case '/':
		if peek(0) == '=' {
			l.pos++
			return l.token(TokSlashEq)
		}
		return l.token(TokSlash)

	case '%':
		if peek(0) == '=' {
			l.pos++
			return l.token(TokPercentEq)
		}
		return l.token(TokPercent)

	case '<':
		switch {
		case peek(0) == '<' && peek(1) == '=':
			l.pos += 2
			return l.token(TokLessLessEq)
		case peek(0) == '<':
			l.pos++
			return l.token(TokLessLess)
		case peek(0) == '=':
			l.pos++
			return l.token(TokLessEq)
		}
		return l.token(TokLess)

	case '>':
		switch {
		case peek(0) == '>' && peek(1) == '>' && peek(2) == '=':
			l.pos += 3
			return l.token(TokGreaterGreaterGreaterEq)
		case peek(0) == '>' && peek(1) == '>':
			l.pos += 2
			return l.token(TokGreaterGreaterGreater)
		case peek(0) == '>' && peek(1) == '=':
			l.pos += 2
			return l.token(TokGreaterGreaterEq)
		case peek(0) == '>':
			l.pos++
			return l.token(TokGreaterGreater)
		case peek(0) == '=':
			l.pos++
			return l.token(TokGreaterEq)
		}
		return l.token(TokGreater)

	case '&':
		switch {
		case peek(0) == '&' && peek(1) == '=':
			l.pos += 2
			return l.token(TokAmpAmpEq)
		case peek(0) == '&':
			l.pos++
			return l.token(TokAmpAmp)
		case peek(0) == '=':
			l.pos++
			return l.token(TokAmpEq)
		}
		return l.token(TokAmp)

	case '|':
		switch {
		case peek(0) == '|' && peek(1) == '=':
			l.pos += 2
			return l.token(TokPipePipeEq)
		case peek(0) == '|':
			l.pos++
			return l.token(TokPipePipe)
		case peek(0) == '=':
			l.pos++
			return l.token(TokPipeEq)
		}
		return l.token(TokPipe)

	case '^':
		if peek(0) == '=' {
			l.pos++
			return l.token(TokCaretEq)
		}
		return l.token(TokCaret)
	}

	return l.errorToken("unexpected character " + string(rune(ch)))
}

// ----------------------------------------------------------------------------
// Character Classification
// ----------------------------------------------------------------------------

// ASCII lookup tables for fast character classification (esbuild-style optimization)
var (
	// asciiIdentStart[c] is true if ASCII byte c can start an identifier
	asciiIdentStart [128]bool
	// asciiIdentContinue[c] is true if ASCII byte c can continue an identifier
	asciiIdentContinue [128]bool
)

func init() {
	for c := 'a'; c <= 'z'; c++ {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}
	asciiIdentStart['_'] = true
	asciiIdentContinue['_'] = true
	asciiIdentStart['$'] = true
	asciiIdentContinue['$'] = true

	// Digits can continue but not start identifiers
	for c := '0'; c <= '9'; c++ {
		asciiIdentContinue[c] = true
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isASCIIIdentStart(ch byte) bool {
	return ch < 128 && asciiIdentStart[ch]
}

func isASCIIIdentContinue(ch byte) bool {
	return ch < 128 && asciiIdentContinue[ch]
}

// isIdentStartSlow handles Unicode identifier start characters.
func isIdentStartSlow(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.Is(unicode.Other_ID_Start, r)
}

// isIdentContinueSlow handles Unicode identifier continuation characters.
func isIdentContinueSlow(r rune) bool {
	return isIdentStartSlow(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r) ||
		r == '\u200c' || r == '\u200d'
}

// IsIdentifier reports whether text is a valid identifier name.
func IsIdentifier(text string) bool {
	if text == "" {
		return false
	}
	for i, r := range text {
		if i == 0 {
			if !isIdentStartSlow(r) {
				return false
			}
		} else if !isIdentContinueSlow(r) {
			return false
		}
	}
	return true
}
