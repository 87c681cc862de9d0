// Package lexer converts BASIC source text into a stream of tokens
// (spec §4.1). Grounded on the teacher's internal/lexer.Lexer — one
// rune of lookahead, 1-based line/column tracking, a functional-options
// constructor — generalized from DWScript's Pascal-family grammar to
// the vintage BASIC lexical rules spec §4.1 and §6 describe.
package lexer

import (
	"strconv"
	"strings"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// Lexer scans one BASIC source file. It never fails: every byte stream
// produces a terminating End-of-text token (spec §8 invariant 1); it is
// the parser and validator's job to reject what the lexer tolerates.
type Lexer struct {
	input            string
	pos              int // byte offset of ch
	readPos          int // byte offset of the next byte
	line, column     int // 1-based position of ch
	ch               byte
	preserveDividers bool
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithPreserveDividers controls whether run-of-whitespace tokens are
// returned to the caller (true, the default used by the parser, which
// needs to distinguish adjacent tokens) or silently skipped (false,
// useful for a token-dump CLI command that only wants meaningful
// tokens).
func WithPreserveDividers(preserve bool) Option {
	return func(l *Lexer) {
		l.preserveDividers = preserve
	}
}

// New returns a Lexer over source, ready to produce its first token.
func New(source string, opts ...Option) *Lexer {
	l := &Lexer{input: source, line: 1, column: 0, preserveDividers: true}
	for _, opt := range opts {
		opt(l)
	}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		l.readPos++
		l.column++
		return
	}
	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekByte() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *Lexer) posAt(line, col int) token.Position {
	return token.Position{Line: line, Column: col}
}

// Next scans and returns the next token. After the final End-of-text
// token has been returned once, further calls keep returning it.
func (l *Lexer) Next() token.Token {
	if l.atEnd() {
		return token.Token{Kind: token.EndOfText, Pos: l.posAt(l.line, l.column)}
	}

	switch {
	case l.ch == ' ' || l.ch == '\t':
		div := l.lexDivider()
		if !l.preserveDividers {
			return l.Next()
		}
		return div
	case l.ch == '\n':
		return l.lexNewline()
	case l.ch == '\r' && l.peekByte() == '\n':
		pos := l.posAt(l.line, l.column)
		l.advance() // now on '\n'
		l.advance() // consume it, rolling the line counter
		return token.Token{Kind: token.EndOfLine, Pos: pos, Text: "\r\n"}
	case l.ch == '\r':
		return l.lexSymbolChar()
	case l.ch == '\'':
		return l.lexRemComment()
	case l.ch == '"':
		return l.lexString()
	case l.ch == '&' && (l.peekByte() == 'H' || l.peekByte() == 'h' || l.peekByte() == 'O' || l.peekByte() == 'o' || l.peekByte() == 'B' || l.peekByte() == 'b'):
		return l.lexRadixNumber()
	case isDigit(l.ch), l.ch == '.' && isDigit(l.peekByte()):
		return l.lexNumber()
	case isLetter(l.ch):
		return l.lexIdentifierOrKeyword()
	case isOperatorChar(l.ch):
		return l.lexOperation()
	default:
		return l.lexSymbolChar()
	}
}

func isOperatorChar(b byte) bool {
	switch b {
	case '+', '-', '*', '/', '\\', '^', '=', '<', '>':
		return true
	}
	return false
}

func (l *Lexer) lexDivider() token.Token {
	startLine, startCol := l.line, l.column
	for l.ch == ' ' || l.ch == '\t' {
		l.advance()
	}
	return token.Token{Kind: token.Divider, Pos: l.posAt(startLine, startCol), Text: " "}
}

func (l *Lexer) lexNewline() token.Token {
	pos := l.posAt(l.line, l.column)
	l.advance()
	return token.Token{Kind: token.EndOfLine, Pos: pos, Text: "\n"}
}

func (l *Lexer) lexRemComment() token.Token {
	// `'` is an alias for REM: the remainder of the physical line is
	// commentary. We surface it as a single End-of-comment token so the
	// parser can stop the current statement exactly like hitting EOL.
	pos := l.posAt(l.line, l.column)
	var sb strings.Builder
	for !l.atEnd() && l.ch != '\n' && !(l.ch == '\r' && l.peekByte() == '\n') {
		sb.WriteByte(l.ch)
		l.advance()
	}
	return token.Token{Kind: token.EndOfComment, Pos: pos, Text: sb.String()}
}

func (l *Lexer) lexString() token.Token {
	pos := l.posAt(l.line, l.column)
	l.advance() // consume opening quote
	var sb strings.Builder
	for !l.atEnd() && l.ch != '"' && l.ch != '\n' {
		sb.WriteByte(l.ch)
		l.advance()
	}
	if l.ch == '"' {
		l.advance() // consume closing quote
	}
	// Missing close-quote is tolerated (spec §4.1): the string simply
	// ends at end-of-line, with no error raised here.
	return token.Token{
		Kind: token.String, Pos: pos, Text: sb.String(), Str: sb.String(),
		VType: token.TypeString, Const: true,
	}
}

func (l *Lexer) lexRadixNumber() token.Token {
	pos := l.posAt(l.line, l.column)
	l.advance() // consume '&'
	radixCh := l.ch
	l.advance() // consume H/O/B
	start := l.pos
	digitOK := func(b byte) bool {
		switch radixCh {
		case 'H', 'h':
			return isHex(b)
		case 'O', 'o':
			return b >= '0' && b <= '7'
		default:
			return b == '0' || b == '1'
		}
	}
	for !l.atEnd() && digitOK(l.ch) {
		l.advance()
	}
	digits := l.input[start:l.pos]
	base := 16
	switch radixCh {
	case 'O', 'o':
		base = 8
	case 'B', 'b':
		base = 2
	}
	var value int64
	if digits != "" {
		value, _ = strconv.ParseInt(digits, base, 64)
	}
	return token.Token{
		Kind: token.Number, Pos: pos, Text: "&" + string(radixCh) + digits,
		VType: token.TypeInteger, Value: float64(int16(value)), Const: true,
	}
}

func (l *Lexer) lexNumber() token.Token {
	pos := l.posAt(l.line, l.column)
	start := l.pos
	sawDot := false
	for !l.atEnd() && (isDigit(l.ch) || (l.ch == '.' && !sawDot)) {
		if l.ch == '.' {
			sawDot = true
		}
		l.advance()
	}
	if !l.atEnd() && (l.ch == 'E' || l.ch == 'e') {
		save := l.pos
		saveLine, saveCol, saveRead, saveCh := l.line, l.column, l.readPos, l.ch
		l.advance()
		if l.ch == '+' || l.ch == '-' {
			l.advance()
		}
		if isDigit(l.ch) {
			for !l.atEnd() && isDigit(l.ch) {
				l.advance()
			}
		} else {
			// Not actually an exponent; rewind.
			l.pos, l.line, l.column, l.readPos, l.ch = save, saveLine, saveCol, saveRead, saveCh
		}
	}
	text := l.input[start:l.pos]
	vtype := token.TypeSingle
	switch l.ch {
	case '%':
		vtype = token.TypeInteger
		l.advance()
	case '!':
		vtype = token.TypeSingle
		l.advance()
	case '#':
		vtype = token.TypeSingle // reserved double, demoted to single (spec §3)
		l.advance()
	}
	value, _ := strconv.ParseFloat(text, 64)
	return token.Token{
		Kind: token.Number, Pos: pos, Text: text, VType: vtype, Value: value, Const: true,
	}
}

func (l *Lexer) lexIdentifierOrKeyword() token.Token {
	pos := l.posAt(l.line, l.column)
	start := l.pos
	for !l.atEnd() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.advance()
	}
	suffix := byte(0)
	switch l.ch {
	case '$', '%', '!':
		suffix = l.ch
		l.advance()
	}
	text := l.input[start:l.pos]
	if tag, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: token.Keyword, Pos: pos, Text: text, Tag: tag, Str: strings.ToUpper(text)}
	}
	vtype := token.TypeSingle
	switch suffix {
	case '$':
		vtype = token.TypeString
	case '%':
		vtype = token.TypeInteger
	}
	return token.Token{Kind: token.Identifier, Pos: pos, Text: text, VType: vtype, Str: strings.ToUpper(text)}
}

func (l *Lexer) lexOperation() token.Token {
	pos := l.posAt(l.line, l.column)
	ch := l.ch
	l.advance()
	text := string(ch)
	if ch == '<' {
		if l.ch == '>' {
			text = "<>"
			l.advance()
		} else if l.ch == '=' {
			text = "<="
			l.advance()
		}
	} else if ch == '>' && l.ch == '=' {
		text = ">="
		l.advance()
	}
	return token.Token{Kind: token.Operation, Pos: pos, Text: text, Char: text[0]}
}

func (l *Lexer) lexSymbolChar() token.Token {
	pos := l.posAt(l.line, l.column)
	ch := l.ch
	l.advance()
	return token.Token{Kind: token.Symbol, Pos: pos, Text: string(ch), Char: ch}
}
