// Package sourceerr formats and accumulates compiler diagnostics.
// Grounded on the teacher's internal/errors package (CompilerError with
// source-context, caret-pointing Format), adapted to the line/lex-column
// message shapes this compiler's stages actually produce (spec §7).
package sourceerr

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic by which stage and responsibility raised
// it (spec §7 error taxonomy).
type Kind int

const (
	Lex Kind = iota
	Parse
	Type
	Symbol
	Target
	Range
	Fold
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "Lex"
	case Parse:
		return "Parse"
	case Type:
		return "Type"
	case Symbol:
		return "Symbol"
	case Target:
		return "Target"
	case Range:
		return "Range"
	case Fold:
		return "Fold"
	default:
		return "Unknown"
	}
}

// Error is a single compiler diagnostic anchored on a BASIC source line,
// optionally with a finer lexical line:column (for expression-level
// errors reported against the original character stream).
type Error struct {
	Kind Kind
	Line int // BASIC line number the diagnostic is attributed to

	HasLexPos bool
	LexLine   int
	LexCol    int

	Message string
}

// Error implements the error interface, rendering the exact user-visible
// formats specified in spec §7.
func (e *Error) Error() string {
	if e.HasLexPos {
		return fmt.Sprintf("ERROR in line %d at %d:%d - %s", e.Line, e.LexLine, e.LexCol, e.Message)
	}
	return fmt.Sprintf("ERROR in line %d - %s", e.Line, e.Message)
}

// NewLineError builds a line-level diagnostic.
func NewLineError(kind Kind, line int, message string) *Error {
	return &Error{Kind: kind, Line: line, Message: message}
}

// NewPosError builds an expression-level diagnostic carrying the
// original lexer line:column.
func NewPosError(kind Kind, line, lexLine, lexCol int, message string) *Error {
	return &Error{Kind: kind, Line: line, HasLexPos: true, LexLine: lexLine, LexCol: lexCol, Message: message}
}

// Collector accumulates diagnostics for one compilation stage and
// exposes a simple count so the driver can decide whether to proceed
// (spec §5 "compilation-scope error counter", §7 "Propagation").
type Collector struct {
	errors []*Error
}

// Add records a diagnostic. It does not touch the source model; per-line
// error flags are set by the stage that reports the error.
func (c *Collector) Add(err *Error) {
	c.errors = append(c.errors, err)
}

// Errorf is a convenience wrapper building and recording a line-level
// error.
func (c *Collector) Errorf(kind Kind, line int, format string, args ...any) {
	c.Add(NewLineError(kind, line, fmt.Sprintf(format, args...)))
}

// Count returns the number of diagnostics recorded so far.
func (c *Collector) Count() int {
	return len(c.errors)
}

// Errors returns all recorded diagnostics in recording order.
func (c *Collector) Errors() []*Error {
	return c.errors
}

// Format renders every collected diagnostic, one per line, the way the
// CLI driver prints them to stderr.
func (c *Collector) Format() string {
	var sb strings.Builder
	for _, e := range c.errors {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
