// Package emitter walks a validated program and produces target assembly
// text (spec §4.4). Grounded on the same dispatch-table discipline the
// parser and validator use: a fixed keyword table picks the body emitter
// for each statement, and two further fixed tables pick the operator and
// function emitters inside expressions.
package emitter

import (
	"fmt"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

const entryLabel = "START"

// Emitter holds the running state of one emission pass: the output
// buffer, the DATA-item read cursor, and a counter for local-label
// allocation inside IF and ON...GOTO/GOSUB lowering.
type Emitter struct {
	source *ast.Source
	out    *ast.Final

	dataItems []token.Token
	dataPos   int

	localSeq int
}

// Emit runs the full emission pass over a validated source and returns
// the assembled output buffer.
func Emit(source *ast.Source) *ast.Final {
	e := &Emitter{source: source, out: ast.NewFinal()}
	e.collectDataItems()

	e.prologue()
	for i := range source.Lines {
		e.emitLine(&source.Lines[i])
	}
	e.epilogue()

	return e.out
}

func (e *Emitter) prologue() {
	e.out.AddComment("generated, do not edit by hand")
	e.out.AddLine("\t.MCALL\t.EXIT")
	e.out.AddLabel(entryLabel)
}

func (e *Emitter) epilogue() {
	sentinelLabel := fmt.Sprintf("L%d", ast.SentinelLine)
	e.out.AddLabel(sentinelLabel)
	e.out.AddInstruction(".EXIT", "")

	if strs := e.source.Strings(); len(strs) > 0 {
		e.out.AddComment("STRINGS")
		e.out.AddInstruction(".EVEN", "")
		for i, s := range strs {
			e.out.AddLabel(fmt.Sprintf("ST%d", i+1))
			e.out.AddInstruction(".ASCII", "/"+escapeAscii(s)+"/")
		}
	}

	e.emitDataTable()

	e.out.AddComment("VARIABLES")
	for _, v := range e.source.VariablesSortedByDecoratedName() {
		label := v.DecoratedName()
		switch {
		case v.ValueType() == token.TypeString:
			e.out.AddLabel(label)
			e.out.AddInstruction(".BLKB", "256.")
		case v.IsArray():
			size := 1
			for _, ext := range v.Extents {
				size *= ext + 1
			}
			width := "0"
			if v.ValueType() == token.TypeSingle {
				width = "0,0"
			}
			e.out.AddLabel(label)
			for i := 0; i < size; i++ {
				e.out.AddInstruction(".WORD", width)
			}
		case v.ValueType() == token.TypeSingle:
			e.out.AddLabel(label)
			e.out.AddInstruction(".WORD", "0,0")
		default:
			e.out.AddLabel(label)
			e.out.AddInstruction(".WORD", "0")
		}
	}

	e.out.AddInstruction(".END", entryLabel)
}

// escapeAscii renders a non-printable byte or a literal `/` as an octal
// escape inside an .ASCII /.../ payload (spec §6 "Output file form").
func escapeAscii(s string) string {
	var sb []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '/' || c < 0x20 || c > 0x7e {
			sb = append(sb, []byte(fmt.Sprintf("<%03o>", c))...)
			continue
		}
		sb = append(sb, c)
	}
	return string(sb)
}

func (e *Emitter) emitLine(line *ast.Line) {
	e.out.AddComment(fmt.Sprintf("%d %s", line.Number, line.Text))
	e.out.AddLabel(fmt.Sprintf("L%d", line.Number))
	e.emitStatement(line.Number, &line.Statement)
}

// nextLabel allocates a fresh local label of the `N$` form used for
// IF and ON...GOTO/GOSUB lowering, scoped to the whole emission pass
// since BASIC line numbers never repeat.
func (e *Emitter) nextLabel() string {
	e.localSeq++
	return fmt.Sprintf("%d$", e.localSeq)
}

// successorLabel is the label to branch to when control falls off the
// end of a line with no explicit target: the next source line, or the
// sentinel line if this is the last one.
func (e *Emitter) successorLabel(lineNumber int) string {
	next := e.source.NextLineNumber(lineNumber)
	return fmt.Sprintf("L%d", next)
}
