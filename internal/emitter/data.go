package emitter

import (
	"fmt"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// collectDataItems gathers every DATA literal across the whole program,
// in source order, into one flat cursor table (SPEC_FULL.md "DATA/READ/
// RESTORE ... implemented as a shared cursor maintained by the emitter
// over an interned DATA-item table").
func (e *Emitter) collectDataItems() {
	for _, line := range e.source.Lines {
		if line.Statement.Keyword.Tag == token.KeywordDATA {
			e.dataItems = append(e.dataItems, line.Statement.Params...)
		}
	}
}

// dataTableLabel names the flat in-line literal table emitted once in
// the epilogue's data section.
const dataTableLabel = "DATATAB"

// emitData contributes nothing to the instruction stream: its literals
// were already folded into the shared table by collectDataItems.
func (e *Emitter) emitData(int, *ast.Statement) {}

// emitRead advances the shared cursor, storing one literal per target
// variable; non-integer targets are an acknowledged emit-gap.
func (e *Emitter) emitRead(lineNumber int, stmt *ast.Statement) {
	for _, v := range stmt.Vars {
		if v.Variable.ValueType() != token.TypeInteger {
			e.out.AddComment(fmt.Sprintf("TODO READ %s", v.Variable.Name))
			e.dataPos++
			continue
		}
		e.out.AddInstruction("MOV", fmt.Sprintf("#%s+%d., R1", dataTableLabel, 2*e.dataPos))
		e.out.AddInstruction("MOV", "(R1), R0")
		e.out.AddInstruction("MOV", fmt.Sprintf("R0, %s", v.Variable.DecoratedName()))
		e.dataPos++
	}
}

// emitRestore resets the cursor to the start of the program or to the
// first DATA item at or after a given line.
func (e *Emitter) emitRestore(lineNumber int, stmt *ast.Statement) {
	if !stmt.HasTarget {
		e.dataPos = 0
		return
	}
	e.dataPos = e.dataIndexAtLine(stmt.TargetLine)
}

// dataIndexAtLine returns the cursor position of the first DATA item
// belonging to a line at or after target.
func (e *Emitter) dataIndexAtLine(target int) int {
	pos := 0
	for _, line := range e.source.Lines {
		if line.Number >= target && line.Statement.Keyword.Tag == token.KeywordDATA {
			return pos
		}
		if line.Statement.Keyword.Tag == token.KeywordDATA {
			pos += len(line.Statement.Params)
		}
	}
	return pos
}

// emitDataTable writes the flat literal table the READ cursor indexes
// into; called once from the epilogue, between the STRINGS and VARIABLES
// sections (the data table is program-local storage, grounded in the
// same idiom as VARIABLES).
func (e *Emitter) emitDataTable() {
	if len(e.dataItems) == 0 {
		return
	}
	e.out.AddLabel(dataTableLabel)
	for _, item := range e.dataItems {
		if item.Kind == token.Number {
			e.out.AddInstruction(".WORD", fmt.Sprintf("%d.", int64(item.Value)))
		} else {
			e.out.AddInstruction(".WORD", fmt.Sprintf("#%s", e.stringLabel(item.Str)))
		}
	}
}
