package emitter

import (
	"fmt"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
)

// emitFor implements the FOR/NEXT self-modifying-code protocol (spec
// §4.4 "FOR/NEXT protocol"). The loop-head label is anchored at the FOR
// line itself so NEXT can JMP back to it. A constant TO bound skips the
// patch entirely and is embedded straight into the comparison, the same
// fast path the STEP value does not get (STEP's ADD is always patched).
func (e *Emitter) emitFor(lineNumber int, stmt *ast.Statement) {
	if !stmt.HasIdent || len(stmt.Args) < 2 {
		return
	}
	target := ast.VariableExpr{Variable: ast.Variable{Name: ast.CanonicalName(stmt.Ident.Str)}}
	e.emitAssign(target, stmt.Args[0])

	label := target.Variable.DecoratedName()
	headLabel := fmt.Sprintf("N%d", lineNumber)
	exitLabel := fmt.Sprintf("X%d", lineNumber)

	toValue := "#0"
	if stmt.Args[1].IsConstExpression() {
		toValue = fmt.Sprintf("#%s.", formatInt(stmt.Args[1].Nodes[stmt.Args[1].Root].NumValue))
	} else {
		e.out.AddComment("TO bound patched into the comparison below")
		e.emitExpr(&stmt.Args[1])
		e.out.AddInstruction("MOV", fmt.Sprintf("R0, @#%s+2", headLabel))
	}

	if len(stmt.Args) == 3 && stmt.ForNextLine != 0 {
		stepLabel := fmt.Sprintf("L%d", stmt.ForNextLine)
		e.out.AddComment("STEP patched into the NEXT line's ADD below")
		e.emitExpr(&stmt.Args[2])
		e.out.AddInstruction("MOV", fmt.Sprintf("R0, @#%s+2", stepLabel))
	}

	e.out.AddLabel(headLabel)
	e.out.AddInstruction("CMP", fmt.Sprintf("%s, %s", toValue, label))
	e.out.AddInstruction("BHIS", e.successorLabel(lineNumber))
	if stmt.ForNextLine != 0 {
		e.out.AddInstruction("JMP", exitLabel)
	}
}

// emitNext closes the loop: increment (or step) the loop variable and
// jump back to the paired FOR's head label. When the FOR carried a STEP,
// the ADD's immediate was already patched at FOR time (spec §4.4
// "FOR/NEXT protocol"), so the ADD must be the first instruction emitted
// here for the L<nextline>+2 offset to land on its operand.
func (e *Emitter) emitNext(lineNumber int, stmt *ast.Statement) {
	if stmt.NextForLine == 0 {
		return
	}
	forLine := e.source.LineByNumber(stmt.NextForLine)
	if forLine == nil {
		return
	}
	forStmt := &forLine.Statement
	if !forStmt.HasIdent {
		return
	}
	varName := ast.CanonicalName(forStmt.Ident.Str)
	label := ast.Variable{Name: varName}.DecoratedName()

	if len(forStmt.Args) == 3 {
		e.out.AddInstruction("ADD", fmt.Sprintf("#0, %s", label))
	} else {
		e.out.AddInstruction("INC", label)
	}
	e.out.AddInstruction("JMP", fmt.Sprintf("N%d", stmt.NextForLine))
	e.out.AddLabel(fmt.Sprintf("X%d", stmt.NextForLine))
}

// emitIf lowers single- and two-branch IF/THEN/ELSE (spec §4.4 "IF
// lowering"). A constant condition emits only the taken direction.
func (e *Emitter) emitIf(lineNumber int, stmt *ast.Statement) {
	if len(stmt.Args) != 1 {
		return
	}
	cond := stmt.Args[0]
	thenLabel, thenStmt, elseLabel, elseStmt, hasElse := ifTargets(stmt)

	if cond.IsConstExpression() {
		taken := cond.Nodes[cond.Root].NumValue != 0
		if taken {
			e.emitBranchTarget(lineNumber, thenLabel, thenStmt)
		} else if hasElse {
			e.emitBranchTarget(lineNumber, elseLabel, elseStmt)
		}
		return
	}

	e.emitExpr(&cond)
	e.out.AddInstruction("TST", "R0")

	if !hasElse {
		e.out.AddInstruction("BEQ", e.successorLabel(lineNumber))
		e.emitBranchTarget(lineNumber, thenLabel, thenStmt)
		return
	}

	takenLabel := e.nextLabel()
	e.out.AddInstruction("BEQ", takenLabel)
	e.emitBranchTarget(lineNumber, thenLabel, thenStmt)
	e.out.AddInstruction("JMP", e.successorLabel(lineNumber))
	e.out.AddLabel(takenLabel)
	e.emitBranchTarget(lineNumber, elseLabel, elseStmt)
}

func (e *Emitter) emitBranchTarget(lineNumber int, label string, stmt *ast.Statement) {
	if stmt != nil {
		e.emitStatement(lineNumber, stmt)
		return
	}
	if label != "" {
		e.out.AddInstruction("JMP", label)
	}
}

// ifTargets resolves THEN/ELSE into either an emittable nested statement
// or a bare line-number label, consuming stmt.Params in the order the
// parser appended them (THEN's bare target first, then ELSE's).
func ifTargets(stmt *ast.Statement) (thenLabel string, thenStmt *ast.Statement, elseLabel string, elseStmt *ast.Statement, hasElse bool) {
	paramIdx := 0
	if stmt.Then != nil {
		thenStmt = stmt.Then
	} else if paramIdx < len(stmt.Params) {
		thenLabel = fmt.Sprintf("L%d", int(stmt.Params[paramIdx].Value))
		paramIdx++
	}

	if stmt.Else != nil {
		elseStmt = stmt.Else
		hasElse = true
	} else if paramIdx < len(stmt.Params) {
		elseLabel = fmt.Sprintf("L%d", int(stmt.Params[paramIdx].Value))
		hasElse = true
	}
	return
}

// emitOn emits a bounds-checked dispatch table (spec §4.4 "ON ...
// GOTO/GOSUB").
func (e *Emitter) emitOn(lineNumber int, stmt *ast.Statement) {
	if len(stmt.Args) != 1 {
		return
	}
	e.emitExpr(&stmt.Args[0])
	tableLabel := e.nextLabel()

	e.out.AddInstruction("DEC", "R0")
	e.out.AddInstruction("BLT", e.successorLabel(lineNumber))
	e.out.AddInstruction("CMP", fmt.Sprintf("R0, #%d.", len(stmt.Params)))
	e.out.AddInstruction("BHIS", e.successorLabel(lineNumber))
	e.out.AddInstruction("ASL", "R0")
	if stmt.GotoGosub {
		e.out.AddInstruction("CALL", fmt.Sprintf("@%s(R0)", tableLabel))
		e.out.AddInstruction("BR", e.successorLabel(lineNumber))
	} else {
		e.out.AddInstruction("JMP", fmt.Sprintf("@%s(R0)", tableLabel))
	}
	e.out.AddLabel(tableLabel)
	for _, p := range stmt.Params {
		e.out.AddInstruction(".WORD", fmt.Sprintf("L%d", int(p.Value)))
	}
}
