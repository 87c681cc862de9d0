package validator

import (
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/sourceerr"
)

// validateFor registers the loop variable, validates the bound
// expressions, and pushes a pairing-stack entry (spec §4.3 "FOR/NEXT
// pairing").
func (v *Validator) validateFor(lineNumber int, stmt *ast.Statement) {
	if !stmt.HasIdent {
		return
	}
	name := ast.CanonicalName(stmt.Ident.Str)
	v.source.RegisterVariable(name, nil)
	v.validateArgsAsExpressions(lineNumber, stmt)

	v.forStack = append(v.forStack, forEntry{forLine: lineNumber, variable: name})
}

// validateNext pops one pairing-stack entry per named variable (or the
// stack top, for a bare NEXT), linking FOR and NEXT statement records in
// both directions.
func (v *Validator) validateNext(lineNumber int, stmt *ast.Statement) {
	names := stmt.Vars
	if len(names) == 0 {
		names = []ast.VariableExpr{{}}
	}
	for _, want := range names {
		if len(v.forStack) == 0 {
			v.errors.Errorf(sourceerr.Symbol, lineNumber, "NEXT without FOR")
			return
		}
		top := v.forStack[len(v.forStack)-1]
		v.forStack = v.forStack[:len(v.forStack)-1]

		if want.Variable.Name != "" && want.Variable.Name != top.variable {
			v.errors.Errorf(sourceerr.Symbol, lineNumber,
				"NEXT variable expected %s, found %s", top.variable, want.Variable.Name)
			continue
		}

		forLine := v.source.LineByNumber(top.forLine)
		nextLine := v.source.LineByNumber(lineNumber)
		if forLine != nil {
			forLine.Statement.ForNextLine = lineNumber
		}
		if nextLine != nil {
			nextLine.Statement.NextForLine = top.forLine
		}
	}
}

func (v *Validator) validateIf(lineNumber int, stmt *ast.Statement) {
	v.validateArgsAsExpressions(lineNumber, stmt)
	for _, p := range stmt.Params {
		v.checkLineTarget(lineNumber, int(p.Value))
	}
}

func (v *Validator) validateOn(lineNumber int, stmt *ast.Statement) {
	v.validateArgsAsExpressions(lineNumber, stmt)
	for _, p := range stmt.Params {
		v.checkLineTarget(lineNumber, int(p.Value))
	}
}
