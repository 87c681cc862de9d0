// Package validator implements the single linear semantic pass over a
// parsed program (spec §4.3): symbol interning, literal string interning,
// expression type inference and constant folding, FOR/NEXT pairing,
// control-flow target validation, PRINT constant-string merging, and
// parameter-range checks. Grounded on original_source/validator.cpp's
// fixed keyword/operator/function dispatch tables, translated to Go
// function-value maps the way the teacher's internal/semantic package
// dispatches AST node kinds (a switch per concern rather than OOP
// double-dispatch).
package validator

import (
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/sourceerr"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// forEntry is one open FOR descriptor on the validator's pairing stack
// (spec §3 GLOSSARY "FOR/NEXT stack").
type forEntry struct {
	forLine  int
	variable string
}

// Validator walks a parsed Source and mutates it in place: every
// expression node gets a value type and (when applicable) a folded
// constant, every identifier is registered in the symbol table, and
// every statement's cross-references (FOR/NEXT, GOTO/GOSUB/RESTORE/ON/IF
// targets) are checked and linked.
type Validator struct {
	source *ast.Source
	errors sourceerr.Collector

	forStack []forEntry
}

// Validate runs the full semantic pass and returns the diagnostics
// collector; errors are also reflected as per-line HasError flags on
// source.Lines.
func Validate(source *ast.Source) *sourceerr.Collector {
	v := &Validator{source: source}

	for i := range source.Lines {
		v.validateLine(&source.Lines[i])
	}

	for _, open := range v.forStack {
		v.errors.Errorf(sourceerr.Symbol, open.forLine, "FOR without matching NEXT")
	}

	return &v.errors
}

func (v *Validator) validateLine(line *ast.Line) {
	if v.validateStatement(line.Number, &line.Statement) {
		line.HasError = true
	}
}

// validateStatement validates one statement (top-level or a THEN/ELSE
// payload) and returns whether it introduced an error.
func (v *Validator) validateStatement(lineNumber int, stmt *ast.Statement) bool {
	before := v.errors.Count()

	switch stmt.Keyword.Tag {
	case token.KeywordLET:
		v.validateLet(lineNumber, stmt)
	case token.KeywordPRINT:
		v.rewritePrintConstants(lineNumber, stmt)
		v.validateArgsAsExpressions(lineNumber, stmt)
	case token.KeywordINPUT:
		v.validateInput(lineNumber, stmt)
	case token.KeywordDIM:
		v.validateDim(lineNumber, stmt)
	case token.KeywordFOR:
		v.validateFor(lineNumber, stmt)
	case token.KeywordNEXT:
		v.validateNext(lineNumber, stmt)
	case token.KeywordIF:
		v.validateIf(lineNumber, stmt)
	case token.KeywordON:
		v.validateOn(lineNumber, stmt)
	case token.KeywordGOTO, token.KeywordGOSUB:
		v.checkLineTarget(lineNumber, stmt.TargetLine)
	case token.KeywordRESTORE:
		if stmt.HasTarget {
			v.checkLineTarget(lineNumber, stmt.TargetLine)
		}
	case token.KeywordDATA:
		v.validateData(lineNumber, stmt)
	case token.KeywordREAD:
		v.validateVarRefs(lineNumber, stmt.Vars)
	case token.KeywordPOKE, token.KeywordOUT:
		v.validateArgsAsExpressions(lineNumber, stmt)
		if len(stmt.Args) == 2 {
			v.checkRange(lineNumber, "OUT/POKE port or address", stmt.Args[0], 0, 65535)
		}
	case token.KeywordDEF:
		v.validateDef(lineNumber, stmt)
	case token.KeywordCOLOR:
		v.validateArgsAsExpressions(lineNumber, stmt)
		v.checkArgsRange(lineNumber, stmt.Args, 0, 8)
	case token.KeywordSCREEN, token.KeywordLOCATE, token.KeywordLINE,
		token.KeywordCIRCLE, token.KeywordPAINT, token.KeywordPSET,
		token.KeywordPRESET, token.KeywordDRAW:
		v.validateArgsAsExpressions(lineNumber, stmt)
		v.checkArgsRange(lineNumber, stmt.Args, 0, 255)
	case token.KeywordKEY:
		v.validateArgsAsExpressions(lineNumber, stmt)
		v.checkArgsRange(lineNumber, stmt.Args, 1, 10)
	case token.KeywordWIDTH, token.KeywordOPEN, token.KeywordCLOSE,
		token.KeywordSAVE, token.KeywordLOAD, token.KeywordBSAVE,
		token.KeywordBLOAD, token.KeywordCSAVE, token.KeywordCLOAD:
		v.validateArgsAsExpressions(lineNumber, stmt)
	case token.KeywordREM, token.KeywordRETURN, token.KeywordSTOP,
		token.KeywordEND, token.KeywordBEEP, token.KeywordCLS,
		token.KeywordTRON, token.KeywordTROFF, token.KeywordCLEAR:
		// no operands to validate
	default:
		v.validateArgsAsExpressions(lineNumber, stmt)
	}

	if stmt.Then != nil {
		if v.validateStatement(lineNumber, stmt.Then) {
			// error already recorded against lineNumber by the recursive call
		}
	}
	if stmt.Else != nil {
		v.validateStatement(lineNumber, stmt.Else)
	}

	return v.errors.Count() > before
}

func (v *Validator) validateArgsAsExpressions(lineNumber int, stmt *ast.Statement) {
	for i := range stmt.Args {
		v.validateExpr(lineNumber, &stmt.Args[i])
	}
}

func (v *Validator) validateVarRefs(lineNumber int, vars []ast.VariableExpr) {
	for i := range vars {
		name := vars[i].Variable.Name
		registered, _ := v.source.RegisterVariable(name, vars[i].Variable.Extents)
		vars[i].Variable = registered
		for j := range vars[i].Subscript {
			v.validateExpr(lineNumber, &vars[i].Subscript[j])
		}
	}
}

func (v *Validator) validateLet(lineNumber int, stmt *ast.Statement) {
	if len(stmt.VarExprs) != 1 || len(stmt.Args) != 1 {
		return
	}
	target := &stmt.VarExprs[0]
	existing, wasNew := v.source.RegisterVariable(target.Variable.Name, target.Variable.Extents)
	if !wasNew && len(target.Variable.Extents) > 0 && len(existing.Extents) > 0 {
		// re-declaration with the same shape is fine; DIM owns redefinition checks
	}
	target.Variable = existing
	for i := range target.Subscript {
		v.validateExpr(lineNumber, &target.Subscript[i])
	}
	v.validateExpr(lineNumber, &stmt.Args[0])
}

func (v *Validator) validateDim(lineNumber int, stmt *ast.Statement) {
	for i := range stmt.Vars {
		name := stmt.Vars[i].Variable.Name
		if v.source.IsVariableRegistered(name) {
			if existing, _ := v.source.Variable(name); existing.IsArray() {
				v.errors.Errorf(sourceerr.Symbol, lineNumber, "Variable redefinition: %s", name)
				continue
			}
		}
		registered, _ := v.source.RegisterVariable(name, stmt.Vars[i].Variable.Extents)
		stmt.Vars[i].Variable = registered
		for j := range stmt.Vars[i].Subscript {
			v.validateExpr(lineNumber, &stmt.Vars[i].Subscript[j])
		}
	}
}

func (v *Validator) validateInput(lineNumber int, stmt *ast.Statement) {
	if len(stmt.Params) == 1 {
		v.source.RegisterString(stmt.Params[0].Str)
	}
	v.validateVarRefs(lineNumber, stmt.Vars)
}

func (v *Validator) validateData(lineNumber int, stmt *ast.Statement) {
	for _, tok := range stmt.Params {
		if tok.Kind == token.String {
			v.source.RegisterString(tok.Str)
		}
	}
}

func (v *Validator) validateDef(lineNumber int, stmt *ast.Statement) {
	if len(stmt.Args) == 1 {
		v.validateExpr(lineNumber, &stmt.Args[0])
	}
}

func (v *Validator) checkLineTarget(lineNumber, target int) {
	if !v.source.HasLineNumber(target) {
		v.errors.Errorf(sourceerr.Target, lineNumber, "Invalid line number %d", target)
	}
}

func (v *Validator) checkArgsRange(lineNumber int, args []ast.Expression, lo, hi int) {
	for i := range args {
		v.checkRange(lineNumber, "parameter", args[i], lo, hi)
	}
}

func (v *Validator) checkRange(lineNumber int, what string, expr ast.Expression, lo, hi int) {
	if expr.IsEmpty() || !expr.IsConstExpression() {
		return
	}
	root := expr.Nodes[expr.Root]
	if root.VType == token.TypeString {
		return
	}
	n := int(root.NumValue)
	if n < lo || n > hi {
		v.errors.Errorf(sourceerr.Range, lineNumber, "Parameter value (%d) is out of range %d..%d", n, lo, hi)
	}
}
