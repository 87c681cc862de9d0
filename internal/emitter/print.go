package emitter

import (
	"fmt"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// emitPrint emits each argument via the per-argument PRINT emitter (spec
// §4.4 "PRINT"), appending WRCRLF unless the statement ends in `;`.
func (e *Emitter) emitPrint(lineNumber int, stmt *ast.Statement) {
	for i := range stmt.Args {
		e.emitPrintArg(&stmt.Args[i])
	}
	if !stmt.NoCRLF {
		e.out.AddInstruction("CALL", "WRCRLF")
	}
}

func (e *Emitter) emitPrintArg(expr *ast.Expression) {
	if expr.IsEmpty() {
		return
	}
	root := &expr.Nodes[expr.Root]

	if root.Tok.Kind == token.Keyword {
		switch root.Tok.Tag {
		case token.KeywordAT:
			if len(root.Args) == 2 {
				e.emitExpr(&root.Args[0])
				e.out.AddInstruction("MOV", "R0,-(SP)")
				e.emitExpr(&root.Args[1])
				e.out.AddInstruction("MOV", "R0,R1")
				e.out.AddInstruction("MOV", "(SP)+,R0")
				e.out.AddInstruction("CALL", "PRAT")
			}
			return
		case token.KeywordTAB:
			if len(root.Args) == 1 {
				e.emitExpr(&root.Args[0])
				e.out.AddInstruction("CALL", "WRTAB")
			}
			return
		case token.KeywordSPC:
			if len(root.Args) == 1 {
				arg := root.Args[0]
				if arg.IsConstExpression() && arg.Nodes[arg.Root].NumValue == 0 {
					return
				}
				e.emitExpr(&arg)
				e.out.AddInstruction("CALL", "WRSPC")
			}
			return
		}
	}

	switch root.VType {
	case token.TypeString:
		switch {
		case root.ConstVal && len(root.StrValue) == 1:
			e.out.AddInstruction("MOV", fmt.Sprintf("#%d., R0", root.StrValue[0]))
			e.out.AddInstruction("CALL", "WRCHR")
		case root.ConstVal:
			e.out.AddInstruction("MOV", fmt.Sprintf("#%s, R0", e.stringLabel(root.StrValue)))
			e.out.AddInstruction("CALL", "WRSTR")
		case root.Tok.Kind == token.Identifier:
			e.out.AddInstruction("MOV", fmt.Sprintf("#%s, R0", decorate(root.Tok.Str)))
			e.out.AddInstruction("CALL", "WRSTR")
		default:
			e.emitExpr(expr)
			e.out.AddInstruction("CALL", "WRSTR")
		}
	case token.TypeInteger:
		e.emitExpr(expr)
		e.out.AddInstruction("CALL", "WRINT")
	default:
		e.emitExpr(expr)
		e.out.AddInstruction("CALL", "WRSNG")
	}
}

// emitInput looks up an optional leading prompt string and reads each
// target variable (spec §4.4 "INPUT"); only the integer path is
// implemented, matching the emit-gap policy for the others.
func (e *Emitter) emitInput(lineNumber int, stmt *ast.Statement) {
	if len(stmt.Params) == 1 {
		e.out.AddInstruction("MOV", fmt.Sprintf("#%s, R0", e.stringLabel(stmt.Params[0].Str)))
		e.out.AddInstruction("CALL", "WRSTR")
	}
	for _, v := range stmt.Vars {
		if v.Variable.ValueType() != token.TypeInteger {
			e.out.AddComment(fmt.Sprintf("TODO INPUT %s", v.Variable.Name))
			continue
		}
		e.out.AddInstruction("CALL", "READI")
		e.out.AddInstruction("MOV", fmt.Sprintf("R0, %s", v.Variable.DecoratedName()))
	}
}
