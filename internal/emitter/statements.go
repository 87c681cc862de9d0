package emitter

import (
	"fmt"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// bodyEmitters is the fixed keyword -> body-emitter dispatch table (spec
// §4.4 "Body emission dispatches by statement keyword via a fixed
// table, analogous to the parser's").
var bodyEmitters map[token.Keyword]func(*Emitter, int, *ast.Statement)

func init() {
	bodyEmitters = map[token.Keyword]func(*Emitter, int, *ast.Statement){
		token.KeywordLET:     (*Emitter).emitLet,
		token.KeywordPRINT:   (*Emitter).emitPrint,
		token.KeywordINPUT:   (*Emitter).emitInput,
		token.KeywordFOR:     (*Emitter).emitFor,
		token.KeywordNEXT:    (*Emitter).emitNext,
		token.KeywordIF:      (*Emitter).emitIf,
		token.KeywordON:      (*Emitter).emitOn,
		token.KeywordGOTO:    (*Emitter).emitGoto,
		token.KeywordGOSUB:   (*Emitter).emitGosub,
		token.KeywordRETURN:  (*Emitter).emitReturn,
		token.KeywordDATA:    (*Emitter).emitData,
		token.KeywordREAD:    (*Emitter).emitRead,
		token.KeywordRESTORE: (*Emitter).emitRestore,
		token.KeywordPOKE:    (*Emitter).emitPoke,
		token.KeywordOUT:     (*Emitter).emitOut,
		token.KeywordDEF:     (*Emitter).emitDef,
		token.KeywordDIM:     (*Emitter).emitNoop,
		token.KeywordSTOP:    (*Emitter).emitHalt,
		token.KeywordEND:     (*Emitter).emitHalt,
		token.KeywordBEEP:    (*Emitter).emitBeep,
		token.KeywordCLS:     (*Emitter).emitCls,
		token.KeywordREM:     (*Emitter).emitNoop,
		token.KeywordTRON:    (*Emitter).emitHostIgnored,
		token.KeywordTROFF:   (*Emitter).emitHostIgnored,
		token.KeywordCLEAR:   (*Emitter).emitHostIgnored,
		token.KeywordWIDTH:   (*Emitter).emitHostIgnored,
		token.KeywordOPEN:    (*Emitter).emitHostIgnored,
		token.KeywordCLOSE:   (*Emitter).emitHostIgnored,
		token.KeywordKEY:     (*Emitter).emitHostIgnored,
		token.KeywordSAVE:    (*Emitter).emitHostIgnored,
		token.KeywordLOAD:    (*Emitter).emitHostIgnored,
		token.KeywordBSAVE:   (*Emitter).emitHostIgnored,
		token.KeywordBLOAD:   (*Emitter).emitHostIgnored,
		token.KeywordCSAVE:   (*Emitter).emitHostIgnored,
		token.KeywordCLOAD:   (*Emitter).emitHostIgnored,
		token.KeywordSCREEN:  (*Emitter).emitGraphicsTodo,
		token.KeywordLOCATE:  (*Emitter).emitGraphicsTodo,
		token.KeywordLINE:    (*Emitter).emitGraphicsTodo,
		token.KeywordCIRCLE:  (*Emitter).emitGraphicsTodo,
		token.KeywordPAINT:   (*Emitter).emitGraphicsTodo,
		token.KeywordPSET:    (*Emitter).emitGraphicsTodo,
		token.KeywordPRESET:  (*Emitter).emitGraphicsTodo,
		token.KeywordDRAW:    (*Emitter).emitGraphicsTodo,
		token.KeywordCOLOR:   (*Emitter).emitGraphicsTodo,
	}
}

func (e *Emitter) emitStatement(lineNumber int, stmt *ast.Statement) {
	if fn, ok := bodyEmitters[stmt.Keyword.Tag]; ok {
		fn(e, lineNumber, stmt)
	} else {
		e.out.AddComment(fmt.Sprintf("TODO %s", stmt.Keyword.Tag.String()))
	}
}

func (e *Emitter) emitNoop(int, *ast.Statement) {}

func (e *Emitter) emitHostIgnored(_ int, stmt *ast.Statement) {
	e.out.AddComment(fmt.Sprintf("%s statement is ignored", stmt.Keyword.Tag.String()))
}

func (e *Emitter) emitGraphicsTodo(_ int, stmt *ast.Statement) {
	e.out.AddComment(fmt.Sprintf("TODO %s", stmt.Keyword.Tag.String()))
}

func (e *Emitter) emitHalt(int, *ast.Statement) {
	e.out.AddInstruction("HALT", "")
}

func (e *Emitter) emitBeep(int, *ast.Statement) {
	e.out.AddInstruction("CALL", "BEEP")
}

func (e *Emitter) emitCls(int, *ast.Statement) {
	e.out.AddInstruction("CALL", "CLS")
}

// emitLet implements the assignment peephole shared by LET and FOR's
// initializer (spec §4.4 "Assignment peephole").
func (e *Emitter) emitLet(lineNumber int, stmt *ast.Statement) {
	if len(stmt.VarExprs) != 1 || len(stmt.Args) != 1 {
		return
	}
	e.emitAssign(stmt.VarExprs[0], stmt.Args[0])
}

func (e *Emitter) emitAssign(target ast.VariableExpr, rhs ast.Expression) {
	label := target.Variable.DecoratedName()
	if rhs.IsEmpty() {
		return
	}
	root := rhs.Nodes[rhs.Root]

	if len(target.Subscript) > 0 {
		// array element: compute the value generically, then store.
		e.emitExpr(&rhs)
		e.out.AddInstruction("MOV", fmt.Sprintf("R0, %s", label))
		return
	}

	switch {
	case root.ConstVal && root.VType == token.TypeString:
		e.out.AddInstruction("MOV", fmt.Sprintf("#%s,R0", e.stringLabel(root.StrValue)))
		e.out.AddInstruction("MOV", fmt.Sprintf("#%s,R1", label))
		e.out.AddInstruction("CALL", "STRCPY")

	case root.ConstVal && root.VType != token.TypeString:
		if root.NumValue == 0 {
			e.out.AddInstruction("CLR", label)
		} else {
			e.out.AddInstruction("MOV", fmt.Sprintf("#%s., %s", formatInt(root.NumValue), label))
		}

	default:
		if delta, mnem, ok := selfIncrementDelta(rhs, root, target.Variable.Name); ok {
			if delta.NumValue == 1 {
				if mnem == "ADD" {
					e.out.AddInstruction("INC", label)
				} else {
					e.out.AddInstruction("DEC", label)
				}
			} else {
				e.out.AddInstruction(mnem, fmt.Sprintf("#%s., %s", formatInt(delta.NumValue), label))
			}
			return
		}
		e.emitExpr(&rhs)
		e.out.AddInstruction("MOV", fmt.Sprintf("R0, %s", label))
	}
}

// selfIncrementDelta reports whether root is `var +/- constant` where
// var is the same variable being assigned, the shape spec §4.4 and §8
// scenario S4 name explicitly ("LET I% = I% + 1" -> "INC I%ref").
func selfIncrementDelta(expr ast.Expression, root ast.Node, varName string) (ast.Node, string, bool) {
	if root.Left == -1 || root.Right == -1 {
		return ast.Node{}, "", false
	}
	mnem := ""
	switch root.Tok.Text {
	case "+":
		mnem = "ADD"
	case "-":
		mnem = "SUB"
	default:
		return ast.Node{}, "", false
	}
	left := expr.Nodes[root.Left]
	right := expr.Nodes[root.Right]
	if left.Tok.Kind != token.Identifier || ast.CanonicalName(left.Tok.Str) != varName {
		return ast.Node{}, "", false
	}
	if !right.ConstVal || right.VType == token.TypeString {
		return ast.Node{}, "", false
	}
	return right, mnem, true
}

// emitPoke lowers POKE addr, val via the self-modifying `MOV` idiom
// spec §4.4 "PEEK/POKE" requires: addr and val each patch one immediate
// slot of a template instruction, which is then left to run as written.
func (e *Emitter) emitPoke(lineNumber int, stmt *ast.Statement) {
	if len(stmt.Args) != 2 {
		return
	}
	patchLabel := e.nextLabel()

	e.emitExpr(&stmt.Args[0])
	e.out.AddInstruction("MOV", fmt.Sprintf("R0, @#%s+2", patchLabel))
	e.emitExpr(&stmt.Args[1])
	e.out.AddInstruction("MOV", fmt.Sprintf("R0, @#%s+4", patchLabel))

	e.out.AddLabel(patchLabel)
	e.out.AddInstruction("MOV", "#0, #0")
}

// emitOut is an acknowledged emission gap, same as the original
// compiler's GenerateOut: OUT has no runtime-library counterpart in
// scope (spec §1), so it is left as a TODO marker.
func (e *Emitter) emitOut(_ int, stmt *ast.Statement) {
	e.out.AddComment("TODO OUT")
}

func (e *Emitter) emitGoto(lineNumber int, stmt *ast.Statement) {
	e.out.AddInstruction("JMP", fmt.Sprintf("L%d", stmt.TargetLine))
}

func (e *Emitter) emitGosub(lineNumber int, stmt *ast.Statement) {
	e.out.AddInstruction("CALL", fmt.Sprintf("L%d", stmt.TargetLine))
}

func (e *Emitter) emitReturn(int, *ast.Statement) {
	e.out.AddInstruction("RETURN", "")
}

func (e *Emitter) emitDef(lineNumber int, stmt *ast.Statement) {
	if !stmt.HasIdent {
		return
	}
	if stmt.DefFnOrUsr {
		if len(stmt.Args) == 1 {
			e.emitExpr(&stmt.Args[0])
		}
		e.out.AddInstruction("CALL", "@USRVEC")
		return
	}
	label := decorate(stmt.Ident.Str)
	e.out.AddLabel(label)
	if len(stmt.Args) == 1 {
		e.emitExpr(&stmt.Args[0])
	}
	e.out.AddInstruction("RETURN", "")
}
