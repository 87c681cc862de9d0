package emitter

import (
	"fmt"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// emitExpr leaves the value of expr in R0 (spec §4.4 "the value of any
// expression is left in R0").
func (e *Emitter) emitExpr(expr *ast.Expression) {
	if expr.IsEmpty() {
		return
	}
	e.emitNode(expr, expr.Root)
}

func (e *Emitter) emitNode(expr *ast.Expression, idx int) {
	node := &expr.Nodes[idx]

	switch {
	case node.ConstVal && node.VType != token.TypeString:
		e.emitConstNumber(node.NumValue)

	case node.ConstVal && node.VType == token.TypeString:
		e.out.AddInstruction("MOV", fmt.Sprintf("#%s, R0", e.stringLabel(node.StrValue)))

	case node.Tok.Kind == token.Identifier:
		e.out.AddInstruction("MOV", fmt.Sprintf("%s, R0", decorate(node.Tok.Str)))

	case node.Tok.Kind == token.Keyword && node.Tok.Tag.IsFunction():
		e.emitFunctionCall(expr, node)

	case node.Left == -1 && node.Right != -1:
		e.emitUnary(expr, node)

	case node.Left != -1 && node.Right != -1:
		e.emitBinary(expr, node)

	default:
		e.out.AddComment("TODO unsupported expression node")
	}
}

func (e *Emitter) emitConstNumber(n float64) {
	if n == 0 {
		e.out.AddInstruction("CLR", "R0")
		return
	}
	e.out.AddInstruction("MOV", fmt.Sprintf("#%s., R0", formatInt(n)))
}

func formatInt(n float64) string {
	return fmt.Sprintf("%d", int64(n))
}

func (e *Emitter) stringLabel(s string) string {
	idx := e.source.RegisterString(s)
	return fmt.Sprintf("ST%d", idx)
}

func (e *Emitter) emitUnary(expr *ast.Expression, node *ast.Node) {
	operand := node.Right
	if node.Tok.Kind == token.Keyword && node.Tok.Tag == token.KeywordNOT {
		e.emitNode(expr, operand)
		e.out.AddInstruction("COM", "R0")
		return
	}
	switch node.Tok.Text {
	case "-":
		e.emitNode(expr, operand)
		e.out.AddInstruction("NEG", "R0")
	default: // unary +
		e.emitNode(expr, operand)
	}
}

// operandPeephole describes the right-operand peephole for commutative
// +/- when the right side is a small integer constant or an integer
// variable reference (spec §4.4 "Binary operator emitter pattern").
func (e *Emitter) operandPeephole(opText string, right *ast.Node) bool {
	mnemInc, mnemDec := "INC", "DEC"
	addMnem, subMnem := "ADD", "SUB"
	if opText != "+" && opText != "-" {
		return false
	}

	if right.ConstVal && right.VType != token.TypeString {
		n := right.NumValue
		switch {
		case n == 0:
			return true
		case n == 1:
			if opText == "+" {
				e.out.AddInstruction(mnemInc, "R0")
			} else {
				e.out.AddInstruction(mnemDec, "R0")
			}
			return true
		default:
			mnem := addMnem
			if opText == "-" {
				mnem = subMnem
			}
			e.out.AddInstruction(mnem, fmt.Sprintf("#%s., R0", formatInt(n)))
			return true
		}
	}

	if right.Tok.Kind == token.Identifier && right.VType == token.TypeInteger {
		mnem := addMnem
		if opText == "-" {
			mnem = subMnem
		}
		e.out.AddInstruction(mnem, fmt.Sprintf("%s, R0", decorate(right.Tok.Str)))
		return true
	}

	return false
}

func (e *Emitter) emitBinary(expr *ast.Expression, node *ast.Node) {
	left := &expr.Nodes[node.Left]
	right := &expr.Nodes[node.Right]

	e.emitNode(expr, node.Left)

	opText := operatorText(node.Tok)

	if e.operandPeephole(opText, right) {
		return
	}

	e.out.AddInstruction("MOV", "R0,-(SP)")
	e.emitNode(expr, node.Right)
	e.out.AddInstruction("MOV", "R0,R1")
	e.out.AddInstruction("MOV", "(SP)+,R0")
	e.applyOperator(opText, node, left)
}

// applyOperator emits the instruction combining R0 (left) and R1 (right)
// once both operands have been loaded (spec §4.4 step 3).
func (e *Emitter) applyOperator(opText string, node *ast.Node, left *ast.Node) {
	switch opText {
	case "+":
		e.out.AddInstruction("ADD", "R1,R0")
	case "-":
		e.out.AddInstruction("SUB", "R1,R0")
	case "*":
		e.out.AddInstruction("MUL", "R1,R0")
	case "/":
		e.out.AddInstruction("DIV", "R1,R0")
	case "\\":
		e.out.AddInstruction("DIV", "R1,R0")
	case "MOD":
		e.out.AddInstruction("DIV", "R1,R0")
		e.out.AddInstruction("MOV", "R1,R0")
	case "AND":
		e.out.AddInstruction("AND", "R1,R0")
	case "OR":
		e.out.AddInstruction("BIS", "R1,R0")
	case "XOR":
		e.out.AddInstruction("XOR", "R1,R0")
	case "EQV":
		e.out.AddInstruction("XOR", "R1,R0")
		e.out.AddInstruction("COM", "R0")
	case "IMP":
		e.out.AddInstruction("COM", "R0")
		e.out.AddInstruction("BIS", "R1,R0")
	case "=", "<>", "<", ">", "<=", ">=":
		e.emitComparison(opText)
	default:
		e.out.AddComment(fmt.Sprintf("TODO operator %s", opText))
	}
}

// emitComparison materializes a -1/0 truth value in R0 after a CMP
// against R1 (SPEC_FULL.md Open Question decision: comparisons always
// materialize a truth value, even outside IF, rather than leaving flags
// for an undefined caller convention).
func (e *Emitter) emitComparison(opText string) {
	e.out.AddInstruction("CMP", "R0,R1")
	trueLabel := e.nextLabel()
	doneLabel := e.nextLabel()
	branch := comparisonBranch(opText)
	e.out.AddInstruction(branch, trueLabel)
	e.out.AddInstruction("CLR", "R0")
	e.out.AddInstruction("BR", doneLabel)
	e.out.AddLabel(trueLabel)
	e.out.AddInstruction("MOV", "#-1, R0")
	e.out.AddLabel(doneLabel)
}

// comparisonBranch returns the branch mnemonic that jumps when `R0 opText R1`
// is true, given CMP R0,R1 sets flags for R0-R1.
func comparisonBranch(opText string) string {
	switch opText {
	case "=":
		return "BEQ"
	case "<>":
		return "BNE"
	case "<":
		return "BLT"
	case ">":
		return "BGT"
	case "<=":
		return "BLE"
	case ">=":
		return "BGE"
	}
	return "BEQ"
}

func operatorText(tok token.Token) string {
	if tok.Kind == token.Keyword {
		return tok.Tag.String()
	}
	return tok.Text
}

func decorate(name string) string {
	return ast.Variable{Name: ast.CanonicalName(name)}.DecoratedName()
}
