package validator

import (
	"strings"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/sourceerr"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// validateExpr runs type inference and constant folding over an entire
// expression tree, post-order (spec §4.3 "Expression value-type
// inference and constant folding").
func (v *Validator) validateExpr(lineNumber int, expr *ast.Expression) {
	if expr.IsEmpty() {
		return
	}
	v.validateNode(lineNumber, expr, expr.Root)
}

func (v *Validator) validateNode(lineNumber int, expr *ast.Expression, idx int) {
	node := &expr.Nodes[idx]

	switch {
	case node.Tok.Kind == token.Number:
		node.VType = node.Tok.VType
		node.ConstVal = true
		node.NumValue = node.Tok.Value

	case node.Tok.Kind == token.String:
		node.VType = token.TypeString
		node.ConstVal = true
		node.StrValue = node.Tok.Str
		if node.StrValue != "" {
			v.source.RegisterString(node.StrValue)
		}

	case node.Tok.Kind == token.Keyword && node.Tok.Tag.IsFunction():
		v.validateFunctionNode(lineNumber, expr, idx)

	case node.Tok.Kind == token.Identifier:
		v.validateIdentifierNode(lineNumber, expr, idx)

	case node.Left == -1 && node.Right != -1:
		v.validateNode(lineNumber, expr, node.Right)
		v.validateUnary(lineNumber, expr, idx)

	case node.Left != -1 && node.Right != -1:
		v.validateNode(lineNumber, expr, node.Left)
		v.validateNode(lineNumber, expr, node.Right)
		v.validateBinary(lineNumber, expr, idx)

	default:
		v.errors.Errorf(sourceerr.Type, lineNumber, "Malformed expression node")
		node.VType = token.TypeInteger
	}
}

func (v *Validator) validateIdentifierNode(lineNumber int, expr *ast.Expression, idx int) {
	node := &expr.Nodes[idx]
	name := ast.CanonicalName(node.Tok.Str)

	if strings.HasPrefix(name, "FN") {
		node.VType = ast.Variable{Name: name}.ValueType()
	} else {
		registered, _ := v.source.RegisterVariable(name, nil)
		node.VType = registered.ValueType()
	}
	node.ConstVal = false

	for i := range node.Args {
		v.validateExpr(lineNumber, &node.Args[i])
	}
}

func (v *Validator) validateUnary(lineNumber int, expr *ast.Expression, idx int) {
	node := &expr.Nodes[idx]
	operand := expr.Nodes[node.Right]

	if node.Tok.Kind == token.Keyword && node.Tok.Tag == token.KeywordNOT {
		if operand.VType == token.TypeString {
			v.errors.Errorf(sourceerr.Type, lineNumber, "Operation 'NOT' not applicable to strings")
			node.VType = token.TypeInteger
			return
		}
		node.VType = token.TypeInteger
		node.ConstVal = operand.ConstVal
		if node.ConstVal {
			node.NumValue = float64(bitwiseNot(int32(operand.NumValue)))
		}
		return
	}

	// unary + / -
	if operand.VType == token.TypeString {
		v.errors.Errorf(sourceerr.Type, lineNumber, "Operation '%s' not applicable to strings", node.Tok.Text)
		node.VType = token.TypeInteger
		return
	}
	node.VType = operand.VType
	node.ConstVal = operand.ConstVal
	if node.ConstVal {
		if node.Tok.Text == "-" {
			node.NumValue = -operand.NumValue
		} else {
			node.NumValue = operand.NumValue
		}
	}
}

func bitwiseNot(n int32) int32 {
	return ^n
}
