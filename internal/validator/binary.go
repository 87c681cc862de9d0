package validator

import (
	"math"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/sourceerr"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// opResult is what a binary operator handler computes for one node:
// its value type, whether the fold succeeded, and (if so) the folded
// numeric or string value.
type opResult struct {
	vtype  token.ValueType
	fold   bool
	num    float64
	str    string
}

type opHandler func(v *Validator, lineNumber int, left, right *ast.Node) opResult

// opTable is the fixed operator-text dispatch table (spec §9 "Dispatch
// tables"): symbol operators keyed by text, matched case-sensitively
// since BASIC symbol operators have no case.
var opTable = map[string]opHandler{
	"+":  opPlus,
	"-":  opMinus,
	"*":  opMul,
	"/":  opDiv,
	"\\": opIntDiv,
	"^":  opPower,
	"=":  opCompareFactory(func(c int) bool { return c == 0 }),
	"<>": opCompareFactory(func(c int) bool { return c != 0 }),
	"<":  opCompareFactory(func(c int) bool { return c < 0 }),
	">":  opCompareFactory(func(c int) bool { return c > 0 }),
	"<=": opCompareFactory(func(c int) bool { return c <= 0 }),
	">=": opCompareFactory(func(c int) bool { return c >= 0 }),
}

// keywordOpTable is the dispatch table for reserved-word operators,
// matched by tag rather than text (spec §9).
var keywordOpTable = map[token.Keyword]opHandler{
	token.KeywordMOD: opMod,
	token.KeywordAND: opBitwiseFactory(func(a, b int32) int32 { return a & b }),
	token.KeywordOR:  opBitwiseFactory(func(a, b int32) int32 { return a | b }),
	token.KeywordXOR: opBitwiseFactory(func(a, b int32) int32 { return a ^ b }),
	token.KeywordEQV: opBitwiseFactory(func(a, b int32) int32 { return ^(a ^ b) }),
	token.KeywordIMP: opBitwiseFactory(func(a, b int32) int32 { return ^a | b }),
}

func (v *Validator) validateBinary(lineNumber int, expr *ast.Expression, idx int) {
	node := &expr.Nodes[idx]
	left := &expr.Nodes[node.Left]
	right := &expr.Nodes[node.Right]

	var handler opHandler
	if node.Tok.Kind == token.Keyword {
		handler = keywordOpTable[node.Tok.Tag]
	} else {
		handler = opTable[node.Tok.Text]
	}
	if handler == nil {
		v.errors.Errorf(sourceerr.Type, lineNumber, "Unknown operator %s", node.Tok.Text)
		node.VType = token.TypeInteger
		return
	}

	result := handler(v, lineNumber, left, right)
	node.VType = result.vtype
	node.ConstVal = left.ConstVal && right.ConstVal && result.fold
	if node.ConstVal {
		node.NumValue = result.num
		node.StrValue = result.str
		if result.vtype == token.TypeString && result.str != "" {
			v.source.RegisterString(result.str)
		}
	}
}

// rejectStrings reports a type error unless both operands are
// non-string, which is the rule for every arithmetic/logical operator
// except `+` and the comparisons (spec §4.3 (ii)).
func rejectStrings(v *Validator, lineNumber int, opText string, left, right *ast.Node) bool {
	if left.VType == token.TypeString || right.VType == token.TypeString {
		v.errors.Errorf(sourceerr.Type, lineNumber, "Operation '%s' not applicable to strings", opText)
		return true
	}
	return false
}

func promote(left, right *ast.Node) token.ValueType {
	if left.VType == token.TypeSingle || right.VType == token.TypeSingle {
		return token.TypeSingle
	}
	return token.TypeInteger
}

func opPlus(v *Validator, lineNumber int, left, right *ast.Node) opResult {
	if left.VType == token.TypeString || right.VType == token.TypeString {
		if left.VType != token.TypeString || right.VType != token.TypeString {
			v.errors.Errorf(sourceerr.Type, lineNumber, "Value types are incompatible")
			return opResult{vtype: token.TypeString}
		}
		res := opResult{vtype: token.TypeString}
		if left.ConstVal && right.ConstVal {
			s := left.StrValue + right.StrValue
			if len(s) > 255 {
				s = s[:255]
			}
			res.fold = true
			res.str = s
		}
		return res
	}
	res := opResult{vtype: promote(left, right)}
	if left.ConstVal && right.ConstVal {
		res.fold = true
		res.num = left.NumValue + right.NumValue
	}
	return res
}

func opMinus(v *Validator, lineNumber int, left, right *ast.Node) opResult {
	if rejectStrings(v, lineNumber, "-", left, right) {
		return opResult{vtype: token.TypeInteger}
	}
	res := opResult{vtype: promote(left, right)}
	if left.ConstVal && right.ConstVal {
		res.fold = true
		res.num = left.NumValue - right.NumValue
	}
	return res
}

func opMul(v *Validator, lineNumber int, left, right *ast.Node) opResult {
	if rejectStrings(v, lineNumber, "*", left, right) {
		return opResult{vtype: token.TypeInteger}
	}
	res := opResult{vtype: promote(left, right)}
	if left.ConstVal && right.ConstVal {
		res.fold = true
		res.num = left.NumValue * right.NumValue
	}
	return res
}

func opDiv(v *Validator, lineNumber int, left, right *ast.Node) opResult {
	if rejectStrings(v, lineNumber, "/", left, right) {
		return opResult{vtype: token.TypeInteger}
	}
	res := opResult{vtype: promote(left, right)}
	if left.ConstVal && right.ConstVal {
		if right.NumValue == 0 {
			v.errors.Errorf(sourceerr.Fold, lineNumber, "Division by zero")
			return res
		}
		res.fold = true
		res.num = left.NumValue / right.NumValue
	}
	return res
}

func opIntDiv(v *Validator, lineNumber int, left, right *ast.Node) opResult {
	if rejectStrings(v, lineNumber, "\\", left, right) {
		return opResult{vtype: token.TypeInteger}
	}
	res := opResult{vtype: token.TypeInteger}
	if left.ConstVal && right.ConstVal {
		ri := int64(right.NumValue)
		if ri == 0 {
			v.errors.Errorf(sourceerr.Fold, lineNumber, "Division by zero")
			return res
		}
		res.fold = true
		res.num = float64(int64(left.NumValue) / ri)
	}
	return res
}

func opMod(v *Validator, lineNumber int, left, right *ast.Node) opResult {
	if rejectStrings(v, lineNumber, "MOD", left, right) {
		return opResult{vtype: token.TypeInteger}
	}
	res := opResult{vtype: token.TypeInteger}
	if left.ConstVal && right.ConstVal {
		ri := int64(right.NumValue)
		if ri == 0 {
			v.errors.Errorf(sourceerr.Fold, lineNumber, "Division by zero")
			return res
		}
		res.fold = true
		res.num = float64(int64(left.NumValue) % ri)
	}
	return res
}

func opPower(v *Validator, lineNumber int, left, right *ast.Node) opResult {
	if rejectStrings(v, lineNumber, "^", left, right) {
		return opResult{vtype: token.TypeInteger}
	}
	res := opResult{vtype: token.TypeSingle}
	if left.ConstVal && right.ConstVal {
		val := math.Pow(left.NumValue, right.NumValue)
		res.fold = true
		res.num = val
		// spec §4.3: ^ results in single unless both operands are
		// integer and the folded result is in -32768..32767.
		if left.VType == token.TypeInteger && right.VType == token.TypeInteger &&
			val == math.Trunc(val) && val >= -32768 && val <= 32767 {
			res.vtype = token.TypeInteger
		}
	}
	return res
}

func opCompareFactory(pass func(cmp int) bool) opHandler {
	return func(v *Validator, lineNumber int, left, right *ast.Node) opResult {
		res := opResult{vtype: token.TypeInteger}
		if left.VType == token.TypeString || right.VType == token.TypeString {
			if left.VType != token.TypeString || right.VType != token.TypeString {
				v.errors.Errorf(sourceerr.Type, lineNumber, "Value types are incompatible")
				return res
			}
			if left.ConstVal && right.ConstVal {
				res.fold = true
				res.num = boolToTruth(pass(stringCompare(left.StrValue, right.StrValue)))
			}
			return res
		}
		if left.ConstVal && right.ConstVal {
			res.fold = true
			res.num = boolToTruth(pass(numCompare(left.NumValue, right.NumValue)))
		}
		return res
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func numCompare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolToTruth(b bool) float64 {
	if b {
		return -1
	}
	return 0
}

func opBitwiseFactory(combine func(a, b int32) int32) opHandler {
	return func(v *Validator, lineNumber int, left, right *ast.Node) opResult {
		if rejectStrings(v, lineNumber, "logical", left, right) {
			return opResult{vtype: token.TypeInteger}
		}
		res := opResult{vtype: token.TypeInteger}
		if left.ConstVal && right.ConstVal {
			res.fold = true
			res.num = float64(combine(int32(left.NumValue), int32(right.NumValue)))
		}
		return res
	}
}
