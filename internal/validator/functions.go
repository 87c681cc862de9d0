package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/sourceerr"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// validateFunctionNode type-checks and (where possible) constant-folds a
// call to one of the function-classified keywords (spec §4.2 "function
// call", §4.3 arity/type table). Every argument sub-expression is
// validated first, post-order, before the function itself is checked.
func (v *Validator) validateFunctionNode(lineNumber int, expr *ast.Expression, idx int) {
	node := &expr.Nodes[idx]
	for i := range node.Args {
		v.validateExpr(lineNumber, &node.Args[i])
	}

	args := make([]*ast.Node, len(node.Args))
	for i := range node.Args {
		args[i] = &node.Args[i].Nodes[node.Args[i].Root]
	}

	name := node.Tok.Tag.String()
	if !v.checkArity(lineNumber, name, node.Tok.Tag, len(args)) {
		node.VType = token.TypeInteger
		return
	}

	vtype, fold := v.dispatchFunction(lineNumber, node.Tok.Tag, args)
	node.VType = vtype
	if fold.fold && !token.NonFoldableFunctions[node.Tok.Tag] {
		node.ConstVal = true
		node.NumValue = fold.num
		node.StrValue = fold.str
		if vtype == token.TypeString && fold.str != "" {
			v.source.RegisterString(fold.str)
		}
	}
}

// arityTable gives the [min,max] argument count for each function
// keyword; -1 in max means unbounded not applicable here (every
// function in this language has a fixed ceiling).
var arityTable = map[token.Keyword][2]int{
	token.KeywordSIN: {1, 1}, token.KeywordCOS: {1, 1}, token.KeywordTAN: {1, 1},
	token.KeywordATN: {1, 1}, token.KeywordPI: {0, 0}, token.KeywordEXP: {1, 1},
	token.KeywordLOG: {1, 1}, token.KeywordSQR: {1, 1}, token.KeywordABS: {1, 1},
	token.KeywordFIX: {1, 1}, token.KeywordINT: {1, 1}, token.KeywordSGN: {1, 1},
	token.KeywordRND: {0, 1}, token.KeywordFRE: {0, 1}, token.KeywordCINT: {1, 1},
	token.KeywordCSNG: {1, 1}, token.KeywordPEEK: {1, 1}, token.KeywordINP: {1, 1},
	token.KeywordASC: {1, 1}, token.KeywordCHR: {1, 1}, token.KeywordLEN: {1, 1},
	token.KeywordMID: {2, 3}, token.KeywordSTRINGDOLLAR: {2, 2}, token.KeywordVAL: {1, 1},
	token.KeywordINKEY: {0, 0}, token.KeywordSTR: {1, 1}, token.KeywordBIN: {1, 1},
	token.KeywordOCT: {1, 1}, token.KeywordHEX: {1, 1}, token.KeywordCSRLIN: {0, 0},
	token.KeywordPOS: {0, 1}, token.KeywordLPOS: {0, 1}, token.KeywordEOF: {1, 1},
	token.KeywordPOINT: {2, 2}, token.KeywordAT: {2, 2}, token.KeywordTAB: {1, 1},
	token.KeywordSPC: {1, 1},
}

func (v *Validator) checkArity(lineNumber int, name string, tag token.Keyword, n int) bool {
	bounds, ok := arityTable[tag]
	if !ok {
		v.errors.Errorf(sourceerr.Type, lineNumber, "Unknown function %s", name)
		return false
	}
	if n < bounds[0] || n > bounds[1] {
		v.errors.Errorf(sourceerr.Type, lineNumber, "Wrong number of arguments to %s", name)
		return false
	}
	return true
}

func (v *Validator) wantNumeric(lineNumber int, name string, n *ast.Node) bool {
	if n.VType == token.TypeString {
		v.errors.Errorf(sourceerr.Type, lineNumber, "%s expects a numeric argument", name)
		return false
	}
	return true
}

func (v *Validator) wantString(lineNumber int, name string, n *ast.Node) bool {
	if n.VType != token.TypeString {
		v.errors.Errorf(sourceerr.Type, lineNumber, "%s expects a string argument", name)
		return false
	}
	return true
}

// dispatchFunction computes the result value type and, when every
// argument is constant and the function is not in the non-foldable set,
// the folded value.
func (v *Validator) dispatchFunction(lineNumber int, tag token.Keyword, args []*ast.Node) (token.ValueType, opResult) {
	allConst := true
	for _, a := range args {
		allConst = allConst && a.ConstVal
	}

	switch tag {
	case token.KeywordSIN, token.KeywordCOS, token.KeywordTAN, token.KeywordATN,
		token.KeywordEXP, token.KeywordLOG, token.KeywordSQR:
		v.wantNumeric(lineNumber, tag.String(), args[0])
		if allConst {
			val, err := transcendental(tag, args[0].NumValue)
			if err != "" {
				v.errors.Errorf(sourceerr.Fold, lineNumber, err)
				return token.TypeSingle, opResult{}
			}
			return token.TypeSingle, opResult{fold: true, num: val}
		}
		return token.TypeSingle, opResult{}

	case token.KeywordPI:
		return token.TypeSingle, opResult{fold: true, num: math.Pi}

	case token.KeywordABS:
		v.wantNumeric(lineNumber, "ABS", args[0])
		if allConst {
			return args[0].VType, opResult{fold: true, num: math.Abs(args[0].NumValue)}
		}
		return args[0].VType, opResult{}

	case token.KeywordFIX, token.KeywordINT, token.KeywordCINT, token.KeywordSGN:
		v.wantNumeric(lineNumber, tag.String(), args[0])
		if allConst {
			var n float64
			switch tag {
			case token.KeywordFIX:
				n = math.Trunc(args[0].NumValue)
			case token.KeywordINT:
				n = math.Floor(args[0].NumValue)
			case token.KeywordCINT:
				n = math.Round(args[0].NumValue)
			case token.KeywordSGN:
				if args[0].NumValue < 0 {
					n = -1
				} else if args[0].NumValue == 0 {
					n = 0
				} else {
					n = 1
				}
			}
			if n < -32768 || n > 32767 {
				v.errors.Errorf(sourceerr.Range, lineNumber, "%s result out of integer range", tag.String())
			}
			return token.TypeInteger, opResult{fold: true, num: n}
		}
		return token.TypeInteger, opResult{}

	case token.KeywordCSNG:
		v.wantNumeric(lineNumber, "CSNG", args[0])
		if allConst {
			return token.TypeSingle, opResult{fold: true, num: args[0].NumValue}
		}
		return token.TypeSingle, opResult{}

	case token.KeywordRND:
		if len(args) == 1 {
			v.wantNumeric(lineNumber, "RND", args[0])
		}
		return token.TypeSingle, opResult{}

	case token.KeywordFRE:
		return token.TypeInteger, opResult{}

	case token.KeywordPEEK, token.KeywordINP:
		v.wantNumeric(lineNumber, tag.String(), args[0])
		if len(args) == 1 {
			v.checkRange(lineNumber, tag.String()+" address", wrapExpr(*args[0]), 0, 65535)
		}
		return token.TypeInteger, opResult{}

	case token.KeywordASC:
		v.wantString(lineNumber, "ASC", args[0])
		if allConst {
			if args[0].StrValue == "" {
				v.errors.Errorf(sourceerr.Fold, lineNumber, "ASC of an empty string")
				return token.TypeInteger, opResult{}
			}
			return token.TypeInteger, opResult{fold: true, num: float64(args[0].StrValue[0])}
		}
		return token.TypeInteger, opResult{}

	case token.KeywordCHR:
		v.wantNumeric(lineNumber, "CHR$", args[0])
		if allConst {
			n := int(args[0].NumValue)
			if n < 0 || n > 255 {
				v.errors.Errorf(sourceerr.Range, lineNumber, "CHR$ argument (%d) out of range 0..255", n)
				return token.TypeString, opResult{}
			}
			return token.TypeString, opResult{fold: true, str: string([]byte{byte(n)})}
		}
		return token.TypeString, opResult{}

	case token.KeywordLEN:
		v.wantString(lineNumber, "LEN", args[0])
		if allConst {
			return token.TypeInteger, opResult{fold: true, num: float64(len(args[0].StrValue))}
		}
		return token.TypeInteger, opResult{}

	case token.KeywordMID:
		v.wantString(lineNumber, "MID$", args[0])
		if len(args) >= 2 {
			v.wantNumeric(lineNumber, "MID$", args[1])
			v.checkRange(lineNumber, "MID$ start", wrapExpr(*args[1]), 1, 255)
		}
		if len(args) == 3 {
			v.wantNumeric(lineNumber, "MID$", args[2])
			v.checkRange(lineNumber, "MID$ length", wrapExpr(*args[2]), 0, 255)
		}
		if allConst {
			s := args[0].StrValue
			start := int(args[1].NumValue)
			length := len(s) - start + 1
			if len(args) == 3 {
				length = int(args[2].NumValue)
			}
			return token.TypeString, opResult{fold: true, str: substrBasic(s, start, length)}
		}
		return token.TypeString, opResult{}

	case token.KeywordSTRINGDOLLAR:
		v.wantNumeric(lineNumber, "STRING$", args[0])
		v.checkRange(lineNumber, "STRING$ count", wrapExpr(*args[0]), 0, 255)
		if allConst {
			count := int(args[0].NumValue)
			var ch byte
			if args[1].VType == token.TypeString {
				if args[1].StrValue == "" {
					v.errors.Errorf(sourceerr.Fold, lineNumber, "STRING$ of an empty string")
					return token.TypeString, opResult{}
				}
				ch = args[1].StrValue[0]
			} else {
				ch = byte(int(args[1].NumValue))
			}
			return token.TypeString, opResult{fold: true, str: strings.Repeat(string(ch), count)}
		}
		return token.TypeString, opResult{}

	case token.KeywordVAL:
		v.wantString(lineNumber, "VAL", args[0])
		if allConst {
			n, _ := strconv.ParseFloat(strings.TrimSpace(args[0].StrValue), 64)
			return token.TypeSingle, opResult{fold: true, num: n}
		}
		return token.TypeSingle, opResult{}

	case token.KeywordINKEY:
		return token.TypeString, opResult{}

	case token.KeywordSTR:
		v.wantNumeric(lineNumber, "STR$", args[0])
		if allConst {
			return token.TypeString, opResult{fold: true, str: formatBasicNumber(args[0].NumValue)}
		}
		return token.TypeString, opResult{}

	case token.KeywordBIN, token.KeywordOCT, token.KeywordHEX:
		v.wantNumeric(lineNumber, tag.String(), args[0])
		if allConst {
			n := uint16(int64(args[0].NumValue))
			var s string
			switch tag {
			case token.KeywordBIN:
				s = strconv.FormatUint(uint64(n), 2)
			case token.KeywordOCT:
				s = strconv.FormatUint(uint64(n), 8)
			case token.KeywordHEX:
				s = strconv.FormatUint(uint64(n), 16)
			}
			return token.TypeString, opResult{fold: true, str: strings.ToUpper(s)}
		}
		return token.TypeString, opResult{}

	case token.KeywordCSRLIN, token.KeywordPOS, token.KeywordLPOS:
		if len(args) == 1 {
			v.wantNumeric(lineNumber, tag.String(), args[0])
		}
		return token.TypeInteger, opResult{}

	case token.KeywordEOF:
		v.wantNumeric(lineNumber, "EOF", args[0])
		return token.TypeInteger, opResult{}

	case token.KeywordPOINT:
		v.wantNumeric(lineNumber, "POINT", args[0])
		v.wantNumeric(lineNumber, "POINT", args[1])
		return token.TypeInteger, opResult{}

	case token.KeywordAT, token.KeywordTAB, token.KeywordSPC:
		v.wantNumeric(lineNumber, tag.String(), args[0])
		v.checkRange(lineNumber, tag.String()+" column", wrapExpr(*args[0]), 0, 255)
		return token.TypeInteger, opResult{}
	}

	v.errors.Errorf(sourceerr.Type, lineNumber, "Unhandled function %s", tag.String())
	return token.TypeInteger, opResult{}
}

// wrapExpr lets checkRange, written against ast.Expression, be reused on
// a single already-validated node.
func wrapExpr(n ast.Node) ast.Expression {
	return ast.Expression{Nodes: []ast.Node{n}, Root: 0}
}

func transcendental(tag token.Keyword, x float64) (float64, string) {
	switch tag {
	case token.KeywordSIN:
		return math.Sin(x), ""
	case token.KeywordCOS:
		return math.Cos(x), ""
	case token.KeywordTAN:
		return math.Tan(x), ""
	case token.KeywordATN:
		return math.Atan(x), ""
	case token.KeywordEXP:
		return math.Exp(x), ""
	case token.KeywordLOG:
		if x <= 0 {
			return 0, "LOG of a non-positive argument"
		}
		return math.Log(x), ""
	case token.KeywordSQR:
		if x < 0 {
			return 0, "SQR of a negative argument"
		}
		return math.Sqrt(x), ""
	}
	return 0, fmt.Sprintf("unhandled transcendental %s", tag.String())
}

// substrBasic extracts a MID$-style 1-based substring, clamping to the
// available length the way the interpreter tolerates out-of-range
// requests rather than erroring.
func substrBasic(s string, start, length int) string {
	if start < 1 {
		start = 1
	}
	if start > len(s) {
		return ""
	}
	i := start - 1
	if length < 0 {
		length = 0
	}
	end := i + length
	if end > len(s) {
		end = len(s)
	}
	return s[i:end]
}

// formatBasicNumber mirrors STR$'s convention of a leading space for
// non-negative values.
func formatBasicNumber(n float64) string {
	s := strconv.FormatFloat(n, 'g', -1, 64)
	if n >= 0 {
		return " " + s
	}
	return s
}
