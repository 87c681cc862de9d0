package validator

import (
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// rewritePrintConstants merges adjacent constant-string PRINT arguments
// into a single folded string argument (spec §4.3 "PRINT constant
// folding"), repeating until no adjacent pair remains foldable. It
// validates every argument itself first so each carries a value type and
// constant value; validateArgsAsExpressions then runs over the result.
func (v *Validator) rewritePrintConstants(lineNumber int, stmt *ast.Statement) {
	if stmt.Keyword.Tag != token.KeywordPRINT || len(stmt.Args) < 2 {
		return
	}

	for i := 0; i < len(stmt.Args); i++ {
		v.validateExpr(lineNumber, &stmt.Args[i])
	}

	for {
		merged := false
		for i := 0; i+1 < len(stmt.Args); i++ {
			if !isConstString(stmt.Args[i]) || !isConstString(stmt.Args[i+1]) {
				continue
			}
			combined := constString(stmt.Args[i]) + constString(stmt.Args[i+1])
			if len(combined) > 255 {
				combined = combined[:255]
			}
			v.source.RegisterString(combined)

			stmt.Args[i] = ast.NewExpression()
			node := ast.Node{
				Tok:      token.Token{Kind: token.String, Str: combined},
				Left:     -1,
				Right:    -1,
				VType:    token.TypeString,
				ConstVal: true,
				StrValue: combined,
			}
			idx := stmt.Args[i].AddNode(node)
			stmt.Args[i].Root = idx

			stmt.Args = append(stmt.Args[:i+1], stmt.Args[i+2:]...)
			merged = true
			break
		}
		if !merged {
			break
		}
	}
}

func isConstString(e ast.Expression) bool {
	if e.IsEmpty() {
		return false
	}
	root := e.Nodes[e.Root]
	return root.ConstVal && root.VType == token.TypeString
}

func constString(e ast.Expression) string {
	return e.Nodes[e.Root].StrValue
}
