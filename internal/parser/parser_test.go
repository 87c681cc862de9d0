package parser

import (
	"testing"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOneLine(t *testing.T, src string) ast.Line {
	t.Helper()
	source, errs := ParseProgram(src)
	require.Zero(t, errs.Count(), "unexpected parse errors: %s", errs.Format())
	require.Len(t, source.Lines, 1)
	return source.Lines[0]
}

func TestParseLetExplicitAndImplicit(t *testing.T) {
	explicit := parseOneLine(t, "10 LET X% = 5\n")
	assert.Equal(t, token.KeywordLET, explicit.Statement.Keyword.Tag)
	require.Len(t, explicit.Statement.VarExprs, 1)
	assert.Equal(t, "X%", explicit.Statement.VarExprs[0].Variable.Name)

	implicit := parseOneLine(t, "10 X% = 5\n")
	assert.Equal(t, token.KeywordLET, implicit.Statement.Keyword.Tag)
	assert.Equal(t, "X%", implicit.Statement.VarExprs[0].Variable.Name)
}

func TestParsePrintShorthand(t *testing.T) {
	line := parseOneLine(t, `10 ? "HI"`+"\n")
	assert.Equal(t, token.KeywordPRINT, line.Statement.Keyword.Tag)
	require.Len(t, line.Statement.Args, 1)
}

func TestOperatorPrecedence(t *testing.T) {
	// 2 + 3 * 4 must parse with * binding tighter than +, so the root
	// operator is the addition and its right child is the multiplication.
	source, errs := ParseProgram("10 LET X = 2 + 3 * 4\n")
	require.Zero(t, errs.Count())
	expr := source.Lines[0].Statement.Args[0]
	root := expr.Nodes[expr.Root]
	require.Equal(t, token.Operation, root.Tok.Kind)
	assert.Equal(t, "+", root.Tok.Text)

	right := expr.Nodes[root.Right]
	assert.Equal(t, "*", right.Tok.Text)
}

func TestNotBindsLooserThanComparison(t *testing.T) {
	// NOT A = B must parse as NOT (A = B): NOT's priority (8) is looser
	// than a comparison's (7), so the comparison splices into NOT's
	// operand instead of NOT wrapping just A.
	source, errs := ParseProgram("10 LET X% = NOT A% = B%\n")
	require.Zero(t, errs.Count())
	expr := source.Lines[0].Statement.Args[0]
	root := expr.Nodes[expr.Root]
	require.Equal(t, token.KeywordNOT, root.Tok.Tag)

	inner := expr.Nodes[root.Right]
	assert.Equal(t, "=", inner.Tok.Text)
}

func TestNotBindsTighterThanAnd(t *testing.T) {
	// NOT A AND B must parse as (NOT A) AND B: AND's priority (9) is
	// looser than NOT's (8), so AND wraps the whole NOT expression.
	source, errs := ParseProgram("10 LET X% = NOT A% AND B%\n")
	require.Zero(t, errs.Count())
	expr := source.Lines[0].Statement.Args[0]
	root := expr.Nodes[expr.Root]
	require.Equal(t, token.KeywordAND, root.Tok.Tag)

	left := expr.Nodes[root.Left]
	assert.Equal(t, token.KeywordNOT, left.Tok.Tag)
}

func TestParseForNext(t *testing.T) {
	source, errs := ParseProgram("10 FOR I% = 1 TO 10\n20 NEXT I%\n")
	require.Zero(t, errs.Count())
	require.Len(t, source.Lines, 2)
	forStmt := source.Lines[0].Statement
	assert.True(t, forStmt.HasIdent)
	assert.Equal(t, "I%", forStmt.Ident.Str)
	require.Len(t, forStmt.Args, 2)

	nextStmt := source.Lines[1].Statement
	require.Len(t, nextStmt.Vars, 1)
	assert.Equal(t, "I%", nextStmt.Vars[0].Variable.Name)
}

func TestParseIfThenElse(t *testing.T) {
	source, errs := ParseProgram("10 IF X% = 1 THEN 20 ELSE 30\n")
	require.Zero(t, errs.Count())
	stmt := source.Lines[0].Statement
	require.Len(t, stmt.Params, 2)
	assert.EqualValues(t, 20, stmt.Params[0].Value)
	assert.EqualValues(t, 30, stmt.Params[1].Value)
}

func TestParseDataReadRestore(t *testing.T) {
	source, errs := ParseProgram("10 DATA 1,2,3\n20 READ X%\n30 RESTORE\n")
	require.Zero(t, errs.Count())
	require.Len(t, source.Lines[0].Statement.Params, 3)
	require.Len(t, source.Lines[1].Statement.Vars, 1)
	assert.False(t, source.Lines[2].Statement.HasTarget)
}

func TestParseErrorRecoveryPerLine(t *testing.T) {
	// A malformed first line must not prevent the second line from
	// parsing, since parse errors are recoverable per-line (spec §4.2).
	source, errs := ParseProgram("10 !!!\n20 PRINT 1\n")
	assert.Positive(t, errs.Count())
	found := false
	for _, l := range source.Lines {
		if l.Number == 20 {
			found = true
		}
	}
	assert.True(t, found, "line 20 should still have parsed despite line 10's error")
}

func TestLineNumberExpectedError(t *testing.T) {
	_, errs := ParseProgram("PRINT 1\n")
	assert.Positive(t, errs.Count())
}
