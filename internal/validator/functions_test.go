package validator

import (
	"testing"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionConstantFolding(t *testing.T) {
	cases := []struct {
		src   string
		vtype token.ValueType
		num   float64
		str   string
	}{
		{`10 LET X% = LEN("HELLO")`, token.TypeInteger, 5, ""},
		{`10 LET X$ = MID$("HELLO", 2, 3)`, token.TypeString, 0, "ELL"},
		{`10 LET X% = ABS(-5%)`, token.TypeInteger, 5, ""},
		{`10 LET X% = SGN(-5)`, token.TypeInteger, -1, ""},
		{`10 LET X$ = CHR$(65)`, token.TypeString, 0, "A"},
		{`10 LET X% = ASC("A")`, token.TypeInteger, 65, ""},
	}
	for _, c := range cases {
		source, errCount := validate(t, c.src+"\n")
		require.Zero(t, errCount, "%s: unexpected errors", c.src)
		root := rootNode(source.Lines[0])
		assert.True(t, root.ConstVal, "%s: expected constant fold", c.src)
		assert.Equal(t, c.vtype, root.VType, c.src)
		if c.vtype == token.TypeString {
			assert.Equal(t, c.str, root.StrValue, c.src)
		} else {
			assert.Equal(t, c.num, root.NumValue, c.src)
		}
	}
}

func TestRndIsNeverFolded(t *testing.T) {
	source, errCount := validate(t, "10 LET X = RND(1)\n")
	require.Zero(t, errCount)
	root := rootNode(source.Lines[0])
	assert.False(t, root.ConstVal)
	assert.Equal(t, token.TypeSingle, root.VType)
}

func TestLogOfNonPositiveIsFoldError(t *testing.T) {
	_, errCount := validate(t, "10 LET X = LOG(0)\n")
	assert.Positive(t, errCount)
}

func TestMidStartOutOfRangeIsRangeError(t *testing.T) {
	_, errCount := validate(t, `10 LET X$ = MID$("HI", 300)`+"\n")
	assert.Positive(t, errCount)
}

func TestWrongArityIsTypeError(t *testing.T) {
	_, errCount := validate(t, `10 LET X% = LEN("A", "B")`+"\n")
	assert.Positive(t, errCount)
}

func TestPrintAdjacentConstantStringsMerge(t *testing.T) {
	source, errCount := validate(t, `10 PRINT "HI" ; " THERE"`+"\n")
	require.Zero(t, errCount)
	stmt := source.Lines[0].Statement
	require.Len(t, stmt.Args, 1)
	root := exprRoot(stmt.Args[0])
	assert.True(t, root.ConstVal)
	assert.Equal(t, "HI THERE", root.StrValue)
}

func exprRoot(e ast.Expression) ast.Node {
	return e.Nodes[e.Root]
}
