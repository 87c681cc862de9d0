package validator

import (
	"testing"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/parser"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, src string) (*ast.Source, int) {
	t.Helper()
	source, parseErrs := parser.ParseProgram(src)
	require.Zero(t, parseErrs.Count(), "unexpected parse errors: %s", parseErrs.Format())
	errs := Validate(source)
	return source, errs.Count()
}

func rootNode(line ast.Line) ast.Node {
	expr := line.Statement.Args[0]
	return expr.Nodes[expr.Root]
}

func TestConstantFoldingArithmetic(t *testing.T) {
	source, errCount := validate(t, "10 LET X% = 2% + 3% * 4%\n")
	require.Zero(t, errCount)
	root := rootNode(source.Lines[0])
	assert.True(t, root.ConstVal)
	assert.Equal(t, token.TypeInteger, root.VType)
	assert.Equal(t, float64(14), root.NumValue)
}

func TestUnsuffixedNumberDefaultsToSingle(t *testing.T) {
	// Spec §4.1: default value-type is single; only an explicit `%`
	// suffix forces integer, even for a literal with no fractional part.
	source, errCount := validate(t, "10 LET X = 2 + 3\n")
	require.Zero(t, errCount)
	root := rootNode(source.Lines[0])
	assert.Equal(t, token.TypeSingle, root.VType)
}

func TestStringConcatenationFoldsAndCaps(t *testing.T) {
	long := ""
	for i := 0; i < 130; i++ {
		long += "AB"
	}
	source, errCount := validate(t, `10 LET A$ = "`+long+`" + "`+long+`"`+"\n")
	require.Zero(t, errCount)
	root := rootNode(source.Lines[0])
	assert.True(t, root.ConstVal)
	assert.Equal(t, token.TypeString, root.VType)
	assert.LessOrEqual(t, len(root.StrValue), 255)
}

func TestStringArithmeticIsRejected(t *testing.T) {
	_, errCount := validate(t, `10 LET X% = "A" - "B"`+"\n")
	assert.Positive(t, errCount)
}

func TestDivisionByZeroIsFoldError(t *testing.T) {
	_, errCount := validate(t, "10 LET X = 1 / 0\n")
	assert.Positive(t, errCount)
}

func TestComparisonProducesTruthValue(t *testing.T) {
	source, errCount := validate(t, "10 LET X% = 1 < 2\n")
	require.Zero(t, errCount)
	root := rootNode(source.Lines[0])
	assert.Equal(t, token.TypeInteger, root.VType)
	assert.Equal(t, float64(-1), root.NumValue)
}

func TestPowerDemotesToIntegerWhenItFits(t *testing.T) {
	source, errCount := validate(t, "10 LET X = 2% ^ 3%\n")
	require.Zero(t, errCount)
	root := rootNode(source.Lines[0])
	assert.Equal(t, token.TypeInteger, root.VType)
	assert.Equal(t, float64(8), root.NumValue)
}

func TestPowerStaysSingleWhenOutOfIntegerRange(t *testing.T) {
	source, errCount := validate(t, "10 LET X = 2% ^ 20%\n")
	require.Zero(t, errCount)
	root := rootNode(source.Lines[0])
	assert.Equal(t, token.TypeSingle, root.VType)
}

func TestForWithoutMatchingNextIsAnError(t *testing.T) {
	_, errCount := validate(t, "10 FOR I% = 1 TO 10\n20 PRINT I%\n")
	assert.Positive(t, errCount)
}

func TestForNextPairing(t *testing.T) {
	source, errCount := validate(t, "10 FOR I% = 1 TO 10\n20 NEXT I%\n")
	require.Zero(t, errCount)
	assert.Equal(t, 20, source.Lines[0].Statement.ForNextLine)
	assert.Equal(t, 10, source.Lines[1].Statement.NextForLine)
}

func TestNextWrongVariableIsSymbolError(t *testing.T) {
	_, errCount := validate(t, "10 FOR I% = 1 TO 10\n20 NEXT J%\n")
	assert.Positive(t, errCount)
}

func TestInvalidGotoTargetIsTargetError(t *testing.T) {
	_, errCount := validate(t, "10 GOTO 999\n")
	assert.Positive(t, errCount)
}

func TestSelfIncrementShapeSurvivesValidation(t *testing.T) {
	// LET I% = I% + 1 must still type-check as a plain non-constant
	// addition; the self-increment peephole is the emitter's concern,
	// not the validator's.
	source, errCount := validate(t, "10 LET I% = I% + 1%\n")
	require.Zero(t, errCount)
	root := rootNode(source.Lines[0])
	assert.False(t, root.ConstVal)
	assert.Equal(t, token.TypeInteger, root.VType)
}
