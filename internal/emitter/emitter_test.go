package emitter

import (
	"strings"
	"testing"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/parser"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *ast.Final {
	t.Helper()
	source, parseErrs := parser.ParseProgram(src)
	require.Zero(t, parseErrs.Count(), "unexpected parse errors: %s", parseErrs.Format())
	validateErrs := validator.Validate(source)
	require.Zero(t, validateErrs.Count(), "unexpected validation errors: %s", validateErrs.Format())
	return Emit(source)
}

func contains(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// TestEmissionOrdering checks spec §6's required section ordering:
// generation comment, .MCALL .EXIT, START:, body, sentinel, STRINGS,
// VARIABLES, .END START.
func TestEmissionOrdering(t *testing.T) {
	final := compile(t, "10 LET A$ = \"HI\"\n20 LET X% = 1\n")
	lines := final.Lines()

	idx := func(substr string) int {
		for i, l := range lines {
			if strings.Contains(l, substr) {
				return i
			}
		}
		return -1
	}

	mcall := idx(".MCALL")
	start := idx("START:")
	strings_ := idx("STRINGS")
	vars := idx("VARIABLES")
	end := idx(".END")

	require.NotEqual(t, -1, mcall)
	require.NotEqual(t, -1, start)
	require.NotEqual(t, -1, strings_)
	require.NotEqual(t, -1, vars)
	require.NotEqual(t, -1, end)

	assert.Less(t, mcall, start)
	assert.Less(t, start, strings_)
	assert.Less(t, strings_, vars)
	assert.Less(t, vars, end)
}

func TestConstantAssignmentPeephole(t *testing.T) {
	final := compile(t, "10 LET X% = 0\n")
	assert.True(t, contains(final.Lines(), "\tCLR\tI_X"))
}

func TestSelfIncrementPeephole(t *testing.T) {
	final := compile(t, "10 LET I% = I% + 1\n")
	assert.True(t, contains(final.Lines(), "\tINC\tI_I"))
}

func TestSelfDecrementByConstant(t *testing.T) {
	final := compile(t, "10 LET I% = I% - 5\n")
	assert.True(t, contains(final.Lines(), "\tSUB\t#5., I_I"))
}

func TestStringConstantAssignmentUsesStrcpy(t *testing.T) {
	final := compile(t, `10 LET A$ = "HI"`+"\n")
	assert.True(t, contains(final.Lines(), "\tCALL\tSTRCPY"))
}

func TestComparisonMaterializesTruthValue(t *testing.T) {
	final := compile(t, "10 LET X% = Y% < 2\n")
	lines := final.Lines()
	assert.True(t, contains(lines, "\tCMP\tR0,R1"))
	assert.True(t, contains(lines, "\tMOV\t#-1, R0"))
}

func TestForNextEmitsSelfModifyingPatch(t *testing.T) {
	final := compile(t, "10 FOR I% = 1 TO N%\n20 PRINT I%\n30 NEXT I%\n")
	lines := final.Lines()
	assert.True(t, contains(lines, "@#N10+2"))
	assert.True(t, contains(lines, "N10:"))
	assert.True(t, contains(lines, "JMP\tN10"))
}

func TestForNextWithConstantBoundSkipsPatch(t *testing.T) {
	// A constant TO bound is embedded straight into the comparison (spec
	// §8 scenario S3), not patched in at runtime.
	final := compile(t, "10 FOR I% = 1 TO 10\n20 PRINT I%\n30 NEXT I%\n")
	lines := final.Lines()
	assert.False(t, contains(lines, "@#N10+2"))
	assert.True(t, contains(lines, "\tCMP\t#10., I_I"))
}

func TestForNextWithStepPatchesNextLine(t *testing.T) {
	final := compile(t, "10 FOR I% = 1 TO 10 STEP 2\n20 NEXT I%\n")
	lines := final.Lines()
	assert.True(t, contains(lines, "@#L20+2"))
}

func TestIfTwoBranchLowering(t *testing.T) {
	final := compile(t, "10 IF 1 = 1 THEN 20 ELSE 30\n20 PRINT 1\n30 PRINT 2\n")
	lines := final.Lines()
	assert.False(t, contains(lines, "TST\tR0")) // constant condition short-circuits
	assert.True(t, contains(lines, "JMP\tL20"))
}

func TestIfNonConstantEmitsBranch(t *testing.T) {
	final := compile(t, "10 LET X% = 1\n20 IF X% = 1 THEN 30\n30 PRINT 1\n")
	lines := final.Lines()
	assert.True(t, contains(lines, "\tTST\tR0"))
	assert.True(t, contains(lines, "\tBEQ\t"))
}

func TestOnGotoBoundsCheckedDispatch(t *testing.T) {
	final := compile(t, "10 ON X% GOTO 20,30\n20 PRINT 1\n30 PRINT 2\n")
	lines := final.Lines()
	assert.True(t, contains(lines, "\tDEC\tR0"))
	assert.True(t, contains(lines, "\tASL\tR0"))
	assert.True(t, contains(lines, ".WORD\tL20"))
	assert.True(t, contains(lines, ".WORD\tL30"))
}

func TestDataReadRestoreCursor(t *testing.T) {
	final := compile(t, "10 DATA 1,2,3\n20 READ X%\n30 RESTORE\n40 READ X%\n")
	lines := final.Lines()
	assert.True(t, contains(lines, "DATATAB:"))
	assert.True(t, contains(lines, "\t.WORD\t1."))
}

func TestPeekEmitsIndirectLoad(t *testing.T) {
	final := compile(t, "10 LET X% = PEEK(100)\n")
	assert.True(t, contains(final.Lines(), "\tMOV\t(R0), R0"))
}

func TestPokePatchesSelfModifyingImmediates(t *testing.T) {
	final := compile(t, "10 POKE 100, 1\n")
	lines := final.Lines()
	assert.True(t, contains(lines, "+2"))
	assert.True(t, contains(lines, "+4"))
	assert.True(t, contains(lines, "\tMOV\t#0, #0"))
}

func TestOutIsAnAcknowledgedGap(t *testing.T) {
	final := compile(t, "10 OUT 1, 2\n")
	assert.True(t, contains(final.Lines(), "; TODO OUT"))
}

func TestUnimplementedStatementEmitsTodoComment(t *testing.T) {
	final := compile(t, "10 SCREEN 1\n")
	assert.True(t, contains(final.Lines(), "; TODO SCREEN"))
}

func TestHostIgnoredStatementEmitsComment(t *testing.T) {
	final := compile(t, "10 OPEN \"O\", 1, \"FILE\"\n")
	assert.True(t, contains(final.Lines(), "; OPEN statement is ignored"))
}

func TestStringInterningProducesDistinctLabels(t *testing.T) {
	final := compile(t, `10 PRINT "A"
20 PRINT "B"
`)
	lines := final.Lines()
	assert.True(t, contains(lines, "ST1:"))
	assert.True(t, contains(lines, "ST2:"))
}

func TestVariablesSectionDeclaresByType(t *testing.T) {
	final := compile(t, "10 LET A$ = \"X\"\n20 LET B% = 1\n30 LET C = 1.5\n")
	lines := final.Lines()
	assert.True(t, contains(lines, ".BLKB\t256."))
	assert.True(t, contains(lines, "\t.WORD\t0,0"))
}
