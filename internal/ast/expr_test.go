package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/parser"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/validator"
)

// TestParseIsIdempotent checks spec §8's parse-idempotence property:
// parsing the same source twice must produce byte-for-byte identical
// expression arenas, since the parser has no hidden global state that
// could make two runs diverge.
func TestParseIsIdempotent(t *testing.T) {
	const src = "10 LET X% = 2 + 3 * (4 - Y%)\n20 PRINT \"HI\"; X%\n"

	first, errs1 := parser.ParseProgram(src)
	second, errs2 := parser.ParseProgram(src)
	if errs1.Count() != 0 || errs2.Count() != 0 {
		t.Fatalf("unexpected parse errors: %s / %s", errs1.Format(), errs2.Format())
	}

	if len(first.Lines) != len(second.Lines) {
		t.Fatalf("line count diverged: %d vs %d", len(first.Lines), len(second.Lines))
	}
	for i := range first.Lines {
		a := first.Lines[i].Statement.Args
		b := second.Lines[i].Statement.Args
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("line %d expression arena diverged between runs (-first +second):\n%s", first.Lines[i].Number, diff)
		}
	}
}

// TestAppendTreeShiftsIndices checks that AppendTree returns the
// sub-expression's root index shifted by the host arena's prior length,
// grows the host by the spliced node count, and that the node at the
// returned index is the spliced root operator.
func TestAppendTreeShiftsIndices(t *testing.T) {
	source, errs := parser.ParseProgram("10 LET X% = 1\n")
	if errs.Count() != 0 {
		t.Fatalf("unexpected parse errors: %s", errs.Format())
	}
	sub, errs := parser.ParseProgram("10 LET Y% = 2 + 3\n")
	if errs.Count() != 0 {
		t.Fatalf("unexpected parse errors: %s", errs.Format())
	}

	host := source.Lines[0].Statement.Args[0]
	subExpr := sub.Lines[0].Statement.Args[0]
	wantNodeCount := len(host.Nodes) + len(subExpr.Nodes)

	newRoot := host.AppendTree(subExpr)
	if newRoot != wantNodeCount-len(subExpr.Nodes)+subExpr.Root {
		t.Fatalf("unexpected spliced root index %d", newRoot)
	}
	if len(host.Nodes) != wantNodeCount {
		t.Fatalf("expected %d nodes after splice, got %d", wantNodeCount, len(host.Nodes))
	}
	spliced := host.Nodes[newRoot]
	if !spliced.IsBinaryOperation() {
		t.Fatalf("expected spliced root to still be the + operator, got %+v", spliced.Tok)
	}
}

// TestSourceModelTablesAreStable diffs the interned string table and the
// decorated-name-sorted variable table produced from two independent
// parses of the same source, the same idempotence property applied to
// Source's symbol/string tables rather than a single expression arena.
func TestSourceModelTablesAreStable(t *testing.T) {
	const src = "10 LET A$ = \"ONE\"\n20 LET B% = 1\n30 PRINT \"ONE\"\n"

	first, errs1 := parser.ParseProgram(src)
	second, errs2 := parser.ParseProgram(src)
	if errs1.Count() != 0 || errs2.Count() != 0 {
		t.Fatalf("unexpected parse errors: %s / %s", errs1.Format(), errs2.Format())
	}
	if verrs := validator.Validate(first); verrs.Count() != 0 {
		t.Fatalf("unexpected validation errors: %s", verrs.Format())
	}
	if verrs := validator.Validate(second); verrs.Count() != 0 {
		t.Fatalf("unexpected validation errors: %s", verrs.Format())
	}

	if diff := cmp.Diff(first.Strings(), second.Strings()); diff != "" {
		t.Errorf("interned string table diverged between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(
		first.VariablesSortedByDecoratedName(),
		second.VariablesSortedByDecoratedName(),
		cmp.Comparer(func(a, b ast.Variable) bool {
			return a.Name == b.Name && cmp.Equal(a.Extents, b.Extents)
		}),
	); diff != "" {
		t.Errorf("variable table diverged between runs (-first +second):\n%s", diff)
	}
}
