package ast

import (
	"strings"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// Variable is the canonical model of a BASIC variable: its canonical
// name and, for arrays, its fixed list of integer extents.
type Variable struct {
	Name    string // canonical (uppercase, suffix preserved) name
	Extents []int  // nil for scalars; one entry per dimension for arrays
}

// CanonicalName uppercases an identifier while preserving its trailing
// type suffix (spec §6 "Identifier canonicalization").
func CanonicalName(name string) string {
	return strings.ToUpper(name)
}

// ValueType derives the value type of a variable from its canonical
// name's suffix: `%` -> integer, `!` -> single, `$` -> string, otherwise
// single (spec §3 "Variable model").
func (v Variable) ValueType() token.ValueType {
	if v.Name == "" {
		return token.TypeSingle
	}
	switch v.Name[len(v.Name)-1] {
	case '%':
		return token.TypeInteger
	case '$':
		return token.TypeString
	case '!':
		return token.TypeSingle
	default:
		return token.TypeSingle
	}
}

// IsArray reports whether the variable was declared with fixed extents.
func (v Variable) IsArray() bool {
	return len(v.Extents) > 0
}

// DecoratedName returns the target-assembly label for this variable
// (spec §6 "Name decoration for emission"). Canonical names are already
// legal-ish assembler text except for the `%`/`!`/`$` suffix and numeric
// BASIC names; DecoratedName rewrites suffix characters into assembler-
// legal letters so distinct canonical names still give distinct labels.
func (v Variable) DecoratedName() string {
	return decorateName(v.Name)
}

// decorateName rewrites a canonical name into a legal assembler label.
// The type suffix is moved to a leading, underscore-separated tag rather
// than appended, since appending a letter after stripping the suffix
// character risks two distinct canonical names (e.g. "A$" and "AS")
// colliding on the same decorated label.
func decorateName(name string) string {
	if name == "" {
		return name
	}
	suffix := name[len(name)-1]
	base := name
	tag := "V"
	switch suffix {
	case '%':
		base = name[:len(name)-1]
		tag = "I"
	case '!':
		base = name[:len(name)-1]
		tag = "F"
	case '$':
		base = name[:len(name)-1]
		tag = "S"
	}
	return tag + "_" + base
}

// VariableExpr is a reference to a variable inside a statement's
// variable-expressions list (spec §3 "Statement model"): an l-value
// target (DIM, READ, INPUT, NEXT, or the left side of LET), optionally
// with subscript expressions for array element access.
type VariableExpr struct {
	Variable  Variable
	Subscript []Expression
}
