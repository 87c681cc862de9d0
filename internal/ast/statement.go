package ast

import "github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"

// Statement is the per-line statement model (spec §3 "Statement model").
// Not every field is meaningful for every keyword; parse routines fill
// in only the fields their statement shape uses.
type Statement struct {
	Keyword token.Token // the leading keyword token (or a synthesized LET for implicit assignment)

	TargetLine int  // GOTO/GOSUB/RESTORE target, or FOR's paired NEXT line once linked
	HasTarget  bool

	Ident    token.Token // FOR's index variable, or LET's assignee identifier
	HasIdent bool

	Args []Expression // general argument expressions (FOR bounds, IF condition, PRINT items, ...)

	Params []token.Token // DATA literals, ON's line-number list, INPUT's prompt string, IF's line targets

	Vars []VariableExpr // DIM/READ/INPUT/NEXT variable references

	VarExprs []VariableExpr // LET targets (including array subscripts)

	GotoGosub bool // true selects ON...GOSUB over ON...GOTO
	Relative  bool // `@`-prefixed coordinates in graphics statements
	NoCRLF    bool // PRINT ends in `;`
	DefFnOrUsr bool // true selects DEF USR over DEF FN

	Then *Statement // THEN payload when it is a statement rather than a bare line number
	Else *Statement // ELSE payload when it is a statement rather than a bare line number

	// ForNextLine/NextForLine link FOR to its paired NEXT and back,
	// filled in by the validator (spec §4.3 "FOR/NEXT pairing").
	ForNextLine int
	NextForLine int
}

// Line is one source line: its number, parsed statement, and a per-line
// error flag set by any stage that rejects something on it. Text is not
// filled in by the parser, so it is empty for lines from ParseProgram.
type Line struct {
	Number    int
	Text      string
	Statement Statement
	HasError  bool
}
