package parser

import (
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

// exprBuilder tracks the arena under construction and the "insertion
// point" bookkeeping spec §4.2 describes: prev is the index of the most
// recently inserted node (always the current rightmost leaf of the
// tree).
type exprBuilder struct {
	expr ast.Expression
	prev int
}

const noChild = -1

// opPriority returns the priority class spec §4.2 assigns to a raw
// operator token, before it has been attached to an arena node.
func opPriority(tok token.Token) int {
	if tok.Kind == token.Keyword {
		switch tok.Tag {
		case token.KeywordMOD:
			return 5
		case token.KeywordAND:
			return 9
		case token.KeywordOR, token.KeywordXOR:
			return 10
		case token.KeywordEQV:
			return 11
		case token.KeywordIMP:
			return 12
		}
		return 1
	}
	if tok.Kind != token.Operation {
		return 1
	}
	switch tok.Text {
	case "^":
		return 2
	case "*", "/":
		return 3
	case "\\":
		return 4
	case "+", "-":
		return 6
	case "=", "<>", "<", ">", "<=", ">=":
		return 7
	}
	return 1
}

// isBinaryOperatorToken reports whether cur begins a binary operator
// (spec §9: keyword-form operators are matched by tag).
func isBinaryOperatorToken(tok token.Token) bool {
	if tok.Kind == token.Keyword {
		switch tok.Tag {
		case token.KeywordMOD, token.KeywordAND, token.KeywordOR,
			token.KeywordXOR, token.KeywordEQV, token.KeywordIMP:
			return true
		}
		return false
	}
	if tok.Kind != token.Operation {
		return false
	}
	switch tok.Text {
	case "+", "-", "*", "/", "\\", "^", "=", "<>", "<", ">", "<=", ">=":
		return true
	}
	return false
}

// parseExpression implements the full operand/operator alternation of
// spec §4.2, returning a complete expression tree (possibly empty if no
// operand was found).
func (p *Parser) parseExpression() ast.Expression {
	b := &exprBuilder{expr: ast.NewExpression(), prev: noChild}

	first, ok := p.parsePrimary(&b.expr)
	if !ok {
		return b.expr
	}
	b.expr.Root = first
	b.prev = b.rightmostLeaf(first)

	for isBinaryOperatorToken(p.cur) {
		opTok := p.cur
		p.advance()
		opIdx := b.insertOperator(opTok)
		operand, ok := p.parsePrimary(&b.expr)
		if !ok {
			p.errorf("Operand expected")
			break
		}
		b.expr.Nodes[opIdx].Right = operand
		b.prev = b.rightmostLeaf(operand)
	}
	return b.expr
}

// rightmostLeaf walks down the right spine of the subtree rooted at idx,
// stopping at a bracketed/atomic node or a node with no right child. This
// is the node future operators climb from (spec §4.2's insertion point):
// for an ordinary binary operator that's its right operand; for a unary
// prefix operator like `NOT` whose node is otherwise indistinguishable
// from a binary one (Left == -1, Right == operand), it's that operand,
// so a tighter-binding operator following `NOT` splices in as `NOT`'s
// new right child instead of wrapping the whole `NOT` expression.
func (b *exprBuilder) rightmostLeaf(idx int) int {
	for {
		n := b.expr.Nodes[idx]
		if n.Brackets || n.Right == noChild {
			return idx
		}
		idx = n.Right
	}
}

// insertOperator performs the rotation-by-priority-walk described in
// spec §4.2: walk up from the current insertion point until a node of
// strictly lower priority (higher number) or a bracketed node is found,
// or the root is reached; splice the new operator node in at that
// point. `^` is the one right-associative operator (equal priority does
// not get climbed past).
func (b *exprBuilder) insertOperator(opTok token.Token) int {
	p := opPriority(opTok)
	rightAssoc := opTok.Kind == token.Operation && opTok.Text == "^"

	cur := b.prev
	for {
		parentIdx := b.expr.GetParentIndex(cur)
		if parentIdx == noChild {
			opIdx := b.expr.AddNode(ast.Node{Tok: opTok, Left: cur, Right: noChild})
			b.expr.Root = opIdx
			return opIdx
		}
		parent := &b.expr.Nodes[parentIdx]
		pp := parent.Priority()
		stop := parent.Brackets || pp > p || (pp == p && rightAssoc)
		if stop {
			opIdx := b.expr.AddNode(ast.Node{Tok: opTok, Left: cur, Right: noChild})
			if parent.Right == cur {
				parent.Right = opIdx
			} else {
				parent.Left = opIdx
			}
			return opIdx
		}
		cur = parentIdx
	}
}

// parsePrimary parses one operand: a literal, an identifier (optionally
// subscripted), a function call, a bracketed sub-expression, or a unary
// `+`/`-`/`NOT` prefix wrapping a recursively-parsed operand. Returns
// false if the current token cannot start an operand (spec: caller
// reports "Operand expected").
func (p *Parser) parsePrimary(expr *ast.Expression) (int, bool) {
	switch {
	case p.cur.Kind == token.Number:
		idx := expr.NewLeaf(p.cur)
		expr.Nodes[idx].VType = p.cur.VType
		expr.Nodes[idx].ConstVal = true
		p.advance()
		return idx, true

	case p.cur.Kind == token.String:
		idx := expr.NewLeaf(p.cur)
		expr.Nodes[idx].VType = token.TypeString
		expr.Nodes[idx].ConstVal = true
		p.advance()
		return idx, true

	case p.cur.Kind == token.Keyword && p.cur.Tag == token.KeywordNOT:
		return p.parseNot(expr)

	case p.cur.Kind == token.Operation && (p.cur.Text == "-" || p.cur.Text == "+"):
		return p.parseUnary(expr)

	case p.cur.IsOpenBracket():
		return p.parseBracketed(expr)

	case p.cur.Kind == token.Keyword && p.cur.Tag == token.KeywordFN:
		return p.parseFnCall(expr)

	case p.cur.Kind == token.Keyword && p.cur.Tag.IsFunction():
		return p.parseFunctionCall(expr)

	case p.cur.Kind == token.Identifier:
		return p.parseIdentifierRef(expr)

	default:
		return noChild, false
	}
}

// parseUnary parses a unary `+`/`-` prefix. Unlike `NOT`, unary +/- has
// no distinct priority entry of its own (spec §4.2 treats it as
// atomic), so its node is frozen with Brackets set, the same as a
// parenthesized sub-expression.
func (p *Parser) parseUnary(expr *ast.Expression) (int, bool) {
	opTok := p.cur
	p.advance()
	operand, ok := p.parsePrimary(expr)
	if !ok {
		p.errorf("Operand expected")
		return noChild, false
	}
	idx := expr.AddNode(ast.Node{Tok: opTok, Left: noChild, Right: operand, Brackets: true})
	return idx, true
}

// parseNot parses a unary `NOT` prefix at its own priority (8, spec
// §4.2), not frozen like a bracketed atom: a tighter-binding operator
// following `NOT`'s operand (e.g. `=` at priority 7) must still splice
// into `NOT`'s operand rather than wrap the whole `NOT` expression, so
// `NOT A = B` parses as `NOT (A = B)`.
func (p *Parser) parseNot(expr *ast.Expression) (int, bool) {
	opTok := p.cur
	p.advance()
	operand, ok := p.parsePrimary(expr)
	if !ok {
		p.errorf("Operand expected")
		return noChild, false
	}
	idx := expr.AddNode(ast.Node{Tok: opTok, Left: noChild, Right: operand})
	return idx, true
}

func (p *Parser) parseBracketed(expr *ast.Expression) (int, bool) {
	p.advance() // consume '('
	sub := p.parseExpression()
	if !p.cur.IsCloseBracket() {
		p.errorf("Close bracket expected")
		return noChild, false
	}
	p.advance() // consume ')'
	if sub.IsEmpty() {
		p.errorf("Operand expected")
		return noChild, false
	}
	idx := expr.AppendTree(sub)
	expr.Nodes[idx].Brackets = true
	return idx, true
}

// parseFunctionCall parses a function-classified keyword, optionally
// followed by a parenthesized, comma-separated argument list (spec
// §4.2 "Function call"). Argument count is not checked here.
func (p *Parser) parseFunctionCall(expr *ast.Expression) (int, bool) {
	fnTok := p.cur
	p.advance()
	idx := expr.NewLeaf(fnTok)
	if p.cur.IsOpenBracket() {
		args, err := p.parseArgExprList()
		if err {
			return idx, true
		}
		expr.Nodes[idx].Args = args
	}
	return idx, true
}

// parseFnCall parses a user-defined `FN name(args)` reference.
func (p *Parser) parseFnCall(expr *ast.Expression) (int, bool) {
	p.advance() // consume FN
	if p.cur.Kind != token.Identifier {
		p.errorf("Function name expected")
		return noChild, false
	}
	name := p.cur
	name.Text = "FN" + name.Text
	name.Str = "FN" + name.Str
	p.advance()
	idx := expr.NewLeaf(name)
	if p.cur.IsOpenBracket() {
		args, err := p.parseArgExprList()
		if err {
			return idx, true
		}
		expr.Nodes[idx].Args = args
	}
	return idx, true
}

// parseIdentifierRef parses a bare identifier, optionally followed by a
// parenthesized subscript list (an array reference).
func (p *Parser) parseIdentifierRef(expr *ast.Expression) (int, bool) {
	idTok := p.cur
	p.advance()
	idx := expr.NewLeaf(idTok)
	expr.Nodes[idx].VType = idTok.VType
	if p.cur.IsOpenBracket() {
		args, err := p.parseArgExprList()
		if err {
			return idx, true
		}
		expr.Nodes[idx].Args = args
	}
	return idx, true
}

// parseArgExprList parses `( expr [, expr]* )`, consuming both
// parentheses. The bool return is true on a parse error (unterminated
// list).
func (p *Parser) parseArgExprList() ([]ast.Expression, bool) {
	p.advance() // consume '('
	var args []ast.Expression
	if p.cur.IsCloseBracket() {
		p.advance()
		return args, false
	}
	for {
		args = append(args, p.parseExpression())
		if p.cur.IsComma() {
			p.advance()
			continue
		}
		break
	}
	if !p.cur.IsCloseBracket() {
		p.errorf("Close bracket expected")
		return args, true
	}
	p.advance()
	return args, false
}
