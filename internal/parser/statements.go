package parser

import (
	"strconv"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/ast"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
)

func (p *Parser) parseImplicitLet() ast.Statement {
	stmt := ast.Statement{Keyword: token.Token{Kind: token.Keyword, Tag: token.KeywordLET, Text: "LET"}}
	p.parseLetTarget(&stmt)
	return stmt
}

func (p *Parser) parseLet() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	p.parseLetTarget(&stmt)
	return stmt
}

func (p *Parser) parseLetTarget(stmt *ast.Statement) {
	if p.cur.Kind != token.Identifier {
		p.errorf("Identifier expected")
		p.skipToEndOfLine()
		return
	}
	ident := p.cur
	stmt.Ident = ident
	stmt.HasIdent = true
	p.advance()

	vexpr := ast.VariableExpr{Variable: ast.Variable{Name: ast.CanonicalName(ident.Str)}}
	if p.cur.IsOpenBracket() {
		subs, err := p.parseArgExprList()
		if err {
			return
		}
		vexpr.Subscript = subs
		vexpr.Variable.Extents = make([]int, len(subs))
	}
	stmt.VarExprs = append(stmt.VarExprs, vexpr)

	if !p.cur.IsEqualSign() {
		p.errorf("Equal sign expected")
		p.skipToEndOfLine()
		return
	}
	p.advance()
	stmt.Args = append(stmt.Args, p.parseExpression())
}

// parsePrintShorthand parses a line led by `?`, the PRINT alias.
func (p *Parser) parsePrintShorthand() ast.Statement {
	kw := p.cur
	kw.Tag = token.KeywordPRINT
	p.advance()
	return p.parsePrintBody(kw)
}

func (p *Parser) parsePrint() ast.Statement {
	kw := p.cur
	p.advance()
	return p.parsePrintBody(kw)
}

func (p *Parser) parsePrintBody(kw token.Token) ast.Statement {
	stmt := ast.Statement{Keyword: kw}
	for !p.cur.IsEolOrEof() {
		if p.cur.IsSemicolon() || p.cur.IsComma() {
			stmt.NoCRLF = p.cur.IsSemicolon()
			p.advance()
			continue
		}
		stmt.NoCRLF = false
		stmt.Args = append(stmt.Args, p.parseExpression())
	}
	return stmt
}

func (p *Parser) parseInput() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}

	if p.cur.Kind == token.String {
		stmt.Params = append(stmt.Params, p.cur)
		p.advance()
		if p.cur.IsSemicolon() || p.cur.IsComma() {
			p.advance()
		}
	}

	for {
		if p.cur.Kind != token.Identifier {
			p.errorf("Identifier expected")
			break
		}
		ident := p.cur
		p.advance()
		vref := ast.VariableExpr{Variable: ast.Variable{Name: ast.CanonicalName(ident.Str)}}
		if p.cur.IsOpenBracket() {
			subs, err := p.parseArgExprList()
			if err {
				break
			}
			vref.Subscript = subs
			vref.Variable.Extents = make([]int, len(subs))
		}
		stmt.Vars = append(stmt.Vars, vref)
		if p.cur.IsComma() {
			p.advance()
			continue
		}
		break
	}
	return stmt
}

func (p *Parser) parseDim() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	for {
		if p.cur.Kind != token.Identifier {
			p.errorf("Identifier expected")
			break
		}
		ident := p.cur
		p.advance()
		vref := ast.VariableExpr{Variable: ast.Variable{Name: ast.CanonicalName(ident.Str)}}
		if p.cur.IsOpenBracket() {
			subs, err := p.parseArgExprList()
			if err {
				break
			}
			vref.Subscript = subs
			extents := make([]int, len(subs))
			for i, s := range subs {
				if !s.IsEmpty() && s.Nodes[s.Root].Tok.Kind == token.Number {
					extents[i] = int(s.Nodes[s.Root].Tok.Value)
				}
			}
			vref.Variable.Extents = extents
		}
		stmt.Vars = append(stmt.Vars, vref)
		if p.cur.IsComma() {
			p.advance()
			continue
		}
		break
	}
	return stmt
}

func (p *Parser) parseFor() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	if p.cur.Kind != token.Identifier {
		p.errorf("Identifier expected")
		p.skipToEndOfLine()
		return stmt
	}
	stmt.Ident = p.cur
	stmt.HasIdent = true
	p.advance()
	if !p.cur.IsEqualSign() {
		p.errorf("Equal sign expected")
		p.skipToEndOfLine()
		return stmt
	}
	p.advance()
	stmt.Args = append(stmt.Args, p.parseExpression()) // e1: initial value
	if p.cur.Kind != token.Keyword || p.cur.Tag != token.KeywordTO {
		p.errorf("TO expected")
		p.skipToEndOfLine()
		return stmt
	}
	p.advance()
	stmt.Args = append(stmt.Args, p.parseExpression()) // e2: TO bound
	if p.cur.Kind == token.Keyword && p.cur.Tag == token.KeywordSTEP {
		p.advance()
		stmt.Args = append(stmt.Args, p.parseExpression()) // e3: STEP
	}
	return stmt
}

func (p *Parser) parseNext() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	for p.cur.Kind == token.Identifier {
		vref := ast.VariableExpr{Variable: ast.Variable{Name: ast.CanonicalName(p.cur.Str)}}
		stmt.Vars = append(stmt.Vars, vref)
		p.advance()
		if p.cur.IsComma() {
			p.advance()
			continue
		}
		break
	}
	return stmt
}

func (p *Parser) parseLineTargetOrStatement() (int, *ast.Statement) {
	if p.cur.Kind == token.Number {
		n, _ := strconv.Atoi(p.cur.Text)
		p.advance()
		return n, nil
	}
	sub, _ := p.parseStatement()
	return 0, &sub
}

func (p *Parser) parseIf() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	stmt.Args = append(stmt.Args, p.parseExpression())
	if p.cur.Kind != token.Keyword || p.cur.Tag != token.KeywordTHEN {
		p.errorf("THEN expected")
		p.skipToEndOfLine()
		return stmt
	}
	p.advance()
	line, sub := p.parseLineTargetOrStatement()
	if sub != nil {
		stmt.Then = sub
	} else {
		stmt.Params = append(stmt.Params, token.Token{Kind: token.Number, Value: float64(line), Text: strconv.Itoa(line)})
	}
	if p.cur.Kind == token.Keyword && p.cur.Tag == token.KeywordELSE {
		p.advance()
		line, sub := p.parseLineTargetOrStatement()
		if sub != nil {
			stmt.Else = sub
		} else {
			stmt.Params = append(stmt.Params, token.Token{Kind: token.Number, Value: float64(line), Text: strconv.Itoa(line)})
		}
	}
	return stmt
}

func (p *Parser) parseOn() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	stmt.Args = append(stmt.Args, p.parseExpression())
	if p.cur.Kind != token.Keyword || (p.cur.Tag != token.KeywordGOTO && p.cur.Tag != token.KeywordGOSUB) {
		p.errorf("GOTO or GOSUB expected")
		p.skipToEndOfLine()
		return stmt
	}
	stmt.GotoGosub = p.cur.Tag == token.KeywordGOSUB
	p.advance()
	for {
		if p.cur.Kind != token.Number {
			p.errorf("Line number expected")
			break
		}
		stmt.Params = append(stmt.Params, p.cur)
		p.advance()
		if p.cur.IsComma() {
			p.advance()
			continue
		}
		break
	}
	return stmt
}

func (p *Parser) parseData() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	for {
		if p.cur.Kind != token.Number && p.cur.Kind != token.String && p.cur.Kind != token.Identifier {
			break
		}
		stmt.Params = append(stmt.Params, p.cur)
		p.advance()
		if p.cur.IsComma() {
			p.advance()
			continue
		}
		break
	}
	return stmt
}

func (p *Parser) parseRead() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	for p.cur.Kind == token.Identifier {
		vref := ast.VariableExpr{Variable: ast.Variable{Name: ast.CanonicalName(p.cur.Str)}}
		p.advance()
		if p.cur.IsOpenBracket() {
			subs, err := p.parseArgExprList()
			if err {
				break
			}
			vref.Subscript = subs
		}
		stmt.Vars = append(stmt.Vars, vref)
		if p.cur.IsComma() {
			p.advance()
			continue
		}
		break
	}
	return stmt
}

func (p *Parser) parseRestore() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	if p.cur.Kind == token.Number {
		n, _ := strconv.Atoi(p.cur.Text)
		stmt.TargetLine = n
		stmt.HasTarget = true
		p.advance()
	}
	return stmt
}

func (p *Parser) parseGoto() ast.Statement {
	return p.parseLineTarget(token.KeywordGOTO)
}

func (p *Parser) parseGosub() ast.Statement {
	return p.parseLineTarget(token.KeywordGOSUB)
}

func (p *Parser) parseLineTarget(tag token.Keyword) ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	if p.cur.Kind != token.Number {
		p.errorf("Line number expected")
		p.skipToEndOfLine()
		return stmt
	}
	n, err := strconv.Atoi(p.cur.Text)
	if err != nil {
		p.errorf("Invalid line number %s", p.cur.Text)
	}
	stmt.TargetLine = n
	stmt.HasTarget = true
	p.advance()
	return stmt
}

func (p *Parser) parsePoke() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	stmt.Args = append(stmt.Args, p.parseExpression())
	if !p.cur.IsComma() {
		p.errorf("Comma expected")
		p.skipToEndOfLine()
		return stmt
	}
	p.advance()
	stmt.Args = append(stmt.Args, p.parseExpression())
	return stmt
}

func (p *Parser) parseOut() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}
	stmt.Args = append(stmt.Args, p.parseExpression())
	if !p.cur.IsComma() {
		p.errorf("Comma expected")
		p.skipToEndOfLine()
		return stmt
	}
	p.advance()
	stmt.Args = append(stmt.Args, p.parseExpression())
	return stmt
}

// parseDef parses `DEF FN name[(params)] = expr` or `DEF USR [n] = addr`
// (spec §3 `deffnorusr` flag; SPEC_FULL.md "DEF FN/DEF USR").
func (p *Parser) parseDef() ast.Statement {
	kw := p.cur
	p.advance()
	stmt := ast.Statement{Keyword: kw}

	switch {
	case p.cur.Kind == token.Keyword && p.cur.Tag == token.KeywordFN:
		stmt.DefFnOrUsr = false
		p.advance()
		if p.cur.Kind != token.Identifier {
			p.errorf("Function name expected")
			p.skipToEndOfLine()
			return stmt
		}
		name := p.cur
		name.Text = "FN" + name.Text
		name.Str = "FN" + name.Str
		stmt.Ident = name
		stmt.HasIdent = true
		p.advance()
		if p.cur.IsOpenBracket() {
			p.advance()
			for p.cur.Kind == token.Identifier {
				stmt.Params = append(stmt.Params, p.cur)
				p.advance()
				if p.cur.IsComma() {
					p.advance()
					continue
				}
				break
			}
			if p.cur.IsCloseBracket() {
				p.advance()
			} else {
				p.errorf("Close bracket expected")
			}
		}
		if !p.cur.IsEqualSign() {
			p.errorf("Equal sign expected")
			p.skipToEndOfLine()
			return stmt
		}
		p.advance()
		stmt.Args = append(stmt.Args, p.parseExpression())

	case p.cur.Kind == token.Keyword && p.cur.Tag == token.KeywordUSR:
		stmt.DefFnOrUsr = true
		p.advance()
		if p.cur.Kind == token.Number {
			stmt.Params = append(stmt.Params, p.cur)
			p.advance()
		}
		if !p.cur.IsEqualSign() {
			p.errorf("Equal sign expected")
			p.skipToEndOfLine()
			return stmt
		}
		p.advance()
		stmt.Args = append(stmt.Args, p.parseExpression())

	default:
		p.errorf("FN or USR expected")
		p.skipToEndOfLine()
	}
	return stmt
}
