package parser

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/lexer"
)

// Precedence levels, lowest to highest, matching spec §6.1:
//
//	;  $  |  |?  |>  <|  ==/!=/</>/<=/>=  +/-  * / %  (application)
const (
	precSemi = iota
	precAboveSemi
	precDollar
	precThrush
	precSafeBind
	precPipeline
	precCompare
	precAdd
	precMul
)

func binPrecedence(tt lexer.TokenType) (int, bool, bool) {
	// returns (precedence, isRightAssoc, ok)
	switch tt {
	case lexer.SEMI:
		return precSemi, true, true
	case lexer.DOLLAR:
		return precDollar, true, true
	case lexer.PIPE:
		return precThrush, false, true
	case lexer.SAFEBIND:
		return precSafeBind, false, true
	case lexer.PIPEFWD, lexer.PIPEBACK:
		return precPipeline, false, true
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LE, lexer.GE:
		return precCompare, false, true
	case lexer.PLUS, lexer.MINUS:
		return precAdd, false, true
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return precMul, false, true
	}
	return 0, false, false
}

func opLiteral(tt lexer.TokenType) string {
	switch tt {
	case lexer.SEMI:
		return ";"
	case lexer.DOLLAR:
		return "$"
	case lexer.PIPE:
		return "|"
	case lexer.SAFEBIND:
		return "|?"
	case lexer.PIPEFWD:
		return "|>"
	case lexer.PIPEBACK:
		return "<|"
	case lexer.EQ:
		return "=="
	case lexer.NEQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.GT:
		return ">"
	case lexer.LE:
		return "<="
	case lexer.GE:
		return ">="
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	}
	return "?"
}

// parseExpr is the precedence-climbing entry point. minPrec excludes
// operators binding more loosely than it (e.g. callers inside a parenthesized
// argument pass precAboveSemi to stop at top-level ';').
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseApplication()

	for {
		prec, rightAssoc, ok := binPrecedence(p.cur().Type)
		if !ok || prec < minPrec {
			break
		}
		// Mixing |> and <| in the same chain is rejected (spec §4.4).
		opTok := p.cur().Type
		pos := p.pos()
		op := opLiteral(opTok)
		p.advance()

		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right := p.parseExpr(nextMin)

		if be, ok := left.(*ast.BinaryExpr); ok && prec == precPipeline {
			if (be.Op == "|>" && op == "<|") || (be.Op == "<|" && op == "|>") {
				p.errorf("cannot mix |> and <| in the same pipeline chain")
			}
		}

		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left
}

// parseApplication parses juxtaposition application: a primary atom
// followed by zero or more further atoms, left-associative and curried.
func (p *Parser) parseApplication() ast.Expr {
	fn := p.parsePrimary()
	var args []ast.Expr
	pos := fn.Position()
	for p.startsAtom() {
		args = append(args, p.parsePrimary())
	}
	if len(args) == 0 {
		return p.parsePostfix(fn)
	}
	return p.parsePostfix(&ast.AppExpr{Func: fn, Args: args, Pos: pos})
}

// parsePostfix attaches trailing `: T` annotations and `where (...)` clauses.
func (p *Parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		switch p.cur().Type {
		case lexer.COLON:
			pos := p.pos()
			p.advance()
			t := p.parseTypeExpr()
			var given []ast.GivenConstraint
			if p.at(lexer.GIVEN) {
				given = p.parseGivenList()
			}
			e = &ast.AnnotatedExpr{Expr: e, Annotation: ast.TypeAnnotation{Type: t, Given: given}, Pos: pos}
		case lexer.WHERE:
			pos := p.pos()
			p.advance()
			p.expect(lexer.LPAREN, "where")
			var defs []ast.Expr
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				defs = append(defs, p.parseStatement())
				if p.at(lexer.SEMI) {
					p.advance()
				}
			}
			p.expect(lexer.RPAREN, "where")
			e = &ast.WhereExpr{Body: e, Defs: defs, Pos: pos}
		default:
			return e
		}
	}
}

// startsAtom reports whether the current token can begin a juxtaposed
// argument, i.e. an application continues rather than terminating.
func (p *Parser) startsAtom() bool {
	switch p.cur().Type {
	case lexer.NUMBER, lexer.STRING, lexer.IDENT, lexer.ACCESSOR,
		lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET, lexer.FN, lexer.IF, lexer.MATCH:
		return true
	}
	return false
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos()
	switch p.cur().Type {
	case lexer.NUMBER:
		tok := p.advance()
		return &ast.NumberLit{Value: parseFloat(tok.Lit), Raw: tok.Lit, Pos: pos}
	case lexer.STRING:
		tok := p.advance()
		return &ast.StringLit{Value: tok.Lit, Pos: pos}
	case lexer.IDENT:
		tok := p.advance()
		if tok.Lit == "True" {
			return &ast.BoolLit{Value: true, Pos: pos}
		}
		if tok.Lit == "False" {
			return &ast.BoolLit{Value: false, Pos: pos}
		}
		return &ast.Identifier{Name: tok.Lit, Pos: pos}
	case lexer.ACCESSOR:
		tok := p.advance()
		optional := false
		if p.at(lexer.QUESTION) {
			p.advance()
			optional = true
		}
		return &ast.Accessor{Field: tok.Lit, Optional: optional, Pos: pos}
	case lexer.FN:
		return p.parseFunc()
	case lexer.IF:
		return p.parseIf()
	case lexer.MATCH:
		return p.parseMatch()
	case lexer.LPAREN:
		p.advance()
		e := p.parseExpr(precSemi)
		p.expect(lexer.RPAREN, "parenthesized expression")
		return e
	case lexer.LBRACKET:
		return p.parseList()
	case lexer.LBRACE:
		return p.parseBraced()
	default:
		p.errorf("unexpected token %v", p.cur())
		tok := p.advance()
		return &ast.Identifier{Name: tok.Lit, Pos: pos}
	}
}

func parseFloat(s string) float64 {
	var v float64
	var frac float64 = 1
	seenDot := false
	for _, r := range s {
		if r == '.' {
			seenDot = true
			continue
		}
		d := float64(r - '0')
		if seenDot {
			frac /= 10
			v += d * frac
		} else {
			v = v*10 + d
		}
	}
	return v
}

func (p *Parser) parseFunc() ast.Expr {
	pos := p.pos()
	p.advance() // fn
	var params []ast.FuncParam
	for p.at(lexer.IDENT) {
		params = append(params, ast.FuncParam{Name: p.advance().Lit})
	}
	p.expect(lexer.ARROW, "function")
	body := p.parseExpr(precAboveSemi)
	return &ast.FuncExpr{Params: params, Body: body, Pos: pos}
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.pos()
	p.advance() // if
	cond := p.parseExpr(precAboveSemi)
	p.expect(lexer.THEN, "if")
	then := p.parseExpr(precAboveSemi)
	p.expect(lexer.ELSE, "if")
	els := p.parseExpr(precAboveSemi)
	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Pos: pos}
}

func (p *Parser) parseList() ast.Expr {
	pos := p.pos()
	p.advance() // [
	var elems []ast.Expr
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		elems = append(elems, p.parseExpr(precAboveSemi))
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET, "list literal")
	return &ast.ListLit{Elements: elems, Pos: pos}
}

// parseBraced disambiguates `{a, b}` (tuple) from `{@f v, @g w}` (record).
func (p *Parser) parseBraced() ast.Expr {
	pos := p.pos()
	p.advance() // {
	if p.at(lexer.RBRACE) {
		p.advance()
		return &ast.TupleLit{Pos: pos}
	}
	if p.at(lexer.ACCESSOR) {
		var fields []ast.RecordField
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			name := p.expect(lexer.ACCESSOR, "record literal").Lit
			val := p.parseExpr(precAboveSemi)
			fields = append(fields, ast.RecordField{Name: name, Value: val})
			if p.at(lexer.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE, "record literal")
		return &ast.RecordLit{Fields: fields, Pos: pos}
	}
	var elems []ast.Expr
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		elems = append(elems, p.parseExpr(precAboveSemi))
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE, "tuple literal")
	return &ast.TupleLit{Elements: elems, Pos: pos}
}
