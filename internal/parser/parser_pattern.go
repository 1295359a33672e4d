package parser

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/lexer"
)

func (p *Parser) parseMatch() ast.Expr {
	pos := p.pos()
	p.advance() // match
	scrutinee := p.parseExpr(precAboveSemi)
	p.expect(lexer.WITH, "match")
	p.expect(lexer.LPAREN, "match")

	var cases []ast.MatchCase
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		pat := p.parsePattern()
		p.expect(lexer.ARROW, "match case")
		body := p.parseExpr(precAboveSemi)
		cases = append(cases, ast.MatchCase{Pattern: pat, Body: body})
		if p.at(lexer.SEMI) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN, "match")
	return &ast.MatchExpr{Scrutinee: scrutinee, Cases: cases, Pos: pos}
}

func (p *Parser) parsePattern() *ast.Pattern {
	pos := p.pos()
	switch p.cur().Type {
	case lexer.IDENT:
		tok := p.advance()
		if tok.Lit == "_" {
			return &ast.Pattern{Kind: ast.PatWildcard, Pos: pos}
		}
		if isUpper(tok.Lit) {
			// Constructor pattern: possibly applied to further patterns.
			var args []*ast.Pattern
			for p.startsPatternAtom() {
				args = append(args, p.parsePatternAtom())
			}
			return &ast.Pattern{Kind: ast.PatConstructor, Name: tok.Lit, Args: args, Pos: pos}
		}
		return &ast.Pattern{Kind: ast.PatVariable, Name: tok.Lit, Pos: pos}
	case lexer.NUMBER:
		tok := p.advance()
		return &ast.Pattern{Kind: ast.PatLiteral, Lit: &ast.NumberLit{Value: parseFloat(tok.Lit), Raw: tok.Lit, Pos: pos}, Pos: pos}
	case lexer.STRING:
		tok := p.advance()
		return &ast.Pattern{Kind: ast.PatLiteral, Lit: &ast.StringLit{Value: tok.Lit, Pos: pos}, Pos: pos}
	case lexer.LBRACE:
		return p.parseBracedPattern()
	default:
		p.errorf("unexpected token %v in pattern", p.cur())
		p.advance()
		return &ast.Pattern{Kind: ast.PatWildcard, Pos: pos}
	}
}

func (p *Parser) startsPatternAtom() bool {
	switch p.cur().Type {
	case lexer.IDENT, lexer.NUMBER, lexer.STRING, lexer.LBRACE:
		return true
	}
	return false
}

func (p *Parser) parsePatternAtom() *ast.Pattern {
	pos := p.pos()
	switch p.cur().Type {
	case lexer.IDENT:
		tok := p.advance()
		if tok.Lit == "_" {
			return &ast.Pattern{Kind: ast.PatWildcard, Pos: pos}
		}
		if isUpper(tok.Lit) {
			return &ast.Pattern{Kind: ast.PatConstructor, Name: tok.Lit, Pos: pos}
		}
		return &ast.Pattern{Kind: ast.PatVariable, Name: tok.Lit, Pos: pos}
	case lexer.NUMBER:
		tok := p.advance()
		return &ast.Pattern{Kind: ast.PatLiteral, Lit: &ast.NumberLit{Value: parseFloat(tok.Lit), Raw: tok.Lit, Pos: pos}, Pos: pos}
	case lexer.STRING:
		tok := p.advance()
		return &ast.Pattern{Kind: ast.PatLiteral, Lit: &ast.StringLit{Value: tok.Lit, Pos: pos}, Pos: pos}
	case lexer.LBRACE:
		return p.parseBracedPattern()
	default:
		return p.parsePattern()
	}
}

func (p *Parser) parseBracedPattern() *ast.Pattern {
	pos := p.pos()
	p.advance() // {
	if p.at(lexer.ACCESSOR) {
		fields := map[string]*ast.Pattern{}
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			name := p.expect(lexer.ACCESSOR, "record pattern").Lit
			fields[name] = p.parsePattern()
			if p.at(lexer.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE, "record pattern")
		return &ast.Pattern{Kind: ast.PatRecord, Fields: fields, Pos: pos}
	}
	var elems []*ast.Pattern
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		elems = append(elems, p.parsePattern())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE, "tuple pattern")
	return &ast.Pattern{Kind: ast.PatTuple, Args: elems, Pos: pos}
}

func isUpper(s string) bool {
	if s == "" {
		return false
	}
	r := s[0]
	return r >= 'A' && r <= 'Z'
}
