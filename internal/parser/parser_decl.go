package parser

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/lexer"
)

// parseTypeDecl parses `type T a b = C1 f1 f2 | C2 | ...`.
func (p *Parser) parseTypeDecl() ast.Expr {
	pos := p.pos()
	p.advance() // type
	name := p.expect(lexer.IDENT, "type declaration").Lit
	var params []string
	for p.at(lexer.IDENT) {
		params = append(params, p.advance().Lit)
	}
	p.expect(lexer.ASSIGN, "type declaration")

	var ctors []ast.VariantCtor
	for {
		cname := p.expect(lexer.IDENT, "type declaration").Lit
		var fields []ast.TypeExpr
		for p.startsTypeAtom() {
			fields = append(fields, p.parseTypeAtom())
		}
		ctors = append(ctors, ast.VariantCtor{Name: cname, Fields: fields})
		if p.cur().Type == lexer.PIPE {
			p.advance()
			continue
		}
		break
	}
	return &ast.TypeDeclExpr{Name: name, TypeParams: params, Ctors: ctors, Pos: pos}
}

// parseConstraintDecl parses `constraint Name a ( f : sig; ... )`.
func (p *Parser) parseConstraintDecl() ast.Expr {
	pos := p.pos()
	p.advance() // constraint
	name := p.expect(lexer.IDENT, "constraint declaration").Lit
	typeParam := p.expect(lexer.IDENT, "constraint declaration").Lit
	p.expect(lexer.LPAREN, "constraint declaration")

	var funcs []ast.TraitFuncSig
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		fname := p.expect(lexer.IDENT, "constraint function").Lit
		p.expect(lexer.COLON, "constraint function")
		sig := p.parseTypeExpr()
		funcs = append(funcs, ast.TraitFuncSig{Name: fname, Sig: sig})
		if p.at(lexer.SEMI) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN, "constraint declaration")
	return &ast.ConstraintDeclExpr{Name: name, TypeParam: typeParam, Functions: funcs, Pos: pos}
}

// parseImplementDecl parses `implement Name T given ... ( f = expr; ... )`.
func (p *Parser) parseImplementDecl() ast.Expr {
	pos := p.pos()
	p.advance() // implement
	traitName := p.expect(lexer.IDENT, "implement declaration").Lit
	typeName := p.expect(lexer.IDENT, "implement declaration").Lit

	var given []ast.GivenConstraint
	if p.at(lexer.GIVEN) {
		given = p.parseGivenList()
	}

	p.expect(lexer.LPAREN, "implement declaration")
	var funcs []ast.ImplementFunc
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		fname := p.expect(lexer.IDENT, "implement function").Lit
		p.expect(lexer.ASSIGN, "implement function")
		body := p.parseExpr(precAboveSemi)
		funcs = append(funcs, ast.ImplementFunc{Name: fname, Body: body})
		if p.at(lexer.SEMI) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN, "implement declaration")
	return &ast.ImplementDeclExpr{TraitName: traitName, TypeName: typeName, Given: given, Functions: funcs, Pos: pos}
}
