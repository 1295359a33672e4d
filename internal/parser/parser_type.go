package parser

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/lexer"
)

// parseTypeExpr parses a type annotation, handling the function-arrow chain
// `a -> b -> c` (right-associative) and an optional trailing effect row
// `!{read, write}`.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	first := p.parseTypeAtomApp()
	if !p.at(lexer.TARROW) {
		return first
	}
	params := []ast.TypeExpr{first}
	var ret ast.TypeExpr
	for {
		p.advance() // ->
		next := p.parseTypeAtomApp()
		if p.at(lexer.TARROW) {
			params = append(params, next)
			continue
		}
		ret = next
		break
	}
	var effects []string
	if p.at(lexer.BANG) {
		p.advance()
		p.expect(lexer.LBRACE, "effect row")
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			effects = append(effects, p.expect(lexer.IDENT, "effect row").Lit)
			if p.at(lexer.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE, "effect row")
	}
	return &ast.TypeFunc{Params: params, Return: ret, Effects: effects, Pos: first.Position()}
}

// parseTypeAtomApp parses a type constructor application `Option Float` or
// a bare atom.
func (p *Parser) parseTypeAtomApp() ast.TypeExpr {
	atom := p.parseTypeAtom()
	if name, ok := atom.(*ast.TypeName); ok && isUpper(name.Name) {
		var args []ast.TypeExpr
		for p.startsTypeAtom() {
			args = append(args, p.parseTypeAtom())
		}
		if len(args) > 0 {
			return &ast.TypeApp{Name: name.Name, Args: args, Pos: name.Pos}
		}
	}
	return atom
}

func (p *Parser) startsTypeAtom() bool {
	switch p.cur().Type {
	case lexer.IDENT, lexer.LBRACKET, lexer.LBRACE, lexer.LPAREN:
		return true
	}
	return false
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	pos := p.pos()
	switch p.cur().Type {
	case lexer.IDENT:
		tok := p.advance()
		return &ast.TypeName{Name: tok.Lit, Pos: pos}
	case lexer.LBRACKET:
		p.advance()
		el := p.parseTypeExpr()
		p.expect(lexer.RBRACKET, "list type")
		return &ast.TypeList{Element: el, Pos: pos}
	case lexer.LPAREN:
		p.advance()
		t := p.parseTypeExpr()
		p.expect(lexer.RPAREN, "parenthesized type")
		return t
	case lexer.LBRACE:
		return p.parseBracedType()
	default:
		p.errorf("unexpected token %v in type", p.cur())
		p.advance()
		return &ast.TypeName{Name: "?", Pos: pos}
	}
}

func (p *Parser) parseBracedType() ast.TypeExpr {
	pos := p.pos()
	p.advance() // {
	if p.at(lexer.ACCESSOR) {
		var fields []ast.RecordFieldType
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			name := p.expect(lexer.ACCESSOR, "record type").Lit
			t := p.parseTypeExpr()
			fields = append(fields, ast.RecordFieldType{Name: name, Type: t})
			if p.at(lexer.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE, "record type")
		return &ast.TypeRecord{Fields: fields, Pos: pos}
	}
	var elems []ast.TypeExpr
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		elems = append(elems, p.parseTypeExpr())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE, "tuple type")
	return &ast.TypeTuple{Elements: elems, Pos: pos}
}

// parseRowExpr parses the `{@f T, @g {...}}` syntax used inside `has`
// constraints, supporting nested rows.
func (p *Parser) parseRowExpr() *ast.RowExpr {
	pos := p.pos()
	p.expect(lexer.LBRACE, "row")
	var fields []ast.RowFieldExpr
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		name := p.expect(lexer.ACCESSOR, "row field").Lit
		if p.at(lexer.LBRACE) {
			nested := p.parseRowExpr()
			fields = append(fields, ast.RowFieldExpr{Name: name, Nested: nested})
		} else {
			t := p.parseTypeExpr()
			fields = append(fields, ast.RowFieldExpr{Name: name, Type: t})
		}
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE, "row")
	return &ast.RowExpr{Fields: fields, Pos: pos}
}

// parseGivenList parses one or more `given a implements T` / `given a has
// {...}` clauses, comma-separated.
func (p *Parser) parseGivenList() []ast.GivenConstraint {
	p.advance() // given
	var out []ast.GivenConstraint
	for {
		tv := p.expect(lexer.IDENT, "given").Lit
		switch p.cur().Type {
		case lexer.IMPLEMENTS:
			p.advance()
			trait := p.expect(lexer.IDENT, "given implements").Lit
			out = append(out, ast.GivenConstraint{TypeVar: tv, Trait: trait})
		case lexer.HAS:
			p.advance()
			row := p.parseRowExpr()
			out = append(out, ast.GivenConstraint{TypeVar: tv, Structure: row})
		default:
			p.errorf("expected 'implements' or 'has' after 'given %s'", tv)
		}
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return out
}
