// Package parser builds an internal/ast tree from a token stream.
//
// Like the lexer, the parser is an external collaborator to the core type
// system and evaluator (spec §1): only the AST shapes it produces are part
// of the contract. It uses a standard precedence-climbing ("Pratt")
// expression parser over the operator table in spec §6.1.
package parser

import (
	"fmt"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/lexer"
)

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	toks []lexer.Token
	pos  int
	file string
	errs []error
}

// New creates a Parser over already-tokenized source.
func New(toks []lexer.Token, file string) *Parser {
	return &Parser{toks: toks, file: file}
}

// Parse lexes and parses src in one step.
func Parse(src []byte, file string) (*ast.Program, error) {
	toks := lexer.Tokenize(src, file)
	p := New(toks, file)
	prog := p.ParseProgram()
	if len(p.errs) > 0 {
		return prog, p.errs[0]
	}
	return prog, nil
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) expect(tt lexer.TokenType, ctx string) lexer.Token {
	if !p.at(tt) {
		p.errorf("expected %v in %s, got %v", tt, ctx, p.cur())
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, &ParseError{
		Pos:     p.pos(),
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Parser) pos() ast.Pos {
	t := p.cur()
	return ast.Pos{Line: t.Line, Column: t.Column, File: p.file}
}

// ParseError wraps a syntax error with its source position; propagated
// unchanged by the inferencer and evaluator per spec §7.
type ParseError struct {
	Pos     ast.Pos
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %s", e.Pos, e.Message)
}

// ParseProgram parses a whole source file: a ';'-separated sequence of
// top-level expressions.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Pos: p.pos()}
	for !p.at(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.at(lexer.SEMI) {
			p.advance()
			continue
		}
		if !p.at(lexer.EOF) {
			// Allow juxtaposed top-level statements without a trailing ';'
			// only at true EOF; otherwise this is likely an error the
			// statement parser already recorded.
		}
	}
	return prog
}

// parseStatement parses one top-level or where-block entry: an import, a
// type/constraint/implement declaration, a definition, or a bare
// expression.
func (p *Parser) parseStatement() ast.Expr {
	switch p.cur().Type {
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.TYPE:
		return p.parseTypeDecl()
	case lexer.CONSTRAINT:
		return p.parseConstraintDecl()
	case lexer.IMPLEMENT:
		return p.parseImplementDecl()
	case lexer.MUT:
		return p.parseMutOrDefine()
	default:
		return p.parseDefineOrExpr()
	}
}

func (p *Parser) parseImport() ast.Expr {
	pos := p.pos()
	p.advance() // import
	tok := p.expect(lexer.STRING, "import")
	return &ast.ImportExpr{Path: tok.Lit, Pos: pos}
}

// parseDefineOrExpr handles `name = expr`, `name p1 p2 = expr` (function
// sugar), `name : T = expr`, and plain expressions.
func (p *Parser) parseDefineOrExpr() ast.Expr {
	if p.at(lexer.IDENT) && p.identLooksLikeDefineStart() {
		return p.parseDefine(false)
	}
	return p.parseExpr(0)
}

// identLooksLikeDefineStart scans ahead without consuming to decide whether
// the current identifier begins a definition (`name ... =`) as opposed to
// an application or operator expression starting with that identifier.
func (p *Parser) identLooksLikeDefineStart() bool {
	save := p.pos
	defer func() { p.pos = save }()

	if !p.at(lexer.IDENT) {
		return false
	}
	p.advance()
	// name param* = ...  OR  name : Type = ...  OR  name = ...
	for p.at(lexer.IDENT) {
		p.advance()
	}
	if p.at(lexer.COLON) {
		// consume up to ASSIGN at the same nesting depth
		depth := 0
		for !(depth == 0 && p.at(lexer.ASSIGN)) && !p.at(lexer.EOF) && !p.at(lexer.SEMI) {
			switch p.cur().Type {
			case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
				depth++
			case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
				depth--
			}
			p.advance()
		}
	}
	return p.at(lexer.ASSIGN)
}

func (p *Parser) parseMutOrDefine() ast.Expr {
	pos := p.pos()
	p.advance() // mut
	if p.at(lexer.BANG) {
		p.advance()
		name := p.expect(lexer.IDENT, "mut!").Lit
		p.expect(lexer.ASSIGN, "mut!")
		val := p.parseExpr(precAboveSemi)
		return &ast.MutateExpr{Name: name, Value: val, Pos: pos}
	}
	return p.parseDefine(true)
}

// parseDefine parses `name param* (: T given ...)? = value`.
func (p *Parser) parseDefine(mutable bool) ast.Expr {
	pos := p.pos()
	name := p.expect(lexer.IDENT, "definition").Lit

	var params []ast.FuncParam
	for p.at(lexer.IDENT) {
		params = append(params, ast.FuncParam{Name: p.advance().Lit})
	}

	var ann *ast.TypeAnnotation
	if p.at(lexer.COLON) {
		p.advance()
		t := p.parseTypeExpr()
		var given []ast.GivenConstraint
		if p.at(lexer.GIVEN) {
			given = p.parseGivenList()
		}
		ann = &ast.TypeAnnotation{Type: t, Given: given}
	}

	p.expect(lexer.ASSIGN, "definition")
	value := p.parseExpr(precAboveSemi)

	if len(params) > 0 {
		value = &ast.FuncExpr{Params: params, Body: value, Pos: pos}
	}

	var whereDefs []ast.Expr
	if p.at(lexer.WHERE) {
		p.advance()
		p.expect(lexer.LPAREN, "where")
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			whereDefs = append(whereDefs, p.parseStatement())
			if p.at(lexer.SEMI) {
				p.advance()
			}
		}
		p.expect(lexer.RPAREN, "where")
	}

	def := &ast.DefineExpr{Name: name, Value: value, Mutable: mutable, Annotation: ann, Pos: pos}
	if whereDefs != nil {
		return &ast.WhereExpr{Body: def, Defs: whereDefs, Pos: pos}
	}
	return def
}
