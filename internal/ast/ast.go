// Package ast defines the syntax tree produced by the lexer and parser.
//
// The core type system and evaluator treat this package as an external
// contract: only the shapes defined here matter, not how they were parsed.
package ast

import "fmt"

// Pos identifies a location in source text.
type Pos struct {
	Line   int
	Column int
	File   string
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a source range used for diagnostics.
type Span struct {
	Start Pos
	End   Pos
}

// Node is implemented by every AST node.
type Node interface {
	String() string
	Position() Pos
}

// Expr is implemented by every expression node. Noolang is
// expression-oriented: statements are just expressions evaluated for their
// effects, and a program is a semicolon-separated sequence of expressions.
type Expr interface {
	Node
	exprNode()
}

// Program is a parsed source file: a sequence of top-level expressions,
// separated (conceptually) by ';'. The value of the program is the value of
// the final expression.
type Program struct {
	Statements []Expr
	Pos        Pos
}

func (p *Program) Position() Pos { return p.Pos }
func (p *Program) String() string {
	s := ""
	for i, e := range p.Statements {
		if i > 0 {
			s += "; "
		}
		s += e.String()
	}
	return s
}

// ---- Literals ----

type NumberLit struct {
	Value float64
	Raw   string // original lexical form, kept for REPL echo only
	Pos   Pos
}

func (n *NumberLit) exprNode()        {}
func (n *NumberLit) Position() Pos    { return n.Pos }
func (n *NumberLit) String() string   { return n.Raw }

type StringLit struct {
	Value string
	Pos   Pos
}

func (s *StringLit) exprNode()      {}
func (s *StringLit) Position() Pos  { return s.Pos }
func (s *StringLit) String() string { return fmt.Sprintf("%q", s.Value) }

// BoolLit appears as a convenience constructor node; at the type/value level
// booleans are the nullary-constructor Variant{True,False}, per spec.
type BoolLit struct {
	Value bool
	Pos   Pos
}

func (b *BoolLit) exprNode()     {}
func (b *BoolLit) Position() Pos { return b.Pos }
func (b *BoolLit) String() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// ---- Identifiers, accessors ----

type Identifier struct {
	Name string
	Pos  Pos
}

func (i *Identifier) exprNode()     {}
func (i *Identifier) Position() Pos { return i.Pos }
func (i *Identifier) String() string { return i.Name }

// Accessor is `@field` or `@field?` (optional form).
type Accessor struct {
	Field    string
	Optional bool
	Pos      Pos
}

func (a *Accessor) exprNode()     {}
func (a *Accessor) Position() Pos { return a.Pos }
func (a *Accessor) String() string {
	if a.Optional {
		return "@" + a.Field + "?"
	}
	return "@" + a.Field
}

// ---- Compound literals ----

type ListLit struct {
	Elements []Expr
	Pos      Pos
}

func (l *ListLit) exprNode()     {}
func (l *ListLit) Position() Pos { return l.Pos }
func (l *ListLit) String() string {
	s := "["
	for i, e := range l.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}

type TupleLit struct {
	Elements []Expr
	Pos      Pos
}

func (t *TupleLit) exprNode()     {}
func (t *TupleLit) Position() Pos { return t.Pos }
func (t *TupleLit) String() string {
	s := "{"
	for i, e := range t.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "}"
}

// RecordField is one `@name value` entry of a record literal.
type RecordField struct {
	Name  string
	Value Expr
}

type RecordLit struct {
	Fields []RecordField
	Pos    Pos
}

func (r *RecordLit) exprNode()     {}
func (r *RecordLit) Position() Pos { return r.Pos }
func (r *RecordLit) String() string {
	s := "{"
	for i, f := range r.Fields {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("@%s %s", f.Name, f.Value.String())
	}
	return s + "}"
}

// ---- Functions & application ----

type FuncParam struct {
	Name string
	// Annotation is an optional parsed type annotation; nil if absent.
	Annotation TypeExpr
}

type FuncExpr struct {
	Params []FuncParam
	Body   Expr
	Pos    Pos
}

func (f *FuncExpr) exprNode()     {}
func (f *FuncExpr) Position() Pos { return f.Pos }
func (f *FuncExpr) String() string {
	s := "fn "
	for i, p := range f.Params {
		if i > 0 {
			s += " "
		}
		s += p.Name
	}
	return s + " => " + f.Body.String()
}

// AppExpr is juxtaposition application `f a b c`, curried left to right.
type AppExpr struct {
	Func Expr
	Args []Expr
	Pos  Pos
}

func (a *AppExpr) exprNode()     {}
func (a *AppExpr) Position() Pos { return a.Pos }
func (a *AppExpr) String() string {
	s := a.Func.String()
	for _, arg := range a.Args {
		s += " " + arg.String()
	}
	return s
}

// BinaryExpr covers `+ - * / % == != < > <= >=` as well as the sequencing
// and pipeline-family operators `; $ | |? |> <|`.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (b *BinaryExpr) exprNode()     {}
func (b *BinaryExpr) Position() Pos { return b.Pos }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (i *IfExpr) exprNode()     {}
func (i *IfExpr) Position() Pos { return i.Pos }
func (i *IfExpr) String() string {
	return fmt.Sprintf("if %s then %s else %s", i.Cond.String(), i.Then.String(), i.Else.String())
}

// ---- Bindings ----

// DefineExpr is `name = value` (or `name param... = value` sugar, already
// desugared into a FuncExpr value by the parser). `Mutable` marks `mut`.
type DefineExpr struct {
	Name      string
	Value     Expr
	Mutable   bool
	Annotation *TypeAnnotation // optional `: T given ...`
	Pos       Pos
}

func (d *DefineExpr) exprNode()     {}
func (d *DefineExpr) Position() Pos { return d.Pos }
func (d *DefineExpr) String() string {
	kw := ""
	if d.Mutable {
		kw = "mut "
	}
	return fmt.Sprintf("%s%s = %s", kw, d.Name, d.Value.String())
}

// MutateExpr is `mut! name = value`, a re-assignment through a Cell.
type MutateExpr struct {
	Name  string
	Value Expr
	Pos   Pos
}

func (m *MutateExpr) exprNode()     {}
func (m *MutateExpr) Position() Pos { return m.Pos }
func (m *MutateExpr) String() string {
	return fmt.Sprintf("mut! %s = %s", m.Name, m.Value.String())
}

// WhereExpr is `expr where (def1; def2; ...)`: local bindings scoped to expr.
type WhereExpr struct {
	Body  Expr
	Defs  []Expr
	Pos   Pos
}

func (w *WhereExpr) exprNode()     {}
func (w *WhereExpr) Position() Pos { return w.Pos }
func (w *WhereExpr) String() string {
	s := w.Body.String() + " where ("
	for i, d := range w.Defs {
		if i > 0 {
			s += "; "
		}
		s += d.String()
	}
	return s + ")"
}

// ---- Pattern matching ----

type PatternKind int

const (
	PatWildcard PatternKind = iota
	PatVariable
	PatLiteral
	PatConstructor
	PatTuple
	PatRecord
)

type Pattern struct {
	Kind   PatternKind
	Name   string     // PatVariable / PatConstructor (constructor name)
	Lit    Expr       // PatLiteral
	Args   []*Pattern // PatConstructor / PatTuple
	Fields map[string]*Pattern // PatRecord
	Pos    Pos
}

func (p *Pattern) Position() Pos { return p.Pos }
func (p *Pattern) String() string {
	switch p.Kind {
	case PatWildcard:
		return "_"
	case PatVariable:
		return p.Name
	case PatLiteral:
		return p.Lit.String()
	case PatConstructor:
		s := p.Name
		for _, a := range p.Args {
			s += " " + a.String()
		}
		return s
	case PatTuple:
		s := "{"
		for i, a := range p.Args {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		return s + "}"
	case PatRecord:
		s := "{"
		first := true
		for name, pat := range p.Fields {
			if !first {
				s += ", "
			}
			s += fmt.Sprintf("@%s %s", name, pat.String())
			first = false
		}
		return s + "}"
	}
	return "?"
}

type MatchCase struct {
	Pattern *Pattern
	Body    Expr
}

type MatchExpr struct {
	Scrutinee Expr
	Cases     []MatchCase
	Pos       Pos
}

func (m *MatchExpr) exprNode()     {}
func (m *MatchExpr) Position() Pos { return m.Pos }
func (m *MatchExpr) String() string {
	s := fmt.Sprintf("match %s with (", m.Scrutinee.String())
	for i, c := range m.Cases {
		if i > 0 {
			s += "; "
		}
		s += fmt.Sprintf("%s => %s", c.Pattern.String(), c.Body.String())
	}
	return s + ")"
}

// ---- Type and trait declarations ----

// VariantCtor is one constructor of a `type` declaration.
type VariantCtor struct {
	Name   string
	Fields []TypeExpr
}

// TypeDeclExpr is `type T a b = C1 f1 f2 | C2 | ...`.
type TypeDeclExpr struct {
	Name       string
	TypeParams []string
	Ctors      []VariantCtor
	Pos        Pos
}

func (t *TypeDeclExpr) exprNode()     {}
func (t *TypeDeclExpr) Position() Pos { return t.Pos }
func (t *TypeDeclExpr) String() string {
	return fmt.Sprintf("type %s ...", t.Name)
}

// TraitFuncSig is one `f : signature` line of a `constraint` declaration.
type TraitFuncSig struct {
	Name string
	Sig  TypeExpr
}

// ConstraintDeclExpr is `constraint Name a ( f : sig; ... )`.
type ConstraintDeclExpr struct {
	Name      string
	TypeParam string
	Functions []TraitFuncSig
	Pos       Pos
}

func (c *ConstraintDeclExpr) exprNode()     {}
func (c *ConstraintDeclExpr) Position() Pos { return c.Pos }
func (c *ConstraintDeclExpr) String() string {
	return fmt.Sprintf("constraint %s %s (...)", c.Name, c.TypeParam)
}

// ImplementFunc is one `f = expr` entry in an `implement` block.
type ImplementFunc struct {
	Name string
	Body Expr
}

// GivenConstraint is `given a implements T` attached to an implement block
// or an annotation.
type GivenConstraint struct {
	TypeVar string
	Trait   string
	// Structure is non-nil for `given a has {@f T}` style constraints.
	Structure *RowExpr
}

// ImplementDeclExpr is `implement Name T given ... ( f = expr; ... )`.
type ImplementDeclExpr struct {
	TraitName string
	TypeName  string
	Given     []GivenConstraint
	Functions []ImplementFunc
	Pos       Pos
}

func (i *ImplementDeclExpr) exprNode()     {}
func (i *ImplementDeclExpr) Position() Pos { return i.Pos }
func (i *ImplementDeclExpr) String() string {
	return fmt.Sprintf("implement %s %s (...)", i.TraitName, i.TypeName)
}

// ---- Imports & annotations ----

type ImportExpr struct {
	Path string
	Pos  Pos
}

func (i *ImportExpr) exprNode()     {}
func (i *ImportExpr) Position() Pos { return i.Pos }
func (i *ImportExpr) String() string { return fmt.Sprintf("import %q", i.Path) }

// TypeAnnotation wraps `e : T` or `e : T given constraints`.
type TypeAnnotation struct {
	Type  TypeExpr
	Given []GivenConstraint
}

type AnnotatedExpr struct {
	Expr       Expr
	Annotation TypeAnnotation
	Pos        Pos
}

func (a *AnnotatedExpr) exprNode()     {}
func (a *AnnotatedExpr) Position() Pos { return a.Pos }
func (a *AnnotatedExpr) String() string {
	return fmt.Sprintf("%s : %s", a.Expr.String(), a.Annotation.Type.String())
}
