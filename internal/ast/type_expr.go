package ast

import "strings"

// TypeExpr is the surface syntax for a type annotation, e.g. `a -> String`,
// `List Float`, `{@name String, @age Float}`. It is resolved into an
// internal/types.Type by the inferencer; the AST layer only records shape.
type TypeExpr interface {
	Node
	typeExprNode()
}

// TypeName is a bare name: a primitive (`Float`, `String`, `Bool`), `Unit`,
// a type variable (lowercase), or a nominal variant name.
type TypeName struct {
	Name string
	Pos  Pos
}

func (t *TypeName) typeExprNode()  {}
func (t *TypeName) Position() Pos  { return t.Pos }
func (t *TypeName) String() string { return t.Name }

// TypeApp is a type constructor applied to arguments, e.g. `Option Float`.
type TypeApp struct {
	Name string
	Args []TypeExpr
	Pos  Pos
}

func (t *TypeApp) typeExprNode() {}
func (t *TypeApp) Position() Pos { return t.Pos }
func (t *TypeApp) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + " " + strings.Join(parts, " ")
}

// TypeFunc is `a -> b` (single param shown; n-ary uses nested TypeFunc or a
// parenthesized parameter list handled by the parser flattening into Params).
type TypeFunc struct {
	Params  []TypeExpr
	Return  TypeExpr
	Effects []string
	Pos     Pos
}

func (t *TypeFunc) typeExprNode() {}
func (t *TypeFunc) Position() Pos { return t.Pos }
func (t *TypeFunc) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	s := strings.Join(parts, " -> ") + " -> " + t.Return.String()
	if len(t.Effects) > 0 {
		s += " !{" + strings.Join(t.Effects, ", ") + "}"
	}
	return s
}

// TypeList is `[T]`.
type TypeList struct {
	Element TypeExpr
	Pos     Pos
}

func (t *TypeList) typeExprNode()  {}
func (t *TypeList) Position() Pos  { return t.Pos }
func (t *TypeList) String() string { return "[" + t.Element.String() + "]" }

// TypeTuple is `{A, B, C}` used as a type (distinguished from TypeRecord by
// absence of `@field` labels).
type TypeTuple struct {
	Elements []TypeExpr
	Pos      Pos
}

func (t *TypeTuple) typeExprNode() {}
func (t *TypeTuple) Position() Pos { return t.Pos }
func (t *TypeTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RecordFieldType is one `@name T` entry of a record type or a RowExpr.
type RecordFieldType struct {
	Name string
	Type TypeExpr
}

// TypeRecord is `{@name T, ...}` used as a type.
type TypeRecord struct {
	Fields []RecordFieldType
	Pos    Pos
}

func (t *TypeRecord) typeExprNode() {}
func (t *TypeRecord) Position() Pos { return t.Pos }
func (t *TypeRecord) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = "@" + f.Name + " " + f.Type.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RowExpr is the surface syntax inside `given a has {@f T, @g {@h U}}`: a
// structural constraint row, where a field's element may itself be a
// nested row (RowExpr.Nested) rather than a flat type.
type RowExpr struct {
	Fields []RowFieldExpr
	Pos    Pos
}

// RowFieldExpr is one entry in a RowExpr: either `@f T` or `@f {nested row}`.
type RowFieldExpr struct {
	Name   string
	Type   TypeExpr // non-nil when the field is a concrete/variable type
	Nested *RowExpr // non-nil when the field is itself a nested row
}

func (r *RowExpr) Position() Pos { return r.Pos }
func (r *RowExpr) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		if f.Nested != nil {
			parts[i] = "@" + f.Name + " " + f.Nested.String()
		} else {
			parts[i] = "@" + f.Name + " " + f.Type.String()
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
