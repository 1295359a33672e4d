package types

import (
	"fmt"
	"sort"
	"strings"
)

// Constraint is the tagged union from spec §3.2: a predicate attached to a
// type variable restricting its eventual instantiation. Mirrors the
// teacher's types.Row/instance machinery but kept as one small closed
// interface instead of the teacher's dictionary-passing representation,
// since Noolang resolves traits by direct impl lookup rather than by
// threading dictionaries through elaborated core (spec §4.5, §4.7).
type Constraint interface {
	fmt.Stringer
	Var() string
	Substitute(Substitution) Constraint
	Equals(Constraint) bool
}

// Implements is "typeVar implements interfaceName" (spec §3.2).
type Implements struct {
	TypeVar   string
	Interface string
}

func (c *Implements) Var() string { return c.TypeVar }
func (c *Implements) String() string {
	return fmt.Sprintf("%s implements %s", c.TypeVar, c.Interface)
}
func (c *Implements) Substitute(sub Substitution) Constraint {
	return &Implements{TypeVar: substVarName(c.TypeVar, sub), Interface: c.Interface}
}
func (c *Implements) Equals(o Constraint) bool {
	oi, ok := o.(*Implements)
	return ok && oi.TypeVar == c.TypeVar && oi.Interface == c.Interface
}

// RowStructure is an ordered collection of named field types used for
// structural constraints on records (spec §3.2, GLOSSARY "Row structure").
// A field's element is itself either a concrete/variable Type or a nested
// RowStructure (spec §3.2: "structure.fields maps a field name to a field
// type element that is itself either ... or a nested RowStructure").
type RowStructure struct {
	Fields map[string]RowElement
}

// RowElement is the tagged choice of a row field's value.
type RowElement struct {
	Type   Type          // non-nil when the field is a concrete/variable type
	Nested *RowStructure // non-nil when the field is itself a nested row
}

func (e RowElement) String() string {
	if e.Nested != nil {
		return e.Nested.String()
	}
	return e.Type.String()
}

func (e RowElement) Substitute(sub Substitution) RowElement {
	if e.Nested != nil {
		return RowElement{Nested: e.Nested.Substitute(sub)}
	}
	return RowElement{Type: e.Type.Substitute(sub)}
}

func NewRowStructure() *RowStructure {
	return &RowStructure{Fields: map[string]RowElement{}}
}

func (r *RowStructure) String() string {
	names := make([]string, 0, len(r.Fields))
	for n := range r.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("@%s %s", n, r.Fields[n].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *RowStructure) Substitute(sub Substitution) *RowStructure {
	out := NewRowStructure()
	for k, v := range r.Fields {
		out.Fields[k] = v.Substitute(sub)
	}
	return out
}

// FreeVars collects free variables reachable through this row's fields.
func (r *RowStructure) FreeVars(set map[string]bool) {
	for _, v := range r.Fields {
		if v.Nested != nil {
			v.Nested.FreeVars(set)
		} else {
			v.Type.FreeVars(set)
		}
	}
}

// HasStructure is "typeVar has the record fields described by Structure"
// (spec §3.2).
type HasStructure struct {
	TypeVar   string
	Structure *RowStructure
}

func (c *HasStructure) Var() string { return c.TypeVar }
func (c *HasStructure) String() string {
	return fmt.Sprintf("%s has %s", c.TypeVar, c.Structure.String())
}
func (c *HasStructure) Substitute(sub Substitution) Constraint {
	return &HasStructure{TypeVar: substVarName(c.TypeVar, sub), Structure: c.Structure.Substitute(sub)}
}
func (c *HasStructure) Equals(o Constraint) bool {
	oh, ok := o.(*HasStructure)
	if !ok || oh.TypeVar != c.TypeVar || len(oh.Structure.Fields) != len(c.Structure.Fields) {
		return false
	}
	for k, v := range c.Structure.Fields {
		ov, ok := oh.Structure.Fields[k]
		if !ok {
			return false
		}
		if v.Nested != nil || ov.Nested != nil {
			if v.Nested == nil || ov.Nested == nil {
				return false
			}
			continue
		}
		if !v.Type.Equals(ov.Type) {
			return false
		}
	}
	return true
}

// HasField is the field-level sub-form used by accessor inference (spec
// §3.2): "typeVar has a field named Field of type FieldType".
type HasField struct {
	TypeVar   string
	Field     string
	FieldType Type
}

func (c *HasField) Var() string { return c.TypeVar }
func (c *HasField) String() string {
	return fmt.Sprintf("%s has {@%s %s}", c.TypeVar, c.Field, c.FieldType.String())
}
func (c *HasField) Substitute(sub Substitution) Constraint {
	return &HasField{TypeVar: substVarName(c.TypeVar, sub), Field: c.Field, FieldType: c.FieldType.Substitute(sub)}
}
func (c *HasField) Equals(o Constraint) bool {
	of, ok := o.(*HasField)
	return ok && of.TypeVar == c.TypeVar && of.Field == c.Field && of.FieldType.Equals(c.FieldType)
}

// AsRowStructure converts a single-field HasField into the RowStructure
// shape used by HasStructure, for composition (spec §3.2 row composition).
func (c *HasField) AsRowStructure() *RowStructure {
	r := NewRowStructure()
	r.Fields[c.Field] = RowElement{Type: c.FieldType}
	return r
}

// Is is reserved; carried through unchanged (spec §3.2).
type Is struct {
	TypeVar    string
	Constraint string
}

func (c *Is) Var() string      { return c.TypeVar }
func (c *Is) String() string   { return fmt.Sprintf("%s is %s", c.TypeVar, c.Constraint) }
func (c *Is) Substitute(sub Substitution) Constraint {
	return &Is{TypeVar: substVarName(c.TypeVar, sub), Constraint: c.Constraint}
}
func (c *Is) Equals(o Constraint) bool {
	oi, ok := o.(*Is)
	return ok && oi.TypeVar == c.TypeVar && oi.Constraint == c.Constraint
}

// Custom is reserved; carried through unchanged (spec §3.2).
type Custom struct {
	TypeVar string
	Name    string
	Args    []Type
}

func (c *Custom) Var() string { return c.TypeVar }
func (c *Custom) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s(%s)", c.TypeVar, c.Name, strings.Join(parts, ", "))
}
func (c *Custom) Substitute(sub Substitution) Constraint {
	args := make([]Type, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Substitute(sub)
	}
	return &Custom{TypeVar: substVarName(c.TypeVar, sub), Name: c.Name, Args: args}
}
func (c *Custom) Equals(o Constraint) bool {
	oc, ok := o.(*Custom)
	if !ok || oc.TypeVar != c.TypeVar || oc.Name != c.Name || len(oc.Args) != len(c.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equals(oc.Args[i]) {
			return false
		}
	}
	return true
}

// substVarName resolves what name a constraint should move to when its
// carrier variable gets substituted: if it now points to another Variable,
// the constraint follows it; if it was bound to a concrete type, the
// constraint's name is left as-is (it becomes an orphaned pending
// constraint for the resolver, spec §4.1 step 3).
func substVarName(name string, sub Substitution) string {
	if t, ok := sub[name]; ok {
		if v, ok := t.(*Variable); ok {
			return v.Name
		}
	}
	return name
}

// DedupeConstraints removes structurally-equal duplicates, preserving order.
func DedupeConstraints(cs []Constraint) []Constraint {
	var out []Constraint
	for _, c := range cs {
		dup := false
		for _, o := range out {
			if sameKind(c, o) && c.Equals(o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

func sameKind(a, b Constraint) bool {
	switch a.(type) {
	case *Implements:
		_, ok := b.(*Implements)
		return ok
	case *HasStructure:
		_, ok := b.(*HasStructure)
		return ok
	case *HasField:
		_, ok := b.(*HasField)
		return ok
	case *Is:
		_, ok := b.(*Is)
		return ok
	case *Custom:
		_, ok := b.(*Custom)
		return ok
	}
	return false
}

// ComposeRowStructures implements spec §3.2's "row structure composition is
// a primitive operation": given `outer has {@f: inner}` where inner is
// itself `has {@g: T}`, compose into `outer has {@f: {@g: T}}`. More
// generally, replacing a field's nested-row placeholder with a further
// constraint discovered on that placeholder's own variable.
func ComposeRowStructures(outer, inner *RowStructure, field string) *RowStructure {
	out := NewRowStructure()
	for k, v := range outer.Fields {
		out.Fields[k] = v
	}
	out.Fields[field] = RowElement{Nested: inner}
	return out
}

// RowStructuresEqual reports whether two row structures have the same
// field names with equal types, comparing nested rows recursively; it can
// be used to check composition order independence (spec §8 "Row
// composition associativity") by comparing two groupings' results.
func RowStructuresEqual(a, b *RowStructure) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for k, v := range a.Fields {
		ov, ok := b.Fields[k]
		if !ok {
			return false
		}
		if (v.Nested == nil) != (ov.Nested == nil) {
			return false
		}
		if v.Nested != nil {
			if !RowStructuresEqual(v.Nested, ov.Nested) {
				return false
			}
			continue
		}
		if !v.Type.Equals(ov.Type) {
			return false
		}
	}
	return true
}
