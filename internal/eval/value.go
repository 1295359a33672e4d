// Package eval implements the runtime values and tree-walking evaluator
// core of spec §3.5/§4.6, plus runtime trait dispatch (§4.7), modeled on
// the teacher's internal/eval package (value.go, env.go, eval_core.go,
// decision_tree.go split by concern).
package eval

import (
	"fmt"
	"strings"
)

// Value is the tagged union of spec §3.5.
type Value interface {
	TypeName() string
	String() string
}

// Number is the sole numeric runtime value (spec §4.4, §9: integer/float
// distinction is collapsed to Float).
type Number struct{ Value float64 }

func (n *Number) TypeName() string { return "Float" }
func (n *Number) String() string {
	s := fmt.Sprintf("%g", n.Value)
	return s
}

// String is a runtime string value.
type String struct{ Value string }

func (s *String) TypeName() string { return "String" }
func (s *String) String() string   { return s.Value }

// Unit has exactly one inhabitant.
type Unit struct{}

func (u *Unit) TypeName() string { return "Unit" }
func (u *Unit) String() string   { return "()" }

var TheUnit = &Unit{}

// List is a homogeneous (by construction, not enforced at runtime) sequence.
type List struct{ Elements []Value }

func (l *List) TypeName() string { return "List" }
func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Tuple is a fixed heterogeneous positional record.
type Tuple struct{ Elements []Value }

func (t *Tuple) TypeName() string { return "Tuple" }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Record is a row of named fields.
type Record struct{ Fields map[string]Value }

func (r *Record) TypeName() string { return "Record" }
func (r *Record) String() string {
	parts := make([]string, 0, len(r.Fields))
	for k, v := range r.Fields {
		parts = append(parts, fmt.Sprintf("@%s %s", k, v.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Function is a single-argument user closure; n-ary functions are curried
// chains of these, per spec §4.6 "Currying".
type Function struct {
	Param string
	Apply func(arg Value) (Value, error)
}

func (f *Function) TypeName() string { return "Function" }
func (f *Function) String() string   { return "<function>" }

// Native is a host-provided function, wired the same shape as Function so
// the evaluator's application path doesn't need to special-case it.
type Native struct {
	Name  string
	Apply func(arg Value) (Value, error)
}

func (n *Native) TypeName() string { return "Function" }
func (n *Native) String() string   { return fmt.Sprintf("<native %s>", n.Name) }

// Constructor is ADT data, including True/False, Some x/None, Ok x/Err y,
// and user-defined variants (spec §3.5).
type Constructor struct {
	TypeName_ string // the owning ADT/variant type name, e.g. "Option"
	Name      string // the constructor name, e.g. "Some"
	Args      []Value
}

func (c *Constructor) TypeName() string { return c.TypeName_ }
func (c *Constructor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + " " + strings.Join(parts, " ")
}

var (
	True  = &Constructor{TypeName_: "Bool", Name: "True"}
	False = &Constructor{TypeName_: "Bool", Name: "False"}
)

func BoolValue(b bool) *Constructor {
	if b {
		return True
	}
	return False
}

func IsTruthy(v Value) bool {
	c, ok := v.(*Constructor)
	return ok && c.Name == "True"
}

// TraitFunction is a deferred trait call accumulating arguments until
// dispatch becomes possible (spec §3.5, §4.7). It does not carry the
// registry itself (avoiding a Value -> traits import): the Evaluator
// applies accumulated arguments and consults its own registry reference
// when deciding whether dispatch can proceed, per spec §9's note that "the
// registry lifetime must exceed all such values" — here that's simply true
// because the Evaluator that created the value outlives it.
type TraitFunction struct {
	Name        string
	PartialArgs []Value
}

func (t *TraitFunction) TypeName() string { return "Function" }
func (t *TraitFunction) String() string   { return fmt.Sprintf("<trait-function %s>", t.Name) }

// Cell is a mutation slot, the sole mutation primitive at user level (spec
// §3.5, §5), used for `mut`/`mut!` and fix-point binding of recursive
// definitions.
type Cell struct{ Value Value }

func (c *Cell) TypeName() string {
	if c.Value == nil {
		return "Unit"
	}
	return c.Value.TypeName()
}
func (c *Cell) String() string {
	if c.Value == nil {
		return "<uninitialized>"
	}
	return c.Value.String()
}

// Deref follows Cell indirection so callers that just want the current
// value don't need to special-case it everywhere (mirrors the teacher's
// eval_core.go pattern of a small unwrap helper used at every read site).
func Deref(v Value) Value {
	if c, ok := v.(*Cell); ok {
		if c.Value == nil {
			return TheUnit
		}
		return Deref(c.Value)
	}
	return v
}

// GetValueTypeName derives the runtime dispatch type name from a value's
// own tag, per spec §4.7: "Derive type-name per argument with
// getValueTypeName (concrete mapping of runtime tags)."
func GetValueTypeName(v Value) string {
	v = Deref(v)
	switch val := v.(type) {
	case *Number:
		return "Float"
	case *String:
		return "String"
	case *Unit:
		return "Unit"
	case *List:
		return "List"
	case *Tuple:
		return "Tuple"
	case *Record:
		return "Record"
	case *Constructor:
		return val.TypeName_
	case *Function, *Native:
		return "Function"
	case *TraitFunction:
		return "Unknown"
	}
	return "Unknown"
}
