// Package types implements THE CORE type representation of Noolang: the
// tagged union of types and constraints (spec §3), substitution and
// unification (spec §4.1), generalization/instantiation (spec §4.3), and
// the type environment/state threaded by the inferencer (spec §3.4).
//
// The design mirrors the teacher repo's internal/types package (a single
// closed Type interface implemented by small structs, a map-based
// Substitution, and a dedicated Unifier) but keeps one representation per
// concept instead of the teacher's migration-era TRecord/TRecord2 split:
// records here are plain key-sets unified exactly, with row flexibility
// expressed only through the separate HasStructure constraint, per spec §4.1
// and §9 ("Row polymorphism").
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the tagged union described in spec §3.1.
type Type interface {
	String() string
	Equals(Type) bool
	Substitute(Substitution) Type
	// FreeVars adds every free type-variable name reachable from this type
	// to set. Used by generalize/instantiate and the occurs check.
	FreeVars(set map[string]bool)
}

// Substitution maps a type-variable name to the type it has been bound to.
// Per spec §4.1 it is append-only within one inference pass: apply(sigma,
// T) rewrites Variable leaves recursively, and composing substitutions
// never loses information.
type Substitution map[string]Type

// ---- Primitive ----

// Primitive is an atomic, bottomless concrete tag: Float, String, Bool.
type Primitive struct {
	Name string
}

func (p *Primitive) String() string { return p.Name }
func (p *Primitive) Equals(o Type) bool {
	op, ok := o.(*Primitive)
	return ok && op.Name == p.Name
}
func (p *Primitive) Substitute(Substitution) Type       { return p }
func (p *Primitive) FreeVars(map[string]bool)           {}

var (
	Float  = &Primitive{Name: "Float"}
	String = &Primitive{Name: "String"}
	Bool   = &Primitive{Name: "Bool"}
)

// ---- Unit ----

// UnitType has exactly one inhabitant.
type UnitType struct{}

func (u *UnitType) String() string                { return "()" }
func (u *UnitType) Equals(o Type) bool             { _, ok := o.(*UnitType); return ok }
func (u *UnitType) Substitute(Substitution) Type   { return u }
func (u *UnitType) FreeVars(map[string]bool)       {}

var Unit = &UnitType{}

// ---- Variable ----

// Variable is an unbound type variable; it may carry inline constraints
// (spec §3.1) that travel with it through unification until a concrete
// type is substituted in, at which point they become orphaned pending
// constraints for the resolver (spec §4.5).
type Variable struct {
	Name        string
	Constraints []Constraint
}

func NewVar(name string) *Variable { return &Variable{Name: name} }

func (v *Variable) String() string { return v.Name }
func (v *Variable) Equals(o Type) bool {
	ov, ok := o.(*Variable)
	return ok && ov.Name == v.Name
}
func (v *Variable) Substitute(sub Substitution) Type {
	if t, ok := sub[v.Name]; ok {
		// Path shortening: keep resolving through chains (spec §4.1: "for a
		// chain a -> b, b -> c, apply(a) = c").
		return t.Substitute(sub)
	}
	return v
}
func (v *Variable) FreeVars(set map[string]bool) { set[v.Name] = true }

// ---- Function ----

// EffectSet is a closed set of effect tags (spec §3.1: "{read, write,
// state, rand, log, err, ...}").
type EffectSet map[string]bool

func NewEffectSet(names ...string) EffectSet {
	s := EffectSet{}
	for _, n := range names {
		s[n] = true
	}
	return s
}

func (e EffectSet) Union(o EffectSet) EffectSet {
	out := EffectSet{}
	for k := range e {
		out[k] = true
	}
	for k := range o {
		out[k] = true
	}
	return out
}

func (e EffectSet) Equals(o EffectSet) bool {
	if len(e) != len(o) {
		return false
	}
	for k := range e {
		if !o[k] {
			return false
		}
	}
	return true
}

func (e EffectSet) Sorted() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e EffectSet) String() string {
	if len(e) == 0 {
		return ""
	}
	return fmt.Sprintf(" !{%s}", strings.Join(e.Sorted(), ", "))
}

// Function is n-ary but semantically curried: an n-param function unifies
// with a partial application of fewer arguments (handled by the
// constraint resolver at application sites, not by Unify itself).
type Function struct {
	Params      []Type
	Return      Type
	Effects     EffectSet
	Constraints []Constraint
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	body := strings.Join(parts, " -> ")
	if body == "" {
		body = "()"
	}
	return fmt.Sprintf("%s -> %s%s", body, f.Return.String(), f.Effects.String())
}

func (f *Function) Equals(o Type) bool {
	of, ok := o.(*Function)
	if !ok || len(f.Params) != len(of.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equals(of.Params[i]) {
			return false
		}
	}
	return f.Return.Equals(of.Return)
}

func (f *Function) Substitute(sub Substitution) Type {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Substitute(sub)
	}
	return &Function{Params: params, Return: f.Return.Substitute(sub), Effects: f.Effects, Constraints: f.Constraints}
}

func (f *Function) FreeVars(set map[string]bool) {
	for _, p := range f.Params {
		p.FreeVars(set)
	}
	f.Return.FreeVars(set)
}

// ---- List ----

type List struct{ Element Type }

func (l *List) String() string              { return "[" + l.Element.String() + "]" }
func (l *List) Equals(o Type) bool {
	ol, ok := o.(*List)
	return ok && l.Element.Equals(ol.Element)
}
func (l *List) Substitute(sub Substitution) Type { return &List{Element: l.Element.Substitute(sub)} }
func (l *List) FreeVars(set map[string]bool)     { l.Element.FreeVars(set) }

// ---- Tuple ----

type Tuple struct{ Elements []Type }

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (t *Tuple) Equals(o Type) bool {
	ot, ok := o.(*Tuple)
	if !ok || len(t.Elements) != len(ot.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Equals(ot.Elements[i]) {
			return false
		}
	}
	return true
}
func (t *Tuple) Substitute(sub Substitution) Type {
	els := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		els[i] = e.Substitute(sub)
	}
	return &Tuple{Elements: els}
}
func (t *Tuple) FreeVars(set map[string]bool) {
	for _, e := range t.Elements {
		e.FreeVars(set)
	}
}

// ---- Record ----

// Record equality checks key-set equality and per-field equality; there is
// no row polymorphism in unification itself (spec §4.1 step 4).
type Record struct{ Fields map[string]Type }

func (r *Record) String() string {
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
func (r *Record) Equals(o Type) bool {
	or_, ok := o.(*Record)
	if !ok || len(r.Fields) != len(or_.Fields) {
		return false
	}
	for k, v := range r.Fields {
		ov, ok := or_.Fields[k]
		if !ok || !v.Equals(ov) {
			return false
		}
	}
	return true
}
func (r *Record) Substitute(sub Substitution) Type {
	fields := make(map[string]Type, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v.Substitute(sub)
	}
	return &Record{Fields: fields}
}
func (r *Record) FreeVars(set map[string]bool) {
	for _, v := range r.Fields {
		v.FreeVars(set)
	}
}

// ---- Variant ----

// Variant is a nominal algebraic constructor applied to type arguments,
// e.g. Option Float. Bool is represented as the primitive &Bool rather
// than a Variant, matching spec §3.1's note that Bool is "the variant with
// nullary constructors True/False" conceptually while keeping a single
// concrete tag for operator typing simplicity (documented Open Question
// resolution, see DESIGN.md).
type Variant struct {
	Name string
	Args []Type
}

func (v *Variant) String() string {
	if len(v.Args) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Args))
	for i, a := range v.Args {
		parts[i] = a.String()
	}
	return v.Name + " " + strings.Join(parts, " ")
}
func (v *Variant) Equals(o Type) bool {
	ov, ok := o.(*Variant)
	if !ok || v.Name != ov.Name || len(v.Args) != len(ov.Args) {
		return false
	}
	for i := range v.Args {
		if !v.Args[i].Equals(ov.Args[i]) {
			return false
		}
	}
	return true
}
func (v *Variant) Substitute(sub Substitution) Type {
	args := make([]Type, len(v.Args))
	for i, a := range v.Args {
		args[i] = a.Substitute(sub)
	}
	return &Variant{Name: v.Name, Args: args}
}
func (v *Variant) FreeVars(set map[string]bool) {
	for _, a := range v.Args {
		a.FreeVars(set)
	}
}

// ---- Union (reserved for future use) ----

type Union struct{ Types []Type }

func (u *Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}
func (u *Union) Equals(o Type) bool {
	ou, ok := o.(*Union)
	if !ok || len(u.Types) != len(ou.Types) {
		return false
	}
	for i := range u.Types {
		if !u.Types[i].Equals(ou.Types[i]) {
			return false
		}
	}
	return true
}
func (u *Union) Substitute(sub Substitution) Type {
	ts := make([]Type, len(u.Types))
	for i, t := range u.Types {
		ts[i] = t.Substitute(sub)
	}
	return &Union{Types: ts}
}
func (u *Union) FreeVars(set map[string]bool) {
	for _, t := range u.Types {
		t.FreeVars(set)
	}
}

// ---- Constrained ----

// Constrained bundles a base type with residual constraints awaiting
// resolution; base and constraints are kept orthogonal rather than
// embedding constraints inside Function as a second channel, per spec §9.
type Constrained struct {
	Base        Type
	Constraints map[string][]Constraint // keyed by the type-variable name each constraint set applies to
}

func (c *Constrained) String() string {
	if len(c.Constraints) == 0 {
		return c.Base.String()
	}
	var parts []string
	vars := make([]string, 0, len(c.Constraints))
	for v := range c.Constraints {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	for _, v := range vars {
		for _, cst := range c.Constraints[v] {
			parts = append(parts, cst.String())
		}
	}
	return fmt.Sprintf("%s given %s", c.Base.String(), strings.Join(parts, ", "))
}
func (c *Constrained) Equals(o Type) bool {
	oc, ok := o.(*Constrained)
	if !ok {
		return c.Base.Equals(o)
	}
	return c.Base.Equals(oc.Base)
}
func (c *Constrained) Substitute(sub Substitution) Type {
	out := make(map[string][]Constraint, len(c.Constraints))
	for v, cs := range c.Constraints {
		name := v
		if t, ok := sub[v]; ok {
			if nv, ok := t.(*Variable); ok {
				name = nv.Name
			}
		}
		subbed := make([]Constraint, len(cs))
		for i, cst := range cs {
			subbed[i] = cst.Substitute(sub)
		}
		out[name] = append(out[name], subbed...)
	}
	return &Constrained{Base: c.Base.Substitute(sub), Constraints: out}
}
func (c *Constrained) FreeVars(set map[string]bool) {
	c.Base.FreeVars(set)
	for v := range c.Constraints {
		set[v] = true
	}
}

// ---- Unknown ----

// Unknown is opaque; it unifies loosely with Option/at results when the
// container is unknown (spec §3.1, §4.4 accessor rule).
type UnknownType struct{}

func (u *UnknownType) String() string              { return "Unknown" }
func (u *UnknownType) Equals(o Type) bool           { _, ok := o.(*UnknownType); return ok }
func (u *UnknownType) Substitute(Substitution) Type { return u }
func (u *UnknownType) FreeVars(map[string]bool)     {}

var Unknown = &UnknownType{}
