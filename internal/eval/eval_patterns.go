package eval

import (
	"fmt"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/match"
)

// evalMatch compiles the case list into a decision tree (internal/match)
// each time the match expression is evaluated, then walks it against the
// scrutinee value (spec §4.6 "Pattern matching evaluation", SPEC_FULL.md
// §3). The compiled tree is not cached between evaluations.
func (e *Evaluator) evalMatch(ex *ast.MatchExpr, env *Environment) (Value, error) {
	scrutinee, err := e.Eval(ex.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	scrutinee = Deref(scrutinee)
	tree := match.Compile(ex.Cases)
	return e.walkTree(tree, scrutinee, ex.Cases, env, ex.Pos)
}

func (e *Evaluator) walkTree(tree match.Tree, scrutinee Value, cases []ast.MatchCase, env *Environment, pos ast.Pos) (Value, error) {
	switch node := tree.(type) {
	case *match.Leaf:
		arm := cases[node.CaseIndex]
		bindings, ok := matchPattern(arm.Pattern, scrutinee)
		if !ok {
			return nil, diagnostic.NewRuntimeError(pos, "non-exhaustive match: no pattern matched")
		}
		callEnv := env.Child()
		for name, v := range bindings {
			callEnv.Set(name, v)
		}
		return e.Eval(arm.Body, callEnv)
	case *match.Fail:
		return nil, diagnostic.NewRuntimeError(pos, "non-exhaustive match: no pattern matched")
	case *match.Switch:
		key := dispatchKey(valueAt(scrutinee, node.Path))
		if sub, ok := node.Cases[key]; ok {
			return e.walkTree(sub, scrutinee, cases, env, pos)
		}
		return e.walkTree(node.Default, scrutinee, cases, env, pos)
	}
	return nil, diagnostic.NewRuntimeError(pos, "internal error: unknown decision tree node")
}

// valueAt follows path from the root scrutinee through successive
// constructor argument positions (internal/match's Path is always measured
// from the root, not from the previous Switch node), returning nil if a
// step doesn't land on a Constructor with enough arguments.
func valueAt(scrutinee Value, path match.Path) Value {
	v := Deref(scrutinee)
	for _, i := range path {
		c, ok := v.(*Constructor)
		if !ok || i >= len(c.Args) {
			return nil
		}
		v = Deref(c.Args[i])
	}
	return v
}

// dispatchKey mirrors internal/match's discriminatorKey: the constructor
// name for Constructor values, or the literal's textual form for numbers/
// strings.
func dispatchKey(v Value) string {
	switch val := v.(type) {
	case *Constructor:
		return val.Name
	case *Number:
		return fmt.Sprintf("%g", val.Value)
	case *String:
		return val.Value
	}
	return ""
}

// matchPattern traverses a Pattern tree collecting a bindings map,
// supporting wildcard, variable, literal, constructor, tuple, and
// record-with-fields patterns, with nested destructuring (spec §4.6).
func matchPattern(p *ast.Pattern, v Value) (map[string]Value, bool) {
	v = Deref(v)
	bindings := map[string]Value{}
	if ok := matchInto(p, v, bindings); !ok {
		return nil, false
	}
	return bindings, true
}

func matchInto(p *ast.Pattern, v Value, out map[string]Value) bool {
	v = Deref(v)
	switch p.Kind {
	case ast.PatWildcard:
		return true
	case ast.PatVariable:
		out[p.Name] = v
		return true
	case ast.PatLiteral:
		return matchLiteral(p, v)
	case ast.PatConstructor:
		c, ok := v.(*Constructor)
		if !ok || c.Name != p.Name || len(c.Args) != len(p.Args) {
			return false
		}
		for i, sub := range p.Args {
			if !matchInto(sub, c.Args[i], out) {
				return false
			}
		}
		return true
	case ast.PatTuple:
		t, ok := v.(*Tuple)
		if !ok || len(t.Elements) != len(p.Args) {
			return false
		}
		for i, sub := range p.Args {
			if !matchInto(sub, t.Elements[i], out) {
				return false
			}
		}
		return true
	case ast.PatRecord:
		r, ok := v.(*Record)
		if !ok {
			return false
		}
		for name, sub := range p.Fields {
			fv, ok := r.Fields[name]
			if !ok {
				return false
			}
			if !matchInto(sub, fv, out) {
				return false
			}
		}
		return true
	}
	return false
}

func matchLiteral(p *ast.Pattern, v Value) bool {
	switch lit := p.Lit.(type) {
	case *ast.NumberLit:
		n, ok := v.(*Number)
		return ok && n.Value == lit.Value
	case *ast.StringLit:
		s, ok := v.(*String)
		return ok && s.Value == lit.Value
	}
	return false
}
