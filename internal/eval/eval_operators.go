package eval

import (
	"fmt"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
)

// evalBinary dispatches the operator family covering sequencing/pipeline
// (`; $ | |? |> <|`), comparison, and arithmetic (spec §4.4, §4.6, §4.7).
// For primitives direct evaluation short-circuits the registry for speed
// (spec §4.6), falling through to trait dispatch for non-primitive
// operands. Operators are not looked up in the environment, so a user
// binding named "+", "-", ... does not change what an operator does.
func (e *Evaluator) evalBinary(ex *ast.BinaryExpr, env *Environment) (Value, error) {
	switch ex.Op {
	case ";":
		if _, err := e.Eval(ex.Left, env); err != nil {
			return nil, err
		}
		return e.Eval(ex.Right, env)
	case "$":
		fn, err := e.Eval(ex.Left, env)
		if err != nil {
			return nil, err
		}
		arg, err := e.Eval(ex.Right, env)
		if err != nil {
			return nil, err
		}
		return e.Apply(fn, arg, ex.Pos)
	case "|":
		// Thrush: value-then-function application (spec §4.4).
		val, err := e.Eval(ex.Left, env)
		if err != nil {
			return nil, err
		}
		fn, err := e.Eval(ex.Right, env)
		if err != nil {
			return nil, err
		}
		return e.Apply(fn, val, ex.Pos)
	case "|>":
		val, err := e.Eval(ex.Left, env)
		if err != nil {
			return nil, err
		}
		fn, err := e.Eval(ex.Right, env)
		if err != nil {
			return nil, err
		}
		return e.Apply(fn, val, ex.Pos)
	case "<|":
		fn, err := e.Eval(ex.Left, env)
		if err != nil {
			return nil, err
		}
		val, err := e.Eval(ex.Right, env)
		if err != nil {
			return nil, err
		}
		return e.Apply(fn, val, ex.Pos)
	case "|?":
		return e.evalSafeBind(ex, env)
	case "==", "!=":
		return e.evalEquality(ex, env)
	case "<", ">", "<=", ">=":
		return e.evalCompare(ex, env)
	case "+", "-", "*", "/", "%":
		return e.evalArith(ex, env)
	}
	return nil, diagnostic.NewRuntimeError(ex.Pos, fmt.Sprintf("unknown operator %q", ex.Op))
}

// evalSafeBind implements `|?`: if the left operand is a constructor such
// as Some x/Ok x, apply the right-hand function to its payload; None/Err
// short-circuits. If the left side isn't one of those two known monadic
// shapes, fall back to trait dispatch of `bind` through the registry
// (spec §4.7).
func (e *Evaluator) evalSafeBind(ex *ast.BinaryExpr, env *Environment) (Value, error) {
	left, err := e.Eval(ex.Left, env)
	if err != nil {
		return nil, err
	}
	left = Deref(left)
	fn, err := e.Eval(ex.Right, env)
	if err != nil {
		return nil, err
	}

	if c, ok := left.(*Constructor); ok {
		switch c.Name {
		case "Some", "Ok":
			if len(c.Args) != 1 {
				return nil, diagnostic.NewRuntimeError(ex.Pos, "|? expects a single-payload constructor")
			}
			result, err := e.Apply(fn, c.Args[0], ex.Pos)
			if err != nil {
				return nil, err
			}
			return wrapMonadResult(c, result), nil
		case "None", "Err":
			return c, nil
		}
	}

	// Fall back to run-time trait dispatch of `bind` (spec §4.7).
	result, err := e.applyTraitFunction(&TraitFunction{Name: "bind"}, left, ex.Pos)
	if err != nil {
		return nil, diagnostic.NewRuntimeError(ex.Pos, "SafeBindUnavailable: no Monad implementation available for |?")
	}
	return e.Apply(result, fn, ex.Pos)
}

// wrapMonadResult implements the "monad preservation heuristic" of spec
// §4.7: if the bind implementation returned a bare value (not already
// wrapped in the same constructor family), wrap it.
func wrapMonadResult(original *Constructor, result Value) Value {
	result = Deref(result)
	if c, ok := result.(*Constructor); ok {
		if (original.Name == "Some" || original.Name == "None") && (c.Name == "Some" || c.Name == "None") {
			return c
		}
		if (original.Name == "Ok" || original.Name == "Err") && (c.Name == "Ok" || c.Name == "Err") {
			return c
		}
	}
	if original.Name == "Some" {
		return &Constructor{TypeName_: "Option", Name: "Some", Args: []Value{result}}
	}
	return &Constructor{TypeName_: "Result", Name: "Ok", Args: []Value{result}}
}

// evalEquality implements `==`/`!=` as a universal structural-equality
// primitive (spec §9 Open Question: "do not guess" on whether it should be
// a trait function — we choose the universal-primitive reading since it
// must work even on types with no Eq impl registered, e.g. comparing two
// records for scaffolding/debug code; documented in DESIGN.md).
func (e *Evaluator) evalEquality(ex *ast.BinaryExpr, env *Environment) (Value, error) {
	l, err := e.Eval(ex.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := e.Eval(ex.Right, env)
	if err != nil {
		return nil, err
	}
	eq := valuesEqual(Deref(l), Deref(r))
	if ex.Op == "!=" {
		eq = !eq
	}
	return BoolValue(eq), nil
}

func valuesEqual(a, b Value) bool {
	a, b = Deref(a), Deref(b)
	switch av := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Unit:
		_, ok := b.(*Unit)
		return ok
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !valuesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !valuesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv, ok := b.(*Record)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			ov, ok := bv.Fields[k]
			if !ok || !valuesEqual(v, ov) {
				return false
			}
		}
		return true
	case *Constructor:
		bv, ok := b.(*Constructor)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !valuesEqual(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// evalCompare implements `< > <= >=` directly for Float/String (the two
// orderable primitives) and falls back to an `Ord`-style trait function
// ("compare") for other types.
func (e *Evaluator) evalCompare(ex *ast.BinaryExpr, env *Environment) (Value, error) {
	l, err := e.Eval(ex.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := e.Eval(ex.Right, env)
	if err != nil {
		return nil, err
	}
	l, r = Deref(l), Deref(r)

	var cmp int
	switch lv := l.(type) {
	case *Number:
		rv, ok := r.(*Number)
		if !ok {
			return nil, diagnostic.NewRuntimeError(ex.Pos, "cannot compare Float with non-Float")
		}
		cmp = compareFloat(lv.Value, rv.Value)
	case *String:
		rv, ok := r.(*String)
		if !ok {
			return nil, diagnostic.NewRuntimeError(ex.Pos, "cannot compare String with non-String")
		}
		cmp = compareString(lv.Value, rv.Value)
	default:
		result, err := e.dispatchOperator("compare", l, r, ex.Pos)
		if err != nil {
			return nil, err
		}
		n, ok := Deref(result).(*Number)
		if !ok {
			return nil, diagnostic.NewRuntimeError(ex.Pos, "compare implementation must return a Float (-1/0/1)")
		}
		cmp = compareFloat(n.Value, 0)
	}

	switch ex.Op {
	case "<":
		return BoolValue(cmp < 0), nil
	case ">":
		return BoolValue(cmp > 0), nil
	case "<=":
		return BoolValue(cmp <= 0), nil
	case ">=":
		return BoolValue(cmp >= 0), nil
	}
	return nil, diagnostic.NewRuntimeError(ex.Pos, "unreachable comparison operator")
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// evalArith implements `+ - * / %` (spec §4.4): `+` is Add, `- * /` are
// Numeric, `/` returns Option a to encode division by zero (spec §9), and
// `%` has no trait counterpart so it stays Float-only.
func (e *Evaluator) evalArith(ex *ast.BinaryExpr, env *Environment) (Value, error) {
	l, err := e.Eval(ex.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := e.Eval(ex.Right, env)
	if err != nil {
		return nil, err
	}
	l, r = Deref(l), Deref(r)

	// Primitive shortcut (spec §4.6: "For primitives, direct evaluation
	// short-circuits the registry for speed").
	if ln, ok := l.(*Number); ok {
		if rn, ok := r.(*Number); ok {
			return evalNumericArith(ex.Op, ln.Value, rn.Value, ex.Pos)
		}
	}
	if ls, ok := l.(*String); ok && ex.Op == "+" {
		if rs, ok := r.(*String); ok {
			return &String{Value: ls.Value + rs.Value}, nil
		}
	}

	fname, ok := arithFuncName(ex.Op)
	if !ok {
		return nil, diagnostic.NewRuntimeError(ex.Pos, fmt.Sprintf("%% is only defined for Float, got %s", GetValueTypeName(l)))
	}
	return e.dispatchOperator(fname, l, r, ex.Pos)
}

func evalNumericArith(op string, a, b float64, pos ast.Pos) (Value, error) {
	switch op {
	case "+":
		return &Number{Value: a + b}, nil
	case "-":
		return &Number{Value: a - b}, nil
	case "*":
		return &Number{Value: a * b}, nil
	case "%":
		if b == 0 {
			return nil, diagnostic.NewRuntimeError(pos, "modulo by zero")
		}
		return &Number{Value: float64(int64(a) % int64(b))}, nil
	case "/":
		if b == 0 {
			return &Constructor{TypeName_: "Option", Name: "None"}, nil
		}
		return &Constructor{TypeName_: "Option", Name: "Some", Args: []Value{&Number{Value: a / b}}}, nil
	}
	return nil, diagnostic.NewRuntimeError(pos, "unreachable arithmetic operator")
}

// arithFuncName maps an arithmetic operator to the trait function name it
// dispatches to for non-primitive operands (spec §4.6/§4.7): `+` is `Add`'s
// `add`, `- * /` are `Numeric`'s `sub`/`mul`/`div` (stdlib/stdlib.noo). `%`
// has no trait counterpart and stays primitive-only.
func arithFuncName(op string) (string, bool) {
	switch op {
	case "+":
		return "add", true
	case "-":
		return "sub", true
	case "*":
		return "mul", true
	case "/":
		return "div", true
	}
	return "", false
}

// dispatchOperator hands non-primitive operands to runtime trait dispatch
// of fname (spec §4.7). The environment is not consulted: fname always
// resolves through the trait registry.
func (e *Evaluator) dispatchOperator(fname string, l, r Value, pos ast.Pos) (Value, error) {
	tf := &TraitFunction{Name: fname}
	result, err := e.applyTraitFunction(tf, l, pos)
	if err != nil {
		return nil, err
	}
	return e.Apply(result, r, pos)
}
