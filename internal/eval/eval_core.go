package eval

import (
	"fmt"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
)

// Resolver resolves an import path to a parsed program, the external
// collaborator spec §1/§6.2 assumes ("the core assumes a resolver
// function"). internal/loader implements this.
type Resolver interface {
	Resolve(fromFile, path string) (*ast.Program, error)
}

// Evaluator is the tree-walking evaluator core (spec §4.6) plus runtime
// trait dispatch (spec §4.7), modeled on the teacher's CoreEvaluator.
type Evaluator struct {
	Traits            *traits.Registry
	Resolver          Resolver
	Global            *Environment
	CurrentFile       string // path of the program currently being evaluated, passed to Resolver.Resolve
	recursionDepth    int
	maxRecursionDepth int
	importing         map[string]bool // cycle guard, spec SPEC_FULL.md §3 loader
	imported          map[string]Value
}

func New(reg *traits.Registry) *Evaluator {
	return &Evaluator{
		Traits:            reg,
		Global:            NewEnvironment(),
		maxRecursionDepth: 10000,
		importing:         map[string]bool{},
		imported:          map[string]Value{},
	}
}

// EvalProgram evaluates every statement in sequence against env, returning
// the final statement's value (spec §6.1: "a program is a semicolon-
// separated sequence of expressions... the value of the program is the
// value of the final expression").
func (e *Evaluator) EvalProgram(prog *ast.Program, env *Environment) (Value, error) {
	var result Value = TheUnit
	for _, stmt := range prog.Statements {
		v, err := e.Eval(stmt, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Eval dispatches on the AST node kind, the evaluator-side mirror of the
// inferencer's per-kind dispatch (spec §4.4/§4.6).
func (e *Evaluator) Eval(expr ast.Expr, env *Environment) (Value, error) {
	switch ex := expr.(type) {
	case *ast.NumberLit:
		return &Number{Value: ex.Value}, nil
	case *ast.StringLit:
		return &String{Value: ex.Value}, nil
	case *ast.BoolLit:
		return BoolValue(ex.Value), nil
	case *ast.Identifier:
		if v, ok := env.Get(ex.Name); ok {
			return Deref(v), nil
		}
		if e.Traits.IsTraitFunction(ex.Name) {
			return &TraitFunction{Name: ex.Name}, nil
		}
		return nil, diagnostic.NewUndefinedVariable(ex.Pos, ex.Name, nil)
	case *ast.Accessor:
		return e.evalAccessor(ex), nil
	case *ast.ListLit:
		return e.evalList(ex, env)
	case *ast.TupleLit:
		return e.evalTuple(ex, env)
	case *ast.RecordLit:
		return e.evalRecord(ex, env)
	case *ast.FuncExpr:
		return e.evalFunc(ex, env), nil
	case *ast.AppExpr:
		return e.evalApp(ex, env)
	case *ast.BinaryExpr:
		return e.evalBinary(ex, env)
	case *ast.IfExpr:
		return e.evalIf(ex, env)
	case *ast.DefineExpr:
		return e.evalDefine(ex, env)
	case *ast.MutateExpr:
		return e.evalMutate(ex, env)
	case *ast.WhereExpr:
		return e.evalWhere(ex, env)
	case *ast.MatchExpr:
		return e.evalMatch(ex, env)
	case *ast.TypeDeclExpr:
		return e.evalTypeDecl(ex, env)
	case *ast.ConstraintDeclExpr:
		// The registry is populated by the inferencer pass before
		// evaluation begins (spec §5: "mutable only during setup ... read-
		// only at runtime"); nothing to do here.
		return TheUnit, nil
	case *ast.ImplementDeclExpr:
		return TheUnit, nil
	case *ast.ImportExpr:
		return e.evalImport(ex, env)
	case *ast.AnnotatedExpr:
		return e.Eval(ex.Expr, env)
	}
	return nil, diagnostic.NewRuntimeError(expr.Position(), fmt.Sprintf("cannot evaluate %T", expr))
}

func (e *Evaluator) evalList(ex *ast.ListLit, env *Environment) (Value, error) {
	vals := make([]Value, len(ex.Elements))
	for i, el := range ex.Elements {
		v, err := e.Eval(el, env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return &List{Elements: vals}, nil
}

func (e *Evaluator) evalTuple(ex *ast.TupleLit, env *Environment) (Value, error) {
	vals := make([]Value, len(ex.Elements))
	for i, el := range ex.Elements {
		v, err := e.Eval(el, env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return &Tuple{Elements: vals}, nil
}

func (e *Evaluator) evalRecord(ex *ast.RecordLit, env *Environment) (Value, error) {
	fields := make(map[string]Value, len(ex.Fields))
	for _, f := range ex.Fields {
		v, err := e.Eval(f.Value, env)
		if err != nil {
			return nil, err
		}
		fields[f.Name] = v
	}
	return &Record{Fields: fields}, nil
}

// evalAccessor builds the `@field` / `@field?` function value (spec §4.4:
// "@field is a function ... alpha -> beta"). Optional accessors wrap the
// result in Some/None instead of raising RowMissingField.
func (e *Evaluator) evalAccessor(ex *ast.Accessor) Value {
	field := ex.Field
	optional := ex.Optional
	return &Native{
		Name: "@" + field,
		Apply: func(arg Value) (Value, error) {
			arg = Deref(arg)
			rec, ok := arg.(*Record)
			if !ok {
				if optional {
					return &Constructor{TypeName_: "Option", Name: "None"}, nil
				}
				return nil, diagnostic.NewRowMissingField(ast.Pos{}, nil, field)
			}
			v, ok := rec.Fields[field]
			if !ok {
				if optional {
					return &Constructor{TypeName_: "Option", Name: "None"}, nil
				}
				return nil, diagnostic.NewRowMissingField(ast.Pos{}, nil, field)
			}
			if optional {
				return &Constructor{TypeName_: "Option", Name: "Some", Args: []Value{v}}, nil
			}
			return v, nil
		},
	}
}

// evalFunc builds a curried closure chain for an n-ary function (spec
// §4.6 "Currying": "user functions of arity n are represented as closures
// that consume one argument and return either the next closure or the
// body's value").
func (e *Evaluator) evalFunc(ex *ast.FuncExpr, env *Environment) Value {
	return e.curry(ex.Params, ex.Body, env)
}

func (e *Evaluator) curry(params []ast.FuncParam, body ast.Expr, closureEnv *Environment) Value {
	if len(params) == 0 {
		// Zero-param function (e.g. `fn => body`, used for thunks): a Native
		// that evaluates the body each time it is applied, ignoring the
		// argument it is applied to.
		return &Native{Name: "<thunk>", Apply: func(Value) (Value, error) {
			return e.Eval(body, closureEnv)
		}}
	}
	if len(params) == 1 {
		p := params[0]
		return &Function{Param: p.Name, Apply: func(arg Value) (Value, error) {
			callEnv := closureEnv.Extend(p.Name, arg)
			e.recursionDepth++
			if e.recursionDepth > e.maxRecursionDepth {
				e.recursionDepth--
				return nil, diagnostic.NewRuntimeError(body.Position(), "max recursion depth exceeded")
			}
			defer func() { e.recursionDepth-- }()
			return e.Eval(body, callEnv)
		}}
	}
	p := params[0]
	rest := params[1:]
	return &Function{Param: p.Name, Apply: func(arg Value) (Value, error) {
		callEnv := closureEnv.Extend(p.Name, arg)
		return e.curry(rest, body, callEnv), nil
	}}
}

// Apply applies fn to arg, handling ordinary closures, natives, and
// deferred TraitFunction values (spec §4.7).
func (e *Evaluator) Apply(fn, arg Value, pos ast.Pos) (Value, error) {
	fn = Deref(fn)
	switch f := fn.(type) {
	case *Function:
		return f.Apply(arg)
	case *Native:
		return f.Apply(arg)
	case *TraitFunction:
		return e.applyTraitFunction(f, arg, pos)
	case *Constructor:
		// A partially-applied user constructor — should not normally reach
		// here (constructors are bound as curried Native chains), but guard
		// anyway for constructors built with fewer args than declared.
		return &Constructor{TypeName_: f.TypeName_, Name: f.Name, Args: append(append([]Value{}, f.Args...), arg)}, nil
	}
	return nil, diagnostic.NewRuntimeError(pos, fmt.Sprintf("cannot apply non-function value %s", fn.String()))
}

func (e *Evaluator) evalApp(ex *ast.AppExpr, env *Environment) (Value, error) {
	fn, err := e.Eval(ex.Func, env)
	if err != nil {
		return nil, err
	}
	for _, argExpr := range ex.Args {
		arg, err := e.Eval(argExpr, env)
		if err != nil {
			return nil, err
		}
		fn, err = e.Apply(fn, arg, ex.Pos)
		if err != nil {
			return nil, err
		}
	}
	return fn, nil
}

func (e *Evaluator) evalIf(ex *ast.IfExpr, env *Environment) (Value, error) {
	cond, err := e.Eval(ex.Cond, env)
	if err != nil {
		return nil, err
	}
	if IsTruthy(cond) {
		return e.Eval(ex.Then, env)
	}
	return e.Eval(ex.Else, env)
}

// evalDefine binds a Cell first so recursive/mutually-recursive references
// within Value resolve, then evaluates and patches it (spec §4.6, §9
// "Recursive binding via mutable cells").
func (e *Evaluator) evalDefine(ex *ast.DefineExpr, env *Environment) (Value, error) {
	cell := &Cell{}
	env.Set(ex.Name, cell)
	v, err := e.Eval(ex.Value, env)
	if err != nil {
		return nil, err
	}
	cell.Value = v
	if !ex.Mutable {
		// Immutable bindings are still stored through a Cell internally (to
		// support recursive reference during evaluation of Value above) but
		// henceforth read as the plain value by Deref at every lookup site.
	}
	return TheUnit, nil
}

func (e *Evaluator) evalMutate(ex *ast.MutateExpr, env *Environment) (Value, error) {
	v, ok := env.Get(ex.Name)
	if !ok {
		return nil, diagnostic.NewUndefinedVariable(ex.Pos, ex.Name, nil)
	}
	cell, ok := v.(*Cell)
	if !ok {
		return nil, diagnostic.NewRuntimeError(ex.Pos, fmt.Sprintf("%s is not mutable", ex.Name))
	}
	newVal, err := e.Eval(ex.Value, env)
	if err != nil {
		return nil, err
	}
	cell.Value = newVal
	return TheUnit, nil
}

// evalWhere evaluates `body where (defs)` over a child scope, released on
// exit per spec §5: the defs are evaluated into the child scope in order,
// then the body. This is its own evaluator path; no match is built.
func (e *Evaluator) evalWhere(ex *ast.WhereExpr, env *Environment) (Value, error) {
	scope := env.Child()
	for _, def := range ex.Defs {
		if _, err := e.Eval(def, scope); err != nil {
			return nil, err
		}
	}
	return e.Eval(ex.Body, scope)
}
