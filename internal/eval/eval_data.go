package eval

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
)

// evalTypeDecl registers each constructor declared by a `type` expression as
// a curried constructor-building function in env (spec §4.4: "registers
// curried constructors in env"). The ADT registry proper (constructor arity/
// owner bookkeeping used for type inference) is populated on the inference
// side; the runtime only needs the constructor functions themselves.
func (e *Evaluator) evalTypeDecl(ex *ast.TypeDeclExpr, env *Environment) (Value, error) {
	for _, ctor := range ex.Ctors {
		env.Set(ctor.Name, makeConstructorFunc(ex.Name, ctor.Name, len(ctor.Fields)))
	}
	return TheUnit, nil
}

// makeConstructorFunc builds a curried Native chain of arity n that
// accumulates arguments into a Constructor value, or a bare nullary
// Constructor when n == 0 (spec §4.6 "Constructors").
func makeConstructorFunc(typeName, ctorName string, arity int) Value {
	if arity == 0 {
		return &Constructor{TypeName_: typeName, Name: ctorName}
	}
	return curryConstructor(typeName, ctorName, arity, nil)
}

func curryConstructor(typeName, ctorName string, remaining int, collected []Value) Value {
	return &Native{
		Name: ctorName,
		Apply: func(arg Value) (Value, error) {
			args := append(append([]Value{}, collected...), arg)
			if remaining == 1 {
				return &Constructor{TypeName_: typeName, Name: ctorName, Args: args}, nil
			}
			return curryConstructor(typeName, ctorName, remaining-1, args), nil
		},
	}
}

// evalImport resolves and evaluates an imported program exactly once per
// run (SPEC_FULL.md §3 loader requirements): memoized in e.imported, guarded
// against cycles via e.importing. The imported value is the final
// expression's value of the imported program (spec §4.4: "Imports are
// treated as opaque expressions whose inferred type is the inferred type of
// the imported program's final expression").
func (e *Evaluator) evalImport(ex *ast.ImportExpr, env *Environment) (Value, error) {
	if v, ok := e.imported[ex.Path]; ok {
		return v, nil
	}
	if e.importing[ex.Path] {
		return nil, diagnostic.NewRuntimeError(ex.Pos, "circular import: "+ex.Path)
	}
	if e.Resolver == nil {
		return nil, diagnostic.NewRuntimeError(ex.Pos, "no module resolver configured for import "+ex.Path)
	}
	e.importing[ex.Path] = true
	defer delete(e.importing, ex.Path)

	prog, err := e.Resolver.Resolve(e.CurrentFile, ex.Path)
	if err != nil {
		return nil, diagnostic.NewRuntimeError(ex.Pos, "cannot resolve import "+ex.Path+": "+err.Error())
	}

	moduleEnv := e.Global.Child()
	v, err := e.EvalProgram(prog, moduleEnv)
	if err != nil {
		return nil, err
	}
	e.imported[ex.Path] = v
	return v, nil
}
