// Package infer implements THE CORE inferencer (expression dispatcher) and
// constraint resolver described in spec §4.4/§4.5, modeled on the teacher's
// internal/types/typechecker_*.go split-by-concern layout (core/data/
// functions/literals/operators/patterns split into files of the same name
// here).
package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// Resolver resolves an import path to a parsed program, mirroring
// internal/eval's collaborator of the same name (spec §6.2, SPEC_FULL.md
// §3 loader).
type Resolver interface {
	Resolve(fromFile, path string) (*ast.Program, error)
}

// TypeResult is the per-expression result of inference (spec §4.4: "For
// each AST kind, the inferencer returns a TypeResult{type, effects,
// state}").
type TypeResult struct {
	Type    types.Type
	Effects types.EffectSet
	State   *types.TypeState
}

// Inferencer threads a TypeState through the AST, consulting and populating
// the shared trait registry as `constraint`/`implement` declarations are
// processed (spec §5: "the trait registry is mutable only during setup and
// top-level constraint/implement processing").
type Inferencer struct {
	Traits      *traits.Registry
	Resolver    Resolver
	CurrentFile string
	importing   map[string]bool
	imported    map[string]*TypeResult
}

func New(reg *traits.Registry) *Inferencer {
	return &Inferencer{
		Traits:    reg,
		importing: map[string]bool{},
		imported:  map[string]*TypeResult{},
	}
}

// InferProgram infers every statement in sequence, threading the resulting
// state forward, and returns the final statement's result (spec §6.1: "the
// value of the program is the value of the final expression" — applied
// equally to its type).
func (inf *Inferencer) InferProgram(prog *ast.Program, state *types.TypeState) (*TypeResult, error) {
	var result *TypeResult
	for _, stmt := range prog.Statements {
		r, err := inf.Infer(stmt, state)
		if err != nil {
			return nil, err
		}
		result = r
		state = r.State
	}
	if result == nil {
		return &TypeResult{Type: types.Unit, Effects: types.EffectSet{}, State: state}, nil
	}
	return result, nil
}

// Infer dispatches on the AST node kind (spec §4.4).
func (inf *Inferencer) Infer(expr ast.Expr, state *types.TypeState) (*TypeResult, error) {
	switch ex := expr.(type) {
	case *ast.NumberLit:
		return &TypeResult{Type: types.Float, Effects: types.EffectSet{}, State: state}, nil
	case *ast.StringLit:
		return &TypeResult{Type: types.String, Effects: types.EffectSet{}, State: state}, nil
	case *ast.BoolLit:
		return &TypeResult{Type: types.Bool, Effects: types.EffectSet{}, State: state}, nil
	case *ast.Identifier:
		return inf.inferIdentifier(ex, state)
	case *ast.Accessor:
		return inf.inferAccessor(ex, state)
	case *ast.ListLit:
		return inf.inferList(ex, state)
	case *ast.TupleLit:
		return inf.inferTuple(ex, state)
	case *ast.RecordLit:
		return inf.inferRecord(ex, state)
	case *ast.FuncExpr:
		return inf.inferFunc(ex, state)
	case *ast.AppExpr:
		return inf.inferApp(ex, state)
	case *ast.BinaryExpr:
		return inf.inferBinary(ex, state)
	case *ast.IfExpr:
		return inf.inferIf(ex, state)
	case *ast.DefineExpr:
		return inf.inferDefine(ex, state)
	case *ast.MutateExpr:
		return inf.inferMutate(ex, state)
	case *ast.WhereExpr:
		return inf.inferWhere(ex, state)
	case *ast.MatchExpr:
		return inf.inferMatch(ex, state)
	case *ast.TypeDeclExpr:
		return inf.inferTypeDecl(ex, state)
	case *ast.ConstraintDeclExpr:
		return inf.inferConstraintDecl(ex, state)
	case *ast.ImplementDeclExpr:
		return inf.inferImplementDecl(ex, state)
	case *ast.ImportExpr:
		return inf.inferImport(ex, state)
	case *ast.AnnotatedExpr:
		return inf.inferAnnotated(ex, state)
	}
	return nil, diagnostic.NewRuntimeError(expr.Position(), "internal error: cannot infer unknown expression kind")
}

// unify is a small convenience that turns a types.TypeMismatchError/
// OccursCheckError into the diagnostic taxonomy (spec §7).
func (inf *Inferencer) unify(pos ast.Pos, state *types.TypeState, t1, t2 types.Type, path []string) (*types.TypeState, error) {
	next, err := state.Unify(t1, t2)
	if err != nil {
		switch e := err.(type) {
		case *types.TypeMismatchError:
			return nil, diagnostic.NewTypeMismatch(pos, e.Expected, e.Actual, path)
		case *types.OccursCheckError:
			return nil, diagnostic.NewOccursCheck(pos, e.Var, e.In)
		}
		return nil, diagnostic.NewRuntimeError(pos, err.Error())
	}
	return next, nil
}
