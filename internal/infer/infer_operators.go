package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// inferBinary types the full operator family of spec §4.4/§6.1:
// sequencing `;`, low-precedence apply `$`, thrush `|`, safe-bind `|?`,
// pipeline `|> <|`, comparisons, and trait-typed arithmetic.
func (inf *Inferencer) inferBinary(ex *ast.BinaryExpr, state *types.TypeState) (*TypeResult, error) {
	switch ex.Op {
	case ";":
		left, err := inf.Infer(ex.Left, state)
		if err != nil {
			return nil, err
		}
		right, err := inf.Infer(ex.Right, left.State)
		if err != nil {
			return nil, err
		}
		return &TypeResult{Type: right.Type, Effects: left.Effects.Union(right.Effects), State: right.State}, nil
	case "$":
		return inf.inferApplyOperator(ex.Left, ex.Right, ex.Pos, state)
	case "|":
		// Thrush: value-then-function; typed equivalently to apply (spec
		// §4.4), with operands swapped.
		return inf.inferApplyOperator(ex.Right, ex.Left, ex.Pos, state)
	case "|>":
		return inf.inferApplyOperator(ex.Right, ex.Left, ex.Pos, state)
	case "<|":
		return inf.inferApplyOperator(ex.Left, ex.Right, ex.Pos, state)
	case "|?":
		return inf.inferSafeBind(ex, state)
	case "==", "!=", "<", ">", "<=", ">=":
		return inf.inferComparison(ex, state)
	case "+", "-", "*", "/", "%":
		return inf.inferArith(ex, state)
	}
	return nil, diagnostic.NewRuntimeError(ex.Pos, "unknown operator "+ex.Op)
}

// inferApplyOperator infers fnExpr and argExpr and applies one to the
// other, shared by `$`, `|`, `|>`, `<|`.
func (inf *Inferencer) inferApplyOperator(fnExpr, argExpr ast.Expr, pos ast.Pos, state *types.TypeState) (*TypeResult, error) {
	fnResult, err := inf.Infer(fnExpr, state)
	if err != nil {
		return nil, err
	}
	argResult, err := inf.Infer(argExpr, fnResult.State)
	if err != nil {
		return nil, err
	}
	retType, callEffects, nextState, err := inf.applyOneArg(pos, fnResult.Type, argResult.Type, argResult.State)
	if err != nil {
		return nil, err
	}
	effects := fnResult.Effects.Union(argResult.Effects).Union(callEffects)
	return &TypeResult{Type: retType, Effects: effects, State: nextState}, nil
}

// inferSafeBind types `|?` (spec §4.4 "Safe bind") without consulting any
// trait: the result is the right operand's function return type, or a
// fresh variable when the right operand isn't a known function. The left
// operand's type is not unified against anything.
func (inf *Inferencer) inferSafeBind(ex *ast.BinaryExpr, state *types.TypeState) (*TypeResult, error) {
	left, err := inf.Infer(ex.Left, state)
	if err != nil {
		return nil, err
	}
	right, err := inf.Infer(ex.Right, left.State)
	if err != nil {
		return nil, err
	}
	state = right.State
	result := types.Type(state.FreshVar())
	if fn, ok := concreteFunction(right.Type, state); ok && len(fn.Params) >= 1 {
		result = fn.Return.Substitute(state.Sub)
	}
	return &TypeResult{Type: result, Effects: left.Effects.Union(right.Effects), State: state}, nil
}

// inferComparison types `==`/`!=` as a universal structural-equality
// primitive and `< > <= >=` as an Ord-style comparison, both returning Bool
// (spec §9 Open Question on `==`, decided as a universal primitive — see
// DESIGN.md and internal/eval's matching decision).
func (inf *Inferencer) inferComparison(ex *ast.BinaryExpr, state *types.TypeState) (*TypeResult, error) {
	left, err := inf.Infer(ex.Left, state)
	if err != nil {
		return nil, err
	}
	right, err := inf.Infer(ex.Right, left.State)
	if err != nil {
		return nil, err
	}
	state, err = inf.unify(ex.Pos, right.State, left.Type, right.Type, nil)
	if err != nil {
		return nil, err
	}
	return &TypeResult{Type: types.Bool, Effects: left.Effects.Union(right.Effects), State: state}, nil
}

// inferArith types `+ - * / %` as trait operations (spec §4.4): `+` carries
// an `Add` constraint, `- * /` carry `Numeric`; `/` returns `Option a`. `%`
// has no trait counterpart (stdlib/stdlib.noo's Numeric constraint only
// declares sub/mul/div) so it stays pinned to Float.
func (inf *Inferencer) inferArith(ex *ast.BinaryExpr, state *types.TypeState) (*TypeResult, error) {
	left, err := inf.Infer(ex.Left, state)
	if err != nil {
		return nil, err
	}
	right, err := inf.Infer(ex.Right, left.State)
	if err != nil {
		return nil, err
	}
	state, err = inf.unify(ex.Pos, right.State, left.Type, right.Type, nil)
	if err != nil {
		return nil, err
	}
	operand := left.Type.Substitute(state.Sub)

	if ex.Op == "%" {
		state, err = inf.unify(ex.Pos, state, operand, types.Float, nil)
		if err != nil {
			return nil, err
		}
		return &TypeResult{Type: types.Float, Effects: left.Effects.Union(right.Effects), State: state}, nil
	}

	traitName := "Numeric"
	if ex.Op == "+" {
		traitName = "Add"
	}
	if v, ok := operand.(*types.Variable); ok {
		v.Constraints = types.DedupeConstraints(append(v.Constraints, &types.Implements{TypeVar: v.Name, Interface: traitName}))
	} else if _, isPrimitive := operand.(*types.Primitive); !isPrimitive {
		// Non-primitive, non-variable: must already satisfy the trait or be
		// rejected (a primitive String is also accepted for `+`, matching the
		// runtime's String-concatenation shortcut in internal/eval).
		if _, err := inf.dischargeConstraint(ex.Pos, &types.Implements{Interface: traitName}, operand); err != nil {
			return nil, err
		}
	}

	resultType := operand
	if ex.Op == "/" {
		resultType = &types.Variant{Name: "Option", Args: []types.Type{operand}}
	}
	return &TypeResult{Type: resultType, Effects: left.Effects.Union(right.Effects), State: state}, nil
}
