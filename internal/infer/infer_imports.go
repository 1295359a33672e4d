package infer

import (
	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// inferImport resolves and infers an imported program exactly once per run,
// memoized in inf.imported and guarded against cycles via inf.importing
// (spec §4.4 "Imports are treated as opaque expressions whose inferred type
// is the inferred type of the imported program's final expression.
// Circular imports are not supported.").
func (inf *Inferencer) inferImport(ex *ast.ImportExpr, state *types.TypeState) (*TypeResult, error) {
	if cached, ok := inf.imported[ex.Path]; ok {
		return &TypeResult{Type: cached.Type, Effects: cached.Effects, State: state}, nil
	}
	if inf.importing[ex.Path] {
		return nil, diagnostic.NewRuntimeError(ex.Pos, "circular import: "+ex.Path)
	}
	if inf.Resolver == nil {
		return nil, diagnostic.NewRuntimeError(ex.Pos, "no module resolver configured for import "+ex.Path)
	}
	inf.importing[ex.Path] = true
	defer delete(inf.importing, ex.Path)

	prog, err := inf.Resolver.Resolve(inf.CurrentFile, ex.Path)
	if err != nil {
		return nil, diagnostic.NewRuntimeError(ex.Pos, "cannot resolve import "+ex.Path+": "+err.Error())
	}

	prevFile := inf.CurrentFile
	inf.CurrentFile = ex.Path
	moduleState := state.WithEnv(state.Env)
	result, err := inf.InferProgram(prog, moduleState)
	inf.CurrentFile = prevFile
	if err != nil {
		return nil, err
	}

	inf.imported[ex.Path] = result
	return &TypeResult{Type: result.Type, Effects: result.Effects, State: state}, nil
}
