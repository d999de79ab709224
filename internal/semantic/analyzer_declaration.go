package semantic

import (
	mapset "github.com/deckarep/golang-set"

	"carlos/internal/ast"
	"carlos/internal/errors"
)

// analyzeVariable resolves the declared type before the initializer, so an
// initializer mentioning the variable itself sees a typed referent.
func (a *Analyzer) analyzeVariable(v *ast.Variable, ctx Context) {
	v.Type = a.lookupType(ctx, v.TypeName, v.Pos)
	if v.Initializer == nil {
		return
	}
	a.analyzeExpression(v.Initializer, ctx)
	a.requireAssignable(ctx, v.Initializer, v.Type)
}

func (a *Analyzer) analyzeStructType(t *ast.Type, ctx Context) {
	seen := mapset.NewThreadUnsafeSet()
	for _, f := range t.Fields {
		if seen.Contains(f.Name) {
			a.log.Add(errors.DuplicateField(f.Name, t.Name, f.Pos))
		}
		seen.Add(f.Name)
		f.Type = a.lookupType(ctx, f.TypeName, f.Pos)
	}
}

// analyzeSignature resolves parameter and return types. Parameters are
// inserted into the body's scope, which is created here so that it nests in
// the scope of the declaring block.
func (a *Analyzer) analyzeSignature(f *ast.Function, ctx Context) {
	if !f.IsVoid() {
		f.ReturnType = a.lookupType(ctx, f.ReturnTypeName, f.Pos)
	}

	bodyCtx := ctx.WithTable(f.Body.CreateTable(ctx.table))
	for _, p := range f.Parameters {
		p.Type = a.lookupType(ctx, p.TypeName, p.Pos)
		a.insert(bodyCtx, p)
	}
}

func (a *Analyzer) analyzeFunctionBody(f *ast.Function, ctx Context) {
	bodyCtx := ctx.
		WithTable(f.Body.CreateTable(ctx.table)).
		WithFunction(f).
		WithInLoop(false)
	a.analyzeBlock(f.Body, bodyCtx)
}
