package semantic

import (
	"github.com/tliron/commonlog"

	"carlos/internal/ast"
	"carlos/internal/errors"
	"carlos/internal/stdlib"
)

type Analyzer struct {
	log    *errors.Log
	logger commonlog.Logger
}

// NewAnalyzer creates an analyzer that reports into log. A nil log gets a
// fresh one.
func NewAnalyzer(log *errors.Log) *Analyzer {
	if log == nil {
		log = errors.NewLog()
	}
	return &Analyzer{
		log:    log,
		logger: commonlog.GetLogger("carlos.semantic"),
	}
}

// Analyze resolves names and checks types across the whole program,
// decorating the tree in place. The program's block is analyzed in a scope
// nested inside a fresh global scope holding the primitive types and the
// standard functions.
func (a *Analyzer) Analyze(program *ast.Program) []errors.CompilerError {
	before := a.log.ErrorCount()
	ctx := NewContext(a.log, stdlib.NewGlobalScope())
	a.analyzeBlock(program.Block, ctx)
	a.logger.Debugf("analysis finished with %d new errors", a.log.ErrorCount()-before)
	return a.log.Errors()
}

// GetErrors returns all diagnostics reported so far.
func (a *Analyzer) GetErrors() []errors.CompilerError {
	return a.log.Errors()
}

// Log returns the diagnostic sink of this analyzer.
func (a *Analyzer) Log() *errors.Log {
	return a.log
}

// analyzeBlock processes a block in four steps so that types and functions
// may be used before their declaration within the block, while variables may
// not:
//  1. insert every struct type
//  2. resolve the fields of every struct type
//  3. resolve every function signature, then insert the function
//  4. analyze the statements in order
func (a *Analyzer) analyzeBlock(block *ast.Block, ctx Context) {
	ctx = ctx.WithTable(block.CreateTable(ctx.table))

	var types []*ast.Type
	var functions []*ast.Function
	for _, s := range block.Statements {
		d, ok := s.(*ast.Declaration)
		if !ok {
			continue
		}
		switch decl := d.Declarable.(type) {
		case *ast.Type:
			types = append(types, decl)
		case *ast.Function:
			functions = append(functions, decl)
		}
	}

	for _, t := range types {
		a.insert(ctx, t)
	}
	for _, t := range types {
		a.analyzeStructType(t, ctx)
	}
	for _, f := range functions {
		a.analyzeSignature(f, ctx)
		a.insert(ctx, f)
	}
	for _, s := range block.Statements {
		a.analyzeStatement(s, ctx)
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement, ctx Context) {
	switch s := stmt.(type) {
	case *ast.Declaration:
		a.analyzeDeclaration(s, ctx)

	case *ast.AssignmentStatement:
		a.analyzeExpression(s.Left, ctx)
		a.analyzeExpression(s.Right, ctx)
		a.requireWritable(ctx, s.Left)
		a.requireAssignable(ctx, s.Right, s.Left.TypeOf())

	case *ast.IncrementStatement:
		a.analyzeExpression(s.Target, ctx)
		a.requireInteger(ctx, s.Op, s.Target)
		a.requireWritable(ctx, s.Target)

	case *ast.CallStatement:
		for _, arg := range s.Args {
			a.analyzeExpression(arg, ctx)
		}
		s.Function = a.lookupFunction(ctx, s.FunctionName, s.Args, s.Pos)
		if s.Function != nil && !s.Function.IsVoid() {
			ctx.report(errors.ErrorNonVoidInStatement, s.Pos, s.FunctionName)
		}

	case *ast.BreakStatement:
		if !ctx.inLoop {
			a.log.Add(errors.BreakNotInLoop(s.Pos))
		}

	case *ast.ReturnStatement:
		a.analyzeReturn(s, ctx)

	case *ast.PrintStatement:
		for _, arg := range s.Args {
			a.analyzeExpression(arg, ctx)
		}

	case *ast.IfStatement:
		for _, c := range s.Cases {
			a.analyzeExpression(c.Condition, ctx)
			a.requireBoolean(ctx, "if condition", c.Condition)
			a.analyzeBlock(c.Body, ctx)
		}
		if s.Else != nil {
			a.analyzeBlock(s.Else, ctx)
		}

	case *ast.WhileStatement:
		a.analyzeExpression(s.Condition, ctx)
		a.requireBoolean(ctx, "while condition", s.Condition)
		a.analyzeBlock(s.Body, ctx.WithInLoop(true))

	case *ast.ClassicForStatement:
		a.analyzeFor(s, ctx)

	default:
		a.internalError(ctx, stmt.NodePos(), "no analysis for statement %s", stmt.Kind())
	}
}

func (a *Analyzer) analyzeDeclaration(d *ast.Declaration, ctx Context) {
	switch decl := d.Declarable.(type) {
	case *ast.Variable:
		a.insert(ctx, decl)
		a.analyzeVariable(decl, ctx)
	case *ast.Function:
		a.analyzeFunctionBody(decl, ctx)
	case *ast.Type:
		// Handled by the block pre-pass.
	default:
		a.internalError(ctx, d.Pos, "no analysis for declaration %s", d.Declarable.Kind())
	}
}

func (a *Analyzer) analyzeReturn(s *ast.ReturnStatement, ctx Context) {
	if s.Value != nil {
		a.analyzeExpression(s.Value, ctx)
	}

	f := ctx.function
	if f == nil {
		ctx.report(errors.ErrorReturnOutsideFunction, s.Pos)
		return
	}
	s.Function = f

	switch {
	case s.Value != nil && f.IsVoid():
		ctx.report(errors.ErrorReturnValueInVoid, s.Pos, f.Name)
	case s.Value != nil:
		a.requireAssignable(ctx, s.Value, f.ReturnType)
	case !f.IsVoid():
		ctx.report(errors.ErrorMissingReturnValue, s.Pos, f.Name, f.ReturnTypeName)
	}
}

// analyzeFor places the index variable in the body's own scope, so the body
// cannot redeclare it and it is invisible after the loop.
func (a *Analyzer) analyzeFor(s *ast.ClassicForStatement, ctx Context) {
	if s.HasInit() {
		s.IndexVariable = ast.NewVariable(s.Pos, s.Index, s.TypeName, s.Init)
		ctx = ctx.WithTable(s.Body.CreateTable(ctx.table))
		a.insert(ctx, s.IndexVariable)
		a.analyzeVariable(s.IndexVariable, ctx)
	}
	if s.Test != nil {
		a.analyzeExpression(s.Test, ctx)
		a.requireBoolean(ctx, "for condition", s.Test)
	}
	if s.Step != nil {
		a.analyzeStatement(s.Step, ctx)
	}
	a.analyzeBlock(s.Body, ctx.WithInLoop(true))
}
