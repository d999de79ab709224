package semantic

import (
	"carlos/internal/ast"
	"carlos/internal/errors"
)

// analyzeExpression resolves names inside e and records its type. After it
// returns, e.TypeOf() is never nil; unresolvable constructs are typed
// Arbitrary so that enclosing checks stay quiet.
func (a *Analyzer) analyzeExpression(expr ast.Expression, ctx Context) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		a.analyzeIntegerLiteral(e, ctx)
	case *ast.RealLiteral:
		a.analyzeRealLiteral(e, ctx)
	case *ast.CharLiteral:
		a.analyzeCharLiteral(e, ctx)
	case *ast.StringLiteral:
		a.analyzeStringLiteral(e, ctx)
	case *ast.BooleanLiteral, *ast.NullLiteral:
		// Typed by construction.

	case *ast.SimpleVariableReference:
		e.Referent = a.lookupVariable(ctx, e.Name, e.Pos)
		e.Type = e.Referent.Type
		if e.Type == nil {
			e.Type = ast.Arbitrary
		}

	case *ast.SubscriptedVariable:
		a.analyzeExpression(e.Sequence, ctx)
		a.analyzeExpression(e.Index, ctx)
		a.requireArrayOrString(ctx, "[]", e.Sequence)
		a.requireInteger(ctx, "[]", e.Index)
		switch t := e.Sequence.TypeOf(); {
		case t == ast.String:
			e.Type = ast.Char
		case t.IsArray():
			e.Type = t.Element
		default:
			e.Type = ast.Arbitrary
		}

	case *ast.DottedVariable:
		a.analyzeDotted(e, ctx)

	case *ast.CallExpression:
		for _, arg := range e.Args {
			a.analyzeExpression(arg, ctx)
		}
		e.Function = a.lookupFunction(ctx, e.FunctionName, e.Args, e.Pos)
		switch {
		case e.Function == nil:
			e.Type = ast.Arbitrary
		case e.Function.IsVoid():
			ctx.report(errors.ErrorVoidInExpression, e.Pos, e.FunctionName)
			e.Type = ast.Arbitrary
		default:
			e.Type = e.Function.ReturnType
		}

	case *ast.PrefixExpression:
		a.analyzeExpression(e.Operand, ctx)
		a.analyzePrefix(e, ctx)

	case *ast.PostfixExpression:
		a.analyzeExpression(e.Operand, ctx)
		a.requireInteger(ctx, e.Op, e.Operand)
		a.requireWritable(ctx, e.Operand)
		e.Type = ast.Int

	case *ast.InfixExpression:
		a.analyzeExpression(e.Left, ctx)
		a.analyzeExpression(e.Right, ctx)
		a.analyzeInfix(e, ctx)

	case *ast.ArrayAggregate:
		a.analyzeArrayAggregate(e, ctx)

	case *ast.StructAggregate:
		a.analyzeStructAggregate(e, ctx)

	case *ast.EmptyArray:
		t := a.lookupType(ctx, e.TypeName, e.Pos)
		for _, bound := range e.Bounds {
			a.analyzeExpression(bound, ctx)
			a.requireInteger(ctx, "new", bound)
			t = t.Array()
		}
		e.Type = t

	default:
		a.internalError(ctx, expr.NodePos(), "no analysis for expression %s", expr.Kind())
	}
}

func (a *Analyzer) analyzeDotted(e *ast.DottedVariable, ctx Context) {
	a.analyzeExpression(e.Struct, ctx)
	e.Field = ast.ArbitraryField

	switch t := e.Struct.TypeOf(); {
	case t.IsStruct():
		if f := t.Field(e.FieldName); f != nil {
			e.Field = f
		} else {
			a.log.Add(errors.NoSuchField(t.Name, e.FieldName, e.Pos, fieldNames(t)))
		}
	case t != ast.Arbitrary:
		ctx.report(errors.ErrorNotAStruct, e.Pos, exprString(e.Struct))
	}

	e.Type = e.Field.Type
	if e.Type == nil {
		e.Type = ast.Arbitrary
	}
}

func (a *Analyzer) analyzePrefix(e *ast.PrefixExpression, ctx Context) {
	switch e.Op {
	case "!":
		a.requireBoolean(ctx, "operator !", e.Operand)
		e.Type = ast.Boolean
	case "-":
		a.requireArithmetic(ctx, e.Op, e.Operand)
		e.Type = e.Operand.TypeOf()
		if !e.Type.IsArithmetic() {
			e.Type = ast.Arbitrary
		}
	case "~":
		a.requireInteger(ctx, e.Op, e.Operand)
		e.Type = ast.Int
	case "int":
		a.requireChar(ctx, e.Op, e.Operand)
		e.Type = ast.Int
	case "char":
		a.requireInteger(ctx, e.Op, e.Operand)
		e.Type = ast.Char
	case "string":
		e.Type = ast.String
	case "length":
		a.requireArrayOrString(ctx, e.Op, e.Operand)
		e.Type = ast.Int
	case "++", "--":
		a.requireInteger(ctx, e.Op, e.Operand)
		if v, ok := e.Operand.(ast.VariableExpression); ok {
			a.requireWritable(ctx, v)
		} else {
			ctx.report(errors.ErrorReadOnly, e.Pos, exprString(e.Operand))
		}
		e.Type = ast.Int
	default:
		a.internalError(ctx, e.Pos, "unknown prefix operator %q", e.Op)
		e.Type = ast.Arbitrary
	}
}

func (a *Analyzer) analyzeInfix(e *ast.InfixExpression, ctx Context) {
	switch e.Op {
	case "+", "-", "*", "/":
		a.requireArithmetic(ctx, e.Op, e.Left)
		a.requireArithmetic(ctx, e.Op, e.Right)
		if e.Left.TypeOf() == ast.Real || e.Right.TypeOf() == ast.Real {
			e.Type = ast.Real
		} else {
			e.Type = ast.Int
		}

	case "%", "<<", ">>", "&", "|", "^":
		a.requireInteger(ctx, e.Op, e.Left)
		a.requireInteger(ctx, e.Op, e.Right)
		e.Type = ast.Int

	case "<", "<=", ">", ">=":
		switch left := e.Left.TypeOf(); {
		case left == ast.Char:
			a.requireChar(ctx, e.Op, e.Right)
		case left == ast.String:
			a.requireString(ctx, e.Op, e.Right)
		case left.IsArithmetic():
			a.requireArithmetic(ctx, e.Op, e.Right)
		case left != ast.Arbitrary:
			ctx.report(errors.ErrorNonOrderable, e.Left.NodePos(), e.Op, left.Name)
		}
		e.Type = ast.Boolean

	case "==", "!=":
		if !ast.IsMutuallyAssignable(e.Left.TypeOf(), e.Right.TypeOf()) {
			ctx.report(errors.ErrorNonCompatible, e.Pos, e.Op, e.Left.TypeOf().Name, e.Right.TypeOf().Name)
		}
		e.Type = ast.Boolean

	case "&&", "||":
		a.requireBoolean(ctx, "operator "+e.Op, e.Left)
		a.requireBoolean(ctx, "operator "+e.Op, e.Right)
		e.Type = ast.Boolean

	default:
		a.internalError(ctx, e.Pos, "unknown infix operator %q", e.Op)
		e.Type = ast.Arbitrary
	}
}

// analyzeArrayAggregate analyzes the elements even when the type is wrong,
// so their own errors are still reported.
func (a *Analyzer) analyzeArrayAggregate(e *ast.ArrayAggregate, ctx Context) {
	e.Type = a.lookupType(ctx, e.TypeName, e.Pos)
	for _, arg := range e.Args {
		a.analyzeExpression(arg, ctx)
	}

	switch {
	case e.Type.IsArray():
		for _, arg := range e.Args {
			a.requireAssignable(ctx, arg, e.Type.Element)
		}
	case e.Type != ast.Arbitrary:
		ctx.report(errors.ErrorNotAnArrayType, e.Pos, e.Type.Name)
	}
}

func (a *Analyzer) analyzeStructAggregate(e *ast.StructAggregate, ctx Context) {
	e.Type = a.lookupType(ctx, e.TypeName, e.Pos)
	for _, arg := range e.Args {
		a.analyzeExpression(arg, ctx)
	}

	switch {
	case e.Type.IsStruct():
		if len(e.Args) != len(e.Type.Fields) {
			ctx.report(errors.ErrorWrongNumberOfFields, e.Pos, e.Type.Name, len(e.Type.Fields), len(e.Args))
			return
		}
		for i, arg := range e.Args {
			a.requireAssignable(ctx, arg, e.Type.Fields[i].Type)
		}
	case e.Type != ast.Arbitrary:
		ctx.report(errors.ErrorNotAStructType, e.Pos, e.Type.Name)
	}
}
