package optimizer

import (
	"carlos/internal/ast"
)

// Expression returns e or a simpler expression with the same value.
// Operands are optimized first, so folding works bottom-up.
func (o *Optimizer) Expression(e ast.Expression) ast.Expression {
	switch e := e.(type) {
	case ast.VariableExpression:
		return o.variable(e)

	case *ast.PrefixExpression:
		e.Operand = o.Expression(e.Operand)
		return o.changed(e, foldPrefix(e))

	case *ast.PostfixExpression:
		e.Operand = o.variable(e.Operand)
		return e

	case *ast.InfixExpression:
		e.Left = o.Expression(e.Left)
		e.Right = o.Expression(e.Right)
		return o.changed(e, o.infix(e))

	case *ast.ArrayAggregate:
		o.expressions(e.Args)
		return e

	case *ast.StructAggregate:
		o.expressions(e.Args)
		return e

	case *ast.EmptyArray:
		o.expressions(e.Bounds)
		return e
	}
	return e
}

func (o *Optimizer) expressions(list []ast.Expression) {
	for i, e := range list {
		list[i] = o.Expression(e)
	}
}

// variable optimizes the subexpressions of a variable expression. The
// variable expression itself always survives.
func (o *Optimizer) variable(v ast.VariableExpression) ast.VariableExpression {
	switch v := v.(type) {
	case *ast.SubscriptedVariable:
		v.Sequence = o.variable(v.Sequence)
		v.Index = o.Expression(v.Index)
	case *ast.DottedVariable:
		v.Struct = o.variable(v.Struct)
	case *ast.CallExpression:
		o.expressions(v.Args)
	}
	return v
}

func (o *Optimizer) changed(before, after ast.Expression) ast.Expression {
	if after != before {
		o.rewrites++
	}
	return after
}

func foldPrefix(e *ast.PrefixExpression) ast.Expression {
	switch operand := e.Operand.(type) {
	case *ast.BooleanLiteral:
		if e.Op == "!" {
			return ast.BooleanLiteralOf(!operand.Value)
		}
	case *ast.IntegerLiteral:
		switch e.Op {
		case "-":
			return ast.NewIntegerLiteral(e.Pos, -operand.Value)
		case "~":
			return ast.NewIntegerLiteral(e.Pos, ^operand.Value)
		}
	case *ast.RealLiteral:
		if e.Op == "-" {
			return ast.NewRealLiteral(e.Pos, -operand.Value)
		}
	}
	return e
}

func (o *Optimizer) infix(e *ast.InfixExpression) ast.Expression {
	switch e.Op {
	case "&&", "||":
		return logical(e)
	}
	if folded := foldInfix(e); folded != nil {
		return folded
	}
	return identity(e)
}

// logical applies boolean algebra to && and ||.
func logical(e *ast.InfixExpression) ast.Expression {
	// dominant is the value that decides the result on its own.
	dominant, neutral := ast.False, ast.True
	if e.Op == "||" {
		dominant, neutral = ast.True, ast.False
	}

	switch {
	case e.Left == ast.Expression(dominant):
		return dominant
	case e.Left == ast.Expression(neutral):
		return e.Right
	case e.Right == ast.Expression(neutral):
		return e.Left
	case e.Right == ast.Expression(dominant):
		return dominant
	case ast.SameVariable(e.Left, e.Right):
		return e.Left
	}
	return e
}

// identity removes operations that cannot change their operand. The
// surviving operand must already have the type of the whole expression, so
// that int + 0.0 stays a real addition.
func identity(e *ast.InfixExpression) ast.Expression {
	t := e.TypeOf()
	if t != ast.Int && t != ast.Real {
		return e
	}
	keep := func(x ast.Expression) bool { return x.TypeOf() == t }

	switch e.Op {
	case "+":
		if isZero(e.Right) && keep(e.Left) {
			return e.Left
		}
		if isZero(e.Left) && keep(e.Right) {
			return e.Right
		}
	case "-":
		if ast.SameVariable(e.Left, e.Right) {
			return number(e.Pos, t, 0)
		}
	case "*":
		if isOne(e.Right) && keep(e.Left) {
			return e.Left
		}
		if isOne(e.Left) && keep(e.Right) {
			return e.Right
		}
		if isZero(e.Left) || isZero(e.Right) {
			return number(e.Pos, t, 0)
		}
	case "/":
		if isOne(e.Right) && keep(e.Left) {
			return e.Left
		}
		if ast.SameVariable(e.Left, e.Right) {
			return number(e.Pos, t, 1)
		}
	}
	return e
}

func number(pos ast.Position, t *ast.Type, v int32) ast.Expression {
	if t == ast.Real {
		return ast.NewRealLiteral(pos, float64(v))
	}
	return ast.NewIntegerLiteral(pos, v)
}

func isZero(e ast.Expression) bool {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return e.Value == 0
	case *ast.RealLiteral:
		return e.Value == 0
	}
	return false
}

func isOne(e ast.Expression) bool {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return e.Value == 1
	case *ast.RealLiteral:
		return e.Value == 1
	}
	return false
}
