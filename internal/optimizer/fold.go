package optimizer

import (
	"carlos/internal/ast"
)

// foldInfix evaluates an infix expression whose operands are both literals.
// It returns nil when the expression cannot be folded. Integer arithmetic
// wraps at 32 bits; division and remainder by zero are left for run time.
func foldInfix(e *ast.InfixExpression) ast.Expression {
	if l, ok := e.Left.(*ast.BooleanLiteral); ok {
		if r, ok := e.Right.(*ast.BooleanLiteral); ok {
			return foldBooleans(e.Op, l.Value, r.Value)
		}
		return nil
	}

	if l, ok := e.Left.(*ast.CharLiteral); ok {
		if r, ok := e.Right.(*ast.CharLiteral); ok {
			return compare(e.Op, float64(l.Value), float64(r.Value))
		}
		return nil
	}

	li, lInt := e.Left.(*ast.IntegerLiteral)
	ri, rInt := e.Right.(*ast.IntegerLiteral)
	if lInt && rInt {
		if folded := foldIntegers(e.Pos, e.Op, li.Value, ri.Value); folded != nil {
			return folded
		}
		return compare(e.Op, float64(li.Value), float64(ri.Value))
	}

	l, lok := realValue(e.Left)
	r, rok := realValue(e.Right)
	if !lok || !rok {
		return nil
	}
	if folded := foldReals(e.Pos, e.Op, l, r); folded != nil {
		return folded
	}
	return compare(e.Op, l, r)
}

func realValue(e ast.Expression) (float64, bool) {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return float64(e.Value), true
	case *ast.RealLiteral:
		return e.Value, true
	}
	return 0, false
}

func foldIntegers(pos ast.Position, op string, l, r int32) ast.Expression {
	var v int32
	switch op {
	case "+":
		v = l + r
	case "-":
		v = l - r
	case "*":
		v = l * r
	case "/":
		if r == 0 {
			return nil
		}
		v = l / r
	case "%":
		if r == 0 {
			return nil
		}
		v = l % r
	case "&":
		v = l & r
	case "|":
		v = l | r
	case "^":
		v = l ^ r
	case "<<":
		if r < 0 || r > 31 {
			return nil
		}
		v = l << uint(r)
	case ">>":
		if r < 0 || r > 31 {
			return nil
		}
		v = l >> uint(r)
	default:
		return nil
	}
	return ast.NewIntegerLiteral(pos, v)
}

func foldReals(pos ast.Position, op string, l, r float64) ast.Expression {
	var v float64
	switch op {
	case "+":
		v = l + r
	case "-":
		v = l - r
	case "*":
		v = l * r
	case "/":
		if r == 0 {
			return nil
		}
		v = l / r
	default:
		return nil
	}
	return ast.NewRealLiteral(pos, v)
}

func compare(op string, l, r float64) ast.Expression {
	switch op {
	case "<":
		return ast.BooleanLiteralOf(l < r)
	case "<=":
		return ast.BooleanLiteralOf(l <= r)
	case "==":
		return ast.BooleanLiteralOf(l == r)
	case "!=":
		return ast.BooleanLiteralOf(l != r)
	case ">=":
		return ast.BooleanLiteralOf(l >= r)
	case ">":
		return ast.BooleanLiteralOf(l > r)
	}
	return nil
}

func foldBooleans(op string, l, r bool) ast.Expression {
	switch op {
	case "==":
		return ast.BooleanLiteralOf(l == r)
	case "!=":
		return ast.BooleanLiteralOf(l != r)
	}
	return nil
}
