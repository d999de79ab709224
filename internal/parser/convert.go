package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	"carlos/grammar"
	"carlos/internal/ast"
)

// converter turns the concrete syntax tree into entities. The grammar is
// permissive in a few places (a bare variable as a statement, ++ after a
// parenthesized expression); those are rejected here.
type converter struct {
	errors []ParseError
}

func (c *converter) errorf(pos lexer.Position, format string, args ...interface{}) {
	c.errors = append(c.errors, ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: position(pos),
		Length:   1,
	})
}

func position(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func typeName(t *grammar.TypeRef) string {
	return ast.ArrayTypeName(t.Name, len(t.Dims))
}

func (c *converter) program(p *grammar.Program) *ast.Program {
	return &ast.Program{
		Pos:   position(p.Pos),
		Block: &ast.Block{Pos: position(p.Pos), Statements: c.statements(p.Statements)},
	}
}

func (c *converter) block(b *grammar.Block) *ast.Block {
	return &ast.Block{Pos: position(b.Pos), Statements: c.statements(b.Statements)}
}

func (c *converter) statements(list []*grammar.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(list))
	for _, s := range list {
		if stmt := c.statement(s); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

func (c *converter) statement(s *grammar.Statement) ast.Statement {
	pos := position(s.Pos)
	switch {
	case s.Struct != nil:
		fields := make([]*ast.StructField, len(s.Struct.Fields))
		for i, f := range s.Struct.Fields {
			fields[i] = &ast.StructField{Pos: position(f.Pos), Name: f.Name, TypeName: typeName(f.Type)}
		}
		return &ast.Declaration{Pos: pos, Declarable: ast.NewStructType(pos, s.Struct.Name, fields)}

	case s.Function != nil:
		return &ast.Declaration{Pos: pos, Declarable: c.function(s.Function)}

	case s.Var != nil:
		v := ast.NewVariable(pos, s.Var.Name, typeName(s.Var.Type), c.optionalExpr(s.Var.Init))
		return &ast.Declaration{Pos: pos, Declarable: v}

	case s.If != nil:
		stmt := &ast.IfStatement{Pos: pos}
		stmt.Cases = append(stmt.Cases, &ast.Case{
			Pos:       pos,
			Condition: c.expr(s.If.Cond),
			Body:      c.block(s.If.Body),
		})
		for _, elif := range s.If.ElseIfs {
			stmt.Cases = append(stmt.Cases, &ast.Case{
				Pos:       position(elif.Pos),
				Condition: c.expr(elif.Cond),
				Body:      c.block(elif.Body),
			})
		}
		if s.If.Else != nil {
			stmt.Else = c.block(s.If.Else)
		}
		return stmt

	case s.While != nil:
		return &ast.WhileStatement{Pos: pos, Condition: c.expr(s.While.Cond), Body: c.block(s.While.Body)}

	case s.For != nil:
		stmt := &ast.ClassicForStatement{
			Pos:  pos,
			Test: c.optionalExpr(s.For.Test),
			Body: c.block(s.For.Body),
		}
		if init := s.For.Init; init != nil {
			stmt.TypeName = typeName(init.Type)
			stmt.Index = init.Name
			stmt.Init = c.expr(init.Value)
		}
		if s.For.Step != nil {
			stmt.Step = c.simple(s.For.Step)
		}
		return stmt

	case s.Break != nil:
		return &ast.BreakStatement{Pos: pos}

	case s.Return != nil:
		return &ast.ReturnStatement{Pos: pos, Value: c.optionalExpr(s.Return.Value)}

	case s.Print != nil:
		return &ast.PrintStatement{Pos: pos, Args: c.exprs(s.Print.Args)}

	case s.Simple != nil:
		return c.simple(s.Simple)
	}

	c.errorf(s.Pos, "empty statement")
	return nil
}

func (c *converter) function(f *grammar.FunctionDecl) *ast.Function {
	fn := &ast.Function{
		Pos:            position(f.Pos),
		Name:           f.Name,
		ReturnTypeName: ast.VoidTypeName,
		Body:           c.block(f.Body),
	}
	if !f.Void {
		fn.ReturnTypeName = typeName(f.ReturnType)
	}
	for _, p := range f.Params {
		fn.Parameters = append(fn.Parameters, ast.NewVariable(position(p.Pos), p.Name, typeName(p.Type), nil))
	}
	return fn
}

func (c *converter) simple(s *grammar.SimpleStmt) ast.Statement {
	pos := position(s.Pos)
	target := c.varExpr(s.Target)
	switch {
	case s.Value != nil:
		return &ast.AssignmentStatement{Pos: pos, Left: target, Right: c.expr(s.Value)}
	case s.Incr != "":
		return &ast.IncrementStatement{Pos: pos, Op: s.Incr, Target: target}
	}

	call, ok := target.(*ast.CallExpression)
	if !ok {
		c.errorf(s.Pos, "expected assignment, increment or call")
		return nil
	}
	return &ast.CallStatement{Pos: pos, FunctionName: call.FunctionName, Args: call.Args}
}

func (c *converter) optionalExpr(e *grammar.Expr) ast.Expression {
	if e == nil {
		return nil
	}
	return c.expr(e)
}

func (c *converter) exprs(list []*grammar.Expr) []ast.Expression {
	out := make([]ast.Expression, len(list))
	for i, e := range list {
		out[i] = c.expr(e)
	}
	return out
}

func infix(pos lexer.Position, op string, left, right ast.Expression) ast.Expression {
	return &ast.InfixExpression{Pos: position(pos), Op: op, Left: left, Right: right}
}

func (c *converter) expr(e *grammar.Expr) ast.Expression {
	result := c.and(e.Head)
	for _, t := range e.Tail {
		result = infix(t.Pos, t.Op, result, c.and(t.Right))
	}
	return result
}

func (c *converter) and(e *grammar.AndExpr) ast.Expression {
	result := c.rel(e.Head)
	for _, t := range e.Tail {
		result = infix(t.Pos, t.Op, result, c.rel(t.Right))
	}
	return result
}

func (c *converter) rel(e *grammar.RelExpr) ast.Expression {
	left := c.bitOr(e.Left)
	if e.Tail == nil {
		return left
	}
	return infix(e.Tail.Pos, e.Tail.Op, left, c.bitOr(e.Tail.Right))
}

func (c *converter) bitOr(e *grammar.BitOrExpr) ast.Expression {
	result := c.bitXor(e.Head)
	for _, t := range e.Tail {
		result = infix(t.Pos, t.Op, result, c.bitXor(t.Right))
	}
	return result
}

func (c *converter) bitXor(e *grammar.BitXorExpr) ast.Expression {
	result := c.bitAnd(e.Head)
	for _, t := range e.Tail {
		result = infix(t.Pos, t.Op, result, c.bitAnd(t.Right))
	}
	return result
}

func (c *converter) bitAnd(e *grammar.BitAndExpr) ast.Expression {
	result := c.shift(e.Head)
	for _, t := range e.Tail {
		result = infix(t.Pos, t.Op, result, c.shift(t.Right))
	}
	return result
}

func (c *converter) shift(e *grammar.ShiftExpr) ast.Expression {
	result := c.add(e.Head)
	for _, t := range e.Tail {
		result = infix(t.Pos, t.Op, result, c.add(t.Right))
	}
	return result
}

func (c *converter) add(e *grammar.AddExpr) ast.Expression {
	result := c.mul(e.Head)
	for _, t := range e.Tail {
		result = infix(t.Pos, t.Op, result, c.mul(t.Right))
	}
	return result
}

func (c *converter) mul(e *grammar.MulExpr) ast.Expression {
	result := c.unary(e.Head)
	for _, t := range e.Tail {
		result = infix(t.Pos, t.Op, result, c.unary(t.Right))
	}
	return result
}

func (c *converter) unary(u *grammar.Unary) ast.Expression {
	if u.Postfix != nil {
		return c.postfix(u.Postfix)
	}
	return &ast.PrefixExpression{Pos: position(u.Pos), Op: u.Op, Operand: c.unary(u.Operand)}
}

func (c *converter) postfix(p *grammar.Postfix) ast.Expression {
	operand := c.primary(p.Primary)
	if p.Op == "" {
		return operand
	}
	v, ok := operand.(ast.VariableExpression)
	if !ok {
		c.errorf(p.Pos, "operand of %s must be a variable", p.Op)
		return operand
	}
	return &ast.PostfixExpression{Pos: position(p.Pos), Op: p.Op, Operand: v}
}

func (c *converter) primary(p *grammar.Primary) ast.Expression {
	pos := position(p.Pos)
	switch {
	case p.Real != nil:
		return &ast.RealLiteral{Pos: pos, Lexeme: *p.Real}
	case p.Int != nil:
		return &ast.IntegerLiteral{Pos: pos, Lexeme: *p.Int}
	case p.Char != nil:
		return &ast.CharLiteral{Pos: pos, Lexeme: *p.Char}
	case p.String != nil:
		return &ast.StringLiteral{Pos: pos, Lexeme: *p.String}
	case p.True:
		return ast.True
	case p.False:
		return ast.False
	case p.Null:
		return ast.Null
	case p.New != nil:
		return c.newExpr(p.New)
	case p.Var != nil:
		return c.varExpr(p.Var)
	case p.Paren != nil:
		return c.expr(p.Paren)
	}
	c.errorf(p.Pos, "expected expression")
	return ast.Null
}

func (c *converter) varExpr(v *grammar.VarExpr) ast.VariableExpression {
	pos := position(v.Pos)
	var result ast.VariableExpression
	if v.Call != nil {
		result = &ast.CallExpression{Pos: pos, FunctionName: v.Name, Args: c.exprs(v.Call.Args)}
	} else {
		result = &ast.SimpleVariableReference{Pos: pos, Name: v.Name}
	}

	for _, sel := range v.Selectors {
		if sel.Index != nil {
			result = &ast.SubscriptedVariable{Pos: position(sel.Pos), Sequence: result, Index: c.expr(sel.Index)}
		} else {
			result = &ast.DottedVariable{Pos: position(sel.Pos), Struct: result, FieldName: sel.Field}
		}
	}
	return result
}

func (c *converter) newExpr(n *grammar.NewExpr) ast.Expression {
	pos := position(n.Pos)
	name := ast.ArrayTypeName(n.Type, len(n.Empty))

	switch {
	case n.Elems != nil && len(n.Empty) > 0:
		return &ast.ArrayAggregate{Pos: pos, TypeName: name, Args: c.exprs(n.Elems.Args)}
	case n.Elems != nil:
		return &ast.StructAggregate{Pos: pos, TypeName: name, Args: c.exprs(n.Elems.Args)}
	default:
		return &ast.EmptyArray{Pos: pos, TypeName: name, Bounds: c.exprs(n.Bounds)}
	}
}
