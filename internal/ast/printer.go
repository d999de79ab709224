package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func formatInt(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

func formatReal(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !math.IsInf(v, 0) && !math.IsNaN(v) && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func joinExprs(list []Expression) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.(fmt.Stringer).String()
	}
	return strings.Join(parts, ", ")
}

func (e *IntegerLiteral) String() string          { return e.Lexeme }
func (e *RealLiteral) String() string             { return e.Lexeme }
func (e *CharLiteral) String() string             { return e.Lexeme }
func (e *StringLiteral) String() string           { return e.Lexeme }
func (e *NullLiteral) String() string             { return "null" }
func (e *SimpleVariableReference) String() string { return e.Name }

func (e *BooleanLiteral) String() string {
	return strconv.FormatBool(e.Value)
}

func (e *SubscriptedVariable) String() string {
	return fmt.Sprintf("%s[%s]", e.Sequence, e.Index)
}

func (e *DottedVariable) String() string {
	return fmt.Sprintf("%s.%s", e.Struct, e.FieldName)
}

func (e *CallExpression) String() string {
	return fmt.Sprintf("%s(%s)", e.FunctionName, joinExprs(e.Args))
}

func (e *PrefixExpression) String() string {
	switch e.Op {
	case "int", "char", "string", "length":
		return fmt.Sprintf("%s %s", e.Op, e.Operand)
	}
	return fmt.Sprintf("%s%s", e.Op, e.Operand)
}

func (e *PostfixExpression) String() string {
	return fmt.Sprintf("%s%s", e.Operand, e.Op)
}

func (e *InfixExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

func (e *ArrayAggregate) String() string {
	return fmt.Sprintf("new %s{%s}", e.TypeName, joinExprs(e.Args))
}

func (e *StructAggregate) String() string {
	return fmt.Sprintf("new %s{%s}", e.TypeName, joinExprs(e.Args))
}

func (e *EmptyArray) String() string {
	var b strings.Builder
	b.WriteString("new " + e.TypeName)
	for _, bound := range e.Bounds {
		b.WriteString(fmt.Sprintf("[%s]", bound))
	}
	return b.String()
}
