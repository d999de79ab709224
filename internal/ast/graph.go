package ast

import (
	"fmt"
	"strconv"
)

func owned(edges []Edge, name string, e Entity) []Edge {
	return append(edges, Edge{Name: name, Target: e})
}

func ref(edges []Edge, name string, e Entity) []Edge {
	return append(edges, Edge{Name: name, Target: e, Ref: true})
}

func ownedExpr(edges []Edge, name string, e Expression) []Edge {
	if e == nil {
		return edges
	}
	return owned(edges, name, e)
}

func typeRef(edges []Edge, t *Type) []Edge {
	if t == nil {
		return edges
	}
	return ref(edges, "type", t)
}

func ownedExprs(edges []Edge, name string, list []Expression) []Edge {
	for i, e := range list {
		edges = ownedExpr(edges, fmt.Sprintf("%s[%d]", name, i), e)
	}
	return edges
}

func (p *Program) Attributes() []Attribute { return nil }
func (p *Program) Edges() []Edge {
	if p.Block == nil {
		return nil
	}
	return owned(nil, "block", p.Block)
}

func (b *Block) Attributes() []Attribute { return nil }
func (b *Block) Edges() []Edge {
	var edges []Edge
	for i, s := range b.Statements {
		edges = owned(edges, fmt.Sprintf("statements[%d]", i), s)
	}
	if b.Table != nil {
		edges = ref(edges, "table", b.Table)
	}
	return edges
}

func (t *SymbolTable) Attributes() []Attribute {
	return []Attribute{{"size", strconv.Itoa(len(t.order))}}
}
func (t *SymbolTable) Edges() []Edge {
	var edges []Edge
	for _, name := range t.order {
		edges = ref(edges, name, t.entries[name])
	}
	return edges
}

func (v *Variable) Attributes() []Attribute {
	return []Attribute{{"name", v.Name}, {"typename", v.TypeName}}
}
func (v *Variable) Edges() []Edge {
	edges := ownedExpr(nil, "initializer", v.Initializer)
	return typeRef(edges, v.Type)
}

func (f *Function) Attributes() []Attribute {
	return []Attribute{{"name", f.Name}, {"returntypename", f.ReturnTypeName}}
}
func (f *Function) Edges() []Edge {
	var edges []Edge
	for i, p := range f.Parameters {
		edges = owned(edges, fmt.Sprintf("parameters[%d]", i), p)
	}
	if f.Body != nil {
		edges = owned(edges, "body", f.Body)
	}
	if f.ReturnType != nil {
		edges = ref(edges, "returntype", f.ReturnType)
	}
	if f.Overload != nil {
		edges = ref(edges, "overload", f.Overload)
	}
	return edges
}

func (f *StructField) Attributes() []Attribute {
	return []Attribute{{"name", f.Name}, {"typename", f.TypeName}}
}
func (f *StructField) Edges() []Edge { return typeRef(nil, f.Type) }

func (t *Type) Attributes() []Attribute {
	return []Attribute{{"name", t.Name}}
}
func (t *Type) Edges() []Edge {
	var edges []Edge
	for i, f := range t.Fields {
		edges = owned(edges, fmt.Sprintf("fields[%d]", i), f)
	}
	if t.Element != nil {
		edges = ref(edges, "element", t.Element)
	}
	return edges
}

func (d *Declaration) Attributes() []Attribute { return nil }
func (d *Declaration) Edges() []Edge           { return owned(nil, "declarable", d.Declarable) }

func (s *AssignmentStatement) Attributes() []Attribute { return nil }
func (s *AssignmentStatement) Edges() []Edge {
	edges := ownedExpr(nil, "left", s.Left)
	return ownedExpr(edges, "right", s.Right)
}

func (s *IncrementStatement) Attributes() []Attribute { return []Attribute{{"op", s.Op}} }
func (s *IncrementStatement) Edges() []Edge           { return ownedExpr(nil, "target", s.Target) }

func (s *CallStatement) Attributes() []Attribute {
	return []Attribute{{"functionname", s.FunctionName}}
}
func (s *CallStatement) Edges() []Edge {
	edges := ownedExprs(nil, "args", s.Args)
	if s.Function != nil {
		edges = ref(edges, "function", s.Function)
	}
	return edges
}

func (s *BreakStatement) Attributes() []Attribute { return nil }
func (s *BreakStatement) Edges() []Edge           { return nil }

func (s *ReturnStatement) Attributes() []Attribute { return nil }
func (s *ReturnStatement) Edges() []Edge {
	edges := ownedExpr(nil, "value", s.Value)
	if s.Function != nil {
		edges = ref(edges, "function", s.Function)
	}
	return edges
}

func (s *PrintStatement) Attributes() []Attribute { return nil }
func (s *PrintStatement) Edges() []Edge           { return ownedExprs(nil, "args", s.Args) }

func (s *IfStatement) Attributes() []Attribute { return nil }
func (s *IfStatement) Edges() []Edge {
	var edges []Edge
	for i, c := range s.Cases {
		edges = owned(edges, fmt.Sprintf("cases[%d]", i), c)
	}
	if s.Else != nil {
		edges = owned(edges, "else", s.Else)
	}
	return edges
}

func (c *Case) Attributes() []Attribute { return nil }
func (c *Case) Edges() []Edge {
	edges := ownedExpr(nil, "condition", c.Condition)
	return owned(edges, "body", c.Body)
}

func (s *WhileStatement) Attributes() []Attribute { return nil }
func (s *WhileStatement) Edges() []Edge {
	edges := ownedExpr(nil, "condition", s.Condition)
	return owned(edges, "body", s.Body)
}

func (s *ClassicForStatement) Attributes() []Attribute {
	return []Attribute{{"typename", s.TypeName}, {"index", s.Index}}
}
func (s *ClassicForStatement) Edges() []Edge {
	edges := ownedExpr(nil, "init", s.Init)
	edges = ownedExpr(edges, "test", s.Test)
	if s.Step != nil {
		edges = owned(edges, "step", s.Step)
	}
	edges = owned(edges, "body", s.Body)
	if s.IndexVariable != nil {
		edges = ref(edges, "indexvariable", s.IndexVariable)
	}
	return edges
}

func (e *IntegerLiteral) Attributes() []Attribute { return []Attribute{{"value", e.Lexeme}} }
func (e *IntegerLiteral) Edges() []Edge           { return typeRef(nil, e.Type) }

func (e *RealLiteral) Attributes() []Attribute { return []Attribute{{"value", e.Lexeme}} }
func (e *RealLiteral) Edges() []Edge           { return typeRef(nil, e.Type) }

func (e *BooleanLiteral) Attributes() []Attribute {
	return []Attribute{{"value", strconv.FormatBool(e.Value)}}
}
func (e *BooleanLiteral) Edges() []Edge { return nil }

func (e *CharLiteral) Attributes() []Attribute { return []Attribute{{"value", e.Lexeme}} }
func (e *CharLiteral) Edges() []Edge           { return typeRef(nil, e.Type) }

func (e *StringLiteral) Attributes() []Attribute { return []Attribute{{"value", e.Lexeme}} }
func (e *StringLiteral) Edges() []Edge           { return typeRef(nil, e.Type) }

func (e *NullLiteral) Attributes() []Attribute { return nil }
func (e *NullLiteral) Edges() []Edge           { return nil }

func (e *SimpleVariableReference) Attributes() []Attribute {
	return []Attribute{{"name", e.Name}}
}
func (e *SimpleVariableReference) Edges() []Edge {
	var edges []Edge
	if e.Referent != nil {
		edges = ref(edges, "referent", e.Referent)
	}
	return typeRef(edges, e.Type)
}

func (e *SubscriptedVariable) Attributes() []Attribute { return nil }
func (e *SubscriptedVariable) Edges() []Edge {
	edges := ownedExpr(nil, "sequence", e.Sequence)
	edges = ownedExpr(edges, "index", e.Index)
	return typeRef(edges, e.Type)
}

func (e *DottedVariable) Attributes() []Attribute {
	return []Attribute{{"fieldname", e.FieldName}}
}
func (e *DottedVariable) Edges() []Edge {
	edges := ownedExpr(nil, "struct", e.Struct)
	if e.Field != nil {
		edges = ref(edges, "field", e.Field)
	}
	return typeRef(edges, e.Type)
}

func (e *CallExpression) Attributes() []Attribute {
	return []Attribute{{"functionname", e.FunctionName}}
}
func (e *CallExpression) Edges() []Edge {
	edges := ownedExprs(nil, "args", e.Args)
	if e.Function != nil {
		edges = ref(edges, "function", e.Function)
	}
	return typeRef(edges, e.Type)
}

func (e *PrefixExpression) Attributes() []Attribute { return []Attribute{{"op", e.Op}} }
func (e *PrefixExpression) Edges() []Edge {
	return typeRef(ownedExpr(nil, "operand", e.Operand), e.Type)
}

func (e *PostfixExpression) Attributes() []Attribute { return []Attribute{{"op", e.Op}} }
func (e *PostfixExpression) Edges() []Edge {
	return typeRef(ownedExpr(nil, "operand", e.Operand), e.Type)
}

func (e *InfixExpression) Attributes() []Attribute { return []Attribute{{"op", e.Op}} }
func (e *InfixExpression) Edges() []Edge {
	edges := ownedExpr(nil, "left", e.Left)
	edges = ownedExpr(edges, "right", e.Right)
	return typeRef(edges, e.Type)
}

func (e *ArrayAggregate) Attributes() []Attribute {
	return []Attribute{{"typename", e.TypeName}}
}
func (e *ArrayAggregate) Edges() []Edge {
	return typeRef(ownedExprs(nil, "args", e.Args), e.Type)
}

func (e *StructAggregate) Attributes() []Attribute {
	return []Attribute{{"typename", e.TypeName}}
}
func (e *StructAggregate) Edges() []Edge {
	return typeRef(ownedExprs(nil, "args", e.Args), e.Type)
}

func (e *EmptyArray) Attributes() []Attribute {
	return []Attribute{{"typename", e.TypeName}}
}
func (e *EmptyArray) Edges() []Edge {
	return typeRef(ownedExprs(nil, "bounds", e.Bounds), e.Type)
}
