package ast

// Expression is implemented by every expression variant. TypeOf is nil until
// the expression has been analyzed.
type Expression interface {
	Entity
	TypeOf() *Type
	expressionNode()
}

// VariableExpression is an expression that denotes a storage location (or a
// call result, which may be dereferenced further).
type VariableExpression interface {
	Expression
	variableNode()
}

type IntegerLiteral struct {
	Pos    Position
	Lexeme string
	Value  int32
	Type   *Type
}

type RealLiteral struct {
	Pos    Position
	Lexeme string
	Value  float64
	Type   *Type
}

// BooleanLiteral has exactly two instances, True and False.
type BooleanLiteral struct {
	Value bool
}

type CharLiteral struct {
	Pos    Position
	Lexeme string
	Value  rune
	Type   *Type
}

// StringLiteral keeps its source lexeme; Values holds the decoded codepoints.
type StringLiteral struct {
	Pos    Position
	Lexeme string
	Values []rune
	Type   *Type
}

// NullLiteral has exactly one instance, Null.
type NullLiteral struct{}

var (
	True  = &BooleanLiteral{Value: true}
	False = &BooleanLiteral{Value: false}
	Null  = &NullLiteral{}
)

// BooleanLiteralOf returns the singleton for b.
func BooleanLiteralOf(b bool) *BooleanLiteral {
	if b {
		return True
	}
	return False
}

// NewIntegerLiteral builds an already-analyzed integer literal.
func NewIntegerLiteral(pos Position, value int32) *IntegerLiteral {
	return &IntegerLiteral{Pos: pos, Lexeme: formatInt(value), Value: value, Type: Int}
}

// NewRealLiteral builds an already-analyzed real literal.
func NewRealLiteral(pos Position, value float64) *RealLiteral {
	return &RealLiteral{Pos: pos, Lexeme: formatReal(value), Value: value, Type: Real}
}

type SimpleVariableReference struct {
	Pos      Position
	Name     string
	Referent *Variable
	Type     *Type
}

type SubscriptedVariable struct {
	Pos      Position
	Sequence VariableExpression
	Index    Expression
	Type     *Type
}

type DottedVariable struct {
	Pos       Position
	Struct    VariableExpression
	FieldName string
	Field     *StructField
	Type      *Type
}

type CallExpression struct {
	Pos          Position
	FunctionName string
	Args         []Expression
	Function     *Function
	Type         *Type
}

type PrefixExpression struct {
	Pos     Position
	Op      string
	Operand Expression
	Type    *Type
}

type PostfixExpression struct {
	Pos     Position
	Op      string
	Operand VariableExpression
	Type    *Type
}

type InfixExpression struct {
	Pos   Position
	Op    string
	Left  Expression
	Right Expression
	Type  *Type
}

// ArrayAggregate is new T[]{e1, ..., en}.
type ArrayAggregate struct {
	Pos      Position
	TypeName string
	Args     []Expression
	Type     *Type
}

// StructAggregate is new T{e1, ..., en}.
type StructAggregate struct {
	Pos      Position
	TypeName string
	Args     []Expression
	Type     *Type
}

// EmptyArray is new T[e1]...[en].
type EmptyArray struct {
	Pos      Position
	TypeName string
	Bounds   []Expression
	Type     *Type
}

func (e *IntegerLiteral) TypeOf() *Type          { return e.Type }
func (e *RealLiteral) TypeOf() *Type             { return e.Type }
func (e *BooleanLiteral) TypeOf() *Type          { return Boolean }
func (e *CharLiteral) TypeOf() *Type             { return e.Type }
func (e *StringLiteral) TypeOf() *Type           { return e.Type }
func (e *NullLiteral) TypeOf() *Type             { return NullType }
func (e *SimpleVariableReference) TypeOf() *Type { return e.Type }
func (e *SubscriptedVariable) TypeOf() *Type     { return e.Type }
func (e *DottedVariable) TypeOf() *Type          { return e.Type }
func (e *CallExpression) TypeOf() *Type          { return e.Type }
func (e *PrefixExpression) TypeOf() *Type        { return e.Type }
func (e *PostfixExpression) TypeOf() *Type       { return e.Type }
func (e *InfixExpression) TypeOf() *Type         { return e.Type }
func (e *ArrayAggregate) TypeOf() *Type          { return e.Type }
func (e *StructAggregate) TypeOf() *Type         { return e.Type }
func (e *EmptyArray) TypeOf() *Type              { return e.Type }

func (*IntegerLiteral) expressionNode()          {}
func (*RealLiteral) expressionNode()             {}
func (*BooleanLiteral) expressionNode()          {}
func (*CharLiteral) expressionNode()             {}
func (*StringLiteral) expressionNode()           {}
func (*NullLiteral) expressionNode()             {}
func (*SimpleVariableReference) expressionNode() {}
func (*SubscriptedVariable) expressionNode()     {}
func (*DottedVariable) expressionNode()          {}
func (*CallExpression) expressionNode()          {}
func (*PrefixExpression) expressionNode()        {}
func (*PostfixExpression) expressionNode()       {}
func (*InfixExpression) expressionNode()         {}
func (*ArrayAggregate) expressionNode()          {}
func (*StructAggregate) expressionNode()         {}
func (*EmptyArray) expressionNode()              {}

func (*SimpleVariableReference) variableNode() {}
func (*SubscriptedVariable) variableNode()     {}
func (*DottedVariable) variableNode()          {}
func (*CallExpression) variableNode()          {}

// IsWritable reports whether v may appear on the left of an assignment or
// as the operand of ++ and --.
func IsWritable(v VariableExpression) bool {
	switch e := v.(type) {
	case *SimpleVariableReference:
		return true
	case *SubscriptedVariable:
		t := e.Sequence.TypeOf()
		return t != nil && (t.IsArray() || t == Arbitrary)
	case *DottedVariable:
		return true
	default:
		return false
	}
}

// SameVariable reports whether a and b are references to the same resolved
// simple variable.
func SameVariable(a, b Expression) bool {
	ra, ok := a.(*SimpleVariableReference)
	if !ok || ra.Referent == nil {
		return false
	}
	rb, ok := b.(*SimpleVariableReference)
	return ok && ra.Referent == rb.Referent
}

// IsTrue reports whether e is the literal true.
func IsTrue(e Expression) bool { return e == Expression(True) }

// IsFalse reports whether e is the literal false.
func IsFalse(e Expression) bool { return e == Expression(False) }
