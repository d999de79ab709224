package ast

import "fmt"

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Kind discriminates the variants of the semantic graph.
type Kind int

const (
	KindProgram Kind = iota
	KindBlock
	KindSymbolTable

	// Declarables
	KindVariable
	KindFunction
	KindStructField
	KindPrimitiveType
	KindArrayType
	KindStructType

	// Statements
	KindDeclaration
	KindAssignment
	KindIncrement
	KindCallStatement
	KindBreak
	KindReturn
	KindPrint
	KindIf
	KindCase
	KindWhile
	KindClassicFor

	// Expressions
	KindIntegerLiteral
	KindRealLiteral
	KindBooleanLiteral
	KindCharLiteral
	KindStringLiteral
	KindNullLiteral
	KindSimpleVariableReference
	KindSubscriptedVariable
	KindDottedVariable
	KindCallExpression
	KindPrefixExpression
	KindPostfixExpression
	KindInfixExpression
	KindArrayAggregate
	KindStructAggregate
	KindEmptyArray
)

var kindNames = [...]string{
	KindProgram:                 "Program",
	KindBlock:                   "Block",
	KindSymbolTable:             "SymbolTable",
	KindVariable:                "Variable",
	KindFunction:                "Function",
	KindStructField:             "StructField",
	KindPrimitiveType:           "Type",
	KindArrayType:               "ArrayType",
	KindStructType:              "StructType",
	KindDeclaration:             "Declaration",
	KindAssignment:              "AssignmentStatement",
	KindIncrement:               "IncrementStatement",
	KindCallStatement:           "CallStatement",
	KindBreak:                   "BreakStatement",
	KindReturn:                  "ReturnStatement",
	KindPrint:                   "PrintStatement",
	KindIf:                      "IfStatement",
	KindCase:                    "Case",
	KindWhile:                   "WhileStatement",
	KindClassicFor:              "ClassicForStatement",
	KindIntegerLiteral:          "IntegerLiteral",
	KindRealLiteral:             "RealLiteral",
	KindBooleanLiteral:          "BooleanLiteral",
	KindCharLiteral:             "CharLiteral",
	KindStringLiteral:           "StringLiteral",
	KindNullLiteral:             "NullLiteral",
	KindSimpleVariableReference: "SimpleVariableReference",
	KindSubscriptedVariable:     "SubscriptedVariable",
	KindDottedVariable:          "DottedVariable",
	KindCallExpression:          "CallExpression",
	KindPrefixExpression:        "PrefixExpression",
	KindPostfixExpression:       "PostfixExpression",
	KindInfixExpression:         "InfixExpression",
	KindArrayAggregate:          "ArrayAggregate",
	KindStructAggregate:         "StructAggregate",
	KindEmptyArray:              "EmptyArray",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entity is any node of the semantic graph.
type Entity interface {
	Kind() Kind
	NodePos() Position
	// Attributes lists the plain (non-entity) properties used by the dumps.
	Attributes() []Attribute
	// Edges lists the entity-valued properties. Owned children come first,
	// references (resolved types, referents, tables) are flagged with Ref.
	Edges() []Edge
}

type Attribute struct {
	Name  string
	Value string
}

type Edge struct {
	Name   string
	Target Entity
	Ref    bool
}

func (p *Program) NodePos() Position                  { return p.Pos }
func (b *Block) NodePos() Position                    { return b.Pos }
func (t *SymbolTable) NodePos() Position              { return Position{} }
func (v *Variable) NodePos() Position                 { return v.Pos }
func (f *Function) NodePos() Position                 { return f.Pos }
func (f *StructField) NodePos() Position              { return f.Pos }
func (t *Type) NodePos() Position                     { return t.Pos }
func (d *Declaration) NodePos() Position              { return d.Pos }
func (s *AssignmentStatement) NodePos() Position      { return s.Pos }
func (s *IncrementStatement) NodePos() Position       { return s.Pos }
func (s *CallStatement) NodePos() Position            { return s.Pos }
func (s *BreakStatement) NodePos() Position           { return s.Pos }
func (s *ReturnStatement) NodePos() Position          { return s.Pos }
func (s *PrintStatement) NodePos() Position           { return s.Pos }
func (s *IfStatement) NodePos() Position              { return s.Pos }
func (c *Case) NodePos() Position                     { return c.Pos }
func (s *WhileStatement) NodePos() Position           { return s.Pos }
func (s *ClassicForStatement) NodePos() Position      { return s.Pos }
func (e *IntegerLiteral) NodePos() Position           { return e.Pos }
func (e *RealLiteral) NodePos() Position              { return e.Pos }
func (e *BooleanLiteral) NodePos() Position           { return Position{} }
func (e *CharLiteral) NodePos() Position              { return e.Pos }
func (e *StringLiteral) NodePos() Position            { return e.Pos }
func (e *NullLiteral) NodePos() Position              { return Position{} }
func (e *SimpleVariableReference) NodePos() Position  { return e.Pos }
func (e *SubscriptedVariable) NodePos() Position      { return e.Pos }
func (e *DottedVariable) NodePos() Position           { return e.Pos }
func (e *CallExpression) NodePos() Position           { return e.Pos }
func (e *PrefixExpression) NodePos() Position         { return e.Pos }
func (e *PostfixExpression) NodePos() Position        { return e.Pos }
func (e *InfixExpression) NodePos() Position          { return e.Pos }
func (e *ArrayAggregate) NodePos() Position           { return e.Pos }
func (e *StructAggregate) NodePos() Position          { return e.Pos }
func (e *EmptyArray) NodePos() Position               { return e.Pos }

func (p *Program) Kind() Kind                 { return KindProgram }
func (b *Block) Kind() Kind                   { return KindBlock }
func (t *SymbolTable) Kind() Kind             { return KindSymbolTable }
func (v *Variable) Kind() Kind                { return KindVariable }
func (f *Function) Kind() Kind                { return KindFunction }
func (f *StructField) Kind() Kind             { return KindStructField }
func (d *Declaration) Kind() Kind             { return KindDeclaration }
func (s *AssignmentStatement) Kind() Kind     { return KindAssignment }
func (s *IncrementStatement) Kind() Kind      { return KindIncrement }
func (s *CallStatement) Kind() Kind           { return KindCallStatement }
func (s *BreakStatement) Kind() Kind          { return KindBreak }
func (s *ReturnStatement) Kind() Kind         { return KindReturn }
func (s *PrintStatement) Kind() Kind          { return KindPrint }
func (s *IfStatement) Kind() Kind             { return KindIf }
func (c *Case) Kind() Kind                    { return KindCase }
func (s *WhileStatement) Kind() Kind          { return KindWhile }
func (s *ClassicForStatement) Kind() Kind     { return KindClassicFor }
func (e *IntegerLiteral) Kind() Kind          { return KindIntegerLiteral }
func (e *RealLiteral) Kind() Kind             { return KindRealLiteral }
func (e *BooleanLiteral) Kind() Kind          { return KindBooleanLiteral }
func (e *CharLiteral) Kind() Kind             { return KindCharLiteral }
func (e *StringLiteral) Kind() Kind           { return KindStringLiteral }
func (e *NullLiteral) Kind() Kind             { return KindNullLiteral }
func (e *SimpleVariableReference) Kind() Kind { return KindSimpleVariableReference }
func (e *SubscriptedVariable) Kind() Kind     { return KindSubscriptedVariable }
func (e *DottedVariable) Kind() Kind          { return KindDottedVariable }
func (e *CallExpression) Kind() Kind          { return KindCallExpression }
func (e *PrefixExpression) Kind() Kind        { return KindPrefixExpression }
func (e *PostfixExpression) Kind() Kind       { return KindPostfixExpression }
func (e *InfixExpression) Kind() Kind         { return KindInfixExpression }
func (e *ArrayAggregate) Kind() Kind          { return KindArrayAggregate }
func (e *StructAggregate) Kind() Kind         { return KindStructAggregate }
func (e *EmptyArray) Kind() Kind              { return KindEmptyArray }
