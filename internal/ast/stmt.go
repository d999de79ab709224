package ast

// Program is a whole compilation unit; its block is the main program.
type Program struct {
	Pos   Position
	Block *Block
}

// Block is a sequence of statements with its own scope.
type Block struct {
	Pos        Position
	Statements []Statement
	Table      *SymbolTable
}

// CreateTable gives the block a fresh scope nested in parent, unless it
// already has one. Function bodies and classic-for bodies get their table
// from their owner before the block itself is analyzed.
func (b *Block) CreateTable(parent *SymbolTable) *SymbolTable {
	if b.Table == nil {
		b.Table = NewSymbolTable(parent)
	}
	return b.Table
}

// Statement is implemented by every statement variant.
type Statement interface {
	Entity
	statementNode()
}

func (*Declaration) statementNode()         {}
func (*AssignmentStatement) statementNode() {}
func (*IncrementStatement) statementNode()  {}
func (*CallStatement) statementNode()       {}
func (*BreakStatement) statementNode()      {}
func (*ReturnStatement) statementNode()     {}
func (*PrintStatement) statementNode()      {}
func (*IfStatement) statementNode()         {}
func (*WhileStatement) statementNode()      {}
func (*ClassicForStatement) statementNode() {}

// Declaration introduces a variable, function or struct type.
type Declaration struct {
	Pos        Position
	Declarable Declarable
}

type AssignmentStatement struct {
	Pos   Position
	Left  VariableExpression
	Right Expression
}

// IncrementStatement is v++ or v-- used as a statement.
type IncrementStatement struct {
	Pos    Position
	Op     string
	Target VariableExpression
}

type CallStatement struct {
	Pos          Position
	FunctionName string
	Args         []Expression
	Function     *Function
}

type BreakStatement struct {
	Pos Position
}

type ReturnStatement struct {
	Pos   Position
	Value Expression
	// Function is the enclosing function, resolved by analysis.
	Function *Function
}

type PrintStatement struct {
	Pos  Position
	Args []Expression
}

// IfStatement holds the if and else-if arms as ordered cases, plus an
// optional else block.
type IfStatement struct {
	Pos   Position
	Cases []*Case
	Else  *Block
}

type Case struct {
	Pos       Position
	Condition Expression
	Body      *Block
}

type WhileStatement struct {
	Pos       Position
	Condition Expression
	Body      *Block
}

// ClassicForStatement is for (T i = init; test; step) body. Each clause may
// be omitted; the index variable exists only when TypeName, Index and Init
// are all present.
type ClassicForStatement struct {
	Pos           Position
	TypeName      string
	Index         string
	Init          Expression
	Test          Expression
	Step          Statement
	Body          *Block
	IndexVariable *Variable
}

// HasInit reports whether the loop declares an index variable.
func (s *ClassicForStatement) HasInit() bool {
	return s.TypeName != "" && s.Index != "" && s.Init != nil
}
