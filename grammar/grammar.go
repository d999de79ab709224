package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Program struct {
	Pos        lexer.Position
	Statements []*Statement `@@*`
}

type Block struct {
	Pos        lexer.Position
	Statements []*Statement `"{" @@* "}"`
}

type Statement struct {
	Pos      lexer.Position
	Struct   *StructDecl   `  @@`
	If       *IfStmt       `| @@`
	While    *WhileStmt    `| @@`
	For      *ForStmt      `| @@`
	Break    *BreakStmt    `| @@`
	Return   *ReturnStmt   `| @@`
	Print    *PrintStmt    `| @@`
	Function *FunctionDecl `| @@`
	Var      *VarDecl      `| @@`
	Simple   *SimpleStmt   `| @@ ";"`
}

type StructDecl struct {
	Pos    lexer.Position
	Name   string       `"struct" @Ident "{"`
	Fields []*FieldDecl `@@* "}"`
}

type FieldDecl struct {
	Pos  lexer.Position
	Type *TypeRef `@@`
	Name string   `@Ident ";"`
}

// TypeRef is a type name followed by one pair of brackets per array
// dimension.
type TypeRef struct {
	Pos  lexer.Position
	Name string   `@Ident`
	Dims []string `( "[" @"]" )*`
}

type FunctionDecl struct {
	Pos        lexer.Position
	Void       bool     `( @"void"`
	ReturnType *TypeRef `| @@ )`
	Name       string   `@Ident "("`
	Params     []*Param `( @@ ( "," @@ )* )? ")"`
	Body       *Block   `@@`
}

type Param struct {
	Pos  lexer.Position
	Type *TypeRef `@@`
	Name string   `@Ident`
}

type VarDecl struct {
	Pos  lexer.Position
	Type *TypeRef `@@`
	Name string   `@Ident`
	Init *Expr    `( "=" @@ )? ";"`
}

type IfStmt struct {
	Pos     lexer.Position
	Cond    *Expr     `"if" "(" @@ ")"`
	Body    *Block    `@@`
	ElseIfs []*ElseIf `@@*`
	Else    *Block    `( "else" @@ )?`
}

type ElseIf struct {
	Pos  lexer.Position
	Cond *Expr  `"else" "if" "(" @@ ")"`
	Body *Block `@@`
}

type WhileStmt struct {
	Pos  lexer.Position
	Cond *Expr  `"while" "(" @@ ")"`
	Body *Block `@@`
}

type ForStmt struct {
	Pos  lexer.Position
	Init *ForInit    `"for" "(" @@? ";"`
	Test *Expr       `@@? ";"`
	Step *SimpleStmt `@@? ")"`
	Body *Block      `@@`
}

type ForInit struct {
	Pos   lexer.Position
	Type  *TypeRef `@@`
	Name  string   `@Ident "="`
	Value *Expr    `@@`
}

type BreakStmt struct {
	Pos     lexer.Position
	Keyword string `@"break" ";"`
}

type ReturnStmt struct {
	Pos     lexer.Position
	Keyword string `@"return"`
	Value   *Expr  `@@? ";"`
}

type PrintStmt struct {
	Pos  lexer.Position
	Open bool    `"print" @"("`
	Args []*Expr `( @@ ( "," @@ )* )? ")" ";"`
}

// SimpleStmt is an assignment, an increment or a bare call. Which of the
// three it is can only be decided once the target has been parsed.
type SimpleStmt struct {
	Pos    lexer.Position
	Target *VarExpr `@@`
	Value  *Expr    `( "=" @@`
	Incr   string   `| @( "++" | "--" ) )?`
}

// Expressions, loosest binding first.

type Expr struct {
	Pos  lexer.Position
	Head *AndExpr  `@@`
	Tail []*OrTail `@@*`
}

type OrTail struct {
	Pos   lexer.Position
	Op    string   `@"||"`
	Right *AndExpr `@@`
}

type AndExpr struct {
	Pos  lexer.Position
	Head *RelExpr   `@@`
	Tail []*AndTail `@@*`
}

type AndTail struct {
	Pos   lexer.Position
	Op    string   `@"&&"`
	Right *RelExpr `@@`
}

// RelExpr does not associate: a < b < c is a syntax error.
type RelExpr struct {
	Pos  lexer.Position
	Left *BitOrExpr `@@`
	Tail *RelTail   `@@?`
}

type RelTail struct {
	Pos   lexer.Position
	Op    string     `@( "<=" | ">=" | "==" | "!=" | "<" | ">" )`
	Right *BitOrExpr `@@`
}

type BitOrExpr struct {
	Pos  lexer.Position
	Head *BitXorExpr  `@@`
	Tail []*BitOrTail `@@*`
}

type BitOrTail struct {
	Pos   lexer.Position
	Op    string      `@"|"`
	Right *BitXorExpr `@@`
}

type BitXorExpr struct {
	Pos  lexer.Position
	Head *BitAndExpr   `@@`
	Tail []*BitXorTail `@@*`
}

type BitXorTail struct {
	Pos   lexer.Position
	Op    string      `@"^"`
	Right *BitAndExpr `@@`
}

type BitAndExpr struct {
	Pos  lexer.Position
	Head *ShiftExpr    `@@`
	Tail []*BitAndTail `@@*`
}

type BitAndTail struct {
	Pos   lexer.Position
	Op    string     `@"&"`
	Right *ShiftExpr `@@`
}

type ShiftExpr struct {
	Pos  lexer.Position
	Head *AddExpr     `@@`
	Tail []*ShiftTail `@@*`
}

type ShiftTail struct {
	Pos   lexer.Position
	Op    string   `@( "<<" | ">>" )`
	Right *AddExpr `@@`
}

type AddExpr struct {
	Pos  lexer.Position
	Head *MulExpr   `@@`
	Tail []*AddTail `@@*`
}

type AddTail struct {
	Pos   lexer.Position
	Op    string   `@( "+" | "-" )`
	Right *MulExpr `@@`
}

type MulExpr struct {
	Pos  lexer.Position
	Head *Unary     `@@`
	Tail []*MulTail `@@*`
}

type MulTail struct {
	Pos   lexer.Position
	Op    string `@( "*" | "/" | "%" )`
	Right *Unary `@@`
}

type Unary struct {
	Pos     lexer.Position
	Op      string   `( @( "-" | "!" | "~" | "++" | "--" | "int" | "char" | "string" | "length" )`
	Operand *Unary   `  @@ )`
	Postfix *Postfix `| @@`
}

type Postfix struct {
	Pos     lexer.Position
	Primary *Primary `@@`
	Op      string   `@( "++" | "--" )?`
}

type Primary struct {
	Pos    lexer.Position
	Real   *string  `  @Real`
	Int    *string  `| @Int`
	Char   *string  `| @Char`
	String *string  `| @String`
	True   bool     `| @"true"`
	False  bool     `| @"false"`
	Null   bool     `| @"null"`
	New    *NewExpr `| @@`
	Var    *VarExpr `| @@`
	Paren  *Expr    `| "(" @@ ")"`
}

// VarExpr is a variable or call followed by any number of subscripts and
// field selections.
type VarExpr struct {
	Pos       lexer.Position
	Name      string      `@Ident`
	Call      *CallArgs   `@@?`
	Selectors []*Selector `@@*`
}

type CallArgs struct {
	Pos  lexer.Position
	Open bool    `@"("`
	Args []*Expr `( @@ ( "," @@ )* )? ")"`
}

type Selector struct {
	Pos   lexer.Position
	Index *Expr  `  "[" @@ "]"`
	Field string `| "." @Ident`
}

// NewExpr covers the three allocation forms:
//
//	new T[]...[]{e, ...}  array aggregate
//	new T{e, ...}         struct aggregate
//	new T[]...[][n]...[m] empty array
type NewExpr struct {
	Pos    lexer.Position
	Type   string      `"new" @Ident`
	Empty  []*EmptyDim `@@*`
	Bounds []*Expr     `( ( "[" @@ "]" )+`
	Elems  *ElemList   `| @@ )`
}

type EmptyDim struct {
	Open bool `@"[" "]"`
}

type ElemList struct {
	Pos  lexer.Position
	Open bool    `@"{"`
	Args []*Expr `( @@ ( "," @@ )* )? "}"`
}
