package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carlos/internal/ast"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, errs := ParseSource("test.carlos", source)
	require.Empty(t, errs)
	require.NotNil(t, program)
	return program
}

func TestParseEmptyProgram(t *testing.T) {
	program := parse(t, "")
	assert.Empty(t, program.Block.Statements)

	program = parse(t, "// nothing here\n/* or\n here */")
	assert.Empty(t, program.Block.Statements)
}

func TestParseDeclarations(t *testing.T) {
	source := `struct Point { int x; real y; Point[] next; }
int[][] grid;
real half = 0.5;
void reset(Point p, int n) { }
Point origin() { return new Point{0, 0.0, null}; }`

	stmts := parse(t, source).Block.Statements
	require.Len(t, stmts, 5)

	st := stmts[0].(*ast.Declaration).Declarable.(*ast.Type)
	assert.Equal(t, "Point", st.Name)
	assert.True(t, st.IsStruct())
	require.Len(t, st.Fields, 3)
	assert.Equal(t, "Point[]", st.Fields[2].TypeName)

	grid := stmts[1].(*ast.Declaration).Declarable.(*ast.Variable)
	assert.Equal(t, "int[][]", grid.TypeName)
	assert.Nil(t, grid.Initializer)

	half := stmts[2].(*ast.Declaration).Declarable.(*ast.Variable)
	require.IsType(t, &ast.RealLiteral{}, half.Initializer)
	assert.Equal(t, "0.5", half.Initializer.(*ast.RealLiteral).Lexeme)

	reset := stmts[3].(*ast.Declaration).Declarable.(*ast.Function)
	assert.True(t, reset.IsVoid())
	require.Len(t, reset.Parameters, 2)
	assert.Equal(t, "Point", reset.Parameters[0].TypeName)
	assert.Equal(t, "n", reset.Parameters[1].Name)

	origin := stmts[4].(*ast.Declaration).Declarable.(*ast.Function)
	assert.Equal(t, "Point", origin.ReturnTypeName)
	ret := origin.Body.Statements[0].(*ast.ReturnStatement)
	agg := ret.Value.(*ast.StructAggregate)
	assert.Equal(t, "Point", agg.TypeName)
	assert.Len(t, agg.Args, 3)
	assert.Same(t, ast.Null, agg.Args[2])
}

func TestParsePrecedence(t *testing.T) {
	stmts := parse(t, `b = x + y * 2 < 10 || !done && x << 1 == 4;`).Block.Statements
	assign := stmts[0].(*ast.AssignmentStatement)

	assert.Equal(t, "(((x + (y * 2)) < 10) || (!done && ((x << 1) == 4)))",
		assign.Right.(*ast.InfixExpression).String())
}

func TestParseBitwiseBindsTighterThanRelational(t *testing.T) {
	stmts := parse(t, `b = a | b ^ c & d == 0;`).Block.Statements
	assign := stmts[0].(*ast.AssignmentStatement)
	assert.Equal(t, "((a | (b ^ (c & d))) == 0)", assign.Right.(*ast.InfixExpression).String())
}

func TestParseRelationalDoesNotAssociate(t *testing.T) {
	_, errs := ParseSource("test.carlos", `b = 1 < 2 < 3;`)
	assert.NotEmpty(t, errs)
}

func TestParseSimpleStatements(t *testing.T) {
	source := `x = 1;
a[i].f = 2;
count++;
total--;
run(1, "two");
print(x, 'c', "s");
break;
return;`
	stmts := parse(t, source).Block.Statements
	require.Len(t, stmts, 8)

	assign := stmts[1].(*ast.AssignmentStatement)
	dotted := assign.Left.(*ast.DottedVariable)
	assert.Equal(t, "f", dotted.FieldName)
	sub := dotted.Struct.(*ast.SubscriptedVariable)
	assert.Equal(t, "a", sub.Sequence.(*ast.SimpleVariableReference).Name)

	inc := stmts[2].(*ast.IncrementStatement)
	assert.Equal(t, "++", inc.Op)
	assert.Equal(t, "--", stmts[3].(*ast.IncrementStatement).Op)

	call := stmts[4].(*ast.CallStatement)
	assert.Equal(t, "run", call.FunctionName)
	assert.Len(t, call.Args, 2)

	assert.Len(t, stmts[5].(*ast.PrintStatement).Args, 3)
	assert.IsType(t, &ast.BreakStatement{}, stmts[6])
	assert.Nil(t, stmts[7].(*ast.ReturnStatement).Value)
}

func TestParseControlFlow(t *testing.T) {
	source := `if (a) { x = 1; } else if (b) { x = 2; } else if (c) { } else { x = 4; }
while (x < 10) { x++; }
for (int i = 0; i < 10; i++) { print(i); }
for (;;) { break; }`
	stmts := parse(t, source).Block.Statements
	require.Len(t, stmts, 4)

	ifs := stmts[0].(*ast.IfStatement)
	assert.Len(t, ifs.Cases, 3)
	require.NotNil(t, ifs.Else)
	assert.Len(t, ifs.Else.Statements, 1)

	while := stmts[1].(*ast.WhileStatement)
	assert.Equal(t, "(x < 10)", while.Condition.(*ast.InfixExpression).String())

	loop := stmts[2].(*ast.ClassicForStatement)
	assert.True(t, loop.HasInit())
	assert.Equal(t, "int", loop.TypeName)
	assert.Equal(t, "i", loop.Index)
	assert.IsType(t, &ast.IncrementStatement{}, loop.Step)

	forever := stmts[3].(*ast.ClassicForStatement)
	assert.False(t, forever.HasInit())
	assert.Nil(t, forever.Test)
	assert.Nil(t, forever.Step)
}

func TestParseNewForms(t *testing.T) {
	source := `a = new int[]{1, 2, 3};
b = new int[][]{new int[]{1}};
c = new int[n][4];
d = new Point{1, 2};
e = new string[][3];`
	stmts := parse(t, source).Block.Statements

	right := func(i int) ast.Expression { return stmts[i].(*ast.AssignmentStatement).Right }

	arr := right(0).(*ast.ArrayAggregate)
	assert.Equal(t, "int[]", arr.TypeName)
	assert.Len(t, arr.Args, 3)

	assert.Equal(t, "int[][]", right(1).(*ast.ArrayAggregate).TypeName)

	empty := right(2).(*ast.EmptyArray)
	assert.Equal(t, "int", empty.TypeName)
	assert.Len(t, empty.Bounds, 2)

	assert.IsType(t, &ast.StructAggregate{}, right(3))

	nested := right(4).(*ast.EmptyArray)
	assert.Equal(t, "string[]", nested.TypeName)
	assert.Len(t, nested.Bounds, 1)
}

func TestParseUnaryOperators(t *testing.T) {
	source := `x = -y;
x = int c;
x = length s;
x = char 65;
x = string 3;
x = ~mask;
x = ++i;
x = i--;`
	stmts := parse(t, source).Block.Statements
	ops := []string{"-", "int", "length", "char", "string", "~", "++"}
	for i, op := range ops {
		prefix := stmts[i].(*ast.AssignmentStatement).Right.(*ast.PrefixExpression)
		assert.Equal(t, op, prefix.Op)
	}
	post := stmts[7].(*ast.AssignmentStatement).Right.(*ast.PostfixExpression)
	assert.Equal(t, "--", post.Op)
}

func TestParseLiterals(t *testing.T) {
	source := `print(42, 3.5e2, 'a', "hi\n", true, false, null);`
	args := parse(t, source).Block.Statements[0].(*ast.PrintStatement).Args
	require.Len(t, args, 7)

	assert.Equal(t, "42", args[0].(*ast.IntegerLiteral).Lexeme)
	assert.Equal(t, "3.5e2", args[1].(*ast.RealLiteral).Lexeme)
	assert.Equal(t, "'a'", args[2].(*ast.CharLiteral).Lexeme)
	assert.Equal(t, `"hi\n"`, args[3].(*ast.StringLiteral).Lexeme)
	assert.Same(t, ast.True, args[4])
	assert.Same(t, ast.False, args[5])
	assert.Same(t, ast.Null, args[6])
}

func TestParsePositions(t *testing.T) {
	stmts := parse(t, "int x = 1;\n  y = x;").Block.Statements

	assert.Equal(t, 1, stmts[0].NodePos().Line)
	assert.Equal(t, 2, stmts[1].NodePos().Line)
	assert.Equal(t, 3, stmts[1].NodePos().Column)
	assert.Equal(t, "test.carlos", stmts[1].NodePos().Filename)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing semicolon", "x = 1"},
		{"bare variable", "x;"},
		{"keyword as name", "int while = 1;"},
		{"postfix on literal", "x = 5++;"},
		{"unterminated string", `x = "abc;`},
		{"unbalanced block", "while (true) { x = 1;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, errs := ParseSource("test.carlos", tt.source)
			assert.Nil(t, program)
			require.NotEmpty(t, errs)
			assert.NotEmpty(t, errs[0].Message)
			assert.Positive(t, errs[0].Position.Line)
		})
	}
}
