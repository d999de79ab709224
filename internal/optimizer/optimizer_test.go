package optimizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carlos/internal/ast"
	"carlos/internal/parser"
	"carlos/internal/semantic"
)

func analyzed(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, parseErrors := parser.ParseSource("test.carlos", source)
	require.Empty(t, parseErrors)
	errs := semantic.NewAnalyzer(nil).Analyze(program)
	require.Empty(t, errs)
	return program
}

func optimized(t *testing.T, source string) *ast.Program {
	t.Helper()
	program := analyzed(t, source)
	New().Optimize(program)
	return program
}

func initializer(t *testing.T, program *ast.Program, i int) ast.Expression {
	t.Helper()
	decl, ok := program.Block.Statements[i].(*ast.Declaration)
	require.True(t, ok)
	return decl.Declarable.(*ast.Variable).Initializer
}

func TestInitializerIsFolded(t *testing.T) {
	program := optimized(t, `int x = 2 + 3; print(x);`)

	lit, ok := initializer(t, program, 0).(*ast.IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, int32(5), lit.Value)
	assert.Same(t, ast.Int, lit.Type)
	assert.Len(t, program.Block.Statements, 2)
}

func TestWhileFalseIsDeleted(t *testing.T) {
	program := optimized(t, `while (false) { print(1); }`)
	assert.Empty(t, program.Block.Statements)

	program = optimized(t, `while (1 > 2) { print(1); }`)
	assert.Empty(t, program.Block.Statements)
}

func TestSelfAssignmentIsDeleted(t *testing.T) {
	program := optimized(t, `int x = 1; int y = 2; x = x; x = y;`)
	require.Len(t, program.Block.Statements, 3)
	assert.IsType(t, &ast.AssignmentStatement{}, program.Block.Statements[2])
}

func TestFoldedExpressions(t *testing.T) {
	tests := []struct {
		name   string
		decl   string
		source string
		want   string
	}{
		{"int arithmetic", "int", "7 * 6 - 2", "40"},
		{"int division truncates", "int", "7 / 2", "3"},
		{"remainder", "int", "7 % 3", "1"},
		{"division by zero is kept", "int", "7 / 0", "(7 / 0)"},
		{"wrapping", "int", "2147483647 + 1", "-2147483648"},
		{"bitwise", "int", "6 & 3 | 8", "10"},
		{"shift", "int", "1 << 4", "16"},
		{"negation", "int", "-(2 + 3)", "-5"},
		{"complement", "int", "~0", "-1"},
		{"real arithmetic", "real", "1.5 * 2.0", "3.0"},
		{"mixed arithmetic", "real", "1 + 0.5", "1.5"},
		{"real negation", "real", "-2.5", "-2.5"},
		{"relational", "boolean", "3 < 4", "true"},
		{"mixed relational", "boolean", "3 >= 4.5", "false"},
		{"char relational", "boolean", "'a' < 'b'", "true"},
		{"boolean equality", "boolean", "true == false", "false"},
		{"not", "boolean", "!false", "true"},
		{"nested", "boolean", "!(1 + 1 == 2) || 2 * 2 == 4", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := optimized(t, tt.decl+" v = "+tt.source+";")
			got := initializer(t, program, 0).(interface{ String() string })
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAlgebraicIdentities(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"add zero", "i + 0", "i"},
		{"zero add", "0 + i", "i"},
		{"multiply one", "i * 1", "i"},
		{"one multiply", "1 * i", "i"},
		{"multiply zero", "i * 0", "0"},
		{"zero multiply", "0 * i", "0"},
		{"divide one", "i / 1", "i"},
		{"subtract self", "i - i", "0"},
		{"divide self", "i / i", "1"},
		{"real subtract self", "r - r", "0.0"},
		{"widening add is kept", "i + 0.0", "(i + 0.0)"},
		{"real multiply zero", "r * 0", "0.0"},
		{"different variables", "i - j", "(i - j)"},
		{"and true", "b && true", "b"},
		{"true and", "true && b", "b"},
		{"and false", "b && false", "false"},
		{"false and", "false && b", "false"},
		{"and self", "b && b", "b"},
		{"or false", "b || false", "b"},
		{"or true", "b || true", "true"},
		{"true or", "true || b", "true"},
		{"or self", "b || b", "b"},
		{"and other", "b && c", "(b && c)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := `int i = 3; int j = 4; real r = 1.0; boolean b = true; boolean c = false;
print(` + tt.source + `);`
			program := optimized(t, source)
			stmts := program.Block.Statements
			stmt := stmts[len(stmts)-1].(*ast.PrintStatement)
			assert.Equal(t, tt.want, stmt.Args[0].(interface{ String() string }).String())
		})
	}
}

func TestIfCases(t *testing.T) {
	program := optimized(t, `int x = 0;
if (false) { x = 1; } else if (x > 0) { x = 2; } else if (true) { x = 3; } else if (x < 0) { x = 4; } else { x = 5; }`)

	ifs := program.Block.Statements[1].(*ast.IfStatement)
	require.Len(t, ifs.Cases, 2)
	assert.Equal(t, "(x > 0)", ifs.Cases[0].Condition.(interface{ String() string }).String())
	assert.True(t, ast.IsTrue(ifs.Cases[1].Condition))
	assert.Nil(t, ifs.Else)
}

func TestIfWithOnlyFalseCases(t *testing.T) {
	program := optimized(t, `if (false) { print(1); } else if (1 == 2) { print(2); }`)
	assert.Empty(t, program.Block.Statements)

	program = optimized(t, `if (false) { print(1); } else { print(2); }`)
	require.Len(t, program.Block.Statements, 1)
	ifs := program.Block.Statements[0].(*ast.IfStatement)
	assert.Empty(t, ifs.Cases)
	require.NotNil(t, ifs.Else)
	assert.Len(t, ifs.Else.Statements, 1)
}

func TestForWithFalseTest(t *testing.T) {
	program := optimized(t, `for (int i = 0; false; i++) { print(i); }`)
	require.Len(t, program.Block.Statements, 1)
	loop := program.Block.Statements[0].(*ast.ClassicForStatement)
	assert.True(t, loop.HasInit())
	assert.Empty(t, loop.Body.Statements)
	assert.Nil(t, loop.Step)

	program = optimized(t, `int i = 0; for (; 2 < 1; i++) { print(i); }`)
	assert.Len(t, program.Block.Statements, 1)
}

func TestNestedBodiesAreOptimized(t *testing.T) {
	program := optimized(t, `int f(int a) {
  while (false) { a++; }
  a = a;
  return a * 1;
}
for (int i = 0; i < 2 + 3; i++) {
  if (true) { print(f(i)); } else { print(0); }
}`)

	f := program.Block.Statements[0].(*ast.Declaration).Declarable.(*ast.Function)
	require.Len(t, f.Body.Statements, 1)
	ret := f.Body.Statements[0].(*ast.ReturnStatement)
	assert.IsType(t, &ast.SimpleVariableReference{}, ret.Value)

	loop := program.Block.Statements[1].(*ast.ClassicForStatement)
	assert.Equal(t, "(i < 5)", loop.Test.(interface{ String() string }).String())
	ifs := loop.Body.Statements[0].(*ast.IfStatement)
	assert.Nil(t, ifs.Else)
}

func TestSubexpressionsOfVariablesAreOptimized(t *testing.T) {
	program := optimized(t, `int[] a = new int[2 * 3]; a[1 + 1] = 0;`)

	empty := initializer(t, program, 0).(*ast.EmptyArray)
	assert.Equal(t, "6", empty.Bounds[0].(interface{ String() string }).String())

	assign := program.Block.Statements[1].(*ast.AssignmentStatement)
	sub := assign.Left.(*ast.SubscriptedVariable)
	assert.Equal(t, "2", sub.Index.(interface{ String() string }).String())
}

func TestOptimizationIsIdempotent(t *testing.T) {
	sources := []string{
		`int x = 2 + 3; print(x);`,
		`while (false) { print(1); }`,
		`struct P { int x; real y; }
P p = new P{1 + 2, 0.5 * 2.0};
int[] a = new int[]{1, 2 * 2, -3};
for (int i = 0; false; i++) { print(i); }
for (int j = 0; j < length a; j++) { a[j] = a[j] * 1 + 0; }
if (1 < 2) { print(p.x); } else { print(p.y); }
boolean b = !true || p.x == 3 && true;
int f(int n) { if (n <= 1) { return 1; } return n * f(n - 1); }
print(f(5), b);`,
	}

	for _, source := range sources {
		program := analyzed(t, source)
		opt := New()
		opt.Optimize(program)
		first := ast.Dump(program, ast.NewArena())

		assert.Zero(t, opt.Optimize(program))
		second := ast.Dump(program, ast.NewArena())
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("second run changed the tree (-first +second):\n%s", diff)
		}
	}
}

func TestOptimizeCountsRewrites(t *testing.T) {
	program := analyzed(t, `int x = 1 + 2; x = x; while (false) { }`)
	assert.Equal(t, 3, New().Optimize(program))
}
