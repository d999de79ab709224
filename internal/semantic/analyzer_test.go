package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carlos/internal/ast"
	"carlos/internal/errors"
	"carlos/internal/parser"
)

func analyze(t *testing.T, source string) (*ast.Program, *errors.Log) {
	t.Helper()
	program, parseErrors := parser.ParseSource("test.carlos", source)
	require.Empty(t, parseErrors, "source must parse")
	log := errors.NewLog()
	NewAnalyzer(log).Analyze(program)
	return program, log
}

func analyzeClean(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, log := analyze(t, source)
	require.Empty(t, log.Codes())
	return program
}

func declared(t *testing.T, program *ast.Program, i int) ast.Declarable {
	t.Helper()
	decl, ok := program.Block.Statements[i].(*ast.Declaration)
	require.True(t, ok, "statement %d is not a declaration", i)
	return decl.Declarable
}

func TestAnalyzeTypesInitializer(t *testing.T) {
	program := analyzeClean(t, `int x = 2 + 3; print(x);`)

	x := declared(t, program, 0).(*ast.Variable)
	assert.Same(t, ast.Int, x.Type)
	assert.Same(t, ast.Int, x.Initializer.TypeOf())

	stmt := program.Block.Statements[1].(*ast.PrintStatement)
	ref := stmt.Args[0].(*ast.SimpleVariableReference)
	assert.Same(t, x, ref.Referent)
}

func TestVariablesAreNotHoisted(t *testing.T) {
	program, log := analyze(t, `print(x); int x = 1; print(x);`)

	assert.Equal(t, []string{errors.ErrorVariableNotFound}, log.Codes())

	x := declared(t, program, 1).(*ast.Variable)
	before := program.Block.Statements[0].(*ast.PrintStatement).Args[0].(*ast.SimpleVariableReference)
	after := program.Block.Statements[2].(*ast.PrintStatement).Args[0].(*ast.SimpleVariableReference)
	assert.Same(t, ast.ArbitraryVariable, before.Referent)
	assert.Same(t, x, after.Referent)
}

func TestFunctionsAndTypesAreHoisted(t *testing.T) {
	analyzeClean(t, `
print(isEven(10));
boolean isEven(int n) { if (n == 0) { return true; } return isOdd(n - 1); }
boolean isOdd(int n) { if (n == 0) { return false; } return isEven(n - 1); }
struct A { B b; int v; }
struct B { A a; }
A a = new A{null, 1};
`)
}

func TestOverloadResolution(t *testing.T) {
	program := analyzeClean(t, `
void f(int x) { }
void f(string s) { }
f(1);
f("a");
`)

	byInt := program.Block.Statements[2].(*ast.CallStatement).Function
	byString := program.Block.Statements[3].(*ast.CallStatement).Function
	require.NotNil(t, byInt)
	require.NotNil(t, byString)
	assert.NotSame(t, byInt, byString)
	assert.Same(t, ast.Int, byInt.Parameters[0].Type)
	assert.Same(t, ast.String, byString.Parameters[0].Type)
}

func TestOverloadResolutionFailures(t *testing.T) {
	program, log := analyze(t, `
void g(int x) { }
void g(real x) { }
g(1);
g(1.5);
g(true);
`)

	assert.Equal(t, []string{errors.ErrorAmbiguousCall, errors.ErrorNonMatchingArguments}, log.Codes())
	assert.Nil(t, program.Block.Statements[2].(*ast.CallStatement).Function)
	byReal := program.Block.Statements[3].(*ast.CallStatement).Function
	require.NotNil(t, byReal)
	assert.Same(t, ast.Real, byReal.Parameters[0].Type)
	assert.Nil(t, program.Block.Statements[4].(*ast.CallStatement).Function)
}

func TestInnerOverloadsShadowOuter(t *testing.T) {
	_, log := analyze(t, `
void h(int x) { }
void outer() {
    void h(string s) { }
    h(1);
}
`)
	assert.Equal(t, []string{errors.ErrorNonMatchingArguments}, log.Codes())
}

func TestAnalyzerErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		codes  []string
	}{
		{"redeclared variable", `int x = 1; int x = 2;`, []string{errors.ErrorRedeclaredIdentifier}},
		{"redeclared parameter", `int f(int a, int a) { return a; }`, []string{errors.ErrorRedeclaredIdentifier}},
		{"unknown type", `Foo x;`, []string{errors.ErrorTypeNotFound}},
		{"not a type", `int x = 1; x y;`, []string{errors.ErrorNotAType}},
		{"not a variable", `print(sqrt);`, []string{errors.ErrorNotAVariable}},
		{"not a function", `int x = 1; x(2);`, []string{errors.ErrorNotAFunction}},
		{"unknown function", `print(nothing(1));`, []string{errors.ErrorFunctionNotFound}},
		{"unknown variable", `print(x);`, []string{errors.ErrorVariableNotFound}},
		{"initializer mismatch", `int x = true;`, []string{errors.ErrorTypeMismatch}},
		{"no narrowing", `int i = 1.0;`, []string{errors.ErrorTypeMismatch}},
		{"null into int", `int i = null;`, []string{errors.ErrorTypeMismatch}},
		{"while condition", `while (1) { }`, []string{errors.ErrorNonBoolean}},
		{"if condition", `if ("yes") { }`, []string{errors.ErrorNonBoolean}},
		{"for condition", `for (int i = 0; i; i++) { }`, []string{errors.ErrorNonBoolean}},
		{"break outside loop", `break;`, []string{errors.ErrorBreakNotInLoop}},
		{"break in nested function", `while (true) { void f() { break; } }`, []string{errors.ErrorBreakNotInLoop}},
		{"return outside function", `return;`, []string{errors.ErrorReturnOutsideFunction}},
		{"value from void", `void f() { return 1; }`, []string{errors.ErrorReturnValueInVoid}},
		{"missing value", `int f() { return; }`, []string{errors.ErrorMissingReturnValue}},
		{"wrong return type", `int f() { return "s"; }`, []string{errors.ErrorTypeMismatch}},
		{"void in expression", `void f() { } int x = f();`, []string{errors.ErrorVoidInExpression}},
		{"value call as statement", `int f() { return 1; } f();`, []string{errors.ErrorNonVoidInStatement}},
		{"strings are immutable", `string s = "abc"; s[0] = 'x';`, []string{errors.ErrorReadOnly}},
		{"increment literal", `print(++5);`, []string{errors.ErrorReadOnly}},
		{"assign to call", `int f() { return 1; } f() = 2;`, []string{errors.ErrorReadOnly}},
		{"duplicate field", `struct P { int x; int x; }`, []string{errors.ErrorDuplicateField}},
		{"no such field", `struct P { int x; } P p = new P{1}; print(p.y);`, []string{errors.ErrorNoSuchField}},
		{"dot on int", `int i = 0; print(i.x);`, []string{errors.ErrorNotAStruct}},
		{"struct aggregate of int", `print(new int{1});`, []string{errors.ErrorNotAStructType}},
		{"field count", `struct P { int x; } print(new P{1, 2});`, []string{errors.ErrorWrongNumberOfFields}},
		{"field type", `struct P { int x; } print(new P{"one"});`, []string{errors.ErrorTypeMismatch}},
		{"element type", `print(new int[]{true});`, []string{errors.ErrorTypeMismatch}},
		{"bound type", `print(new int['c']);`, []string{errors.ErrorNonInteger}},
		{"index type", `int[] a = new int[3]; print(a[1.5]);`, []string{errors.ErrorNonInteger}},
		{"subscript int", `int a = 1; print(a[0]);`, []string{errors.ErrorNonArrayOrString}},
		{"arithmetic", `print(1 + true);`, []string{errors.ErrorNonArithmetic}},
		{"negate string", `print(-"s");`, []string{errors.ErrorNonArithmetic}},
		{"modulo real", `print(1.5 % 2);`, []string{errors.ErrorNonInteger}},
		{"complement", `print(~'c');`, []string{errors.ErrorNonInteger}},
		{"not int", `print(!1);`, []string{errors.ErrorNonBoolean}},
		{"and int", `print(true && 1);`, []string{errors.ErrorNonBoolean}},
		{"char ordering", `print('a' < 1);`, []string{errors.ErrorNonChar}},
		{"string ordering", `print("a" < 'b');`, []string{errors.ErrorNonString}},
		{"boolean ordering", `print(true < false);`, []string{errors.ErrorNonOrderable}},
		{"length of int", `print(length 5);`, []string{errors.ErrorNonArrayOrString}},
		{"compare int with string", `print(1 == "a");`, []string{errors.ErrorNonCompatible}},
		{"int cast", `print(int 5);`, []string{errors.ErrorNonChar}},
		{"char cast", `print(char 'c');`, []string{errors.ErrorNonInteger}},
		{"increment string", `string s = "a"; s++;`, []string{errors.ErrorNonInteger}},
		{"int too large", `int big = 3000000000;`, []string{errors.ErrorBadInt}},
		{"two chars", `char c = 'ab';`, []string{errors.ErrorBadChar}},
		{"empty char", `char c = '';`, []string{errors.ErrorBadChar}},
		{"unknown escape", `string s = "\q";`, []string{errors.ErrorBadString}},
		{"bad codepoint", `string s = "\u{110000}";`, []string{errors.ErrorBadString}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, log := analyze(t, tt.source)
			assert.Equal(t, tt.codes, log.Codes())
		})
	}
}

func TestArbitrarySuppressesCascades(t *testing.T) {
	_, log := analyze(t, `
print(y + 1);
print(-y);
print(y < 3);
if (y) { }
print(length y);
print(y.field[2]);
Missing m = new Missing{1};
m.x = 3;
void f(int a) { }
void f(boolean a) { }
f(nope);
`)

	assert.Equal(t, []string{
		errors.ErrorVariableNotFound,
		errors.ErrorVariableNotFound,
		errors.ErrorVariableNotFound,
		errors.ErrorVariableNotFound,
		errors.ErrorVariableNotFound,
		errors.ErrorVariableNotFound,
		errors.ErrorTypeNotFound,
		errors.ErrorTypeNotFound,
		errors.ErrorVariableNotFound,
	}, log.Codes())
}

func TestMultipleErrorsInOnePass(t *testing.T) {
	_, log := analyze(t, `
int a = "one";
break;
print(b);
`)
	assert.Equal(t, 3, log.ErrorCount())
}

func TestForIndexVariableScope(t *testing.T) {
	program, log := analyze(t, `
for (int i = 0; i < 3; i++) { print(i); }
print(i);
for (int j = 0; j < 3; j++) { int j = 2; }
`)

	assert.Equal(t, []string{errors.ErrorVariableNotFound, errors.ErrorRedeclaredIdentifier}, log.Codes())

	loop := program.Block.Statements[0].(*ast.ClassicForStatement)
	require.NotNil(t, loop.IndexVariable)
	assert.Same(t, ast.Int, loop.IndexVariable.Type)
	_, inBody := loop.Body.Table.LookupLocal("i")
	assert.True(t, inBody)
}

func TestExpressionTypes(t *testing.T) {
	program := analyzeClean(t, `
real r = 1 + 2.0;
real widened = 7;
string s = "ab";
char c = s[0];
int[][] grid = new int[2][3];
int[] row = grid[0];
int v = grid[0][1] << 2;
int n = length grid + length s;
boolean b = c < 'z' && s != null;
string t = string 42;
int code = int c;
char back = char code;
int before = v++;
`)

	r := declared(t, program, 0).(*ast.Variable)
	assert.Same(t, ast.Real, r.Initializer.TypeOf())

	c := declared(t, program, 3).(*ast.Variable)
	assert.Same(t, ast.Char, c.Initializer.TypeOf())

	grid := declared(t, program, 4).(*ast.Variable)
	assert.Same(t, ast.Int.Array().Array(), grid.Type)
	assert.Same(t, grid.Type, grid.Initializer.TypeOf())

	row := declared(t, program, 5).(*ast.Variable)
	assert.Same(t, ast.Int.Array(), row.Initializer.TypeOf())

	b := declared(t, program, 8).(*ast.Variable)
	assert.Same(t, ast.Boolean, b.Initializer.TypeOf())
}

func TestStructFieldResolution(t *testing.T) {
	program := analyzeClean(t, `
struct Point { int x; real y; }
Point p = new Point{1, 2};
p.y = p.x;
`)

	point := declared(t, program, 0).(*ast.Type)
	assign := program.Block.Statements[2].(*ast.AssignmentStatement)
	dotted := assign.Left.(*ast.DottedVariable)
	assert.Same(t, point.Fields[1], dotted.Field)
	assert.Same(t, ast.Real, dotted.Type)
	assert.Same(t, ast.Int, assign.Right.TypeOf())
}

func TestReturnRecordsEnclosingFunction(t *testing.T) {
	program := analyzeClean(t, `real half(int n) { return n / 2; }`)

	half := declared(t, program, 0).(*ast.Function)
	ret := half.Body.Statements[0].(*ast.ReturnStatement)
	assert.Same(t, half, ret.Function)
	assert.Same(t, ast.Real, half.ReturnType)
	_, ok := half.Body.Table.LookupLocal("n")
	assert.True(t, ok)
}

func TestLiteralDecoding(t *testing.T) {
	program := analyzeClean(t, `
string s = "a\u{41}\n";
char q = '\'';
int i = 2147483647;
real r = 1.5e3;
`)

	s := declared(t, program, 0).(*ast.Variable).Initializer.(*ast.StringLiteral)
	assert.Equal(t, []rune{'a', 'A', '\n'}, s.Values)

	q := declared(t, program, 1).(*ast.Variable).Initializer.(*ast.CharLiteral)
	assert.Equal(t, '\'', q.Value)

	i := declared(t, program, 2).(*ast.Variable).Initializer.(*ast.IntegerLiteral)
	assert.Equal(t, int32(2147483647), i.Value)

	r := declared(t, program, 3).(*ast.Variable).Initializer.(*ast.RealLiteral)
	assert.Equal(t, 1500.0, r.Value)
}

func TestDecodeQuoted(t *testing.T) {
	tests := []struct {
		lexeme string
		want   []rune
		ok     bool
	}{
		{`"plain"`, []rune("plain"), true},
		{`""`, nil, true},
		{`"tab\there"`, []rune("tab\there"), true},
		{`"\\\"\0"`, []rune{'\\', '"', 0}, true},
		{`"\u{1F600}"`, []rune{0x1F600}, true},
		{`"日本"`, []rune("日本"), true},
		{`"\u{}"`, nil, false},
		{`"\u{12"`, nil, false},
		{`"\x"`, nil, false},
		{`"abc\"`, nil, false},
		{`abc`, nil, false},
	}

	for _, tt := range tests {
		got, err := decodeQuoted(tt.lexeme, '"')
		if !tt.ok {
			assert.Error(t, err, tt.lexeme)
			continue
		}
		require.NoError(t, err, tt.lexeme)
		assert.Equal(t, tt.want, got, tt.lexeme)
	}
}

func TestContextDerivationDoesNotMutate(t *testing.T) {
	root := NewContext(errors.NewLog(), ast.NewSymbolTable(nil))
	loop := root.WithInLoop(true)
	fn := loop.WithFunction(&ast.Function{Name: "f"})

	assert.False(t, root.InLoop())
	assert.True(t, loop.InLoop())
	assert.Nil(t, loop.Function())
	assert.Equal(t, "f", fn.Function().Name)
	assert.Same(t, root.Table(), fn.Table())
}
