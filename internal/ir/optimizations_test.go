package ir

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldedJumpIsRemoved(t *testing.T) {
	s := NewUserSubroutine("p0", nil)
	t0 := &Temporary{Name: "r0"}
	done := &Label{Name: "L0"}
	s.Emit(ADD, Int(5), Int(2), t0)
	s.Emit(JZERO, t0, done)
	s.Emit(LABEL, done)
	s.Emit(EXIT)

	stats := Optimize(s)

	assert.Equal(t, []string{"copy 7, r0", "L0:", "exit"}, code(s))
	assert.Positive(t, stats["fold-constants"])
	assert.Positive(t, stats["eliminate-dead-code"])
}

func TestCopyPropagationStopsAtWrite(t *testing.T) {
	a := &Var{Name: "i0"}
	b := &Var{Name: "i1"}
	s := NewUserSubroutine("p0", nil)
	s.Emit(COPY, a, b)
	s.Emit(ADD, Int(1), Int(2), a)
	s.Emit(PRINT, b)

	assert.False(t, (&CopyPropagation{}).Apply(s))
	assert.Same(t, b, s.Tuples[2].X)

	Optimize(s)
	assert.Equal(t, []string{"copy i0, i1", "copy 3, i0", "print i1"}, code(s))
}

func TestCopyPropagation(t *testing.T) {
	a := &Var{Name: "i0"}
	b := &Temporary{Name: "r0"}
	label := &Label{Name: "L0"}

	tests := []struct {
		name     string
		emit     func(s *UserSubroutine)
		expected []string
	}{
		{
			name: "straight line",
			emit: func(s *UserSubroutine) {
				s.Emit(COPY, a, b)
				s.Emit(PRINT, b)
			},
			expected: []string{"copy i0, r0", "print i0"},
		},
		{
			name: "stops at label",
			emit: func(s *UserSubroutine) {
				s.Emit(COPY, a, b)
				s.Emit(LABEL, label)
				s.Emit(PRINT, b)
			},
			expected: []string{"copy i0, r0", "L0:", "print r0"},
		},
		{
			name: "stops at call",
			emit: func(s *UserSubroutine) {
				s.Emit(COPY, a, b)
				s.Emit(CALLP, NewExternalSubroutine("get_string"), Int(0))
				s.Emit(PRINT, b)
			},
			expected: []string{"copy i0, r0", "call __get_string, 0", "print r0"},
		},
		{
			name: "stops at write of destination",
			emit: func(s *UserSubroutine) {
				s.Emit(COPY, a, b)
				s.Emit(INC, b)
				s.Emit(PRINT, b)
			},
			expected: []string{"copy i0, r0", "inc r0", "print r0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewUserSubroutine("p0", nil)
			tt.emit(s)
			(&CopyPropagation{}).Apply(s)
			assert.Equal(t, tt.expected, code(s))
		})
	}
}

func TestConstantFolding(t *testing.T) {
	r := &Temporary{Name: "r0"}
	f := &Temporary{Name: "f0", Float: true}

	tests := []struct {
		name     string
		tuple    *Tuple
		expected Operand
	}{
		{"add", NewTuple(ADD, Int(5), Int(2), r), Int(7)},
		{"wrapping add", NewTuple(ADD, Int(math.MaxInt32), Int(1), r), Int(math.MinInt32)},
		{"sub", NewTuple(SUB, Int(5), Int(7), r), Int(-2)},
		{"div truncates", NewTuple(DIV, Int(-7), Int(2), r), Int(-3)},
		{"mod", NewTuple(MOD, Int(-7), Int(2), r), Int(-1)},
		{"shift", NewTuple(SHL, Int(1), Int(31), r), Int(math.MinInt32)},
		{"arithmetic shift", NewTuple(SHR, Int(-8), Int(1), r), Int(-4)},
		{"xor", NewTuple(XOR, Int(6), Int(3), r), Int(5)},
		{"relational", NewTuple(LE, Int(3), Int(3), r), Int(1)},
		{"not", NewTuple(NOT, Int(0), r), Int(1)},
		{"comp", NewTuple(COMP, Int(0), r), Int(-1)},
		{"neg real", NewTuple(NEG, Real(1.5), f), Real(-1.5)},
		{"to float", NewTuple(TO_FLOAT, Int(3), f), Real(3)},
		{"real mul", NewTuple(MUL, Real(1.5), Real(2), f), Real(3)},
		{"real relational", NewTuple(GT, Real(1.5), Real(2), r), Int(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewUserSubroutine("p0", nil)
			s.Tuples = append(s.Tuples, tt.tuple)
			require.True(t, (&ConstantFolding{}).Apply(s))
			assert.Equal(t, COPY, tt.tuple.Op)
			assert.Equal(t, tt.expected, tt.tuple.X)
			assert.Nil(t, tt.tuple.Z)
		})
	}
}

func TestConstantFoldingLeavesRuntimeFaults(t *testing.T) {
	r := &Temporary{Name: "r0"}
	for _, tuple := range []*Tuple{
		NewTuple(DIV, Int(7), Int(0), r),
		NewTuple(MOD, Int(7), Int(0), r),
		NewTuple(DIV, Real(7), Real(0), r),
		NewTuple(SHL, Int(1), Int(32), r),
		NewTuple(ADD, Int(1), &Var{Name: "i0"}, r),
	} {
		s := NewUserSubroutine("p0", nil)
		s.Tuples = append(s.Tuples, tuple)
		assert.False(t, (&ConstantFolding{}).Apply(s), tuple.String())
	}
}

func TestStrengthReduction(t *testing.T) {
	x := &Var{Name: "i0"}
	r := &Temporary{Name: "r0"}
	f := &Temporary{Name: "f0", Float: true}
	label := &Label{Name: "L0"}

	tests := []struct {
		tuple    *Tuple
		expected string
	}{
		{NewTuple(ADD, x, Int(0), r), "\tcopy i0, r0"},
		{NewTuple(ADD, Int(0), x, r), "\tcopy i0, r0"},
		{NewTuple(SUB, f, f, f), "\tcopy 0.0, f0"},
		{NewTuple(MUL, x, Int(0), r), "\tcopy 0, r0"},
		{NewTuple(MUL, Int(1), x, r), "\tcopy i0, r0"},
		{NewTuple(DIV, x, Int(1), r), "\tcopy i0, r0"},
		{NewTuple(OR, Int(0), x, r), "\tcopy i0, r0"},
		{NewTuple(SHL, x, Int(0), r), "\tcopy i0, r0"},
		{NewTuple(AND, x, Int(0), r), "\tcopy 0, r0"},
		{NewTuple(COS, Real(0), f), "\tcopy 1.0, f0"},
		{NewTuple(JZERO, Int(0), label), "\tjump L0"},
		{NewTuple(JNZERO, Int(3), label), "\tjump L0"},
	}

	for _, tt := range tests {
		s := NewUserSubroutine("p0", nil)
		s.Tuples = append(s.Tuples, tt.tuple)
		assert.True(t, (&StrengthReduction{}).Apply(s))
		assert.Equal(t, tt.expected, tt.tuple.String())
	}

	s := NewUserSubroutine("p0", nil)
	s.Emit(MUL, x, Int(2), r)
	s.Emit(JZERO, x, label)
	assert.False(t, (&StrengthReduction{}).Apply(s))
}

func TestConditionalJumpFusion(t *testing.T) {
	x := &Var{Name: "i0"}
	y := &Var{Name: "i1"}
	r := &Temporary{Name: "r0"}
	label := &Label{Name: "L0"}

	s := NewUserSubroutine("p0", nil)
	s.Emit(LT, x, y, r)
	s.Emit(JZERO, r, label)
	s.Emit(GT, x, y, r)
	s.Emit(JNZERO, r, label)
	s.Emit(EQ, x, y, r)
	s.Emit(PRINT, r)

	assert.True(t, (&ConditionalJumpFusion{}).Apply(s))
	assert.Equal(t, []string{
		"jge i0, i1, L0",
		"jg i0, i1, L0",
		"equal i0, i1, r0",
		"print r0",
	}, code(s))
}

func TestDeadCodeElimination(t *testing.T) {
	x := &Var{Name: "i0"}
	label := &Label{Name: "L0"}

	s := NewUserSubroutine("p0", nil)
	s.Emit(COPY, x, x)
	s.Emit(ASSERT_POSITIVE, Int(3))
	s.Emit(ASSERT_POSITIVE, Int(0))
	s.Emit(ASSERT_POSITIVE, Int(-1))
	s.Emit(NULL_CHECK, Int(8))
	s.Emit(NULL_CHECK, Int(0))
	s.Emit(BOUND, Int(2), Int(0), Int(5))
	s.Emit(BOUND, Int(5), Int(0), Int(5))
	s.Emit(JZERO, Int(1), label)
	s.Emit(JNZERO, Int(0), label)
	s.Emit(ADD, x, Int(0), x)
	s.Emit(MUL, Int(1), x, x)
	s.Emit(DIV, x, Int(1), x)
	s.Emit(JUMP, label)
	s.Emit(LABEL, label)
	s.Emit(EXIT)

	assert.True(t, (&DeadCodeElimination{}).Apply(s))
	assert.Equal(t, []string{
		"assert_positive -1",
		"assert_not_null 0",
		"assert_in_range 5, 0, 5",
		"L0:",
		"exit",
	}, code(s))
	assert.False(t, (&DeadCodeElimination{}).Apply(s))
}

func TestUnreachableCodeElimination(t *testing.T) {
	x := &Var{Name: "i0"}
	label := &Label{Name: "L0"}

	s := NewUserSubroutine("p1", nil)
	s.Emit(RETF, x)
	s.Emit(CALLP, NewExternalSubroutine("terminate_program"), Int(0))
	s.Emit(LABEL, label)
	s.Emit(INC, x)
	s.Emit(JUMP, label)
	s.Emit(PRINT, x)

	assert.True(t, (&UnreachableCodeElimination{}).Apply(s))
	assert.Equal(t, []string{"ret i0", "L0:", "inc i0", "jump L0"}, code(s))
}

func TestLiteralBoundChecksAreRemoved(t *testing.T) {
	main := translated(t, `int n = 3; int[] a = new int[n];`)
	require.Contains(t, code(main), "assert_positive i0")

	Optimize(main)
	for _, line := range code(main) {
		assert.False(t, strings.HasPrefix(line, "assert_positive"), "%v", code(main))
	}

	main = translated(t, `int n = 0 - 3; int[] a = new int[n];`)
	Optimize(main)
	assert.Contains(t, code(main), "assert_positive -3")
}

func TestOptimizeReachesCallees(t *testing.T) {
	main := translated(t, `void show() { print(2 + 3); }
void loop(int n) { loop(n); }
show();
loop(1);`)

	Optimize(main)

	show := main.Callees()[0]
	assert.Equal(t, []string{"copy 5, r0", "to_string 5, r1", "print r1", "ret"}, code(show))
}

func TestOptimizationReachesFixedPoint(t *testing.T) {
	sources := []string{
		`int i = 0; while (i < 10) { if (i == 5) { break; } i++; }`,
		`int x = 1; if (x < 0) { print(1); } else if (x == 0) { print(2); } else { print(3); }`,
		`for (int i = 0; i < 3; i++) { print(i * 1 + 0); }`,
		`struct P { real a; int b; } P p = new P{1, 2}; p.b = p.b * 2; print(p.a);`,
		`boolean b = true; boolean c = b && (1 < 2) || !b; print(c);`,
		`int[] a = new int[]{1, 2, 3}; print(a[1] + length a);`,
	}

	for _, source := range sources {
		main := translated(t, source)

		first := Optimize(main)
		assert.Positive(t, first.Total(), source)
		before := Print(main)

		second := Optimize(main)
		assert.Zero(t, second.Total(), source)
		if diff := cmp.Diff(before, Print(main)); diff != "" {
			t.Errorf("second optimization changed %q (-before +after):\n%s", source, diff)
		}
	}
}

func TestOptimizedWhileLoop(t *testing.T) {
	main := translated(t, `int i = 0;
while (i < 10) { if (i == 5) { break; } i++; }`)

	Optimize(main)

	assert.Equal(t, []string{
		"copy 0, i0",
		"jump L1",
		"L0:",
		"jne i0, 5, L3",
		"jump L2",
		"L3:",
		"inc i0",
		"L1:",
		"jl i0, 10, L0",
		"L2:",
		"exit",
	}, code(main))
}
