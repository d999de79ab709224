package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	main := translated(t, `void greet(string who) { print("hi ", who); }
greet("bob");`)

	expected := `p0:
	;level=0 parent=none params=[] locals=[]
	startcall p1
	param s1
	call p1, 4
	exit
p1:
	;level=1 parent=p0 params=[i0] locals=[]
	print s0
	print i0
	ret
s1: 98, 111, 98
s0: 104, 105, 32
`
	assert.Equal(t, expected, Print(main))
}

func TestPrintVisitsRecursiveSubroutinesOnce(t *testing.T) {
	main := translated(t, `void down(int n) { if (n > 0) { down(n - 1); } }
down(3);
down(4);`)

	output := Print(main)
	assert.Equal(t, 1, strings.Count(output, "p1:\n"))
	assert.Equal(t, 1, strings.Count(output, "p0:\n"))
}

func TestPrintListsSharedStringsOnce(t *testing.T) {
	s := NewUserSubroutine("p0", nil)
	hello := &StringConstant{Name: "s0", Values: []rune("ok")}
	s.Emit(PRINT, hello)
	s.Emit(PRINT, hello)
	s.Emit(EXIT)

	output := Print(s)
	assert.Equal(t, 1, strings.Count(output, "s0: 111, 107"))
}
