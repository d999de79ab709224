package ir

import (
	"math"
	"strconv"
	"strings"
)

// Operand is anything that can appear in a tuple. Literals compare by value,
// everything else by identity, so == on two Operands is the right test for
// "same operand".
type Operand interface {
	String() string
	operand()
}

// Int is an integer literal. Booleans, characters and null are lowered to
// Int as well.
type Int int32

// Real is a floating-point literal.
type Real float64

// Var is a source variable or parameter.
type Var struct {
	Name  string
	Level int
	Float bool
}

// Temporary is a computed value with no source name.
type Temporary struct {
	Name  string
	Float bool
}

// AddressTemporary holds the address of a storage location rather than a
// value. ReferencesFloat tells what is stored at that address.
type AddressTemporary struct {
	Name            string
	ReferencesFloat bool
}

type Label struct {
	Name string
}

// StringConstant is a string literal placed in static storage.
type StringConstant struct {
	Name   string
	Values []rune
}

// Subroutine is the target of a call.
type Subroutine interface {
	Operand
	Level() int
}

func (Int) operand()               {}
func (Real) operand()              {}
func (*Var) operand()              {}
func (*Temporary) operand()        {}
func (*AddressTemporary) operand() {}
func (*Label) operand()            {}
func (*StringConstant) operand()   {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (r Real) String() string {
	v := float64(r)
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !math.IsInf(v, 0) && !math.IsNaN(v) && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (v *Var) String() string              { return v.Name }
func (t *Temporary) String() string        { return t.Name }
func (t *AddressTemporary) String() string { return t.Name }
func (l *Label) String() string            { return l.Name }
func (s *StringConstant) String() string   { return s.Name }

// Details lists the codepoints of s separated by commas.
func (s *StringConstant) Details() string {
	parts := make([]string, len(s.Values))
	for i, r := range s.Values {
		parts[i] = strconv.Itoa(int(r))
	}
	return strings.Join(parts, ", ")
}

// IsLiteral reports whether o is an Int or Real.
func IsLiteral(o Operand) bool {
	switch o.(type) {
	case Int, Real:
		return true
	}
	return false
}

func isFloat(o Operand) bool {
	switch o := o.(type) {
	case Real:
		return true
	case *Var:
		return o.Float
	case *Temporary:
		return o.Float
	}
	return false
}
