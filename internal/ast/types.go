package ast

import (
	"strings"
	"sync"
)

// TypeVariant tags the shape of a Type.
type TypeVariant int

const (
	PrimitiveVariant TypeVariant = iota
	ArrayVariant
	StructVariant
	ArbitraryVariant
	NullVariant
	ArrayOrStringVariant
)

// Type is a Carlos type. Primitive and sentinel types are process-wide
// singletons; array types are memoized on their element type so that every
// request for T[] yields the same object.
type Type struct {
	Pos     Position
	Name    string
	Variant TypeVariant

	// Element is set for array types.
	Element *Type
	// Fields is set for struct types, in declaration order.
	Fields []*StructField

	arrayOnce sync.Once
	array     *Type
}

var (
	Int     = &Type{Name: "int"}
	Real    = &Type{Name: "real"}
	Boolean = &Type{Name: "boolean"}
	Char    = &Type{Name: "char"}
	String  = &Type{Name: "string"}

	// Arbitrary is compatible with everything and stops cascading errors.
	Arbitrary = &Type{Name: "<arbitrary>", Variant: ArbitraryVariant}
	// NullType is the type of the null literal.
	NullType = &Type{Name: "<null>", Variant: NullVariant}
	// ArrayOrString types the operand of the length operator.
	ArrayOrString = &Type{Name: "<array_or_string>", Variant: ArrayOrStringVariant}
)

// Primitives lists the primitive types in the order they are installed into
// the global scope.
var Primitives = []*Type{Int, Real, Boolean, Char, String}

// NewStructType creates an unanalyzed struct type. Field types are resolved
// by the analyzer.
func NewStructType(pos Position, name string, fields []*StructField) *Type {
	return &Type{Pos: pos, Name: name, Variant: StructVariant, Fields: fields}
}

func (t *Type) Kind() Kind {
	switch t.Variant {
	case ArrayVariant:
		return KindArrayType
	case StructVariant:
		return KindStructType
	default:
		return KindPrimitiveType
	}
}

func (t *Type) DeclName() string { return t.Name }

func (t *Type) String() string { return t.Name }

// Array returns the one-dimensional array type whose elements are t.
func (t *Type) Array() *Type {
	t.arrayOnce.Do(func() {
		t.array = &Type{Name: t.Name + "[]", Variant: ArrayVariant, Element: t}
	})
	return t.array
}

// Field returns the struct field called name, or nil.
func (t *Type) Field(name string) *StructField {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (t *Type) IsArray() bool     { return t.Variant == ArrayVariant }
func (t *Type) IsStruct() bool    { return t.Variant == StructVariant }
func (t *Type) IsString() bool    { return t == String }
func (t *Type) IsArbitrary() bool { return t == Arbitrary }

func (t *Type) IsArithmetic() bool {
	return t == Int || t == Real
}

// IsReference reports whether values of t are heap references that may be null.
func (t *Type) IsReference() bool {
	return t == String || t == ArrayOrString || t == Arbitrary || t.IsArray() || t.IsStruct()
}

// IsAssignable reports whether a value of type a may be stored where a value
// of type b is expected.
func IsAssignable(a, b *Type) bool {
	switch {
	case a == nil || b == nil:
		return false
	case a == b:
		return true
	case a == Arbitrary || b == Arbitrary:
		return true
	case a == Int && b == Real:
		return true
	case a == NullType && b.IsReference():
		return true
	case b == ArrayOrString && (a.IsArray() || a == String):
		return true
	}
	return false
}

// IsMutuallyAssignable is the compatibility relation of == and !=.
func IsMutuallyAssignable(a, b *Type) bool {
	return IsAssignable(a, b) || IsAssignable(b, a)
}

// ArrayTypeName appends one pair of brackets per dimension to base.
func ArrayTypeName(base string, dims int) string {
	return base + strings.Repeat("[]", dims)
}
