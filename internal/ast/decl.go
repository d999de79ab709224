package ast

// Declarable is a named entity that can be placed in a symbol table:
// *Variable, *Function or *Type.
type Declarable interface {
	Entity
	DeclName() string
}

// VoidTypeName is the return-type name of procedures.
const VoidTypeName = "void"

// Variable is a declared variable or parameter.
type Variable struct {
	Pos         Position
	Name        string
	TypeName    string
	Initializer Expression
	Type        *Type
}

func NewVariable(pos Position, name, typeName string, initializer Expression) *Variable {
	return &Variable{Pos: pos, Name: name, TypeName: typeName, Initializer: initializer}
}

func (v *Variable) DeclName() string { return v.Name }

// Builtin identifies functions provided by the runtime.
type Builtin int

const (
	NotBuiltin Builtin = iota
	BuiltinGetString
	BuiltinSubstring
	BuiltinSqrt
	BuiltinPi
	BuiltinSin
	BuiltinCos
	BuiltinLn
	BuiltinAtan
)

// Function is a user function or a built-in. Same-named functions declared in
// one scope are chained through Overload, newest first.
type Function struct {
	Pos            Position
	Name           string
	ReturnTypeName string
	Parameters     []*Variable
	Body           *Block
	ReturnType     *Type
	Overload       *Function
	Builtin        Builtin
}

func (f *Function) DeclName() string { return f.Name }

func (f *Function) IsVoid() bool { return f.ReturnTypeName == VoidTypeName }

// CanBeCalledWith reports whether args match the parameter list by count and
// by individual assignability.
func (f *Function) CanBeCalledWith(args []Expression) bool {
	if len(args) != len(f.Parameters) {
		return false
	}
	for i, arg := range args {
		if !IsAssignable(arg.TypeOf(), f.Parameters[i].Type) {
			return false
		}
	}
	return true
}

// StructField is one field of a struct type.
type StructField struct {
	Pos      Position
	Name     string
	TypeName string
	Type     *Type
}

func (f *StructField) DeclName() string { return f.Name }

var (
	// ArbitraryVariable stands in for an unresolvable variable reference.
	ArbitraryVariable = &Variable{Name: "<arbitrary>", TypeName: "<arbitrary>", Type: Arbitrary}
	// ArbitraryField stands in for an unresolvable struct field.
	ArbitraryField = &StructField{Name: "<arbitrary>", TypeName: "<arbitrary>", Type: Arbitrary}
)
