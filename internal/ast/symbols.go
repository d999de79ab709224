package ast

import "fmt"

// LookupReason classifies symbol table failures.
type LookupReason int

const (
	Redeclared LookupReason = iota
	NotFound
	NotAType
	NotAVariable
	NotAFunction
	NoMatchingOverload
	AmbiguousCall
)

// LookupError is returned by SymbolTable operations. Found is the declarable
// that was bound to Name, if any.
type LookupError struct {
	Reason LookupReason
	Name   string
	Found  Declarable
}

func (e *LookupError) Error() string {
	switch e.Reason {
	case Redeclared:
		return fmt.Sprintf("%s is already declared in this scope", e.Name)
	case NotFound:
		return fmt.Sprintf("%s is not declared", e.Name)
	case NotAType:
		return fmt.Sprintf("%s is not a type", e.Name)
	case NotAVariable:
		return fmt.Sprintf("%s is not a variable", e.Name)
	case NotAFunction:
		return fmt.Sprintf("%s is not a function", e.Name)
	case NoMatchingOverload:
		return fmt.Sprintf("no overload of %s matches the arguments", e.Name)
	case AmbiguousCall:
		return fmt.Sprintf("call to %s is ambiguous", e.Name)
	default:
		return e.Name
	}
}

// SymbolTable maps names to declarables in one lexical scope.
type SymbolTable struct {
	Parent  *SymbolTable
	entries map[string]Declarable
	order   []string
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		Parent:  parent,
		entries: make(map[string]Declarable),
	}
}

// Insert binds d in this scope. A function whose name is already bound to a
// function becomes the head of that overload chain.
func (t *SymbolTable) Insert(d Declarable) error {
	name := d.DeclName()
	old, exists := t.entries[name]
	if !exists {
		t.entries[name] = d
		t.order = append(t.order, name)
		return nil
	}

	oldFn, oldIsFn := old.(*Function)
	newFn, newIsFn := d.(*Function)
	if oldIsFn && newIsFn {
		newFn.Overload = oldFn
		t.entries[name] = newFn
		return nil
	}
	return &LookupError{Reason: Redeclared, Name: name, Found: old}
}

// LookupLocal finds name in this scope only.
func (t *SymbolTable) LookupLocal(name string) (Declarable, bool) {
	d, ok := t.entries[name]
	return d, ok
}

// Lookup finds name in the innermost enclosing scope that binds it.
func (t *SymbolTable) Lookup(name string) (Declarable, bool) {
	for s := t; s != nil; s = s.Parent {
		if d, ok := s.entries[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// Names returns the names bound in this scope in insertion order.
func (t *SymbolTable) Names() []string {
	return append([]string(nil), t.order...)
}

// LookupType resolves a type name; a trailing [] denotes an array of the
// preceding type. On failure Arbitrary is returned along with the error.
func (t *SymbolTable) LookupType(name string) (*Type, error) {
	if len(name) > 2 && name[len(name)-2:] == "[]" {
		element, err := t.LookupType(name[:len(name)-2])
		if err != nil {
			return Arbitrary, err
		}
		return element.Array(), nil
	}

	d, ok := t.Lookup(name)
	if !ok {
		return Arbitrary, &LookupError{Reason: NotFound, Name: name}
	}
	typ, ok := d.(*Type)
	if !ok {
		return Arbitrary, &LookupError{Reason: NotAType, Name: name, Found: d}
	}
	return typ, nil
}

// LookupVariable resolves a variable name. On failure ArbitraryVariable is
// returned along with the error.
func (t *SymbolTable) LookupVariable(name string) (*Variable, error) {
	d, ok := t.Lookup(name)
	if !ok {
		return ArbitraryVariable, &LookupError{Reason: NotFound, Name: name}
	}
	v, ok := d.(*Variable)
	if !ok {
		return ArbitraryVariable, &LookupError{Reason: NotAVariable, Name: name, Found: d}
	}
	return v, nil
}

// LookupFunction resolves a call. Only the overload chain of the nearest
// scope binding name is considered; exactly one candidate must accept args.
func (t *SymbolTable) LookupFunction(name string, args []Expression) (*Function, error) {
	d, ok := t.Lookup(name)
	if !ok {
		return nil, &LookupError{Reason: NotFound, Name: name}
	}
	head, ok := d.(*Function)
	if !ok {
		return nil, &LookupError{Reason: NotAFunction, Name: name, Found: d}
	}

	var match *Function
	for f := head; f != nil; f = f.Overload {
		if !f.CanBeCalledWith(args) {
			continue
		}
		if match != nil {
			return nil, &LookupError{Reason: AmbiguousCall, Name: name, Found: f}
		}
		match = f
	}
	if match == nil {
		return nil, &LookupError{Reason: NoMatchingOverload, Name: name, Found: head}
	}
	return match, nil
}
