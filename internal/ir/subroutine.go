package ir

import (
	mapset "github.com/deckarep/golang-set"
)

// UserSubroutine is a subroutine compiled from source: the main program or
// a function.
type UserSubroutine struct {
	Name       string
	Parent     *UserSubroutine
	Parameters []*Var
	Locals     []*Var
	Tuples     []*Tuple

	level int

	// callees keeps first-call order for dumping; calleeSet answers
	// membership.
	callees         []*UserSubroutine
	calleeSet       mapset.Set
	externalCallees mapset.Set
}

// NewUserSubroutine creates an empty subroutine nested in parent, which is
// nil for the main program.
func NewUserSubroutine(name string, parent *UserSubroutine) *UserSubroutine {
	level := 0
	if parent != nil {
		level = parent.level + 1
	}
	return &UserSubroutine{
		Name:            name,
		Parent:          parent,
		level:           level,
		calleeSet:       mapset.NewThreadUnsafeSet(),
		externalCallees: mapset.NewThreadUnsafeSet(),
	}
}

func (*UserSubroutine) operand() {}

func (s *UserSubroutine) String() string { return s.Name }

// Level is the static nesting depth, 0 for the main program.
func (s *UserSubroutine) Level() int { return s.level }

func (s *UserSubroutine) AddParameter(v *Var) { s.Parameters = append(s.Parameters, v) }

func (s *UserSubroutine) AddLocal(v *Var) { s.Locals = append(s.Locals, v) }

// Emit appends a tuple and records any subroutine it refers to as a callee.
func (s *UserSubroutine) Emit(op Op, args ...Operand) *Tuple {
	t := NewTuple(op, args...)
	s.Tuples = append(s.Tuples, t)
	for _, arg := range args {
		switch callee := arg.(type) {
		case *UserSubroutine:
			if !s.calleeSet.Contains(callee) {
				s.calleeSet.Add(callee)
				s.callees = append(s.callees, callee)
			}
		case *ExternalSubroutine:
			s.externalCallees.Add(callee)
		}
	}
	return t
}

// Callees lists the user subroutines s calls directly, in order of first
// call.
func (s *UserSubroutine) Callees() []*UserSubroutine {
	return s.callees
}

// CallsExternal reports whether s calls the runtime subroutine e.
func (s *UserSubroutine) CallsExternal(e *ExternalSubroutine) bool {
	return s.externalCallees.Contains(e)
}

// ExternalCallees returns the runtime subroutines s calls.
func (s *UserSubroutine) ExternalCallees() []*ExternalSubroutine {
	var list []*ExternalSubroutine
	for _, e := range s.externalCallees.ToSlice() {
		list = append(list, e.(*ExternalSubroutine))
	}
	return list
}

// Reachable returns s followed by every subroutine reachable from it
// through calls, each once, depth first.
func (s *UserSubroutine) Reachable() []*UserSubroutine {
	var order []*UserSubroutine
	visited := mapset.NewThreadUnsafeSet()
	var visit func(*UserSubroutine)
	visit = func(u *UserSubroutine) {
		if !visited.Add(u) {
			return
		}
		order = append(order, u)
		for _, callee := range u.callees {
			visit(callee)
		}
	}
	visit(s)
	return order
}

// ExternalSubroutine is a runtime entry point known only by name. It has no
// enclosing frame, so its level is always 0.
type ExternalSubroutine struct {
	Name string
}

func NewExternalSubroutine(name string) *ExternalSubroutine {
	return &ExternalSubroutine{Name: name}
}

func (*ExternalSubroutine) operand() {}

func (e *ExternalSubroutine) String() string { return "__" + e.Name }

func (e *ExternalSubroutine) Level() int { return 0 }
