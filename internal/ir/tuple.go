package ir

// Tuple is one three-address instruction: an operator and up to three
// operands. Unused operands are nil.
type Tuple struct {
	Op Op
	X  Operand
	Y  Operand
	Z  Operand
}

func NewTuple(op Op, args ...Operand) *Tuple {
	t := &Tuple{}
	t.Set(op, args...)
	return t
}

// Set overwrites the operator and operands of t in place.
func (t *Tuple) Set(op Op, args ...Operand) {
	t.Op = op
	t.X, t.Y, t.Z = nil, nil, nil
	if len(args) > 0 {
		t.X = args[0]
	}
	if len(args) > 1 {
		t.Y = args[1]
	}
	if len(args) > 2 {
		t.Z = args[2]
	}
}

func (t *Tuple) String() string {
	return t.Op.Format(t.X, t.Y, t.Z)
}

// Operand returns the operand at index i (0, 1 or 2).
func (t *Tuple) Operand(i int) Operand {
	switch i {
	case 0:
		return t.X
	case 1:
		return t.Y
	case 2:
		return t.Z
	}
	return nil
}

func (t *Tuple) setOperand(i int, o Operand) {
	switch i {
	case 0:
		t.X = o
	case 1:
		t.Y = o
	case 2:
		t.Z = o
	}
}

// Output returns the operand t writes to, or nil.
func (t *Tuple) Output() Operand {
	if i, ok := t.Op.OutputIndex(); ok {
		return t.Operand(i)
	}
	return nil
}

// WritesTo reports whether t stores into the operand a.
func (t *Tuple) WritesTo(a Operand) bool {
	return a != nil && t.Output() == a
}

// Replace substitutes with for every occurrence of old that t only reads.
// It reports whether anything was substituted.
func (t *Tuple) Replace(old, with Operand) bool {
	out, hasOutput := t.Op.OutputIndex()
	replaced := false
	for i := 0; i < 3; i++ {
		if hasOutput && i == out {
			continue
		}
		if o := t.Operand(i); o != nil && o == old {
			t.setOperand(i, with)
			replaced = true
		}
	}
	return replaced
}
