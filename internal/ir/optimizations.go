package ir

// This file contains the IR optimization passes. They run after translation
// and rewrite each subroutine's tuples in place until nothing changes.

import (
	"sort"

	mapset "github.com/deckarep/golang-set"
	"github.com/tliron/commonlog"
)

// OptimizationPass represents a single optimization transformation
type OptimizationPass interface {
	Name() string
	Description() string
	Apply(s *UserSubroutine) bool // Returns true if changes were made
}

// TuplePass is a pass that rewrites the tuple at one index at a time. The
// pipeline applies every TuplePass to a tuple before moving to the next one.
type TuplePass interface {
	OptimizationPass
	ApplyAt(s *UserSubroutine, i int) bool
}

// Stats counts, per pass name, how often the pass changed something.
type Stats map[string]int

// Total is the number of changes made by all passes.
func (s Stats) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Names returns the passes that changed something, sorted.
func (s Stats) Names() []string {
	var names []string
	for name, n := range s {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// OptimizationPipeline manages the sequence of optimization passes
type OptimizationPipeline struct {
	tuplePasses      []TuplePass
	subroutinePasses []OptimizationPass
	logger           commonlog.Logger
}

// NewOptimizationPipeline creates a new optimization pipeline with default passes
func NewOptimizationPipeline() *OptimizationPipeline {
	pipeline := &OptimizationPipeline{logger: commonlog.GetLogger("carlos.ir.optimizer")}

	// Per-tuple passes, in the order they are tried on each tuple
	pipeline.AddPass(&ConstantFolding{})
	pipeline.AddPass(&StrengthReduction{})
	pipeline.AddPass(&ConditionalJumpFusion{})
	pipeline.AddPass(&CopyPropagation{})

	// Whole-subroutine cleanups
	pipeline.AddPass(&DeadCodeElimination{})
	pipeline.AddPass(&UnreachableCodeElimination{})

	return pipeline
}

// AddPass adds an optimization pass to the pipeline. Tuple passes always run
// before the whole-subroutine passes of the same round.
func (p *OptimizationPipeline) AddPass(pass OptimizationPass) {
	if tp, ok := pass.(TuplePass); ok {
		p.tuplePasses = append(p.tuplePasses, tp)
		return
	}
	p.subroutinePasses = append(p.subroutinePasses, pass)
}

// Run optimizes main and every subroutine it reaches through calls.
func (p *OptimizationPipeline) Run(main *UserSubroutine) Stats {
	stats := Stats{}
	p.run(main, mapset.NewThreadUnsafeSet(), stats)
	p.logger.Debugf("%d rewrites", stats.Total())
	return stats
}

func (p *OptimizationPipeline) run(s *UserSubroutine, visited mapset.Set, stats Stats) {
	visited.Add(s)

	rounds := 0
	for p.round(s, stats) {
		rounds++
	}
	p.logger.Debugf("%s: converged after %d rounds, %d tuples", s.Name, rounds, len(s.Tuples))

	for _, callee := range s.Callees() {
		if !visited.Contains(callee) {
			p.run(callee, visited, stats)
		}
	}
}

// round makes one pass over s and reports whether anything changed.
func (p *OptimizationPipeline) round(s *UserSubroutine, stats Stats) bool {
	changed := false
	for i := 0; i < len(s.Tuples); i++ {
		for _, pass := range p.tuplePasses {
			if i >= len(s.Tuples) {
				break
			}
			if pass.ApplyAt(s, i) {
				stats[pass.Name()]++
				changed = true
			}
		}
	}
	for _, pass := range p.subroutinePasses {
		if pass.Apply(s) {
			stats[pass.Name()]++
			changed = true
		}
	}
	return changed
}

// Optimize runs the default pipeline over main.
func Optimize(main *UserSubroutine) Stats {
	return NewOptimizationPipeline().Run(main)
}

// applyEach is Apply for a tuple pass used on its own.
func applyEach(s *UserSubroutine, pass TuplePass) bool {
	changed := false
	for i := 0; i < len(s.Tuples); i++ {
		if pass.ApplyAt(s, i) {
			changed = true
		}
	}
	return changed
}

func removeAt(s *UserSubroutine, i int) {
	s.Tuples = append(s.Tuples[:i], s.Tuples[i+1:]...)
}

func isZero(o Operand) bool {
	switch o := o.(type) {
	case Int:
		return o == 0
	case Real:
		return o == 0
	}
	return false
}

func isOne(o Operand) bool {
	switch o := o.(type) {
	case Int:
		return o == 1
	case Real:
		return o == 1
	}
	return false
}

// zeroFor is the literal zero of the kind stored in o.
func zeroFor(o Operand) Operand {
	if isFloat(o) {
		return Real(0)
	}
	return Int(0)
}

func truth(b bool) Int {
	if b {
		return 1
	}
	return 0
}

// ConstantFolding replaces an operation on literals with a copy of its
// result.
//
// Example: (SUB, 5, 2, t0) ==> (COPY, 3, t0)
type ConstantFolding struct{}

func (cf *ConstantFolding) Name() string {
	return "fold-constants"
}

func (cf *ConstantFolding) Description() string {
	return "Evaluates operations whose operands are all literals"
}

func (cf *ConstantFolding) Apply(s *UserSubroutine) bool {
	return applyEach(s, cf)
}

func (cf *ConstantFolding) ApplyAt(s *UserSubroutine, i int) bool {
	t := s.Tuples[i]
	var value Operand
	switch t.Op {
	case NOT, NEG, COMP, TO_FLOAT:
		value = foldUnary(t.Op, t.X)
	case ADD, SUB, MUL, DIV, MOD, SHL, SHR, SAR, AND, OR, XOR, LT, LE, EQ, NE, GE, GT:
		value = foldBinary(t.Op, t.X, t.Y)
	}
	if value == nil {
		return false
	}
	t.Set(COPY, value, t.Output())
	return true
}

func foldUnary(op Op, x Operand) Operand {
	switch x := x.(type) {
	case Int:
		switch op {
		case NOT:
			return truth(x == 0)
		case NEG:
			return -x
		case COMP:
			return ^x
		case TO_FLOAT:
			return Real(x)
		}
	case Real:
		if op == NEG {
			return -x
		}
	}
	return nil
}

func foldBinary(op Op, x, y Operand) Operand {
	switch x := x.(type) {
	case Int:
		if y, ok := y.(Int); ok {
			return foldInts(op, x, y)
		}
	case Real:
		if y, ok := y.(Real); ok {
			return foldReals(op, x, y)
		}
	}
	return nil
}

// foldInts computes in 32 bits with wraparound. Division by zero and shift
// counts outside 0..31 are left for run time.
func foldInts(op Op, x, y Int) Operand {
	switch op {
	case ADD:
		return x + y
	case SUB:
		return x - y
	case MUL:
		return x * y
	case DIV, MOD:
		if y == 0 {
			return nil
		}
		if op == DIV {
			return x / y
		}
		return x % y
	case SHL, SHR, SAR:
		if y < 0 || y > 31 {
			return nil
		}
		if op == SHL {
			return x << uint(y)
		}
		return x >> uint(y)
	case AND:
		return x & y
	case OR:
		return x | y
	case XOR:
		return x ^ y
	}
	return compare(op, float64(x), float64(y))
}

func foldReals(op Op, x, y Real) Operand {
	switch op {
	case ADD:
		return x + y
	case SUB:
		return x - y
	case MUL:
		return x * y
	case DIV:
		if y == 0 {
			return nil
		}
		return x / y
	}
	return compare(op, float64(x), float64(y))
}

func compare(op Op, x, y float64) Operand {
	switch op {
	case LT:
		return truth(x < y)
	case LE:
		return truth(x <= y)
	case EQ:
		return truth(x == y)
	case NE:
		return truth(x != y)
	case GE:
		return truth(x >= y)
	case GT:
		return truth(x > y)
	}
	return nil
}

// StrengthReduction rewrites operations with a literal 0 or 1 operand into
// copies, and conditional jumps on a known value into unconditional ones.
type StrengthReduction struct{}

func (sr *StrengthReduction) Name() string {
	return "reduce-strength"
}

func (sr *StrengthReduction) Description() string {
	return "Rewrites algebraic identities and decided jumps"
}

func (sr *StrengthReduction) Apply(s *UserSubroutine) bool {
	return applyEach(s, sr)
}

func (sr *StrengthReduction) ApplyAt(s *UserSubroutine, i int) bool {
	t := s.Tuples[i]
	copyOf := func(x Operand) bool {
		t.Set(COPY, x, t.Z)
		return true
	}

	switch t.Op {
	case ADD:
		switch {
		case isZero(t.Y):
			return copyOf(t.X)
		case isZero(t.X):
			return copyOf(t.Y)
		}
	case SUB:
		switch {
		case isZero(t.Y):
			return copyOf(t.X)
		case t.X == t.Y && !IsLiteral(t.X):
			return copyOf(zeroFor(t.Z))
		}
	case MUL:
		switch {
		case isZero(t.X) || isZero(t.Y):
			return copyOf(zeroFor(t.Z))
		case isOne(t.Y):
			return copyOf(t.X)
		case isOne(t.X):
			return copyOf(t.Y)
		}
	case DIV:
		if isOne(t.Y) {
			return copyOf(t.X)
		}
	case OR, XOR:
		switch {
		case isZero(t.Y):
			return copyOf(t.X)
		case isZero(t.X):
			return copyOf(t.Y)
		}
	case SHL, SHR, SAR:
		if isZero(t.Y) {
			return copyOf(t.X)
		}
	case AND:
		if isZero(t.X) || isZero(t.Y) {
			return copyOf(Int(0))
		}
	case COS:
		if isZero(t.X) {
			t.Set(COPY, Real(1), t.Y)
			return true
		}
	case JZERO:
		if x, ok := t.X.(Int); ok && x == 0 {
			t.Set(JUMP, t.Y)
			return true
		}
	case JNZERO:
		if x, ok := t.X.(Int); ok && x != 0 {
			t.Set(JUMP, t.Y)
			return true
		}
	}
	return false
}

// ConditionalJumpFusion merges a comparison with the zero test of its
// result that immediately follows it.
//
// Example: [(GT, x, y, t4), (JZERO, t4, L2)] ==> (JLE, x, y, L2)
type ConditionalJumpFusion struct{}

func (cj *ConditionalJumpFusion) Name() string {
	return "fuse-conditional-jumps"
}

func (cj *ConditionalJumpFusion) Description() string {
	return "Turns a comparison followed by a zero test into one relational jump"
}

func (cj *ConditionalJumpFusion) Apply(s *UserSubroutine) bool {
	return applyEach(s, cj)
}

func (cj *ConditionalJumpFusion) ApplyAt(s *UserSubroutine, i int) bool {
	t := s.Tuples[i]
	if !t.Op.IsRelational() || i+1 >= len(s.Tuples) {
		return false
	}
	next := s.Tuples[i+1]
	if next.X != t.Z {
		return false
	}

	var jump Op
	switch next.Op {
	case JZERO:
		jump = jumpWhenFalse[t.Op]
	case JNZERO:
		jump = jumpWhenTrue[t.Op]
	default:
		return false
	}
	t.Set(jump, t.X, t.Y, next.Y)
	removeAt(s, i+1)
	return true
}

// CopyPropagation substitutes the source of a copy for its destination in
// the tuples that follow, up to a label, a call, or a write to either
// operand. Memory aliasing is not tracked.
type CopyPropagation struct{}

func (cp *CopyPropagation) Name() string {
	return "propagate-copies"
}

func (cp *CopyPropagation) Description() string {
	return "Forwards copied values to later reads within straight-line code"
}

func (cp *CopyPropagation) Apply(s *UserSubroutine) bool {
	return applyEach(s, cp)
}

func (cp *CopyPropagation) ApplyAt(s *UserSubroutine, i int) bool {
	t := s.Tuples[i]
	if t.Op != COPY || t.X == t.Y {
		return false
	}
	source, dest := t.X, t.Y

	changed := false
	for _, next := range s.Tuples[i+1:] {
		// A callee may assign variables of enclosing subroutines.
		if next.Op == LABEL || next.Op == CALLP || next.Op == CALLF {
			break
		}
		if next.WritesTo(source) || next.WritesTo(dest) {
			break
		}
		if next.Replace(dest, source) {
			changed = true
		}
	}
	return changed
}

// DeadCodeElimination removes tuples that have no effect:
//
//	(COPY, x, x)
//	(ASSERT_POSITIVE, x) where x is a non-negative literal
//	(NULL_CHECK, x) where x is a nonzero literal
//	(BOUND, x, y, z) where all are literals and y <= x < z
//	(JZERO, x, L) where x != 0 and (JNZERO, x, L) where x == 0
//	[(JUMP, L), (LABEL, L)] ==> (LABEL, L)
//	(ADD, x, 0, x), (MUL, x, 1, x), (DIV, x, 1, x) and similar
type DeadCodeElimination struct{}

func (dce *DeadCodeElimination) Name() string {
	return "eliminate-dead-code"
}

func (dce *DeadCodeElimination) Description() string {
	return "Removes tuples that have no effect"
}

func (dce *DeadCodeElimination) Apply(s *UserSubroutine) bool {
	kept := make([]*Tuple, 0, len(s.Tuples))
	for i, t := range s.Tuples {
		if dce.isIdentity(t) {
			t.Set(NO_OP)
		}
		if dce.isDead(t) {
			continue
		}
		if t.Op == JUMP && i+1 < len(s.Tuples) {
			next := s.Tuples[i+1]
			if next.Op == LABEL && next.X == t.X {
				continue
			}
		}
		kept = append(kept, t)
	}

	changed := len(kept) != len(s.Tuples)
	s.Tuples = kept
	return changed
}

func (dce *DeadCodeElimination) isDead(t *Tuple) bool {
	switch t.Op {
	case NO_OP:
		return true
	case COPY:
		return t.X == t.Y
	case ASSERT_POSITIVE:
		x, ok := t.X.(Int)
		return ok && x >= 0
	case NULL_CHECK:
		x, ok := t.X.(Int)
		return ok && x != 0
	case JZERO:
		x, ok := t.X.(Int)
		return ok && x != 0
	case JNZERO:
		x, ok := t.X.(Int)
		return ok && x == 0
	case BOUND:
		x, ok1 := t.X.(Int)
		lo, ok2 := t.Y.(Int)
		hi, ok3 := t.Z.(Int)
		return ok1 && ok2 && ok3 && lo <= x && x < hi
	}
	return false
}

// isIdentity reports whether t stores back an operand unchanged.
func (dce *DeadCodeElimination) isIdentity(t *Tuple) bool {
	switch t.Op {
	case ADD:
		return (isZero(t.X) && t.Y == t.Z) || (isZero(t.Y) && t.X == t.Z)
	case MUL:
		return (isOne(t.X) && t.Y == t.Z) || (isOne(t.Y) && t.X == t.Z)
	case DIV:
		return isOne(t.Y) && t.X == t.Z
	}
	return false
}

// UnreachableCodeElimination removes the tuples between an unconditional
// transfer of control (RETP, RETF or JUMP) and the next label.
type UnreachableCodeElimination struct{}

func (uce *UnreachableCodeElimination) Name() string {
	return "eliminate-unreachable-code"
}

func (uce *UnreachableCodeElimination) Description() string {
	return "Removes code no jump can reach"
}

func (uce *UnreachableCodeElimination) Apply(s *UserSubroutine) bool {
	kept := make([]*Tuple, 0, len(s.Tuples))
	reachable := true
	for _, t := range s.Tuples {
		if t.Op == LABEL {
			reachable = true
		}
		if reachable {
			kept = append(kept, t)
		}
		if t.Op == RETP || t.Op == RETF || t.Op == JUMP {
			reachable = false
		}
	}

	changed := len(kept) != len(s.Tuples)
	s.Tuples = kept
	return changed
}
