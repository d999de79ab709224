package optimizer

import (
	"github.com/tliron/commonlog"

	"carlos/internal/ast"
)

// Optimizer rewrites an analyzed program in place. Every statement rule
// either keeps the statement, replaces it, or returns nil meaning the
// statement is dead and its block drops it.
type Optimizer struct {
	logger   commonlog.Logger
	rewrites int
}

func New() *Optimizer {
	return &Optimizer{logger: commonlog.GetLogger("carlos.optimizer")}
}

// Optimize runs the tree optimizer over the whole program and returns the
// number of rewrites it made. A second run on its own output makes none.
func (o *Optimizer) Optimize(program *ast.Program) int {
	o.rewrites = 0
	o.Block(program.Block)
	o.logger.Debugf("tree optimizer made %d rewrites", o.rewrites)
	return o.rewrites
}

// Block rewrites each statement of b in order and deletes the dead ones.
func (o *Optimizer) Block(b *ast.Block) {
	if b == nil {
		return
	}
	kept := b.Statements[:0]
	for _, s := range b.Statements {
		if s = o.Statement(s); s != nil {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(b.Statements); i++ {
		b.Statements[i] = nil
	}
	b.Statements = kept
}

// Statement returns s, its replacement, or nil when s is dead.
func (o *Optimizer) Statement(s ast.Statement) ast.Statement {
	switch s := s.(type) {
	case *ast.Declaration:
		o.declaration(s.Declarable)
		return s

	case *ast.AssignmentStatement:
		s.Left = o.variable(s.Left)
		s.Right = o.Expression(s.Right)
		if ast.SameVariable(s.Left, s.Right) {
			return o.deleted()
		}
		return s

	case *ast.IncrementStatement:
		s.Target = o.variable(s.Target)
		return s

	case *ast.CallStatement:
		o.expressions(s.Args)
		return s

	case *ast.BreakStatement:
		return s

	case *ast.ReturnStatement:
		if s.Value != nil {
			s.Value = o.Expression(s.Value)
		}
		return s

	case *ast.PrintStatement:
		o.expressions(s.Args)
		return s

	case *ast.IfStatement:
		return o.ifStatement(s)

	case *ast.WhileStatement:
		s.Condition = o.Expression(s.Condition)
		if ast.IsFalse(s.Condition) {
			return o.deleted()
		}
		o.Block(s.Body)
		return s

	case *ast.ClassicForStatement:
		return o.forStatement(s)
	}
	return s
}

func (o *Optimizer) deleted() ast.Statement {
	o.rewrites++
	return nil
}

func (o *Optimizer) declaration(d ast.Declarable) {
	switch d := d.(type) {
	case *ast.Variable:
		if d.Initializer != nil {
			d.Initializer = o.Expression(d.Initializer)
		}
	case *ast.Function:
		o.Block(d.Body)
	}
}

// ifStatement drops statically false cases, and everything after the first
// statically true case. With no case left and no else the statement is dead.
func (o *Optimizer) ifStatement(s *ast.IfStatement) ast.Statement {
	var cases []*ast.Case
	for i, c := range s.Cases {
		c.Condition = o.Expression(c.Condition)
		if ast.IsFalse(c.Condition) {
			o.rewrites++
			continue
		}
		o.Block(c.Body)
		cases = append(cases, c)
		if ast.IsTrue(c.Condition) {
			if i < len(s.Cases)-1 || s.Else != nil {
				o.rewrites++
			}
			s.Else = nil
			break
		}
	}
	s.Cases = cases

	if s.Else != nil {
		o.Block(s.Else)
	}
	if len(s.Cases) == 0 && s.Else == nil {
		return o.deleted()
	}
	return s
}

// forStatement deletes a loop that can never run its body. When the loop
// declares an index variable its initializer still runs, so the statement
// is kept with an empty body and no step.
func (o *Optimizer) forStatement(s *ast.ClassicForStatement) ast.Statement {
	if s.Init != nil {
		s.Init = o.Expression(s.Init)
		if s.IndexVariable != nil {
			s.IndexVariable.Initializer = s.Init
		}
	}
	if s.Test != nil {
		s.Test = o.Expression(s.Test)
	}

	if ast.IsFalse(s.Test) {
		if !s.HasInit() {
			return o.deleted()
		}
		if len(s.Body.Statements) > 0 || s.Step != nil {
			o.rewrites++
		}
		s.Body.Statements = nil
		s.Step = nil
		return s
	}

	if s.Step != nil {
		s.Step = o.Statement(s.Step)
	}
	o.Block(s.Body)
	return s
}
