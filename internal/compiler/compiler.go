// Package compiler runs the Carlos phases in order and stops at the first
// phase that reports errors.
package compiler

import (
	"github.com/tliron/commonlog"

	"carlos/internal/ast"
	"carlos/internal/config"
	"carlos/internal/errors"
	"carlos/internal/ir"
	"carlos/internal/optimizer"
	"carlos/internal/parser"
	"carlos/internal/semantic"
)

// Phase is one step of the pipeline.
type Phase int

const (
	PhaseSyntax Phase = iota
	PhaseSemantics
	PhaseTreeOptimization
	PhaseTranslation
	PhaseIROptimization
)

func (p Phase) String() string {
	switch p {
	case PhaseSyntax:
		return "syntax"
	case PhaseSemantics:
		return "semantics"
	case PhaseTreeOptimization:
		return "tree optimization"
	case PhaseTranslation:
		return "translation"
	case PhaseIROptimization:
		return "IR optimization"
	}
	return "unknown"
}

// SubroutineSize is the tuple count of one subroutine before and after IR
// optimization.
type SubroutineSize struct {
	Name   string
	Level  int
	Before int
	After  int
}

// Result is everything one compilation produced. Later fields stay empty
// when an earlier phase failed or was not requested.
type Result struct {
	Program     *ast.Program
	ParseErrors []parser.ParseError
	Errors      []errors.CompilerError

	// Completed is the last phase that ran to completion.
	Completed Phase

	TreeRewrites int
	Main         *ir.UserSubroutine
	Sizes        []SubroutineSize
	IRStats      ir.Stats
}

// Failed reports whether syntax or semantic errors stopped the pipeline.
func (r *Result) Failed() bool {
	return len(r.ParseErrors) > 0 || countErrors(r.Errors) > 0
}

func countErrors(errs []errors.CompilerError) int {
	n := 0
	for _, e := range errs {
		if e.Level == errors.Error {
			n++
		}
	}
	return n
}

type Compiler struct {
	config config.Config
	logger commonlog.Logger
}

func New(cfg config.Config) *Compiler {
	return &Compiler{config: cfg, logger: commonlog.GetLogger("carlos.compiler")}
}

// Compile runs the phases up to and including until. Diagnostics are part of
// the result; the error return is reserved for internal failures.
func (c *Compiler) Compile(filename, source string, until Phase) (*Result, error) {
	result := &Result{}

	c.logger.Debugf("%s: parsing", filename)
	program, parseErrors := parser.ParseSource(filename, source)
	result.Program = program
	result.ParseErrors = parseErrors
	if len(parseErrors) > 0 || program == nil {
		c.logger.Infof("%s: %d syntax errors", filename, len(parseErrors))
		return result, nil
	}
	result.Completed = PhaseSyntax
	if until == PhaseSyntax {
		return result, nil
	}

	log := errors.NewLog()
	result.Errors = semantic.NewAnalyzer(log).Analyze(program)
	if log.ErrorCount() > 0 {
		c.logger.Infof("%s: %d semantic errors", filename, log.ErrorCount())
		return result, nil
	}
	result.Completed = PhaseSemantics
	if until == PhaseSemantics {
		return result, nil
	}

	if c.config.Optimizer.Tree {
		result.TreeRewrites = optimizer.New().Optimize(program)
		c.logger.Debugf("%s: %d tree rewrites", filename, result.TreeRewrites)
	}
	result.Completed = PhaseTreeOptimization
	if until == PhaseTreeOptimization {
		return result, nil
	}

	main, err := ir.NewBuilder(c.config.Target.WordSize, c.config.Target.DoubleSize).Translate(program)
	if err != nil {
		return result, err
	}
	result.Main = main
	result.Completed = PhaseTranslation

	before := make(map[*ir.UserSubroutine]int)
	for _, s := range main.Reachable() {
		before[s] = len(s.Tuples)
	}
	if until == PhaseTranslation {
		result.Sizes = sizes(main, before)
		return result, nil
	}

	if c.config.Optimizer.IR {
		result.IRStats = ir.Optimize(main)
		c.logger.Debugf("%s: %d IR rewrites", filename, result.IRStats.Total())
	}
	result.Sizes = sizes(main, before)
	result.Completed = PhaseIROptimization
	return result, nil
}

func sizes(main *ir.UserSubroutine, before map[*ir.UserSubroutine]int) []SubroutineSize {
	var list []SubroutineSize
	for _, s := range main.Reachable() {
		list = append(list, SubroutineSize{
			Name:   s.Name,
			Level:  s.Level(),
			Before: before[s],
			After:  len(s.Tuples),
		})
	}
	return list
}
