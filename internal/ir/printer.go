package ir

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set"
)

// Printer renders a subroutine graph as text
type Printer struct {
	output  strings.Builder
	strings []*StringConstant
	seen    mapset.Set
}

// NewPrinter creates a new IR printer
func NewPrinter() *Printer {
	return &Printer{seen: mapset.NewThreadUnsafeSet()}
}

// Print dumps main and every subroutine reachable from it, each once,
// followed by the string constants they refer to.
func Print(main *UserSubroutine) string {
	p := NewPrinter()
	for _, s := range main.Reachable() {
		p.printSubroutine(s)
	}
	p.printStrings()
	return p.output.String()
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printSubroutine(s *UserSubroutine) {
	parent := "none"
	if s.Parent != nil {
		parent = s.Parent.Name
	}
	p.writeLine("%s:", s.Name)
	p.writeLine("\t;level=%d parent=%s params=%s locals=%s", s.Level(), parent, varList(s.Parameters), varList(s.Locals))

	for _, t := range s.Tuples {
		p.writeLine("%s", t)
		for _, o := range []Operand{t.X, t.Y, t.Z} {
			if sc, ok := o.(*StringConstant); ok && p.seen.Add(sc) {
				p.strings = append(p.strings, sc)
			}
		}
	}
}

func (p *Printer) printStrings() {
	for _, s := range p.strings {
		p.writeLine("%s: %s", s.Name, s.Details())
	}
}

func varList(vars []*Var) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}
