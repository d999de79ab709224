package ir

import (
	"fmt"
)

// Name prefixes of generated symbols.
const (
	prefixIntVar     = "i"
	prefixRealVar    = "x"
	prefixTemporary  = "r"
	prefixRealTemp   = "f"
	prefixLabel      = "L"
	prefixString     = "s"
	prefixSubroutine = "p"
)

// NameGenerator hands out names of the form prefix+counter with one counter
// per prefix. Each translation owns its generator, so names restart at 0
// for every compilation.
type NameGenerator struct {
	counters map[string]int
}

func NewNameGenerator() *NameGenerator {
	return &NameGenerator{counters: make(map[string]int)}
}

// Next returns the next unused name for prefix.
func (g *NameGenerator) Next(prefix string) string {
	n := g.counters[prefix]
	g.counters[prefix] = n + 1
	return fmt.Sprintf("%s%d", prefix, n)
}
