package ast

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set"
)

// Traverse visits every entity reachable from root depth-first, following
// owned and reference edges. Each entity is visited once.
func Traverse(root Entity, visit func(Entity)) {
	traverse(root, mapset.NewThreadUnsafeSet(), visit)
}

func traverse(e Entity, seen mapset.Set, visit func(Entity)) {
	if e == nil || seen.Contains(e) {
		return
	}
	seen.Add(e)
	visit(e)
	for _, edge := range e.Edges() {
		traverse(edge.Target, seen, visit)
	}
}

// TreePrinter renders the owned structure of the graph as an indented tree.
// References print as #id so shared entities appear once.
type TreePrinter struct {
	arena  *Arena
	output strings.Builder
}

func NewTreePrinter(arena *Arena) *TreePrinter {
	return &TreePrinter{arena: arena}
}

// Dump renders root and everything it owns.
func Dump(root Entity, arena *Arena) string {
	p := NewTreePrinter(arena)
	p.print(root, "", 0)
	return p.output.String()
}

func (p *TreePrinter) print(e Entity, prefix string, depth int) {
	indent := strings.Repeat("  ", depth)
	p.output.WriteString(fmt.Sprintf("%s%s#%d (%s)", indent, prefix, p.arena.ID(e), e.Kind()))
	for _, attr := range e.Attributes() {
		p.output.WriteString(fmt.Sprintf(" %s=%s", attr.Name, attr.Value))
	}

	edges := e.Edges()
	for _, edge := range edges {
		if edge.Ref {
			p.output.WriteString(fmt.Sprintf(" %s=#%d", edge.Name, p.arena.ID(edge.Target)))
		}
	}
	p.output.WriteString("\n")

	for _, edge := range edges {
		if !edge.Ref {
			p.print(edge.Target, edge.Name+": ", depth+1)
		}
	}
}

// DumpEntities lists every reachable entity, one line each, in traversal
// order. Unlike Dump, it also descends into resolved types, referents and
// symbol tables.
func DumpEntities(root Entity, arena *Arena) string {
	var b strings.Builder
	Traverse(root, func(e Entity) {
		b.WriteString(fmt.Sprintf("#%d (%s)", arena.ID(e), e.Kind()))
		for _, attr := range e.Attributes() {
			b.WriteString(fmt.Sprintf(" %s=%s", attr.Name, attr.Value))
		}
		for _, edge := range e.Edges() {
			b.WriteString(fmt.Sprintf(" %s=#%d", edge.Name, arena.ID(edge.Target)))
		}
		b.WriteString("\n")
	})
	return b.String()
}
