package ast

// Arena numbers the entities of one compilation. Numbers are handed out
// sequentially on first request, so two compilations never share identities.
type Arena struct {
	ids   map[Entity]int
	order []Entity
}

func NewArena() *Arena {
	return &Arena{ids: make(map[Entity]int)}
}

// ID returns the number of e, assigning the next free one if needed.
func (a *Arena) ID(e Entity) int {
	if id, ok := a.ids[e]; ok {
		return id
	}
	a.order = append(a.order, e)
	id := len(a.order)
	a.ids[e] = id
	return id
}

// Len is the number of entities numbered so far.
func (a *Arena) Len() int { return len(a.order) }

// Entity returns the entity numbered id, or nil.
func (a *Arena) Entity(id int) Entity {
	if id < 1 || id > len(a.order) {
		return nil
	}
	return a.order[id-1]
}
