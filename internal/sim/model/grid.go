package model

// Grid is the spatial object store. Entities keep their own position; the
// grid tracks membership and insertion order so iteration is deterministic.
type Grid struct {
	byID  map[string]*Entity
	order []string
}

func NewGrid() *Grid {
	return &Grid{byID: map[string]*Entity{}}
}

func (g *Grid) Add(e *Entity) {
	if e == nil || e.ID == "" {
		return
	}
	if _, ok := g.byID[e.ID]; ok {
		return
	}
	g.byID[e.ID] = e
	g.order = append(g.order, e.ID)
}

func (g *Grid) Remove(id string) {
	if _, ok := g.byID[id]; !ok {
		return
	}
	delete(g.byID, id)
	for i, other := range g.order {
		if other == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func (g *Grid) Get(id string) *Entity { return g.byID[id] }

func (g *Grid) Relocate(id string, pos Vec2i) {
	if e := g.byID[id]; e != nil {
		e.Pos = pos
	}
}

// All returns live entities in insertion order.
func (g *Grid) All() []*Entity {
	out := make([]*Entity, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.byID[id])
	}
	return out
}

// Within returns entities with Chebyshev distance <= r from pos, in
// insertion order.
func (g *Grid) Within(pos Vec2i, r int) []*Entity {
	var out []*Entity
	for _, id := range g.order {
		e := g.byID[id]
		if Chebyshev(e.Pos, pos) <= r {
			out = append(out, e)
		}
	}
	return out
}
