package model

import "strconv"

// Group is a collective: not a grid entity, but an inventory holder that
// entities can be aligned to.
type Group struct {
	ID        int
	Name      string
	Inventory *Inventory
}

func (g *Group) HolderID() string { return "group:" + strconv.Itoa(g.ID) }
func (g *Group) Inv() *Inventory  { return g.Inventory }

type Groups struct {
	byID map[int]*Group
}

func NewGroups() *Groups {
	return &Groups{byID: map[int]*Group{}}
}

func (r *Groups) Put(g *Group) {
	if g != nil {
		r.byID[g.ID] = g
	}
}

// Get returns nil for unknown ids; absent collectives are a tolerated
// lookup outcome, not an error.
func (r *Groups) Get(id int) *Group {
	if r == nil {
		return nil
	}
	return r.byID[id]
}
