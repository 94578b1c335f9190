package model

const NoGroup = -1

// Holder is anything that owns an inventory: grid entities and groups.
type Holder interface {
	HolderID() string
	Inv() *Inventory
}

// Entity is one live object on the grid. Tag membership lives here; the
// behavior layer's tag index keeps the reverse mapping and fires lifecycle
// effects, so callers outside that layer should not touch AddTag/RemoveTag
// directly.
type Entity struct {
	ID          string
	Pos         Vec2i
	Vibe        int
	GroupID     int
	FrozenUntil uint64

	Inventory *Inventory

	tags   []string
	tagSet map[string]struct{}
}

func NewEntity(id string, pos Vec2i, limits *Limits) *Entity {
	return &Entity{
		ID:        id,
		Pos:       pos,
		GroupID:   NoGroup,
		Inventory: NewInventory(limits),
		tagSet:    map[string]struct{}{},
	}
}

func (e *Entity) HolderID() string { return e.ID }
func (e *Entity) Inv() *Inventory  { return e.Inventory }

func (e *Entity) HasTag(tag string) bool {
	if e == nil {
		return false
	}
	_, ok := e.tagSet[tag]
	return ok
}

// Tags returns the entity's tags in add order. The slice is shared; callers
// must not mutate it.
func (e *Entity) Tags() []string {
	if e == nil {
		return nil
	}
	return e.tags
}

// AddTag records tag membership and reports whether state changed.
func (e *Entity) AddTag(tag string) bool {
	if e == nil || tag == "" || e.HasTag(tag) {
		return false
	}
	e.tagSet[tag] = struct{}{}
	e.tags = append(e.tags, tag)
	return true
}

// RemoveTag drops tag membership and reports whether state changed.
func (e *Entity) RemoveTag(tag string) bool {
	if e == nil || !e.HasTag(tag) {
		return false
	}
	delete(e.tagSet, tag)
	for i, t := range e.tags {
		if t == tag {
			e.tags = append(e.tags[:i], e.tags[i+1:]...)
			break
		}
	}
	return true
}
