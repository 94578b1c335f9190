package behavior

import "gridvale.ai/internal/sim/model"

// Counter is a stable live-count handle for one tag. It reflects every
// add/remove without the caller re-querying the index.
type Counter struct {
	n int
}

func (c *Counter) Value() int {
	if c == nil {
		return 0
	}
	return c.n
}

// TagLifecycle is the per-tag effect lists fired when an object gains or
// loses the tag.
type TagLifecycle struct {
	OnAdd    []Mutation
	OnRemove []Mutation
}

// TagIndex maps tag ids to the live ordered set of entities carrying them.
// It is the single source of truth for tag membership changes: Add/Remove
// update the entity's own tag set, the reverse index, the counter handle,
// and fire the tag's lifecycle effects.
type TagIndex struct {
	objects   map[string][]*model.Entity
	counters  map[string]*Counter
	lifecycle map[string]*TagLifecycle
}

func NewTagIndex() *TagIndex {
	return &TagIndex{
		objects:   map[string][]*model.Entity{},
		counters:  map[string]*Counter{},
		lifecycle: map[string]*TagLifecycle{},
	}
}

func (ix *TagIndex) SetLifecycle(tag string, lc *TagLifecycle) {
	if tag != "" && lc != nil {
		ix.lifecycle[tag] = lc
	}
}

// Count returns the stable counter handle for tag, creating it on first
// use.
func (ix *TagIndex) Count(tag string) *Counter {
	c := ix.counters[tag]
	if c == nil {
		c = &Counter{n: len(ix.objects[tag])}
		ix.counters[tag] = c
	}
	return c
}

func (ix *TagIndex) CountValue(tag string) int { return ix.Count(tag).Value() }

// ObjectsWith returns the live entities carrying tag in add order. The
// slice is the index's own; callers that mutate membership while iterating
// must copy it first.
func (ix *TagIndex) ObjectsWith(tag string) []*model.Entity {
	return ix.objects[tag]
}

// Add tags e. Idempotent: adding a tag the entity already carries changes
// nothing and fires no lifecycle effects. A nil entity is a safe no-op.
func (ix *TagIndex) Add(e *model.Entity, tag string, ctx *Context) {
	if e == nil || tag == "" || !e.AddTag(tag) {
		return
	}
	ix.objects[tag] = append(ix.objects[tag], e)
	ix.Count(tag).n++
	ix.fire(tag, e, ctx, true)
}

// Remove untags e. Removing a tag the entity never had is a safe no-op.
func (ix *TagIndex) Remove(e *model.Entity, tag string, ctx *Context) {
	if e == nil || tag == "" || !e.RemoveTag(tag) {
		return
	}
	objs := ix.objects[tag]
	for i, o := range objs {
		if o == e {
			ix.objects[tag] = append(objs[:i], objs[i+1:]...)
			break
		}
	}
	ix.Count(tag).n--
	ix.fire(tag, e, ctx, false)
}

// RemoveAll strips every tag from e, firing lifecycle effects per tag.
// Used when an entity is destroyed.
func (ix *TagIndex) RemoveAll(e *model.Entity, ctx *Context) {
	if e == nil {
		return
	}
	tags := append([]string(nil), e.Tags()...)
	for _, tag := range tags {
		ix.Remove(e, tag, ctx)
	}
}

func (ix *TagIndex) fire(tag string, e *model.Entity, ctx *Context, added bool) {
	if ctx == nil || ctx.SuppressTriggers {
		return
	}
	lc := ix.lifecycle[tag]
	if lc == nil {
		return
	}
	effects := lc.OnRemove
	if added {
		effects = lc.OnAdd
	}
	if len(effects) == 0 {
		return
	}
	// Lifecycle effects run against the tagged object; the triggering
	// actor carries over so transfer-style effects keep their source.
	ectx := ctx.withPair(ctx.Actor, e)
	for _, m := range effects {
		m.Apply(ectx)
	}
}
