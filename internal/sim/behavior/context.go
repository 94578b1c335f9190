package behavior

import (
	"fmt"
	"math/rand"

	"gridvale.ai/internal/sim/model"
)

// EntityRef names a participant of an evaluation relative to the context.
type EntityRef int

const (
	RefActor EntityRef = iota
	RefTarget
	RefActorGroup
	RefTargetGroup
)

func ParseEntityRef(s string) (EntityRef, error) {
	switch s {
	case "", "target":
		return RefTarget, nil
	case "actor":
		return RefActor, nil
	case "actor_group":
		return RefActorGroup, nil
	case "target_group":
		return RefTargetGroup, nil
	}
	return 0, fmt.Errorf("unknown entity ref %q", s)
}

// Services bundles the shared collaborator handles every evaluation needs.
// One Services value lives for the whole simulation; contexts are cheap
// per-invocation views over it.
type Services struct {
	Tags    *TagIndex
	Grid    *model.Grid
	Stats   *model.Stats
	Groups  *model.Groups
	Queries *QuerySystem
	RNG     *rand.Rand
}

// NewContext builds a context with no actor/target bound yet.
func (s Services) NewContext(tick uint64) *Context {
	return &Context{
		Tick:    tick,
		Tags:    s.Tags,
		Grid:    s.Grid,
		Stats:   s.Stats,
		Groups:  s.Groups,
		Queries: s.Queries,
		RNG:     s.RNG,
	}
}

// Context is the per-invocation evaluation bundle. It is stack-scoped and
// never persisted; derived contexts are plain value copies with a different
// actor/target.
type Context struct {
	Actor  *model.Entity
	Target *model.Entity
	Tick   uint64

	Tags    *TagIndex
	Grid    *model.Grid
	Stats   *model.Stats
	Groups  *model.Groups
	Queries *QuerySystem
	RNG     *rand.Rand

	// Deferred batches same-resource deltas into one net update; nil means
	// every delta applies immediately.
	Deferred *DeltaAccumulator

	// SuppressTriggers stops tag lifecycle effect lists from firing,
	// bounding re-entrant cascades.
	SuppressTriggers bool
}

// Resolve maps a ref to a grid entity. Group refs resolve to nil: groups
// are not grid entities.
func (c *Context) Resolve(ref EntityRef) *model.Entity {
	switch ref {
	case RefActor:
		return c.Actor
	case RefTarget:
		return c.Target
	}
	return nil
}

// ResolveHolder maps a ref to an inventory holder, additionally resolving
// group refs to the owning entity's group. A missing group is a tolerated
// nil, not an error: collectives may legitimately not exist.
func (c *Context) ResolveHolder(ref EntityRef) model.Holder {
	switch ref {
	case RefActor, RefTarget:
		if e := c.Resolve(ref); e != nil {
			return e
		}
		return nil
	case RefActorGroup:
		return c.groupHolder(c.Actor)
	case RefTargetGroup:
		return c.groupHolder(c.Target)
	}
	return nil
}

func (c *Context) groupHolder(e *model.Entity) model.Holder {
	if e == nil || e.GroupID == model.NoGroup {
		return nil
	}
	g := c.Groups.Get(e.GroupID)
	if g == nil {
		return nil
	}
	return g
}

// withPair returns a copy of the context rebound to a new actor/target
// pair. Query candidate evaluation binds the candidate as both.
func (c *Context) withPair(actor, target *model.Entity) *Context {
	d := *c
	d.Actor = actor
	d.Target = target
	return &d
}
