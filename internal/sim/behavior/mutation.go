package behavior

import (
	"strings"

	"gridvale.ai/internal/sim/model"
)

// Mutation is one compiled side effect. Apply has no error path: anything
// structurally wrong was rejected at compile time, and unresolvable
// participants degrade to no-ops where absence is a tolerated outcome.
type Mutation interface {
	Apply(ctx *Context)
}

type resourceDeltaMutation struct {
	target   EntityRef
	resource string
	delta    int
}

func (m *resourceDeltaMutation) Apply(ctx *Context) {
	h := ctx.ResolveHolder(m.target)
	// Capacity-modifier resources bypass the accumulator: their ordering
	// relative to clamping is load-bearing.
	if ctx.Deferred != nil && h != nil && !h.Inv().IsModifier(m.resource) {
		ctx.Deferred.Add(h, m.resource, m.delta)
		return
	}
	if h != nil {
		h.Inv().Update(m.resource, m.delta)
	}
}

type transferMutation struct {
	from           EntityRef
	to             EntityRef
	resource       string
	amount         int
	destroyIfEmpty bool
}

func (m *transferMutation) Apply(ctx *Context) {
	src := ctx.ResolveHolder(m.from)
	dst := ctx.ResolveHolder(m.to)
	if src == nil || dst == nil || src == dst {
		return
	}
	avail := src.Inv().Amount(m.resource)
	want := m.amount
	if want < 0 || want > avail {
		want = avail
	}
	// Receiver clamping decides how much actually moves.
	moved := dst.Inv().Update(m.resource, want)
	src.Inv().Update(m.resource, -moved)

	if m.destroyIfEmpty && src.Inv().Empty() {
		if e, ok := src.(*model.Entity); ok {
			ctx.Tags.RemoveAll(e, ctx)
			ctx.Grid.Remove(e.ID)
		}
	}
}

type alignmentMutation struct {
	target  EntityRef
	groupID int
	mode    string
}

func (m *alignmentMutation) Apply(ctx *Context) {
	t := ctx.Resolve(m.target)
	if t == nil {
		return
	}
	// A specific group id wins over the symbolic mode.
	switch {
	case m.groupID >= 0:
		t.GroupID = m.groupID
	case m.mode == AlignModeActor:
		if ctx.Actor != nil {
			t.GroupID = ctx.Actor.GroupID
		}
	case m.mode == AlignModeClear:
		t.GroupID = model.NoGroup
	}
}

type freezeMutation struct {
	target EntityRef
	ticks  uint64
}

func (m *freezeMutation) Apply(ctx *Context) {
	if t := ctx.Resolve(m.target); t != nil {
		t.FrozenUntil = ctx.Tick + m.ticks
	}
}

type clearInventoryMutation struct {
	target    EntityRef
	resources []string
}

func (m *clearInventoryMutation) Apply(ctx *Context) {
	if h := ctx.ResolveHolder(m.target); h != nil {
		h.Inv().Clear(m.resources...)
	}
}

// scalarMutation resolves its delta against the context it fires in and
// applies it to the target value, which compile guaranteed is writable.
type scalarMutation struct {
	target *GameValue
	delta  *GameValue
}

func (m *scalarMutation) Apply(ctx *Context) {
	m.target.applyDelta(ctx, m.delta.Resolve(ctx))
}

type tagMutation struct {
	target EntityRef
	tag    string
	add    bool
}

func (m *tagMutation) Apply(ctx *Context) {
	e := ctx.Resolve(m.target)
	if m.add {
		ctx.Tags.Add(e, m.tag, ctx)
	} else {
		ctx.Tags.Remove(e, m.tag, ctx)
	}
}

type tagPrefixRemoveMutation struct {
	target EntityRef
	prefix string
}

func (m *tagPrefixRemoveMutation) Apply(ctx *Context) {
	e := ctx.Resolve(m.target)
	if e == nil {
		return
	}
	tags := append([]string(nil), e.Tags()...)
	for _, tag := range tags {
		if strings.HasPrefix(tag, m.prefix) {
			ctx.Tags.Remove(e, tag, ctx)
		}
	}
}

type recomputeQueryMutation struct {
	tag string
}

func (m *recomputeQueryMutation) Apply(ctx *Context) {
	ctx.Queries.recomputeWith(ctx, m.tag)
}

// queryInventoryMutation re-evaluates its query on every application (no
// caching) and applies per-resource deltas to each result, or moves
// amounts between the source holder and each result in transfer mode.
type queryInventoryMutation struct {
	query        Query
	deltas       []ResourceAmount
	transferMode bool
	source       EntityRef
}

func (m *queryInventoryMutation) Apply(ctx *Context) {
	results := m.query.Evaluate(ctx)
	if !m.transferMode {
		for _, e := range results {
			for _, rd := range m.deltas {
				e.Inventory.Update(rd.Resource, rd.Delta)
			}
		}
		return
	}

	src := ctx.ResolveHolder(m.source)
	if src == nil {
		return
	}
	for _, e := range results {
		for _, rd := range m.deltas {
			switch {
			case rd.Delta > 0:
				// source -> result
				want := rd.Delta
				if avail := src.Inv().Amount(rd.Resource); want > avail {
					want = avail
				}
				moved := e.Inventory.Update(rd.Resource, want)
				src.Inv().Update(rd.Resource, -moved)
			case rd.Delta < 0:
				// result -> source
				want := -rd.Delta
				if avail := e.Inventory.Amount(rd.Resource); want > avail {
					want = avail
				}
				moved := src.Inv().Update(rd.Resource, want)
				e.Inventory.Update(rd.Resource, -moved)
			}
		}
	}
}
