package behavior

import (
	"strings"

	"gridvale.ai/internal/sim/model"
)

// Filter is one node of the compiled predicate tree. Filters are pure:
// rejection is the ordinary "does not apply" outcome, indistinguishable
// from success except by the boolean.
type Filter interface {
	Passes(ctx *Context) bool
}

// passAll is the conjunction over a filter list; the empty list is
// vacuously true.
func passAll(filters []Filter, ctx *Context) bool {
	for _, f := range filters {
		if !f.Passes(ctx) {
			return false
		}
	}
	return true
}

type vibeFilter struct {
	vibe int
}

func (f *vibeFilter) Passes(ctx *Context) bool {
	return ctx.Target != nil && ctx.Target.Vibe == f.vibe
}

type resourceFilter struct {
	ref      EntityRef
	resource string
	min      int
}

func (f *resourceFilter) Passes(ctx *Context) bool {
	h := ctx.ResolveHolder(f.ref)
	if h == nil {
		return false
	}
	return h.Inv().Amount(f.resource) >= f.min
}

type alignmentFilter struct {
	relation string
	groupID  int
}

func (f *alignmentFilter) Passes(ctx *Context) bool {
	t := ctx.Target
	if t == nil {
		return false
	}
	switch f.relation {
	case AlignAligned:
		return t.GroupID != model.NoGroup
	case AlignUnaligned:
		return t.GroupID == model.NoGroup
	case AlignSameGroup:
		a := ctx.Actor
		return a != nil && a.GroupID != model.NoGroup && a.GroupID == t.GroupID
	case AlignDifferentGroup:
		a := ctx.Actor
		return a != nil && a.GroupID != model.NoGroup &&
			t.GroupID != model.NoGroup && a.GroupID != t.GroupID
	case AlignGroup:
		return t.GroupID == f.groupID
	}
	return false
}

type tagFilter struct {
	tag string
}

func (f *tagFilter) Passes(ctx *Context) bool {
	return ctx.Target != nil && ctx.Target.HasTag(f.tag)
}

// tagPrefixFilter passes when actor and target share one identical tag
// beginning with the prefix. With the candidate bound as both sides (query
// evaluation) this degenerates to "carries a tag with the prefix".
type tagPrefixFilter struct {
	prefix string
}

func (f *tagPrefixFilter) Passes(ctx *Context) bool {
	if ctx.Actor == nil || ctx.Target == nil {
		return false
	}
	for _, tag := range ctx.Target.Tags() {
		if strings.HasPrefix(tag, f.prefix) && ctx.Actor.HasTag(tag) {
			return true
		}
	}
	return false
}

type scalarFilter struct {
	value *GameValue
	min   *float64
	max   *float64
}

func (f *scalarFilter) Passes(ctx *Context) bool {
	v := f.value.Resolve(ctx)
	if f.min != nil && v < *f.min {
		return false
	}
	if f.max != nil && v > *f.max {
		return false
	}
	return true
}

// nearFilter passes when some other tagged object within Chebyshev radius
// of the tested entity satisfies the inner filters. Short-circuits on the
// first hit. Recursion depth is the configured tree depth; cyclic configs
// cannot be built.
type nearFilter struct {
	radius int
	tag    string
	inner  []Filter
}

func (f *nearFilter) Passes(ctx *Context) bool {
	t := ctx.Target
	if t == nil {
		return false
	}
	for _, cand := range ctx.Tags.ObjectsWith(f.tag) {
		if cand == t {
			continue
		}
		if model.Chebyshev(cand.Pos, t.Pos) > f.radius {
			continue
		}
		// Inner filters describe the candidate; the tested entity is the
		// reference side of any relational check.
		if passAll(f.inner, ctx.withPair(t, cand)) {
			return true
		}
	}
	return false
}

// negFilter ANDs its inner filters and negates the conjunction. This is
// deliberately not per-filter negation: "lacks A and B simultaneously"
// needs NOT(A AND B).
type negFilter struct {
	inner []Filter
}

func (f *negFilter) Passes(ctx *Context) bool {
	return !passAll(f.inner, ctx)
}

// orFilter passes if any inner filter passes; empty never passes.
type orFilter struct {
	inner []Filter
}

func (f *orFilter) Passes(ctx *Context) bool {
	for _, inner := range f.inner {
		if inner.Passes(ctx) {
			return true
		}
	}
	return false
}

// maxDistanceFilter passes when any result of the source query lies within
// radius of the tested entity; radius 0 means any distance.
type maxDistanceFilter struct {
	source Query
	radius int
}

func (f *maxDistanceFilter) Passes(ctx *Context) bool {
	t := ctx.Target
	if t == nil {
		return false
	}
	for _, e := range f.source.Evaluate(ctx) {
		if f.radius == 0 || model.Chebyshev(e.Pos, t.Pos) <= f.radius {
			return true
		}
	}
	return false
}
