package behavior

import (
	"fmt"

	"gridvale.ai/internal/sim/model"
)

// QuerySystem owns the materialized query tags: tags whose membership is
// computed by a query once at initialization and cached until an explicit
// recompute. They are never refreshed on a schedule; cost stays bounded
// and predictable.
type QuerySystem struct {
	svc Services

	mat      map[string]Query
	matOrder []string

	now func() uint64
}

// NewQuerySystem wires the system into the shared services. The clock
// callback supplies the current tick for recompute contexts; nil reads as
// tick zero.
func NewQuerySystem(svc Services, now func() uint64) *QuerySystem {
	qs := &QuerySystem{svc: svc, mat: map[string]Query{}, now: now}
	qs.svc.Queries = qs
	return qs
}

// AddMaterialized registers a (tag, query) pair. Duplicate tags are a
// configuration error.
func (qs *QuerySystem) AddMaterialized(tag string, cfg *QueryConfig) error {
	if tag == "" {
		return fmt.Errorf("materialized query: empty tag")
	}
	if _, dup := qs.mat[tag]; dup {
		return fmt.Errorf("materialized query: duplicate tag %q", tag)
	}
	q, err := CompileQuery(cfg)
	if err != nil {
		return fmt.Errorf("materialized query %q: %w", tag, err)
	}
	qs.mat[tag] = q
	qs.matOrder = append(qs.matOrder, tag)
	return nil
}

// Init computes every materialized tag once, in registration order.
func (qs *QuerySystem) Init() {
	for _, tag := range qs.matOrder {
		qs.Recompute(tag)
	}
}

// Has reports whether tag is a registered materialized query tag.
func (qs *QuerySystem) Has(tag string) bool {
	_, ok := qs.mat[tag]
	return ok
}

// Recompute redoes one materialized tag: clears it from every currently
// tagged object and reassigns it from a fresh query evaluation. Returns
// false for unregistered tags.
func (qs *QuerySystem) Recompute(tag string) bool {
	tick := uint64(0)
	if qs.now != nil {
		tick = qs.now()
	}
	ctx := qs.svc.NewContext(tick)
	return qs.recomputeWith(ctx, tag)
}

func (qs *QuerySystem) recomputeWith(ctx *Context, tag string) bool {
	q, ok := qs.mat[tag]
	if !ok {
		return false
	}
	results := q.Evaluate(ctx)

	// Membership churn from recomputes must not fire lifecycle cascades.
	mctx := *ctx
	mctx.SuppressTriggers = true

	old := append([]*model.Entity(nil), ctx.Tags.ObjectsWith(tag)...)
	for _, e := range old {
		ctx.Tags.Remove(e, tag, &mctx)
	}
	for _, e := range results {
		ctx.Tags.Add(e, tag, &mctx)
	}
	return true
}
