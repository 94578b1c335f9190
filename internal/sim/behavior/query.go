package behavior

import "gridvale.ai/internal/sim/model"

// Query resolves a declarative selector to an ordered list of entities.
// Evaluation is a pure function of current object/tag state, plus shared
// RNG state when results are shuffled.
type Query interface {
	Evaluate(ctx *Context) []*model.Entity
}

type limits struct {
	maxItems int
	orderBy  OrderBy
}

// apply shuffles (consuming the shared RNG) before truncating, so a random
// limited query is a uniform sample.
func (l limits) apply(ctx *Context, results []*model.Entity) []*model.Entity {
	if l.orderBy == OrderRandom && len(results) > 1 {
		ctx.RNG.Shuffle(len(results), func(i, j int) {
			results[i], results[j] = results[j], results[i]
		})
	}
	if l.maxItems > 0 && len(results) > l.maxItems {
		results = results[:l.maxItems]
	}
	return results
}

// candidatePasses evaluates a filter list with the candidate bound as both
// actor and target, the query-evaluation convention.
func candidatePasses(filters []Filter, ctx *Context, cand *model.Entity) bool {
	if len(filters) == 0 {
		return true
	}
	return passAll(filters, ctx.withPair(cand, cand))
}

type tagQuery struct {
	tag     string
	filters []Filter
	limits  limits
}

func (q *tagQuery) Evaluate(ctx *Context) []*model.Entity {
	tagged := ctx.Tags.ObjectsWith(q.tag)
	out := make([]*model.Entity, 0, len(tagged))
	for _, e := range tagged {
		if candidatePasses(q.filters, ctx, e) {
			out = append(out, e)
		}
	}
	return q.limits.apply(ctx, out)
}

// closureQuery grows a set from seed results through pool members
// connected by the pairwise edge filters (accepted member as actor,
// prospective candidate as target), then filters the accumulated set.
type closureQuery struct {
	seed          Query
	pool          Query
	edgeFilters   []Filter
	resultFilters []Filter
	limits        limits
}

func (q *closureQuery) Evaluate(ctx *Context) []*model.Entity {
	seeds := q.seed.Evaluate(ctx)
	pool := q.pool.Evaluate(ctx)

	accepted := make([]*model.Entity, 0, len(seeds))
	in := make(map[string]bool, len(seeds))
	for _, s := range seeds {
		if !in[s.ID] {
			in[s.ID] = true
			accepted = append(accepted, s)
		}
	}

	// BFS over the frontier until the set stops growing.
	for frontier := accepted; len(frontier) > 0; {
		var next []*model.Entity
		for _, member := range frontier {
			for _, cand := range pool {
				if in[cand.ID] {
					continue
				}
				if passAll(q.edgeFilters, ctx.withPair(member, cand)) {
					in[cand.ID] = true
					accepted = append(accepted, cand)
					next = append(next, cand)
				}
			}
		}
		frontier = next
	}

	out := accepted[:0:0]
	for _, e := range accepted {
		if candidatePasses(q.resultFilters, ctx, e) {
			out = append(out, e)
		}
	}
	return q.limits.apply(ctx, out)
}

// filteredQuery is the recursive composition primitive: evaluate the inner
// query, then filter and limit.
type filteredQuery struct {
	inner   Query
	filters []Filter
	limits  limits
}

func (q *filteredQuery) Evaluate(ctx *Context) []*model.Entity {
	raw := q.inner.Evaluate(ctx)
	out := make([]*model.Entity, 0, len(raw))
	for _, e := range raw {
		if candidatePasses(q.filters, ctx, e) {
			out = append(out, e)
		}
	}
	return q.limits.apply(ctx, out)
}
