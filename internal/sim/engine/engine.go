package engine

import (
	"context"
	"sort"

	"gridvale.ai/internal/sim/behavior"
	"gridvale.ai/internal/sim/catalogs"
)

// Hooks observe engine occurrences. Nil hooks are skipped; the engine
// never depends on its observers.
type Hooks struct {
	OnFiring func(behavior.FiringRecord)
	OnAudit  func(behavior.AuditRecord)
}

type Config struct {
	// InteractRadius bounds the neighborhood an entity picks its
	// interaction partner from each tick.
	InteractRadius int
}

// Engine drives one run: every tick each unfrozen entity tries the
// handler set against one random neighbor, then due scheduled events
// fire. Handlers run first-match in name order so a run is fully
// determined by the seed and the catalogs.
type Engine struct {
	svc    behavior.Services
	rt     *catalogs.Runtime
	order  []*behavior.Handler
	radius int
	hooks  Hooks
}

func New(svc behavior.Services, rt *catalogs.Runtime, cfg Config, hooks Hooks) *Engine {
	names := make([]string, 0, len(rt.Handlers))
	for name := range rt.Handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	order := make([]*behavior.Handler, 0, len(names))
	for _, name := range names {
		order = append(order, rt.Handlers[name])
	}
	radius := cfg.InteractRadius
	if radius <= 0 {
		radius = 3
	}
	return &Engine{svc: svc, rt: rt, order: order, radius: radius, hooks: hooks}
}

func (en *Engine) Tick(t uint64) {
	for _, e := range en.svc.Grid.All() {
		// The snapshot may outlive an entity destroyed earlier this tick.
		if en.svc.Grid.Get(e.ID) == nil {
			continue
		}
		if e.FrozenUntil > t {
			continue
		}
		nearby := en.svc.Grid.Within(e.Pos, en.radius)
		pool := nearby[:0:0]
		for _, n := range nearby {
			if n.ID == e.ID || n.FrozenUntil > t {
				continue
			}
			pool = append(pool, n)
		}
		if len(pool) == 0 {
			continue
		}
		partner := pool[en.svc.RNG.Intn(len(pool))]

		ctx := en.svc.NewContext(t)
		ctx.Actor = e
		ctx.Target = partner
		ctx.Deferred = behavior.NewDeltaAccumulator()
		for _, h := range en.order {
			if !h.TryApply(ctx) {
				continue
			}
			en.firing(behavior.FiringRecord{
				Tick:     t,
				Kind:     "handler",
				Name:     h.Name,
				Actor:    e.ID,
				Target:   partner.ID,
				Affected: 1,
			})
			break
		}
	}

	en.rt.Scheduler.ProcessTimestepFunc(t, func(name string, affected int) {
		en.firing(behavior.FiringRecord{
			Tick:     t,
			Kind:     "event",
			Name:     name,
			Affected: affected,
		})
	})
}

// Run ticks from 1 through ticks, stopping early on context
// cancellation.
func (en *Engine) Run(ctx context.Context, ticks uint64) (uint64, error) {
	for t := uint64(1); t <= ticks; t++ {
		select {
		case <-ctx.Done():
			return t - 1, ctx.Err()
		default:
		}
		en.Tick(t)
	}
	return ticks, nil
}

func (en *Engine) firing(rec behavior.FiringRecord) {
	if en.hooks.OnFiring != nil {
		en.hooks.OnFiring(rec)
	}
}

// Audit emits an audit record through the hooks.
func (en *Engine) Audit(rec behavior.AuditRecord) {
	if en.hooks.OnAudit != nil {
		en.hooks.OnAudit(rec)
	}
}
