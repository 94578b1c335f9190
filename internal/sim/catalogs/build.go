package catalogs

import (
	"fmt"

	"gridvale.ai/internal/sim/behavior"
)

// Runtime is the compiled catalog: every filter/mutation/query tree built
// once, ready for per-tick evaluation.
type Runtime struct {
	Handlers  map[string]*behavior.Handler
	Scheduler *behavior.EventScheduler
}

// Build compiles the catalogs against the shared services: tag lifecycles
// onto the tag index, materialized query tags onto the query system,
// handlers into the registry, events into the scheduler. Any compile
// error aborts the build; malformed configuration must not half-load.
func Build(c *Catalogs, svc behavior.Services) (*Runtime, error) {
	for _, td := range c.Tags.Tags {
		if td.Tag == "" {
			return nil, fmt.Errorf("tag lifecycle: empty tag")
		}
		onAdd, err := behavior.CompileMutations(td.OnAdd)
		if err != nil {
			return nil, fmt.Errorf("tag %q on_add: %w", td.Tag, err)
		}
		onRemove, err := behavior.CompileMutations(td.OnRemove)
		if err != nil {
			return nil, fmt.Errorf("tag %q on_remove: %w", td.Tag, err)
		}
		svc.Tags.SetLifecycle(td.Tag, &behavior.TagLifecycle{OnAdd: onAdd, OnRemove: onRemove})
	}

	for _, md := range c.Tags.Materialized {
		query := md.Query
		if err := svc.Queries.AddMaterialized(md.Tag, &query); err != nil {
			return nil, err
		}
	}

	rt := &Runtime{Handlers: map[string]*behavior.Handler{}}
	for _, hc := range c.Handlers.Handlers {
		h, err := behavior.NewHandler(hc)
		if err != nil {
			return nil, err
		}
		if _, dup := rt.Handlers[h.Name]; dup {
			return nil, fmt.Errorf("handler %q: duplicate name", h.Name)
		}
		rt.Handlers[h.Name] = h
	}

	scheduler, err := behavior.NewEventScheduler(c.Events.Events, svc)
	if err != nil {
		return nil, err
	}
	rt.Scheduler = scheduler
	return rt, nil
}
