package behavior

import (
	"fmt"

	"gridvale.ai/internal/sim/model"
)

// EventConfig is the timestep-triggered analogue of a handler: the same
// filter+mutation pair, but targets are discovered by tag instead of
// supplied by an acting agent. Schedule lists the timesteps the event
// fires at.
type EventConfig struct {
	Name       string           `yaml:"name" json:"name"`
	TargetTag  string           `yaml:"target_tag" json:"target_tag"`
	MaxTargets int              `yaml:"max_targets,omitempty" json:"max_targets,omitempty"`
	Filters    []FilterConfig   `yaml:"filters,omitempty" json:"filters,omitempty"`
	Mutations  []MutationConfig `yaml:"mutations,omitempty" json:"mutations,omitempty"`
	Fallback   string           `yaml:"fallback,omitempty" json:"fallback,omitempty"`
	Schedule   []uint64         `yaml:"schedule,omitempty" json:"schedule,omitempty"`
}

type Event struct {
	Name string

	targetTag  string
	maxTargets int
	filters    []Filter
	mutations  []Mutation

	fallbackName string
	fallback     *Event
}

func NewEvent(cfg EventConfig) (*Event, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("event: missing name")
	}
	if cfg.TargetTag == "" {
		return nil, fmt.Errorf("event %q: missing target_tag", cfg.Name)
	}
	if cfg.MaxTargets < 0 {
		return nil, fmt.Errorf("event %q: negative max_targets", cfg.Name)
	}
	filters, err := CompileFilters(cfg.Filters)
	if err != nil {
		return nil, fmt.Errorf("event %q: %w", cfg.Name, err)
	}
	mutations, err := CompileMutations(cfg.Mutations)
	if err != nil {
		return nil, fmt.Errorf("event %q: %w", cfg.Name, err)
	}
	return &Event{
		Name:         cfg.Name,
		targetTag:    cfg.TargetTag,
		maxTargets:   cfg.MaxTargets,
		filters:      filters,
		mutations:    mutations,
		fallbackName: cfg.Fallback,
	}, nil
}

// link resolves the fallback chain against the full registry after every
// event is constructed.
func (ev *Event) link(registry map[string]*Event) error {
	if ev.fallbackName == "" {
		return nil
	}
	fb, ok := registry[ev.fallbackName]
	if !ok {
		return fmt.Errorf("event %q: unknown fallback %q", ev.Name, ev.fallbackName)
	}
	if fb == ev {
		return fmt.Errorf("event %q: fallback to itself", ev.Name)
	}
	ev.fallback = fb
	return nil
}

// Execute discovers targets by tag, shuffles when there are more
// candidates than the target limit, and applies the filter+mutation pair
// per candidate up to the limit. A candidate counts as affected only when
// its filters pass. If nothing was affected and a fallback is configured,
// the fallback runs in full, with its own discovery and filters.
func (ev *Event) Execute(ctx *Context) int {
	candidates := append([]*model.Entity(nil), ctx.Tags.ObjectsWith(ev.targetTag)...)
	if ev.maxTargets > 0 && len(candidates) > ev.maxTargets {
		ctx.RNG.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}

	affected := 0
	for _, cand := range candidates {
		if ev.maxTargets > 0 && affected >= ev.maxTargets {
			break
		}
		// No acting agent: the discovered target is both sides of the
		// pair, same convention as query candidate evaluation.
		ectx := ctx.withPair(cand, cand)
		ectx.Deferred = NewDeltaAccumulator()
		if !passAll(ev.filters, ectx) {
			continue
		}
		for _, m := range ev.mutations {
			m.Apply(ectx)
		}
		ectx.Deferred.Flush()
		affected++
	}

	if affected == 0 && ev.fallback != nil {
		return ev.fallback.Execute(ctx)
	}
	return affected
}
