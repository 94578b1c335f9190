package behavior

import "fmt"

// HandlerConfig binds one named filter+mutation pair, invoked with an
// explicit actor/target pair by the action and effect phases.
type HandlerConfig struct {
	Name      string           `yaml:"name" json:"name"`
	Filters   []FilterConfig   `yaml:"filters,omitempty" json:"filters,omitempty"`
	Mutations []MutationConfig `yaml:"mutations,omitempty" json:"mutations,omitempty"`
}

// Handler compiles its trees once at construction; per invocation only the
// context changes.
type Handler struct {
	Name string

	filters   []Filter
	mutations []Mutation
}

func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("handler: missing name")
	}
	filters, err := CompileFilters(cfg.Filters)
	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", cfg.Name, err)
	}
	mutations, err := CompileMutations(cfg.Mutations)
	if err != nil {
		return nil, fmt.Errorf("handler %q: %w", cfg.Name, err)
	}
	return &Handler{Name: cfg.Name, filters: filters, mutations: mutations}, nil
}

// TryApply returns false without side effects if any filter fails;
// otherwise it applies every mutation in declared order, flushes the
// context's deferred deltas if it carries an accumulator, and returns
// true.
func (h *Handler) TryApply(ctx *Context) bool {
	if !passAll(h.filters, ctx) {
		return false
	}
	for _, m := range h.mutations {
		m.Apply(ctx)
	}
	ctx.Deferred.Flush()
	return true
}

type MultiMode string

const (
	FirstMatch MultiMode = "first_match"
	All        MultiMode = "all"
)

// MultiHandler dispatches across several handlers in declared order.
type MultiHandler struct {
	handlers []*Handler
	mode     MultiMode
}

func NewMultiHandler(handlers []*Handler, mode MultiMode) (*MultiHandler, error) {
	switch mode {
	case FirstMatch, All:
	default:
		return nil, fmt.Errorf("multi handler: unknown mode %q", mode)
	}
	return &MultiHandler{handlers: handlers, mode: mode}, nil
}

// TryApply tries each handler in order. FirstMatch stops on the first
// success; All applies every passing handler and succeeds if any did.
// Filters gate mutations atomically per handler, so failed handlers never
// leave partial effects behind.
func (mh *MultiHandler) TryApply(ctx *Context) bool {
	applied := false
	for _, h := range mh.handlers {
		if h.TryApply(ctx) {
			if mh.mode == FirstMatch {
				return true
			}
			applied = true
		}
	}
	return applied
}
