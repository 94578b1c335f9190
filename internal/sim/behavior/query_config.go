package behavior

import "fmt"

type QueryKind string

const (
	QueryTag      QueryKind = "tag"
	QueryClosure  QueryKind = "closure"
	QueryFiltered QueryKind = "filtered"
)

type OrderBy string

const (
	OrderNone   OrderBy = ""
	OrderRandom OrderBy = "random"
)

// QueryConfig is one node of the declarative selector tree. MaxItems and
// OrderBy are common post-processing applied after selection: shuffle
// first, truncate after.
type QueryConfig struct {
	Kind QueryKind `yaml:"kind" json:"kind"`

	MaxItems int     `yaml:"max_items,omitempty" json:"max_items,omitempty"`
	OrderBy  OrderBy `yaml:"order_by,omitempty" json:"order_by,omitempty"`

	// tag
	Tag     string         `yaml:"tag,omitempty" json:"tag,omitempty"`
	Filters []FilterConfig `yaml:"filters,omitempty" json:"filters,omitempty"`

	// closure
	Seed          *QueryConfig   `yaml:"seed,omitempty" json:"seed,omitempty"`
	Pool          *QueryConfig   `yaml:"pool,omitempty" json:"pool,omitempty"`
	EdgeFilters   []FilterConfig `yaml:"edge_filters,omitempty" json:"edge_filters,omitempty"`
	ResultFilters []FilterConfig `yaml:"result_filters,omitempty" json:"result_filters,omitempty"`

	// filtered
	Inner *QueryConfig `yaml:"inner,omitempty" json:"inner,omitempty"`
}

// CompileQuery builds the evaluator tree for cfg. A nil config where a
// query is required is a configuration error.
func CompileQuery(cfg *QueryConfig) (Query, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil query config")
	}
	if cfg.MaxItems < 0 {
		return nil, fmt.Errorf("query: negative max_items")
	}
	switch cfg.OrderBy {
	case OrderNone, OrderRandom:
	default:
		return nil, fmt.Errorf("query: unknown order_by %q", cfg.OrderBy)
	}
	lim := limits{maxItems: cfg.MaxItems, orderBy: cfg.OrderBy}

	switch cfg.Kind {
	case QueryTag:
		if cfg.Tag == "" {
			return nil, fmt.Errorf("tag query: missing tag")
		}
		filters, err := CompileFilters(cfg.Filters)
		if err != nil {
			return nil, fmt.Errorf("tag query: %w", err)
		}
		return &tagQuery{tag: cfg.Tag, filters: filters, limits: lim}, nil

	case QueryClosure:
		seed, err := CompileQuery(cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("closure query seed: %w", err)
		}
		pool, err := CompileQuery(cfg.Pool)
		if err != nil {
			return nil, fmt.Errorf("closure query pool: %w", err)
		}
		edges, err := CompileFilters(cfg.EdgeFilters)
		if err != nil {
			return nil, fmt.Errorf("closure query edges: %w", err)
		}
		results, err := CompileFilters(cfg.ResultFilters)
		if err != nil {
			return nil, fmt.Errorf("closure query results: %w", err)
		}
		return &closureQuery{
			seed: seed, pool: pool,
			edgeFilters: edges, resultFilters: results,
			limits: lim,
		}, nil

	case QueryFiltered:
		inner, err := CompileQuery(cfg.Inner)
		if err != nil {
			return nil, fmt.Errorf("filtered query: %w", err)
		}
		filters, err := CompileFilters(cfg.Filters)
		if err != nil {
			return nil, fmt.Errorf("filtered query: %w", err)
		}
		return &filteredQuery{inner: inner, filters: filters, limits: lim}, nil
	}
	return nil, fmt.Errorf("unknown query kind %q", cfg.Kind)
}
