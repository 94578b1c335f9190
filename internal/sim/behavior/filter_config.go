package behavior

import "fmt"

type FilterKind string

const (
	FilterVibe        FilterKind = "vibe"
	FilterResource    FilterKind = "resource"
	FilterAlignment   FilterKind = "alignment"
	FilterTag         FilterKind = "tag"
	FilterTagPrefix   FilterKind = "tag_prefix"
	FilterScalar      FilterKind = "scalar"
	FilterNear        FilterKind = "near"
	FilterNeg         FilterKind = "neg"
	FilterOr          FilterKind = "or"
	FilterMaxDistance FilterKind = "max_distance"
)

// Alignment relations for the alignment filter.
const (
	AlignAligned        = "aligned"
	AlignUnaligned      = "unaligned"
	AlignSameGroup      = "same_group"
	AlignDifferentGroup = "different_group"
	AlignGroup          = "group"
)

// FilterConfig is one node of the declarative predicate tree. The tree is
// strict: each node owns its children, and compilation clones nothing
// shared.
type FilterConfig struct {
	Kind FilterKind `yaml:"kind" json:"kind"`

	// vibe
	Vibe int `yaml:"vibe,omitempty" json:"vibe,omitempty"`

	// resource threshold
	Entity   string `yaml:"entity,omitempty" json:"entity,omitempty"`
	Resource string `yaml:"resource,omitempty" json:"resource,omitempty"`
	Min      int    `yaml:"min,omitempty" json:"min,omitempty"`

	// alignment
	Relation string `yaml:"relation,omitempty" json:"relation,omitempty"`
	GroupID  *int   `yaml:"group_id,omitempty" json:"group_id,omitempty"`

	// tag / tag prefix
	Tag    string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// scalar threshold
	Value    *GameValueConfig `yaml:"value,omitempty" json:"value,omitempty"`
	MinValue *float64         `yaml:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue *float64         `yaml:"max_value,omitempty" json:"max_value,omitempty"`

	// near / max_distance
	Radius int          `yaml:"radius,omitempty" json:"radius,omitempty"`
	Query  *QueryConfig `yaml:"query,omitempty" json:"query,omitempty"`

	// combinators
	Inner []FilterConfig `yaml:"inner,omitempty" json:"inner,omitempty"`
}

// CompileFilter builds the evaluator for one config node, recursively
// compiling children. Malformed configuration fails here, loudly, never at
// evaluation time.
func CompileFilter(cfg FilterConfig) (Filter, error) {
	switch cfg.Kind {
	case FilterVibe:
		return &vibeFilter{vibe: cfg.Vibe}, nil

	case FilterResource:
		if cfg.Resource == "" {
			return nil, fmt.Errorf("resource filter: missing resource")
		}
		ref, err := ParseEntityRef(cfg.Entity)
		if err != nil {
			return nil, fmt.Errorf("resource filter: %w", err)
		}
		return &resourceFilter{ref: ref, resource: cfg.Resource, min: cfg.Min}, nil

	case FilterAlignment:
		f := &alignmentFilter{relation: cfg.Relation, groupID: -1}
		switch cfg.Relation {
		case AlignAligned, AlignUnaligned, AlignSameGroup, AlignDifferentGroup:
		case AlignGroup:
			if cfg.GroupID == nil {
				return nil, fmt.Errorf("alignment filter: relation %q needs group_id", cfg.Relation)
			}
			f.groupID = *cfg.GroupID
		default:
			return nil, fmt.Errorf("alignment filter: unknown relation %q", cfg.Relation)
		}
		return f, nil

	case FilterTag:
		if cfg.Tag == "" {
			return nil, fmt.Errorf("tag filter: missing tag")
		}
		return &tagFilter{tag: cfg.Tag}, nil

	case FilterTagPrefix:
		if cfg.Prefix == "" {
			return nil, fmt.Errorf("tag_prefix filter: missing prefix")
		}
		return &tagPrefixFilter{prefix: cfg.Prefix}, nil

	case FilterScalar:
		if cfg.Value == nil {
			return nil, fmt.Errorf("scalar filter: missing value source")
		}
		gv, err := CompileGameValue(*cfg.Value)
		if err != nil {
			return nil, fmt.Errorf("scalar filter: %w", err)
		}
		if cfg.MinValue == nil && cfg.MaxValue == nil {
			return nil, fmt.Errorf("scalar filter: needs min_value or max_value")
		}
		return &scalarFilter{value: gv, min: cfg.MinValue, max: cfg.MaxValue}, nil

	case FilterNear:
		if cfg.Tag == "" {
			return nil, fmt.Errorf("near filter: missing tag")
		}
		if cfg.Radius < 0 {
			return nil, fmt.Errorf("near filter: negative radius")
		}
		inner, err := CompileFilters(cfg.Inner)
		if err != nil {
			return nil, fmt.Errorf("near filter: %w", err)
		}
		return &nearFilter{radius: cfg.Radius, tag: cfg.Tag, inner: inner}, nil

	case FilterNeg:
		inner, err := CompileFilters(cfg.Inner)
		if err != nil {
			return nil, fmt.Errorf("neg filter: %w", err)
		}
		return &negFilter{inner: inner}, nil

	case FilterOr:
		inner, err := CompileFilters(cfg.Inner)
		if err != nil {
			return nil, fmt.Errorf("or filter: %w", err)
		}
		return &orFilter{inner: inner}, nil

	case FilterMaxDistance:
		if cfg.Query == nil {
			return nil, fmt.Errorf("max_distance filter: nil source query")
		}
		q, err := CompileQuery(cfg.Query)
		if err != nil {
			return nil, fmt.Errorf("max_distance filter: %w", err)
		}
		if cfg.Radius < 0 {
			return nil, fmt.Errorf("max_distance filter: negative radius")
		}
		return &maxDistanceFilter{source: q, radius: cfg.Radius}, nil
	}
	return nil, fmt.Errorf("unknown filter kind %q", cfg.Kind)
}

// CompileFilters compiles a filter list; the empty list compiles to the
// empty (vacuously true) conjunction.
func CompileFilters(cfgs []FilterConfig) ([]Filter, error) {
	out := make([]Filter, 0, len(cfgs))
	for i, cfg := range cfgs {
		f, err := CompileFilter(cfg)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}
