package behavior

import "fmt"

type MutationKind string

const (
	MutationResourceDelta   MutationKind = "resource_delta"
	MutationTransfer        MutationKind = "transfer"
	MutationAlignment       MutationKind = "alignment"
	MutationFreeze          MutationKind = "freeze"
	MutationClearInventory  MutationKind = "clear_inventory"
	MutationScalar          MutationKind = "scalar"
	MutationAddTag          MutationKind = "add_tag"
	MutationRemoveTag       MutationKind = "remove_tag"
	MutationRemoveTagPrefix MutationKind = "remove_tag_prefix"
	MutationRecomputeQuery  MutationKind = "recompute_query"
	MutationQueryInventory  MutationKind = "query_inventory"
)

// Alignment modes when no specific group id is given.
const (
	AlignModeActor = "actor"
	AlignModeClear = "clear"
)

// TransferAll is the amount sentinel meaning "everything currently
// available at the source".
const TransferAll = -1

type ResourceAmount struct {
	Resource string `yaml:"resource" json:"resource"`
	Delta    int    `yaml:"delta" json:"delta"`
}

// MutationConfig is one declarative effect. Mutations in a list execute
// strictly in declared order.
type MutationConfig struct {
	Kind MutationKind `yaml:"kind" json:"kind"`

	// Entity refs; Target defaults to "target", Source to "actor".
	Target string `yaml:"target,omitempty" json:"target,omitempty"`
	Source string `yaml:"source,omitempty" json:"source,omitempty"`

	// resource_delta / transfer
	Resource       string `yaml:"resource,omitempty" json:"resource,omitempty"`
	Delta          int    `yaml:"delta,omitempty" json:"delta,omitempty"`
	Amount         int    `yaml:"amount,omitempty" json:"amount,omitempty"`
	DestroyIfEmpty bool   `yaml:"destroy_if_empty,omitempty" json:"destroy_if_empty,omitempty"`

	// alignment
	GroupID *int   `yaml:"group_id,omitempty" json:"group_id,omitempty"`
	Mode    string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// freeze
	Ticks uint64 `yaml:"ticks,omitempty" json:"ticks,omitempty"`

	// clear_inventory
	Resources []string `yaml:"resources,omitempty" json:"resources,omitempty"`

	// scalar
	ScalarTarget *GameValueConfig `yaml:"scalar_target,omitempty" json:"scalar_target,omitempty"`
	ScalarDelta  *GameValueConfig `yaml:"scalar_delta,omitempty" json:"scalar_delta,omitempty"`

	// tag ops / recompute_query
	Tag    string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// query_inventory
	Query        *QueryConfig     `yaml:"query,omitempty" json:"query,omitempty"`
	Deltas       []ResourceAmount `yaml:"deltas,omitempty" json:"deltas,omitempty"`
	TransferMode bool             `yaml:"transfer_mode,omitempty" json:"transfer_mode,omitempty"`
}

// CompileMutation builds the effect for one config entry. All structural
// validation happens here so Apply never has an error path.
func CompileMutation(cfg MutationConfig) (Mutation, error) {
	target, err := ParseEntityRef(cfg.Target)
	if err != nil {
		return nil, err
	}
	source := RefActor
	if cfg.Source != "" {
		if source, err = ParseEntityRef(cfg.Source); err != nil {
			return nil, err
		}
	}

	switch cfg.Kind {
	case MutationResourceDelta:
		if cfg.Resource == "" {
			return nil, fmt.Errorf("resource_delta: missing resource")
		}
		if cfg.Delta == 0 {
			return nil, fmt.Errorf("resource_delta: zero delta")
		}
		return &resourceDeltaMutation{target: target, resource: cfg.Resource, delta: cfg.Delta}, nil

	case MutationTransfer:
		if cfg.Resource == "" {
			return nil, fmt.Errorf("transfer: missing resource")
		}
		if cfg.Amount == 0 {
			return nil, fmt.Errorf("transfer: zero amount")
		}
		return &transferMutation{
			from: source, to: target,
			resource: cfg.Resource, amount: cfg.Amount,
			destroyIfEmpty: cfg.DestroyIfEmpty,
		}, nil

	case MutationAlignment:
		m := &alignmentMutation{target: target, groupID: -1, mode: cfg.Mode}
		if cfg.GroupID != nil {
			m.groupID = *cfg.GroupID
		}
		if m.groupID < 0 {
			switch cfg.Mode {
			case AlignModeActor, AlignModeClear:
			default:
				return nil, fmt.Errorf("alignment: unknown mode %q", cfg.Mode)
			}
		}
		return m, nil

	case MutationFreeze:
		if cfg.Ticks == 0 {
			return nil, fmt.Errorf("freeze: zero ticks")
		}
		return &freezeMutation{target: target, ticks: cfg.Ticks}, nil

	case MutationClearInventory:
		return &clearInventoryMutation{target: target, resources: cfg.Resources}, nil

	case MutationScalar:
		if cfg.ScalarTarget == nil || cfg.ScalarDelta == nil {
			return nil, fmt.Errorf("scalar: needs scalar_target and scalar_delta")
		}
		tgt, err := CompileGameValue(*cfg.ScalarTarget)
		if err != nil {
			return nil, fmt.Errorf("scalar target: %w", err)
		}
		// Only inventory and stat values are writable; anything else is a
		// configuration mistake surfaced now, not silently skipped later.
		if !tgt.Mutable() {
			return nil, fmt.Errorf("scalar: target kind %q is read-only", cfg.ScalarTarget.Kind)
		}
		d, err := CompileGameValue(*cfg.ScalarDelta)
		if err != nil {
			return nil, fmt.Errorf("scalar delta: %w", err)
		}
		return &scalarMutation{target: tgt, delta: d}, nil

	case MutationAddTag, MutationRemoveTag:
		if cfg.Tag == "" {
			return nil, fmt.Errorf("%s: missing tag", cfg.Kind)
		}
		return &tagMutation{target: target, tag: cfg.Tag, add: cfg.Kind == MutationAddTag}, nil

	case MutationRemoveTagPrefix:
		if cfg.Prefix == "" {
			return nil, fmt.Errorf("remove_tag_prefix: missing prefix")
		}
		return &tagPrefixRemoveMutation{target: target, prefix: cfg.Prefix}, nil

	case MutationRecomputeQuery:
		if cfg.Tag == "" {
			return nil, fmt.Errorf("recompute_query: missing tag")
		}
		return &recomputeQueryMutation{tag: cfg.Tag}, nil

	case MutationQueryInventory:
		if cfg.Query == nil {
			return nil, fmt.Errorf("query_inventory: nil query")
		}
		q, err := CompileQuery(cfg.Query)
		if err != nil {
			return nil, fmt.Errorf("query_inventory: %w", err)
		}
		if len(cfg.Deltas) == 0 {
			return nil, fmt.Errorf("query_inventory: no deltas")
		}
		return &queryInventoryMutation{
			query: q, deltas: cfg.Deltas,
			transferMode: cfg.TransferMode, source: source,
		}, nil
	}
	return nil, fmt.Errorf("unknown mutation kind %q", cfg.Kind)
}

// CompileMutations compiles an effect list, preserving declared order.
func CompileMutations(cfgs []MutationConfig) ([]Mutation, error) {
	out := make([]Mutation, 0, len(cfgs))
	for i, cfg := range cfgs {
		m, err := CompileMutation(cfg)
		if err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
