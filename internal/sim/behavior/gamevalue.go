package behavior

import (
	"fmt"

	"gridvale.ai/internal/sim/model"
)

type GameValueKind string

const (
	GameValueInventory      GameValueKind = "inventory"
	GameValueStat           GameValueKind = "stat"
	GameValueTagCount       GameValueKind = "tag_count"
	GameValueConst          GameValueKind = "const"
	GameValueQueryInventory GameValueKind = "query_inventory"
)

// GameValueConfig is the declarative scalar source: exactly one variant is
// active, selected by Kind. Only inventory and stat values are mutable
// targets.
type GameValueConfig struct {
	Kind GameValueKind `yaml:"kind" json:"kind"`

	// inventory / stat scope; "game" is valid for stats only.
	Entity string `yaml:"entity,omitempty" json:"entity,omitempty"`

	Resource string  `yaml:"resource,omitempty" json:"resource,omitempty"`
	Stat     string  `yaml:"stat,omitempty" json:"stat,omitempty"`
	Delta    bool    `yaml:"delta,omitempty" json:"delta,omitempty"`
	Tag      string  `yaml:"tag,omitempty" json:"tag,omitempty"`
	Value    float64 `yaml:"value,omitempty" json:"value,omitempty"`

	Query *QueryConfig `yaml:"query,omitempty" json:"query,omitempty"`
}

// GameValue is the compiled form. Resolution is pure; mutation is only
// legal for inventory and stat kinds and is rejected at compile time
// otherwise.
type GameValue struct {
	kind      GameValueKind
	ref       EntityRef
	gameScope bool
	resource  string
	stat      string
	delta     bool
	tag       string
	value     float64
	query     Query
}

func CompileGameValue(cfg GameValueConfig) (*GameValue, error) {
	gv := &GameValue{kind: cfg.Kind}
	switch cfg.Kind {
	case GameValueInventory:
		if cfg.Resource == "" {
			return nil, fmt.Errorf("inventory value: missing resource")
		}
		if cfg.Entity == "game" {
			return nil, fmt.Errorf("inventory value: no game-scoped inventory")
		}
		ref, err := ParseEntityRef(cfg.Entity)
		if err != nil {
			return nil, fmt.Errorf("inventory value: %w", err)
		}
		gv.ref = ref
		gv.resource = cfg.Resource
	case GameValueStat:
		if cfg.Stat == "" {
			return nil, fmt.Errorf("stat value: missing stat name")
		}
		if cfg.Entity == "game" {
			gv.gameScope = true
		} else {
			ref, err := ParseEntityRef(cfg.Entity)
			if err != nil {
				return nil, fmt.Errorf("stat value: %w", err)
			}
			gv.ref = ref
		}
		gv.stat = cfg.Stat
		gv.delta = cfg.Delta
	case GameValueTagCount:
		if cfg.Tag == "" {
			return nil, fmt.Errorf("tag_count value: missing tag")
		}
		gv.tag = cfg.Tag
	case GameValueConst:
		gv.value = cfg.Value
	case GameValueQueryInventory:
		if cfg.Resource == "" {
			return nil, fmt.Errorf("query_inventory value: missing resource")
		}
		if cfg.Query == nil {
			return nil, fmt.Errorf("query_inventory value: nil query")
		}
		q, err := CompileQuery(cfg.Query)
		if err != nil {
			return nil, fmt.Errorf("query_inventory value: %w", err)
		}
		gv.resource = cfg.Resource
		gv.query = q
	default:
		return nil, fmt.Errorf("unknown game value kind %q", cfg.Kind)
	}
	return gv, nil
}

// Mutable reports whether the value is a legal scalar-mutation target.
func (g *GameValue) Mutable() bool {
	return g.kind == GameValueInventory || g.kind == GameValueStat
}

// Resolve evaluates the scalar source against ctx. Pure: no state changes.
func (g *GameValue) Resolve(ctx *Context) float64 {
	switch g.kind {
	case GameValueInventory:
		h := ctx.ResolveHolder(g.ref)
		if h == nil {
			return 0
		}
		return float64(h.Inv().Amount(g.resource))
	case GameValueStat:
		return g.resolveStat(ctx)
	case GameValueTagCount:
		return float64(ctx.Tags.CountValue(g.tag))
	case GameValueConst:
		return g.value
	case GameValueQueryInventory:
		sum := 0
		for _, e := range g.query.Evaluate(ctx) {
			sum += e.Inventory.Amount(g.resource)
		}
		return float64(sum)
	}
	return 0
}

func (g *GameValue) resolveStat(ctx *Context) float64 {
	// A missing tracker reads as zero.
	if ctx.Stats == nil {
		return 0
	}
	if g.gameScope {
		if g.delta {
			return ctx.Stats.GameDelta(g.stat)
		}
		return ctx.Stats.GameGet(g.stat)
	}
	switch g.ref {
	case RefActor, RefTarget:
		e := ctx.Resolve(g.ref)
		if e == nil {
			return 0
		}
		if g.delta {
			return ctx.Stats.AgentDelta(e.ID, g.stat)
		}
		return ctx.Stats.AgentGet(e.ID, g.stat)
	case RefActorGroup, RefTargetGroup:
		e := ctx.Actor
		if g.ref == RefTargetGroup {
			e = ctx.Target
		}
		if e == nil || e.GroupID == model.NoGroup {
			return 0
		}
		if g.delta {
			return ctx.Stats.GroupDelta(e.GroupID, g.stat)
		}
		return ctx.Stats.GroupGet(e.GroupID, g.stat)
	}
	return 0
}

// applyDelta mutates the underlying inventory amount or stat. Compile
// rejects non-mutable kinds, so reaching the default arm is impossible.
func (g *GameValue) applyDelta(ctx *Context, d float64) {
	switch g.kind {
	case GameValueInventory:
		if h := ctx.ResolveHolder(g.ref); h != nil {
			h.Inv().Update(g.resource, int(d))
		}
	case GameValueStat:
		g.applyStatDelta(ctx, d)
	}
}

func (g *GameValue) applyStatDelta(ctx *Context, d float64) {
	if ctx.Stats == nil {
		return
	}
	if g.gameScope {
		ctx.Stats.GameAdd(g.stat, d)
		return
	}
	switch g.ref {
	case RefActor, RefTarget:
		if e := ctx.Resolve(g.ref); e != nil {
			ctx.Stats.AgentAdd(e.ID, g.stat, d)
		}
	case RefActorGroup, RefTargetGroup:
		e := ctx.Actor
		if g.ref == RefTargetGroup {
			e = ctx.Target
		}
		if e != nil && e.GroupID != model.NoGroup {
			ctx.Stats.GroupAdd(e.GroupID, g.stat, d)
		}
	}
}
