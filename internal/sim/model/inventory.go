package model

import "sort"

// Modifier declares that holding a resource raises the cap of another one,
// PerUnit extra capacity per unit held.
type Modifier struct {
	Resource string `yaml:"resource" json:"resource"`
	PerUnit  int    `yaml:"per_unit" json:"per_unit"`
}

// Limits is the shared per-world resource capacity table.
type Limits struct {
	DefaultMax int                 `yaml:"default_max" json:"default_max"`
	Max        map[string]int      `yaml:"max" json:"max"`
	Modifiers  map[string]Modifier `yaml:"modifiers" json:"modifiers"`
}

// IsModifier reports whether holding res changes some other resource's cap.
// Modifier resources must never be batched behind a deferred accumulator:
// their ordering relative to clamping is load-bearing.
func (l *Limits) IsModifier(res string) bool {
	if l == nil {
		return false
	}
	_, ok := l.Modifiers[res]
	return ok
}

type Inventory struct {
	amounts map[string]int
	limits  *Limits
}

func NewInventory(limits *Limits) *Inventory {
	return &Inventory{amounts: map[string]int{}, limits: limits}
}

func (v *Inventory) Amount(res string) int {
	if v == nil {
		return 0
	}
	return v.amounts[res]
}

// Resources returns the held resource ids in sorted order for deterministic
// iteration.
func (v *Inventory) Resources() []string {
	if v == nil {
		return nil
	}
	ids := make([]string, 0, len(v.amounts))
	for id := range v.amounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (v *Inventory) limitFor(res string) int {
	if v.limits == nil {
		return int(^uint(0) >> 1)
	}
	max, ok := v.limits.Max[res]
	if !ok {
		max = v.limits.DefaultMax
		if max <= 0 {
			max = int(^uint(0) >> 1)
		}
	}
	for modRes, mod := range v.limits.Modifiers {
		if mod.Resource == res {
			max += mod.PerUnit * v.amounts[modRes]
		}
	}
	if max < 0 {
		max = 0
	}
	return max
}

// Update applies delta to res, clamping the result to [0, limit], and
// returns the delta actually applied. Zero entries are dropped.
func (v *Inventory) Update(res string, delta int) int {
	if v == nil || res == "" || delta == 0 {
		return 0
	}
	cur := v.amounts[res]
	next := cur + delta
	if next < 0 {
		next = 0
	}
	if lim := v.limitFor(res); next > lim {
		next = lim
	}
	if next == cur {
		return 0
	}
	if next == 0 {
		delete(v.amounts, res)
	} else {
		v.amounts[res] = next
	}
	return next - cur
}

// IsModifier reports whether res alters another resource's cap in this
// inventory's limit table.
func (v *Inventory) IsModifier(res string) bool {
	if v == nil {
		return false
	}
	return v.limits.IsModifier(res)
}

func (v *Inventory) Empty() bool {
	return v == nil || len(v.amounts) == 0
}

// Clear removes the listed resources, or everything when none are listed.
func (v *Inventory) Clear(resources ...string) {
	if v == nil {
		return
	}
	if len(resources) == 0 {
		v.amounts = map[string]int{}
		return
	}
	for _, res := range resources {
		delete(v.amounts, res)
	}
}
