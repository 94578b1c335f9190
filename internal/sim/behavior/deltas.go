package behavior

import "gridvale.ai/internal/sim/model"

type deltaKey struct {
	holder   string
	resource string
}

// DeltaAccumulator collapses several resource deltas against the same
// holder into a single net update, so a +50 heal followed by a -30 hit
// clamps once on the net +20 instead of twice.
type DeltaAccumulator struct {
	net     map[deltaKey]int
	order   []deltaKey
	holders map[string]model.Holder
}

func NewDeltaAccumulator() *DeltaAccumulator {
	return &DeltaAccumulator{
		net:     map[deltaKey]int{},
		holders: map[string]model.Holder{},
	}
}

func (a *DeltaAccumulator) Add(h model.Holder, resource string, delta int) {
	if a == nil || h == nil || resource == "" || delta == 0 {
		return
	}
	k := deltaKey{holder: h.HolderID(), resource: resource}
	if _, seen := a.net[k]; !seen {
		a.order = append(a.order, k)
		a.holders[k.holder] = h
	}
	a.net[k] += delta
}

// Flush applies the accumulated net deltas in first-seen order and resets
// the accumulator.
func (a *DeltaAccumulator) Flush() {
	if a == nil {
		return
	}
	for _, k := range a.order {
		if d := a.net[k]; d != 0 {
			a.holders[k.holder].Inv().Update(k.resource, d)
		}
	}
	a.net = map[deltaKey]int{}
	a.order = a.order[:0]
	a.holders = map[string]model.Holder{}
}
