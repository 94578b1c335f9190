package behavior

import (
	"math/rand"
	"testing"
)

func TestEvent_BoundedShuffledTargets(t *testing.T) {
	env := newTestEnv(7)
	env.svc.RNG = rand.New(rand.NewSource(7))
	for _, id := range []string{"A1", "A2", "A3", "A4", "A5"} {
		env.spawn(id, 0, 0, "villager")
	}

	ev, err := NewEvent(EventConfig{
		Name: "ration", TargetTag: "villager", MaxTargets: 2,
		Mutations: []MutationConfig{
			{Kind: MutationResourceDelta, Resource: "bread", Delta: 1},
		},
	})
	if err != nil {
		t.Fatalf("event: %v", err)
	}

	if got := ev.Execute(env.svc.NewContext(5)); got != 2 {
		t.Fatalf("affected = %d, want 2", got)
	}
	fed := 0
	for _, e := range env.svc.Grid.All() {
		if e.Inventory.Amount("bread") > 0 {
			fed++
		}
	}
	if fed != 2 {
		t.Fatalf("%d distinct villagers fed, want 2", fed)
	}
}

func TestEvent_FallbackRunsOnZeroTargets(t *testing.T) {
	env := newTestEnv(1)
	env.spawn("A1", 0, 0, "reserve")

	cfgs := []EventConfig{
		{
			Name: "main", TargetTag: "ghost", Fallback: "backup",
			Mutations: []MutationConfig{{Kind: MutationResourceDelta, Resource: "x", Delta: 1}},
			Schedule:  []uint64{1},
		},
		{
			Name: "backup", TargetTag: "reserve",
			Mutations: []MutationConfig{{Kind: MutationResourceDelta, Resource: "y", Delta: 1}},
		},
	}
	s, err := NewEventScheduler(cfgs, env.svc)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}

	if got := s.Event("main").Execute(env.svc.NewContext(1)); got != 1 {
		t.Fatalf("fallback affected = %d, want 1", got)
	}
	if env.svc.Grid.Get("A1").Inventory.Amount("y") != 1 {
		t.Fatalf("fallback mutation did not land")
	}
}

func TestEvent_FilteredCandidatesDoNotCountAffected(t *testing.T) {
	env := newTestEnv(1)
	a := env.spawn("A1", 0, 0, "villager")
	env.spawn("A2", 1, 0, "villager")
	a.Inventory.Update("coin", 5)

	ev, err := NewEvent(EventConfig{
		Name: "tax", TargetTag: "villager",
		Filters: []FilterConfig{
			{Kind: FilterResource, Entity: "target", Resource: "coin", Min: 1},
		},
		Mutations: []MutationConfig{
			{Kind: MutationResourceDelta, Resource: "coin", Delta: -1},
		},
	})
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if got := ev.Execute(env.svc.NewContext(0)); got != 1 {
		t.Fatalf("affected = %d, want 1 (only the coin holder)", got)
	}
}

func TestEventScheduler_FiresDueEntriesOnceInOrder(t *testing.T) {
	env := newTestEnv(11)
	env.svc.RNG = rand.New(rand.NewSource(11))
	for _, id := range []string{"A1", "A2", "A3", "A4", "A5"} {
		env.spawn(id, 0, 0, "villager")
	}

	cfgs := []EventConfig{{
		Name: "ration", TargetTag: "villager", MaxTargets: 2,
		Mutations: []MutationConfig{
			{Kind: MutationResourceDelta, Resource: "bread", Delta: 1},
		},
		Schedule: []uint64{5, 10, 15},
	}}
	s, err := NewEventScheduler(cfgs, env.svc)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}

	if got := s.ProcessTimestep(4); got != 0 {
		t.Fatalf("fired %d before first timestep", got)
	}
	if got := s.ProcessTimestep(5); got != 1 {
		t.Fatalf("fired %d at t=5, want 1", got)
	}
	// Already-passed timesteps never re-fire.
	if got := s.ProcessTimestep(5); got != 0 {
		t.Fatalf("re-fired %d at repeated t=5", got)
	}
	// Jumping past several due entries fires each exactly once.
	if got := s.ProcessTimestep(20); got != 2 {
		t.Fatalf("fired %d catching up to t=20, want 2", got)
	}
	if got := s.ProcessTimestep(100); got != 0 {
		t.Fatalf("exhausted schedule fired %d", got)
	}

	total := 0
	for _, e := range env.svc.Grid.All() {
		total += e.Inventory.Amount("bread")
	}
	if total != 6 {
		t.Fatalf("total bread = %d, want 6 (2 per firing, 3 firings)", total)
	}
}

func TestEventScheduler_EqualTimestepsFireInConstructionOrder(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0, "villager")

	cfgs := []EventConfig{
		{
			Name: "grant", TargetTag: "villager",
			Mutations: []MutationConfig{{Kind: MutationResourceDelta, Resource: "wood", Delta: 3}},
			Schedule:  []uint64{5},
		},
		{
			// Consumes what "grant" produced at the same timestep.
			Name: "consume", TargetTag: "villager",
			Filters: []FilterConfig{
				{Kind: FilterResource, Entity: "target", Resource: "wood", Min: 3},
			},
			Mutations: []MutationConfig{{Kind: MutationResourceDelta, Resource: "wood", Delta: -3}},
			Schedule:  []uint64{5},
		},
	}
	s, err := NewEventScheduler(cfgs, env.svc)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	if got := s.ProcessTimestep(5); got != 2 {
		t.Fatalf("fired %d, want both events (construction order at equal timestep)", got)
	}
	if got := target.Inventory.Amount("wood"); got != 0 {
		t.Fatalf("wood = %d, want 0 after grant-then-consume", got)
	}
}

func TestEventScheduler_RejectsUnknownFallback(t *testing.T) {
	env := newTestEnv(1)
	_, err := NewEventScheduler([]EventConfig{
		{Name: "main", TargetTag: "x", Fallback: "nonesuch"},
	}, env.svc)
	if err == nil {
		t.Fatalf("unknown fallback compiled, want configuration error")
	}
}
