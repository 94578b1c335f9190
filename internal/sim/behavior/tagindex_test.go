package behavior

import "testing"

func TestTagIndex_AddIsIdempotent(t *testing.T) {
	env := newTestEnv(1)
	e := env.spawn("A1", 0, 0)
	ctx := env.ctx(nil, e)

	fires := 0
	env.svc.Tags.SetLifecycle("marked", &TagLifecycle{
		OnAdd: []Mutation{mutationFunc(func(*Context) { fires++ })},
	})

	env.svc.Tags.Add(e, "marked", ctx)
	if got := env.svc.Tags.CountValue("marked"); got != 1 {
		t.Fatalf("count after add = %d, want 1", got)
	}
	if fires != 1 {
		t.Fatalf("lifecycle fired %d times, want 1", fires)
	}

	// Second add must not change the count or re-fire effects.
	env.svc.Tags.Add(e, "marked", ctx)
	if got := env.svc.Tags.CountValue("marked"); got != 1 {
		t.Fatalf("count after duplicate add = %d, want 1", got)
	}
	if fires != 1 {
		t.Fatalf("duplicate add re-fired lifecycle: %d", fires)
	}
}

func TestTagIndex_RemoveAbsentAndNilAreNoops(t *testing.T) {
	env := newTestEnv(1)
	e := env.spawn("A1", 0, 0)
	ctx := env.ctx(nil, e)

	env.svc.Tags.Remove(e, "never-had", ctx)
	env.svc.Tags.Add(nil, "marked", ctx)
	env.svc.Tags.Remove(nil, "marked", ctx)
	if got := env.svc.Tags.CountValue("marked"); got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
}

func TestTagIndex_CounterHandleIsLive(t *testing.T) {
	env := newTestEnv(1)
	ctx := env.svc.NewContext(0)

	counter := env.svc.Tags.Count("ore")
	if counter.Value() != 0 {
		t.Fatalf("fresh counter = %d", counter.Value())
	}

	a := env.spawn("A1", 0, 0)
	b := env.spawn("A2", 1, 1)
	env.svc.Tags.Add(a, "ore", ctx)
	env.svc.Tags.Add(b, "ore", ctx)
	if counter.Value() != 2 {
		t.Fatalf("counter after two adds = %d, want 2", counter.Value())
	}
	env.svc.Tags.Remove(a, "ore", ctx)
	if counter.Value() != 1 {
		t.Fatalf("counter after remove = %d, want 1", counter.Value())
	}
}

func TestTagIndex_SuppressTriggersStopsCascade(t *testing.T) {
	env := newTestEnv(1)
	e := env.spawn("A1", 0, 0)

	fires := 0
	env.svc.Tags.SetLifecycle("marked", &TagLifecycle{
		OnAdd: []Mutation{mutationFunc(func(*Context) { fires++ })},
	})

	ctx := env.ctx(nil, e)
	ctx.SuppressTriggers = true
	env.svc.Tags.Add(e, "marked", ctx)
	if fires != 0 {
		t.Fatalf("suppressed add still fired lifecycle %d times", fires)
	}
	if got := env.svc.Tags.CountValue("marked"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
}

func TestTagIndex_LifecycleCascadeDepthOne(t *testing.T) {
	env := newTestEnv(1)
	e := env.spawn("A1", 0, 0)

	// Gaining "burning" grants "scorched"; the scorched list re-enters tag
	// mutation with suppression on, so the cascade stops at depth one.
	env.svc.Tags.SetLifecycle("burning", &TagLifecycle{
		OnAdd: []Mutation{mutationFunc(func(c *Context) {
			sctx := *c
			sctx.SuppressTriggers = true
			c.Tags.Add(c.Target, "scorched", &sctx)
		})},
	})
	deep := 0
	env.svc.Tags.SetLifecycle("scorched", &TagLifecycle{
		OnAdd: []Mutation{mutationFunc(func(*Context) { deep++ })},
	})

	env.svc.Tags.Add(e, "burning", env.ctx(nil, e))
	if !e.HasTag("scorched") {
		t.Fatalf("cascade did not apply scorched")
	}
	if deep != 0 {
		t.Fatalf("suppressed cascade fired depth-two effects %d times", deep)
	}
}

// mutationFunc adapts a func to Mutation for lifecycle probes.
type mutationFunc func(*Context)

func (f mutationFunc) Apply(ctx *Context) { f(ctx) }
