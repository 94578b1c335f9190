package behavior

import (
	"math/rand"

	"gridvale.ai/internal/sim/model"
)

type testEnv struct {
	svc    Services
	limits *model.Limits
}

func newTestEnv(seed int64) *testEnv {
	env := &testEnv{
		limits: &model.Limits{
			DefaultMax: 100,
			Max:        map[string]int{"heart": 10},
			Modifiers: map[string]model.Modifier{
				"pack": {Resource: "ore", PerUnit: 5},
			},
		},
	}
	env.svc = Services{
		Tags:   NewTagIndex(),
		Grid:   model.NewGrid(),
		Stats:  model.NewStats(),
		Groups: model.NewGroups(),
		RNG:    rand.New(rand.NewSource(seed)),
	}
	env.svc.Queries = NewQuerySystem(env.svc, nil)
	return env
}

func (env *testEnv) spawn(id string, x, y int, tags ...string) *model.Entity {
	e := model.NewEntity(id, model.Vec2i{X: x, Y: y}, env.limits)
	env.svc.Grid.Add(e)
	ctx := env.svc.NewContext(0)
	for _, tag := range tags {
		env.svc.Tags.Add(e, tag, ctx)
	}
	return e
}

func (env *testEnv) ctx(actor, target *model.Entity) *Context {
	c := env.svc.NewContext(0)
	c.Actor = actor
	c.Target = target
	return c
}

func mustFilter(cfg FilterConfig) Filter {
	f, err := CompileFilter(cfg)
	if err != nil {
		panic(err)
	}
	return f
}

func mustMutations(cfgs ...MutationConfig) []Mutation {
	ms, err := CompileMutations(cfgs)
	if err != nil {
		panic(err)
	}
	return ms
}

func mustQuery(cfg *QueryConfig) Query {
	q, err := CompileQuery(cfg)
	if err != nil {
		panic(err)
	}
	return q
}

func f64(v float64) *float64 { return &v }
