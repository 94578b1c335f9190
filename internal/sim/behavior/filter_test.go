package behavior

import "testing"

func TestNegFilter_NegatesConjunctionNotEachFilter(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0)
	target.Inventory.Update("resource1", 5)
	// resource0 stays 0.

	neg := mustFilter(FilterConfig{Kind: FilterNeg, Inner: []FilterConfig{
		{Kind: FilterResource, Resource: "resource0", Min: 1},
		{Kind: FilterResource, Resource: "resource1", Min: 1},
	}})

	// A is false, B is true: NOT(A AND B) passes, NOT(A) AND NOT(B) would
	// not.
	if !neg.Passes(env.ctx(nil, target)) {
		t.Fatalf("Neg{A,B} should pass when only one of A,B holds")
	}

	target.Inventory.Update("resource0", 3)
	if neg.Passes(env.ctx(nil, target)) {
		t.Fatalf("Neg{A,B} should fail when both hold")
	}
}

func TestNegFilter_EmptyInnerNeverPasses(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0)

	// Empty conjunction is vacuously true, so its negation is false.
	neg := mustFilter(FilterConfig{Kind: FilterNeg})
	if neg.Passes(env.ctx(nil, target)) {
		t.Fatalf("Neg{} should never pass")
	}
}

func TestOrFilter(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0)
	target.Inventory.Update("wood", 2)

	or := mustFilter(FilterConfig{Kind: FilterOr, Inner: []FilterConfig{
		{Kind: FilterResource, Resource: "stone", Min: 1},
		{Kind: FilterResource, Resource: "wood", Min: 1},
	}})
	if !or.Passes(env.ctx(nil, target)) {
		t.Fatalf("Or should pass when one branch holds")
	}

	target.Inventory.Clear()
	if or.Passes(env.ctx(nil, target)) {
		t.Fatalf("Or should fail when no branch holds")
	}

	empty := mustFilter(FilterConfig{Kind: FilterOr})
	if empty.Passes(env.ctx(nil, target)) {
		t.Fatalf("Or{} should never pass")
	}
}

func TestAlignmentFilter(t *testing.T) {
	env := newTestEnv(1)
	actor := env.spawn("A1", 0, 0)
	target := env.spawn("A2", 1, 0)
	actor.GroupID = 3
	target.GroupID = 3

	same := mustFilter(FilterConfig{Kind: FilterAlignment, Relation: AlignSameGroup})
	diff := mustFilter(FilterConfig{Kind: FilterAlignment, Relation: AlignDifferentGroup})
	aligned := mustFilter(FilterConfig{Kind: FilterAlignment, Relation: AlignAligned})
	unaligned := mustFilter(FilterConfig{Kind: FilterAlignment, Relation: AlignUnaligned})
	gid := 3
	specific := mustFilter(FilterConfig{Kind: FilterAlignment, Relation: AlignGroup, GroupID: &gid})

	ctx := env.ctx(actor, target)
	if !same.Passes(ctx) || diff.Passes(ctx) {
		t.Fatalf("same-group pair misclassified")
	}
	if !aligned.Passes(ctx) || unaligned.Passes(ctx) {
		t.Fatalf("aligned target misclassified")
	}
	if !specific.Passes(ctx) {
		t.Fatalf("specific group 3 should match")
	}

	target.GroupID = 7
	if same.Passes(ctx) || !diff.Passes(ctx) {
		t.Fatalf("different-group pair misclassified")
	}
}

func TestNearFilter_ChebyshevRadiusAndInnerFilters(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0)
	near := env.spawn("A2", 2, -2, "beacon") // Chebyshev 2
	far := env.spawn("A3", 5, 0, "beacon")   // Chebyshev 5
	near.Inventory.Update("fuel", 1)
	far.Inventory.Update("fuel", 1)

	f := mustFilter(FilterConfig{Kind: FilterNear, Tag: "beacon", Radius: 2, Inner: []FilterConfig{
		{Kind: FilterResource, Resource: "fuel", Min: 1},
	}})
	if !f.Passes(env.ctx(nil, target)) {
		t.Fatalf("fueled beacon at distance 2 should pass radius 2")
	}

	near.Inventory.Clear()
	if f.Passes(env.ctx(nil, target)) {
		t.Fatalf("unfueled near beacon should fail inner filters; far one is out of radius")
	}
}

func TestNearFilter_SkipsTestedEntity(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0, "beacon")

	f := mustFilter(FilterConfig{Kind: FilterNear, Tag: "beacon", Radius: 3})
	if f.Passes(env.ctx(nil, target)) {
		t.Fatalf("an entity must not satisfy Near via itself")
	}
}

func TestMaxDistanceFilter(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0)
	env.spawn("A2", 4, 4, "totem")

	within := mustFilter(FilterConfig{
		Kind: FilterMaxDistance, Radius: 4,
		Query: &QueryConfig{Kind: QueryTag, Tag: "totem"},
	})
	if !within.Passes(env.ctx(nil, target)) {
		t.Fatalf("totem at Chebyshev 4 should pass radius 4")
	}

	tight := mustFilter(FilterConfig{
		Kind: FilterMaxDistance, Radius: 3,
		Query: &QueryConfig{Kind: QueryTag, Tag: "totem"},
	})
	if tight.Passes(env.ctx(nil, target)) {
		t.Fatalf("totem at Chebyshev 4 should fail radius 3")
	}

	// Radius 0 means any distance.
	unlimited := mustFilter(FilterConfig{
		Kind: FilterMaxDistance,
		Query: &QueryConfig{Kind: QueryTag, Tag: "totem"},
	})
	if !unlimited.Passes(env.ctx(nil, target)) {
		t.Fatalf("radius 0 should accept any query result")
	}

	none := mustFilter(FilterConfig{
		Kind: FilterMaxDistance,
		Query: &QueryConfig{Kind: QueryTag, Tag: "ghost"},
	})
	if none.Passes(env.ctx(nil, target)) {
		t.Fatalf("empty source query should never pass")
	}
}

func TestScalarFilter_TagCountThreshold(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0)
	env.spawn("A2", 1, 0, "member")
	env.spawn("A3", 2, 0, "member")

	f := mustFilter(FilterConfig{
		Kind:     FilterScalar,
		Value:    &GameValueConfig{Kind: GameValueTagCount, Tag: "member"},
		MinValue: f64(2),
	})
	if !f.Passes(env.ctx(nil, target)) {
		t.Fatalf("tag count 2 should satisfy min 2")
	}

	three := mustFilter(FilterConfig{
		Kind:     FilterScalar,
		Value:    &GameValueConfig{Kind: GameValueTagCount, Tag: "member"},
		MinValue: f64(3),
	})
	if three.Passes(env.ctx(nil, target)) {
		t.Fatalf("tag count 2 should fail min 3")
	}
}

func TestTagPrefixFilter_SharedTag(t *testing.T) {
	env := newTestEnv(1)
	actor := env.spawn("A1", 0, 0, "org:red")
	target := env.spawn("A2", 1, 0, "org:red")
	other := env.spawn("A3", 2, 0, "org:blue")

	f := mustFilter(FilterConfig{Kind: FilterTagPrefix, Prefix: "org:"})
	if !f.Passes(env.ctx(actor, target)) {
		t.Fatalf("same org tag should pass")
	}
	if f.Passes(env.ctx(actor, other)) {
		t.Fatalf("different org tags must not pass")
	}
}

func TestVibeAndTagFilters(t *testing.T) {
	env := newTestEnv(1)
	target := env.spawn("A1", 0, 0, "member")
	target.Vibe = 2

	if !mustFilter(FilterConfig{Kind: FilterVibe, Vibe: 2}).Passes(env.ctx(nil, target)) {
		t.Fatalf("vibe 2 should match")
	}
	if mustFilter(FilterConfig{Kind: FilterVibe, Vibe: 3}).Passes(env.ctx(nil, target)) {
		t.Fatalf("vibe 3 should not match")
	}
	if !mustFilter(FilterConfig{Kind: FilterTag, Tag: "member"}).Passes(env.ctx(nil, target)) {
		t.Fatalf("tag filter should match carried tag")
	}
}

func TestCompileFilter_RejectsMalformedConfig(t *testing.T) {
	cases := []FilterConfig{
		{Kind: FilterResource},                         // no resource
		{Kind: FilterAlignment, Relation: "friendly"},  // unknown relation
		{Kind: FilterAlignment, Relation: AlignGroup},  // group without id
		{Kind: FilterMaxDistance},                      // nil query
		{Kind: FilterScalar},                           // no value source
		{Kind: FilterKind("???")},                      // unknown kind
		{Kind: FilterNear, Tag: "beacon", Radius: -1},  // negative radius
	}
	for i, cfg := range cases {
		if _, err := CompileFilter(cfg); err == nil {
			t.Fatalf("case %d: malformed config compiled", i)
		}
	}
}
