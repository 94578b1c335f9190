package scenario

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gridvale.ai/internal/sim/behavior"
	"gridvale.ai/internal/sim/model"
)

var (
	scenarioPath = filepath.Join("..", "..", "..", "configs", "scenario.yaml")
	schemaPath   = filepath.Join("..", "..", "..", "schemas", "scenario.schema.json")
)

func newServices() behavior.Services {
	svc := behavior.Services{
		Tags:   behavior.NewTagIndex(),
		Grid:   model.NewGrid(),
		Stats:  model.NewStats(),
		Groups: model.NewGroups(),
		RNG:    rand.New(rand.NewSource(1)),
	}
	svc.Queries = behavior.NewQuerySystem(svc, nil)
	return svc
}

func TestSeedShippedScenario(t *testing.T) {
	sc, err := Load(scenarioPath, schemaPath)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	svc := newServices()
	limits := &model.Limits{DefaultMax: 100, Max: map[string]int{"heart": 10}}
	if err := sc.Seed(svc, limits); err != nil {
		t.Fatalf("%+v", err)
	}

	if len(svc.Grid.All()) != 5 {
		t.Fatalf("entities = %d", len(svc.Grid.All()))
	}
	a1 := svc.Grid.Get("a1")
	if a1 == nil || a1.GroupID != 0 || a1.Inventory.Amount("ore") != 60 {
		t.Fatalf("a1 = %+v", a1)
	}
	if svc.Groups.Get(1) == nil {
		t.Fatal("group 1 not registered")
	}
	citizens := svc.Tags.ObjectsWith("citizen")
	if len(citizens) != 4 {
		t.Fatalf("citizens = %d", len(citizens))
	}
	// Lifecycle triggers stay quiet during seeding: a5 starts blessed but
	// its heart stock is exactly what the scenario says.
	a5 := svc.Grid.Get("a5")
	if got := a5.Inventory.Amount("heart"); got != 3 {
		t.Fatalf("a5 heart = %d", got)
	}
}

func TestSeedRejectsUnknownGroup(t *testing.T) {
	g := 9
	sc := &Scenario{Entities: []EntityDef{{ID: "x", Group: &g}}}
	svc := newServices()
	if err := sc.Seed(svc, &model.Limits{DefaultMax: 10}); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRejectsMalformedScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	doc := []byte("entities:\n  - id: a1\n    pos: [1]\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := Load(path, schemaPath); err == nil {
		t.Fatal("expected schema violation")
	}
}
