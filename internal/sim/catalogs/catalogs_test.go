package catalogs

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gridvale.ai/internal/sim/behavior"
	"gridvale.ai/internal/sim/model"
)

var (
	configDir = filepath.Join("..", "..", "..", "configs")
	schemaDir = filepath.Join("..", "..", "..", "schemas")
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

func TestLoadShippedCatalogs(t *testing.T) {
	c, err := Load(configDir, schemaDir)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if c.Resources.Limits.DefaultMax != 100 {
		t.Fatalf("default_max = %d", c.Resources.Limits.DefaultMax)
	}
	if c.Resources.Limits.Max["heart"] != 10 {
		t.Fatalf("heart cap = %d", c.Resources.Limits.Max["heart"])
	}
	if len(c.Tags.Tags) == 0 || len(c.Tags.Materialized) == 0 {
		t.Fatalf("tags catalog incomplete: %+v", c.Tags)
	}
	if len(c.Handlers.Handlers) == 0 || len(c.Events.Events) == 0 {
		t.Fatal("handlers/events catalogs empty")
	}
	for _, cat := range []string{c.Resources.Digest, c.Tags.Digest, c.Handlers.Digest, c.Events.Digest} {
		if len(cat) != 64 {
			t.Fatalf("bad digest %q", cat)
		}
	}
}

func TestBuildShippedCatalogs(t *testing.T) {
	c, err := Load(configDir, schemaDir)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	svc := newServices()
	rt, err := Build(c, svc)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for _, name := range []string{"trade", "raid", "recruit"} {
		if rt.Handlers[name] == nil {
			t.Fatalf("handler %q not built", name)
		}
	}
	if rt.Scheduler.Event("tithe") == nil {
		t.Fatal("tithe event not built")
	}
	if !svc.Queries.Has("wealthy") {
		t.Fatal("materialized tag not registered")
	}
}

func TestMissingOptionalCatalogs(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join(configDir, "resources.yaml"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "resources.yaml"), src, 0o644); err != nil {
		t.Fatalf("%+v", err)
	}
	c, err := Load(dir, schemaDir)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(c.Tags.Tags) != 0 || len(c.Handlers.Handlers) != 0 || len(c.Events.Events) != 0 {
		t.Fatalf("optional catalogs not empty: %+v", c)
	}
}

func TestSchemaRejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	bad := []byte("default_max: plenty\n")
	if err := os.WriteFile(filepath.Join(dir, "resources.yaml"), bad, 0o644); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := Load(dir, schemaDir); err == nil {
		t.Fatal("expected schema violation")
	}
}

func TestBuildRejectsUnknownFallback(t *testing.T) {
	c, err := Load(configDir, schemaDir)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	c.Events.Events = append(c.Events.Events, behavior.EventConfig{
		Name:      "orphan",
		TargetTag: "citizen",
		Fallback:  "no-such-event",
	})
	if _, err := Build(c, newServices()); err == nil {
		t.Fatal("expected link error")
	}
}
