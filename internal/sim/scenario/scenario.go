package scenario

import (
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"gridvale.ai/internal/sim/behavior"
	"gridvale.ai/internal/sim/model"
)

// Scenario is the initial population of a run: groups, then entities
// with their starting positions, alignments, stock and tags.
type Scenario struct {
	Groups   []GroupDef  `yaml:"groups"`
	Entities []EntityDef `yaml:"entities"`
}

type GroupDef struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

type EntityDef struct {
	ID        string         `yaml:"id" json:"id"`
	Pos       [2]int         `yaml:"pos" json:"pos"`
	Vibe      int            `yaml:"vibe,omitempty" json:"vibe,omitempty"`
	Group     *int           `yaml:"group,omitempty" json:"group,omitempty"`
	Inventory map[string]int `yaml:"inventory,omitempty" json:"inventory,omitempty"`
	Tags      []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
}

func Load(path, schemaPath string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("scenario schema: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}

// Seed populates the services from the scenario. Initial tags go through
// the tag index with lifecycle triggers suppressed: the starting state is
// a given, not a sequence of occurrences.
func (sc *Scenario) Seed(svc behavior.Services, limits *model.Limits) error {
	for _, gd := range sc.Groups {
		if gd.ID < 0 {
			return fmt.Errorf("group %d: negative id", gd.ID)
		}
		svc.Groups.Put(&model.Group{ID: gd.ID, Name: gd.Name, Inventory: model.NewInventory(limits)})
	}

	ctx := svc.NewContext(0)
	ctx.SuppressTriggers = true
	for _, ed := range sc.Entities {
		if ed.ID == "" {
			return fmt.Errorf("entity with empty id")
		}
		if svc.Grid.Get(ed.ID) != nil {
			return fmt.Errorf("entity %q: duplicate id", ed.ID)
		}
		e := model.NewEntity(ed.ID, model.Vec2i{X: ed.Pos[0], Y: ed.Pos[1]}, limits)
		e.Vibe = ed.Vibe
		if ed.Group != nil {
			if svc.Groups.Get(*ed.Group) == nil {
				return fmt.Errorf("entity %q: unknown group %d", ed.ID, *ed.Group)
			}
			e.GroupID = *ed.Group
		}
		svc.Grid.Add(e)
		for res, n := range ed.Inventory {
			e.Inventory.Update(res, n)
		}
		for _, tag := range ed.Tags {
			svc.Tags.Add(e, tag, ctx)
		}
	}
	return nil
}
