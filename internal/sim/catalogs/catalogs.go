package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"gridvale.ai/internal/sim/behavior"
	"gridvale.ai/internal/sim/model"
)

// Catalogs holds the decoded behavior configuration: resource limits, tag
// lifecycles and materialized query tags, handlers, and scheduled events.
// Every document is schema-validated before decoding; a malformed catalog
// never reaches the compile stage.
type Catalogs struct {
	Resources ResourceCatalog
	Tags      TagCatalog
	Handlers  HandlerCatalog
	Events    EventCatalog
}

type ResourceCatalog struct {
	Limits model.Limits
	Digest string
}

type TagDef struct {
	Tag      string                    `yaml:"tag" json:"tag"`
	OnAdd    []behavior.MutationConfig `yaml:"on_add,omitempty" json:"on_add,omitempty"`
	OnRemove []behavior.MutationConfig `yaml:"on_remove,omitempty" json:"on_remove,omitempty"`
}

type MaterializedDef struct {
	Tag   string               `yaml:"tag" json:"tag"`
	Query behavior.QueryConfig `yaml:"query" json:"query"`
}

type TagCatalog struct {
	Tags         []TagDef
	Materialized []MaterializedDef
	Digest       string
}

type HandlerCatalog struct {
	Handlers []behavior.HandlerConfig
	Digest   string
}

type EventCatalog struct {
	Events []behavior.EventConfig
	Digest string
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// loadValidated reads a YAML document, validates it against its schema,
// and decodes it into out. Returns the raw bytes for digesting.
func loadValidated(path, schemaPath string, out any) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(schemaPath), err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

// Load reads and validates every catalog document under configDir using
// the schemas under schemaDir. Missing tags/handlers/events documents are
// tolerated as empty catalogs; resources.yaml is required.
func Load(configDir, schemaDir string) (*Catalogs, error) {
	var c Catalogs

	raw, err := loadValidated(
		filepath.Join(configDir, "resources.yaml"),
		filepath.Join(schemaDir, "resources.schema.json"),
		&c.Resources.Limits,
	)
	if err != nil {
		return nil, err
	}
	c.Resources.Digest = sha256Hex(raw)

	var tagDoc struct {
		Tags         []TagDef          `yaml:"tags"`
		Materialized []MaterializedDef `yaml:"materialized"`
	}
	raw, err = loadValidated(
		filepath.Join(configDir, "tags.yaml"),
		filepath.Join(schemaDir, "tags.schema.json"),
		&tagDoc,
	)
	switch {
	case os.IsNotExist(err):
		c.Tags.Digest = sha256Hex(nil)
	case err != nil:
		return nil, err
	default:
		c.Tags.Tags = tagDoc.Tags
		c.Tags.Materialized = tagDoc.Materialized
		c.Tags.Digest = sha256Hex(raw)
	}

	var handlerDoc struct {
		Handlers []behavior.HandlerConfig `yaml:"handlers"`
	}
	raw, err = loadValidated(
		filepath.Join(configDir, "handlers.yaml"),
		filepath.Join(schemaDir, "handlers.schema.json"),
		&handlerDoc,
	)
	switch {
	case os.IsNotExist(err):
		c.Handlers.Digest = sha256Hex(nil)
	case err != nil:
		return nil, err
	default:
		c.Handlers.Handlers = handlerDoc.Handlers
		c.Handlers.Digest = sha256Hex(raw)
	}

	var eventDoc struct {
		Events []behavior.EventConfig `yaml:"events"`
	}
	raw, err = loadValidated(
		filepath.Join(configDir, "events.yaml"),
		filepath.Join(schemaDir, "events.schema.json"),
		&eventDoc,
	)
	switch {
	case os.IsNotExist(err):
		c.Events.Digest = sha256Hex(nil)
	case err != nil:
		return nil, err
	default:
		c.Events.Events = eventDoc.Events
		c.Events.Digest = sha256Hex(raw)
	}

	return &c, nil
}
