// Package storage persists the task collection to a single JSON slot file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskpad/internal/task"
)

// ErrCorruptData marks a slot file that exists but does not hold a valid
// task array. Load swallows it (empty-collection fallback); LoadStrict
// surfaces it so callers like doctor can tell first-run from damage.
var ErrCorruptData = errors.New("slot data is corrupt")

// slotSchema validates the persisted form: an array of task objects.
const slotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string", "minLength": 1},
      "completed": {"type": "boolean"}
    },
    "additionalProperties": false
  }
}`

// Adapter reads and writes the named slot file.
type Adapter struct {
	Path   string
	schema *jsonschema.Schema
}

// New creates an adapter for the slot at path. The schema is compiled once;
// an external schema file, when given, overrides the built-in one.
func New(path, schemaFile string) (*Adapter, error) {
	compiler := jsonschema.NewCompiler()

	if schemaFile != "" {
		schema, err := compiler.Compile(schemaFile)
		if err != nil {
			return nil, fmt.Errorf("compile schema file %s: %w", schemaFile, err)
		}
		return &Adapter{Path: path, schema: schema}, nil
	}

	if err := compiler.AddResource("tasks.schema.json", strings.NewReader(slotSchema)); err != nil {
		return nil, fmt.Errorf("add built-in schema: %w", err)
	}
	schema, err := compiler.Compile("tasks.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile built-in schema: %w", err)
	}
	return &Adapter{Path: path, schema: schema}, nil
}

// Load reads the slot and returns the task collection. A missing, unreadable,
// or structurally incompatible slot yields an empty collection, never an
// error: first run and corrupted state are deliberately indistinguishable.
func (a *Adapter) Load() ([]task.Task, error) {
	tasks, err := a.LoadStrict()
	if errors.Is(err, ErrCorruptData) {
		return []task.Task{}, nil
	}
	return tasks, err
}

// LoadStrict reads the slot but reports ErrCorruptData when the file exists
// and cannot be interpreted as a task array. A missing slot is still empty,
// not an error.
func (a *Adapter) LoadStrict() ([]task.Task, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("read slot file: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if err := a.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// Save overwrites the slot with the full collection, 2-space indented with
// a trailing newline.
func (a *Adapter) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(a.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create slot dir: %w", err)
		}
	}
	if err := os.WriteFile(a.Path, data, 0644); err != nil {
		return fmt.Errorf("write slot file: %w", err)
	}
	return nil
}
