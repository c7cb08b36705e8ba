// Package production provides production integrations for the SSM
// runtime: snapshot persistence, trace storage, visualization, and
// commit-event publishing — all implemented as core.Tracer/consumer
// adapters that observe a running Scheduler without influencing it.
package production

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChannelSnapshot is a point-in-time dump of one channel's field values,
// keyed by channel name. Generalized from the teacher's MachineSnapshot
// persistence shape (one JSON/YAML blob per named entity) to channel
// field tables instead of machine state trees.
type ChannelSnapshot struct {
	Name   string         `json:"name" yaml:"name"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// JSONPersister is a stdlib-only file-based persister using JSON
// serialization, one file per channel.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

// Save writes snapshot to <dir>/<name>.json.
func (p *JSONPersister) Save(snapshot ChannelSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	fn := filepath.Join(p.dir, snapshot.Name+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads the snapshot previously saved for name.
func (p *JSONPersister) Load(name string) (ChannelSnapshot, error) {
	fn := filepath.Join(p.dir, name+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ChannelSnapshot{}, fmt.Errorf("channel %q: %w", name, os.ErrNotExist)
		}
		return ChannelSnapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}
	var snap ChannelSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ChannelSnapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snap.Name = name
	return snap, nil
}

// YAMLPersister is a file-based persister using YAML serialization, used
// for human-editable scenario fixtures (a program's declared initial
// channel records) rather than the core runtime itself — the core has
// no on-disk state per spec §6.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

// Save writes snapshot to <dir>/<name>.yaml.
func (p *YAMLPersister) Save(snapshot ChannelSnapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	fn := filepath.Join(p.dir, snapshot.Name+".yaml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads the snapshot previously saved for name.
func (p *YAMLPersister) Load(name string) (ChannelSnapshot, error) {
	fn := filepath.Join(p.dir, name+".yaml")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ChannelSnapshot{}, fmt.Errorf("channel %q: %w", name, os.ErrNotExist)
		}
		return ChannelSnapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}
	var snap ChannelSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return ChannelSnapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snap.Name = name
	return snap, nil
}

// LoadScenario reads a named set of channel snapshots from a single YAML
// file — a declarative fixture format for seeding a program's initial
// channel state from a file rather than Go literals.
func LoadScenario(path string) ([]ChannelSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var snaps []ChannelSnapshot
	if err := yaml.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("yaml unmarshal scenario %s: %w", path, err)
	}
	return snaps, nil
}
