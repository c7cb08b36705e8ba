package production

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONPersisterSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewJSONPersister(dir)
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}

	want := ChannelSnapshot{Name: "light", Fields: map[string]any{"color": "red"}}
	if err := p.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := p.Load("light")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != want.Name || got.Fields["color"] != want.Fields["color"] {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestJSONPersisterLoadMissing(t *testing.T) {
	dir := t.TempDir()
	p, err := NewJSONPersister(dir)
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}

	if _, err := p.Load("absent"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(absent) = %v, want wrapping os.ErrNotExist", err)
	}
}

func TestYAMLPersisterSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	if err != nil {
		t.Fatalf("NewYAMLPersister: %v", err)
	}

	want := ChannelSnapshot{Name: "counter", Fields: map[string]any{"n": 3}}
	if err := p.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := p.Load("counter")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != want.Name {
		t.Errorf("Load().Name = %q, want %q", got.Name, want.Name)
	}
	if n, ok := got.Fields["n"].(int); !ok || n != 3 {
		t.Errorf("Load().Fields[n] = %v, want 3", got.Fields["n"])
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	contents := "- name: light\n  fields:\n    color: red\n- name: counter\n  fields:\n    n: 0\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	snaps, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("len(snaps) = %d, want 2", len(snaps))
	}
	if snaps[0].Name != "light" || snaps[1].Name != "counter" {
		t.Errorf("snaps = %+v, want [light counter]", snaps)
	}
}
