package extensibility

import (
	"testing"

	"github.com/comalice/ssmcore/internal/core"
)

func TestProcessRegistryResolveByName(t *testing.T) {
	r := NewProcessRegistry()
	ran := false
	r.Register("greet", func(*core.Process) { ran = true })

	fn, err := r.Resolve(ProcessRef("greet"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	fn(nil)
	if !ran {
		t.Error("resolved function was not the registered one")
	}
}

func TestProcessRegistryResolveUnregisteredName(t *testing.T) {
	r := NewProcessRegistry()
	if _, err := r.Resolve(ProcessRef("missing")); err == nil {
		t.Error("expected an error resolving an unregistered name")
	}
}

func TestProcessRegistryResolveFuncPassesThrough(t *testing.T) {
	r := NewProcessRegistry()
	ran := false
	fn, err := r.Resolve(ProcessRef(func(*core.Process) { ran = true }))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	fn(nil)
	if !ran {
		t.Error("resolved function was not the supplied closure")
	}
}

func TestProcessRegistryResolveNilAndUnknownType(t *testing.T) {
	r := NewProcessRegistry()
	if _, err := r.Resolve(nil); err == nil {
		t.Error("expected an error resolving a nil reference")
	}
	if _, err := r.Resolve(ProcessRef(42)); err == nil {
		t.Error("expected an error resolving an unknown reference type")
	}
}
