package services_test

import (
	"errors"
	"strings"
	"testing"

	"docscan/internal/services"
)

func TestWrapTagsAndChains(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "recognizer", "batch", "engine invocation failed", cause)

	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatal("marker lost")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	for _, part := range []string{"recognizer", "batch", "engine invocation failed"} {
		if !strings.Contains(err.Error(), part) {
			t.Fatalf("message %q missing %q", err, part)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "store", "save", "hiccup", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient tag, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrConfiguration, "config", "load", "bad value", nil)) {
		t.Fatal("configuration errors are fatal")
	}
	if !services.IsFatal(services.Wrap(services.ErrNotFound, "orchestrator", "resume", "missing", nil)) {
		t.Fatal("missing sessions are fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrExternalTool, "recognizer", "single", "crash", nil)) {
		t.Fatal("engine failures must not be fatal")
	}
}
