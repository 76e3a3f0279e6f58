package settings_test

import (
	"context"
	"testing"

	"docscan/internal/session"
	"docscan/internal/settings"
	"docscan/internal/testsupport"
)

func TestGetMissingKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	prefs := settings.New(store.DB())

	value, ok, err := prefs.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("expected missing key, got %q ok=%v", value, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	prefs := settings.New(store.DB())
	ctx := context.Background()

	if err := prefs.SetEngine(ctx, "offline"); err != nil {
		t.Fatalf("SetEngine failed: %v", err)
	}
	if err := prefs.SetEngine(ctx, "cloud"); err != nil {
		t.Fatalf("second SetEngine failed: %v", err)
	}

	engine, err := prefs.Engine(ctx, "fallback")
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	if engine != "cloud" {
		t.Fatalf("engine = %q, want cloud", engine)
	}
}

func TestTypedAccessorsFallBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	prefs := settings.New(store.DB())
	ctx := context.Background()

	engine, err := prefs.Engine(ctx, "offline")
	if err != nil || engine != "offline" {
		t.Fatalf("Engine fallback = %q, %v", engine, err)
	}

	mode, err := prefs.BatchMode(ctx, session.BatchSmart)
	if err != nil || mode != session.BatchSmart {
		t.Fatalf("BatchMode fallback = %q, %v", mode, err)
	}

	// Garbage in the table degrades to the fallback rather than erroring.
	if err := prefs.Set(ctx, settings.KeyBatchMode, "turbo"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	mode, err = prefs.BatchMode(ctx, session.BatchFixed)
	if err != nil || mode != session.BatchFixed {
		t.Fatalf("BatchMode with garbage = %q, %v", mode, err)
	}

	autoSave, err := prefs.AutoSaveEnabled(ctx, true)
	if err != nil || !autoSave {
		t.Fatalf("AutoSaveEnabled fallback = %v, %v", autoSave, err)
	}
	if err := prefs.SetAutoSaveEnabled(ctx, false); err != nil {
		t.Fatalf("SetAutoSaveEnabled failed: %v", err)
	}
	autoSave, err = prefs.AutoSaveEnabled(ctx, true)
	if err != nil || autoSave {
		t.Fatalf("AutoSaveEnabled = %v, %v", autoSave, err)
	}
}

func TestBatchModeRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	prefs := settings.New(store.DB())
	ctx := context.Background()

	if err := prefs.SetBatchMode(ctx, session.BatchFixed); err != nil {
		t.Fatalf("SetBatchMode failed: %v", err)
	}
	mode, err := prefs.BatchMode(ctx, session.BatchSmart)
	if err != nil || mode != session.BatchFixed {
		t.Fatalf("BatchMode = %q, %v", mode, err)
	}
}
