package preflight_test

import (
	"os"
	"path/filepath"
	"testing"

	"docscan/internal/preflight"
	"docscan/internal/testsupport"
)

func writeFakeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docrecognize")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func TestRunPassesWithValidSetup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Recognizer.Binary = writeFakeBinary(t)
	folder := testsupport.WriteScanFolder(t, "ho-so", "001.jpg")

	result := preflight.Run(cfg, []string{folder})
	if result.Fatal() {
		t.Fatalf("unexpected fatal findings: %+v", result.Findings)
	}
}

func TestRunMissingBinaryIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Recognizer.Binary = "definitely-not-on-path-9f2"
	folder := testsupport.WriteScanFolder(t, "ho-so", "001.jpg")

	result := preflight.Run(cfg, []string{folder})
	if !result.Fatal() {
		t.Fatal("expected fatal finding for missing binary")
	}
}

func TestRunNoValidFoldersIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Recognizer.Binary = writeFakeBinary(t)

	result := preflight.Run(cfg, []string{filepath.Join(t.TempDir(), "gone")})
	if !result.Fatal() {
		t.Fatal("expected fatal finding when no folder exists")
	}
}

func TestRunMissingFolderAmongValidIsWarning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Recognizer.Binary = writeFakeBinary(t)
	folder := testsupport.WriteScanFolder(t, "ho-so", "001.jpg")
	missing := filepath.Join(t.TempDir(), "gone")

	result := preflight.Run(cfg, []string{folder, missing})
	if result.Fatal() {
		t.Fatalf("one valid folder should be enough: %+v", result.Findings)
	}

	warned := false
	for _, finding := range result.Findings {
		if finding.Severity == preflight.SeverityWarning && finding.Check == "folders" {
			warned = true
		}
	}
	if !warned {
		t.Fatal("expected a warning for the missing folder")
	}
}
