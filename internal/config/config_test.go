package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docscan/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Recognizer.Binary != "docrecognize" {
		t.Fatalf("Binary = %q, want default", cfg.Recognizer.Binary)
	}
	if cfg.Scan.BatchMode != "smart" {
		t.Fatalf("BatchMode = %q, want smart", cfg.Scan.BatchMode)
	}
	if !cfg.Scan.AutoSave {
		t.Fatal("expected auto-save on by default")
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("DataDir %q not expanded to absolute", cfg.Paths.DataDir)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
data_dir = "`+filepath.Join(base, "data")+`"
log_dir = "`+filepath.Join(base, "logs")+`"

[recognizer]
engine = "cloud"
single_timeout = 10

[scan]
batch_mode = "fixed"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Recognizer.Engine != "cloud" {
		t.Fatalf("Engine = %q", cfg.Recognizer.Engine)
	}
	if cfg.Recognizer.SingleTimeout != 10 {
		t.Fatalf("SingleTimeout = %d", cfg.Recognizer.SingleTimeout)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Recognizer.BatchTimeout != 300 {
		t.Fatalf("BatchTimeout = %d, want default 300", cfg.Recognizer.BatchTimeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantIn  string
	}{
		{"bad batch mode", "[scan]\nbatch_mode = \"turbo\"\n", "scan.batch_mode"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad log level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
		{"zero timeout", "[recognizer]\nsingle_timeout = 0\n", "single_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantIn) {
				t.Fatalf("error %q does not mention %q", err, tc.wantIn)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/docscan-test"
	if got := cfg.DatabasePath(); got != "/tmp/docscan-test/sessions.db" {
		t.Fatalf("DatabasePath = %q", got)
	}
	if got := cfg.SessionLockDir(); got != "/tmp/docscan-test/sessions" {
		t.Fatalf("SessionLockDir = %q", got)
	}
}

func TestCreateSampleParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
}
