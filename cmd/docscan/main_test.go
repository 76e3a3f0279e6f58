package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docscan/internal/config"
	"docscan/internal/session"
	"docscan/internal/testsupport"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()
	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func seedSession(t *testing.T, configPath string) *session.Session {
	t.Helper()
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	sess := testsupport.NewSession(
		&session.FolderTask{Path: "/scans/ho-so-01", Name: "ho-so-01", ImageCount: 4, Status: session.FolderDone},
		&session.FolderTask{Path: "/scans/ho-so-02", Name: "ho-so-02", ImageCount: 2, Status: session.FolderPending},
	)
	sess.Status = session.StatusIncomplete
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return sess
}

func TestCLISessionsListAndRemove(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())
	sess := seedSession(t, configPath)

	out, _, err := runCLI(t, configPath, "sessions")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(out, sess.ID) || !strings.Contains(out, "incomplete") {
		t.Fatalf("unexpected sessions output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "sessions", "rm", sess.ID)
	if err != nil {
		t.Fatalf("sessions rm: %v", err)
	}
	if !strings.Contains(out, "Removed session") {
		t.Fatalf("unexpected rm output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "sessions", "list")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	if !strings.Contains(out, "No sessions recorded") {
		t.Fatalf("expected empty list, got %q", out)
	}
}

func TestCLISessionsRemoveUnknown(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	if _, _, err := runCLI(t, configPath, "sessions", "rm", "ghost"); err == nil {
		t.Fatal("expected error removing unknown session")
	}
}

func TestCLIConfigInitAndShow(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "generated", "config.toml")

	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	// Initializing again without --overwrite refuses to clobber.
	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}

	configPath := writeTestConfig(t, base)
	out, _, err = runCLI(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "[recognizer]") || !strings.Contains(out, "docrecognize") {
		t.Fatalf("unexpected show output: %q", out)
	}
}

func TestCLIScanRequiresTarget(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	if _, _, err := runCLI(t, configPath, "scan"); err == nil {
		t.Fatal("expected error without root or manifest")
	}
}

func TestCLIResumeWithNothingPending(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	if _, _, err := runCLI(t, configPath, "resume"); err == nil {
		t.Fatal("expected error when no session is resumable")
	}
}

func TestCLIVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "docscan") {
		t.Fatalf("unexpected version output: %q", out)
	}
}
