package logging_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docscan/internal/logging"
	"docscan/internal/services"
)

func newFileLogger(t *testing.T, format, level string) (*slog.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{Level: level, Format: format, Outputs: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return logger, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestConsoleHandlerFormat(t *testing.T) {
	logger, path := newFileLogger(t, "console", "info")
	component := logging.NewComponentLogger(logger, "orchestrator")

	component.Info("folder scanned",
		logging.Int("files", 12),
		logging.String("folder", "/scans/ho so 01"),
	)

	line := strings.TrimSpace(readLog(t, path))
	if !strings.Contains(line, " INFO orchestrator: folder scanned") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "files=12") {
		t.Fatalf("missing attribute: %q", line)
	}
	// Values containing spaces are quoted.
	if !strings.Contains(line, `folder="/scans/ho so 01"`) {
		t.Fatalf("value not quoted: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	logger, path := newFileLogger(t, "console", "warn")

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := readLog(t, path)
	if strings.Contains(out, "should be dropped") {
		t.Fatalf("info leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestJSONHandlerKeys(t *testing.T) {
	logger, path := newFileLogger(t, "json", "info")

	logger.Info("scan session started", logging.String("engine", "offline"))

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, path))), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["msg"] != "scan session started" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("missing ts key")
	}
	if record["engine"] != "offline" {
		t.Fatalf("engine = %v", record["engine"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithContextAddsScanFields(t *testing.T) {
	logger, path := newFileLogger(t, "console", "info")

	ctx := services.WithSessionID(context.Background(), "sess-1")
	ctx = services.WithFolder(ctx, "/scans/a")

	logging.WithContext(ctx, logger).Info("progress")

	line := readLog(t, path)
	if !strings.Contains(line, "session_id=sess-1") {
		t.Fatalf("missing session id: %q", line)
	}
	if !strings.Contains(line, "folder=/scans/a") {
		t.Fatalf("missing folder: %q", line)
	}
}
