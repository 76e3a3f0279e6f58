package recognizer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"docscan/internal/recognizer"
	"docscan/internal/services"
	"docscan/internal/testsupport"
)

type stubExecutor struct {
	calls   int
	args    []string
	output  []byte
	err     error
	respond func(ctx context.Context, args []string) ([]byte, error)
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	s.calls++
	s.args = args
	if s.respond != nil {
		return s.respond(ctx, args)
	}
	return s.output, s.err
}

func pageJSON(path string, code string) string {
	return fmt.Sprintf(`{"success":true,"file_path":%q,"short_code":%q,"doc_type":%q,"confidence":0.9,
		"metadata":{"color":"red","issue_date":"15/03/1998","issue_date_confidence":"full"}}`, path, code, code)
}

func newClient(t *testing.T, exec recognizer.Executor) *recognizer.Client {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	client, err := recognizer.New(cfg, recognizer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestRecognizeSingle(t *testing.T) {
	exec := &stubExecutor{output: []byte("[" + pageJSON("/scans/a/001.jpg", "GCN") + "]")}
	client := newClient(t, exec)

	results, err := client.Recognize(context.Background(), []string{"/scans/a/001.jpg"}, recognizer.ModeSingle)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(results) != 1 || results[0].ShortCode != "GCN" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[0].Metadata.IssueDate != "15/03/1998" {
		t.Fatalf("metadata lost: %+v", results[0].Metadata)
	}

	want := []string{"--engine", "offline", "--mode", "single", "--json", "/scans/a/001.jpg"}
	if len(exec.args) != len(want) {
		t.Fatalf("args = %v, want %v", exec.args, want)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q", i, exec.args[i], want[i])
		}
	}
}

func TestRecognizeSingleRequiresOnePath(t *testing.T) {
	client := newClient(t, &stubExecutor{})

	_, err := client.Recognize(context.Background(), []string{"a.jpg", "b.jpg"}, recognizer.ModeSingle)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecognizeBatchRejectsPDFs(t *testing.T) {
	client := newClient(t, &stubExecutor{})

	_, err := client.Recognize(context.Background(), []string{"a.jpg", "dossier.pdf"}, recognizer.ModeBatch)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecognizeBatchCountMismatchIsHardFailure(t *testing.T) {
	exec := &stubExecutor{output: []byte("[" + pageJSON("a.jpg", "GCN") + "]")}
	client := newClient(t, exec)

	_, err := client.Recognize(context.Background(), []string{"a.jpg", "b.jpg"}, recognizer.ModeBatch)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestRecognizeMalformedOutput(t *testing.T) {
	exec := &stubExecutor{output: []byte("recognition core dumped")}
	client := newClient(t, exec)

	_, err := client.Recognize(context.Background(), []string{"a.jpg"}, recognizer.ModeSingle)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestRecognizeTimeout(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Recognizer.SingleTimeout = 1
	exec := &stubExecutor{respond: func(ctx context.Context, _ []string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	client, err := recognizer.New(cfg, recognizer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	start := time.Now()
	_, err = client.Recognize(context.Background(), []string{"a.jpg"}, recognizer.ModeSingle)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("timeout did not fire promptly")
	}
}

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Recognizer.BreakerFailureThreshold = 2
	exec := &stubExecutor{err: errors.New("engine crashed")}
	client, err := recognizer.New(cfg, recognizer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.Recognize(ctx, []string{"a.jpg"}, recognizer.ModeSingle); err == nil {
			t.Fatalf("call %d unexpectedly succeeded", i)
		}
	}
	callsBefore := exec.calls

	_, err = client.Recognize(ctx, []string{"a.jpg"}, recognizer.ModeSingle)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error from open circuit, got %v", err)
	}
	if exec.calls != callsBefore {
		t.Fatal("open circuit still invoked the engine binary")
	}
}

func TestSupportsBatch(t *testing.T) {
	if !recognizer.SupportsBatch(recognizer.EngineOffline) {
		t.Fatal("offline engine supports batch")
	}
	if recognizer.SupportsBatch(recognizer.EngineCloud) {
		t.Fatal("cloud engine has no batch endpoint")
	}
}
