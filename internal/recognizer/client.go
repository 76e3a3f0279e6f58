package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"docscan/internal/config"
	"docscan/internal/logging"
	"docscan/internal/services"
)

// Mode selects the engine invocation style.
type Mode string

const (
	// ModeSingle recognizes exactly one file per call; a multi-page PDF
	// yields one result per page.
	ModeSingle Mode = "single"
	// ModeBatch recognizes several images in one call. PDFs are filtered
	// out upstream and processed in single mode.
	ModeBatch Mode = "batch"
)

// Engines known to the recognition binary.
const (
	EngineOffline = "offline"
	EngineCloud   = "cloud"
)

// SupportsBatch reports whether an engine accepts multi-image calls. The
// cloud engine posts one image per request and has no batch endpoint.
func SupportsBatch(engine string) bool {
	return engine != EngineCloud
}

// Metadata is the certificate evidence the engine reads off a page.
type Metadata struct {
	Color               string `json:"color"`
	IssueDate           string `json:"issue_date"`
	IssueDateConfidence string `json:"issue_date_confidence"`
}

// PageResult is one recognized page as reported by the engine.
type PageResult struct {
	Success    bool     `json:"success"`
	FilePath   string   `json:"file_path"`
	PageNumber int      `json:"page_number"`
	TotalPages int      `json:"total_pages"`
	ShortCode  string   `json:"short_code"`
	DocType    string   `json:"doc_type"`
	Confidence float64  `json:"confidence"`
	Metadata   Metadata `json:"metadata"`
	Reasoning  string   `json:"reasoning"`
	Error      string   `json:"error"`
}

// Executor abstracts process execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger attaches a logger for call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "recognizer")
		}
	}
}

// WithEngine overrides the configured engine id.
func WithEngine(engine string) Option {
	return func(c *Client) {
		if engine = strings.TrimSpace(engine); engine != "" {
			c.engine = engine
		}
	}
}

// Client wraps recognition engine CLI interactions.
type Client struct {
	binary        string
	engine        string
	singleTimeout time.Duration
	batchTimeout  time.Duration
	exec          Executor
	breaker       *breaker
	logger        *slog.Logger
}

// New constructs a recognition client from configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	binary := strings.TrimSpace(cfg.Recognizer.Binary)
	if binary == "" {
		return nil, errors.New("recognizer binary required")
	}
	client := &Client{
		binary:        binary,
		engine:        cfg.Recognizer.Engine,
		singleTimeout: time.Duration(cfg.Recognizer.SingleTimeout) * time.Second,
		batchTimeout:  time.Duration(cfg.Recognizer.BatchTimeout) * time.Second,
		exec:          commandExecutor{},
		breaker:       newBreaker(cfg.Recognizer),
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Engine returns the engine id this client invokes.
func (c *Client) Engine() string {
	return c.engine
}

// Recognize runs the engine over the given paths and returns one result
// per recognized page. Non-zero exit, malformed output, or a timeout is a
// hard failure; the caller decides the fallback (per-file single mode for
// a failed batch).
func (c *Client) Recognize(ctx context.Context, paths []string, mode Mode) ([]PageResult, error) {
	if err := validateRequest(paths, mode); err != nil {
		return nil, err
	}

	timeout := c.singleTimeout
	if mode == ModeBatch {
		timeout = c.batchTimeout
	}
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	results, err := c.breaker.execute(func() ([]PageResult, error) {
		return c.invoke(callCtx, paths, mode)
	})
	if err != nil {
		if c.breaker.isOpen(err) {
			return nil, services.Wrap(services.ErrExternalTool, "recognizer", string(mode), "engine unavailable (circuit open)", err)
		}
		if callCtx.Err() != nil && ctx.Err() == nil {
			return nil, services.Wrap(services.ErrTimeout, "recognizer", string(mode),
				fmt.Sprintf("engine call exceeded %s", timeout), callCtx.Err())
		}
		return nil, err
	}

	logging.WithContext(ctx, c.logger).Debug("engine call completed",
		logging.String("mode", string(mode)),
		logging.Int("files", len(paths)),
		logging.Int("pages", len(results)),
		logging.Duration("call_duration", time.Since(start)),
	)
	return results, nil
}

func validateRequest(paths []string, mode Mode) error {
	switch mode {
	case ModeSingle:
		if len(paths) != 1 {
			return services.Wrap(services.ErrValidation, "recognizer", "single",
				fmt.Sprintf("expected exactly one path, got %d", len(paths)), nil)
		}
	case ModeBatch:
		if len(paths) == 0 {
			return services.Wrap(services.ErrValidation, "recognizer", "batch", "no paths provided", nil)
		}
		for _, path := range paths {
			if strings.EqualFold(strings.TrimSpace(pathExt(path)), ".pdf") {
				return services.Wrap(services.ErrValidation, "recognizer", "batch",
					fmt.Sprintf("PDF %s not allowed in batch mode", path), nil)
			}
		}
	default:
		return services.Wrap(services.ErrValidation, "recognizer", "recognize",
			fmt.Sprintf("unknown mode %q", mode), nil)
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, paths []string, mode Mode) ([]PageResult, error) {
	args := []string{"--engine", c.engine, "--mode", string(mode), "--json"}
	args = append(args, paths...)

	out, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "recognizer", string(mode), "engine invocation failed", err)
	}

	var results []PageResult
	if err := json.Unmarshal(bytes.TrimSpace(out), &results); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "recognizer", string(mode), "malformed engine output", err)
	}
	if len(results) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "recognizer", string(mode), "engine returned no results", nil)
	}
	if mode == ModeBatch && len(results) != len(paths) {
		return nil, services.Wrap(services.ErrExternalTool, "recognizer", string(mode),
			fmt.Sprintf("engine returned %d results for %d images", len(results), len(paths)), nil)
	}
	return results, nil
}

func pathExt(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return path[idx:]
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%w: %s", err, lastLines(detail, 5))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
