package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrToolMissing is returned when pdftoppm or tesseract cannot be located.
var ErrToolMissing = errors.New("ocr tool not found")

const (
	maxStderrLog = 8 << 10
	// killed tools can leave children holding the output pipes open
	defaultWaitDelay = 5 * time.Second
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// execRunner runs the poppler and tesseract binaries, resolving each one
// on PATH once per extractor.
type execRunner struct {
	logger    *slog.Logger
	waitDelay time.Duration

	mu    sync.Mutex
	paths map[string]string
}

func newExecRunner(logger *slog.Logger) *execRunner {
	return &execRunner{logger: logger, waitDelay: defaultWaitDelay, paths: make(map[string]string)}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	bin, err := r.resolve(name)
	if err != nil {
		r.logger.Error("ocr.exec.missing_tool", "cmd", name, "error", err)
		return nil, nil, err
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.WaitDelay = r.waitDelay
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err = cmd.Run()
	attrs := []any{
		"cmd", name,
		"args", strings.Join(args, " "),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		attrs = append(attrs, "exit_code", exitCode(err), "error", err, "stderr", tail(errb.String(), maxStderrLog))
		if ctx.Err() != nil {
			attrs = append(attrs, "canceled", true)
		}
		r.logger.Error("ocr.exec.failed", attrs...)
		return out.Bytes(), errb.Bytes(), err
	}
	r.logger.Debug("ocr.exec.ok", append(attrs, "stdout_bytes", out.Len())...)
	return out.Bytes(), errb.Bytes(), nil
}

func (r *execRunner) resolve(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.paths[name]; ok {
		return p, nil
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolMissing, name, err)
	}
	r.paths[name] = p
	return p, nil
}

// exitCode is -1 when the process never ran or was killed by a signal.
func exitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// tail keeps the last max bytes; tools print the fatal line at the end.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "(truncated)..." + s[len(s)-max:]
}
