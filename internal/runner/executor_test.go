//go:build !windows

package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestShell(stdout *bytes.Buffer) *ShellExecutor {
	e := NewShellExecutor(nil)
	e.Stdin = strings.NewReader("")
	e.Stdout = stdout
	e.Stderr = &bytes.Buffer{}
	return e
}

func TestShellExecutor_Run(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	e := newTestShell(&out)
	e.Dir = t.TempDir()

	if err := e.Run(context.Background(), "echo hello | tr a-z A-Z; pwd"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || lines[0] != "HELLO" {
		t.Errorf("output = %q, want HELLO then the working dir", out.String())
	}
}

func TestShellExecutor_ExitCode(t *testing.T) {
	t.Parallel()

	e := newTestShell(&bytes.Buffer{})
	err := e.Run(context.Background(), "set -e; false; echo unreachable")

	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if ee.Code != 1 {
		t.Errorf("Code = %d, want 1", ee.Code)
	}
	if !strings.Contains(ee.Error(), "status 1") {
		t.Errorf("Error() = %q", ee.Error())
	}
}

func TestShellExecutor_ContextCancel(t *testing.T) {
	t.Parallel()

	e := newTestShell(&bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := e.Run(ctx, "exec sleep 30")
	if time.Since(start) > 10*time.Second {
		t.Fatalf("Run did not stop on cancel")
	}

	var ee *ExitError
	if !errors.As(err, &ee) || ee.Code != -1 {
		t.Fatalf("Run() error = %v, want ExitError for a terminated child", err)
	}
	if !strings.Contains(ee.Error(), "terminated") {
		t.Errorf("Error() = %q", ee.Error())
	}
}

func TestShellExecutor_MissingShell(t *testing.T) {
	t.Parallel()

	e := newTestShell(&bytes.Buffer{})
	e.Shell = "/nonexistent/sh"
	err := e.Run(context.Background(), "true")
	if err == nil {
		t.Fatal("Run() with a missing shell succeeded")
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		t.Errorf("Run() error = %v, want a start failure", err)
	}
}
