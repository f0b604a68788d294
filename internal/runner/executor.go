package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"go.uber.org/zap"
)

// Executor runs shell command lines.
type Executor interface {
	Run(ctx context.Context, command string) error
}

// ShellExecutor runs commands through sh -c with the caller's stdio.
type ShellExecutor struct {
	Shell  string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// NewShellExecutor returns an executor wired to the process's stdio.
func NewShellExecutor(logger *zap.Logger) *ShellExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShellExecutor{
		Shell:  "sh",
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// Run starts command and waits for it. While it runs, interrupts typed at
// the terminal reach the child through the shared process group and are
// not acted on here; termination requests are relayed to the child. A
// canceled ctx terminates the child and still waits for it to exit.
func (e *ShellExecutor) Run(ctx context.Context, command string) error {
	cmd := exec.Command(e.Shell, "-c", command)
	cmd.Dir = e.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, relayedSignals...)
	defer signal.Stop(sigCh)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", e.Shell, err)
	}
	e.Logger.Debug("started command", zap.Int("pid", cmd.Process.Pid), zap.String("command", command))

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ctxDone := ctx.Done()
	for {
		select {
		case sig := <-sigCh:
			e.Logger.Debug("signal received while waiting", zap.Stringer("signal", sig))
			forwardSignal(cmd.Process, sig)
		case <-ctxDone:
			ctxDone = nil
			terminate(cmd.Process)
		case err := <-done:
			return exitError(command, err)
		}
	}
}

func exitError(command string, err error) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Command: command, Code: ee.ExitCode(), Err: ee}
	}
	return fmt.Errorf("waiting for command: %w", err)
}
