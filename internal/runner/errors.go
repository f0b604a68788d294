package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrDeclined indicates the user answered no to a confirmation.
	ErrDeclined = errors.New("declined")
	// ErrNoLogs indicates the cluster log directory holds no usable log file.
	ErrNoLogs = errors.New("no cluster logs")
	// ErrUnknownMode indicates a run mode other than local, cluster or dryrun.
	ErrUnknownMode = errors.New("unknown run mode")
	// ErrUnknownLogKind indicates a log stream other than out or err.
	ErrUnknownLogKind = errors.New("unknown log kind")
)

// ExitError reports a child command that exited non-zero.
type ExitError struct {
	Command string
	Code    int // -1 when the child was killed by a signal.
	Err     error
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("command terminated: %v", e.Err)
	}
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Unwrap returns the underlying *exec.ExitError.
func (e *ExitError) Unwrap() error {
	return e.Err
}
