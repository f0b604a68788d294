//go:build !windows

package runner

import (
	"os"
	"syscall"
)

// relayedSignals are caught while a child runs.
var relayedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// forwardSignal passes sig to the child. SIGINT from the terminal already
// reached the child's process group, so it is not sent twice.
func forwardSignal(p *os.Process, sig os.Signal) {
	if sig == syscall.SIGINT {
		return
	}
	_ = p.Signal(sig)
}

// terminate asks the child to shut down.
func terminate(p *os.Process) {
	_ = p.Signal(syscall.SIGTERM)
}
