//go:build windows

package runner

import "os"

// relayedSignals are caught while a child runs. The console delivers
// Ctrl+C to every attached process.
var relayedSignals = []os.Signal{os.Interrupt}

// forwardSignal is a no-op on Windows where the console already reached the child.
func forwardSignal(*os.Process, os.Signal) {}

// terminate kills the child; Windows has no SIGTERM delivery.
func terminate(p *os.Process) {
	_ = p.Kill()
}
