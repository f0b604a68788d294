package runner

import "fmt"

// Mode selects how the pipeline runs.
type Mode int

const (
	ModeLocal Mode = iota + 1
	ModeCluster
	ModeDryRun
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeCluster:
		return "cluster"
	case ModeDryRun:
		return "dryrun"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

var modeNames = map[string]Mode{
	"local":   ModeLocal,
	"l":       ModeLocal,
	"cluster": ModeCluster,
	"c":       ModeCluster,
	"dryrun":  ModeDryRun,
	"d":       ModeDryRun,
}

// ModeNames lists the accepted spellings, long forms first.
var ModeNames = []string{"local", "cluster", "dryrun", "l", "c", "d"}

// ParseMode accepts local|l, cluster|c and dryrun|d.
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q (want local, cluster or dryrun)", ErrUnknownMode, s)
	}
	return m, nil
}

// followUp maps the answer to the post-dry-run question. Anything else exits.
func followUp(answer string) (Mode, bool) {
	switch answer {
	case "l":
		return ModeLocal, true
	case "c":
		return ModeCluster, true
	}
	return 0, false
}
