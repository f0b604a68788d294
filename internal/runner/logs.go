package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Log stream kinds written by the cluster scheduler.
const (
	KindOut = "out"
	KindErr = "err"
)

// DefaultLogKind is opened when no kind is requested.
const DefaultLogKind = KindErr

// ValidateLogKind accepts out and err.
func ValidateLogKind(kind string) error {
	if kind != KindOut && kind != KindErr {
		return fmt.Errorf("%w: %q (want out or err)", ErrUnknownLogKind, kind)
	}
	return nil
}

// LogFile is one scheduler log named <rule>.<jobid>.<kind>.
type LogFile struct {
	Path    string
	Rule    string
	JobID   string
	Kind    string
	ModTime time.Time
}

// RuleLogs holds the log files of one rule, newest first.
type RuleLogs struct {
	Rule  string
	Files []LogFile
}

// Latest returns the modification time of the newest file.
func (g RuleLogs) Latest() time.Time {
	if len(g.Files) == 0 {
		return time.Time{}
	}
	return g.Files[0].ModTime
}

// Newest returns the most recent file of kind.
func (g RuleLogs) Newest(kind string) (LogFile, bool) {
	for _, f := range g.Files {
		if f.Kind == kind {
			return f, true
		}
	}
	return LogFile{}, false
}

// ParseLogName splits a log file name into rule, job id and kind. Only the
// first three dot-separated fields are used; fewer than three, or an empty
// field, does not match.
func ParseLogName(name string) (rule, jobID, kind string, ok bool) {
	parts := strings.SplitN(name, ".", 4)
	if len(parts) < 3 {
		return "", "", "", false
	}
	for _, p := range parts[:3] {
		if p == "" {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}

// ScanLogs lists the log files in dir, newest first. Subdirectories and
// names that do not parse are skipped. A missing or empty directory
// returns ErrNoLogs.
func ScanLogs(dir string) ([]LogFile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrNoLogs, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("reading cluster log dir: %w", err)
	}

	var files []LogFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		rule, jobID, kind, ok := ParseLogName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed since ReadDir
		}
		files = append(files, LogFile{
			Path:    filepath.Join(dir, e.Name()),
			Rule:    rule,
			JobID:   jobID,
			Kind:    kind,
			ModTime: info.ModTime(),
		})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLogs, dir)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// GroupLogs groups newest-first files by rule. Groups are ordered by their
// newest file.
func GroupLogs(files []LogFile) []RuleLogs {
	index := make(map[string]int)
	var groups []RuleLogs
	for _, f := range files {
		i, ok := index[f.Rule]
		if !ok {
			i = len(groups)
			index[f.Rule] = i
			groups = append(groups, RuleLogs{Rule: f.Rule})
		}
		groups[i].Files = append(groups[i].Files, f)
	}
	return groups
}

// LogOptions configures OpenClusterLog.
type LogOptions struct {
	Kind string        // out or err; DefaultLogKind when empty
	Wait time.Duration // wait up to this long for a first log file
}

// OpenClusterLog offers the rules with cluster logs, most recent first, and
// opens the newest log of the requested kind for the chosen rule in the
// pager.
func (r *Runner) OpenClusterLog(ctx context.Context, opts LogOptions) error {
	kind := opts.Kind
	if kind == "" {
		kind = DefaultLogKind
	}
	if err := ValidateLogKind(kind); err != nil {
		return err
	}

	dir := r.LogDir()
	if opts.Wait > 0 {
		if err := WaitForLogs(ctx, dir, opts.Wait); err != nil {
			return err
		}
	}

	files, err := ScanLogs(dir)
	if err != nil {
		return err
	}
	groups := GroupLogs(files)
	r.Logger.Debug("cluster logs", zap.Int("files", len(files)), zap.Int("rules", len(groups)))

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Rule
	}
	r.UI.Info("select rule to show cluster log for...")
	choice, err := r.Prompt.Select(ctx, "", names, 0)
	if err != nil {
		return err
	}

	f, ok := groups[choice].Newest(kind)
	if !ok {
		return fmt.Errorf("%w: rule %s has no %s log", ErrNoLogs, groups[choice].Rule, kind)
	}
	r.UI.Info("open " + f.Path)
	return r.exec(ctx, r.Commands().Pager(f.Path))
}
