package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	strftime "github.com/ncruces/go-strftime"
	"go.uber.org/zap"

	"github.com/papapumpkin/makesnake/internal/project"
)

// DefaultDirname is the strftime pattern for new working directories.
const DefaultDirname = "results_%Y_%m_%d/"

// WorkingDirOptions configures SetupWorkingDir.
type WorkingDirOptions struct {
	Dirname string // strftime pattern; DefaultDirname when empty
	RunID   string // stamped into config.yaml; generated when empty
}

// SetupWorkingDir creates a working directory holding copies of the
// project's config files and a link to its entry point, and returns its
// path. An existing directory is replaced only after the user confirms;
// otherwise ErrDeclined is returned and nothing changes.
func (r *Runner) SetupWorkingDir(ctx context.Context, opts WorkingDirOptions) (string, error) {
	pattern := opts.Dirname
	if pattern == "" {
		pattern = DefaultDirname
	}
	dir := filepath.Clean(r.path(strftime.Format(pattern, r.Now())))

	_, err := os.Stat(dir)
	switch {
	case err == nil:
		r.UI.Warn(fmt.Sprintf("directory %s already exists!", dir))
		ok, err := r.Prompt.Confirm(ctx, "overwrite?")
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w: keeping %s", ErrDeclined, dir)
		}
		r.UI.Warn("directory exists: overwriting!")
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("removing working dir: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("checking working dir: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating working dir: %w", err)
	}
	r.UI.Info(fmt.Sprintf("working directory %s created...", dir))

	runID := opts.RunID
	if runID == "" {
		runID = r.NewRunID()
	}
	if err := r.writeConfig(dir, runID); err != nil {
		return "", err
	}
	if err := copyPlain(
		filepath.Join(r.Project.Dir, project.ClusterConfigFile),
		filepath.Join(dir, project.ClusterConfigFile),
	); err != nil {
		return "", err
	}

	link := filepath.Join(dir, r.Project.Name())
	if err := os.Symlink(r.Project.Entrypoint(), link); err != nil {
		return "", fmt.Errorf("linking entry point: %w", err)
	}

	r.Logger.Debug("working dir ready", zap.String("dir", dir), zap.String("run_id", runID))
	return dir, nil
}

// writeConfig copies config.yaml into dir with runID set.
func (r *Runner) writeConfig(dir, runID string) error {
	data, err := os.ReadFile(filepath.Join(r.Project.Dir, project.ConfigFile))
	if err != nil {
		return fmt.Errorf("reading project config: %w", err)
	}
	data, err = project.StampRunID(data, runID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, project.ConfigFile), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func copyPlain(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(src), err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(dst), err)
	}
	return nil
}
