// Package runner drives Snakemake for a generated project: bootstrapping
// working directories, running the pipeline locally or on the cluster, and
// browsing the cluster logs it leaves behind.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papapumpkin/makesnake/internal/config"
	"github.com/papapumpkin/makesnake/internal/prompt"
	"github.com/papapumpkin/makesnake/internal/ui"
)

// followUpQuestion is asked after a dry run.
const followUpQuestion = "run: [l]ocal - [c]luster - [E]xit ... "

// Runner executes snakerun commands against one project.
type Runner struct {
	Project *Project
	Run     config.RunConfig
	Exec    Executor
	Prompt  prompt.Prompter
	UI      ui.UI
	Logger  *zap.Logger

	// WorkDir is where working directories and cluster logs live. Empty
	// means the current directory.
	WorkDir string

	// Now and NewRunID are replaced in tests.
	Now      func() time.Time
	NewRunID func() string
}

// New returns a Runner for p using run as the Snakemake settings.
func New(p *Project, run config.RunConfig, exec Executor, prompter prompt.Prompter, u ui.UI, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Project:  p,
		Run:      run,
		Exec:     exec,
		Prompt:   prompter,
		UI:       u,
		Logger:   logger,
		Now:      time.Now,
		NewRunID: shortRunID,
	}
}

// Commands returns the command builder for the project.
func (r *Runner) Commands() Commands {
	return Commands{ProjectDir: r.Project.Dir, Run: r.Run}
}

// RunPipeline runs the pipeline in mode with extra passed to Snakemake. A
// dry run asks whether to continue locally or on the cluster and does so
// with the same extra arguments.
func (r *Runner) RunPipeline(ctx context.Context, mode Mode, extra []string) error {
	cmds := r.Commands()
	for {
		switch mode {
		case ModeLocal:
			r.UI.Info("running locally...")
			return r.exec(ctx, cmds.Local(extra))

		case ModeCluster:
			r.UI.Info("running on cluster...")
			if err := os.MkdirAll(r.LogDir(), 0o755); err != nil {
				return fmt.Errorf("creating cluster log dir: %w", err)
			}
			return r.exec(ctx, cmds.Cluster(extra))

		case ModeDryRun:
			r.UI.Info("dry run...")
			if err := r.exec(ctx, cmds.DryRun(extra)); err != nil {
				return err
			}
			answer, err := r.Prompt.Ask(ctx, followUpQuestion)
			if errors.Is(err, prompt.ErrNoInput) {
				return nil
			}
			if err != nil {
				return err
			}
			next, ok := followUp(answer)
			if !ok {
				r.Logger.Debug("leaving after dry run", zap.String("answer", answer))
				return nil
			}
			mode = next

		default:
			return fmt.Errorf("%w: %v", ErrUnknownMode, mode)
		}
	}
}

func (r *Runner) exec(ctx context.Context, command string) error {
	r.UI.Command(command)
	r.Logger.Debug("executing", zap.String("command", command))
	return r.Exec.Run(ctx, command)
}

// path resolves name against WorkDir.
func (r *Runner) path(name string) string {
	if filepath.IsAbs(name) || r.WorkDir == "" {
		return name
	}
	return filepath.Join(r.WorkDir, name)
}

// LogDir returns the cluster log directory.
func (r *Runner) LogDir() string {
	return r.path(r.Run.LogDir)
}

// CleanupLogs deletes the cluster log directory. A missing directory is
// not an error.
func (r *Runner) CleanupLogs() error {
	dir := r.LogDir()
	r.UI.Warn("cleaning cluster log " + dir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing cluster log dir: %w", err)
	}
	return nil
}

func shortRunID() string {
	return uuid.NewString()[:8]
}
