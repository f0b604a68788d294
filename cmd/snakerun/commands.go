package main

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/makesnake/internal/runner"
)

var workingDirCmd = &cobra.Command{
	Use:   "working_dir",
	Short: "Set up a working directory for running the pipeline",
	Args:  cobra.NoArgs,
	RunE:  runWorkingDir,
}

var runCmd = &cobra.Command{
	Use:   "run <local|l|cluster|c|dryrun|d> [-- snakemake args...]",
	Short: "Run the pipeline locally or on the cluster",
	Long: `Run the pipeline. dryrun shows what Snakemake would do and why, then offers to
run it locally or on the cluster. Arguments after -- are passed to Snakemake.`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: runner.ModeNames,
	RunE:      runRun,
}

var openClusterLogCmd = &cobra.Command{
	Use:   "open_cluster_log",
	Short: "Open the newest cluster log of a rule",
	Args:  cobra.NoArgs,
	RunE:  runOpenClusterLog,
}

var cleanupLogCmd = &cobra.Command{
	Use:   "cleanup_log",
	Short: "Delete the log files from cluster execution",
	Args:  cobra.NoArgs,
	RunE:  runCleanupLog,
}

func init() {
	workingDirCmd.Flags().StringP("dirname", "d", runner.DefaultDirname, "name of the directory (strftime pattern)")
	workingDirCmd.Flags().String("run-id", "", "run identifier written to config.yaml (default random)")

	openClusterLogCmd.Flags().StringP("kind", "k", runner.DefaultLogKind, "which log to open: out or err")
	openClusterLogCmd.Flags().Duration("wait", 0, "wait this long for a first log file to appear")

	rootCmd.AddCommand(workingDirCmd, runCmd, openClusterLogCmd, cleanupLogCmd)
}

func runWorkingDir(cmd *cobra.Command, _ []string) error {
	r, done, err := newRunner()
	if err != nil {
		return err
	}
	defer done()

	var opts runner.WorkingDirOptions
	opts.Dirname, _ = cmd.Flags().GetString("dirname")
	opts.RunID, _ = cmd.Flags().GetString("run-id")

	ctx, cancel := signalContext()
	defer cancel()

	dir, err := r.SetupWorkingDir(ctx, opts)
	if err != nil {
		return err
	}
	r.UI.Success("working directory ready: " + dir)
	return nil
}

func runRun(_ *cobra.Command, args []string) error {
	mode, err := runner.ParseMode(args[0])
	if err != nil {
		return err
	}
	r, done, err := newRunner()
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := signalContext()
	defer cancel()

	if err := r.RunPipeline(ctx, mode, args[1:]); err != nil {
		return err
	}
	r.UI.Success("all done.")
	return nil
}

func runOpenClusterLog(cmd *cobra.Command, _ []string) error {
	var opts runner.LogOptions
	opts.Kind, _ = cmd.Flags().GetString("kind")
	opts.Wait, _ = cmd.Flags().GetDuration("wait")
	if err := runner.ValidateLogKind(opts.Kind); err != nil {
		return err
	}

	r, done, err := newRunner()
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := signalContext()
	defer cancel()
	return r.OpenClusterLog(ctx, opts)
}

func runCleanupLog(_ *cobra.Command, _ []string) error {
	r, done, err := newRunner()
	if err != nil {
		return err
	}
	defer done()

	if err := r.CleanupLogs(); err != nil {
		return err
	}
	r.UI.Success("all done.")
	return nil
}
