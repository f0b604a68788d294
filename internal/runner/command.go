package runner

import (
	"path/filepath"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/papapumpkin/makesnake/internal/config"
	"github.com/papapumpkin/makesnake/internal/project"
)

// clusterResources is the resource request handed to the submit hook. The
// {cluster.x} placeholders are filled by Snakemake from cluster_config.yaml.
const clusterResources = `-q {cluster.q} -e {cluster.e} -o {cluster.o} -n {cluster.n} -M {cluster.M} -R"select[mem>{cluster.M}] rusage[mem={cluster.M}] span[hosts=1]"`

// Commands builds the shell command lines for a project.
type Commands struct {
	ProjectDir string
	Run        config.RunConfig
}

// snakemake returns the shared prefix: the project's Snakefile with conda
// environments enabled.
func (c Commands) snakemake() []string {
	args := []string{
		c.Run.Snakemake,
		"--snakefile", filepath.Join(c.ProjectDir, project.SnakefileName),
	}
	return args
}

func (c Commands) conda() []string {
	args := []string{"--use-conda"}
	if c.Run.CondaPrefix != "" {
		args = append(args, "--conda-prefix", c.Run.CondaPrefix)
	}
	return args
}

// Local runs the pipeline on this machine.
func (c Commands) Local(extra []string) string {
	args := c.snakemake()
	args = append(args, "--cores", strconv.Itoa(c.Run.Cores))
	args = append(args, c.conda()...)
	return join(args, extra)
}

// DryRun prints what would run, with reasons, through the pager.
func (c Commands) DryRun(extra []string) string {
	args := c.snakemake()
	args = append(args, "--cores", strconv.Itoa(c.Run.Cores))
	args = append(args, c.conda()...)
	args = append(args, "-nr")
	return join(args, extra) + " | " + dryRunPager(c.Run.Pager)
}

// Cluster submits every job through the cluster hooks. The command aborts
// on the first failing step.
func (c Commands) Cluster(extra []string) string {
	args := c.snakemake()
	args = append(args, c.conda()...)
	args = append(args,
		"--cluster", c.hook(c.Run.Submit)+" "+clusterResources,
		"--cluster-cancel", c.hook(c.Run.Cancel),
		"--cluster-status", c.hook(c.Run.Status),
		"--cluster-config", project.ClusterConfigFile,
		"--jobs", strconv.Itoa(c.Run.Jobs),
		"--latency-wait", strconv.Itoa(c.Run.LatencyWait),
		"--restart-times", strconv.Itoa(c.Run.RestartTimes),
	)
	return "set -e; " + join(args, extra)
}

// Pager opens path in the configured pager.
func (c Commands) Pager(path string) string {
	return c.Run.Pager + " " + shellquote.Join(path)
}

// hook resolves a cluster hook script relative to the project directory.
func (c Commands) hook(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.ProjectDir, name)
}

// dryRunPager chops long lines when the pager is less.
func dryRunPager(pager string) string {
	fields := strings.Fields(pager)
	if len(fields) > 0 && filepath.Base(fields[0]) == "less" {
		return "less -SR"
	}
	return pager
}

func join(args, extra []string) string {
	all := append(append([]string{}, args...), extra...)
	return shellquote.Join(all...)
}
