package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/papapumpkin/makesnake/internal/config"
	"github.com/papapumpkin/makesnake/internal/logging"
	"github.com/papapumpkin/makesnake/internal/project"
	"github.com/papapumpkin/makesnake/internal/prompt"
	"github.com/papapumpkin/makesnake/internal/rule"
	"github.com/papapumpkin/makesnake/internal/tui"
	"github.com/papapumpkin/makesnake/internal/ui"
)

// dryRunName stands in for the pipeline name when a dry run is not given one.
const dryRunName = "pipeline"

func init() {
	f := rootCmd.Flags()
	f.StringP("name", "n", "", "pipeline name (asked for when omitted)")
	f.String("pipeline-version", "", "version tag recorded in the Snakefile header and manifest")
	f.StringP("output", "o", "", "directory to create the project in (default .)")
	f.Bool("force", false, "replace an existing project directory")
	f.Bool("dry-run", false, "print the rules and Snakefile without writing anything")
	f.Bool("strict", false, "fail on malformed or repeated annotations")

	_ = viper.BindPFlag("output_dir", f.Lookup("output"))
	_ = viper.BindPFlag("strict", f.Lookup("strict"))
}

// generateOptions are the per-invocation choices not kept in config.
type generateOptions struct {
	Name    string
	Version string
	Force   bool
	DryRun  bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		_ = cmd.Help()
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var opts generateOptions
	opts.Name, _ = cmd.Flags().GetString("name")
	opts.Version, _ = cmd.Flags().GetString("pipeline-version")
	opts.Force, _ = cmd.Flags().GetBool("force")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := &generator{
		Config:  cfg,
		Prompt:  tui.DefaultPrompter(),
		Printer: ui.New(),
		Out:     os.Stdout,
		Logger:  logger,
	}
	return g.Run(ctx, args, opts)
}

// generator wires synthesis, disambiguation and materialization for one
// invocation.
type generator struct {
	Config  config.Config
	Prompt  prompt.Prompter
	Printer *ui.Printer
	Out     io.Writer // dry-run output
	Logger  *zap.Logger
}

// Run builds rules from scripts and writes the project, or prints it when
// opts.DryRun is set. Every script is read and every name fixed before
// anything is written.
func (g *generator) Run(ctx context.Context, scripts []string, opts generateOptions) error {
	tokens := g.Config.Tokens
	rules, err := rule.NewSynthesizer(tokens, g.Config.Strict, g.Logger).SynthesizeAll(scripts)
	if err != nil {
		return err
	}
	if err := rule.Disambiguate(rules); err != nil {
		return err
	}

	graph, err := rule.BuildGraph(rules, tokens)
	if err != nil {
		return err
	}
	stages, err := graph.Stages()
	if err != nil {
		return err
	}

	m := project.NewMaterializer(tokens, g.Config.Run, g.Logger)
	m.GeneratorVersion = version
	if g.Config.TemplateDir != "" {
		m.Templates = os.DirFS(g.Config.TemplateDir)
	}
	req := project.Request{
		Version:   opts.Version,
		Rules:     rules,
		OutputDir: g.Config.OutputDir,
		Overwrite: opts.Force,
	}

	g.Printer.Rules(rules)
	g.Printer.Stages(stages)
	g.Printer.Targets(graph.Targets(tokens))

	if opts.DryRun {
		req.PipelineName = opts.Name
		if req.PipelineName == "" {
			req.PipelineName = dryRunName
		}
		return g.dryRun(m, req)
	}

	name, err := g.pipelineName(ctx, opts.Name)
	if err != nil {
		return err
	}
	req.PipelineName = name

	dir, err := m.Materialize(ctx, req)
	if err != nil {
		return err
	}
	g.Printer.Materialized(dir, len(rules))
	return nil
}

// pipelineName returns name, or asks for one when it is empty.
func (g *generator) pipelineName(ctx context.Context, name string) (string, error) {
	if name == "" {
		answer, err := g.Prompt.Ask(ctx, "pipeline_name: ")
		if err != nil {
			return "", fmt.Errorf("reading pipeline name: %w", err)
		}
		name = answer
	}
	if err := project.ValidatePipelineName(name); err != nil {
		return "", err
	}
	return name, nil
}

// dryRun prints the rule records as TOML followed by the Snakefile.
func (g *generator) dryRun(m *project.Materializer, req project.Request) error {
	records := make([]map[string]any, len(req.Rules))
	for i, r := range req.Rules {
		records[i] = r.Record()
	}
	dump, err := toml.Marshal(map[string]any{"rule": records})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	snakefile, err := m.Render(req)
	if err != nil {
		return err
	}

	fmt.Fprintf(g.Out, "%s\n", dump)
	fmt.Fprintf(g.Out, "# --- %s ---\n", project.SnakefileName)
	fmt.Fprint(g.Out, snakefile)
	return nil
}
