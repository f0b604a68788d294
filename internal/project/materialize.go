// Package project renders a Snakemake project directory from synthesized
// rules: the Snakefile and wrapper from templates, the YAML data files, the
// manifest and a copy of every script.
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/makesnake/internal/config"
	"github.com/papapumpkin/makesnake/internal/pathtmpl"
	"github.com/papapumpkin/makesnake/internal/rule"
)

// Fixed names inside a generated project.
const (
	SnakefileName     = "Snakefile"
	ConfigFile        = "config.yaml"
	ClusterConfigFile = "cluster_config.yaml"
	ScriptsDir        = "scripts"
	EnvsDir           = "envs"
)

const defaultCopyWorkers = 4

// reservedNames would collide with the wrapper script.
var reservedNames = map[string]bool{
	SnakefileName:     true,
	ConfigFile:        true,
	ClusterConfigFile: true,
	ScriptsDir:        true,
	EnvsDir:           true,
	ManifestFile:      true,
}

// Request describes one project to generate.
type Request struct {
	PipelineName string
	Version      string
	Rules        []*rule.Rule // Disambiguated; each Source is copied into scripts/.
	OutputDir    string
	Overwrite    bool
}

// Materializer writes projects.
type Materializer struct {
	Templates        fs.FS
	Tokens           pathtmpl.Tokens
	Run              config.RunConfig
	GeneratorVersion string
	CopyWorkers      int
	Logger           *zap.Logger
	Now              func() time.Time
}

// NewMaterializer returns a Materializer using the bundled templates.
func NewMaterializer(tokens pathtmpl.Tokens, run config.RunConfig, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{
		Templates:   DefaultTemplates(),
		Tokens:      tokens,
		Run:         run,
		CopyWorkers: defaultCopyWorkers,
		Logger:      logger,
		Now:         time.Now,
	}
}

// ValidatePipelineName rejects names that cannot serve as a directory and
// wrapper file name.
func ValidatePipelineName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidPipelineName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidPipelineName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidPipelineName, name)
	case strings.Contains(name, "{{"):
		return fmt.Errorf("%w: %q contains template braces", ErrInvalidPipelineName, name)
	case reservedNames[name]:
		return fmt.Errorf("%w: %q is used by the generated project", ErrInvalidPipelineName, name)
	}
	return nil
}

// Target returns the directory a request is written to.
func Target(req Request) string {
	return filepath.Join(req.OutputDir, req.PipelineName)
}

// Render returns the Snakefile text for req without touching disk.
func (m *Materializer) Render(req Request) (string, error) {
	data, _, err := m.context(req)
	if err != nil {
		return "", err
	}
	text, err := fs.ReadFile(m.Templates, SnakefileName+tmplExt)
	if err != nil {
		return "", fmt.Errorf("reading Snakefile template: %w", err)
	}
	out, err := execute(SnakefileName, string(text), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Materialize writes the project and returns its absolute path. The project
// is assembled in a temporary sibling directory and renamed into place, so a
// failure leaves no partial output and an existing project is only removed
// once its replacement is complete.
func (m *Materializer) Materialize(ctx context.Context, req Request) (string, error) {
	target := Target(req)
	if _, err := os.Stat(target); err == nil {
		if !req.Overwrite {
			return "", fmt.Errorf("%w: %s; use --force to overwrite", ErrDestinationExists, target)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking destination: %w", err)
	}

	data, graph, err := m.context(req)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	tmpDir, err := os.MkdirTemp(req.OutputDir, "."+req.PipelineName+".tmp-")
	if err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}

	success := false
	defer func() {
		if !success {
			os.RemoveAll(tmpDir)
		}
	}()
	// MkdirTemp creates 0700 directories.
	if err := os.Chmod(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("setting temp directory mode: %w", err)
	}

	n, err := renderTree(m.Templates, tmpDir, data)
	if err != nil {
		return "", fmt.Errorf("rendering templates: %w", err)
	}
	m.Logger.Debug("rendered templates", zap.Int("files", n), zap.String("dir", tmpDir))

	if err := m.writeDataFiles(tmpDir, req, graph); err != nil {
		return "", err
	}
	if err := m.copyScripts(ctx, tmpDir, req.Rules); err != nil {
		return "", err
	}

	if req.Overwrite {
		if err := os.RemoveAll(target); err != nil {
			return "", fmt.Errorf("removing existing project: %w", err)
		}
	}
	if err := os.Rename(tmpDir, target); err != nil {
		return "", fmt.Errorf("renaming temp to project directory: %w", err)
	}
	success = true

	m.Logger.Info("project materialized", zap.String("dir", data.ProjectDir), zap.Int("rules", len(req.Rules)))
	return data.ProjectDir, nil
}

// context validates req and builds the template data.
func (m *Materializer) context(req Request) (Context, *rule.Graph, error) {
	if err := ValidatePipelineName(req.PipelineName); err != nil {
		return Context{}, nil, err
	}
	abs, err := filepath.Abs(Target(req))
	if err != nil {
		return Context{}, nil, fmt.Errorf("resolving project path: %w", err)
	}

	g, err := rule.BuildGraph(req.Rules, m.Tokens)
	if err != nil {
		return Context{}, nil, fmt.Errorf("linking rules: %w", err)
	}
	ordered, err := g.Ordered()
	if err != nil {
		return Context{}, nil, fmt.Errorf("ordering rules: %w", err)
	}

	views := make([]RuleView, len(ordered))
	for i, r := range ordered {
		views[i] = newRuleView(r, g, m.Tokens)
	}

	return Context{
		PipelineName:     req.PipelineName,
		Version:          req.Version,
		GeneratorVersion: m.GeneratorVersion,
		ProjectDir:       abs,
		Rules:            views,
		Targets:          g.Targets(m.Tokens),
		Tokens:           m.Tokens,
		Run:              m.Run,
	}, g, nil
}

func (m *Materializer) writeDataFiles(dir string, req Request, g *rule.Graph) error {
	files := make(map[string][]byte)

	cfg, err := workflowConfigYAML()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ConfigFile, err)
	}
	files[ConfigFile] = cfg

	cluster, err := clusterConfigYAML(req.Rules, m.Run)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ClusterConfigFile, err)
	}
	files[ClusterConfigFile] = cluster

	manifest := Manifest{
		Pipeline: Pipeline{
			Name:      req.PipelineName,
			Version:   req.Version,
			Generator: m.GeneratorVersion,
			Created:   m.now().UTC().Truncate(time.Second),
		},
		Run: m.Run,
	}
	for _, r := range req.Rules {
		env, err := condaEnvYAML(r)
		if err != nil {
			return fmt.Errorf("encoding conda env for %s: %w", r.Name, err)
		}
		files[r.Conda] = env
		manifest.Rules = append(manifest.Rules, NewRuleEntry(r, g.Upstream(r.Name)))
	}
	if files[ManifestFile], err = MarshalManifest(manifest); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(dir, EnvsDir), 0o755); err != nil {
		return err
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// copyScripts copies every rule's script into scripts/, keeping its mode.
func (m *Materializer) copyScripts(ctx context.Context, dir string, rules []*rule.Rule) error {
	dst := filepath.Join(dir, ScriptsDir)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("creating scripts directory: %w", err)
	}

	workers := m.CopyWorkers
	if workers <= 0 {
		workers = defaultCopyWorkers
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, r := range rules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return copyFile(r.Source, filepath.Join(dst, r.ScriptName()))
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("copying scripts: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

func (m *Materializer) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}
