package runner

import (
	"fmt"
	"path/filepath"

	"github.com/papapumpkin/makesnake/internal/project"
)

// Project is a generated pipeline directory and its manifest.
type Project struct {
	Dir      string
	Manifest project.Manifest
}

// LoadProject reads the manifest of the project at dir.
func LoadProject(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project dir: %w", err)
	}
	m, err := project.ReadManifest(abs)
	if err != nil {
		return nil, err
	}
	return &Project{Dir: abs, Manifest: m}, nil
}

// Name returns the pipeline name.
func (p *Project) Name() string {
	return p.Manifest.Pipeline.Name
}

// Entrypoint returns the path of the generated wrapper shim.
func (p *Project) Entrypoint() string {
	return filepath.Join(p.Dir, p.Name())
}
