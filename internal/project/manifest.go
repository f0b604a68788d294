package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/makesnake/internal/config"
	"github.com/papapumpkin/makesnake/internal/rule"
)

// ManifestFile is the project manifest read by snakerun.
const ManifestFile = "makesnake.toml"

// Manifest describes a generated project.
type Manifest struct {
	Pipeline Pipeline         `toml:"pipeline"`
	Run      config.RunConfig `toml:"run"`
	Rules    []RuleEntry      `toml:"rules"`
}

// Pipeline identifies the project and the generator that wrote it.
type Pipeline struct {
	Name      string    `toml:"name"`
	Version   string    `toml:"version,omitempty"`
	Generator string    `toml:"generator"`
	Created   time.Time `toml:"created"`
}

// RuleEntry records where a rule came from.
type RuleEntry struct {
	Name     string   `toml:"name"`
	Script   string   `toml:"script"`
	Kind     string   `toml:"kind"`
	Conda    string   `toml:"conda"`
	Threads  string   `toml:"threads,omitempty"`
	Upstream []string `toml:"upstream,omitempty"`
}

// NewRuleEntry summarizes r. upstream lists the rules it reads from.
func NewRuleEntry(r *rule.Rule, upstream []string) RuleEntry {
	return RuleEntry{
		Name:     r.Name,
		Script:   "scripts/" + r.ScriptName(),
		Kind:     r.Directive.Kind.String(),
		Conda:    r.Conda,
		Threads:  r.Threads,
		Upstream: upstream,
	}
}

// MarshalManifest serializes m as TOML with a trailing newline.
func MarshalManifest(m Manifest) ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest to TOML: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// ReadManifest loads makesnake.toml from the project directory dir.
func ReadManifest(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Manifest{}, fmt.Errorf("%w: %s has no %s", ErrNoManifest, dir, ManifestFile)
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}
