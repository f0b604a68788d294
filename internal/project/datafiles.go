package project

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/makesnake/internal/config"
	"github.com/papapumpkin/makesnake/internal/rule"
)

// Default values written to config.yaml. working_dir stamps runID.
const (
	DefaultRunID       = "run"
	DefaultResultDir   = "results"
	DefaultNotebookDir = "notebooks"
)

// WorkflowConfig is the Snakemake config.yaml of a project.
type WorkflowConfig struct {
	RunID       string `yaml:"runID"`
	ResultDir   string `yaml:"resultdir"`
	NotebookDir string `yaml:"notebookdir"`
}

// ClusterEntry is one section of cluster_config.yaml. Keys follow the
// {cluster.x} placeholders of the submit command.
type ClusterEntry struct {
	Queue    string `yaml:"q,omitempty"`
	Cores    int    `yaml:"n,omitempty"`
	MemoryMB int    `yaml:"M,omitempty"`
	Out      string `yaml:"o,omitempty"`
	Err      string `yaml:"e,omitempty"`
}

// CondaEnv is an envs/<stem>.yaml skeleton.
type CondaEnv struct {
	Name         string   `yaml:"name"`
	Channels     []string `yaml:"channels"`
	Dependencies []string `yaml:"dependencies"`
}

var condaChannels = []string{"conda-forge", "bioconda", "nodefaults"}

// condaDependencies are the interpreter packages each script type needs.
var condaDependencies = map[string][]string{
	".py":    {"python>=3.10"},
	".R":     {"r-base>=4.2"},
	".ipynb": {"python>=3.10", "jupyter", "papermill"},
	".sh":    {"bash"},
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func workflowConfigYAML() ([]byte, error) {
	return marshalYAML(WorkflowConfig{
		RunID:       DefaultRunID,
		ResultDir:   DefaultResultDir,
		NotebookDir: DefaultNotebookDir,
	})
}

// clusterConfigYAML renders __default__ followed by one entry per rule, in
// rule order.
func clusterConfigYAML(rules []*rule.Rule, run config.RunConfig) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	add := func(name string, entry ClusterEntry) error {
		var val yaml.Node
		if err := val.Encode(entry); err != nil {
			return fmt.Errorf("encoding cluster entry %q: %w", name, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&val)
		return nil
	}

	err := add("__default__", ClusterEntry{
		Queue:    run.Queue,
		Cores:    1,
		MemoryMB: run.MemoryMB,
		Out:      run.LogDir + "/{rule}.%J.out",
		Err:      run.LogDir + "/{rule}.%J.err",
	})
	if err != nil {
		return nil, err
	}
	for _, r := range rules {
		cores := 1
		if n, err := strconv.Atoi(r.Threads); err == nil && n > 0 {
			cores = n
		}
		if err := add(r.Name, ClusterEntry{Cores: cores}); err != nil {
			return nil, err
		}
	}
	return marshalYAML(doc)
}

func condaEnvYAML(r *rule.Rule) ([]byte, error) {
	return marshalYAML(CondaEnv{
		Name:         r.Stem,
		Channels:     condaChannels,
		Dependencies: condaDependencies[r.Ext],
	})
}

// StampRunID rewrites the runID key of a config.yaml document, keeping every
// other key and comment.
func StampRunID(data []byte, runID string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config is not a mapping")
	}

	m := doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == "runID" {
			m.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: runID}
			return marshalYAML(&doc)
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "runID"},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: runID})
	return marshalYAML(&doc)
}
