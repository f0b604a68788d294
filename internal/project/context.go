package project

import (
	"strings"

	"github.com/papapumpkin/makesnake/internal/config"
	"github.com/papapumpkin/makesnake/internal/pathtmpl"
	"github.com/papapumpkin/makesnake/internal/rule"
)

// Context is the data every project template is rendered against.
type Context struct {
	PipelineName     string
	Version          string
	GeneratorVersion string
	ProjectDir       string // Absolute path of the finished project.
	Rules            []RuleView
	Targets          []string
	Tokens           pathtmpl.Tokens
	Run              config.RunConfig
}

// RuleView is a rule as written into the Snakefile.
type RuleView struct {
	Name      string
	Source    string
	Input     []rule.Entry
	Output    []rule.Entry
	Params    []rule.Entry
	Log       []rule.Entry
	Threads   string
	Conda     string
	Directive string
	Command   string
	Upstream  []string
}

// Snakefile globals that replace the script directory token.
const (
	scriptDirRelative = "scripts"
	scriptDirGlobal   = "{SCRIPTDIR}"
)

// newRuleView resolves the script directory token for r's directive and
// points inputs that another rule produces at that rule's output, so the
// workflow engine links the two.
func newRuleView(r *rule.Rule, g *rule.Graph, tokens pathtmpl.Tokens) RuleView {
	dir := scriptDirRelative
	if r.Directive.Kind == rule.DirectiveShell {
		dir = scriptDirGlobal
	}

	inputs := make([]rule.Entry, len(r.Input))
	for i, e := range r.Input {
		if produced, ok := g.Producer(r.Name, e.Value); ok {
			e.Value = produced
		}
		inputs[i] = e
	}

	return RuleView{
		Name:      r.Name,
		Source:    r.ScriptName(),
		Input:     inputs,
		Output:    r.Output,
		Params:    r.Params,
		Log:       r.Log,
		Threads:   r.Threads,
		Conda:     r.Conda,
		Directive: r.Directive.Kind.String(),
		Command:   strings.ReplaceAll(r.Directive.Command, tokens.ScriptDir, dir),
		Upstream:  g.Upstream(r.Name),
	}
}
