package rule

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/makesnake/internal/dag"
	"github.com/papapumpkin/makesnake/internal/pathtmpl"
)

// Graph links rules whose inputs are produced by other rules' outputs.
type Graph struct {
	rules  []*Rule
	byName map[string]*Rule
	dag    *dag.DAG

	// consumed holds the output paths some rule reads.
	consumed map[string]bool

	// producers maps a produced path to its rule and output template.
	producers map[string]producer
}

type producer struct {
	rule   string
	output string
}

// BuildGraph matches every input path against the outputs of the other rules.
// Paths are compared without the results root, since inputs are written
// relative to the working directory. Rule names must already be unique.
func BuildGraph(rules []*Rule, tokens pathtmpl.Tokens) (*Graph, error) {
	g := &Graph{
		rules:     rules,
		byName:    make(map[string]*Rule, len(rules)),
		dag:       dag.New(),
		consumed:  make(map[string]bool),
		producers: make(map[string]producer),
	}

	for i, r := range rules {
		// Earlier scripts sort first among independent rules.
		if err := g.dag.AddNode(r.Name, len(rules)-i); err != nil {
			return nil, fmt.Errorf("adding rule %q: %w", r.Name, err)
		}
		g.byName[r.Name] = r
		for _, out := range r.Output.Values() {
			g.producers[producedPath(out, tokens)] = producer{rule: r.Name, output: out}
		}
	}

	for _, r := range rules {
		for _, in := range r.Input.Values() {
			p, ok := g.producers[in]
			if !ok || p.rule == r.Name {
				continue
			}
			g.consumed[in] = true
			if err := g.dag.AddEdge(r.Name, p.rule); err != nil {
				return nil, fmt.Errorf("rule %q reads %s from %q: %w", r.Name, in, p.rule, err)
			}
		}
	}
	return g, nil
}

// Stages returns the rules grouped by dependency depth.
func (g *Graph) Stages() ([][]*Rule, error) {
	ids, err := g.dag.Stages()
	if err != nil {
		return nil, err
	}
	stages := make([][]*Rule, len(ids))
	for i, stage := range ids {
		for _, id := range stage {
			stages[i] = append(stages[i], g.byName[id])
		}
	}
	return stages, nil
}

// Ordered returns the rules with producers before their consumers.
func (g *Graph) Ordered() ([]*Rule, error) {
	ids, err := g.dag.TopologicalSort()
	if err != nil {
		return nil, err
	}
	out := make([]*Rule, len(ids))
	for i, id := range ids {
		out[i] = g.byName[id]
	}
	return out, nil
}

// Upstream returns the names of the rules the named rule reads from.
func (g *Graph) Upstream(name string) []string {
	return g.dag.Dependencies(name)
}

// Producer returns the output template another rule writes for the input
// template in, as read by the rule consumer.
func (g *Graph) Producer(consumer, in string) (string, bool) {
	p, ok := g.producers[in]
	if !ok || p.rule == consumer {
		return "", false
	}
	return p.output, true
}

// Targets returns the outputs no rule consumes, in rule order. They become
// the inputs of the pipeline's default target.
func (g *Graph) Targets(tokens pathtmpl.Tokens) []string {
	var targets []string
	for _, r := range g.rules {
		for _, out := range r.Output.Values() {
			if !g.consumed[producedPath(out, tokens)] {
				targets = append(targets, out)
			}
		}
	}
	return targets
}

// producedPath strips the results root from an output template so it can be
// compared with input templates.
func producedPath(out string, tokens pathtmpl.Tokens) string {
	return strings.TrimPrefix(out, tokens.ResultsRoot+" / ")
}
