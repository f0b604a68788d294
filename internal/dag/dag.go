// Package dag models the producer/consumer relationships between pipeline
// rules. It orders rules topologically and groups them into stages whose
// members do not depend on each other.
package dag

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCycle is returned when the graph contains a dependency cycle.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// node is one rule in the graph.
type node struct {
	ID       string
	Priority int // higher value sorts first among independent nodes
}

// DAG is a dependency graph. Edges point from a node to its dependencies:
// if rule A reads a file rule B writes, there is an edge from A to B.
type DAG struct {
	nodes map[string]*node
	// adjacency maps nodeID → set of dependency IDs.
	adjacency map[string]map[string]bool
	// reverse maps nodeID → set of dependent IDs.
	reverse map[string]map[string]bool
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:     make(map[string]*node),
		adjacency: make(map[string]map[string]bool),
		reverse:   make(map[string]map[string]bool),
	}
}

// AddNode adds a node with the given ID and priority.
func (d *DAG) AddNode(id string, priority int) error {
	if _, exists := d.nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	d.nodes[id] = &node{ID: id, Priority: priority}
	d.adjacency[id] = make(map[string]bool)
	d.reverse[id] = make(map[string]bool)
	return nil
}

// AddEdge records that from depends on to. Self edges are ignored since a
// rule reading its own output is the workflow engine's concern. An edge that
// would close a cycle is rejected with ErrCycle.
func (d *DAG) AddEdge(from, to string) error {
	if _, ok := d.nodes[from]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	if _, ok := d.nodes[to]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	if from == to || d.adjacency[from][to] {
		return nil
	}
	if d.hasPath(to, from) {
		return fmt.Errorf("%w: %s → %s", ErrCycle, from, to)
	}
	d.adjacency[from][to] = true
	d.reverse[to][from] = true
	return nil
}

// Dependencies returns the direct dependencies of id, sorted.
func (d *DAG) Dependencies(id string) []string {
	deps := make([]string, 0, len(d.adjacency[id]))
	for dep := range d.adjacency[id] {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// TopologicalSort returns node IDs with dependencies before dependents.
// Among nodes that are ready at the same time, higher priority comes first.
func (d *DAG) TopologicalSort() ([]string, error) {
	stages, err := d.Stages()
	if err != nil {
		return nil, err
	}
	sorted := make([]string, 0, len(d.nodes))
	for _, s := range stages {
		sorted = append(sorted, s...)
	}
	return sorted, nil
}

// Stages groups nodes into levels: stage 0 holds nodes without
// dependencies, stage n nodes whose dependencies all sit in earlier stages.
func (d *DAG) Stages() ([][]string, error) {
	inDegree := make(map[string]int, len(d.nodes))
	var frontier []string
	for id := range d.nodes {
		inDegree[id] = len(d.adjacency[id])
		if inDegree[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	var stages [][]string
	seen := 0
	for len(frontier) > 0 {
		frontier = d.prioritySorted(frontier)
		stages = append(stages, frontier)
		seen += len(frontier)

		var next []string
		for _, id := range frontier {
			for dependent := range d.reverse[id] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		frontier = next
	}

	if seen != len(d.nodes) {
		return nil, fmt.Errorf("%w: not all nodes could be ordered (%d of %d)",
			ErrCycle, seen, len(d.nodes))
	}
	return stages, nil
}

// hasPath reports whether there is a directed path from src to dst.
func (d *DAG) hasPath(src, dst string) bool {
	visited := make(map[string]bool)
	queue := []string{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dep := range d.adjacency[cur] {
			if dep == dst {
				return true
			}
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return false
}

// prioritySorted returns a copy of ids sorted by priority descending, with
// the ID as tiebreaker.
func (d *DAG) prioritySorted(ids []string) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		pi := d.nodes[sorted[i]].Priority
		pj := d.nodes[sorted[j]].Priority
		if pi != pj {
			return pi > pj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}
