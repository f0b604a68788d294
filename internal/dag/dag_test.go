package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// nodeSpec is (id, priority, deps...).
type nodeSpec struct {
	id       string
	priority int
	deps     []string
}

func buildDAG(t *testing.T, specs []nodeSpec) *DAG {
	t.Helper()
	d := New()
	for _, s := range specs {
		if err := d.AddNode(s.id, s.priority); err != nil {
			t.Fatalf("AddNode(%q): %v", s.id, err)
		}
	}
	for _, s := range specs {
		for _, dep := range s.deps {
			if err := d.AddEdge(s.id, dep); err != nil {
				t.Fatalf("AddEdge(%q, %q): %v", s.id, dep, err)
			}
		}
	}
	return d
}

func TestAddNode_Duplicate(t *testing.T) {
	t.Parallel()
	d := New()
	if err := d.AddNode("a", 0); err != nil {
		t.Fatal(err)
	}
	if err := d.AddNode("a", 0); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("error = %v, want ErrDuplicateNode", err)
	}
	sorted, err := d.TopologicalSort()
	if err != nil {
		t.Fatal(err)
	}
	if len(sorted) != 1 {
		t.Errorf("TopologicalSort() = %v, want one node", sorted)
	}
}

func TestAddEdge(t *testing.T) {
	t.Parallel()

	t.Run("missing node", func(t *testing.T) {
		t.Parallel()
		d := buildDAG(t, []nodeSpec{{id: "a"}})
		if err := d.AddEdge("a", "ghost"); !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("error = %v, want ErrNodeNotFound", err)
		}
	})

	t.Run("self edge ignored", func(t *testing.T) {
		t.Parallel()
		d := buildDAG(t, []nodeSpec{{id: "a"}})
		if err := d.AddEdge("a", "a"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if deps := d.Dependencies("a"); len(deps) != 0 {
			t.Errorf("Dependencies(a) = %v, want none", deps)
		}
	})

	t.Run("cycle rejected", func(t *testing.T) {
		t.Parallel()
		d := buildDAG(t, []nodeSpec{
			{id: "a", deps: []string{"b"}},
			{id: "b", deps: []string{"c"}},
			{id: "c"},
		})
		if err := d.AddEdge("c", "a"); !errors.Is(err, ErrCycle) {
			t.Errorf("error = %v, want ErrCycle", err)
		}
	})
}

func TestStages(t *testing.T) {
	t.Parallel()

	d := buildDAG(t, []nodeSpec{
		{id: "qc", priority: 4},
		{id: "filter", priority: 3, deps: []string{"qc"}},
		{id: "norm", priority: 2, deps: []string{"qc"}},
		{id: "report", priority: 1, deps: []string{"filter", "norm"}},
		{id: "plot", priority: 0},
	})

	stages, err := d.Stages()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"qc", "plot"}, {"filter", "norm"}, {"report"}}
	if diff := cmp.Diff(want, stages); diff != "" {
		t.Errorf("Stages mismatch (-want +got):\n%s", diff)
	}

	order, err := d.TopologicalSort()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"qc", "plot", "filter", "norm", "report"}, order); diff != "" {
		t.Errorf("TopologicalSort mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"filter", "norm"}, d.Dependencies("report")); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestStages_Empty(t *testing.T) {
	t.Parallel()
	stages, err := New().Stages()
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 0 {
		t.Errorf("Stages() = %v, want none", stages)
	}
}
