package ui

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/papapumpkin/makesnake/internal/rule"
)

// captureStderr redirects os.Stderr to a pipe and returns the captured output.
func captureStderr(fn func()) string {
	r, w, _ := os.Pipe()
	orig := os.Stderr
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = orig

	out, _ := io.ReadAll(r)
	r.Close()
	return string(out)
}

func testRules() []*rule.Rule {
	qc := &rule.Rule{Name: "qc", Source: "scripts/01_qc.py", Threads: "4",
		Directive: rule.Directive{Kind: rule.DirectiveScript}}
	qc.Input.Set("raw", `"data/raw_{runID}.csv"`)
	qc.Output.Set("filtered", `RESULTDIR / "qc/filtered_{runID}.csv"`)

	report := &rule.Rule{Name: "report", Source: "report.ipynb",
		Directive: rule.Directive{Kind: rule.DirectiveNotebook}}
	report.Input.Set("filtered", `"qc/filtered_{runID}.csv"`)
	return []*rule.Rule{qc, report}
}

func TestRules(t *testing.T) {
	p := New()
	output := captureStderr(func() {
		p.Rules(testRules())
	})

	checks := []struct {
		name   string
		substr string
	}{
		{"count", "2 rule(s)"},
		{"rule name", "qc"},
		{"directive", "notebook"},
		{"counts", "in:1 out:1 params:0 log:0"},
		{"threads", "threads:4"},
		{"source", "scripts/01_qc.py"},
	}
	for _, c := range checks {
		if !strings.Contains(output, c.substr) {
			t.Errorf("expected output to contain %s (%q), got:\n%s", c.name, c.substr, output)
		}
	}
}

func TestRules_Empty(t *testing.T) {
	p := New()
	output := captureStderr(func() {
		p.Rules(nil)
	})
	if !strings.Contains(output, "no scripts") {
		t.Errorf("expected empty marker, got:\n%s", output)
	}
}

func TestStages(t *testing.T) {
	rules := testRules()
	p := New()
	output := captureStderr(func() {
		p.Stages([][]*rule.Rule{{rules[0]}, {rules[1]}})
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), output)
	}
	if !strings.Contains(lines[1], "stage 1") || !strings.Contains(lines[1], "qc") {
		t.Errorf("line 1 = %q, want stage 1 with qc", lines[1])
	}
	if !strings.Contains(lines[2], "stage 2") || !strings.Contains(lines[2], "report") {
		t.Errorf("line 2 = %q, want stage 2 with report", lines[2])
	}
}

func TestTargets(t *testing.T) {
	p := New()

	output := captureStderr(func() {
		p.Targets([]string{`RESULTDIR / "report_{runID}.html"`})
	})
	if !strings.Contains(output, `report_{runID}.html`) {
		t.Errorf("expected target path, got:\n%s", output)
	}

	output = captureStderr(func() {
		p.Targets(nil)
	})
	if !strings.Contains(output, "default target is empty") {
		t.Errorf("expected empty warning, got:\n%s", output)
	}
}

func TestStatusLines(t *testing.T) {
	p := New()
	tests := []struct {
		name  string
		print func()
		want  []string
	}{
		{"error", func() { p.Error("boom") }, []string{"error:", "boom"}},
		{"warn", func() { p.Warn("careful") }, []string{"careful"}},
		{"success", func() { p.Success("done") }, []string{"✓", "done"}},
		{"command", func() { p.Command("snakemake -n") }, []string{"$ ", "snakemake -n"}},
		{"materialized", func() { p.Materialized("out/pipe", 3) }, []string{"out/pipe", "3 rule(s)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStderr(tt.print)
			for _, w := range tt.want {
				if !strings.Contains(output, w) {
					t.Errorf("expected %q in output, got:\n%s", w, output)
				}
			}
		})
	}
}
