// Package ui prints human-facing status lines to stderr.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/makesnake/internal/rule"
)

// Palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorAccent  = lipgloss.Color("#FFD700")
	colorSuccess = lipgloss.Color("#00E676")
	colorDanger  = lipgloss.Color("#FF5252")
	colorMuted   = lipgloss.Color("#8C8C8C")
)

var (
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	styleTitle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	styleCommand = lipgloss.NewStyle().Foreground(colorPrimary)
)

// directiveStyles colors a rule by how it runs.
var directiveStyles = map[rule.DirectiveKind]lipgloss.Style{
	rule.DirectiveScript:   lipgloss.NewStyle().Foreground(colorPrimary),
	rule.DirectiveNotebook: lipgloss.NewStyle().Foreground(colorAccent),
	rule.DirectiveShell:    lipgloss.NewStyle().Foreground(colorSuccess),
}

// UI receives the status lines of long-running operations.
type UI interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Error(msg string)
	Command(cmd string)
}

// Verify Printer satisfies UI at compile time.
var _ UI = (*Printer)(nil)

type Printer struct{}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(os.Stderr, styleDim.Render(msg))
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(os.Stderr, styleSuccess.Render("✓ ")+msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintln(os.Stderr, styleWarn.Render("⚠ ")+msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintln(os.Stderr, styleError.Render("error: ")+msg)
}

// Command echoes a shell command before it runs.
func (p *Printer) Command(cmd string) {
	fmt.Fprintln(os.Stderr, styleDim.Render("$ ")+styleCommand.Render(cmd))
}

// Rules lists the synthesized rules with their directive and file counts.
func (p *Printer) Rules(rules []*rule.Rule) {
	fmt.Fprintln(os.Stderr, styleTitle.Render(fmt.Sprintf("%d rule(s)", len(rules))))
	if len(rules) == 0 {
		fmt.Fprintln(os.Stderr, styleDim.Render("  (no scripts)"))
		return
	}

	width := 0
	for _, r := range rules {
		width = max(width, len(r.Name))
	}
	for _, r := range rules {
		kind := directiveStyles[r.Directive.Kind].Render(fmt.Sprintf("%-8s", r.Directive.Kind))
		counts := fmt.Sprintf("in:%d out:%d params:%d log:%d", len(r.Input), len(r.Output), len(r.Params), len(r.Log))
		if r.Threads != "" {
			counts += " threads:" + r.Threads
		}
		fmt.Fprintf(os.Stderr, "  %s %s %s %s\n",
			styleBold.Render(fmt.Sprintf("%-*s", width, r.Name)),
			kind,
			styleDim.Render(counts),
			styleDim.Render("← "+r.Source))
	}
}

// Stages renders the execution order, one line per dependency level.
func (p *Printer) Stages(stages [][]*rule.Rule) {
	fmt.Fprintln(os.Stderr, styleTitle.Render("execution order"))
	for i, stage := range stages {
		names := make([]string, len(stage))
		for j, r := range stage {
			names[j] = directiveStyles[r.Directive.Kind].Render(r.Name)
		}
		fmt.Fprintf(os.Stderr, "  %s %s\n", styleDim.Render(fmt.Sprintf("stage %d", i+1)), strings.Join(names, styleDim.Render(" · ")))
	}
}

// Targets lists the files the pipeline builds by default.
func (p *Printer) Targets(targets []string) {
	if len(targets) == 0 {
		p.Warn("no rule declares an unconsumed output; the default target is empty")
		return
	}
	fmt.Fprintln(os.Stderr, styleTitle.Render("default targets"))
	for _, t := range targets {
		fmt.Fprintln(os.Stderr, "  "+styleDim.Render("•")+" "+t)
	}
}

// Materialized reports a finished project.
func (p *Printer) Materialized(dir string, rules int) {
	p.Success(fmt.Sprintf("pipeline written to %s %s", styleBold.Render(dir), styleDim.Render(fmt.Sprintf("(%d rule(s))", rules))))
}
