// Package pathtmpl rewrites file paths found in script annotations into
// run-identifier templated path expressions for the generated Snakefile.
package pathtmpl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoStem indicates a path has no file name component to template.
var ErrNoStem = errors.New("path has no file name")

// filePath splits a path into a lazy directory prefix, a stem without dots or
// separators, and everything after the stem as the extension.
var filePath = regexp.MustCompile(`^(.*?)([^/.]+)([^/]*)$`)

// Tokens are the literal placeholders written into rule values. They are
// resolved later, either by the materializer or by the workflow engine.
type Tokens struct {
	RunID        string `mapstructure:"run_id"`
	ResultsRoot  string `mapstructure:"results_root"`
	NotebookRoot string `mapstructure:"notebook_root"`
	ScriptDir    string `mapstructure:"script_dir"`
}

// DefaultTokens returns the placeholders used by the bundled templates.
func DefaultTokens() Tokens {
	return Tokens{
		RunID:        "{runID}",
		ResultsRoot:  "RESULTDIR",
		NotebookRoot: "NOTEBOOKDIR",
		ScriptDir:    "{{SCRIPTDIR}}",
	}
}

// Parts is a decomposed file path.
type Parts struct {
	Dir  string // Directory prefix including the trailing separator, or "".
	Stem string
	Ext  string // Includes the leading dot; ".tar.gz" stays whole.
}

// String reassembles the path.
func (p Parts) String() string {
	return p.Dir + p.Stem + p.Ext
}

// Split decomposes path without touching the filesystem.
func Split(path string) (Parts, error) {
	m := filePath.FindStringSubmatch(path)
	if m == nil {
		return Parts{}, fmt.Errorf("%w: %q", ErrNoStem, path)
	}
	return Parts{Dir: m[1], Stem: m[2], Ext: m[3]}, nil
}

// Resolver turns raw annotation values into path templates.
type Resolver struct {
	Tokens Tokens
}

// NewResolver returns a Resolver using the given tokens.
func NewResolver(tokens Tokens) *Resolver {
	return &Resolver{Tokens: tokens}
}

// Input returns the quoted, run-id templated form of value, e.g.
// data/expr.csv becomes "data/expr_{runID}.csv".
func (r *Resolver) Input(value string) (string, error) {
	p, err := Split(unquote(value))
	if err != nil {
		return "", err
	}
	return `"` + p.Dir + p.Stem + "_" + r.Tokens.RunID + p.Ext + `"`, nil
}

// Output returns the input form anchored under the results root, e.g.
// RESULTDIR / "out/summary_{runID}.csv". Log values use the same form.
func (r *Resolver) Output(value string) (string, error) {
	in, err := r.Input(value)
	if err != nil {
		return "", err
	}
	return r.Tokens.ResultsRoot + " / " + in, nil
}

// Notebook returns the notebook execution log path for a rule.
func (r *Resolver) Notebook(name string) string {
	return r.Tokens.NotebookRoot + ` / "notebook_` + name + "_" + r.Tokens.RunID + `.ipynb"`
}

func unquote(s string) string {
	return strings.Trim(s, `'"`)
}
