// Package rule turns annotated scripts into Snakemake rule descriptions.
package rule

import "fmt"

// DirectiveKind says how the workflow engine runs a script.
type DirectiveKind int

const (
	DirectiveScript DirectiveKind = iota + 1
	DirectiveNotebook
	DirectiveShell
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveScript:
		return "script"
	case DirectiveNotebook:
		return "notebook"
	case DirectiveShell:
		return "shell"
	}
	return fmt.Sprintf("DirectiveKind(%d)", int(k))
}

// directiveKinds maps script extensions to their execution directive.
var directiveKinds = map[string]DirectiveKind{
	".py":    DirectiveScript,
	".R":     DirectiveScript,
	".ipynb": DirectiveNotebook,
	".sh":    DirectiveShell,
}

// KindForExt returns the directive for a script extension.
func KindForExt(ext string) (DirectiveKind, bool) {
	k, ok := directiveKinds[ext]
	return k, ok
}

// Directive is the execution line of a rule.
type Directive struct {
	Kind    DirectiveKind
	Command string // Script path, or the full command line for shell rules.
}

// Entry is one named value of a keyword section.
type Entry struct {
	Name  string
	Value string
}

// NamedValues is an insertion-ordered name → value mapping.
type NamedValues []Entry

// Set stores value under name. An existing name keeps its position and takes
// the new value; replaced reports whether that happened.
func (v *NamedValues) Set(name, value string) (replaced bool) {
	for i := range *v {
		if (*v)[i].Name == name {
			(*v)[i].Value = value
			return true
		}
	}
	*v = append(*v, Entry{Name: name, Value: value})
	return false
}

// Get returns the value stored under name.
func (v NamedValues) Get(name string) (string, bool) {
	for _, e := range v {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// Values returns the values in order.
func (v NamedValues) Values() []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Value
	}
	return out
}

// Map returns the values keyed by name.
func (v NamedValues) Map() map[string]string {
	m := make(map[string]string, len(v))
	for _, e := range v {
		m[e.Name] = e.Value
	}
	return m
}

// Rule describes one script's place in the pipeline.
type Rule struct {
	Name   string // Final rule name; rewritten by Disambiguate.
	Stem   string // Script file name without directory and extension.
	Source string // Script path as given by the user.
	Ext    string

	Input   NamedValues
	Output  NamedValues
	Params  NamedValues
	Log     NamedValues
	Threads string

	Conda     string
	Directive Directive
}

// ScriptName returns the script's base file name.
func (r *Rule) ScriptName() string {
	return r.Stem + r.Ext
}

// Record returns the rule as the name/keywords mapping consumed by templates
// and dumps. Empty sections are omitted.
func (r *Rule) Record() map[string]any {
	kw := make(map[string]any)
	if len(r.Input) > 0 {
		kw["input"] = r.Input.Map()
	}
	if len(r.Output) > 0 {
		kw["output"] = r.Output.Map()
	}
	if len(r.Params) > 0 {
		kw["params"] = r.Params.Map()
	}
	if len(r.Log) > 0 {
		kw["log"] = r.Log.Map()
	}
	if r.Threads != "" {
		kw["threads"] = r.Threads
	}
	kw["conda"] = r.Conda
	kw[r.Directive.Kind.String()] = r.Directive.Command

	return map[string]any{
		"name":     r.Name,
		"keywords": kw,
	}
}
