// Package annotation extracts pipeline directives from script comments.
//
// A directive is a comment of the form
//
//	# input matrix: <data/expr.csv>
//	# output table: <out/summary.tsv>
//	# params alpha: <0.05>
//	# log stderr: <logs/fit.log>
//	# threads: <4>
//
// The first '#' on the line starts the comment. The keyword is followed by a
// name token (omitted for threads), a colon and a value wrapped in angle
// brackets. Backslash escapes inside the value are decoded.
package annotation

import "fmt"

// Keyword is one of the recognized directive kinds.
type Keyword string

const (
	Input   Keyword = "input"
	Output  Keyword = "output"
	Params  Keyword = "params"
	Log     Keyword = "log"
	Threads Keyword = "threads"
)

// Named reports whether annotations of this keyword carry a name.
func (k Keyword) Named() bool {
	return k != Threads
}

// Annotation is a single parsed directive.
type Annotation struct {
	Keyword Keyword
	Name    string // Empty for threads.
	Value   string // Escape-decoded text between the angle brackets.
	Line    int    // 1-based line number in the source script.
}

func (a Annotation) String() string {
	if a.Name == "" {
		return fmt.Sprintf("%s: <%s>", a.Keyword, a.Value)
	}
	return fmt.Sprintf("%s %s: <%s>", a.Keyword, a.Name, a.Value)
}
