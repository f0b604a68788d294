package rule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for rule synthesis and naming.
var (
	// ErrUnsupportedScriptType indicates a script extension with no execution directive.
	ErrUnsupportedScriptType = errors.New("unsupported script type")
	// ErrDuplicateRuleName indicates rule names are still ambiguous after disambiguation.
	ErrDuplicateRuleName = errors.New("duplicate rule name")
	// ErrReservedRuleName indicates a script whose rule name the Snakefile uses itself.
	ErrReservedRuleName = errors.New("reserved rule name")
	// ErrDuplicateAnnotation indicates a script repeats a keyword/name pair (strict mode).
	ErrDuplicateAnnotation = errors.New("duplicate annotation")
)

// UnsupportedScriptError names the script whose type has no directive.
type UnsupportedScriptError struct {
	Path string
	Ext  string
}

func (e *UnsupportedScriptError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("%s: %s %s (supported: .py, .R, .ipynb, .sh)", e.Path, ErrUnsupportedScriptType, ext)
}

// Unwrap returns ErrUnsupportedScriptType.
func (e *UnsupportedScriptError) Unwrap() error {
	return ErrUnsupportedScriptType
}

// DuplicateNameError lists every rule name that is still shared, with the
// scripts that produced it.
type DuplicateNameError struct {
	Collisions map[string][]string // name → script paths
}

func (e *DuplicateNameError) Error() string {
	names := make([]string, 0, len(e.Collisions))
	for n := range e.Collisions {
		names = append(names, n)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%q (%s)", n, strings.Join(e.Collisions[n], ", "))
	}
	return fmt.Sprintf("%s: %s", ErrDuplicateRuleName, strings.Join(parts, "; "))
}

// Unwrap returns ErrDuplicateRuleName.
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateRuleName
}

// ReservedNameError names the script whose rule would shadow a rule the
// generated Snakefile defines.
type ReservedNameError struct {
	Name string
	Path string
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("%s: %s %q: it names the default target that builds every output; rename the script", e.Path, ErrReservedRuleName, e.Name)
}

// Unwrap returns ErrReservedRuleName.
func (e *ReservedNameError) Unwrap() error {
	return ErrReservedRuleName
}
