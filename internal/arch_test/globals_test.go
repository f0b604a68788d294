package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// allowedGlobals lists package-level vars that are global on purpose.
var allowedGlobals = map[string][]string{
	// go:embed target for the bundled project templates.
	"project": {"embedded"},
}

// allowedGlobalPrefixes treats every var with one of these prefixes as
// constant-like: lipgloss colors and styles are immutable after init.
var allowedGlobalPrefixes = map[string][]string{
	"tui": {"style", "color"},
	"ui":  {"style", "color"},
}

// allowedGlobal reports whether a package-level var with this type and
// initializer is constant-like: an error sentinel, a compiled regexp, a sync
// primitive, or a literal.
func allowedGlobal(typ, val ast.Expr) bool {
	if ident, ok := typ.(*ast.Ident); ok && ident.Name == "error" {
		return true
	}
	if sel, ok := typ.(*ast.SelectorExpr); ok {
		if pkg, ok := sel.X.(*ast.Ident); ok && (pkg.Name == "sync" || pkg.Name == "atomic") {
			return true
		}
	}

	switch v := val.(type) {
	case *ast.BasicLit, *ast.CompositeLit:
		return true
	case *ast.CallExpr:
		sel, ok := v.Fun.(*ast.SelectorExpr)
		if !ok {
			return false
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok {
			return false
		}
		switch pkg.Name + "." + sel.Sel.Name {
		case "errors.New", "fmt.Errorf", "regexp.MustCompile":
			return true
		}
	}
	return false
}

// globalVars yields each package-level var name with its type and value.
func globalVars(node *ast.File, fn func(name string, typ, val ast.Expr)) {
	for _, decl := range node.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, name := range vs.Names {
				var val ast.Expr
				if i < len(vs.Values) {
					val = vs.Values[i]
				}
				fn(name.Name, vs.Type, val)
			}
		}
	}
}

// TestNoMutableGlobalState keeps configuration out of package state: tokens,
// run settings and prompts are passed in explicitly.
func TestNoMutableGlobalState(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()

			allowed := make(map[string]bool)
			for _, n := range allowedGlobals[pkg] {
				allowed[n] = true
			}

			for _, node := range parseFiles(t, filepath.Join(dir, pkg), 0) {
				globalVars(node, func(name string, typ, val ast.Expr) {
					if name == "_" || allowed[name] || allowedGlobal(typ, val) {
						return
					}
					for _, p := range allowedGlobalPrefixes[pkg] {
						if strings.HasPrefix(name, p) {
							return
						}
					}
					t.Errorf("mutable global state in %s: var %s; pass it in instead", pkg, name)
				})
			}
		})
	}
}

func TestAllowedGlobalsAreUsed(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for pkg, names := range allowedGlobals {
		declared := make(map[string]bool)
		for _, node := range parseFiles(t, filepath.Join(dir, pkg), 0) {
			globalVars(node, func(name string, _, _ ast.Expr) { declared[name] = true })
		}
		for _, name := range names {
			if !declared[name] {
				t.Errorf("allowedGlobals[%q] contains %q but no such var exists", pkg, name)
			}
		}
	}
}

func TestAllowedGlobal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want bool
	}{
		{`package p; import "errors"; var ErrFoo = errors.New("foo")`, true},
		{`package p; import "fmt"; var ErrBar = fmt.Errorf("bar: %w", nil)`, true},
		{`package p; import "regexp"; var re = regexp.MustCompile("^foo$")`, true},
		{`package p; import "sync"; var once sync.Once`, true},
		{`package p; var name = "hello"`, true},
		{`package p; var lookup = map[string]bool{"x": true}`, true},
		{`package p; var m = make(map[string]string)`, false},
		{`package p; var ch = make(chan int)`, false},
		{`package p; import "time"; var start = time.Now()`, false},
		{`package p; var counter int`, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			node, err := parser.ParseFile(token.NewFileSet(), "src.go", tt.src, 0)
			if err != nil {
				t.Fatalf("parsing: %v", err)
			}
			globalVars(node, func(name string, typ, val ast.Expr) {
				if got := allowedGlobal(typ, val); got != tt.want {
					t.Errorf("allowedGlobal(%s) = %v, want %v", name, got, tt.want)
				}
			})
		})
	}
}
