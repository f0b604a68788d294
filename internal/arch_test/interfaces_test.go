package arch_test

import (
	"go/ast"
	"go/parser"
	"path/filepath"
	"testing"
)

// allowedColocations lists interfaces that live beside an implementation.
var allowedColocations = map[string]map[string]bool{
	// Prompter is the interaction port; LinePrompter is its plain default
	// and tui layers the picker on top of it.
	"prompt": {"Prompter": true},
	// Runner takes an Executor so commands can be recorded in tests;
	// ShellExecutor is the real one.
	"runner": {"Executor": true},
	// UI is what runner consumes; Printer is the stderr implementation.
	"ui": {"UI": true},
}

// interfaceMethods maps each interface declared in files to its method names.
func interfaceMethods(files []*ast.File) map[string][]string {
	out := make(map[string][]string)
	for _, node := range files {
		ast.Inspect(node, func(n ast.Node) bool {
			ts, ok := n.(*ast.TypeSpec)
			if !ok {
				return true
			}
			iface, ok := ts.Type.(*ast.InterfaceType)
			if !ok {
				return false
			}
			var methods []string
			for _, m := range iface.Methods.List {
				for _, name := range m.Names {
					methods = append(methods, name.Name)
				}
			}
			out[ts.Name.Name] = methods
			return false
		})
	}
	return out
}

// receiverMethods maps each receiver type to its method names.
func receiverMethods(files []*ast.File) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, node := range files {
		for _, decl := range node.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}
			expr := fd.Recv.List[0].Type
			if star, ok := expr.(*ast.StarExpr); ok {
				expr = star.X
			}
			ident, ok := expr.(*ast.Ident)
			if !ok {
				continue
			}
			if out[ident.Name] == nil {
				out[ident.Name] = make(map[string]bool)
			}
			out[ident.Name][fd.Name.Name] = true
		}
	}
	return out
}

// TestInterfacePlacement flags interfaces defined in the same package as a
// type whose method names cover them, unless allowlisted.
func TestInterfacePlacement(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()

			files := parseFiles(t, filepath.Join(dir, pkg), parser.SkipObjectResolution)
			ifaces := interfaceMethods(files)
			if len(ifaces) == 0 {
				return
			}
			types := receiverMethods(files)

			for name, methods := range ifaces {
				if len(methods) == 0 || allowedColocations[pkg][name] {
					continue
				}
				for typeName, has := range types {
					covered := true
					for _, m := range methods {
						if !has[m] {
							covered = false
							break
						}
					}
					if covered {
						t.Errorf("interface %s defined in %s but %s in the same package implements it; move the interface to its consumer",
							name, pkg, typeName)
					}
				}
			}
		})
	}
}

// TestAllowedColocationsExist catches stale allowlist entries.
func TestAllowedColocationsExist(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for pkg, names := range allowedColocations {
		ifaces := interfaceMethods(parseFiles(t, filepath.Join(dir, pkg), parser.SkipObjectResolution))
		for name := range names {
			if _, ok := ifaces[name]; !ok {
				t.Errorf("allowedColocations[%q] lists %s but no such interface exists", pkg, name)
			}
		}
	}
}
