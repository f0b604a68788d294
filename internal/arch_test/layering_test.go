package arch_test

import (
	"path/filepath"
	"testing"
)

// layers assigns each internal package to a numeric layer. A package at
// layer N may only import packages at layer N or below. The generation core
// (pathtmpl through project) never reaches the interactive or execution
// layers above it.
var layers = map[string]int{
	"dag":      0,
	"logging":  0,
	"pathtmpl": 0,
	"prompt":   0,

	"annotation": 1,
	"config":     1,

	"rule": 2,

	"project": 3,
	"ui":      3,

	"runner": 4,
	"tui":    4,
}

func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		importer, ok := layers[pkg]
		if !ok {
			continue // reported by TestNoUnknownPackages
		}
		for _, imp := range importsOf(t, filepath.Join(dir, pkg)) {
			imported, ok := layers[imp]
			if !ok || importer >= imported {
				continue
			}
			t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)",
				pkg, importer, imp, imported)
		}
	}
}

// TestNoUnknownPackages forces new packages into the layer map.
func TestNoUnknownPackages(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		if _, ok := layers[pkg]; !ok {
			t.Errorf("package %s has no layer assignment; add it to the layers map", pkg)
		}
	}
}

// TestCoreIsNonInteractive keeps prompts and terminal UI out of the
// extraction and synthesis packages.
func TestCoreIsNonInteractive(t *testing.T) {
	t.Parallel()

	interactive := map[string]bool{"prompt": true, "tui": true, "ui": true}
	dir := internalDirPath(t)
	for _, pkg := range []string{"annotation", "pathtmpl", "rule", "project"} {
		for _, imp := range importsOf(t, filepath.Join(dir, pkg)) {
			if interactive[imp] {
				t.Errorf("%s imports interactive package %s", pkg, imp)
			}
		}
	}
}
