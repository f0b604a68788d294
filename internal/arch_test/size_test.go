package arch_test

import (
	"path/filepath"
	"testing"
)

const (
	maxFilesPerPackage = 20
	maxLinesPerFile    = 400
)

// lineCountExceptions lists files over maxLinesPerFile with their current
// size. Test files holding one table per operation are allowed to grow.
var lineCountExceptions = map[string]int{
	"internal/project/materialize_test.go": 426,
	"internal/runner/runner_test.go":       522,
}

func TestPackageFileCount(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		if n := len(goFilesIn(t, filepath.Join(dir, pkg))); n > maxFilesPerPackage {
			t.Errorf("package %s has %d .go files (limit: %d); consider splitting", pkg, n, maxFilesPerPackage)
		}
	}
}

// TestFileLineCount covers test files as well as sources.
func TestFileLineCount(t *testing.T) {
	t.Parallel()

	root := repoRoot(t)
	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		for _, path := range goFilesIn(t, filepath.Join(dir, pkg), true) {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				t.Fatalf("relative path for %s: %v", path, err)
			}
			rel = filepath.ToSlash(rel)

			count := lineCount(t, path)
			if count <= maxLinesPerFile {
				continue
			}
			if limit, ok := lineCountExceptions[rel]; ok && count <= limit {
				t.Logf("known exception: %s has %d lines (limit: %d)", rel, count, maxLinesPerFile)
				continue
			}
			t.Errorf("%s has %d lines (limit: %d); consider decomposing", rel, count, maxLinesPerFile)
		}
	}
}
