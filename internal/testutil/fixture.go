// Package testutil provides testing utilities for golden tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FixtureContext holds information about a loaded fixture.
type FixtureContext struct {
	// Root is the absolute path to the fixture directory
	Root string

	// ExpectedDir is the path to the expected/ directory
	ExpectedDir string
}

// LoadFixture loads the fixture directory dir, relative to the package
// under test, failing the test on error. The expected/ directory is
// created when missing.
func LoadFixture(t *testing.T, dir string) *FixtureContext {
	t.Helper()

	root, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("Failed to resolve fixture directory %s: %v", dir, err)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", root)
	}

	expectedDir := filepath.Join(root, "expected")
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		if err := os.MkdirAll(expectedDir, 0o755); err != nil {
			t.Fatalf("Failed to create expected directory: %v", err)
		}
	}

	return &FixtureContext{
		Root:        root,
		ExpectedDir: expectedDir,
	}
}

// ExpectedPath returns the path to a golden file within the fixture.
// The name includes its extension.
func (f *FixtureContext) ExpectedPath(name string) string {
	return filepath.Join(f.ExpectedDir, name)
}

// Path returns the path of a file inside the fixture.
func (f *FixtureContext) Path(name string) string {
	return filepath.Join(f.Root, name)
}
