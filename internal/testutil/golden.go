package testutil

import (
	"bytes"
	"flag"
	"os"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Refresh golden reports with: go test ./internal/report -update
var updateGolden = flag.Bool("update", false, "rewrite golden reports instead of comparing")

// CompareGolden fails t with a unified diff when got differs from the
// golden report name. With -update the golden report is rewritten.
func CompareGolden(t *testing.T, fixture *FixtureContext, name string, got []byte) {
	t.Helper()

	path := fixture.ExpectedPath(name)
	if *updateGolden {
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("write golden report %s: %v", path, err)
		}
		t.Logf("rewrote %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("no golden report %s, rerun with -update to create it; got:\n%s", path, got)
	}
	if err != nil {
		t.Fatalf("read golden report %s: %v", path, err)
	}

	if !bytes.Equal(got, want) {
		t.Fatalf("report %s differs from golden (rerun with -update to accept):\n%s", name, Diff(path, string(want), string(got)))
	}
}

// CompareGoldenJSON normalizes got and compares it against name.json.
func CompareGoldenJSON(t *testing.T, fixture *FixtureContext, name string, got any) {
	t.Helper()
	CompareGolden(t, fixture, name+".json", MarshalNormalized(t, got))
}

// Diff renders a unified diff of want against got with three lines of context.
func Diff(path, want, got string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: path + " (golden)",
		ToFile:   path + " (got)",
		Context:  3,
	})
	if err != nil {
		return err.Error()
	}
	return text
}
