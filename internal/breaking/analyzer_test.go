package breaking

import (
	"testing"

	"apidelta/internal/delta"
	"apidelta/internal/modifiers"
)

func testTree() *delta.Delta {
	g := delta.NewGroup(delta.Fields{ElementType: delta.ElementComponent, ComponentID: "acme.core"})
	g.AddAll(
		delta.New(delta.Fields{
			Key: "a.Foo", ElementType: delta.ElementComponent, Kind: delta.Added, Flag: delta.Type,
			NewModifiers: modifiers.Public, ComponentID: "acme.core", ComponentVersionID: "acme.core(2.0.0)",
			TypeName: "a.Foo", Arguments: []string{"a.Foo"},
		}),
		delta.New(delta.Fields{
			Key: "run()V", ElementType: delta.ElementClass, Kind: delta.Changed, Flag: delta.NonFinalToFinal,
			OldModifiers: modifiers.Public, NewModifiers: modifiers.Public | modifiers.Final,
			ComponentID: "acme.core", ComponentVersionID: "acme.core(2.0.0)",
			TypeName: "a.Bar", Arguments: []string{"a.Bar", "run()V"},
		}),
		delta.New(delta.Fields{
			Key: "helper()V", ElementType: delta.ElementClass, Kind: delta.Removed, Flag: delta.Method,
			OldModifiers: modifiers.Private, ComponentID: "acme.core", ComponentVersionID: "acme.core(2.0.0)",
			TypeName: "a.Bar", Arguments: []string{"a.Bar", "helper()V"},
		}),
	)
	return g.Build()
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.IncludeMinor {
		t.Error("IncludeMinor should default to true")
	}
	if opts.CurrentVersion != "" {
		t.Errorf("CurrentVersion should default to empty, got %q", opts.CurrentVersion)
	}
}

func TestCompareResult_HasBreakingChanges(t *testing.T) {
	tests := []struct {
		name     string
		summary  *Summary
		expected bool
	}{
		{
			name:     "nil summary",
			summary:  nil,
			expected: false,
		},
		{
			name: "no breaking changes",
			summary: &Summary{
				TotalChanges: 5,
				Additions:    5,
			},
			expected: false,
		},
		{
			name: "has breaking changes",
			summary: &Summary{
				TotalChanges:    3,
				BreakingChanges: 2,
				Warnings:        1,
			},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := &CompareResult{Summary: tc.summary}
			if result.HasBreakingChanges() != tc.expected {
				t.Errorf("HasBreakingChanges() = %v, want %v", result.HasBreakingChanges(), tc.expected)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	result := Analyze(testTree())

	if result.TotalLeaves != 3 {
		t.Errorf("TotalLeaves = %d, want 3", result.TotalLeaves)
	}
	if len(result.Changes) != 3 {
		t.Fatalf("Expected 3 changes, got %d", len(result.Changes))
	}

	first := result.Changes[0]
	if first.Severity != SeverityBreaking || first.Flag != "NON_FINAL_TO_FINAL" {
		t.Errorf("first change = %+v, want the breaking NON_FINAL_TO_FINAL leaf", first)
	}
	if first.Rule == "" || !first.AffectsUsers {
		t.Errorf("breaking change should name its rule and affect users: %+v", first)
	}
	if result.Changes[1].Severity != SeverityWarning {
		t.Errorf("private removal severity = %s, want warning", result.Changes[1].Severity)
	}

	if result.Summary.BreakingChanges != 1 {
		t.Errorf("BreakingChanges = %d, want 1", result.Summary.BreakingChanges)
	}
	if result.Summary.Additions != 1 {
		t.Errorf("Additions = %d, want 1", result.Summary.Additions)
	}
	if result.Summary.ByComponent["acme.core(2.0.0)"] != 3 {
		t.Errorf("ByComponent = %v", result.Summary.ByComponent)
	}
	if result.SemverAdvice != "major" {
		t.Errorf("SemverAdvice = %q, want major", result.SemverAdvice)
	}
}

func TestAnalyzeFiltersMinor(t *testing.T) {
	a := NewAnalyzer(nil)
	result := a.Analyze(testTree(), Options{CurrentVersion: "1.4.2"})

	if len(result.Changes) != 2 {
		t.Errorf("Expected 2 changes without minor ones, got %d", len(result.Changes))
	}
	if result.Summary.TotalChanges != 3 {
		t.Errorf("Summary should count every leaf, got %d", result.Summary.TotalChanges)
	}
	if result.NextVersion != "2.0.0" {
		t.Errorf("NextVersion = %q, want 2.0.0", result.NextVersion)
	}
}

func TestAnalyzeEmptyTree(t *testing.T) {
	result := Analyze(delta.NoDelta)
	if len(result.Changes) != 0 || result.HasBreakingChanges() {
		t.Errorf("empty tree should produce no changes: %+v", result)
	}
	if result.SemverAdvice != "patch" {
		t.Errorf("SemverAdvice = %q, want patch", result.SemverAdvice)
	}
}

func TestSeverityOrder(t *testing.T) {
	if severityOrder(SeverityBreaking) >= severityOrder(SeverityWarning) {
		t.Error("Breaking should have lower order than Warning")
	}
	if severityOrder(SeverityWarning) >= severityOrder(SeverityNonBreaking) {
		t.Error("Warning should have lower order than NonBreaking")
	}
}

func TestComputeSemverAdvice(t *testing.T) {
	analyzer := &Analyzer{}

	tests := []struct {
		name     string
		summary  *Summary
		expected string
	}{
		{
			name:     "breaking changes = major",
			summary:  &Summary{BreakingChanges: 1},
			expected: "major",
		},
		{
			name:     "additions only = minor",
			summary:  &Summary{Additions: 5},
			expected: "minor",
		},
		{
			name:     "no changes = patch",
			summary:  &Summary{},
			expected: "patch",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := analyzer.computeSemverAdvice(tc.summary)
			if result != tc.expected {
				t.Errorf("computeSemverAdvice() = %q, want %q", result, tc.expected)
			}
		})
	}
}

func TestNextVersion(t *testing.T) {
	tests := []struct {
		current, advice, want string
		wantErr               bool
	}{
		{"1.2.3", "major", "2.0.0", false},
		{"1.2.3", "minor", "1.3.0", false},
		{"1.2.3", "patch", "1.2.4", false},
		{"v0.9", "minor", "0.10.0", false},
		{"not-a-version", "major", "", true},
		{"1.0.0", "huge", "", true},
	}

	for _, tc := range tests {
		got, err := NextVersion(tc.current, tc.advice)
		if (err != nil) != tc.wantErr {
			t.Errorf("NextVersion(%q, %q) error = %v, wantErr %v", tc.current, tc.advice, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("NextVersion(%q, %q) = %q, want %q", tc.current, tc.advice, got, tc.want)
		}
	}
}
