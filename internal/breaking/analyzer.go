package breaking

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Masterminds/semver/v3"

	"apidelta/internal/compat"
	"apidelta/internal/delta"
	"apidelta/internal/slogutil"
)

// Analyzer turns a delta tree into a classified change report
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a new breaking change analyzer
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	return &Analyzer{logger: slogutil.OrDiscard(logger)}
}

// Analyze classifies tree with default options.
func Analyze(tree *delta.Delta) *CompareResult {
	return NewAnalyzer(nil).Analyze(tree, DefaultOptions())
}

// Analyze classifies every leaf of tree
func (a *Analyzer) Analyze(tree *delta.Delta, opts Options) *CompareResult {
	verdicts := compat.Classify(tree)

	all := make([]APIChange, 0, len(verdicts))
	for _, v := range verdicts {
		all = append(all, toChange(v))
	}

	changes := all
	if !opts.IncludeMinor {
		changes = changes[:0:0]
		for _, c := range all {
			if c.Severity != SeverityNonBreaking {
				changes = append(changes, c)
			}
		}
	}

	// Sort changes by severity, then by component and symbol
	sort.SliceStable(changes, func(i, j int) bool {
		ci, cj := changes[i], changes[j]
		if ci.Severity != cj.Severity {
			return severityOrder(ci.Severity) < severityOrder(cj.Severity)
		}
		if ci.Component != cj.Component {
			return ci.Component < cj.Component
		}
		if ci.TypeName != cj.TypeName {
			return ci.TypeName < cj.TypeName
		}
		return ci.Key < cj.Key
	})

	result := &CompareResult{
		BaseRef:     opts.BaseRef,
		TargetRef:   opts.TargetRef,
		Changes:     changes,
		TotalLeaves: len(verdicts),
	}
	result.Summary = a.computeSummary(all)
	result.SemverAdvice = a.computeSemverAdvice(result.Summary)

	if opts.CurrentVersion != "" {
		next, err := NextVersion(opts.CurrentVersion, result.SemverAdvice)
		if err != nil {
			a.logger.Warn("Cannot compute next version", "version", opts.CurrentVersion, "error", err)
		} else {
			result.NextVersion = next
		}
	}

	a.logger.Debug("Breaking change analysis completed",
		"leaves", len(verdicts),
		"breaking", result.Summary.BreakingChanges,
		"advice", result.SemverAdvice)

	return result
}

func toChange(v compat.Verdict) APIChange {
	d := v.Delta
	c := APIChange{
		Kind:        changeKind(d.Kind()),
		Flag:        d.Flag().String(),
		ElementType: d.ElementType().String(),
		TypeName:    d.TypeName(),
		Key:         d.Key(),
		Component:   d.ComponentVersionID(),
		Description: d.Message(),
	}
	if c.Component == "" {
		c.Component = d.ComponentID()
	}
	if v.Matched {
		c.Rule = v.Rule.Description
	}

	switch {
	case !v.Compatible:
		c.Severity = SeverityBreaking
		c.AffectsUsers = true
	case d.Kind() == delta.Removed:
		c.Severity = SeverityWarning
	default:
		c.Severity = SeverityNonBreaking
	}
	return c
}

func changeKind(k delta.Kind) ChangeKind {
	switch k {
	case delta.Added:
		return ChangeAdded
	case delta.Removed:
		return ChangeRemoved
	default:
		return ChangeChanged
	}
}

func severityOrder(s Severity) int {
	switch s {
	case SeverityBreaking:
		return 0
	case SeverityWarning:
		return 1
	case SeverityNonBreaking:
		return 2
	default:
		return 3
	}
}

// computeSummary calculates summary statistics
func (a *Analyzer) computeSummary(changes []APIChange) *Summary {
	summary := &Summary{
		TotalChanges: len(changes),
		ByKind:       make(map[string]int),
		ByComponent:  make(map[string]int),
	}

	for _, change := range changes {
		summary.ByKind[string(change.Kind)]++
		if change.Component != "" {
			summary.ByComponent[change.Component]++
		}

		switch change.Severity {
		case SeverityBreaking:
			summary.BreakingChanges++
		case SeverityWarning:
			summary.Warnings++
		case SeverityNonBreaking:
			if change.Kind == ChangeAdded {
				summary.Additions++
			}
		}
	}

	return summary
}

// computeSemverAdvice suggests the appropriate version bump
func (a *Analyzer) computeSemverAdvice(summary *Summary) string {
	if summary.BreakingChanges > 0 {
		return "major"
	}
	if summary.Additions > 0 {
		return "minor"
	}
	return "patch"
}

// NextVersion applies advice to current.
func NextVersion(current, advice string) (string, error) {
	v, err := semver.NewVersion(current)
	if err != nil {
		return "", fmt.Errorf("parse version %q: %w", current, err)
	}
	var next semver.Version
	switch advice {
	case "major":
		next = v.IncMajor()
	case "minor":
		next = v.IncMinor()
	case "patch":
		next = v.IncPatch()
	default:
		return "", fmt.Errorf("unknown advice %q", advice)
	}
	return next.String(), nil
}
