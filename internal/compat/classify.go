package compat

import (
	"apidelta/internal/delta"
)

// Verdict is the classification of one leaf.
type Verdict struct {
	Delta      *delta.Delta
	Compatible bool

	// Rule is the matching table entry. Matched is false when the
	// default applied.
	Rule    Rule
	Matched bool
}

// IsCompatible reports whether every leaf of d is compatible. An empty
// tree is compatible.
func IsCompatible(d *delta.Delta) bool {
	return delta.All(d, func(leaf *delta.Delta) bool {
		return Evaluate(leaf).Compatible
	})
}

// Classify returns a verdict for each leaf of d in depth-first order.
func Classify(d *delta.Delta) []Verdict {
	return delta.Fold(d, []Verdict(nil), func(out []Verdict, leaf *delta.Delta) []Verdict {
		return append(out, Evaluate(leaf))
	})
}

// Evaluate classifies a single leaf.
func Evaluate(leaf *delta.Delta) Verdict {
	v := Verdict{Delta: leaf, Compatible: true}
	if leaf.IsEmpty() {
		return v
	}
	if referenceOnly[leaf.ElementType()] && leaf.Restrictions().IsReferenceRestriction() {
		return v
	}
	r, ok := Lookup(leaf.ElementType(), leaf.Kind(), leaf.Flag())
	if !ok {
		return v
	}
	v.Rule, v.Matched = r, true
	v.Compatible = r.Compatible(FactsOf(leaf))
	return v
}

// Incompatible filters Classify to the breaking leaves.
func Incompatible(d *delta.Delta) []*delta.Delta {
	return delta.Find(d, func(leaf *delta.Delta) bool {
		return !Evaluate(leaf).Compatible
	})
}
