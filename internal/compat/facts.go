// Package compat decides whether each leaf of a delta tree is a backward
// compatible change.
//
// The decision is a table lookup keyed by element type, kind and flag. Each
// entry carries a predicate over the modifiers and restrictions recorded on
// the leaf. Combinations without an entry are compatible.
package compat

import (
	"apidelta/internal/delta"
	"apidelta/internal/modifiers"
)

// Facts are the parts of a leaf a rule may inspect.
type Facts struct {
	OldModifiers         modifiers.Access
	NewModifiers         modifiers.Access
	CurrentRestrictions  modifiers.Restriction
	PreviousRestrictions modifiers.Restriction
}

// FactsOf extracts the facts of d.
func FactsOf(d *delta.Delta) Facts {
	return Facts{
		OldModifiers:         d.OldModifiers(),
		NewModifiers:         d.NewModifiers(),
		CurrentRestrictions:  d.Restrictions(),
		PreviousRestrictions: d.PreviousRestrictions(),
	}
}

// restricted reports r on either side.
func (f Facts) restricted(r modifiers.Restriction) bool {
	return (f.CurrentRestrictions|f.PreviousRestrictions)&r != 0
}

func (f Facts) wasVisible() bool { return f.OldModifiers.IsVisible() }
func (f Facts) isVisible() bool  { return f.NewModifiers.IsVisible() }

// predicate returns true for a compatible change.
type predicate func(Facts) bool

func always(Facts) bool { return true }
func never(Facts) bool  { return false }

// unlessHidden breaks only contracts that were visible.
func unlessHidden(f Facts) bool { return !f.wasVisible() }

// unlessRestricted breaks visible contracts that r did not already exclude.
func unlessRestricted(r modifiers.Restriction) predicate {
	return func(f Facts) bool {
		return !f.wasVisible() || f.restricted(r)
	}
}

// addedUnless breaks when a visible element appears on a type whose
// clients were not told r.
func addedUnless(r modifiers.Restriction) predicate {
	return func(f Facts) bool {
		return !f.isVisible() || f.restricted(r)
	}
}

// memberRemoved covers fields and methods: removal matters to visible
// members unless clients were told not to reference them, and protected
// members only matter when the type can be extended.
func memberRemoved(f Facts) bool {
	if !f.wasVisible() || f.restricted(modifiers.NoReference) {
		return true
	}
	return f.OldModifiers.IsProtected() && f.restricted(modifiers.NoExtend)
}

// apiMemberRemoved is memberRemoved for members that stayed but lost API
// status, where visibility was already established.
func apiMemberRemoved(f Facts) bool {
	return f.restricted(modifiers.NoReference)
}

func constructorRemoved(f Facts) bool {
	if memberRemoved(f) {
		return true
	}
	return f.restricted(modifiers.NoInstantiate) && f.restricted(modifiers.NoExtend)
}

// accessDecreased allows narrowing protected members of types that cannot
// be extended.
func accessDecreased(f Facts) bool {
	if !f.wasVisible() {
		return true
	}
	return f.OldModifiers.IsProtected() && f.restricted(modifiers.NoExtend)
}

// becameFinal is shared by types and by methods reported against their
// declaring type.
func becameFinal(f Facts) bool {
	if !f.wasVisible() {
		return true
	}
	return f.PreviousRestrictions.IsExtendRestriction() ||
		f.CurrentRestrictions&(modifiers.NoExtend|modifiers.NoOverride) != 0
}

// abstractMethodAdded breaks subclasses of extendable classes.
func abstractMethodAdded(f Facts) bool {
	if !f.NewModifiers.IsAbstract() || !f.isVisible() {
		return true
	}
	return f.restricted(modifiers.NoExtend)
}

// restrictionsWidened is compatible when no new restriction bit appeared.
func restrictionsWidened(f Facts) bool {
	return f.CurrentRestrictions&^f.PreviousRestrictions == 0
}
