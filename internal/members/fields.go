package members

import (
	"apidelta/internal/baseline"
	"apidelta/internal/delta"
	"apidelta/internal/modifiers"
)

func (t *typeRun) compareFields() {
	for _, f1 := range t.ref.Fields {
		if f1.Access.IsSynthetic() {
			continue
		}
		f2, ok := t.tgt.Field(f1.Name)
		if !ok {
			t.fieldRemoved(f1)
			continue
		}
		if !t.memberVisibleEither(f1.Access, f2.Access) {
			continue
		}
		t.fieldChanged(f1, f2)
	}
	for _, f2 := range t.tgt.Fields {
		if f2.Access.IsSynthetic() {
			continue
		}
		if _, ok := t.ref.Field(f2.Name); ok {
			continue
		}
		if t.apiOnly() && !f2.Access.IsVisible() {
			continue
		}
		ann := t.comp.Annotation(baseline.MemberHandle(t.tgt.Name, f2.Name))
		if t.apiOnly() && ann.Restrictions.IsReferenceRestriction() {
			continue
		}
		t.memberLeaf(delta.Added, delta.Field, f2.Name, 0, f2.Access, t.cur, t.prev, t.elem)
	}
}

func (t *typeRun) fieldRemoved(f baseline.Field) {
	if t.apiOnly() && !f.Access.IsVisible() {
		return
	}
	ann := t.refComp.Annotation(baseline.MemberHandle(t.ref.Name, f.Name))
	if t.apiOnly() && ann.Restrictions.IsReferenceRestriction() {
		return
	}
	if f.Access.IsVisible() && t.tgtRes.inheritedField(t.tgt, f.Name) {
		t.memberLeaf(delta.Removed, delta.FieldMovedUp, f.Name, f.Access, 0, t.cur, t.prev|ann.Restrictions, t.elem)
		return
	}
	t.memberLeaf(delta.Removed, delta.Field, f.Name, f.Access, 0, t.cur, t.prev|ann.Restrictions, t.elem)
}

func (t *typeRun) fieldChanged(f1, f2 baseline.Field) {
	a1 := t.refComp.Annotation(baseline.MemberHandle(t.ref.Name, f1.Name))
	a2 := t.comp.Annotation(baseline.MemberHandle(t.tgt.Name, f2.Name))
	restrictions := t.cur | a2.Restrictions
	previous := t.prev | a1.Restrictions

	if t.apiOnly() && a1.Visibility.IsAPI() && !a2.Visibility.IsAPI() {
		t.memberLeaf(delta.Removed, delta.APIField, f1.Name, f1.Access, f2.Access, restrictions, previous, t.elem)
		return
	}
	leaf := func(kind delta.Kind, flag delta.Flag, extra ...string) {
		t.memberLeaf(kind, flag, f1.Name, f1.Access, f2.Access, restrictions, previous, delta.ElementField, extra...)
	}

	if f1.Type != f2.Type {
		leaf(delta.Changed, delta.Type, f1.Type, f2.Type)
	}
	switch {
	case f1.Value != nil && f2.Value == nil:
		leaf(delta.Removed, delta.Value, *f1.Value)
	case f1.Value == nil && f2.Value != nil:
		leaf(delta.Added, delta.Value, *f2.Value)
	case f1.Value != nil && *f1.Value != *f2.Value:
		leaf(delta.Changed, delta.Value, *f1.Value, *f2.Value)
	}
	if flag, ok := accessChange(f1.Access, f2.Access); ok {
		leaf(delta.Changed, flag)
	}
	switch {
	case f1.Access.IsFinal() && !f2.Access.IsFinal():
		switch {
		case !f1.Access.IsStatic():
			leaf(delta.Changed, delta.FinalToNonFinalNonStatic)
		case f1.Value != nil:
			leaf(delta.Changed, delta.FinalToNonFinalStaticConstant)
		default:
			leaf(delta.Changed, delta.FinalToNonFinalStaticNonConstant)
		}
	case !f1.Access.IsFinal() && f2.Access.IsFinal():
		leaf(delta.Changed, delta.NonFinalToFinal)
	}
	switch {
	case f1.Access.IsStatic() && !f2.Access.IsStatic():
		leaf(delta.Changed, delta.StaticToNonStatic)
	case !f1.Access.IsStatic() && f2.Access.IsStatic():
		leaf(delta.Changed, delta.NonStaticToStatic)
	}
	switch {
	case f1.Access.IsTransient() && !f2.Access.IsTransient():
		leaf(delta.Changed, delta.TransientToNonTransient)
	case !f1.Access.IsTransient() && f2.Access.IsTransient():
		leaf(delta.Changed, delta.NonTransientToTransient)
	}
	switch {
	case f1.Access.IsVolatile() && !f2.Access.IsVolatile():
		leaf(delta.Changed, delta.VolatileToNonVolatile)
	case !f1.Access.IsVolatile() && f2.Access.IsVolatile():
		leaf(delta.Changed, delta.NonVolatileToVolatile)
	}
	t.compareTypeArguments(f1, f2, restrictions, previous)
}

func (t *typeRun) compareTypeArguments(f1, f2 baseline.Field, restrictions, previous modifiers.Restriction) {
	leaf := func(kind delta.Kind, flag delta.Flag, extra ...string) {
		t.memberLeaf(kind, flag, f1.Name, f1.Access, f2.Access, restrictions, previous, delta.ElementField, extra...)
	}
	args1, args2 := f1.TypeArguments, f2.TypeArguments
	switch {
	case len(args1) == 0 && len(args2) > 0:
		leaf(delta.Added, delta.TypeArguments)
		return
	case len(args1) > 0 && len(args2) == 0:
		for _, a := range args1 {
			leaf(delta.Removed, delta.TypeArgument, a)
		}
		return
	}
	n := min(len(args1), len(args2))
	for i := 0; i < n; i++ {
		if args1[i] != args2[i] {
			leaf(delta.Changed, delta.TypeArgument, args1[i], args2[i])
		}
	}
	for _, a := range args1[n:] {
		leaf(delta.Removed, delta.TypeArgument, a)
	}
	for _, a := range args2[n:] {
		leaf(delta.Added, delta.TypeArgument, a)
	}
}
