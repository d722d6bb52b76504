// Package members compares the fields, methods, constructors, supertypes and
// generic signature of one type against its counterpart in another baseline.
package members

import (
	"context"
	"log/slog"

	"apidelta/internal/baseline"
	"apidelta/internal/delta"
	"apidelta/internal/errors"
	"apidelta/internal/modifiers"
	"apidelta/internal/slogutil"
)

// Comparator produces the member-level subtree for a matched type pair.
type Comparator struct {
	logger *slog.Logger
}

// New creates a Comparator. A nil logger discards.
func New(logger *slog.Logger) *Comparator {
	return &Comparator{logger: slogutil.OrDiscard(logger)}
}

// ElementType maps a declaration kind onto the delta element type.
func ElementType(d *baseline.TypeDescriptor) delta.ElementType {
	switch d.Kind() {
	case baseline.KindInterface:
		return delta.ElementInterface
	case baseline.KindAnnotation:
		return delta.ElementAnnotation
	case baseline.KindEnum:
		return delta.ElementEnum
	default:
		return delta.ElementClass
	}
}

// CompareMembers diffs ref against the type behind target. refComp and comp
// own the two types; their baselines are used for hierarchy lookups. The
// returned error is a structural read failure of target or a cancellation.
func (c *Comparator) CompareMembers(ctx context.Context, ref *baseline.TypeDescriptor, target baseline.TypeRoot,
	refComp, comp *baseline.Component, mask modifiers.Visibility) (*delta.Delta, error) {
	if ref == nil || target == nil || refComp == nil || comp == nil {
		return nil, errors.Argument("member comparison needs both types and both components")
	}
	tgt, err := target.Descriptor()
	if err != nil {
		return nil, err
	}
	r := &run{
		ctx:     ctx,
		logger:  c.logger,
		refComp: refComp,
		comp:    comp,
		mask:    mask,
		refRes:  newResolver(refComp, c.logger),
		tgtRes:  newResolver(comp, c.logger),
	}
	return r.compareType(ref, tgt, 0)
}

// maxNesting bounds recursion into member types.
const maxNesting = 16

type run struct {
	ctx     context.Context
	logger  *slog.Logger
	refComp *baseline.Component
	comp    *baseline.Component
	mask    modifiers.Visibility
	refRes  *resolver
	tgtRes  *resolver
}

// typeRun holds the state of one type pair.
type typeRun struct {
	*run
	ref, tgt *baseline.TypeDescriptor
	elem     delta.ElementType

	// cur and prev are the effective restrictions of the target and
	// reference type.
	cur, prev modifiers.Restriction
	group     *delta.Group
}

func (r *run) apiOnly() bool { return r.mask == modifiers.API }

func (r *run) compareType(ref, tgt *baseline.TypeDescriptor, depth int) (*delta.Delta, error) {
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	t := &typeRun{
		run:  r,
		ref:  ref,
		tgt:  tgt,
		elem: ElementType(ref),
		group: delta.NewGroup(delta.Fields{
			Key:                ref.Name,
			ElementType:        ElementType(ref),
			Kind:               delta.Changed,
			ComponentID:        r.refComp.ID,
			ComponentVersionID: delta.ComponentVersionID(r.refComp.ID, r.refComp.Version),
			TypeName:           ref.Name,
		}),
	}
	if err := t.compare(depth); err != nil {
		return nil, err
	}
	return t.group.Build(), nil
}

// add appends a leaf, filling the identity of the reference type.
func (t *typeRun) add(s delta.Fields) {
	if s.Key == "" {
		s.Key = t.ref.Name
	}
	s.ComponentID = t.refComp.ID
	s.ComponentVersionID = delta.ComponentVersionID(t.refComp.ID, t.refComp.Version)
	s.TypeName = t.ref.Name
	if len(s.Arguments) == 0 {
		s.Arguments = []string{t.ref.Name}
	}
	t.group.Add(delta.New(s))
}

// typeChange records a change of the type itself.
func (t *typeRun) typeChange(kind delta.Kind, flag delta.Flag, restrictions modifiers.Restriction, args ...string) {
	t.add(delta.Fields{
		ElementType:          t.elem,
		Kind:                 kind,
		Flag:                 flag,
		OldModifiers:         t.ref.Access,
		NewModifiers:         t.tgt.Access,
		Restrictions:         restrictions,
		PreviousRestrictions: t.prev,
		Arguments:            append([]string{t.ref.Name}, args...),
	})
}

func (t *typeRun) compare(depth int) error {
	ref, tgt := t.ref, t.tgt
	ann1 := t.refComp.Annotation(baseline.TypeHandle(ref.Name))
	ann2 := t.comp.Annotation(baseline.TypeHandle(tgt.Name))
	t.prev, t.cur = ann1.Restrictions, ann2.Restrictions
	if ann1.Restrictions != ann2.Restrictions && (ann1.Restrictions.IsUnrestricted() || !ann2.Restrictions.IsUnrestricted()) {
		t.typeChange(delta.Changed, delta.Restrictions, ann2.Restrictions)
	}
	if tgt.Access.IsFinal() {
		t.cur |= modifiers.NoExtend
	}
	if ref.Access.IsFinal() {
		t.prev |= modifiers.NoExtend
	}

	if flag, ok := accessChange(ref.Access, tgt.Access); ok {
		t.typeChange(delta.Changed, flag, t.cur)
		return nil
	}
	if ref.Kind() != tgt.Kind() {
		t.typeChange(delta.Changed, delta.TypeConversion, t.cur, ref.Kind().String(), tgt.Kind().String())
		return nil
	}

	switch {
	case ref.Access.IsStatic() && !tgt.Access.IsStatic():
		t.typeChange(delta.Changed, delta.StaticToNonStatic, t.cur)
	case !ref.Access.IsStatic() && tgt.Access.IsStatic():
		t.typeChange(delta.Changed, delta.NonStaticToStatic, t.cur)
	}

	if ref.Kind() == baseline.KindClass || ref.Kind() == baseline.KindEnum {
		t.checkSuperclass()
	}
	t.checkSuperInterfaces()

	t.compareFields()
	t.compareEnumConstants()
	t.compareMethods(ref.Constructors, tgt.Constructors, true)
	t.compareMethods(ref.Methods, tgt.Methods, false)

	switch {
	case ref.Access.IsAbstract() && !tgt.Access.IsAbstract():
		t.typeChange(delta.Changed, delta.AbstractToNonAbstract, t.cur)
	case !ref.Access.IsAbstract() && tgt.Access.IsAbstract() && ref.Kind() == baseline.KindClass:
		t.typeChange(delta.Changed, delta.NonAbstractToAbstract, t.cur)
	}
	switch {
	case ref.Access.IsFinal() && !tgt.Access.IsFinal():
		t.typeChange(delta.Changed, delta.FinalToNonFinal, t.cur)
	case !ref.Access.IsFinal() && tgt.Access.IsFinal():
		t.typeChange(delta.Changed, delta.NonFinalToFinal, t.prev)
	}
	switch {
	case ref.HasClinit && !tgt.HasClinit:
		t.typeChange(delta.Removed, delta.Clinit, t.cur)
	case !ref.HasClinit && tgt.HasClinit:
		t.typeChange(delta.Added, delta.Clinit, t.cur)
	}

	t.checkTypeParameters(t.elem, ref.Name, ref.TypeParameters, tgt.TypeParameters, t.ref.Access, t.tgt.Access, t.cur)
	return t.compareMemberTypes(depth)
}

// accessChange reports a visibility transition between public, protected,
// package and private.
func accessChange(old, cur modifiers.Access) (delta.Flag, bool) {
	rank := func(a modifiers.Access) int {
		switch {
		case a.IsPublic():
			return 3
		case a.IsProtected():
			return 2
		case a.IsPrivate():
			return 0
		default:
			return 1
		}
	}
	switch o, n := rank(old), rank(cur); {
	case n < o:
		return delta.DecreaseAccess, true
	case n > o:
		return delta.IncreaseAccess, true
	}
	return delta.FlagNone, false
}

func (t *typeRun) checkSuperclass() {
	chain1 := t.refRes.superclasses(t.ref)
	chain2 := t.tgtRes.superclasses(t.tgt)
	switch {
	case len(chain1) == 0 && len(chain2) == 0:
		return
	case len(chain1) == 0:
		t.typeChange(delta.Added, delta.Superclass, t.cur, chain2[0])
		return
	case len(chain2) == 0:
		t.typeChange(delta.Removed, delta.Superclass, t.cur, chain1[0])
		return
	}
	if chain1[0] != chain2[0] {
		if contains(chain2, chain1[0]) {
			t.typeChange(delta.Added, delta.Superclass, t.cur, chain2[0])
		} else {
			t.typeChange(delta.Removed, delta.Superclass, t.cur, chain1[0])
		}
		return
	}
	for _, s := range chain1 {
		if !contains(chain2, s) {
			t.typeChange(delta.Changed, delta.ContractedSuperclassSet, t.cur, s)
			return
		}
	}
	if len(chain2) > len(chain1) {
		t.typeChange(delta.Changed, delta.ExpandedSuperclassSet, t.cur)
	}
}

func (t *typeRun) checkSuperInterfaces() {
	set1 := t.refRes.interfaces(t.ref)
	set2 := t.tgtRes.interfaces(t.tgt)
	for _, n := range set1 {
		if !contains(set2, n) {
			t.typeChange(delta.Changed, delta.ContractedSuperinterfacesSet, t.cur, n)
			return
		}
	}
	if len(set2) <= len(set1) {
		return
	}
	var added []string
	for _, n := range set2 {
		if !contains(set1, n) {
			added = append(added, n)
		}
	}
	if t.ref.Kind() == baseline.KindInterface {
		reported := false
		for _, n := range added {
			if t.tgtRes.hasAbstractMethods(n) {
				t.typeChange(delta.Added, delta.SuperInterfaceWithMethods, t.cur, n)
				reported = true
			}
		}
		if reported {
			return
		}
	}
	t.typeChange(delta.Changed, delta.ExpandedSuperinterfacesSet, t.cur, added[0])
}

func (t *typeRun) compareEnumConstants() {
	for _, name := range t.ref.EnumConstants {
		if contains(t.tgt.EnumConstants, name) {
			t.checkMemberAPILoss(name, delta.APIEnumConstant, 0)
			continue
		}
		t.add(delta.Fields{
			Key: name, ElementType: t.elem, Kind: delta.Removed, Flag: delta.EnumConstant,
			OldModifiers: t.ref.Access, NewModifiers: t.tgt.Access,
			Restrictions: t.cur, PreviousRestrictions: t.prev,
			Arguments: []string{t.ref.Name, name},
		})
	}
	for _, name := range t.tgt.EnumConstants {
		if contains(t.ref.EnumConstants, name) {
			continue
		}
		t.add(delta.Fields{
			Key: name, ElementType: t.elem, Kind: delta.Added, Flag: delta.EnumConstant,
			OldModifiers: t.ref.Access, NewModifiers: t.tgt.Access,
			Restrictions: t.cur, PreviousRestrictions: t.prev,
			Arguments: []string{t.ref.Name, name},
		})
	}
}

// checkMemberAPILoss reports a member that still exists but is no longer
// API in the target description. Only meaningful for the API mask.
func (t *typeRun) checkMemberAPILoss(member string, flag delta.Flag, access modifiers.Access) bool {
	if !t.apiOnly() {
		return false
	}
	a1 := t.refComp.Annotation(baseline.MemberHandle(t.ref.Name, member))
	a2 := t.comp.Annotation(baseline.MemberHandle(t.tgt.Name, member))
	if !a1.Visibility.IsAPI() || a2.Visibility.IsAPI() {
		return false
	}
	t.add(delta.Fields{
		Key: member, ElementType: t.elem, Kind: delta.Removed, Flag: flag,
		OldModifiers: access, NewModifiers: access,
		Restrictions: t.cur | a2.Restrictions, PreviousRestrictions: t.prev | a1.Restrictions,
		Arguments: []string{t.ref.Name, member},
	})
	return true
}

func (t *typeRun) compareMemberTypes(depth int) error {
	for _, name := range t.ref.MemberTypes {
		d1 := t.refRes.find(name)
		if !contains(t.tgt.MemberTypes, name) {
			if d1 != nil && t.apiOnly() && !d1.Access.IsVisible() {
				continue
			}
			var access modifiers.Access
			if d1 != nil {
				access = d1.Access
			}
			t.add(delta.Fields{
				Key: name, ElementType: t.elem, Kind: delta.Removed, Flag: delta.TypeMember,
				OldModifiers: access, Restrictions: t.cur, PreviousRestrictions: t.prev,
				Arguments: []string{t.ref.Name, name},
			})
			continue
		}
		d2 := t.tgtRes.find(name)
		if d1 == nil || d2 == nil || depth >= maxNesting {
			continue
		}
		if t.apiOnly() && !d1.Access.IsVisible() && !d2.Access.IsVisible() {
			continue
		}
		sub, err := t.compareType(d1, d2, depth+1)
		if err != nil {
			return err
		}
		t.group.Add(sub)
	}
	for _, name := range t.tgt.MemberTypes {
		if contains(t.ref.MemberTypes, name) {
			continue
		}
		var access modifiers.Access
		if d2 := t.tgtRes.find(name); d2 != nil {
			if t.apiOnly() && !d2.Access.IsVisible() {
				continue
			}
			access = d2.Access
		}
		t.add(delta.Fields{
			Key: name, ElementType: t.elem, Kind: delta.Added, Flag: delta.TypeMember,
			NewModifiers: access, Restrictions: t.cur, PreviousRestrictions: t.prev,
			Arguments: []string{t.ref.Name, name},
		})
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
