package members

import (
	"apidelta/internal/baseline"
	"apidelta/internal/delta"
	"apidelta/internal/modifiers"
)

const clinitName = "<clinit>"

func (t *typeRun) memberVisibleEither(a1, a2 modifiers.Access) bool {
	if !t.apiOnly() {
		return true
	}
	return a1.IsVisible() || a2.IsVisible()
}

func methodFlags(ctor bool) (plain, api delta.Flag) {
	if ctor {
		return delta.Constructor, delta.APIConstructor
	}
	return delta.Method, delta.APIMethod
}

func (t *typeRun) compareMethods(refs, tgts []baseline.Method, ctor bool) {
	for _, m1 := range refs {
		if m1.Access.IsSynthetic() || m1.Name == clinitName {
			continue
		}
		var m2 baseline.Method
		var ok bool
		if ctor {
			m2, ok = t.tgt.Constructor(m1.Descriptor)
		} else {
			m2, ok = t.tgt.Method(m1.Name, m1.Descriptor)
		}
		if !ok {
			t.methodRemoved(m1, ctor)
			continue
		}
		if !t.memberVisibleEither(m1.Access, m2.Access) {
			continue
		}
		t.methodChanged(m1, m2, ctor)
	}
	for _, m2 := range tgts {
		if m2.Access.IsSynthetic() || m2.Name == clinitName {
			continue
		}
		var found bool
		if ctor {
			_, found = t.ref.Constructor(m2.Descriptor)
		} else {
			_, found = t.ref.Method(m2.Name, m2.Descriptor)
		}
		if !found {
			t.methodAdded(m2, ctor)
		}
	}
}

func (t *typeRun) memberLeaf(kind delta.Kind, flag delta.Flag, key string, old, cur modifiers.Access,
	restrictions, previous modifiers.Restriction, elem delta.ElementType, extra ...string) {
	t.add(delta.Fields{
		Key:                  key,
		ElementType:          elem,
		Kind:                 kind,
		Flag:                 flag,
		OldModifiers:         old,
		NewModifiers:         cur,
		Restrictions:         restrictions,
		PreviousRestrictions: previous,
		Arguments:            append([]string{t.ref.Name, key}, extra...),
	})
}

func (t *typeRun) methodRemoved(m baseline.Method, ctor bool) {
	if t.apiOnly() && !m.Access.IsVisible() {
		return
	}
	plain, _ := methodFlags(ctor)
	restrictions := t.cur
	if t.tgt.Access.IsAbstract() {
		restrictions |= modifiers.NoInstantiate
	}
	key := m.Key()
	if m.Access.IsPrivate() || m.Access.IsDefault() {
		t.memberLeaf(delta.Removed, plain, key, m.Access, 0, restrictions, t.prev, t.elem)
		return
	}
	if !ctor && t.tgtRes.inheritedMethod(t.tgt, m.Name, m.Descriptor) {
		t.memberLeaf(delta.Removed, delta.MethodMovedUp, key, m.Access, 0, t.cur, t.prev, t.elem)
		return
	}
	ann := t.refComp.Annotation(baseline.MemberHandle(t.ref.Name, key))
	if t.apiOnly() && ann.Restrictions.IsReferenceRestriction() {
		return
	}
	if t.ref.Kind() == baseline.KindAnnotation && !ctor {
		flag := delta.MethodWithoutDefaultValue
		if m.DefaultValue != nil {
			flag = delta.MethodWithDefaultValue
		}
		t.memberLeaf(delta.Removed, flag, key, m.Access, 0, t.cur, t.prev|ann.Restrictions, t.elem)
		return
	}
	t.memberLeaf(delta.Removed, plain, key, m.Access, 0, restrictions, t.prev|ann.Restrictions, t.elem)
}

func (t *typeRun) methodAdded(m baseline.Method, ctor bool) {
	key := m.Key()
	ann := t.comp.Annotation(baseline.MemberHandle(t.tgt.Name, key))
	if t.apiOnly() && ann.Restrictions.IsReferenceRestriction() {
		return
	}
	if t.apiOnly() && !m.Access.IsVisible() {
		return
	}
	restrictions := t.cur
	if t.tgt.Access.IsFinal() {
		restrictions |= modifiers.NoExtend
	}
	plain, _ := methodFlags(ctor)
	if !m.Access.IsVisible() || ctor {
		t.memberLeaf(delta.Added, plain, key, 0, m.Access, restrictions, t.prev, t.elem)
		return
	}
	if t.ref.Kind() == baseline.KindAnnotation {
		flag := delta.MethodWithoutDefaultValue
		if m.DefaultValue != nil {
			flag = delta.MethodWithDefaultValue
		}
		t.memberLeaf(delta.Added, flag, key, 0, m.Access, restrictions, t.prev, t.elem)
		return
	}
	flag := delta.Method
	switch {
	case t.refRes.inheritedMethod(t.ref, m.Name, m.Descriptor):
		flag = delta.MethodMovedDown
	case t.tgtRes.inheritedMethod(t.tgt, m.Name, m.Descriptor):
		flag = delta.OverriddenMethod
	}
	t.memberLeaf(delta.Added, flag, key, 0, m.Access, restrictions, t.prev, t.elem)
}

func (t *typeRun) methodChanged(m1, m2 baseline.Method, ctor bool) {
	key := m1.Key()
	elem := delta.ElementMethod
	if ctor {
		elem = delta.ElementConstructor
	}
	a1 := t.refComp.Annotation(baseline.MemberHandle(t.ref.Name, key))
	a2 := t.comp.Annotation(baseline.MemberHandle(t.tgt.Name, key))
	restrictions := t.cur | a2.Restrictions
	previous := t.prev | a1.Restrictions
	plain, api := methodFlags(ctor)

	if t.apiOnly() {
		if previous.IsReferenceRestriction() && !restrictions.IsReferenceRestriction() {
			t.memberLeaf(delta.Added, plain, key, m1.Access, m2.Access, restrictions, previous, t.elem)
			return
		}
		if a1.Visibility.IsAPI() && !a2.Visibility.IsAPI() {
			flag := api
			if t.ref.Kind() == baseline.KindAnnotation && !ctor {
				flag = delta.APIMethodWithoutDefaultValue
				if m1.DefaultValue != nil {
					flag = delta.APIMethodWithDefaultValue
				}
			}
			t.memberLeaf(delta.Removed, flag, key, m1.Access, m2.Access, restrictions, previous, t.elem)
			return
		}
	}
	leaf := func(kind delta.Kind, flag delta.Flag, extra ...string) {
		t.memberLeaf(kind, flag, key, m1.Access, m2.Access, restrictions, previous, elem, extra...)
	}

	t.compareExceptions(m1, m2, leaf)

	switch {
	case m1.Access.IsVarargs() && !m2.Access.IsVarargs():
		leaf(delta.Changed, delta.VarargsToArray)
	case !m1.Access.IsVarargs() && m2.Access.IsVarargs():
		leaf(delta.Changed, delta.ArrayToVarargs)
	}
	if flag, ok := accessChange(m1.Access, m2.Access); ok {
		leaf(delta.Changed, flag)
	}
	switch {
	case m1.Access.IsAbstract() && !m2.Access.IsAbstract():
		leaf(delta.Changed, delta.AbstractToNonAbstract)
	case !m1.Access.IsAbstract() && m2.Access.IsAbstract():
		leaf(delta.Changed, delta.NonAbstractToAbstract)
	}
	switch {
	case m1.Access.IsFinal() && !m2.Access.IsFinal():
		leaf(delta.Changed, delta.FinalToNonFinal)
	case !m1.Access.IsFinal() && m2.Access.IsFinal():
		res := restrictions
		if !res.IsOverrideRestriction() {
			switch {
			case t.cur.IsExtendRestriction():
				res = t.cur
			case t.prev.IsExtendRestriction():
				res = t.prev
			}
		}
		// reported against the declaring type, keyed by the method
		t.memberLeaf(delta.Changed, delta.NonFinalToFinal, key, m1.Access, m2.Access, res, previous, t.elem)
	}
	switch {
	case m1.Access.IsStatic() && !m2.Access.IsStatic():
		leaf(delta.Changed, delta.StaticToNonStatic)
	case !m1.Access.IsStatic() && m2.Access.IsStatic():
		leaf(delta.Changed, delta.NonStaticToStatic)
	}
	switch {
	case m1.Access.IsNative() && !m2.Access.IsNative():
		leaf(delta.Changed, delta.NativeToNonNative)
	case !m1.Access.IsNative() && m2.Access.IsNative():
		leaf(delta.Changed, delta.NonNativeToNative)
	}
	switch {
	case m1.Access.IsSynchronized() && !m2.Access.IsSynchronized():
		leaf(delta.Changed, delta.SynchronizedToNonSynchronized)
	case !m1.Access.IsSynchronized() && m2.Access.IsSynchronized():
		leaf(delta.Changed, delta.NonSynchronizedToSynchronized)
	}
	switch {
	case m1.DefaultValue == nil && m2.DefaultValue != nil:
		leaf(delta.Added, delta.AnnotationDefaultValue)
	case m1.DefaultValue != nil && m2.DefaultValue == nil:
		leaf(delta.Removed, delta.AnnotationDefaultValue)
	case m1.DefaultValue != nil && *m1.DefaultValue != *m2.DefaultValue:
		leaf(delta.Changed, delta.AnnotationDefaultValue, *m1.DefaultValue, *m2.DefaultValue)
	}

	t.checkTypeParameters(elem, key, m1.TypeParameters, m2.TypeParameters, m1.Access, m2.Access, restrictions)
}

func (t *typeRun) compareExceptions(m1, m2 baseline.Method, leaf func(delta.Kind, delta.Flag, ...string)) {
	flagOf := func(e baseline.Exception) delta.Flag {
		if e.Unchecked {
			return delta.UncheckedException
		}
		return delta.CheckedException
	}
	has := func(list []baseline.Exception, typ string) bool {
		for _, e := range list {
			if e.Type == typ {
				return true
			}
		}
		return false
	}
	for _, e := range m1.Exceptions {
		if !has(m2.Exceptions, e.Type) {
			leaf(delta.Removed, flagOf(e), e.Type)
		}
	}
	for _, e := range m2.Exceptions {
		if !has(m1.Exceptions, e.Type) {
			leaf(delta.Added, flagOf(e), e.Type)
		}
	}
}
