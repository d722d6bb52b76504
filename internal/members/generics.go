package members

import (
	"strings"

	"apidelta/internal/baseline"
	"apidelta/internal/delta"
	"apidelta/internal/modifiers"
)

// checkTypeParameters compares the generic parameters of a type or method.
// owner is the element type of the declaring element and key its delta key.
func (t *typeRun) checkTypeParameters(owner delta.ElementType, key string, p1, p2 []baseline.TypeParameter,
	old, cur modifiers.Access, restrictions modifiers.Restriction) {
	ownerLeaf := func(kind delta.Kind, flag delta.Flag, extra ...string) {
		t.memberLeaf(kind, flag, key, old, cur, restrictions, t.prev, owner, extra...)
	}
	paramLeaf := func(kind delta.Kind, flag delta.Flag, name string, extra ...string) {
		t.add(delta.Fields{
			Key:                  key + "<" + name + ">",
			ElementType:          delta.ElementTypeParameter,
			Kind:                 kind,
			Flag:                 flag,
			OldModifiers:         old,
			NewModifiers:         cur,
			Restrictions:         restrictions,
			PreviousRestrictions: t.prev,
			Arguments:            append([]string{key, name}, extra...),
		})
	}

	switch {
	case len(p1) == 0 && len(p2) == 0:
		return
	case len(p1) == 0:
		ownerLeaf(delta.Added, delta.TypeParameters)
		return
	case len(p2) == 0:
		for _, p := range p1 {
			ownerLeaf(delta.Removed, delta.TypeParameter, p.Name)
		}
		return
	}

	n := min(len(p1), len(p2))
	for i := 0; i < n; i++ {
		a, b := p1[i], p2[i]
		if a.Name != b.Name {
			paramLeaf(delta.Changed, delta.TypeParameterName, a.Name, b.Name)
		}
		switch {
		case a.ClassBound == "" && b.ClassBound != "":
			paramLeaf(delta.Added, delta.ClassBound, a.Name, b.ClassBound)
		case a.ClassBound != "" && b.ClassBound == "":
			paramLeaf(delta.Removed, delta.ClassBound, a.Name, a.ClassBound)
		case a.ClassBound != b.ClassBound:
			paramLeaf(delta.Changed, delta.ClassBound, a.Name, a.ClassBound, b.ClassBound)
		}
		t.checkInterfaceBounds(a, b, paramLeaf)
	}
	for _, p := range p1[n:] {
		ownerLeaf(delta.Removed, delta.TypeParameter, p.Name)
	}
	for _, p := range p2[n:] {
		ownerLeaf(delta.Added, delta.TypeParameter, p.Name)
	}
}

func (t *typeRun) checkInterfaceBounds(a, b baseline.TypeParameter,
	leaf func(delta.Kind, delta.Flag, string, ...string)) {
	i1, i2 := a.InterfaceBounds, b.InterfaceBounds
	switch {
	case len(i1) == 0 && len(i2) == 0:
		return
	case len(i1) == 0:
		for _, bound := range i2 {
			leaf(delta.Added, delta.InterfaceBound, a.Name, bound)
		}
		return
	case len(i2) == 0:
		for _, bound := range i1 {
			leaf(delta.Removed, delta.InterfaceBound, a.Name, bound)
		}
		return
	}
	if len(i1) != len(i2) {
		leaf(delta.Changed, delta.InterfaceBounds, a.Name, strings.Join(i1, " & "), strings.Join(i2, " & "))
		return
	}
	for i := range i1 {
		if i1[i] != i2[i] {
			leaf(delta.Changed, delta.InterfaceBound, a.Name, i1[i], i2[i])
		}
	}
}
