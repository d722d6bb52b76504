package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidelta/internal/delta"
	"apidelta/internal/modifiers"
)

type leafOpts struct {
	old, cur          modifiers.Access
	current, previous modifiers.Restriction
}

func leaf(elem delta.ElementType, kind delta.Kind, flag delta.Flag, o leafOpts) *delta.Delta {
	return delta.New(delta.Fields{
		Key:                  "a.Foo",
		ElementType:          elem,
		Kind:                 kind,
		Flag:                 flag,
		OldModifiers:         o.old,
		NewModifiers:         o.cur,
		Restrictions:         o.current,
		PreviousRestrictions: o.previous,
		ComponentID:          "acme.core",
		ComponentVersionID:   "acme.core(1.0.0)",
		TypeName:             "a.Foo",
	})
}

func TestClassifierIsTotal(t *testing.T) {
	accesses := []modifiers.Access{0, modifiers.Public, modifiers.Protected, modifiers.Private,
		modifiers.Public | modifiers.Abstract | modifiers.Final | modifiers.Static}
	restrictions := []modifiers.Restriction{modifiers.NoRestrictions, modifiers.NoExtend,
		modifiers.NoImplement | modifiers.NoInstantiate, modifiers.NoReference | modifiers.NoOverride}

	n := 0
	for _, elem := range delta.ElementTypes() {
		for _, kind := range delta.Kinds() {
			for _, flag := range delta.Flags() {
				for _, a := range accesses {
					for _, r := range restrictions {
						d := leaf(elem, kind, flag, leafOpts{old: a, cur: a, current: r, previous: r})
						assert.NotPanics(t, func() { IsCompatible(d) })
						n++
					}
				}
			}
		}
	}
	assert.Greater(t, n, 0)
}

func TestRulesTable(t *testing.T) {
	rules := Rules()
	assert.GreaterOrEqual(t, len(rules), 70)

	seen := map[string]bool{}
	for _, r := range rules {
		key := r.String()
		require.False(t, seen[key], "duplicate rule %s", key)
		seen[key] = true
		assert.NotEmpty(t, r.Description, key)

		got, ok := Lookup(r.Element, r.Kind, r.Flag)
		require.True(t, ok, key)
		assert.Equal(t, r.Description, got.Description)
	}

	_, ok := Lookup(delta.ElementField, delta.Added, delta.APIComponent)
	assert.False(t, ok)
}

func TestMethodMadeFinal(t *testing.T) {
	pub := modifiers.Public
	final := leafOpts{old: pub, cur: pub | modifiers.Final}
	assert.False(t, IsCompatible(leaf(delta.ElementClass, delta.Changed, delta.NonFinalToFinal, final)))

	final.previous = modifiers.NoExtend
	assert.True(t, IsCompatible(leaf(delta.ElementClass, delta.Changed, delta.NonFinalToFinal, final)))

	final = leafOpts{old: pub, cur: pub | modifiers.Final, current: modifiers.NoOverride}
	assert.True(t, IsCompatible(leaf(delta.ElementInterface, delta.Changed, delta.NonFinalToFinal, final)))

	hidden := leafOpts{old: modifiers.Private, cur: modifiers.Private | modifiers.Final}
	assert.True(t, IsCompatible(leaf(delta.ElementClass, delta.Changed, delta.NonFinalToFinal, hidden)))
}

func TestInterfaceGainsMethod(t *testing.T) {
	added := leafOpts{cur: modifiers.Public | modifiers.Abstract}
	assert.False(t, IsCompatible(leaf(delta.ElementInterface, delta.Added, delta.Method, added)))
	assert.True(t, IsCompatible(leaf(delta.ElementClass, delta.Added, delta.Method, leafOpts{cur: modifiers.Public})))

	added.current = modifiers.NoImplement
	assert.True(t, IsCompatible(leaf(delta.ElementInterface, delta.Added, delta.Method, added)))
}

func TestClassRules(t *testing.T) {
	pub, prot := modifiers.Public, modifiers.Protected
	tests := []struct {
		name string
		d    *delta.Delta
		want bool
	}{
		{"public method removed", leaf(delta.ElementClass, delta.Removed, delta.Method, leafOpts{old: pub}), false},
		{"private method removed", leaf(delta.ElementClass, delta.Removed, delta.Method, leafOpts{old: modifiers.Private}), true},
		{"no-reference method removed", leaf(delta.ElementClass, delta.Removed, delta.Method,
			leafOpts{old: pub, previous: modifiers.NoReference}), true},
		{"protected method of no-extend class removed", leaf(delta.ElementClass, delta.Removed, delta.Method,
			leafOpts{old: prot, current: modifiers.NoExtend}), true},
		{"method moved up", leaf(delta.ElementClass, delta.Removed, delta.MethodMovedUp, leafOpts{old: pub}), true},
		{"constructor removed", leaf(delta.ElementClass, delta.Removed, delta.Constructor, leafOpts{old: pub}), false},
		{"constructor of sealed class removed", leaf(delta.ElementClass, delta.Removed, delta.Constructor,
			leafOpts{old: pub, current: modifiers.NoExtend | modifiers.NoInstantiate}), true},
		{"abstract method added", leaf(delta.ElementClass, delta.Added, delta.Method,
			leafOpts{cur: pub | modifiers.Abstract}), false},
		{"abstract method added to no-extend class", leaf(delta.ElementClass, delta.Added, delta.Method,
			leafOpts{cur: pub | modifiers.Abstract, current: modifiers.NoExtend}), true},
		{"class made abstract", leaf(delta.ElementClass, delta.Changed, delta.NonAbstractToAbstract, leafOpts{old: pub}), false},
		{"no-instantiate class made abstract", leaf(delta.ElementClass, delta.Changed, delta.NonAbstractToAbstract,
			leafOpts{old: pub, current: modifiers.NoInstantiate}), true},
		{"superclass set contracted", leaf(delta.ElementClass, delta.Changed, delta.ContractedSuperclassSet, leafOpts{old: pub}), false},
		{"restrictions added", leaf(delta.ElementClass, delta.Changed, delta.Restrictions,
			leafOpts{old: pub, current: modifiers.NoExtend}), false},
		{"restrictions dropped", leaf(delta.ElementClass, delta.Changed, delta.Restrictions,
			leafOpts{old: pub, previous: modifiers.NoExtend}), true},
		{"unknown shape", leaf(delta.ElementClass, delta.Changed, delta.Value, leafOpts{old: pub}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompatible(tt.d))
		})
	}
}

func TestMemberRules(t *testing.T) {
	pub := modifiers.Public
	constant := pub | modifiers.Static | modifiers.Final
	tests := []struct {
		name string
		d    *delta.Delta
		want bool
	}{
		{"field type changed", leaf(delta.ElementField, delta.Changed, delta.Type, leafOpts{old: pub}), false},
		{"constant value changed", leaf(delta.ElementField, delta.Changed, delta.Value, leafOpts{old: constant}), false},
		{"constant made non-final", leaf(delta.ElementField, delta.Changed, delta.FinalToNonFinalStaticConstant,
			leafOpts{old: constant}), false},
		{"instance field made non-final", leaf(delta.ElementField, delta.Changed, delta.FinalToNonFinalNonStatic,
			leafOpts{old: pub | modifiers.Final}), true},
		{"reference-only field", leaf(delta.ElementField, delta.Changed, delta.Type,
			leafOpts{old: pub, current: modifiers.NoReference}), true},
		{"checked exception added", leaf(delta.ElementMethod, delta.Added, delta.CheckedException, leafOpts{old: pub}), false},
		{"unchecked exception added", leaf(delta.ElementMethod, delta.Added, delta.UncheckedException, leafOpts{old: pub}), true},
		{"varargs to array", leaf(delta.ElementMethod, delta.Changed, delta.VarargsToArray, leafOpts{old: pub}), false},
		{"public to protected", leaf(delta.ElementMethod, delta.Changed, delta.DecreaseAccess, leafOpts{old: pub}), false},
		{"protected narrowed under no-extend", leaf(delta.ElementMethod, delta.Changed, delta.DecreaseAccess,
			leafOpts{old: modifiers.Protected, current: modifiers.NoExtend}), true},
		{"constructor narrowed", leaf(delta.ElementConstructor, delta.Changed, delta.DecreaseAccess, leafOpts{old: pub}), false},
		{"method made static", leaf(delta.ElementMethod, delta.Changed, delta.NonStaticToStatic, leafOpts{old: pub}), false},
		{"reference-only method", leaf(delta.ElementMethod, delta.Changed, delta.NonStaticToStatic,
			leafOpts{old: pub, current: modifiers.NoReference}), true},
		{"bound changed", leaf(delta.ElementTypeParameter, delta.Changed, delta.ClassBound, leafOpts{old: pub}), false},
		{"parameter renamed", leaf(delta.ElementTypeParameter, delta.Changed, delta.TypeParameterName, leafOpts{old: pub}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompatible(tt.d))
		})
	}
}

func TestTreeClassification(t *testing.T) {
	g := delta.NewGroup(delta.Fields{ElementType: delta.ElementComponent})
	ok := leaf(delta.ElementComponent, delta.Added, delta.Type, leafOpts{cur: modifiers.Public})
	bad := leaf(delta.ElementBaseline, delta.Removed, delta.APIComponent, leafOpts{})
	g.AddAll(ok, bad)
	tree := g.Build()

	assert.False(t, IsCompatible(tree))
	assert.True(t, IsCompatible(delta.NoDelta))
	assert.True(t, IsCompatible(ok))

	verdicts := Classify(tree)
	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Compatible)
	assert.True(t, verdicts[0].Matched)
	assert.False(t, verdicts[1].Compatible)
	assert.Equal(t, "component removed", verdicts[1].Rule.Description)
	assert.Equal(t, []*delta.Delta{bad}, Incompatible(tree))
}

func TestReferenceVerdicts(t *testing.T) {
	pub := modifiers.Public
	constant := pub | modifiers.Static | modifiers.Final
	tests := []struct {
		name string
		d    *delta.Delta
		want bool
	}{
		{"field added to implementable interface", leaf(delta.ElementInterface, delta.Added, delta.Field,
			leafOpts{cur: constant}), false},
		{"field added to no-implement interface", leaf(delta.ElementInterface, delta.Added, delta.Field,
			leafOpts{cur: constant, current: modifiers.NoImplement}), true},
		{"field moved up to superinterface", leaf(delta.ElementInterface, delta.Removed, delta.FieldMovedUp,
			leafOpts{old: constant}), true},
		{"field added to annotation", leaf(delta.ElementAnnotation, delta.Added, delta.Field,
			leafOpts{cur: constant}), false},
		{"annotation element without default added", leaf(delta.ElementAnnotation, delta.Added, delta.MethodWithoutDefaultValue,
			leafOpts{cur: pub | modifiers.Abstract}), false},
		{"annotation element added under no-implement", leaf(delta.ElementAnnotation, delta.Added, delta.MethodWithoutDefaultValue,
			leafOpts{cur: pub | modifiers.Abstract, current: modifiers.NoImplement}), true},
		{"annotation element added under no-reference only", leaf(delta.ElementAnnotation, delta.Added, delta.MethodWithoutDefaultValue,
			leafOpts{cur: pub | modifiers.Abstract, current: modifiers.NoReference}), false},
		{"field added to class", leaf(delta.ElementClass, delta.Added, delta.Field, leafOpts{cur: pub}), true},
		{"visible field made constant", leaf(delta.ElementField, delta.Added, delta.Value,
			leafOpts{old: pub | modifiers.Static, cur: constant}), false},
		{"private field made constant", leaf(delta.ElementField, delta.Added, delta.Value,
			leafOpts{old: modifiers.Private | modifiers.Static, cur: modifiers.Private | modifiers.Static | modifiers.Final}), true},
		{"constant value changed under no-extend", leaf(delta.ElementField, delta.Changed, delta.Value,
			leafOpts{old: constant, cur: constant, current: modifiers.NoExtend}), true},
		{"type visibility changed", leaf(delta.ElementComponent, delta.Changed, delta.TypeVisibility,
			leafOpts{old: pub, cur: pub}), true},
		{"type no longer API", leaf(delta.ElementComponent, delta.Removed, delta.APIType, leafOpts{old: pub}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.d)
			assert.True(t, v.Matched, "no rule for %s", tt.name)
			assert.Equal(t, tt.want, v.Compatible)
		})
	}
}
