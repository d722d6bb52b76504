package baseline

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidelta/internal/errors"
	"apidelta/internal/modifiers"
)

func TestBaselineAdd(t *testing.T) {
	core := &Component{ID: "acme.core", Version: "1.0.0"}
	b, err := New("v1", nil, core, &Component{ID: "acme.ui", Version: "1.0.0"})
	require.NoError(t, err)

	got, ok := b.Component("acme.core")
	require.True(t, ok)
	assert.Same(t, core, got)
	assert.Same(t, b, core.Baseline())
	assert.Equal(t, []string{"acme.core", "acme.ui"}, b.IDs())

	err = b.Add(&Component{ID: "acme.core"})
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))

	err = b.Add(nil)
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))

	other := MustNew("v2")
	assert.Error(t, other.Add(core), "component already owned by another baseline")
}

func TestResolveRequired(t *testing.T) {
	app := &Component{
		ID:      "acme.app",
		Version: "1.0.0",
		Required: []RequiredComponent{
			{ID: "acme.core", VersionRange: "[1.0.0,2.0.0)", Exported: true},
			{ID: "acme.util", VersionRange: "[2.0.0,3.0.0)"},
			{ID: "acme.missing"},
			{ID: "acme.io", VersionRange: "1.2"},
		},
	}
	b := MustNew("v1",
		app,
		&Component{ID: "acme.core", Version: "1.4.0.v20240101"},
		&Component{ID: "acme.util", Version: "1.0.0"},
		&Component{ID: "acme.io", Version: "1.3.0"},
	)

	resolved, err := b.ResolveRequired(app)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "acme.core", resolved[0].Component.ID)
	assert.True(t, resolved[0].Exported)
	assert.Equal(t, "acme.io", resolved[1].Component.ID)
	assert.False(t, resolved[1].Exported)

	_, err = b.ResolveRequired(nil)
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))

	bad := &Component{ID: "acme.bad", Required: []RequiredComponent{{ID: "acme.core", VersionRange: "[1.0"}}}
	require.NoError(t, b.Add(bad))
	_, err = b.ResolveRequired(bad)
	assert.True(t, errors.HasCode(err, errors.ResolutionFailed))
}

func TestVersions(t *testing.T) {
	tests := []struct {
		version      string
		major, minor uint64
		ok           bool
	}{
		{"1.2.3", 1, 2, true},
		{"3.10.0.v20240101-1200", 3, 10, true},
		{"2", 2, 0, true},
		{"4.x", 4, 0, true},
		{"abc", 0, 0, false},
	}
	for _, tt := range tests {
		major, minor, ok := MajorMinor(tt.version)
		assert.Equal(t, tt.ok, ok, tt.version)
		assert.Equal(t, tt.major, major, tt.version)
		assert.Equal(t, tt.minor, minor, tt.version)
	}

	v, err := ParseVersion("1.0.0.qualifier")
	require.NoError(t, err)
	assert.Equal(t, "qualifier", v.Metadata())

	for _, tt := range []struct {
		version, rng string
		want         bool
	}{
		{"1.5.0", "[1.0.0,2.0.0)", true},
		{"2.0.0", "[1.0.0,2.0.0)", false},
		{"2.0.0", "[1.0.0,2.0.0]", true},
		{"1.0.0", "(1.0.0,2.0.0)", false},
		{"9.0.0", "[1.0.0,)", true},
		{"1.1.0", "1.0", true},
		{"0.9.0", "1.0", false},
		{"1.4.2", "~1.4", true},
	} {
		got, err := Satisfies(tt.version, tt.rng)
		require.NoError(t, err, tt.rng)
		assert.Equal(t, tt.want, got, "%s in %s", tt.version, tt.rng)
	}

	_, err = ParseRange("[1.0.0")
	assert.Error(t, err)
}

func TestContainersFor(t *testing.T) {
	own := NewContainerOf("", &TypeDescriptor{Name: "acme.core.Foo", Access: modifiers.Public})
	fragment := NewContainerOf("acme.core.win32", &TypeDescriptor{Name: "acme.core.win32.Handle", Access: modifiers.Public})
	c := &Component{ID: "acme.core", Containers: []TypeContainer{own, fragment}}

	assert.Len(t, c.OwnContainers(), 1)
	assert.Len(t, c.ContainersFor("acme.core.win32"), 1)
	_, ok := c.FindType("acme.core.win32.Handle")
	assert.False(t, ok)

	c.UsesUnscopedContainers = true
	assert.Len(t, c.OwnContainers(), 2)
	_, ok = c.FindType("acme.core.win32.Handle")
	assert.True(t, ok)
}

func TestMemoryContainerWalk(t *testing.T) {
	readErr := stderrors.New("truncated")
	c := NewMemoryContainer("acme.core",
		NewTypeRoot(&TypeDescriptor{Name: "b.Beta"}),
		NewBrokenRoot("a.Alpha", readErr),
		NewTypeRoot(&TypeDescriptor{Name: "b.Gamma"}),
	)

	var names []string
	var failures int
	err := c.Walk(func(pkg string, root TypeRoot) error {
		names = append(names, pkg+":"+root.TypeName())
		if _, err := root.Descriptor(); err != nil {
			failures++
			assert.True(t, errors.HasCode(err, errors.StructuralRead))
			assert.ErrorIs(t, err, readErr)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a:a.Alpha", "b:b.Beta", "b:b.Gamma"}, names)
	assert.Equal(t, 1, failures)
	assert.Equal(t, []string{"a", "b"}, c.Packages())

	stop := stderrors.New("stop")
	err = c.Walk(func(string, TypeRoot) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestAnnotations(t *testing.T) {
	api := NewAPIDescription()
	api.Set(TypeHandle("acme.internal.Impl"), Annotation{Visibility: modifiers.PrivateVisibility})
	api.Set(TypeHandle("acme.Service"), Annotation{Visibility: modifiers.API, Restrictions: modifiers.NoImplement})
	api.Set(MemberHandle("acme.Service", "run()V"), Annotation{Visibility: modifiers.API, Restrictions: modifiers.NoOverride})

	c := &Component{ID: "acme.core", API: api}
	assert.Equal(t, modifiers.PrivateVisibility, c.Annotation(TypeHandle("acme.internal.Impl")).Visibility)
	assert.Equal(t, DefaultAnnotation, c.Annotation(TypeHandle("acme.Other")))
	assert.Equal(t, modifiers.NoOverride, c.Annotation(MemberHandle("acme.Service", "run()V")).Restrictions)

	inherited := c.Annotation(MemberHandle("acme.Service", "stop()V"))
	assert.Equal(t, modifiers.API, inherited.Visibility)
	assert.Equal(t, modifiers.NoRestrictions, inherited.Restrictions)

	sys := &Component{ID: "java.base", System: true}
	assert.False(t, sys.Annotation(TypeHandle("java.lang.Object")).Visibility.IsAPI())
	assert.True(t, sys.Excluded())
}

func TestTypeDescriptor(t *testing.T) {
	value := "42"
	d := &TypeDescriptor{
		Name:   "acme.Limits",
		Access: modifiers.Public | modifiers.Interface,
		Fields: []Field{{Name: "MAX", Type: "I", Access: modifiers.Public | modifiers.Static | modifiers.Final, Value: &value}},
		Methods: []Method{
			{Name: "check", Descriptor: "(I)Z", Access: modifiers.Public | modifiers.Abstract},
		},
	}
	assert.Equal(t, KindInterface, d.Kind())
	assert.Equal(t, "acme", d.PackageName())
	f, ok := d.Field("MAX")
	require.True(t, ok)
	assert.True(t, f.IsConstant())
	m, ok := d.Method("check", "(I)Z")
	require.True(t, ok)
	assert.Equal(t, "check(I)Z", m.Key())
	_, ok = d.Method("check", "()Z")
	assert.False(t, ok)

	d.Access |= modifiers.Annotation
	assert.Equal(t, KindAnnotation, d.Kind())
	assert.False(t, d.IsNested())
}
