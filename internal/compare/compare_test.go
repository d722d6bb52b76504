package compare

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidelta/internal/baseline"
	"apidelta/internal/compat"
	"apidelta/internal/delta"
	"apidelta/internal/errors"
	"apidelta/internal/modifiers"
	"apidelta/internal/progress"
)

const pub = modifiers.Public

func class(name string, methods ...baseline.Method) *baseline.TypeDescriptor {
	return &baseline.TypeDescriptor{Name: name, Access: pub, Methods: methods}
}

func component(id, version string, types ...*baseline.TypeDescriptor) *baseline.Component {
	return &baseline.Component{
		ID:         id,
		Version:    version,
		Containers: []baseline.TypeContainer{baseline.NewContainerOf("", types...)},
	}
}

func private(c *baseline.Component, typeName string) *baseline.Component {
	if c.API == nil {
		c.API = baseline.NewAPIDescription()
	}
	c.API.Set(baseline.TypeHandle(typeName), baseline.Annotation{Visibility: modifiers.PrivateVisibility})
	return c
}

type leafKey struct {
	elem delta.ElementType
	kind delta.Kind
	flag delta.Flag
	key  string
}

func keys(d *delta.Delta) []leafKey {
	var out []leafKey
	for _, l := range delta.Leaves(d) {
		out = append(out, leafKey{l.ElementType(), l.Kind(), l.Flag(), l.Key()})
	}
	return out
}

func compareBaselines(t *testing.T, ref, b *baseline.Baseline, mask modifiers.Visibility, force bool, opts ...Option) delta.Result {
	t.Helper()
	res, err := New(nil, opts...).CompareBaselines(context.Background(), ref, b, mask, force)
	require.NoError(t, err)
	require.False(t, res.IsFailed(), "%v", res.Err())
	return res
}

func TestIdenticalBaselines(t *testing.T) {
	run := baseline.Method{Name: "run", Descriptor: "()V", Access: pub}
	v1 := baseline.MustNew("v1", component("acme.core", "1.0.0", class("a.Foo", run)))
	v2 := baseline.MustNew("v2", component("acme.core", "1.0.0", class("a.Foo", run)))

	assert.True(t, compareBaselines(t, v1, v2, modifiers.AllVisibilities, false).IsNoChange())
	assert.True(t, compareBaselines(t, v1, v2, modifiers.AllVisibilities, true).IsNoChange())
	assert.True(t, compareBaselines(t, v1, v1, modifiers.API, true).IsNoChange())
	assert.Same(t, delta.NoDelta, compareBaselines(t, v1, v1, modifiers.API, false).Delta())
}

func TestTypeRemovedWithMajorVersion(t *testing.T) {
	v1 := baseline.MustNew("v1", component("acme.core", "1.0.0", class("a.Foo"), class("a.Bar")))
	v2 := baseline.MustNew("v2", component("acme.core", "2.0.0", class("a.Bar")))

	res := compareBaselines(t, v1, v2, modifiers.AllVisibilities, false)
	require.True(t, res.IsChanged())
	assert.Equal(t, []leafKey{
		{delta.ElementComponent, delta.Changed, delta.MajorVersion, "acme.core"},
		{delta.ElementComponent, delta.Removed, delta.Type, "a.Foo"},
	}, keys(res.Tree()))

	for _, l := range delta.Leaves(res.Tree()) {
		assert.Equal(t, "acme.core(1.0.0)", l.ComponentVersionID())
		assert.NotEmpty(t, l.TypeName())
	}
	assert.Equal(t, "major version of acme.core (1.0.0 to 2.0.0)", delta.Leaves(res.Tree())[0].Message())
}

func TestMethodBecomesFinal(t *testing.T) {
	v1 := baseline.MustNew("v1", component("acme.core", "1.0.0",
		class("a.Foo", baseline.Method{Name: "run", Descriptor: "()V", Access: pub})))
	v2 := baseline.MustNew("v2", component("acme.core", "1.0.1",
		class("a.Foo", baseline.Method{Name: "run", Descriptor: "()V", Access: pub | modifiers.Final})))

	res := compareBaselines(t, v1, v2, modifiers.API, false)
	leaves := delta.Leaves(res.Tree())
	require.Len(t, leaves, 1)
	assert.Equal(t, delta.ElementClass, leaves[0].ElementType())
	assert.Equal(t, delta.Changed, leaves[0].Kind())
	assert.Equal(t, delta.NonFinalToFinal, leaves[0].Flag())
}

func TestInterfaceGainsMethod(t *testing.T) {
	iface := modifiers.Public | modifiers.Interface | modifiers.Abstract
	v1 := baseline.MustNew("v1", component("acme.core", "1.0.0",
		&baseline.TypeDescriptor{Name: "a.Api", Access: iface}))
	v2 := baseline.MustNew("v2", component("acme.core", "1.1.0",
		&baseline.TypeDescriptor{Name: "a.Api", Access: iface, Methods: []baseline.Method{
			{Name: "close", Descriptor: "()V", Access: pub | modifiers.Abstract},
		}}))

	res := compareBaselines(t, v1, v2, modifiers.API, false)
	assert.Equal(t, []leafKey{
		{delta.ElementComponent, delta.Changed, delta.MinorVersion, "acme.core"},
		{delta.ElementInterface, delta.Added, delta.Method, "close()V"},
	}, keys(res.Tree()))
}

func TestInterfaceGainsConstant(t *testing.T) {
	iface := modifiers.Public | modifiers.Interface | modifiers.Abstract
	limit := baseline.Field{Name: "LIMIT", Type: "I", Access: pub | modifiers.Static | modifiers.Final}
	build := func(r modifiers.Restriction) (*baseline.Baseline, *baseline.Baseline) {
		c1 := component("acme.core", "1.0.0", &baseline.TypeDescriptor{Name: "a.Api", Access: iface})
		c2 := component("acme.core", "1.0.0",
			&baseline.TypeDescriptor{Name: "a.Api", Access: iface, Fields: []baseline.Field{limit}})
		for _, c := range []*baseline.Component{c1, c2} {
			c.API = baseline.NewAPIDescription()
			c.API.Set(baseline.TypeHandle("a.Api"), baseline.Annotation{Visibility: modifiers.API, Restrictions: r})
		}
		return baseline.MustNew("v1", c1), baseline.MustNew("v2", c2)
	}

	v1, v2 := build(modifiers.NoRestrictions)
	res := compareBaselines(t, v1, v2, modifiers.API, false)
	assert.Equal(t, []leafKey{{delta.ElementInterface, delta.Added, delta.Field, "LIMIT"}}, keys(res.Tree()))
	assert.False(t, compat.IsCompatible(res.Tree()))

	v1, v2 = build(modifiers.NoImplement)
	res = compareBaselines(t, v1, v2, modifiers.API, false)
	assert.Equal(t, []leafKey{{delta.ElementInterface, delta.Added, delta.Field, "LIMIT"}}, keys(res.Tree()))
	assert.True(t, compat.IsCompatible(res.Tree()))
}

func TestComponentsAddedAndRemoved(t *testing.T) {
	sys := component("java.base", "17")
	sys.System = true
	v1 := baseline.MustNew("v1", component("acme.old", "1.0.0"), sys)
	v2 := baseline.MustNew("v2", component("acme.new", "1.0.0"))

	res := compareBaselines(t, v1, v2, modifiers.AllVisibilities, false)
	assert.Equal(t, []leafKey{
		{delta.ElementBaseline, delta.Removed, delta.APIComponent, "acme.old"},
		{delta.ElementBaseline, delta.Added, delta.APIComponent, "acme.new"},
	}, keys(res.Tree()))
}

func TestExecutionEnvironments(t *testing.T) {
	c1 := component("acme.core", "1.0.0")
	c1.ExecutionEnvironments = []string{"JavaSE-11", "JavaSE-17"}
	c2 := component("acme.core", "1.0.0")
	c2.ExecutionEnvironments = []string{"JavaSE-17", "JavaSE-21"}
	baseline.MustNew("v1", c1)
	baseline.MustNew("v2", c2)

	res, err := New(nil).CompareComponents(context.Background(), c1, c2, modifiers.AllVisibilities)
	require.NoError(t, err)
	assert.Equal(t, []leafKey{
		{delta.ElementComponent, delta.Removed, delta.ExecutionEnvironment, "JavaSE-11"},
		{delta.ElementComponent, delta.Added, delta.ExecutionEnvironment, "JavaSE-21"},
	}, keys(res.Tree()))
}

func TestVisibilityLossAndMaskMonotonicity(t *testing.T) {
	build := func() (*baseline.Baseline, *baseline.Baseline) {
		v1 := baseline.MustNew("v1", component("acme.core", "1.0.0", class("a.Foo"), class("a.Bar")))
		v2 := baseline.MustNew("v2", private(component("acme.core", "1.0.1", class("a.Foo"), class("a.Bar")), "a.Foo"))
		return v1, v2
	}
	visibilityLoss := func(d *delta.Delta) int {
		return len(delta.Find(d, func(l *delta.Delta) bool {
			return l.Kind() == delta.Removed && (l.Flag() == delta.APIType || l.Flag() == delta.ReexportedAPIType)
		}))
	}

	v1, v2 := build()
	api := compareBaselines(t, v1, v2, modifiers.API, false)
	assert.Equal(t, []leafKey{{delta.ElementComponent, delta.Removed, delta.APIType, "a.Foo"}}, keys(api.Tree()))

	v1, v2 = build()
	all := compareBaselines(t, v1, v2, modifiers.AllVisibilities, false)
	assert.Equal(t, []leafKey{{delta.ElementComponent, delta.Changed, delta.TypeVisibility, "a.Foo"}}, keys(all.Tree()))

	assert.LessOrEqual(t, visibilityLoss(all.Tree()), visibilityLoss(api.Tree()))

	// only the API-masked report of the narrowing breaks clients
	assert.True(t, compat.IsCompatible(all.Tree()))
	assert.False(t, compat.IsCompatible(api.Tree()))
}

func TestAPIOnlyIgnoresHiddenTypes(t *testing.T) {
	hidden := &baseline.TypeDescriptor{Name: "a.Impl"}
	v1 := baseline.MustNew("v1", component("acme.core", "1.0.0", hidden))
	v2 := baseline.MustNew("v2", component("acme.core", "1.0.1"))

	assert.True(t, compareBaselines(t, v1, v2, modifiers.API, false).IsNoChange())
	res := compareBaselines(t, v1, v2, modifiers.AllVisibilities, false)
	assert.Equal(t, []leafKey{{delta.ElementComponent, delta.Removed, delta.Type, "a.Impl"}}, keys(res.Tree()))
}

func TestReexportPrecedence(t *testing.T) {
	reexportR := []baseline.RequiredComponent{{ID: "acme.r", VersionRange: "[1.0.0,2.0.0)", Exported: true}}

	// D re-exports R in both versions and starts hosting T itself.
	d1 := component("acme.d", "1.0.0")
	d1.Required = reexportR
	d2 := component("acme.d", "1.1.0", class("a.T"))
	d2.Required = reexportR
	v1 := baseline.MustNew("v1", d1, component("acme.r", "1.0.0", class("a.T")))
	v2 := baseline.MustNew("v2", d2, component("acme.r", "1.0.0", class("a.T")))

	res := compareBaselines(t, v1, v2, modifiers.AllVisibilities, false)
	assert.Equal(t, []leafKey{
		{delta.ElementComponent, delta.Changed, delta.MinorVersion, "acme.d"},
		{delta.ElementComponent, delta.Added, delta.Type, "a.T"},
	}, keys(res.Tree()))

	// D stops re-exporting R and does not host T.
	d1 = component("acme.d", "1.0.0")
	d1.Required = reexportR
	d3 := component("acme.d", "1.2.0")
	d3.Required = []baseline.RequiredComponent{{ID: "acme.r", VersionRange: "[1.0.0,2.0.0)"}}
	v1 = baseline.MustNew("v1", d1, component("acme.r", "1.0.0", class("a.T")))
	v3 := baseline.MustNew("v3", d3, component("acme.r", "1.0.0", class("a.T")))

	res = compareBaselines(t, v1, v3, modifiers.AllVisibilities, false)
	assert.Equal(t, []leafKey{
		{delta.ElementComponent, delta.Changed, delta.MinorVersion, "acme.d"},
		{delta.ElementComponent, delta.Removed, delta.ReexportedType, "a.T"},
	}, keys(res.Tree()))
	assert.Equal(t, "type a.T re-exported from acme.r", delta.Leaves(res.Tree())[1].Message())

	// D starts re-exporting R.
	d4 := component("acme.d", "1.0.0")
	d5 := component("acme.d", "1.0.1")
	d5.Required = reexportR
	v4 := baseline.MustNew("v4", d4, component("acme.r", "1.0.0", class("a.T")))
	v5 := baseline.MustNew("v5", d5, component("acme.r", "1.0.0", class("a.T")))

	res = compareBaselines(t, v4, v5, modifiers.AllVisibilities, false)
	assert.Equal(t, []leafKey{
		{delta.ElementComponent, delta.Added, delta.ReexportedType, "a.T"},
	}, keys(res.Tree()))
}

func TestTypeMovedIntoReexport(t *testing.T) {
	d1 := component("acme.d", "1.0.0", class("a.T"))
	d2 := component("acme.d", "2.0.0")
	d2.Required = []baseline.RequiredComponent{{ID: "acme.r", Exported: true}}
	v1 := baseline.MustNew("v1", d1)
	v2 := baseline.MustNew("v2", d2, private(component("acme.r", "1.0.0", class("a.T")), "a.T"))

	res := compareBaselines(t, v1, v2, modifiers.API, false)
	assert.Equal(t, []leafKey{
		{delta.ElementComponent, delta.Changed, delta.MajorVersion, "acme.d"},
		{delta.ElementComponent, delta.Removed, delta.ReexportedAPIType, "a.T"},
		{delta.ElementBaseline, delta.Added, delta.APIComponent, "acme.r"},
	}, keys(res.Tree()))
}

func TestStructuralReadFailureIsSkipped(t *testing.T) {
	broken := baseline.NewBrokenRoot("a.Broken", stderrors.New("bad magic"))
	c1 := component("acme.core", "1.0.0", class("a.Foo"))
	c1.Containers[0].(*baseline.MemoryContainer).Add(broken)
	v1 := baseline.MustNew("v1", c1)
	v2 := baseline.MustNew("v2", component("acme.core", "1.0.1"))

	res := compareBaselines(t, v1, v2, modifiers.AllVisibilities, false)
	assert.Equal(t, []leafKey{{delta.ElementComponent, delta.Removed, delta.Type, "a.Foo"}}, keys(res.Tree()))
}

func TestParallelMatchesSequential(t *testing.T) {
	build := func(version string, drop bool) *baseline.Baseline {
		var comps []*baseline.Component
		for _, id := range []string{"acme.a", "acme.b", "acme.c", "acme.d", "acme.e"} {
			types := []*baseline.TypeDescriptor{class(id + ".Keep")}
			if !drop {
				types = append(types, class(id+".Gone"))
			}
			comps = append(comps, component(id, version, types...))
		}
		return baseline.MustNew(version, comps...)
	}
	seq := compareBaselines(t, build("1.0.0", false), build("2.0.0", true), modifiers.AllVisibilities, false)

	tracker := progress.New(nil)
	par := compareBaselines(t, build("1.0.0", false), build("2.0.0", true), modifiers.AllVisibilities, false,
		WithParallelism(4), WithProgress(tracker))

	assert.Equal(t, keys(seq.Tree()), keys(par.Tree()))
	assert.Len(t, delta.Leaves(par.Tree()), 10)
	assert.Equal(t, 100, tracker.Percent())
}

func TestCancelledComparison(t *testing.T) {
	v1 := baseline.MustNew("v1", component("acme.core", "1.0.0", class("a.Foo")))
	v2 := baseline.MustNew("v2", component("acme.core", "2.0.0"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(nil).CompareBaselines(ctx, v1, v2, modifiers.API, false)
	require.NoError(t, err)
	assert.True(t, res.IsFailed())
	assert.ErrorIs(t, res.Err(), context.Canceled)
	assert.Nil(t, res.Delta())
}

func TestPreconditions(t *testing.T) {
	cmp := New(nil)
	ctx := context.Background()
	b := baseline.MustNew("v1")
	loose := component("acme.core", "1.0.0")

	_, err := cmp.CompareBaselines(ctx, nil, b, modifiers.API, false)
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))
	_, err = cmp.CompareComponentToBaseline(ctx, nil, b, modifiers.API, false)
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))
	_, err = cmp.CompareComponents(ctx, loose, nil, modifiers.API)
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))
	_, err = cmp.CompareComponents(ctx, loose, loose, modifiers.API)
	assert.True(t, errors.HasCode(err, errors.InvalidArgument), "components outside a baseline")
	_, err = cmp.CompareTypeRoot(ctx, nil, loose, loose, modifiers.API)
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))
	_, err = cmp.CompareTypes(ctx, nil, nil, loose, loose, modifiers.API)
	assert.True(t, errors.HasCode(err, errors.InvalidArgument))
}

func TestCompareComponentToBaseline(t *testing.T) {
	ref := baseline.MustNew("v1", component("acme.core", "1.0.0", class("a.Foo")))
	fresh := component("acme.ui", "1.0.0")
	sameVersion := component("acme.core", "1.0.0")
	baseline.MustNew("v2", fresh, sameVersion)

	cmp := New(nil)
	res, err := cmp.CompareComponentToBaseline(context.Background(), fresh, ref, modifiers.API, false)
	require.NoError(t, err)
	assert.Equal(t, []leafKey{{delta.ElementBaseline, delta.Added, delta.APIComponent, "acme.ui"}}, keys(res.Tree()))

	res, err = cmp.CompareComponentToBaseline(context.Background(), sameVersion, ref, modifiers.API, false)
	require.NoError(t, err)
	assert.True(t, res.IsNoChange())

	res, err = cmp.CompareComponentToBaseline(context.Background(), sameVersion, ref, modifiers.API, true)
	require.NoError(t, err)
	assert.Equal(t, []leafKey{{delta.ElementComponent, delta.Removed, delta.Type, "a.Foo"}}, keys(res.Tree()))
}

func TestCompareTypeRoot(t *testing.T) {
	refComp := component("acme.core", "1.0.0", class("a.Foo"))
	comp := component("acme.core", "1.1.0")
	baseline.MustNew("v1", refComp)
	baseline.MustNew("v2", comp)
	cmp := New(nil)
	ctx := context.Background()

	res, err := cmp.CompareTypeRoot(ctx, baseline.NewTypeRoot(class("a.New")), refComp, comp, modifiers.API)
	require.NoError(t, err)
	assert.Equal(t, []leafKey{{delta.ElementComponent, delta.Added, delta.Type, "a.New"}}, keys(res.Tree()))

	nested := &baseline.TypeDescriptor{Name: "a.Foo$1", Anonymous: true}
	res, err = cmp.CompareTypeRoot(ctx, baseline.NewTypeRoot(nested), refComp, comp, modifiers.API)
	require.NoError(t, err)
	assert.True(t, res.IsNoChange())

	changed := &baseline.TypeDescriptor{Name: "a.Foo", Access: pub | modifiers.Final}
	res, err = cmp.CompareTypeRoot(ctx, baseline.NewTypeRoot(changed), refComp, comp, modifiers.API)
	require.NoError(t, err)
	assert.Equal(t, []leafKey{{delta.ElementClass, delta.Changed, delta.NonFinalToFinal, "a.Foo"}}, keys(res.Tree()))

	private(comp, "a.Foo")
	res, err = cmp.CompareTypeRoot(ctx, baseline.NewTypeRoot(changed), refComp, comp, modifiers.API)
	require.NoError(t, err)
	assert.Equal(t, []leafKey{{delta.ElementComponent, delta.Removed, delta.APIType, "a.Foo"}}, keys(res.Tree()))

	res, err = cmp.CompareTypeRoot(ctx, baseline.NewBrokenRoot("a.Foo", stderrors.New("eof")), refComp, comp, modifiers.API)
	require.NoError(t, err)
	assert.True(t, res.IsFailed())
	assert.True(t, errors.HasCode(res.Err(), errors.StructuralRead))
}
