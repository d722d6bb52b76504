package fingerprint

import (
	"reflect"
	"testing"

	"apidelta/internal/baseline"
	"apidelta/internal/modifiers"
)

func fooType() *baseline.TypeDescriptor {
	return &baseline.TypeDescriptor{
		Name:   "a.Foo",
		Access: modifiers.Public,
		Methods: []baseline.Method{
			{Name: "run", Descriptor: "()V", Access: modifiers.Public},
			{Name: "stop", Descriptor: "()V", Access: modifiers.Public},
		},
		Fields: []baseline.Field{{Name: "count", Type: "I", Access: modifiers.Public}},
	}
}

func TestHashTypeDeterministic(t *testing.T) {
	h := NewHasher()
	a := h.HashType(fooType())
	b := h.HashType(fooType())
	if a != b {
		t.Errorf("hash not deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}

	reordered := fooType()
	reordered.Methods[0], reordered.Methods[1] = reordered.Methods[1], reordered.Methods[0]
	if h.HashType(reordered) != a {
		t.Error("member order should not change the hash")
	}
}

func TestHashTypeSensitivity(t *testing.T) {
	h := NewHasher()
	base := h.HashType(fooType())
	empty := ""

	tests := []struct {
		name   string
		mutate func(*baseline.TypeDescriptor)
	}{
		{"access", func(d *baseline.TypeDescriptor) { d.Access |= modifiers.Final }},
		{"method access", func(d *baseline.TypeDescriptor) { d.Methods[0].Access = modifiers.Protected }},
		{"field type", func(d *baseline.TypeDescriptor) { d.Fields[0].Type = "J" }},
		{"empty constant", func(d *baseline.TypeDescriptor) { d.Fields[0].Value = &empty }},
		{"superclass", func(d *baseline.TypeDescriptor) { d.Superclass = "a.Base" }},
		{"type parameter", func(d *baseline.TypeDescriptor) {
			d.TypeParameters = []baseline.TypeParameter{{Name: "T"}}
		}},
		{"checked exception", func(d *baseline.TypeDescriptor) {
			d.Methods[1].Exceptions = []baseline.Exception{{Type: "java.io.IOException"}}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := fooType()
			tc.mutate(d)
			if h.HashType(d) == base {
				t.Errorf("changing %s did not change the hash", tc.name)
			}
		})
	}
}

func TestHashBaseline(t *testing.T) {
	h := NewHasher()
	build := func(restrict bool) *baseline.Baseline {
		core := &baseline.Component{
			ID:         "acme.core",
			Version:    "1.0.0",
			Containers: []baseline.TypeContainer{baseline.NewContainerOf("", fooType())},
		}
		if restrict {
			core.API = baseline.NewAPIDescription()
			core.API.Set(baseline.TypeHandle("a.Foo"), baseline.Annotation{Visibility: modifiers.API, Restrictions: modifiers.NoExtend})
		}
		util := &baseline.Component{
			ID:      "acme.util",
			Version: "1.0.0",
			Containers: []baseline.TypeContainer{baseline.NewMemoryContainer("",
				baseline.NewBrokenRoot("u.Broken", nil))},
		}
		return baseline.MustNew("ref", core, util)
	}

	a, err := h.HashBaseline(build(false))
	if err != nil {
		t.Fatalf("HashBaseline: %v", err)
	}
	b, err := h.HashBaseline(build(false))
	if err != nil {
		t.Fatalf("HashBaseline: %v", err)
	}
	if a.Baseline != b.Baseline || !reflect.DeepEqual(a.Components, b.Components) {
		t.Error("identical baselines should have identical fingerprints")
	}
	if got := a.Changed(b); len(got) != 0 {
		t.Errorf("Changed() = %v, want none", got)
	}

	c, err := h.HashBaseline(build(true))
	if err != nil {
		t.Fatalf("HashBaseline: %v", err)
	}
	if c.Baseline == a.Baseline {
		t.Error("an API restriction should change the baseline fingerprint")
	}
	if got := a.Changed(c); !reflect.DeepEqual(got, []string{"acme.core"}) {
		t.Errorf("Changed() = %v, want [acme.core]", got)
	}

	delete(c.Components, "acme.util")
	if got := a.Changed(c); !reflect.DeepEqual(got, []string{"acme.core", "acme.util"}) {
		t.Errorf("Changed() = %v, want [acme.core acme.util]", got)
	}
}
