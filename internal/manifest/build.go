package manifest

import (
	"fmt"
	"log/slog"
	"strings"

	"apidelta/internal/baseline"
	"apidelta/internal/errors"
	"apidelta/internal/modifiers"
)

// defaultWord marks an interface method with a body.
const defaultWord = "default"

// Load reads the manifest at path and builds its baseline.
func Load(path string, logger *slog.Logger) (*baseline.Baseline, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Build(logger)
}

// Build converts the document into a baseline.
func (d *Document) Build(logger *slog.Logger) (*baseline.Baseline, error) {
	b, err := baseline.New(d.Name, logger)
	if err != nil {
		return nil, err
	}
	for i := range d.Components {
		c, err := d.Components[i].build()
		if err != nil {
			return nil, err
		}
		if err := b.Add(c); err != nil {
			return nil, errors.New(errors.ManifestInvalid, fmt.Sprintf("baseline %s", d.Name), err)
		}
	}
	return b, nil
}

func (c *Component) build() (*baseline.Component, error) {
	if c.ID == "" {
		return nil, errors.Newf(errors.ManifestInvalid, "component without id")
	}
	if c.Version != "" {
		if _, err := baseline.ParseVersion(c.Version); err != nil {
			return nil, errors.New(errors.ManifestInvalid, fmt.Sprintf("component %s: bad version %q", c.ID, c.Version), err)
		}
	}

	out := &baseline.Component{
		ID:                     c.ID,
		Version:                c.Version,
		ExecutionEnvironments:  append([]string(nil), c.ExecutionEnvironments...),
		System:                 c.System,
		Source:                 c.Source,
		UsesUnscopedContainers: c.UnscopedContainers,
	}

	for _, r := range c.Requires {
		if r.ID == "" {
			return nil, errors.Newf(errors.ManifestInvalid, "component %s: requirement without id", c.ID)
		}
		if r.Range != "" {
			if _, err := baseline.ParseRange(r.Range); err != nil {
				return nil, errors.New(errors.ManifestInvalid, fmt.Sprintf("component %s: bad range %q for %s", c.ID, r.Range, r.ID), err)
			}
		}
		out.Required = append(out.Required, baseline.RequiredComponent{ID: r.ID, VersionRange: r.Range, Exported: r.Exported})
	}

	if c.API != nil {
		api, err := c.API.build()
		if err != nil {
			return nil, errors.New(errors.ManifestInvalid, fmt.Sprintf("component %s", c.ID), err)
		}
		out.API = api
	}

	for _, ct := range c.Containers {
		container := baseline.NewMemoryContainer(ct.Origin)
		for i := range ct.Types {
			root, err := ct.Types[i].root()
			if err != nil {
				return nil, errors.New(errors.ManifestInvalid, fmt.Sprintf("component %s", c.ID), err)
			}
			container.Add(root)
		}
		out.Containers = append(out.Containers, container)
	}
	return out, nil
}

func (s *APISection) build() (*baseline.APIDescription, error) {
	api := baseline.NewAPIDescription()
	if s.Default != nil {
		a, err := s.Default.annotation()
		if err != nil {
			return nil, err
		}
		api.Fallback = a
	}
	for _, e := range s.Elements {
		if e.Type == "" {
			return nil, fmt.Errorf("API element without type")
		}
		a, err := e.annotation()
		if err != nil {
			return nil, err
		}
		api.Set(baseline.MemberHandle(e.Type, e.Member), a)
	}
	return api, nil
}

func (a Annotation) annotation() (baseline.Annotation, error) {
	out := baseline.DefaultAnnotation
	if a.Visibility != "" {
		v, err := modifiers.ParseVisibility(a.Visibility)
		if err != nil {
			return out, err
		}
		out.Visibility = v
	}
	r, err := modifiers.ParseRestrictions(a.Restrictions)
	if err != nil {
		return out, err
	}
	out.Restrictions = r
	return out, nil
}

func (t *Type) root() (baseline.TypeRoot, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("type without name")
	}
	if t.Unreadable != "" {
		return baseline.NewBrokenRoot(t.Name, fmt.Errorf("%s", t.Unreadable)), nil
	}

	access, err := parseAccess(t.Name, t.Modifiers)
	if err != nil {
		return nil, err
	}
	desc := &baseline.TypeDescriptor{
		Name:           t.Name,
		Access:         access,
		Superclass:     t.Superclass,
		Interfaces:     append([]string(nil), t.Interfaces...),
		TypeParameters: typeParameters(t.TypeParameters),
		EnumConstants:  append([]string(nil), t.EnumConstants...),
		MemberTypes:    append([]string(nil), t.MemberTypes...),
		HasClinit:      t.Clinit,
		MemberType:     t.MemberType,
		Local:          t.Local,
		Anonymous:      t.Anonymous,
	}

	for _, f := range t.Fields {
		fa, err := parseAccess(t.Name+"."+f.Name, f.Modifiers)
		if err != nil {
			return nil, err
		}
		desc.Fields = append(desc.Fields, baseline.Field{
			Name:          f.Name,
			Type:          f.Type,
			Access:        fa,
			Value:         f.Value,
			TypeArguments: append([]string(nil), f.TypeArguments...),
		})
	}

	inInterface := access.IsInterface()
	for _, m := range t.Methods {
		bm, err := m.method(t.Name, inInterface)
		if err != nil {
			return nil, err
		}
		desc.Methods = append(desc.Methods, bm)
	}
	for _, m := range t.Constructors {
		if m.Name == "" {
			m.Name = "<init>"
		}
		bm, err := m.method(t.Name, false)
		if err != nil {
			return nil, err
		}
		desc.Constructors = append(desc.Constructors, bm)
	}
	return baseline.NewTypeRoot(desc), nil
}

// method converts m. Interface methods are abstract unless static, private
// or marked default.
func (m *Method) method(owner string, inInterface bool) (baseline.Method, error) {
	if m.Name == "" || m.Descriptor == "" {
		return baseline.Method{}, fmt.Errorf("method of %s needs a name and a descriptor", owner)
	}
	words := m.Modifiers
	hasBody := false
	for _, w := range words {
		if strings.EqualFold(w, defaultWord) {
			hasBody = true
		}
	}
	access, unknown := modifiers.ParseAccess(words)
	for _, w := range unknown {
		if !strings.EqualFold(w, defaultWord) {
			return baseline.Method{}, fmt.Errorf("%s.%s: unknown modifier %q", owner, m.Name, w)
		}
	}
	if inInterface && !hasBody && !access.IsStatic() && !access.IsPrivate() {
		access |= modifiers.Abstract
	}

	out := baseline.Method{
		Name:           m.Name,
		Descriptor:     m.Descriptor,
		Access:         access,
		TypeParameters: typeParameters(m.TypeParameters),
		DefaultValue:   m.DefaultValue,
	}
	for _, e := range m.Exceptions {
		out.Exceptions = append(out.Exceptions, baseline.Exception{Type: e.Type, Unchecked: e.Unchecked})
	}
	return out, nil
}

func parseAccess(name string, words []string) (modifiers.Access, error) {
	a, unknown := modifiers.ParseAccess(words)
	if len(unknown) > 0 {
		return 0, fmt.Errorf("%s: unknown modifier %q", name, unknown[0])
	}
	return a, nil
}

func typeParameters(in []TypeParameter) []baseline.TypeParameter {
	var out []baseline.TypeParameter
	for _, p := range in {
		out = append(out, baseline.TypeParameter{
			Name:            p.Name,
			ClassBound:      p.ClassBound,
			InterfaceBounds: append([]string(nil), p.InterfaceBounds...),
		})
	}
	return out
}
