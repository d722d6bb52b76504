package members

import (
	"log/slog"

	"apidelta/internal/baseline"
)

const objectType = "java.lang.Object"

// resolver finds type descriptors visible from one component: its own
// containers first, then every resolved required component.
type resolver struct {
	comp   *baseline.Component
	logger *slog.Logger
	reqs   []*baseline.Component
	loaded bool
	cache  map[string]*baseline.TypeDescriptor
}

func newResolver(comp *baseline.Component, logger *slog.Logger) *resolver {
	return &resolver{comp: comp, logger: logger, cache: make(map[string]*baseline.TypeDescriptor)}
}

func (r *resolver) required() []*baseline.Component {
	if r.loaded {
		return r.reqs
	}
	r.loaded = true
	b := r.comp.Baseline()
	if b == nil {
		return nil
	}
	resolved, err := b.ResolveRequired(r.comp)
	if err != nil {
		r.logger.Debug("Requirement resolution failed during hierarchy lookup", "component", r.comp.ID, "error", err)
		return nil
	}
	for _, rr := range resolved {
		r.reqs = append(r.reqs, rr.Component)
	}
	return r.reqs
}

// find returns nil for unknown or unreadable types.
func (r *resolver) find(name string) *baseline.TypeDescriptor {
	if name == "" {
		return nil
	}
	if d, ok := r.cache[name]; ok {
		return d
	}
	var desc *baseline.TypeDescriptor
	if root, ok := r.comp.FindType(name); ok {
		desc = r.read(root)
	} else {
		for _, dep := range r.required() {
			if root, ok := dep.FindType(name); ok {
				desc = r.read(root)
				break
			}
		}
	}
	r.cache[name] = desc
	return desc
}

func (r *resolver) read(root baseline.TypeRoot) *baseline.TypeDescriptor {
	d, err := root.Descriptor()
	if err != nil {
		r.logger.Debug("Skipping unreadable supertype", "type", root.TypeName(), "component", r.comp.ID, "error", err)
		return nil
	}
	return d
}

// superclasses returns the superclass chain of d, nearest first, without
// java.lang.Object. Unresolvable names end the chain but are included.
func (r *resolver) superclasses(d *baseline.TypeDescriptor) []string {
	var chain []string
	seen := map[string]bool{d.Name: true}
	for name := d.Superclass; name != "" && name != objectType && !seen[name]; {
		seen[name] = true
		chain = append(chain, name)
		sup := r.find(name)
		if sup == nil {
			break
		}
		name = sup.Superclass
	}
	return chain
}

// interfaces returns every interface d implements or extends, directly or
// through its superclasses, in discovery order.
func (r *resolver) interfaces(d *baseline.TypeDescriptor) []string {
	var out []string
	seen := map[string]bool{}
	var visit func(names []string)
	visit = func(names []string) {
		for _, n := range names {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
			if sup := r.find(n); sup != nil {
				visit(sup.Interfaces)
			}
		}
	}
	visit(d.Interfaces)
	for _, s := range r.superclasses(d) {
		if sup := r.find(s); sup != nil {
			visit(sup.Interfaces)
		}
	}
	return out
}

// inheritedMethod looks name+descriptor up in the supertypes of d. For
// classes only visible superclass methods count.
func (r *resolver) inheritedMethod(d *baseline.TypeDescriptor, name, descriptor string) bool {
	if d.Access.IsInterface() {
		for _, n := range r.interfaces(d) {
			if sup := r.find(n); sup != nil {
				if _, ok := sup.Method(name, descriptor); ok {
					return true
				}
			}
		}
		return false
	}
	for _, n := range r.superclasses(d) {
		sup := r.find(n)
		if sup == nil {
			continue
		}
		if m, ok := sup.Method(name, descriptor); ok && m.Access.IsVisible() {
			return true
		}
	}
	return false
}

// inheritedField looks a visible field up in the superclass chain and
// superinterfaces of d.
func (r *resolver) inheritedField(d *baseline.TypeDescriptor, name string) bool {
	names := append(r.superclasses(d), r.interfaces(d)...)
	for _, n := range names {
		sup := r.find(n)
		if sup == nil {
			continue
		}
		if f, ok := sup.Field(name); ok && f.Access.IsVisible() {
			return true
		}
	}
	return false
}

// hasAbstractMethods reports whether the named interface declares methods
// an implementer must provide.
func (r *resolver) hasAbstractMethods(name string) bool {
	d := r.find(name)
	if d == nil {
		return false
	}
	for _, m := range d.Methods {
		if m.Access.IsAbstract() {
			return true
		}
	}
	return false
}
