package compare

import (
	"context"
	"log/slog"

	"apidelta/internal/baseline"
	"apidelta/internal/delta"
	"apidelta/internal/errors"
	"apidelta/internal/modifiers"
	"apidelta/internal/progress"
)

// componentRun holds the state of one reference/target component pair.
// The seen sets are per run, so concurrent runs share nothing mutable.
type componentRun struct {
	c      *Comparator
	ctx    context.Context
	logger *slog.Logger
	ref    *baseline.Component
	comp   *baseline.Component
	mask   modifiers.Visibility
	group  *delta.Group

	// refExported and tgtRequired are the resolved requirements of the
	// reference and target component.
	refExported []*baseline.Component
	tgtRequired []baseline.ResolvedRequirement

	directSeen   map[string]bool
	reexportSeen map[string]bool
}

// located is where a type name was found on the target side.
type located struct {
	root     baseline.TypeRoot
	owner    *baseline.Component
	reexport bool
}

func (c *Comparator) compareComponents(ctx context.Context, ref, comp *baseline.Component,
	mask modifiers.Visibility, leading []*delta.Delta, tracker *progress.Tracker) (*delta.Delta, error) {
	r := &componentRun{
		c:            c,
		ctx:          ctx,
		logger:       c.logger,
		ref:          ref,
		comp:         comp,
		mask:         mask,
		group:        componentGroup(ref),
		directSeen:   make(map[string]bool),
		reexportSeen: make(map[string]bool),
	}
	r.group.AddAll(leading...)
	if err := r.resolve(); err != nil {
		return nil, err
	}

	tracker.Begin(5)
	steps := []func() error{
		r.executionEnvironments,
		r.walkReference,
		r.walkReferenceReexports,
		r.walkTarget,
		r.walkTargetReexports,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(); err != nil {
			return nil, err
		}
		tracker.Worked(1)
	}
	return r.group.Build(), nil
}

func (r *componentRun) resolve() error {
	if b := r.ref.Baseline(); b != nil {
		reqs, err := b.ResolveRequired(r.ref)
		if err != nil {
			return failure(err, "resolving requirements of %s", r.ref.ID)
		}
		for _, rr := range reqs {
			if rr.Exported {
				r.refExported = append(r.refExported, rr.Component)
			}
		}
	}
	if b := r.comp.Baseline(); b != nil {
		reqs, err := b.ResolveRequired(r.comp)
		if err != nil {
			return failure(err, "resolving requirements of %s", r.comp.ID)
		}
		r.tgtRequired = reqs
	}
	return nil
}

func (r *componentRun) leaf(kind delta.Kind, flag delta.Flag, typeName string, old, cur modifiers.Access, args ...string) {
	r.group.Add(delta.New(delta.Fields{
		Key:                typeName,
		ElementType:        delta.ElementComponent,
		Kind:               kind,
		Flag:               flag,
		OldModifiers:       old,
		NewModifiers:       cur,
		ComponentID:        r.ref.ID,
		ComponentVersionID: delta.ComponentVersionID(r.ref.ID, r.ref.Version),
		TypeName:           typeName,
		Arguments:          append([]string{typeName}, args...),
	}))
}

func (r *componentRun) executionEnvironments() error {
	has := func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	}
	for _, ee := range r.ref.ExecutionEnvironments {
		if !has(r.comp.ExecutionEnvironments, ee) {
			r.eeLeaf(delta.Removed, ee)
		}
	}
	for _, ee := range r.comp.ExecutionEnvironments {
		if !has(r.ref.ExecutionEnvironments, ee) {
			r.eeLeaf(delta.Added, ee)
		}
	}
	return nil
}

func (r *componentRun) eeLeaf(kind delta.Kind, ee string) {
	r.group.Add(delta.New(delta.Fields{
		Key:                ee,
		ElementType:        delta.ElementComponent,
		Kind:               kind,
		Flag:               delta.ExecutionEnvironment,
		ComponentID:        r.ref.ID,
		ComponentVersionID: delta.ComponentVersionID(r.ref.ID, r.ref.Version),
		TypeName:           r.ref.ID,
		Arguments:          []string{r.ref.ID, ee},
	}))
}

// read returns the descriptor behind root, or nil after logging a
// structural read failure.
func (r *componentRun) read(root baseline.TypeRoot, owner *baseline.Component) *baseline.TypeDescriptor {
	d, err := root.Descriptor()
	if err != nil {
		r.logger.Warn("Skipping unreadable type",
			"type", root.TypeName(),
			"component", owner.ID,
			"error", err)
		return nil
	}
	return d
}

// inMask reports whether a type takes part in the comparison: its
// annotation intersects the mask and, for the API-only mask, its own
// access is public or protected.
func (r *componentRun) inMask(ann baseline.Annotation, d *baseline.TypeDescriptor) bool {
	if !ann.Visibility.Intersects(r.mask) {
		return false
	}
	if r.mask == modifiers.API && !d.Access.IsVisible() {
		return false
	}
	return true
}

// locate finds name on the target side: directly first, then through a
// re-exported requirement of the target.
func (r *componentRun) locate(name string) (located, bool) {
	if root, ok := r.comp.FindType(name); ok {
		return located{root: root, owner: r.comp}, true
	}
	for _, rr := range r.tgtRequired {
		if !rr.Exported {
			continue
		}
		if root, ok := rr.Component.FindType(name); ok {
			return located{root: root, owner: rr.Component, reexport: true}, true
		}
	}
	return located{}, false
}

func (r *componentRun) walk(containers []baseline.TypeContainer, owner *baseline.Component,
	fn func(root baseline.TypeRoot, d *baseline.TypeDescriptor) error) error {
	for _, tc := range containers {
		err := tc.Walk(func(_ string, root baseline.TypeRoot) error {
			if err := r.ctx.Err(); err != nil {
				return err
			}
			d := r.read(root, owner)
			if d == nil || d.IsNested() {
				return nil
			}
			return fn(root, d)
		})
		if err != nil {
			return failure(err, "walking containers of %s", owner.ID)
		}
	}
	return nil
}

func (r *componentRun) walkReference() error {
	return r.walk(r.ref.OwnContainers(), r.ref, func(_ baseline.TypeRoot, d *baseline.TypeDescriptor) error {
		name := d.Name
		r.directSeen[name] = true
		refAnn := r.ref.Annotation(baseline.TypeHandle(name))
		refIn := r.inMask(refAnn, d)

		loc, ok := r.locate(name)
		if !ok {
			if refIn {
				r.leaf(delta.Removed, delta.Type, name, d.Access, 0)
			}
			return nil
		}
		tgt := r.read(loc.root, loc.owner)
		if tgt == nil {
			return nil
		}
		tgtAnn := loc.owner.Annotation(baseline.TypeHandle(name))
		tgtIn := r.inMask(tgtAnn, tgt)

		switch {
		case !refIn && !tgtIn:
			return nil
		case refIn && !tgtIn:
			r.visibilityLoss(name, d, tgt, refAnn, loc)
			return nil
		case !refIn && tgtIn:
			flag := delta.Type
			var args []string
			if loc.reexport {
				flag, args = delta.ReexportedType, []string{loc.owner.ID}
			}
			r.leaf(delta.Added, flag, name, d.Access, tgt.Access, args...)
			return nil
		}

		sub, err := r.c.members.CompareMembers(r.ctx, d, loc.root, r.ref, loc.owner, r.mask)
		if err != nil {
			if errors.HasCode(err, errors.StructuralRead) {
				r.logger.Warn("Skipping unreadable type", "type", name, "component", loc.owner.ID, "error", err)
				return nil
			}
			return err
		}
		r.group.Add(sub)
		if refAnn.Visibility.IsAPI() && !tgtAnn.Visibility.IsAPI() {
			r.leaf(delta.Changed, delta.TypeVisibility, name, d.Access, tgt.Access)
		}
		return nil
	})
}

// visibilityLoss reports a type that still exists but left the mask.
func (r *componentRun) visibilityLoss(name string, ref, tgt *baseline.TypeDescriptor, refAnn baseline.Annotation, loc located) {
	if refAnn.Visibility.IsAPI() && r.mask&modifiers.API != 0 {
		if loc.reexport {
			r.leaf(delta.Removed, delta.ReexportedAPIType, name, ref.Access, tgt.Access, loc.owner.ID)
			return
		}
		r.leaf(delta.Removed, delta.APIType, name, ref.Access, tgt.Access)
		return
	}
	r.leaf(delta.Changed, delta.TypeVisibility, name, ref.Access, tgt.Access)
}

// walkReferenceReexports reports types that consumers of the reference
// component saw through a re-exported requirement and that the target no
// longer provides.
func (r *componentRun) walkReferenceReexports() error {
	for _, provider := range r.refExported {
		err := r.walk(provider.OwnContainers(), provider, func(_ baseline.TypeRoot, d *baseline.TypeDescriptor) error {
			name := d.Name
			if r.directSeen[name] || r.reexportSeen[name] {
				return nil
			}
			r.reexportSeen[name] = true
			refAnn := provider.Annotation(baseline.TypeHandle(name))
			if !r.inMask(refAnn, d) {
				return nil
			}
			loc, ok := r.locate(name)
			if !ok {
				r.leaf(delta.Removed, delta.ReexportedType, name, d.Access, 0, provider.ID)
				return nil
			}
			tgt := r.read(loc.root, loc.owner)
			if tgt == nil {
				return nil
			}
			tgtAnn := loc.owner.Annotation(baseline.TypeHandle(name))
			if !r.inMask(tgtAnn, tgt) && refAnn.Visibility.IsAPI() && r.mask&modifiers.API != 0 {
				r.leaf(delta.Removed, delta.ReexportedAPIType, name, d.Access, tgt.Access, provider.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *componentRun) walkTarget() error {
	return r.walk(r.comp.OwnContainers(), r.comp, func(_ baseline.TypeRoot, d *baseline.TypeDescriptor) error {
		if r.directSeen[d.Name] {
			return nil
		}
		if !r.inMask(r.comp.Annotation(baseline.TypeHandle(d.Name)), d) {
			return nil
		}
		r.leaf(delta.Added, delta.Type, d.Name, 0, d.Access)
		return nil
	})
}

// walkTargetReexports reports types that consumers of the target newly see
// through a re-exported requirement. A type the target hosts directly is
// never reported here.
func (r *componentRun) walkTargetReexports() error {
	for _, rr := range r.tgtRequired {
		if !rr.Exported {
			continue
		}
		provider := rr.Component
		err := r.walk(provider.OwnContainers(), provider, func(_ baseline.TypeRoot, d *baseline.TypeDescriptor) error {
			name := d.Name
			if r.directSeen[name] || r.reexportSeen[name] {
				return nil
			}
			if _, direct := r.comp.FindType(name); direct {
				return nil
			}
			r.reexportSeen[name] = true
			if !r.inMask(provider.Annotation(baseline.TypeHandle(name)), d) {
				return nil
			}
			r.leaf(delta.Added, delta.ReexportedType, name, 0, d.Access, provider.ID)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
