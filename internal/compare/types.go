package compare

import (
	"context"

	"apidelta/internal/baseline"
	"apidelta/internal/delta"
	"apidelta/internal/errors"
	"apidelta/internal/modifiers"
)

func (c *Comparator) typeRun(ctx context.Context, refComp, comp *baseline.Component, mask modifiers.Visibility) *componentRun {
	return &componentRun{
		c:      c,
		ctx:    ctx,
		logger: c.logger,
		ref:    refComp,
		comp:   comp,
		mask:   mask,
		group:  componentGroup(refComp),
	}
}

func checkTypeArgs(refComp, comp *baseline.Component) error {
	if refComp == nil || comp == nil {
		return errors.Argument("both components are required")
	}
	if refComp.Baseline() == nil || comp.Baseline() == nil {
		return errors.Argument("components must belong to a baseline")
	}
	return nil
}

// CompareTypes diffs two type roots directly, without visibility
// filtering of the types themselves.
func (c *Comparator) CompareTypes(ctx context.Context, ref, target baseline.TypeRoot,
	refComp, comp *baseline.Component, mask modifiers.Visibility) (delta.Result, error) {
	if ref == nil || target == nil {
		return delta.Result{}, errors.Argument("both type roots are required")
	}
	if err := checkTypeArgs(refComp, comp); err != nil {
		return delta.Result{}, err
	}
	d, err := ref.Descriptor()
	if err != nil {
		return delta.Failed(err), nil
	}
	sub, err := c.members.CompareMembers(ctx, d, target, refComp, comp, mask)
	if err != nil {
		return delta.Failed(err), nil
	}
	return delta.ChangedResult(sub), nil
}

// CompareTypeRoot compares a type of comp with the type of the same name in
// refComp. Nested types are never compared on their own.
func (c *Comparator) CompareTypeRoot(ctx context.Context, root baseline.TypeRoot,
	refComp, comp *baseline.Component, mask modifiers.Visibility) (delta.Result, error) {
	if root == nil {
		return delta.Result{}, errors.Argument("type root is nil")
	}
	if err := checkTypeArgs(refComp, comp); err != nil {
		return delta.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return delta.Failed(err), nil
	}
	tgt, err := root.Descriptor()
	if err != nil {
		return delta.Failed(err), nil
	}
	if tgt.IsNested() {
		return delta.NoChange(), nil
	}
	r := c.typeRun(ctx, refComp, comp, mask)
	name := tgt.Name

	refRoot, ok := refComp.FindType(name)
	if !ok {
		r.leaf(delta.Added, delta.Type, name, 0, tgt.Access)
		return delta.ChangedResult(r.group.Build()), nil
	}
	ref, err := refRoot.Descriptor()
	if err != nil {
		return delta.Failed(err), nil
	}

	tgtAnn := comp.Annotation(baseline.TypeHandle(name))
	if !tgtAnn.Visibility.Intersects(mask) {
		refAnn := refComp.Annotation(baseline.TypeHandle(name))
		if !refAnn.Visibility.Intersects(mask) {
			return delta.NoChange(), nil
		}
		r.visibilityLoss(name, ref, tgt, refAnn, located{owner: comp})
		return delta.ChangedResult(r.group.Build()), nil
	}

	sub, err := c.members.CompareMembers(ctx, ref, root, refComp, comp, mask)
	if err != nil {
		return delta.Failed(err), nil
	}
	r.group.Add(sub)
	return delta.ChangedResult(r.group.Build()), nil
}
