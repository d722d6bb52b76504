package scope

import (
	"context"
	"log/slog"

	"apidelta/internal/baseline"
	"apidelta/internal/compare"
	"apidelta/internal/delta"
	"apidelta/internal/errors"
	"apidelta/internal/modifiers"
	"apidelta/internal/slogutil"
)

// Adapter runs the comparator over every element of a scope.
type Adapter struct {
	cmp             *compare.Comparator
	reference       *baseline.Baseline
	mask            modifiers.Visibility
	force           bool
	continueOnError bool
	logger          *slog.Logger

	containsError bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithVisibility sets the visibility mask. The default is API.
func WithVisibility(mask modifiers.Visibility) Option {
	return func(a *Adapter) { a.mask = mask }
}

// WithForce recurses into components whose versions are equal.
func WithForce(force bool) Option {
	return func(a *Adapter) { a.force = force }
}

// WithContinueOnError keeps walking after an element fails.
func WithContinueOnError(cont bool) Option {
	return func(a *Adapter) { a.continueOnError = cont }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = slogutil.OrDiscard(l) }
}

// NewAdapter compares scopes against reference.
func NewAdapter(cmp *compare.Comparator, reference *baseline.Baseline, opts ...Option) *Adapter {
	a := &Adapter{
		cmp:       cmp,
		reference: reference,
		mask:      modifiers.API,
		logger:    slogutil.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ContainsError reports whether any element failed since the adapter was
// created. It is never reset.
func (a *Adapter) ContainsError() bool { return a.containsError }

// Compare visits every element of s and adds the leaves of each result to
// leaves. Unless continue-on-error is set, the first failing element stops
// the walk and its error is returned.
func (a *Adapter) Compare(ctx context.Context, s *Scope, leaves *delta.LeafSet) error {
	if a.cmp == nil || a.reference == nil {
		return errors.Argument("adapter needs a comparator and a reference baseline")
	}
	if s == nil || leaves == nil {
		return errors.Argument("scope and leaf set are required")
	}
	for _, e := range s.Elements() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.visit(ctx, e, leaves); err != nil {
			a.containsError = true
			a.logger.Warn("Scope element failed", "error", err)
			if !a.continueOnError {
				return errors.New(errors.ScopeWalk, "comparing scope", err)
			}
		}
	}
	return nil
}

func (a *Adapter) visit(ctx context.Context, e Element, leaves *delta.LeafSet) error {
	if b, ok := e.(BaselineElement); ok {
		if b.B == nil {
			return errors.Argument("baseline element is empty")
		}
		return a.collect(a.cmp.CompareBaselines(ctx, a.reference, b.B, a.mask, a.force))(leaves)
	}

	comp, err := e.Component()
	if err != nil {
		return err
	}
	if comp.Excluded() {
		return nil
	}

	switch el := e.(type) {
	case ComponentElement:
		return a.collect(a.cmp.CompareComponentToBaseline(ctx, comp, a.reference, a.mask, a.force))(leaves)
	case ContainerElement:
		refComp, ok := a.referenceFor(comp, leaves)
		if !ok {
			return nil
		}
		return el.Container.Walk(func(_ string, root baseline.TypeRoot) error {
			return a.compareType(ctx, root, refComp, comp, leaves)
		})
	case TypeElement:
		refComp, ok := a.referenceFor(comp, leaves)
		if !ok {
			return nil
		}
		return a.compareType(ctx, el.Root, refComp, comp, leaves)
	default:
		return errors.Newf(errors.InvalidArgument, "unsupported scope element %T", e)
	}
}

// referenceFor finds the counterpart of comp. A component the reference
// lacks is added as a whole and its elements are not compared further.
func (a *Adapter) referenceFor(comp *baseline.Component, leaves *delta.LeafSet) (*baseline.Component, bool) {
	if refComp, ok := a.reference.Component(comp.ID); ok {
		return refComp, true
	}
	leaves.Add(delta.New(delta.Fields{
		Key:         comp.ID,
		ElementType: delta.ElementBaseline,
		Kind:        delta.Added,
		Flag:        delta.APIComponent,
		ComponentID: comp.ID,
		Arguments:   []string{comp.ID},
	}))
	return nil, false
}

func (a *Adapter) compareType(ctx context.Context, root baseline.TypeRoot, refComp, comp *baseline.Component,
	leaves *delta.LeafSet) error {
	res, err := a.cmp.CompareTypeRoot(ctx, root, refComp, comp, a.mask)
	if err != nil {
		return err
	}
	if res.IsFailed() && errors.HasCode(res.Err(), errors.StructuralRead) {
		a.logger.Warn("Skipping unreadable type",
			"type", root.TypeName(),
			"component", comp.ID,
			"error", res.Err())
		return nil
	}
	return a.collect(res, nil)(leaves)
}

// collect adapts a comparator call to the leaf set.
func (a *Adapter) collect(res delta.Result, err error) func(*delta.LeafSet) error {
	return func(leaves *delta.LeafSet) error {
		if err != nil {
			return err
		}
		if res.IsFailed() {
			return res.Err()
		}
		leaves.AddTree(res.Tree())
		return nil
	}
}
