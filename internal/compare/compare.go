// Package compare pairs the components of two baselines, walks their type
// containers and delegates each matched type to a member comparator. The
// result is one delta tree per call.
package compare

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"apidelta/internal/baseline"
	"apidelta/internal/delta"
	"apidelta/internal/errors"
	"apidelta/internal/members"
	"apidelta/internal/modifiers"
	"apidelta/internal/progress"
	"apidelta/internal/slogutil"
)

// MemberComparator diffs the members of one matched type pair. The
// returned subtree is NoDelta when nothing differs. A structural read
// failure of target is returned as an error.
type MemberComparator interface {
	CompareMembers(ctx context.Context, ref *baseline.TypeDescriptor, target baseline.TypeRoot,
		refComp, comp *baseline.Component, mask modifiers.Visibility) (*delta.Delta, error)
}

// Comparator is safe for concurrent use; each call builds its own tree.
type Comparator struct {
	members     MemberComparator
	logger      *slog.Logger
	parallelism int
	progress    *progress.Tracker
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Comparator) {
		c.logger = slogutil.OrDiscard(l)
	}
}

// WithParallelism compares up to n components of a baseline at once.
// Values below 2 keep the walk sequential.
func WithParallelism(n int) Option {
	return func(c *Comparator) {
		if n < 1 {
			n = 1
		}
		c.parallelism = n
	}
}

// WithProgress reports work against t.
func WithProgress(t *progress.Tracker) Option {
	return func(c *Comparator) {
		c.progress = t
	}
}

// New creates a Comparator. A nil member comparator uses members.New.
func New(m MemberComparator, opts ...Option) *Comparator {
	c := &Comparator{
		logger:      slogutil.NewDiscardLogger(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if m == nil {
		m = members.New(c.logger)
	}
	c.members = m
	return c
}

// CompareBaselines compares every non-system component of ref with its
// counterpart in b. Components are recursed into when their versions
// differ or force is set.
func (c *Comparator) CompareBaselines(ctx context.Context, ref, b *baseline.Baseline,
	mask modifiers.Visibility, force bool) (delta.Result, error) {
	if ref == nil || b == nil {
		return delta.Result{}, errors.Argument("both baselines are required")
	}
	refComps := ref.Components()
	c.progress.Begin(len(refComps) + 1)
	defer c.progress.Done()

	g := delta.NewGroup(delta.Fields{
		Key:         ref.Name(),
		ElementType: delta.ElementBaseline,
		Kind:        delta.Changed,
	})

	subtrees := make([]*delta.Delta, len(refComps))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(c.parallelism, 1))
	for i, rc := range refComps {
		if rc.System {
			c.progress.Worked(1)
			continue
		}
		tc, ok := b.Component(rc.ID)
		if !ok {
			subtrees[i] = componentPresence(delta.Removed, rc)
			c.progress.Worked(1)
			continue
		}
		tracker := c.progress.Split(1)
		eg.Go(func() error {
			defer tracker.Done()
			d, err := c.compareVersioned(egctx, rc, tc, mask, force, tracker)
			if err != nil {
				return err
			}
			subtrees[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return delta.Failed(err), nil
	}
	if err := ctx.Err(); err != nil {
		return delta.Failed(err), nil
	}
	g.AddAll(subtrees...)

	for _, tc := range b.Components() {
		if tc.System {
			continue
		}
		if _, ok := ref.Component(tc.ID); !ok {
			g.Add(componentPresence(delta.Added, tc))
		}
	}
	return delta.ChangedResult(g.Build()), nil
}

// CompareComponentToBaseline compares comp against the component with the
// same id in ref. A component missing from ref is reported as added.
func (c *Comparator) CompareComponentToBaseline(ctx context.Context, comp *baseline.Component, ref *baseline.Baseline,
	mask modifiers.Visibility, force bool) (delta.Result, error) {
	if comp == nil {
		return delta.Result{}, errors.Argument("component is nil")
	}
	if ref == nil {
		return delta.Result{}, errors.Argument("reference baseline is nil")
	}
	if comp.System {
		return delta.NoChange(), nil
	}
	rc, ok := ref.Component(comp.ID)
	if !ok {
		return delta.ChangedResult(componentPresence(delta.Added, comp)), nil
	}
	d, err := c.compareVersioned(ctx, rc, comp, mask, force, c.progress)
	if err != nil {
		return delta.Failed(err), nil
	}
	return delta.ChangedResult(d), nil
}

// CompareComponents always recurses, whatever the versions.
func (c *Comparator) CompareComponents(ctx context.Context, ref, comp *baseline.Component,
	mask modifiers.Visibility) (delta.Result, error) {
	if ref == nil || comp == nil {
		return delta.Result{}, errors.Argument("both components are required")
	}
	if ref.Baseline() == nil || comp.Baseline() == nil {
		return delta.Result{}, errors.Argument("components must belong to a baseline")
	}
	d, err := c.compareComponents(ctx, ref, comp, mask, nil, c.progress)
	if err != nil {
		return delta.Failed(err), nil
	}
	return delta.ChangedResult(d), nil
}

// compareVersioned reports version changes and recurses into the component
// when the version strings differ or force is set.
func (c *Comparator) compareVersioned(ctx context.Context, ref, comp *baseline.Component,
	mask modifiers.Visibility, force bool, tracker *progress.Tracker) (*delta.Delta, error) {
	if ref.Version == comp.Version && !force {
		return delta.NoDelta, nil
	}
	start := time.Now()
	d, err := c.compareComponents(ctx, ref, comp, mask, versionChanges(ref, comp), tracker)
	c.logger.Debug("Compared component",
		"component", ref.ID,
		"from", ref.Version,
		"to", comp.Version,
		"duration", time.Since(start))
	return d, err
}

func versionChanges(ref, comp *baseline.Component) []*delta.Delta {
	if ref.Version == comp.Version {
		return nil
	}
	maj1, min1, ok1 := baseline.MajorMinor(ref.Version)
	maj2, min2, ok2 := baseline.MajorMinor(comp.Version)
	if !ok1 || !ok2 {
		return nil
	}
	flag := delta.FlagNone
	switch {
	case maj1 != maj2:
		flag = delta.MajorVersion
	case min1 != min2:
		flag = delta.MinorVersion
	default:
		return nil
	}
	return []*delta.Delta{delta.New(delta.Fields{
		Key:                ref.ID,
		ElementType:        delta.ElementComponent,
		Kind:               delta.Changed,
		Flag:               flag,
		ComponentID:        ref.ID,
		ComponentVersionID: delta.ComponentVersionID(ref.ID, ref.Version),
		TypeName:           ref.ID,
		Arguments:          []string{ref.ID, ref.Version, comp.Version},
	})}
}

// componentPresence is the baseline-level leaf for a component that only
// one side has.
func componentPresence(kind delta.Kind, comp *baseline.Component) *delta.Delta {
	return delta.New(delta.Fields{
		Key:         comp.ID,
		ElementType: delta.ElementBaseline,
		Kind:        kind,
		Flag:        delta.APIComponent,
		ComponentID: comp.ID,
		Arguments:   []string{comp.ID},
	})
}

func componentGroup(ref *baseline.Component) *delta.Group {
	return delta.NewGroup(delta.Fields{
		Key:                ref.ID,
		ElementType:        delta.ElementComponent,
		Kind:               delta.Changed,
		ComponentID:        ref.ID,
		ComponentVersionID: delta.ComponentVersionID(ref.ID, ref.Version),
	})
}

// failure converts an error from a walk into a comparison failure, keeping
// cancellation and coded errors as they are.
func failure(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if _, ok := errors.CodeOf(err); ok {
		return err
	}
	return errors.New(errors.ComparisonFailed, fmt.Sprintf(format, args...), err)
}
