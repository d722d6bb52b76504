// Package baseline models the inputs of a comparison: baselines of
// versioned components, their type containers and API descriptions.
package baseline

import (
	"fmt"
	"log/slog"
	"sort"

	"apidelta/internal/errors"
	"apidelta/internal/slogutil"
)

// Baseline is a named, ordered set of components with unique ids.
type Baseline struct {
	name       string
	components []*Component
	byID       map[string]*Component
	logger     *slog.Logger
}

// New creates a baseline. A nil logger discards.
func New(name string, logger *slog.Logger, components ...*Component) (*Baseline, error) {
	b := &Baseline{
		name:   name,
		byID:   make(map[string]*Component, len(components)),
		logger: slogutil.OrDiscard(logger),
	}
	for _, c := range components {
		if err := b.Add(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// MustNew is New for fixtures; it panics on duplicate ids.
func MustNew(name string, components ...*Component) *Baseline {
	b, err := New(name, nil, components...)
	if err != nil {
		panic(err)
	}
	return b
}

// Add appends c. Ids must be unique and a component belongs to one baseline.
func (b *Baseline) Add(c *Component) error {
	if c == nil {
		return errors.Argument("component is nil")
	}
	if _, dup := b.byID[c.ID]; dup {
		return errors.Newf(errors.InvalidArgument, "duplicate component %s in baseline %s", c.ID, b.name)
	}
	if c.baseline != nil && c.baseline != b {
		return errors.Newf(errors.InvalidArgument, "component %s already belongs to baseline %s", c.ID, c.baseline.name)
	}
	c.baseline = b
	b.components = append(b.components, c)
	b.byID[c.ID] = c
	return nil
}

func (b *Baseline) Name() string { return b.name }

// Components returns the components in insertion order.
func (b *Baseline) Components() []*Component {
	return append([]*Component(nil), b.components...)
}

// Component looks a component up by id.
func (b *Baseline) Component(id string) (*Component, bool) {
	c, ok := b.byID[id]
	return c, ok
}

// IDs returns the component ids, sorted.
func (b *Baseline) IDs() []string {
	ids := make([]string, 0, len(b.components))
	for _, c := range b.components {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	return ids
}

// ResolvedRequirement is a required component found in the baseline.
type ResolvedRequirement struct {
	Component *Component
	Exported  bool
}

// ResolveRequired resolves c's requirements against b. Requirements that
// are missing or whose version falls outside the range are skipped. A
// malformed range or version fails the resolution.
func (b *Baseline) ResolveRequired(c *Component) ([]ResolvedRequirement, error) {
	if c == nil {
		return nil, errors.Argument("component is nil")
	}
	var out []ResolvedRequirement
	for _, req := range c.Required {
		dep, ok := b.byID[req.ID]
		if !ok {
			b.logger.Debug("Required component not in baseline",
				"component", c.ID, "required", req.ID, "baseline", b.name)
			continue
		}
		if req.VersionRange != "" && dep.Version != "" {
			match, err := Satisfies(dep.Version, req.VersionRange)
			if err != nil {
				return nil, errors.New(errors.ResolutionFailed,
					fmt.Sprintf("requirement %s of %s", req.ID, c.ID), err)
			}
			if !match {
				b.logger.Debug("Required component version out of range",
					"component", c.ID, "required", req.ID, "version", dep.Version, "range", req.VersionRange)
				continue
			}
		}
		out = append(out, ResolvedRequirement{Component: dep, Exported: req.Exported})
	}
	return out, nil
}
