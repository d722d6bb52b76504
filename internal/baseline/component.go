package baseline

import (
	"apidelta/internal/modifiers"
)

// RequiredComponent declares a dependency of a component.
type RequiredComponent struct {
	ID           string
	VersionRange string
	Exported     bool
}

// Component is one versioned module of a baseline.
type Component struct {
	ID                    string
	Version               string
	Required              []RequiredComponent
	ExecutionEnvironments []string
	Containers            []TypeContainer
	API                   *APIDescription

	System bool
	Source bool
	// UsesUnscopedContainers makes every container visible to scoped
	// lookups regardless of origin.
	UsesUnscopedContainers bool

	baseline *Baseline
}

// Baseline returns the owning baseline, or nil before the component is added.
func (c *Component) Baseline() *Baseline { return c.baseline }

// Excluded reports components that never take part in a comparison.
func (c *Component) Excluded() bool { return c.System || c.Source }

// ContainersFor returns the containers contributed by origin. A container
// with an empty origin belongs to the component itself.
func (c *Component) ContainersFor(origin string) []TypeContainer {
	if c.UsesUnscopedContainers {
		return c.Containers
	}
	var out []TypeContainer
	for _, tc := range c.Containers {
		o := tc.Origin()
		if o == origin || (o == "" && origin == c.ID) {
			out = append(out, tc)
		}
	}
	return out
}

// OwnContainers is ContainersFor(c.ID).
func (c *Component) OwnContainers() []TypeContainer { return c.ContainersFor(c.ID) }

// FindType looks name up in the component's own containers.
func (c *Component) FindType(name string) (TypeRoot, bool) {
	for _, tc := range c.OwnContainers() {
		if r, ok := tc.FindType(name); ok {
			return r, true
		}
	}
	return nil, false
}

// Annotation resolves the effective annotation for h. System components
// expose nothing as API unless described.
func (c *Component) Annotation(h ElementHandle) Annotation {
	if c.API == nil {
		if c.System {
			return Annotation{Visibility: modifiers.PrivateVisibility}
		}
		return DefaultAnnotation
	}
	return c.API.Resolve(h)
}

// ExportedRequired lists the required components re-exported by c.
func (c *Component) ExportedRequired() []RequiredComponent {
	var out []RequiredComponent
	for _, r := range c.Required {
		if r.Exported {
			out = append(out, r)
		}
	}
	return out
}
