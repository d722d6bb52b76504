// Package scope compares an arbitrary set of elements against one reference
// baseline and flattens the results into a single leaf set.
package scope

import (
	"apidelta/internal/baseline"
	"apidelta/internal/errors"
)

// Element is one member of a Scope.
type Element interface {
	// Component returns the owning component. A baseline element has none.
	Component() (*baseline.Component, error)
}

// ContainerElement is a type container of a component.
type ContainerElement struct {
	Container baseline.TypeContainer
	Owner     *baseline.Component
}

func (e ContainerElement) Component() (*baseline.Component, error) {
	if e.Owner == nil {
		return nil, errors.Newf(errors.ResolutionFailed, "container %s has no owning component", e.Container.Origin())
	}
	return e.Owner, nil
}

// TypeElement is a single type of a component.
type TypeElement struct {
	Root  baseline.TypeRoot
	Owner *baseline.Component
}

func (e TypeElement) Component() (*baseline.Component, error) {
	if e.Owner == nil {
		return nil, errors.Newf(errors.ResolutionFailed, "type %s has no owning component", e.Root.TypeName())
	}
	return e.Owner, nil
}

// ComponentElement is a whole component.
type ComponentElement struct {
	C *baseline.Component
}

func (e ComponentElement) Component() (*baseline.Component, error) {
	if e.C == nil {
		return nil, errors.Argument("component element is empty")
	}
	return e.C, nil
}

// BaselineElement is a whole baseline.
type BaselineElement struct {
	B *baseline.Baseline
}

func (BaselineElement) Component() (*baseline.Component, error) { return nil, nil }

// Scope is an unordered set of elements.
type Scope struct {
	elements []Element
}

// New creates a scope holding elements.
func New(elements ...Element) *Scope {
	s := &Scope{}
	s.Add(elements...)
	return s
}

// Add appends elements; nil values are dropped.
func (s *Scope) Add(elements ...Element) {
	for _, e := range elements {
		if e != nil {
			s.elements = append(s.elements, e)
		}
	}
}

// Elements returns the elements in insertion order.
func (s *Scope) Elements() []Element {
	return append([]Element(nil), s.elements...)
}

func (s *Scope) Len() int { return len(s.elements) }

// Encloses reports whether any element belongs to c, or is a baseline
// containing it.
func (s *Scope) Encloses(c *baseline.Component) bool {
	if c == nil {
		return false
	}
	for _, e := range s.elements {
		if b, ok := e.(BaselineElement); ok {
			if b.B != nil && c.Baseline() == b.B {
				return true
			}
			continue
		}
		if owner, err := e.Component(); err == nil && owner != nil && owner.ID == c.ID {
			return true
		}
	}
	return false
}
