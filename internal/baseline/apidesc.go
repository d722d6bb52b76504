package baseline

import (
	"sync"

	"apidelta/internal/modifiers"
)

// ElementHandle addresses a type (Member empty) or one of its members.
// Member is a field name, or a method name followed by its descriptor.
type ElementHandle struct {
	Type   string
	Member string
}

// TypeHandle addresses a type.
func TypeHandle(typeName string) ElementHandle { return ElementHandle{Type: typeName} }

// MemberHandle addresses a member of typeName.
func MemberHandle(typeName, member string) ElementHandle {
	return ElementHandle{Type: typeName, Member: member}
}

// Annotation is the visibility and restriction metadata of an element.
type Annotation struct {
	Visibility   modifiers.Visibility
	Restrictions modifiers.Restriction
}

// DefaultAnnotation applies to elements with no explicit entry.
var DefaultAnnotation = Annotation{Visibility: modifiers.API}

// APIDescription maps element handles to annotations. It is safe for
// concurrent reads once populated.
type APIDescription struct {
	mu      sync.RWMutex
	entries map[ElementHandle]Annotation
	// Fallback is used for types without an entry.
	Fallback Annotation
}

func NewAPIDescription() *APIDescription {
	return &APIDescription{entries: make(map[ElementHandle]Annotation), Fallback: DefaultAnnotation}
}

// Set records an annotation.
func (d *APIDescription) Set(h ElementHandle, a Annotation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entries == nil {
		d.entries = make(map[ElementHandle]Annotation)
	}
	d.entries[h] = a
}

// Lookup returns the explicit annotation for h.
func (d *APIDescription) Lookup(h ElementHandle) (Annotation, bool) {
	if d == nil {
		return Annotation{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.entries[h]
	return a, ok
}

// Resolve returns the effective annotation for h. Members without an entry
// inherit the visibility of their type and carry no restrictions of their own.
func (d *APIDescription) Resolve(h ElementHandle) Annotation {
	if a, ok := d.Lookup(h); ok {
		return a
	}
	if h.Member != "" {
		t := d.Resolve(TypeHandle(h.Type))
		return Annotation{Visibility: t.Visibility}
	}
	if d == nil {
		return DefaultAnnotation
	}
	return d.Fallback
}

// Len is the number of explicit entries.
func (d *APIDescription) Len() int {
	if d == nil {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
