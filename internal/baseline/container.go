package baseline

import (
	"sort"
)

// TypeContainer enumerates type roots. Walk visits roots in a stable order
// and stops at the first error returned by fn.
type TypeContainer interface {
	// Origin is the id of the component that contributed the container.
	Origin() string
	Walk(fn func(pkg string, root TypeRoot) error) error
	FindType(name string) (TypeRoot, bool)
	Packages() []string
}

// MemoryContainer is a TypeContainer over a fixed set of roots.
type MemoryContainer struct {
	origin string
	roots  map[string]TypeRoot
	names  []string
}

// NewMemoryContainer creates a container contributed by origin.
func NewMemoryContainer(origin string, roots ...TypeRoot) *MemoryContainer {
	c := &MemoryContainer{origin: origin, roots: make(map[string]TypeRoot, len(roots))}
	for _, r := range roots {
		c.Add(r)
	}
	return c
}

// NewContainerOf builds a container from descriptors.
func NewContainerOf(origin string, types ...*TypeDescriptor) *MemoryContainer {
	c := NewMemoryContainer(origin)
	for _, t := range types {
		c.Add(NewTypeRoot(t))
	}
	return c
}

// Add inserts or replaces a root.
func (c *MemoryContainer) Add(r TypeRoot) {
	name := r.TypeName()
	if _, ok := c.roots[name]; !ok {
		c.names = append(c.names, name)
		sort.Strings(c.names)
	}
	c.roots[name] = r
}

func (c *MemoryContainer) Origin() string { return c.origin }

func (c *MemoryContainer) Walk(fn func(pkg string, root TypeRoot) error) error {
	for _, name := range c.names {
		r := c.roots[name]
		if err := fn(r.PackageName(), r); err != nil {
			return err
		}
	}
	return nil
}

func (c *MemoryContainer) FindType(name string) (TypeRoot, bool) {
	r, ok := c.roots[name]
	return r, ok
}

func (c *MemoryContainer) Packages() []string {
	seen := make(map[string]bool)
	var pkgs []string
	for _, name := range c.names {
		p := PackageOf(name)
		if !seen[p] {
			seen[p] = true
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

// Len is the number of roots.
func (c *MemoryContainer) Len() int { return len(c.names) }
