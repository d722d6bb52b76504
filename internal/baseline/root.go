package baseline

import (
	"fmt"

	"apidelta/internal/errors"
)

// TypeRoot is a handle on one type inside a container. The descriptor is
// read on demand and reading may fail.
type TypeRoot interface {
	TypeName() string
	PackageName() string
	Descriptor() (*TypeDescriptor, error)
}

type staticRoot struct {
	desc *TypeDescriptor
}

// NewTypeRoot wraps an already parsed descriptor.
func NewTypeRoot(desc *TypeDescriptor) TypeRoot {
	return staticRoot{desc: desc}
}

func (r staticRoot) TypeName() string { return r.desc.Name }
func (r staticRoot) PackageName() string { return r.desc.PackageName() }
func (r staticRoot) Descriptor() (*TypeDescriptor, error) { return r.desc, nil }

type brokenRoot struct {
	name  string
	cause error
}

// NewBrokenRoot is a root whose descriptor cannot be read.
func NewBrokenRoot(name string, cause error) TypeRoot {
	return brokenRoot{name: name, cause: cause}
}

func (r brokenRoot) TypeName() string { return r.name }
func (r brokenRoot) PackageName() string { return PackageOf(r.name) }
func (r brokenRoot) Descriptor() (*TypeDescriptor, error) {
	return nil, errors.New(errors.StructuralRead, fmt.Sprintf("type %s could not be read", r.name), r.cause)
}
