package modifiers

import (
	"fmt"
	"strings"
)

// Visibility classifies an element's place in a component's API contract.
type Visibility int

const (
	// API elements are part of the public contract.
	API Visibility = 0x1
	// PrivateVisibility elements are internal to the component.
	PrivateVisibility Visibility = 0x2
	// PrivatePermissible elements are internal but may be accessed by named friends.
	PrivatePermissible Visibility = 0x4
	// SPI elements form a service provider interface.
	SPI Visibility = 0x8
	// AllVisibilities matches every visibility.
	AllVisibilities Visibility = 0xFFFF
)

// Intersects reports whether v shares any bit with mask.
func (v Visibility) Intersects(mask Visibility) bool { return v&mask != 0 }

// IsAPI reports whether the API bit is set.
func (v Visibility) IsAPI() bool { return v&API != 0 }

// ParseVisibility accepts the names used in configuration and manifests:
// api, private, private_permissible, spi, all.
func ParseVisibility(s string) (Visibility, error) {
	var v Visibility
	for _, part := range strings.Split(s, "|") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "api":
			v |= API
		case "private":
			v |= PrivateVisibility
		case "private_permissible", "private-permissible":
			v |= PrivatePermissible
		case "spi":
			v |= SPI
		case "all", "":
			v |= AllVisibilities
		default:
			return 0, fmt.Errorf("unknown visibility %q", part)
		}
	}
	return v, nil
}

func (v Visibility) String() string {
	if v == AllVisibilities {
		return "all"
	}
	var parts []string
	if v&API != 0 {
		parts = append(parts, "api")
	}
	if v&PrivateVisibility != 0 {
		parts = append(parts, "private")
	}
	if v&PrivatePermissible != 0 {
		parts = append(parts, "private_permissible")
	}
	if v&SPI != 0 {
		parts = append(parts, "spi")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Restriction forbids a usage pattern on an API element.
type Restriction int

const (
	NoRestrictions Restriction = 0
	NoExtend       Restriction = 0x1
	NoImplement    Restriction = 0x2
	NoInstantiate  Restriction = 0x4
	NoReference    Restriction = 0x8
	NoOverride     Restriction = 0x10
)

var restrictionNames = []struct {
	name string
	bit  Restriction
}{
	{"noextend", NoExtend},
	{"noimplement", NoImplement},
	{"noinstantiate", NoInstantiate},
	{"noreference", NoReference},
	{"nooverride", NoOverride},
}

// Has reports whether every bit in r2 is set.
func (r Restriction) Has(r2 Restriction) bool { return r&r2 == r2 }

// IsUnrestricted reports that no restriction applies.
func (r Restriction) IsUnrestricted() bool { return r == NoRestrictions }

func (r Restriction) IsExtendRestriction() bool      { return r&NoExtend != 0 }
func (r Restriction) IsImplementRestriction() bool   { return r&NoImplement != 0 }
func (r Restriction) IsInstantiateRestriction() bool { return r&NoInstantiate != 0 }
func (r Restriction) IsReferenceRestriction() bool   { return r&NoReference != 0 }
func (r Restriction) IsOverrideRestriction() bool    { return r&NoOverride != 0 }

// ParseRestrictions converts keywords such as "noextend" into a mask.
func ParseRestrictions(words []string) (Restriction, error) {
	var r Restriction
outer:
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		for _, rn := range restrictionNames {
			if rn.name == w {
				r |= rn.bit
				continue outer
			}
		}
		return 0, fmt.Errorf("unknown restriction %q", w)
	}
	return r, nil
}

func (r Restriction) String() string {
	if r == NoRestrictions {
		return "none"
	}
	var parts []string
	for _, rn := range restrictionNames {
		if r&rn.bit != 0 {
			parts = append(parts, rn.name)
		}
	}
	return strings.Join(parts, "|")
}
