// Package modifiers defines the access, visibility and restriction bitmasks
// attached to type descriptors and API descriptions.
package modifiers

import (
	"sort"
	"strings"
)

// Access is a bitmask of declaration modifiers on a type or member.
type Access int

const (
	Public       Access = 1 << 0
	Private      Access = 1 << 1
	Protected    Access = 1 << 2
	Static       Access = 1 << 3
	Final        Access = 1 << 4
	Synchronized Access = 1 << 5
	Volatile     Access = 1 << 6
	Transient    Access = 1 << 7
	Native       Access = 1 << 8
	Interface    Access = 1 << 9
	Abstract     Access = 1 << 10
	Synthetic    Access = 1 << 12
	Annotation   Access = 1 << 13
	Enum         Access = 1 << 14
	Varargs      Access = 1 << 15
	Deprecated   Access = 1 << 16
)

var accessNames = map[string]Access{
	"public":       Public,
	"private":      Private,
	"protected":    Protected,
	"static":       Static,
	"final":        Final,
	"synchronized": Synchronized,
	"volatile":     Volatile,
	"transient":    Transient,
	"native":       Native,
	"interface":    Interface,
	"abstract":     Abstract,
	"synthetic":    Synthetic,
	"annotation":   Annotation,
	"enum":         Enum,
	"varargs":      Varargs,
	"deprecated":   Deprecated,
}

// ParseAccess converts modifier keywords into an Access mask.
// Unknown keywords are returned in the second result.
func ParseAccess(words []string) (Access, []string) {
	var a Access
	var unknown []string
	for _, w := range words {
		bit, ok := accessNames[strings.ToLower(strings.TrimSpace(w))]
		if !ok {
			unknown = append(unknown, w)
			continue
		}
		a |= bit
	}
	return a, unknown
}

// Has reports whether all bits in m are set.
func (a Access) Has(m Access) bool { return a&m == m }

func (a Access) IsPublic() bool    { return a&Public != 0 }
func (a Access) IsProtected() bool { return a&Protected != 0 }
func (a Access) IsPrivate() bool   { return a&Private != 0 }

// IsDefault reports package-level (no keyword) visibility.
func (a Access) IsDefault() bool { return a&(Public|Protected|Private) == 0 }

// IsVisible reports whether a client outside the declaring package can see the element.
func (a Access) IsVisible() bool { return a&(Public|Protected) != 0 }

func (a Access) IsStatic() bool       { return a&Static != 0 }
func (a Access) IsFinal() bool        { return a&Final != 0 }
func (a Access) IsAbstract() bool     { return a&Abstract != 0 }
func (a Access) IsInterface() bool    { return a&Interface != 0 }
func (a Access) IsAnnotation() bool   { return a&Annotation != 0 }
func (a Access) IsEnum() bool         { return a&Enum != 0 }
func (a Access) IsSynthetic() bool    { return a&Synthetic != 0 }
func (a Access) IsVarargs() bool      { return a&Varargs != 0 }
func (a Access) IsNative() bool       { return a&Native != 0 }
func (a Access) IsSynchronized() bool { return a&Synchronized != 0 }
func (a Access) IsTransient() bool    { return a&Transient != 0 }
func (a Access) IsVolatile() bool     { return a&Volatile != 0 }

// Words returns the modifier keywords set in a, sorted.
func (a Access) Words() []string {
	var out []string
	for name, bit := range accessNames {
		if a&bit != 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (a Access) String() string {
	if a == 0 {
		return "default"
	}
	return strings.Join(a.Words(), " ")
}
