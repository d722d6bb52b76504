package delta

import "fmt"

// ElementType names the kind of element a delta is reported against.
type ElementType int

const (
	ElementUnknown ElementType = iota
	ElementBaseline
	ElementComponent
	ElementClass
	ElementInterface
	ElementAnnotation
	ElementEnum
	ElementField
	ElementMethod
	ElementConstructor
	ElementTypeParameter
)

var elementTypeNames = [...]string{
	ElementUnknown:       "unknown",
	ElementBaseline:      "baseline",
	ElementComponent:     "component",
	ElementClass:         "class",
	ElementInterface:     "interface",
	ElementAnnotation:    "annotation",
	ElementEnum:          "enum",
	ElementField:         "field",
	ElementMethod:        "method",
	ElementConstructor:   "constructor",
	ElementTypeParameter: "type_parameter",
}

// ElementTypes lists every concrete element type.
func ElementTypes() []ElementType {
	return []ElementType{
		ElementBaseline, ElementComponent, ElementClass, ElementInterface, ElementAnnotation,
		ElementEnum, ElementField, ElementMethod, ElementConstructor, ElementTypeParameter,
	}
}

func (e ElementType) String() string {
	if e < 0 || int(e) >= len(elementTypeNames) {
		return fmt.Sprintf("element(%d)", int(e))
	}
	return elementTypeNames[e]
}

// MarshalText implements encoding.TextMarshaler.
func (e ElementType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// IsType reports whether e denotes a type declaration.
func (e ElementType) IsType() bool {
	switch e {
	case ElementClass, ElementInterface, ElementAnnotation, ElementEnum:
		return true
	}
	return false
}

// Kind is the direction of a change.
type Kind int

const (
	KindNone Kind = iota
	Added
	Changed
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "ADDED"
	case Changed:
		return "CHANGED"
	case Removed:
		return "REMOVED"
	default:
		return "NONE"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Kinds lists the three change directions.
func Kinds() []Kind { return []Kind{Added, Changed, Removed} }
