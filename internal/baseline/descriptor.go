package baseline

import (
	"strings"

	"apidelta/internal/modifiers"
)

// TypeKind is the declaration kind of a type.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindAnnotation
	KindEnum
)

func (k TypeKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindAnnotation:
		return "annotation"
	case KindEnum:
		return "enum"
	default:
		return "class"
	}
}

// TypeParameter is a generic parameter with its bounds.
type TypeParameter struct {
	Name            string
	ClassBound      string
	InterfaceBounds []string
}

// Field is a field declaration. Value is set only for compile-time constants.
type Field struct {
	Name          string
	Type          string
	Access        modifiers.Access
	Value         *string
	TypeArguments []string
}

// IsConstant reports a static final field carrying a constant value.
func (f Field) IsConstant() bool {
	return f.Value != nil && f.Access.IsStatic() && f.Access.IsFinal()
}

// Exception is a declared thrown type.
type Exception struct {
	Type      string
	Unchecked bool
}

// Method describes a method or constructor. Descriptor is the erased
// signature, e.g. "(Ljava/lang/String;)V", and together with Name is the
// identity of the member.
type Method struct {
	Name           string
	Descriptor     string
	Access         modifiers.Access
	Exceptions     []Exception
	TypeParameters []TypeParameter
	DefaultValue   *string
}

// Key is the member identity used in handles and delta keys.
func (m Method) Key() string { return m.Name + m.Descriptor }

// TypeDescriptor is one parsed type declaration.
type TypeDescriptor struct {
	Name           string
	Access         modifiers.Access
	Superclass     string
	Interfaces     []string
	TypeParameters []TypeParameter
	Fields         []Field
	Methods        []Method
	Constructors   []Method
	EnumConstants  []string
	MemberTypes    []string
	HasClinit      bool

	MemberType bool
	Local      bool
	Anonymous  bool
}

// Kind derives the declaration kind from the access bits.
func (t *TypeDescriptor) Kind() TypeKind {
	switch {
	case t.Access.IsAnnotation():
		return KindAnnotation
	case t.Access.IsInterface():
		return KindInterface
	case t.Access.IsEnum():
		return KindEnum
	default:
		return KindClass
	}
}

// IsNested reports member, local and anonymous types.
func (t *TypeDescriptor) IsNested() bool {
	return t.MemberType || t.Local || t.Anonymous
}

// PackageName is the qualifier of Name.
func (t *TypeDescriptor) PackageName() string { return PackageOf(t.Name) }

// Field returns the named field.
func (t *TypeDescriptor) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Method returns the method with the given name and descriptor.
func (t *TypeDescriptor) Method(name, descriptor string) (Method, bool) {
	return findMethod(t.Methods, name, descriptor)
}

// Constructor returns the constructor with the given descriptor.
func (t *TypeDescriptor) Constructor(descriptor string) (Method, bool) {
	for _, m := range t.Constructors {
		if m.Descriptor == descriptor {
			return m, true
		}
	}
	return Method{}, false
}

func findMethod(ms []Method, name, descriptor string) (Method, bool) {
	for _, m := range ms {
		if m.Name == name && m.Descriptor == descriptor {
			return m, true
		}
	}
	return Method{}, false
}

// PackageOf returns everything before the last dot of a qualified name.
func PackageOf(typeName string) string {
	if i := strings.LastIndexByte(typeName, '.'); i >= 0 {
		return typeName[:i]
	}
	return ""
}
