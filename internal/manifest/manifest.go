// Package manifest reads baseline manifests: declarative descriptions of the
// components, types and API annotations of one baseline.
//
// Manifests may be written as YAML, TOML or JSON. All three decode into the
// same Document, which Build turns into a baseline.Baseline.
package manifest

// Document is the top-level manifest.
type Document struct {
	Name       string      `yaml:"name" toml:"name" json:"name"`
	Components []Component `yaml:"components" toml:"components" json:"components"`
}

// Component describes one component of the baseline.
type Component struct {
	ID                    string        `yaml:"id" toml:"id" json:"id"`
	Version               string        `yaml:"version" toml:"version" json:"version"`
	System                bool          `yaml:"system" toml:"system" json:"system"`
	Source                bool          `yaml:"source" toml:"source" json:"source"`
	UnscopedContainers    bool          `yaml:"unscopedContainers" toml:"unscopedContainers" json:"unscopedContainers"`
	ExecutionEnvironments []string      `yaml:"executionEnvironments" toml:"executionEnvironments" json:"executionEnvironments"`
	Requires              []Requirement `yaml:"requires" toml:"requires" json:"requires"`
	API                   *APISection   `yaml:"api" toml:"api" json:"api"`
	Containers            []Container   `yaml:"containers" toml:"containers" json:"containers"`
}

// Requirement is a required component.
type Requirement struct {
	ID       string `yaml:"id" toml:"id" json:"id"`
	Range    string `yaml:"range" toml:"range" json:"range"`
	Exported bool   `yaml:"exported" toml:"exported" json:"exported"`
}

// APISection is the API description of a component. Without it every type
// is API; with it, types without an entry use Default.
type APISection struct {
	Default  *Annotation  `yaml:"default" toml:"default" json:"default"`
	Elements []Annotation `yaml:"elements" toml:"elements" json:"elements"`
}

// Annotation attaches visibility and restrictions to a type or member.
// Member is a field name or a method name followed by its descriptor.
type Annotation struct {
	Type         string   `yaml:"type" toml:"type" json:"type"`
	Member       string   `yaml:"member" toml:"member" json:"member"`
	Visibility   string   `yaml:"visibility" toml:"visibility" json:"visibility"`
	Restrictions []string `yaml:"restrictions" toml:"restrictions" json:"restrictions"`
}

// Container groups types contributed by one origin. An empty origin is the
// component itself.
type Container struct {
	Origin string `yaml:"origin" toml:"origin" json:"origin"`
	Types  []Type `yaml:"types" toml:"types" json:"types"`
}

// Type is one type declaration.
type Type struct {
	Name           string          `yaml:"name" toml:"name" json:"name"`
	Modifiers      []string        `yaml:"modifiers" toml:"modifiers" json:"modifiers"`
	Superclass     string          `yaml:"superclass" toml:"superclass" json:"superclass"`
	Interfaces     []string        `yaml:"interfaces" toml:"interfaces" json:"interfaces"`
	TypeParameters []TypeParameter `yaml:"typeParameters" toml:"typeParameters" json:"typeParameters"`
	Fields         []Field         `yaml:"fields" toml:"fields" json:"fields"`
	Methods        []Method        `yaml:"methods" toml:"methods" json:"methods"`
	Constructors   []Method        `yaml:"constructors" toml:"constructors" json:"constructors"`
	EnumConstants  []string        `yaml:"enumConstants" toml:"enumConstants" json:"enumConstants"`
	MemberTypes    []string        `yaml:"memberTypes" toml:"memberTypes" json:"memberTypes"`
	Clinit         bool            `yaml:"clinit" toml:"clinit" json:"clinit"`
	MemberType     bool            `yaml:"memberType" toml:"memberType" json:"memberType"`
	Local          bool            `yaml:"local" toml:"local" json:"local"`
	Anonymous      bool            `yaml:"anonymous" toml:"anonymous" json:"anonymous"`

	// Unreadable marks a type whose structure cannot be read; the value is
	// the reported cause.
	Unreadable string `yaml:"unreadable" toml:"unreadable" json:"unreadable"`
}

// TypeParameter is a generic parameter.
type TypeParameter struct {
	Name            string   `yaml:"name" toml:"name" json:"name"`
	ClassBound      string   `yaml:"classBound" toml:"classBound" json:"classBound"`
	InterfaceBounds []string `yaml:"interfaceBounds" toml:"interfaceBounds" json:"interfaceBounds"`
}

// Field is a field declaration. Value is set for constants only.
type Field struct {
	Name          string   `yaml:"name" toml:"name" json:"name"`
	Type          string   `yaml:"type" toml:"type" json:"type"`
	Modifiers     []string `yaml:"modifiers" toml:"modifiers" json:"modifiers"`
	Value         *string  `yaml:"value" toml:"value" json:"value"`
	TypeArguments []string `yaml:"typeArguments" toml:"typeArguments" json:"typeArguments"`
}

// Method is a method or constructor declaration.
type Method struct {
	Name           string          `yaml:"name" toml:"name" json:"name"`
	Descriptor     string          `yaml:"descriptor" toml:"descriptor" json:"descriptor"`
	Modifiers      []string        `yaml:"modifiers" toml:"modifiers" json:"modifiers"`
	Exceptions     []Exception     `yaml:"exceptions" toml:"exceptions" json:"exceptions"`
	TypeParameters []TypeParameter `yaml:"typeParameters" toml:"typeParameters" json:"typeParameters"`
	DefaultValue   *string         `yaml:"defaultValue" toml:"defaultValue" json:"defaultValue"`
}

// Exception is a declared thrown type.
type Exception struct {
	Type      string `yaml:"type" toml:"type" json:"type"`
	Unchecked bool   `yaml:"unchecked" toml:"unchecked" json:"unchecked"`
}
