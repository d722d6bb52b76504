package delta

import (
	"fmt"
	"strings"
)

// Flag is the specific reason for a change.
type Flag int

const (
	FlagNone Flag = iota

	// baseline and component level
	APIComponent
	MajorVersion
	MinorVersion
	ExecutionEnvironment
	Type
	APIType
	ReexportedType
	ReexportedAPIType
	TypeVisibility

	// type level
	AbstractToNonAbstract
	NonAbstractToAbstract
	FinalToNonFinal
	NonFinalToFinal
	StaticToNonStatic
	NonStaticToStatic
	DecreaseAccess
	IncreaseAccess
	TypeConversion
	Restrictions
	Superclass
	ContractedSuperclassSet
	ExpandedSuperclassSet
	ContractedSuperinterfacesSet
	ExpandedSuperinterfacesSet
	SuperInterfaceWithMethods
	TypeMember
	TypeParameter
	TypeParameters
	Field
	APIField
	FieldMovedUp
	Method
	APIMethod
	MethodMovedUp
	MethodMovedDown
	MethodWithDefaultValue
	MethodWithoutDefaultValue
	APIMethodWithDefaultValue
	APIMethodWithoutDefaultValue
	Constructor
	APIConstructor
	EnumConstant
	APIEnumConstant
	Clinit
	OverriddenMethod

	// member level
	AnnotationDefaultValue
	CheckedException
	UncheckedException
	ArrayToVarargs
	VarargsToArray
	NativeToNonNative
	NonNativeToNative
	SynchronizedToNonSynchronized
	NonSynchronizedToSynchronized
	FinalToNonFinalNonStatic
	FinalToNonFinalStaticConstant
	FinalToNonFinalStaticNonConstant
	TransientToNonTransient
	NonTransientToTransient
	VolatileToNonVolatile
	NonVolatileToVolatile
	Value
	TypeArgument
	TypeArguments

	// type parameter level
	TypeParameterName
	ClassBound
	InterfaceBound
	InterfaceBounds

	flagCount
)

type flagInfo struct {
	name     string
	template string
}

// Templates use {n} placeholders for message arguments.
var flagTable = [flagCount]flagInfo{
	FlagNone:                         {"NONE", ""},
	APIComponent:                     {"API_COMPONENT", "component {0}"},
	MajorVersion:                     {"MAJOR_VERSION", "major version of {0} ({1} to {2})"},
	MinorVersion:                     {"MINOR_VERSION", "minor version of {0} ({1} to {2})"},
	ExecutionEnvironment:             {"EXECUTION_ENVIRONMENT", "execution environment {1} of {0}"},
	Type:                             {"TYPE", "type {0}"},
	APIType:                          {"API_TYPE", "API type {0}"},
	ReexportedType:                   {"REEXPORTED_TYPE", "type {0} re-exported from {1}"},
	ReexportedAPIType:                {"REEXPORTED_API_TYPE", "API type {0} re-exported from {1}"},
	TypeVisibility:                   {"TYPE_VISIBILITY", "visibility of type {0}"},
	AbstractToNonAbstract:            {"ABSTRACT_TO_NON_ABSTRACT", "{0} from abstract to non-abstract"},
	NonAbstractToAbstract:            {"NON_ABSTRACT_TO_ABSTRACT", "{0} from non-abstract to abstract"},
	FinalToNonFinal:                  {"FINAL_TO_NON_FINAL", "{0} from final to non-final"},
	NonFinalToFinal:                  {"NON_FINAL_TO_FINAL", "{0} from non-final to final"},
	StaticToNonStatic:                {"STATIC_TO_NON_STATIC", "{0} from static to non-static"},
	NonStaticToStatic:                {"NON_STATIC_TO_STATIC", "{0} from non-static to static"},
	DecreaseAccess:                   {"DECREASE_ACCESS", "decreased access of {0}"},
	IncreaseAccess:                   {"INCREASE_ACCESS", "increased access of {0}"},
	TypeConversion:                   {"TYPE_CONVERSION", "{0} converted from {1} to {2}"},
	Restrictions:                     {"RESTRICTIONS", "restrictions of {0}"},
	Superclass:                       {"SUPERCLASS", "superclass of {0}"},
	ContractedSuperclassSet:          {"CONTRACTED_SUPERCLASS_SET", "superclass set of {0} contracted"},
	ExpandedSuperclassSet:            {"EXPANDED_SUPERCLASS_SET", "superclass set of {0} expanded"},
	ContractedSuperinterfacesSet:     {"CONTRACTED_SUPERINTERFACES_SET", "superinterfaces of {0} contracted ({1})"},
	ExpandedSuperinterfacesSet:       {"EXPANDED_SUPERINTERFACES_SET", "superinterfaces of {0} expanded ({1})"},
	SuperInterfaceWithMethods:        {"SUPER_INTERFACE_WITH_METHODS", "superinterface {1} with methods on {0}"},
	TypeMember:                       {"TYPE_MEMBER", "member type {1} in {0}"},
	TypeParameter:                    {"TYPE_PARAMETER", "type parameter {1} of {0}"},
	TypeParameters:                   {"TYPE_PARAMETERS", "type parameters of {0}"},
	Field:                            {"FIELD", "field {1} in {0}"},
	APIField:                         {"API_FIELD", "API field {1} in {0}"},
	FieldMovedUp:                     {"FIELD_MOVED_UP", "field {1} moved up from {0}"},
	Method:                           {"METHOD", "method {1} in {0}"},
	APIMethod:                        {"API_METHOD", "API method {1} in {0}"},
	MethodMovedUp:                    {"METHOD_MOVED_UP", "method {1} moved up from {0}"},
	MethodMovedDown:                  {"METHOD_MOVED_DOWN", "method {1} moved down into {0}"},
	MethodWithDefaultValue:           {"METHOD_WITH_DEFAULT_VALUE", "method {1} with default value in {0}"},
	MethodWithoutDefaultValue:        {"METHOD_WITHOUT_DEFAULT_VALUE", "method {1} without default value in {0}"},
	APIMethodWithDefaultValue:        {"API_METHOD_WITH_DEFAULT_VALUE", "API method {1} with default value in {0}"},
	APIMethodWithoutDefaultValue:     {"API_METHOD_WITHOUT_DEFAULT_VALUE", "API method {1} without default value in {0}"},
	Constructor:                      {"CONSTRUCTOR", "constructor {1} in {0}"},
	APIConstructor:                   {"API_CONSTRUCTOR", "API constructor {1} in {0}"},
	EnumConstant:                     {"ENUM_CONSTANT", "enum constant {1} in {0}"},
	APIEnumConstant:                  {"API_ENUM_CONSTANT", "API enum constant {1} in {0}"},
	Clinit:                           {"CLINIT", "static initializer of {0}"},
	OverriddenMethod:                 {"OVERRIDDEN_METHOD", "overridden method {1} in {0}"},
	AnnotationDefaultValue:           {"ANNOTATION_DEFAULT_VALUE", "default value of {1} in {0}"},
	CheckedException:                 {"CHECKED_EXCEPTION", "checked exception {2} on {1}"},
	UncheckedException:               {"UNCHECKED_EXCEPTION", "unchecked exception {2} on {1}"},
	ArrayToVarargs:                   {"ARRAY_TO_VARARGS", "{1} from array to varargs"},
	VarargsToArray:                   {"VARARGS_TO_ARRAY", "{1} from varargs to array"},
	NativeToNonNative:                {"NATIVE_TO_NON_NATIVE", "{1} from native to non-native"},
	NonNativeToNative:                {"NON_NATIVE_TO_NATIVE", "{1} from non-native to native"},
	SynchronizedToNonSynchronized:    {"SYNCHRONIZED_TO_NON_SYNCHRONIZED", "{1} from synchronized to non-synchronized"},
	NonSynchronizedToSynchronized:    {"NON_SYNCHRONIZED_TO_SYNCHRONIZED", "{1} from non-synchronized to synchronized"},
	FinalToNonFinalNonStatic:         {"FINAL_TO_NON_FINAL_NON_STATIC", "{1} from final to non-final"},
	FinalToNonFinalStaticConstant:    {"FINAL_TO_NON_FINAL_STATIC_CONSTANT", "constant {1} from final to non-final"},
	FinalToNonFinalStaticNonConstant: {"FINAL_TO_NON_FINAL_STATIC_NON_CONSTANT", "static {1} from final to non-final"},
	TransientToNonTransient:          {"TRANSIENT_TO_NON_TRANSIENT", "{1} from transient to non-transient"},
	NonTransientToTransient:          {"NON_TRANSIENT_TO_TRANSIENT", "{1} from non-transient to transient"},
	VolatileToNonVolatile:            {"VOLATILE_TO_NON_VOLATILE", "{1} from volatile to non-volatile"},
	NonVolatileToVolatile:            {"NON_VOLATILE_TO_VOLATILE", "{1} from non-volatile to volatile"},
	Value:                            {"VALUE", "value of {1} in {0}"},
	TypeArgument:                     {"TYPE_ARGUMENT", "type argument of {1}"},
	TypeArguments:                    {"TYPE_ARGUMENTS", "type arguments of {1}"},
	TypeParameterName:                {"TYPE_PARAMETER_NAME", "type parameter name {1} in {0}"},
	ClassBound:                       {"CLASS_BOUND", "class bound of {1} in {0}"},
	InterfaceBound:                   {"INTERFACE_BOUND", "interface bound of {1} in {0}"},
	InterfaceBounds:                  {"INTERFACE_BOUNDS", "interface bounds of {1} in {0}"},
}

func (f Flag) String() string {
	if f < 0 || f >= flagCount {
		return fmt.Sprintf("FLAG(%d)", int(f))
	}
	return flagTable[f].name
}

// MarshalText implements encoding.TextMarshaler.
func (f Flag) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// ParseFlag returns the flag with the given name.
func ParseFlag(name string) (Flag, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for f := FlagNone; f < flagCount; f++ {
		if flagTable[f].name == name {
			return f, true
		}
	}
	return FlagNone, false
}

// Flags lists every defined flag except FlagNone.
func Flags() []Flag {
	out := make([]Flag, 0, flagCount-1)
	for f := FlagNone + 1; f < flagCount; f++ {
		out = append(out, f)
	}
	return out
}

// render fills {n} placeholders with args; missing arguments render as "?".
func render(f Flag, args []string) string {
	if f < 0 || f >= flagCount {
		return strings.Join(args, " ")
	}
	tmpl := flagTable[f].template
	if tmpl == "" {
		return strings.Join(args, " ")
	}
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c == '{' {
			end := strings.IndexByte(tmpl[i:], '}')
			if end > 1 {
				var n int
				if _, err := fmt.Sscanf(tmpl[i+1:i+end], "%d", &n); err == nil {
					if n < len(args) {
						b.WriteString(args[n])
					} else {
						b.WriteByte('?')
					}
					i += end
					continue
				}
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
