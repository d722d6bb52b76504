package compat

import (
	"fmt"

	"apidelta/internal/delta"
	"apidelta/internal/modifiers"
)

// Rule is one entry of the classification table.
type Rule struct {
	Element     delta.ElementType
	Kind        delta.Kind
	Flag        delta.Flag
	Description string
	check       predicate
}

// Compatible evaluates the rule.
func (r Rule) Compatible(f Facts) bool { return r.check(f) }

func (r Rule) String() string {
	return fmt.Sprintf("%s %s %s", r.Element, r.Kind, r.Flag)
}

type ruleKey struct {
	elem delta.ElementType
	kind delta.Kind
	flag delta.Flag
}

// typeRules apply to every type element: class, interface, annotation and
// enum. Branch tables add or override entries per element.
var typeRules = []Rule{
	{Kind: delta.Removed, Flag: delta.Field, Description: "visible field removed", check: memberRemoved},
	{Kind: delta.Removed, Flag: delta.APIField, Description: "field no longer API", check: apiMemberRemoved},
	{Kind: delta.Removed, Flag: delta.Method, Description: "visible method removed", check: memberRemoved},
	{Kind: delta.Removed, Flag: delta.APIMethod, Description: "method no longer API", check: apiMemberRemoved},
	{Kind: delta.Removed, Flag: delta.FieldMovedUp, Description: "field now inherited", check: always},
	{Kind: delta.Removed, Flag: delta.MethodMovedUp, Description: "method now inherited", check: always},
	{Kind: delta.Removed, Flag: delta.TypeMember, Description: "visible member type removed", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.TypeParameter, Description: "type parameter removed", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.Clinit, Description: "static initializer removed", check: always},
	{Kind: delta.Added, Flag: delta.TypeParameter, Description: "type parameter added to a generic type", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.TypeParameters, Description: "type made generic", check: always},
	{Kind: delta.Added, Flag: delta.Field, Description: "field added", check: always},
	{Kind: delta.Added, Flag: delta.TypeMember, Description: "member type added", check: always},
	{Kind: delta.Added, Flag: delta.Clinit, Description: "static initializer added", check: always},
	{Kind: delta.Changed, Flag: delta.ContractedSuperinterfacesSet, Description: "superinterface dropped", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.ExpandedSuperinterfacesSet, Description: "superinterface added", check: always},
	{Kind: delta.Changed, Flag: delta.TypeConversion, Description: "type kind converted", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.DecreaseAccess, Description: "type access narrowed", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.IncreaseAccess, Description: "type access widened", check: always},
	{Kind: delta.Changed, Flag: delta.NonStaticToStatic, Description: "member type made static", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.StaticToNonStatic, Description: "member type made non-static", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.Restrictions, Description: "restrictions tightened", check: restrictionsWidened},
}

var classRules = []Rule{
	{Kind: delta.Removed, Flag: delta.Constructor, Description: "visible constructor removed", check: constructorRemoved},
	{Kind: delta.Removed, Flag: delta.APIConstructor, Description: "constructor no longer API", check: apiMemberRemoved},
	{Kind: delta.Removed, Flag: delta.Superclass, Description: "superclass removed", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.Method, Description: "abstract method added to an extendable class", check: abstractMethodAdded},
	{Kind: delta.Added, Flag: delta.Constructor, Description: "constructor added", check: always},
	{Kind: delta.Added, Flag: delta.OverriddenMethod, Description: "inherited method overridden", check: always},
	{Kind: delta.Added, Flag: delta.MethodMovedDown, Description: "method moved down from a supertype", check: always},
	{Kind: delta.Added, Flag: delta.Superclass, Description: "superclass added", check: always},
	{Kind: delta.Changed, Flag: delta.ContractedSuperclassSet, Description: "superclass chain contracted", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.ExpandedSuperclassSet, Description: "superclass chain expanded", check: always},
	{Kind: delta.Changed, Flag: delta.NonAbstractToAbstract, Description: "class made abstract", check: unlessRestricted(modifiers.NoInstantiate)},
	{Kind: delta.Changed, Flag: delta.AbstractToNonAbstract, Description: "class made concrete", check: always},
	{Kind: delta.Changed, Flag: delta.NonFinalToFinal, Description: "class or method made final", check: becameFinal},
	{Kind: delta.Changed, Flag: delta.FinalToNonFinal, Description: "class made non-final", check: always},
}

var interfaceRules = []Rule{
	{Kind: delta.Added, Flag: delta.Method, Description: "method added to an implementable interface", check: addedUnless(modifiers.NoImplement)},
	{Kind: delta.Added, Flag: delta.SuperInterfaceWithMethods, Description: "superinterface with methods added", check: addedUnless(modifiers.NoImplement)},
	{Kind: delta.Added, Flag: delta.Field, Description: "field added to an implementable interface", check: addedUnless(modifiers.NoImplement)},
	{Kind: delta.Added, Flag: delta.MethodMovedDown, Description: "method moved down from a superinterface", check: always},
	{Kind: delta.Added, Flag: delta.OverriddenMethod, Description: "inherited method redeclared", check: always},
	{Kind: delta.Changed, Flag: delta.NonFinalToFinal, Description: "method made final", check: becameFinal},
}

var annotationRules = []Rule{
	{Kind: delta.Added, Flag: delta.MethodWithoutDefaultValue, Description: "annotation element without default added", check: addedUnless(modifiers.NoImplement)},
	{Kind: delta.Added, Flag: delta.Field, Description: "field added to an implementable annotation", check: addedUnless(modifiers.NoImplement)},
	{Kind: delta.Added, Flag: delta.MethodWithDefaultValue, Description: "annotation element with default added", check: always},
	{Kind: delta.Removed, Flag: delta.MethodWithDefaultValue, Description: "annotation element removed", check: memberRemoved},
	{Kind: delta.Removed, Flag: delta.MethodWithoutDefaultValue, Description: "annotation element removed", check: memberRemoved},
	{Kind: delta.Removed, Flag: delta.APIMethodWithDefaultValue, Description: "annotation element no longer API", check: apiMemberRemoved},
	{Kind: delta.Removed, Flag: delta.APIMethodWithoutDefaultValue, Description: "annotation element no longer API", check: apiMemberRemoved},
}

var enumRules = []Rule{
	{Kind: delta.Removed, Flag: delta.EnumConstant, Description: "enum constant removed", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.APIEnumConstant, Description: "enum constant no longer API", check: never},
	{Kind: delta.Removed, Flag: delta.Constructor, Description: "enum constructor removed", check: always},
	{Kind: delta.Added, Flag: delta.EnumConstant, Description: "enum constant added", check: always},
	{Kind: delta.Added, Flag: delta.Method, Description: "method added", check: always},
}

var memberRules = []Rule{
	{Kind: delta.Added, Flag: delta.TypeParameter, Description: "type parameter added to a generic method", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.TypeParameters, Description: "method made generic", check: always},
	{Kind: delta.Removed, Flag: delta.TypeParameter, Description: "method type parameter removed", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.CheckedException, Description: "checked exception added", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.CheckedException, Description: "checked exception removed", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.UncheckedException, Description: "unchecked exception added", check: always},
	{Kind: delta.Removed, Flag: delta.UncheckedException, Description: "unchecked exception removed", check: always},
	{Kind: delta.Changed, Flag: delta.DecreaseAccess, Description: "member access narrowed", check: accessDecreased},
	{Kind: delta.Changed, Flag: delta.IncreaseAccess, Description: "member access widened", check: always},
	{Kind: delta.Changed, Flag: delta.VarargsToArray, Description: "varargs parameter made an array", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.ArrayToVarargs, Description: "array parameter made varargs", check: always},
}

var methodRules = []Rule{
	{Kind: delta.Changed, Flag: delta.NonAbstractToAbstract, Description: "method made abstract", check: unlessRestricted(modifiers.NoExtend)},
	{Kind: delta.Changed, Flag: delta.AbstractToNonAbstract, Description: "method made concrete", check: always},
	{Kind: delta.Changed, Flag: delta.NonFinalToFinal, Description: "method made final", check: becameFinal},
	{Kind: delta.Changed, Flag: delta.FinalToNonFinal, Description: "method made non-final", check: always},
	{Kind: delta.Changed, Flag: delta.NonStaticToStatic, Description: "method made static", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.StaticToNonStatic, Description: "method made non-static", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.NativeToNonNative, Description: "native modifier dropped", check: always},
	{Kind: delta.Changed, Flag: delta.NonNativeToNative, Description: "native modifier added", check: always},
	{Kind: delta.Changed, Flag: delta.SynchronizedToNonSynchronized, Description: "synchronized modifier dropped", check: always},
	{Kind: delta.Changed, Flag: delta.NonSynchronizedToSynchronized, Description: "synchronized modifier added", check: always},
	{Kind: delta.Added, Flag: delta.AnnotationDefaultValue, Description: "default value added", check: always},
	{Kind: delta.Removed, Flag: delta.AnnotationDefaultValue, Description: "default value removed", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.AnnotationDefaultValue, Description: "default value changed", check: always},
}

var fieldRules = []Rule{
	{Kind: delta.Changed, Flag: delta.Type, Description: "field type changed", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.Value, Description: "constant value changed", check: unlessRestricted(modifiers.NoExtend)},
	{Kind: delta.Removed, Flag: delta.Value, Description: "field no longer a constant", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.Value, Description: "field made a constant", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.DecreaseAccess, Description: "field access narrowed", check: accessDecreased},
	{Kind: delta.Changed, Flag: delta.IncreaseAccess, Description: "field access widened", check: always},
	{Kind: delta.Changed, Flag: delta.NonFinalToFinal, Description: "field made final", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.FinalToNonFinalNonStatic, Description: "instance field made non-final", check: always},
	{Kind: delta.Changed, Flag: delta.FinalToNonFinalStaticNonConstant, Description: "static field made non-final", check: always},
	{Kind: delta.Changed, Flag: delta.FinalToNonFinalStaticConstant, Description: "constant made non-final", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.NonStaticToStatic, Description: "field made static", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.StaticToNonStatic, Description: "field made non-static", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.TransientToNonTransient, Description: "transient modifier dropped", check: always},
	{Kind: delta.Changed, Flag: delta.NonTransientToTransient, Description: "transient modifier added", check: always},
	{Kind: delta.Changed, Flag: delta.VolatileToNonVolatile, Description: "volatile modifier dropped", check: always},
	{Kind: delta.Changed, Flag: delta.NonVolatileToVolatile, Description: "volatile modifier added", check: always},
	{Kind: delta.Changed, Flag: delta.TypeArgument, Description: "type argument changed", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.TypeArgument, Description: "type argument removed", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.TypeArgument, Description: "type argument added", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.TypeArguments, Description: "raw field type parameterized", check: always},
}

var typeParameterRules = []Rule{
	{Kind: delta.Added, Flag: delta.ClassBound, Description: "class bound added", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.ClassBound, Description: "class bound removed", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.ClassBound, Description: "class bound changed", check: unlessHidden},
	{Kind: delta.Added, Flag: delta.InterfaceBound, Description: "interface bound added", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.InterfaceBound, Description: "interface bound removed", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.InterfaceBound, Description: "interface bound changed", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.InterfaceBounds, Description: "interface bounds changed", check: unlessHidden},
	{Kind: delta.Changed, Flag: delta.TypeParameterName, Description: "type parameter renamed", check: always},
}

var baselineRules = []Rule{
	{Kind: delta.Removed, Flag: delta.APIComponent, Description: "component removed", check: never},
	{Kind: delta.Added, Flag: delta.APIComponent, Description: "component added", check: always},
}

var componentRules = []Rule{
	{Kind: delta.Removed, Flag: delta.Type, Description: "visible type removed", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.APIType, Description: "type no longer API", check: never},
	{Kind: delta.Removed, Flag: delta.ReexportedType, Description: "re-exported type no longer reachable", check: unlessHidden},
	{Kind: delta.Removed, Flag: delta.ReexportedAPIType, Description: "re-exported type no longer API", check: never},
	{Kind: delta.Changed, Flag: delta.TypeVisibility, Description: "type visibility changed", check: always},
	{Kind: delta.Added, Flag: delta.Type, Description: "type added", check: always},
	{Kind: delta.Added, Flag: delta.ReexportedType, Description: "type re-exported", check: always},
	{Kind: delta.Added, Flag: delta.ExecutionEnvironment, Description: "execution environment added", check: always},
	{Kind: delta.Removed, Flag: delta.ExecutionEnvironment, Description: "execution environment removed", check: always},
	{Kind: delta.Changed, Flag: delta.MajorVersion, Description: "major version changed", check: always},
	{Kind: delta.Changed, Flag: delta.MinorVersion, Description: "minor version changed", check: always},
}

// referenceOnly elements are compatible whenever the leaf carries the
// no-reference restriction.
var referenceOnly = map[delta.ElementType]bool{
	delta.ElementMethod:      true,
	delta.ElementConstructor: true,
	delta.ElementField:       true,
}

var (
	table []Rule
	byKey map[ruleKey]Rule
)

func init() {
	byKey = make(map[ruleKey]Rule)
	register := func(elem delta.ElementType, sets ...[]Rule) {
		for _, set := range sets {
			for _, r := range set {
				r.Element = elem
				k := ruleKey{elem, r.Kind, r.Flag}
				if _, dup := byKey[k]; dup {
					for i := range table {
						if table[i].Element == elem && table[i].Kind == r.Kind && table[i].Flag == r.Flag {
							table[i] = r
						}
					}
				} else {
					table = append(table, r)
				}
				byKey[k] = r
			}
		}
	}
	register(delta.ElementBaseline, baselineRules)
	register(delta.ElementComponent, componentRules)
	register(delta.ElementClass, typeRules, classRules)
	register(delta.ElementInterface, typeRules, interfaceRules)
	register(delta.ElementAnnotation, typeRules, annotationRules)
	register(delta.ElementEnum, typeRules, enumRules)
	register(delta.ElementMethod, memberRules, methodRules)
	register(delta.ElementConstructor, memberRules)
	register(delta.ElementField, fieldRules)
	register(delta.ElementTypeParameter, typeParameterRules)
}

// Rules returns the classification table in registration order.
func Rules() []Rule {
	return append([]Rule(nil), table...)
}

// Lookup returns the rule for a leaf shape.
func Lookup(elem delta.ElementType, kind delta.Kind, flag delta.Flag) (Rule, bool) {
	r, ok := byKey[ruleKey{elem, kind, flag}]
	return r, ok
}
