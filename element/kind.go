// Package element defines the typed code-element tree shared by every
// language's extractor and post-processor, and by the path resolver.
package element

// Kind is the closed set of code element kinds the engine can produce.
type Kind string

const (
	KindModule            Kind = "module"
	KindClass             Kind = "class"
	KindInterface         Kind = "interface"
	KindNamespace         Kind = "namespace"
	KindEnum              Kind = "enum"
	KindEnumMember        Kind = "enum_member"
	KindTypeAlias         Kind = "type_alias"
	KindFunction          Kind = "function"
	KindMethod            Kind = "method"
	KindPropertyGetter    Kind = "property_getter"
	KindPropertySetter    Kind = "property_setter"
	KindPropertyField     Kind = "property_field"
	KindStaticField       Kind = "static_field"
	KindImportGroup       Kind = "import_group"
	KindImportItem        Kind = "import_item"
	KindDecorator         Kind = "decorator"
	KindParameter         Kind = "parameter"
	KindReturnAnnotation  Kind = "return_annotation"
	KindFile              Kind = "file"
	KindUnknown           Kind = "unknown"
)

// kinds is the membership set used by ParseKind.
var kinds = map[Kind]struct{}{
	KindModule: {}, KindClass: {}, KindInterface: {}, KindNamespace: {},
	KindEnum: {}, KindEnumMember: {}, KindTypeAlias: {}, KindFunction: {},
	KindMethod: {}, KindPropertyGetter: {}, KindPropertySetter: {},
	KindPropertyField: {}, KindStaticField: {}, KindImportGroup: {},
	KindImportItem: {}, KindDecorator: {}, KindParameter: {},
	KindReturnAnnotation: {}, KindFile: {}, KindUnknown: {},
}

// ParseKind coerces an incoming string to a known Kind, falling back to
// KindUnknown for anything outside the enumeration (spec.md §6, "callers
// should treat unknown incoming kind strings as unknown").
func ParseKind(s string) Kind {
	k := Kind(s)
	if _, ok := kinds[k]; ok {
		return k
	}
	return KindUnknown
}

// Valid reports whether k is a member of the closed enumeration.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// IsPropertyAccessor reports whether k is a getter or setter.
func (k Kind) IsPropertyAccessor() bool {
	return k == KindPropertyGetter || k == KindPropertySetter
}

// classLike is the set of container kinds that can parent a method.
var classLike = map[Kind]struct{}{KindClass: {}, KindInterface: {}}

// IsClassLike reports whether k is a class or interface.
func (k Kind) IsClassLike() bool {
	_, ok := classLike[k]
	return ok
}
