// Package extractor turns a parsed tree into raw records: untyped,
// per-kind intermediate values the post-processor later assembles into
// the typed element tree (spec.md §4.B). Raw records are produced in
// depth-first source order within each kind.
//
// Grounded on providers/python/config.go, providers/typescript/config.go
// (MapQueryTypeToNodeTypes / ExtractNodeName / ExpandMatches) and on
// original_source/codehem/languages/lang_python/components/extractor.py
// and lang_typescript/components/extractor.py for the per-kind rules.
package extractor

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/navigator"
)

// RawRecord is the untyped intermediate described by spec.md §4.B: "a
// plain, typed key/value bag" with at minimum kind/name/content/range.
type RawRecord struct {
	Kind       element.Kind
	Name       string
	Content    string
	Range      element.Range
	HasRange   bool
	ParentName string
	HasParent  bool
	ValueType  string
	Attributes element.Attributes

	// Parameters and ReturnType/ReturnValues carry a function or method
	// record's signature, captured alongside it so the post-processor can
	// synthesize parameter and return_annotation children (spec.md
	// §4.C.i, §4.C.ii). They are meaningless on every other kind.
	Parameters   []ParameterInfo
	ReturnType   string
	ReturnValues []string
}

// ParameterInfo describes one declared parameter of a function or method
// RawRecord, following spec.md §4.C.i: "name, optional value_type, and
// attributes = { optional: bool, default: string? }".
type ParameterInfo struct {
	Name      string
	ValueType string
	Default   string
	Optional  bool
}

// Valid reports whether the record carries the minimum required fields
// (spec.md §7 MalformedRecord). A record with an empty Kind, or a
// non-zero Range failing the line-ordering invariant, is malformed.
func (r RawRecord) Valid() bool {
	if r.Kind == "" {
		return false
	}
	if r.HasRange && !r.Range.Valid() {
		return false
	}
	return true
}

// Bundle groups every raw-record kind produced by one extraction pass,
// in the fixed order spec.md §4.B mandates: imports, functions, classes,
// methods/members, properties, static fields, decorators, then language
// extras (interfaces, enums, type aliases, namespaces).
type Bundle struct {
	Imports        []RawRecord
	Functions      []RawRecord
	Classes        []RawRecord
	Members        []RawRecord
	PropertyFields []RawRecord
	StaticFields   []RawRecord
	Decorators     []RawRecord
	Interfaces     []RawRecord
	Enums          []RawRecord
	TypeAliases    []RawRecord
	Namespaces     []RawRecord
}

// Extractor is the per-language contract: one method per element kind,
// each returning raw records in depth-first source order. Languages that
// don't have a given construct (e.g. Python has no `interface`) return
// (nil, nil).
type Extractor interface {
	Language() string

	Imports(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	Functions(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	Classes(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	Members(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	PropertyFields(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	StaticFields(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	Decorators(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	Interfaces(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	Enums(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	TypeAliases(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
	Namespaces(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]RawRecord, error)
}

// ExtractAll runs e's kind-specific methods in the fixed order and
// collects their results into a Bundle. A single method's error does not
// abort the pass; it is recorded as a nil slice for that kind, matching
// the orchestrator's "drop the offending record, keep going" policy from
// spec.md §4.C.vi applied one level up.
func ExtractAll(ctx context.Context, e Extractor, nav *navigator.Navigator, root *sitter.Node, source []byte) Bundle {
	run := func(fn func(context.Context, *navigator.Navigator, *sitter.Node, []byte) ([]RawRecord, error)) []RawRecord {
		recs, err := fn(ctx, nav, root, source)
		if err != nil {
			return nil
		}
		return recs
	}

	return Bundle{
		Imports:        run(e.Imports),
		Functions:      run(e.Functions),
		Classes:        run(e.Classes),
		Members:        run(e.Members),
		PropertyFields: run(e.PropertyFields),
		StaticFields:   run(e.StaticFields),
		Decorators:     run(e.Decorators),
		Interfaces:     run(e.Interfaces),
		Enums:          run(e.Enums),
		TypeAliases:    run(e.TypeAliases),
		Namespaces:     run(e.Namespaces),
	}
}

// LocateSpec describes how to find one element kind by a direct
// node-type/field walk, bypassing full Bundle extraction and
// post-processing. NodeTypes lists the tree-sitter node types that can
// hold this kind; NameField is the field holding the identifier to
// compare against the requested name. When ClassNodeTypes is non-empty,
// a match must additionally be a descendant of one of those node types,
// whose own NameField value is compared against the requested parent
// name.
type LocateSpec struct {
	NodeTypes      []string
	NameField      string
	ClassNodeTypes []string

	// ExcludeInside, when non-empty, rejects a candidate node that has
	// an ancestor of one of these node types (e.g. a module-level
	// function query must reject one nested inside a class body, which
	// Members already covers).
	ExcludeInside []string
}

// Locator is implemented by an Extractor whose element kinds can be
// found by LocateSpec's direct walk, i.e. kinds that never require
// post-processing-derived classification (decorator-based
// property_getter/setter, the member-assembly state machine). Kinds
// LocateSpec doesn't report ok for fall back to full extraction.
type Locator interface {
	LocateSpec(kind element.Kind) (LocateSpec, bool)
}

// InferLiteralType implements spec.md §4.B's fixed static-field type
// inference table, grounded on
// original_source/codehem/languages/lang_python/components/post_processor.py's
// equivalent literal-sniffing helper.
func InferLiteralType(valueText string) string {
	s := trimSpace(valueText)
	if s == "" {
		return ""
	}
	switch {
	case s == "true" || s == "false" || s == "True" || s == "False":
		return "bool"
	case s == "null" || s == "None" || s == "nil" || s == "undefined":
		return "null"
	case len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`'):
		return "string"
	case len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']':
		return "list"
	case len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && containsByte(s, ','):
		return "tuple"
	case len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' && containsByte(s, ':'):
		return "map"
	case len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}':
		return "set"
	case isFloatLiteral(s):
		return "float"
	case isIntLiteral(s):
		return "int"
	}
	return ""
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t' || s[j-1] == '\n' || s[j-1] == '\r') {
		j--
	}
	return s[i:j]
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

func isIntLiteral(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		start = 1
	}
	if start == len(s) {
		return false
	}
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isFloatLiteral(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		start = 1
	}
	seenDot := false
	seenDigit := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.' && !seenDot:
			seenDot = true
		case c >= '0' && c <= '9':
			seenDigit = true
		default:
			return false
		}
	}
	return seenDot && seenDigit
}
