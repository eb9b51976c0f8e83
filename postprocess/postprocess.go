// Package postprocess assembles raw records from the extractor into the
// typed Element tree, attaching decorators, synthesizing parameter and
// import_group elements, and enforcing the tree invariants of spec.md §3.
//
// Grounded on
// original_source/codehem/languages/lang_python/components/post_processor.py
// and lang_typescript/components/post_processor.py, generalized into a
// shared helper layer that the per-language packages compose.
package postprocess

import (
	"strings"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/extractor"
)

// DecoratorKey identifies a decorator for deduplication, mirroring
// _process_decorators's (name, start_line) dedup check.
type DecoratorKey struct {
	Name      string
	StartLine int
}

// BuildImportGroup combines raw import records into the single
// import_group element spec.md §3 requires per file, sorted by source
// line and spanning the first record's start to the last record's end
// (process_imports's combined-range behavior).
func BuildImportGroup(records []extractor.RawRecord) *element.Element {
	valid := make([]extractor.RawRecord, 0, len(records))
	for _, r := range records {
		if r.HasRange {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sortRecordsByLine(valid)

	first, last := valid[0], valid[len(valid)-1]
	group := &element.Element{
		Kind: element.KindImportGroup,
		Name: "imports",
		Range: element.Range{
			StartLine: first.Range.StartLine,
			EndLine:   last.Range.EndLine,
		},
		HasRange: true,
	}

	contents := make([]string, 0, len(valid))
	for _, r := range valid {
		contents = append(contents, r.Content)
		item := &element.Element{
			Kind:      element.KindImportItem,
			Name:      r.Name,
			Content:   r.Content,
			Range:     r.Range,
			HasRange:  true,
			Attributes: r.Attributes,
		}
		group.Children = append(group.Children, item)
	}
	group.Content = strings.Join(contents, "\n")
	return group
}

func sortRecordsByLine(records []extractor.RawRecord) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j-1].Range.StartLine > records[j].Range.StartLine; j-- {
			records[j-1], records[j] = records[j], records[j-1]
		}
	}
}

// DecoratorLookup indexes raw decorator records by the qualified parent
// name they decorate, following _build_decorator_lookup.
type DecoratorLookup map[string][]extractor.RawRecord

// BuildDecoratorLookup groups decorators by ParentName.
func BuildDecoratorLookup(decorators []extractor.RawRecord) DecoratorLookup {
	lookup := DecoratorLookup{}
	for _, d := range decorators {
		if !d.HasParent {
			continue
		}
		lookup[d.ParentName] = append(lookup[d.ParentName], d)
	}
	return lookup
}

// AttachDecorators appends target's decorators (by qualifiedName) as
// synthesized children, deduplicating by (name, start_line) the way
// _process_decorators does.
func AttachDecorators(target *element.Element, qualifiedName string, lookup DecoratorLookup) {
	seen := map[DecoratorKey]bool{}
	for _, d := range lookup[qualifiedName] {
		key := DecoratorKey{Name: d.Name, StartLine: d.Range.StartLine}
		if seen[key] {
			continue
		}
		seen[key] = true
		target.Children = append(target.Children, &element.Element{
			Kind:       element.KindDecorator,
			Name:       d.Name,
			Content:    d.Content,
			Range:      d.Range,
			HasRange:   d.HasRange,
			ParentName: qualifiedName,
			HasParent:  true,
		})
	}
}

// ClassifyMethod promotes a plain method record's Kind to
// property_getter/property_setter based on its attached decorator names,
// mirroring _process_method_element's classification rule.
func ClassifyMethod(kind element.Kind, methodName string, decoratorNames []string) element.Kind {
	if kind != element.KindMethod {
		return kind
	}
	for _, name := range decoratorNames {
		trimmed := strings.TrimPrefix(name, "@")
		switch {
		case trimmed == "property":
			return element.KindPropertyGetter
		case trimmed == methodName+".setter":
			return element.KindPropertySetter
		}
	}
	return kind
}

// ResolveFieldKindClash implements the static_field vs property_field
// mutual-exclusion invariant (spec.md §3 invariant 5): when a class
// declares both a static field and an instance property field under the
// same name, the instance assignment wins and the static field record is
// dropped, since an instance assignment observed in the body (e.g.
// self.x = ...) is the stronger, more specific declaration.
func ResolveFieldKindClash(staticFields, propertyFields []extractor.RawRecord) []extractor.RawRecord {
	instances := map[string]bool{}
	for _, f := range propertyFields {
		instances[f.ParentName+"."+f.Name] = true
	}
	out := make([]extractor.RawRecord, 0, len(staticFields))
	for _, f := range staticFields {
		if instances[f.ParentName+"."+f.Name] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// AttachParameters synthesizes a parameter child (spec.md §4.C.i) for
// each of r's declared parameters. Parameters carry no range — range is
// present only for elements extracted directly from source (spec.md §3)
// — and are appended after target's decorators, matching the children
// ordering spec.md §3/§4.C.i require.
func AttachParameters(target *element.Element, params []extractor.ParameterInfo) {
	for _, p := range params {
		attrs := element.Attributes{"optional": p.Optional}
		if p.Default != "" {
			attrs["default"] = p.Default
		}
		target.Children = append(target.Children, &element.Element{
			Kind:       element.KindParameter,
			Name:       p.Name,
			ValueType:  p.ValueType,
			ParentName: target.Name,
			HasParent:  true,
			Attributes: attrs,
		})
	}
}

// AttachReturnAnnotation synthesizes a return_annotation child (spec.md
// §4.C.ii) when returnType is non-empty or one or more return expressions
// were observed. value_type carries the annotation; attributes.values
// carries the observed return expressions as strings.
func AttachReturnAnnotation(target *element.Element, returnType string, returnValues []string) {
	if returnType == "" && len(returnValues) == 0 {
		return
	}
	var attrs element.Attributes
	if len(returnValues) > 0 {
		attrs = element.Attributes{"values": returnValues}
	}
	target.Children = append(target.Children, &element.Element{
		Kind:       element.KindReturnAnnotation,
		ValueType:  returnType,
		ParentName: target.Name,
		HasParent:  true,
		Attributes: attrs,
	})
}

// ClassifiedMember pairs a raw member record with its already-resolved
// kind (method, property_getter, or property_setter) for AssembleMembers.
type ClassifiedMember struct {
	Record extractor.RawRecord
	Kind   element.Kind
}

type memberState int

const (
	memberStateEmpty memberState = iota
	memberStateHasGetter
	memberStateHasSetter
	memberStateHasPair
	memberStateHasMethod
)

// AssembleMembers runs the per-(class, name) property-assembly state
// machine of spec.md §4.C.v over cls's classified members in source
// order: it dedups duplicate getters/setters (warn, keep the first),
// pairs a getter with a setter into has_pair (both kept as separate
// children), drops further duplicates once paired, and on a name
// collision between a plain method and an accessor, warns and keeps
// whichever came first (an accessor arriving after a method is dropped;
// a method arriving after an accessor is dropped). This also enforces spec.md §3 invariant 3 ("at most one
// element per (kind, name) key" per parent) for members.
func AssembleMembers(members []ClassifiedMember) ([]ClassifiedMember, []element.Warning) {
	states := map[string]memberState{}
	var kept []ClassifiedMember
	var warnings []element.Warning

	for _, m := range members {
		key := m.Record.ParentName + "." + m.Record.Name
		isAccessor := m.Kind == element.KindPropertyGetter || m.Kind == element.KindPropertySetter

		switch states[key] {
		case memberStateEmpty:
			kept = append(kept, m)
			switch m.Kind {
			case element.KindPropertyGetter:
				states[key] = memberStateHasGetter
			case element.KindPropertySetter:
				states[key] = memberStateHasSetter
			default:
				states[key] = memberStateHasMethod
			}

		case memberStateHasGetter:
			switch m.Kind {
			case element.KindPropertySetter:
				kept = append(kept, m)
				states[key] = memberStateHasPair
			case element.KindPropertyGetter:
				warnings = append(warnings, element.Warning{Code: element.CodeMalformedRecord, Message: "duplicate getter for " + key + ", keeping the first"})
			default:
				warnings = append(warnings, element.Warning{Code: element.CodeKindMismatch, Message: key + " name collides with an existing accessor, keeping the accessor"})
			}

		case memberStateHasSetter:
			switch m.Kind {
			case element.KindPropertyGetter:
				kept = append(kept, m)
				states[key] = memberStateHasPair
			case element.KindPropertySetter:
				warnings = append(warnings, element.Warning{Code: element.CodeMalformedRecord, Message: "duplicate setter for " + key + ", keeping the first"})
			default:
				warnings = append(warnings, element.Warning{Code: element.CodeKindMismatch, Message: key + " name collides with an existing accessor, keeping the accessor"})
			}

		case memberStateHasPair:
			if isAccessor {
				warnings = append(warnings, element.Warning{Code: element.CodeMalformedRecord, Message: "duplicate accessor for " + key + ", dropped"})
			} else {
				warnings = append(warnings, element.Warning{Code: element.CodeKindMismatch, Message: key + " name collides with an existing accessor pair, keeping the accessors"})
			}

		case memberStateHasMethod:
			if isAccessor {
				warnings = append(warnings, element.Warning{Code: element.CodeKindMismatch, Message: key + " name collides with accessor, keeping the method"})
			} else {
				warnings = append(warnings, element.Warning{Code: element.CodeMalformedRecord, Message: "duplicate method for " + key + ", keeping the first"})
			}
		}
	}
	return kept, warnings
}

// RawRecordToElement converts a leaf raw record into an Element with no
// children, the common shape shared by functions, classes, and fields
// before any decorator attachment.
func RawRecordToElement(r extractor.RawRecord) *element.Element {
	return &element.Element{
		Kind:       r.Kind,
		Name:       r.Name,
		Content:    r.Content,
		Range:      r.Range,
		HasRange:   r.HasRange,
		ParentName: r.ParentName,
		HasParent:  r.HasParent,
		ValueType:  r.ValueType,
		Attributes: r.Attributes,
	}
}

// GroupByParent buckets raw records (methods, property fields) by their
// ParentName, preserving encounter order, for assembling class bodies.
func GroupByParent(records []extractor.RawRecord) (order []string, byParent map[string][]extractor.RawRecord) {
	byParent = map[string][]extractor.RawRecord{}
	seen := map[string]bool{}
	for _, r := range records {
		if !seen[r.ParentName] {
			seen[r.ParentName] = true
			order = append(order, r.ParentName)
		}
		byParent[r.ParentName] = append(byParent[r.ParentName], r)
	}
	return order, byParent
}
