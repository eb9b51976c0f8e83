// Package pathresolver implements the dotted path language of spec.md
// §4.E over an element.ElementTree: parsing, type inference for
// unqualified segments, tie-breaking, and part selection.
//
// Grounded directly on
// original_source/codehem/core/engine/xpath_parser.py (grammar, regex
// qualifier parsing, type inference, to_string/get_element_info) and
// original_source/codehem/models/element_filter.py (kind-relaxed
// matching, tie-break preference order).
package pathresolver

import (
	"regexp"
	"strings"

	"github.com/oxhq/morfx/element"
)

// Part is the optional trailing projection a path segment can request.
type Part string

const (
	PartAll        Part = "all"
	PartDef        Part = "def"
	PartBody       Part = "body"
	PartDecorators Part = "decorators"
	PartComments   Part = "comments"
	PartDoc        Part = "doc"
	PartSignature  Part = "signature"
)

var validParts = map[string]bool{
	"all": true, "def": true, "body": true,
	"decorators": true, "comments": true, "doc": true, "signature": true,
}

// FileKind is the reserved root segment name, mirroring XPathParser.ROOT_ELEMENT.
const FileKind = "FILE"

// Segment is one parsed path component.
type Segment struct {
	Name     string
	Kind     element.Kind
	HasKind  bool
	Part     Part
	HasPart  bool
	IsFile   bool
	Warnings []element.Warning
}

var segmentPattern = regexp.MustCompile(`^([^\[\]]*)(?:\[([^\[\]]+)\])?(?:\[([^\[\]]+)\])?$`)

// Parse splits a path string into segments, injecting the implicit FILE
// root if absent, parsing bracketed qualifiers, and running type
// inference over unqualified segments (XPathParser.parse + _infer_types).
func Parse(path string) ([]Segment, *element.Error) {
	if path == "" {
		return nil, element.NewError(element.CodeBadQuery, "empty path")
	}

	rawParts := strings.Split(path, ".")
	var segments []Segment

	for i, raw := range rawParts {
		if raw == "" {
			continue
		}
		if i == 0 && raw == FileKind {
			segments = append(segments, Segment{IsFile: true, Name: FileKind})
			continue
		}

		m := segmentPattern.FindStringSubmatch(raw)
		if m == nil {
			return nil, element.NewError(element.CodeBadQuery, "invalid path segment %q", raw)
		}
		seg := Segment{Name: m[1]}
		assignQualifier(&seg, m[2])
		assignQualifier(&seg, m[3])

		if seg.Name == "" && !seg.HasKind && !seg.HasPart {
			return nil, element.NewError(element.CodeBadQuery, "empty path segment %q", raw)
		}
		segments = append(segments, seg)
	}

	inferTypes(segments)
	return segments, nil
}

var namedKinds = map[string]element.Kind{
	"module": element.KindModule, "class": element.KindClass, "interface": element.KindInterface,
	"namespace": element.KindNamespace, "enum": element.KindEnum, "enum_member": element.KindEnumMember,
	"type_alias": element.KindTypeAlias, "function": element.KindFunction, "method": element.KindMethod,
	"property_getter": element.KindPropertyGetter, "property_setter": element.KindPropertySetter,
	"property_field": element.KindPropertyField, "static_field": element.KindStaticField,
	"import_group": element.KindImportGroup, "import_item": element.KindImportItem,
	"decorator": element.KindDecorator, "parameter": element.KindParameter,
	"return_annotation": element.KindReturnAnnotation, "file": element.KindFile,
	"property": kindProperty,
}

func assignQualifier(seg *Segment, raw string) {
	if raw == "" {
		return
	}
	lower := strings.ToLower(raw)
	if kind, ok := namedKinds[lower]; ok {
		if !seg.HasKind {
			seg.HasKind = true
			seg.Kind = kind
			return
		}
		seg.Warnings = append(seg.Warnings, element.Warning{Code: element.CodeUnknownQualifier, Message: "duplicate type qualifier: " + raw})
		return
	}
	if validParts[lower] {
		if !seg.HasPart {
			seg.HasPart = true
			seg.Part = Part(lower)
			return
		}
		seg.Warnings = append(seg.Warnings, element.Warning{Code: element.CodeUnknownQualifier, Message: "duplicate part qualifier: " + raw})
		return
	}
	seg.Warnings = append(seg.Warnings, element.Warning{Code: element.CodeUnknownQualifier, Message: "unknown qualifier: " + raw})
}

var classLikeSegmentKinds = map[element.Kind]bool{
	element.KindClass:     true,
	element.KindInterface: true,
}

// inferTypes fills in Kind for unqualified segments per spec.md §4.E:
// a lone meaningful segment is left unspecified (matched by name across
// all kinds); in a multi-segment path, a non-leading segment under a
// class-like parent defaults to method, and a leading segment defaults
// to class (uppercase name) or function.
func inferTypes(segments []Segment) {
	start := 0
	if len(segments) > 0 && segments[0].IsFile {
		start = 1
	}
	meaningful := len(segments) - start
	if meaningful <= 0 {
		return
	}

	for i := start; i < len(segments); i++ {
		seg := &segments[i]
		if seg.HasKind {
			continue
		}
		rel := i - start
		if rel == 0 {
			if meaningful == 1 {
				continue
			}
			if seg.Name != "" && isUpper(seg.Name[0]) {
				seg.HasKind = true
				seg.Kind = element.KindClass
			} else {
				seg.HasKind = true
				seg.Kind = element.KindFunction
			}
			continue
		}
		parent := segments[i-1]
		if parent.HasKind && classLikeSegmentKinds[parent.Kind] {
			seg.HasKind = true
			seg.Kind = element.KindMethod
		}
	}
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// Emit renders segments back to their canonical path string, the
// inverse of Parse (XPathParser.to_string).
func Emit(segments []Segment) string {
	if len(segments) == 0 {
		return ""
	}
	hasFile := segments[0].IsFile
	start := 0
	var parts []string
	if hasFile {
		parts = append(parts, FileKind)
		start = 1
	}
	for i := start; i < len(segments); i++ {
		seg := segments[i]
		s := seg.Name
		if seg.HasKind {
			s += "[" + string(seg.Kind) + "]"
		}
		if seg.HasPart {
			s += "[" + string(seg.Part) + "]"
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 1 && hasFile {
		return parts[0]
	}
	if hasFile {
		return parts[0] + "." + strings.Join(parts[1:], ".")
	}
	return strings.Join(parts, ".")
}

// ElementInfo extracts (name, parent, kind) for a path string, mirroring
// XPathParser.get_element_info.
func ElementInfo(path string) (name, parent string, kind element.Kind, ok bool) {
	segments, err := Parse(path)
	if err != nil || len(segments) == 0 {
		return "", "", "", false
	}
	if len(segments) == 1 {
		seg := segments[0]
		if seg.IsFile {
			return "", "", "file", true
		}
		return seg.Name, "", seg.Kind, true
	}
	target := segments[len(segments)-1]
	parentSeg := segments[len(segments)-2]
	parentName := ""
	if !parentSeg.IsFile {
		parentName = parentSeg.Name
	}
	return target.Name, parentName, target.Kind, true
}
