// Package typescript implements the extractor.Extractor contract for
// TypeScript, grounded on providers/typescript/config.go's query tables
// and on
// original_source/codehem/languages/lang_typescript/components/extractor.py's
// per-kind extraction rules (function/method/property/decorator/enum/
// interface/type-alias/namespace queries, static-field detection via the
// `static` modifier keyword).
package typescript

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/extractor"
	"github.com/oxhq/morfx/navigator"
)

// Extractor is the TypeScript raw-element extractor. It also serves
// JavaScript sources, which share this grammar's node shapes for every
// construct the spec names.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Language() string { return "typescript" }

func childText(nav *navigator.Navigator, node *sitter.Node, field string, source []byte) string {
	return nav.NodeText(nav.ChildByField(node, field), source)
}

func hasStaticModifier(node *sitter.Node) bool {
	return hasChildOfType(node, "static")
}

func hasReadonlyModifier(node *sitter.Node) bool {
	return hasChildOfType(node, "readonly")
}

func hasOptionalMarker(node *sitter.Node) bool {
	return hasChildOfType(node, "?")
}

func hasChildOfType(node *sitter.Node, nodeType string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == nodeType {
			return true
		}
	}
	return false
}

func (e *Extractor) Imports(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(import_statement) @stmt`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["stmt"]
		sourceNode := nav.ChildByField(node, "source")
		module := strings.Trim(nav.NodeText(sourceNode, source), `"'`)
		out = append(out, extractor.RawRecord{
			Kind:       element.KindImportItem,
			Name:       module,
			Content:    nav.NodeText(node, source),
			Range:      nav.ElementRange(node),
			HasRange:   true,
			Attributes: element.Attributes{"module": module},
		})
	}
	return out, nil
}

// extractParameters reads a TypeScript/JavaScript formal_parameters node
// into ParameterInfo values, grounded on _extract_parameters's
// required_parameter/optional_parameter handling, extended to the plain
// identifier, untyped default (assignment_pattern), and rest-parameter
// shapes JavaScript sources also produce through this shared grammar.
func extractParameters(nav *navigator.Navigator, paramsNode *sitter.Node, source []byte) []extractor.ParameterInfo {
	if paramsNode == nil {
		return nil
	}
	var out []extractor.ParameterInfo
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		p := paramsNode.NamedChild(i)
		info := extractor.ParameterInfo{}
		switch p.Type() {
		case "identifier":
			info.Name = nav.NodeText(p, source)
		case "required_parameter":
			info.Name = paramName(nav, p, source)
			info.ValueType = paramType(nav, p, source)
		case "optional_parameter":
			info.Name = paramName(nav, p, source)
			info.ValueType = paramType(nav, p, source)
			info.Default = childText(nav, p, "value", source)
			info.Optional = true
		case "assignment_pattern":
			info.Name = childText(nav, p, "left", source)
			info.Default = childText(nav, p, "right", source)
			info.Optional = true
		case "rest_parameter":
			if inner := p.NamedChild(0); inner != nil {
				info.Name = nav.NodeText(inner, source)
			}
		default:
			continue
		}
		if info.Name == "" {
			continue
		}
		out = append(out, info)
	}
	return out
}

func paramName(nav *navigator.Navigator, p *sitter.Node, source []byte) string {
	if name := childText(nav, p, "pattern", source); name != "" {
		return name
	}
	return childText(nav, p, "name", source)
}

func paramType(nav *navigator.Navigator, p *sitter.Node, source []byte) string {
	return strings.TrimSpace(strings.TrimPrefix(childText(nav, p, "type", source), ":"))
}

// extractReturnInfo reads fnNode's return-type annotation and the
// distinct return expressions observed in its body.
func extractReturnInfo(nav *navigator.Navigator, fnNode *sitter.Node, source []byte) (string, []string) {
	returnType := strings.TrimSpace(strings.TrimPrefix(childText(nav, fnNode, "return_type", source), ":"))

	body := nav.ChildByField(fnNode, "body")
	if body == nil {
		return returnType, nil
	}
	matches, err := nav.ExecuteQuery(body, source, `(return_statement) @ret`)
	if err != nil {
		return returnType, nil
	}
	seen := map[string]bool{}
	var values []string
	for _, rec := range matches {
		ret := rec["ret"]
		if ret == nil || int(ret.NamedChildCount()) == 0 {
			continue
		}
		text := nav.NodeText(ret.NamedChild(0), source)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		values = append(values, text)
	}
	return returnType, values
}

func (e *Extractor) Functions(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	var out []extractor.RawRecord

	decls, err := nav.ExecuteQuery(root, source, `(function_declaration) @fn`)
	if err != nil {
		return nil, err
	}
	for _, rec := range decls {
		node := rec["fn"]
		params := extractParameters(nav, nav.ChildByField(node, "parameters"), source)
		returnType, returnValues := extractReturnInfo(nav, node, source)
		out = append(out, extractor.RawRecord{
			Kind:         element.KindFunction,
			Name:         childText(nav, node, "name", source),
			Content:      nav.NodeText(node, source),
			Range:        nav.ElementRange(node),
			HasRange:     true,
			Parameters:   params,
			ReturnType:   returnType,
			ReturnValues: returnValues,
		})
	}

	arrows, err := nav.ExecuteQuery(root, source, `
		(variable_declarator
			name: (identifier) @name
			value: (arrow_function) @arrow) @decl
	`)
	if err != nil {
		return nil, err
	}
	for _, rec := range arrows {
		node := rec["decl"]
		nameNode := rec["name"]
		arrow := rec["arrow"]
		stmt := node
		if lex := nav.AncestorOfKinds(node, []string{"lexical_declaration", "variable_declaration"}); lex != nil {
			stmt = lex
		}
		var params []extractor.ParameterInfo
		var returnType string
		var returnValues []string
		if arrow != nil {
			params = extractParameters(nav, nav.ChildByField(arrow, "parameters"), source)
			returnType, returnValues = extractReturnInfo(nav, arrow, source)
		}
		out = append(out, extractor.RawRecord{
			Kind:         element.KindFunction,
			Name:         nav.NodeText(nameNode, source),
			Content:      nav.NodeText(stmt, source),
			Range:        nav.ElementRange(stmt),
			HasRange:     true,
			Attributes:   element.Attributes{"arrow": true},
			Parameters:   params,
			ReturnType:   returnType,
			ReturnValues: returnValues,
		})
	}
	return out, nil
}

func (e *Extractor) Classes(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(class_declaration) @cls`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["cls"]
		var bases []string
		if heritage := nav.ChildByField(node, "heritage"); heritage != nil {
			bases = append(bases, strings.TrimSpace(nav.NodeText(heritage, source)))
		}
		out = append(out, extractor.RawRecord{
			Kind:       element.KindClass,
			Name:       childText(nav, node, "name", source),
			Content:    nav.NodeText(node, source),
			Range:      nav.ElementRange(node),
			HasRange:   true,
			Attributes: element.Attributes{"bases": bases},
		})
	}
	return out, nil
}

func (e *Extractor) Interfaces(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(interface_declaration) @iface`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["iface"]
		out = append(out, extractor.RawRecord{
			Kind:     element.KindInterface,
			Name:     childText(nav, node, "name", source),
			Content:  nav.NodeText(node, source),
			Range:    nav.ElementRange(node),
			HasRange: true,
		})
	}
	return out, nil
}

func (e *Extractor) Members(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(method_definition) @m`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["m"]
		classNode := nav.AncestorOfKinds(node, []string{"class_declaration"})
		if classNode == nil {
			continue
		}
		kind := element.KindMethod
		for i := 0; i < int(node.ChildCount()); i++ {
			switch node.Child(i).Type() {
			case "get":
				kind = element.KindPropertyGetter
			case "set":
				kind = element.KindPropertySetter
			}
		}
		params := extractParameters(nav, nav.ChildByField(node, "parameters"), source)
		returnType, returnValues := extractReturnInfo(nav, node, source)
		out = append(out, extractor.RawRecord{
			Kind:         kind,
			Name:         childText(nav, node, "name", source),
			Content:      nav.NodeText(node, source),
			Range:        nav.ElementRange(node),
			HasRange:     true,
			ParentName:   childText(nav, classNode, "name", source),
			HasParent:    true,
			Parameters:   params,
			ReturnType:   returnType,
			ReturnValues: returnValues,
		})
	}
	return out, nil
}

func (e *Extractor) PropertyFields(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(public_field_definition) @field`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["field"]
		if hasStaticModifier(node) {
			continue
		}
		classNode := nav.AncestorOfKinds(node, []string{"class_declaration"})
		if classNode == nil {
			continue
		}
		valueType := strings.TrimPrefix(childText(nav, node, "type", source), ":")
		var attrs element.Attributes
		if hasReadonlyModifier(node) {
			attrs = element.Attributes{"is_readonly": true}
		}
		if hasOptionalMarker(node) {
			if attrs == nil {
				attrs = element.Attributes{}
			}
			attrs["is_optional"] = true
		}
		out = append(out, extractor.RawRecord{
			Kind:       element.KindPropertyField,
			Name:       childText(nav, node, "name", source),
			Content:    nav.NodeText(node, source),
			Range:      nav.ElementRange(node),
			HasRange:   true,
			ParentName: childText(nav, classNode, "name", source),
			HasParent:  true,
			ValueType:  strings.TrimSpace(valueType),
			Attributes: attrs,
		})
	}
	return out, nil
}

func (e *Extractor) StaticFields(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(public_field_definition) @field`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["field"]
		if !hasStaticModifier(node) {
			continue
		}
		classNode := nav.AncestorOfKinds(node, []string{"class_declaration"})
		if classNode == nil {
			continue
		}
		name := childText(nav, node, "name", source)
		if strings.HasPrefix(name, "_") {
			continue
		}
		valueType := strings.TrimSpace(strings.TrimPrefix(childText(nav, node, "type", source), ":"))
		if valueType == "" {
			valueType = extractor.InferLiteralType(childText(nav, node, "value", source))
		}
		var attrs element.Attributes
		if hasReadonlyModifier(node) {
			attrs = element.Attributes{"is_readonly": true}
		}
		if hasOptionalMarker(node) {
			if attrs == nil {
				attrs = element.Attributes{}
			}
			attrs["is_optional"] = true
		}
		out = append(out, extractor.RawRecord{
			Kind:       element.KindStaticField,
			Name:       name,
			Content:    nav.NodeText(node, source),
			Range:      nav.ElementRange(node),
			HasRange:   true,
			ParentName: childText(nav, classNode, "name", source),
			HasParent:  true,
			ValueType:  valueType,
			Attributes: attrs,
		})
	}
	return out, nil
}

func (e *Extractor) Decorators(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(decorator) @dec`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["dec"]
		content := nav.NodeText(node, source)
		name := strings.TrimSpace(strings.TrimPrefix(content, "@"))
		if idx := strings.IndexByte(name, '('); idx >= 0 {
			name = name[:idx]
		}

		var parentName string
		var hasParent bool
		if next := node.NextSibling(); next != nil {
			switch next.Type() {
			case "class_declaration":
				parentName = childText(nav, next, "name", source)
				hasParent = true
			case "method_definition":
				methodName := childText(nav, next, "name", source)
				if classNode := nav.AncestorOfKinds(next, []string{"class_declaration"}); classNode != nil {
					parentName = childText(nav, classNode, "name", source) + "." + methodName
				} else {
					parentName = methodName
				}
				hasParent = true
			case "public_field_definition":
				fieldName := childText(nav, next, "name", source)
				if classNode := nav.AncestorOfKinds(next, []string{"class_declaration"}); classNode != nil {
					parentName = childText(nav, classNode, "name", source) + "." + fieldName
				} else {
					parentName = fieldName
				}
				hasParent = true
			}
		}

		out = append(out, extractor.RawRecord{
			Kind:       element.KindDecorator,
			Name:       name,
			Content:    content,
			Range:      nav.ElementRange(node),
			HasRange:   true,
			ParentName: parentName,
			HasParent:  hasParent,
		})
	}
	return out, nil
}

func (e *Extractor) Enums(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(enum_declaration) @en`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["en"]
		var nameNode *sitter.Node
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if c := node.NamedChild(i); c.Type() == "identifier" {
				nameNode = c
				break
			}
		}
		out = append(out, extractor.RawRecord{
			Kind:     element.KindEnum,
			Name:     nav.NodeText(nameNode, source),
			Content:  nav.NodeText(node, source),
			Range:    nav.ElementRange(node),
			HasRange: true,
		})
	}
	return out, nil
}

func (e *Extractor) TypeAliases(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(type_alias_declaration) @ta`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["ta"]
		out = append(out, extractor.RawRecord{
			Kind:     element.KindTypeAlias,
			Name:     childText(nav, node, "name", source),
			Content:  nav.NodeText(node, source),
			Range:    nav.ElementRange(node),
			HasRange: true,
		})
	}
	return out, nil
}

func (e *Extractor) Namespaces(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(internal_module) @ns`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["ns"]
		var nameNode *sitter.Node
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if c := node.NamedChild(i); c.Type() == "identifier" {
				nameNode = c
				break
			}
		}
		out = append(out, extractor.RawRecord{
			Kind:     element.KindNamespace,
			Name:     nav.NodeText(nameNode, source),
			Content:  nav.NodeText(node, source),
			Range:    nav.ElementRange(node),
			HasRange: true,
		})
	}
	return out, nil
}

// LocateSpec reports the direct node walk for kinds whose range needs no
// post-processing-derived classification. Methods are excluded because
// a get/set accessor's kept-or-dropped status depends on
// AssembleMembers's dedup/collision state machine, and fields because
// static vs. instance isn't distinguishable from node type alone.
func (e *Extractor) LocateSpec(kind element.Kind) (extractor.LocateSpec, bool) {
	switch kind {
	case element.KindFunction:
		return extractor.LocateSpec{NodeTypes: []string{"function_declaration"}, NameField: "name"}, true
	case element.KindClass:
		return extractor.LocateSpec{NodeTypes: []string{"class_declaration"}, NameField: "name"}, true
	case element.KindInterface:
		return extractor.LocateSpec{NodeTypes: []string{"interface_declaration"}, NameField: "name"}, true
	case element.KindTypeAlias:
		return extractor.LocateSpec{NodeTypes: []string{"type_alias_declaration"}, NameField: "name"}, true
	}
	return extractor.LocateSpec{}, false
}

var _ extractor.Extractor = (*Extractor)(nil)
var _ extractor.Locator = (*Extractor)(nil)
