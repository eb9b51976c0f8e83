// Package python implements the extractor.Extractor contract for Python,
// grounded on providers/python/config.go's alias/query tables and on
// original_source/codehem/languages/lang_python/components/extractor.py's
// per-kind extraction rules (function/method/property/static-field
// detection, decorator attachment, instance-attribute fields).
package python

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/extractor"
	"github.com/oxhq/morfx/navigator"
)

// Extractor is the Python raw-element extractor.
type Extractor struct{}

// New returns a Python Extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) Language() string { return "python" }

func nodeName(nav *navigator.Navigator, node *sitter.Node, source []byte) string {
	n := nav.ChildByField(node, "name")
	return nav.NodeText(n, source)
}

func (e *Extractor) Imports(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	var out []extractor.RawRecord

	plain, err := nav.ExecuteQuery(root, source, `(import_statement) @stmt`)
	if err != nil {
		return nil, err
	}
	for _, rec := range plain {
		node := rec["stmt"]
		out = append(out, extractor.RawRecord{
			Kind:     element.KindImportItem,
			Name:     strings.TrimSpace(nav.NodeText(node, source)),
			Content:  nav.NodeText(node, source),
			Range:    nav.ElementRange(node),
			HasRange: true,
		})
	}

	from, err := nav.ExecuteQuery(root, source, `(import_from_statement) @stmt`)
	if err != nil {
		return nil, err
	}
	for _, rec := range from {
		node := rec["stmt"]
		moduleNode := nav.ChildByField(node, "module_name")
		module := nav.NodeText(moduleNode, source)
		if module == "" {
			module = "."
		}
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

// extractParameters reads a Python parameter-list node into ParameterInfo
// values, grounded on _extract_parameters: simple identifiers, typed
// parameters (name: type), and default-valued parameters (name = value,
// whose name may itself be typed). Methods' implicit `self`/`cls` receiver
// is skipped when isMethod is set (spec.md §4.C.i).
func extractParameters(nav *navigator.Navigator, paramsNode *sitter.Node, source []byte, isMethod bool) []extractor.ParameterInfo {
	if paramsNode == nil {
		return nil
	}
	start := 0
	if isMethod {
		start = 1
	}
	var out []extractor.ParameterInfo
	for i := start; i < int(paramsNode.NamedChildCount()); i++ {
		p := paramsNode.NamedChild(i)
		info := extractor.ParameterInfo{}
		switch p.Type() {
		case "identifier":
			info.Name = nav.NodeText(p, source)
		case "typed_parameter":
			if id := p.NamedChild(0); id != nil && id.Type() == "identifier" {
				info.Name = nav.NodeText(id, source)
			}
			info.ValueType = nav.NodeText(nav.ChildByField(p, "type"), source)
		case "default_parameter", "typed_default_parameter":
			nameNode := nav.ChildByField(p, "name")
			if nameNode != nil && nameNode.Type() == "typed_parameter" {
				info.Name = nav.NodeText(nav.ChildByField(nameNode, "name"), source)
				info.ValueType = nav.NodeText(nav.ChildByField(nameNode, "type"), source)
			} else {
				info.Name = nav.NodeText(nameNode, source)
				info.ValueType = nav.NodeText(nav.ChildByField(p, "type"), source)
			}
			info.Default = nav.NodeText(nav.ChildByField(p, "value"), source)
			info.Optional = true
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

// extractReturnInfo reads fnNode's return-type annotation and the
// distinct return expressions observed in its body, following
// _extract_return_info.
func extractReturnInfo(nav *navigator.Navigator, fnNode *sitter.Node, source []byte) (string, []string) {
	returnType := nav.NodeText(nav.ChildByField(fnNode, "return_type"), source)

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
	matches, err := nav.ExecuteQuery(root, source, `(function_definition) @fn`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["fn"]
		if nav.AncestorOfKinds(node, []string{"class_definition"}) != nil {
			continue
		}
		rangeNode := node
		if dec := node.Parent(); dec != nil && dec.Type() == "decorated_definition" {
			rangeNode = dec
		}
		params := extractParameters(nav, nav.ChildByField(node, "parameters"), source, false)
		returnType, returnValues := extractReturnInfo(nav, node, source)
		out = append(out, extractor.RawRecord{
			Kind:         element.KindFunction,
			Name:         nodeName(nav, node, source),
			Content:      nav.NodeText(rangeNode, source),
			Range:        nav.ElementRange(rangeNode),
			HasRange:     true,
			Parameters:   params,
			ReturnType:   returnType,
			ReturnValues: returnValues,
		})
	}
	return out, nil
}

func (e *Extractor) Classes(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(class_definition) @cls`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["cls"]
		var bases []string
		if supers := nav.ChildByField(node, "superclasses"); supers != nil {
			for i := 0; i < int(supers.NamedChildCount()); i++ {
				bases = append(bases, nav.NodeText(supers.NamedChild(i), source))
			}
		}
		out = append(out, extractor.RawRecord{
			Kind:       element.KindClass,
			Name:       nodeName(nav, node, source),
			Content:    nav.NodeText(node, source),
			Range:      nav.ElementRange(node),
			HasRange:   true,
			Attributes: element.Attributes{"bases": bases},
		})
	}
	return out, nil
}

func (e *Extractor) Interfaces(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	return nil, nil
}

func decoratorNames(node *sitter.Node, nav *navigator.Navigator, source []byte) []string {
	dec := node.Parent()
	if dec == nil || dec.Type() != "decorated_definition" {
		return nil
	}
	var names []string
	for i := 0; i < int(dec.ChildCount()); i++ {
		child := dec.Child(i)
		if child.Type() == "decorator" {
			names = append(names, strings.TrimSpace(nav.NodeText(child, source)))
		}
	}
	return names
}

func (e *Extractor) Members(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(function_definition) @fn`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		node := rec["fn"]
		classNode := nav.AncestorOfKinds(node, []string{"class_definition"})
		if classNode == nil {
			continue
		}
		parentName := nodeName(nav, classNode, source)

		kind := element.KindMethod
		for _, dname := range decoratorNames(node, nav, source) {
			trimmed := strings.TrimPrefix(dname, "@")
			switch {
			case trimmed == "property":
				kind = element.KindPropertyGetter
			case strings.HasSuffix(trimmed, ".setter"):
				kind = element.KindPropertySetter
			}
		}

		rangeNode := node
		if dec := node.Parent(); dec != nil && dec.Type() == "decorated_definition" {
			rangeNode = dec
		}

		params := extractParameters(nav, nav.ChildByField(node, "parameters"), source, true)
		returnType, returnValues := extractReturnInfo(nav, node, source)

		out = append(out, extractor.RawRecord{
			Kind:         kind,
			Name:         nodeName(nav, node, source),
			Content:      nav.NodeText(rangeNode, source),
			Range:        nav.ElementRange(rangeNode),
			HasRange:     true,
			ParentName:   parentName,
			HasParent:    true,
			Parameters:   params,
			ReturnType:   returnType,
			ReturnValues: returnValues,
		})
	}
	return out, nil
}

// PropertyFields extracts instance attributes assigned in __init__
// (self.foo = value), following extract_instance_attributes.
func (e *Extractor) PropertyFields(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `
		(class_definition
			body: (block
				(function_definition
					name: (identifier) @method_name
					body: (block) @init_block
				)
			)
		)
	`)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []extractor.RawRecord
	for _, rec := range matches {
		nameNode := rec["method_name"]
		block := rec["init_block"]
		if nameNode == nil || block == nil {
			continue
		}
		if nav.NodeText(nameNode, source) != "__init__" {
			continue
		}
		classNode := nav.AncestorOfKinds(block, []string{"class_definition"})
		if classNode == nil {
			continue
		}
		className := nodeName(nav, classNode, source)

		for i := 0; i < int(block.NamedChildCount()); i++ {
			stmt := block.NamedChild(i)
			assign := stmt
			if stmt.Type() == "expression_statement" && stmt.NamedChildCount() > 0 {
				inner := stmt.NamedChild(0)
				if inner.Type() == "assignment" {
					assign = inner
				}
			}
			if assign.Type() != "assignment" {
				continue
			}
			left := assign.ChildByFieldName("left")
			if left == nil || left.Type() != "attribute" {
				continue
			}
			obj := left.ChildByFieldName("object")
			attr := left.ChildByFieldName("attribute")
			if obj == nil || attr == nil || nav.NodeText(obj, source) != "self" {
				continue
			}
			propName := nav.NodeText(attr, source)
			rng := nav.ElementRange(stmt)
			key := className + "." + propName + "@" + rng.String()
			if seen[key] {
				continue
			}
			seen[key] = true

			valueType := ""
			if typeNode := assign.ChildByFieldName("type"); typeNode != nil {
				valueType = nav.NodeText(typeNode, source)
			}

			out = append(out, extractor.RawRecord{
				Kind:       element.KindPropertyField,
				Name:       propName,
				Content:    nav.NodeText(stmt, source),
				Range:      rng,
				HasRange:   true,
				ParentName: className,
				HasParent:  true,
				ValueType:  valueType,
			})
		}
	}
	return out, nil
}

func (e *Extractor) StaticFields(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `
		(class_definition
			body: (block
				(expression_statement
					(assignment
						left: (identifier) @name
						right: (_) @value
					)
				) @stmt
			)
		)
	`)
	if err != nil {
		return nil, err
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		stmt := rec["stmt"]
		nameNode := rec["name"]
		valueNode := rec["value"]
		if stmt == nil || nameNode == nil {
			continue
		}
		classNode := nav.AncestorOfKinds(stmt, []string{"class_definition"})
		if classNode == nil {
			continue
		}
		name := nav.NodeText(nameNode, source)
		if strings.HasPrefix(name, "_") {
			continue
		}
		valueText := nav.NodeText(valueNode, source)
		out = append(out, extractor.RawRecord{
			Kind:       element.KindStaticField,
			Name:       name,
			Content:    nav.NodeText(stmt, source),
			Range:      nav.ElementRange(stmt),
			HasRange:   true,
			ParentName: nodeName(nav, classNode, source),
			HasParent:  true,
			ValueType:  extractor.InferLiteralType(valueText),
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
		if idx := strings.IndexAny(name, "(."); idx >= 0 {
			name = name[:idx]
		}

		parentDef := node.Parent()
		if parentDef == nil || parentDef.Type() != "decorated_definition" {
			continue
		}
		var decorated *sitter.Node
		for i := 0; i < int(parentDef.ChildCount()); i++ {
			child := parentDef.Child(i)
			if child.Type() == "function_definition" || child.Type() == "class_definition" {
				decorated = child
				break
			}
		}
		if decorated == nil {
			continue
		}

		decoratedName := nodeName(nav, decorated, source)
		if decorated.Type() == "function_definition" {
			if classNode := nav.AncestorOfKinds(parentDef, []string{"class_definition"}); classNode != nil {
				decoratedName = nodeName(nav, classNode, source) + "." + decoratedName
			}
		}

		out = append(out, extractor.RawRecord{
			Kind:       element.KindDecorator,
			Name:       name,
			Content:    content,
			Range:      nav.ElementRange(node),
			HasRange:   true,
			ParentName: decoratedName,
			HasParent:  true,
		})
	}
	return out, nil
}

func (e *Extractor) Enums(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	return nil, nil
}

func (e *Extractor) TypeAliases(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	matches, err := nav.ExecuteQuery(root, source, `(type_alias_statement left: (type (identifier) @name) right: (type) @value) @stmt`)
	if err != nil {
		return nil, nil
	}
	var out []extractor.RawRecord
	for _, rec := range matches {
		stmt := rec["stmt"]
		nameNode := rec["name"]
		if stmt == nil || nameNode == nil {
			continue
		}
		out = append(out, extractor.RawRecord{
			Kind:     element.KindTypeAlias,
			Name:     nav.NodeText(nameNode, source),
			Content:  nav.NodeText(stmt, source),
			Range:    nav.ElementRange(stmt),
			HasRange: true,
		})
	}
	return out, nil
}

func (e *Extractor) Namespaces(ctx context.Context, nav *navigator.Navigator, root *sitter.Node, source []byte) ([]extractor.RawRecord, error) {
	return nil, nil
}

// LocateSpec reports the direct node walk for the kinds whose range
// needs no post-processing-derived classification: plain module-level
// functions and classes. Methods are excluded because their final kind
// (method/property_getter/property_setter) depends on decorator
// classification, and fields because their node shape isn't a single
// named-field lookup.
func (e *Extractor) LocateSpec(kind element.Kind) (extractor.LocateSpec, bool) {
	switch kind {
	case element.KindFunction:
		return extractor.LocateSpec{NodeTypes: []string{"function_definition"}, NameField: "name", ExcludeInside: []string{"class_definition"}}, true
	case element.KindClass:
		return extractor.LocateSpec{NodeTypes: []string{"class_definition"}, NameField: "name"}, true
	}
	return extractor.LocateSpec{}, false
}

var _ extractor.Extractor = (*Extractor)(nil)
var _ extractor.Locator = (*Extractor)(nil)
