// Package typescript assembles TypeScript/JavaScript raw records into
// the typed Element tree, grounded on
// original_source/codehem/languages/lang_typescript/components/post_processor.py.
package typescript

import (
	"sort"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/extractor"
	"github.com/oxhq/morfx/postprocess"
)

// PostProcessor assembles a TypeScript Bundle into an ElementTree.
type PostProcessor struct{}

func New() *PostProcessor { return &PostProcessor{} }

func (p *PostProcessor) Assemble(bundle extractor.Bundle) (*element.ElementTree, []element.Warning) {
	var warnings []element.Warning
	tree := element.NewElementTree()

	decoratorLookup := postprocess.BuildDecoratorLookup(bundle.Decorators)

	if group := postprocess.BuildImportGroup(bundle.Imports); group != nil {
		tree.Elements = append(tree.Elements, group)
	}

	for _, fn := range bundle.Functions {
		if !fn.Valid() {
			warnings = append(warnings, element.Warning{Code: element.CodeMalformedRecord, Message: "dropped malformed function record: " + fn.Name})
			continue
		}
		el := postprocess.RawRecordToElement(fn)
		postprocess.AttachParameters(el, fn.Parameters)
		postprocess.AttachReturnAnnotation(el, fn.ReturnType, fn.ReturnValues)
		tree.Elements = append(tree.Elements, el)
	}

	for _, iface := range bundle.Interfaces {
		if !iface.Valid() {
			continue
		}
		tree.Elements = append(tree.Elements, postprocess.RawRecordToElement(iface))
	}
	for _, en := range bundle.Enums {
		if !en.Valid() {
			continue
		}
		tree.Elements = append(tree.Elements, postprocess.RawRecordToElement(en))
	}
	for _, ta := range bundle.TypeAliases {
		if !ta.Valid() {
			continue
		}
		tree.Elements = append(tree.Elements, postprocess.RawRecordToElement(ta))
	}
	for _, ns := range bundle.Namespaces {
		if !ns.Valid() {
			continue
		}
		tree.Elements = append(tree.Elements, postprocess.RawRecordToElement(ns))
	}

	staticFields := postprocess.ResolveFieldKindClash(bundle.StaticFields, bundle.PropertyFields)
	_, membersByClass := postprocess.GroupByParent(bundle.Members)
	_, fieldsByClass := postprocess.GroupByParent(bundle.PropertyFields)
	_, staticsByClass := postprocess.GroupByParent(staticFields)

	for _, cls := range bundle.Classes {
		if !cls.Valid() {
			warnings = append(warnings, element.Warning{Code: element.CodeMalformedRecord, Message: "dropped malformed class record: " + cls.Name})
			continue
		}
		classEl := postprocess.RawRecordToElement(cls)
		postprocess.AttachDecorators(classEl, cls.Name, decoratorLookup)

		var classified []postprocess.ClassifiedMember
		for _, m := range membersByClass[cls.Name] {
			classified = append(classified, postprocess.ClassifiedMember{Record: m, Kind: m.Kind})
		}
		kept, memberWarnings := postprocess.AssembleMembers(classified)
		warnings = append(warnings, memberWarnings...)
		for _, cm := range kept {
			qualified := cls.Name + "." + cm.Record.Name
			memberEl := postprocess.RawRecordToElement(cm.Record)
			memberEl.Kind = cm.Kind
			postprocess.AttachDecorators(memberEl, qualified, decoratorLookup)
			postprocess.AttachParameters(memberEl, cm.Record.Parameters)
			postprocess.AttachReturnAnnotation(memberEl, cm.Record.ReturnType, cm.Record.ReturnValues)
			classEl.Children = append(classEl.Children, memberEl)
		}
		for _, f := range fieldsByClass[cls.Name] {
			qualified := cls.Name + "." + f.Name
			fieldEl := postprocess.RawRecordToElement(f)
			postprocess.AttachDecorators(fieldEl, qualified, decoratorLookup)
			classEl.Children = append(classEl.Children, fieldEl)
		}
		for _, s := range staticsByClass[cls.Name] {
			classEl.Children = append(classEl.Children, postprocess.RawRecordToElement(s))
		}

		classEl.SortChildren()
		tree.Elements = append(tree.Elements, classEl)
	}

	sort.SliceStable(tree.Elements, func(i, j int) bool {
		a, b := tree.Elements[i], tree.Elements[j]
		if !a.HasRange || !b.HasRange {
			return a.HasRange
		}
		return a.Range.StartLine < b.Range.StartLine
	})

	return tree, warnings
}
