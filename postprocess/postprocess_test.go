package postprocess

import (
	"testing"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/extractor"
)

func TestBuildImportGroupCombinesRange(t *testing.T) {
	records := []extractor.RawRecord{
		{Kind: element.KindImportItem, Name: "os", Content: "import os", HasRange: true, Range: element.Range{StartLine: 3, EndLine: 3}},
		{Kind: element.KindImportItem, Name: "sys", Content: "import sys", HasRange: true, Range: element.Range{StartLine: 1, EndLine: 1}},
	}
	group := BuildImportGroup(records)
	if group == nil {
		t.Fatalf("expected non-nil import group")
	}
	if group.Range.StartLine != 1 || group.Range.EndLine != 3 {
		t.Fatalf("expected combined range [1,3], got %v", group.Range)
	}
	if len(group.Children) != 2 {
		t.Fatalf("expected 2 import_item children, got %d", len(group.Children))
	}
}

func TestBuildImportGroupEmpty(t *testing.T) {
	if BuildImportGroup(nil) != nil {
		t.Fatalf("expected nil group for no imports")
	}
}

func TestAttachDecoratorsDedupesBySameStartLine(t *testing.T) {
	lookup := BuildDecoratorLookup([]extractor.RawRecord{
		{Kind: element.KindDecorator, Name: "property", HasParent: true, ParentName: "Widget.label", HasRange: true, Range: element.Range{StartLine: 5, EndLine: 5}},
		{Kind: element.KindDecorator, Name: "property", HasParent: true, ParentName: "Widget.label", HasRange: true, Range: element.Range{StartLine: 5, EndLine: 5}},
	})
	target := &element.Element{Kind: element.KindPropertyGetter, Name: "label"}
	AttachDecorators(target, "Widget.label", lookup)
	if len(target.Children) != 1 {
		t.Fatalf("expected duplicate decorator at the same line to be deduped, got %d children", len(target.Children))
	}
}

func TestClassifyMethodPropertyGetterSetter(t *testing.T) {
	if got := ClassifyMethod(element.KindMethod, "label", []string{"property"}); got != element.KindPropertyGetter {
		t.Fatalf("expected property_getter, got %s", got)
	}
	if got := ClassifyMethod(element.KindMethod, "label", []string{"label.setter"}); got != element.KindPropertySetter {
		t.Fatalf("expected property_setter, got %s", got)
	}
	if got := ClassifyMethod(element.KindMethod, "render", nil); got != element.KindMethod {
		t.Fatalf("expected plain method unchanged, got %s", got)
	}
}

func TestResolveFieldKindClashInstanceWins(t *testing.T) {
	statics := []extractor.RawRecord{
		{Kind: element.KindStaticField, Name: "count", ParentName: "Widget"},
		{Kind: element.KindStaticField, Name: "label", ParentName: "Widget"},
	}
	fields := []extractor.RawRecord{
		{Kind: element.KindPropertyField, Name: "count", ParentName: "Widget"},
	}
	resolved := ResolveFieldKindClash(statics, fields)
	if len(resolved) != 1 || resolved[0].Name != "label" {
		t.Fatalf("expected only 'label' to survive, got %+v", resolved)
	}
}

func TestAttachParametersSynthesizesChildren(t *testing.T) {
	target := &element.Element{Kind: element.KindFunction, Name: "add"}
	AttachParameters(target, []extractor.ParameterInfo{
		{Name: "a", ValueType: "int"},
		{Name: "b", ValueType: "int", Default: "1", Optional: true},
	})
	if len(target.Children) != 2 {
		t.Fatalf("expected 2 parameter children, got %d", len(target.Children))
	}
	if target.Children[0].HasRange {
		t.Fatalf("expected parameter children to carry no range")
	}
	if opt, _ := target.Children[0].Attributes["optional"].(bool); opt {
		t.Fatalf("expected 'a' to be required")
	}
	if def, _ := target.Children[1].Attributes["default"].(string); def != "1" {
		t.Fatalf("expected 'b' default '1', got %v", target.Children[1].Attributes["default"])
	}
}

func TestAttachReturnAnnotationOnlyWhenObserved(t *testing.T) {
	target := &element.Element{Kind: element.KindFunction, Name: "helper"}
	AttachReturnAnnotation(target, "", nil)
	if len(target.Children) != 0 {
		t.Fatalf("expected no return_annotation child when nothing was observed")
	}

	AttachReturnAnnotation(target, "int", []string{"a + b", "b"})
	if len(target.Children) != 1 {
		t.Fatalf("expected 1 return_annotation child, got %d", len(target.Children))
	}
	child := target.Children[0]
	if child.Kind != element.KindReturnAnnotation || child.ValueType != "int" {
		t.Fatalf("expected return_annotation valueType int, got %+v", child)
	}
	values, _ := child.Attributes["values"].([]string)
	if len(values) != 2 {
		t.Fatalf("expected 2 observed return values, got %+v", values)
	}
}

func TestAssembleMembersPairsGetterAndSetter(t *testing.T) {
	members := []ClassifiedMember{
		{Record: extractor.RawRecord{Name: "label", ParentName: "Widget"}, Kind: element.KindPropertyGetter},
		{Record: extractor.RawRecord{Name: "label", ParentName: "Widget"}, Kind: element.KindPropertySetter},
	}
	kept, warnings := AssembleMembers(members)
	if len(kept) != 2 {
		t.Fatalf("expected both getter and setter kept, got %+v", kept)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings for a clean getter/setter pair, got %v", warnings)
	}
}

func TestAssembleMembersDropsDuplicateGetter(t *testing.T) {
	members := []ClassifiedMember{
		{Record: extractor.RawRecord{Name: "label", ParentName: "Widget"}, Kind: element.KindPropertyGetter},
		{Record: extractor.RawRecord{Name: "label", ParentName: "Widget"}, Kind: element.KindPropertyGetter},
	}
	kept, warnings := AssembleMembers(members)
	if len(kept) != 1 {
		t.Fatalf("expected only the first getter kept, got %+v", kept)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning for the duplicate getter, got %v", warnings)
	}
}

func TestAssembleMembersMethodCollidesWithAccessor(t *testing.T) {
	members := []ClassifiedMember{
		{Record: extractor.RawRecord{Name: "label", ParentName: "Widget"}, Kind: element.KindPropertyGetter},
		{Record: extractor.RawRecord{Name: "label", ParentName: "Widget"}, Kind: element.KindMethod},
	}
	kept, warnings := AssembleMembers(members)
	if len(kept) != 1 || kept[0].Kind != element.KindPropertyGetter {
		t.Fatalf("expected the accessor kept over the colliding method, got %+v", kept)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 collision warning, got %v", warnings)
	}
}

func TestGroupByParentPreservesOrder(t *testing.T) {
	records := []extractor.RawRecord{
		{Name: "b", ParentName: "B"},
		{Name: "a1", ParentName: "A"},
		{Name: "a2", ParentName: "A"},
	}
	order, byParent := GroupByParent(records)
	if len(order) != 2 || order[0] != "B" || order[1] != "A" {
		t.Fatalf("expected encounter order [B, A], got %v", order)
	}
	if len(byParent["A"]) != 2 {
		t.Fatalf("expected 2 records under parent A, got %d", len(byParent["A"]))
	}
}
