package pathresolver

import (
	"testing"

	"github.com/oxhq/morfx/element"
)

func sampleTree() *element.ElementTree {
	class := &element.Element{
		Kind: element.KindClass, Name: "C",
		HasRange: true, Range: element.Range{StartLine: 1, EndLine: 10},
	}
	staticField := &element.Element{
		Kind: element.KindStaticField, Name: "x", ParentName: "C", HasParent: true,
		HasRange: true, Range: element.Range{StartLine: 2, EndLine: 2}, Content: "x = 0",
	}
	getter := &element.Element{
		Kind: element.KindPropertyGetter, Name: "v", ParentName: "C", HasParent: true,
		HasRange: true, Range: element.Range{StartLine: 3, EndLine: 4},
		Content: "@property\ndef v(self):\n    return self._v",
	}
	setter := &element.Element{
		Kind: element.KindPropertySetter, Name: "v", ParentName: "C", HasParent: true,
		HasRange: true, Range: element.Range{StartLine: 5, EndLine: 6},
		Content: "@v.setter\ndef v(self, n):\n    self._v = n",
	}
	method := &element.Element{
		Kind: element.KindMethod, Name: "m", ParentName: "C", HasParent: true,
		HasRange: true, Range: element.Range{StartLine: 7, EndLine: 7},
		Content: "def m(self):\n    return 0",
	}
	class.Children = []*element.Element{staticField, getter, setter, method}

	tree := element.NewElementTree()
	tree.Elements = append(tree.Elements, class)
	return tree
}

func TestParseInjectsInferredKinds(t *testing.T) {
	segs, err := Parse("Widget.render")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Kind != element.KindClass {
		t.Fatalf("expected leading uppercase segment inferred as class, got %s", segs[0].Kind)
	}
	if segs[1].Kind != element.KindMethod {
		t.Fatalf("expected non-leading segment under a class inferred as method, got %s", segs[1].Kind)
	}
}

func TestParseSingleSegmentLeavesKindUnspecified(t *testing.T) {
	segs, err := Parse("render")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 1 || segs[0].HasKind {
		t.Fatalf("expected a single unqualified segment to leave kind unspecified, got %+v", segs)
	}
}

func TestParseQualifiedSegment(t *testing.T) {
	segs, err := Parse("C.v[property_getter][body]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	last := segs[1]
	if !last.HasKind || last.Kind != element.KindPropertyGetter {
		t.Fatalf("expected property_getter kind qualifier, got %+v", last)
	}
	if !last.HasPart || last.Part != PartBody {
		t.Fatalf("expected body part qualifier, got %+v", last)
	}
}

func TestResolveTieBreakSetterBeatsGetter(t *testing.T) {
	tree := sampleTree()
	el, warnings := Resolve(tree, "C.v")
	if el == nil {
		t.Fatalf("expected a match for C.v")
	}
	if el.Kind != element.KindPropertySetter {
		t.Fatalf("expected setter to win the tie-break, got %s (warnings=%v)", el.Kind, warnings)
	}
}

func TestResolveExactKindQualifierWins(t *testing.T) {
	tree := sampleTree()
	el, _ := Resolve(tree, "C.v[property_getter]")
	if el == nil || el.Kind != element.KindPropertyGetter {
		t.Fatalf("expected explicit property_getter qualifier to select the getter, got %+v", el)
	}
}

func TestResolveMissingReturnsNil(t *testing.T) {
	tree := sampleTree()
	el, _ := Resolve(tree, "C.missing")
	if el != nil {
		t.Fatalf("expected nil for an unresolved path, got %+v", el)
	}
}

func TestResolveBodyPartDedented(t *testing.T) {
	tree := sampleTree()
	el, _ := Resolve(tree, "C.v[property_getter]")
	if el == nil {
		t.Fatalf("expected to resolve the getter")
	}
	got := Slice(el.Content, PartBody, DialectIndentation)
	if got != "return self._v" {
		t.Fatalf("expected dedented body %q, got %q", "return self._v", got)
	}
}

func TestEmitRoundTripsParse(t *testing.T) {
	segs, err := Parse("FILE.Widget.render[method][body]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := Emit(segs)
	want := "FILE.Widget[class].render[method][body]"
	if got != want {
		t.Fatalf("expected round-trip %q, got %q", want, got)
	}
}

func TestElementInfoMultiSegment(t *testing.T) {
	name, parent, kind, ok := ElementInfo("Widget.render")
	if !ok {
		t.Fatalf("expected ElementInfo to succeed")
	}
	if name != "render" || parent != "Widget" || kind != element.KindMethod {
		t.Fatalf("unexpected ElementInfo result: name=%q parent=%q kind=%q", name, parent, kind)
	}
}
