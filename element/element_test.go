package element

import "testing"

func TestRangeContains(t *testing.T) {
	parent := Range{StartLine: 1, EndLine: 10}
	child := Range{StartLine: 2, EndLine: 5}
	if !parent.Contains(child) {
		t.Fatalf("expected parent to contain child")
	}
	outside := Range{StartLine: 9, EndLine: 12}
	if parent.Contains(outside) {
		t.Fatalf("expected parent to NOT contain range extending past its end")
	}
}

func TestRangeContainsZeroChild(t *testing.T) {
	parent := Range{StartLine: 1, EndLine: 10}
	var zero Range
	if !parent.Contains(zero) {
		t.Fatalf("a zero-value range (synthesized child) must be vacuously contained")
	}
}

func TestRangePrecedes(t *testing.T) {
	dec := Range{StartLine: 1, EndLine: 1}
	fn := Range{StartLine: 2, EndLine: 5}
	if !dec.Precedes(fn) {
		t.Fatalf("decorator range should precede its target")
	}
	if fn.Precedes(dec) {
		t.Fatalf("target should not precede its decorator")
	}
}

func TestParseKindUnknown(t *testing.T) {
	if ParseKind("bogus") != KindUnknown {
		t.Fatalf("unknown kind string should coerce to KindUnknown")
	}
	if ParseKind("class") != KindClass {
		t.Fatalf("valid kind string should round-trip")
	}
}

func TestSortChildrenRangelessFirst(t *testing.T) {
	parent := &Element{Kind: KindClass, Name: "C"}
	method := &Element{Kind: KindMethod, Name: "m", HasRange: true, Range: Range{StartLine: 5, EndLine: 6}}
	param := &Element{Kind: KindParameter, Name: "x"}
	parent.Children = []*Element{method, param}
	parent.SortChildren()
	if parent.Children[0] != param {
		t.Fatalf("synthesized (rangeless) children must sort before range-bearing siblings")
	}
}

func TestImportGroupLookup(t *testing.T) {
	tree := NewElementTree()
	tree.Elements = append(tree.Elements, &Element{Kind: KindClass, Name: "C"})
	ig := &Element{Kind: KindImportGroup, Name: "imports"}
	tree.Elements = append(tree.Elements, ig)
	if tree.ImportGroup() != ig {
		t.Fatalf("expected to find the import_group element")
	}
}
