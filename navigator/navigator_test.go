package navigator

import (
	"context"
	"testing"

	"github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/morfx/element"
)

func parsePython(t *testing.T, src string) (*Navigator, []byte) {
	t.Helper()
	nav := New(python.GetLanguage())
	return nav, []byte(src)
}

func TestExecuteQueryFlatRegime(t *testing.T) {
	nav, src := parsePython(t, "def a():\n    pass\ndef b():\n    pass\n")
	tree, err := nav.Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()

	records, err := nav.ExecuteQuery(tree.RootNode(), src, `(function_definition) @fn`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 flat records, got %d", len(records))
	}
}

func TestExecuteQueryHierarchicalRegime(t *testing.T) {
	nav, src := parsePython(t, "def f(x, y):\n    pass\n")
	tree, err := nav.Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()

	records, err := nav.ExecuteQuery(tree.RootNode(), src,
		`(function_definition name: (identifier) @name parameters: (parameters) @params)`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected single-node captures to produce 1 record, got %d", len(records))
	}
	if records[0]["name"] == nil || records[0]["params"] == nil {
		t.Fatalf("expected both captures present in the single record")
	}
}

func TestNodeTextAndRangeOnNil(t *testing.T) {
	nav := New(python.GetLanguage())
	if got := nav.NodeText(nil, []byte("x")); got != "" {
		t.Fatalf("expected empty text for nil node, got %q", got)
	}
	start, end := nav.NodeRange(nil)
	if start != 0 || end != 0 {
		t.Fatalf("expected (0,0) range for nil node, got (%d,%d)", start, end)
	}
}

func TestFindErrorsOnCleanSource(t *testing.T) {
	nav, src := parsePython(t, "def ok():\n    return 1\n")
	tree, err := nav.Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()
	if errs := nav.FindErrors(tree.RootNode()); len(errs) != 0 {
		t.Fatalf("expected no ERROR nodes, got %v", errs)
	}
}

func TestElementRangeNilIsZero(t *testing.T) {
	nav := New(python.GetLanguage())
	r := nav.ElementRange(nil)
	if !r.IsZero() {
		t.Fatalf("expected zero range for nil node")
	}
	var _ element.Range = r
}
