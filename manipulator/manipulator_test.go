package manipulator

import (
	"strings"
	"testing"

	"github.com/oxhq/morfx/element"
)

const source = `class Widget:
    def render(self):
        return self._label

    def label(self):
        return self._label
`

func TestReplaceSplicesNewContent(t *testing.T) {
	r := element.Range{StartLine: 2, EndLine: 3}
	res, err := Replace(source, r, "    def render(self):\n        return \"new\"\n")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !strings.Contains(res.Modified, `return "new"`) {
		t.Fatalf("expected replacement content in output, got %q", res.Modified)
	}
	if strings.Contains(res.Modified, "self._label") && strings.Count(res.Modified, "self._label") != 1 {
		t.Fatalf("expected only the untouched label method to retain self._label, got %q", res.Modified)
	}
	if res.Diff == "" {
		t.Fatalf("expected a non-empty diff for a real change")
	}
}

func TestDeleteRemovesLines(t *testing.T) {
	r := element.Range{StartLine: 2, EndLine: 3}
	res, err := Delete(source, r)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if strings.Contains(res.Modified, "def render") {
		t.Fatalf("expected render method to be removed, got %q", res.Modified)
	}
	if !strings.Contains(res.Modified, "def label") {
		t.Fatalf("expected label method to survive, got %q", res.Modified)
	}
}

func TestApplyMultipleEditsAppliesInReverseOrder(t *testing.T) {
	edits := []Edit{
		{Range: element.Range{StartLine: 2, EndLine: 3}, Method: MethodDelete},
		{Range: element.Range{StartLine: 5, EndLine: 6}, Method: MethodDelete},
	}
	res, err := Apply(source, edits)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if strings.Contains(res.Modified, "def render") || strings.Contains(res.Modified, "def label") {
		t.Fatalf("expected both methods removed, got %q", res.Modified)
	}
	if !strings.Contains(res.Modified, "class Widget:") {
		t.Fatalf("expected the class header to survive, got %q", res.Modified)
	}
}

func TestInsertBeforePreservesIndentation(t *testing.T) {
	r := element.Range{StartLine: 2, EndLine: 3}
	res, err := Apply(source, []Edit{{Range: r, Method: MethodInsertBefore, Content: "@property"}})
	if err != nil {
		t.Fatalf("insert_before: %v", err)
	}
	if !strings.Contains(res.Modified, "    @property\n    def render") {
		t.Fatalf("expected indented decorator directly above def render, got %q", res.Modified)
	}
}

func TestApplyNoEditsErrors(t *testing.T) {
	if _, err := Apply(source, nil); err == nil {
		t.Fatalf("expected an error for an empty edit batch")
	}
}

func TestApplyUnknownMethodErrors(t *testing.T) {
	_, err := Apply(source, []Edit{{Range: element.Range{StartLine: 2, EndLine: 3}, Method: "bogus"}})
	if err == nil {
		t.Fatalf("expected an error for an unknown method")
	}
}

func TestApplyInvalidRangeErrors(t *testing.T) {
	_, err := Apply(source, []Edit{{Range: element.Range{StartLine: 50, EndLine: 51}, Method: MethodDelete}})
	if err == nil {
		t.Fatalf("expected an error for an out-of-bounds range")
	}
}
