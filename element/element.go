package element

import "sort"

// Attributes is the finite, string-keyed bag of auxiliary facts carried by
// an Element (spec.md §3). Values are strings, booleans, numbers, lists of
// records, or nested maps — any JSON-safe shape.
type Attributes map[string]any

// Bool reads a boolean attribute, defaulting to false when absent or of
// the wrong type.
func (a Attributes) Bool(key string) bool {
	v, ok := a[key].(bool)
	return ok && v
}

// String reads a string attribute, defaulting to "".
func (a Attributes) String(key string) string {
	v, _ := a[key].(string)
	return v
}

// Records reads a []map[string]any attribute, defaulting to nil.
func (a Attributes) Records(key string) []map[string]any {
	v, _ := a[key].([]map[string]any)
	return v
}

// Element is an immutable record describing one code construct
// (spec.md §3). Once constructed it is never mutated; producing a new
// tree is the only supported form of "modification".
type Element struct {
	Kind       Kind
	Name       string
	Content    string
	Range      Range
	HasRange   bool
	ParentName string
	HasParent  bool
	ValueType  string
	Attributes Attributes
	Children   []*Element
}

// SortChildren orders e's children ascending by Range.StartLine, as
// required by spec.md §3's ordering clause. Elements with no range (the
// synthesized parameter/return-annotation children) sort before every
// range-bearing sibling, decorators included, and keep their relative
// order; range-bearing children are ordered by StartLine, stably.
func (e *Element) SortChildren() {
	sort.SliceStable(e.Children, func(i, j int) bool {
		a, b := e.Children[i], e.Children[j]
		if !a.HasRange && !b.HasRange {
			return false
		}
		if !a.HasRange {
			return true
		}
		if !b.HasRange {
			return false
		}
		return a.Range.StartLine < b.Range.StartLine
	})
}

// ChildrenOfKind returns the immediate children whose Kind equals k, in
// order.
func (e *Element) ChildrenOfKind(k Kind) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// ElementTree is the ordered forest of top-level elements produced by one
// extraction pass, exclusively owning them (spec.md §3, "Ownership and
// lifecycle").
type ElementTree struct {
	Elements []*Element
}

// NewElementTree constructs an empty tree.
func NewElementTree() *ElementTree {
	return &ElementTree{}
}

// Empty reports whether the tree has no top-level elements.
func (t *ElementTree) Empty() bool {
	return t == nil || len(t.Elements) == 0
}

// ImportGroup returns the tree's single import_group element, if any
// (spec.md §3 invariant 4: at most one per file).
func (t *ElementTree) ImportGroup() *Element {
	if t == nil {
		return nil
	}
	for _, el := range t.Elements {
		if el.Kind == KindImportGroup {
			return el
		}
	}
	return nil
}

// Walk visits every element in the tree, depth-first, pre-order.
func (t *ElementTree) Walk(fn func(*Element)) {
	if t == nil {
		return
	}
	var walk func([]*Element)
	walk = func(els []*Element) {
		for _, el := range els {
			fn(el)
			walk(el.Children)
		}
	}
	walk(t.Elements)
}
