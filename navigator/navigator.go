// Package navigator wraps a tree-sitter parser and exposes the small,
// engine-neutral surface the extractor and orchestrator need: running
// queries, reading node text/ranges, and walking ancestors. Callers never
// see *sitter.Node outside this package's own and the extractor and
// orchestrator packages' boundaries.
//
// Grounded on providers/base/provider.go's tree-walking helpers
// (walkTree/checkNode/findErrors) and on the flat/hierarchical capture
// grouping described by the query engine in original_source/codehem.
package navigator

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/morfx/element"
)

// Navigator runs queries and reads nodes for one parsed tree.
type Navigator struct {
	Language *sitter.Language
}

// New builds a Navigator bound to a tree-sitter language.
func New(lang *sitter.Language) *Navigator {
	return &Navigator{Language: lang}
}

// Parse parses source into a fresh tree. The caller owns the returned
// tree and must Close it.
func (n *Navigator) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(n.Language)
	return parser.ParseCtx(ctx, nil, source)
}

// MatchRecord is one grouped query result: capture name -> node.
type MatchRecord map[string]*sitter.Node

// ExecuteQuery runs a tree-sitter query against root and groups the
// returned captures into match records per spec.md §4.A's "Query result
// grouping" rule:
//
//   - Flat regime (single capture name): one record per node.
//   - Hierarchical regime (multiple capture names): if any capture has
//     more than one node, sort every capture's nodes by start point and
//     pair by index (max_len records); otherwise emit one record with the
//     first node of every capture.
func (n *Navigator) ExecuteQuery(root *sitter.Node, source []byte, queryText string) ([]MatchRecord, error) {
	q, err := sitter.NewQuery([]byte(queryText), n.Language)
	if err != nil {
		return nil, element.NewError(element.CodeBadQuery, "%v", err)
	}

	cursor := sitter.NewQueryCursor()
	cursor.Exec(q, root)

	captures := map[string][]*sitter.Node{}
	var order []string
	seen := map[string]bool{}

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		for _, cap := range match.Captures {
			name := q.CaptureNameForId(cap.Index)
			node := cap.Node
			captures[name] = append(captures[name], node)
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}

	if len(order) == 0 {
		return nil, nil
	}

	if len(order) == 1 {
		name := order[0]
		records := make([]MatchRecord, 0, len(captures[name]))
		for _, node := range captures[name] {
			records = append(records, MatchRecord{name: node})
		}
		return records, nil
	}

	// Hierarchical regime.
	multi := false
	maxLen := 0
	for _, name := range order {
		sortByStart(captures[name])
		if len(captures[name]) > 1 {
			multi = true
		}
		if len(captures[name]) > maxLen {
			maxLen = len(captures[name])
		}
	}

	if !multi {
		rec := MatchRecord{}
		for _, name := range order {
			if len(captures[name]) > 0 {
				rec[name] = captures[name][0]
			}
		}
		return []MatchRecord{rec}, nil
	}

	records := make([]MatchRecord, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		rec := MatchRecord{}
		for _, name := range order {
			nodes := captures[name]
			if i < len(nodes) {
				rec[name] = nodes[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func sortByStart(nodes []*sitter.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].StartPoint(), nodes[j].StartPoint()
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Column < b.Column
	})
}

// NodeText returns the exact byte slice of node's span in source. A nil
// node returns the empty string rather than panicking (spec.md §4.A
// "Failure semantics").
func (n *Navigator) NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// NodeRange returns node's 1-based, inclusive line range. A nil node
// returns (0, 0).
func (n *Navigator) NodeRange(node *sitter.Node) (start, end int) {
	if node == nil {
		return 0, 0
	}
	return int(node.StartPoint().Row) + 1, int(node.EndPoint().Row) + 1
}

// NodeColumns returns node's 0-based start/end byte columns within their
// respective lines.
func (n *Navigator) NodeColumns(node *sitter.Node) (start, end int) {
	if node == nil {
		return 0, 0
	}
	return int(node.StartPoint().Column), int(node.EndPoint().Column)
}

// ElementRange converts a node into an element.Range, or the zero Range
// for a nil node.
func (n *Navigator) ElementRange(node *sitter.Node) element.Range {
	if node == nil {
		return element.Range{}
	}
	startLine, endLine := n.NodeRange(node)
	startCol, endCol := n.NodeColumns(node)
	return element.Range{
		StartLine: startLine, EndLine: endLine,
		StartColumn: startCol, EndColumn: endCol,
		HasColumns: true,
	}
}

// ChildByField returns node's named field child, or nil.
func (n *Navigator) ChildByField(node *sitter.Node, field string) *sitter.Node {
	if node == nil {
		return nil
	}
	return node.ChildByFieldName(field)
}

// AncestorOfKinds walks node's parents until it finds one whose tree-sitter
// node type is in kinds, or returns nil.
func (n *Navigator) AncestorOfKinds(node *sitter.Node, kinds []string) *sitter.Node {
	if node == nil {
		return nil
	}
	set := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	for p := node.Parent(); p != nil; p = p.Parent() {
		if _, ok := set[p.Type()]; ok {
			return p
		}
	}
	return nil
}

// Walk visits every node in the tree rooted at root, depth-first,
// pre-order.
func (n *Navigator) Walk(root *sitter.Node, fn func(*sitter.Node)) {
	if root == nil {
		return
	}
	fn(root)
	for i := 0; i < int(root.ChildCount()); i++ {
		n.Walk(root.Child(i), fn)
	}
}

// FindErrors reports every ERROR node under root, as 1-based line/column
// positions, mirroring providers/base/provider.go's findErrors.
func (n *Navigator) FindErrors(root *sitter.Node) []element.Range {
	var out []element.Range
	n.Walk(root, func(node *sitter.Node) {
		if node.Type() == "ERROR" {
			out = append(out, n.ElementRange(node))
		}
	})
	return out
}
