// Package manipulator rewrites source text given a Range previously
// produced by orchestrator.Locate or an element.Element from
// orchestrator.Extract. It is an external collaborator per spec.md
// §1/§6: it never runs inside Extract/Locate, only consumes their
// output.
//
// Grounded on providers/base/provider.go's doReplace/doDelete/
// doInsertBefore/doInsertAfter/doAppendToTarget (byte-offset splicing,
// reverse-sorted target application to preserve earlier offsets,
// indentation-preserving insertion) and generateDiff, adapted from
// *sitter.Node byte offsets to element.Range's 1-based line offsets
// since the engine's public surface is line-oriented, not node-oriented.
package manipulator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/morfx/element"
)

// Method names the kind of splice to apply, mirroring core.TransformOp's
// Method field.
type Method string

const (
	MethodReplace      Method = "replace"
	MethodDelete       Method = "delete"
	MethodInsertBefore Method = "insert_before"
	MethodInsertAfter  Method = "insert_after"
	MethodAppend       Method = "append"
)

// Edit describes one splice against a Range: a line interval plus the
// method and content to apply there.
type Edit struct {
	Range   element.Range
	Method  Method
	Content string
}

// Result carries the rewritten source plus a unified diff against the
// original, mirroring core.TransformResult.
type Result struct {
	Modified string
	Diff     string
}

// lineOffsets returns the byte offset of the start of each line (1-based
// index 1..n+1, offsets[0] unused) so a 1-based line number can be
// turned into a byte position without re-scanning the source per edit.
func lineOffsets(source string) []int {
	offsets := []int{0, 0}
	for i, ch := range source {
		if ch == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// byteRange converts a 1-based, line-inclusive Range into [start,end)
// byte offsets into source, extending through the trailing newline of
// EndLine so a replacement cleanly removes whole lines.
func byteRange(offsets []int, source string, r element.Range) (int, int, bool) {
	if r.IsZero() || r.StartLine < 1 || r.StartLine > len(offsets)-1 {
		return 0, 0, false
	}
	start := offsets[r.StartLine]
	endLine := r.EndLine
	if endLine > len(offsets)-1 {
		endLine = len(offsets) - 1
	}
	var end int
	if endLine+1 < len(offsets) {
		end = offsets[endLine+1]
	} else {
		end = len(source)
	}
	if start > len(source) {
		start = len(source)
	}
	if end > len(source) {
		end = len(source)
	}
	return start, end, true
}

func indentationAt(source string, byteOffset int) string {
	lineStart := strings.LastIndexByte(source[:byteOffset], '\n') + 1
	indent := ""
	for i := lineStart; i < len(source); i++ {
		if source[i] == ' ' || source[i] == '\t' {
			indent += string(source[i])
		} else {
			break
		}
	}
	return indent
}

// Apply runs a batch of edits against source, applying them in
// reverse line order so each splice's byte offsets stay valid despite
// earlier edits shifting later content (providers/base/provider.go's
// sortTargetsDescending rule).
func Apply(source string, edits []Edit) (Result, error) {
	if len(edits) == 0 {
		return Result{}, fmt.Errorf("manipulator: no edits to apply")
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.StartLine > sorted[j].Range.StartLine
	})

	result := source
	for _, e := range sorted {
		offsets := lineOffsets(result)
		start, end, ok := byteRange(offsets, result, e.Range)
		if !ok {
			return Result{}, fmt.Errorf("manipulator: invalid range %s for method %s", e.Range, e.Method)
		}

		var err error
		switch e.Method {
		case MethodReplace:
			result, err = replace(result, start, end, e.Content)
		case MethodDelete:
			result, err = replace(result, start, end, "")
		case MethodInsertBefore:
			result, err = insertBefore(result, start, e.Content)
		case MethodInsertAfter:
			result, err = insertAfter(result, end, e.Content)
		case MethodAppend:
			result, err = appendAfter(result, end, e.Content)
		default:
			return Result{}, fmt.Errorf("manipulator: unknown method %q", e.Method)
		}
		if err != nil {
			return Result{}, err
		}
	}

	return Result{Modified: result, Diff: unifiedDiff(source, result)}, nil
}

// Replace is the common single-target case: splice newContent over the
// lines named by r.
func Replace(source string, r element.Range, newContent string) (Result, error) {
	return Apply(source, []Edit{{Range: r, Method: MethodReplace, Content: newContent}})
}

// Delete removes the lines named by r entirely.
func Delete(source string, r element.Range) (Result, error) {
	return Apply(source, []Edit{{Range: r, Method: MethodDelete}})
}

func replace(source string, start, end int, content string) (string, error) {
	if start > len(source) || end > len(source) || start < 0 || end < 0 || start > end {
		return source, fmt.Errorf("manipulator: out-of-bounds splice [%d,%d) into %d bytes", start, end, len(source))
	}
	return source[:start] + content + source[end:], nil
}

func insertBefore(source string, at int, content string) (string, error) {
	if at > len(source) || at < 0 {
		return source, fmt.Errorf("manipulator: out-of-bounds insertion at %d", at)
	}
	indent := indentationAt(source, at)
	return source[:at] + indent + content + "\n" + source[at:], nil
}

func insertAfter(source string, at int, content string) (string, error) {
	if at > len(source) || at < 0 {
		return source, fmt.Errorf("manipulator: out-of-bounds insertion at %d", at)
	}
	indent := indentationAt(source, at)
	return source[:at] + indent + content + "\n" + source[at:], nil
}

func appendAfter(source string, at int, content string) (string, error) {
	if at > len(source) || at < 0 {
		return source, fmt.Errorf("manipulator: out-of-bounds append at %d", at)
	}
	return source[:at] + "\n" + content + source[at:], nil
}

func unifiedDiff(original, modified string) string {
	if original == modified {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        strings.Split(original, "\n"),
		B:        strings.Split(modified, "\n"),
		FromFile: "original",
		ToFile:   "modified",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- original\n+++ modified\n@@ changes @@\n%d bytes -> %d bytes", len(original), len(modified))
	}
	return text
}
