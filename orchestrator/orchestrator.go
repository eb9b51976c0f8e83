// Package orchestrator composes the Navigator, an Extractor, and a
// PostProcessor behind a single entry point per language: Extract builds
// the full Element tree, Locate answers a single-node range query
// without building the tree.
//
// Grounded on providers/base.Provider, generalized from one AgentQuery
// DSL into the fixed extract/locate surface of spec.md §4.D, and on
// internal/provider/provider.go's split between a parse step and a
// higher-level contract.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/extractor"
	"github.com/oxhq/morfx/navigator"
)

// PostProcessor assembles a raw Bundle into an ElementTree. Implemented
// by postprocess/python.PostProcessor and postprocess/typescript.PostProcessor.
type PostProcessor interface {
	Assemble(bundle extractor.Bundle) (*element.ElementTree, []element.Warning)
}

// Orchestrator composes one language's Navigator, Extractor, and
// PostProcessor.
type Orchestrator struct {
	LanguageID string
	Nav        *navigator.Navigator
	Extractor  extractor.Extractor
	Post       PostProcessor
}

// New builds an Orchestrator for a single language.
func New(languageID string, lang *sitter.Language, ex extractor.Extractor, post PostProcessor) *Orchestrator {
	return &Orchestrator{
		LanguageID: languageID,
		Nav:        navigator.New(lang),
		Extractor:  ex,
		Post:       post,
	}
}

// Extract parses source, runs the extractor, and assembles the typed
// tree. Each call allocates its own parser and tree (spec.md §5): the
// Orchestrator itself holds no per-call state.
func (o *Orchestrator) Extract(ctx context.Context, source []byte) (*element.ElementTree, []element.Warning, error) {
	tree, err := o.Nav.Parse(ctx, source)
	if err != nil {
		return nil, nil, element.NewError(element.CodeBadQuery, "parse failed: %v", err)
	}
	defer tree.Close()

	if errs := o.Nav.FindErrors(tree.RootNode()); len(errs) > 0 {
		warnings := make([]element.Warning, 0, len(errs))
		for _, r := range errs {
			warnings = append(warnings, element.Warning{Code: element.CodeBadRange, Message: fmt.Sprintf("syntax error at %s", r.String())})
		}
		bundle := extractor.ExtractAll(ctx, o.Extractor, o.Nav, tree.RootNode(), source)
		result, assembleWarnings := o.Post.Assemble(bundle)
		return result, append(warnings, assembleWarnings...), nil
	}

	bundle := extractor.ExtractAll(ctx, o.Extractor, o.Nav, tree.RootNode(), source)
	result, warnings := o.Post.Assemble(bundle)
	return result, warnings, nil
}

// Locate finds the range of a single element identified by kind and
// name (and, optionally, parent name), without building the whole tree.
// It is the fast path spec.md §4.D and §4.A describe for the common
// single-target case: when o.Extractor implements extractor.Locator and
// reports a LocateSpec for kind, Locate runs a direct node-type query
// and returns the first structural match, never assembling a Bundle or
// an Element tree. It falls back to Extract+search when the extractor
// reports no spec for kind (e.g. the kind needs post-processing-derived
// classification, such as property_getter vs. property_setter, or a
// member-assembly decision).
func (o *Orchestrator) Locate(ctx context.Context, source []byte, kind element.Kind, name, parentName string) (element.Range, error) {
	tree, err := o.Nav.Parse(ctx, source)
	if err != nil {
		return element.Range{}, element.NewError(element.CodeBadQuery, "parse failed: %v", err)
	}
	defer tree.Close()

	if locator, ok := o.Extractor.(extractor.Locator); ok {
		if spec, ok := locator.LocateSpec(kind); ok {
			return o.locateFast(tree.RootNode(), source, spec, name, parentName)
		}
	}

	result, _, err := o.Extract(ctx, source)
	if err != nil {
		return element.Range{}, err
	}

	var found *element.Element
	result.Walk(func(e *element.Element) {
		if found != nil {
			return
		}
		if e.Kind != kind || e.Name != name {
			return
		}
		if parentName != "" && (!e.HasParent || e.ParentName != parentName) {
			return
		}
		found = e
	})
	if found == nil {
		return element.Range{}, nil
	}
	return found.Range, nil
}

// locateFast runs spec's direct node-type query against root and
// returns the first match whose name (and, when parentName is
// non-empty, enclosing class name) equals the requested values.
func (o *Orchestrator) locateFast(root *sitter.Node, source []byte, spec extractor.LocateSpec, name, parentName string) (element.Range, error) {
	query := nodeTypeQuery(spec.NodeTypes)
	matches, err := o.Nav.ExecuteQuery(root, source, query)
	if err != nil {
		return element.Range{}, err
	}

	for _, rec := range matches {
		node := rec["n"]
		if node == nil {
			continue
		}
		if nodeName := o.Nav.NodeText(o.Nav.ChildByField(node, spec.NameField), source); nodeName != name {
			continue
		}
		if len(spec.ExcludeInside) > 0 && o.Nav.AncestorOfKinds(node, spec.ExcludeInside) != nil {
			continue
		}
		if len(spec.ClassNodeTypes) > 0 {
			classNode := o.Nav.AncestorOfKinds(node, spec.ClassNodeTypes)
			if classNode == nil {
				continue
			}
			if parentName != "" && o.Nav.NodeText(o.Nav.ChildByField(classNode, spec.NameField), source) != parentName {
				continue
			}
		} else if parentName != "" {
			continue
		}

		rangeNode := node
		if dec := node.Parent(); dec != nil && dec.Type() == "decorated_definition" {
			rangeNode = dec
		}
		return o.Nav.ElementRange(rangeNode), nil
	}
	return element.Range{}, nil
}

func nodeTypeQuery(nodeTypes []string) string {
	if len(nodeTypes) == 1 {
		return "(" + nodeTypes[0] + ") @n"
	}
	alts := make([]string, 0, len(nodeTypes))
	for _, t := range nodeTypes {
		alts = append(alts, "("+t+")")
	}
	return "[" + strings.Join(alts, " ") + "] @n"
}
