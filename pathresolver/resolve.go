package pathresolver

import (
	"sort"

	"github.com/oxhq/morfx/element"
)

// kindProperty is the pseudo-kind the path grammar accepts that doesn't
// name a single element.Kind, mirroring ElementFilter.filter's relaxed
// PROPERTY matching; the relaxed METHOD matching reuses element.KindMethod
// (see kindMatches).
const kindProperty = element.Kind("property")

// kindMatches reports whether el's kind satisfies a segment's requested
// kind, including the two relaxations spec.md §4.E names: a `property`
// qualifier accepts any accessor or field kind, a `method` qualifier
// also accepts accessor kinds.
func kindMatches(want element.Kind, el element.Kind) bool {
	switch want {
	case kindProperty:
		switch el {
		case element.KindPropertyGetter, element.KindPropertySetter, element.KindPropertyField, element.KindStaticField:
			return true
		}
		return false
	case element.KindMethod:
		switch el {
		case element.KindMethod, element.KindPropertyGetter, element.KindPropertySetter:
			return true
		}
		return false
	default:
		return el == want
	}
}

// tieBreakRank implements spec.md §4.E's fixed precedence:
// property_setter > property_getter > method > static_field >
// property_field > class > interface > function. Kinds outside this
// list rank below all of them but are still eligible candidates.
func tieBreakRank(k element.Kind) int {
	switch k {
	case element.KindPropertySetter:
		return 8
	case element.KindPropertyGetter:
		return 7
	case element.KindMethod:
		return 6
	case element.KindStaticField:
		return 5
	case element.KindPropertyField:
		return 4
	case element.KindClass:
		return 3
	case element.KindInterface:
		return 2
	case element.KindFunction:
		return 1
	default:
		return 0
	}
}

// selectBest applies the tie-breaking rules to a candidate set already
// filtered by name and (if specified) kind: an exact kind match beats
// any relaxed match, then fixed kind precedence, then earliest start
// line.
func selectBest(candidates []*element.Element, seg Segment) *element.Element {
	if len(candidates) == 1 {
		return candidates[0]
	}
	if seg.HasKind {
		var exact []*element.Element
		for _, c := range candidates {
			if c.Kind == seg.Kind {
				exact = append(exact, c)
			}
		}
		if len(exact) > 0 {
			candidates = exact
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := tieBreakRank(candidates[i].Kind), tieBreakRank(candidates[j].Kind)
		if ri != rj {
			return ri > rj
		}
		return candidates[i].Range.StartLine < candidates[j].Range.StartLine
	})
	return candidates[0]
}

// Resolve walks tree segment by segment following path, returning the
// matched element or nil on any failure (spec.md §4.E "Failure
// semantics": every failure mode returns none, never an error).
func Resolve(tree *element.ElementTree, path string) (*element.Element, []element.Warning) {
	segments, parseErr := Parse(path)
	if parseErr != nil || len(segments) == 0 {
		return nil, nil
	}

	var warnings []element.Warning
	for _, seg := range segments {
		warnings = append(warnings, seg.Warnings...)
	}

	start := 0
	if segments[0].IsFile {
		start = 1
	}
	if len(segments) == start {
		// Path resolves to FILE itself; no specific element to return.
		return nil, warnings
	}

	context := tree.Elements
	var current *element.Element

	for i := start; i < len(segments); i++ {
		seg := segments[i]

		if seg.Name == "" && seg.HasKind && seg.Kind == element.KindImportGroup {
			for _, el := range context {
				if el.Kind == element.KindImportGroup {
					if i == len(segments)-1 {
						return el, warnings
					}
					warnings = append(warnings, element.Warning{Code: element.CodeUnsupported, Message: "cannot descend into import_group"})
					return nil, warnings
				}
			}
			return nil, warnings
		}

		var candidates []*element.Element
		for _, el := range context {
			if el.Name != seg.Name {
				continue
			}
			if seg.HasKind && !kindMatches(seg.Kind, el.Kind) {
				continue
			}
			candidates = append(candidates, el)
		}

		if len(candidates) == 0 {
			return nil, warnings
		}
		if len(candidates) > 1 && !seg.HasKind {
			warnings = append(warnings, element.Warning{Code: element.CodeAmbiguous, Message: "multiple candidates for " + seg.Name})
		}

		best := selectBest(candidates, seg)
		current = best

		if i == len(segments)-1 {
			break
		}
		context = best.Children
	}

	return current, warnings
}
