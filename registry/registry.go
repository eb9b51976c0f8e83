// Package registry maps a language identifier or file extension to a
// factory producing an orchestrator.Orchestrator for that language.
//
// Grounded on providers/contract.go's Registry (Register/Get/List/
// Languages), generalized from a map of live Provider instances to a
// map of factories plus an extension index, and frozen after
// construction per spec.md §4.F/§5/§9.
package registry

import (
	"fmt"
	"sort"

	"github.com/oxhq/morfx/orchestrator"
)

// Factory builds a fresh Orchestrator for one language. Orchestrators
// are cheap to construct (they hold no per-call state beyond their
// Navigator's language pointer), so the registry stores factories
// rather than shared instances.
type Factory func() *orchestrator.Orchestrator

// Entry describes one registered language.
type Entry struct {
	Language   string
	Extensions []string
	New        Factory
}

// Registry is an immutable identifier/extension -> Factory index. It is
// built once via New and never mutated afterward: there is no Register
// method on the zero value, unlike the teacher's mutable Registry,
// because spec.md §9 flags the teacher's global mutable registry as a
// design smell to drop.
type Registry struct {
	byLanguage  map[string]Entry
	byExtension map[string]Entry
	languages   []string
}

// New builds a frozen Registry from a fixed set of entries. It panics
// on a nil factory or a duplicate language/extension, mirroring
// providers/base/provider.go's panic-on-misconfiguration style: these
// are programmer errors discovered at startup, not runtime failures.
func New(entries ...Entry) *Registry {
	r := &Registry{
		byLanguage:  make(map[string]Entry, len(entries)),
		byExtension: make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if e.New == nil {
			panic(fmt.Sprintf("registry: nil factory for language %q", e.Language))
		}
		if e.Language == "" {
			panic("registry: empty language identifier")
		}
		if _, dup := r.byLanguage[e.Language]; dup {
			panic(fmt.Sprintf("registry: duplicate language %q", e.Language))
		}
		r.byLanguage[e.Language] = e
		r.languages = append(r.languages, e.Language)

		for _, ext := range e.Extensions {
			if _, dup := r.byExtension[ext]; dup {
				panic(fmt.Sprintf("registry: duplicate extension %q", ext))
			}
			r.byExtension[ext] = e
		}
	}
	sort.Strings(r.languages)
	return r
}

// Get returns a fresh Orchestrator for a language identifier, and false
// if the identifier is unregistered.
func (r *Registry) Get(language string) (*orchestrator.Orchestrator, bool) {
	e, ok := r.byLanguage[language]
	if !ok {
		return nil, false
	}
	return e.New(), true
}

// GetByExtension resolves a file extension (including its leading dot,
// e.g. ".py") to a fresh Orchestrator.
func (r *Registry) GetByExtension(ext string) (*orchestrator.Orchestrator, bool) {
	e, ok := r.byExtension[ext]
	if !ok {
		return nil, false
	}
	return e.New(), true
}

// Languages returns the registered language identifiers in sorted order.
func (r *Registry) Languages() []string {
	out := make([]string, len(r.languages))
	copy(out, r.languages)
	return out
}

// Extensions returns every registered extension across all languages,
// sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
