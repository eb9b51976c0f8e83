package python

import (
	"context"
	"testing"

	pysitter "github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/extractor"
	extractorpy "github.com/oxhq/morfx/extractor/python"
	"github.com/oxhq/morfx/navigator"
)

const source = `import os


class Widget(Base):
    count = 0

    def __init__(self, name):
        self.name = name

    @property
    def label(self):
        return self.name

    @label.setter
    def label(self, value):
        self.name = value


def helper():
    return 1
`

func TestAssembleBuildsClassWithAccessorsAndFields(t *testing.T) {
	nav := navigator.New(pysitter.GetLanguage())
	src := []byte(source)
	tree, err := nav.Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()

	bundle := extractor.ExtractAll(context.Background(), extractorpy.New(), nav, tree.RootNode(), src)
	result, warnings := New().Assemble(bundle)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	if result.ImportGroup() == nil {
		t.Fatalf("expected an import_group element")
	}

	var class, fn *element.Element
	for _, e := range result.Elements {
		switch e.Kind {
		case element.KindClass:
			class = e
		case element.KindFunction:
			fn = e
		}
	}
	if class == nil || class.Name != "Widget" {
		t.Fatalf("expected Widget class, got %+v", class)
	}
	if fn == nil || fn.Name != "helper" {
		t.Fatalf("expected top-level helper function, got %+v", fn)
	}

	var getter, setter, init, field *element.Element
	for _, c := range class.Children {
		switch {
		case c.Kind == element.KindPropertyGetter:
			getter = c
		case c.Kind == element.KindPropertySetter:
			setter = c
		case c.Kind == element.KindMethod && c.Name == "__init__":
			init = c
		case c.Kind == element.KindPropertyField:
			field = c
		}
	}
	if getter == nil || setter == nil || init == nil || field == nil {
		t.Fatalf("expected getter, setter, __init__ method, and a property field under Widget; got %+v", class.Children)
	}

	var getterDecorator bool
	for _, d := range getter.Children {
		if d.Kind == element.KindDecorator && d.Name == "property" {
			getterDecorator = true
		}
	}
	if !getterDecorator {
		t.Fatalf("expected the getter to carry its @property decorator as a child")
	}

	var initParam *element.Element
	for _, c := range init.Children {
		if c.Kind == element.KindParameter {
			initParam = c
		}
	}
	if initParam == nil || initParam.Name != "name" {
		t.Fatalf("expected __init__ to carry a 'name' parameter child (self skipped), got %+v", init.Children)
	}
}
