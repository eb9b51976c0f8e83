package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"extract", "locate", "resolve", "languages"} {
		if !names[want] {
			t.Fatalf("expected root command to register %q, got %v", want, names)
		}
	}
}

func TestResolveLanguageInfersFromExtension(t *testing.T) {
	lang, err := resolveLanguage("", "widget.py")
	if err != nil {
		t.Fatalf("resolveLanguage: %v", err)
	}
	if lang != "python" {
		t.Fatalf("expected python, got %q", lang)
	}
}

func TestResolveLanguageExplicitOverridesExtension(t *testing.T) {
	lang, err := resolveLanguage("typescript", "widget.py")
	if err != nil {
		t.Fatalf("resolveLanguage: %v", err)
	}
	if lang != "typescript" {
		t.Fatalf("expected explicit override typescript, got %q", lang)
	}
}

func TestResolveLanguageUnknownExtensionErrors(t *testing.T) {
	if _, err := resolveLanguage("", "widget.rb"); err == nil {
		t.Fatalf("expected an error for an unrecognized extension")
	}
}

func TestExpandPatternsMatchesLiteralFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	if err := os.WriteFile(path, []byte("def f():\n    pass\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := expandPatterns([]string{path})
	if err != nil {
		t.Fatalf("expandPatterns: %v", err)
	}
	if len(got) != 1 || got[0] != path {
		t.Fatalf("expected [%s], got %v", path, got)
	}
}

func TestExpandPatternsMatchesGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.py", "b.py", "c.ts"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	got, err := expandPatterns([]string{filepath.Join(dir, "*.py")})
	if err != nil {
		t.Fatalf("expandPatterns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", got)
	}
}

func TestOpenStoreBlankDSNDisabled(t *testing.T) {
	s, err := openStore("")
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil store for a blank DSN")
	}
}
