// Command morfx extracts, locates, and resolves code elements across
// Python, TypeScript, and JavaScript source files from the command
// line.
//
// Adapted from the teacher's cmd/morfx entry point and demo/cmd/main.go:
// kept the cobra root-command-plus-subcommands shape and the stdlib-only
// diagnostics style (fmt to stderr, no third-party logger: the teacher's own
// CLI never imports one), dropped the line-based DSL/pflag front end in
// favor of the dotted-path query language this engine implements.
package main

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oxhq/morfx/registry"
	"github.com/oxhq/morfx/store"
)

func main() {
	// Non-fatal: a missing .env is the common case outside development,
	// mirroring db/sqlite_integration_test.go's `_ = godotenv.Load()`.
	_ = godotenv.Load()

	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "morfx",
		Short: "Language-aware code element extraction and path resolution",
		Long:  "morfx parses source files with tree-sitter and exposes their functions, classes, and members as addressable elements.",
	}

	cmd.AddCommand(newExtractCommand())
	cmd.AddCommand(newLocateCommand())
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newLanguagesCommand())
	return cmd
}

// openStore opens the optional history database named by --store (or
// MORFX_STORE_DSN from the environment/`.env`). A blank DSN disables
// persistence: recording extraction/locate history is an add-on, not a
// prerequisite for any command to function.
func openStore(dsn string) (*store.Store, error) {
	if dsn == "" {
		dsn = os.Getenv("MORFX_STORE_DSN")
	}
	if dsn == "" {
		return nil, nil
	}
	s, err := store.Open(dsn, false)
	if err != nil {
		return nil, fmt.Errorf("opening store at %q: %w", dsn, err)
	}
	return s, nil
}

// resolveLanguage returns the explicit --lang value, or infers one from
// path's extension against the builtin registry.
func resolveLanguage(explicit, path string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	ext := extOf(path)
	orch, ok := registry.Builtin().GetByExtension(ext)
	if !ok {
		return "", fmt.Errorf("cannot infer language for %q: unrecognized extension %q, pass --lang", path, ext)
	}
	return orch.LanguageID, nil
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' || path[i] == '\\' {
			break
		}
	}
	return ""
}

// expandPatterns resolves a mix of literal paths and doublestar glob
// patterns (e.g. "src/**/*.py") into a deduplicated file list, in the
// order the patterns and their matches were encountered,
// grounded on core/filewalker.go's doublestar.PathMatch usage.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if info, err := os.Stat(pattern); err == nil && !info.IsDir() {
				matches = []string{pattern}
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}
