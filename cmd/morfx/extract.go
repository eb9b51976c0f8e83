package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/registry"
)

func newExtractCommand() *cobra.Command {
	var lang string
	var asJSON bool
	var storeDSN string

	cmd := &cobra.Command{
		Use:   "extract <pattern>...",
		Short: "Parse files and print their element tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files matched %v", args)
			}

			st, err := openStore(storeDSN)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			r := registry.Builtin()
			ctx := context.Background()
			var sessionID string
			if st != nil {
				sessionID, err = st.NewSession(ctx)
				if err != nil {
					return err
				}
				defer st.EndSession(ctx, sessionID)
			}

			for _, path := range paths {
				languageID, err := resolveLanguage(lang, path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					continue
				}
				orch, ok := r.Get(languageID)
				if !ok {
					fmt.Fprintf(os.Stderr, "%s: unsupported language %q\n", path, languageID)
					continue
				}

				source, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					continue
				}

				tree, warnings, err := orch.Extract(ctx, source)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					continue
				}

				if st != nil {
					if _, err := st.RecordExtraction(ctx, sessionID, languageID, path, source, tree, warnings); err != nil {
						fmt.Fprintf(os.Stderr, "%s: recording extraction: %v\n", path, err)
					}
				}

				if err := printExtraction(path, tree, warnings, asJSON); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language (auto-detected from extension if omitted)")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "print elements as JSON")
	cmd.Flags().StringVar(&storeDSN, "store", "", "record extraction history to this SQLite DSN")
	return cmd
}

func printExtraction(path string, tree *element.ElementTree, warnings []element.Warning, asJSON bool) error {
	if asJSON {
		out := struct {
			Path     string              `json:"path"`
			Elements []element.Serialized `json:"elements"`
			Warnings []element.Warning    `json:"warnings,omitempty"`
		}{Path: path, Elements: tree.Serialize(), Warnings: warnings}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("%s\n", path)
	tree.Walk(func(e *element.Element) {
		if e.HasParent {
			fmt.Printf("    %s %s.%s %s\n", e.Kind, e.ParentName, e.Name, e.Range)
			return
		}
		fmt.Printf("  %s %s %s\n", e.Kind, e.Name, e.Range)
	})
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  warning[%s]: %s\n", w.Code, w.Message)
	}
	return nil
}
