package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/registry"
)

func newLocateCommand() *cobra.Command {
	var lang string
	var kind string
	var parentName string
	var storeDSN string

	cmd := &cobra.Command{
		Use:   "locate <file> <name>",
		Short: "Find the range of a single named element of a given kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name := args[0], args[1]

			k := element.Kind(kind)
			if kind == "" {
				k = element.KindFunction
			} else if !k.Valid() {
				return fmt.Errorf("unrecognized --kind %q", kind)
			}

			languageID, err := resolveLanguage(lang, path)
			if err != nil {
				return err
			}
			orch, ok := registry.Builtin().Get(languageID)
			if !ok {
				return fmt.Errorf("unsupported language %q", languageID)
			}

			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			ctx := context.Background()
			rng, err := orch.Locate(ctx, source, k, name, parentName)
			if err != nil {
				return err
			}

			st, err := openStore(storeDSN)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
				sessionID, err := st.NewSession(ctx)
				if err == nil {
					defer st.EndSession(ctx, sessionID)
					query := name
					if parentName != "" {
						query = parentName + "." + name
					}
					_, _ = st.RecordLocate(ctx, sessionID, languageID, path, query, source, rng)
				}
			}

			if rng.IsZero() {
				fmt.Printf("%s: no match for %s %q\n", path, kind, name)
				return nil
			}
			fmt.Printf("%s: %s\n", path, rng)
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language (auto-detected from extension if omitted)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "function", "element kind to search for")
	cmd.Flags().StringVarP(&parentName, "parent", "p", "", "restrict the search to children of this parent element")
	cmd.Flags().StringVar(&storeDSN, "store", "", "record the lookup to this SQLite DSN")
	return cmd
}
