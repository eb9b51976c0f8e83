package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/morfx/element"
	"github.com/oxhq/morfx/pathresolver"
	"github.com/oxhq/morfx/registry"
)

func elementRangeOf(el *element.Element) element.Range {
	if el == nil {
		return element.Range{}
	}
	return el.Range
}

func newResolveCommand() *cobra.Command {
	var lang string
	var part string
	var storeDSN string

	cmd := &cobra.Command{
		Use:   "resolve <file> <path>",
		Short: "Resolve a dotted element path (e.g. Widget.render[method][body])",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, path := args[0], args[1]

			languageID, err := resolveLanguage(lang, file)
			if err != nil {
				return err
			}
			orch, ok := registry.Builtin().Get(languageID)
			if !ok {
				return fmt.Errorf("unsupported language %q", languageID)
			}

			source, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			ctx := context.Background()
			tree, _, err := orch.Extract(ctx, source)
			if err != nil {
				return err
			}

			el, warnings := pathresolver.Resolve(tree, path)
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "warning[%s]: %s\n", w.Code, w.Message)
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
					rng := elementRangeOf(el)
					_, _ = st.RecordLocate(ctx, sessionID, languageID, file, path, source, rng)
				}
			}

			if el == nil {
				fmt.Printf("%s: no match for %q\n", file, path)
				return nil
			}

			dialect := pathresolver.DialectCurlyBrace
			if languageID == "python" {
				dialect = pathresolver.DialectIndentation
			}

			content := el.Content
			if part == "" {
				if segs, perr := pathresolver.Parse(path); perr == nil && len(segs) > 0 && segs[len(segs)-1].HasPart {
					part = string(segs[len(segs)-1].Part)
				}
			}
			if part != "" {
				content = pathresolver.Slice(el.Content, pathresolver.Part(part), dialect)
			}
			fmt.Printf("%s: %s %s %s\n", file, el.Kind, el.Name, el.Range)
			if content != "" {
				fmt.Println(content)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language (auto-detected from extension if omitted)")
	cmd.Flags().StringVar(&part, "part", "", "project the matched element to a part: all, def, body, decorators, comments, doc, signature")
	cmd.Flags().StringVar(&storeDSN, "store", "", "record the resolution to this SQLite DSN")
	return cmd
}
