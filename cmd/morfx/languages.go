package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxhq/morfx/registry"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the registered languages and their file extensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := registry.Builtin()
			for _, lang := range r.Languages() {
				fmt.Printf("%s\n", lang)
			}
			fmt.Printf("extensions: %v\n", r.Extensions())
			return nil
		},
	}
}
