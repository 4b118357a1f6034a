package main

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed manual.md
var manual string

func newDocsCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Show the groundwork manual",
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				fmt.Print(manual)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle("dark"),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return fmt.Errorf("failed to create renderer: %w", err)
			}

			out, err := renderer.Render(manual)
			if err != nil {
				return fmt.Errorf("failed to render manual: %w", err)
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown without styling")

	return cmd
}
