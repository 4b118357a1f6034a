package main

import (
	"fmt"
	"os"

	"groundwork/internal/scaffold"

	"github.com/spf13/cobra"
)

func newNewCmd() *cobra.Command {
	var (
		backend bool
		dest    string
		author  string
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Scaffold a new project",
		Long: `New generates a project skeleton from the built-in templates.

By default it creates a library package under the configured
destination directory, in a new directory named after the project.
With --backend it lays an HTTP service out in the current directory
instead, deriving the project name from the directory when no name is
given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var name string
			if len(args) > 0 {
				name = args[0]
			}

			kind := scaffold.Package
			if backend {
				kind = scaffold.Backend
			}

			if dest == "" {
				if backend {
					dest, err = os.Getwd()
					if err != nil {
						return fmt.Errorf("failed to get working directory: %w", err)
					}
				} else {
					dest = cfg.Scaffold.Dest
				}
			}
			if author == "" {
				author = cfg.Scaffold.Author
			}

			root, err := scaffold.Generate(dest, name, kind, author)
			if err != nil {
				return err
			}

			fmt.Printf("Created %s project at %s\n", kind, root)
			return nil
		},
	}

	cmd.Flags().BoolVar(&backend, "backend", false, "scaffold an HTTP service instead of a library package")
	cmd.Flags().StringVar(&dest, "dest", "", "destination directory (default from config; --backend defaults to the working directory)")
	cmd.Flags().StringVar(&author, "author", "", "author written into generated files (default from config)")

	return cmd
}
