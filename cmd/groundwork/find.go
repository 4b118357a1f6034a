package main

import (
	"fmt"

	"groundwork/internal/fileutil"

	"github.com/spf13/cobra"
)

func newFindCmd() *cobra.Command {
	var (
		namePattern string
		needle      string
	)

	cmd := &cobra.Command{
		Use:   "find [root]",
		Short: "Find files by name pattern or content",
		Long: `Find walks the given root (the working directory when omitted) and
prints the matching file paths, one per line. Version control
directories and binary files are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			var (
				paths []string
				err   error
			)
			switch {
			case namePattern != "" && needle != "":
				return fmt.Errorf("--name and --content are mutually exclusive")
			case namePattern != "":
				paths, err = fileutil.FindByName(root, namePattern)
			case needle != "":
				paths, err = fileutil.FindByContent(root, needle)
			default:
				return fmt.Errorf("one of --name or --content is required")
			}
			if err != nil {
				return err
			}

			for _, path := range paths {
				fmt.Println(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&namePattern, "name", "", "glob pattern matched against file paths and names")
	cmd.Flags().StringVar(&needle, "content", "", "substring searched for in file contents")

	return cmd
}
