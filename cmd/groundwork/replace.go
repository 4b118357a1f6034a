package main

import (
	"fmt"

	"groundwork/internal/fileutil"

	"github.com/spf13/cobra"
)

func newReplaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace <old> <new> [root]",
		Short: "Replace a string across a directory tree",
		Long: `Replace rewrites every text file under root (the working directory
when omitted) that contains the old string, substituting the new one.
Version control directories and binary files are left alone. File
permissions are preserved.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			root := "."
			if len(args) == 3 {
				root = args[2]
			}

			count, err := fileutil.ReplaceInFiles(root, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("Rewrote %d files\n", count)
			return nil
		},
	}

	return cmd
}
