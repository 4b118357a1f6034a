package main

import (
	"fmt"
	"os"

	"groundwork/internal/fileutil"

	"github.com/spf13/cobra"
)

func newSizeCmd() *cobra.Command {
	var rawBytes bool

	cmd := &cobra.Command{
		Use:   "size [path...]",
		Short: "Report the size of files or directory trees",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			for _, path := range paths {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}

				var size int64
				if info.IsDir() {
					size, err = fileutil.DirSize(path)
				} else {
					size, err = fileutil.FileSize(path)
				}
				if err != nil {
					return err
				}

				if rawBytes {
					fmt.Printf("%d\t%s\n", size, path)
				} else {
					fmt.Printf("%s\t%s\n", fileutil.FormatSize(size), path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rawBytes, "bytes", false, "print raw byte counts instead of human-readable sizes")

	return cmd
}
