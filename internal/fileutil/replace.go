package fileutil

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"groundwork/internal/logging"
)

// ReplaceInFiles rewrites every occurrence of old with new in the text
// files under root and returns the number of files changed. Binary
// files and well-known noise directories are skipped. The rewrite is
// transactional: either every affected file is updated or none is.
func ReplaceInFiles(root, old, new string) (int, error) {
	if old == "" {
		return 0, fmt.Errorf("replace: empty search string")
	}

	tx, err := NewFileTransaction()
	if err != nil {
		return 0, err
	}

	target := []byte(old)
	count := 0
	err = walkFiles(root, func(path string, d fs.DirEntry) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil // Skip unreadable files
		}
		if IsBinaryData(data) || !bytes.Contains(data, target) {
			return nil
		}

		mode := fs.FileMode(0644)
		if info, err := d.Info(); err == nil {
			mode = info.Mode()
		}

		rewritten := bytes.ReplaceAll(data, target, []byte(new))
		if err := tx.WriteWithMode(path, rewritten, mode); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("replace in %s: %w", root, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("replace in %s: %w", root, err)
	}

	logging.Debug("replaced text in files", "root", root, "files", count)
	return count, nil
}
