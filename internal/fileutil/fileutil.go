// Package fileutil provides the toolkit's filesystem helpers: atomic
// writes, multi-file transactions, copying, sizing, searching, and
// bulk text replacement. Errors wrap the underlying os sentinels so
// callers can test with errors.Is.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Directories skipped by tree walks (search, replace, dir sizing of
// source trees is unaffected).
var skipDirNames = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"__pycache__":  true,
	"node_modules": true,
	".venv":        true,
	"vendor":       true,
}

// EnsureDir creates path and any missing parents. An existing
// directory is fine.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("ensure dir %s: %w", path, err)
	}
	return nil
}

// RemoveDir removes path and everything under it. A missing path is
// fine.
func RemoveDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove dir %s: %w", path, err)
	}
	return nil
}

// SafeCreate creates an empty file at path, creating parents as
// needed. It fails with os.ErrExist if the file is already there.
func SafeCreate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return f.Close()
}

// CopyFile copies a single file, preserving its mode. Without
// overwrite an existing destination fails with os.ErrExist.
func CopyFile(src, dst string, overwrite bool) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("copy %s: source is a directory", src)
	}

	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("copy to %s: %w", dst, os.ErrExist)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// CopyDir copies a directory tree and returns the number of files
// copied. Entries matching an ignore pattern (tried against the path
// relative to src and against the base name) are skipped. Without
// overwrite an existing destination fails with os.ErrExist.
func CopyDir(src, dst string, overwrite bool, ignore []string) (int, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", src, err)
	}
	if !srcInfo.IsDir() {
		return 0, fmt.Errorf("copy %s: source is not a directory", src)
	}

	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return 0, fmt.Errorf("copy to %s: %w", dst, os.ErrExist)
		}
	}

	return copyTree(src, dst, src, srcInfo.Mode(), ignore)
}

func copyTree(src, dst, root string, mode os.FileMode, ignore []string) (int, error) {
	if err := os.MkdirAll(dst, mode); err != nil {
		return 0, fmt.Errorf("copy to %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", src, err)
	}

	copied := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if ignoredPath(srcPath, root, ignore) {
			continue
		}

		if entry.IsDir() {
			info, err := entry.Info()
			if err != nil {
				return copied, fmt.Errorf("copy %s: %w", srcPath, err)
			}
			n, err := copyTree(srcPath, dstPath, root, info.Mode(), ignore)
			copied += n
			if err != nil {
				return copied, err
			}
		} else {
			if err := CopyFile(srcPath, dstPath, true); err != nil {
				return copied, err
			}
			copied++
		}
	}
	return copied, nil
}

func ignoredPath(path, root string, ignore []string) bool {
	if len(ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, pattern := range ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// RenameDir renames a directory, falling back to copy-and-remove when
// rename fails (typically a cross-device move).
func RenameDir(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err == nil {
		return nil
	}

	if _, err := CopyDir(oldPath, newPath, false, nil); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	return RemoveDir(oldPath)
}

// FileSize returns the size of a regular file in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("size %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("size %s: is a directory", path)
	}
	return info.Size(), nil
}

// DirSize returns the total size of all files under path.
func DirSize(path string) (int64, error) {
	var total int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("size %s: %w", path, err)
	}
	return total, nil
}

// FormatSize renders a byte count in human units.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// IsBinaryData reports whether data looks binary: a NUL byte within
// the first KiB.
func IsBinaryData(data []byte) bool {
	limit := len(data)
	if limit > 1024 {
		limit = 1024
	}
	for _, b := range data[:limit] {
		if b == 0 {
			return true
		}
	}
	return false
}

// IsBinary reports whether the file at path looks binary.
func IsBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return IsBinaryData(buf[:n]), nil
}
