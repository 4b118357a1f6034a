package fileutil

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FindByName returns the files under root whose relative path or base
// name matches the glob pattern, sorted.
func FindByName(root, pattern string) ([]string, error) {
	if pattern == "" {
		return nil, fmt.Errorf("find: empty pattern")
	}

	var matches []string
	err := walkFiles(root, func(path string, _ fs.DirEntry) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		rel = filepath.ToSlash(rel)
		base := filepath.Base(path)

		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			matches = append(matches, path)
			return nil
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", root, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// FindByContent returns the text files under root containing needle,
// sorted. Binary files are skipped.
func FindByContent(root, needle string) ([]string, error) {
	if needle == "" {
		return nil, fmt.Errorf("find: empty needle")
	}

	target := []byte(needle)
	var matches []string
	err := walkFiles(root, func(path string, _ fs.DirEntry) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil // Skip unreadable files
		}
		if IsBinaryData(data) {
			return nil
		}
		if bytes.Contains(data, target) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", root, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// walkFiles visits every regular file under root, skipping well-known
// noise directories. An unreadable root is an error; unreadable
// entries below it are skipped.
func walkFiles(root string, fn func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fn(path, d)
	})
}
