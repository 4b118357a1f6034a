package fileutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// CompareFiles returns a unified diff of two text files, or the empty
// string when their contents are identical.
func CompareFiles(a, b string) (string, error) {
	dataA, err := os.ReadFile(a)
	if err != nil {
		return "", fmt.Errorf("compare %s: %w", a, err)
	}
	dataB, err := os.ReadFile(b)
	if err != nil {
		return "", fmt.Errorf("compare %s: %w", b, err)
	}
	if IsBinaryData(dataA) || IsBinaryData(dataB) {
		return "", fmt.Errorf("compare %s %s: binary files", a, b)
	}

	if string(dataA) == string(dataB) {
		return "", nil
	}
	return Diff(string(dataA), string(dataB), a, b), nil
}

// Diff renders a unified diff between two texts.
func Diff(oldText, newText, oldLabel, newLabel string) string {
	dmp := diffmatchpatch.New()

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", oldLabel))
	result.WriteString(fmt.Sprintf("+++ %s\n", newLabel))

	diffs := dmp.DiffMain(oldText, newText, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	for _, d := range diffs {
		lines := strings.Split(d.Text, "\n")
		for i, line := range lines {
			// Skip empty trailing element from split
			if i == len(lines)-1 && line == "" {
				continue
			}

			switch d.Type {
			case diffmatchpatch.DiffEqual:
				result.WriteString(fmt.Sprintf(" %s\n", line))
			case diffmatchpatch.DiffDelete:
				result.WriteString(fmt.Sprintf("-%s\n", line))
			case diffmatchpatch.DiffInsert:
				result.WriteString(fmt.Sprintf("+%s\n", line))
			}
		}
	}

	return result.String()
}
