// Package scaffold generates new project trees from embedded
// templates. A package project lands under its own capitalized root
// directory; a backend project is generated into the destination
// itself. Generation is transactional, so a failure partway leaves
// nothing behind.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"groundwork/internal/fileutil"
	"groundwork/internal/logging"
)

//go:embed all:templates
var templates embed.FS

const (
	placeholderDir = "package_name"
	templateSuffix = ".tmpl"
)

// Kind selects which template tree a project is generated from.
type Kind int

const (
	// Package is a library project.
	Package Kind = iota
	// Backend is an HTTP service project.
	Backend
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Package:
		return "package"
	case Backend:
		return "backend"
	default:
		return "unknown"
	}
}

func (k Kind) templateRoot() string {
	if k == Backend {
		return "templates/backend"
	}
	return "templates/package"
}

// Name carries the spellings of a project name substituted into
// templates.
type Name struct {
	Snake   string // my_tool
	Dashed  string // my-tool
	Root    string // My-Tool
	Display string // My Tool
}

// NewName normalizes raw into its template spellings. Words may be
// separated by spaces, dashes, or underscores.
func NewName(raw string) (Name, error) {
	words := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(raw)), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	if len(words) == 0 {
		return Name{}, fmt.Errorf("scaffold: empty project name")
	}

	capitalized := make([]string, len(words))
	for i, w := range words {
		capitalized[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return Name{
		Snake:   strings.Join(words, "_"),
		Dashed:  strings.Join(words, "-"),
		Root:    strings.Join(capitalized, "-"),
		Display: strings.Join(capitalized, " "),
	}, nil
}

// Generate creates a new project and returns the path to its root.
// Package projects are created under dest in a directory named after
// the capitalized form of rawName; an existing root fails with
// os.ErrExist. Backend projects land in dest itself, and an empty
// rawName falls back to the destination's base name.
func Generate(dest, rawName string, kind Kind, author string) (string, error) {
	if rawName == "" && kind == Backend {
		abs, err := filepath.Abs(dest)
		if err != nil {
			return "", fmt.Errorf("scaffold: %w", err)
		}
		rawName = filepath.Base(abs)
	}

	name, err := NewName(rawName)
	if err != nil {
		return "", err
	}

	target := dest
	if kind == Package {
		target = filepath.Join(dest, name.Root)
		if _, err := os.Stat(target); err == nil {
			return "", fmt.Errorf("scaffold %s: %w", target, os.ErrExist)
		}
	} else if err := fileutil.EnsureDir(target); err != nil {
		return "", err
	}

	if author == "" {
		if u, err := user.Current(); err == nil {
			author = u.Username
		}
	}

	replacer := strings.NewReplacer(
		"<package_name>", name.Snake,
		"<package-name>", name.Dashed,
		"<Package Name>", name.Display,
		"<author>", author,
	)

	tx, err := fileutil.NewFileTransaction()
	if err != nil {
		return "", err
	}

	root := kind.templateRoot()
	err = fs.WalkDir(templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimSuffix(strings.TrimPrefix(p, root+"/"), templateSuffix)
		parts := strings.Split(rel, "/")
		for i, part := range parts {
			parts[i] = strings.ReplaceAll(part, placeholderDir, name.Snake)
		}
		outPath := filepath.Join(append([]string{target}, parts...)...)

		data, err := templates.ReadFile(p)
		if err != nil {
			return err
		}
		return tx.Write(outPath, []byte(replacer.Replace(string(data))))
	})
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("scaffold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("scaffold: %w", err)
	}

	logging.Info("project generated", "kind", kind.String(), "path", target)
	return target, nil
}
