// Package highlight renders syntax-highlighted file previews and
// colored unified diffs for the watch view and the CLI.
package highlight

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"groundwork/internal/fileutil"
)

var (
	diffAddStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	diffRemoveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	diffHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true)
	diffContextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	lineNumStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Highlighter renders code through a chroma style.
type Highlighter struct {
	style     string
	formatter chroma.Formatter
}

// New creates a Highlighter using the named chroma style, falling back
// to monokai when the name is empty.
func New(style string) *Highlighter {
	if style == "" {
		style = "monokai"
	}

	return &Highlighter{
		style:     style,
		formatter: formatters.Get("terminal256"),
	}
}

// Style returns the configured style name.
func (h *Highlighter) Style() string {
	return h.style
}

// Highlight applies syntax highlighting to code based on language.
// On any tokenising or formatting failure the code comes back verbatim.
func (h *Highlighter) Highlight(code, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(h.style)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}

// HighlightFile reads a file and highlights it according to its
// detected language. Binary files are refused.
func (h *Highlighter) HighlightFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("highlight %s: %w", path, err)
	}
	if fileutil.IsBinaryData(data) {
		return "", fmt.Errorf("highlight %s: binary file", path)
	}

	return h.Highlight(string(data), h.DetectLanguage(path)), nil
}

// HighlightWithLineNumbers highlights code and prefixes each line with
// its number, starting at startLine.
func (h *Highlighter) HighlightWithLineNumbers(code, lang string, startLine int) string {
	highlighted := h.Highlight(code, lang)
	lines := strings.Split(highlighted, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lineNumStyle.Render(fmt.Sprintf("%4d", startLine+i)))
		result.WriteString(" │ ")
		result.WriteString(line)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// HighlightDiff colors a unified diff line by line.
func (h *Highlighter) HighlightDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	var result strings.Builder

	for i, line := range lines {
		var styled string
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			styled = diffHeaderStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			styled = diffHeaderStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			styled = diffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			styled = diffRemoveStyle.Render(line)
		default:
			styled = diffContextStyle.Render(line)
		}

		result.WriteString(styled)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// DetectLanguage maps a filename to a chroma lexer name.
func (h *Highlighter) DetectLanguage(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	extMap := map[string]string{
		".go":   "go",
		".py":   "python",
		".js":   "javascript",
		".ts":   "typescript",
		".rs":   "rust",
		".rb":   "ruby",
		".java": "java",
		".c":    "c",
		".h":    "c",
		".cpp":  "cpp",
		".sh":   "bash",
		".bash": "bash",
		".sql":  "sql",
		".html": "html",
		".css":  "css",
		".json": "json",
		".yaml": "yaml",
		".yml":  "yaml",
		".toml": "toml",
		".xml":  "xml",
		".md":   "markdown",
		".lua":  "lua",
	}
	if lang, ok := extMap[ext]; ok {
		return lang
	}

	base := strings.ToLower(filepath.Base(filename))
	filenameMap := map[string]string{
		"dockerfile": "docker",
		"makefile":   "makefile",
		".gitignore": "gitignore",
		".env":       "ini",
		"go.mod":     "gomod",
	}
	if lang, ok := filenameMap[base]; ok {
		return lang
	}

	if lexer := lexers.Match(filename); lexer != nil {
		return lexer.Config().Name
	}

	return "text"
}
