package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	attrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	levelStyle = map[slog.Level]lipgloss.Style{
		SlogLevelTrace:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")),
		slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE")),
		SlogLevelNotice: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706")),
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true),
	}
)

// ConsoleHandler is a slog.Handler that writes human-readable, styled
// lines instead of JSON. Interactive commands install it so log output
// blends with the rest of the terminal UI.
type ConsoleHandler struct {
	w     io.Writer
	level slog.Level
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

// NewConsoleHandler creates a ConsoleHandler writing to w, dropping
// records below level.
func NewConsoleHandler(w io.Writer, level slog.Level) *ConsoleHandler {
	return &ConsoleHandler{
		w:     w,
		level: level,
		mu:    &sync.Mutex{},
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(timeStyle.Render(r.Time.Format("15:04:05.000")))
	b.WriteString(" ")
	b.WriteString(renderLevel(r.Level))
	b.WriteString(" ")
	b.WriteString(r.Message)

	// Pre-set attrs were qualified in WithAttrs; only record attrs
	// take the current group prefix.
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func renderLevel(l slog.Level) string {
	name := levelName(l)
	if style, ok := levelStyle[l]; ok {
		return style.Render(name)
	}
	return name
}

func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "TRC"
	case l < slog.LevelInfo:
		return "DBG"
	case l < SlogLevelNotice:
		return "INF"
	case l < slog.LevelWarn:
		return "NTC"
	case l < slog.LevelError:
		return "WRN"
	default:
		return "ERR"
	}
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	b.WriteString(" ")
	b.WriteString(attrStyle.Render(fmt.Sprintf("%s=%v", key, a.Value.Resolve())))
}
