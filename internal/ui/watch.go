package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"groundwork/internal/highlight"
	"groundwork/internal/watcher"
)

const (
	eventBufferSize  = 200
	maxVisibleEvents = 10
	flashDuration    = 2 * time.Second
)

// tickMsg drives the relative-age refresh once a second.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// WatchModel is the interactive watch view.
type WatchModel struct {
	dirs     []string
	lockFile string

	buffer   *watcher.EventBuffer
	viewport viewport.Model
	hl       *highlight.Highlighter

	lastPath string
	batches  int
	flash    string
	flashAt  time.Time
	width    int
	height   int
	ready    bool
}

// NewWatchModel creates the watch view for the given watched
// directories.
func NewWatchModel(dirs []string, lockFile string, hl *highlight.Highlighter) WatchModel {
	vp := viewport.New(80, 16)
	vp.MouseWheelEnabled = true

	return WatchModel{
		dirs:     dirs,
		lockFile: lockFile,
		buffer:   watcher.NewEventBuffer(eventBufferSize),
		viewport: vp,
		hl:       hl,
	}
}

// Init starts the age-refresh ticker.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "y":
			m.copyLastPath()
			return m, nil
		case "c":
			m.buffer.Clear()
			m.lastPath = ""
			m.viewport.SetContent("")
			return m, nil
		}

	case watcher.BatchMsg:
		m.buffer.AddBatch(msg.Batch, msg.Time)
		m.batches++
		m.previewLatest(msg.Batch)
		return m, nil

	case tickMsg:
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the watch view.
func (m WatchModel) View() string {
	if !m.ready {
		return "starting watch..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("groundwork watch"))
	b.WriteString("  ")
	b.WriteString(HeaderStyle.Render(strings.Join(m.dirs, ", ")))
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(m.headerLine()))
	b.WriteString("\n\n")

	b.WriteString(m.renderEvents())
	b.WriteString("\n")
	b.WriteString(PanelStyle.Width(m.panelWidth()).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *WatchModel) headerLine() string {
	parts := []string{fmt.Sprintf("batches: %d", m.batches)}
	if m.lockFile != "" {
		parts = append(parts, "lock: "+m.lockFile)
	}
	return strings.Join(parts, "   ")
}

func (m *WatchModel) renderEvents() string {
	events := m.buffer.Recent(maxVisibleEvents)
	if len(events) == 0 {
		return HelpStyle.Render("waiting for changes...")
	}

	lines := make([]string, 0, len(events))
	// Newest at the top
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		line := fmt.Sprintf("%s %s %s",
			RenderKind(ev.Event.Kind),
			PathStyle.Render(m.relPath(ev.Event.Path)),
			AgeStyle.Render(age(ev.Time)),
		)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *WatchModel) renderFooter() string {
	if m.flash != "" && time.Since(m.flashAt) < flashDuration {
		return StatusStyle.Render(m.flash)
	}
	return HelpStyle.Render("y copy path · c clear · ↑/↓ scroll · q quit")
}

func (m *WatchModel) previewLatest(batch watcher.ChangeBatch) {
	for i := len(batch) - 1; i >= 0; i-- {
		if batch[i].Kind == watcher.Deleted {
			continue
		}

		path := batch[i].Path
		content, err := m.hl.HighlightFile(path)
		if err != nil {
			continue
		}

		m.lastPath = path
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return
	}
}

func (m *WatchModel) copyLastPath() {
	if m.lastPath == "" {
		m.setFlash("nothing to copy")
		return
	}
	if err := clipboard.WriteAll(m.lastPath); err != nil {
		m.setFlash("copy failed: " + err.Error())
		return
	}
	m.setFlash("copied " + m.relPath(m.lastPath))
}

func (m *WatchModel) setFlash(msg string) {
	m.flash = msg
	m.flashAt = time.Now()
}

func (m *WatchModel) resizeViewport() {
	m.viewport.Width = m.panelWidth() - 4
	// Title, header, event feed, borders, and footer sit around the
	// preview panel
	h := m.height - maxVisibleEvents - 8
	if h < 4 {
		h = 4
	}
	m.viewport.Height = h
}

func (m *WatchModel) panelWidth() int {
	if m.width < 20 {
		return 80
	}
	return m.width - 2
}

// relPath shortens path against the watched directories for display.
func (m *WatchModel) relPath(path string) string {
	for _, dir := range m.dirs {
		if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

func age(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

var _ tea.Model = WatchModel{}
