package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"oculurum/internal/transcode"
)

type Model struct {
	updates   <-chan transcode.ProgressUpdate
	started   time.Time
	width     int
	total     int
	processed int
	skipped   int
	capacity  uint64
	written   uint64
	quitting  bool
}

type doneMsg struct{}

type updateMsg transcode.ProgressUpdate

func NewModel(updates <-chan transcode.ProgressUpdate) Model {
	return Model{updates: updates, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.processed += msg.ProcessedDelta
		m.skipped += msg.SkippedDelta
		m.capacity += msg.CapacityDelta
		m.written += msg.BytesDelta
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		// the run can't be cancelled, only the view detaches
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	bar := renderBar(barWidth, m.Ratio())
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("oculurum"),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.processed+m.skipped, m.total)) + dimStyle.Render(fmt.Sprintf("  skipped:%d", m.skipped)),
		labelStyle.Render(fmt.Sprintf("Bytes: %d/%d", m.written, m.capacity)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar),
	}

	return strings.Join(lines, "\n")
}

// Ratio is the filled share of the raster.
func (m Model) Ratio() float64 {
	if m.capacity == 0 {
		return 0
	}
	ratio := float64(m.written) / float64(m.capacity)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

func listenForUpdates(updates <-chan transcode.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	barStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
