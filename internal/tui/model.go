// Package tui provides the Bubble Tea live view of a running simulation.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/libsim/internal/library"
	"github.com/verte-zerg/libsim/internal/model"
	"github.com/verte-zerg/libsim/internal/sim"
)

const defaultTickInterval = 300 * time.Millisecond

var (
	dayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	borrowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	returnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	quietStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

type tickMsg time.Time

// Model implements the Bubble Tea watch UI: one simulated day per tick.
type Model struct {
	run      *sim.Run
	interval time.Duration

	records []model.DayRecord
	paused  bool
	done    bool

	width  int
	height int
}

// NewModel constructs a watch model over an unstarted run.
func NewModel(run *sim.Run) *Model {
	return &Model{run: run, interval: defaultTickInterval}
}

// Run exposes the underlying simulation for post-quit reporting.
func (m *Model) Run() *sim.Run {
	return m.run
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done {
				m.paused = !m.paused
			}
			return m, nil
		default:
			return m, nil
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, m.tick()
		}
		rec := m.run.Step()
		m.records = append(m.records, rec)
		if m.run.Done() {
			m.done = true
			return m, nil
		}
		return m, m.tick()
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderLog())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) renderLog() string {
	visible := m.records
	if m.height > 2 && len(visible) > m.height-2 {
		visible = visible[len(visible)-(m.height-2):]
	}
	lines := make([]string, 0, len(visible))
	for _, rec := range visible {
		lines = append(lines, formatDayLine(rec, titleBudget(m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Day %d/%d", m.run.Day(), m.run.Days()),
		fmt.Sprintf("Borrows %d", library.TotalBorrows(m.run.Records())),
		fmt.Sprintf("Out %d", m.run.Library().UnreturnedCount()),
	}
	switch {
	case m.done:
		segments = append(segments, doneStyle.Render("done · q to quit"))
	case m.paused:
		segments = append(segments, "paused · space to resume")
	default:
		segments = append(segments, "space to pause · q to quit")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// FormatDayLine renders one day record as a styled log line.
func FormatDayLine(rec model.DayRecord) string {
	return formatDayLine(rec, 0)
}

func formatDayLine(rec model.DayRecord, titleWidth int) string {
	prefix := dayStyle.Render(fmt.Sprintf("Day %3d", rec.Day))
	parts := []string{}
	if rec.BorrowedTitle != "" {
		parts = append(parts, borrowStyle.Render(fmt.Sprintf("borrowed %q", clipTitle(rec.BorrowedTitle, titleWidth))))
	}
	if rec.ReturnedTitle != "" {
		parts = append(parts, returnStyle.Render(fmt.Sprintf("returned %q", clipTitle(rec.ReturnedTitle, titleWidth))))
	}
	if len(parts) == 0 {
		parts = append(parts, quietStyle.Render("no activity"))
	}
	return prefix + "  " + strings.Join(parts, "  ")
}
