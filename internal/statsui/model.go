// Package statsui provides the Bubble Tea archive browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/libsim/internal/model"
	"github.com/verte-zerg/libsim/internal/stats"
	"github.com/verte-zerg/libsim/internal/store"
)

const (
	tabOverview = iota
	tabRuns
	tabTopBooks
)

const chartHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea archive browser.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.ArchiveReport
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	runTable  table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs an archive browser model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Runs", "Top Books"},
	}
	m.initInputs()
	m.initRunTable()
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabRuns {
			m.runTable.Focus()
		} else {
			m.runTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabRuns {
				m.runTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRuns {
				m.runTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabRuns {
				var cmd tea.Cmd
				m.runTable, cmd = m.runTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Top books: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initRunTable() {
	m.runTable = table.New(
		table.WithColumns(runTableColumns()),
		table.WithHeight(1),
	)
	m.runTable.SetStyles(runTableStyles())
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	if m.cfg.Since != nil {
		m.filterInputs[0].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
	if m.cfg.Top > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Top))
	} else {
		m.filterInputs[2].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.runTable.SetWidth(m.width)
	m.runTable.SetHeight(maxInt(1, vpHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabRuns {
		m.runTable.Focus()
	} else {
		m.runTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	top := "10"
	if m.cfg.Top > 0 {
		top = strconv.Itoa(m.cfg.Top)
	}
	summary := fmt.Sprintf("Settings: since=%s  last=%s  top=%s", since, last, top)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Settings: /  Quit: q")
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabRuns {
		if len(m.report.Runs) == 0 {
			return fitLines("No archived runs found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.runTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildArchiveReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.runTable.SetRows(buildRunRows(report.Runs))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Runs, width))
	m.viewports[tabTopBooks].SetContent(renderTopBooks(m.report.TopBooks))
}

func renderOverview(runs []model.RunAggregate, width int) string {
	if len(runs) == 0 {
		return "No archived runs found."
	}
	summary := renderSummaryCards(runs, width)
	chart := renderRunChart(runs, width)
	return strings.TrimRight(summary+"\n\n"+chart, "\n")
}

func renderSummaryCards(runs []model.RunAggregate, width int) string {
	totalDays := 0
	totalBorrows := 0
	totalReturns := 0
	bestBorrows := 0
	for _, run := range runs {
		totalDays += run.Days
		totalBorrows += run.TotalBorrows
		totalReturns += run.TotalReturns
		if run.TotalBorrows > bestBorrows {
			bestBorrows = run.TotalBorrows
		}
	}
	cards := []string{
		metricCard("Runs", fmt.Sprintf("%d", len(runs))),
		metricCard("Days simulated", fmt.Sprintf("%d", totalDays)),
		metricCard("Borrows", fmt.Sprintf("%d", totalBorrows)),
		metricCard("Returns", fmt.Sprintf("%d", totalReturns)),
		metricCard("Busiest run", fmt.Sprintf("%d borrows", bestBorrows)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderRunChart(runs []model.RunAggregate, width int) string {
	if len(runs) < 2 {
		return ""
	}
	borrows := make([]float64, len(runs))
	unreturned := make([]float64, len(runs))
	for i, run := range runs {
		borrows[i] = float64(run.TotalBorrows)
		unreturned[i] = float64(run.Unreturned)
	}
	series := []stats.Series{
		{Name: "borrows per run", Values: borrows},
		{Name: "unreturned per run", Values: unreturned},
	}
	var buf bytes.Buffer
	if err := stats.RenderChart(&buf, "Borrow activity across runs", series, stats.ChartWidthFor(width), chartHeight); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderTopBooks(top []model.BookTally) string {
	if len(top) == 0 {
		return "No borrows recorded yet."
	}
	lines := make([]string, 0, len(top))
	for i, tally := range top {
		lines = append(lines, fmt.Sprintf("%2d. %s — %s (%d borrows)", i+1, tally.Title, tally.Author, tally.Borrows))
	}
	return strings.Join(lines, "\n")
}

func runTableColumns() []table.Column {
	return []table.Column{
		{Title: "Run", Width: 5},
		{Title: "Finished", Width: 16},
		{Title: "Days", Width: 5},
		{Title: "Borrows", Width: 8},
		{Title: "Returns", Width: 8},
		{Title: "Unreturned", Width: 10},
		{Title: "Most borrowed", Width: 30},
	}
}

func buildRunRows(runs []model.RunAggregate) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		most := "-"
		if run.MostBorrowedTitle != "" {
			most = fmt.Sprintf("%s (%d)", run.MostBorrowedTitle, run.MostBorrowedCount)
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", run.RunID),
			run.EndedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", run.Days),
			fmt.Sprintf("%d", run.TotalBorrows),
			fmt.Sprintf("%d", run.TotalReturns),
			fmt.Sprintf("%d", run.Unreturned),
			most,
		})
	}
	return rows
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	sinceInput := strings.TrimSpace(m.filterInputs[0].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[1].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	topInput := strings.TrimSpace(m.filterInputs[2].Value())
	top := 0
	if topInput != "" {
		parsed, err := strconv.Atoi(topInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid top value (use 0 or positive integer)")
		}
		top = parsed
	}

	m.cfg = model.StatsConfig{
		Since: since,
		Last:  last,
		Top:   top,
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
