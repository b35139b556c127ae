package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1F47E/sun-locator/pkg/export"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user quits before background work finishes
var ErrAborted = errors.New("aborted")

var columnWidths = []int{12, 20, 20, 12}

type forecastModel struct {
	header string
	table  table.Model
	footer string
}

func newForecastModel(r Report, height int) forecastModel {
	headers := export.Header(r.Observation.UTCOffset)
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: h, Width: columnWidths[i]}
	}

	var rows []table.Row
	for _, row := range export.Rows(r.Entries, r.Observation.UTCOffset) {
		rows = append(rows, table.Row(row))
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#BD93F9")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#282A36")).
		Background(lipgloss.Color("#FF79C6")).
		Bold(false)
	t.SetStyles(s)

	return forecastModel{
		header: RenderReport(r),
		table:  t,
		footer: dimStyle.Render(fmt.Sprintf("%d days • ↑/↓ scroll • q quit", len(rows))),
	}
}

func (m forecastModel) Init() tea.Cmd {
	return nil
}

func (m forecastModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m forecastModel) View() string {
	var b strings.Builder
	b.WriteString(m.header)
	b.WriteString(boxStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(m.footer)
	b.WriteString("\n")
	return b.String()
}

// Run shows the report above a scrollable forecast table until the user quits
func Run(r Report, tableHeight int) error {
	if _, err := tea.NewProgram(newForecastModel(r, tableHeight)).Run(); err != nil {
		return fmt.Errorf("interactive view: %w", err)
	}
	return nil
}

type workDoneMsg struct {
	output string
	err    error
}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	work    func() (string, error)
	done    bool
	aborted bool
	result  workDoneMsg
}

func newSpinnerModel(title string, work func() (string, error)) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))
	return spinnerModel{spinner: s, title: title, work: work}
}

func (m spinnerModel) Init() tea.Cmd {
	work := m.work
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			out, err := work()
			return workDoneMsg{output: out, err: err}
		},
	)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.aborted = true
			return m, tea.Quit
		}
	case workDoneMsg:
		m.done = true
		m.result = msg
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.spinner.View() + " " + m.title + dimStyle.Render("  (q to abort)") + "\n"
}

// RunWithSpinner shows a spinner while work runs and returns its output
func RunWithSpinner(title string, work func() (string, error)) (string, error) {
	final, err := tea.NewProgram(newSpinnerModel(title, work)).Run()
	if err != nil {
		return "", fmt.Errorf("spinner: %w", err)
	}
	m, ok := final.(spinnerModel)
	if !ok || m.aborted || !m.done {
		return "", ErrAborted
	}
	return m.result.output, m.result.err
}
