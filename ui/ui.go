package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Render
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00F2"))
)

type Model struct {
	TableName string
	Total     int
	Deleted   int
	Failed    int
	Percent   float64
	Err       error
	Done      bool
	spinner   spinner.Model
	timer     *Timer
}

type Option struct {
	TableName string
	Total     int
}

// BatchMsg reports one finished batched delete.
type BatchMsg struct {
	Size int
	Err  error
}

// DoneMsg ends the program. Err is the result of the whole run.
type DoneMsg struct {
	Err error
}

func InitModel(opt *Option) Model {
	m := Model{
		TableName: opt.TableName,
		Total:     opt.Total,
		timer:     &Timer{},
	}
	m.timer.Start()
	m.resetSpinner()

	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case BatchMsg:
		if msg.Err != nil {
			m.Failed += msg.Size
			return m, nil
		}

		m.Deleted += msg.Size
		if m.Total > 0 {
			m.Percent = float64(m.Deleted) / float64(m.Total)
		}

		return m, nil
	case DoneMsg:
		m.Done = true
		m.Err = msg.Err

		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) resetSpinner() {
	m.spinner = spinner.New()
	m.spinner.Style = spinnerStyle
	m.spinner.Spinner = spinner.Dot
}

func (m Model) View() string {
	switch {
	case m.Done && m.Err != nil:
		return errorStyle(fmt.Sprintf("Failed after deleting %d/%d records: %s", m.Deleted, m.Total, m.Err)) + "\n"
	case m.Done:
		return textStyle(fmt.Sprintf("All done! Deleted %d records from %s in %s", m.Deleted, m.TableName, m.timer.Elapsed())) + "\n"
	}

	s := fmt.Sprintf("%s%s", m.spinner.View(), textStyle(fmt.Sprintf("Deleted: %d/%d(%d%%) ETA: %s",
		m.Deleted,
		m.Total,
		int(m.Percent*100),
		m.timer.Estimated(m.Total, m.Deleted))))
	if m.Failed > 0 {
		s += errorStyle(fmt.Sprintf(" Failed: %d", m.Failed))
	}

	return s
}
