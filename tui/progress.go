// Package tui renders live sweep progress in the terminal: a spinner,
// the run currently executing, and the tail of recent events.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/martinhath/comere/sweep"
)

const recentLines = 8

var (
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// eventMsg wraps one sweep event for the bubbletea loop.
type eventMsg sweep.Event

// eventsClosedMsg is sent when the event channel closes.
type eventsClosedMsg struct{}

// Model is the bubbletea model for a running sweep.
type Model struct {
	events <-chan sweep.Event

	spinner   spinner.Model
	current   string
	recent    []string
	completed int
	total     int
	done      bool
	err       error
}

// New builds a model consuming events from ch.
func New(ch <-chan sweep.Event) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{events: ch, spinner: s}
}

func waitForEvent(ch <-chan sweep.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(e)
	}
}

// Init starts the spinner and subscribes to sweep events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update advances the model on key presses, spinner ticks and sweep
// events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case eventMsg:
		e := sweep.Event(msg)
		m.completed, m.total = e.Completed, e.Total
		switch e.Kind {
		case sweep.RunStarted:
			m.current = e.Params.String()
		case sweep.SweepDone:
			m.done = true
			return m, tea.Quit
		case sweep.SweepAborted:
			m.err = e.Err
			return m, tea.Quit
		}
		m.recent = append(m.recent, e.String())
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the progress screen.
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Sweep aborted: %v", m.err)) + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("comere sweep"))
	b.WriteString(faintStyle.Render(" (q to quit)"))
	b.WriteString("\n\n")
	if m.done {
		b.WriteString(doneStyle.Render(fmt.Sprintf("Done: %d/%d runs", m.completed, m.total)))
		b.WriteString("\n")
	} else {
		b.WriteString(fmt.Sprintf("%s %s  [%d/%d]\n", m.spinner.View(), m.current, m.completed, m.total))
	}
	for _, line := range m.recent {
		b.WriteString(faintStyle.Render("  " + line))
		b.WriteString("\n")
	}
	return b.String()
}

// Run drives the progress UI until the event channel reports a
// terminal sweep state or the user quits.
func Run(ch <-chan sweep.Event) error {
	_, err := tea.NewProgram(New(ch)).Run()
	return err
}
