package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"syndial/internal/syntax"
)

type progressModel struct {
	title   string
	events  <-chan syntax.ScanEvent
	spinner spinner.Model
	prog    progress.Model
	current string
	done    int
	total   int
	failed  int
	width   int
	closed  bool
}

type eventMsg syntax.ScanEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders registry scan
// progress. It quits once events is closed.
func NewProgressModel(title string, events <-chan syntax.ScanEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(syntax.ScanEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View draws nothing once the scan is over so the terminal is left clean.
func (m *progressModel) View() string {
	if m.closed || m.total == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %s (%d/%d)", m.spinner.View(), m.title, m.done, m.total)

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	if m.current != "" {
		b.WriteString("  ")
		b.WriteString(truncate(m.current, max(20, m.width-4)))
		b.WriteString("\n")
	}
	if m.failed > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(fmt.Sprintf("  %d skipped", m.failed)))
		b.WriteString("\n")
	}
	b.WriteString(m.prog.View())
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev syntax.ScanEvent) tea.Cmd {
	m.total = ev.Total
	if ev.Path == "" {
		return nil
	}
	m.current = ev.Path
	// events arrive from several decoders, keep the highest count
	m.done = max(m.done, ev.Done)
	if ev.Err != nil {
		m.failed++
	}
	if m.total == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.done) / float64(m.total))
}
