package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/unicode/norm"

	"syndial/internal/dialect"
)

const pickerPlaceholder = "Choose the dialect to use as default syntax."

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	cursorColor   = lipgloss.Color("6")
)

type candidateItem struct {
	candidate dialect.Candidate
	filter    string
}

func newCandidateItem(c dialect.Candidate) candidateItem {
	return candidateItem{
		candidate: c,
		filter:    norm.NFC.String(c.Name + " " + c.Path),
	}
}

func (i candidateItem) Title() string {
	if i.candidate.Selected() {
		return i.candidate.Name + "  " + i.candidate.Kind.Symbol() + " " + i.candidate.Kind.Label()
	}
	return i.candidate.Name
}

func (i candidateItem) Description() string { return i.candidate.Path }
func (i candidateItem) FilterValue() string { return i.filter }

// PickerModel is a searchable list of dialect candidates. The cursor starts
// on the umbrella's current dialect.
type PickerModel struct {
	list     list.Model
	choice   dialect.Candidate
	chosen   bool
	canceled bool
}

var cancelKey = key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "cancel"))

// NewPickerModel returns a Bubble Tea model listing candidates under title.
func NewPickerModel(title string, candidates []dialect.Candidate) *PickerModel {
	items := make([]list.Item, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, newCandidateItem(c))
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(cursorColor).BorderForeground(cursorColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(cursorColor).BorderForeground(cursorColor)

	l := list.New(items, delegate, 80, 20)
	l.Title = title
	if l.Title == "" {
		l.Title = pickerPlaceholder
	}
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{cancelKey} }
	if idx := dialect.SelectedIndex(candidates); idx >= 0 {
		l.Select(idx)
	}
	return &PickerModel{list: l}
}

// Choice returns the confirmed candidate, if any.
func (m *PickerModel) Choice() (dialect.Candidate, bool) {
	return m.choice, m.chosen
}

// Canceled reports whether the user left without choosing.
func (m *PickerModel) Canceled() bool {
	return m.canceled
}

// Cursor returns the index of the highlighted candidate.
func (m *PickerModel) Cursor() int {
	return m.list.Index()
}

func (m *PickerModel) Init() tea.Cmd {
	return nil
}

func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Height > 0 {
			m.list.SetSize(msg.Width, msg.Height-1)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}
		// while typing a filter every key belongs to the list
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(candidateItem)
			if !ok {
				return m, nil
			}
			m.choice = item.candidate
			m.chosen = true
			return m, tea.Quit
		case "esc", "q":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *PickerModel) View() string {
	if m.chosen || m.canceled {
		return ""
	}
	return m.list.View()
}

// SelectedMarker renders the marker of a selected candidate for plain output.
func SelectedMarker(c dialect.Candidate, colorize bool) string {
	if !c.Selected() {
		return ""
	}
	marker := c.Kind.Symbol() + " " + c.Kind.Label()
	if colorize {
		return selectedStyle.Render(marker)
	}
	return marker
}
