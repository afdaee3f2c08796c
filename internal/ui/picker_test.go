package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"syndial/internal/dialect"
)

func testCandidates() []dialect.Candidate {
	return []dialect.Candidate{
		{Name: "MySQL", Path: "Packages/SQL/MySQL.sublime-syntax"},
		{Name: "PostgreSQL", Path: "Packages/SQL/PostgreSQL.sublime-syntax", Kind: dialect.KindSelected},
		{Name: "T-SQL", Path: "Packages/SQL/TSQL.sublime-syntax"},
	}
}

func press(m *PickerModel, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestPickerStartsOnSelectedCandidate(t *testing.T) {
	m := NewPickerModel("", testCandidates())
	if got := m.Cursor(); got != 1 {
		t.Fatalf("Cursor() = %d, want 1", got)
	}
	if cmd := press(m, tea.KeyEnter); cmd == nil {
		t.Fatalf("enter should quit the program")
	}
	choice, ok := m.Choice()
	if !ok {
		t.Fatalf("expected a choice")
	}
	if choice.Path != "Packages/SQL/PostgreSQL.sublime-syntax" {
		t.Fatalf("choice = %q, want PostgreSQL", choice.Path)
	}
	if m.View() != "" {
		t.Fatalf("view should be empty after choosing")
	}
}

func TestPickerMoveAndChoose(t *testing.T) {
	m := NewPickerModel("Set Syntax Dialect: SQL", testCandidates())
	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)
	choice, ok := m.Choice()
	if !ok || choice.Name != "T-SQL" {
		t.Fatalf("choice = %+v (ok=%v), want T-SQL", choice, ok)
	}
}

func TestPickerCancel(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := NewPickerModel("", testCandidates())
		if cmd := press(m, k); cmd == nil {
			t.Fatalf("%v should quit the program", k)
		}
		if !m.Canceled() {
			t.Fatalf("%v should cancel", k)
		}
		if _, ok := m.Choice(); ok {
			t.Fatalf("%v must not produce a choice", k)
		}
	}
}

func TestPickerWithoutSelection(t *testing.T) {
	candidates := testCandidates()
	candidates[1].Kind = dialect.KindAmbiguous
	m := NewPickerModel("", candidates)
	if got := m.Cursor(); got != 0 {
		t.Fatalf("Cursor() = %d, want 0", got)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), pickerPlaceholder) {
		t.Fatalf("view should show the placeholder title")
	}
}

func TestRenderCandidates(t *testing.T) {
	var buf bytes.Buffer
	RenderCandidates(&buf, testCandidates(), false)
	want := "1) MySQL       Packages/SQL/MySQL.sublime-syntax\n" +
		"2) PostgreSQL  Packages/SQL/PostgreSQL.sublime-syntax  ✓ Selected\n" +
		"3) T-SQL       Packages/SQL/TSQL.sublime-syntax\n"
	if buf.String() != want {
		t.Fatalf("RenderCandidates =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("PostgreSQL", 6); got != "Pos..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("SQL", 6); got != "SQL" {
		t.Fatalf("truncate = %q", got)
	}
}
