package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"syndial/internal/dialect"
	"syndial/internal/syntax"
	"syndial/internal/ui"
)

// runPicker shows the candidate list on the terminal and returns the choice.
// The program draws on stderr so stdout stays clean for the result line.
func runPicker(ctx context.Context, title string, candidates []dialect.Candidate) (dialect.Candidate, bool, error) {
	model := ui.NewPickerModel(title, candidates)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return dialect.Candidate{}, false, err
	}
	c, ok := model.Choice()
	return c, ok, nil
}

// scanProgress feeds registry scan events to a progress program on stderr.
type scanProgress struct {
	events chan syntax.ScanEvent
}

func newScanProgress() *scanProgress {
	return &scanProgress{events: make(chan syntax.ScanEvent, 64)}
}

// report drops events while the program lags behind; it only shows counts.
func (p *scanProgress) report(ev syntax.ScanEvent) {
	select {
	case p.events <- ev:
	default:
	}
}

// run shows the progress program while scan executes. A failing program never
// fails the scan.
func (p *scanProgress) run(ctx context.Context, scan func() error) error {
	program := tea.NewProgram(ui.NewProgressModel("scanning syntaxes", p.events),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, _ = program.Run()
	}()
	err := scan()
	close(p.events)
	<-finished
	return err
}

func noColor() bool {
	return color.NoColor
}
