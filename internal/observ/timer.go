package observ

import (
	"fmt"
	"io"
	"time"
)

// Step is one measured part of a command.
type Step struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer collects step durations for --timings output. A nil Timer records nothing.
type Timer struct {
	steps []Step
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{steps: make([]Step, 0, 4)} }

// Track measures fn as a step named name.
func (t *Timer) Track(name string, fn func() error) error {
	if t == nil {
		return fn()
	}
	start := time.Now()
	err := fn()
	note := ""
	if err != nil {
		note = "failed"
	}
	t.steps = append(t.steps, Step{Name: name, Dur: time.Since(start), Note: note})
	return err
}

// Steps returns the recorded steps in order.
func (t *Timer) Steps() []Step {
	if t == nil {
		return nil
	}
	return t.steps
}

// Total is the sum of all step durations.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, s := range t.Steps() {
		total += s.Dur
	}
	return total
}

// WriteSummary prints one line per step plus the total.
func (t *Timer) WriteSummary(out io.Writer) {
	if t == nil || len(t.steps) == 0 {
		return
	}
	fmt.Fprintln(out, "timings:")
	for _, s := range t.steps {
		line := fmt.Sprintf("  %-12s %7.2f ms", s.Name, toMillis(s.Dur))
		if s.Note != "" {
			line += "  // " + s.Note
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  %-12s %7.2f ms\n", "total", toMillis(t.Total()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
