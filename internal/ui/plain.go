package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"syndial/internal/dialect"
)

const maxNameWidth = 32

// RenderCandidates writes a numbered candidate list, one per line:
//
//	 1) MySQL        Packages/SQL/MySQL.sublime-syntax  ✓ Selected
func RenderCandidates(out io.Writer, candidates []dialect.Candidate, colorize bool) {
	nameWidth := 0
	for _, c := range candidates {
		nameWidth = max(nameWidth, runewidth.StringWidth(c.Name))
	}
	nameWidth = min(nameWidth, maxNameWidth)
	numWidth := len(fmt.Sprint(len(candidates)))

	for i, c := range candidates {
		name := truncate(c.Name, nameWidth)
		line := fmt.Sprintf("%*d) %s  %s", numWidth, i+1, runewidth.FillRight(name, nameWidth), c.Path)
		if marker := SelectedMarker(c, colorize); marker != "" {
			line += "  " + marker
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
