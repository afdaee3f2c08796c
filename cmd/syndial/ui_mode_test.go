package main

import (
	"testing"

	"github.com/fatih/color"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"auto", uiModeAuto, false},
		{" ON ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"maybe", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestShouldUseTUIExplicit(t *testing.T) {
	if !shouldUseTUI(uiModeOn) {
		t.Fatalf("ui=on must use the TUI")
	}
	if shouldUseTUI(uiModeOff) {
		t.Fatalf("ui=off must not use the TUI")
	}
}

func TestApplyColorMode(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })

	if err := applyColorMode("on"); err != nil || color.NoColor {
		t.Fatalf("color=on: NoColor=%v err=%v", color.NoColor, err)
	}
	if err := applyColorMode("off"); err != nil || !color.NoColor {
		t.Fatalf("color=off: NoColor=%v err=%v", color.NoColor, err)
	}
	if err := applyColorMode("rainbow"); err == nil {
		t.Fatalf("expected error for an unknown color mode")
	}
}
