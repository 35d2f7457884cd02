package tui

import (
	"strings"
	"testing"
)

func TestRenderFixedGridHeight(t *testing.T) {
	rows := []PanelRow{
		{Panels: []Panel{{Title: "Top", Content: "a\nb"}}, Weight: 1},
		{Panels: []Panel{
			{Title: "Left", Content: "x"},
			{Title: "Right", Content: "y"},
		}, Weight: 2},
	}

	out := RenderFixedGrid(rows, 80, 24)
	if out == "" {
		t.Fatal("empty render")
	}
	if got := len(strings.Split(out, "\n")); got > 24 {
		t.Errorf("rendered %d lines, want <= 24", got)
	}
	if !strings.Contains(out, "Top") || !strings.Contains(out, "Right") {
		t.Error("panel titles missing from output")
	}
}

func TestRenderFixedGridSkipsEmptyRows(t *testing.T) {
	rows := []PanelRow{
		{Panels: nil},
		{Panels: []Panel{{Title: "Only", Content: "z"}}},
	}
	out := RenderFixedGrid(rows, 60, 12)
	if !strings.Contains(out, "Only") {
		t.Error("non-empty row dropped")
	}
}

func TestRenderFixedGridTinyDimensions(t *testing.T) {
	rows := []PanelRow{{Panels: []Panel{{Title: "T", Content: "c"}}}}
	if out := RenderFixedGrid(rows, 5, 2); out != "" {
		t.Errorf("expected empty render for tiny terminal, got %q", out)
	}
}

func TestRenderPanelTruncatesLongLines(t *testing.T) {
	p := Panel{Title: "T", Content: strings.Repeat("x", 200)}
	out := renderPanel(p, 20, 5)
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 200 {
			t.Errorf("line not truncated: %d runes", len([]rune(line)))
		}
	}
	if !strings.Contains(out, "…") {
		t.Error("expected ellipsis on truncated content")
	}
}
