package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type Panel struct {
	Title   string
	Content string
	Span    int // grid columns occupied (1 or 2)
	Color   lipgloss.Color
}

type PanelRow struct {
	Panels []Panel
	Weight int // relative height weight (0 → 1)
}

// RenderFixedGrid lays out panel rows over the full width and height. Row
// heights are distributed by weight; the last row absorbs rounding slack.
func RenderFixedGrid(rows []PanelRow, totalW, totalH int) string {
	var activeRows []PanelRow
	for _, r := range rows {
		if len(r.Panels) > 0 {
			activeRows = append(activeRows, r)
		}
	}
	if len(activeRows) == 0 || totalW < 10 || totalH < 3 {
		return ""
	}

	totalWeight := 0
	for i := range activeRows {
		if activeRows[i].Weight <= 0 {
			activeRows[i].Weight = 1
		}
		totalWeight += activeRows[i].Weight
	}

	availH := totalH
	if availH < len(activeRows)*3 {
		availH = len(activeRows) * 3
	}

	rowHeights := make([]int, len(activeRows))
	assigned := 0
	for i, r := range activeRows {
		if i == len(activeRows)-1 {
			rowHeights[i] = availH - assigned
		} else {
			rowHeights[i] = (availH * r.Weight) / totalWeight
		}
		if rowHeights[i] < 3 {
			rowHeights[i] = 3
		}
		assigned += rowHeights[i]
	}

	rendered := make([]string, 0, len(activeRows))
	for i, row := range activeRows {
		rendered = append(rendered, renderPanelRow(row, totalW, rowHeights[i]))
	}

	result := strings.Join(rendered, "\n")
	lines := strings.Split(result, "\n")
	if len(lines) > totalH {
		lines = lines[:totalH]
	}
	return strings.Join(lines, "\n")
}

func renderPanelRow(row PanelRow, totalW, h int) string {
	n := len(row.Panels)
	totalSpan := 0
	for _, p := range row.Panels {
		totalSpan += panelSpan(p)
	}

	gap := 1
	availW := totalW - gap*(n-1)
	if availW < n*8 {
		availW = n * 8
	}

	parts := make([]string, 0, n*2-1)
	for i, p := range row.Panels {
		if i > 0 {
			parts = append(parts, " ")
		}
		pw := (availW * panelSpan(p)) / totalSpan
		parts = append(parts, renderPanel(p, pw, h))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderPanel(p Panel, w, h int) string {
	if w < 8 {
		w = 8
	}
	if h < 3 {
		h = 3
	}
	innerW := w - 4 // 2 border + 2 padding

	borderColor := p.Color
	if borderColor == "" {
		borderColor = colorSurface1
	}
	bStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleRendered := lipgloss.NewStyle().Bold(true).Foreground(borderColor).Render(p.Title)

	topLeft := bStyle.Render("┌─ ")
	remaining := w - lipgloss.Width(topLeft) - lipgloss.Width(titleRendered) - 2
	if remaining < 1 {
		remaining = 1
	}
	topLine := topLeft + titleRendered + bStyle.Render(" "+strings.Repeat("─", remaining)+"┐")

	contentLines := strings.Split(p.Content, "\n")
	for i, line := range contentLines {
		if lipgloss.Width(line) > innerW {
			contentLines[i] = ansi.Truncate(line, innerW-1, "…")
		}
	}

	bodyH := h - 2
	if bodyH < 1 {
		bodyH = 1
	}
	for len(contentLines) < bodyH {
		contentLines = append(contentLines, "")
	}
	if len(contentLines) > bodyH {
		contentLines = contentLines[:bodyH]
	}

	bodyLines := make([]string, 0, len(contentLines))
	for _, line := range contentLines {
		pad := innerW - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		bodyLines = append(bodyLines,
			bStyle.Render("│")+" "+line+strings.Repeat(" ", pad)+" "+bStyle.Render("│"))
	}

	bottomLine := bStyle.Render("└" + strings.Repeat("─", w-2) + "┘")

	return topLine + "\n" + strings.Join(bodyLines, "\n") + "\n" + bottomLine
}

func panelSpan(p Panel) int {
	if p.Span < 1 {
		return 1
	}
	return p.Span
}
