package tui

import "github.com/charmbracelet/lipgloss"

// ─── Color Palette (Catppuccin Mocha) ───────────────────────────────────────

var (
	colorSurface1 = lipgloss.Color("#45475A")
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorDim      = lipgloss.Color("#585B70")

	colorAccent   = lipgloss.Color("#CBA6F7") // mauve, brand
	colorBlue     = lipgloss.Color("#89B4FA")
	colorSapphire = lipgloss.Color("#74C7EC")
	colorGreen    = lipgloss.Color("#A6E3A1")
	colorYellow   = lipgloss.Color("#F9E2AF")
	colorRed      = lipgloss.Color("#F38BA8")
	colorPeach    = lipgloss.Color("#FAB387")
	colorTeal     = lipgloss.Color("#94E2D5")
	colorLavender = lipgloss.Color("#B4BEFE")
)

// seriesPalette assigns dataset colors by index, wrapping around.
var seriesPalette = []lipgloss.Color{
	colorSapphire,
	colorPeach,
	colorGreen,
	colorYellow,
	colorTeal,
	colorRed,
	colorLavender,
}

func seriesColor(i int) lipgloss.Color {
	return seriesPalette[i%len(seriesPalette)]
}

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorSapphire).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	axisStyle = lipgloss.NewStyle().
			Foreground(colorSurface1)

	axisLabelStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
