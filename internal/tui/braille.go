package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oilscope/oilscope/internal/charts"
)

// Braille rendering backs the chart kinds ntcharts has no model for: the
// dual-axis bar+line combo and the scatter plot. Each character cell is a
// 2x4 pixel block.

var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type brailleCanvas struct {
	cw, ch int   // character dimensions
	pw, ph int   // pixel dimensions (cw*2, ch*4)
	grid   []int // flat [ph*pw], series index per pixel (-1 = empty)
}

func newBrailleCanvas(cw, ch int) *brailleCanvas {
	pw, ph := cw*2, ch*4
	grid := make([]int, pw*ph)
	for i := range grid {
		grid[i] = -1
	}
	return &brailleCanvas{cw: cw, ch: ch, pw: pw, ph: ph, grid: grid}
}

func (c *brailleCanvas) set(px, py, seriesIdx int) {
	if px >= 0 && px < c.pw && py >= 0 && py < c.ph {
		c.grid[py*c.pw+px] = seriesIdx
	}
}

func (c *brailleCanvas) drawLine(x0, y0, x1, y1, seriesIdx int) {
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	steps := math.Abs(dx)
	if math.Abs(dy) > steps {
		steps = math.Abs(dy)
	}
	if steps == 0 {
		c.set(x0, y0, seriesIdx)
		return
	}
	xInc := dx / steps
	yInc := dy / steps
	x, y := float64(x0), float64(y0)
	for i := 0; i <= int(steps); i++ {
		px := int(math.Round(x))
		py := int(math.Round(y))
		c.set(px, py, seriesIdx)
		x += xInc
		y += yInc
	}
}

// drawBar fills a vertical pixel column from py down to the baseline.
func (c *brailleCanvas) drawBar(px, py, seriesIdx int) {
	if py < 0 {
		py = 0
	}
	for y := py; y < c.ph; y++ {
		c.set(px, y, seriesIdx)
	}
}

// drawDot marks a point with a small cross so isolated samples stay visible.
func (c *brailleCanvas) drawDot(px, py, seriesIdx int) {
	c.set(px, py, seriesIdx)
	c.set(px-1, py, seriesIdx)
	c.set(px+1, py, seriesIdx)
	c.set(px, py-1, seriesIdx)
	c.set(px, py+1, seriesIdx)
}

func (c *brailleCanvas) render(colors []lipgloss.Color) []string {
	lines := make([]string, c.ch)
	for cy := 0; cy < c.ch; cy++ {
		var sb strings.Builder
		for cx := 0; cx < c.cw; cx++ {
			pattern := rune(0x2800)
			counts := make(map[int]int)

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					si := c.grid[(cy*4+dy)*c.pw+(cx*2+dx)]
					if si >= 0 {
						pattern |= brailleDots[dy][dx]
						counts[si]++
					}
				}
			}

			if pattern == 0x2800 {
				sb.WriteRune(' ')
				continue
			}
			bestSi, bestCnt := 0, 0
			for si, cnt := range counts {
				if cnt > bestCnt {
					bestSi = si
					bestCnt = cnt
				}
			}
			color := colorSubtext
			if bestSi < len(colors) {
				color = colors[bestSi]
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(pattern)))
		}
		lines[cy] = sb.String()
	}
	return lines
}

const yAxisWidth = 8

// renderDualAxis draws the left-axis dataset as bars and any right-axis
// datasets as lines, each normalized against its own axis maximum. Left-axis
// tick labels use the left axis format; the right axis scale is summarized in
// the legend since there is no room for a second label gutter.
func renderDualAxis(desc charts.ChartDescriptor, w, h int) string {
	plotW := w - yAxisWidth - 2
	plotH := h - 3 // axis row, date row, legend row
	if plotW < 10 || plotH < 2 || desc.Empty() {
		return dimStyle.Render("No data")
	}

	leftMax, rightMax := 0.0, 0.0
	for _, ds := range desc.Datasets {
		for _, p := range ds.Points {
			if p.Value == nil {
				continue
			}
			if ds.Axis == charts.AxisYRight {
				rightMax = math.Max(rightMax, *p.Value)
			} else {
				leftMax = math.Max(leftMax, *p.Value)
			}
		}
	}
	if leftMax == 0 {
		leftMax = 1
	}
	if rightMax == 0 {
		rightMax = 1
	}

	canvas := newBrailleCanvas(plotW, plotH)
	n := maxPointCount(desc)

	for si, ds := range desc.Datasets {
		axisMax := leftMax
		if ds.Axis == charts.AxisYRight {
			axisMax = rightMax
		}

		prevPX, prevPY, first := 0, 0, true
		for i, p := range ds.Points {
			if p.Value == nil {
				continue
			}
			px := pixelX(i, n, canvas.pw)
			py := pixelY(*p.Value, axisMax, canvas.ph)

			if ds.Axis == charts.AxisYRight {
				if !first {
					canvas.drawLine(prevPX, prevPY, px, py, si)
				}
				prevPX, prevPY, first = px, py, false
			} else {
				canvas.drawBar(px, py, si)
			}
		}
	}

	leftFmt := axisFormat(desc, charts.AxisYLeft)
	body := renderPlotFrame(canvas, datasetColors(desc), plotW, plotH, leftMax, leftFmt)

	body += "\n" + " " + legendLine(desc, rightMax)
	return body
}

// renderScatter plots XY samples as dots, x scaled over [0, maxX].
func renderScatter(desc charts.ChartDescriptor, w, h int) string {
	plotW := w - yAxisWidth - 2
	plotH := h - 3
	if plotW < 10 || plotH < 2 || desc.Empty() {
		return dimStyle.Render("No data")
	}

	maxX, maxY := 0.0, 0.0
	for _, ds := range desc.Datasets {
		for _, p := range ds.XY {
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if maxX == 0 {
		maxX = 1
	}
	if maxY == 0 {
		maxY = 1
	}

	canvas := newBrailleCanvas(plotW, plotH)
	for si, ds := range desc.Datasets {
		for _, p := range ds.XY {
			px := int(p.X / maxX * float64(canvas.pw-1))
			py := pixelY(p.Y, maxY, canvas.ph)
			canvas.drawDot(px, py, si)
		}
	}

	yFmt := axisFormat(desc, charts.AxisYLeft)
	body := renderPlotFrame(canvas, datasetColors(desc), plotW, plotH, maxY, yFmt)

	xFmt := axisFormat(desc, charts.AxisX)
	xLabels := fmt.Sprintf("%*s 0%s%s",
		yAxisWidth-2, "",
		strings.Repeat(" ", max(1, plotW-2-len(charts.FormatValue(xFmt, maxX)))),
		charts.FormatValue(xFmt, maxX))
	body += "\n" + dimStyle.Render(xLabels)
	return body
}

// renderPlotFrame wraps canvas output with a y-axis gutter and tick labels.
func renderPlotFrame(canvas *brailleCanvas, colors []lipgloss.Color, plotW, plotH int, maxY float64, format charts.ValueFormat) string {
	plotLines := canvas.render(colors)

	numTicks := 4
	if plotH < 5 {
		numTicks = 2
	}
	tickRows := make(map[int]float64, numTicks)
	for t := 0; t < numTicks; t++ {
		row := t * (plotH - 1) / (numTicks - 1)
		tickRows[row] = maxY * float64(numTicks-1-t) / float64(numTicks-1)
	}

	var sb strings.Builder
	for row := 0; row < plotH; row++ {
		label := ""
		if v, ok := tickRows[row]; ok {
			label = charts.FormatValue(format, v)
		}
		sb.WriteString(fmt.Sprintf("%*s %s%s\n",
			yAxisWidth-2, dimStyle.Render(label),
			axisStyle.Render("┤"),
			plotLines[row]))
	}
	sb.WriteString(fmt.Sprintf("%*s %s%s",
		yAxisWidth-2, "",
		axisStyle.Render("└"),
		axisStyle.Render(strings.Repeat("─", plotW))))
	return sb.String()
}

func legendLine(desc charts.ChartDescriptor, rightMax float64) string {
	markers := []string{"●", "◆", "■", "▲"}
	var parts []string
	for i, ds := range desc.Datasets {
		entry := lipgloss.NewStyle().Foreground(seriesColor(i)).Render(markers[i%len(markers)]) +
			" " + dimStyle.Render(ds.Label)
		if ds.Axis == charts.AxisYRight {
			format := axisFormat(desc, charts.AxisYRight)
			entry += dimStyle.Render(" (right, max " + charts.FormatValue(format, rightMax) + ")")
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, "   ")
}

func axisFormat(desc charts.ChartDescriptor, id charts.AxisID) charts.ValueFormat {
	return desc.Axis(id).Format
}

func datasetColors(desc charts.ChartDescriptor) []lipgloss.Color {
	colors := make([]lipgloss.Color, len(desc.Datasets))
	for i := range desc.Datasets {
		colors[i] = seriesColor(i)
	}
	return colors
}

func maxPointCount(desc charts.ChartDescriptor) int {
	n := 0
	for _, ds := range desc.Datasets {
		if len(ds.Points) > n {
			n = len(ds.Points)
		}
	}
	return n
}

func pixelX(i, n, pw int) int {
	if n <= 1 {
		return 0
	}
	return int(float64(i) / float64(n-1) * float64(pw-1))
}

func pixelY(v, maxV float64, ph int) int {
	py := (ph - 1) - int(v/maxV*float64(ph-1))
	if py < 0 {
		py = 0
	}
	if py >= ph {
		py = ph - 1
	}
	return py
}
