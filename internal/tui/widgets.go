package tui

import (
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/oilscope/oilscope/internal/charts"
)

// Widget is a rendered chart bound to a dashboard slot. Widgets satisfy the
// registry's capability interfaces so installation and teardown flow through
// it rather than ad hoc field access.
type Widget interface {
	charts.Disposable
	charts.Resizable
	View() string
	Title() string
}

// lineWidget renders trend-line and year-over-year descriptors through an
// ntcharts time series chart, one dataset per series.
type lineWidget struct {
	title    string
	chart    timeserieslinechart.Model
	disposed bool
}

func newLineWidget(desc charts.ChartDescriptor, w, h int) *lineWidget {
	yFmt := axisFormat(desc, charts.AxisYLeft)

	// Season overlays fold every year onto one axis, so the date part of the
	// x labels is meaningless there; show month names only.
	xLabel := func(_ int, v float64) string {
		return charts.FormatDateLabel(time.Unix(int64(v), 0).UTC())
	}
	if desc.Kind == charts.KindYearOverYear {
		xLabel = func(_ int, v float64) string {
			return charts.FormatMonthLabel(time.Unix(int64(v), 0).UTC())
		}
	}

	minTime, maxTime, maxVal := descriptorBounds(desc)
	chart := timeserieslinechart.New(w, h,
		timeserieslinechart.WithTimeRange(minTime, maxTime),
		timeserieslinechart.WithYRange(0, maxVal*1.1),
		timeserieslinechart.WithAxesStyles(axisStyle, axisLabelStyle),
		timeserieslinechart.WithXYSteps(4, 3),
		timeserieslinechart.WithXLabelFormatter(xLabel),
		timeserieslinechart.WithYLabelFormatter(func(_ int, v float64) string {
			return charts.FormatValue(yFmt, v)
		}),
	)

	for i, ds := range desc.Datasets {
		chart.SetDataSetStyle(ds.Label, lipgloss.NewStyle().Foreground(seriesColor(i)))
		for _, p := range ds.Points {
			if p.Value == nil {
				continue
			}
			chart.PushDataSet(ds.Label, timeserieslinechart.TimePoint{Time: p.Date, Value: *p.Value})
		}
	}
	chart.DrawBrailleAll()

	return &lineWidget{title: desc.Title, chart: chart}
}

func (w *lineWidget) Title() string { return w.title }

func (w *lineWidget) View() string {
	if w.disposed {
		return ""
	}
	return w.chart.View()
}

func (w *lineWidget) Resize(width, height int) {
	if w.disposed {
		return
	}
	w.chart.Resize(width, height)
	w.chart.DrawBrailleAll()
}

func (w *lineWidget) Dispose() error {
	w.disposed = true
	return nil
}

// brailleWidget renders scatter and dual-axis descriptors on the local
// braille canvas. It keeps the descriptor and re-renders on demand, so a
// resize is just a dimension change.
type brailleWidget struct {
	desc     charts.ChartDescriptor
	w, h     int
	disposed bool
}

func newBrailleWidget(desc charts.ChartDescriptor, w, h int) *brailleWidget {
	return &brailleWidget{desc: desc, w: w, h: h}
}

func (b *brailleWidget) Title() string { return b.desc.Title }

func (b *brailleWidget) View() string {
	if b.disposed {
		return ""
	}
	if b.desc.Kind == charts.KindScatter {
		return renderScatter(b.desc, b.w, b.h)
	}
	return renderDualAxis(b.desc, b.w, b.h)
}

func (b *brailleWidget) Resize(width, height int) {
	b.w, b.h = width, height
}

func (b *brailleWidget) Dispose() error {
	b.disposed = true
	return nil
}

// sparkWidget is the compact tank-level strip.
type sparkWidget struct {
	title    string
	chart    sparkline.Model
	disposed bool
}

func newSparkWidget(desc charts.ChartDescriptor, w, h int) *sparkWidget {
	chart := sparkline.New(w, h,
		sparkline.WithStyle(lipgloss.NewStyle().Foreground(colorTeal)),
	)
	for _, ds := range desc.Datasets {
		for _, p := range ds.Points {
			if p.Value == nil {
				continue
			}
			chart.Push(*p.Value)
		}
	}
	chart.Draw()

	return &sparkWidget{title: desc.Title, chart: chart}
}

func (s *sparkWidget) Title() string { return s.title }

func (s *sparkWidget) View() string {
	if s.disposed {
		return ""
	}
	return s.chart.View()
}

func (s *sparkWidget) Resize(width, height int) {
	if s.disposed {
		return
	}
	s.chart.Resize(width, height)
	s.chart.Draw()
}

func (s *sparkWidget) Dispose() error {
	s.disposed = true
	return nil
}

// BuildWidget constructs the renderer for a descriptor. Builders never fail;
// an empty descriptor still yields a widget that renders a placeholder.
func BuildWidget(desc charts.ChartDescriptor, w, h int) Widget {
	switch desc.Kind {
	case charts.KindSparkline:
		return newSparkWidget(desc, w, h)
	case charts.KindScatter, charts.KindDualAxisBar:
		return newBrailleWidget(desc, w, h)
	default:
		return newLineWidget(desc, w, h)
	}
}

func descriptorBounds(desc charts.ChartDescriptor) (minTime, maxTime time.Time, maxVal float64) {
	for _, ds := range desc.Datasets {
		for _, p := range ds.Points {
			if p.Value == nil {
				continue
			}
			if minTime.IsZero() || p.Date.Before(minTime) {
				minTime = p.Date
			}
			if p.Date.After(maxTime) {
				maxTime = p.Date
			}
			if *p.Value > maxVal {
				maxVal = *p.Value
			}
		}
	}
	if minTime.IsZero() {
		maxTime = time.Now()
		minTime = maxTime.AddDate(0, 0, -1)
	}
	if !maxTime.After(minTime) {
		maxTime = minTime.AddDate(0, 0, 1)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	return minTime, maxTime, maxVal
}
