// Package charts holds the pure chart-construction layer (descriptors and
// their builders) and the slot registry that owns widget lifecycle. Builders
// never touch the registry; the registry never inspects descriptors.
package charts

import "github.com/oilscope/oilscope/internal/core"

type ChartKind string

const (
	KindTrendLine    ChartKind = "trend_line"
	KindDualAxisBar  ChartKind = "dual_axis_bar"
	KindScatter      ChartKind = "scatter"
	KindSparkline    ChartKind = "sparkline"
	KindYearOverYear ChartKind = "year_over_year"
)

type AxisID string

const (
	AxisX      AxisID = "x"
	AxisYLeft  AxisID = "y-left"
	AxisYRight AxisID = "y-right"
)

type ValueFormat string

const (
	FormatCurrency ValueFormat = "currency"
	FormatGallons  ValueFormat = "gallons"
	FormatHDD      ValueFormat = "hdd"
	FormatNumber   ValueFormat = "number"
)

// Dataset is one plotted series. Points use nil values for gaps; renderers
// skip them rather than drawing zeros. Scatter charts carry XY pairs instead
// of a date-keyed series.
type Dataset struct {
	Label     string           `json:"label"`
	Axis      AxisID           `json:"axis"`
	Points    []core.TimePoint `json:"points,omitempty"`
	XY        []XYPoint        `json:"xy,omitempty"`
	ColorRole string           `json:"color_role,omitempty"`
	// Filled asks area-style rendering (single-series trend charts).
	Filled bool `json:"filled,omitempty"`
}

// XYPoint is a scatter sample with both coordinates numeric.
type XYPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type AxisSpec struct {
	ID     AxisID      `json:"id"`
	Title  string      `json:"title,omitempty"`
	Format ValueFormat `json:"format"`
	Min    *float64    `json:"min,omitempty"`
	Max    *float64    `json:"max,omitempty"`
}

// TooltipSpec describes hover/legend value formatting. SpreadPositioned marks
// the vendor-spread style where the readout is placed proportionally between
// the cheapest and priciest series (see SpreadPosition).
type TooltipSpec struct {
	Format           ValueFormat `json:"format"`
	SpreadPositioned bool        `json:"spread_positioned,omitempty"`
}

// ChartDescriptor is a pure, serializable rendering intent: what to draw,
// never how or where. Installing it into a slot is the registry's business.
type ChartDescriptor struct {
	Kind     ChartKind   `json:"kind"`
	Title    string      `json:"title"`
	Datasets []Dataset   `json:"datasets"`
	Axes     []AxisSpec  `json:"axes"`
	Tooltip  TooltipSpec `json:"tooltip"`
}

// Axis returns the spec for the given axis id, or a zero spec when absent.
func (d ChartDescriptor) Axis(id AxisID) AxisSpec {
	for _, a := range d.Axes {
		if a.ID == id {
			return a
		}
	}
	return AxisSpec{ID: id, Format: FormatNumber}
}

// Empty reports whether no dataset carries a non-nil point.
func (d ChartDescriptor) Empty() bool {
	for _, ds := range d.Datasets {
		if len(ds.XY) > 0 {
			return false
		}
		for _, p := range ds.Points {
			if p.Value != nil {
				return false
			}
		}
	}
	return true
}
