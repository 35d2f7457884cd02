package charts

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/oilscope/oilscope/internal/core"
)

// Builders are total: missing optional series degrade to absent datasets and
// never error. They are pure with respect to the registry.

// PriceTrend plots one line per vendor. Tooltips use percent-of-spread
// positioning once there are at least two vendors to spread between.
func PriceTrend(series []core.VendorSeries) ChartDescriptor {
	datasets := lo.FilterMap(series, func(s core.VendorSeries, _ int) (Dataset, bool) {
		if len(s.Points) == 0 {
			return Dataset{}, false
		}
		return Dataset{
			Label:  s.Vendor,
			Axis:   AxisYLeft,
			Points: s.Points,
			Filled: len(series) == 1,
		}, true
	})

	return ChartDescriptor{
		Kind:     KindTrendLine,
		Title:    "Vendor Prices",
		Datasets: datasets,
		Axes: []AxisSpec{
			{ID: AxisX, Format: FormatNumber},
			{ID: AxisYLeft, Title: "$/gal", Format: FormatCurrency},
		},
		Tooltip: TooltipSpec{Format: FormatCurrency, SpreadPositioned: len(datasets) >= 2},
	}
}

// UsageVsDemand pairs daily usage bars (left axis, gallons) with the heating
// degree day line (right axis). The HDD dataset is simply absent when no
// temperature data exists.
func UsageVsDemand(usage []core.AggregatedBucket, hdd []core.TimePoint) ChartDescriptor {
	datasets := []Dataset{{
		Label:  "Usage",
		Axis:   AxisYLeft,
		Points: bucketPoints(usage),
	}}
	if len(hdd) > 0 {
		datasets = append(datasets, Dataset{
			Label:  "Heating Demand",
			Axis:   AxisYRight,
			Points: hdd,
		})
	}

	axes := []AxisSpec{
		{ID: AxisX, Format: FormatNumber},
		{ID: AxisYLeft, Title: "gal", Format: FormatGallons},
	}
	if len(hdd) > 0 {
		axes = append(axes, AxisSpec{ID: AxisYRight, Title: "HDD", Format: FormatHDD})
	}

	return ChartDescriptor{
		Kind:     KindDualAxisBar,
		Title:    "Usage vs Heating Demand",
		Datasets: datasets,
		Axes:     axes,
		Tooltip:  TooltipSpec{Format: FormatGallons},
	}
}

// CorrelationScatter joins daily usage to daily HDD by calendar date and
// plots gallons against degree days. The correlation coefficient is a
// server-computed value displayed as-is; nil omits it from the title.
func CorrelationScatter(usage []core.AggregatedBucket, hdd []core.TimePoint, correlation *float64) ChartDescriptor {
	byDate := make(map[time.Time]float64, len(hdd))
	for _, p := range hdd {
		if p.Value != nil {
			byDate[core.Day(p.Date)] = *p.Value
		}
	}

	var pts []XYPoint
	for _, b := range usage {
		if h, ok := byDate[core.Day(b.PeriodStart)]; ok {
			pts = append(pts, XYPoint{X: h, Y: b.Usage})
		}
	}

	title := "Usage vs HDD"
	if correlation != nil {
		title = fmt.Sprintf("Usage vs HDD (r=%.2f)", *correlation)
	}

	return ChartDescriptor{
		Kind:  KindScatter,
		Title: title,
		Datasets: []Dataset{{
			Label: "Daily usage",
			Axis:  AxisYLeft,
			XY:    pts,
		}},
		Axes: []AxisSpec{
			{ID: AxisX, Title: "HDD", Format: FormatHDD},
			{ID: AxisYLeft, Title: "gal", Format: FormatGallons},
		},
		Tooltip: TooltipSpec{Format: FormatGallons},
	}
}

// LevelSparkline is the compact tank-level strip for the header slot.
func LevelSparkline(readings []core.TankReading) ChartDescriptor {
	points := lo.Map(readings, func(r core.TankReading, _ int) core.TimePoint {
		return core.TimePoint{Date: r.Timestamp, Value: core.Float(r.Gallons)}
	})

	return ChartDescriptor{
		Kind:  KindSparkline,
		Title: "Tank Level",
		Datasets: []Dataset{{
			Label:  "Level",
			Axis:   AxisYLeft,
			Points: points,
		}},
		Axes:    []AxisSpec{{ID: AxisYLeft, Format: FormatGallons}},
		Tooltip: TooltipSpec{Format: FormatGallons},
	}
}

// YearOverYear overlays monthly usage by heating season (July through June).
// Dates are re-anchored to a reference season so that the same month of
// different seasons lands on the same x position.
func YearOverYear(monthly []core.AggregatedBucket) ChartDescriptor {
	bySeason := make(map[int][]core.TimePoint)
	for _, b := range monthly {
		season := b.PeriodStart.Year()
		if b.PeriodStart.Month() < time.July {
			season--
		}
		bySeason[season] = append(bySeason[season], core.TimePoint{
			Date:  anchorToSeason(b.PeriodStart),
			Value: core.Float(b.Usage),
		})
	}

	seasons := lo.Keys(bySeason)
	sort.Ints(seasons)
	datasets := make([]Dataset, 0, len(bySeason))
	for _, season := range seasons {
		datasets = append(datasets, Dataset{
			Label:  fmt.Sprintf("%d–%02d", season, (season+1)%100),
			Axis:   AxisYLeft,
			Points: bySeason[season],
		})
	}

	return ChartDescriptor{
		Kind:     KindYearOverYear,
		Title:    "Usage by Season",
		Datasets: datasets,
		Axes: []AxisSpec{
			{ID: AxisX, Format: FormatNumber},
			{ID: AxisYLeft, Title: "gal", Format: FormatGallons},
		},
		Tooltip: TooltipSpec{Format: FormatGallons},
	}
}

// anchorToSeason maps a month to the reference heating season starting July
// 2000, preserving month order within the season.
func anchorToSeason(d time.Time) time.Time {
	year := 2000
	if d.Month() < time.July {
		year = 2001
	}
	return time.Date(year, d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func bucketPoints(buckets []core.AggregatedBucket) []core.TimePoint {
	return lo.Map(buckets, func(b core.AggregatedBucket, _ int) core.TimePoint {
		return core.TimePoint{Date: b.PeriodStart, Value: core.Float(b.Usage)}
	})
}
