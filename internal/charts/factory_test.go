package charts

import (
	"testing"
	"time"

	"github.com/oilscope/oilscope/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceTrend(t *testing.T) {
	series := []core.VendorSeries{
		{Vendor: "Acme Oil", Points: []core.TimePoint{{Date: day(2024, 1, 1), Value: core.Float(3.459)}}},
		{Vendor: "Valley Fuel", Points: []core.TimePoint{{Date: day(2024, 1, 1), Value: core.Float(3.599)}}},
		{Vendor: "No Data Co"},
	}

	d := PriceTrend(series)
	if d.Kind != KindTrendLine {
		t.Errorf("kind = %s", d.Kind)
	}
	if len(d.Datasets) != 2 {
		t.Fatalf("got %d datasets, want 2 (empty vendor dropped)", len(d.Datasets))
	}
	if d.Axis(AxisYLeft).Format != FormatCurrency {
		t.Errorf("y axis format = %s, want currency", d.Axis(AxisYLeft).Format)
	}
	if !d.Tooltip.SpreadPositioned {
		t.Errorf("two-vendor trend should position tooltips by spread")
	}

	single := PriceTrend(series[:1])
	if single.Tooltip.SpreadPositioned {
		t.Errorf("single-vendor trend has no spread to position against")
	}
	if !single.Datasets[0].Filled {
		t.Errorf("single series should render filled")
	}
}

func TestUsageVsDemandDegradesWithoutTemperatures(t *testing.T) {
	usage := []core.AggregatedBucket{{PeriodStart: day(2024, 1, 1), Usage: 5.5}}

	with := UsageVsDemand(usage, []core.TimePoint{{Date: day(2024, 1, 1), Value: core.Float(40)}})
	if len(with.Datasets) != 2 {
		t.Fatalf("got %d datasets, want 2", len(with.Datasets))
	}
	if with.Datasets[1].Axis != AxisYRight {
		t.Errorf("HDD series must sit on the right axis")
	}

	without := UsageVsDemand(usage, nil)
	if len(without.Datasets) != 1 {
		t.Fatalf("missing temperature data must degrade to one dataset, got %d", len(without.Datasets))
	}
	for _, a := range without.Axes {
		if a.ID == AxisYRight {
			t.Errorf("right axis should be absent without an HDD series")
		}
	}
}

func TestCorrelationScatterJoinsByDate(t *testing.T) {
	usage := []core.AggregatedBucket{
		{PeriodStart: day(2024, 1, 1), Usage: 6},
		{PeriodStart: day(2024, 1, 2), Usage: 4},
		{PeriodStart: day(2024, 1, 3), Usage: 2}, // no HDD for this day
	}
	hdd := []core.TimePoint{
		{Date: day(2024, 1, 1), Value: core.Float(45)},
		{Date: day(2024, 1, 2), Value: core.Float(30)},
		{Date: day(2024, 1, 4), Value: core.Float(20)}, // no usage for this day
	}

	d := CorrelationScatter(usage, hdd, core.Float(0.87))
	if len(d.Datasets) != 1 {
		t.Fatalf("got %d datasets", len(d.Datasets))
	}
	pts := d.Datasets[0].XY
	if len(pts) != 2 {
		t.Fatalf("got %d joined points, want 2", len(pts))
	}
	if pts[0].X != 45 || pts[0].Y != 6 {
		t.Errorf("first point = %+v, want {45 6}", pts[0])
	}
	if d.Title != "Usage vs HDD (r=0.87)" {
		t.Errorf("title = %q", d.Title)
	}

	noCorr := CorrelationScatter(usage, hdd, nil)
	if noCorr.Title != "Usage vs HDD" {
		t.Errorf("nil correlation title = %q", noCorr.Title)
	}
}

func TestCorrelationScatterTotalOverEmptyInput(t *testing.T) {
	d := CorrelationScatter(nil, nil, nil)
	if !d.Empty() {
		t.Errorf("empty inputs should produce an empty descriptor, not an error")
	}
}

func TestLevelSparkline(t *testing.T) {
	readings := []core.TankReading{
		{Timestamp: day(2024, 1, 1), Gallons: 200},
		{Timestamp: day(2024, 1, 2), Gallons: 195},
	}
	d := LevelSparkline(readings)
	if d.Kind != KindSparkline {
		t.Errorf("kind = %s", d.Kind)
	}
	if len(d.Datasets[0].Points) != 2 {
		t.Fatalf("got %d points", len(d.Datasets[0].Points))
	}
	if *d.Datasets[0].Points[0].Value != 200 {
		t.Errorf("point value = %v", *d.Datasets[0].Points[0].Value)
	}
}

func TestYearOverYearSplitsHeatingSeasons(t *testing.T) {
	monthly := []core.AggregatedBucket{
		{PeriodStart: day(2023, time.December, 1), Usage: 80}, // season 2023–24
		{PeriodStart: day(2024, time.February, 1), Usage: 70}, // season 2023–24
		{PeriodStart: day(2024, time.December, 1), Usage: 90}, // season 2024–25
	}

	d := YearOverYear(monthly)
	if len(d.Datasets) != 2 {
		t.Fatalf("got %d season datasets, want 2", len(d.Datasets))
	}
	if d.Datasets[0].Label != "2023–24" || d.Datasets[1].Label != "2024–25" {
		t.Errorf("season labels = %q, %q", d.Datasets[0].Label, d.Datasets[1].Label)
	}

	// December of both seasons must land on the same anchored x position.
	dec23 := d.Datasets[0].Points[0].Date
	dec24 := d.Datasets[1].Points[0].Date
	if !dec23.Equal(dec24) {
		t.Errorf("same month of different seasons should overlay: %v vs %v", dec23, dec24)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		f    ValueFormat
		v    float64
		want string
	}{
		{FormatCurrency, 3.4589, "$3.459"},
		{FormatCurrency, 812.5, "$812.50"},
		{FormatGallons, 12.34, "12.3 gal"},
		{FormatHDD, 41.7, "42 HDD"},
		{FormatNumber, 7, "7"},
		{FormatNumber, 7.25, "7.2"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.f, tt.v); got != tt.want {
			t.Errorf("FormatValue(%s, %v) = %q, want %q", tt.f, tt.v, got, tt.want)
		}
	}
}

func TestSpreadPosition(t *testing.T) {
	tests := []struct {
		low, high, v, want float64
	}{
		{3.0, 4.0, 3.5, 50},
		{3.0, 4.0, 3.0, 0},
		{3.0, 4.0, 4.2, 100}, // clamped
		{3.0, 4.0, 2.5, 0},   // clamped
		{3.0, 3.0, 3.0, 50},  // degenerate spread centers
	}
	for _, tt := range tests {
		if got := SpreadPosition(tt.low, tt.high, tt.v); got != tt.want {
			t.Errorf("SpreadPosition(%v, %v, %v) = %v, want %v", tt.low, tt.high, tt.v, got, tt.want)
		}
	}
}
