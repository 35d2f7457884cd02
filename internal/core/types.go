package core

import "time"

type Status string

const (
	StatusOK      Status = "OK"
	StatusError   Status = "ERROR"
	StatusStale   Status = "STALE"
	StatusUnknown Status = "UNKNOWN"
)

// TimePoint is one calendar-day observation. A nil Value means "no reading",
// which is distinct from zero.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"value"`
}

// Day normalizes a timestamp to midnight UTC so it can act as a calendar key.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TankReading is a single gauge sample. The classification flags come from
// FlagReadings (or upstream) and are not mutually exclusive; absence of all
// three means a normal sample.
type TankReading struct {
	Timestamp          time.Time `json:"timestamp"`
	Gallons            float64   `json:"gallons"`
	IsFillEvent        bool      `json:"is_fill_event"`
	IsAnomaly          bool      `json:"is_anomaly"`
	IsPostFillUnstable bool      `json:"is_post_fill_unstable"`
}

// AggregatedBucket is the output of Aggregate: the period-start-aligned key
// (Sunday for weeks, day 1 for months) and the summed usage of the period.
type AggregatedBucket struct {
	PeriodStart time.Time `json:"period_start"`
	Usage       float64   `json:"usage"`
}

type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// Classification is the single display label for a reading. Flags may overlap
// upstream; classification never does.
type Classification string

const (
	ClassFillEvent        Classification = "FILL_EVENT"
	ClassAnomaly          Classification = "ANOMALY"
	ClassPostFillUnstable Classification = "POST_FILL_UNSTABLE"
	ClassNormal           Classification = "NORMAL"
)

// DerivedRecord carries the per-reading metrics computed by DeriveTankMetrics.
// Nil pointers mean "unavailable" (first reading, or a non-increasing
// timestamp pair), never zero.
type DerivedRecord struct {
	Timestamp          time.Time      `json:"timestamp"`
	Gallons            float64        `json:"gallons"`
	UsedGallons        *float64       `json:"used_gallons"`
	IntervalHours      *float64       `json:"interval_hours"`
	BurnRateGalPerHour *float64       `json:"burn_rate_gph"`
	Classification     Classification `json:"classification"`
	// Negligible marks deltas within the sensor-jitter threshold; the UI shows
	// these as neutral rather than as consumption or refill.
	Negligible bool `json:"negligible"`
}

// VendorSeries is one vendor's price history, forward-filled by the caller
// when gap-free plotting is needed.
type VendorSeries struct {
	Vendor string      `json:"vendor"`
	Points []TimePoint `json:"points"`
}

type OilOrder struct {
	Date           time.Time `json:"date"`
	Gallons        float64   `json:"gallons"`
	PricePerGallon float64   `json:"price_per_gallon"`
	TotalCost      float64   `json:"total_cost"`
	Vendor         string    `json:"vendor"`
}

// TemperatureDay is a daily high/low pair; nil means the observation is
// missing for that day.
type TemperatureDay struct {
	Date time.Time `json:"date"`
	High *float64  `json:"high"`
	Low  *float64  `json:"low"`
}

// DashboardSummary holds server-computed analytics. These values are opaque
// to the dashboard: it renders them, it does not recompute them.
type DashboardSummary struct {
	CurrentGallons  *float64 `json:"current_gallons"`
	AvgDailyUsage   *float64 `json:"avg_daily_usage"`
	HDDCorrelation  *float64 `json:"hdd_correlation"`
	PredictedEmpty  string   `json:"predicted_empty"`
	LocalTrend7d    float64  `json:"local_trend_7d"`
	LocalTrend30d   float64  `json:"local_trend_30d"`
	LocalTrend90d   float64  `json:"local_trend_90d"`
	MarketTrend7d   float64  `json:"market_trend_7d"`
	PricePrediction string   `json:"price_prediction"`
}
