package core

import (
	"sort"
	"time"
)

// Aggregate buckets daily points into the requested granularity, summing
// values. Weekly buckets key on the preceding (or same) Sunday, monthly
// buckets on the first of the month. A nil Value contributes 0 to its bucket
// but still causes the bucket to exist. Empty input yields empty output.
func Aggregate(points []TimePoint, g Granularity) []AggregatedBucket {
	if len(points) == 0 {
		return nil
	}

	if g == GranularityDaily {
		out := make([]AggregatedBucket, 0, len(points))
		for _, p := range points {
			out = append(out, AggregatedBucket{PeriodStart: Day(p.Date), Usage: deref(p.Value)})
		}
		return out
	}

	sums := make(map[time.Time]float64)
	for _, p := range points {
		key := bucketKey(p.Date, g)
		sums[key] += deref(p.Value)
	}

	out := make([]AggregatedBucket, 0, len(sums))
	for key, usage := range sums {
		out = append(out, AggregatedBucket{PeriodStart: key, Usage: usage})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out
}

// AggregateMean buckets like Aggregate but averages non-nil values instead of
// summing. Price series are aggregated this way; a bucket whose points are
// all nil reports 0.
func AggregateMean(points []TimePoint, g Granularity) []AggregatedBucket {
	if len(points) == 0 {
		return nil
	}

	type acc struct {
		sum float64
		n   int
	}
	accs := make(map[time.Time]*acc)
	order := make([]time.Time, 0)
	for _, p := range points {
		key := bucketKey(p.Date, g)
		a, ok := accs[key]
		if !ok {
			a = &acc{}
			accs[key] = a
			order = append(order, key)
		}
		if p.Value != nil {
			a.sum += *p.Value
			a.n++
		}
	}

	out := make([]AggregatedBucket, 0, len(accs))
	for _, key := range order {
		a := accs[key]
		usage := 0.0
		if a.n > 0 {
			usage = a.sum / float64(a.n)
		}
		out = append(out, AggregatedBucket{PeriodStart: key, Usage: usage})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out
}

// ForwardFill expands points to one per day over [from, to], carrying the
// last seen value across gaps. Days before the first observation stay nil.
func ForwardFill(points []TimePoint, from, to time.Time) []TimePoint {
	from, to = Day(from), Day(to)
	if to.Before(from) {
		return nil
	}

	known := make(map[time.Time]*float64, len(points))
	for _, p := range points {
		if p.Value != nil {
			known[Day(p.Date)] = p.Value
		}
	}

	var out []TimePoint
	var last *float64
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if v, ok := known[d]; ok {
			last = v
		}
		out = append(out, TimePoint{Date: d, Value: last})
	}
	return out
}

func bucketKey(date time.Time, g Granularity) time.Time {
	d := Day(date)
	switch g {
	case GranularityWeekly:
		return d.AddDate(0, 0, -int(d.Weekday()))
	case GranularityMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float is a convenience for building optional values in literals.
func Float(v float64) *float64 { return &v }
