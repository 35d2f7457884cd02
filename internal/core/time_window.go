package core

// TimeWindow represents a configurable time window for filtering series data.
type TimeWindow string

const (
	TimeWindow7d  TimeWindow = "7d"
	TimeWindow30d TimeWindow = "30d"
	TimeWindow90d TimeWindow = "90d"
	TimeWindow1y  TimeWindow = "1y"
)

var ValidTimeWindows = []TimeWindow{
	TimeWindow7d,
	TimeWindow30d,
	TimeWindow90d,
	TimeWindow1y,
}

// Days returns the window size in days.
func (tw TimeWindow) Days() int {
	switch tw {
	case TimeWindow7d:
		return 7
	case TimeWindow30d:
		return 30
	case TimeWindow90d:
		return 90
	case TimeWindow1y:
		return 365
	default:
		return 90
	}
}

func (tw TimeWindow) Label() string {
	switch tw {
	case TimeWindow7d:
		return "7 Days"
	case TimeWindow30d:
		return "30 Days"
	case TimeWindow90d:
		return "90 Days"
	case TimeWindow1y:
		return "1 Year"
	default:
		return "90 Days"
	}
}

// SQLiteOffset returns the SQLite datetime offset string for this window
// (e.g., "-90 day").
func (tw TimeWindow) SQLiteOffset() string {
	switch tw {
	case TimeWindow7d:
		return "-7 day"
	case TimeWindow30d:
		return "-30 day"
	case TimeWindow90d:
		return "-90 day"
	case TimeWindow1y:
		return "-365 day"
	default:
		return "-90 day"
	}
}

func ParseTimeWindow(s string) TimeWindow {
	for _, tw := range ValidTimeWindows {
		if string(tw) == s {
			return tw
		}
	}
	return TimeWindow90d
}

// NextTimeWindow returns the next time window in the cycle.
func NextTimeWindow(current TimeWindow) TimeWindow {
	for i, tw := range ValidTimeWindows {
		if tw == current {
			return ValidTimeWindows[(i+1)%len(ValidTimeWindows)]
		}
	}
	return ValidTimeWindows[0]
}
