package core

import "testing"

func TestTimeWindowDays(t *testing.T) {
	tests := []struct {
		tw   TimeWindow
		want int
	}{
		{TimeWindow7d, 7},
		{TimeWindow30d, 30},
		{TimeWindow90d, 90},
		{TimeWindow1y, 365},
		{TimeWindow(""), 90},
		{TimeWindow("999d"), 90},
	}
	for _, tt := range tests {
		t.Run(string(tt.tw), func(t *testing.T) {
			if got := tt.tw.Days(); got != tt.want {
				t.Errorf("TimeWindow(%q).Days() = %d, want %d", tt.tw, got, tt.want)
			}
		})
	}
}

func TestTimeWindowSQLiteOffset(t *testing.T) {
	tests := []struct {
		tw   TimeWindow
		want string
	}{
		{TimeWindow7d, "-7 day"},
		{TimeWindow30d, "-30 day"},
		{TimeWindow90d, "-90 day"},
		{TimeWindow1y, "-365 day"},
		{TimeWindow(""), "-90 day"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tw), func(t *testing.T) {
			if got := tt.tw.SQLiteOffset(); got != tt.want {
				t.Errorf("TimeWindow(%q).SQLiteOffset() = %q, want %q", tt.tw, got, tt.want)
			}
		})
	}
}

func TestParseTimeWindow(t *testing.T) {
	if got := ParseTimeWindow("7d"); got != TimeWindow7d {
		t.Errorf("ParseTimeWindow(7d) = %q", got)
	}
	if got := ParseTimeWindow("bogus"); got != TimeWindow90d {
		t.Errorf("ParseTimeWindow(bogus) = %q, want default 90d", got)
	}
}

func TestNextTimeWindowCycles(t *testing.T) {
	seen := map[TimeWindow]bool{}
	tw := TimeWindow7d
	for range ValidTimeWindows {
		seen[tw] = true
		tw = NextTimeWindow(tw)
	}
	if tw != TimeWindow7d {
		t.Errorf("cycle did not wrap: ended at %q", tw)
	}
	if len(seen) != len(ValidTimeWindows) {
		t.Errorf("cycle visited %d windows, want %d", len(seen), len(ValidTimeWindows))
	}
}
