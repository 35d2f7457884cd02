package core

import (
	"testing"
	"time"
)

func TestFlagReadingsFillEvent(t *testing.T) {
	t0 := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	got := FlagReadings([]TankReading{
		reading(t0, 60),
		reading(t0.Add(time.Hour), 240), // +180 gal
	}, DefaultTankCapacityGallons)

	if !got[1].IsFillEvent {
		t.Errorf("180 gal jump should flag a fill event")
	}
	if got[0].IsFillEvent || got[0].IsAnomaly {
		t.Errorf("first reading has no predecessor and must stay unflagged")
	}
}

func TestFlagReadingsSensorNoise(t *testing.T) {
	t0 := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	got := FlagReadings([]TankReading{
		reading(t0, 100),
		reading(t0.Add(time.Hour), 101.5), // small rise = noise
	}, DefaultTankCapacityGallons)

	if !got[1].IsAnomaly {
		t.Errorf("1.5 gal rise should flag sensor noise")
	}
	if got[1].IsFillEvent {
		t.Errorf("1.5 gal rise is not a fill")
	}
}

func TestFlagReadingsPostFillInstability(t *testing.T) {
	t0 := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	got := FlagReadings([]TankReading{
		reading(t0, 60),
		reading(t0.Add(time.Hour), 250),                 // fill, near 275 cap
		reading(t0.Add(2*time.Hour), 246),               // -4 gal swing near full
		reading(t0.Add(72*time.Hour), 240),              // outside 48h window
	}, DefaultTankCapacityGallons)

	if !got[2].IsPostFillUnstable {
		t.Errorf("large swing near capacity within 48h of fill should be unstable")
	}
	if got[3].IsPostFillUnstable {
		t.Errorf("swing after the stability window should not be flagged")
	}
}

func TestFlagReadingsSortsByTimestamp(t *testing.T) {
	t0 := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	got := FlagReadings([]TankReading{
		reading(t0.Add(time.Hour), 240),
		reading(t0, 60),
	}, 0) // zero capacity falls back to default

	if !got[0].Timestamp.Equal(t0) {
		t.Fatalf("output not sorted by timestamp")
	}
	if !got[1].IsFillEvent {
		t.Errorf("fill should be detected after sorting")
	}
}

func TestFlagReadingsEmpty(t *testing.T) {
	if got := FlagReadings(nil, DefaultTankCapacityGallons); got != nil {
		t.Errorf("FlagReadings(nil) = %v, want nil", got)
	}
}
