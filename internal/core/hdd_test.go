package core

import (
	"testing"
	"time"
)

func TestHeatingDegreeDays(t *testing.T) {
	tests := []struct {
		name      string
		high, low float64
		want      float64
	}{
		{"cold day", 30, 10, 45},
		{"mild day", 60, 50, 10},
		{"warm day clamps to zero", 90, 70, 0},
		{"base temp exactly", 70, 60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeatingDegreeDays(tt.high, tt.low); got != tt.want {
				t.Errorf("HeatingDegreeDays(%v, %v) = %v, want %v", tt.high, tt.low, got, tt.want)
			}
		})
	}
}

func TestHDDSeriesMissingObservations(t *testing.T) {
	days := []TemperatureDay{
		{Date: day(2024, time.January, 1), High: Float(30), Low: Float(10)},
		{Date: day(2024, time.January, 2), High: Float(30)}, // missing low
		{Date: day(2024, time.January, 3)},
	}
	got := HDDSeries(days)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	if got[0].Value == nil || *got[0].Value != 45 {
		t.Errorf("complete day = %v, want 45", got[0].Value)
	}
	if got[1].Value != nil || got[2].Value != nil {
		t.Errorf("days with missing observations must produce nil values")
	}
}

func TestKFactor(t *testing.T) {
	tests := []struct {
		name            string
		gallons, hdd    float64
		want            float64
	}{
		{"normal ratio", 60, 400, 0.15},
		{"capped", 300, 500, 0.4},
		{"insufficient hdd falls back", 10, 40, kFactorDefault},
		{"no gallons falls back", 0, 400, kFactorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KFactor(tt.gallons, tt.hdd); got != tt.want {
				t.Errorf("KFactor(%v, %v) = %v, want %v", tt.gallons, tt.hdd, got, tt.want)
			}
		})
	}
}

func TestDaysToEmpty(t *testing.T) {
	rate := 0.5 // gal/hour → 12 gal/day
	got := DaysToEmpty(120, &rate)
	if got == nil || *got != 10 {
		t.Errorf("DaysToEmpty(120, 0.5) = %v, want 10", got)
	}

	if DaysToEmpty(120, nil) != nil {
		t.Errorf("nil burn rate must yield nil projection")
	}
	zero := 0.0
	if DaysToEmpty(120, &zero) != nil {
		t.Errorf("zero burn rate must yield nil projection")
	}
}
