package core

import "sort"

const (
	// DefaultTankCapacityGallons matches the common residential 275-gal tank.
	DefaultTankCapacityGallons = 275.0

	fillThresholdGallons  = 30.0 // level jump that indicates a delivery
	noiseThresholdGallons = 2.0  // small unexpected rise = sensor noise
	nearFullFraction      = 0.85 // "near full" zone where sensors misbehave
	stabilityWindowHours  = 48.0 // post-fill settling period
	fluctuationGallons    = 1.0  // swing that counts as post-fill instability
)

// FlagReadings sorts readings by timestamp and sets the classification flags:
// a rise above fillThresholdGallons is a fill event, a small rise is sensor
// noise, and swings near capacity within the settling window after a fill are
// post-fill instability. The input slice is not modified.
func FlagReadings(readings []TankReading, tankCapacity float64) []TankReading {
	if len(readings) == 0 {
		return nil
	}
	if tankCapacity <= 0 {
		tankCapacity = DefaultTankCapacityGallons
	}
	nearFull := tankCapacity * nearFullFraction

	out := make([]TankReading, len(readings))
	copy(out, readings)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })

	var fillEventAt *int // index into out of the last fill
	for i := range out {
		out[i].IsFillEvent = false
		out[i].IsAnomaly = false
		out[i].IsPostFillUnstable = false
		if i == 0 {
			continue
		}

		delta := out[i].Gallons - out[i-1].Gallons

		switch {
		case delta > fillThresholdGallons:
			out[i].IsFillEvent = true
			idx := i
			fillEventAt = &idx
		case delta > 0 && delta <= noiseThresholdGallons:
			out[i].IsAnomaly = true
		}

		if fillEventAt != nil {
			hoursSinceFill := out[i].Timestamp.Sub(out[*fillEventAt].Timestamp).Hours()
			if hoursSinceFill < stabilityWindowHours && out[i].Gallons > nearFull {
				if delta > fluctuationGallons || delta < -fluctuationGallons {
					out[i].IsPostFillUnstable = true
				}
			} else if hoursSinceFill >= stabilityWindowHours {
				fillEventAt = nil
			}
		}
	}
	return out
}
