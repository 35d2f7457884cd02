package core

const (
	hddBaseTempF = 65.0

	// K-factor guards: need a real amount of accumulated HDD before trusting
	// the ratio, and residential burners do not plausibly exceed the cap.
	kFactorMinHDD  = 50.0
	kFactorCap     = 0.4
	kFactorDefault = 0.15
)

// HeatingDegreeDays returns the day's HDD from the high/low temperatures
// (base 65°F mean method).
func HeatingDegreeDays(high, low float64) float64 {
	hdd := hddBaseTempF - (high+low)/2
	if hdd < 0 {
		return 0
	}
	return hdd
}

// HDDSeries maps daily temperature observations to an HDD series. Days with a
// missing high or low produce a nil-valued point so aggregation can tell
// "no observation" from "zero demand".
func HDDSeries(days []TemperatureDay) []TimePoint {
	out := make([]TimePoint, 0, len(days))
	for _, d := range days {
		p := TimePoint{Date: Day(d.Date)}
		if d.High != nil && d.Low != nil {
			p.Value = Float(HeatingDegreeDays(*d.High, *d.Low))
		}
		out = append(out, p)
	}
	return out
}

// KFactor estimates burner efficiency as gallons per heating degree day over
// a recent confirmed-usage window. Falls back to a conservative default when
// there is not enough accumulated HDD to trust the ratio.
func KFactor(totalGallons, totalHDD float64) float64 {
	if totalHDD <= kFactorMinHDD || totalGallons <= 0 {
		return kFactorDefault
	}
	k := totalGallons / totalHDD
	if k > kFactorCap {
		return kFactorCap
	}
	return k
}

// DaysToEmpty projects runway at the given burn rate. Returns nil when the
// rate is unavailable or non-positive (a projection would be meaningless).
func DaysToEmpty(currentGallons float64, burnRateGalPerHour *float64) *float64 {
	if burnRateGalPerHour == nil || *burnRateGalPerHour <= 0 || currentGallons <= 0 {
		return nil
	}
	days := currentGallons / *burnRateGalPerHour / 24
	return &days
}
