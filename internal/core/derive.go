package core

// JitterThresholdGallons is the magnitude below which a level change is
// treated as sensor jitter rather than consumption or refill.
const JitterThresholdGallons = 0.1

// DeriveTankMetrics computes per-reading consumption metrics from a
// time-ordered sequence of readings. The first record (and any record whose
// timestamp does not strictly increase over its predecessor) reports its
// numeric fields as unavailable instead of failing; bad ordering is a
// data-quality condition, not an error.
func DeriveTankMetrics(readings []TankReading) []DerivedRecord {
	if len(readings) == 0 {
		return nil
	}

	out := make([]DerivedRecord, 0, len(readings))
	for i, r := range readings {
		rec := DerivedRecord{
			Timestamp:      r.Timestamp,
			Gallons:        r.Gallons,
			Classification: Classify(r),
		}
		if i == 0 {
			out = append(out, rec)
			continue
		}

		prev := readings[i-1]
		used := prev.Gallons - r.Gallons
		rec.UsedGallons = &used
		rec.Negligible = used < JitterThresholdGallons && used > -JitterThresholdGallons

		interval := r.Timestamp.Sub(prev.Timestamp).Hours()
		if interval > 0 {
			rec.IntervalHours = &interval
			if used > 0 {
				rate := used / interval
				rec.BurnRateGalPerHour = &rate
			}
		}

		out = append(out, rec)
	}
	return out
}

// Classify picks the single display label for a reading. Priority:
// fill > anomaly > post-fill unstable > normal; the first set flag wins.
func Classify(r TankReading) Classification {
	switch {
	case r.IsFillEvent:
		return ClassFillEvent
	case r.IsAnomaly:
		return ClassAnomaly
	case r.IsPostFillUnstable:
		return ClassPostFillUnstable
	default:
		return ClassNormal
	}
}
