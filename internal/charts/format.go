package charts

import (
	"fmt"
	"time"
)

// FormatValue renders an axis/tooltip value. Currency keeps three decimals in
// the per-gallon range and two above it; gallons and HDD get unit suffixes.
func FormatValue(f ValueFormat, v float64) string {
	switch f {
	case FormatCurrency:
		if v < 10 {
			return fmt.Sprintf("$%.3f", v)
		}
		return fmt.Sprintf("$%.2f", v)
	case FormatGallons:
		return fmt.Sprintf("%.1f gal", v)
	case FormatHDD:
		return fmt.Sprintf("%.0f HDD", v)
	default:
		if v == float64(int(v)) {
			return fmt.Sprintf("%d", int(v))
		}
		return fmt.Sprintf("%.1f", v)
	}
}

// FormatTooltip renders a labeled readout, e.g. "Acme Oil: $3.459".
func (t TooltipSpec) FormatTooltip(label string, v float64) string {
	if label == "" {
		return FormatValue(t.Format, v)
	}
	return label + ": " + FormatValue(t.Format, v)
}

// SpreadPosition places a value proportionally between the low and high of a
// vendor spread, as a 0–100 percentage, clamped. Degenerate spreads center.
func SpreadPosition(low, high, v float64) float64 {
	if high <= low {
		return 50
	}
	pct := (v - low) / (high - low) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func FormatDateLabel(d time.Time) string {
	return d.Format("Jan 2")
}

func FormatMonthLabel(d time.Time) string {
	return d.Format("Jan")
}
