package report

// Freshness categories for the registration-to-lead delay. Buckets are
// half-open, lower-inclusive, and cover every non-negative delay.
const (
	FreshnessUnder5Min  = "under 5min"
	Freshness5MinTo1H   = "5min to 1h"
	Freshness1HTo10H    = "1h to 10h"
	FreshnessPrevDay    = "previous-day leads"
	FreshnessTwoDaysOld = "2-day-old leads"
)

// FreshnessOrder fixes the display order of the freshness categories.
var FreshnessOrder = []string{
	FreshnessUnder5Min,
	Freshness5MinTo1H,
	Freshness1HTo10H,
	FreshnessPrevDay,
	FreshnessTwoDaysOld,
}

// FreshnessBucket categorizes a registration-to-lead delay in minutes.
func FreshnessBucket(minutes float64) string {
	switch {
	case minutes < 5:
		return FreshnessUnder5Min
	case minutes < 60:
		return Freshness5MinTo1H
	case minutes < 600:
		return Freshness1HTo10H
	case minutes < 1440:
		return FreshnessPrevDay
	default:
		return FreshnessTwoDaysOld
	}
}
