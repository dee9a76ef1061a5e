package model

import "time"

// KPIs is the scalar metric bundle computed over one fetched row set.
// AvgPrice and AvgHeat are nil when no row carries the underlying value;
// renderers show a "–" sentinel in that case.
type KPIs struct {
	TotalLeads    int
	TotalRevenue  float64
	AvgPrice      *float64
	UniqueSources int
	AvgHeat       *time.Duration
}

// CapSource identifies which cap granularity a reconciliation used.
type CapSource int

const (
	// CapNone means no cap is configured for the period; progress is
	// undefined and must not be computed.
	CapNone CapSource = iota
	// CapDaily means the cap was summed from per-day daily_cap values.
	CapDaily
	// CapMonthly means a monthly_cap was prorated by days/30.
	CapMonthly
)

func (s CapSource) String() string {
	switch s {
	case CapDaily:
		return "daily"
	case CapMonthly:
		return "monthly"
	default:
		return "none"
	}
}

// CapComparison compares observed lead volume against the campaign cap
// derived for the period.
type CapComparison struct {
	LeadsGenerated int
	AdjustedCap    int
	Source         CapSource
}

// Progress returns the cap utilization percentage, not clamped to [0,100].
// The second return is false when no cap is configured or the adjusted cap
// is zero; callers must not synthesize a percentage in that case.
func (c CapComparison) Progress() (float64, bool) {
	if c.Source == CapNone || c.AdjustedCap == 0 {
		return 0, false
	}
	return float64(c.LeadsGenerated) / float64(c.AdjustedCap) * 100, true
}
