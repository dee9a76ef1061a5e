package report

import (
	"sort"

	"go.uber.org/zap"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// ReconcileCap compares the leads generated over the selection period
// against the campaign cap configured for it.
//
// When any row in range carries a daily_cap, the cap is the per-day maximum
// summed across the days actually present in the data; taking the max per
// day guards against join duplication inflating the value. Otherwise a
// single monthly_cap prorates linearly by days/30. With neither configured
// the result is the explicit no-cap sentinel and progress stays undefined.
//
// Row sets spanning several campaigns reconcile per campaign and sum: the
// daily grouping key is (campaign, day) and the monthly representative is
// taken per campaign. For a single-campaign row set this reduces to the
// plain per-day / single-value behavior.
func ReconcileCap(sel model.Selection, rows []model.LeadRow) model.CapComparison {
	cmp := model.CapComparison{LeadsGenerated: len(rows)}

	type dayKey struct{ campaign, day string }
	dailyMax := make(map[dayKey]int)
	monthly := make(map[string]int)

	for i := range rows {
		r := &rows[i]
		campaign := ""
		if r.CampaignName != nil {
			campaign = *r.CampaignName
		}

		if r.DailyCap != nil {
			k := dayKey{campaign: campaign, day: r.Day()}
			if *r.DailyCap > dailyMax[k] {
				dailyMax[k] = *r.DailyCap
			}
		}
		if r.MonthlyCap != nil {
			prev, seen := monthly[campaign]
			if seen && prev != *r.MonthlyCap {
				// Data anomaly: one campaign, several monthly caps in one
				// period. Keep the first value encountered.
				zap.L().Warn("report: conflicting monthly caps for campaign",
					zap.String("campaign", campaign),
					zap.Int("kept", prev),
					zap.Int("ignored", *r.MonthlyCap),
				)
				continue
			}
			if !seen {
				monthly[campaign] = *r.MonthlyCap
			}
		}
	}

	if len(dailyMax) > 0 {
		cmp.Source = model.CapDaily
		for _, c := range dailyMax {
			cmp.AdjustedCap += c
		}
		return cmp
	}

	if len(monthly) > 0 {
		cmp.Source = model.CapMonthly
		total := 0
		for _, c := range monthly {
			total += c
		}
		cmp.AdjustedCap = total * sel.Days() / 30
		return cmp
	}

	cmp.Source = model.CapNone
	return cmp
}

// GlobalCapEstimate computes the coarse whole-rowset cap estimate shown by
// the unscoped report: every observed daily_cap summed across rows and
// multiplied by the day span, falling back to summed monthly caps prorated
// by days/30, else the no-cap sentinel. It deliberately skips campaign and
// day grouping, so duplicated cap values inflate it; ReconcileCap is the
// grouped reconciliation for campaign-scoped row sets.
func GlobalCapEstimate(sel model.Selection, rows []model.LeadRow) model.CapComparison {
	cmp := model.CapComparison{LeadsGenerated: len(rows)}

	var daily, monthly int
	var hasDaily, hasMonthly bool
	for i := range rows {
		r := &rows[i]
		if r.DailyCap != nil {
			daily += *r.DailyCap
			hasDaily = true
		}
		if r.MonthlyCap != nil {
			monthly += *r.MonthlyCap
			hasMonthly = true
		}
	}

	switch {
	case hasDaily:
		cmp.Source = model.CapDaily
		cmp.AdjustedCap = daily * sel.Days()
	case hasMonthly:
		cmp.Source = model.CapMonthly
		cmp.AdjustedCap = monthly * sel.Days() / 30
	default:
		cmp.Source = model.CapNone
	}
	return cmp
}

// DayCap is one day's effective daily cap.
type DayCap struct {
	Day string
	Cap int
}

// DailyCapSeries returns the per-day maximum daily_cap observed in the row
// set, sorted chronologically. Days whose rows carry no cap report zero.
func DailyCapSeries(rows []model.LeadRow) []DayCap {
	byDay := make(map[string]int)
	for i := range rows {
		r := &rows[i]
		day := r.Day()
		if day == "" {
			continue
		}
		if _, ok := byDay[day]; !ok {
			byDay[day] = 0
		}
		if r.DailyCap != nil && *r.DailyCap > byDay[day] {
			byDay[day] = *r.DailyCap
		}
	}

	out := make([]DayCap, 0, len(byDay))
	for day, c := range byDay {
		out = append(out, DayCap{Day: day, Cap: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
