// Package report computes the scalar KPIs, the pivot views, and the cap
// reconciliation over one fetched lead row set. Everything here is pure
// in-memory computation; empty input degrades to explicit "no data" results
// instead of raising.
package report

import (
	"fmt"
	"time"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// NoData is the sentinel renderers show for undefined means and durations.
const NoData = "–"

// ComputeKPIs derives the scalar metric bundle from the row set. Revenue
// sums non-null prices; the average is over priced rows only. Lead heat is
// the mean registration-to-lead delay over rows that became leads.
func ComputeKPIs(rows []model.LeadRow) model.KPIs {
	k := model.KPIs{TotalLeads: len(rows)}

	var priced int
	var heatTotal time.Duration
	var heated int
	sources := make(map[string]bool)

	for i := range rows {
		r := &rows[i]
		if r.PriceEUR != nil {
			k.TotalRevenue += *r.PriceEUR
			priced++
		}
		if r.AffiliateName != nil && *r.AffiliateName != "" {
			sources[*r.AffiliateName] = true
		}
		if d, ok := r.Heat(); ok {
			heatTotal += d
			heated++
		}
	}

	k.UniqueSources = len(sources)
	if priced > 0 {
		avg := k.TotalRevenue / float64(priced)
		k.AvgPrice = &avg
	}
	if heated > 0 {
		avg := heatTotal / time.Duration(heated)
		k.AvgHeat = &avg
	}
	return k
}

// FormatHeat renders a duration as "Dd Hh Mm" with each unit floored, or the
// no-data sentinel for a nil duration.
func FormatHeat(d *time.Duration) string {
	if d == nil {
		return NoData
	}
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}
