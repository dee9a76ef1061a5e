package report

import (
	"sort"
	"strings"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// SourceByDay cross-tabulates lead volume by affiliate source (rows) and
// day (columns), with each cell's share of its day total.
func SourceByDay(rows []model.LeadRow) *model.PivotTable {
	return buildPivot(rows, model.PivotFormatDash, columnTotals, nil,
		func(r *model.LeadRow) (string, string, bool) {
			day := r.Day()
			if day == "" {
				return "", "", false
			}
			return r.Source(), day, true
		})
}

// FreshnessByDay cross-tabulates lead volume by freshness category (rows,
// fixed order) and day (columns), with each cell's share of its day total.
func FreshnessByDay(rows []model.LeadRow) *model.PivotTable {
	return buildPivot(rows, model.PivotFormatParen, columnTotals, FreshnessOrder,
		func(r *model.LeadRow) (string, string, bool) {
			d, ok := r.Heat()
			if !ok {
				return "", "", false
			}
			return FreshnessBucket(d.Minutes()), r.Day(), true
		})
}

// StatusBySource cross-tabulates lead volume by affiliate source (rows) and
// last client status (columns); shares are of each source's row total, so a
// source's statuses ventilate to 100 within rounding slack.
func StatusBySource(rows []model.LeadRow) *model.PivotTable {
	return buildPivot(rows, model.PivotFormatParen, rowTotals, nil,
		func(r *model.LeadRow) (string, string, bool) {
			return r.Source(), r.Status(), true
		})
}

// DayVolume is one day's lead count and revenue.
type DayVolume struct {
	Day     string  `json:"day"`
	Volume  int     `json:"volume"`
	Revenue float64 `json:"revenue"`
}

// VolumeByDay aggregates lead count and revenue per day, sorted
// chronologically. Rows without a lead timestamp are excluded.
func VolumeByDay(rows []model.LeadRow) []DayVolume {
	byDay := make(map[string]*DayVolume)
	for i := range rows {
		r := &rows[i]
		day := r.Day()
		if day == "" {
			continue
		}
		v, ok := byDay[day]
		if !ok {
			v = &DayVolume{Day: day}
			byDay[day] = v
		}
		v.Volume++
		if r.PriceEUR != nil {
			v.Revenue += *r.PriceEUR
		}
	}

	out := make([]DayVolume, 0, len(byDay))
	for _, v := range byDay {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// StockSummary compares registrations against the leads they produced.
type StockSummary struct {
	Registrations int `json:"registrations"` // distinct registration ids
	Leads         int `json:"leads"`         // rows that became leads
	Stock         int `json:"stock"`         // registrations not yet converted
}

// ComputeStock derives the registration-versus-lead stock summary.
func ComputeStock(rows []model.LeadRow) StockSummary {
	regs := make(map[int64]bool)
	leads := 0
	for i := range rows {
		regs[rows[i].RegistrationID] = true
		if rows[i].HasLead() {
			leads++
		}
	}
	stock := len(regs) - leads
	if stock < 0 {
		stock = 0
	}
	return StockSummary{Registrations: len(regs), Leads: leads, Stock: stock}
}

// StatusCount is one status and its row count.
type StatusCount struct {
	Status string
	Count  int
}

// CountStatuses tallies last client statuses, nulls coalesced to
// "no_status", ordered by descending count then name.
func CountStatuses(rows []model.LeadRow) []StatusCount {
	counts := make(map[string]int)
	for i := range rows {
		counts[rows[i].Status()]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// Split is a two-way partition of the row set.
type Split struct {
	Yes int
	No  int
}

// SoldSplit partitions rows by whether they generated at least one sale.
func SoldSplit(rows []model.LeadRow) Split {
	var s Split
	for i := range rows {
		if rows[i].NumberOfSales > 0 {
			s.Yes++
		} else {
			s.No++
		}
	}
	return s
}

// ExclusiveSplit partitions rows by exclusive versus shared delivery.
func ExclusiveSplit(rows []model.LeadRow) Split {
	var s Split
	for i := range rows {
		if rows[i].SoldToExclusive {
			s.Yes++
		} else {
			s.No++
		}
	}
	return s
}

// SaleSplit partitions rows into transformed ("sale" status, case
// insensitive) versus everything else.
func SaleSplit(rows []model.LeadRow) Split {
	var s Split
	for i := range rows {
		if strings.EqualFold(rows[i].Status(), "sale") {
			s.Yes++
		} else {
			s.No++
		}
	}
	return s
}
