package report

import (
	"math"
	"sort"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// totalsAxis selects which dimension a pivot computes percentage shares
// against: each cell's share is of its column total or of its row total.
type totalsAxis int

const (
	columnTotals totalsAxis = iota
	rowTotals
)

// keyFunc extracts a pivot's (row key, column key) from one lead row. A
// false return drops the row from the pivot (used to skip rows without a
// lead timestamp in day-keyed tables).
type keyFunc func(r *model.LeadRow) (row, col string, ok bool)

// buildPivot runs the shared group-count-share pattern: group rows by
// (row key, column key), count each group, and compute every group's
// integer share of its enclosing total along the chosen axis. Shares round
// half away from zero, each cell independently. rowOrder fixes the row key
// sequence when given; otherwise row keys sort ascending, as do column keys.
func buildPivot(rows []model.LeadRow, format model.PivotFormat, axis totalsAxis, rowOrder []string, key keyFunc) *model.PivotTable {
	counts := make(map[string]map[string]int)
	rowTotal := make(map[string]int)
	colTotal := make(map[string]int)

	for i := range rows {
		rk, ck, ok := key(&rows[i])
		if !ok {
			continue
		}
		if counts[rk] == nil {
			counts[rk] = make(map[string]int)
		}
		counts[rk][ck]++
		rowTotal[rk]++
		colTotal[ck]++
	}

	t := &model.PivotTable{
		Format: format,
		Cells:  make(map[string]map[string]model.PivotCell, len(counts)),
	}

	colSeen := make(map[string]bool)
	for rk, byCol := range counts {
		t.Cells[rk] = make(map[string]model.PivotCell, len(byCol))
		for ck, volume := range byCol {
			total := colTotal[ck]
			if axis == rowTotals {
				total = rowTotal[rk]
			}
			t.Cells[rk][ck] = model.PivotCell{
				Volume: volume,
				Share:  share(volume, total),
			}
			if !colSeen[ck] {
				colSeen[ck] = true
				t.ColKeys = append(t.ColKeys, ck)
			}
		}
	}
	sort.Strings(t.ColKeys)

	if rowOrder != nil {
		for _, rk := range rowOrder {
			if counts[rk] != nil {
				t.RowKeys = append(t.RowKeys, rk)
			}
		}
	} else {
		for rk := range counts {
			t.RowKeys = append(t.RowKeys, rk)
		}
		sort.Strings(t.RowKeys)
	}

	return t
}

// share computes the integer percentage of volume within total, rounded
// half away from zero. A zero total yields a zero share so empty groups
// never divide by zero.
func share(volume, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(volume) / float64(total) * 100))
}
