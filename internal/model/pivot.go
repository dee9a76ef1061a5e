package model

import "fmt"

// PivotFormat selects how a pivot cell renders its volume and share.
type PivotFormat int

const (
	// PivotFormatDash renders cells as "12 – 34%".
	PivotFormatDash PivotFormat = iota
	// PivotFormatParen renders cells as "12 (34%)".
	PivotFormatParen
)

// PivotCell carries a group's raw count and its integer percentage share of
// the enclosing total.
type PivotCell struct {
	Volume int
	Share  int
}

// PivotTable is a 2-D cross-tabulation with ordered row and column keys.
// Cells absent from the data render as the zero cell. Because each share is
// rounded independently, shares along the totals axis sum to 100 only within
// a slack of one per cell; that is documented rounding behavior, not a bug.
type PivotTable struct {
	RowKeys []string
	ColKeys []string
	Format  PivotFormat
	Cells   map[string]map[string]PivotCell // row key -> col key -> cell
}

// Empty reports whether the table has no data.
func (t *PivotTable) Empty() bool {
	return len(t.RowKeys) == 0 || len(t.ColKeys) == 0
}

// Cell returns the cell at (row, col), or the zero cell when unmatched.
func (t *PivotTable) Cell(row, col string) PivotCell {
	if byCol, ok := t.Cells[row]; ok {
		if c, ok := byCol[col]; ok {
			return c
		}
	}
	return PivotCell{}
}

// Render formats the cell at (row, col) for display.
func (t *PivotTable) Render(row, col string) string {
	c := t.Cell(row, col)
	switch t.Format {
	case PivotFormatParen:
		return fmt.Sprintf("%d (%d%%)", c.Volume, c.Share)
	default:
		return fmt.Sprintf("%d – %d%%", c.Volume, c.Share)
	}
}
