// Package export writes report outputs to Excel and CSV files. Consumers
// hand over pivot tables or row sequences and stay opaque to the format.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// Table is a generic header-plus-rows shape every writer accepts.
type Table struct {
	Headers []string
	Rows    [][]string
}

// WriteXLSX writes the table as a single-sheet Excel workbook.
func WriteXLSX(path, sheetName string, t Table) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range t.Headers {
		header.AddCell().Value = h
	}
	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().Value = cell
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// WriteCSV writes the table as CSV.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// PivotTable flattens a pivot into a table: one row per pivot row key, the
// corner label heading the key column, formatted cells elsewhere.
func PivotTable(t *model.PivotTable, cornerLabel string) Table {
	out := Table{Headers: append([]string{cornerLabel}, t.ColKeys...)}
	for _, rk := range t.RowKeys {
		row := make([]string, 0, len(t.ColKeys)+1)
		row = append(row, rk)
		for _, ck := range t.ColKeys {
			row = append(row, t.Render(rk, ck))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// leadHeaders lists the exported lead row columns. Person-identifying
// columns (names, email, city) stay out of exports.
var leadHeaders = []string{
	"client_name", "price_eur", "number_of_sales", "sold_to_exclusive",
	"vertical_name", "campaign_name", "daily_cap", "monthly_cap",
	"registration_id", "lead_id", "lead_created_at", "zipcode",
	"aff_id", "affiliate_name", "aff_sub", "publisher_id",
	"last_client_status",
}

// LeadTable flattens the filtered row set for tabular export.
func LeadTable(rows []model.LeadRow) Table {
	out := Table{Headers: leadHeaders}
	for i := range rows {
		r := &rows[i]
		out.Rows = append(out.Rows, []string{
			strOrEmpty(r.ClientName),
			floatOrEmpty(r.PriceEUR),
			strconv.Itoa(r.NumberOfSales),
			strconv.FormatBool(r.SoldToExclusive),
			strOrEmpty(r.VerticalName),
			strOrEmpty(r.CampaignName),
			intOrEmpty(r.DailyCap),
			intOrEmpty(r.MonthlyCap),
			strconv.FormatInt(r.RegistrationID, 10),
			int64OrEmpty(r.LeadID),
			timeOrEmpty(r.LeadCreatedAt),
			strOrEmpty(r.Zipcode),
			strOrEmpty(r.AffID),
			strOrEmpty(r.AffiliateName),
			strOrEmpty(r.AffSub),
			strOrEmpty(r.PublisherID),
			strOrEmpty(r.LastClientStatus),
		})
	}
	return out
}

// TopCampaignTable flattens the revenue ranking for export.
func TopCampaignTable(top []model.TopCampaign) Table {
	out := Table{Headers: []string{"campaign_name", "total_leads", "total_revenue", "avg_price"}}
	for _, t := range top {
		out.Rows = append(out.Rows, []string{
			strOrEmpty(t.CampaignName),
			strconv.Itoa(t.TotalLeads),
			strconv.FormatFloat(t.TotalRevenue, 'f', 2, 64),
			strconv.FormatFloat(t.AvgPrice, 'f', 2, 64),
		})
	}
	return out
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func int64OrEmpty(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
