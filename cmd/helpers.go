package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/LudovicTerrasson/leadreport/internal/catalog"
	"github.com/LudovicTerrasson/leadreport/internal/export"
	"github.com/LudovicTerrasson/leadreport/internal/model"
	"github.com/LudovicTerrasson/leadreport/internal/report"
	"github.com/LudovicTerrasson/leadreport/internal/store"
)

const dateLayout = "2006-01-02"

// num renders thousands-separated numbers in printed KPI blocks.
var num = message.NewPrinter(language.English)

// openStore validates the store configuration and opens the database handle.
// The caller owns the returned store and must Close it.
func openStore(ctx context.Context) (*store.PostgresStore, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	return store.NewPostgres(ctx, cfg.Store.DatabaseURL, store.Config{
		ConnectTimeout: time.Duration(cfg.Store.ConnectTimeoutSecs) * time.Second,
		MaxConns:       cfg.Store.Pool.MaxConns,
		MinConns:       cfg.Store.Pool.MinConns,
	})
}

// newLoader builds the catalog loader over the opened store.
func newLoader(st *store.PostgresStore) *catalog.Loader {
	ttl := time.Duration(cfg.Report.CatalogTTLMins) * time.Minute
	return catalog.NewLoader(st, ttl, cfg.Report.Cities)
}

// addDateRangeFlags registers the --start/--end flags shared by the report
// commands. Defaults cover the first of the current month through today.
func addDateRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "range start date (YYYY-MM-DD, default: first of current month)")
	cmd.Flags().String("end", "", "range end date (YYYY-MM-DD, default: today)")
}

// parseDateRange reads the --start/--end flags, applies defaults and checks
// the interval is non-empty.
func parseDateRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	end := today

	if v, _ := cmd.Flags().GetString("start"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, eris.Wrapf(err, "parse --start %q", v)
		}
		start = t
	}
	if v, _ := cmd.Flags().GetString("end"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, eris.Wrapf(err, "parse --end %q", v)
		}
		end = t
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, eris.Errorf("date range is empty: start %s is after end %s",
			start.Format(dateLayout), end.Format(dateLayout))
	}
	return start, end, nil
}

// printKPIs writes the scalar metric block.
func printKPIs(w io.Writer, k model.KPIs) {
	num.Fprintf(w, "Total leads:      %d\n", k.TotalLeads)
	num.Fprintf(w, "Total revenue:    %.2f EUR\n", k.TotalRevenue)
	if k.AvgPrice != nil {
		num.Fprintf(w, "Avg price/lead:   %.2f EUR\n", *k.AvgPrice)
	} else {
		fmt.Fprintf(w, "Avg price/lead:   %s\n", report.NoData)
	}
	num.Fprintf(w, "Unique sources:   %d\n", k.UniqueSources)
	fmt.Fprintf(w, "Avg lead heat:    %s\n", report.FormatHeat(k.AvgHeat))
}

// printPivot renders a pivot table as aligned text.
func printPivot(w io.Writer, title string, t *model.PivotTable, cornerLabel string) {
	fmt.Fprintf(w, "\n%s\n", title)
	if t.Empty() {
		fmt.Fprintln(w, "(no data for the selected filters)")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, cornerLabel)
	for _, ck := range t.ColKeys {
		fmt.Fprintf(tw, "\t%s", ck)
	}
	fmt.Fprintln(tw)
	for _, rk := range t.RowKeys {
		fmt.Fprint(tw, rk)
		for _, ck := range t.ColKeys {
			fmt.Fprintf(tw, "\t%s", t.Render(rk, ck))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// printCap writes the cap reconciliation block.
func printCap(w io.Writer, cmp model.CapComparison) {
	fmt.Fprintln(w, "\nCap utilization")
	switch cmp.Source {
	case model.CapDaily:
		num.Fprintf(w, "Cap (daily, summed per day):   %d leads\n", cmp.AdjustedCap)
	case model.CapMonthly:
		num.Fprintf(w, "Cap (monthly, prorated):       %d leads\n", cmp.AdjustedCap)
	default:
		fmt.Fprintln(w, "No cap configured for this period.")
		return
	}
	num.Fprintf(w, "Leads generated:               %d\n", cmp.LeadsGenerated)
	if progress, ok := cmp.Progress(); ok {
		fmt.Fprintf(w, "Progress:                      %.1f%%\n", progress)
	}
}

// printCapEstimate writes the whole-rowset cap estimate block of the
// unscoped report.
func printCapEstimate(w io.Writer, cmp model.CapComparison, days int) {
	fmt.Fprintln(w, "\nCap utilization (estimate)")
	switch cmp.Source {
	case model.CapDaily:
		num.Fprintf(w, "Cap (daily caps summed x %d days): %d leads\n", days, cmp.AdjustedCap)
	case model.CapMonthly:
		num.Fprintf(w, "Cap (monthly caps x %d/30 days):   %d leads\n", days, cmp.AdjustedCap)
	default:
		fmt.Fprintln(w, "No cap configured for this period.")
		return
	}
	num.Fprintf(w, "Leads generated:               %d\n", cmp.LeadsGenerated)
	if progress, ok := cmp.Progress(); ok {
		fmt.Fprintf(w, "Progress:                      %.1f%%\n", progress)
	}
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "create %s", path)
	}
	return f, nil
}

// exportTable writes a table to --csv and/or --xlsx when those flags are set.
func exportTable(cmd *cobra.Command, t export.Table, sheetName string) error {
	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		f, err := createFile(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCSV(f, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
		if err := export.WriteXLSX(path, sheetName, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}
