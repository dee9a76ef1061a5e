package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LudovicTerrasson/leadreport/internal/catalog"
	"github.com/LudovicTerrasson/leadreport/internal/export"
	"github.com/LudovicTerrasson/leadreport/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the filtered lead performance report",
	Long: `Resolves the selected filters against the current catalog snapshot,
fetches the matching lead rows in one bounded query, and prints the KPI
block, the daily volume series, the three ventilation pivots and the cap
utilization estimate.

Filter picks that no longer exist in the catalog are dropped silently; a
facet whose every pick fails to resolve applies no restriction.

Examples:
  # current month, all campaigns
  leadreport report

  # one client, two verticals, explicit range
  leadreport report --clients "Acme Assurance" --verticals sante,auto \
    --start 2024-01-01 --end 2024-01-31

  # city shorthand plus export
  leadreport report --cities Dakar --xlsx leads.xlsx --csv leads.csv`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringSlice("clients", nil, "client display names")
	f.StringSlice("campaigns", nil, "campaign names")
	f.StringSlice("cities", nil, "city tokens, expanded to matching campaigns")
	f.StringSlice("verticals", nil, "vertical names")
	f.StringSlice("zipcodes", nil, "registration zipcodes")
	f.StringSlice("ads", nil, "ad identifiers (aff_id)")
	addDateRangeFlags(reportCmd)
	f.Int("limit", -1, "row limit override (-1=config default, 0=unlimited)")
	f.String("csv", "", "also write the filtered rows as CSV to this path")
	f.String("xlsx", "", "also write the filtered rows as XLSX to this path")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start, end, err := parseDateRange(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := newLoader(st).Get(ctx)
	if err != nil {
		return err
	}

	picks := catalog.Picks{Start: start, End: end}
	picks.Clients, _ = cmd.Flags().GetStringSlice("clients")
	picks.Campaigns, _ = cmd.Flags().GetStringSlice("campaigns")
	picks.Cities, _ = cmd.Flags().GetStringSlice("cities")
	picks.Verticals, _ = cmd.Flags().GetStringSlice("verticals")
	picks.Zipcodes, _ = cmd.Flags().GetStringSlice("zipcodes")
	picks.AdIDs, _ = cmd.Flags().GetStringSlice("ads")
	sel := cat.Resolve(picks)

	limit := cfg.Report.RowLimit
	if v, _ := cmd.Flags().GetInt("limit"); v >= 0 {
		limit = v
	}

	rows, err := st.FetchLeads(ctx, sel, limit)
	if err != nil {
		return err
	}
	zap.L().Info("report: fetched lead rows",
		zap.Int("rows", len(rows)),
		zap.Int("limit", limit),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Lead performance %s to %s\n\n", start.Format(dateLayout), end.Format(dateLayout))
	printKPIs(out, report.ComputeKPIs(rows))
	printCapEstimate(out, report.GlobalCapEstimate(sel, rows), sel.Days())

	stock := report.ComputeStock(rows)
	fmt.Fprintln(out, "\nLead stock")
	num.Fprintf(out, "Registrations:   %d\n", stock.Registrations)
	num.Fprintf(out, "Leads created:   %d\n", stock.Leads)
	num.Fprintf(out, "Remaining stock: %d\n", stock.Stock)

	sold := report.SoldSplit(rows)
	exclusive := report.ExclusiveSplit(rows)
	num.Fprintf(out, "\nSold vs unsold:       %d / %d\n", sold.Yes, sold.No)
	num.Fprintf(out, "Exclusive vs shared:  %d / %d\n", exclusive.Yes, exclusive.No)

	fmt.Fprintln(out, "\nVolume by day")
	for _, v := range report.VolumeByDay(rows) {
		num.Fprintf(out, "%s  %6d leads  %10.2f EUR\n", v.Day, v.Volume, v.Revenue)
	}

	printPivot(out, "Daily volume by source (volume – ventilation)", report.SourceByDay(rows), "source")
	printPivot(out, "Lead freshness by day (volume (ventilation))", report.FreshnessByDay(rows), "freshness")
	printPivot(out, "Status detail by source (volume (ventilation))", report.StatusBySource(rows), "source")

	return exportTable(cmd, export.LeadTable(rows), "leads")
}
