package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LudovicTerrasson/leadreport/internal/export"
	"github.com/LudovicTerrasson/leadreport/internal/model"
	"github.com/LudovicTerrasson/leadreport/internal/report"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Campaign-scoped report with cap reconciliation",
	Long: `Prints the top campaigns by revenue over the period, then analyzes one
campaign in depth: KPIs, cap utilization (real daily caps when recorded,
prorated monthly cap otherwise), daily cap series, status ventilation and
the sale/non-sale transformation split.

The campaign query is unbounded by the row limit: the row set is already
scoped to a single campaign.

Examples:
  leadreport campaign --list --statuses enabled,paused
  leadreport campaign --name "sante - Mutuelle Dakar" --start 2024-01-01 --end 2024-01-31
  leadreport campaign --top 10`,
	RunE: runCampaign,
}

func init() {
	f := campaignCmd.Flags()
	f.String("name", "", "campaign name to analyze")
	f.Bool("list", false, "list selectable campaign names and exit")
	f.StringSlice("statuses", []string{"enabled"}, `campaign status filter for --list ("NULL" selects unset)`)
	f.Int("top", 10, "number of campaigns in the revenue ranking")
	addDateRangeFlags(campaignCmd)
	f.String("csv", "", "also write the campaign rows as CSV to this path")
	f.String("xlsx", "", "also write the campaign rows as XLSX to this path")
	f.String("top-xlsx", "", "also write the revenue ranking as XLSX to this path")

	rootCmd.AddCommand(campaignCmd)
}

func runCampaign(cmd *cobra.Command, _ []string) error {
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

	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("list"); list {
		statuses, _ := cmd.Flags().GetStringSlice("statuses")
		names, err := st.CampaignNames(ctx, statuses)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	topN, _ := cmd.Flags().GetInt("top")
	top, err := st.TopCampaigns(ctx, start, end, topN)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Top %d campaigns by revenue, %s to %s\n", topN, start.Format(dateLayout), end.Format(dateLayout))
	for i, t := range top {
		name := "(no campaign)"
		if t.CampaignName != nil {
			name = *t.CampaignName
		}
		num.Fprintf(out, "%2d. %-40s %6d leads  %10.2f EUR  avg %.2f\n",
			i+1, name, t.TotalLeads, t.TotalRevenue, t.AvgPrice)
	}

	if path, _ := cmd.Flags().GetString("top-xlsx"); path != "" {
		if err := export.WriteXLSX(path, "top_campaigns", export.TopCampaignTable(top)); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		return nil
	}

	sel := model.Selection{CampaignNames: []string{name}, Start: start, End: end}
	rows, err := st.FetchLeads(ctx, sel, 0)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintf(out, "\nNo leads for campaign %q in the selected period.\n", name)
		return nil
	}

	fmt.Fprintf(out, "\nCampaign: %s\n\n", name)
	printKPIs(out, report.ComputeKPIs(rows))
	printCap(out, report.ReconcileCap(sel, rows))

	fmt.Fprintln(out, "\nDaily cap series")
	for _, dc := range report.DailyCapSeries(rows) {
		num.Fprintf(out, "%s  cap %d\n", dc.Day, dc.Cap)
	}

	fmt.Fprintln(out, "\nStatus distribution")
	for _, sc := range report.CountStatuses(rows) {
		num.Fprintf(out, "%-20s %d\n", sc.Status, sc.Count)
	}

	sale := report.SaleSplit(rows)
	num.Fprintf(out, "\nTransformed (sale) vs not: %d / %d\n", sale.Yes, sale.No)

	fmt.Fprintln(out, "\nVolume by day")
	for _, v := range report.VolumeByDay(rows) {
		num.Fprintf(out, "%s  %6d leads  %10.2f EUR\n", v.Day, v.Volume, v.Revenue)
	}

	printPivot(out, "Status detail by source (volume (ventilation))", report.StatusBySource(rows), "source")

	return exportTable(cmd, export.LeadTable(rows), "campaign")
}
