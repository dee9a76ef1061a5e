package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LudovicTerrasson/leadreport/internal/export"
	"github.com/LudovicTerrasson/leadreport/pkg/facebook"
)

var adspendCmd = &cobra.Command{
	Use:   "adspend",
	Short: "Fetch Facebook campaign spend for a preset period",
	Long: `Calls the Facebook Marketing insights endpoint for the configured ad
account and prints spend, impressions, clicks, CTR and CPM per campaign.
This view is independent of the lead database; a failure here leaves the
other reports unaffected.

Presets: ` + strings.Join(facebook.Presets, ", "),
	RunE: runAdspend,
}

func init() {
	f := adspendCmd.Flags()
	f.String("preset", "last_7d", "date range preset")
	f.String("xlsx", "", "also write the spend table as XLSX to this path")

	rootCmd.AddCommand(adspendCmd)
}

func runAdspend(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("facebook"); err != nil {
		return err
	}

	preset, _ := cmd.Flags().GetString("preset")
	client := facebook.NewClient(cfg.Facebook.AccessToken, facebook.WithBaseURL(cfg.Facebook.BaseURL))

	insights, err := client.CampaignInsights(ctx, cfg.Facebook.AdAccountID, preset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(insights) == 0 {
		fmt.Fprintf(out, "No spend data for preset %q.\n", preset)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "campaign\tspend\timpressions\tclicks\tctr\tcpm")
	for _, in := range insights {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			in.CampaignName, in.Spend, in.Impressions, in.Clicks, in.CTR, in.CPM)
	}
	tw.Flush()

	if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
		t := export.Table{Headers: []string{"campaign_name", "spend", "impressions", "clicks", "ctr", "cpm"}}
		for _, in := range insights {
			t.Rows = append(t.Rows, []string{in.CampaignName, in.Spend, in.Impressions, in.Clicks, in.CTR, in.CPM})
		}
		if err := export.WriteXLSX(path, "adspend", t); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}

	return nil
}
