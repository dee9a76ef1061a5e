package main

import (
	"fmt"
	"maps"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the filter option lists",
	Long: `Loads the catalog snapshot (clients, campaigns with cleaned display
names, verticals, zipcodes, ad ids) and the selectable city tokens derived
from campaign names. Snapshots are cached for the configured TTL.`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := newLoader(st).Get(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Clients (%d)\n", len(cat.Clients))
	for _, name := range slices.Sorted(maps.Keys(cat.Clients)) {
		fmt.Fprintf(out, "  %s\n", name)
	}

	fmt.Fprintf(out, "\nCampaigns (%d)\n", len(cat.Campaigns))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  id\tname\tclean name\tvertical")
	for _, c := range cat.Campaigns {
		vertical := ""
		if c.VerticalName != nil {
			vertical = *c.VerticalName
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", c.ID, c.Name, c.CleanName, vertical)
	}
	tw.Flush()

	fmt.Fprintf(out, "\nVerticals (%d): %v\n", len(cat.Verticals), cat.Verticals)
	fmt.Fprintf(out, "Zipcodes (%d)\n", len(cat.Zipcodes))
	fmt.Fprintf(out, "Ad ids (%d)\n", len(cat.AdIDs))
	fmt.Fprintf(out, "Cities: %v\n", cat.Cities())
	fmt.Fprintf(out, "\nSnapshot loaded at %s\n", cat.LoadedAt.Format("2006-01-02 15:04:05"))

	return nil
}
