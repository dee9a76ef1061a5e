package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

func newRangeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addDateRangeFlags(cmd)
	return cmd
}

func TestParseDateRange(t *testing.T) {
	t.Parallel()

	cmd := newRangeCmd()
	require.NoError(t, cmd.Flags().Set("start", "2024-03-01"))
	require.NoError(t, cmd.Flags().Set("end", "2024-03-15"))

	start, end, err := parseDateRange(cmd)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), end)
}

func TestParseDateRangeDefaults(t *testing.T) {
	t.Parallel()

	start, end, err := parseDateRange(newRangeCmd())
	require.NoError(t, err)
	assert.Equal(t, 1, start.Day(), "default start is the first of the month")
	assert.False(t, end.Before(start))
}

func TestParseDateRangeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr string
	}{
		{name: "bad start", start: "03/01/2024", end: "2024-03-15", wantErr: "parse --start"},
		{name: "bad end", start: "2024-03-01", end: "15-03-2024", wantErr: "parse --end"},
		{name: "inverted", start: "2024-03-15", end: "2024-03-01", wantErr: "date range is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := newRangeCmd()
			require.NoError(t, cmd.Flags().Set("start", tt.start))
			require.NoError(t, cmd.Flags().Set("end", tt.end))

			_, _, err := parseDateRange(cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPrintKPIs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	avg := 15.0
	heat := 90 * time.Minute
	printKPIs(&buf, model.KPIs{
		TotalLeads:    1234,
		TotalRevenue:  18510.5,
		AvgPrice:      &avg,
		UniqueSources: 3,
		AvgHeat:       &heat,
	})

	out := buf.String()
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "18,510.50 EUR")
	assert.Contains(t, out, "0d 1h 30m")
}

func TestPrintKPIsNoData(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printKPIs(&buf, model.KPIs{})

	out := buf.String()
	assert.Contains(t, out, "Avg price/lead:   –")
	assert.Contains(t, out, "Avg lead heat:    –")
}

func TestPrintCapEstimate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printCapEstimate(&buf, model.CapComparison{
		LeadsGenerated: 35,
		AdjustedCap:    70,
		Source:         model.CapDaily,
	}, 2)

	out := buf.String()
	assert.Contains(t, out, "Cap utilization (estimate)")
	assert.Contains(t, out, "daily caps summed x 2 days")
	assert.Contains(t, out, "70 leads")
	assert.Contains(t, out, "Progress:                      50.0%")
}

func TestPrintCapNone(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printCap(&buf, model.CapComparison{LeadsGenerated: 10, Source: model.CapNone})

	assert.Contains(t, buf.String(), "No cap configured")
	assert.NotContains(t, buf.String(), "Progress")
}
