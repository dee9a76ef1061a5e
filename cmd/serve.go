package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LudovicTerrasson/leadreport/internal/catalog"
	"github.com/LudovicTerrasson/leadreport/internal/model"
	"github.com/LudovicTerrasson/leadreport/internal/report"
	"github.com/LudovicTerrasson/leadreport/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report pipeline over JSON HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		loader := newLoader(st)

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/catalog", handleCatalog(loader))
		r.Post("/report", handleReport(st, loader))

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("serve: listening", zap.Int("port", cfg.Server.Port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// reportRequest mirrors the picks the CLI flags accept.
type reportRequest struct {
	Clients   []string `json:"clients"`
	Campaigns []string `json:"campaigns"`
	Cities    []string `json:"cities"`
	Verticals []string `json:"verticals"`
	Zipcodes  []string `json:"zipcodes"`
	AdIDs     []string `json:"ads"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
}

type pivotJSON struct {
	Rows    []string            `json:"rows"`
	Columns []string            `json:"columns"`
	Cells   map[string][]string `json:"cells"` // row key -> rendered cells in column order
}

type reportResponse struct {
	TotalLeads    int                 `json:"total_leads"`
	TotalRevenue  float64             `json:"total_revenue"`
	AvgPrice      *float64            `json:"avg_price"`
	UniqueSources int                 `json:"unique_sources"`
	AvgHeat       string              `json:"avg_heat"`
	Cap           capJSON             `json:"cap"`
	Stock         report.StockSummary `json:"stock"`
	VolumeByDay   []report.DayVolume  `json:"volume_by_day"`
	SourceByDay   pivotJSON           `json:"source_by_day"`
	Freshness     pivotJSON           `json:"freshness_by_day"`
	StatusSource  pivotJSON           `json:"status_by_source"`
}

type capJSON struct {
	Source         string   `json:"source"`
	AdjustedCap    int      `json:"adjusted_cap"`
	LeadsGenerated int      `json:"leads_generated"`
	Progress       *float64 `json:"progress"`
}

func handleCatalog(loader *catalog.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, err := loader.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}

		clients := make([]string, 0, len(cat.Clients))
		for name := range cat.Clients {
			clients = append(clients, name)
		}
		campaigns := make([]string, 0, len(cat.Campaigns))
		for _, c := range cat.Campaigns {
			campaigns = append(campaigns, c.Name)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"clients":   clients,
			"campaigns": campaigns,
			"verticals": cat.Verticals,
			"zipcodes":  cat.Zipcodes,
			"ads":       cat.AdIDs,
			"cities":    cat.Cities(),
		})
	}
}

func handleReport(st *store.PostgresStore, loader *catalog.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		start, err := time.Parse(dateLayout, req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid start date: %w", err))
			return
		}
		end, err := time.Parse(dateLayout, req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid end date: %w", err))
			return
		}
		if end.Before(start) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("date range is empty"))
			return
		}

		cat, err := loader.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}

		sel := cat.Resolve(catalog.Picks{
			Clients:   req.Clients,
			Campaigns: req.Campaigns,
			Cities:    req.Cities,
			Verticals: req.Verticals,
			Zipcodes:  req.Zipcodes,
			AdIDs:     req.AdIDs,
			Start:     start,
			End:       end,
		})

		rows, err := st.FetchLeads(r.Context(), sel, cfg.Report.RowLimit)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}

		k := report.ComputeKPIs(rows)
		cmp := report.GlobalCapEstimate(sel, rows)

		resp := reportResponse{
			TotalLeads:    k.TotalLeads,
			TotalRevenue:  k.TotalRevenue,
			AvgPrice:      k.AvgPrice,
			UniqueSources: k.UniqueSources,
			AvgHeat:       report.FormatHeat(k.AvgHeat),
			Cap: capJSON{
				Source:         cmp.Source.String(),
				AdjustedCap:    cmp.AdjustedCap,
				LeadsGenerated: cmp.LeadsGenerated,
			},
			Stock:        report.ComputeStock(rows),
			VolumeByDay:  report.VolumeByDay(rows),
			SourceByDay:  toPivotJSON(report.SourceByDay(rows)),
			Freshness:    toPivotJSON(report.FreshnessByDay(rows)),
			StatusSource: toPivotJSON(report.StatusBySource(rows)),
		}
		if progress, ok := cmp.Progress(); ok {
			resp.Cap.Progress = &progress
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func toPivotJSON(t *model.PivotTable) pivotJSON {
	out := pivotJSON{
		Rows:    t.RowKeys,
		Columns: t.ColKeys,
		Cells:   make(map[string][]string, len(t.RowKeys)),
	}
	for _, rk := range t.RowKeys {
		cells := make([]string, 0, len(t.ColKeys))
		for _, ck := range t.ColKeys {
			cells = append(cells, t.Render(rk, ck))
		}
		out.Cells[rk] = cells
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
