package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/LudovicTerrasson/leadreport/internal/db"
	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// PostgresStore reads the lead database through a pgx pool. It is an
// explicitly constructed handle: opened at process start, closed at
// shutdown, passed down to whatever needs it. It never writes.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// Config tunes the connection pool.
type Config struct {
	ConnectTimeout time.Duration
	MaxConns       int32
	MinConns       int32
}

// NewPostgres opens a connection pool and verifies connectivity before
// returning. An unreachable store fails here, not on first query.
func NewPostgres(ctx context.Context, connString string, cfg Config) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	if cfg.ConnectTimeout > 0 {
		pgxCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.MaxConns > 0 {
		pgxCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pgxCfg.MinConns = cfg.MinConns
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Ping verifies the store is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// FetchLeads runs the built lead query and materializes the row set for one
// pipeline invocation. limit caps the result; 0 disables the cap.
func (s *PostgresStore) FetchLeads(ctx context.Context, sel model.Selection, limit int) ([]model.LeadRow, error) {
	query, args := BuildLeadQuery(sel, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: fetch leads")
	}
	defer rows.Close()

	var leads []model.LeadRow
	for rows.Next() {
		var r model.LeadRow
		if err := rows.Scan(
			&r.StatID, &r.ClientName, &r.PriceEUR, &r.Currency,
			&r.NumberOfSales, &r.SoldToExclusive, &r.VerticalName,
			&r.CampaignName, &r.DailyCap, &r.MonthlyCap,
			&r.RegistrationID, &r.LeadID, &r.LeadEmail,
			&r.RegistrationCreatedAt, &r.LeadCreatedAt,
			&r.Firstname, &r.Lastname, &r.Zipcode, &r.City,
			&r.AffID, &r.AffiliateName, &r.AffSub, &r.PublisherID,
			&r.LastClientStatus,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead row")
		}
		leads = append(leads, r)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: fetch leads iterate")
}

// TopCampaigns returns the n campaigns with the highest total revenue over
// the period, inclusive of both end dates.
func (s *PostgresStore) TopCampaigns(ctx context.Context, start, end time.Time, n int) ([]model.TopCampaign, error) {
	rows, err := s.pool.Query(ctx, `
SELECT
	c.name AS campaign_name,
	COUNT(DISTINCT s.id) AS total_leads,
	COALESCE(SUM(s.price_eur), 0) AS total_revenue,
	COALESCE(ROUND(AVG(s.price_eur)::numeric, 2), 0) AS avg_price
FROM stat s
JOIN registration r ON r.id = s.registration
LEFT JOIN lead l ON l.registration_id = r.id
LEFT JOIN campaign c ON c.id = l.campaign_id
WHERE s.lead_created_at >= $1 AND s.lead_created_at < $2
GROUP BY c.name
ORDER BY total_revenue DESC
LIMIT $3`, start, end.AddDate(0, 0, 1), n)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: top campaigns")
	}
	defer rows.Close()

	var top []model.TopCampaign
	for rows.Next() {
		var t model.TopCampaign
		if err := rows.Scan(&t.CampaignName, &t.TotalLeads, &t.TotalRevenue, &t.AvgPrice); err != nil {
			return nil, eris.Wrap(err, "postgres: scan top campaign")
		}
		top = append(top, t)
	}
	return top, eris.Wrap(rows.Err(), "postgres: top campaigns iterate")
}

// CampaignNames lists distinct campaign names filtered by campaign status.
// The literal "NULL" entry selects campaigns with no status set. Statuses
// bind as parameters; an empty filter lists every named campaign.
func (s *PostgresStore) CampaignNames(ctx context.Context, statuses []string) ([]string, error) {
	query := `SELECT DISTINCT name FROM campaign WHERE name IS NOT NULL ORDER BY name`
	args := []any{}

	if len(statuses) > 0 {
		var concrete []string
		includeNull := false
		for _, st := range statuses {
			if st == "NULL" {
				includeNull = true
			} else {
				concrete = append(concrete, st)
			}
		}

		cond := "status = ANY($1)"
		if includeNull {
			cond += " OR status IS NULL"
		}
		query = `SELECT DISTINCT name FROM campaign WHERE name IS NOT NULL AND (` + cond + `) ORDER BY name`
		args = append(args, concrete)
	}

	return s.queryStrings(ctx, "campaign names", query, args...)
}

// Clients returns the distinct (id, name) client pairs.
func (s *PostgresStore) Clients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM client`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: clients")
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan client")
		}
		clients = append(clients, c)
	}
	return clients, eris.Wrap(rows.Err(), "postgres: clients iterate")
}

// Campaigns returns the distinct campaigns with at least one lead, carrying
// their vertical name for display-name cleanup.
func (s *PostgresStore) Campaigns(ctx context.Context) ([]model.Campaign, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT c.id, c.name, v.name AS vertical_name
FROM lead l
JOIN campaign c ON c.id = l.campaign_id
LEFT JOIN vertical v ON c.vertical_id = v.id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: campaigns")
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		var c model.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.VerticalName); err != nil {
			return nil, eris.Wrap(err, "postgres: scan campaign")
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, eris.Wrap(rows.Err(), "postgres: campaigns iterate")
}

// Verticals returns the distinct non-null vertical names.
func (s *PostgresStore) Verticals(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "verticals",
		`SELECT DISTINCT name FROM vertical WHERE name IS NOT NULL`)
}

// Zipcodes returns the distinct non-null registration zipcodes.
func (s *PostgresStore) Zipcodes(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "zipcodes",
		`SELECT DISTINCT zipcode FROM registration WHERE zipcode IS NOT NULL`)
}

// AdIDs returns the distinct non-null ad identifiers.
func (s *PostgresStore) AdIDs(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "ad ids",
		`SELECT DISTINCT aff_id FROM stat WHERE aff_id IS NOT NULL`)
}

func (s *PostgresStore) queryStrings(ctx context.Context, what, query string, args ...any) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: %s", what)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", what)
		}
		values = append(values, v)
	}
	return values, eris.Wrapf(rows.Err(), "postgres: %s iterate", what)
}
