package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// newMockStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func strp(s string) *string        { return &s }
func intp(n int) *int              { return &n }
func i64p(n int64) *int64          { return &n }
func f64p(f float64) *float64      { return &f }
func timep(t time.Time) *time.Time { return &t }

var leadRowColumns = []string{
	"stat_id", "client_name", "price_eur", "currency", "number_of_sales",
	"sold_to_exclusive", "vertical_name", "campaign_name", "daily_cap",
	"monthly_cap", "registration_id", "lead_id", "lead_email",
	"registration_created_at", "lead_created_at", "firstname", "lastname",
	"zipcode", "city", "aff_id", "affiliate_name", "aff_sub",
	"publisher_id", "last_client_status",
}

func TestFetchLeads(t *testing.T) {
	s, mock := newMockStore(t)

	reg := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	lead := reg.Add(42 * time.Minute)

	mock.ExpectQuery(`FROM stat s`).
		WillReturnRows(pgxmock.NewRows(leadRowColumns).
			AddRow(
				int64(1), strp("Acme"), f64p(12.5), strp("EUR"), 1,
				true, strp("sante"), strp("sante - Mutuelle Dakar"), intp(20),
				(*int)(nil), int64(100), i64p(200), strp("a@b.fr"),
				reg, timep(lead), strp("Jean"), strp("Dupont"),
				strp("75015"), strp("Paris"), strp("ad-1"), strp("fb"),
				(*string)(nil), (*string)(nil), strp("sale"),
			).
			AddRow(
				int64(2), (*string)(nil), (*float64)(nil), (*string)(nil), 0,
				false, (*string)(nil), (*string)(nil), (*int)(nil),
				(*int)(nil), int64(101), (*int64)(nil), (*string)(nil),
				reg, (*time.Time)(nil), (*string)(nil), (*string)(nil),
				(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
				(*string)(nil), (*string)(nil), (*string)(nil),
			))

	sel := model.Selection{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	rows, err := s.FetchLeads(context.Background(), sel, 1000)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme", *rows[0].ClientName)
	assert.Equal(t, 12.5, *rows[0].PriceEUR)
	assert.True(t, rows[0].HasLead())
	heat, ok := rows[0].Heat()
	require.True(t, ok)
	assert.Equal(t, 42*time.Minute, heat)

	assert.False(t, rows[1].HasLead())
	assert.Nil(t, rows[1].LeadCreatedAt)
	assert.Equal(t, model.SourceUnknown, rows[1].Source())
	assert.Equal(t, model.StatusNone, rows[1].Status())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchLeadsEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM stat s`).
		WillReturnRows(pgxmock.NewRows(leadRowColumns))

	sel := model.Selection{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	rows, err := s.FetchLeads(context.Background(), sel, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopCampaigns(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`GROUP BY c.name`).
		WillReturnRows(pgxmock.NewRows([]string{"campaign_name", "total_leads", "total_revenue", "avg_price"}).
			AddRow(strp("sante - Mutuelle Dakar"), 40, 500.0, 12.5).
			AddRow((*string)(nil), 3, 30.0, 10.0))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	top, err := s.TopCampaigns(context.Background(), start, end, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, "sante - Mutuelle Dakar", *top[0].CampaignName)
	assert.Equal(t, 500.0, top[0].TotalRevenue)
	assert.Nil(t, top[1].CampaignName, "rows without a campaign keep a nil name")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignNamesStatusFilter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`status = ANY\(\$1\) OR status IS NULL`).
		WithArgs([]string{"enabled", "paused"}).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).
			AddRow("a").AddRow("b"))

	names, err := s.CampaignNames(context.Background(), []string{"enabled", "paused", "NULL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignNamesNoFilter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT DISTINCT name FROM campaign WHERE name IS NOT NULL ORDER BY name`).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("a"))

	names, err := s.CampaignNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientsAndCatalogReads(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, name FROM client`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "Acme"))
	mock.ExpectQuery(`FROM lead l`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "vertical_name"}).
			AddRow(int64(10), "sante - Mutuelle Dakar", strp("sante")))
	mock.ExpectQuery(`FROM vertical`).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("sante"))
	mock.ExpectQuery(`FROM registration`).
		WillReturnRows(pgxmock.NewRows([]string{"zipcode"}).AddRow("75015"))
	mock.ExpectQuery(`FROM stat`).
		WillReturnRows(pgxmock.NewRows([]string{"aff_id"}).AddRow("ad-1"))

	ctx := context.Background()

	clients, err := s.Clients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Client{{ID: 1, Name: "Acme"}}, clients)

	campaigns, err := s.Campaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "sante - Mutuelle Dakar", campaigns[0].Name)

	verticals, err := s.Verticals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sante"}, verticals)

	zipcodes, err := s.Zipcodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"75015"}, zipcodes)

	ads, err := s.AdIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ad-1"}, ads)

	assert.NoError(t, mock.ExpectationsWereMet())
}
