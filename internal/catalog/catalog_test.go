package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

func strPtr(s string) *string { return &s }

// fakeSource counts loads so the TTL behavior is observable.
type fakeSource struct {
	loads int
}

func (f *fakeSource) Clients(context.Context) ([]model.Client, error) {
	f.loads++
	return []model.Client{
		{ID: 1, Name: "Acme Assurance"},
		{ID: 2, Name: "Beta Mutuelle"},
	}, nil
}

func (f *fakeSource) Campaigns(context.Context) ([]model.Campaign, error) {
	return []model.Campaign{
		{ID: 10, Name: "sante - Mutuelle Dakar", VerticalName: strPtr("sante")},
		{ID: 11, Name: "auto - Assurance Paris", VerticalName: strPtr("auto")},
		{ID: 12, Name: "immo - Dakar plateau", VerticalName: strPtr("immo")},
	}, nil
}

func (f *fakeSource) Verticals(context.Context) ([]string, error) {
	return []string{"sante", "auto", "immo"}, nil
}

func (f *fakeSource) Zipcodes(context.Context) ([]string, error) {
	return []string{"75015", "13001"}, nil
}

func (f *fakeSource) AdIDs(context.Context) ([]string, error) {
	return []string{"ad-1", "ad-2"}, nil
}

func testLoader(src *fakeSource, ttl time.Duration) *Loader {
	return NewLoader(src, ttl, []string{"Dakar", "Paris", "Tunis"})
}

func TestLoaderBuildsSnapshot(t *testing.T) {
	t.Parallel()

	cat, err := testLoader(&fakeSource{}, time.Hour).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), cat.Clients["Acme Assurance"])

	id, ok := cat.CampaignID("sante - Mutuelle Dakar")
	require.True(t, ok)
	assert.Equal(t, int64(10), id)

	// Clean names have the vertical prefix stripped.
	assert.Equal(t, "Mutuelle Dakar", cat.Campaigns[0].CleanName)
	// A campaign whose prefix is not its own vertical keeps its name.
	assert.Equal(t, "Dakar plateau", cat.Campaigns[2].CleanName)

	// Geo index covers only cities with matches, sorted accessor.
	assert.Equal(t, []string{"Dakar", "Paris"}, cat.Cities())
}

func TestLoaderTTL(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	l := testLoader(src, time.Hour)

	now := time.Unix(1700000000, 0)
	l.now = func() time.Time { return now }

	_, err := l.Get(context.Background())
	require.NoError(t, err)
	_, err = l.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.loads, "second call within TTL must reuse the snapshot")

	now = now.Add(2 * time.Hour)
	_, err = l.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.loads, "expired snapshot must reload")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	cat, err := testLoader(&fakeSource{}, time.Hour).Get(context.Background())
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("resolves names to ids", func(t *testing.T) {
		sel := cat.Resolve(Picks{
			Clients:   []string{"Acme Assurance"},
			Campaigns: []string{"auto - Assurance Paris"},
			Verticals: []string{"auto"},
			Start:     start,
			End:       end,
		})
		assert.Equal(t, []int64{1}, sel.ClientIDs)
		assert.Equal(t, []int64{11}, sel.CampaignIDs)
		assert.Equal(t, []string{"auto"}, sel.Verticals)
	})

	t.Run("city picks union with explicit campaigns", func(t *testing.T) {
		sel := cat.Resolve(Picks{
			Campaigns: []string{"sante - Mutuelle Dakar"},
			Cities:    []string{"Dakar"},
			Start:     start,
			End:       end,
		})
		// Dakar matches campaigns 10 and 12; the explicit pick of 10 must
		// not duplicate.
		assert.ElementsMatch(t, []int64{10, 12}, sel.CampaignIDs)
	})

	t.Run("unresolvable picks drop silently", func(t *testing.T) {
		sel := cat.Resolve(Picks{
			Clients:   []string{"Gone Client"},
			Campaigns: []string{"deleted campaign"},
			Start:     start,
			End:       end,
		})
		assert.Empty(t, sel.ClientIDs)
		assert.Empty(t, sel.CampaignIDs)
	})

	t.Run("unknown city adds nothing", func(t *testing.T) {
		sel := cat.Resolve(Picks{Cities: []string{"Tunis"}, Start: start, End: end})
		assert.Empty(t, sel.CampaignIDs)
	})
}
