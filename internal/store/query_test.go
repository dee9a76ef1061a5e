package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

func testRange() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
}

func TestBuildLeadQueryDateRangeAlways(t *testing.T) {
	t.Parallel()

	start, end := testRange()
	query, args := BuildLeadQuery(model.Selection{Start: start, End: end}, 0)

	assert.Contains(t, query, "s.lead_created_at >= $1 AND s.lead_created_at < $2")
	require.Len(t, args, 2)
	assert.Equal(t, start, args[0])
	// Upper bound is the day after the inclusive end date.
	assert.Equal(t, end.AddDate(0, 0, 1), args[1])
	assert.NotContains(t, query, "LIMIT")
}

func TestBuildLeadQueryFacets(t *testing.T) {
	t.Parallel()

	start, end := testRange()
	sel := model.Selection{
		ClientIDs:   []int64{1, 2},
		CampaignIDs: []int64{10},
		Verticals:   []string{"sante"},
		Zipcodes:    []string{"75015"},
		AdIDs:       []string{"ad-1"},
		Start:       start,
		End:         end,
	}
	query, args := BuildLeadQuery(sel, 500)

	assert.Contains(t, query, "s.client = ANY($3)")
	assert.Contains(t, query, "c.id = ANY($4)")
	assert.Contains(t, query, "v.name = ANY($5)")
	assert.Contains(t, query, "r.zipcode = ANY($6)")
	assert.Contains(t, query, "s.aff_id = ANY($7)")
	assert.Contains(t, query, "LIMIT $8")

	require.Len(t, args, 8)
	assert.Equal(t, []int64{1, 2}, args[2])
	assert.Equal(t, []int64{10}, args[3])
	assert.Equal(t, []string{"sante"}, args[4])
	assert.Equal(t, []string{"75015"}, args[5])
	assert.Equal(t, []string{"ad-1"}, args[6])
	assert.Equal(t, 500, args[7])
}

func TestBuildLeadQueryEmptyFacetsAddNoClauses(t *testing.T) {
	t.Parallel()

	start, end := testRange()
	query, args := BuildLeadQuery(model.Selection{Start: start, End: end}, 0)

	assert.NotContains(t, query, "s.client")
	assert.NotContains(t, query, "c.id = ANY")
	assert.NotContains(t, query, "c.name = ANY")
	assert.NotContains(t, query, "v.name = ANY")
	assert.NotContains(t, query, "r.zipcode = ANY")
	assert.NotContains(t, query, "s.aff_id = ANY")
	assert.Len(t, args, 2)
}

func TestBuildLeadQueryCampaignNameFacet(t *testing.T) {
	t.Parallel()

	start, end := testRange()
	sel := model.Selection{
		CampaignNames: []string{"sante - Mutuelle Dakar"},
		Start:         start,
		End:           end,
	}
	query, args := BuildLeadQuery(sel, 0)

	assert.Contains(t, query, "c.name = ANY($3)")
	require.Len(t, args, 3)
	assert.Equal(t, []string{"sante - Mutuelle Dakar"}, args[2])
}

func TestBuildLeadQueryNeverInterpolatesValues(t *testing.T) {
	t.Parallel()

	start, end := testRange()
	hostile := "x'; DROP TABLE stat; --"
	query, _ := BuildLeadQuery(model.Selection{
		Verticals: []string{hostile},
		Start:     start,
		End:       end,
	}, 0)

	assert.NotContains(t, query, hostile)
}

func TestBuildLeadQueryJoinShape(t *testing.T) {
	t.Parallel()

	start, end := testRange()
	query, _ := BuildLeadQuery(model.Selection{Start: start, End: end}, 0)

	for _, join := range []string{
		"JOIN registration r ON r.id = s.registration",
		"LEFT JOIN lead l ON l.registration_id = r.id",
		"LEFT JOIN campaign c ON c.id = l.campaign_id",
		"LEFT JOIN vertical v ON c.vertical_id = v.id",
		"LEFT JOIN client cl ON cl.id = s.client",
		"SELECT DISTINCT ON (lead_id) lead_id, status",
	} {
		assert.Contains(t, query, join)
	}

	// Latest-status ties break deterministically on the surrogate id.
	assert.Contains(t, query, "ORDER BY lead_id, created_at DESC, id DESC")
	// Exactly one statement; facet clauses are ANDed.
	assert.Equal(t, 1, strings.Count(query, "WHERE "))
}
