// Package store implements the read-only Postgres access layer: the lead
// query builder, the catalog snapshot reads, and the campaign ranking.
package store

import (
	"fmt"
	"strings"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// leadColumns is the fixed projection shared by every lead query path.
const leadColumns = `
	s.id AS stat_id,
	cl.name AS client_name,
	s.price_eur,
	s.currency,
	s.number_of_sales,
	r.sold_to_exclusive,
	v.name AS vertical_name,
	c.name AS campaign_name,
	c.daily_cap,
	c.monthly_cap,
	r.id AS registration_id,
	l.id AS lead_id,
	l.email AS lead_email,
	r.created_at AS registration_created_at,
	s.lead_created_at,
	r.firstname,
	r.lastname,
	r.zipcode,
	r.city,
	s.aff_id,
	r.others::json->>'source' AS affiliate_name,
	r.others::json->>'aff_sub' AS aff_sub,
	r.others::json->>'publisher_id' AS publisher_id,
	lcls.status AS last_client_status`

// leadJoins is the fixed join shape. The latest-status subquery keeps one
// status event per lead, the most recently created one; ties on created_at
// break deterministically on the highest surrogate id.
const leadJoins = `
FROM stat s
JOIN registration r ON r.id = s.registration
LEFT JOIN lead l ON l.registration_id = r.id
LEFT JOIN campaign c ON c.id = l.campaign_id
LEFT JOIN vertical v ON c.vertical_id = v.id
LEFT JOIN client cl ON cl.id = s.client
LEFT JOIN (
	SELECT DISTINCT ON (lead_id) lead_id, status
	FROM lead_client_lead_status
	ORDER BY lead_id, created_at DESC, id DESC
) lcls ON lcls.lead_id = l.id`

// BuildLeadQuery composes the parameterized lead query for a selection.
// The date range clause is always present; every non-empty facet adds one
// bound membership clause, combined with AND. Selection values are never
// interpolated into the SQL text. limit caps the result uniformly across
// call paths; 0 disables it.
//
// The range is inclusive of both end dates: the upper bound binds the day
// after End, exclusive, so leads late on the end day are kept.
func BuildLeadQuery(sel model.Selection, limit int) (string, []any) {
	clauses := []string{"s.lead_created_at >= $1 AND s.lead_created_at < $2"}
	args := []any{sel.Start, sel.End.AddDate(0, 0, 1)}

	appendFacet := func(expr string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", expr, len(args)))
	}

	if len(sel.ClientIDs) > 0 {
		appendFacet("s.client", sel.ClientIDs)
	}
	if len(sel.CampaignIDs) > 0 {
		appendFacet("c.id", sel.CampaignIDs)
	}
	if len(sel.CampaignNames) > 0 {
		appendFacet("c.name", sel.CampaignNames)
	}
	if len(sel.Verticals) > 0 {
		appendFacet("v.name", sel.Verticals)
	}
	if len(sel.Zipcodes) > 0 {
		appendFacet("r.zipcode", sel.Zipcodes)
	}
	if len(sel.AdIDs) > 0 {
		appendFacet("s.aff_id", sel.AdIDs)
	}

	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(leadColumns)
	b.WriteString(leadJoins)
	b.WriteString("\nWHERE ")
	b.WriteString(strings.Join(clauses, "\n  AND "))

	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&b, "\nLIMIT $%d", len(args))
	}

	return b.String(), args
}
