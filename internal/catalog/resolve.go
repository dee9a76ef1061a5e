package catalog

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// Picks holds the raw facet values a user selected: display names for
// clients and campaigns, city tokens, and raw values for the rest.
type Picks struct {
	Clients   []string
	Campaigns []string
	Cities    []string
	Verticals []string
	Zipcodes  []string
	AdIDs     []string
	Start     time.Time
	End       time.Time
}

// Resolve translates picks into a query selection against this snapshot.
// City picks expand into the campaign names matching that city, then merge
// with explicitly chosen campaign names before identifier resolution.
//
// Picks that no longer resolve against the snapshot are dropped without
// error: a facet whose every pick fails behaves as "no restriction". That is
// stated policy, not a swallowed failure; each drop is logged at debug.
func (c *Catalog) Resolve(p Picks) model.Selection {
	sel := model.Selection{
		Verticals: p.Verticals,
		Zipcodes:  p.Zipcodes,
		AdIDs:     p.AdIDs,
		Start:     p.Start,
		End:       p.End,
	}

	for _, name := range p.Clients {
		id, ok := c.Clients[name]
		if !ok {
			zap.L().Debug("catalog: dropping unresolved client pick", zap.String("name", name))
			continue
		}
		sel.ClientIDs = append(sel.ClientIDs, id)
	}

	for _, name := range c.expandCities(p.Campaigns, p.Cities) {
		id, ok := c.campaignIDs[name]
		if !ok {
			zap.L().Debug("catalog: dropping unresolved campaign pick", zap.String("name", name))
			continue
		}
		sel.CampaignIDs = append(sel.CampaignIDs, id)
	}

	return sel
}

// expandCities unions the campaign names behind each selected city with the
// explicitly chosen campaign names, collapsing duplicates. The result is
// sorted so resolution order is stable.
func (c *Catalog) expandCities(campaigns, cities []string) []string {
	seen := make(map[string]bool, len(campaigns))
	var merged []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			merged = append(merged, name)
		}
	}

	for _, name := range campaigns {
		add(name)
	}
	for _, city := range cities {
		for _, name := range c.GeoIndex[city] {
			add(name)
		}
	}

	sort.Strings(merged)
	return merged
}
