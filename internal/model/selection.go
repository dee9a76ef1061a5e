package model

import "time"

// Selection holds the resolved filter facets for one report query. Empty
// facet slices mean "no restriction on that facet", not "exclude all". The
// date range is a closed interval over lead creation days and is the only
// mandatory bound.
type Selection struct {
	ClientIDs     []int64
	CampaignIDs   []int64
	CampaignNames []string // campaign-scoped variant filters by exact name
	Verticals     []string
	Zipcodes      []string
	AdIDs         []string
	Start         time.Time
	End           time.Time
}

// Days returns the number of calendar days covered by the closed interval.
// Both ends normalize to their calendar date before the subtraction, so
// time-of-day components and DST transitions never skew the count.
func (s Selection) Days() int {
	start := time.Date(s.Start.Year(), s.Start.Month(), s.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(s.End.Year(), s.End.Month(), s.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// Client is one (id, name) catalog entry.
type Client struct {
	ID   int64
	Name string
}

// Campaign is one catalog entry with its vertical and prefix-stripped
// display name.
type Campaign struct {
	ID           int64
	Name         string
	VerticalName *string
	CleanName    string
}

// TopCampaign is one row of the revenue ranking.
type TopCampaign struct {
	CampaignName *string
	TotalLeads   int
	TotalRevenue float64
	AvgPrice     float64
}
