// Package model defines the data types shared across the reporting pipeline.
package model

import "time"

// LeadRow is one fetched record representing a priced lead event. Nullable
// database columns map to pointer fields; a nil LeadID means the registration
// never became a lead, in which case LeadCreatedAt is nil as well.
type LeadRow struct {
	StatID                int64
	ClientName            *string
	PriceEUR              *float64
	Currency              *string
	NumberOfSales         int
	SoldToExclusive       bool
	VerticalName          *string
	CampaignName          *string
	DailyCap              *int
	MonthlyCap            *int
	RegistrationID        int64
	LeadID                *int64
	LeadEmail             *string
	RegistrationCreatedAt time.Time
	LeadCreatedAt         *time.Time
	Firstname             *string
	Lastname              *string
	Zipcode               *string
	City                  *string
	AffID                 *string
	AffiliateName         *string
	AffSub                *string
	PublisherID           *string
	LastClientStatus      *string
}

// HasLead reports whether the registration converted into a lead.
func (r *LeadRow) HasLead() bool {
	return r.LeadID != nil
}

// Heat returns the elapsed time between registration and lead creation.
// The second return is false when the row never became a lead.
func (r *LeadRow) Heat() (time.Duration, bool) {
	if r.LeadCreatedAt == nil {
		return 0, false
	}
	return r.LeadCreatedAt.Sub(r.RegistrationCreatedAt), true
}

// Day returns the lead creation day formatted as YYYY-MM-DD, or "" when the
// row has no lead timestamp. The format sorts chronologically as a string.
func (r *LeadRow) Day() string {
	if r.LeadCreatedAt == nil {
		return ""
	}
	return r.LeadCreatedAt.Format("2006-01-02")
}

// Source returns the affiliate name with nulls coalesced to "unknown".
func (r *LeadRow) Source() string {
	if r.AffiliateName == nil || *r.AffiliateName == "" {
		return SourceUnknown
	}
	return *r.AffiliateName
}

// Status returns the last client status with nulls coalesced to "no_status".
func (r *LeadRow) Status() string {
	if r.LastClientStatus == nil || *r.LastClientStatus == "" {
		return StatusNone
	}
	return *r.LastClientStatus
}

// Sentinel values for missing categorical attributes. Rows with no affiliate
// or no status event are grouped under these, never dropped.
const (
	SourceUnknown = "unknown"
	StatusNone    = "no_status"
)
