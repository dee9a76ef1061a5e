package report

import (
	"time"

	"github.com/LudovicTerrasson/leadreport/internal/model"
)

// Fixture helpers shared across the package tests.

func sptr(s string) *string   { return &s }
func fptr(f float64) *float64 { return &f }
func iptr(n int) *int         { return &n }

var testDay = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

// leadAt builds a converted lead row registered at testDay plus offset and
// converted heat later.
func leadAt(dayOffset int, heat time.Duration) model.LeadRow {
	reg := testDay.AddDate(0, 0, dayOffset)
	created := reg.Add(heat)
	id := int64(dayOffset + 1)
	return model.LeadRow{
		StatID:                id,
		RegistrationID:        id,
		LeadID:                &id,
		RegistrationCreatedAt: reg,
		LeadCreatedAt:         &created,
	}
}

// registrationOnly builds a row that never converted into a lead.
func registrationOnly(regID int64) model.LeadRow {
	return model.LeadRow{
		StatID:                regID,
		RegistrationID:        regID,
		RegistrationCreatedAt: testDay,
	}
}

func withSource(r model.LeadRow, source string) model.LeadRow {
	r.AffiliateName = &source
	return r
}

func withStatus(r model.LeadRow, status string) model.LeadRow {
	r.LastClientStatus = &status
	return r
}

func withPrice(r model.LeadRow, price float64) model.LeadRow {
	r.PriceEUR = &price
	return r
}

func withCampaign(r model.LeadRow, name string) model.LeadRow {
	r.CampaignName = &name
	return r
}

func withDailyCap(r model.LeadRow, c int) model.LeadRow {
	r.DailyCap = &c
	return r
}

func withMonthlyCap(r model.LeadRow, c int) model.LeadRow {
	r.MonthlyCap = &c
	return r
}
