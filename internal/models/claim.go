package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Claim statuses.
const (
	ClaimOpen            = "Open"
	ClaimClosed          = "Closed"
	ClaimNoFurtherAction = "No Further Action"
	ClaimUnderReview     = "Under Review"
)

// Claim is a loss event under a contract. Carrier, ContractNumber and Risk
// are snapshots copied from the owning contract at creation time. Extra is
// the single open extension map for fields outside the schema.
type Claim struct {
	FiscalYear  int    `json:"fiscal_year"`
	ClaimNumber string `json:"claim_number"`

	Carrier        string `json:"carrier,omitempty"`
	ContractNumber string `json:"contract_number,omitempty"`
	Risk           string `json:"risk,omitempty"`
	Broker         string `json:"broker,omitempty"`

	EventDescription string `json:"event_description,omitempty"`
	EventDate        string `json:"event_date"`
	ReportedDate     string `json:"reported_date,omitempty"`
	EventAddress     string `json:"event_address,omitempty"`
	PostalCode       string `json:"postal_code,omitempty"`
	City             string `json:"city,omitempty"`
	Plate            string `json:"plate,omitempty"`
	Dynamics         string `json:"dynamics,omitempty"`

	EstimatedLoss  string `json:"estimated_loss,omitempty"`
	ReservedAmount string `json:"reserved_amount,omitempty"`
	PaidAmount     string `json:"paid_amount,omitempty"`

	Status     string `json:"status,omitempty"`
	StatusCode string `json:"status_code,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Validate checks the payload before it is stored.
func (c Claim) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FiscalYear, validation.Required, validation.Min(1900)),
		validation.Field(&c.ClaimNumber, validation.Required),
		validation.Field(&c.EventDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&c.ReportedDate, validation.Date(DateLayout)),
		validation.Field(&c.Status,
			validation.In(ClaimOpen, ClaimClosed, ClaimNoFurtherAction, ClaimUnderReview)),
	)
}

// claimAliases maps legacy payload keys to their canonical names.
var claimAliases = map[string]string{
	"policy_number":       "contract_number",
	"insured_description": "event_description",
	"occurrence_date":     "event_date",
	"opened_date":         "reported_date",
	"address":             "event_address",
}

// carrierStatuses maps free-form carrier status words to canonical statuses.
var carrierStatuses = map[string]string{
	"open":              ClaimOpen,
	"closed":            ClaimClosed,
	"no further action": ClaimNoFurtherAction,
	"under review":      ClaimUnderReview,
	"review":            ClaimUnderReview,
	"pending":           ClaimUnderReview,
	"to review":         ClaimUnderReview,
}

// NormalizeClaim resolves legacy key aliases in a raw claim payload. It is a
// pure mapping executed once at ingestion: canonical keys already present win,
// alias keys are dropped, and a carrier_status value is folded into status.
// The input map is not modified.
func NormalizeClaim(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for legacy, canonical := range claimAliases {
		v, ok := out[legacy]
		if !ok {
			continue
		}
		if cur, exists := out[canonical]; !exists || cur == nil || cur == "" {
			out[canonical] = v
		}
		delete(out, legacy)
	}
	if cs, ok := out["carrier_status"]; ok {
		if cur, exists := out["status"]; !exists || cur == nil || cur == "" {
			if s, isStr := cs.(string); isStr {
				if mapped, known := carrierStatuses[strings.ToLower(strings.TrimSpace(s))]; known {
					out["status"] = mapped
				}
			}
		}
		delete(out, "carrier_status")
	}
	return out
}

// DiaryEntry is a timestamped free-text note attached to a claim.
type DiaryEntry struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// Validate checks the payload before it is stored.
func (d DiaryEntry) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Author, validation.Required),
		validation.Field(&d.Text, validation.Required),
	)
}
