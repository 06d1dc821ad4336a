package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for all calendar dates in stored records.
const DateLayout = "2006-01-02"

// Billing frequencies.
const (
	FreqAnnual     = "ANNUAL"
	FreqSemiannual = "SEMIANNUAL"
	FreqQuarterly  = "QUARTERLY"
	FreqMonthly    = "MONTHLY"
)

// ContractIdentifiers is the identifying block of a contract. Carrier and
// PolicyNumber are the fields the core itself reads to build indexes and
// denormalized views.
type ContractIdentifiers struct {
	Type         string `json:"type,omitempty"`
	CarrierCode  string `json:"carrier_code,omitempty"`
	Branch       string `json:"branch,omitempty"`
	Carrier      string `json:"carrier"`
	PolicyNumber string `json:"policy_number"`
}

// Validate checks the required identifier fields.
func (c ContractIdentifiers) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Carrier, validation.Required),
		validation.Field(&c.PolicyNumber, validation.Required),
	)
}

// SalesUnit records the distribution channel of a contract.
type SalesUnit struct {
	Outlet         string `json:"outlet,omitempty"`
	Outlet2        string `json:"outlet2,omitempty"`
	AccountManager string `json:"account_manager,omitempty"`
	Broker         string `json:"broker,omitempty"`
}

// ContractAdmin is the administrative block. Dates are ISO strings; ExpiryDate
// is the field the dashboard scan reads.
type ContractAdmin struct {
	EffectiveDate       string `json:"effective_date,omitempty"`
	IssueDate           string `json:"issue_date,omitempty"`
	LastPaidInstallment string `json:"last_paid_installment,omitempty"`
	BillingFrequency    string `json:"billing_frequency,omitempty"`
	SignatureIncluded   bool   `json:"signature_included,omitempty"`
	ExpiryDate          string `json:"expiry_date,omitempty"`
	OriginalExpiryDate  string `json:"original_expiry_date,omitempty"`
	GraceExpiry         string `json:"grace_expiry,omitempty"`
	ProposalNumber      string `json:"proposal_number,omitempty"`
	CollectionMethod    string `json:"collection_method,omitempty"`
	AgreementCode       string `json:"agreement_code,omitempty"`
	LienExpiry          string `json:"lien_expiry,omitempty"`
	CoverExpiry         string `json:"cover_expiry,omitempty"`
	ExtensionCoverEnd   string `json:"extension_cover_end,omitempty"`
}

// Validate checks that dates, when present, are ISO formatted.
func (a ContractAdmin) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.EffectiveDate, validation.Date(DateLayout)),
		validation.Field(&a.IssueDate, validation.Date(DateLayout)),
		validation.Field(&a.ExpiryDate, validation.Date(DateLayout)),
		validation.Field(&a.BillingFrequency,
			validation.In(FreqAnnual, FreqSemiannual, FreqQuarterly, FreqMonthly)),
	)
}

// ContractPremium is the premium breakdown in exact decimals.
type ContractPremium struct {
	Gross       decimal.Decimal  `json:"gross"`
	Net         decimal.Decimal  `json:"net"`
	Accessories decimal.Decimal  `json:"accessories"`
	Fees        decimal.Decimal  `json:"fees"`
	Taxes       decimal.Decimal  `json:"taxes"`
	Expenses    decimal.Decimal  `json:"expenses"`
	Fund        decimal.Decimal  `json:"fund"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
}

// Renewal captures renewal and cancellation terms as free text.
type Renewal struct {
	Renewal      string `json:"renewal,omitempty"`
	Cancellation string `json:"cancellation,omitempty"`
	GraceDays    string `json:"grace_days,omitempty"`
	Extension    string `json:"extension,omitempty"`
}

// AdjustmentParams configures premium adjustment cycles.
type AdjustmentParams struct {
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	LastIssued  string `json:"last_issued,omitempty"`
	DataDays    *int   `json:"data_days,omitempty"`
	PaymentDays *int   `json:"payment_days,omitempty"`
	GraceDays   *int   `json:"grace_days,omitempty"`
	Cadence     string `json:"cadence,omitempty"`
}

// Operations holds operational flags.
type Operations struct {
	Adjustment       bool             `json:"adjustment,omitempty"`
	AdjustmentParams AdjustmentParams `json:"adjustment_params,omitempty"`
}

// Risk describes the insured risk.
type Risk struct {
	Description string `json:"description,omitempty"`
}

// Contract is an insurance policy record.
type Contract struct {
	Identifiers ContractIdentifiers `json:"identifiers"`
	SalesUnit   SalesUnit           `json:"sales_unit,omitempty"`
	Admin       ContractAdmin       `json:"admin,omitempty"`
	Premium     ContractPremium     `json:"premium,omitempty"`
	Renewal     Renewal             `json:"renewal,omitempty"`
	Operations  Operations          `json:"operations,omitempty"`
	Risk        Risk                `json:"risk,omitempty"`
}

// Validate checks the payload before it is stored.
func (c Contract) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Identifiers),
		validation.Field(&c.Admin),
	)
}
