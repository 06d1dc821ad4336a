package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Title types.
const (
	TitleInstallment = "INSTALLMENT"
	TitleReceipt     = "RECEIPT"
	TitleEndorsement = "ENDORSEMENT"
	TitleAdjustment  = "ADJUSTMENT"
)

// Title statuses.
const (
	TitleUnpaid     = "UNPAID"
	TitlePaid       = "PAID"
	TitleCancelled  = "CANCELLED"
	TitleDelinquent = "DELINQUENT"
)

// Title is a billing instrument under a contract. PolicyNumber and EntityID
// are snapshots copied from the owning contract at creation time.
type Title struct {
	Type          string `json:"type"`
	EffectiveDate string `json:"effective_date"`
	ExpiryDate    string `json:"expiry_date"`
	Description   string `json:"description,omitempty"`
	Sequence      string `json:"sequence,omitempty"`
	Status        string `json:"status,omitempty"`

	Taxable      decimal.Decimal `json:"taxable"`
	GrossPremium decimal.Decimal `json:"gross_premium"`
	Taxes        decimal.Decimal `json:"taxes"`
	Accessories  decimal.Decimal `json:"accessories"`
	Fees         decimal.Decimal `json:"fees"`
	Expenses     decimal.Decimal `json:"expenses"`

	BillingFrequency string `json:"billing_frequency,omitempty"`
	GraceDays        int    `json:"grace_days,omitempty"`
	TenderCode       string `json:"tender_code,omitempty"`
	Outlet           string `json:"outlet,omitempty"`
	Outlet2          string `json:"outlet2,omitempty"`
	ReceiptNumber    string `json:"receipt_number,omitempty"`
	PaymentDate      string `json:"payment_date,omitempty"`
	PaymentMethod    string `json:"payment_method,omitempty"`

	PolicyNumber string `json:"policy_number,omitempty"`
	EntityID     string `json:"entity_id,omitempty"`
}

// Validate checks the payload before it is stored.
func (t Title) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Type, validation.Required,
			validation.In(TitleInstallment, TitleReceipt, TitleEndorsement, TitleAdjustment)),
		validation.Field(&t.EffectiveDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&t.ExpiryDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&t.Status,
			validation.In(TitleUnpaid, TitlePaid, TitleCancelled, TitleDelinquent)),
		validation.Field(&t.BillingFrequency,
			validation.In(FreqAnnual, FreqSemiannual, FreqQuarterly, FreqMonthly)),
		validation.Field(&t.PaymentDate, validation.Date(DateLayout)),
	)
}
