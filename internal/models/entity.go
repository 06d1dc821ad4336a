// Package models defines the record types stored in the archive.
package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Entity is a client or counterparty owning contracts.
type Entity struct {
	Name            string         `json:"name"`
	Address         string         `json:"address,omitempty"`
	TaxCode         string         `json:"tax_code,omitempty"`
	VAT             string         `json:"vat,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	Email           string         `json:"email,omitempty"`
	Sector          string         `json:"sector,omitempty"`
	LegalRep        string         `json:"legal_rep,omitempty"`
	LegalRepTaxCode string         `json:"legal_rep_tax_code,omitempty"`
	AdminData       map[string]any `json:"admin_data,omitempty"`
}

// Validate checks the payload before it is stored.
func (e Entity) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.Email, is.EmailFormat),
	)
}
