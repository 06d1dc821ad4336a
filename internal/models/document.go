package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Document scopes.
const (
	ScopeContract = "CONTRACT"
	ScopeTitle    = "TITLE"
	ScopeClaim    = "CLAIM"
)

// Document categories.
const (
	CategoryCND   = "CND"
	CategoryApp   = "APP"
	CategoryClaim = "CLAIM"
	CategoryOther = "OTHER"
)

// DocumentMeta describes an attachment. Digest and BlobPath reference the
// deduplicated blob holding the content; BlobPath is relative to the account
// directory. ClaimID/TitleID tag the owning record inside the shared document
// directories.
type DocumentMeta struct {
	Scope        string         `json:"scope"`
	Category     string         `json:"category"`
	MIME         string         `json:"mime"`
	OriginalName string         `json:"original_name"`
	Size         int64          `json:"size"`
	Digest       string         `json:"digest,omitempty"`
	BlobPath     string         `json:"blob_path,omitempty"`
	ClaimID      string         `json:"claim_id,omitempty"`
	TitleID      string         `json:"title_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Validate checks the payload before it is stored.
func (m DocumentMeta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Scope, validation.Required,
			validation.In(ScopeContract, ScopeTitle, ScopeClaim)),
		validation.Field(&m.Category, validation.Required,
			validation.In(CategoryCND, CategoryApp, CategoryClaim, CategoryOther)),
		validation.Field(&m.MIME, validation.Required),
		validation.Field(&m.OriginalName, validation.Required),
		validation.Field(&m.Size, validation.Min(0)),
	)
}
