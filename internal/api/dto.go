package api

import (
	"github.com/starford/fehu/internal/models"
)

// CreateDocumentRequest carries a metadata record plus optional base64 content
// for the blob store.
type CreateDocumentRequest struct {
	Meta          models.DocumentMeta `json:"meta" validate:"required"`
	ContentBase64 string              `json:"content_base64,omitempty"`
}

// CreatedResponse is returned after a record with a generated id is stored.
type CreatedResponse struct {
	ID     string `json:"id" validate:"required"`
	Record any    `json:"record,omitempty"`
}

// DeletedResponse acknowledges a delete.
type DeletedResponse struct {
	Deleted bool   `json:"deleted" validate:"required"`
	ID      string `json:"id" validate:"required"`
}

// ListResponse wraps identifier listings.
type ListResponse struct {
	IDs []string `json:"ids" validate:"required"`
}
