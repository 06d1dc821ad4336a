// Package archive implements the hierarchical entity store: CRUD for
// accounts' entities, contracts, titles, claims, and diary entries, built on
// the identifier resolver and the atomic record store. Mutations to
// contracts, titles, and claims trigger a full per-entity view rebuild;
// contract mutations additionally refresh the policy-number index.
package archive

import (
	"github.com/starford/fehu/internal/storage"
	"github.com/starford/fehu/internal/views"
)

// Service coordinates record storage and derived-state maintenance.
type Service struct {
	fs    storage.Provider
	views *views.Builder
}

// NewService creates a new archive service.
func NewService(fs storage.Provider, vb *views.Builder) *Service {
	return &Service{fs: fs, views: vb}
}

// Views exposes the view builder for read endpoints.
func (s *Service) Views() *views.Builder {
	return s.views
}
