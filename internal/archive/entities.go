package archive

import (
	"context"
	"fmt"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
)

// CreateEntity stores a new business entity. Creation fails with a conflict
// if the entity already exists.
func (s *Service) CreateEntity(_ context.Context, account, entityID string, payload models.Entity) (models.Entity, error) {
	acc, ent, err := s.entityIDs(account, entityID)
	if err != nil {
		return models.Entity{}, err
	}
	f := ident.EntityFile(acc, ent)
	if s.fs.Exists(f) {
		return models.Entity{}, fmt.Errorf("%w: entity %q already exists", apperr.ErrConflict, ent)
	}
	if err := s.fs.WriteJSON(f, payload); err != nil {
		return models.Entity{}, err
	}
	return payload, nil
}

// ListEntities returns the identifiers of every entity in the account.
func (s *Service) ListEntities(_ context.Context, account string) ([]string, error) {
	acc, err := ident.Sanitize(account, "account_id")
	if err != nil {
		return nil, err
	}
	entries, err := s.fs.ReadDir(ident.AccountDir(acc))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !ident.IsReserved(e.Name()) {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// GetEntity reads an entity record.
func (s *Service) GetEntity(_ context.Context, account, entityID string) (models.Entity, error) {
	acc, ent, err := s.entityIDs(account, entityID)
	if err != nil {
		return models.Entity{}, err
	}
	var e models.Entity
	if err := s.fs.ReadJSON(ident.EntityFile(acc, ent), &e); err != nil {
		return models.Entity{}, err
	}
	return e, nil
}

// UpdateEntity fully replaces an existing entity record.
func (s *Service) UpdateEntity(_ context.Context, account, entityID string, payload models.Entity) (models.Entity, error) {
	acc, ent, err := s.entityIDs(account, entityID)
	if err != nil {
		return models.Entity{}, err
	}
	f := ident.EntityFile(acc, ent)
	if !s.fs.Exists(f) {
		return models.Entity{}, fmt.Errorf("%w: entity %q", apperr.ErrNotFound, ent)
	}
	if err := s.fs.WriteJSON(f, payload); err != nil {
		return models.Entity{}, err
	}
	return payload, nil
}

// DeleteEntity removes an entity and everything beneath it: contracts,
// titles, claims, documents, and views.
func (s *Service) DeleteEntity(_ context.Context, account, entityID string) error {
	acc, ent, err := s.entityIDs(account, entityID)
	if err != nil {
		return err
	}
	dir := ident.EntityDir(acc, ent)
	if !s.fs.Exists(dir) {
		return fmt.Errorf("%w: entity %q", apperr.ErrNotFound, ent)
	}
	return s.fs.RemoveAll(dir)
}

// entityIDs sanitizes the (account, entity) identifier pair.
func (s *Service) entityIDs(account, entityID string) (string, string, error) {
	acc, err := ident.Sanitize(account, "account_id")
	if err != nil {
		return "", "", err
	}
	ent, err := ident.Sanitize(entityID, "entity_id")
	if err != nil {
		return "", "", err
	}
	return acc, ent, nil
}
