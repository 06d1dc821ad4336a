package archive

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
)

// CreateTitle stores a new title under an existing contract. The policy
// number and entity id are copied onto the title from the contract record as
// read at this moment; later contract edits do not touch the stored title.
func (s *Service) CreateTitle(ctx context.Context, account, entityID, contractID string, payload models.Title) (string, error) {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return "", err
	}
	contract, err := s.GetContract(ctx, acc, ent, con)
	if err != nil {
		return "", err
	}
	payload.PolicyNumber = contract.Identifiers.PolicyNumber
	payload.EntityID = ent
	if payload.Status == "" {
		payload.Status = models.TitleUnpaid
	}
	id := ident.NewID()
	if err := s.fs.WriteJSON(ident.TitleFile(acc, ent, con, id), payload); err != nil {
		return "", err
	}
	return id, s.views.Rebuild(acc, ent)
}

// ListTitles returns the title identifiers under a contract, excluding the
// shared documents directory.
func (s *Service) ListTitles(_ context.Context, account, entityID, contractID string) ([]string, error) {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0)
	err = s.fs.Walk(ident.TitlesDir(acc, ent, con), func(rel string, d fs.DirEntry, _ error) error {
		if d.IsDir() || !strings.HasSuffix(rel, ".json") || path.Base(path.Dir(rel)) == "documents" {
			return nil
		}
		ids = append(ids, strings.TrimSuffix(path.Base(rel), ".json"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetTitle reads a title record.
func (s *Service) GetTitle(_ context.Context, account, entityID, contractID, titleID string) (models.Title, error) {
	acc, ent, con, tid, err := s.titleIDs(account, entityID, contractID, titleID)
	if err != nil {
		return models.Title{}, err
	}
	var t models.Title
	if err := s.fs.ReadJSON(ident.TitleFile(acc, ent, con, tid), &t); err != nil {
		return models.Title{}, err
	}
	return t, nil
}

// UpdateTitle fully replaces an existing title and rebuilds the entity views.
func (s *Service) UpdateTitle(_ context.Context, account, entityID, contractID, titleID string, payload models.Title) (models.Title, error) {
	acc, ent, con, tid, err := s.titleIDs(account, entityID, contractID, titleID)
	if err != nil {
		return models.Title{}, err
	}
	f := ident.TitleFile(acc, ent, con, tid)
	if !s.fs.Exists(f) {
		return models.Title{}, fmt.Errorf("%w: title %q", apperr.ErrNotFound, tid)
	}
	if err := s.fs.WriteJSON(f, payload); err != nil {
		return models.Title{}, err
	}
	return payload, s.views.Rebuild(acc, ent)
}

// DeleteTitle removes a title and rebuilds the entity views.
func (s *Service) DeleteTitle(_ context.Context, account, entityID, contractID, titleID string) error {
	acc, ent, con, tid, err := s.titleIDs(account, entityID, contractID, titleID)
	if err != nil {
		return err
	}
	f := ident.TitleFile(acc, ent, con, tid)
	if !s.fs.Exists(f) {
		return fmt.Errorf("%w: title %q", apperr.ErrNotFound, tid)
	}
	if err := s.fs.Remove(f); err != nil {
		return err
	}
	return s.views.Rebuild(acc, ent)
}

func (s *Service) titleIDs(account, entityID, contractID, titleID string) (string, string, string, string, error) {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return "", "", "", "", err
	}
	tid, err := ident.Sanitize(titleID, "title_id")
	if err != nil {
		return "", "", "", "", err
	}
	return acc, ent, con, tid, nil
}
