package archive

import (
	"context"
	"fmt"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
)

// CreateClaim stores a new claim under an existing contract. Carrier,
// contract number, and risk description are copied from the contract record
// as read at this moment; later contract edits do not touch the stored claim.
func (s *Service) CreateClaim(ctx context.Context, account, entityID, contractID string, payload models.Claim) (string, error) {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return "", err
	}
	contract, err := s.GetContract(ctx, acc, ent, con)
	if err != nil {
		return "", err
	}
	payload.ContractNumber = contract.Identifiers.PolicyNumber
	payload.Carrier = contract.Identifiers.Carrier
	payload.Risk = contract.Risk.Description
	id := ident.NewID()
	if err := s.fs.WriteJSON(ident.ClaimFile(acc, ent, con, id), payload); err != nil {
		return "", err
	}
	return id, s.views.Rebuild(acc, ent)
}

// ListClaims returns the claim identifiers under a contract. The shared
// documents directory holds no claim record and is excluded.
func (s *Service) ListClaims(_ context.Context, account, entityID, contractID string) ([]string, error) {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return nil, err
	}
	entries, err := s.fs.ReadDir(ident.ClaimsDir(acc, ent, con))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && s.fs.Exists(ident.ClaimFile(acc, ent, con, e.Name())) {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// GetClaim reads a claim record.
func (s *Service) GetClaim(_ context.Context, account, entityID, contractID, claimID string) (models.Claim, error) {
	acc, ent, con, cl, err := s.claimIDs(account, entityID, contractID, claimID)
	if err != nil {
		return models.Claim{}, err
	}
	var c models.Claim
	if err := s.fs.ReadJSON(ident.ClaimFile(acc, ent, con, cl), &c); err != nil {
		return models.Claim{}, err
	}
	return c, nil
}

// UpdateClaim fully replaces an existing claim and rebuilds the entity views.
func (s *Service) UpdateClaim(_ context.Context, account, entityID, contractID, claimID string, payload models.Claim) (models.Claim, error) {
	acc, ent, con, cl, err := s.claimIDs(account, entityID, contractID, claimID)
	if err != nil {
		return models.Claim{}, err
	}
	f := ident.ClaimFile(acc, ent, con, cl)
	if !s.fs.Exists(f) {
		return models.Claim{}, fmt.Errorf("%w: claim %q", apperr.ErrNotFound, cl)
	}
	if err := s.fs.WriteJSON(f, payload); err != nil {
		return models.Claim{}, err
	}
	return payload, s.views.Rebuild(acc, ent)
}

// DeleteClaim removes a claim directory, including its diary and any legacy
// per-claim documents, then rebuilds the entity views.
func (s *Service) DeleteClaim(_ context.Context, account, entityID, contractID, claimID string) error {
	acc, ent, con, cl, err := s.claimIDs(account, entityID, contractID, claimID)
	if err != nil {
		return err
	}
	dir := ident.ClaimDir(acc, ent, con, cl)
	if !s.fs.Exists(dir) {
		return fmt.Errorf("%w: claim %q", apperr.ErrNotFound, cl)
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return err
	}
	return s.views.Rebuild(acc, ent)
}

func (s *Service) claimIDs(account, entityID, contractID, claimID string) (string, string, string, string, error) {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return "", "", "", "", err
	}
	cl, err := ident.Sanitize(claimID, "claim_id")
	if err != nil {
		return "", "", "", "", err
	}
	return acc, ent, con, cl, nil
}
