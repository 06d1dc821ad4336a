package archive

import (
	"context"
	"fmt"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
)

// CreateContract stores a new contract under an existing entity, registers
// its policy number in the secondary index, and rebuilds the entity views.
// The contract identifier is generated, so creation never conflicts.
func (s *Service) CreateContract(_ context.Context, account, entityID string, payload models.Contract) (string, error) {
	acc, ent, err := s.entityIDs(account, entityID)
	if err != nil {
		return "", err
	}
	if !s.fs.Exists(ident.EntityFile(acc, ent)) {
		return "", fmt.Errorf("%w: entity %q", apperr.ErrNotFound, ent)
	}
	if err := checkPolicyNumber(payload.Identifiers.PolicyNumber); err != nil {
		return "", err
	}
	id := ident.NewID()
	if err := s.fs.WriteJSON(ident.ContractFile(acc, ent, id), payload); err != nil {
		return "", err
	}
	if err := s.views.UpdatePolicyIndex(acc, payload.Identifiers.PolicyNumber, ent, id); err != nil {
		return "", err
	}
	return id, s.views.Rebuild(acc, ent)
}

// ListContracts returns the contract identifiers under an entity.
func (s *Service) ListContracts(_ context.Context, account, entityID string) ([]string, error) {
	acc, ent, err := s.entityIDs(account, entityID)
	if err != nil {
		return nil, err
	}
	if !s.fs.Exists(ident.EntityFile(acc, ent)) {
		return nil, fmt.Errorf("%w: entity %q", apperr.ErrNotFound, ent)
	}
	entries, err := s.fs.ReadDir(ident.ContractsDir(acc, ent))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// GetContract reads a contract record.
func (s *Service) GetContract(_ context.Context, account, entityID, contractID string) (models.Contract, error) {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return models.Contract{}, err
	}
	var c models.Contract
	if err := s.fs.ReadJSON(ident.ContractFile(acc, ent, con), &c); err != nil {
		return models.Contract{}, err
	}
	return c, nil
}

// UpdateContract fully replaces an existing contract, refreshes the policy
// index, and rebuilds the entity views. Titles and claims created earlier
// keep their snapshot of the old denormalized fields.
func (s *Service) UpdateContract(_ context.Context, account, entityID, contractID string, payload models.Contract) (models.Contract, error) {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return models.Contract{}, err
	}
	f := ident.ContractFile(acc, ent, con)
	if !s.fs.Exists(f) {
		return models.Contract{}, fmt.Errorf("%w: contract %q", apperr.ErrNotFound, con)
	}
	if err := checkPolicyNumber(payload.Identifiers.PolicyNumber); err != nil {
		return models.Contract{}, err
	}
	if err := s.fs.WriteJSON(f, payload); err != nil {
		return models.Contract{}, err
	}
	if err := s.views.UpdatePolicyIndex(acc, payload.Identifiers.PolicyNumber, ent, con); err != nil {
		return models.Contract{}, err
	}
	return payload, s.views.Rebuild(acc, ent)
}

// DeleteContract removes a contract and all titles, claims, and documents
// beneath it, then rebuilds the entity views. The policy index row is left
// in place.
func (s *Service) DeleteContract(_ context.Context, account, entityID, contractID string) error {
	acc, ent, con, err := s.contractIDs(account, entityID, contractID)
	if err != nil {
		return err
	}
	dir := ident.ContractDir(acc, ent, con)
	if !s.fs.Exists(dir) {
		return fmt.Errorf("%w: contract %q", apperr.ErrNotFound, con)
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return err
	}
	return s.views.Rebuild(acc, ent)
}

// checkPolicyNumber rejects policy numbers the index maintainer could not
// file, before the contract record itself is written. An empty number is
// fine; such contracts are simply unindexed.
func checkPolicyNumber(policy string) error {
	if policy == "" {
		return nil
	}
	_, err := ident.Sanitize(policy, "policy_number")
	return err
}

// contractIDs sanitizes the (account, entity, contract) identifier chain.
func (s *Service) contractIDs(account, entityID, contractID string) (string, string, string, error) {
	acc, ent, err := s.entityIDs(account, entityID)
	if err != nil {
		return "", "", "", err
	}
	con, err := ident.Sanitize(contractID, "contract_id")
	if err != nil {
		return "", "", "", err
	}
	return acc, ent, con, nil
}
