// Package views maintains the derived state of the archive: the policy-number
// index, the per-entity denormalized views, and the due-date dashboard.
package views

import (
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/storage"
)

// Builder recomputes derived state from the record tree.
type Builder struct {
	fs storage.Provider
}

// NewBuilder creates a Builder over the given provider.
func NewBuilder(fs storage.Provider) *Builder {
	return &Builder{fs: fs}
}

// PolicyLocation is one row of the by-policy secondary index.
type PolicyLocation struct {
	EntityID   string `json:"entity_id"`
	ContractID string `json:"contract_id"`
}

// UpdatePolicyIndex overwrites the index row for policyNumber with the current
// owner. An empty policy number is a no-op. The row is a full replace, never a
// merge, and is not removed on contract deletion.
func (b *Builder) UpdatePolicyIndex(account, policyNumber, entityID, contractID string) error {
	if policyNumber == "" {
		return nil
	}
	pn, err := ident.Sanitize(policyNumber, "policy_number")
	if err != nil {
		return err
	}
	return b.fs.WriteJSON(ident.PolicyIndexFile(account, pn), PolicyLocation{
		EntityID:   entityID,
		ContractID: contractID,
	})
}

// LookupPolicy resolves a policy number to its owning entity and contract.
func (b *Builder) LookupPolicy(account, policyNumber string) (PolicyLocation, error) {
	pn, err := ident.Sanitize(policyNumber, "policy_number")
	if err != nil {
		return PolicyLocation{}, err
	}
	var loc PolicyLocation
	if err := b.fs.ReadJSON(ident.PolicyIndexFile(account, pn), &loc); err != nil {
		return PolicyLocation{}, err
	}
	return loc, nil
}
