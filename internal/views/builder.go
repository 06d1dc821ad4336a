package views

import (
	"io/fs"
	"path"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
)

// TitleRow is a flattened title in the per-entity titles view, combining
// contract-level and title-level fields.
type TitleRow struct {
	ContractID   string          `json:"contract_id"`
	TitleID      string          `json:"title_id"`
	Carrier      string          `json:"carrier"`
	PolicyNumber string          `json:"policy_number"`
	Risk         string          `json:"risk,omitempty"`
	ExpiryDate   string          `json:"expiry_date,omitempty"`
	Status       string          `json:"status,omitempty"`
	Outlet       string          `json:"outlet,omitempty"`
	Outlet2      string          `json:"outlet2,omitempty"`
	Premium      decimal.Decimal `json:"premium"`
}

// Rebuild recomputes the titles and claims views for one entity by scanning
// every contract beneath it. The result fully overwrites the stored view
// files; nothing is merged with a prior view. If the entity has no contracts
// directory the rebuild is a no-op. Unparsable records are skipped, matching
// the tolerant-scan policy for derived state.
func (b *Builder) Rebuild(account, entity string) error {
	croot := ident.ContractsDir(account, entity)
	if !b.fs.Exists(croot) {
		return nil
	}

	titles := make([]TitleRow, 0)
	claims := make([]map[string]any, 0)

	entries, err := b.fs.ReadDir(croot)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		contractID := e.Name()

		var contract models.Contract
		if err := b.fs.ReadJSON(ident.ContractFile(account, entity, contractID), &contract); err != nil {
			continue
		}
		carrier := contract.Identifiers.Carrier
		policy := contract.Identifiers.PolicyNumber
		risk := contract.Risk.Description

		titles = append(titles, b.scanTitles(account, entity, contractID, carrier, policy, risk)...)
		claims = append(claims, b.scanClaims(account, entity, contractID)...)
	}

	if err := b.fs.WriteJSON(ident.TitlesViewFile(account, entity), titles); err != nil {
		return err
	}
	return b.fs.WriteJSON(ident.ClaimsViewFile(account, entity), claims)
}

// scanTitles flattens every title file beneath a contract, excluding the
// shared documents directory.
func (b *Builder) scanTitles(account, entity, contractID, carrier, policy, risk string) []TitleRow {
	rows := make([]TitleRow, 0)
	troot := ident.TitlesDir(account, entity, contractID)
	_ = b.fs.Walk(troot, func(rel string, d fs.DirEntry, _ error) error {
		if d.IsDir() || !strings.HasSuffix(rel, ".json") || path.Base(path.Dir(rel)) == "documents" {
			return nil
		}
		var t models.Title
		if err := b.fs.ReadJSON(rel, &t); err != nil {
			return nil
		}
		rows = append(rows, TitleRow{
			ContractID:   contractID,
			TitleID:      strings.TrimSuffix(path.Base(rel), ".json"),
			Carrier:      carrier,
			PolicyNumber: policy,
			Risk:         risk,
			ExpiryDate:   t.ExpiryDate,
			Status:       t.Status,
			Outlet:       t.Outlet,
			Outlet2:      t.Outlet2,
			Premium:      t.GrossPremium,
		})
		return nil
	})
	return rows
}

// scanClaims emits every claim record beneath a contract, tagged with its
// claim and contract identifiers.
func (b *Builder) scanClaims(account, entity, contractID string) []map[string]any {
	rows := make([]map[string]any, 0)
	sroot := ident.ClaimsDir(account, entity, contractID)
	entries, err := b.fs.ReadDir(sroot)
	if err != nil {
		return rows
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		var claim map[string]any
		if err := b.fs.ReadJSON(ident.ClaimFile(account, entity, contractID, e.Name()), &claim); err != nil {
			continue
		}
		claim["claim_id"] = e.Name()
		claim["contract_id"] = contractID
		rows = append(rows, claim)
	}
	return rows
}

// TitlesView returns the stored titles view for an entity, rebuilding it
// first when the view file is missing.
func (b *Builder) TitlesView(account, entity string) ([]TitleRow, error) {
	f := ident.TitlesViewFile(account, entity)
	if !b.fs.Exists(f) {
		if err := b.Rebuild(account, entity); err != nil {
			return nil, err
		}
	}
	rows := make([]TitleRow, 0)
	if !b.fs.Exists(f) {
		return rows, nil
	}
	if err := b.fs.ReadJSON(f, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ClaimsView returns the stored claims view for an entity, rebuilding it
// first when the view file is missing.
func (b *Builder) ClaimsView(account, entity string) ([]map[string]any, error) {
	f := ident.ClaimsViewFile(account, entity)
	if !b.fs.Exists(f) {
		if err := b.Rebuild(account, entity); err != nil {
			return nil, err
		}
	}
	rows := make([]map[string]any, 0)
	if !b.fs.Exists(f) {
		return rows, nil
	}
	if err := b.fs.ReadJSON(f, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
