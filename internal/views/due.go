package views

import (
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
)

// ContractDue is a contract whose expiry falls inside the dashboard window.
type ContractDue struct {
	EntityID     string `json:"entity_id"`
	ContractID   string `json:"contract_id"`
	PolicyNumber string `json:"policy_number,omitempty"`
	Carrier      string `json:"carrier,omitempty"`
	ExpiryDate   string `json:"expiry_date"`
}

// TitleDue is a title whose expiry falls inside the dashboard window.
type TitleDue struct {
	EntityID   string          `json:"entity_id"`
	ContractID string          `json:"contract_id"`
	TitleID    string          `json:"title_id"`
	ExpiryDate string          `json:"expiry_date"`
	Status     string          `json:"status,omitempty"`
	Premium    decimal.Decimal `json:"premium"`
}

// DueReport is the result of a dashboard scan.
type DueReport struct {
	ContractsDue []ContractDue `json:"contracts_due"`
	TitlesDue    []TitleDue    `json:"titles_due"`
}

// Due scans the entire account tree and reports every contract and title
// whose expiry date falls within [today, today+days] inclusive. The scan is
// always fresh, tolerant of malformed or missing dates, and imposes no order;
// callers sort separately.
func (b *Builder) Due(account string, days int) (DueReport, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	limit := today.AddDate(0, 0, days)

	report := DueReport{
		ContractsDue: make([]ContractDue, 0),
		TitlesDue:    make([]TitleDue, 0),
	}

	entities, err := b.fs.ReadDir(ident.AccountDir(account))
	if err != nil {
		return report, err
	}
	for _, ent := range entities {
		if !ent.IsDir() || ident.IsReserved(ent.Name()) {
			continue
		}
		entityID := ent.Name()

		contracts, err := b.fs.ReadDir(ident.ContractsDir(account, entityID))
		if err != nil {
			continue
		}
		for _, c := range contracts {
			if !c.IsDir() {
				continue
			}
			contractID := c.Name()

			var contract models.Contract
			if err := b.fs.ReadJSON(ident.ContractFile(account, entityID, contractID), &contract); err == nil {
				if inWindow(contract.Admin.ExpiryDate, today, limit) {
					report.ContractsDue = append(report.ContractsDue, ContractDue{
						EntityID:     entityID,
						ContractID:   contractID,
						PolicyNumber: contract.Identifiers.PolicyNumber,
						Carrier:      contract.Identifiers.Carrier,
						ExpiryDate:   contract.Admin.ExpiryDate,
					})
				}
			}

			troot := ident.TitlesDir(account, entityID, contractID)
			_ = b.fs.Walk(troot, func(rel string, d fs.DirEntry, _ error) error {
				if d.IsDir() || !strings.HasSuffix(rel, ".json") || path.Base(path.Dir(rel)) == "documents" {
					return nil
				}
				var t models.Title
				if err := b.fs.ReadJSON(rel, &t); err != nil {
					return nil
				}
				if inWindow(t.ExpiryDate, today, limit) {
					report.TitlesDue = append(report.TitlesDue, TitleDue{
						EntityID:   entityID,
						ContractID: contractID,
						TitleID:    strings.TrimSuffix(path.Base(rel), ".json"),
						ExpiryDate: t.ExpiryDate,
						Status:     t.Status,
						Premium:    t.GrossPremium,
					})
				}
				return nil
			})
		}
	}
	return report, nil
}

// inWindow reports whether value parses as an ISO date inside [today, limit]
// inclusive. Malformed or empty dates are skipped, not errors.
func inWindow(value string, today, limit time.Time) bool {
	if value == "" {
		return false
	}
	d, err := time.ParseInLocation(models.DateLayout, value, time.UTC)
	if err != nil {
		return false
	}
	return !d.Before(today) && !d.After(limit)
}
