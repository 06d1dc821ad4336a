// Package document implements the attachment metadata registry: per-scope
// metadata records linking logical documents to deduplicated blobs, with
// reference-counted blob garbage collection.
//
// Claim documents have two historical physical layouts. The current layout is
// a single shared directory per contract whose records carry a claim_id tag;
// the legacy layout is one directory per claim. Lookups try the shared layout
// first and fall back to legacy; writes always target the shared layout. Call
// sites never branch on layout directly; the Scope strategy encapsulates it.
package document

import (
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
)

// Scope identifies the record a document belongs to and the physical layout
// of its metadata directory.
type Scope interface {
	// Account is the owning account namespace.
	Account() string
	// OwnerFile is the record that must exist before a document is created.
	OwnerFile() string
	// WriteDir is the directory all new and updated metadata records target.
	WriteDir() string
	// ReadDirs returns candidate metadata directories in fixed lookup order.
	ReadDirs() []string
	// Level is the scope stamp recorded in the metadata map.
	Level() string
	// Stamp sets the owner tag on a metadata record before it is written.
	Stamp(m *models.DocumentMeta)
	// Owns reports whether a record found in dir belongs to this scope.
	Owns(m models.DocumentMeta, dir string) bool
}

type contractScope struct {
	account, entity, contract string
}

// ForContract returns the document scope of a contract.
func ForContract(account, entity, contract string) Scope {
	return contractScope{account: account, entity: entity, contract: contract}
}

func (s contractScope) Account() string   { return s.account }
func (s contractScope) Level() string     { return models.ScopeContract }
func (s contractScope) OwnerFile() string { return ident.ContractFile(s.account, s.entity, s.contract) }
func (s contractScope) WriteDir() string {
	return ident.ContractDocsDir(s.account, s.entity, s.contract)
}
func (s contractScope) ReadDirs() []string                    { return []string{s.WriteDir()} }
func (s contractScope) Stamp(*models.DocumentMeta)            {}
func (s contractScope) Owns(models.DocumentMeta, string) bool { return true }

type claimScope struct {
	account, entity, contract, claim string
}

// ForClaim returns the document scope of a claim, covering both the shared
// and the legacy per-claim layouts.
func ForClaim(account, entity, contract, claim string) Scope {
	return claimScope{account: account, entity: entity, contract: contract, claim: claim}
}

func (s claimScope) Account() string { return s.account }
func (s claimScope) Level() string   { return models.ScopeClaim }
func (s claimScope) OwnerFile() string {
	return ident.ClaimFile(s.account, s.entity, s.contract, s.claim)
}
func (s claimScope) WriteDir() string {
	return ident.ClaimDocsDir(s.account, s.entity, s.contract)
}
func (s claimScope) ReadDirs() []string {
	return []string{
		s.WriteDir(),
		ident.LegacyClaimDocsDir(s.account, s.entity, s.contract, s.claim),
	}
}
func (s claimScope) Stamp(m *models.DocumentMeta) { m.ClaimID = s.claim }
func (s claimScope) Owns(m models.DocumentMeta, dir string) bool {
	// Everything in the legacy per-claim directory belongs to that claim.
	if dir != s.WriteDir() {
		return true
	}
	return m.ClaimID == s.claim
}

type titleScope struct {
	account, entity, contract, title string
}

// ForTitle returns the document scope of a title. All titles of a contract
// share one directory; records are filtered by their title_id tag.
func ForTitle(account, entity, contract, title string) Scope {
	return titleScope{account: account, entity: entity, contract: contract, title: title}
}

func (s titleScope) Account() string { return s.account }
func (s titleScope) Level() string   { return models.ScopeTitle }
func (s titleScope) OwnerFile() string {
	return ident.TitleFile(s.account, s.entity, s.contract, s.title)
}
func (s titleScope) WriteDir() string {
	return ident.TitleDocsDir(s.account, s.entity, s.contract)
}
func (s titleScope) ReadDirs() []string           { return []string{s.WriteDir()} }
func (s titleScope) Stamp(m *models.DocumentMeta) { m.TitleID = s.title }
func (s titleScope) Owns(m models.DocumentMeta, _ string) bool {
	return m.TitleID == s.title
}
