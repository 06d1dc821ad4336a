// Package ident validates identifiers and derives the on-disk layout of the
// archive. Every user-supplied identifier passes through Sanitize before any
// path is built, so no raw string ever reaches the filesystem layer. The path
// builders are pure functions over already-sanitized identifiers and return
// slash-separated paths relative to the archive root.
package ident

import (
	"encoding/hex"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/checksum"
)

var allowedID = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Reserved top-level names inside an account directory. Entity directories
// share the account root with these, so they cannot be used as entity ids.
var reserved = map[string]bool{
	"indexes": true,
	"blobs":   true,
}

// Sanitize trims raw, replaces internal spaces with underscores, and validates
// the result against the allowed character set. role names the identifier in
// the returned error.
func Sanitize(raw, role string) (string, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
	if !allowedID.MatchString(s) {
		return "", fmt.Errorf("%w: %s %q must match [a-zA-Z0-9._-]", apperr.ErrInvalidID, role, raw)
	}
	// "." and ".." satisfy the character set but re-resolve the path one
	// level up, so a record id could escape its directory.
	if s == "." || s == ".." {
		return "", fmt.Errorf("%w: %s %q is not a valid identifier", apperr.ErrInvalidID, role, raw)
	}
	if role == "entity_id" && reserved[s] {
		return "", fmt.Errorf("%w: %s %q is a reserved name", apperr.ErrInvalidID, role, raw)
	}
	return s, nil
}

// NewID returns a fresh unique identifier for generated records (contracts,
// titles, claims, diary entries, documents): 32 lower-case hex characters.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// IsReserved reports whether name is one of the account-level directories that
// tree scans must skip when iterating entities.
func IsReserved(name string) bool {
	return reserved[name]
}

// AccountDir is the top-level namespace for one tenant.
func AccountDir(account string) string {
	return account
}

func EntityDir(account, entity string) string {
	return path.Join(account, entity)
}

func EntityFile(account, entity string) string {
	return path.Join(account, entity, "entity.json")
}

func ContractsDir(account, entity string) string {
	return path.Join(account, entity, "contracts")
}

func ContractDir(account, entity, contract string) string {
	return path.Join(account, entity, "contracts", contract)
}

func ContractFile(account, entity, contract string) string {
	return path.Join(account, entity, "contracts", contract, "contract.json")
}

func TitlesDir(account, entity, contract string) string {
	return path.Join(account, entity, "contracts", contract, "titles")
}

func TitleFile(account, entity, contract, title string) string {
	return path.Join(account, entity, "contracts", contract, "titles", title+".json")
}

// TitleDocsDir is shared by all titles of a contract; records carry a
// title_id tag for filtering.
func TitleDocsDir(account, entity, contract string) string {
	return path.Join(account, entity, "contracts", contract, "titles", "documents")
}

func ClaimsDir(account, entity, contract string) string {
	return path.Join(account, entity, "contracts", contract, "claims")
}

func ClaimDir(account, entity, contract, claim string) string {
	return path.Join(account, entity, "contracts", contract, "claims", claim)
}

func ClaimFile(account, entity, contract, claim string) string {
	return path.Join(account, entity, "contracts", contract, "claims", claim, "claim.json")
}

func DiaryDir(account, entity, contract, claim string) string {
	return path.Join(account, entity, "contracts", contract, "claims", claim, "diary")
}

func DiaryFile(account, entity, contract, claim, entry string) string {
	return path.Join(account, entity, "contracts", contract, "claims", claim, "diary", entry+".json")
}

func ContractDocsDir(account, entity, contract string) string {
	return path.Join(account, entity, "contracts", contract, "documents")
}

// ClaimDocsDir is the current shared layout: one directory for all claims of a
// contract, with records tagged by claim_id.
func ClaimDocsDir(account, entity, contract string) string {
	return path.Join(account, entity, "contracts", contract, "claims", "documents")
}

// LegacyClaimDocsDir is the historical per-claim layout, kept as a read-only
// fallback.
func LegacyClaimDocsDir(account, entity, contract, claim string) string {
	return path.Join(account, entity, "contracts", contract, "claims", claim, "documents")
}

func DocFile(dir, doc string) string {
	return path.Join(dir, doc+".json")
}

func ViewsDir(account, entity string) string {
	return path.Join(account, entity, "views")
}

func TitlesViewFile(account, entity string) string {
	return path.Join(account, entity, "views", "titles_index.json")
}

func ClaimsViewFile(account, entity string) string {
	return path.Join(account, entity, "views", "claims_index.json")
}

func PolicyIndexFile(account, policyNumber string) string {
	return path.Join(account, "indexes", "by_policy", policyNumber+".json")
}

func BlobsDir(account string) string {
	return path.Join(account, "blobs")
}

// BlobRel is the blob path relative to the account directory, as stored in
// document metadata records.
func BlobRel(digest string) string {
	return path.Join("blobs", checksum.Shard(digest), digest)
}

// BlobPath is the blob path relative to the archive root.
func BlobPath(account, digest string) string {
	return path.Join(account, BlobRel(digest))
}
