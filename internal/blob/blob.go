// Package blob implements the deduplicated, content-addressed attachment
// store. Content is keyed by its SHA-256 digest and sharded by the first two
// hex characters, so identical bytes always map to the same path and a second
// write of the same content is a no-op.
package blob

import (
	"github.com/starford/fehu/internal/checksum"
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/storage"
)

// Store is the content-addressed blob store for one archive root.
type Store struct {
	fs storage.Provider
}

// NewStore creates a blob store over the given provider.
func NewStore(fs storage.Provider) *Store {
	return &Store{fs: fs}
}

// Write stores content under its digest if not already present and returns
// the digest and the blob path relative to the account directory.
func (s *Store) Write(account string, content []byte) (digest, rel string, err error) {
	digest = checksum.Sum(content)
	p := ident.BlobPath(account, digest)
	if !s.fs.Exists(p) {
		if err := s.fs.WriteFile(p, content); err != nil {
			return "", "", err
		}
	}
	return digest, ident.BlobRel(digest), nil
}

// Read returns the raw content for a digest.
func (s *Store) Read(account, digest string) ([]byte, error) {
	return s.fs.ReadFile(ident.BlobPath(account, digest))
}

// Exists reports whether a blob with the given digest is on disk.
func (s *Store) Exists(account, digest string) bool {
	return s.fs.Exists(ident.BlobPath(account, digest))
}

// Remove deletes the blob for a digest. Callers are expected to have checked
// the reference count first; a missing blob is not an error.
func (s *Store) Remove(account, digest string) error {
	p := ident.BlobPath(account, digest)
	if !s.fs.Exists(p) {
		return nil
	}
	return s.fs.Remove(p)
}
