package document

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/blob"
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/storage"
)

// Registry stores and retrieves document metadata records and coordinates
// blob writes and reference-counted blob deletion.
type Registry struct {
	fs    storage.Provider
	blobs *blob.Store
}

// NewRegistry creates a Registry over the given provider and blob store.
func NewRegistry(fsp storage.Provider, blobs *blob.Store) *Registry {
	return &Registry{fs: fsp, blobs: blobs}
}

// stamp records the scope level in the metadata map and sets the owner tag.
func stamp(sc Scope, m *models.DocumentMeta) {
	sc.Stamp(m)
	if m.Metadata == nil {
		m.Metadata = map[string]any{}
	}
	if _, ok := m.Metadata["level"]; !ok {
		m.Metadata["level"] = sc.Level()
	}
}

// Create stores a new metadata record under a fresh identifier. When content
// is provided it is written to the blob store first and the record references
// its digest. The owning record must exist.
func (r *Registry) Create(sc Scope, meta models.DocumentMeta, content []byte) (string, models.DocumentMeta, error) {
	if !r.fs.Exists(sc.OwnerFile()) {
		return "", models.DocumentMeta{}, fmt.Errorf("%w: %s owner record", apperr.ErrNotFound, strings.ToLower(sc.Level()))
	}
	stamp(sc, &meta)
	if len(content) > 0 {
		digest, rel, err := r.blobs.Write(sc.Account(), content)
		if err != nil {
			return "", models.DocumentMeta{}, err
		}
		meta.Digest = digest
		meta.BlobPath = rel
	}
	id := ident.NewID()
	if err := r.fs.WriteJSON(ident.DocFile(sc.WriteDir(), id), meta); err != nil {
		return "", models.DocumentMeta{}, err
	}
	return id, meta, nil
}

// lookup finds a document in the scope's read directories, returning the
// metadata and the directory it was found in. A record found in the shared
// directory but tagged for a different owner is reported missing.
func (r *Registry) lookup(sc Scope, doc string) (models.DocumentMeta, string, error) {
	for _, dir := range sc.ReadDirs() {
		f := ident.DocFile(dir, doc)
		if !r.fs.Exists(f) {
			continue
		}
		var meta models.DocumentMeta
		if err := r.fs.ReadJSON(f, &meta); err != nil {
			return models.DocumentMeta{}, "", err
		}
		if !sc.Owns(meta, dir) {
			return models.DocumentMeta{}, "", fmt.Errorf("%w: document %q is not associated with this %s",
				apperr.ErrNotFound, doc, strings.ToLower(sc.Level()))
		}
		return meta, dir, nil
	}
	return models.DocumentMeta{}, "", fmt.Errorf("%w: document %q", apperr.ErrNotFound, doc)
}

// Get returns the metadata record for a document.
func (r *Registry) Get(sc Scope, doc string) (models.DocumentMeta, error) {
	meta, _, err := r.lookup(sc, doc)
	return meta, err
}

// List returns the sorted identifiers of every document in the scope.
func (r *Registry) List(sc Scope) ([]string, error) {
	seen := map[string]bool{}
	for _, dir := range sc.ReadDirs() {
		entries, err := r.fs.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			id := strings.TrimSuffix(e.Name(), ".json")
			var meta models.DocumentMeta
			if err := r.fs.ReadJSON(ident.DocFile(dir, id), &meta); err != nil {
				continue
			}
			if sc.Owns(meta, dir) {
				seen[id] = true
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Update replaces a document's metadata. The previous blob reference is
// carried over unless new content is provided. Regardless of where the record
// was found, the updated record is written to the current shared layout; a
// legacy copy is removed.
func (r *Registry) Update(sc Scope, doc string, meta models.DocumentMeta, content []byte) (models.DocumentMeta, error) {
	old, foundDir, err := r.lookup(sc, doc)
	if err != nil {
		return models.DocumentMeta{}, err
	}
	stamp(sc, &meta)
	if meta.Digest == "" && old.Digest != "" {
		meta.Digest = old.Digest
		meta.BlobPath = old.BlobPath
	}
	if len(content) > 0 {
		digest, rel, werr := r.blobs.Write(sc.Account(), content)
		if werr != nil {
			return models.DocumentMeta{}, werr
		}
		meta.Digest = digest
		meta.BlobPath = rel
	}
	if err := r.fs.WriteJSON(ident.DocFile(sc.WriteDir(), doc), meta); err != nil {
		return models.DocumentMeta{}, err
	}
	if foundDir != sc.WriteDir() {
		if err := r.fs.Remove(ident.DocFile(foundDir, doc)); err != nil {
			return models.DocumentMeta{}, err
		}
	}
	return meta, nil
}

// Delete removes a document's metadata record. With deleteBlob set, the
// referenced blob is physically removed once no metadata record anywhere in
// the account still references its digest.
func (r *Registry) Delete(sc Scope, doc string, deleteBlob bool) error {
	meta, dir, err := r.lookup(sc, doc)
	if err != nil {
		return err
	}
	if err := r.fs.Remove(ident.DocFile(dir, doc)); err != nil {
		return err
	}
	if deleteBlob && meta.Digest != "" && r.CountReferences(sc.Account(), meta.Digest) == 0 {
		return r.blobs.Remove(sc.Account(), meta.Digest)
	}
	return nil
}

// Open returns a document's metadata together with its blob content.
func (r *Registry) Open(sc Scope, doc string) (models.DocumentMeta, []byte, error) {
	meta, _, err := r.lookup(sc, doc)
	if err != nil {
		return models.DocumentMeta{}, nil, err
	}
	if meta.BlobPath == "" {
		return models.DocumentMeta{}, nil, fmt.Errorf("%w: document %q has no blob", apperr.ErrNotFound, doc)
	}
	content, err := r.fs.ReadFile(path.Join(ident.AccountDir(sc.Account()), meta.BlobPath))
	if err != nil {
		return models.DocumentMeta{}, nil, err
	}
	return meta, content, nil
}

// CountReferences scans every document metadata record under the account and
// counts those referencing the digest. The scan is O(metadata records) and is
// not serialized against concurrent writes, so a count taken during an active
// upload may be stale by one.
func (r *Registry) CountReferences(account, digest string) int {
	n := 0
	_ = r.fs.Walk(ident.AccountDir(account), func(rel string, d fs.DirEntry, _ error) error {
		if d.IsDir() || !strings.HasSuffix(rel, ".json") || path.Base(path.Dir(rel)) != "documents" {
			return nil
		}
		var meta models.DocumentMeta
		if err := r.fs.ReadJSON(rel, &meta); err != nil {
			return nil
		}
		if meta.Digest == digest {
			n++
		}
		return nil
	})
	return n
}
