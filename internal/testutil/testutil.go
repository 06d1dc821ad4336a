// Package testutil provides shared test helpers for setting up archive roots.
package testutil

import (
	"testing"

	"github.com/starford/fehu/internal/storage"
)

// TestArchive creates a temporary archive directory with a storage.Provider.
func TestArchive(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}
