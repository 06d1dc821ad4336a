// Package storage defines the archive file-system abstraction.
package storage

import "io/fs"

// Provider is the interface for archive file operations. All paths are
// slash-separated and relative to the archive root.
type Provider interface {
	// ReadJSON parses the record at path into v.
	ReadJSON(path string, v any) error
	// WriteJSON atomically serializes v to path.
	WriteJSON(path string, v any) error
	// ReadFile returns the raw bytes of the file at path.
	ReadFile(path string) ([]byte, error)
	// WriteFile atomically writes raw content to path.
	WriteFile(path string, content []byte) error
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
	// Remove deletes the file at path.
	Remove(path string) error
	// RemoveAll deletes path and any children. Missing targets are not errors.
	RemoveAll(path string) error
	// ReadDir lists the directory at path. A missing directory yields an
	// empty listing, not an error.
	ReadDir(path string) ([]fs.DirEntry, error)
	// Walk walks the subtree rooted at path. A missing root is a no-op.
	Walk(path string, fn fs.WalkDirFunc) error
}
