// Package storage defines the file-system abstraction for drafts and
// the atomic file helpers used for every write.
package storage

import "github.com/starford/linkblog/internal/models"

// Provider is the interface for drafts directory operations.
type Provider interface {
	// List returns metadata for every Markdown file directly under dir (relative to root).
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Abs resolves path (relative to root) to an absolute path.
	Abs(path string) (string, error)
}
