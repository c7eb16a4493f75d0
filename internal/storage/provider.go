// Package storage defines the destination tree abstraction.
package storage

import "time"

// FileMeta describes one page of the tree.
type FileMeta struct {
	Path      string // slash separated, relative to the root
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for destination tree operations. All paths are
// relative to the tree root.
type Provider interface {
	// EnsureDir creates dir and its parents, returning how many were created.
	EnsureDir(dir string) (int, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// CopyFrom atomically copies the file at the absolute path src to path.
	CopyFrom(src, path string) error
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// List returns metadata for every page with extension ext under dir.
	List(dir, ext string) ([]FileMeta, error)
	// Clear removes everything under the root, keeping the root itself.
	Clear() error
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)
