// Package storage reads workflow exports from blob storage.
package storage

import (
	"context"
	"path"
	"strings"
	"time"
)

// Blob describes one object in the container.
type Blob struct {
	Name         string
	Size         int64
	LastModified *time.Time
}

// IsXML reports whether the blob name has an .xml extension, ignoring case.
func (b Blob) IsXML() bool {
	return strings.EqualFold(path.Ext(b.Name), ".xml")
}

// BlobStore lists and reads the objects holding workflow exports.
type BlobStore interface {
	// Container returns the name of the container being read.
	Container() string
	// List returns every blob in the container in service order.
	List(ctx context.Context) ([]Blob, error)
	// Download returns the full content of the named blob.
	Download(ctx context.Context, name string) ([]byte, error)
}

// FilterXML returns the XML blobs in blobs, keeping order.
func FilterXML(blobs []Blob) []Blob {
	var out []Blob
	for _, b := range blobs {
		if b.IsXML() {
			out = append(out, b)
		}
	}
	return out
}
