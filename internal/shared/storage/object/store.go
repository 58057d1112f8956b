// Package object defines blob storage for uploaded resumes and generated archives.
package object

import (
	"context"
	"errors"
	"io"
	"path"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Object describes a stored blob.
type Object struct {
	Key      string
	Size     int64
	MimeType string
}

// Store saves and retrieves binary objects.
type Store interface {
	// Save writes an upload under the owner's namespace with a random prefix
	// and reports the sniffed content type.
	Save(ctx context.Context, owner string, fileName string, r io.Reader) (Object, error)
	// Put writes r at an exact key.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ArchiveKey is where a generated portfolio archive is kept.
func ArchiveKey(ownerKey, portfolioID, archiveName string) string {
	return path.Join("portfolios", ownerKey, portfolioID, archiveName)
}
