// Package storage keeps cost receipts in an S3-compatible object store.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PutOptions describe an upload. Size is the exact byte count, or -1 when unknown.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Object is what the store reports back after an upload.
type Object struct {
	Key  string
	Size int64
	ETag string
}

// Storage is the subset of object store operations receipts need.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (Object, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ReceiptKey builds a fresh object key for a receipt of the given vehicle.
// The extension of filename is kept, lowercased: receipts/<vehicleID>/<uuid><ext>.
func ReceiptKey(vehicleID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "receipts/" + vehicleID + "/" + uuid.NewString() + ext
}
