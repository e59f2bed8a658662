// Package blob stores resident ID-document images and hands out public URLs.
package blob

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Driver identifies a concrete blob storage backend.
type Driver string

const (
	// DriverS3 is an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps objects in process; used in tests and local runs.
	DriverMemory Driver = "memory"
)

// ErrForeignURL is returned when a URL was not issued by the store.
var ErrForeignURL = errors.New("blob: url does not belong to this store")

// Store uploads objects and deletes them again by their public URL.
type Store interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (publicURL string, err error)
	DeleteByURL(ctx context.Context, publicURL string) error
	Driver() Driver
}

// keyFromURL strips base (and one slash) from publicURL.
func keyFromURL(base, publicURL string) (string, error) {
	base = strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(publicURL, base) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(publicURL, base)
	if key == "" {
		return "", ErrForeignURL
	}
	return key, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
