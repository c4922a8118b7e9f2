package storage

import (
	"io"
	"time"
)

// StorageProvider defines the behavior for any storage backend.
type StorageProvider interface {
	List(bucket, prefix string) ([]string, error)
	Get(bucket, key string) (*FileObject, error)
	Put(bucket, key string, body io.ReadSeeker, contentType, cacheControl string) error
	Delete(bucket, key string) error
	// PresignPut returns a URL the browser can PUT the object to directly.
	PresignPut(bucket, key, contentType string, contentLength int64, expiry time.Duration) (string, error)
	// PresignGet returns a URL the browser can fetch the object from.
	PresignGet(bucket, key string, expiry time.Duration) (string, error)
}

// FileObject is the provider-agnostic representation of a file.
type FileObject struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	LastModified  time.Time
}
