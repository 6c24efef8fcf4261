package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrObjectNotFound = errors.New("stored object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// Object is an opened stored file. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Open(ctx context.Context, key string) (*Object, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
