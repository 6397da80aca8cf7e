package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrInvalidPath = errors.New("invalid file path")

// FileStorage stores proof photos and other uploads under slash-separated keys.
type FileStorage interface {
	// Upload writes file under key and returns the stored key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	Delete(ctx context.Context, key string) error

	// GetURL returns a URL that grants read access to key for roughly expiry
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, key string) (bool, error)
}
