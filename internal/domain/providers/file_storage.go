package providers

import (
	"context"
	"io"
)

// FileStorage stores uploaded binary objects
type FileStorage interface {
	// Put stores body under key and returns its public URL
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}
