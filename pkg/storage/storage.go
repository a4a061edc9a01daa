package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Store keeps the original uploaded audio when retention is enabled.
// Save returns a stable reference (URL or path) persisted on the
// transcription record.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Read(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
}

// NewStore builds the backend selected by STORAGE_BACKEND. Each backend
// reads its own credentials from the environment.
func NewStore(backend string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", "local":
		return NewLocalStore(), nil
	case "minio":
		return NewMinioStore(), nil
	case "cos":
		return NewCOSStore()
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
