package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/util"
)

type LocalStore struct {
	Root string
}

func NewLocalStore() *LocalStore {
	return &LocalStore{Root: util.GetEnvDefault("STORAGE_LOCAL_ROOT", "audio")}
}

func (l *LocalStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	path := filepath.Join(l.Root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (l *LocalStore) Read(_ context.Context, key string) (io.ReadCloser, int64, error) {
	path := filepath.Join(l.Root, key)
	st, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	return f, st.Size(), nil
}

func (l *LocalStore) Delete(_ context.Context, key string) error {
	return os.Remove(filepath.Join(l.Root, key))
}
