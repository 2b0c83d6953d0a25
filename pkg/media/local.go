package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStore writes media under a directory served at baseURL
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates a LocalStore rooted at root, e.g. static/users served at /static/users
func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put writes r to root/key, creating parent directories
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.WithMessage(err, "failed to create media folders")
	}
	f, err := os.Create(dst)
	if err != nil {
		return errors.WithMessagef(err, "failed to create %s", key)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return errors.WithMessagef(err, "failed to write %s", key)
	}
	return errors.WithMessagef(f.Close(), "failed to close %s", key)
}

// Delete removes root/key
func (s *LocalStore) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return errors.WithMessagef(err, "failed to delete %s", key)
	}
	return nil
}

// URL returns the public URL of key
func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// BaseURL implements Store
func (s *LocalStore) BaseURL() string {
	return s.baseURL + "/"
}
