// Package media stores uploaded videos and images and resizes images to the
// fixed sizes the site displays.
package media

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Store persists media objects under slash-separated keys
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key; a missing key is not an error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	// BaseURL is the prefix URL(key) puts in front of every key, with a trailing slash
	BaseURL() string
}

// ErrInvalidKey is returned for keys that would escape the store root
var ErrInvalidKey = errors.New("invalid media key")

func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
