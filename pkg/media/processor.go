package media

import (
	"context"
	"io"
	"mime"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Fixed output sizes of the images the site displays
const (
	CoverWidth   = 640
	CoverHeight  = 360
	AvatarWidth  = 128
	AvatarHeight = 128
)

// Processor resizes images and stores every media object
type Processor struct {
	store   Store
	resizer Resizer
	tmpDir  string
}

// NewProcessor creates a Processor; tmpDir "" uses the OS default
func NewProcessor(store Store, resizer Resizer, tmpDir string) *Processor {
	return &Processor{store: store, resizer: resizer, tmpDir: tmpDir}
}

// SaveFile stores r unchanged under key
func (p *Processor) SaveFile(ctx context.Context, key string, r io.Reader, size int64) error {
	return p.store.Put(ctx, key, r, size, contentType(key))
}

// SaveImage resizes src to width x height in the format implied by key's
// extension and stores the result under key.
func (p *Processor) SaveImage(ctx context.Context, key string, src io.Reader, width, height int) error {
	tmp, err := os.CreateTemp(p.tmpDir, "nanotube-*"+path.Ext(key))
	if err != nil {
		return errors.WithMessage(err, "failed to create temp image")
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	if err := p.resizer.Resize(ctx, src, tmpName, width, height); err != nil {
		return err
	}

	f, err := os.Open(tmpName)
	if err != nil {
		return errors.WithMessage(err, "failed to open resized image")
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return errors.WithMessage(err, "failed to stat resized image")
	}
	return p.store.Put(ctx, key, f, info.Size(), contentType(key))
}

// Delete removes a stored object
func (p *Processor) Delete(ctx context.Context, key string) error {
	return p.store.Delete(ctx, key)
}

// URL returns the public URL of key
func (p *Processor) URL(key string) string {
	return p.store.URL(key)
}

// BaseURL returns the common prefix of every media URL
func (p *Processor) BaseURL() string {
	return p.store.BaseURL()
}

var knownTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".webp": "image/webp",
	".jpg":  "image/jpeg",
	".png":  "image/png",
}

func contentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ct, ok := knownTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
