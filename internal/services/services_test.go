package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/anonto42/nano-tube/backend/internal/models"
	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeMedia keeps every stored object in memory
type fakeMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
	sizes   map[string][2]int
	err     error
	// imageErr fails SaveImage only, after SaveFile calls succeeded
	imageErr error
	deleted  []string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: map[string][]byte{}, sizes: map[string][2]int{}}
}

func (m *fakeMedia) SaveFile(_ context.Context, key string, r io.Reader, _ int64) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *fakeMedia) SaveImage(ctx context.Context, key string, src io.Reader, width, height int) error {
	if m.imageErr != nil {
		return m.imageErr
	}
	if err := m.SaveFile(ctx, key, src, -1); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes[key] = [2]int{width, height}
	return nil
}

func (m *fakeMedia) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.sizes, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *fakeMedia) URL(key string) string {
	return m.BaseURL() + key
}

func (m *fakeMedia) BaseURL() string {
	return "/static/users/"
}

type fixture struct {
	store *repositories.Store
	media *fakeMedia
	svc   *Services
	hook  *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := repositories.OpenStore(t.TempDir())
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := newFakeMedia()
	return &fixture{store: store, media: m, svc: New(store, m, logger), hook: hook}
}

// register creates an account with its channel
func (f *fixture) register(t *testing.T, email string) (*models.User, *models.Channel) {
	t.Helper()
	u, ch, err := f.svc.Accounts.Register(context.Background(), RegisterInput{Email: email, Password: "secret123"})
	require.NoError(t, err)
	return u, ch
}

// upload publishes a video owned by userID
func (f *fixture) upload(t *testing.T, userID uint, title string) *models.Video {
	t.Helper()
	v, err := f.svc.Videos.Upload(context.Background(), userID, UploadInput{
		Title:     title,
		Video:     bytes.NewReader([]byte("mp4")),
		VideoSize: 3,
		Cover:     strings.NewReader("png"),
	})
	require.NoError(t, err)
	return v
}
