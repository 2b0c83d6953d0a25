package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyResizer writes its input untouched so tests don't need ffmpeg
type copyResizer struct {
	calls [][2]int
}

func (r *copyResizer) Resize(_ context.Context, src io.Reader, dst string, w, h int) error {
	r.calls = append(r.calls, [2]int{w, h})
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func TestLocalStore_PutAndURL(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root, "/static/users/")

	err := s.Put(context.Background(), "user_1/videos/abc.mp4", strings.NewReader("video"), 5, "video/mp4")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "user_1", "videos", "abc.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "video", string(data))
	assert.Equal(t, "/static/users/user_1/videos/abc.mp4", s.URL("user_1/videos/abc.mp4"))
	assert.Equal(t, "", s.URL(""))
	assert.Equal(t, "/static/users/", s.BaseURL())
}

func TestLocalStore_Delete(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root, "/static/users")
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "user_1/videos/abc.mp4", strings.NewReader("video"), 5, "video/mp4"))

	require.NoError(t, s.Delete(ctx, "user_1/videos/abc.mp4"))
	_, err := os.Stat(filepath.Join(root, "user_1", "videos", "abc.mp4"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, "user_1/videos/abc.mp4"), "already gone")
	assert.ErrorIs(t, s.Delete(ctx, "../outside"), ErrInvalidKey)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	s := NewLocalStore(t.TempDir(), "/static")
	for _, key := range []string{"", "/etc/passwd", "../x", "a/../../x"} {
		err := s.Put(context.Background(), key, strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestProcessor_SaveImageResizesThenStores(t *testing.T) {
	root := t.TempDir()
	resizer := &copyResizer{}
	p := NewProcessor(NewLocalStore(root, "/static/users"), resizer, t.TempDir())

	err := p.SaveImage(context.Background(), "user_1/imgs/abc.webp", bytes.NewReader([]byte("img")), CoverWidth, CoverHeight)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{640, 360}}, resizer.calls)
	data, err := os.ReadFile(filepath.Join(root, "user_1", "imgs", "abc.webp"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
	assert.Equal(t, "/static/users/user_1/imgs/abc.webp", p.URL("user_1/imgs/abc.webp"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "video/mp4", contentType("a/b.mp4"))
	assert.Equal(t, "application/octet-stream", contentType("a/b.unknownext"))
}

func TestFFmpegResizer_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := FFmpegResizer{}.Resize(ctx, strings.NewReader("img"), filepath.Join(t.TempDir(), "out.jpg"), 10, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFFmpegResizer_StopsOnDeadline(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	// the pipe is never written, so ffmpeg waits on stdin until killed
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- FFmpegResizer{}.Resize(ctx, pr, filepath.Join(t.TempDir(), "out.jpg"), 10, 10)
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(10 * time.Second):
		t.Fatal("resize did not stop after the deadline")
	}
}
