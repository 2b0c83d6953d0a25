package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Resizer scales an image read from src into dst. The output format follows
// dst's extension.
type Resizer interface {
	Resize(ctx context.Context, src io.Reader, dst string, width, height int) error
}

const waitDelay = 2 * time.Second

// FFmpegResizer resizes through the ffmpeg binary found on PATH
type FFmpegResizer struct{}

// Resize pipes src into ffmpeg and writes a single scaled frame to dst.
// Cancelling ctx kills the ffmpeg process.
func (FFmpegResizer) Resize(ctx context.Context, src io.Reader, dst string, width, height int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	compiled := ffmpeg.Input("pipe:0").
		Output(dst, ffmpeg.KwArgs{
			"vf":      fmt.Sprintf("scale=%d:%d", width, height),
			"vframes": "1",
		}).
		OverWriteOutput().
		Compile()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, compiled.Path, compiled.Args[1:]...)
	cmd.Stdin = src
	cmd.Stderr = &stderr
	// stdin copying may block on src after the kill
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.WithMessage(ctxErr, "image resize aborted")
		}
		return errors.WithMessagef(err, "failed to resize image: %s", lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
