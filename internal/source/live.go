package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"photostrip/internal/config"
	"photostrip/internal/deps"
	"photostrip/internal/failures"
	"photostrip/internal/frame"
	"photostrip/internal/logging"
)

var commandContext = exec.CommandContext

// LiveStream grabs single frames from a V4L2 camera through ffmpeg. Each grab
// is a short ffmpeg invocation producing one raw RGBA frame on stdout, so no
// stream state survives between photos.
type LiveStream struct {
	Device string
	Width  int
	Height int
	FFmpeg string

	logger *slog.Logger

	mu     sync.Mutex
	opened bool
	binary string
}

// NewLiveStream builds a live source from capture configuration.
func NewLiveStream(cfg config.Capture, logger *slog.Logger) *LiveStream {
	return &LiveStream{
		Device: strings.TrimSpace(cfg.Device),
		Width:  cfg.Width,
		Height: cfg.Height,
		FFmpeg: strings.TrimSpace(cfg.FFmpegBinary),
		logger: logging.NewComponentLogger(logger, "live-stream"),
	}
}

// Open checks that the device is readable and ffmpeg is installed.
func (s *LiveStream) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Device == "" {
		return failures.Wrap(failures.ErrSourceUnavailable, "source", "open", "capture.device is not configured", nil)
	}
	if err := unix.Access(s.Device, unix.R_OK); err != nil {
		return failures.Wrap(failures.ErrSourceUnavailable, "source", "open",
			fmt.Sprintf("camera %s is not readable", s.Device), err)
	}
	ffmpeg := deps.ResolveFFmpeg(s.FFmpeg)
	if !ffmpeg.Available {
		return failures.Wrap(failures.ErrSourceUnavailable, "source", "open", ffmpeg.Detail, nil)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return failures.Wrap(failures.ErrSourceUnavailable, "source", "open",
			fmt.Sprintf("invalid capture size %dx%d", s.Width, s.Height), nil)
	}
	s.binary = ffmpeg.Command
	s.opened = true
	s.logger.Info("camera opened",
		logging.String(logging.FieldEventType, "camera_opened"),
		logging.String("device", s.Device),
		logging.String("size", fmt.Sprintf("%dx%d", s.Width, s.Height)),
	)
	return nil
}

// Close releases the source. Grabs after Close report ErrUnavailable.
func (s *LiveStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	return nil
}

// GrabFrame captures one frame. Any ffmpeg failure or short read is reported
// as ErrUnavailable so the sequencer can retry.
func (s *LiveStream) GrabFrame(ctx context.Context) (frame.Raw, error) {
	s.mu.Lock()
	opened, binary := s.opened, s.binary
	s.mu.Unlock()
	if !opened {
		return frame.Raw{}, fmt.Errorf("%w: stream not open", ErrUnavailable)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "v4l2",
		"-video_size", strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height),
		"-i", s.Device,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	}
	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return frame.Raw{}, ctxErr
		}
		return frame.Raw{}, fmt.Errorf("%w: ffmpeg: %v: %s", ErrUnavailable, err, strings.TrimSpace(stderr.String()))
	}
	f, err := frame.New(s.Width, s.Height, stdout.Bytes(), false)
	if err != nil {
		return frame.Raw{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return f, nil
}
