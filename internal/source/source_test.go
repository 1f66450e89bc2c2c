package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"photostrip/internal/failures"
	"photostrip/internal/frame"
	"photostrip/internal/logging"
	"photostrip/internal/source"
	"photostrip/internal/testsupport"
)

func TestStaticImageSetRejectsCountMismatch(t *testing.T) {
	frames := testsupport.SolidFrames(3, 4, 4)
	if _, err := source.NewStaticImageSet(frames, 4); !errors.Is(err, failures.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := source.NewStaticImageSet(frames, 2); !errors.Is(err, failures.ErrValidation) {
		t.Fatalf("expected validation error for surplus images, got %v", err)
	}
}

func TestStaticImageSetReplaysInOrder(t *testing.T) {
	frames := testsupport.SolidFrames(2, 4, 4)
	set, err := source.NewStaticImageSet(frames, 2)
	if err != nil {
		t.Fatalf("NewStaticImageSet: %v", err)
	}
	ctx := context.Background()
	for i := range frames {
		got, err := set.GrabFrame(ctx)
		if err != nil {
			t.Fatalf("grab %d: %v", i, err)
		}
		if got.Pix[0] != frames[i].Pix[0] {
			t.Fatalf("grab %d returned wrong frame", i)
		}
		if !got.Mirrored {
			t.Fatalf("static frames should be marked as display-oriented")
		}
	}
	if _, err := set.GrabFrame(ctx); !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after exhaustion, got %v", err)
	}
}

func TestLoadStaticImageSetDecodesFiles(t *testing.T) {
	dir := t.TempDir()
	paths := testsupport.WriteImages(t, dir, testsupport.SolidFrames(2, 5, 3))
	set, err := source.LoadStaticImageSet(paths, 2)
	if err != nil {
		t.Fatalf("LoadStaticImageSet: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", set.Len())
	}
	f, err := set.GrabFrame(context.Background())
	if err != nil {
		t.Fatalf("GrabFrame: %v", err)
	}
	if f.Width != 5 || f.Height != 3 {
		t.Fatalf("unexpected dimensions %dx%d", f.Width, f.Height)
	}

	_, err = source.LoadStaticImageSet([]string{filepath.Join(dir, "missing.png")}, 1)
	if !errors.Is(err, failures.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable for missing file, got %v", err)
	}
}

func TestLiveStreamGrabsFrameViaFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCameraDevice(), testsupport.WithStubbedBinaries())
	stream := source.NewLiveStream(cfg.Capture, logging.NewNop())
	if err := stream.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer stream.Close()

	f, err := stream.GrabFrame(context.Background())
	if err != nil {
		t.Fatalf("GrabFrame: %v", err)
	}
	if f.Width != cfg.Capture.Width || f.Height != cfg.Capture.Height {
		t.Fatalf("unexpected dimensions %dx%d", f.Width, f.Height)
	}
	if f.Mirrored {
		t.Fatal("live frames arrive unmirrored")
	}
	if f.Pix[0] != 0x80 {
		t.Fatalf("unexpected pixel value %#x", f.Pix[0])
	}
}

func TestLiveStreamOpenFailsWithoutDevice(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	stream := source.NewLiveStream(cfg.Capture, nil)
	if err := stream.Open(context.Background()); !errors.Is(err, failures.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestLiveStreamOpenFailsWithoutFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCameraDevice())
	cfg.Capture.FFmpegBinary = "photostrip-missing-ffmpeg"
	stream := source.NewLiveStream(cfg.Capture, nil)
	if err := stream.Open(context.Background()); !errors.Is(err, failures.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestLiveStreamOpenRejectsNonExecutableFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCameraDevice())
	binary := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(binary, []byte("not a program"), 0o644); err != nil {
		t.Fatalf("write ffmpeg: %v", err)
	}
	cfg.Capture.FFmpegBinary = binary
	stream := source.NewLiveStream(cfg.Capture, nil)
	err := stream.Open(context.Background())
	if !errors.Is(err, failures.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "not executable") {
		t.Fatalf("expected the resolver detail, got %v", err)
	}
}

func TestLiveStreamFailedGrabIsUnavailable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCameraDevice(), testsupport.WithFailingFFmpeg())
	stream := source.NewLiveStream(cfg.Capture, nil)
	if err := stream.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := stream.GrabFrame(context.Background()); !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGrabBeforeOpenIsUnavailable(t *testing.T) {
	stream := &source.LiveStream{Device: "/dev/null", Width: 1, Height: 1}
	if _, err := stream.GrabFrame(context.Background()); !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFuncAdapter(t *testing.T) {
	want := frame.Solid(1, 1, 1, 2, 3, 4)
	src := source.Func(func(context.Context) (frame.Raw, error) { return want, nil })
	got, err := src.GrabFrame(context.Background())
	if err != nil || got.Pix[2] != 3 {
		t.Fatalf("unexpected result %v %v", got, err)
	}
}

func TestWaitForDeviceReturnsWhenPresent(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCameraDevice())
	if err := source.WaitForDevice(context.Background(), cfg.Capture.Device, 0, nil); err != nil {
		t.Fatalf("expected present device to return immediately: %v", err)
	}
}

func TestWaitForDeviceTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video9")
	start := time.Now()
	err := source.WaitForDevice(context.Background(), path, 300*time.Millisecond, logging.NewNop())
	if !errors.Is(err, failures.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable after timeout, got %v", err)
	}
	if time.Since(start) < 250*time.Millisecond {
		t.Fatal("expected WaitForDevice to wait for the timeout")
	}
}
