package frame_test

import (
	"bytes"
	"errors"
	"testing"

	"photostrip/internal/frame"
)

func TestNewRejectsMismatchedBuffer(t *testing.T) {
	if _, err := frame.New(2, 2, make([]byte, 15), false); !errors.Is(err, frame.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := frame.New(0, 2, nil, false); !errors.Is(err, frame.ErrEmpty) {
		t.Fatalf("expected ErrEmpty for zero width, got %v", err)
	}
	if _, err := frame.New(1, 1, []byte{1, 2, 3, 4}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMirrorFlipsRowsOnce(t *testing.T) {
	pix := []byte{
		1, 1, 1, 255, 2, 2, 2, 255, 3, 3, 3, 255,
		4, 4, 4, 255, 5, 5, 5, 255, 6, 6, 6, 255,
	}
	f, err := frame.New(3, 2, pix, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mirrored := f.Mirror()
	if !mirrored.Mirrored {
		t.Fatal("expected mirrored flag")
	}
	want := []byte{
		3, 3, 3, 255, 2, 2, 2, 255, 1, 1, 1, 255,
		6, 6, 6, 255, 5, 5, 5, 255, 4, 4, 4, 255,
	}
	if !bytes.Equal(mirrored.Pix, want) {
		t.Fatalf("unexpected mirrored pixels: %v", mirrored.Pix)
	}
	if !bytes.Equal(f.Pix, pix) {
		t.Fatal("mirror must not mutate the source frame")
	}
	if again := mirrored.Mirror(); !bytes.Equal(again.Pix, want) {
		t.Fatal("mirroring an already mirrored frame should be a no-op")
	}
}

func TestJPEGRoundTripKeepsDimensions(t *testing.T) {
	f := frame.Solid(16, 8, 200, 100, 50, 255)
	blob, err := f.EncodeJPEG()
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	decoded, err := frame.Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != 16 || decoded.Height != 8 {
		t.Fatalf("unexpected dimensions %dx%d", decoded.Width, decoded.Height)
	}
	if decoded.Empty() {
		t.Fatal("decoded frame should not be empty")
	}
}

func TestEncodeEmptyFrame(t *testing.T) {
	if _, err := (frame.Raw{}).EncodeJPEG(); !errors.Is(err, frame.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
