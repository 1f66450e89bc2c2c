package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"photostrip/internal/frame"
)

// SolidFrames returns n frames of the given size with distinct gray levels.
func SolidFrames(n, width, height int) []frame.Raw {
	out := make([]frame.Raw, n)
	for i := range out {
		level := uint8(40 + (i*37)%200)
		out[i] = frame.Solid(width, height, level, level/2, 255-level, 255)
	}
	return out
}

// WriteImages encodes frames as PNG files under dir and returns their paths.
func WriteImages(t testing.TB, dir string, frames []frame.Raw) []string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	paths := make([]string, 0, len(frames))
	for i, f := range frames {
		data, err := f.EncodePNG()
		if err != nil {
			t.Fatalf("encode frame %d: %v", i, err)
		}
		path := filepath.Join(dir, "photo_"+strconv.Itoa(i+1)+".png")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		paths = append(paths, path)
	}
	return paths
}
