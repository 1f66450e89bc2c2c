// Package frame defines the raw pixel buffer that flows from a frame source
// through filtering into a capture session.
package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
)

// BlobQuality is the JPEG quality used when frames are handed to persistence.
const BlobQuality = 90

// ErrEmpty reports a zero-sized or truncated pixel buffer.
var ErrEmpty = errors.New("frame: empty pixel buffer")

// Raw is a fixed-dimension RGBA pixel buffer. Pix holds Width*Height*4 bytes
// in row-major order. Mirrored records whether the selfie flip has been
// applied. A Raw is treated as immutable once produced: every transform
// returns a new buffer.
type Raw struct {
	Width    int
	Height   int
	Pix      []byte
	Mirrored bool
}

// New validates the dimensions and wraps pix without copying.
func New(width, height int, pix []byte, mirrored bool) (Raw, error) {
	if width <= 0 || height <= 0 {
		return Raw{}, fmt.Errorf("%w: %dx%d", ErrEmpty, width, height)
	}
	if len(pix) != width*height*4 {
		return Raw{}, fmt.Errorf("%w: got %d bytes for %dx%d", ErrEmpty, len(pix), width, height)
	}
	return Raw{Width: width, Height: height, Pix: pix, Mirrored: mirrored}, nil
}

// Solid returns a frame filled with one color. Useful for placeholders and tests.
func Solid(width, height int, r, g, b, a uint8) Raw {
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return Raw{Width: width, Height: height, Pix: pix}
}

// Empty reports whether the frame carries no usable pixels.
func (f Raw) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || len(f.Pix) < f.Width*f.Height*4
}

// Clone returns a deep copy.
func (f Raw) Clone() Raw {
	out := f
	out.Pix = append([]byte(nil), f.Pix...)
	return out
}

// Mirror returns the horizontally flipped frame with Mirrored set. A frame
// that is already mirrored is returned unchanged so the flip happens once.
func (f Raw) Mirror() Raw {
	if f.Mirrored || f.Empty() {
		return f
	}
	out := Raw{Width: f.Width, Height: f.Height, Pix: make([]byte, len(f.Pix)), Mirrored: true}
	stride := f.Width * 4
	for y := 0; y < f.Height; y++ {
		row := y * stride
		for x := 0; x < f.Width; x++ {
			src := row + x*4
			dst := row + (f.Width-1-x)*4
			copy(out.Pix[dst:dst+4], f.Pix[src:src+4])
		}
	}
	return out
}

// Image exposes the frame as an *image.RGBA sharing no memory with f.
func (f Raw) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	copy(img.Pix, f.Pix)
	return img
}

// FromImage converts any decoded image into a Raw frame.
func FromImage(img image.Image) (Raw, error) {
	if img == nil {
		return Raw{}, ErrEmpty
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return Raw{}, ErrEmpty
	}
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return Raw{Width: bounds.Dx(), Height: bounds.Dy(), Pix: rgba.Pix}, nil
}

// EncodeJPEG encodes the frame as the persistence blob format.
func (f Raw) EncodeJPEG() ([]byte, error) {
	if f.Empty() {
		return nil, ErrEmpty
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.Image(), &jpeg.Options{Quality: BlobQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNG encodes the frame losslessly.
func (f Raw) EncodePNG() ([]byte, error) {
	if f.Empty() {
		return nil, ErrEmpty
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads a JPEG or PNG blob back into a frame. The mirror flag is not
// recoverable from the blob; stored frames are always post-mirror.
func Decode(data []byte) (Raw, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Raw{}, fmt.Errorf("decode frame: %w", err)
	}
	f, err := FromImage(img)
	if err != nil {
		return Raw{}, err
	}
	f.Mirrored = true
	return f, nil
}
