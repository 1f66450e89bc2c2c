// Package filter implements the per-pixel color transforms applied to captured
// frames. Every transform is pure: it never mutates its input and the same
// (frame, id) pair always yields byte-identical output.
package filter

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"photostrip/internal/frame"
)

// ID names a color transform.
type ID string

const (
	None    ID = "none"
	BW      ID = "bw"
	Sepia   ID = "sepia"
	Vintage ID = "vintage"
	Soft    ID = "soft"
	Noir    ID = "noir"
	Vivid   ID = "vivid"
	Warm    ID = "warm"
	Cool    ID = "cool"
)

var ordered = []ID{None, BW, Sepia, Vintage, Soft, Noir, Vivid, Warm, Cool}

var aliases = map[string]ID{
	"":           None,
	"original":   None,
	"identity":   None,
	"grayscale":  BW,
	"greyscale":  BW,
	"monochrome": BW,
	"warm-shift": Warm,
	"cool-shift": Cool,
}

var displayNames = map[ID]string{
	None: "Original",
	BW:   "B&W",
}

// All returns every supported filter in menu order.
func All() []ID {
	return append([]ID(nil), ordered...)
}

// Parse resolves a user-supplied name to a filter. Unknown names resolve to
// None so that a stale or mistyped id never blocks a capture.
func Parse(value string) ID {
	key := strings.ToLower(strings.TrimSpace(value))
	if id, ok := aliases[key]; ok {
		return id
	}
	for _, id := range ordered {
		if string(id) == key {
			return id
		}
	}
	return None
}

// Known reports whether value names a supported filter or alias.
func Known(value string) bool {
	key := strings.ToLower(strings.TrimSpace(value))
	if _, ok := aliases[key]; ok {
		return true
	}
	for _, id := range ordered {
		if string(id) == key {
			return true
		}
	}
	return false
}

// DisplayName returns the menu label for id.
func DisplayName(id ID) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return cases.Title(language.English).String(string(id))
}

// Apply returns a new frame with the transform for id applied. Alpha is
// preserved. Unrecognized ids behave as None.
func Apply(f frame.Raw, id ID) frame.Raw {
	if f.Empty() {
		return f
	}
	out := f.Clone()
	switch id {
	case BW:
		eachPixel(out.Pix, func(r, g, b float64) (float64, float64, float64) {
			gray := luma(r, g, b)
			return gray, gray, gray
		})
	case Sepia:
		eachPixel(out.Pix, func(r, g, b float64) (float64, float64, float64) {
			return 0.393*r + 0.769*g + 0.189*b,
				0.349*r + 0.686*g + 0.168*b,
				0.272*r + 0.534*g + 0.131*b
		})
	case Vintage:
		eachPixel(out.Pix, func(r, g, b float64) (float64, float64, float64) {
			return 1.2 * r, 1.1 * g, 0.9 * b
		})
	case Noir:
		eachPixel(out.Pix, func(r, g, b float64) (float64, float64, float64) {
			gray := luma(r, g, b) * 0.8
			return gray, gray, gray
		})
	case Vivid:
		eachPixel(out.Pix, func(r, g, b float64) (float64, float64, float64) {
			return 1.3 * r, 1.2 * g, 1.1 * b
		})
	case Warm:
		eachPixel(out.Pix, func(r, g, b float64) (float64, float64, float64) {
			return r + 20, g, b - 10
		})
	case Cool:
		eachPixel(out.Pix, func(r, g, b float64) (float64, float64, float64) {
			return r - 10, g, b + 20
		})
	case Soft:
		out.Pix = soften(out.Pix, out.Width, out.Height)
	}
	return out
}

func luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

func eachPixel(pix []byte, fn func(r, g, b float64) (float64, float64, float64)) {
	for i := 0; i+3 < len(pix); i += 4 {
		r, g, b := fn(float64(pix[i]), float64(pix[i+1]), float64(pix[i+2]))
		pix[i] = clamp(r)
		pix[i+1] = clamp(g)
		pix[i+2] = clamp(b)
	}
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
