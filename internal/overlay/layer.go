// Package overlay owns the decorative overlay state of a strip: a declarative
// scatter of random glyphs and an imperative list of user-placed glyphs.
// All positions are percentages of the composite bounding box. State is
// ephemeral and is discarded with Reset when a session is retaken.
package overlay

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"photostrip/internal/failures"
)

// Mode is the active overlay editing mode.
type Mode string

const (
	ModeScatter    Mode = "scatter"
	ModeCharacters Mode = "characters"
)

const (
	MinDensity = 5
	MaxDensity = 80

	scatterBandMin  = 5.0
	scatterBandMax  = 95.0
	maxRotation     = 20.0
	scatterSizeMin  = 4.0
	scatterSizeMax  = 9.0
	placedGlyphSize = 12.0
)

// ScatterSpec declares a random scatter.
type ScatterSpec struct {
	Set     []string `json:"set"`
	Density int      `json:"density"`
	Enabled bool     `json:"enabled"`
}

// ScatterGlyph is one generated scatter entry.
type ScatterGlyph struct {
	Glyph    string  `json:"glyph"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Size     float64 `json:"size"`
}

// PlacedGlyph is a user-positioned glyph.
type PlacedGlyph struct {
	ID    string  `json:"id"`
	Glyph string  `json:"glyph"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

// Snapshot is an immutable copy of the layer state handed to the compositor.
type Snapshot struct {
	Mode    Mode           `json:"mode"`
	Scatter ScatterSpec    `json:"scatter"`
	Entries []ScatterGlyph `json:"entries"`
	Placed  []PlacedGlyph  `json:"placed"`
}

// Layer holds the overlay state.
type Layer struct {
	mu      sync.Mutex
	rng     *rand.Rand
	mode    Mode
	scatter ScatterSpec
	entries []ScatterGlyph
	placed  []PlacedGlyph
}

// NewLayer creates an empty layer. A zero seed draws a time-based seed.
func NewLayer(seed int64) *Layer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Layer{
		rng:  rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		mode: ModeScatter,
	}
}

// SetMode switches the editing mode. Both collections are kept.
func (l *Layer) SetMode(mode Mode) error {
	if mode != ModeScatter && mode != ModeCharacters {
		return failures.Wrap(failures.ErrValidation, "overlay", "set mode", fmt.Sprintf("unknown mode %q", mode), nil)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mode = mode
	return nil
}

// SetScatter replaces the scatter spec and regenerates the entries. A
// disabled spec or an empty set yields no entries.
func (l *Layer) SetScatter(set []string, density int, enabled bool) []ScatterGlyph {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.scatter = ScatterSpec{Set: append([]string(nil), set...), Density: density, Enabled: enabled}
	l.entries = nil
	if !enabled || len(set) == 0 {
		return nil
	}
	count := ClampDensity(density)
	entries := make([]ScatterGlyph, count)
	for i := range entries {
		entries[i] = ScatterGlyph{
			Glyph:    set[i%len(set)],
			X:        l.uniform(scatterBandMin, scatterBandMax),
			Y:        l.uniform(scatterBandMin, scatterBandMax),
			Rotation: l.uniform(-maxRotation, maxRotation),
			Size:     l.uniform(scatterSizeMin, scatterSizeMax),
		}
	}
	l.entries = entries
	return append([]ScatterGlyph(nil), entries...)
}

// PlaceGlyph appends a glyph at the given percentage position.
func (l *Layer) PlaceGlyph(glyph string, x, y float64) (PlacedGlyph, error) {
	if glyph == "" {
		return PlacedGlyph{}, failures.Wrap(failures.ErrValidation, "overlay", "place", "glyph is required", nil)
	}
	if err := validatePosition(x, y); err != nil {
		return PlacedGlyph{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	placed := PlacedGlyph{ID: uuid.NewString(), Glyph: glyph, X: x, Y: y, Size: placedGlyphSize}
	l.placed = append(l.placed, placed)
	return placed, nil
}

// MoveGlyph repositions a placed glyph.
func (l *Layer) MoveGlyph(id string, x, y float64) error {
	if err := validatePosition(x, y); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.placed {
		if l.placed[i].ID == id {
			l.placed[i].X = x
			l.placed[i].Y = y
			return nil
		}
	}
	return notFound("move", id)
}

// RemoveGlyph deletes a placed glyph.
func (l *Layer) RemoveGlyph(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.placed {
		if l.placed[i].ID == id {
			l.placed = append(l.placed[:i], l.placed[i+1:]...)
			return nil
		}
	}
	return notFound("remove", id)
}

// Snapshot copies the current state.
func (l *Layer) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Mode: l.mode,
		Scatter: ScatterSpec{
			Set:     append([]string(nil), l.scatter.Set...),
			Density: l.scatter.Density,
			Enabled: l.scatter.Enabled,
		},
		Entries: append([]ScatterGlyph(nil), l.entries...),
		Placed:  append([]PlacedGlyph(nil), l.placed...),
	}
}

// Reset discards all overlay state.
func (l *Layer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mode = ModeScatter
	l.scatter = ScatterSpec{}
	l.entries = nil
	l.placed = nil
}

// ClampDensity bounds a density to the supported entry count.
func ClampDensity(density int) int {
	return min(max(density, MinDensity), MaxDensity)
}

func (l *Layer) uniform(lo, hi float64) float64 {
	return lo + l.rng.Float64()*(hi-lo)
}

func validatePosition(x, y float64) error {
	if !inPercentRange(x) || !inPercentRange(y) {
		return failures.Wrap(failures.ErrValidation, "overlay", "position",
			fmt.Sprintf("position (%.1f, %.1f) outside 0-100%%", x, y), nil)
	}
	return nil
}

// inPercentRange is false for NaN, which fails every comparison.
func inPercentRange(v float64) bool {
	return v >= 0 && v <= 100
}

func notFound(op, id string) error {
	return failures.Wrap(failures.ErrNotFound, "overlay", op, fmt.Sprintf("placed glyph %q", id), nil)
}
