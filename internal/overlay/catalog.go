package overlay

import (
	"sort"
	"strings"
)

// Shape selects the vector drawing used for a glyph. Color emoji cannot be
// rasterized with the bundled fonts, so each glyph carries a drawable shape.
type Shape string

const (
	ShapeHeart   Shape = "heart"
	ShapeStar    Shape = "star"
	ShapeSparkle Shape = "sparkle"
	ShapeCircle  Shape = "circle"
	ShapeDiamond Shape = "diamond"
	ShapeFlower  Shape = "flower"
	ShapeMoon    Shape = "moon"
	ShapeArc     Shape = "arc"
	ShapeSquare  Shape = "square"
)

// Glyph is one decorative element from the catalog.
type Glyph struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Shape Shape  `json:"shape"`
	// Color is a #rrggbb fill.
	Color string `json:"color"`
}

// Category groups glyphs for a single overlay mode.
type Category struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Mode   Mode    `json:"mode"`
	Glyphs []Glyph `json:"glyphs"`
}

var categories = []Category{
	{ID: "basic", Name: "Basic", Mode: ModeScatter, Glyphs: []Glyph{
		{ID: "heart", Name: "Heart", Emoji: "💖", Shape: ShapeHeart, Color: "#ec4899"},
		{ID: "star", Name: "Star", Emoji: "⭐", Shape: ShapeStar, Color: "#fbbf24"},
		{ID: "sparkles", Name: "Sparkles", Emoji: "✨", Shape: ShapeSparkle, Color: "#facc15"},
		{ID: "rainbow", Name: "Rainbow", Emoji: "🌈", Shape: ShapeArc, Color: "#8b5cf6"},
	}},
	{ID: "fantasy", Name: "Fantasy", Mode: ModeScatter, Glyphs: []Glyph{
		{ID: "castle", Name: "Castle", Emoji: "🏰", Shape: ShapeSquare, Color: "#a78bfa"},
		{ID: "crown", Name: "Crown", Emoji: "👑", Shape: ShapeStar, Color: "#f59e0b"},
		{ID: "wand", Name: "Magic Wand", Emoji: "🪄", Shape: ShapeSparkle, Color: "#6366f1"},
		{ID: "crystal", Name: "Crystal", Emoji: "💎", Shape: ShapeDiamond, Color: "#38bdf8"},
	}},
	{ID: "nature", Name: "Nature", Mode: ModeScatter, Glyphs: []Glyph{
		{ID: "flower", Name: "Flower", Emoji: "🌸", Shape: ShapeFlower, Color: "#f9a8d4"},
		{ID: "butterfly", Name: "Butterfly", Emoji: "🦋", Shape: ShapeDiamond, Color: "#3b82f6"},
		{ID: "sun", Name: "Sun", Emoji: "☀️", Shape: ShapeCircle, Color: "#fbbf24"},
		{ID: "moon", Name: "Moon", Emoji: "🌙", Shape: ShapeMoon, Color: "#fde68a"},
	}},
	{ID: "fun", Name: "Fun", Mode: ModeScatter, Glyphs: []Glyph{
		{ID: "balloon", Name: "Balloon", Emoji: "🎈", Shape: ShapeCircle, Color: "#ef4444"},
		{ID: "party", Name: "Party", Emoji: "🎉", Shape: ShapeStar, Color: "#22c55e"},
		{ID: "gift", Name: "Gift", Emoji: "🎁", Shape: ShapeSquare, Color: "#ec4899"},
		{ID: "music", Name: "Music", Emoji: "🎵", Shape: ShapeCircle, Color: "#6366f1"},
	}},
	{ID: "magic", Name: "Magic", Mode: ModeScatter, Glyphs: []Glyph{
		{ID: "unicorn", Name: "Unicorn", Emoji: "🦄", Shape: ShapeHeart, Color: "#f0abfc"},
		{ID: "fairy", Name: "Fairy", Emoji: "🧚", Shape: ShapeSparkle, Color: "#a5f3fc"},
		{ID: "dragon", Name: "Dragon", Emoji: "🐉", Shape: ShapeDiamond, Color: "#16a34a"},
		{ID: "stars", Name: "Stars", Emoji: "🌟", Shape: ShapeStar, Color: "#fde047"},
	}},
	{ID: "characters", Name: "Characters", Mode: ModeCharacters, Glyphs: []Glyph{
		{ID: "mouse", Name: "Mouse", Emoji: "🐭", Shape: ShapeCircle, Color: "#1f2937"},
		{ID: "bow-mouse", Name: "Bow Mouse", Emoji: "🎀🐭", Shape: ShapeHeart, Color: "#ef4444"},
		{ID: "duck", Name: "Duck", Emoji: "🦆", Shape: ShapeCircle, Color: "#facc15"},
		{ID: "dog", Name: "Dog", Emoji: "🐶", Shape: ShapeSquare, Color: "#92400e"},
	}},
}

var glyphIndex = func() map[string]Glyph {
	idx := make(map[string]Glyph)
	for _, cat := range categories {
		for _, g := range cat.Glyphs {
			idx[g.ID] = g
		}
	}
	return idx
}()

// Categories returns the glyph catalog.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, cat := range categories {
		cat.Glyphs = append([]Glyph(nil), cat.Glyphs...)
		out[i] = cat
	}
	return out
}

// CategoryGlyphIDs returns the glyph ids of category id, or nil if unknown.
func CategoryGlyphIDs(id string) []string {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, cat := range categories {
		if cat.ID != key {
			continue
		}
		ids := make([]string, len(cat.Glyphs))
		for i, g := range cat.Glyphs {
			ids[i] = g.ID
		}
		return ids
	}
	return nil
}

// LookupGlyph resolves a glyph id. Unknown ids resolve to a neutral dot so
// custom sets still render.
func LookupGlyph(id string) (Glyph, bool) {
	if g, ok := glyphIndex[strings.ToLower(strings.TrimSpace(id))]; ok {
		return g, true
	}
	return Glyph{ID: id, Name: id, Emoji: id, Shape: ShapeCircle, Color: "#9ca3af"}, false
}

// GlyphIDs returns every catalog glyph id, sorted.
func GlyphIDs() []string {
	ids := make([]string, 0, len(glyphIndex))
	for id := range glyphIndex {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
