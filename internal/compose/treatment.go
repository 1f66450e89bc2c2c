package compose

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"photostrip/internal/failures"
)

// Style names a border treatment around the photo grid.
type Style string

const (
	StyleDefault  Style = "default"
	StyleColorful Style = "colorful"
	StyleElegant  Style = "elegant"
	StyleFun      Style = "fun"
	StyleVintage  Style = "vintage"
)

var styleNames = map[Style]string{
	StyleDefault:  "Classic",
	StyleColorful: "Colorful",
	StyleElegant:  "Elegant",
	StyleFun:      "Fun",
	StyleVintage:  "Vintage",
}

// Styles lists the supported treatments in display order.
func Styles() []Style {
	return []Style{StyleDefault, StyleColorful, StyleElegant, StyleFun, StyleVintage}
}

// ParseStyle resolves a treatment name. Unknown names fall back to the
// classic border.
func ParseStyle(value string) Style {
	s := Style(strings.ToLower(strings.TrimSpace(value)))
	if s == "classic" {
		return StyleDefault
	}
	if _, ok := styleNames[s]; ok {
		return s
	}
	return StyleDefault
}

// StyleName returns the display name of a treatment.
func StyleName(s Style) string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return styleNames[StyleDefault]
}

// NamedColor is one entry of the frame color palette.
type NamedColor struct {
	ID    string
	Label string
	Hex   string
}

var palette = []NamedColor{
	{ID: "white", Label: "White", Hex: "#ffffff"},
	{ID: "black", Label: "Black", Hex: "#000000"},
	{ID: "pink", Label: "Pink", Hex: "#ec4899"},
	{ID: "green", Label: "Green", Hex: "#22c55e"},
	{ID: "blue", Label: "Blue", Hex: "#3b82f6"},
	{ID: "yellow", Label: "Yellow", Hex: "#fbbf24"},
	{ID: "purple", Label: "Purple", Hex: "#8b5cf6"},
	{ID: "maroon", Label: "Maroon", Hex: "#800000"},
	{ID: "burgundy", Label: "Burgundy", Hex: "#800020"},
}

// Palette returns the named frame colors.
func Palette() []NamedColor {
	return append([]NamedColor(nil), palette...)
}

// ParseColor accepts a palette name, #rgb, or #rrggbb.
func ParseColor(value string) (color.RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, c := range palette {
		if c.ID == v {
			v = c.Hex
			break
		}
	}
	hex := strings.TrimPrefix(v, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, failures.Wrap(failures.ErrValidation, "compose", "parse color", fmt.Sprintf("invalid color %q", value), nil)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, failures.Wrap(failures.ErrValidation, "compose", "parse color", fmt.Sprintf("invalid color %q", value), err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

// Treatment is the selected border style plus the frame background color.
type Treatment struct {
	Style      Style
	Background color.RGBA
}

// NewTreatment builds a treatment from user-facing names.
func NewTreatment(style, frameColor string) (Treatment, error) {
	bg := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if strings.TrimSpace(frameColor) != "" {
		parsed, err := ParseColor(frameColor)
		if err != nil {
			return Treatment{}, err
		}
		bg = parsed
	}
	return Treatment{Style: ParseStyle(style), Background: bg}, nil
}

var (
	classicBorder  = mustHex("#e5e7eb")
	elegantBorder  = mustHex("#8b5cf6")
	funBorder      = mustHex("#f59e0b")
	funAccent      = mustHex("#ec4899")
	vintageBorder  = mustHex("#92400e")
	vintageInner   = mustHex("#d6b98c")
	elegantInner   = mustHex("#fde68a")
	placeholderBg  = mustHex("#e5e7eb")
	placeholderInk = mustHex("#6b7280")
	darkInk        = mustHex("#1f2937")
	lightInk       = mustHex("#f9fafb")
	colorfulBands  = []color.RGBA{
		mustHex("#ff6b6b"), mustHex("#4ecdc4"), mustHex("#45b7d1"), mustHex("#96ceb4"), mustHex("#feca57"),
	}
)

func mustHex(value string) color.RGBA {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	return c
}

// inkFor picks a readable text color for the background.
func inkFor(bg color.RGBA) color.RGBA {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma < 128 {
		return lightInk
	}
	return darkInk
}
