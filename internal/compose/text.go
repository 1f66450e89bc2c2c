package compose

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

// faces holds the font faces for one rasterization pass.
type faces struct {
	title font.Face
	small font.Face
	label font.Face
}

func newFaces(scale int) (*faces, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	title, err := newFace(boldFont, titleSize*scale)
	if err != nil {
		return nil, err
	}
	small, err := newFace(regularFont, smallSize*scale)
	if err != nil {
		title.Close()
		return nil, err
	}
	label, err := newFace(boldFont, labelSize*scale)
	if err != nil {
		title.Close()
		small.Close()
		return nil, err
	}
	return &faces{title: title, small: small, label: label}, nil
}

func (f *faces) Close() {
	f.title.Close()
	f.small.Close()
	f.label.Close()
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawCentered draws s centered on cx with its baseline at y.
func drawCentered(dst draw.Image, face font.Face, ink color.Color, s string, cx, y int) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(ink), Face: face}
	width := d.MeasureString(s)
	d.Dot = fixed.Point26_6{X: fixed.I(cx) - width/2, Y: fixed.I(y)}
	d.DrawString(s)
}
