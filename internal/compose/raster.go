package compose

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"golang.org/x/image/draw"

	"photostrip/internal/failures"
)

// MaxScale bounds the supersampling factor.
const MaxScale = 4

// Rasterize paints the composite at scale times its base size. Each call
// returns a new image.
func (c *Composite) Rasterize(scale int) (*image.RGBA, error) {
	if c == nil || c.geo.width <= 0 || c.geo.height <= 0 {
		return nil, failures.Wrap(failures.ErrRender, "compose", "rasterize", "render target is empty", nil)
	}
	if scale < 1 || scale > MaxScale {
		return nil, failures.Wrap(failures.ErrRender, "compose", "rasterize", fmt.Sprintf("scale %d outside 1-%d", scale, MaxScale), nil)
	}
	fc, err := newFaces(scale)
	if err != nil {
		return nil, failures.Wrap(failures.ErrRender, "compose", "rasterize", "load fonts", err)
	}
	defer fc.Close()

	g := c.geo
	s := func(v int) int { return v * scale }
	canvas := image.NewRGBA(image.Rect(0, 0, s(g.width), s(g.height)))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c.treatment.Background), image.Point{}, draw.Src)
	c.paintBorder(canvas, s(g.border))

	width, height := float64(canvas.Bounds().Dx()), float64(canvas.Bounds().Dy())
	for _, e := range c.overlay.Entries {
		drawGlyph(canvas, e.Glyph, e.X/100*width, e.Y/100*height, int(math.Round(e.Size/100*width)), e.Rotation)
	}

	ink := inkFor(c.treatment.Background)
	cx := s(g.width) / 2
	drawCentered(canvas, fc.title, ink, c.title, cx, s(g.titleBaseline))
	drawCentered(canvas, fc.small, ink, c.date.Format("Jan 2, 2006"), cx, s(g.dateBaseline))
	drawCentered(canvas, fc.label, ink, c.layout.Label(), cx, s(g.layoutBaseline))

	if len(c.frames) == 0 {
		gridH := g.rows*g.cellH + (g.rows-1)*g.gutter
		drawCentered(canvas, fc.label, ink, "No photos captured", cx, s(g.gridTop+gridH/2))
	} else {
		for slot := 0; slot < c.layout.PhotoCount; slot++ {
			c.paintSlot(canvas, fc, slot, scale)
		}
	}

	drawCentered(canvas, fc.small, ink, c.footer, cx, s(g.footerBaseline))
	if g.savedBaseline > 0 {
		drawCentered(canvas, fc.small, ink, "Saved as: "+c.label, cx, s(g.savedBaseline))
	}

	for _, p := range c.overlay.Placed {
		drawGlyph(canvas, p.Glyph, p.X/100*width, p.Y/100*height, int(math.Round(p.Size/100*width)), 0)
	}
	return canvas, nil
}

func (c *Composite) cellRect(slot, scale int) image.Rectangle {
	g := c.geo
	col, row := slot%g.cols, slot/g.cols
	x := g.padding + col*(g.cellW+g.gutter)
	y := g.gridTop + row*(g.cellH+g.gutter)
	return image.Rect(x*scale, y*scale, (x+g.cellW)*scale, (y+g.cellH)*scale)
}

func (c *Composite) paintSlot(dst *image.RGBA, fc *faces, slot, scale int) {
	cell := c.cellRect(slot, scale)
	if slot >= len(c.frames) {
		draw.Draw(dst, cell, image.NewUniform(placeholderBg), image.Point{}, draw.Src)
		mid := cell.Min.Y + cell.Dy()/2 + labelSize*scale/2
		drawCentered(dst, fc.label, placeholderInk, "Photo "+strconv.Itoa(slot+1), cell.Min.X+cell.Dx()/2, mid)
		return
	}
	src := c.frames[slot].Image()
	draw.CatmullRom.Scale(dst, cell, src, coverCrop(src.Bounds(), cell.Dx(), cell.Dy()), draw.Src, nil)

	radius := 9 * scale
	center := image.Pt(cell.Max.X-radius-4*scale, cell.Max.Y-radius-4*scale)
	fillCircle(dst, center, radius, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe0})
	drawCentered(dst, fc.small, darkInk, strconv.Itoa(slot+1), center.X, center.Y+smallSize*scale*7/20)
}

// coverCrop returns the centered sub-rectangle of src matching the w:h ratio.
func coverCrop(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := src.Min.X + (sw-cw)/2
		return image.Rect(x0, src.Min.Y, x0+cw, src.Max.Y)
	}
	ch := sw * h / w
	y0 := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y0, src.Max.X, y0+ch)
}

func fillCircle(dst *image.RGBA, center image.Point, radius int, fill color.RGBA) {
	src := image.NewUniform(fill)
	for dy := -radius; dy <= radius; dy++ {
		half := int(math.Sqrt(float64(radius*radius - dy*dy)))
		row := image.Rect(center.X-half, center.Y+dy, center.X+half+1, center.Y+dy+1)
		draw.Draw(dst, row, src, image.Point{}, draw.Over)
	}
}

// paintBorder draws the treatment's border band of the given width.
func (c *Composite) paintBorder(dst *image.RGBA, width int) {
	b := dst.Bounds()
	inBand := func(x, y, inset, w int) bool {
		if x < b.Min.X+inset || y < b.Min.Y+inset || x >= b.Max.X-inset || y >= b.Max.Y-inset {
			return false
		}
		return x < b.Min.X+inset+w || y < b.Min.Y+inset+w || x >= b.Max.X-inset-w || y >= b.Max.Y-inset-w
	}
	band := max(width/2, 1)
	seg := max(width*2, 4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			switch c.treatment.Style {
			case StyleColorful:
				if inBand(x, y, 0, width) {
					dst.SetRGBA(x, y, colorfulBands[((x+y)/seg)%len(colorfulBands)])
				}
			case StyleElegant:
				if inBand(x, y, 0, width) {
					dst.SetRGBA(x, y, elegantBorder)
				} else if inBand(x, y, width+band, max(band/2, 1)) {
					dst.SetRGBA(x, y, elegantInner)
				}
			case StyleFun:
				if inBand(x, y, 0, width) {
					if (x/seg+y/seg)%2 == 0 {
						dst.SetRGBA(x, y, funBorder)
					} else {
						dst.SetRGBA(x, y, funAccent)
					}
				}
			case StyleVintage:
				if inBand(x, y, 0, width) {
					dst.SetRGBA(x, y, vintageBorder)
				} else if inBand(x, y, width, band) {
					dst.SetRGBA(x, y, vintageInner)
				}
			default:
				if inBand(x, y, 0, band) {
					dst.SetRGBA(x, y, classicBorder)
				}
			}
		}
	}
}

// GlyphCount reports how many overlay glyphs the composite draws.
func (c *Composite) GlyphCount() (scatter, placed int) {
	return len(c.overlay.Entries), len(c.overlay.Placed)
}
