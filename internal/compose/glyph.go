package compose

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"photostrip/internal/overlay"
)

type point struct{ x, y float64 }

var (
	starOutline    = starPolygon(5, 0.95, 0.42)
	sparkleOutline = starPolygon(4, 0.95, 0.22)
)

func starPolygon(points int, outer, inner float64) []point {
	out := make([]point, 0, points*2)
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		theta := -math.Pi/2 + float64(i)*math.Pi/float64(points)
		out = append(out, point{r * math.Cos(theta), r * math.Sin(theta)})
	}
	return out
}

func insidePolygon(poly []point, x, y float64) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.y > y) != (b.y > y) && x < (b.x-a.x)*(y-a.y)/(b.y-a.y)+a.x {
			inside = !inside
		}
	}
	return inside
}

// covers reports whether normalized point (x, y) in [-1, 1] lies inside the
// shape. y grows downwards.
func covers(shape overlay.Shape, x, y float64) bool {
	switch shape {
	case overlay.ShapeHeart:
		hx, hy := x*1.2, -y*1.2+0.25
		v := hx*hx + hy*hy - 1
		return v*v*v-hx*hx*hy*hy*hy <= 0
	case overlay.ShapeStar:
		return insidePolygon(starOutline, x, y)
	case overlay.ShapeSparkle:
		return insidePolygon(sparkleOutline, x, y)
	case overlay.ShapeDiamond:
		return math.Abs(x)+math.Abs(y) <= 0.9
	case overlay.ShapeFlower:
		r := math.Hypot(x, y)
		return r <= 0.55+0.35*math.Abs(math.Cos(2.5*math.Atan2(y, x)))
	case overlay.ShapeMoon:
		return x*x+y*y <= 0.8 && (x-0.35)*(x-0.35)+(y+0.2)*(y+0.2) > 0.45
	case overlay.ShapeArc:
		r := math.Hypot(x, y-0.3)
		return r >= 0.5 && r <= 0.9 && y <= 0.3
	case overlay.ShapeSquare:
		return math.Abs(x) <= 0.75 && math.Abs(y) <= 0.75
	default:
		return x*x+y*y <= 0.81
	}
}

// glyphTile paints a glyph into a size x size tile with 2x2 antialiasing.
func glyphTile(g overlay.Glyph, size int) *image.RGBA {
	tile := image.NewRGBA(image.Rect(0, 0, size, size))
	fill, err := ParseColor(g.Color)
	if err != nil {
		fill = placeholderInk
	}
	offsets := [2]float64{0.25, 0.75}
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			hits := 0
			for _, oy := range offsets {
				for _, ox := range offsets {
					nx := 2*(float64(px)+ox)/float64(size) - 1
					ny := 2*(float64(py)+oy)/float64(size) - 1
					if covers(g.Shape, nx, ny) {
						hits++
					}
				}
			}
			if hits == 0 {
				continue
			}
			a := uint32(hits) * 255 / 4
			tile.SetRGBA(px, py, color.RGBA{
				R: uint8(uint32(fill.R) * a / 255),
				G: uint8(uint32(fill.G) * a / 255),
				B: uint8(uint32(fill.B) * a / 255),
				A: uint8(a),
			})
		}
	}
	return tile
}

// drawGlyph composites a glyph centered at (cx, cy), rotated by degrees.
func drawGlyph(dst draw.Image, id string, cx, cy float64, size int, degrees float64) {
	if size < 2 {
		return
	}
	g, _ := overlay.LookupGlyph(id)
	tile := glyphTile(g, size)
	theta := degrees * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	half := float64(size) / 2
	m := f64.Aff3{
		cos, -sin, cx - cos*half + sin*half,
		sin, cos, cy - sin*half - cos*half,
	}
	draw.BiLinear.Transform(dst, m, tile, tile.Bounds(), draw.Over, nil)
}
