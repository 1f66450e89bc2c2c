// Package compose lays captured frames out on a strip, applies the frame
// treatment and overlay glyphs, and rasterizes the result on demand.
//
// A Composite is an immutable description. Every call to Rasterize paints a
// fresh image, so exporters never share a mutable render target.
package compose

import (
	"fmt"
	"time"

	"photostrip/internal/capture"
	"photostrip/internal/config"
	"photostrip/internal/failures"
	"photostrip/internal/frame"
	"photostrip/internal/layout"
	"photostrip/internal/overlay"
)

const (
	titleSize = 22
	smallSize = 11
	labelSize = 12
	wideRatio = 3 // wide cells are 3/2 of the configured photo width
)

// Options controls composite geometry in base (1x) pixels.
type Options struct {
	PhotoWidth  int
	PhotoHeight int
	Gutter      int
	Padding     int
	Title       string
	Footer      string
}

// OptionsFromConfig reads geometry from the render section.
func OptionsFromConfig(cfg config.Render) Options {
	return Options{
		PhotoWidth:  cfg.PhotoWidth,
		PhotoHeight: cfg.PhotoHeight,
		Gutter:      cfg.Gutter,
		Padding:     cfg.Padding,
		Title:       cfg.Title,
		Footer:      cfg.Footer,
	}
}

// Renderer builds composites with fixed geometry options.
type Renderer struct {
	opts Options
}

// NewRenderer validates opts and returns a renderer.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.PhotoWidth <= 0 || opts.PhotoHeight <= 0 {
		return nil, failures.Wrap(failures.ErrValidation, "compose", "new renderer",
			fmt.Sprintf("photo size %dx%d must be positive", opts.PhotoWidth, opts.PhotoHeight), nil)
	}
	if opts.Gutter < 0 || opts.Padding < 0 {
		return nil, failures.Wrap(failures.ErrValidation, "compose", "new renderer", "gutter and padding must be non-negative", nil)
	}
	return &Renderer{opts: opts}, nil
}

// Composite is the rendered description of a strip.
type Composite struct {
	layout    layout.Layout
	treatment Treatment
	overlay   overlay.Snapshot
	frames    []frame.Raw
	label     string
	title     string
	footer    string
	date      time.Time
	geo       geometry
}

type geometry struct {
	width, height  int
	padding        int
	gutter         int
	border         int
	cellW, cellH   int
	cols, rows     int
	titleBaseline  int
	dateBaseline   int
	layoutBaseline int
	gridTop        int
	footerBaseline int
	savedBaseline  int
}

// RenderComposite lays out the session's final frames on the layout grid.
// A session shorter than the layout leaves placeholder slots.
func (r *Renderer) RenderComposite(session *capture.Session, treatment Treatment, snap overlay.Snapshot, l layout.Layout) (*Composite, error) {
	if l.PhotoCount <= 0 {
		return nil, failures.Wrap(failures.ErrValidation, "compose", "render", fmt.Sprintf("layout %q has no photo slots", l.ID), nil)
	}
	frames := session.FinalFrames()
	if len(frames) > l.PhotoCount {
		return nil, failures.Wrap(failures.ErrValidation, "compose", "render",
			fmt.Sprintf("session has %d photos but layout %s holds %d", len(frames), l.ID, l.PhotoCount), nil)
	}
	for i, f := range frames {
		if f.Empty() {
			return nil, failures.Wrap(failures.ErrRender, "compose", "render", fmt.Sprintf("photo %d is empty", i+1), frame.ErrEmpty)
		}
	}

	c := &Composite{
		layout:    l,
		treatment: treatment,
		overlay:   copySnapshot(snap),
		frames:    frames,
		title:     r.opts.Title,
		footer:    r.opts.Footer,
	}
	if session != nil {
		c.label = session.Label
		c.date = session.CreatedAt
	}
	if c.date.IsZero() {
		c.date = time.Now()
	}
	c.geo = r.measure(l, c.label != "")
	return c, nil
}

func (r *Renderer) measure(l layout.Layout, withLabel bool) geometry {
	g := geometry{
		padding: r.opts.Padding,
		gutter:  r.opts.Gutter,
		cellW:   r.opts.PhotoWidth,
		cellH:   r.opts.PhotoHeight,
		cols:    max(l.Columns, 1),
		rows:    l.Rows(),
	}
	if l.Wide {
		g.cellW = r.opts.PhotoWidth * wideRatio / 2
	}
	g.border = max(g.padding/3, 2)
	g.width = 2*g.padding + g.cols*g.cellW + (g.cols-1)*g.gutter

	y := g.padding
	g.titleBaseline = y + titleSize
	y = g.titleBaseline + 6
	g.dateBaseline = y + smallSize
	y = g.dateBaseline + g.gutter
	g.layoutBaseline = y + labelSize
	y = g.layoutBaseline + max(g.gutter/2, 4)
	g.gridTop = y
	y += g.rows*g.cellH + (g.rows-1)*g.gutter + g.gutter
	g.footerBaseline = y + smallSize
	y = g.footerBaseline
	if withLabel {
		g.savedBaseline = y + 4 + smallSize
		y = g.savedBaseline
	}
	g.height = y + g.padding
	return g
}

// Bounds returns the composite size at 1x.
func (c *Composite) Bounds() (width, height int) {
	if c == nil {
		return 0, 0
	}
	return c.geo.width, c.geo.height
}

// Frames returns copies of the photos in capture order.
func (c *Composite) Frames() []frame.Raw {
	if c == nil {
		return nil
	}
	out := make([]frame.Raw, len(c.frames))
	for i, f := range c.frames {
		out[i] = f.Clone()
	}
	return out
}

// Layout returns the layout the composite was rendered for.
func (c *Composite) Layout() layout.Layout { return c.layout }

// Label returns the session label printed in the footer.
func (c *Composite) Label() string { return c.label }

// Slots reports filled and total photo slots.
func (c *Composite) Slots() (filled, total int) {
	return len(c.frames), c.layout.PhotoCount
}

func copySnapshot(s overlay.Snapshot) overlay.Snapshot {
	s.Scatter.Set = append([]string(nil), s.Scatter.Set...)
	s.Entries = append([]overlay.ScatterGlyph(nil), s.Entries...)
	s.Placed = append([]overlay.PlacedGlyph(nil), s.Placed...)
	return s
}
