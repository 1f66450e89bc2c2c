package export

import (
	"fmt"
	"strings"
	"time"

	"photostrip/internal/compose"
	"photostrip/internal/config"
	"photostrip/internal/failures"
)

// Kind identifies an artifact format.
type Kind string

const (
	KindRaster    Kind = "png"
	KindDocument  Kind = "pdf"
	KindAnimation Kind = "gif"
	KindScanCode  Kind = "qr"
)

// Kinds lists every artifact format.
func Kinds() []Kind {
	return []Kind{KindRaster, KindDocument, KindAnimation, KindScanCode}
}

// ParseKind resolves a format name or file extension.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")) {
	case "png", "raster", "image":
		return KindRaster, nil
	case "pdf", "document":
		return KindDocument, nil
	case "gif", "animation":
		return KindAnimation, nil
	case "qr", "code", "scan":
		return KindScanCode, nil
	default:
		return "", failures.Wrap(failures.ErrValidation, "export", "parse kind", fmt.Sprintf("unknown artifact format %q", value), nil)
	}
}

// FileName returns the download name for an artifact.
func (k Kind) FileName() string {
	switch k {
	case KindDocument:
		return "photostrip.pdf"
	case KindAnimation:
		return "photostrip.gif"
	case KindScanCode:
		return "photostrip-code.png"
	default:
		return "photostrip.png"
	}
}

// ContentType returns the MIME type for an artifact.
func (k Kind) ContentType() string {
	switch k {
	case KindDocument:
		return "application/pdf"
	case KindAnimation:
		return "image/gif"
	default:
		return "image/png"
	}
}

// Options carries the encoder settings.
type Options struct {
	Supersample     int
	Page            PageSize
	AnimationWidth  int
	AnimationHeight int
	AnimationDelay  time.Duration
	ScanCodeSize    int
	PublicBaseURL   string
}

// OptionsFromConfig maps configuration onto encoder settings.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	page, err := LookupPageSize(cfg.Export.PageSize)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Supersample:     cfg.Render.Supersample,
		Page:            page,
		AnimationWidth:  cfg.Export.AnimationWidth,
		AnimationHeight: cfg.Export.AnimationHeight,
		AnimationDelay:  cfg.AnimationDelay(),
		ScanCodeSize:    cfg.Export.ScanCodeSize,
		PublicBaseURL:   cfg.Export.PublicBaseURL,
	}, nil
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		Supersample:     2,
		Page:            A4,
		AnimationWidth:  320,
		AnimationHeight: 240,
		AnimationDelay:  500 * time.Millisecond,
		ScanCodeSize:    256,
	}
}

// Exporter produces artifacts with fixed encoder settings.
type Exporter struct {
	opts Options
}

// New returns an exporter. Zero settings take the stock values.
func New(opts Options) *Exporter {
	def := DefaultOptions()
	if opts.Supersample <= 0 {
		opts.Supersample = def.Supersample
	}
	if opts.Page.WidthMM <= 0 || opts.Page.HeightMM <= 0 {
		opts.Page = def.Page
	}
	if opts.AnimationWidth <= 0 || opts.AnimationHeight <= 0 {
		opts.AnimationWidth, opts.AnimationHeight = def.AnimationWidth, def.AnimationHeight
	}
	if opts.AnimationDelay <= 0 {
		opts.AnimationDelay = def.AnimationDelay
	}
	if opts.ScanCodeSize <= 0 {
		opts.ScanCodeSize = def.ScanCodeSize
	}
	return &Exporter{opts: opts}
}

// Options returns the effective settings.
func (e *Exporter) Options() Options { return e.opts }

// Raster encodes the composite as a supersampled PNG.
func (e *Exporter) Raster(c *compose.Composite) ([]byte, error) {
	return Raster(c, e.opts.Supersample)
}

// Document encodes the composite as a paged PDF.
func (e *Exporter) Document(c *compose.Composite) ([]byte, error) {
	return Document(c, e.opts.Supersample, e.opts.Page)
}

// Animation encodes the composite's photos as a looping GIF.
func (e *Exporter) Animation(c *compose.Composite) ([]byte, error) {
	if c == nil {
		return nil, failures.Wrap(failures.ErrRender, "export", "animation", "render target is empty", nil)
	}
	return AnimatedSequence(c.Frames(), e.opts.AnimationWidth, e.opts.AnimationHeight, e.opts.AnimationDelay)
}

// ScanCode encodes a QR code pointing at the session's PNG strip.
func (e *Exporter) ScanCode(sessionID string) ([]byte, error) {
	link, err := RasterURL(e.opts.PublicBaseURL, sessionID)
	if err != nil {
		return nil, err
	}
	return ScanCode(link, e.opts.ScanCodeSize)
}

// Produce dispatches to the exporter for kind.
func (e *Exporter) Produce(kind Kind, c *compose.Composite, sessionID string) ([]byte, error) {
	switch kind {
	case KindRaster:
		return e.Raster(c)
	case KindDocument:
		return e.Document(c)
	case KindAnimation:
		return e.Animation(c)
	case KindScanCode:
		return e.ScanCode(sessionID)
	default:
		return nil, failures.Wrap(failures.ErrValidation, "export", "produce", fmt.Sprintf("unknown artifact format %q", kind), nil)
	}
}
