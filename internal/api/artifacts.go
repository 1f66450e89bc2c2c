package api

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"

	"photostrip/internal/capture"
	"photostrip/internal/compose"
	"photostrip/internal/config"
	"photostrip/internal/export"
	"photostrip/internal/failures"
	"photostrip/internal/layout"
	"photostrip/internal/logging"
	"photostrip/internal/overlay"
	"photostrip/internal/store"
)

// SessionStore is the persistence surface the API reads from.
type SessionStore interface {
	List(ctx context.Context) ([]store.Record, error)
	Get(ctx context.Context, ref string) (store.Record, error)
	Load(ctx context.Context, ref string) (*capture.Session, error)
	Delete(ctx context.Context, ref string) error
}

// Placement positions one glyph in percent of the strip.
type Placement struct {
	Glyph string
	X, Y  float64
}

// RenderOptions selects the treatment and overlay for a render.
type RenderOptions struct {
	Style      string
	FrameColor string
	// Scatter is a catalog category id or a comma separated glyph list.
	Scatter string
	Density int
	Placed  []Placement
}

// ArtifactService renders stored sessions into artifacts.
type ArtifactService struct {
	sessions SessionStore
	layouts  *layout.Registry
	renderer *compose.Renderer
	exporter *export.Exporter
	defaults RenderOptions
	seed     int64
	logger   *slog.Logger
}

// NewArtifactService wires the rendering path from configuration.
func NewArtifactService(cfg *config.Config, sessions SessionStore, layouts *layout.Registry, logger *slog.Logger) (*ArtifactService, error) {
	renderer, err := compose.NewRenderer(compose.OptionsFromConfig(cfg.Render))
	if err != nil {
		return nil, err
	}
	opts, err := export.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &ArtifactService{
		sessions: sessions,
		layouts:  layouts,
		renderer: renderer,
		exporter: export.New(opts),
		defaults: RenderOptions{
			Style:      string(compose.StyleDefault),
			FrameColor: cfg.Render.FrameColor,
			Density:    cfg.Overlay.DefaultDensity,
		},
		seed:   cfg.Overlay.Seed,
		logger: logging.NewComponentLogger(logger, "artifacts"),
	}, nil
}

// Sessions exposes the backing store.
func (s *ArtifactService) Sessions() SessionStore { return s.sessions }

// Composite loads a session and renders its composite.
func (s *ArtifactService) Composite(ctx context.Context, ref string, opts RenderOptions) (*compose.Composite, *capture.Session, error) {
	session, err := s.sessions.Load(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.RenderSession(ctx, session, opts)
	if err != nil {
		return nil, nil, err
	}
	return c, session, nil
}

// RenderSession renders a session that is already in memory.
func (s *ArtifactService) RenderSession(ctx context.Context, session *capture.Session, opts RenderOptions) (*compose.Composite, error) {
	if session == nil {
		return nil, failures.Wrap(failures.ErrRender, "artifacts", "render", "session is missing", nil)
	}
	opts = s.withDefaults(opts)
	treatment, err := compose.NewTreatment(opts.Style, opts.FrameColor)
	if err != nil {
		return nil, err
	}
	snap, err := s.overlaySnapshot(session.ID, opts)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderComposite(session, treatment, snap, s.layoutFor(ctx, session))
}

// Produce renders one artifact for a stored session.
func (s *ArtifactService) Produce(ctx context.Context, ref string, kind export.Kind, opts RenderOptions) ([]byte, error) {
	if kind == export.KindScanCode {
		rec, err := s.sessions.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		return s.exporter.ScanCode(rec.ID)
	}
	c, session, err := s.Composite(ctx, ref, opts)
	if err != nil {
		return nil, err
	}
	return s.encode(ctx, kind, c, session.ID)
}

// ProduceAll renders the session once and encodes every requested kind from
// the same composite. Encoders run independently: the returned map holds every
// payload that succeeded and the error joins the failures, one per kind.
func (s *ArtifactService) ProduceAll(ctx context.Context, session *capture.Session, kinds []export.Kind, opts RenderOptions) (map[export.Kind][]byte, error) {
	c, err := s.RenderSession(ctx, session, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[export.Kind][]byte, len(kinds))
	var errs []error
	for _, kind := range kinds {
		data, err := s.encode(ctx, kind, c, session.ID)
		if err != nil {
			logging.WarnWithContext(s.sessionLogger(ctx, session.ID), "artifact failed", "artifact_failed",
				logging.String("format", string(kind)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "this format is not written for the session"),
				logging.String(logging.FieldErrorHint, "other formats are unaffected"),
			)
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}
		out[kind] = data
	}
	return out, errors.Join(errs...)
}

func (s *ArtifactService) encode(ctx context.Context, kind export.Kind, c *compose.Composite, sessionID string) ([]byte, error) {
	data, err := s.exporter.Produce(kind, c, sessionID)
	if err != nil {
		return nil, err
	}
	s.sessionLogger(ctx, sessionID).Debug("artifact produced",
		logging.String("format", string(kind)),
		logging.Int("bytes", len(data)),
	)
	return data, nil
}

func (s *ArtifactService) sessionLogger(ctx context.Context, sessionID string) *slog.Logger {
	return logging.WithContext(logging.WithSessionID(ctx, sessionID), s.logger)
}

func (s *ArtifactService) withDefaults(opts RenderOptions) RenderOptions {
	if strings.TrimSpace(opts.Style) == "" {
		opts.Style = s.defaults.Style
	}
	if strings.TrimSpace(opts.FrameColor) == "" {
		opts.FrameColor = s.defaults.FrameColor
	}
	if opts.Density == 0 {
		opts.Density = s.defaults.Density
	}
	return opts
}

// overlaySnapshot rebuilds the overlay for a render. The scatter seed is
// derived from the session id so every render of a session matches.
func (s *ArtifactService) overlaySnapshot(sessionID string, opts RenderOptions) (overlay.Snapshot, error) {
	seed := s.seed
	if seed == 0 {
		h := fnv.New64a()
		_, _ = h.Write([]byte(sessionID))
		seed = int64(h.Sum64() >> 1)
	}
	layer := overlay.NewLayer(seed)
	if set := ScatterSet(opts.Scatter); len(set) > 0 {
		layer.SetScatter(set, opts.Density, true)
	}
	for _, p := range opts.Placed {
		if _, err := layer.PlaceGlyph(p.Glyph, p.X, p.Y); err != nil {
			return overlay.Snapshot{}, err
		}
	}
	if len(opts.Placed) > 0 {
		if err := layer.SetMode(overlay.ModeCharacters); err != nil {
			return overlay.Snapshot{}, err
		}
	}
	return layer.Snapshot(), nil
}

// ScatterSet resolves a category id or a comma separated glyph list.
func ScatterSet(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return nil
	}
	if ids := overlay.CategoryGlyphIDs(value); ids != nil {
		return ids
	}
	var set []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			set = append(set, part)
		}
	}
	return set
}

// layoutFor resolves the session's layout. A layout removed from the registry
// since capture falls back to a single column sized for the session.
func (s *ArtifactService) layoutFor(ctx context.Context, session *capture.Session) layout.Layout {
	l, err := s.layouts.Lookup(session.Layout)
	if err == nil && l.PhotoCount >= session.Len() {
		return l
	}
	count := max(session.Expected, session.Len(), 1)
	fallback := layout.Layout{ID: session.Layout, Name: session.Layout, PhotoCount: count, Columns: 1}
	reason := "layout holds fewer photos than the session"
	if err != nil {
		reason = failures.Details(err).Message
	}
	logging.WarnWithContext(s.sessionLogger(ctx, session.ID),
		"layout fallback", "layout_fallback",
		logging.String("layout", session.Layout),
		logging.String("reason", reason),
		logging.String(logging.FieldImpact, fmt.Sprintf("rendering as a %d photo column", count)),
		logging.String(logging.FieldErrorHint, "restore the layout in the layouts table"),
	)
	return fallback
}
