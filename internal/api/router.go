package api

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"photostrip/internal/export"
	"photostrip/internal/failures"
)

// ServerConfig carries the router dependencies.
type ServerConfig struct {
	Bind      string
	Artifacts *ArtifactService
	Logger    *slog.Logger
	StartTime time.Time
}

// NewRouter builds the HTTP routes.
func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestContextMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", listSessionsHandler(cfg))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getSessionHandler(cfg))
			r.Delete("/", deleteSessionHandler(cfg))
			r.Get("/strip.png", artifactHandler(cfg, export.KindRaster))
			r.Get("/strip.pdf", artifactHandler(cfg, export.KindDocument))
			r.Get("/strip.gif", artifactHandler(cfg, export.KindAnimation))
			r.Get("/code.png", artifactHandler(cfg, export.KindScanCode))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := cfg.Artifacts.Sessions().List(r.Context())
		if err != nil {
			WriteFailure(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Sessions: len(records),
			UptimeS:  int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func listSessionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := cfg.Artifacts.Sessions().List(r.Context())
		if err != nil {
			WriteFailure(w, err)
			return
		}
		resp := SessionListResponse{Sessions: make([]Session, len(records))}
		for i, rec := range records {
			resp.Sessions[i] = FromRecord(rec)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := cfg.Artifacts.Sessions().Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteFailure(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, FromRecord(rec))
	}
}

func deleteSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Artifacts.Sessions().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			WriteFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func artifactHandler(cfg ServerConfig, kind export.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := renderOptionsFromQuery(r)
		if err != nil {
			WriteFailure(w, err)
			return
		}
		data, err := cfg.Artifacts.Produce(r.Context(), chi.URLParam(r, "id"), kind, opts)
		if err != nil {
			WriteFailure(w, err)
			return
		}
		w.Header().Set("Content-Type", kind.ContentType())
		w.Header().Set("Content-Disposition", `inline; filename="`+kind.FileName()+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// renderOptionsFromQuery reads style, color, scatter, density, and repeated
// place=glyph@x,y parameters.
func renderOptionsFromQuery(r *http.Request) (RenderOptions, error) {
	q := r.URL.Query()
	opts := RenderOptions{
		Style:      q.Get("style"),
		FrameColor: q.Get("color"),
		Scatter:    q.Get("scatter"),
	}
	if raw := q.Get("density"); raw != "" {
		density, err := strconv.Atoi(raw)
		if err != nil {
			return RenderOptions{}, failures.Wrap(failures.ErrValidation, "api", "query", "density must be an integer", err)
		}
		opts.Density = density
	}
	for _, raw := range q["place"] {
		p, err := ParsePlacement(raw)
		if err != nil {
			return RenderOptions{}, err
		}
		opts.Placed = append(opts.Placed, p)
	}
	return opts, nil
}

// ParsePlacement parses "glyph@x,y" with x and y in percent.
func ParsePlacement(value string) (Placement, error) {
	invalid := func(err error) error {
		return failures.Wrap(failures.ErrValidation, "api", "placement", "expected glyph@x,y but got "+strconv.Quote(value), err)
	}
	glyph, coords, ok := strings.Cut(strings.TrimSpace(value), "@")
	if !ok || glyph == "" {
		return Placement{}, invalid(nil)
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return Placement{}, invalid(nil)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Placement{}, invalid(err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Placement{}, invalid(err)
	}
	if !isFinite(x) || !isFinite(y) {
		return Placement{}, invalid(nil)
	}
	return Placement{Glyph: glyph, X: x, Y: y}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
