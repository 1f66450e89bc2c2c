package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"photostrip/internal/api"
	"photostrip/internal/capture"
	"photostrip/internal/export"
	"photostrip/internal/fileutil"
)

// renderFlags are the strip appearance flags shared by capture and export.
type renderFlags struct {
	style   string
	color   string
	scatter string
	density int
	place   []string
	formats []string
}

func (f *renderFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.style, "style", "", "Frame style (classic, colorful, elegant, fun, vintage)")
	flags.StringVar(&f.color, "color", "", "Frame color as a palette name or #rrggbb")
	flags.StringVar(&f.scatter, "scatter", "", "Scatter glyph category or comma separated glyph ids")
	flags.IntVar(&f.density, "density", 0, "Scatter density (5-80, default from config)")
	flags.StringArrayVar(&f.place, "place", nil, "Place a glyph at glyph@x,y (percent); repeatable")
	flags.StringSliceVar(&f.formats, "format", []string{"png", "pdf", "gif", "qr"}, "Artifact formats to write")
}

func (f *renderFlags) options() (api.RenderOptions, error) {
	opts := api.RenderOptions{
		Style:      f.style,
		FrameColor: f.color,
		Scatter:    f.scatter,
		Density:    f.density,
	}
	for _, raw := range f.place {
		p, err := api.ParsePlacement(raw)
		if err != nil {
			return api.RenderOptions{}, err
		}
		opts.Placed = append(opts.Placed, p)
	}
	return opts, nil
}

// kinds resolves --format values, dropping duplicates while keeping order.
func (f *renderFlags) kinds() ([]export.Kind, error) {
	seen := make(map[export.Kind]bool, len(f.formats))
	var kinds []export.Kind
	for _, raw := range f.formats {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		kind, err := export.ParseKind(raw)
		if err != nil {
			return nil, err
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("at least one --format is required")
	}
	return kinds, nil
}

// writeArtifacts stores each payload under dir using the artifact file name
// and returns what was written, in kinds order. Kinds without a payload are
// skipped.
func writeArtifacts(dir string, kinds []export.Kind, payloads map[export.Kind][]byte) ([]writtenArtifact, error) {
	if len(payloads) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", dir, err)
	}
	written := make([]writtenArtifact, 0, len(payloads))
	for _, kind := range kinds {
		data, ok := payloads[kind]
		if !ok {
			continue
		}
		target := filepath.Join(dir, kind.FileName())
		if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", kind, err)
		}
		written = append(written, writtenArtifact{kind: kind, path: target})
	}
	return written, nil
}

type writtenArtifact struct {
	kind export.Kind
	path string
}

// exportSession encodes and writes every requested kind. A failing encoder
// does not stop the others; its error is returned after the rest are written.
func exportSession(ctx context.Context, cmd *cobra.Command, service *api.ArtifactService, session *capture.Session, dir string, kinds []export.Kind, opts api.RenderOptions) error {
	payloads, produceErr := service.ProduceAll(ctx, session, kinds, opts)
	if payloads == nil && produceErr != nil {
		return produceErr
	}
	written, err := writeArtifacts(dir, kinds, payloads)
	out := cmd.OutOrStdout()
	for _, w := range written {
		fmt.Fprintf(out, "Wrote %s: %s\n", strings.ToUpper(string(w.kind)), w.path)
	}
	if err != nil {
		return errors.Join(err, produceErr)
	}
	for _, kind := range kinds {
		if _, ok := payloads[kind]; !ok {
			fmt.Fprintf(out, "Skipped %s\n", strings.ToUpper(string(kind)))
		}
	}
	return produceErr
}
