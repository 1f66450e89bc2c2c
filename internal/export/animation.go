package export

import (
	"bytes"
	"image"
	"image/color/palette"
	stddraw "image/draw"
	"image/gif"
	"time"

	"golang.org/x/image/draw"

	"photostrip/internal/failures"
	"photostrip/internal/frame"
)

// AnimatedSequence encodes the photos, in capture order, as a looping GIF of
// width x height frames shown for delay each.
func AnimatedSequence(frames []frame.Raw, width, height int, delay time.Duration) ([]byte, error) {
	if len(frames) == 0 {
		return nil, failures.Wrap(failures.ErrRender, "export", "animation", "no photos to animate", nil)
	}
	if width <= 0 || height <= 0 {
		return nil, failures.Wrap(failures.ErrValidation, "export", "animation", "animation size must be positive", nil)
	}
	centis := max(int(delay/(10*time.Millisecond)), 1)

	anim := &gif.GIF{LoopCount: 0}
	bounds := image.Rect(0, 0, width, height)
	for _, f := range frames {
		if f.Empty() {
			return nil, failures.Wrap(failures.ErrRender, "export", "animation", "empty photo in sequence", frame.ErrEmpty)
		}
		src := f.Image()
		scaled := image.NewRGBA(bounds)
		draw.ApproxBiLinear.Scale(scaled, bounds, src, src.Bounds(), draw.Src, nil)
		paletted := image.NewPaletted(bounds, palette.Plan9)
		stddraw.FloydSteinberg.Draw(paletted, bounds, scaled, image.Point{})
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, centis)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, failures.Wrap(failures.ErrRender, "export", "animation", "gif encoding failed", err)
	}
	return buf.Bytes(), nil
}
