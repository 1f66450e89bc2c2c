package export

import (
	"bytes"
	"image"
	"image/png"

	"photostrip/internal/compose"
	"photostrip/internal/failures"
)

// Raster rasterizes the composite at scale and encodes it as PNG.
func Raster(c *compose.Composite, scale int) ([]byte, error) {
	img, err := c.Rasterize(scale)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, failures.Wrap(failures.ErrRender, "export", "encode png", "png encoding failed", err)
	}
	return buf.Bytes(), nil
}
