package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"photostrip/internal/compose"
	"photostrip/internal/failures"
)

func init() {
	// Keep pdfcpu from writing its config directory under $HOME.
	api.DisableConfigDir()
}

// Document rasterizes the composite and tiles it across fixed-size pages so
// the pages read as one continuous strip.
func Document(c *compose.Composite, scale int, size PageSize) ([]byte, error) {
	img, err := c.Rasterize(scale)
	if err != nil {
		return nil, err
	}
	return documentFromImage(img, size)
}

func documentFromImage(img *image.RGBA, size PageSize) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Empty() || size.WidthMM <= 0 || size.HeightMM <= 0 {
		return nil, failures.Wrap(failures.ErrRender, "export", "document", "nothing to paginate", nil)
	}
	// Page height expressed in image pixels once the image spans the page width.
	pageHeight := int(math.Round(float64(bounds.Dx()) * size.HeightMM / size.WidthMM))
	pages := PlanPages(float64(bounds.Dy()), float64(pageHeight))

	readers := make([]io.Reader, 0, len(pages))
	for _, page := range pages {
		slice := pageSlice(img, page, pageHeight)
		data, err := encodePNG(slice)
		if err != nil {
			return nil, err
		}
		readers = append(readers, bytes.NewReader(data))
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.PageSize = size.Name
	imp.PageDim = &types.Dim{Width: points(size.WidthMM), Height: points(size.HeightMM)}
	imp.UserDim = true
	imp.Pos = types.Full

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, model.NewDefaultConfiguration()); err != nil {
		return nil, failures.Wrap(failures.ErrRender, "export", "document",
			fmt.Sprintf("assemble %d page(s)", len(pages)), err)
	}
	return out.Bytes(), nil
}

// pageSlice copies the part of img visible on page into a page-sized white
// canvas. The image origin sits at page.Offset relative to the page top.
func pageSlice(img *image.RGBA, page Page, pageHeight int) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), pageHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	top := bounds.Min.Y - int(math.Round(page.Offset))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(bounds.Min.X, top), draw.Over)
	return dst
}
