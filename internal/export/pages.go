package export

import (
	"fmt"
	"strings"

	"photostrip/internal/failures"
)

// PageSize is a fixed document page format in millimetres.
type PageSize struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

var (
	A4     = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}
	A5     = PageSize{Name: "A5", WidthMM: 148, HeightMM: 210}
	Letter = PageSize{Name: "Letter", WidthMM: 215.9, HeightMM: 279.4}
)

// LookupPageSize resolves a configured page format.
func LookupPageSize(name string) (PageSize, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "A4":
		return A4, nil
	case "A5":
		return A5, nil
	case "LETTER":
		return Letter, nil
	default:
		return PageSize{}, failures.Wrap(failures.ErrConfiguration, "export", "page size", fmt.Sprintf("unsupported page size %q", name), nil)
	}
}

// points converts millimetres to PDF points.
func points(mm float64) float64 {
	return mm * 72 / 25.4
}

// Page places one page of a continuous strip. The image is scaled to the
// page width; Offset is the vertical position of the image origin relative
// to the page top, in the same units as the page height.
type Page struct {
	Index  int
	Offset float64
}

// PlanPages tiles an image of imageHeight across pages of pageHeight. A new
// page starts only while image height remains beyond the pages placed so
// far, and page k is offset by -k*pageHeight.
func PlanPages(imageHeight, pageHeight float64) []Page {
	pages := []Page{{Index: 0, Offset: 0}}
	if pageHeight <= 0 {
		return pages
	}
	// Tolerate float noise so an exact multiple does not spill a blank page.
	epsilon := pageHeight * 1e-9
	remaining := imageHeight - pageHeight
	for remaining > epsilon {
		pages = append(pages, Page{Index: len(pages), Offset: remaining - imageHeight})
		remaining -= pageHeight
	}
	return pages
}
