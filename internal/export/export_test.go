package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"photostrip/internal/capture"
	"photostrip/internal/compose"
	"photostrip/internal/failures"
	"photostrip/internal/filter"
	"photostrip/internal/frame"
	"photostrip/internal/layout"
	"photostrip/internal/overlay"
)

func testComposite(t *testing.T, photos int) *compose.Composite {
	t.Helper()
	r, err := compose.NewRenderer(compose.Options{PhotoWidth: 40, PhotoHeight: 30, Gutter: 4, Padding: 6, Title: "Booth"})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	frames := make([]frame.Raw, photos)
	for i := range frames {
		frames[i] = frame.Solid(16, 12, uint8(40*i), 120, 200, 255)
	}
	session := &capture.Session{ID: "abc", Label: "photobooth_deadbeef_2026-01-02_03-04-05", Filter: filter.Sepia, Expected: 4, Frames: frames}
	treatment, err := compose.NewTreatment("fun", "white")
	if err != nil {
		t.Fatalf("NewTreatment: %v", err)
	}
	c, err := r.RenderComposite(session, treatment, overlay.Snapshot{}, layout.Layout{ID: "layout-a", PhotoCount: 4, Columns: 1})
	if err != nil {
		t.Fatalf("RenderComposite: %v", err)
	}
	return c
}

func TestPlanPages(t *testing.T) {
	tests := []struct {
		name    string
		image   float64
		page    float64
		offsets []float64
	}{
		{name: "shorter than a page", image: 120, page: 297, offsets: []float64{0}},
		{name: "exactly one page", image: 297, page: 297, offsets: []float64{0}},
		{name: "two and a half pages", image: 742.5, page: 297, offsets: []float64{0, -297, -594}},
		{name: "exact multiple", image: 594, page: 297, offsets: []float64{0, -297}},
		{name: "degenerate page", image: 100, page: 0, offsets: []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := PlanPages(tt.image, tt.page)
			if len(pages) != len(tt.offsets) {
				t.Fatalf("expected %d pages, got %d", len(tt.offsets), len(pages))
			}
			for i, p := range pages {
				if p.Index != i || p.Offset != tt.offsets[i] {
					t.Fatalf("page %d: got %+v, want offset %v", i, p, tt.offsets[i])
				}
			}
		})
	}
}

func TestPageSliceContinuesStrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 25))
	for y := 0; y < 25; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(y), A: 255})
		}
	}
	pages := PlanPages(25, 10)
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	second := pageSlice(img, pages[1], 10)
	if got := second.RGBAAt(0, 0).R; got != 10 {
		t.Fatalf("page 2 should start at row 10, got row %d", got)
	}
	last := pageSlice(img, pages[2], 10)
	if got := last.RGBAAt(0, 4).R; got != 24 {
		t.Fatalf("page 3 row 4 should be image row 24, got %d", got)
	}
	if got := last.RGBAAt(0, 5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("page 3 should be padded white, got %v", got)
	}
}

func TestDocumentPageCount(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 210, 700))
	data, err := documentFromImage(img, A4)
	if err != nil {
		t.Fatalf("documentFromImage: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF header")
	}
	count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected ceil(700/297)=3 pages, got %d", count)
	}
}

func TestRasterIsSupersampled(t *testing.T) {
	c := testComposite(t, 4)
	data, err := Raster(c, 2)
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	w, h := c.Bounds()
	if img.Bounds().Dx() != 2*w || img.Bounds().Dy() != 2*h {
		t.Fatalf("expected %dx%d, got %v", 2*w, 2*h, img.Bounds())
	}
}

func TestAnimatedSequence(t *testing.T) {
	frames := []frame.Raw{frame.Solid(64, 48, 255, 0, 0, 255), frame.Solid(64, 48, 0, 0, 255, 255)}
	data, err := AnimatedSequence(frames, 320, 240, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("AnimatedSequence: %v", err)
	}
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(anim.Image))
	}
	for i, d := range anim.Delay {
		if d != 50 {
			t.Fatalf("frame %d delay %d, want 50", i, d)
		}
	}
	if anim.LoopCount != 0 {
		t.Fatalf("expected infinite loop, got %d", anim.LoopCount)
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Fatalf("unexpected frame size %v", b)
	}
	if _, err := AnimatedSequence(nil, 320, 240, time.Second); !errors.Is(err, failures.ErrRender) {
		t.Fatalf("expected render error for empty sequence, got %v", err)
	}
}

func TestScanCode(t *testing.T) {
	link, err := RasterURL("http://booth.test/", "abc")
	if err != nil {
		t.Fatalf("RasterURL: %v", err)
	}
	if link != "http://booth.test/sessions/abc/strip.png" {
		t.Fatalf("unexpected link %q", link)
	}
	data, err := ScanCode(link, 256)
	if err != nil {
		t.Fatalf("ScanCode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 256 || img.Bounds().Dy() != 256 {
		t.Fatalf("unexpected code size %v", img.Bounds())
	}
	if _, err := ScanCode("  ", 256); !errors.Is(err, failures.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExporterProducesEveryKindIndependently(t *testing.T) {
	c := testComposite(t, 3)
	e := New(Options{Supersample: 1, PublicBaseURL: "http://booth.test"})

	before, err := e.Raster(c)
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	var wg sync.WaitGroup
	results := make([][]byte, len(Kinds()))
	errs := make([]error, len(Kinds()))
	for i, kind := range Kinds() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = e.Produce(kind, c, "abc")
		}()
	}
	wg.Wait()
	for i, kind := range Kinds() {
		if errs[i] != nil {
			t.Fatalf("%s: %v", kind, errs[i])
		}
		if len(results[i]) == 0 {
			t.Fatalf("%s: empty payload", kind)
		}
	}
	after, err := e.Raster(c)
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("exports must not change the composite")
	}
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]Kind{"png": KindRaster, ".pdf": KindDocument, "GIF": KindAnimation, "code": KindScanCode} {
		got, err := ParseKind(input)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseKind("tiff"); !errors.Is(err, failures.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if KindDocument.ContentType() != "application/pdf" || KindAnimation.FileName() != "photostrip.gif" {
		t.Fatal("unexpected artifact metadata")
	}
}

func TestLookupPageSize(t *testing.T) {
	if p, err := LookupPageSize("letter"); err != nil || p != Letter {
		t.Fatalf("unexpected letter lookup %+v %v", p, err)
	}
	if _, err := LookupPageSize("B5"); !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
