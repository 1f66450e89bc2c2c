package layout_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"photostrip/internal/config"
	"photostrip/internal/failures"
	"photostrip/internal/layout"
)

func TestFromConfigUsesInjectedTable(t *testing.T) {
	cfg := config.Default()
	reg, err := layout.FromConfig(&cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	want := map[string]int{"layout-a": 4, "layout-b": 3, "layout-c": 2, "layout-d": 6}
	for id, count := range want {
		got, err := reg.PhotoCount(id)
		if err != nil {
			t.Fatalf("PhotoCount(%s): %v", id, err)
		}
		if got != count {
			t.Errorf("PhotoCount(%s) = %d, want %d", id, got, count)
		}
	}

	d, _ := reg.Lookup("LAYOUT-D")
	if d.Columns != 2 || d.Rows() != 3 {
		t.Fatalf("unexpected layout-d geometry: %+v rows=%d", d, d.Rows())
	}
	if d.Name != "Layout D" || d.Label() != "Layout D (6 photos)" {
		t.Fatalf("unexpected display name %q / %q", d.Name, d.Label())
	}
	if reg.Default().ID != "layout-a" {
		t.Fatalf("unexpected default %q", reg.Default().ID)
	}
}

func TestAlternateTableChangesCounts(t *testing.T) {
	cfg := config.Default()
	cfg.Layouts.Table["layout-a"] = config.LayoutEntry{PhotoCount: 6, Columns: 2}
	reg, err := layout.FromConfig(&cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if n, _ := reg.PhotoCount("layout-a"); n != 6 {
		t.Fatalf("expected configured count 6, got %d", n)
	}
}

func TestLookupUnknown(t *testing.T) {
	cfg := config.Default()
	reg, err := layout.FromConfig(&cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if _, err := reg.Lookup("layout-z"); !errors.Is(err, failures.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if l, err := reg.Lookup(""); err != nil || l.ID != "layout-a" {
		t.Fatalf("empty id should resolve to default, got %+v %v", l, err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	body := `default: duo
layouts:
  - id: duo
    photo_count: 2
    wide: true
  - id: grid
    name: Party Grid
    photo_count: 4
    columns: 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	reg, err := layout.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if reg.Default().ID != "duo" || !reg.Default().Wide {
		t.Fatalf("unexpected default layout %+v", reg.Default())
	}
	grid, err := reg.Lookup("grid")
	if err != nil {
		t.Fatalf("Lookup grid: %v", err)
	}
	if grid.Name != "Party Grid" || grid.Rows() != 2 {
		t.Fatalf("unexpected grid layout %+v", grid)
	}
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.toml")
	body := `default = "single"

[[layouts]]
id = "single"
photo_count = 1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	reg, err := layout.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if reg.Default().Label() != "Single (1 photo)" {
		t.Fatalf("unexpected label %q", reg.Default().Label())
	}
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	if _, err := layout.New("x"); !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected configuration error for empty registry, got %v", err)
	}
	if _, err := layout.New("x", layout.Layout{ID: "x"}); !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected configuration error for zero photo count, got %v", err)
	}
	if _, err := layout.LoadFile(filepath.Join(t.TempDir(), "layouts.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
