// Package layout is the lookup table mapping a layout id to its photo count
// and grid geometry. The table is always injected from configuration or a
// registry file; nothing in the capture pipeline hard-codes photo counts.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"photostrip/internal/config"
	"photostrip/internal/failures"
)

// Layout fixes how many photos a session captures and how they are arranged.
type Layout struct {
	ID         string `yaml:"id" toml:"id"`
	Name       string `yaml:"name" toml:"name"`
	PhotoCount int    `yaml:"photo_count" toml:"photo_count"`
	Columns    int    `yaml:"columns" toml:"columns"`
	// Wide layouts render each photo at double width (vertical-wide strips).
	Wide bool `yaml:"wide" toml:"wide"`
}

// Rows returns the number of grid rows needed for PhotoCount photos.
func (l Layout) Rows() int {
	cols := max(l.Columns, 1)
	return (l.PhotoCount + cols - 1) / cols
}

// Label returns "<Name> (<n> photos)".
func (l Layout) Label() string {
	noun := "photos"
	if l.PhotoCount == 1 {
		noun = "photo"
	}
	return fmt.Sprintf("%s (%d %s)", l.Name, l.PhotoCount, noun)
}

// Registry resolves layout ids.
type Registry struct {
	layouts   map[string]Layout
	defaultID string
}

type registryFile struct {
	Default string   `yaml:"default" toml:"default"`
	Layouts []Layout `yaml:"layouts" toml:"layouts"`
}

// FromConfig builds the registry from the config table, or from the registry
// file when one is configured.
func FromConfig(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, failures.Wrap(failures.ErrConfiguration, "layout", "registry", "config is required", nil)
	}
	if cfg.Layouts.RegistryFile != "" {
		reg, err := LoadFile(cfg.Layouts.RegistryFile)
		if err != nil {
			return nil, err
		}
		if cfg.Layouts.Default != "" {
			if _, ok := reg.layouts[cfg.Layouts.Default]; ok {
				reg.defaultID = cfg.Layouts.Default
			}
		}
		return reg, nil
	}
	entries := make([]Layout, 0, len(cfg.Layouts.Table))
	for id, entry := range cfg.Layouts.Table {
		entries = append(entries, Layout{
			ID:         id,
			Name:       entry.Name,
			PhotoCount: entry.PhotoCount,
			Columns:    entry.Columns,
			Wide:       entry.Wide,
		})
	}
	return New(cfg.Layouts.Default, entries...)
}

// New validates entries and builds a registry.
func New(defaultID string, entries ...Layout) (*Registry, error) {
	if len(entries) == 0 {
		return nil, failures.Wrap(failures.ErrConfiguration, "layout", "registry", "no layouts defined", nil)
	}
	reg := &Registry{layouts: make(map[string]Layout, len(entries))}
	for _, entry := range entries {
		entry.ID = normalizeID(entry.ID)
		if entry.ID == "" {
			return nil, failures.Wrap(failures.ErrConfiguration, "layout", "registry", "layout id is required", nil)
		}
		if entry.PhotoCount <= 0 {
			return nil, failures.Wrap(failures.ErrConfiguration, "layout", "registry",
				fmt.Sprintf("layout %s: photo_count must be positive", entry.ID), nil)
		}
		if entry.Columns <= 0 {
			entry.Columns = 1
		}
		if strings.TrimSpace(entry.Name) == "" {
			entry.Name = displayName(entry.ID)
		}
		if _, dup := reg.layouts[entry.ID]; dup {
			return nil, failures.Wrap(failures.ErrConfiguration, "layout", "registry",
				fmt.Sprintf("duplicate layout %s", entry.ID), nil)
		}
		reg.layouts[entry.ID] = entry
	}
	reg.defaultID = normalizeID(defaultID)
	if _, ok := reg.layouts[reg.defaultID]; !ok {
		reg.defaultID = reg.IDs()[0]
	}
	return reg, nil
}

// LoadFile reads a YAML (.yaml/.yml) or TOML (.toml) registry file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failures.Wrap(failures.ErrConfiguration, "layout", "load registry", "read registry file", err)
	}
	var parsed registryFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &parsed)
	case ".toml":
		err = toml.Unmarshal(data, &parsed)
	default:
		return nil, failures.Wrap(failures.ErrConfiguration, "layout", "load registry",
			fmt.Sprintf("unsupported registry format %q", filepath.Ext(path)), nil)
	}
	if err != nil {
		return nil, failures.Wrap(failures.ErrConfiguration, "layout", "load registry", "parse registry file", err)
	}
	return New(parsed.Default, parsed.Layouts...)
}

// Lookup returns the layout for id.
func (r *Registry) Lookup(id string) (Layout, error) {
	key := normalizeID(id)
	if key == "" {
		key = r.defaultID
	}
	l, ok := r.layouts[key]
	if !ok {
		return Layout{}, failures.Wrap(failures.ErrNotFound, "layout", "lookup",
			fmt.Sprintf("unknown layout %q", id), nil)
	}
	return l, nil
}

// PhotoCount returns how many photos id captures.
func (r *Registry) PhotoCount(id string) (int, error) {
	l, err := r.Lookup(id)
	if err != nil {
		return 0, err
	}
	return l.PhotoCount, nil
}

// Default returns the configured default layout.
func (r *Registry) Default() Layout {
	return r.layouts[r.defaultID]
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.layouts))
	for id := range r.layouts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every layout in id order.
func (r *Registry) All() []Layout {
	ids := r.IDs()
	out := make([]Layout, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.layouts[id])
	}
	return out
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// displayName turns "layout-a" into "Layout A".
func displayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
