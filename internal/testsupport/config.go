package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"photostrip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Capture timings are zeroed so sequences finish instantly against a real
// clock; tests that assert timing use a fake clock instead.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Capture.Device = filepath.Join(base, "dev", "video0")
	cfgVal.Capture.Width = 8
	cfgVal.Capture.Height = 6
	cfgVal.Capture.HoldMillis = 0
	cfgVal.Capture.StabilizeMillis = 0
	cfgVal.Capture.RetryDelayMillis = 0
	cfgVal.Capture.InterShotMillis = 0
	cfgVal.Render.PhotoWidth = 32
	cfgVal.Render.PhotoHeight = 24
	cfgVal.Render.Gutter = 4
	cfgVal.Render.Padding = 6
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Export.PublicBaseURL = "http://booth.test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithLayoutTable replaces the layout table with a single layout of count photos.
func WithLayoutTable(id string, count, columns int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Layouts.Default = id
		b.cfg.Layouts.Table = map[string]config.LayoutEntry{
			id: {PhotoCount: count, Columns: columns},
		}
	}
}

// WithCameraDevice creates a readable placeholder at the configured device path.
func WithCameraDevice() ConfigOption {
	return func(b *configBuilder) {
		path := b.cfg.Capture.Device
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			b.t.Fatalf("mkdir device dir: %v", err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			b.t.Fatalf("write device placeholder: %v", err)
		}
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed with a script
// that emits one solid frame at the configured capture size.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			size := b.cfg.Capture.Width * b.cfg.Capture.Height * 4
			writeStub(b, "ffmpeg", fmt.Sprintf("#!/bin/sh\nhead -c %d /dev/zero | tr '\\000' '\\200'\n", size))
			return
		}
		for _, name := range names {
			writeStub(b, name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// WithFailingFFmpeg stubs ffmpeg with a script that always exits non-zero.
func WithFailingFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		writeStub(b, "ffmpeg", "#!/bin/sh\necho 'device busy' >&2\nexit 1\n")
	}
}

func writeStub(b *configBuilder, name, script string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		b.t.Fatalf("set PATH: %v", err)
	}
	b.t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
