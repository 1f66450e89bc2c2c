package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir  string `toml:"state_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Capture contains the timed acquisition settings.
type Capture struct {
	TimerSeconds         int    `toml:"timer_seconds"`
	HoldMillis           int    `toml:"hold_ms"`
	StabilizeMillis      int    `toml:"stabilize_ms"`
	RetryDelayMillis     int    `toml:"retry_delay_ms"`
	InterShotMillis      int    `toml:"inter_shot_ms"`
	LiveFilter           bool   `toml:"live_filter"`
	Device               string `toml:"device"`
	Width                int    `toml:"width"`
	Height               int    `toml:"height"`
	FFmpegBinary         string `toml:"ffmpeg_binary"`
	WaitForDeviceSeconds int    `toml:"wait_for_device_seconds"`
}

// LayoutEntry describes one layout in the injected layout table.
type LayoutEntry struct {
	Name       string `toml:"name"`
	PhotoCount int    `toml:"photo_count"`
	Columns    int    `toml:"columns"`
	Wide       bool   `toml:"wide"`
}

// Layouts contains the layout table and the default selection.
type Layouts struct {
	Default      string                 `toml:"default"`
	RegistryFile string                 `toml:"registry_file"`
	Table        map[string]LayoutEntry `toml:"table"`
}

// Render contains composite geometry settings.
type Render struct {
	PhotoWidth  int    `toml:"photo_width"`
	PhotoHeight int    `toml:"photo_height"`
	Gutter      int    `toml:"gutter"`
	Padding     int    `toml:"padding"`
	Supersample int    `toml:"supersample"`
	Title       string `toml:"title"`
	Footer      string `toml:"footer"`
	FrameColor  string `toml:"frame_color"`
}

// Export contains artifact encoder settings.
type Export struct {
	PageSize         string `toml:"page_size"`
	AnimationWidth   int    `toml:"animation_width"`
	AnimationHeight  int    `toml:"animation_height"`
	AnimationDelayMs int    `toml:"animation_delay_ms"`
	ScanCodeSize     int    `toml:"scan_code_size"`
	PublicBaseURL    string `toml:"public_base_url"`
}

// Overlay contains decorative overlay defaults.
type Overlay struct {
	DefaultDensity int   `toml:"default_density"`
	Seed           int64 `toml:"seed"`
}

// Server contains the artifact server settings.
type Server struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for photostrip.
//
// Configuration sections by subsystem:
//   - Paths: state, output, and log directories
//   - Capture: countdown timing, retry delay, and the live camera device
//   - Layouts: injected layout table (photo count and grid geometry)
//   - Render: composite geometry and strip text
//   - Export: page size, animation geometry, and scan code settings
//   - Overlay: scatter defaults
//   - Server: artifact server bind address
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Capture Capture `toml:"capture"`
	Layouts Layouts `toml:"layouts"`
	Render  Render  `toml:"render"`
	Export  Export  `toml:"export"`
	Overlay Overlay `toml:"overlay"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/photostrip/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("photostrip.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state, output, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the session database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StateDir, "sessions.db")
}

// DeviceLockPath returns the lock file guarding the capture device.
func (c *Config) DeviceLockPath() string {
	return filepath.Join(c.Paths.StateDir, "capture.lock")
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "photostrip.log")
}

// Timings converts the millisecond settings into durations.
func (c *Config) Timings() Timings {
	return Timings{
		Tick:       time.Second,
		Hold:       time.Duration(c.Capture.HoldMillis) * time.Millisecond,
		Stabilize:  time.Duration(c.Capture.StabilizeMillis) * time.Millisecond,
		RetryDelay: time.Duration(c.Capture.RetryDelayMillis) * time.Millisecond,
		InterShot:  time.Duration(c.Capture.InterShotMillis) * time.Millisecond,
	}
}

// Timings groups the capture suspension points.
type Timings struct {
	Tick       time.Duration
	Hold       time.Duration
	Stabilize  time.Duration
	RetryDelay time.Duration
	InterShot  time.Duration
}

// AnimationDelay returns the inter-frame delay of the animated export.
func (c *Config) AnimationDelay() time.Duration {
	return time.Duration(c.Export.AnimationDelayMs) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
