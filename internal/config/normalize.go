package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCapture()
	if err := c.normalizeLayouts(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCapture() {
	c.Capture.Device = strings.TrimSpace(c.Capture.Device)
	c.Capture.FFmpegBinary = strings.TrimSpace(c.Capture.FFmpegBinary)
	if c.Capture.FFmpegBinary == "" {
		c.Capture.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = defaultCaptureWidth
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = defaultCaptureHeight
	}
	if c.Capture.WaitForDeviceSeconds < 0 {
		c.Capture.WaitForDeviceSeconds = 0
	}
}

func (c *Config) normalizeLayouts() error {
	c.Layouts.Default = strings.ToLower(strings.TrimSpace(c.Layouts.Default))
	if c.Layouts.Default == "" {
		c.Layouts.Default = defaultLayout
	}
	if strings.TrimSpace(c.Layouts.RegistryFile) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Layouts.RegistryFile))
		if err != nil {
			return fmt.Errorf("layouts.registry_file: %w", err)
		}
		c.Layouts.RegistryFile = expanded
	}
	if len(c.Layouts.Table) == 0 {
		c.Layouts.Table = DefaultLayouts()
		return nil
	}
	table := make(map[string]LayoutEntry, len(c.Layouts.Table))
	for id, entry := range c.Layouts.Table {
		key := strings.ToLower(strings.TrimSpace(id))
		if key == "" {
			continue
		}
		if entry.Columns <= 0 {
			entry.Columns = 1
		}
		entry.Name = strings.TrimSpace(entry.Name)
		table[key] = entry
	}
	c.Layouts.Table = table
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.Title = strings.TrimSpace(c.Render.Title)
	c.Render.Footer = strings.TrimSpace(c.Render.Footer)
	c.Render.FrameColor = strings.ToLower(strings.TrimSpace(c.Render.FrameColor))
	if c.Render.FrameColor == "" {
		c.Render.FrameColor = defaultFrameColor
	}
	if c.Render.Supersample == 0 {
		c.Render.Supersample = defaultSupersample
	}
}

func (c *Config) normalizeExport() {
	c.Export.PageSize = strings.ToUpper(strings.TrimSpace(c.Export.PageSize))
	if c.Export.PageSize == "" {
		c.Export.PageSize = defaultPageSize
	}
	if value, ok := os.LookupEnv(publicBaseURLEnvironment); ok && strings.TrimSpace(value) != "" {
		c.Export.PublicBaseURL = strings.TrimSpace(value)
	}
	c.Export.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Export.PublicBaseURL), "/")
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
