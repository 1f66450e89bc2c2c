package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateLayouts(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if c.Overlay.DefaultDensity < 0 {
		return errors.New("overlay.default_density must be >= 0")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.TimerSeconds < 1 || c.Capture.TimerSeconds > maxTimerSeconds {
		return fmt.Errorf("capture.timer_seconds must be between 1 and %d", maxTimerSeconds)
	}
	for key, value := range map[string]int{
		"capture.hold_ms":        c.Capture.HoldMillis,
		"capture.stabilize_ms":   c.Capture.StabilizeMillis,
		"capture.retry_delay_ms": c.Capture.RetryDelayMillis,
		"capture.inter_shot_ms":  c.Capture.InterShotMillis,
	} {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}

func (c *Config) validateLayouts() error {
	if c.Layouts.RegistryFile != "" {
		// The registry file is validated when the layout package loads it.
		return nil
	}
	if _, ok := c.Layouts.Table[c.Layouts.Default]; !ok {
		return fmt.Errorf("layouts.default %q is not present in layouts.table", c.Layouts.Default)
	}
	for id, entry := range c.Layouts.Table {
		if entry.PhotoCount <= 0 {
			return fmt.Errorf("layouts.table.%s.photo_count must be positive", id)
		}
	}
	return nil
}

func (c *Config) validateRender() error {
	if err := ensurePositiveMap(map[string]int{
		"render.photo_width":  c.Render.PhotoWidth,
		"render.photo_height": c.Render.PhotoHeight,
	}); err != nil {
		return err
	}
	if c.Render.Gutter < 0 || c.Render.Padding < 0 {
		return errors.New("render.gutter and render.padding must be >= 0")
	}
	if c.Render.Supersample < 1 || c.Render.Supersample > maxSupersample {
		return fmt.Errorf("render.supersample must be between 1 and %d", maxSupersample)
	}
	return nil
}

func (c *Config) validateExport() error {
	if err := ensurePositiveMap(map[string]int{
		"export.animation_width":    c.Export.AnimationWidth,
		"export.animation_height":   c.Export.AnimationHeight,
		"export.animation_delay_ms": c.Export.AnimationDelayMs,
		"export.scan_code_size":     c.Export.ScanCodeSize,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(c.Export.PublicBaseURL) == "" {
		return errors.New("export.public_base_url must be set")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
