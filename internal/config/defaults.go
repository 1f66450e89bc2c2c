package config

const (
	defaultStateDir          = "~/.local/share/photostrip"
	defaultOutputDir         = "~/Pictures/photostrip"
	defaultLogDir            = "~/.local/share/photostrip/logs"
	defaultTimerSeconds      = 3
	defaultHoldMillis        = 1000
	defaultStabilizeMillis   = 500
	defaultRetryDelayMillis  = 500
	defaultInterShotMillis   = 1000
	defaultDevice            = "/dev/video0"
	defaultCaptureWidth      = 640
	defaultCaptureHeight     = 480
	defaultFFmpegBinary      = "ffmpeg"
	defaultLayout            = "layout-a"
	defaultPhotoWidth        = 320
	defaultPhotoHeight       = 240
	defaultGutter            = 12
	defaultPadding           = 24
	defaultSupersample       = 2
	defaultTitle             = "Photo Booth"
	defaultFooter            = "photostrip"
	defaultFrameColor        = "#ffffff"
	defaultPageSize          = "A4"
	defaultAnimationWidth    = 320
	defaultAnimationHeight   = 240
	defaultAnimationDelayMs  = 500
	defaultScanCodeSize      = 256
	defaultServerBind        = "127.0.0.1:7489"
	defaultPublicBaseURL     = "http://" + defaultServerBind
	defaultOverlayDensity    = 20
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	maxTimerSeconds          = 30
	maxSupersample           = 4
	publicBaseURLEnvironment = "PHOTOSTRIP_PUBLIC_BASE_URL"
)

// DefaultLayouts returns the stock layout table used when none is configured.
func DefaultLayouts() map[string]LayoutEntry {
	return map[string]LayoutEntry{
		"layout-a": {PhotoCount: 4, Columns: 1},
		"layout-b": {PhotoCount: 3, Columns: 1},
		"layout-c": {PhotoCount: 2, Columns: 1, Wide: true},
		"layout-d": {PhotoCount: 6, Columns: 2},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Capture: Capture{
			TimerSeconds:     defaultTimerSeconds,
			HoldMillis:       defaultHoldMillis,
			StabilizeMillis:  defaultStabilizeMillis,
			RetryDelayMillis: defaultRetryDelayMillis,
			InterShotMillis:  defaultInterShotMillis,
			LiveFilter:       true,
			Device:           defaultDevice,
			Width:            defaultCaptureWidth,
			Height:           defaultCaptureHeight,
			FFmpegBinary:     defaultFFmpegBinary,
		},
		Layouts: Layouts{
			Default: defaultLayout,
			Table:   DefaultLayouts(),
		},
		Render: Render{
			PhotoWidth:  defaultPhotoWidth,
			PhotoHeight: defaultPhotoHeight,
			Gutter:      defaultGutter,
			Padding:     defaultPadding,
			Supersample: defaultSupersample,
			Title:       defaultTitle,
			Footer:      defaultFooter,
			FrameColor:  defaultFrameColor,
		},
		Export: Export{
			PageSize:         defaultPageSize,
			AnimationWidth:   defaultAnimationWidth,
			AnimationHeight:  defaultAnimationHeight,
			AnimationDelayMs: defaultAnimationDelayMs,
			ScanCodeSize:     defaultScanCodeSize,
			PublicBaseURL:    defaultPublicBaseURL,
		},
		Overlay: Overlay{
			DefaultDensity: defaultOverlayDensity,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
