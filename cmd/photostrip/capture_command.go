package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"photostrip/internal/capture"
	"photostrip/internal/config"
	"photostrip/internal/deps"
	"photostrip/internal/failures"
	"photostrip/internal/fileutil"
	"photostrip/internal/filter"
	"photostrip/internal/layout"
	"photostrip/internal/logging"
	"photostrip/internal/preflight"
	"photostrip/internal/source"
)

const maxTimerSeconds = 30

// newCaptureClock is swapped by tests to skip real countdown waits.
var newCaptureClock = func() capture.Clock { return capture.RealClock{} }

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags
	var layoutID string
	var filterName string
	var timer int
	var images []string
	var skipExport bool

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Run a timed capture session and export the strip",
		Long: "Run the countdown and capture sequence against the configured camera, or\n" +
			"replay a set of image files with --images. The session is saved to the\n" +
			"session database and exported to <output_dir>/<session label>/.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			registry, err := layout.FromConfig(cfg)
			if err != nil {
				return err
			}
			chosen := registry.Default()
			if id := strings.TrimSpace(layoutID); id != "" {
				if chosen, err = registry.Lookup(id); err != nil {
					return err
				}
			}
			if strings.TrimSpace(filterName) != "" && !filter.Known(filterName) {
				return failures.Wrap(failures.ErrValidation, "cli", "capture",
					fmt.Sprintf("unknown filter %q (run `photostrip filters` for the list)", filterName), nil)
			}
			live := len(images) == 0
			timerSeconds := cfg.Capture.TimerSeconds
			switch {
			case cmd.Flags().Changed("timer"):
				timerSeconds = timer
			case !live:
				// Uploaded images need no posing time.
				timerSeconds = 0
			}
			if cmd.Flags().Changed("timer") && (timerSeconds < 1 || timerSeconds > maxTimerSeconds) {
				return failures.Wrap(failures.ErrValidation, "cli", "capture",
					fmt.Sprintf("--timer must be between 1 and %d seconds", maxTimerSeconds), nil)
			}

			opts, err := flags.options()
			if err != nil {
				return err
			}
			exportKinds, err := flags.kinds()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			st, err := ctx.openStore()
			if err != nil {
				return err
			}

			var src source.FrameSource
			deviceHash := capture.DeviceHash("upload")
			if live {
				lock, err := capture.AcquireDeviceLock(cfg.DeviceLockPath())
				if err != nil {
					return err
				}
				defer func() {
					if err := lock.Release(); err != nil {
						logger.Debug("release device lock", logging.Error(err))
					}
				}()
				if err := prepareCamera(signalCtx, cfg, logger); err != nil {
					return err
				}
				src = source.NewLiveStream(cfg.Capture, logger)
				deviceHash = capture.DeviceHash(cfg.Capture.Device)
			} else {
				set, err := source.LoadStaticImageSet(images, chosen.PhotoCount)
				if err != nil {
					return err
				}
				src = set
			}

			printer := newProgressPrinter(cmd.OutOrStdout())
			seq := capture.NewSequencer(capture.Options{
				Timings:    cfg.Timings(),
				LiveFilter: cfg.Capture.LiveFilter,
				Layout:     chosen.ID,
				DeviceHash: deviceHash,
				Clock:      newCaptureClock(),
				Persister:  st,
				Logger:     logger,
				OnEvent:    printer.handle,
			})
			session, err := seq.StartSequence(signalCtx, src, filter.Parse(filterName), timerSeconds, chosen.PhotoCount)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s (%s)\n", session.Label, session.ID)
			if session.Partial() {
				fmt.Fprintf(out, "Skipped photos: %s\n", formatSlots(session.Skipped))
			}
			if skipExport {
				return nil
			}

			service, err := ctx.artifacts()
			if err != nil {
				return err
			}
			dir := filepath.Join(cfg.Paths.OutputDir, fileutil.SafeName(session.Label, session.ID))
			return exportSession(signalCtx, cmd, service, session, dir, exportKinds, opts)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&layoutID, "layout", "l", "", "Layout id (default from config)")
	cmd.Flags().StringVarP(&filterName, "filter", "f", "", "Color filter (run `photostrip filters` for the list)")
	cmd.Flags().IntVarP(&timer, "timer", "t", 0, "Countdown seconds before each photo (default from config)")
	cmd.Flags().StringSliceVar(&images, "images", nil, "Use these image files instead of the camera")
	cmd.Flags().BoolVar(&skipExport, "no-export", false, "Save the session without writing artifacts")
	return cmd
}

// prepareCamera waits for a hotplugged camera and runs the live preflight
// checks so a missing device fails before any countdown.
func prepareCamera(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	wait := time.Duration(cfg.Capture.WaitForDeviceSeconds) * time.Second
	if wait > 0 {
		if err := source.WaitForDevice(ctx, cfg.Capture.Device, wait, logger); err != nil {
			return err
		}
	}
	if missing := deps.MissingRequired(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
		return failures.Wrap(failures.ErrSourceUnavailable, "cli", "preflight",
			fmt.Sprintf("%s: %s", missing[0].Name, missing[0].Detail), nil)
	}
	failed := preflight.Failed(preflight.RunAll(ctx, cfg, true))
	if len(failed) == 0 {
		return nil
	}
	problems := make([]error, 0, len(failed))
	for _, result := range failed {
		problems = append(problems, fmt.Errorf("%s: %s", result.Name, result.Detail))
	}
	return failures.Wrap(failures.ErrSourceUnavailable, "cli", "preflight",
		"run `photostrip doctor` for details", errors.Join(problems...))
}

func formatSlots(slots []int) string {
	parts := make([]string, len(slots))
	for i, slot := range slots {
		parts[i] = fmt.Sprintf("#%d", slot)
	}
	return strings.Join(parts, ", ")
}
