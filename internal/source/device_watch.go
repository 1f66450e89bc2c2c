package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"photostrip/internal/failures"
	"photostrip/internal/logging"
)

const devicePollInterval = 250 * time.Millisecond

// WaitForDevice blocks until path exists, the timeout elapses, or ctx ends.
// It listens for video4linux add events over udev netlink and falls back to
// polling when the netlink socket cannot be opened.
func WaitForDevice(ctx context.Context, path string, timeout time.Duration, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "device-watch")
	if deviceExists(path) {
		return nil
	}
	if timeout <= 0 {
		return failures.Wrap(failures.ErrSourceUnavailable, "source", "wait for device",
			fmt.Sprintf("camera %s not present", path), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Info("waiting for camera",
		logging.String(logging.FieldEventType, "camera_wait_started"),
		logging.String("device", path),
		logging.Duration("timeout", timeout),
	)

	events := make(chan string, 1)
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		logging.WarnWithContext(logger, "netlink unavailable; polling for camera", "netlink_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "ensure the process may open netlink sockets"),
			logging.String(logging.FieldImpact, "camera hotplug detected by polling"),
		)
	} else {
		defer conn.Close()
		queue := make(chan netlink.UEvent)
		errs := make(chan error)
		quit := conn.Monitor(queue, errs, videoMatcher())
		defer close(quit)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case uevent := <-queue:
					if name := deviceName(uevent); name != "" {
						select {
						case events <- name:
						default:
						}
					}
				case err := <-errs:
					logger.Debug("netlink monitor error", logging.Error(err))
				}
			}
		}()
	}

	ticker := time.NewTicker(devicePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return failures.Wrap(failures.ErrSourceUnavailable, "source", "wait for device",
					fmt.Sprintf("camera %s did not appear within %s", path, timeout), nil)
			}
			return ctx.Err()
		case name := <-events:
			logger.Debug("video device event", logging.String("device", name))
			if name == path && deviceExists(path) {
				logger.Info("camera attached", logging.String("device", path))
				return nil
			}
		case <-ticker.C:
			if deviceExists(path) {
				logger.Info("camera attached", logging.String("device", path))
				return nil
			}
		}
	}
}

// videoMatcher matches SUBSYSTEM=video4linux add events.
func videoMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

// deviceName gets the device path from a uevent.
func deviceName(uevent netlink.UEvent) string {
	if name := uevent.Env["DEVNAME"]; name != "" {
		if !strings.HasPrefix(name, "/") {
			name = "/dev/" + name
		}
		return name
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}

func deviceExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
