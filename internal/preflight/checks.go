package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"photostrip/internal/config"
	"photostrip/internal/deps"
	"photostrip/internal/store"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCameraDevice verifies that the capture device node exists and can be
// opened for reading by the current user.
func CheckCameraDevice(device string) Result {
	const name = "Camera"

	device = strings.TrimSpace(device)
	if device == "" {
		return Result{Name: name, Detail: "capture.device is not configured"}
	}
	info, err := os.Stat(device)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: not connected)", device)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", device, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", device)}
	}
	if err := unix.Access(device, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", device, err)}
	}
	return Result{Name: name, Passed: true, Detail: ProbeCamera(device).CameraDetail()}
}

// CheckDatabase verifies that the session database opens and its schema is
// current. The database file is created when it does not exist yet.
func CheckDatabase(ctx context.Context, path string) Result {
	const name = "Session database"

	if err := ctx.Err(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	st, err := store.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer st.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema ok)", path)}
}

// CheckSystemDeps evaluates the external binaries photostrip runs. Both the
// doctor command and live capture use this to share the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil {
		return nil
	}
	statuses := []deps.Status{deps.ResolveFFmpeg(cfg.Capture.FFmpegBinary)}
	return append(statuses, deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "v4l2-ctl",
			Command:     "v4l2-ctl",
			Description: "Reports the camera name in doctor output",
			Optional:    true,
		},
	})...)
}
