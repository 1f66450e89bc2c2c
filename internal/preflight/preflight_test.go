package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"photostrip/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCameraDevice(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		if result := CheckCameraDevice("  "); result.Passed {
			t.Fatal("expected failure for empty device")
		}
	})
	t.Run("missing", func(t *testing.T) {
		if result := CheckCameraDevice(filepath.Join(t.TempDir(), "video9")); result.Passed {
			t.Fatal("expected failure for missing device")
		}
	})
	t.Run("directory", func(t *testing.T) {
		if result := CheckCameraDevice(t.TempDir()); result.Passed {
			t.Fatal("expected failure for directory")
		}
	})
	t.Run("readable", func(t *testing.T) {
		node := filepath.Join(t.TempDir(), "video0")
		if err := os.WriteFile(node, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("PATH", t.TempDir())
		result := CheckCameraDevice(node)
		if !result.Passed {
			t.Fatalf("expected pass, got: %s", result.Detail)
		}
		if result.Detail != node+" (readable)" {
			t.Fatalf("unexpected detail %q", result.Detail)
		}
	})
}

func TestCheckDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	result := CheckDatabase(context.Background(), path)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to be created: %v", err)
	}

	missingParent := filepath.Join(t.TempDir(), "missing", "deeper", "sessions.db")
	if result := CheckDatabase(context.Background(), missingParent); result.Passed {
		t.Fatal("expected failure when parent directory is missing")
	}
}

func TestParseCameraInfo(t *testing.T) {
	output := "Driver Info:\n\tDriver name      : uvcvideo\n\tCard type        : HD Webcam C615\n\tBus info         : usb-0000:00:14.0-1\n"
	probe := parseCameraInfo("/dev/video0", output)
	if !probe.Detected {
		t.Fatal("expected camera to be detected")
	}
	if probe.Card != "HD Webcam C615" || probe.Driver != "uvcvideo" {
		t.Fatalf("unexpected probe %#v", probe)
	}
	if got := probe.CameraDetail(); got != "HD Webcam C615 (uvcvideo) on /dev/video0" {
		t.Fatalf("unexpected detail %q", got)
	}

	empty := parseCameraInfo("/dev/video1", "")
	if empty.Detected {
		t.Fatal("expected empty output to be undetected")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	cfg := config.Default()
	cfg.Capture.FFmpegBinary = ""
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Command != stub {
		t.Fatalf("expected ffmpeg resolved from PATH, got %#v", statuses[0])
	}
	if statuses[1].Available || !statuses[1].Optional {
		t.Fatalf("expected optional v4l2-ctl to be missing, got %#v", statuses[1])
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, false)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.LogDir = ""

	results := RunAll(context.Background(), &cfg, false)
	// state + output directories and the database
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %#v", failed)
	}
}

func TestRunAll_IncludesCameraWhenLive(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.LogDir = ""
	cfg.Capture.Device = filepath.Join(t.TempDir(), "video0")

	results := RunAll(context.Background(), &cfg, true)
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Camera" {
		t.Fatalf("expected only the camera check to fail, got %#v", failed)
	}
}
