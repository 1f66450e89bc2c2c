package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  ", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected blank command to be reported as not configured, got %#v", results[2])
	}
	if !results[2].Optional {
		t.Fatalf("expected optional flag to carry through")
	}
}

func TestResolveFFmpegConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "ffmpeg-custom")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := ResolveFFmpeg(binary)
	if !status.Available {
		t.Fatalf("expected configured binary to be available, got %#v", status)
	}
	if status.Command != binary {
		t.Fatalf("expected command %q, got %q", binary, status.Command)
	}
}

func TestResolveFFmpegNotExecutable(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(binary, []byte("not a program"), 0o644); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := ResolveFFmpeg(binary)
	if status.Available {
		t.Fatal("expected non-executable file to be unavailable")
	}
	if status.Detail == "" {
		t.Fatal("expected detail for non-executable binary")
	}
}

func TestResolveFFmpegFromPath(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", dir)

	status := ResolveFFmpeg("")
	if !status.Available {
		t.Fatalf("expected ffmpeg on PATH to resolve, got %#v", status)
	}
	if status.Command != stub {
		t.Fatalf("expected resolved path %q, got %q", stub, status.Command)
	}
}

func TestResolveFFmpegMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	status := ResolveFFmpeg("ffmpeg")
	if status.Available {
		t.Fatal("expected missing ffmpeg to be unavailable")
	}
	if status.Command != "ffmpeg" {
		t.Fatalf("unexpected command: %q", status.Command)
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "ok", Available: true},
		{Name: "optional", Optional: true},
		{Name: "required"},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "required" {
		t.Fatalf("unexpected missing set: %#v", missing)
	}
	if MissingRequired(statuses[:2]) != nil {
		t.Fatal("expected nil when every required dependency is available")
	}
}
