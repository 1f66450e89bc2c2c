package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CameraProbe reports the current camera detection snapshot.
type CameraProbe struct {
	Detected bool
	Device   string
	Card     string
	Driver   string
}

// ProbeCamera asks v4l2-ctl for the card and driver names of the device.
// A missing v4l2-ctl yields an undetected probe rather than an error.
func ProbeCamera(device string) CameraProbe {
	device = strings.TrimSpace(device)
	if device == "" {
		device = "/dev/video0"
	}
	if _, err := exec.LookPath("v4l2-ctl"); err != nil {
		return CameraProbe{Device: device}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "v4l2-ctl", "--device", device, "--info")
	output, err := cmd.Output()
	if err != nil {
		return CameraProbe{Device: device}
	}
	return parseCameraInfo(device, string(output))
}

// parseCameraInfo reads the "Card type" and "Driver name" lines of
// v4l2-ctl --info output.
func parseCameraInfo(device, text string) CameraProbe {
	probe := CameraProbe{Device: device}
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Card type":
			probe.Card = strings.TrimSpace(value)
		case "Driver name":
			probe.Driver = strings.TrimSpace(value)
		}
	}
	probe.Detected = probe.Card != "" || probe.Driver != ""
	return probe
}

// CameraDetail renders a display-friendly summary for status output.
func (p CameraProbe) CameraDetail() string {
	if !p.Detected {
		return fmt.Sprintf("%s (readable)", p.Device)
	}
	card := p.Card
	if card == "" {
		card = "Unknown camera"
	}
	if p.Driver == "" {
		return fmt.Sprintf("%s on %s", card, p.Device)
	}
	return fmt.Sprintf("%s (%s) on %s", card, p.Driver, p.Device)
}
