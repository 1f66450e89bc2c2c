package deps

import "strings"

const defaultFFmpeg = "ffmpeg"

// ResolveFFmpeg reports the ffmpeg binary the live camera source will run.
// An empty configured value falls back to "ffmpeg" on PATH.
func ResolveFFmpeg(configured string) Status {
	binary := strings.TrimSpace(configured)
	if binary == "" {
		binary = defaultFFmpeg
	}
	return check(Requirement{
		Name:        "FFmpeg",
		Command:     binary,
		Description: "Grabs frames from the live camera",
	})
}
