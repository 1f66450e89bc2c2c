package main

import (
	"fmt"
	"io"

	"photostrip/internal/capture"
)

// progressPrinter renders sequencer events as terminal lines.
type progressPrinter struct {
	out      io.Writer
	colorize bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, colorize: shouldColorize(out)}
}

func (p *progressPrinter) handle(ev capture.Event) {
	if line, color := progressLine(ev); line != "" {
		fmt.Fprintln(p.out, paint(line, color, p.colorize))
	}
}

func progressLine(ev capture.Event) (string, string) {
	slot := fmt.Sprintf("Photo %d/%d", ev.PhotoIndex, ev.PhotoCount)
	switch ev.Kind {
	case capture.EventOpened:
		return "Camera ready", ansiBlue
	case capture.EventTick:
		if ev.TicksRemaining <= 0 {
			return "", ""
		}
		return fmt.Sprintf("%s: %d...", slot, ev.TicksRemaining), ""
	case capture.EventCaptureNow:
		return slot + ": smile!", ansiBold
	case capture.EventCaptured:
		return slot + " captured", ansiGreen
	case capture.EventRetry:
		return fmt.Sprintf("%s missed, retrying (%v)", slot, ev.Err), ansiYellow
	case capture.EventSkipped:
		return slot + " skipped", ansiYellow
	case capture.EventFinalized:
		return fmt.Sprintf("Captured %d of %d photos", ev.Captured, ev.PhotoCount), ansiGreen
	case capture.EventAborted:
		return "Capture aborted", ansiRed
	default:
		return "", ""
	}
}
