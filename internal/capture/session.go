package capture

import (
	"fmt"
	"hash/fnv"
	"os"
	"time"

	"photostrip/internal/filter"
	"photostrip/internal/frame"
)

// Session is the ordered set of captured frames. It is finalized when the
// sequencer returns it and must not be mutated afterwards.
type Session struct {
	ID     string
	Label  string
	Layout string
	Filter filter.ID
	// FilterApplied reports whether Frames already carry Filter. Export
	// applies the filter only when this is false, so a frame is filtered once.
	FilterApplied bool
	Expected      int
	Frames        []frame.Raw
	// Skipped lists the 1-based slots that were missed after a retry.
	Skipped   []int
	CreatedAt time.Time
}

// Len returns the number of captured frames.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Partial reports whether fewer frames than expected were captured.
func (s *Session) Partial() bool {
	return s != nil && len(s.Frames) < s.Expected
}

// FinalFrames returns the frames with the session filter applied exactly once.
func (s *Session) FinalFrames() []frame.Raw {
	if s == nil {
		return nil
	}
	out := make([]frame.Raw, len(s.Frames))
	for i, f := range s.Frames {
		if s.FilterApplied {
			out[i] = f
		} else {
			out[i] = filter.Apply(f, s.Filter)
		}
	}
	return out
}

// Blobs encodes the frames as JPEG for the persistence collaborator.
func (s *Session) Blobs() ([][]byte, error) {
	blobs := make([][]byte, 0, s.Len())
	for i, f := range s.Frames {
		data, err := f.EncodeJPEG()
		if err != nil {
			return nil, fmt.Errorf("encode photo %d: %w", i+1, err)
		}
		blobs = append(blobs, data)
	}
	return blobs, nil
}

// SessionLabel formats photobooth_<hash>_<date>_<time>.
func SessionLabel(deviceHash string, at time.Time) string {
	return fmt.Sprintf("photobooth_%s_%s", deviceHash, at.Format("2006-01-02_15-04-05"))
}

// DeviceHash returns an 8-hex-digit fingerprint of the booth host and camera.
func DeviceHash(device string) string {
	host, _ := os.Hostname()
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(device))
	return fmt.Sprintf("%08x", h.Sum32())
}
