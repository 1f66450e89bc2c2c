package source

import (
	"context"
	"fmt"
	"os"
	"sync"

	"photostrip/internal/failures"
	"photostrip/internal/frame"
)

// StaticImageSet replays a fixed ordered sequence of pre-decoded stills.
// Uploaded images are already in display orientation, so frames are marked
// mirrored and the sequencer does not flip them again.
type StaticImageSet struct {
	mu     sync.Mutex
	frames []frame.Raw
	next   int
}

// NewStaticImageSet validates that exactly want frames were supplied. A count
// mismatch is rejected rather than truncated or padded.
func NewStaticImageSet(frames []frame.Raw, want int) (*StaticImageSet, error) {
	if len(frames) != want {
		return nil, failures.Wrap(failures.ErrValidation, "source", "static set",
			fmt.Sprintf("layout needs %d images, got %d", want, len(frames)), nil)
	}
	stored := make([]frame.Raw, len(frames))
	for i, f := range frames {
		if f.Empty() {
			return nil, failures.Wrap(failures.ErrValidation, "source", "static set",
				fmt.Sprintf("image %d is empty", i+1), frame.ErrEmpty)
		}
		f.Mirrored = true
		stored[i] = f
	}
	return &StaticImageSet{frames: stored}, nil
}

// LoadStaticImageSet decodes JPEG or PNG files into a static set.
func LoadStaticImageSet(paths []string, want int) (*StaticImageSet, error) {
	if len(paths) != want {
		return nil, failures.Wrap(failures.ErrValidation, "source", "static set",
			fmt.Sprintf("layout needs %d images, got %d", want, len(paths)), nil)
	}
	frames := make([]frame.Raw, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, failures.Wrap(failures.ErrSourceUnavailable, "source", "static set",
				fmt.Sprintf("read %s", path), err)
		}
		f, err := frame.Decode(data)
		if err != nil {
			return nil, failures.Wrap(failures.ErrValidation, "source", "static set",
				fmt.Sprintf("decode %s", path), err)
		}
		frames = append(frames, f)
	}
	return NewStaticImageSet(frames, want)
}

// GrabFrame returns the next still, or ErrUnavailable once the set is exhausted.
func (s *StaticImageSet) GrabFrame(ctx context.Context) (frame.Raw, error) {
	if err := ctx.Err(); err != nil {
		return frame.Raw{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.frames) {
		return frame.Raw{}, ErrUnavailable
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

// Len returns the number of stills in the set.
func (s *StaticImageSet) Len() int {
	return len(s.frames)
}
