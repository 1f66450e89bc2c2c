package source

import (
	"context"
	"errors"

	"photostrip/internal/frame"
)

// ErrUnavailable reports that a single grab produced no frame. The sequencer
// treats it as a capture miss and retries.
var ErrUnavailable = errors.New("frame unavailable")

// FrameSource produces raw frames on demand.
type FrameSource interface {
	GrabFrame(ctx context.Context) (frame.Raw, error)
}

// Opener is implemented by sources that must acquire a device before use.
type Opener interface {
	Open(ctx context.Context) error
	Close() error
}

// Func adapts a function to FrameSource.
type Func func(ctx context.Context) (frame.Raw, error)

// GrabFrame calls fn.
func (fn Func) GrabFrame(ctx context.Context) (frame.Raw, error) {
	return fn(ctx)
}
