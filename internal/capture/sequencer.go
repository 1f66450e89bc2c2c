package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"photostrip/internal/config"
	"photostrip/internal/failures"
	"photostrip/internal/filter"
	"photostrip/internal/frame"
	"photostrip/internal/logging"
	"photostrip/internal/source"
)

// Persister is the best-effort persistence collaborator. Its error is logged
// and never blocks delivery of the session.
type Persister interface {
	Persist(ctx context.Context, session *Session) error
}

// Options configures a Sequencer.
type Options struct {
	Timings    config.Timings
	LiveFilter bool
	Layout     string
	DeviceHash string
	Clock      Clock
	Persister  Persister
	Logger     *slog.Logger
	// OnEvent receives progress events synchronously on the sequence goroutine.
	OnEvent func(Event)
	Now     func() time.Time
}

// Sequencer owns the capture state machine. Only one sequence may run at a
// time; StartSequence while another is active is rejected.
type Sequencer struct {
	opts   Options
	logger *slog.Logger

	active atomic.Bool

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// NewSequencer builds a sequencer with defaults for unset options.
func NewSequencer(opts Options) *Sequencer {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timings.Tick <= 0 {
		opts.Timings.Tick = time.Second
	}
	return &Sequencer{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "capture"),
		state:  StateIdle,
	}
}

// NewSequencerFromConfig wires timings and live filtering from configuration.
func NewSequencerFromConfig(cfg *config.Config, layoutID string, persister Persister, logger *slog.Logger) *Sequencer {
	return NewSequencer(Options{
		Timings:    cfg.Timings(),
		LiveFilter: cfg.Capture.LiveFilter,
		Layout:     layoutID,
		DeviceHash: DeviceHash(cfg.Capture.Device),
		Persister:  persister,
		Logger:     logger,
	})
}

// State returns the current lifecycle state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Abort discards the running sequence. Pending waits return immediately and
// no further frame is appended. Abort on an idle sequencer is a no-op.
func (s *Sequencer) Abort() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// StartSequence captures photoCount frames from src. The returned session may
// hold fewer frames than requested when slots were skipped. An Open failure
// on src returns failures.ErrSourceUnavailable before any countdown.
func (s *Sequencer) StartSequence(ctx context.Context, src source.FrameSource, filterID filter.ID, timerSeconds, photoCount int) (*Session, error) {
	if !s.active.CompareAndSwap(false, true) {
		return nil, failures.Wrap(failures.ErrSequenceActive, "capture", "start", "a capture sequence is already running", nil)
	}
	defer s.active.Store(false)

	if src == nil {
		return nil, failures.Wrap(failures.ErrSourceUnavailable, "capture", "start", "no frame source", nil)
	}
	if photoCount <= 0 {
		return nil, failures.Wrap(failures.ErrValidation, "capture", "start", fmt.Sprintf("photo count must be positive, got %d", photoCount), nil)
	}
	if timerSeconds < 0 {
		return nil, failures.Wrap(failures.ErrValidation, "capture", "start", fmt.Sprintf("timer must be >= 0, got %d", timerSeconds), nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.state = StateIdle
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	now := s.opts.Now()
	session := &Session{
		ID:            uuid.NewString(),
		Label:         SessionLabel(s.opts.DeviceHash, now),
		Layout:        s.opts.Layout,
		Filter:        filterID,
		FilterApplied: s.opts.LiveFilter,
		Expected:      photoCount,
		Frames:        make([]frame.Raw, 0, photoCount),
		CreatedAt:     now.UTC(),
	}
	runCtx = logging.WithSessionID(runCtx, session.ID)
	logger := logging.WithContext(runCtx, s.logger)

	if opener, ok := src.(source.Opener); ok {
		if err := opener.Open(runCtx); err != nil {
			if !errors.Is(err, failures.ErrSourceUnavailable) {
				err = failures.Wrap(failures.ErrSourceUnavailable, "capture", "open source", "frame source could not be opened", err)
			}
			logger.Error("frame source unavailable",
				logging.String(logging.FieldEventType, "source_unavailable"),
				logging.String(logging.FieldErrorHint, "check camera permissions and that the device is connected"),
				logging.Error(err),
			)
			return nil, err
		}
		defer func() {
			if err := opener.Close(); err != nil {
				logger.Debug("frame source close failed", logging.Error(err))
			}
		}()
		s.emit(Event{Kind: EventOpened, State: StateIdle, PhotoCount: photoCount})
	}

	logger.Info("capture sequence started",
		logging.String(logging.FieldEventType, "sequence_start"),
		logging.Int("photo_count", photoCount),
		logging.Int("timer_seconds", timerSeconds),
		logging.String("filter", string(filterID)),
		logging.Bool("live_filter", s.opts.LiveFilter),
	)

	for idx := 1; idx <= photoCount; idx++ {
		if err := s.countdown(runCtx, idx, photoCount, timerSeconds); err != nil {
			return nil, s.aborted(logger, session, err)
		}
		f, ok, err := s.captureSlot(runCtx, logger, src, idx, photoCount)
		if err != nil {
			return nil, s.aborted(logger, session, err)
		}
		if ok {
			session.Frames = append(session.Frames, s.process(f, filterID))
			s.emit(Event{Kind: EventCaptured, State: StateCapturing, PhotoIndex: idx, PhotoCount: photoCount, Captured: len(session.Frames)})
		} else {
			session.Skipped = append(session.Skipped, idx)
		}
		if idx < photoCount {
			s.setState(StatePause)
			s.emit(Event{Kind: EventPause, State: StatePause, PhotoIndex: idx, PhotoCount: photoCount, Captured: len(session.Frames)})
			if err := s.opts.Clock.Sleep(runCtx, s.opts.Timings.InterShot); err != nil {
				return nil, s.aborted(logger, session, err)
			}
		}
	}

	s.setState(StateFinalizing)
	s.persist(runCtx, logger, session)
	s.setState(StateDone)

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "sequence_complete"),
		logging.Int("captured", session.Len()),
		logging.Int("expected", photoCount),
		logging.String("label", session.Label),
	}
	if session.Partial() {
		logging.WarnWithContext(logger, "capture sequence finished with missing photos", "partial_session",
			append(attrs[1:],
				logging.Any("skipped_slots", session.Skipped),
				logging.String(logging.FieldErrorHint, "check lighting and camera connection, then retake"),
				logging.String(logging.FieldImpact, "strip will show empty placeholders"),
			)...,
		)
	} else {
		logger.Info("capture sequence completed", logging.Args(attrs...)...)
	}
	s.emit(Event{Kind: EventFinalized, State: StateDone, PhotoCount: photoCount, Captured: session.Len()})
	return session, nil
}

func (s *Sequencer) countdown(ctx context.Context, idx, count, timerSeconds int) error {
	s.setState(StateCountdown)
	for remaining := timerSeconds; remaining > 0; remaining-- {
		s.emit(Event{Kind: EventTick, State: StateCountdown, PhotoIndex: idx, PhotoCount: count, TicksRemaining: remaining})
		if err := s.opts.Clock.Sleep(ctx, s.opts.Timings.Tick); err != nil {
			return err
		}
	}
	s.emit(Event{Kind: EventTick, State: StateCountdown, PhotoIndex: idx, PhotoCount: count, TicksRemaining: 0})
	if err := s.opts.Clock.Sleep(ctx, s.opts.Timings.Hold); err != nil {
		return err
	}
	s.setState(StateCapturing)
	s.emit(Event{Kind: EventCaptureNow, State: StateCapturing, PhotoIndex: idx, PhotoCount: count})
	return s.opts.Clock.Sleep(ctx, s.opts.Timings.Stabilize)
}

// captureSlot runs the attempt machine for one slot. It returns ok=false when
// the slot is skipped and a non-nil error only when the sequence is cancelled.
func (s *Sequencer) captureSlot(ctx context.Context, logger *slog.Logger, src source.FrameSource, idx, count int) (frame.Raw, bool, error) {
	step := stepAttempt
	for {
		f, grabErr := src.GrabFrame(ctx)
		if err := ctx.Err(); err != nil {
			return frame.Raw{}, false, err
		}
		ok := grabErr == nil && !f.Empty()
		next := nextAttempt(step, ok)
		switch next {
		case stepCaptured:
			return f, true, nil
		case stepRetry:
			logger.Debug("frame grab missed; retrying",
				logging.Int(logging.FieldPhotoIndex, idx),
				logging.Error(missError(grabErr)),
			)
			s.setState(StateRetrying)
			s.emit(Event{Kind: EventRetry, State: StateRetrying, PhotoIndex: idx, PhotoCount: count, Err: missError(grabErr)})
			if err := s.opts.Clock.Sleep(ctx, s.opts.Timings.RetryDelay); err != nil {
				return frame.Raw{}, false, err
			}
			step = next
		default:
			miss := failures.Wrap(failures.ErrCaptureMiss, "capture", "grab",
				fmt.Sprintf("photo %d skipped after retry", idx), missError(grabErr))
			logging.WarnWithContext(logger, "photo slot skipped", "capture_miss",
				logging.Int(logging.FieldPhotoIndex, idx),
				logging.Error(miss),
				logging.String(logging.FieldErrorHint, "check camera connection"),
				logging.String(logging.FieldImpact, "session will have fewer photos than the layout expects"),
			)
			s.emit(Event{Kind: EventSkipped, State: StateCapturing, PhotoIndex: idx, PhotoCount: count, Err: miss})
			return frame.Raw{}, false, nil
		}
	}
}

// process mirrors, then filters when live filtering is on.
func (s *Sequencer) process(f frame.Raw, id filter.ID) frame.Raw {
	f = f.Mirror()
	if s.opts.LiveFilter {
		f = filter.Apply(f, id)
	}
	return f
}

func (s *Sequencer) persist(ctx context.Context, logger *slog.Logger, session *Session) {
	if s.opts.Persister == nil {
		return
	}
	if err := s.opts.Persister.Persist(ctx, session); err != nil {
		logging.WarnWithContext(logger, "session persistence failed", "persistence_failed",
			logging.Error(failures.Wrap(failures.ErrPersistence, "capture", "persist", "save session", err)),
			logging.String(logging.FieldErrorHint, "check free space and permissions on the state directory"),
			logging.String(logging.FieldImpact, "session is available for export now but will not be listed later"),
		)
		return
	}
	logger.Debug("session persisted", logging.String("label", session.Label))
}

func (s *Sequencer) aborted(logger *slog.Logger, session *Session, cause error) error {
	s.setState(StateAborted)
	session.Frames = nil
	logger.Info("capture sequence aborted",
		logging.String(logging.FieldEventType, "sequence_aborted"),
		logging.String("reason", cause.Error()),
	)
	s.emit(Event{Kind: EventAborted, State: StateAborted, PhotoCount: session.Expected, Err: cause})
	return failures.Wrap(failures.ErrAborted, "capture", "sequence", "capture discarded", cause)
}

func (s *Sequencer) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Sequencer) emit(ev Event) {
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(ev)
	}
}

func missError(err error) error {
	if err == nil {
		return fmt.Errorf("%w: empty frame", source.ErrUnavailable)
	}
	return err
}
