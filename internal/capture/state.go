package capture

// State is a sequencer lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateCountdown  State = "countdown"
	StateCapturing  State = "capturing"
	StateRetrying   State = "retrying"
	StatePause      State = "inter_photo_pause"
	StateFinalizing State = "finalizing"
	StateDone       State = "done"
	StateAborted    State = "aborted"
)

// attemptStep is the per-slot Attempt→Retry→Skip machine.
type attemptStep int

const (
	stepAttempt attemptStep = iota
	stepRetry
	stepCaptured
	stepSkipped
)

func (s attemptStep) String() string {
	switch s {
	case stepAttempt:
		return "attempt"
	case stepRetry:
		return "retry"
	case stepCaptured:
		return "captured"
	case stepSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// nextAttempt returns the step following a grab made in step. A slot gets
// exactly one retry; a second miss skips it.
func nextAttempt(step attemptStep, ok bool) attemptStep {
	if ok {
		return stepCaptured
	}
	if step == stepAttempt {
		return stepRetry
	}
	return stepSkipped
}

// EventKind classifies progress events.
type EventKind string

const (
	EventOpened     EventKind = "opened"
	EventTick       EventKind = "tick"
	EventCaptureNow EventKind = "capture_now"
	EventCaptured   EventKind = "captured"
	EventRetry      EventKind = "retry"
	EventSkipped    EventKind = "skipped"
	EventPause      EventKind = "pause"
	EventFinalized  EventKind = "finalized"
	EventAborted    EventKind = "aborted"
)

// Event reports sequencer progress. PhotoIndex is 1-based; zero means the
// event is not tied to a slot.
type Event struct {
	Kind           EventKind
	State          State
	PhotoIndex     int
	PhotoCount     int
	TicksRemaining int
	Captured       int
	Err            error
}
