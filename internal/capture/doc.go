// Package capture runs the timed multi-shot acquisition loop.
//
// A Sequencer drives one session at a time through countdown, hold,
// stabilization, grab, retry-or-skip, and inter-shot pause. Every wait is a
// Clock suspension point bound to the sequence context, so Abort cancels
// pending timers before any late tick can touch session state. Frames are
// mirrored and (when live filtering is on) filtered before they are appended,
// and the finalized Session is handed to an optional Persister on a
// best-effort basis.
//
// DeviceLock guards the camera across processes with an flock so two booth
// commands never pull from the same device concurrently.
package capture
