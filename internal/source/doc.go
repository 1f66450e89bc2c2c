// Package source provides the frame sources the capture sequencer pulls from.
//
// A FrameSource exposes a single capability, GrabFrame, so the sequencer runs
// identically against a live camera (LiveStream) and a set of user-supplied
// stills (StaticImageSet). Sources with a lifecycle additionally implement
// Opener; an Open failure is terminal for the session and surfaces as
// failures.ErrSourceUnavailable before any countdown starts.
//
// WaitForDevice blocks until a video4linux device node appears, using udev
// netlink events so a booth can be started before the camera is plugged in.
package source
