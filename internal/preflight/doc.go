// Package preflight provides readiness checks for the camera, the ffmpeg
// binary, and the filesystem paths photostrip depends on.
//
// These checks run in two contexts:
//   - The capture command calls RunAll before opening a live camera. A failed
//     check stops the session before any countdown starts.
//   - The "photostrip doctor" command runs every check and prints a table.
package preflight
