// Package api delivers stored sessions and their artifacts over HTTP and
// provides the shared rendering path used by the CLI.
//
// # Key Types
//
// ArtifactService: loads a stored session, renders its composite with the
// requested treatment and overlay, and dispatches to the exporters.
//
// Session: transport representation of a stored session.
//
// # Routes
//
//	GET    /health
//	GET    /sessions
//	GET    /sessions/{id}
//	DELETE /sessions/{id}
//	GET    /sessions/{id}/strip.png|strip.pdf|strip.gif
//	GET    /sessions/{id}/code.png
//
// The scan code encodes the public address of strip.png, so a phone that
// scans it downloads the raster from this server.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
// Error markers from internal/failures map to HTTP status codes in one place
// (statusFor) so handlers never pick codes ad hoc.
package api
