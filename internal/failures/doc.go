// Package failures defines the error taxonomy shared by the capture, render,
// and export pipeline.
//
// Errors are tagged with one of the exported sentinel markers via Wrap so
// callers can branch with errors.Is and present consistent messages. None of
// the markers are fatal to the host process: every failure resolves to a
// recoverable outcome that the CLI or HTTP layer reports.
package failures
