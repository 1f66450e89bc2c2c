// Package main hosts the photostrip CLI entrypoint and command graph.
//
// The Cobra-based command tree runs capture sessions against the camera or a
// folder of uploaded images, exports stored sessions to PNG, PDF, GIF, and
// scan code files, serves artifacts over HTTP, and scaffolds configuration.
// It centralizes configuration resolution and logging setup so subcommands
// can focus on terminal output instead of wiring.
//
// Keep this package lean: add behavior to the internal packages first, then
// surface it through a command or flag here.
package main
