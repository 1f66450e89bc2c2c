// Package export serializes a composite into the four artifact formats: a
// PNG raster, a paged PDF document, a looping GIF of the captured photos, and
// a QR scan code that points at the raster.
//
// Every exporter is a pure function of its inputs. None of them mutates the
// composite, so they may run in any order or concurrently.
package export
