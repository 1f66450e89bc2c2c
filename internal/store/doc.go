// Package store persists finalized capture sessions in SQLite. It is the
// persistence collaborator handed to the capture sequencer and the source
// the artifact server renders from.
//
// Frames are stored as ordered JPEG blobs keyed by session id. Schema
// changes bump schemaVersion in schema.go; users delete the database to
// adopt a new schema.
package store
