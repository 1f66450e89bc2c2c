// Package logs reads the photostrip log file for `photostrip logs`.
//
// Tail returns the last N lines with bounded memory, and Follow polls from a
// byte offset, emitting lines as the running booth appends them. Callers own
// the context, so follow mode stops when the CLI is interrupted.
package logs
