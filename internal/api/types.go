package api

import (
	"photostrip/internal/filter"
	"photostrip/internal/store"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Session describes a stored session in a transport-friendly format.
type Session struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Layout     string   `json:"layout"`
	Filter     string   `json:"filter"`
	FilterName string   `json:"filterName"`
	Expected   int      `json:"expected"`
	Captured   int      `json:"captured"`
	Partial    bool     `json:"partial"`
	Skipped    []int    `json:"skipped,omitempty"`
	CreatedAt  string   `json:"createdAt,omitempty"`
	Artifacts  []string `json:"artifacts"`
}

// SessionListResponse wraps a collection of sessions.
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	UptimeS  int64  `json:"uptimeS"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// FromRecord converts a stored record into its transport form.
func FromRecord(rec store.Record) Session {
	s := Session{
		ID:         rec.ID,
		Label:      rec.Label,
		Layout:     rec.Layout,
		Filter:     string(rec.Filter),
		FilterName: filter.DisplayName(rec.Filter),
		Expected:   rec.Expected,
		Captured:   rec.Captured,
		Partial:    rec.Partial(),
		Skipped:    rec.Skipped,
		Artifacts:  artifactPaths(rec.ID),
	}
	if !rec.CreatedAt.IsZero() {
		s.CreatedAt = rec.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return s
}

func artifactPaths(id string) []string {
	base := "/sessions/" + id + "/"
	return []string{base + "strip.png", base + "strip.pdf", base + "strip.gif", base + "code.png"}
}
