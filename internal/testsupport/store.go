package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"photostrip/internal/capture"
	"photostrip/internal/config"
	"photostrip/internal/filter"
	"photostrip/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSession builds a finalized session of n solid frames.
func NewSession(layoutID string, n, expected int, f filter.ID) *capture.Session {
	created := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	id := uuid.NewString()
	return &capture.Session{
		ID:        id,
		Label:     capture.SessionLabel(id[:8], created),
		Layout:    layoutID,
		Filter:    f,
		Expected:  expected,
		Frames:    SolidFrames(n, 16, 12),
		CreatedAt: created,
	}
}

// PersistSession stores a session of n frames and returns it.
func PersistSession(t testing.TB, st *store.Store, layoutID string, n, expected int) *capture.Session {
	t.Helper()

	session := NewSession(layoutID, n, expected, filter.None)
	if err := st.Persist(context.Background(), session); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	return session
}
