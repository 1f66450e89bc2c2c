package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"photostrip/internal/capture"
	"photostrip/internal/failures"
	"photostrip/internal/filter"
	"photostrip/internal/store"
	"photostrip/internal/testsupport"
)

var _ capture.Persister = (*store.Store)(nil)

func TestPersistAndLoadRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	session := testsupport.NewSession("layout-a", 3, 4, filter.Sepia)
	session.FilterApplied = true
	session.Skipped = []int{4}
	if err := st.Persist(ctx, session); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	rec, err := st.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Label != session.Label || rec.Captured != 3 || rec.Expected != 4 || !rec.Partial() {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Filter != filter.Sepia || !rec.FilterApplied {
		t.Fatalf("filter state lost: %+v", rec)
	}
	if len(rec.Skipped) != 1 || rec.Skipped[0] != 4 {
		t.Fatalf("skipped slots lost: %v", rec.Skipped)
	}
	if !rec.CreatedAt.Equal(session.CreatedAt) {
		t.Fatalf("created at %v, want %v", rec.CreatedAt, session.CreatedAt)
	}

	byLabel, err := st.Get(ctx, session.Label)
	if err != nil || byLabel.ID != session.ID {
		t.Fatalf("lookup by label failed: %+v %v", byLabel, err)
	}

	loaded, err := st.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("expected 3 frames, got %d", loaded.Len())
	}
	for i, f := range loaded.Frames {
		if f.Width != 16 || f.Height != 12 || !f.Mirrored {
			t.Fatalf("frame %d decoded as %dx%d mirrored=%v", i, f.Width, f.Height, f.Mirrored)
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	older := testsupport.NewSession("layout-c", 2, 2, filter.None)
	newer := testsupport.NewSession("layout-c", 1, 2, filter.None)
	newer.CreatedAt = older.CreatedAt.Add(1)
	for _, s := range []*capture.Session{older, newer} {
		if err := st.Persist(ctx, s); err != nil {
			t.Fatalf("Persist: %v", err)
		}
	}
	records, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].ID != newer.ID || records[1].ID != older.ID {
		t.Fatalf("unexpected order: %+v", records)
	}
}

func TestDeleteRemovesFrames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	session := testsupport.PersistSession(t, st, "layout-b", 3, 3)
	if err := st.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, session.ID); !errors.Is(err, failures.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := st.Frames(ctx, session.ID); !errors.Is(err, failures.ErrNotFound) {
		t.Fatalf("expected not found frames after delete, got %v", err)
	}
	if err := st.Delete(ctx, session.ID); !errors.Is(err, failures.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPersistSuffixesDuplicateLabel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.NewSession("layout-c", 2, 2, filter.None)
	if err := st.Persist(ctx, first); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	base := first.Label
	second := testsupport.NewSession("layout-c", 2, 2, filter.None)
	second.Label = base
	third := testsupport.NewSession("layout-c", 1, 2, filter.None)
	third.Label = base
	for _, s := range []*capture.Session{second, third} {
		if err := st.Persist(ctx, s); err != nil {
			t.Fatalf("Persist same-second session: %v", err)
		}
	}
	if first.Label != base || second.Label != base+"_2" || third.Label != base+"_3" {
		t.Fatalf("unexpected labels: %q %q %q", first.Label, second.Label, third.Label)
	}

	rec, err := st.Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Label != base+"_2" {
		t.Fatalf("stored label %q, want %q", rec.Label, base+"_2")
	}
	byLabel, err := st.Get(ctx, base+"_3")
	if err != nil || byLabel.ID != third.ID {
		t.Fatalf("lookup by suffixed label failed: %+v %v", byLabel, err)
	}
	records, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(records))
	}
}

func TestListOrdersWholeSecondBeforeFraction(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	whole := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	older := testsupport.NewSession("layout-c", 1, 2, filter.None)
	older.CreatedAt = whole
	newer := testsupport.NewSession("layout-c", 1, 2, filter.None)
	newer.CreatedAt = whole.Add(500 * time.Millisecond)
	newest := testsupport.NewSession("layout-c", 1, 2, filter.None)
	newest.CreatedAt = whole.Add(time.Second)
	for _, s := range []*capture.Session{newer, newest, older} {
		if err := st.Persist(ctx, s); err != nil {
			t.Fatalf("Persist: %v", err)
		}
	}

	records, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{newest.ID, newer.ID, older.ID}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, id := range want {
		if records[i].ID != id {
			t.Fatalf("position %d: got session created %v, want %s", i, records[i].CreatedAt, id)
		}
	}
	if !records[2].CreatedAt.Equal(whole) {
		t.Fatalf("created at %v, want %v", records[2].CreatedAt, whole)
	}
}

func TestPersistEmptySession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	session := testsupport.NewSession("layout-a", 0, 4, filter.None)
	if err := st.Persist(ctx, session); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	frames, err := st.Frames(ctx, session.ID)
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	if len(frames) != 0 {
		t.Fatalf("expected no frames, got %d", len(frames))
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	session := testsupport.NewSession("layout-c", 2, 2, filter.None)
	if err := st.Persist(context.Background(), session); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if reopened.Path() != filepath.Join(cfg.Paths.StateDir, "sessions.db") {
		t.Fatalf("unexpected db path %s", reopened.Path())
	}
	if _, err := reopened.Get(context.Background(), session.ID); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}
