package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"photostrip/internal/capture"
	"photostrip/internal/failures"
	"photostrip/internal/filter"
	"photostrip/internal/frame"
)

// Record is the stored summary of a session.
type Record struct {
	ID            string
	Label         string
	Layout        string
	Filter        filter.ID
	FilterApplied bool
	Expected      int
	Captured      int
	Skipped       []int
	CreatedAt     time.Time
}

// Partial reports whether fewer frames than expected were stored.
func (r Record) Partial() bool {
	return r.Captured < r.Expected
}

const sessionColumns = `id, label, layout, filter, filter_applied, expected, captured, skipped_json, created_at`

// Persist stores a finalized session and its frames as JPEG blobs. When the
// label is already taken the stored label gets a numeric suffix and
// session.Label is updated to match.
func (s *Store) Persist(ctx context.Context, session *capture.Session) error {
	if session == nil || session.ID == "" {
		return failures.Wrap(failures.ErrPersistence, "store", "persist", "session is missing", nil)
	}
	blobs, err := session.Blobs()
	if err != nil {
		return failures.Wrap(failures.ErrPersistence, "store", "persist", "encode frames", err)
	}
	rec := Record{
		ID:            session.ID,
		Label:         session.Label,
		Layout:        session.Layout,
		Filter:        session.Filter,
		FilterApplied: session.FilterApplied,
		Expected:      session.Expected,
		Skipped:       session.Skipped,
		CreatedAt:     session.CreatedAt,
	}
	stored, err := s.SaveBlobs(ctx, rec, blobs)
	if err != nil {
		return err
	}
	session.Label = stored.Label
	return nil
}

// SaveBlobs stores ordered frame blobs under rec and returns the record as
// stored. Captured is taken from the number of blobs.
func (s *Store) SaveBlobs(ctx context.Context, rec Record, blobs [][]byte) (Record, error) {
	ctx = ensureContext(ctx)
	if rec.Label == "" {
		return Record{}, failures.Wrap(failures.ErrPersistence, "store", "save", "session label is required", nil)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	skipped, err := json.Marshal(rec.Skipped)
	if err != nil {
		return Record{}, failures.Wrap(failures.ErrPersistence, "store", "save", "marshal skipped slots", err)
	}
	base := rec.Label
	rec.Captured = len(blobs)

	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		label, err := freeLabel(ctx, tx, base)
		if err != nil {
			return err
		}
		rec.Label = label
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID,
			rec.Label,
			rec.Layout,
			string(rec.Filter),
			boolToInt(rec.FilterApplied),
			rec.Expected,
			len(blobs),
			string(skipped),
			rec.CreatedAt.UnixNano(),
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		for i, blob := range blobs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO session_frames (session_id, position, blob) VALUES (?, ?, ?)`,
				rec.ID, i, blob,
			); err != nil {
				return fmt.Errorf("insert frame %d: %w", i+1, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return Record{}, failures.Wrap(failures.ErrPersistence, "store", "save", fmt.Sprintf("persist session %s", base), err)
	}
	return rec, nil
}

const maxLabelSuffix = 1000

// freeLabel returns base, or base_N for the first N >= 2 not yet stored.
func freeLabel(ctx context.Context, tx *sql.Tx, base string) (string, error) {
	label := base
	for n := 2; n <= maxLabelSuffix; n++ {
		var taken int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions WHERE label = ?`, label).Scan(&taken); err != nil {
			return "", fmt.Errorf("check label: %w", err)
		}
		if taken == 0 {
			return label, nil
		}
		label = fmt.Sprintf("%s_%d", base, n)
	}
	return "", fmt.Errorf("no free label for %s", base)
}

// List returns stored sessions, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, failures.Wrap(failures.ErrPersistence, "store", "list", "query sessions", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, failures.Wrap(failures.ErrPersistence, "store", "list", "iterate sessions", err)
	}
	return records, nil
}

// Get fetches a session by id or label.
func (s *Store) Get(ctx context.Context, ref string) (Record, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ? OR label = ? LIMIT 1`, ref, ref)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, failures.Wrap(failures.ErrNotFound, "store", "get", fmt.Sprintf("session %q", ref), nil)
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Frames decodes the stored frames of a session in capture order.
func (s *Store) Frames(ctx context.Context, ref string) ([]frame.Raw, error) {
	rec, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT blob FROM session_frames WHERE session_id = ? ORDER BY position`, rec.ID)
	if err != nil {
		return nil, failures.Wrap(failures.ErrPersistence, "store", "frames", "query frames", err)
	}
	defer rows.Close()

	var frames []frame.Raw
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, failures.Wrap(failures.ErrPersistence, "store", "frames", "scan frame", err)
		}
		f, err := frame.Decode(blob)
		if err != nil {
			return nil, failures.Wrap(failures.ErrPersistence, "store", "frames",
				fmt.Sprintf("decode frame %d of %s", len(frames)+1, rec.Label), err)
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, failures.Wrap(failures.ErrPersistence, "store", "frames", "iterate frames", err)
	}
	return frames, nil
}

// Load rebuilds a finalized session from storage.
func (s *Store) Load(ctx context.Context, ref string) (*capture.Session, error) {
	rec, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	frames, err := s.Frames(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return &capture.Session{
		ID:            rec.ID,
		Label:         rec.Label,
		Layout:        rec.Layout,
		Filter:        rec.Filter,
		FilterApplied: rec.FilterApplied,
		Expected:      rec.Expected,
		Frames:        frames,
		Skipped:       rec.Skipped,
		CreatedAt:     rec.CreatedAt,
	}, nil
}

// Delete removes a session and its frames.
func (s *Store) Delete(ctx context.Context, ref string) error {
	rec, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	ctx = ensureContext(ctx)
	// Frames are removed explicitly; foreign_keys is a per-connection pragma.
	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_frames WHERE session_id = ?`, rec.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, rec.ID); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return failures.Wrap(failures.ErrPersistence, "store", "delete", fmt.Sprintf("delete session %s", rec.Label), err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec       Record
		filterID  string
		applied   int
		skipped   sql.NullString
		createdAt int64
	)
	if err := row.Scan(&rec.ID, &rec.Label, &rec.Layout, &filterID, &applied, &rec.Expected, &rec.Captured, &skipped, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, failures.Wrap(failures.ErrPersistence, "store", "scan", "scan session", err)
	}
	rec.Filter = filter.ID(filterID)
	rec.FilterApplied = applied != 0
	if skipped.Valid && skipped.String != "" && skipped.String != "null" {
		if err := json.Unmarshal([]byte(skipped.String), &rec.Skipped); err != nil {
			return Record{}, failures.Wrap(failures.ErrPersistence, "store", "scan", "decode skipped slots", err)
		}
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return rec, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
