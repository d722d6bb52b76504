package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"apidelta/internal/errors"
)

// Run states, matching delta.State names
const (
	StateNoChange = "no_change"
	StateChanged  = "changed"
	StateFailed   = "failed"
)

// timeLayout is fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded comparison
type Run struct {
	ID                   string
	CreatedAt            time.Time
	ReferenceName        string
	ProfileName          string
	ReferenceFingerprint string
	ProfileFingerprint   string
	Visibility           string
	State                string
	Leaves               int
	Breaking             int
	Error                string

	// Report is the uncompressed XML report; stored zstd-compressed.
	Report []byte

	// Components maps component ids to their reference and profile hashes.
	Components map[string]ComponentHashes
}

// ComponentHashes are the fingerprints of one component on both sides.
// An empty hash means the component is absent on that side.
type ComponentHashes struct {
	Reference string
	Profile   string
}

// RunRepository provides CRUD operations for the runs table
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Record inserts run, assigning an id and creation time when unset.
func (r *RunRepository) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	switch run.State {
	case StateNoChange, StateChanged, StateFailed:
	default:
		return errors.Newf(errors.StorageFailed, "invalid run state %q", run.State)
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (
				id, created_at, reference_name, profile_name,
				reference_fingerprint, profile_fingerprint, visibility,
				state, leaves, breaking, error, report
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			run.CreatedAt.UTC().Format(timeLayout),
			run.ReferenceName,
			run.ProfileName,
			run.ReferenceFingerprint,
			run.ProfileFingerprint,
			run.Visibility,
			run.State,
			run.Leaves,
			run.Breaking,
			nullString(run.Error),
			compress(run.Report),
		)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(run.Components))
		for id := range run.Components {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			h := run.Components[id]
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO run_components (run_id, component_id, reference_hash, profile_hash)
				VALUES (?, ?, ?, ?)
			`, run.ID, id, nullString(h.Reference), nullString(h.Profile)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(errors.StorageFailed, fmt.Sprintf("record run %s", run.ID), err)
	}
	r.db.logger.Debug("Recorded run", "id", run.ID, "state", run.State, "leaves", run.Leaves)
	return nil
}

// Get loads a run with its report and component hashes. A missing run
// returns nil, nil.
func (r *RunRepository) Get(ctx context.Context, id string) (*Run, error) {
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT id, created_at, reference_name, profile_name,
			reference_fingerprint, profile_fingerprint, visibility,
			state, leaves, breaking, error, report
		FROM runs WHERE id = ?
	`, id)

	var (
		run       Run
		createdAt string
		errText   sql.NullString
		payload   []byte
	)
	err := row.Scan(&run.ID, &createdAt, &run.ReferenceName, &run.ProfileName,
		&run.ReferenceFingerprint, &run.ProfileFingerprint, &run.Visibility,
		&run.State, &run.Leaves, &run.Breaking, &errText, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.StorageFailed, fmt.Sprintf("load run %s", id), err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, errors.New(errors.StorageFailed, fmt.Sprintf("run %s: bad timestamp", id), err)
	}
	run.Error = errText.String
	if run.Report, err = decompress(payload); err != nil {
		return nil, errors.New(errors.StorageFailed, fmt.Sprintf("run %s: corrupt report", id), err)
	}

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT component_id, reference_hash, profile_hash
		FROM run_components WHERE run_id = ? ORDER BY component_id
	`, id)
	if err != nil {
		return nil, errors.New(errors.StorageFailed, fmt.Sprintf("load components of run %s", id), err)
	}
	defer rows.Close()

	run.Components = make(map[string]ComponentHashes)
	for rows.Next() {
		var cid string
		var ref, prof sql.NullString
		if err := rows.Scan(&cid, &ref, &prof); err != nil {
			return nil, errors.New(errors.StorageFailed, fmt.Sprintf("scan components of run %s", id), err)
		}
		run.Components[cid] = ComponentHashes{Reference: ref.String, Profile: prof.String}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.StorageFailed, fmt.Sprintf("load components of run %s", id), err)
	}
	return &run, nil
}

// List returns the most recent runs first, without reports or component
// hashes. A limit of zero or less lists everything.
func (r *RunRepository) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, reference_name, profile_name,
			reference_fingerprint, profile_fingerprint, visibility,
			state, leaves, breaking, error
		FROM runs ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.New(errors.StorageFailed, "list runs", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			createdAt string
			errText   sql.NullString
		)
		if err := rows.Scan(&run.ID, &createdAt, &run.ReferenceName, &run.ProfileName,
			&run.ReferenceFingerprint, &run.ProfileFingerprint, &run.Visibility,
			&run.State, &run.Leaves, &run.Breaking, &errText); err != nil {
			return nil, errors.New(errors.StorageFailed, "scan run", err)
		}
		run.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		run.Error = errText.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.StorageFailed, "list runs", err)
	}
	return runs, nil
}

// LastMatching returns the latest run recorded for the same pair of
// fingerprints, or nil when there is none.
func (r *RunRepository) LastMatching(ctx context.Context, referenceFP, profileFP, visibility string) (*Run, error) {
	var id string
	err := r.db.conn.QueryRowContext(ctx, `
		SELECT id FROM runs
		WHERE reference_fingerprint = ? AND profile_fingerprint = ? AND visibility = ? AND state != 'failed'
		ORDER BY created_at DESC LIMIT 1
	`, referenceFP, profileFP, visibility).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.StorageFailed, "find matching run", err)
	}
	return r.Get(ctx, id)
}

// Delete removes a run and its component rows.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.conn.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return errors.New(errors.StorageFailed, fmt.Sprintf("delete run %s", id), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.StorageFailed, "run %s not found", id)
	}
	return nil
}

// Prune keeps the newest keep runs and deletes the rest. It returns the
// number of runs removed.
func (r *RunRepository) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.conn.ExecContext(ctx, `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY created_at DESC, id LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, errors.New(errors.StorageFailed, "prune runs", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
