package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/beatspawn/internal/config"
	"github.com/udisondev/beatspawn/internal/sim"
	"github.com/udisondev/beatspawn/internal/spawner"
)

// StoredSession is a persisted session result.
type StoredSession struct {
	ID int64
	sim.Result
}

// SessionRepository stores simulated session results.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Save inserts a result and its accuracy matrix in a single transaction.
func (r *SessionRepository) Save(ctx context.Context, res sim.Result) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction for session %q: %w", res.Name, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "session", res.Name, "error", err)
		}
	}()

	query := `
		INSERT INTO sessions (
			name, mode, fingerprint, seed, duration_seconds,
			targets_spawned, hits, misses, best_streak, final_difficulty,
			started_at, elapsed_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING session_id
	`

	var id int64
	err = tx.QueryRow(ctx, query,
		res.Name, string(res.Mode), res.Fingerprint, int64(res.Seed), res.Duration,
		res.TargetsSpawned, res.Hits, res.Misses, res.BestStreak, res.FinalDifficulty,
		res.StartedAt, res.Elapsed.Milliseconds(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting session %q: %w", res.Name, err)
	}

	rows := make([][]any, 0, spawner.AccuracySize*spawner.AccuracySize)
	for i, row := range res.Accuracy {
		for j, c := range row {
			if c.Spawns == 0 && c.Hits == 0 {
				continue
			}
			rows = append(rows, []any{id, int16(i), int16(j), c.Spawns, c.Hits})
		}
	}

	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"session_accuracy"},
			[]string{"session_id", "row_index", "col_index", "spawns", "hits"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting accuracy for session %d: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing session %d: %w", id, err)
	}

	slog.Debug("session saved", "id", id, "name", res.Name, "regions", len(rows))
	return id, nil
}

// LoadByID loads a session with its accuracy matrix.
// Returns nil, nil if the session does not exist.
func (r *SessionRepository) LoadByID(ctx context.Context, id int64) (*StoredSession, error) {
	query := `
		SELECT session_id, name, mode, fingerprint, seed, duration_seconds,
		       targets_spawned, hits, misses, best_streak, final_difficulty,
		       started_at, elapsed_ms
		FROM sessions
		WHERE session_id = $1
	`

	s, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil // NOT ERROR, just not found
	}
	if err != nil {
		return nil, fmt.Errorf("querying session %d: %w", id, err)
	}

	if err := r.loadAccuracy(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListByFingerprint returns the latest sessions played with the same
// spawner configuration, newest first. Accuracy matrices are not loaded.
func (r *SessionRepository) ListByFingerprint(ctx context.Context, fingerprint string, limit int) ([]*StoredSession, error) {
	query := `
		SELECT session_id, name, mode, fingerprint, seed, duration_seconds,
		       targets_spawned, hits, misses, best_streak, final_difficulty,
		       started_at, elapsed_ms
		FROM sessions
		WHERE fingerprint = $1
		ORDER BY started_at DESC, session_id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, fingerprint, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions for %s: %w", fingerprint, err)
	}
	defer rows.Close()

	var out []*StoredSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}
	return out, nil
}

// Delete removes a session and its accuracy rows.
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("deleting session %d: %w", id, err)
	}
	return nil
}

func (r *SessionRepository) loadAccuracy(ctx context.Context, s *StoredSession) error {
	rows, err := r.pool.Query(ctx,
		`SELECT row_index, col_index, spawns, hits FROM session_accuracy WHERE session_id = $1`,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("querying accuracy for session %d: %w", s.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			i, j         int16
			spawns, hits int
		)
		if err := rows.Scan(&i, &j, &spawns, &hits); err != nil {
			return fmt.Errorf("scanning accuracy row: %w", err)
		}
		if i < 0 || i >= spawner.AccuracySize || j < 0 || j >= spawner.AccuracySize {
			slog.Warn("accuracy region out of range", "session", s.ID, "row", i, "col", j)
			continue
		}
		s.Accuracy[i][j] = spawner.AccuracyCell{Spawns: spawns, Hits: hits}
	}
	return rows.Err()
}

func scanSession(row pgx.Row) (*StoredSession, error) {
	var (
		s         StoredSession
		mode      string
		seed      int64
		elapsedMS int64
		startedAt time.Time
	)
	err := row.Scan(
		&s.ID, &s.Name, &mode, &s.Fingerprint, &seed, &s.Duration,
		&s.TargetsSpawned, &s.Hits, &s.Misses, &s.BestStreak, &s.FinalDifficulty,
		&startedAt, &elapsedMS,
	)
	if err != nil {
		return nil, err
	}
	s.Mode = config.Mode(mode)
	s.Seed = uint64(seed)
	s.StartedAt = startedAt
	s.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return &s, nil
}
