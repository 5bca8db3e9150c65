//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRunSummary(ctx context.Context, summary model.RunSummary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRunSummary(summary)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, schema_version, codec_version, created_at_utc, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			created_at_utc = excluded.created_at_utc,
			payload = excluded.payload
	`, summary.RunID, summary.SchemaVersion, summary.CodecVersion, summary.CreatedAtUTC, payload)
	return err
}

func (s *SQLiteStore) GetRunSummary(ctx context.Context, runID string) (model.RunSummary, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.RunSummary{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RunSummary{}, false, nil
		}
		return model.RunSummary{}, false, err
	}

	summary, err := DecodeRunSummary(payload)
	if err != nil {
		return model.RunSummary{}, false, err
	}
	return summary, true, nil
}

func (s *SQLiteStore) ListRunSummaries(ctx context.Context) ([]model.RunSummary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM runs ORDER BY created_at_utc DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		summary, err := DecodeRunSummary(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveEpisodes(ctx context.Context, runID string, episodes []model.EpisodeResult) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeEpisodes(episodes)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO episodes (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) GetEpisodes(ctx context.Context, runID string) ([]model.EpisodeResult, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM episodes WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	episodes, err := DecodeEpisodes(payload)
	if err != nil {
		return nil, false, err
	}
	return episodes, true, nil
}

func (s *SQLiteStore) SaveAggregates(ctx context.Context, runID string, aggregates []model.StrategyAggregate) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeAggregates(aggregates)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO aggregates (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) GetAggregates(ctx context.Context, runID string) ([]model.StrategyAggregate, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM aggregates WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	aggregates, err := DecodeAggregates(payload)
	if err != nil {
		return nil, false, err
	}
	return aggregates, true, nil
}

// Reset clears all three tables, keeping the schema in place.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		DELETE FROM runs;
		DELETE FROM episodes;
		DELETE FROM aggregates;
	`)
	return err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			created_at_utc TEXT NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS aggregates (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`)
	return err
}
