package buildcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/catpages/internal/depgraph"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) a cache database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS graph_edges (
		emitter TEXT NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		PRIMARY KEY (emitter, source, target)
	);
	CREATE TABLE IF NOT EXISTS graphs (
		emitter TEXT PRIMARY KEY,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS fingerprints (
		path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		status TEXT NOT NULL,
		incremental INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		outputs INTEGER NOT NULL,
		signature TEXT NOT NULL DEFAULT '',
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveGraph replaces the stored graph of an emitter.
func (s *SQLiteStore) SaveGraph(ctx context.Context, emitter string, g *depgraph.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM graph_edges WHERE emitter = ?", emitter); err != nil {
		return fmt.Errorf("clear graph: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO graph_edges (emitter, source, target) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range g.Edges() {
		if _, err := stmt.ExecContext(ctx, emitter, e.Source, e.Target); err != nil {
			return fmt.Errorf("insert edge: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO graphs (emitter, updated_at) VALUES (?, ?) ON CONFLICT(emitter) DO UPDATE SET updated_at = excluded.updated_at",
		emitter, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("record graph: %w", err)
	}
	return tx.Commit()
}

// LoadGraph returns the stored graph of an emitter, or an empty graph if none
// was saved.
func (s *SQLiteStore) LoadGraph(ctx context.Context, emitter string) (*depgraph.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT source, target FROM graph_edges WHERE emitter = ?", emitter)
	if err != nil {
		return nil, fmt.Errorf("query graph: %w", err)
	}
	defer rows.Close()

	g := depgraph.New()
	for rows.Next() {
		var source, target string
		if err := rows.Scan(&source, &target); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		g.AddEdge(source, target)
	}
	return g, rows.Err()
}

// Emitters lists emitters with a saved graph.
func (s *SQLiteStore) Emitters(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT emitter FROM graphs ORDER BY emitter")
	if err != nil {
		return nil, fmt.Errorf("query emitters: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan emitter: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveFingerprints replaces the stored source fingerprints.
func (s *SQLiteStore) SaveFingerprints(ctx context.Context, fingerprints map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fingerprints"); err != nil {
		return fmt.Errorf("clear fingerprints: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO fingerprints (path, fingerprint) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare fingerprint insert: %w", err)
	}
	defer stmt.Close()
	for path, fp := range fingerprints {
		if _, err := stmt.ExecContext(ctx, path, fp); err != nil {
			return fmt.Errorf("insert fingerprint: %w", err)
		}
	}
	return tx.Commit()
}

// LoadFingerprints returns every stored fingerprint keyed by source path.
func (s *SQLiteStore) LoadFingerprints(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT path, fingerprint FROM fingerprints")
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, fp string
		if err := rows.Scan(&path, &fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out[path] = fp
	}
	return out, rows.Err()
}

// RecordBuild inserts or replaces a build record.
func (s *SQLiteStore) RecordBuild(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO builds (id, started_at, finished_at, status, incremental, pages, outputs, signature, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UnixMilli(), rec.FinishedAt.UnixMilli(), string(rec.Status),
		boolToInt(rec.Incremental), rec.Pages, rec.Outputs, rec.Signature, nullString(rec.Error),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// LastBuild returns the most recently started build, or nil if none exist.
func (s *SQLiteStore) LastBuild(ctx context.Context) (*BuildRecord, error) {
	builds, err := s.RecentBuilds(ctx, 1)
	if err != nil || len(builds) == 0 {
		return nil, err
	}
	return &builds[0], nil
}

// RecentBuilds returns up to limit builds, newest first.
func (s *SQLiteStore) RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, status, incremental, pages, outputs, signature, error FROM builds ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var out []BuildRecord
	for rows.Next() {
		var (
			rec               BuildRecord
			started, finished int64
			status            string
			incremental       int
			errText           sql.NullString
		)
		if err := rows.Scan(&rec.ID, &started, &finished, &status, &incremental, &rec.Pages, &rec.Outputs, &rec.Signature, &errText); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		rec.StartedAt = time.UnixMilli(started)
		rec.FinishedAt = time.UnixMilli(finished)
		rec.Status = BuildStatus(status)
		rec.Incremental = incremental != 0
		rec.Error = errText.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return errors.New("store already closed")
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
