package registry

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteRegistry is a KeyRegistry persisted in SQLite. Every key remembers the
// run that first and last saw it, so keys that disappeared from the templates
// can be listed after a run.
//
// Add cannot return an error; the first failure of a run is kept and reported
// by Err until the next BeginRun.
type SQLiteRegistry struct {
	db     *sql.DB
	dbPath string

	mu    sync.Mutex
	runID string
	err   error

	addStmt *sql.Stmt
}

// SQLiteRegistryConfig configures the SQLite registry.
type SQLiteRegistryConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteRegistry opens the registry at dbPath with default settings.
func NewSQLiteRegistry(dbPath string) (*SQLiteRegistry, error) {
	return NewSQLiteRegistryWithConfig(SQLiteRegistryConfig{DBPath: dbPath})
}

// NewSQLiteRegistryWithConfig opens the registry with a custom configuration.
func NewSQLiteRegistryWithConfig(cfg SQLiteRegistryConfig) (*SQLiteRegistry, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.DBPath, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	r := &SQLiteRegistry{db: db, dbPath: cfg.DBPath}

	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	r.addStmt, err = db.Prepare(`
		INSERT INTO translation_keys (scope, key, default_value, first_run, last_run)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET last_run = excluded.last_run
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return r, nil
}

func (r *SQLiteRegistry) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER,
		files INTEGER NOT NULL DEFAULT 0,
		keys INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS translation_keys (
		scope TEXT NOT NULL,
		key TEXT NOT NULL,
		default_value TEXT NOT NULL,
		first_run TEXT NOT NULL,
		last_run TEXT NOT NULL,
		PRIMARY KEY (scope, key)
	);

	CREATE INDEX IF NOT EXISTS idx_translation_keys_last_run ON translation_keys(last_run);
	`

	_, err := r.db.Exec(schema)
	return err
}

// BeginRun starts a new extraction run and returns its id. Keys added
// afterwards are stamped with it. The error of the previous run is cleared.
func (r *SQLiteRegistry) BeginRun(ctx context.Context) (string, error) {
	runID := uuid.New().String()
	if _, err := r.db.ExecContext(ctx, `INSERT INTO runs (id, started_at) VALUES (?, ?)`, runID, time.Now().UnixMilli()); err != nil {
		return "", fmt.Errorf("failed to begin run: %w", err)
	}

	r.mu.Lock()
	r.runID = runID
	r.err = nil
	r.mu.Unlock()
	return runID, nil
}

// FinishRun records the totals of the current run.
func (r *SQLiteRegistry) FinishRun(ctx context.Context, files, keys int) error {
	r.mu.Lock()
	runID := r.runID
	r.mu.Unlock()
	if runID == "" {
		return fmt.Errorf("no run in progress")
	}

	_, err := r.db.ExecContext(ctx, `UPDATE runs SET finished_at = ?, files = ?, keys = ? WHERE id = ?`,
		time.Now().UnixMilli(), files, keys, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// Add implements KeyRegistry
func (r *SQLiteRegistry) Add(scopePath, key, defaultValue string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	if r.runID == "" {
		r.err = fmt.Errorf("add %s/%s: no run in progress", scopePath, key)
		return
	}
	if _, err := r.addStmt.Exec(scopePath, key, defaultValue, r.runID, r.runID); err != nil {
		r.err = fmt.Errorf("add %s/%s: %w", scopePath, key, err)
	}
}

// Err returns the first error met by Add in the current run
func (r *SQLiteRegistry) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Keys returns the stored keys of scopePath with their default values
func (r *SQLiteRegistry) Keys(ctx context.Context, scopePath string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, default_value FROM translation_keys WHERE scope = ?`, scopePath)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys[key] = value
	}
	return keys, rows.Err()
}

// Stale returns the keys that the current run did not see, ordered by scope
// and key.
func (r *SQLiteRegistry) Stale(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	runID := r.runID
	r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx,
		`SELECT scope, key, default_value FROM translation_keys WHERE last_run != ? ORDER BY scope, key`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale keys: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ScopePath, &e.Key, &e.DefaultValue); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database
func (r *SQLiteRegistry) Close() error {
	if r.addStmt != nil {
		r.addStmt.Close()
	}
	return r.db.Close()
}
