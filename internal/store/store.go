// Package store persists the last known sensor snapshots so a restart can
// seed sensors with their previous values before the first live fetch.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hntwatch/hntwatch/internal/config"
	"github.com/hntwatch/hntwatch/internal/sensor"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the sql.DB connection for the sensor state database.
type Store struct {
	conn *sql.DB
	path string
}

// New opens a SQLite database at the given path with WAL mode and busy timeout.
func New(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %q: %w", dir, err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", path, config.DBBusyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", config.DBBusyTimeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}

	// SQLite single writer.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	slog.Info("state database opened", "path", path)

	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	slog.Info("closing state database", "path", s.path)
	return s.conn.Close()
}

// RunMigrations applies all pending SQL migration files from the embedded filesystem.
func (s *Store) RunMigrations() error {
	if _, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	if err := s.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read current migration version: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	applied := 0
	for i, name := range names {
		version := i + 1
		if version <= current {
			continue
		}

		raw, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		if _, err := s.conn.Exec(string(raw)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		if _, err := s.conn.Exec(
			`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			version, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}

		slog.Info("migration applied", "version", version, "file", name)
		applied++
	}

	if applied == 0 {
		slog.Debug("no pending migrations", "currentVersion", current)
	}
	return nil
}

// SaveSnapshot upserts the persisted state for one sensor.
func (s *Store) SaveSnapshot(snap sensor.Snapshot) error {
	stateJSON, err := json.Marshal(snap.State)
	if err != nil {
		return fmt.Errorf("failed to marshal state for %s: %w", snap.UniqueID, err)
	}
	attrsJSON, err := json.Marshal(snap.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes for %s: %w", snap.UniqueID, err)
	}

	_, err = s.conn.Exec(`
		INSERT INTO sensor_states (unique_id, name, unit, state, attributes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(unique_id) DO UPDATE SET
			name = excluded.name,
			unit = excluded.unit,
			state = excluded.state,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at`,
		snap.UniqueID, snap.Name, snap.Unit, string(stateJSON), string(attrsJSON),
		snap.LastUpdated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert sensor state %s: %w", snap.UniqueID, err)
	}
	return nil
}

// LoadSnapshot retrieves the persisted state for one sensor.
// Returns (nil, nil) when no snapshot has been saved.
func (s *Store) LoadSnapshot(uniqueID string) (*sensor.Snapshot, error) {
	var (
		snap      sensor.Snapshot
		stateJSON string
		attrsJSON string
		updatedAt string
	)
	err := s.conn.QueryRow(`
		SELECT unique_id, name, unit, state, attributes, updated_at
		FROM sensor_states WHERE unique_id = ?`, uniqueID,
	).Scan(&snap.UniqueID, &snap.Name, &snap.Unit, &stateJSON, &attrsJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sensor state %s: %w", uniqueID, err)
	}

	if err := json.Unmarshal([]byte(stateJSON), &snap.State); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state for %s: %w", uniqueID, err)
	}
	if err := json.Unmarshal([]byte(attrsJSON), &snap.Attributes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attributes for %s: %w", uniqueID, err)
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		snap.LastUpdated = t
	}

	return &snap, nil
}

// CountSnapshots returns the number of persisted sensor states.
func (s *Store) CountSnapshots() (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM sensor_states`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sensor states: %w", err)
	}
	return n, nil
}
