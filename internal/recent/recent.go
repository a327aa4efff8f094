/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package recent keeps a most-recently-viewed file list in an embedded
// SQLite database under the user data directory.
package recent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	applog "pixelview/internal/log"
	"pixelview/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	DBFileName = "recent.sqlite"

	// schemaVersion tracks the local SQLite schema. Bump on breaking
	// schema changes and add a migration step.
	schemaVersion = 1

	// MaxEntries is the number of rows kept after pruning.
	MaxEntries = 50
)

// Entry is one remembered file.
type Entry struct {
	Path       string
	LastOpened time.Time
	OpenCount  int
	Width      int
	Height     int
}

// Store wraps the recent-files database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dataDir/recent.sqlite, enables WAL
// mode, and ensures the schema exists.
func Open(dataDir string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("recent"), "open").With(
		slog.String("dir", dataDir),
	)
	if strings.TrimSpace(dataDir) == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		l.Error("create data dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dataDir, DBFileName)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("recent store ready", slog.String("path", path))
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recent_files (
			path        TEXT PRIMARY KEY,
			last_opened INTEGER NOT NULL,
			open_count  INTEGER NOT NULL DEFAULT 1,
			width       INTEGER NOT NULL DEFAULT 0,
			height      INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recent_last_opened ON recent_files(last_opened DESC);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// Touch records that path was opened now, creating the row on first sight
// and pruning the list down to MaxEntries.
func (s *Store) Touch(ctx context.Context, path string, width, height int) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	// nanosecond precision keeps the ordering stable for rapid touches
	now := time.Now().UnixNano()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recent_files (path, last_opened, open_count, width, height)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			last_opened = excluded.last_opened,
			open_count  = open_count + 1,
			width       = excluded.width,
			height      = excluded.height`,
		abs, now, width, height)
	if err != nil {
		return fmt.Errorf("record recent file: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		DELETE FROM recent_files WHERE path NOT IN (
			SELECT path FROM recent_files ORDER BY last_opened DESC LIMIT ?
		)`, MaxEntries)
	if err != nil {
		return fmt.Errorf("prune recent files: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = MaxEntries
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, last_opened, open_count, width, height
		FROM recent_files ORDER BY last_opened DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent files: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var opened int64
		if err := rows.Scan(&e.Path, &opened, &e.OpenCount, &e.Width, &e.Height); err != nil {
			return nil, fmt.Errorf("scan recent row: %w", err)
		}
		e.LastOpened = time.Unix(0, opened)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Remove drops one path from the list. Removing an absent path is not an
// error.
func (s *Store) Remove(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_files WHERE path = ?`, abs); err != nil {
		return fmt.Errorf("remove recent file: %w", err)
	}
	return nil
}

// Clear empties the list.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_files`); err != nil {
		return fmt.Errorf("clear recent files: %w", err)
	}
	return nil
}
