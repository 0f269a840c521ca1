package release

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists the recent-files list in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore creates the database file and schema if they don't exist.
func OpenStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Set WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		slog.Info("Failed to set WAL mode", "error", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		slog.Info("Failed to set synchronous=NORMAL", "error", err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS recent_file (
		id          TEXT NOT NULL,
		name        TEXT NOT NULL,
		path        TEXT NOT NULL,
		source      TEXT NOT NULL,
		created_at  INTEGER NOT NULL,
		PRIMARY KEY(id)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS recent_file_name_idx ON recent_file(name COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS recent_file_created_idx ON recent_file(created_at);
	`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a file. Names are unique regardless of case.
func (s *Store) Add(ctx context.Context, f RecentFile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recent_file (id, name, path, source, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID,
		f.Name,
		f.Path,
		string(f.Source),
		f.CreatedAt.UnixNano(),
	)
	if err != nil {
		if existing, findErr := s.Find(ctx, f.Name); findErr == nil && existing != nil {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert recent file: %w", err)
	}
	return nil
}

// Find looks a file up by name, ignoring case.
func (s *Store) Find(ctx context.Context, name string) (*RecentFile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, path, source, created_at FROM recent_file WHERE name = ? COLLATE NOCASE`,
		name,
	)
	f, err := scanRecentFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not recorded, not an error
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// List returns recorded files, newest first. A limit <= 0 returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]RecentFile, error) {
	query := `SELECT id, name, path, source, created_at FROM recent_file ORDER BY created_at DESC, name`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []RecentFile
	for rows.Next() {
		f, err := scanRecentFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

// Delete removes the record for name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recent_file WHERE name = ? COLLATE NOCASE`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecentFile(row rowScanner) (*RecentFile, error) {
	var (
		f         RecentFile
		source    string
		createdAt int64
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Path, &source, &createdAt); err != nil {
		return nil, err
	}
	f.Source = Source(source)
	f.CreatedAt = time.Unix(0, createdAt)
	return &f, nil
}
