package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

// The catalog layout is fixed: one row per scanned archive and one row
// per manifest entry, linked by archive_id.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS archives (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    file_size INTEGER NOT NULL,
    version INTEGER NOT NULL,
    entry_count INTEGER NOT NULL,
    data_size INTEGER NOT NULL,
    sha256 TEXT NOT NULL,
    scanned_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS entries (
    archive_id INTEGER NOT NULL,
    ord INTEGER NOT NULL,
    name TEXT NOT NULL,
    size INTEGER NOT NULL,
    offset INTEGER NOT NULL,
    PRIMARY KEY (archive_id, ord),
    FOREIGN KEY (archive_id) REFERENCES archives(id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_name ON entries(name)`,
}

// CreateSchema creates the catalog tables if they do not exist yet
func (d *Database) CreateSchema(ctx context.Context) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	for _, ddl := range schemaStatements {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("executing schema DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	slog.Debug("Catalog schema ready", "path", d.path)
	return nil
}

// HasSchema reports whether the catalog tables exist yet
func (d *Database) HasSchema(ctx context.Context) (bool, error) {
	if d.db == nil {
		return false, fmt.Errorf("catalog connection is closed")
	}

	query := `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('archives', 'entries')`
	var count int
	if err := d.QueryRow(ctx, query).Scan(&count); err != nil {
		return false, fmt.Errorf("checking catalog tables: %w", err)
	}

	return count == 2, nil
}
