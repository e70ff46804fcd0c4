package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/simtools/farkit/internal/far"
)

// ArchiveRecord is everything the catalog stores about one archive file
type ArchiveRecord struct {
	Path       string
	FileSize   int64
	Version    uint32
	EntryCount int
	DataSize   uint64
	SHA256     string
	ScannedAt  time.Time
}

// Inserter records scanned archives in the catalog
type Inserter struct {
	db *Database
}

// NewInserter creates an inserter backed by the given catalog
func NewInserter(db *Database) *Inserter {
	return &Inserter{db: db}
}

// InsertArchive records an archive and its manifest entries in a single
// transaction. A previous scan of the same path is replaced; deleting
// the old archive row cascades to its entries.
func (ins *Inserter) InsertArchive(ctx context.Context, rec *ArchiveRecord, entries []far.Entry) error {
	if rec == nil {
		return fmt.Errorf("archive record cannot be nil")
	}

	tx, err := ins.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM archives WHERE path = ?`, rec.Path); err != nil {
		return fmt.Errorf("removing previous scan of %s: %w", rec.Path, err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO archives (path, file_size, version, entry_count, data_size, sha256, scanned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Path, rec.FileSize, int64(rec.Version), rec.EntryCount, int64(rec.DataSize),
		rec.SHA256, rec.ScannedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting archive row for %s: %w", rec.Path, err)
	}

	archiveID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading archive id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (archive_id, ord, name, size, offset) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entry statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, archiveID, i, e.Name, int64(e.Size), int64(e.Offset)); err != nil {
			return fmt.Errorf("inserting entry %d (%s): %w", i, e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
