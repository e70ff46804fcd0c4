package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/simtools/farkit/internal/far"
)

// Scanner decodes archive files and records their manifests in the
// catalog
type Scanner struct {
	db       *Database
	inserter *Inserter
}

// NewScanner creates a scanner backed by the given catalog
func NewScanner(db *Database) *Scanner {
	return &Scanner{db: db, inserter: NewInserter(db)}
}

// DiscoverArchives returns every .far file under root, sorted by path.
// The extension match is case-insensitive.
func DiscoverArchives(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".far") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ScanArchive reads and decodes one archive file and records its
// manifest, reporting whether the catalog was written. An archive whose
// bytes match the sha256 stored by a previous scan is skipped and its
// rows, including scanned_at, stay untouched. The archive's contents
// are not loaded, only the metadata.
func (s *Scanner) ScanArchive(ctx context.Context, path string) (*ArchiveRecord, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading archive: %w", err)
	}

	archive, err := far.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("decoding archive: %w", err)
	}

	sum := sha256.Sum256(data)
	rec := &ArchiveRecord{
		Path:       path,
		FileSize:   int64(len(data)),
		Version:    archive.Version,
		EntryCount: len(archive.Entries),
		DataSize:   archive.DataSize(),
		SHA256:     hex.EncodeToString(sum[:]),
		ScannedAt:  time.Now(),
	}

	stored, err := s.db.StoredSHA256(ctx, path)
	if err != nil {
		return nil, false, err
	}
	if stored == rec.SHA256 {
		slog.Debug("Archive unchanged since last scan", "path", path)
		return rec, false, nil
	}

	if err := s.inserter.InsertArchive(ctx, rec, archive.Entries); err != nil {
		return nil, false, fmt.Errorf("recording archive: %w", err)
	}

	slog.Debug("Cataloged archive",
		"path", path,
		"entries", rec.EntryCount,
		"data_size", rec.DataSize)
	return rec, true, nil
}
