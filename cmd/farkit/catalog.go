package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/simtools/farkit/internal/catalog"
	"github.com/simtools/farkit/internal/utils"
	"github.com/spf13/cobra"
)

type CatalogStats struct {
	StartTime         time.Time
	EndTime           time.Time
	TotalArchives     int
	ArchivesScanned   int
	ArchivesUnchanged int
	EntriesRecorded   int64
	BytesScanned      int64
	ScanErrors        int
}

var catalogCmd = &cobra.Command{
	Use:   "catalog <directory>...",
	Short: "Scan directories of FAR archives into a SQLite catalog",
	Long: `Catalog walks one or more directory trees, decodes every .far archive
it finds and records each archive and its manifest entries in a SQLite
database. Rescanning is cheap: archives whose bytes are unchanged since
the last scan are skipped, and changed archives have their previous
rows replaced, so the catalog can be refreshed in place.

The database has two tables: archives, one row per file with a sha256
of its bytes, and entries, one row per manifest entry.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		stats := &CatalogStats{
			StartTime: time.Now(),
		}

		db, err := catalog.Open(catalog.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer db.Close()

		if err := db.CreateSchema(ctx); err != nil {
			return fmt.Errorf("creating catalog schema: %w", err)
		}

		var paths []string
		for _, root := range args {
			found, err := catalog.DiscoverArchives(root)
			if err != nil {
				return fmt.Errorf("discovering archives in %s: %w", root, err)
			}
			paths = append(paths, found...)
		}
		if len(paths) == 0 {
			slog.Info("No archives found", "roots", args)
			return nil
		}

		stats.TotalArchives = len(paths)
		slog.Info("Cataloging archives", "count", len(paths), "database", cfg.Database)

		scanner := catalog.NewScanner(db)
		progress := utils.NewProgress(len(paths), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		for i, path := range paths {
			progress.Update(i+1, filepath.Base(path))

			rec, updated, err := scanner.ScanArchive(ctx, path)
			if err != nil {
				slog.Error("Failed to catalog archive", "path", path, "error", err)
				stats.ScanErrors++
				continue
			}

			stats.ArchivesScanned++
			stats.BytesScanned += rec.FileSize
			if updated {
				stats.EntriesRecorded += int64(rec.EntryCount)
			} else {
				stats.ArchivesUnchanged++
			}
		}

		progress.Finish()
		stats.EndTime = time.Now()

		duration := stats.EndTime.Sub(stats.StartTime)
		var scanRate float64
		if seconds := duration.Seconds(); seconds > 0 {
			scanRate = float64(stats.EntriesRecorded) / seconds
		}

		fmt.Printf("Archives cataloged: %d/%d\n", stats.ArchivesScanned, stats.TotalArchives)
		fmt.Printf("Unchanged archives: %d\n", stats.ArchivesUnchanged)
		fmt.Printf("Entries recorded: %s\n", utils.Number(stats.EntriesRecorded))
		fmt.Printf("Bytes scanned: %s\n", utils.Bytes(uint64(stats.BytesScanned)))
		fmt.Printf("Scan errors: %d\n", stats.ScanErrors)
		fmt.Printf("Duration: %s\n", utils.Duration(duration))
		fmt.Printf("Scan rate: %s entries/sec\n", utils.Rate(scanRate))
		fmt.Println("Try running: farkit query --archives")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
