package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/simtools/farkit/internal/config"
	"github.com/simtools/farkit/internal/export"
	"github.com/simtools/farkit/internal/far"
	"github.com/simtools/farkit/internal/utils"
	"github.com/spf13/cobra"
)

type ExtractionStats struct {
	StartTime      time.Time
	EndTime        time.Time
	TotalEntries   int
	FilesExtracted int
	BytesWritten   uint64
}

var extractCmd = &cobra.Command{
	Use:   "extract <archive> [name]...",
	Short: "Extract files from a FAR archive to disk",
	Long: `Extract decodes an archive, loads its file contents and writes each
member into the output directory. Entry names are flattened into single
filenames, with path separators replaced by @.

By default every entry is extracted. Names given after the archive, and
any --files patterns, select a subset by exact name or glob pattern.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := &ExtractionStats{
			StartTime: time.Now(),
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		archive, err := far.Decode(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}

		hydrated, err := archive.Hydrate(data)
		if err != nil {
			return fmt.Errorf("loading file contents from %s: %w", args[0], err)
		}

		stats.TotalEntries = len(hydrated.Files)

		patterns := cfg.Files
		if len(args) > 1 {
			patterns = append(append([]string{}, patterns...), args[1:]...)
		}

		selected := make([]far.File, 0, len(hydrated.Files))
		for _, f := range hydrated.Files {
			if config.MatchesAny(patterns, f.Name) {
				selected = append(selected, f)
			}
		}

		if len(selected) == 0 {
			slog.Info("No entries match the requested filters", "archive", args[0], "filters", patterns)
			return nil
		}

		slog.Info("Extracting archive",
			"archive", args[0],
			"entries", len(selected),
			"output", cfg.OutputDir)

		progress := utils.NewProgress(len(selected), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		exporter := export.NewExporter(cfg.OutputDir)
		err = exporter.ExportFiles(selected, func(current, total int, description string) {
			progress.Update(current, description)
		})
		progress.Finish()
		if err != nil {
			return fmt.Errorf("extracting files: %w", err)
		}

		stats.FilesExtracted = len(selected)
		for _, f := range selected {
			stats.BytesWritten += uint64(f.Size)
		}
		stats.EndTime = time.Now()

		fmt.Printf("Files extracted: %d/%d\n", stats.FilesExtracted, stats.TotalEntries)
		fmt.Printf("Bytes written: %s\n", utils.Bytes(stats.BytesWritten))
		fmt.Printf("Output directory: %s\n", cfg.OutputDir)
		fmt.Printf("Duration: %s\n", utils.Duration(stats.EndTime.Sub(stats.StartTime)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
