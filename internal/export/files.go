package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/simtools/farkit/internal/far"
)

// Exporter writes archive members out to a directory on disk
type Exporter struct {
	outputDir string
}

// NewExporter creates a new file exporter rooted at outputDir
func NewExporter(outputDir string) *Exporter {
	return &Exporter{outputDir: outputDir}
}

// ProgressCallback is called to report export progress
type ProgressCallback func(current int, total int, description string)

// ExportFiles writes the given files into the output directory, one
// disk file per archive member
func (e *Exporter) ExportFiles(files []far.File, progressCallback ProgressCallback) error {
	if len(files) == 0 {
		return nil
	}

	// Create output directory
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for i, f := range files {
		name := SanitizeName(f.Name)
		outputPath := filepath.Join(e.outputDir, name)

		if err := os.WriteFile(outputPath, f.Data, 0644); err != nil {
			return fmt.Errorf("writing file %s: %w", outputPath, err)
		}
		slog.Debug("Extracted file", "name", f.Name, "output", outputPath, "size", f.Size)

		if progressCallback != nil {
			progressCallback(i+1, len(files), name)
		}
	}

	return nil
}

// SanitizeName flattens an archive entry name into a single filename.
// Entry names carry embedded path separators in both styles; separators
// become @ so the result stays inside the output directory.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "@")
	name = strings.ReplaceAll(name, "\\", "@")
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
