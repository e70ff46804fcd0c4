package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/simtools/farkit/internal/far"
	"github.com/simtools/farkit/internal/utils"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <archive> <input>...",
	Short: "Create a FAR archive from files and directories",
	Long: `Create assembles a new archive from the given inputs in order. Plain
files are stored under the name given on the command line; directories
are walked recursively and their files stored under slash-separated
names relative to the directory.

Inside a directory the walk is lexical, so creating an archive from the
same tree twice produces identical bytes.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := args[0]
		inputs := args[1:]

		start := time.Now()

		var files []far.File
		for _, input := range inputs {
			collected, err := collectFiles(input)
			if err != nil {
				return err
			}
			files = append(files, collected...)
		}

		if len(files) == 0 {
			return fmt.Errorf("nothing to archive under %v", inputs)
		}

		archive := far.Build(files)
		data, err := archive.Serialize()
		if err != nil {
			return fmt.Errorf("serializing archive: %w", err)
		}

		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		fmt.Printf("Files archived: %s\n", utils.Number(int64(len(files))))
		fmt.Printf("Archive size: %s\n", utils.Bytes(uint64(len(data))))
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(start)))
		fmt.Printf("Wrote %s\n", outPath)

		return nil
	},
}

// collectFiles loads a single file, or every file under a directory
// with slash-separated names relative to it.
func collectFiles(input string) ([]far.File, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", input, err)
	}

	if !info.IsDir() {
		f, err := loadFile(input, filepath.ToSlash(filepath.Clean(input)))
		if err != nil {
			return nil, err
		}
		return []far.File{f}, nil
	}

	var files []far.File
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		f, err := loadFile(path, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", input, err)
	}

	return files, nil
}

func loadFile(path, name string) (far.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return far.File{}, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := far.NewFile(name, data)
	if err != nil {
		return far.File{}, fmt.Errorf("adding %s: %w", path, err)
	}

	slog.Debug("Adding file", "name", name, "size", f.Size)
	return f, nil
}

func init() {
	rootCmd.AddCommand(createCmd)
}
