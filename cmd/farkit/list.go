package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/simtools/farkit/internal/config"
	"github.com/simtools/farkit/internal/far"
	"github.com/simtools/farkit/internal/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <archive>...",
	Short: "List the entries of FAR archives",
	Long: `List decodes each archive's manifest and prints one line per entry with
its size and name, without loading any file contents. Use --files to
narrow the listing to matching entries and --offsets to include each
entry's data offset.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showOffsets, err := cmd.Flags().GetBool("offsets")
		if err != nil {
			return fmt.Errorf("failed to get offsets flag: %w", err)
		}

		var failed int
		for i, path := range args {
			if i > 0 {
				fmt.Println()
			}
			if err := listArchive(path, showOffsets); err != nil {
				slog.Error("Failed to list archive", "path", path, "error", err)
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d archives could not be listed", failed, len(args))
		}
		return nil
	},
}

func listArchive(path string, showOffsets bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}

	archive, err := far.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding archive: %w", err)
	}

	fmt.Printf("%s:\n", path)
	if showOffsets {
		fmt.Printf("%10s  %12s  %s\n", "Offset", "Size", "Name")
	} else {
		fmt.Printf("%12s  %s\n", "Size", "Name")
	}
	fmt.Println(strings.Repeat("-", 48))

	var shown int
	var shownBytes uint64
	for _, e := range archive.Entries {
		if !config.MatchesAny(cfg.Files, e.Name) {
			continue
		}
		if showOffsets {
			fmt.Printf("%10d  %12s  %s\n", e.Offset, utils.Number(int64(e.Size)), e.Name)
		} else {
			fmt.Printf("%12s  %s\n", utils.Number(int64(e.Size)), e.Name)
		}
		shown++
		shownBytes += uint64(e.Size)
	}

	fmt.Println()
	fmt.Printf("%s entries, %s of file data (format version %d)\n",
		utils.Number(int64(shown)), utils.Bytes(shownBytes), archive.Version)
	if shown < len(archive.Entries) {
		fmt.Printf("Filtered from %s total entries\n", utils.Number(int64(len(archive.Entries))))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("offsets", false, "Include each entry's data offset")
}
