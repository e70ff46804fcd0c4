package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/simtools/farkit/internal/far"
	"github.com/simtools/farkit/internal/utils"
	"github.com/spf13/cobra"
)

var verifyStrict bool

var verifyCmd = &cobra.Command{
	Use:   "verify <archive>...",
	Short: "Verify that FAR archives decode cleanly",
	Long: `Verify decodes each archive's manifest and checks that every entry's
byte range lies inside the file. With --strict it additionally
re-serializes the archive and requires the output to match the input
byte for byte, which flags archives with non-canonical layouts such as
gaps between files or out-of-order data.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			if err := verifyArchive(path); err != nil {
				fmt.Printf("%s: FAILED: %v\n", path, err)
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d archives failed verification", failed, len(args))
		}
		return nil
	},
}

func verifyArchive(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}

	archive, err := far.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding manifest: %w", err)
	}

	hydrated, err := archive.Hydrate(data)
	if err != nil {
		return fmt.Errorf("loading file contents: %w", err)
	}

	if verifyStrict {
		reencoded, err := hydrated.Serialize()
		if err != nil {
			return fmt.Errorf("re-serializing: %w", err)
		}
		if !bytes.Equal(reencoded, data) {
			return fmt.Errorf("non-canonical layout: re-serialized output differs from input (%d vs %d bytes)",
				len(reencoded), len(data))
		}
	}

	fmt.Printf("%s: OK (%s entries, %s)\n",
		path, utils.Number(int64(len(archive.Entries))), utils.Bytes(archive.DataSize()))
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyStrict, "strict", false, "require canonical layout (byte-exact re-serialization)")
}
