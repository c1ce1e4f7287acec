// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"

	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func newExportCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection to various formats",
		Long: `Export your words for use in other tools.

Formats:
- json: structured entries, suitable for re-import
- csv: tabular text, one row per word
- quick: "term — meaning" lines
- anki: an .apkg deck for Anki (requires --output)

Examples:
  arc-vocab export --format csv --output words.csv
  arc-vocab export --format anki --output deck.apkg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := store.Entries()

			if format == "anki" {
				if output == "" || output == "-" {
					return fmt.Errorf("anki export needs --output <file.apkg>")
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				exporter := vocab.NewAnkiExporter(cfg.DeckName)
				if err := exporter.ExportEntries(entries, f); err != nil {
					return fmt.Errorf("export anki: %w", err)
				}
				fmt.Printf("Exported %d word(s) to %s.\n", len(entries), output)
				return nil
			}

			var out []byte
			switch format {
			case "json":
				data, err := vocab.ToJSON(entries)
				if err != nil {
					return fmt.Errorf("export json: %w", err)
				}
				out = data
			case "csv":
				text, err := vocab.ToCSV(entries)
				if err != nil {
					return fmt.Errorf("export csv: %w", err)
				}
				out = []byte(text)
			case "quick":
				out = []byte(vocab.ToQuickText(entries))
			default:
				return fmt.Errorf("unsupported format: %s (choose json, csv, quick, anki)", format)
			}

			if output == "" || output == "-" {
				fmt.Print(string(out))
				return nil
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Printf("Exported %d word(s) to %s.\n", len(entries), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, csv, quick, anki")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (default: stdout)")

	return cmd
}
