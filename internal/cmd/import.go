// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func newImportCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var (
		format string
		merge  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a file",
		Long: `Import word entries from a file.

Supported formats:
- json: structured entries (the store's primary format)
- csv: header + one row per word, columns in any order
- quick: one "term — meaning" pair per line

With --merge, imported words overwrite existing ones sharing the same term
(case-insensitive); without it, the import replaces the whole collection.
The quick format always merges.

Examples:
  arc-vocab import words.csv --merge
  arc-vocab import backup.json
  arc-vocab import inbox.txt --format quick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if strings.HasPrefix(path, "~") {
				home, _ := os.UserHomeDir()
				path = filepath.Join(home, path[1:])
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			f := format
			if f == "" {
				f = guessFormat(path)
			}

			var count int
			switch f {
			case "json":
				count = store.ImportJSON(data, merge)
			case "csv":
				count = store.ImportCSV(string(data), merge)
			case "quick":
				count = store.ImportQuickText(string(data))
			default:
				return fmt.Errorf("unsupported format: %s (choose json, csv, quick)", f)
			}

			if count == 0 {
				fmt.Println("No importable words found.")
				return nil
			}
			if err := store.SaveNow(); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			fmt.Printf("Imported %d word(s) from %s.\n", count, filepath.Base(path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json, csv, quick (default: by extension)")
	cmd.Flags().BoolVarP(&merge, "merge", "m", false, "Merge into the existing collection instead of replacing it")

	return cmd
}

func guessFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	default:
		return "quick"
	}
}
