// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for arc-vocab.
func NewRootCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {

	root := &cobra.Command{
		Use:   "arc-vocab",
		Short: "Manage your personal vocabulary collection",
		Long: `A local-first vocabulary trainer with spaced repetition.

arc-vocab provides tools to:
- Add words with meanings, phonetics, examples, and tags
- Review due words on a spaced-repetition schedule
- Import and export collections (JSON, CSV, quick "term — meaning" lines, Anki)
- Keep everything in plain files with automatic backups`,
	}

	root.AddCommand(newAddCmd(cfg, store))
	root.AddCommand(newListCmd(cfg, store))
	root.AddCommand(newRemoveCmd(cfg, store))
	root.AddCommand(newImportCmd(cfg, store))
	root.AddCommand(newExportCmd(cfg, store))
	root.AddCommand(newReviewCmd(cfg, store))
	root.AddCommand(newBackupCmd(cfg, store))
	root.AddCommand(newStatsCmd(cfg, store))
	root.AddCommand(newWatchCmd(cfg, store))

	return root
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
