// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func newBackupCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the collection into the backups directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.BackupNow()
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Printf("Backup written to %s\n", path)
			return nil
		},
	}
	return cmd
}
