// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func newRemoveCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a word from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			entry := store.Get(id)
			if entry == nil {
				return fmt.Errorf("word not found: %s", id)
			}
			store.Remove(id)
			if err := store.SaveNow(); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			fmt.Printf("Removed: %s - %s\n", entry.Term, truncate(entry.Meaning, 50))
			return nil
		},
	}
	return cmd
}
