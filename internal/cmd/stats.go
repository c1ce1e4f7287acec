// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"time"

	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func newStatsCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := store.Entries()
			now := time.Now()

			var favorites, due int
			stages := make([]int, vocab.MaxReviewStage+1)
			for _, e := range entries {
				if e.Favorite {
					favorites++
				}
				if e.Due(now) {
					due++
				}
				if e.ReviewStage >= 0 && e.ReviewStage <= vocab.MaxReviewStage {
					stages[e.ReviewStage]++
				}
			}

			fmt.Printf("Words:     %d\n", len(entries))
			fmt.Printf("Favorites: %d\n", favorites)
			fmt.Printf("Due now:   %d\n", due)
			fmt.Println("\nBy review stage:")
			for stage, count := range stages {
				fmt.Printf("  stage %d: %d\n", stage, count)
			}
			return nil
		},
	}
	return cmd
}
