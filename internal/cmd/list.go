// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func newListCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var (
		dueOnly   bool
		favorites bool
		tag       string
		search    string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List words in the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := store.Entries()
			now := time.Now()

			shown := 0
			for _, e := range entries {
				if dueOnly && !e.Due(now) {
					continue
				}
				if favorites && !e.Favorite {
					continue
				}
				if tag != "" && !hasTag(e, tag) {
					continue
				}
				if search != "" && !matches(e, search) {
					continue
				}

				marker := " "
				if e.Favorite {
					marker = "*"
				}
				fmt.Printf("%s %-24s %-40s stage %d  %s\n",
					marker, truncate(e.Term, 24), truncate(e.Meaning, 40), e.ReviewStage, e.ID)
				shown++
				if limit > 0 && shown >= limit {
					break
				}
			}

			fmt.Printf("\n%d of %d word(s)\n", shown, len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dueOnly, "due", false, "Only words due for review")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorites")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Filter by tag")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Search terms and meanings")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit output")

	return cmd
}

func hasTag(e *vocab.WordEntry, tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matches(e *vocab.WordEntry, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(e.Term), search) ||
		strings.Contains(strings.ToLower(e.Meaning), search)
}
