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

func newReviewCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review [id] [easy|good|hard]",
		Short: "Review due words",
		Long: `Without arguments, list the words due for review.
With an id and a difficulty, grade that word and reschedule it.

Examples:
  arc-vocab review
  arc-vocab review 2f1c... good`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()

			if len(args) == 0 {
				due := store.Due(now)
				if len(due) == 0 {
					fmt.Println("Nothing due. Come back later.")
					return nil
				}
				for _, e := range due {
					fmt.Printf("%-24s stage %d  %s\n", truncate(e.Term, 24), e.ReviewStage, e.ID)
				}
				fmt.Printf("\n%d word(s) due\n", len(due))
				return nil
			}
			if len(args) != 2 {
				return fmt.Errorf("grading needs an id and a difficulty (easy, good, hard)")
			}

			entry := store.Get(args[0])
			if entry == nil {
				return fmt.Errorf("word not found: %s", args[0])
			}
			difficulty, ok := vocab.ParseDifficulty(args[1])
			if !ok {
				return fmt.Errorf("unknown difficulty %q (choose easy, good, hard)", args[1])
			}

			graded := *entry
			graded.ReviewStage, graded.NextReview = vocab.NextSchedule(entry.ReviewStage, difficulty, now)
			store.Update(&graded)
			if err := store.SaveNow(); err != nil {
				return fmt.Errorf("save: %w", err)
			}

			next := time.UnixMilli(graded.NextReview)
			fmt.Printf("%s: stage %d -> %d, next review %s\n",
				graded.Term, entry.ReviewStage, graded.ReviewStage, next.Format("2006-01-02"))
			return nil
		},
	}
	return cmd
}
