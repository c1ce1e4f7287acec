// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func newAddCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var (
		phonetic     string
		partOfSpeech string
		examples     []string
		synonyms     []string
		antonyms     []string
		tags         []string
		favorite     bool
	)

	cmd := &cobra.Command{
		Use:   "add <term> <meaning>",
		Short: "Add a word to the collection",
		Long: `Add a new word entry.

Examples:
  arc-vocab add ephemeral "lasting a very short time"
  arc-vocab add run "to move fast" --pos verb --example "run a mile" --tag basics`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			term, meaning := args[0], args[1]
			if term == "" || meaning == "" {
				return fmt.Errorf("term and meaning must not be empty")
			}

			entry := vocab.NewWordEntry(term, meaning)
			entry.Phonetic = phonetic
			entry.PartOfSpeech = partOfSpeech
			entry.Examples = examples
			entry.Synonyms = synonyms
			entry.Antonyms = antonyms
			entry.Tags = tags
			entry.Favorite = favorite

			store.Add(entry)
			if err := store.SaveNow(); err != nil {
				return fmt.Errorf("save: %w", err)
			}

			fmt.Printf("Added: %s - %s (%s)\n", entry.Term, truncate(entry.Meaning, 50), entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&phonetic, "phonetic", "", "Phonetic transcription")
	cmd.Flags().StringVar(&partOfSpeech, "pos", "", "Part of speech (noun, verb, ...)")
	cmd.Flags().StringSliceVarP(&examples, "example", "e", nil, "Example sentence (can be repeated)")
	cmd.Flags().StringSliceVar(&synonyms, "synonym", nil, "Synonym (can be repeated)")
	cmd.Flags().StringSliceVar(&antonyms, "antonym", nil, "Antonym (can be repeated)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tags to apply")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark as favorite")

	return cmd
}
