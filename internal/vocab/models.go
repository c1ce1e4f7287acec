// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty is the self-reported recall quality for a review.
type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyGood Difficulty = "good"
	DifficultyHard Difficulty = "hard"
)

// MaxReviewStage is the highest spaced-repetition stage an entry can reach.
const MaxReviewStage = 5

// WordEntry is one dictionary record: a term, its meaning, and the
// spaced-repetition metadata that drives review scheduling.
// Timestamps are milliseconds since the Unix epoch.
type WordEntry struct {
	ID           string   `json:"id" yaml:"id"`
	Term         string   `json:"term" yaml:"term"`
	Meaning      string   `json:"meaning" yaml:"meaning"`
	Phonetic     string   `json:"phonetic,omitempty" yaml:"phonetic,omitempty"`
	PartOfSpeech string   `json:"partOfSpeech,omitempty" yaml:"partOfSpeech,omitempty"`
	Examples     []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	Synonyms     []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Antonyms     []string `json:"antonyms,omitempty" yaml:"antonyms,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Favorite     bool     `json:"favorite" yaml:"favorite"`
	CreatedAt    int64    `json:"createdAtEpoch" yaml:"createdAtEpoch"`
	UpdatedAt    int64    `json:"updatedAtEpoch" yaml:"updatedAtEpoch"`
	ReviewStage  int      `json:"reviewStage" yaml:"reviewStage"`
	NextReview   int64    `json:"nextReviewEpoch" yaml:"nextReviewEpoch"`
}

// NewWordEntry creates an entry with a fresh ID, both timestamps set to now,
// review stage 0, and the first review due immediately.
func NewWordEntry(term, meaning string) *WordEntry {
	now := time.Now().UnixMilli()
	return &WordEntry{
		ID:         uuid.New().String(),
		Term:       term,
		Meaning:    meaning,
		CreatedAt:  now,
		UpdatedAt:  now,
		NextReview: now,
	}
}

// Valid reports whether the entry carries the two required fields.
// Entries missing either are dropped during import, never stored.
func (e *WordEntry) Valid() bool {
	return e != nil && e.Term != "" && e.Meaning != ""
}

// Due reports whether the entry's next review is at or before now.
func (e *WordEntry) Due(now time.Time) bool {
	return e.NextReview <= now.UnixMilli()
}

// Touch bumps UpdatedAt to now.
func (e *WordEntry) Touch() {
	e.UpdatedAt = time.Now().UnixMilli()
}

func newEntryID() string {
	return uuid.New().String()
}

func clampStage(stage int) int {
	if stage < 0 {
		return 0
	}
	if stage > MaxReviewStage {
		return MaxReviewStage
	}
	return stage
}
