// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Columns is the fixed column order of the tabular mirror format.
var Columns = []string{
	"id", "term", "phonetic", "partOfSpeech", "meaning",
	"examples", "synonyms", "antonyms", "tags", "favorite",
	"createdAtEpoch", "updatedAtEpoch", "reviewStage", "nextReviewEpoch",
}

// listSep joins list fields inside a single cell. Values are stored verbatim.
const listSep = "|"

// ToRow maps an entry to the fixed column order.
func ToRow(e *WordEntry) []string {
	return []string{
		e.ID,
		e.Term,
		e.Phonetic,
		e.PartOfSpeech,
		e.Meaning,
		strings.Join(e.Examples, listSep),
		strings.Join(e.Synonyms, listSep),
		strings.Join(e.Antonyms, listSep),
		strings.Join(e.Tags, listSep),
		strconv.FormatBool(e.Favorite),
		strconv.FormatInt(e.CreatedAt, 10),
		strconv.FormatInt(e.UpdatedAt, 10),
		strconv.Itoa(e.ReviewStage),
		strconv.FormatInt(e.NextReview, 10),
	}
}

// rowReader reads typed values out of a data row by column name, using a
// header-derived name-to-index mapping. Every accessor reports whether the
// column was present and parseable, so callers pick fallbacks explicitly
// instead of casting blindly.
type rowReader struct {
	row []string
	idx map[string]int
}

func (r rowReader) str(col string) (string, bool) {
	i, ok := r.idx[col]
	if !ok || i < 0 || i >= len(r.row) {
		return "", false
	}
	return r.row[i], true
}

func (r rowReader) int64(col string) (int64, bool) {
	s, ok := r.str(col)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r rowReader) boolean(col string) (bool, bool) {
	s, ok := r.str(col)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return v, true
}

func (r rowReader) list(col string) []string {
	s, ok := r.str(col)
	if !ok || s == "" {
		return nil
	}
	parts := strings.Split(s, listSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FromRow decodes one data row using the header mapping. Returns nil when the
// row lacks a term or meaning; every other field falls back to a default
// (current time for timestamps, 0 for the review stage, empty lists).
func FromRow(row []string, idx map[string]int) *WordEntry {
	r := rowReader{row: row, idx: idx}

	term, _ := r.str("term")
	meaning, _ := r.str("meaning")
	if term == "" || meaning == "" {
		return nil
	}

	now := time.Now().UnixMilli()
	e := &WordEntry{Term: term, Meaning: meaning}

	e.ID, _ = r.str("id")
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.Phonetic, _ = r.str("phonetic")
	e.PartOfSpeech, _ = r.str("partOfSpeech")
	e.Examples = r.list("examples")
	e.Synonyms = r.list("synonyms")
	e.Antonyms = r.list("antonyms")
	e.Tags = r.list("tags")
	e.Favorite, _ = r.boolean("favorite")

	if v, ok := r.int64("createdAtEpoch"); ok {
		e.CreatedAt = v
	} else {
		e.CreatedAt = now
	}
	if v, ok := r.int64("updatedAtEpoch"); ok {
		e.UpdatedAt = v
	} else {
		e.UpdatedAt = now
	}
	if v, ok := r.int64("nextReviewEpoch"); ok {
		e.NextReview = v
	} else {
		e.NextReview = now
	}
	if v, ok := r.int64("reviewStage"); ok {
		e.ReviewStage = clampStage(int(v))
	}

	return e
}

// treeEntry mirrors WordEntry with pointers on the fields the structured
// format requires, so absence is distinguishable from a zero value.
type treeEntry struct {
	ID           *string  `json:"id"`
	Term         string   `json:"term"`
	Meaning      string   `json:"meaning"`
	Phonetic     string   `json:"phonetic"`
	PartOfSpeech string   `json:"partOfSpeech"`
	Examples     []string `json:"examples"`
	Synonyms     []string `json:"synonyms"`
	Antonyms     []string `json:"antonyms"`
	Tags         []string `json:"tags"`
	Favorite     bool     `json:"favorite"`
	CreatedAt    *int64   `json:"createdAtEpoch"`
	UpdatedAt    *int64   `json:"updatedAtEpoch"`
	ReviewStage  int      `json:"reviewStage"`
	NextReview   *int64   `json:"nextReviewEpoch"`
}

// FromTree decodes a single structured record. id, createdAtEpoch and
// updatedAtEpoch are required; a record missing them, or missing its term or
// meaning, yields a decode error the caller treats as "skip this record".
func FromTree(raw json.RawMessage) (*WordEntry, error) {
	var t treeEntry
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	if t.ID == nil || *t.ID == "" {
		return nil, fmt.Errorf("decode entry: missing id")
	}
	if t.CreatedAt == nil || t.UpdatedAt == nil {
		return nil, fmt.Errorf("decode entry %s: missing timestamps", *t.ID)
	}
	if t.Term == "" || t.Meaning == "" {
		return nil, fmt.Errorf("decode entry %s: missing term or meaning", *t.ID)
	}

	e := &WordEntry{
		ID:           *t.ID,
		Term:         t.Term,
		Meaning:      t.Meaning,
		Phonetic:     t.Phonetic,
		PartOfSpeech: t.PartOfSpeech,
		Examples:     t.Examples,
		Synonyms:     t.Synonyms,
		Antonyms:     t.Antonyms,
		Tags:         t.Tags,
		Favorite:     t.Favorite,
		CreatedAt:    *t.CreatedAt,
		UpdatedAt:    *t.UpdatedAt,
		ReviewStage:  clampStage(t.ReviewStage),
	}
	if t.NextReview != nil {
		e.NextReview = *t.NextReview
	} else {
		e.NextReview = e.CreatedAt
	}
	return e, nil
}
