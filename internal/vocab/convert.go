// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// ToCSV renders the collection as tabular text: the fixed 14-column header
// followed by one row per entry. encoding/csv handles quoting of cells
// containing delimiters, quotes, or newlines.
func ToCSV(entries []*WordEntry) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write(ToRow(e)); err != nil {
			return "", fmt.Errorf("write row %s: %w", e.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// FromCSV parses tabular text. The first row is a header used to map column
// names to indices, so reordered or missing columns are tolerated. Rows that
// cannot be decoded are skipped; fewer than two rows, or a hard parse
// failure, yields an empty collection.
func FromCSV(text string) []*WordEntry {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}

	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[strings.TrimSpace(name)] = i
	}

	var entries []*WordEntry
	for _, row := range records[1:] {
		if e := FromRow(row, idx); e != nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// ToJSON renders the collection as the structured primary format.
func ToJSON(entries []*WordEntry) ([]byte, error) {
	if entries == nil {
		entries = []*WordEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal entries: %w", err)
	}
	return data, nil
}

// FromJSON parses structured text into entries. A malformed top level yields
// nil; individual records that fail to decode are skipped, so a parsed array
// always yields a non-nil slice even when every record is rejected. Callers
// rely on that distinction to tell corruption apart from skipped records.
func FromJSON(data []byte) []*WordEntry {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}
	entries := make([]*WordEntry, 0, len(raws))
	for _, raw := range raws {
		e, err := FromTree(raw)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// quickSep separates term from meaning in the quick line format.
const quickSep = "—"

// FromQuickText parses the permissive line format: one "term — meaning" pair
// per line, split on the first em-dash. Lines without the separator, or with
// an empty side after trimming, are skipped. All other fields get defaults.
func FromQuickText(text string) []*WordEntry {
	var entries []*WordEntry
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, quickSep, 2)
		if len(parts) != 2 {
			continue
		}
		term := strings.TrimSpace(parts[0])
		meaning := strings.TrimSpace(parts[1])
		if term == "" || meaning == "" {
			continue
		}
		entries = append(entries, NewWordEntry(term, meaning))
	}
	return entries
}

// ToQuickText renders entries back into the quick line format so the
// permissive format round-trips.
func ToQuickText(entries []*WordEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Term)
		b.WriteString(" " + quickSep + " ")
		b.WriteString(e.Meaning)
		b.WriteString("\n")
	}
	return b.String()
}
