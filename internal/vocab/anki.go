// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// AnkiExporter generates .apkg decks from word entries so a collection can
// be reviewed in Anki. Front is the term (with phonetic when present), back
// is the meaning plus part of speech and example sentences.
type AnkiExporter struct {
	deckName string
}

// NewAnkiExporter creates an exporter for the given deck name.
func NewAnkiExporter(deckName string) *AnkiExporter {
	if deckName == "" {
		deckName = "Arc Vocab"
	}
	return &AnkiExporter{deckName: deckName}
}

// ExportEntries writes an .apkg package for the given entries.
func (e *AnkiExporter) ExportEntries(entries []*WordEntry, w io.Writer) error {
	tmpDir, err := os.MkdirTemp("", "anki-export-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "collection.anki2")
	if err := e.createDatabase(dbPath, entries); err != nil {
		return fmt.Errorf("create database: %w", err)
	}

	// Media manifest is required even when empty.
	mediaPath := filepath.Join(tmpDir, "media")
	if err := os.WriteFile(mediaPath, []byte("{}"), 0o644); err != nil {
		return fmt.Errorf("create media file: %w", err)
	}

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	if err := e.addFileToZip(zipWriter, dbPath, "collection.anki2"); err != nil {
		return fmt.Errorf("add database to zip: %w", err)
	}
	if err := e.addFileToZip(zipWriter, mediaPath, "media"); err != nil {
		return fmt.Errorf("add media to zip: %w", err)
	}

	return nil
}

func (e *AnkiExporter) createDatabase(dbPath string, entries []*WordEntry) error {
	os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	schema := `
		CREATE TABLE col (
			id INTEGER PRIMARY KEY,
			crt INTEGER NOT NULL,
			mod INTEGER NOT NULL,
			scm INTEGER NOT NULL,
			ver INTEGER NOT NULL,
			dty INTEGER NOT NULL,
			usn INTEGER NOT NULL,
			ls INTEGER NOT NULL,
			conf TEXT NOT NULL,
			models TEXT NOT NULL,
			decks TEXT NOT NULL,
			dconf TEXT NOT NULL,
			tags TEXT NOT NULL
		);

		CREATE TABLE notes (
			id INTEGER PRIMARY KEY,
			guid TEXT NOT NULL,
			mid INTEGER NOT NULL,
			usn INTEGER NOT NULL,
			mod INTEGER NOT NULL,
			sfld INTEGER NOT NULL,
			csum INTEGER NOT NULL,
			flags INTEGER NOT NULL,
			data TEXT NOT NULL,
			sflds TEXT NOT NULL
		);

		CREATE TABLE cards (
			id INTEGER PRIMARY KEY,
			nid INTEGER NOT NULL,
			did INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			mod INTEGER NOT NULL,
			usn INTEGER NOT NULL,
			type INTEGER NOT NULL,
			queue INTEGER NOT NULL,
			due INTEGER NOT NULL,
			ivl INTEGER NOT NULL,
			factor INTEGER NOT NULL,
			reps INTEGER NOT NULL,
			lapses INTEGER NOT NULL,
			left INTEGER NOT NULL,
			odue INTEGER NOT NULL,
			odid INTEGER NOT NULL,
			flags INTEGER NOT NULL,
			data TEXT NOT NULL
		);

		CREATE INDEX ix_cards_nid ON cards (nid);
		CREATE INDEX ix_cards_sched ON cards (did, queue, due);
		CREATE INDEX ix_notes_csum ON notes (csum);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	now := time.Now().UnixMilli()
	deckID := int64(1)
	modelID := int64(1)

	conf := map[string]interface{}{
		"curModel":    modelID,
		"activeDecks": []int64{deckID},
	}
	confJSON, _ := json.Marshal(conf)

	model := map[string]interface{}{
		fmt.Sprintf("%d", modelID): map[string]interface{}{
			"id":    modelID,
			"name":  "Basic",
			"type":  0,
			"mod":   now,
			"usn":   -1,
			"sortf": 0,
			"did":   deckID,
			"tmpls": []map[string]interface{}{
				{
					"name":  "Card 1",
					"ord":   0,
					"qfmt":  "{{Front}}",
					"afmt":  "{{FrontSide}}<hr id=\"answer\">{{Back}}",
					"bqfmt": "",
					"bafmt": "",
					"did":   nil,
					"bfont": "Arial",
					"bsize": 20,
				},
			},
			"flds": []map[string]interface{}{
				{"name": "Front", "ord": 0, "sticky": false, "rtl": false, "font": "Arial", "size": 20, "media": []string{}},
				{"name": "Back", "ord": 1, "sticky": false, "rtl": false, "font": "Arial", "size": 20, "media": []string{}},
			},
			"css":  ".card { font-family: arial; font-size: 20px; text-align: center; color: black; background-color: white; }",
			"req":  [][]interface{}{{0, "all", []int{0}}},
			"tags": []string{},
			"vers": []int{},
		},
	}
	modelsJSON, _ := json.Marshal(model)

	deck := map[string]interface{}{
		fmt.Sprintf("%d", deckID): map[string]interface{}{
			"id":        deckID,
			"name":      e.deckName,
			"desc":      "",
			"mod":       now,
			"usn":       -1,
			"collapsed": false,
			"dyn":       0,
			"newToday":  []interface{}{0, 0},
			"revToday":  []interface{}{0, 0},
			"lrnToday":  []interface{}{0, 0},
			"timeToday": []interface{}{0, 0},
			"conf":      1,
		},
	}
	decksJSON, _ := json.Marshal(deck)

	dconf := map[string]interface{}{
		"1": map[string]interface{}{
			"id":       1,
			"mod":      now,
			"usn":      -1,
			"maxTaken": 60,
			"autoplay": true,
			"timer":    0,
			"replayq":  true,
			"new": map[string]interface{}{
				"delays":        []float64{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"separate":      true,
				"order":         1,
				"perDay":        20,
			},
			"rev": map[string]interface{}{
				"perDay":   200,
				"fuzz":     0.05,
				"minSpace": 1,
				"ivlFct":   1,
				"maxIvl":   36500,
			},
			"lapse": map[string]interface{}{
				"delays":      []float64{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
		},
	}
	dconfJSON, _ := json.Marshal(dconf)

	_, err = db.Exec(`
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, 1, now/1000, now, now, 11, 0, 0, 0, string(confJSON), string(modelsJSON), string(decksJSON), string(dconfJSON), "[]")
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}

	for i, entry := range entries {
		if err := e.insertEntry(db, int64(i), entry, modelID, deckID, now); err != nil {
			return fmt.Errorf("insert entry %s: %w", entry.ID, err)
		}
	}

	return nil
}

// cardFront renders the question side: term plus phonetic when present.
func cardFront(entry *WordEntry) string {
	if entry.Phonetic != "" {
		return fmt.Sprintf("%s [%s]", entry.Term, entry.Phonetic)
	}
	return entry.Term
}

// cardBack renders the answer side: meaning, part of speech, and examples.
func cardBack(entry *WordEntry) string {
	var b strings.Builder
	if entry.PartOfSpeech != "" {
		b.WriteString("<i>" + entry.PartOfSpeech + "</i><br>")
	}
	b.WriteString(entry.Meaning)
	for _, ex := range entry.Examples {
		b.WriteString("<br><small>" + ex + "</small>")
	}
	return b.String()
}

func (e *AnkiExporter) insertEntry(db *sql.DB, idx int64, entry *WordEntry, modelID, deckID, now int64) error {
	noteID := now + idx*1000
	cardID := noteID + 1

	front := cardFront(entry)
	back := cardBack(entry)

	fields := front + "\x1f" + back // \x1f is Anki's field separator
	sfld := front

	csum := int64(0)
	for _, c := range fields {
		csum = (csum*31 + int64(c)) & 0xFFFFFFFF
	}

	_, err := db.Exec(`
		INSERT INTO notes (id, guid, mid, usn, mod, sfld, csum, flags, data, sflds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, noteID, "vocab-"+entry.ID, modelID, -1, now, sfld, csum, 0, "", fields)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	// Days until due, from the entry's schedule.
	daysDue := int((entry.NextReview - now) / millisPerDay)
	if daysDue < 0 {
		daysDue = 0
	}

	// Interval approximated from the review stage using the good-answer
	// pacing of two days per stage.
	ivl := 2 * entry.ReviewStage

	_, err = db.Exec(`
		INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cardID, noteID, deckID, 0, now, -1, 0, 0, daysDue, ivl, 2500, 0, 0, 0, 0, 0, 0, "")
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}

	return nil
}

func (e *AnkiExporter) addFileToZip(zw *zip.Writer, filePath, nameInZip string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = nameInZip
	header.Method = zip.Deflate

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(writer, file)
	return err
}
