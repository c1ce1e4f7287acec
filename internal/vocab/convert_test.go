package vocab

import (
	"testing"
)

func TestCSVRoundTrip(t *testing.T) {
	entries := []*WordEntry{sampleEntry()}
	entries[0].Meaning = `has "quotes", commas,
and a newline`

	text, err := ToCSV(entries)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	got := FromCSV(text)
	if len(got) != 1 {
		t.Fatalf("FromCSV returned %d entries, want 1", len(got))
	}
	if got[0].Meaning != entries[0].Meaning {
		t.Errorf("meaning mismatch: %q", got[0].Meaning)
	}
	if len(got[0].Synonyms) != 2 || got[0].Synonyms[0] != "fleeting" {
		t.Errorf("synonyms mismatch: %v", got[0].Synonyms)
	}
}

func TestFromCSVReorderedAndMissingColumns(t *testing.T) {
	text := "meaning,term\na small feline,cat\nto move fast,run\n"
	got := FromCSV(text)
	if len(got) != 2 {
		t.Fatalf("FromCSV returned %d entries, want 2", len(got))
	}
	if got[0].Term != "cat" || got[0].Meaning != "a small feline" {
		t.Errorf("first entry = %q / %q", got[0].Term, got[0].Meaning)
	}
	if got[1].ID == "" {
		t.Error("id should be generated for rows without one")
	}
}

func TestFromCSVSkipsBadRows(t *testing.T) {
	text := "term,meaning\ncat,a small feline\n,missing term\nrun,to move fast\n"
	got := FromCSV(text)
	if len(got) != 2 {
		t.Fatalf("FromCSV returned %d entries, want 2", len(got))
	}
}

func TestFromCSVEmptyInputs(t *testing.T) {
	if got := FromCSV(""); got != nil {
		t.Errorf("empty text: got %d entries", len(got))
	}
	if got := FromCSV("term,meaning\n"); got != nil {
		t.Errorf("header only: got %d entries", len(got))
	}
	if got := FromCSV("\"unterminated"); got != nil {
		t.Errorf("hard parse failure: got %d entries", len(got))
	}
}

func TestJSONRoundTrip(t *testing.T) {
	entries := []*WordEntry{sampleEntry()}
	data, err := ToJSON(entries)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got := FromJSON(data)
	if len(got) != 1 {
		t.Fatalf("FromJSON returned %d entries, want 1", len(got))
	}
	if got[0].Term != "ephemeral" || got[0].ReviewStage != 2 {
		t.Errorf("entry mismatch: %+v", got[0])
	}
}

func TestFromJSONMalformedTopLevel(t *testing.T) {
	if got := FromJSON([]byte("{not json")); got != nil {
		t.Errorf("malformed input: got %d entries", len(got))
	}
	if got := FromJSON([]byte(`{"an":"object"}`)); got != nil {
		t.Errorf("non-array input: got %d entries", len(got))
	}
}

func TestFromJSONParsedArrayIsNeverNil(t *testing.T) {
	cases := []string{`[]`, `[{"x":1}]`, `[{"term":"no-id","meaning":"dropped"}]`}
	for _, data := range cases {
		got := FromJSON([]byte(data))
		if got == nil {
			t.Errorf("FromJSON(%s) = nil, want empty non-nil slice", data)
		}
		if len(got) != 0 {
			t.Errorf("FromJSON(%s) = %d entries, want 0", data, len(got))
		}
	}
}

func TestFromJSONSkipsBadRecords(t *testing.T) {
	data := []byte(`[
		{"id":"a","term":"cat","meaning":"feline","createdAtEpoch":1,"updatedAtEpoch":1},
		{"term":"no-id","meaning":"dropped"},
		{"id":"b","term":"dog","meaning":"canine","createdAtEpoch":2,"updatedAtEpoch":2}
	]`)
	got := FromJSON(data)
	if len(got) != 2 {
		t.Fatalf("FromJSON returned %d entries, want 2", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("entries = %s, %s", got[0].ID, got[1].ID)
	}
}

func TestFromQuickText(t *testing.T) {
	text := "run — to move fast\nbadline\njump — to leap"
	got := FromQuickText(text)
	if len(got) != 2 {
		t.Fatalf("FromQuickText returned %d entries, want 2", len(got))
	}
	if got[0].Term != "run" || got[0].Meaning != "to move fast" {
		t.Errorf("first entry = %q / %q", got[0].Term, got[0].Meaning)
	}
	if got[1].Term != "jump" {
		t.Errorf("second entry = %q", got[1].Term)
	}
	if got[0].ID == "" || got[0].CreatedAt == 0 {
		t.Error("quick entries should get generated id and timestamps")
	}
}

func TestFromQuickTextEdgeCases(t *testing.T) {
	cases := map[string]int{
		"":                          0,
		"\n\n\n":                    0,
		" — meaning without term":   0,
		"term without meaning — ":   0,
		"a — b — c":                 1, // extra em-dashes stay in the meaning
		"x — y\r":                   1,
	}
	for text, want := range cases {
		if got := len(FromQuickText(text)); got != want {
			t.Errorf("FromQuickText(%q) = %d entries, want %d", text, got, want)
		}
	}
	got := FromQuickText("a — b — c")
	if got[0].Meaning != "b — c" {
		t.Errorf("meaning = %q, want rejoined remainder", got[0].Meaning)
	}
}

func TestQuickTextRoundTrip(t *testing.T) {
	entries := []*WordEntry{NewWordEntry("cat", "a small feline")}
	got := FromQuickText(ToQuickText(entries))
	if len(got) != 1 || got[0].Term != "cat" || got[0].Meaning != "a small feline" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
