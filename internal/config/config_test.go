package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DataDir == "" {
		t.Error("DataDir should have a default")
	}
	if cfg.DebounceMs != 600 {
		t.Errorf("DebounceMs = %d, want 600", cfg.DebounceMs)
	}
	if cfg.Debounce() != 600*time.Millisecond {
		t.Errorf("Debounce() = %s", cfg.Debounce())
	}
	if cfg.DeckName == "" {
		t.Error("DeckName should have a default")
	}
}
