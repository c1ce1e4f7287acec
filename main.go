// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mtreilly/arc-vocab/internal/cmd"
	"github.com/mtreilly/arc-vocab/internal/config"
	"github.com/mtreilly/arc-vocab/internal/vocab"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arc-vocab: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	loc, err := vocab.NewDirLocations(cfg.DataDir)
	if err != nil {
		// Fall back to a throwaway directory so the tool stays operational
		// (statelessly) when the configured location is unusable.
		fmt.Fprintf(os.Stderr, "WARNING: cannot use data dir %s: %v\n", cfg.DataDir, err)
		fmt.Fprintln(os.Stderr, "         falling back to a temporary directory (data will not survive)")
		tmp, tmpErr := os.MkdirTemp("", "arc-vocab-*")
		if tmpErr != nil {
			fmt.Fprintf(os.Stderr, "arc-vocab: failed to create fallback dir: %v\n", tmpErr)
			os.Exit(1)
		}
		loc = vocab.DirLocations{Dir: tmp}
	}

	store := vocab.Open(loc, vocab.WithLogger(logger), vocab.WithDebounce(cfg.Debounce()))

	root := cmd.NewRootCmd(cfg, store)
	execErr := root.Execute()

	if err := store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "arc-vocab: failed to flush store: %v\n", err)
		os.Exit(1)
	}
	if execErr != nil {
		os.Exit(1)
	}
}
