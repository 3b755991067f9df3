package main

// Local terminal jigsaw. Scores and save slots live in a sqlite file; run
// with -db "" to play without persistence.

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/3841cccyc/mobilejig/bubbles/puzzle"
	"github.com/3841cccyc/mobilejig/jigsaw"
	"github.com/3841cccyc/mobilejig/scores"
)

var (
	rows       = flag.Int("rows", 4, "board rows")
	cols       = flag.Int("cols", 4, "board cols")
	shapeMode  = flag.String("shape", "irregular", "piece shape: regular or irregular")
	difficulty = flag.String("difficulty", "easy", "easy, medium or hard")
	dbPath     = flag.String("db", "mobilejig.db", "sqlite file for scores and saves, empty disables")
	slot       = flag.String("slot", "main", "save slot name")
	resume     = flag.Bool("resume", false, "resume the game saved in -slot")
)

func init() {
	switch os.Getenv("MOBILEJIG_LOG_FORMAT") {
	case "json":
		log.SetFormatter(log.JSONFormatter)
	}
}

func main() {
	flag.Parse()

	shape, err := jigsaw.ParseShape(*shapeMode)
	if err != nil {
		log.Fatal("bad flag", "error", err)
	}
	diff, err := jigsaw.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal("bad flag", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store *scores.Store
	if *dbPath != "" {
		store, err = scores.Open(ctx, *dbPath)
		if err != nil {
			log.Fatal("could not open score database", "path", *dbPath, "error", err)
		}
		defer store.Close()
	}

	cfg := puzzle.Config{
		Rows:       *rows,
		Cols:       *cols,
		Shape:      shape,
		Difficulty: diff,
		Shuffle:    true,
		Store:      store,
		Slot:       *slot,
	}
	if *resume {
		if store == nil {
			log.Fatal("-resume needs -db")
		}
		snap, err := store.LoadGame(*slot)
		switch {
		case errors.Is(err, scores.ErrNoSave):
			log.Info("no save found, starting fresh", "slot", *slot)
		case err != nil:
			log.Warn("save unreadable, starting fresh", "slot", *slot, "error", err)
		default:
			cfg.Resume = &snap
		}
	}

	m, err := puzzle.New(cfg)
	if err != nil {
		if cfg.Resume != nil {
			// Damaged snapshot: fall back to a new game.
			log.Warn("saved game not restorable, starting fresh", "slot", *slot, "error", err)
			cfg.Resume = nil
			m, err = puzzle.New(cfg)
		}
		if err != nil {
			log.Fatal("could not start game", "error", err)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("game exited", "error", err)
	}
}
