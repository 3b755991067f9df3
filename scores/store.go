// Package scores persists the leaderboard and saved games in a local
// sqlite database.
package scores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/3841cccyc/mobilejig/jigsaw"
)

// Entry is one leaderboard row.
type Entry struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Score      int               `json:"score"`
	Moves      int               `json:"moves"`
	Seconds    int               `json:"seconds"`
	Rows       int               `json:"rows"`
	Cols       int               `json:"cols"`
	Difficulty jigsaw.Difficulty `json:"difficulty"`
	At         time.Time         `json:"at"`
}

type Store struct {
	ctx context.Context
	db  *sql.DB
}

// ErrNoSave is returned by LoadGame for an unknown slot.
var ErrNoSave = errors.New("scores: no saved game in slot")

// Open opens or creates the database. Initialization retries briefly with
// backoff: when the game is served over SSH another session may hold the
// file lock for a moment.
func Open(ctx context.Context, filename string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_fk=1", filename))
	if err != nil {
		return nil, err
	}

	exp := &backoff.ExponentialBackOff{
		InitialInterval:     10 * time.Millisecond,
		RandomizationFactor: 0.0,
		Multiplier:          1.5,
		MaxInterval:         500 * time.Millisecond,
	}
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		if _, eerr := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS scores (
				id INTEGER PRIMARY KEY,
				at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				score INTEGER NOT NULL,
				moves INTEGER NOT NULL,
				seconds INTEGER NOT NULL,
				rows INTEGER NOT NULL,
				cols INTEGER NOT NULL,
				difficulty TEXT NOT NULL
			);
		`); eerr != nil {
			return struct{}{}, eerr
		}
		_, eerr := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS saves (
				slot TEXT PRIMARY KEY,
				at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				snapshot JSON NOT NULL CHECK (json_valid(snapshot))
			);
		`)
		return struct{}{}, eerr
	},
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(2*time.Second),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Warn("scores init", "error", err, "retrying", d)
		}),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing score tables: %w", err)
	}

	return &Store{ctx: ctx, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScore inserts a leaderboard row and returns it with its id set.
func (s *Store) SaveScore(e Entry) (Entry, error) {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}

	res, err := s.db.ExecContext(s.ctx, `
		INSERT INTO scores(at, name, score, moves, seconds, rows, cols, difficulty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, at, e.Name, e.Score, e.Moves, e.Seconds, e.Rows, e.Cols, e.Difficulty.String())
	if err != nil {
		return Entry{}, fmt.Errorf("error saving score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("error reading last insert id: %w", err)
	}

	e.ID = id
	e.At = at
	return e, nil
}

// Top returns the best n scores, highest first, earliest on ties.
func (s *Store) Top(n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(s.ctx, `
SELECT id, at, name, score, moves, seconds, rows, cols, difficulty
FROM scores
ORDER BY score DESC, at ASC
LIMIT ?
`, n)
	if err != nil {
		return nil, fmt.Errorf("scores query error: %w", err)
	}

	entries := make([]Entry, 0, n)
	for rows.Next() {
		var (
			e    Entry
			diff string
		)
		err = rows.Scan(&e.ID, &e.At, &e.Name, &e.Score, &e.Moves, &e.Seconds, &e.Rows, &e.Cols, &diff)
		if err != nil {
			break
		}
		if e.Difficulty, err = jigsaw.ParseDifficulty(diff); err != nil {
			break
		}
		entries = append(entries, e)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("rows close error: %w", closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("rows scan error: %w", err)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows unexpected error: %w", rows.Err())
	}

	return entries, nil
}

// SaveGame stores an engine snapshot under a named slot, replacing any
// previous save there.
func (s *Store) SaveGame(slot string, snap jigsaw.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}

	_, err = s.db.ExecContext(s.ctx, `
		INSERT INTO saves(slot, at, snapshot) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET at = excluded.at, snapshot = excluded.snapshot
	`, slot, time.Now(), string(b))
	if err != nil {
		return fmt.Errorf("error saving game: %w", err)
	}
	return nil
}

// LoadGame reads the snapshot in a slot. The caller restores the engine
// from it and falls back to a new game on any error.
func (s *Store) LoadGame(slot string) (jigsaw.Snapshot, error) {
	var raw string
	err := s.db.QueryRowContext(s.ctx, `SELECT snapshot FROM saves WHERE slot = ?`, slot).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return jigsaw.Snapshot{}, fmt.Errorf("%w: %q", ErrNoSave, slot)
	}
	if err != nil {
		return jigsaw.Snapshot{}, fmt.Errorf("save query error: %w", err)
	}

	var snap jigsaw.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return jigsaw.Snapshot{}, fmt.Errorf("json decoding error: %w", err)
	}
	return snap, nil
}

// DeleteGame clears a slot. Unknown slots are not an error.
func (s *Store) DeleteGame(slot string) error {
	_, err := s.db.ExecContext(s.ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("error deleting save: %w", err)
	}
	return nil
}
