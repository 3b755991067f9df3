package jigsaw

import (
	"fmt"
	"math/rand"
	"time"
)

// Snapshot is the engine's full persisted state. It round-trips through
// JSON and resumes a game without re-deriving any randomness.
type Snapshot struct {
	Rows           int        `json:"rows"`
	Cols           int        `json:"cols"`
	Shape          Shape      `json:"shape"`
	Difficulty     Difficulty `json:"difficulty"`
	Shuffled       bool       `json:"shuffled"`
	Pieces         []Piece    `json:"pieces"`
	Moves          int        `json:"moves"`
	Log            []Move     `json:"log"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
	Done           bool       `json:"done"`
}

// Snapshot captures the current game. Piece and log entries are deep
// copies; mutating the snapshot does not touch the live engine.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Rows:           e.rows,
		Cols:           e.cols,
		Shape:          e.shape,
		Difficulty:     e.diff,
		Shuffled:       e.shuffle,
		Pieces:         make([]Piece, 0, len(e.pieces)),
		Moves:          e.moves,
		Log:            make([]Move, 0, len(e.log)),
		ElapsedSeconds: int(e.Elapsed() / time.Second),
		Done:           e.done,
	}
	for _, p := range e.pieces {
		cp := *p
		if p.Pos != nil {
			pos := *p.Pos
			cp.Pos = &pos
		}
		snap.Pieces = append(snap.Pieces, cp)
	}
	for _, m := range e.log {
		cm := m
		if m.From != nil {
			from := *m.From
			cm.From = &from
		}
		if m.To != nil {
			to := *m.To
			cm.To = &to
		}
		snap.Log = append(snap.Log, cm)
	}
	return snap
}

// Restore rebuilds an engine from a snapshot. The grid index is derived
// from piece positions. Structural damage — bad dimensions, wrong piece
// count, out-of-range rotations or positions, two pieces on one cell — is
// reported as an error so the caller can fall back to a new game.
func Restore(snap Snapshot, onComplete CompletionFunc) (*Engine, error) {
	if snap.Rows < 1 || snap.Cols < 1 {
		return nil, fmt.Errorf("jigsaw: snapshot grid %dx%d", snap.Rows, snap.Cols)
	}
	if len(snap.Pieces) != snap.Rows*snap.Cols {
		return nil, fmt.Errorf("jigsaw: snapshot has %d pieces, want %d", len(snap.Pieces), snap.Rows*snap.Cols)
	}

	e := &Engine{
		rows:       snap.Rows,
		cols:       snap.Cols,
		shape:      snap.Shape,
		diff:       snap.Difficulty,
		shuffle:    snap.Shuffled,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		pieces:     make([]*Piece, 0, len(snap.Pieces)),
		byID:       make(map[int]*Piece, len(snap.Pieces)),
		grid:       make(map[Cell]int, len(snap.Pieces)),
		log:        make([]Move, len(snap.Log)),
		moves:      snap.Moves,
		done:       snap.Done,
		onComplete: onComplete,
	}
	copy(e.log, snap.Log)

	for i := range snap.Pieces {
		cp := snap.Pieces[i]
		if cp.Pos != nil {
			pos := *cp.Pos
			cp.Pos = &pos
		}
		switch cp.Rotation {
		case 0, 90, 180, 270:
		default:
			return nil, fmt.Errorf("jigsaw: piece %d has rotation %d", cp.ID, cp.Rotation)
		}
		if _, dup := e.byID[cp.ID]; dup {
			return nil, fmt.Errorf("jigsaw: duplicate piece id %d", cp.ID)
		}
		if cp.Pos != nil {
			if !e.inBounds(*cp.Pos) {
				return nil, fmt.Errorf("jigsaw: piece %d placed out of range at (%d,%d)", cp.ID, cp.Pos.Row, cp.Pos.Col)
			}
			if occ, taken := e.grid[*cp.Pos]; taken {
				return nil, fmt.Errorf("jigsaw: pieces %d and %d share cell (%d,%d)", occ, cp.ID, cp.Pos.Row, cp.Pos.Col)
			}
			e.grid[*cp.Pos] = cp.ID
		}
		e.pieces = append(e.pieces, &cp)
		e.byID[cp.ID] = &cp
	}

	e.startedAt = e.now()
	e.elapsedBase = time.Duration(snap.ElapsedSeconds) * time.Second
	return e, nil
}
