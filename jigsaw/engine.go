package jigsaw

import (
	"fmt"
	"math/rand"
	"slices"
	"time"
)

// CompletionFunc receives the final score, total move count and elapsed
// play time in seconds. It is invoked at most once per game.
type CompletionFunc func(score, moves, elapsedSeconds int)

type Config struct {
	Rows, Cols int
	Shape      Shape
	Difficulty Difficulty

	// Shuffle randomizes initial rotations and tray order. Leave unset for
	// staged boards that start at rotation 0.
	Shuffle bool

	// Rand drives edge and rotation choices; defaults to a time-seeded
	// source. Tests inject a fixed seed.
	Rand *rand.Rand

	OnComplete CompletionFunc

	// now is overridable in tests.
	now func() time.Time
}

// Engine owns the piece set, the grid occupancy index and the move log for
// one game session. It is not safe for concurrent use; the caller
// serializes operations and mutates state only through them.
type Engine struct {
	rows, cols int
	shape      Shape
	diff       Difficulty
	shuffle    bool
	rng        *rand.Rand
	now        func() time.Time

	pieces []*Piece      // tray/display order
	byID   map[int]*Piece
	grid   map[Cell]int // occupied cells only
	log    []Move
	moves  int
	done   bool

	onComplete CompletionFunc

	startedAt   time.Time
	elapsedBase time.Duration
}

// New generates a fresh piece set and an empty grid.
func New(cfg Config) (*Engine, error) {
	if cfg.Rows < 1 || cfg.Cols < 1 {
		return nil, fmt.Errorf("jigsaw: grid must be at least 1x1, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	e := &Engine{
		rows:       cfg.Rows,
		cols:       cfg.Cols,
		shape:      cfg.Shape,
		diff:       cfg.Difficulty,
		shuffle:    cfg.Shuffle,
		rng:        cfg.Rand,
		now:        cfg.now,
		onComplete: cfg.OnComplete,
	}
	e.Reset()
	return e, nil
}

// Reset discards the piece set, generates a new one and re-arms the
// completion callback. The move log and counter start empty.
func (e *Engine) Reset() {
	e.pieces = generate(e.rows, e.cols, e.shape, e.shuffle, e.rng)
	e.byID = make(map[int]*Piece, len(e.pieces))
	for _, p := range e.pieces {
		e.byID[p.ID] = p
	}
	e.grid = make(map[Cell]int, len(e.pieces))
	e.log = e.log[:0]
	e.moves = 0
	e.done = false
	e.startedAt = e.now()
	e.elapsedBase = 0
}

func (e *Engine) Rows() int              { return e.rows }
func (e *Engine) Cols() int              { return e.cols }
func (e *Engine) Shape() Shape           { return e.shape }
func (e *Engine) Difficulty() Difficulty { return e.diff }
func (e *Engine) Moves() int             { return e.moves }
func (e *Engine) Done() bool             { return e.done }

// Elapsed is the play time of this session, including time accumulated
// before a restored snapshot was taken.
func (e *Engine) Elapsed() time.Duration {
	return e.elapsedBase + e.now().Sub(e.startedAt)
}

// Pieces returns the piece set in tray order. Callers treat pieces as
// read-only; all mutation goes through engine operations.
func (e *Engine) Pieces() []*Piece {
	return slices.Clone(e.pieces)
}

func (e *Engine) Piece(id int) (*Piece, bool) {
	p, ok := e.byID[id]
	return p, ok
}

// At returns the piece occupying a cell, if any.
func (e *Engine) At(c Cell) (*Piece, bool) {
	id, ok := e.grid[c]
	if !ok {
		return nil, false
	}
	return e.byID[id], true
}

// Unplaced returns the tray: pieces not currently on the grid.
func (e *Engine) Unplaced() []*Piece {
	out := make([]*Piece, 0, len(e.pieces))
	for _, p := range e.pieces {
		if p.Pos == nil {
			out = append(out, p)
		}
	}
	return out
}

// Log returns a copy of the move log, oldest first.
func (e *Engine) Log() []Move {
	return slices.Clone(e.log)
}

func (e *Engine) inBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < e.rows && c.Col >= 0 && c.Col < e.cols
}

// CanPlace reports whether a piece may legally occupy target: the target
// must be the piece's home cell as remapped by its current rotation, and
// its effective edges must mate with every occupied neighbor. Unoccupied
// neighbors are not required. This is a pure query; Place does not call it.
func (e *Engine) CanPlace(id int, target Cell) bool {
	p, ok := e.byID[id]
	if !ok || !e.inBounds(target) {
		return false
	}
	return e.canPlace(p, target)
}

func (e *Engine) canPlace(p *Piece, target Cell) bool {
	if RotatedHome(p.Home, p.Rotation, e.rows, e.cols) != target {
		return false
	}
	eff := p.Effective()
	for d := dirUp; d <= dirLeft; d++ {
		off := dirOffsets[d]
		nid, ok := e.grid[Cell{Row: target.Row + off.Row, Col: target.Col + off.Col}]
		if !ok || nid == p.ID {
			continue
		}
		n := e.byID[nid]
		if !eff.side(d).Connects(n.Effective().side(d.opposite())) {
			return false
		}
	}
	return true
}

// Place drops a piece on target, clearing any cell it held before, and
// logs the move. Placement is free-form: validity is the caller's concern
// via CanPlace, and only the completion check decides the game. Unknown
// ids, out-of-range cells and cells held by another piece are no-ops.
func (e *Engine) Place(id int, target Cell) {
	p, ok := e.byID[id]
	if !ok || !e.inBounds(target) {
		return
	}
	if occ, taken := e.grid[target]; taken && occ != id {
		return
	}

	var from *Cell
	if p.Pos != nil {
		prev := *p.Pos
		from = &prev
		delete(e.grid, prev)
	}
	to := target
	p.Pos = &to
	e.grid[target] = id

	e.log = append(e.log, Move{Kind: MovePlace, ID: id, From: from, To: &target})
	e.moves++
	e.checkComplete()
}

// Remove returns a placed piece to the tray. No-op for unknown or
// unplaced ids.
func (e *Engine) Remove(id int) {
	p, ok := e.byID[id]
	if !ok || p.Pos == nil {
		return
	}
	from := *p.Pos
	delete(e.grid, from)
	p.Pos = nil

	e.log = append(e.log, Move{Kind: MoveRemove, ID: id, From: &from})
	e.moves++
}

// Rotate turns a piece a quarter counter-clockwise in place. The grid is
// not re-validated; stale placements surface at the next CanPlace or
// completion check.
func (e *Engine) Rotate(id int) {
	p, ok := e.byID[id]
	if !ok {
		return
	}
	was := p.Rotation
	p.Rotation = was.CCW()

	e.log = append(e.log, Move{Kind: MoveRotate, ID: id, Was: was, Now: p.Rotation})
	e.moves++
}

// Undo reverses the most recent move. It pops the log without pushing;
// there is no redo. An empty log is a no-op.
func (e *Engine) Undo() {
	if len(e.log) == 0 {
		return
	}
	m := e.log[len(e.log)-1]
	e.log = e.log[:len(e.log)-1]
	if e.moves > 0 {
		e.moves--
	}

	p, ok := e.byID[m.ID]
	if !ok {
		return
	}
	switch m.Kind {
	case MovePlace:
		if m.To != nil {
			delete(e.grid, *m.To)
		}
		p.Pos = nil
		if m.From != nil {
			prev := *m.From
			p.Pos = &prev
			e.grid[prev] = p.ID
		}
	case MoveRemove:
		if m.From != nil {
			prev := *m.From
			p.Pos = &prev
			e.grid[prev] = p.ID
		}
	case MoveRotate:
		p.Rotation = m.Was
	}
}

// IsComplete reports whether every piece is placed at a cell where it
// legally fits. Read-only; the latched callback is handled by Place.
func (e *Engine) IsComplete() bool {
	for _, p := range e.pieces {
		if p.Pos == nil || !e.canPlace(p, *p.Pos) {
			return false
		}
	}
	return true
}

func (e *Engine) checkComplete() {
	if e.done || !e.IsComplete() {
		return
	}
	e.done = true
	elapsed := int(e.Elapsed() / time.Second)
	if e.onComplete != nil {
		e.onComplete(Score(e.diff, e.rows, e.cols, e.moves, elapsed), e.moves, elapsed)
	}
}
