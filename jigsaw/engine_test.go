package jigsaw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = testRand()
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func TestNewRejectsBadGrid(t *testing.T) {
	_, err := New(Config{Rows: 0, Cols: 3})
	require.Error(t, err)
	_, err = New(Config{Rows: 3, Cols: -1})
	require.Error(t, err)
}

func TestPlacementOnlyAtRotatedHome(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 3, Cols: 3, Shape: Irregular})
	p, ok := e.Piece(4) // home (1,1)
	require.True(t, ok)
	require.Equal(t, Rotation(0), p.Rotation)

	for row := range 3 {
		for col := range 3 {
			want := row == 1 && col == 1
			assert.Equal(t, want, e.CanPlace(4, Cell{Row: row, Col: col}), "(%d,%d)", row, col)
		}
	}

	e.Rotate(4) // now 270
	e.Rotate(4) // 180
	e.Rotate(4) // 90
	require.Equal(t, Rotation(90), p.Rotation)

	want := RotatedHome(p.Home, 90, 3, 3)
	require.Equal(t, Cell{Row: 1, Col: 1}, want, "center is fixed under rotation")
	require.True(t, e.CanPlace(4, want))
}

func TestRotatedHomeMapping(t *testing.T) {
	require.Equal(t, Cell{Row: 2, Col: 3}, RotatedHome(Cell{Row: 2, Col: 3}, 0, 4, 4))
	require.Equal(t, Cell{Row: 3, Col: 1}, RotatedHome(Cell{Row: 2, Col: 3}, 90, 4, 4))
	require.Equal(t, Cell{Row: 1, Col: 0}, RotatedHome(Cell{Row: 2, Col: 3}, 180, 4, 4))
	require.Equal(t, Cell{Row: 0, Col: 2}, RotatedHome(Cell{Row: 2, Col: 3}, 270, 4, 4))
}

func TestCanPlaceChecksOccupiedNeighbors(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 2, Cols: 2, Shape: Irregular})

	e.Place(0, Cell{Row: 0, Col: 0})
	require.True(t, e.CanPlace(1, Cell{Row: 0, Col: 1}), "generated neighbors mate")

	// Turn the placed neighbor: it now presents its flat boundary side
	// inward, so the shared edge no longer mates even though piece 1's
	// own target cell is still right.
	e.Rotate(0)
	require.False(t, e.CanPlace(1, Cell{Row: 0, Col: 1}))
}

func TestPlaceIsFreeForm(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 3, Cols: 3, Shape: Irregular})

	// Wrong cell for piece 0, but Place does not gate on CanPlace.
	e.Place(0, Cell{Row: 2, Col: 2})
	p, _ := e.Piece(0)
	require.NotNil(t, p.Pos)
	require.Equal(t, Cell{Row: 2, Col: 2}, *p.Pos)
	require.Equal(t, 1, e.Moves())

	// Re-placing moves the piece, leaving the old cell empty.
	e.Place(0, Cell{Row: 0, Col: 0})
	_, occupied := e.At(Cell{Row: 2, Col: 2})
	require.False(t, occupied)
	require.Equal(t, Cell{Row: 0, Col: 0}, *p.Pos)
}

func TestPlaceNoOps(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 3, Cols: 3, Shape: Irregular})
	e.Place(0, Cell{Row: 0, Col: 0})

	before := e.Moves()
	e.Place(99, Cell{Row: 1, Col: 1})          // unknown id
	e.Place(1, Cell{Row: 0, Col: 0})           // cell taken
	e.Place(1, Cell{Row: 3, Col: 0})           // out of range
	e.Place(1, Cell{Row: -1, Col: 0})          // out of range
	require.Equal(t, before, e.Moves(), "no-ops must not log")
	require.Len(t, e.Log(), before)

	p, _ := e.Piece(1)
	require.Nil(t, p.Pos)
}

func TestRemoveAndUnknownIDs(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 2, Cols: 2, Shape: Regular})
	e.Place(2, Cell{Row: 1, Col: 0})
	e.Remove(2)

	p, _ := e.Piece(2)
	require.Nil(t, p.Pos)
	_, occupied := e.At(Cell{Row: 1, Col: 0})
	require.False(t, occupied)
	require.Equal(t, 2, e.Moves())

	before := e.Moves()
	e.Remove(2)  // already in tray
	e.Remove(77) // unknown
	e.Rotate(77) // unknown
	require.Equal(t, before, e.Moves())
}

func TestRotateCounterClockwise(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 2, Cols: 2, Shape: Irregular})
	p, _ := e.Piece(0)
	original := p.Edges

	for _, want := range []Rotation{270, 180, 90, 0} {
		e.Rotate(0)
		require.Equal(t, want, p.Rotation)
	}
	require.Equal(t, original, p.Edges, "stored edges never change")
}

func TestRotateKeepsCell(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 3, Cols: 3, Shape: Irregular})
	e.Place(0, Cell{Row: 0, Col: 0})
	e.Rotate(0)

	p, _ := e.Piece(0)
	require.NotNil(t, p.Pos)
	require.Equal(t, Cell{Row: 0, Col: 0}, *p.Pos, "rotation never moves a piece")
	require.False(t, e.CanPlace(0, *p.Pos), "but the cell is stale until re-checked")
}

func snapshotState(e *Engine) map[int]Piece {
	out := make(map[int]Piece)
	for _, p := range e.Pieces() {
		cp := *p
		if p.Pos != nil {
			pos := *p.Pos
			cp.Pos = &pos
		}
		out[p.ID] = cp
	}
	return out
}

func TestUndoInverse(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 3, Cols: 3, Shape: Irregular, Shuffle: true})
	initial := snapshotState(e)

	ops := []func(){
		func() { e.Place(0, Cell{Row: 2, Col: 2}) },
		func() { e.Rotate(0) },
		func() { e.Place(1, Cell{Row: 0, Col: 0}) },
		func() { e.Place(0, Cell{Row: 1, Col: 1}) }, // move across the board
		func() { e.Remove(1) },
		func() { e.Rotate(5) },
	}
	for _, op := range ops {
		op()
	}
	require.Equal(t, len(ops), e.Moves())

	for range ops {
		e.Undo()
	}
	require.Equal(t, 0, e.Moves())
	require.Empty(t, e.Log())
	require.Equal(t, initial, snapshotState(e))

	e.Undo() // empty log is a no-op
	require.Equal(t, initial, snapshotState(e))
}

func TestUndoPlaceFromTray(t *testing.T) {
	e := newTestEngine(t, Config{Rows: 2, Cols: 2, Shape: Regular})
	e.Place(3, Cell{Row: 1, Col: 1})
	e.Undo()

	p, _ := e.Piece(3)
	require.Nil(t, p.Pos, "undo of a tray placement leaves the piece unplaced")
	_, occupied := e.At(Cell{Row: 1, Col: 1})
	require.False(t, occupied)
}

func solve(e *Engine) {
	for _, p := range e.Pieces() {
		for p.Rotation != 0 {
			e.Rotate(p.ID)
		}
	}
	for _, p := range e.Pieces() {
		e.Place(p.ID, p.Home)
	}
}

func TestCompletionFiresOnce(t *testing.T) {
	var calls int
	var gotScore, gotMoves int

	e := newTestEngine(t, Config{
		Rows: 3, Cols: 3,
		Shape:      Irregular,
		Difficulty: Hard,
		OnComplete: func(score, moves, elapsedSeconds int) {
			calls++
			gotScore, gotMoves = score, moves
		},
	})

	solve(e)
	require.True(t, e.IsComplete())
	require.True(t, e.Done())
	require.Equal(t, 1, calls)
	require.Equal(t, 9, gotMoves)
	require.Equal(t, Score(Hard, 3, 3, 9, 0), gotScore)

	// Disturbing and repairing the board must not re-fire the callback.
	e.Remove(4)
	require.False(t, e.IsComplete())
	e.Place(4, Cell{Row: 1, Col: 1})
	require.True(t, e.IsComplete())
	require.Equal(t, 1, calls)

	// Reset re-arms the detector.
	e.Reset()
	require.False(t, e.IsComplete())
	solve(e)
	require.Equal(t, 2, calls)
}

func TestScoreFormula(t *testing.T) {
	// floor((1000 + max(0,300-elapsed) + max(0,(2RC-moves)*10)) * mult)
	require.Equal(t, 1000+300+90, Score(Easy, 3, 3, 9, 0))
	require.Equal(t, int(float64(1000+240+90)*1.5), Score(Medium, 3, 3, 9, 60))
	require.Equal(t, (1000+0+0)*2, Score(Hard, 3, 3, 18, 400))
	require.Equal(t, 2000, Score(Hard, 2, 2, 100, 999), "bonuses never go negative")
}

func TestDifficulty(t *testing.T) {
	require.Equal(t, 1.0, Easy.Multiplier())
	require.Equal(t, 1.5, Medium.Multiplier())
	require.Equal(t, 2.0, Hard.Multiplier())
	require.Equal(t, time.Duration(0), Easy.TimeLimit())
	require.NotZero(t, Hard.TimeLimit())

	d, err := ParseDifficulty("medium")
	require.NoError(t, err)
	require.Equal(t, Medium, d)
	_, err = ParseDifficulty("impossible")
	require.Error(t, err)
}

// The 3x3 walk-through: boundary edges flat, shared edges complementary,
// four rotations round-trip, then a full solve with nine moves.
func TestThreeByThreeScenario(t *testing.T) {
	var calls, gotMoves int
	e := newTestEngine(t, Config{
		Rows: 3, Cols: 3,
		Shape: Irregular,
		OnComplete: func(_, moves, _ int) {
			calls++
			gotMoves = moves
		},
	})

	home := byHome(e.Pieces())
	for col := range 3 {
		assert.Equal(t, Flat, home[Cell{Row: 0, Col: col}].Edges.Top)
		assert.Equal(t, Flat, home[Cell{Row: 2, Col: col}].Edges.Bottom)
	}
	for row := range 3 {
		assert.Equal(t, Flat, home[Cell{Row: row, Col: 0}].Edges.Left)
		assert.Equal(t, Flat, home[Cell{Row: row, Col: 2}].Edges.Right)
	}

	topLeft := home[Cell{}]
	right := home[Cell{Col: 1}]
	require.True(t, topLeft.Edges.Right.Connects(right.Edges.Left))
	require.NotEqual(t, Flat, topLeft.Edges.Right)

	before := topLeft.Edges
	for range 4 {
		e.Rotate(topLeft.ID)
	}
	require.Equal(t, Rotation(0), topLeft.Rotation)
	require.Equal(t, before, topLeft.Edges)
	for range 4 {
		e.Undo()
	}

	for _, p := range e.Pieces() {
		e.Place(p.ID, p.Home)
	}
	require.True(t, e.IsComplete())
	require.Equal(t, 1, calls)
	require.Equal(t, 9, gotMoves)
}
