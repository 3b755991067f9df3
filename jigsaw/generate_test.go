package jigsaw

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func byHome(pieces []*Piece) map[Cell]*Piece {
	m := make(map[Cell]*Piece, len(pieces))
	for _, p := range pieces {
		m[p.Home] = p
	}
	return m
}

func TestGenerateBoundaryAndComplement(t *testing.T) {
	const rows, cols = 4, 5
	for _, seed := range []int64{1, 2, 42, 1234} {
		pieces := generate(rows, cols, Irregular, false, rand.New(rand.NewSource(seed)))
		require.Len(t, pieces, rows*cols)
		home := byHome(pieces)

		for _, p := range pieces {
			if p.Home.Row == 0 {
				assert.Equal(t, Flat, p.Edges.Top, "piece %d", p.ID)
			}
			if p.Home.Row == rows-1 {
				assert.Equal(t, Flat, p.Edges.Bottom, "piece %d", p.ID)
			}
			if p.Home.Col == 0 {
				assert.Equal(t, Flat, p.Edges.Left, "piece %d", p.ID)
			}
			if p.Home.Col == cols-1 {
				assert.Equal(t, Flat, p.Edges.Right, "piece %d", p.ID)
			}

			if p.Home.Col < cols-1 {
				right := home[Cell{Row: p.Home.Row, Col: p.Home.Col + 1}]
				assert.True(t, p.Edges.Right.Connects(right.Edges.Left),
					"pieces %d|%d: %v vs %v", p.ID, right.ID, p.Edges.Right, right.Edges.Left)
			}
			if p.Home.Row < rows-1 {
				below := home[Cell{Row: p.Home.Row + 1, Col: p.Home.Col}]
				assert.True(t, p.Edges.Bottom.Connects(below.Edges.Top),
					"pieces %d|%d: %v vs %v", p.ID, below.ID, p.Edges.Bottom, below.Edges.Top)
			}
		}
	}
}

func TestGenerateRegularAllFlat(t *testing.T) {
	pieces := generate(3, 3, Regular, false, testRand())
	for _, p := range pieces {
		require.Equal(t, Edges{}, p.Edges)
		require.Equal(t, Rotation(0), p.Rotation)
		require.Nil(t, p.Pos)
	}
}

func TestGenerateIDsRowMajor(t *testing.T) {
	pieces := generate(3, 4, Irregular, false, testRand())
	for i, p := range pieces {
		require.Equal(t, i, p.ID)
		require.Equal(t, Cell{Row: i / 4, Col: i % 4}, p.Home)
	}
}

func TestGenerateShuffle(t *testing.T) {
	pieces := generate(4, 4, Irregular, true, testRand())
	require.Len(t, pieces, 16)

	seen := make(map[int]bool, 16)
	for _, p := range pieces {
		require.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		require.Equal(t, Cell{Row: p.ID / 4, Col: p.ID % 4}, p.Home, "home follows id, not tray order")
		require.Contains(t, []Rotation{0, 90, 180, 270}, p.Rotation)
	}
}
