package jigsaw

import (
	"fmt"
	"math/rand"
)

// Shape selects how piece boundaries are cut.
type Shape uint8

const (
	Regular   Shape = iota // plain rectangles, every edge flat
	Irregular              // jigsaw tabs and blanks
)

func (s Shape) String() string {
	switch s {
	case Regular:
		return "regular"
	case Irregular:
		return "irregular"
	}
	return "unknown"
}

func ParseShape(s string) (Shape, error) {
	switch s {
	case "regular":
		return Regular, nil
	case "irregular":
		return Irregular, nil
	}
	return Regular, fmt.Errorf("unknown shape mode: %q", s)
}

// generate builds the rows×cols piece set in row-major order, ids assigned
// by home cell. Internal boundaries are decided once, on the piece whose
// bottom or right side they are; the neighbor then carries the complement,
// so every shared boundary mates by construction. Boundary sides stay flat.
//
// With shuffle set, each piece starts at a random orientation and the
// returned slice is reordered; order only affects tray display, ids and
// home cells are untouched.
func generate(rows, cols int, shape Shape, shuffle bool, rng *rand.Rand) []*Piece {
	pieces := make([]*Piece, 0, rows*cols)
	above := make([]Edge, cols) // bottom sides of the previous row
	for row := range rows {
		var left Edge // right side of the previous piece
		for col := range cols {
			var e Edges
			if shape == Irregular {
				if row > 0 {
					e.Top = above[col].Complement()
				}
				if col > 0 {
					e.Left = left.Complement()
				}
				if col < cols-1 {
					e.Right = randEdge(rng)
				}
				if row < rows-1 {
					e.Bottom = randEdge(rng)
				}
			}
			left = e.Right
			above[col] = e.Bottom

			p := &Piece{
				ID:    row*cols + col,
				Home:  Cell{Row: row, Col: col},
				Edges: e,
			}
			if shuffle {
				p.Rotation = Rotation(90 * rng.Intn(4))
			}
			pieces = append(pieces, p)
		}
	}

	if shuffle {
		rng.Shuffle(len(pieces), func(i, j int) {
			pieces[i], pieces[j] = pieces[j], pieces[i]
		})
	}
	return pieces
}

func randEdge(rng *rand.Rand) Edge {
	if rng.Intn(2) == 0 {
		return Tab
	}
	return Blank
}
