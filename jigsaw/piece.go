package jigsaw

// Cell is a board coordinate. Row 0 is the top row.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Rotation is a piece's orientation in degrees: 0, 90, 180 or 270.
// Rotations are counter-clockwise; there is no clockwise turn.
type Rotation int

// Steps returns the rotation as quarter turns in 0..3.
func (r Rotation) Steps() int {
	return int((((r / 90) % 4) + 4) % 4)
}

// CCW returns the next counter-clockwise orientation.
func (r Rotation) CCW() Rotation {
	return (r + 270) % 360
}

// Piece is one puzzle piece. Home and Edges are fixed at generation;
// Rotation and Pos change as the player manipulates the piece. Pos is nil
// while the piece sits in the unplaced tray.
type Piece struct {
	ID       int      `json:"id"`
	Home     Cell     `json:"home"`
	Edges    Edges    `json:"edges"`
	Rotation Rotation `json:"rotation"`
	Pos      *Cell    `json:"pos,omitempty"`
}

// Effective returns the piece's edges under its current rotation. Edge
// comparisons must always go through this, never through Edges directly.
func (p *Piece) Effective() Edges {
	return p.Edges.Rotated(p.Rotation.Steps())
}

// Outline returns the piece's boundary path at its current rotation.
func (p *Piece) Outline(size float64) []Segment {
	return Outline(p.Effective(), size)
}

// RotatedHome maps a home cell to the single cell a piece at rotation rot
// may legally occupy on a rows×cols board. At rotation 0 this is the home
// cell itself; each quarter turn remaps it the way rotating the whole board
// in place would.
func RotatedHome(home Cell, rot Rotation, rows, cols int) Cell {
	switch rot.Steps() {
	case 1:
		return Cell{Row: home.Col, Col: rows - 1 - home.Row}
	case 2:
		return Cell{Row: rows - 1 - home.Row, Col: cols - 1 - home.Col}
	case 3:
		return Cell{Row: cols - 1 - home.Col, Col: home.Row}
	}
	return home
}
