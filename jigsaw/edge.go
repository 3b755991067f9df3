// Package jigsaw implements the piece-matching core of a jigsaw puzzle:
// procedural edge generation, rotation-aware placement checks, the
// grid-completion test and a move log with undo.
package jigsaw

// Edge is one side of a piece boundary.
type Edge uint8

const (
	Flat  Edge = iota // outer boundary, straight
	Tab               // protrudes outward
	Blank             // recedes inward
)

func (e Edge) String() string {
	switch e {
	case Flat:
		return "flat"
	case Tab:
		return "tab"
	case Blank:
		return "blank"
	}
	return "unknown"
}

// Connects reports whether e, facing a neighbor, mates with the neighbor's
// opposing edge o. Flat mates only with flat; tab only with blank.
func (e Edge) Connects(o Edge) bool {
	switch e {
	case Flat:
		return o == Flat
	case Tab:
		return o == Blank
	case Blank:
		return o == Tab
	}
	return false
}

// Complement returns the edge a neighbor must carry on the shared boundary.
func (e Edge) Complement() Edge {
	switch e {
	case Tab:
		return Blank
	case Blank:
		return Tab
	}
	return Flat
}

// Edges is a piece's four sides in board orientation.
type Edges struct {
	Top    Edge `json:"top"`
	Right  Edge `json:"right"`
	Bottom Edge `json:"bottom"`
	Left   Edge `json:"left"`
}

// Rotated returns the edge set after rotating the piece counter-clockwise
// by steps quarter turns: at one step the old right side becomes the top.
func (e Edges) Rotated(steps int) Edges {
	steps = ((steps % 4) + 4) % 4
	for range steps {
		e = Edges{Top: e.Right, Right: e.Bottom, Bottom: e.Left, Left: e.Top}
	}
	return e
}

type dir uint8

const (
	dirUp dir = iota
	dirRight
	dirDown
	dirLeft
)

var dirOffsets = [4]Cell{{Row: -1}, {Col: 1}, {Row: 1}, {Col: -1}}

func (d dir) opposite() dir {
	return (d + 2) % 4
}

func (e Edges) side(d dir) Edge {
	switch d {
	case dirUp:
		return e.Top
	case dirRight:
		return e.Right
	case dirDown:
		return e.Bottom
	default:
		return e.Left
	}
}
