package jigsaw

// Outline geometry. A piece body is a size×size square in a y-down
// coordinate system with its top-left corner at the origin. Tabs and
// blanks are half circles of diameter size*bumpSpan centered on the side.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	ArcTo
)

type Vec struct {
	X, Y float64
}

// Segment is one step of an outline path. For ArcTo the path sweeps a half
// circle from the current point to To around Center, passing through Apex.
// Apex lies outside the piece body for a tab, inside for a blank, which
// also fixes the sweep direction for renderers that need one.
type Segment struct {
	Op     PathOp
	To     Vec
	Center Vec
	Apex   Vec
}

const (
	bumpStart = 0.4 // fraction of the side before the bump
	bumpSpan  = 0.2 // bump diameter as a fraction of the side
)

// Outline synthesizes the closed boundary path for an edge set, traversed
// clockwise from the top-left corner: top, right, bottom, left. Flat sides
// contribute a single line; tab and blank sides a line, a half-circle arc
// and a line. The path ends where it began.
func Outline(e Edges, size float64) []Segment {
	corners := [4]Vec{{0, 0}, {size, 0}, {size, size}, {0, size}}
	// outward normals per side, y-down
	normals := [4]Vec{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	sides := [4]Edge{e.Top, e.Right, e.Bottom, e.Left}

	segs := make([]Segment, 0, 1+4*3)
	segs = append(segs, Segment{Op: MoveTo, To: corners[0]})

	for i, kind := range sides {
		from, to := corners[i], corners[(i+1)%4]
		if kind == Flat {
			segs = append(segs, Segment{Op: LineTo, To: to})
			continue
		}

		u := Vec{X: (to.X - from.X) / size, Y: (to.Y - from.Y) / size}
		n := normals[i]
		if kind == Blank {
			n = Vec{X: -n.X, Y: -n.Y}
		}

		a := Vec{X: from.X + u.X*bumpStart*size, Y: from.Y + u.Y*bumpStart*size}
		c := Vec{X: from.X + u.X*0.5*size, Y: from.Y + u.Y*0.5*size}
		b := Vec{X: from.X + u.X*(bumpStart+bumpSpan)*size, Y: from.Y + u.Y*(bumpStart+bumpSpan)*size}
		r := bumpSpan / 2 * size
		apex := Vec{X: c.X + n.X*r, Y: c.Y + n.Y*r}

		segs = append(segs,
			Segment{Op: LineTo, To: a},
			Segment{Op: ArcTo, To: b, Center: c, Apex: apex},
			Segment{Op: LineTo, To: to},
		)
	}
	return segs
}

// Bounds returns the axis-aligned extent of an outline, apexes included.
// Renderers use it to size clip regions so tabs are not cut off.
func Bounds(segs []Segment) (min, max Vec) {
	if len(segs) == 0 {
		return
	}
	min, max = segs[0].To, segs[0].To
	grow := func(v Vec) {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	for _, s := range segs {
		grow(s.To)
		if s.Op == ArcTo {
			grow(s.Apex)
		}
	}
	return min, max
}
