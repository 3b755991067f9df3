package jigsaw

import "fmt"

type MoveKind uint8

const (
	MovePlace MoveKind = iota
	MoveRemove
	MoveRotate
)

func (k MoveKind) String() string {
	switch k {
	case MovePlace:
		return "place"
	case MoveRemove:
		return "remove"
	case MoveRotate:
		return "rotate"
	}
	return "unknown"
}

// Move is one log entry, carrying enough prior state to reverse itself.
// From is nil when a placed piece came straight from the tray.
type Move struct {
	Kind MoveKind `json:"kind"`
	ID   int      `json:"id"`
	From *Cell    `json:"from,omitempty"`
	To   *Cell    `json:"to,omitempty"`
	Was  Rotation `json:"was,omitempty"`
	Now  Rotation `json:"now,omitempty"`
}

func (m Move) String() string {
	switch m.Kind {
	case MovePlace:
		return fmt.Sprintf("place #%d at (%d,%d)", m.ID, m.To.Row, m.To.Col)
	case MoveRemove:
		return fmt.Sprintf("remove #%d from (%d,%d)", m.ID, m.From.Row, m.From.Col)
	case MoveRotate:
		return fmt.Sprintf("rotate #%d to %d°", m.ID, m.Now)
	}
	return "?"
}
