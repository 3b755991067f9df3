package jigsaw

import (
	"fmt"
	"math"
	"time"
)

type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "unknown"
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("unknown difficulty: %q", s)
}

func (d Difficulty) Multiplier() float64 {
	switch d {
	case Medium:
		return 1.5
	case Hard:
		return 2
	}
	return 1
}

// TimeLimit returns the countdown for timed difficulties, zero for none.
// The countdown is driven by the caller; the engine never reads the clock
// except to report elapsed play time.
func (d Difficulty) TimeLimit() time.Duration {
	switch d {
	case Medium:
		return 10 * time.Minute
	case Hard:
		return 5 * time.Minute
	}
	return 0
}

// Score values a completed rows×cols game: a flat base, a bonus for
// finishing inside five minutes, a bonus for staying under two moves per
// piece, all scaled by the difficulty multiplier.
func Score(d Difficulty, rows, cols, moves, elapsedSeconds int) int {
	timeBonus := max(0, 300-elapsedSeconds)
	moveBonus := max(0, (2*rows*cols-moves)*10)
	return int(math.Floor(float64(1000+timeBonus+moveBonus) * d.Multiplier()))
}
