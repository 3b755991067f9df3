// Package puzzle is the terminal front end for the jigsaw engine: a
// bubbletea model with a board, an unplaced-piece tray, undo, save slots
// and a completion dialog that feeds the leaderboard.
package puzzle

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/3841cccyc/mobilejig/jigsaw"
	"github.com/3841cccyc/mobilejig/scores"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// stringModel wraps a rendered view so the overlay can compose it.
type stringModel string

func (m stringModel) Init() tea.Cmd                       { return nil }
func (m stringModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }
func (m stringModel) View() string                        { return string(m) }

type Config struct {
	Rows, Cols int
	Shape      jigsaw.Shape
	Difficulty jigsaw.Difficulty
	Shuffle    bool
	Rand       *rand.Rand

	// Resume restores a saved game instead of generating one.
	Resume *jigsaw.Snapshot

	// Store is optional; without it scores and saves are discarded.
	Store *scores.Store
	Slot  string
}

type completion struct {
	score, moves, seconds int
}

type tableView struct {
	board string
	side  string
}

var _ table.Data = tableView{}

func (t tableView) At(row, col int) string {
	switch col {
	case 0:
		return t.board
	case 1:
		return t.side
	}
	return ""
}

func (t tableView) Rows() int    { return 1 }
func (t tableView) Columns() int { return 2 }

type Model struct {
	b strings.Builder

	engine *jigsaw.Engine
	store  *scores.Store
	slot   string

	cursor  jigsaw.Cell
	traySel int

	table *table.Table
	tableView
	recent *moveRing

	width, height int

	completed *completion
	nameInput textinput.Model
	nameDone  bool
	leaders   []scores.Entry
	timeUp    bool

	overlay *overlay.Model
	status  string

	err error
}

var _ tea.Model = &Model{}

func New(cfg Config) (*Model, error) {
	if cfg.Slot == "" {
		cfg.Slot = "main"
	}
	m := &Model{
		store:  cfg.Store,
		slot:   cfg.Slot,
		recent: newMoveRing(6),
	}

	onDone := func(score, moves, seconds int) {
		m.completed = &completion{score: score, moves: moves, seconds: seconds}
	}

	var err error
	if cfg.Resume != nil {
		m.engine, err = jigsaw.Restore(*cfg.Resume, onDone)
	} else {
		m.engine, err = jigsaw.New(jigsaw.Config{
			Rows:       cfg.Rows,
			Cols:       cfg.Cols,
			Shape:      cfg.Shape,
			Difficulty: cfg.Difficulty,
			Shuffle:    cfg.Shuffle,
			Rand:       cfg.Rand,
			OnComplete: onDone,
		})
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Engine exposes the game state for read-only inspection.
func (m *Model) Engine() *jigsaw.Engine {
	return m.engine
}

func (m *Model) Err() error {
	return m.err
}

func (m *Model) Init() tea.Cmd {
	m.table = table.New().Border(lipgloss.RoundedBorder())

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "name: "
	m.nameInput.Placeholder = "anonymous"
	m.nameInput.CharLimit = 24

	m.overlay = overlay.New(nil, nil, overlay.Center, overlay.Center, 0, 0)

	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		if limit := m.engine.Difficulty().TimeLimit(); limit > 0 &&
			!m.engine.Done() && m.engine.Elapsed() >= limit {
			m.timeUp = true
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.completed != nil && !m.nameDone {
		return m.updateDialog(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "n":
		m.newGame()

	case "up", "k":
		m.moveCursor(-1, 0)
	case "down", "j":
		m.moveCursor(1, 0)
	case "left", "h":
		m.moveCursor(0, -1)
	case "right", "l":
		m.moveCursor(0, 1)

	case "tab":
		m.cycleTray(1)
	case "shift+tab":
		m.cycleTray(-1)

	case "enter", " ":
		m.placeAtCursor()
	case "x", "backspace":
		m.removeAtCursor()
	case "r":
		m.rotateTarget()
	case "u":
		m.undo()
	case "s":
		m.saveGame()
	}
	return m, nil
}

func (m *Model) boardLocked() bool {
	return m.timeUp || m.completed != nil
}

func (m *Model) moveCursor(dr, dc int) {
	r := m.cursor.Row + dr
	c := m.cursor.Col + dc
	if r < 0 || r >= m.engine.Rows() || c < 0 || c >= m.engine.Cols() {
		return
	}
	m.cursor = jigsaw.Cell{Row: r, Col: c}
}

func (m *Model) cycleTray(delta int) {
	n := len(m.engine.Unplaced())
	if n == 0 {
		m.traySel = 0
		return
	}
	m.traySel = ((m.traySel+delta)%n + n) % n
}

// traySelected clamps the selection against the shrinking tray.
func (m *Model) traySelected() *jigsaw.Piece {
	tray := m.engine.Unplaced()
	if len(tray) == 0 {
		return nil
	}
	if m.traySel >= len(tray) {
		m.traySel = len(tray) - 1
	}
	return tray[m.traySel]
}

func (m *Model) pushRecent() {
	if moves := m.engine.Log(); len(moves) > 0 {
		m.recent.Push(moves[len(moves)-1].String())
	}
}

func (m *Model) placeAtCursor() {
	if m.boardLocked() {
		return
	}
	if _, occupied := m.engine.At(m.cursor); occupied {
		m.status = "cell is taken"
		return
	}
	p := m.traySelected()
	if p == nil {
		return
	}
	m.status = ""
	m.engine.Place(p.ID, m.cursor)
	m.pushRecent()
}

func (m *Model) removeAtCursor() {
	if m.boardLocked() {
		return
	}
	p, occupied := m.engine.At(m.cursor)
	if !occupied {
		return
	}
	m.engine.Remove(p.ID)
	m.pushRecent()
}

// rotateTarget turns the piece under the cursor, or the tray selection
// when the cursor cell is empty.
func (m *Model) rotateTarget() {
	if m.boardLocked() {
		return
	}
	p, occupied := m.engine.At(m.cursor)
	if !occupied {
		p = m.traySelected()
	}
	if p == nil {
		return
	}
	m.engine.Rotate(p.ID)
	m.pushRecent()
}

func (m *Model) undo() {
	if m.boardLocked() {
		return
	}
	m.engine.Undo()
	m.recent.Push("undo")
}

func (m *Model) saveGame() {
	if m.store == nil {
		m.status = "no database, not saving"
		return
	}
	if err := m.store.SaveGame(m.slot, m.engine.Snapshot()); err != nil {
		log.Warn("save failed", "slot", m.slot, "error", err)
		m.status = "save failed"
		return
	}
	m.status = fmt.Sprintf("saved to slot %q", m.slot)
}

func (m *Model) newGame() {
	m.engine.Reset()
	m.cursor = jigsaw.Cell{}
	m.traySel = 0
	m.completed = nil
	m.nameDone = false
	m.leaders = nil
	m.timeUp = false
	m.status = ""
	m.recent.Clear()
	m.nameInput.Reset()
}
