package puzzle

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/3841cccyc/mobilejig/jigsaw"
)

const (
	// https://github.com/fidian/ansi?tab=readme-ov-file#--color-codes
	colorMin   = 17
	colorMax   = 231
	colorRange = colorMax + 1 - colorMin
)

var (
	styleFit    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleMisfit = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleFaint  = lipgloss.NewStyle().Faint(true)
	styleBold   = lipgloss.NewStyle().Bold(true)
	styleMarked = lipgloss.NewStyle().Reverse(true)
)

// pieceStyle is stable per piece so a piece keeps its color as it moves
// between tray and board.
func pieceStyle(id int) lipgloss.Style {
	c := colorMin + (id*41)%colorRange
	return lipgloss.NewStyle().Background(lipgloss.ANSIColor(c))
}

func edgeGlyph(e jigsaw.Edge, vertical bool) string {
	switch e {
	case jigsaw.Tab:
		return "●"
	case jigsaw.Blank:
		return "○"
	}
	if vertical {
		return "│"
	}
	return "─"
}

func (m *Model) View() string {
	b := &m.b
	b.Reset()

	m.printBoard(b)
	m.tableView.board = b.String()
	b.Reset()

	m.printSide(b)
	m.tableView.side = b.String()
	b.Reset()

	m.table.Data(m.tableView)
	fmt.Fprintln(b, m.table.Render())
	m.printStatus(b)
	main := b.String()

	if m.completed != nil || m.timeUp {
		fg := m.dialogView()
		// Pad the board out so a tall dialog is never clipped.
		w := max(lipgloss.Width(main), lipgloss.Width(fg))
		h := max(lipgloss.Height(main), lipgloss.Height(fg))
		m.overlay.Foreground = stringModel(fg)
		m.overlay.Background = stringModel(lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, main))
		return m.overlay.View()
	}
	return main
}

func (m *Model) printBoard(w io.Writer) {
	for row := range m.engine.Rows() {
		for col := range m.engine.Cols() {
			cell := jigsaw.Cell{Row: row, Col: col}
			text := "  ·  "
			style := styleFaint

			if p, occupied := m.engine.At(cell); occupied {
				text = fmt.Sprintf(" %2d  ", p.ID)
				style = pieceStyle(p.ID)
				// Live fit hint only; jigsaw.Engine.IsComplete stays the
				// single authority on winning.
				if m.engine.CanPlace(p.ID, cell) {
					style = style.Inherit(styleFit)
				} else {
					style = style.Inherit(styleMisfit)
				}
			}

			if cell == m.cursor {
				style = style.Reverse(true)
			}
			fmt.Fprint(w, style.Render(text))
		}
		if row+1 != m.engine.Rows() {
			fmt.Fprintln(w)
		}
	}
}

func (m *Model) printSide(w io.Writer) {
	sel := m.traySelected()
	if sel != nil {
		m.printPiece(w, sel)
		fmt.Fprintln(w)
	}

	tray := m.engine.Unplaced()
	fmt.Fprintf(w, "tray (%d left)\n", len(tray))
	const visible = 8
	for i, p := range tray {
		if i >= visible {
			fmt.Fprintf(w, "  … %d more\n", len(tray)-visible)
			break
		}
		line := fmt.Sprintf("#%-2d %3d°", p.ID, p.Rotation)
		if p == sel {
			line = styleMarked.Render(line)
		}
		fmt.Fprintln(w, line)
	}

	if recent := m.recent.Recent(4); len(recent) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleFaint.Render("recent"))
		for _, s := range recent {
			fmt.Fprintln(w, styleFaint.Render(s))
		}
	}
}

// printPiece draws the selected piece's effective edges as a glyph box:
// tabs as filled dots, blanks as hollow, flats as plain border.
func (m *Model) printPiece(w io.Writer, p *jigsaw.Piece) {
	e := p.Effective()
	fmt.Fprintf(w, "piece #%d at %d°\n", p.ID, p.Rotation)
	fmt.Fprintf(w, "┌%s┐\n", edgeGlyph(e.Top, false))
	fmt.Fprintf(w, "%s %s\n", edgeGlyph(e.Left, true), edgeGlyph(e.Right, true))
	fmt.Fprintf(w, "└%s┘\n", edgeGlyph(e.Bottom, false))
}

func (m *Model) printStatus(w io.Writer) {
	elapsed := m.engine.Elapsed().Round(time.Second)
	fmt.Fprintf(w, " %s %dx%d  moves %d  %s",
		m.engine.Difficulty(), m.engine.Rows(), m.engine.Cols(),
		m.engine.Moves(), elapsed)
	if limit := m.engine.Difficulty().TimeLimit(); limit > 0 {
		left := max(0, limit-m.engine.Elapsed()).Round(time.Second)
		fmt.Fprintf(w, "  %s", styleBold.Render(fmt.Sprintf("%s left", left)))
	}
	if m.status != "" {
		fmt.Fprintf(w, "  %s", m.status)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, styleFaint.Render(" arrows move · tab cycles tray · enter places · r rotates · x removes · u undo · s save · n new · q quit"))
}
