package puzzle

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/3841cccyc/mobilejig/scores"
)

var styleDialog = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(1, 2)

// updateDialog owns key handling while the completion dialog is asking
// for a name. Enter submits the score, esc skips it.
func (m *Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submitScore()
		return m, nil
	case "esc":
		m.nameDone = true
		m.loadLeaders()
		return m, nil
	}

	if !m.nameInput.Focused() {
		return m, m.nameInput.Focus()
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) submitScore() {
	m.nameDone = true
	defer m.loadLeaders()

	if m.store == nil || m.completed == nil {
		return
	}
	name := m.nameInput.Value()
	if name == "" {
		name = "anonymous"
	}
	_, err := m.store.SaveScore(scores.Entry{
		Name:       name,
		Score:      m.completed.score,
		Moves:      m.completed.moves,
		Seconds:    m.completed.seconds,
		Rows:       m.engine.Rows(),
		Cols:       m.engine.Cols(),
		Difficulty: m.engine.Difficulty(),
	})
	if err != nil {
		log.Warn("score not recorded", "error", err)
		m.status = "score not recorded"
	}
}

func (m *Model) loadLeaders() {
	if m.store == nil {
		return
	}
	top, err := m.store.Top(10)
	if err != nil {
		log.Warn("leaderboard unavailable", "error", err)
		return
	}
	m.leaders = top
}

func (m *Model) dialogView() string {
	b := &m.b
	defer b.Reset()
	b.Reset()

	if m.timeUp && m.completed == nil {
		fmt.Fprintln(b, styleBold.Render("Time is up!"))
		fmt.Fprintf(b, "moves: %d\n\n", m.engine.Moves())
		fmt.Fprint(b, styleFaint.Render("n for a new game · q to quit"))
		return styleDialog.Render(b.String())
	}

	c := m.completed
	fmt.Fprintln(b, styleBold.Render("Puzzle complete!"))
	fmt.Fprintf(b, "score %d · %d moves · %s\n\n",
		c.score, c.moves, (time.Duration(c.seconds) * time.Second))

	if !m.nameDone {
		fmt.Fprintln(b, m.nameInput.View())
		fmt.Fprint(b, styleFaint.Render("enter saves · esc skips"))
		return styleDialog.Render(b.String())
	}

	if len(m.leaders) > 0 {
		fmt.Fprintln(b, styleBold.Render("leaderboard"))
		for i, e := range m.leaders {
			fmt.Fprintf(b, "%2d. %-16s %6d  %s\n", i+1, e.Name, e.Score, e.Difficulty)
		}
		fmt.Fprintln(b)
	}
	fmt.Fprint(b, styleFaint.Render("n for a new game · q to quit"))
	return styleDialog.Render(b.String())
}
