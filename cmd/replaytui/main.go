// Command replaytui steps through a recorded session in the terminal,
// one move at a time, and shows the verifier's verdict at the end.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/icryptohunter/SnakeGame-SP1/game"
	"github.com/icryptohunter/SnakeGame-SP1/replay"
	"github.com/icryptohunter/SnakeGame-SP1/verify"
)

type model struct {
	session  *game.Session
	replayer *replay.Replayer
	verdict  string
}

func newModel(session *game.Session) (model, error) {
	r, err := replay.New(&session.Claim, &session.Witness)
	if err != nil {
		return model{}, err
	}
	return model{session: session, replayer: r}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "right", "n":
			m.advance()
		case "e":
			// Run to the end.
			for {
				done, _ := m.replayer.Advance()
				if done {
					break
				}
			}
			m.settle()
		case "r":
			fresh, err := newModel(m.session)
			if err == nil {
				return fresh, nil
			}
		}
	}
	return m, nil
}

func (m *model) advance() {
	done, _ := m.replayer.Advance()
	if done {
		m.settle()
	}
}

// settle computes the final verdict once the replay reaches a terminal phase.
func (m *model) settle() {
	if m.verdict != "" {
		return
	}
	switch m.replayer.Phase() {
	case replay.PhaseFailed:
		m.verdict = fmt.Sprintf("REJECTED: %v", m.replayer.Err())
	case replay.PhaseCompleted:
		out, err := m.replayer.Outcome()
		if err != nil {
			m.verdict = fmt.Sprintf("REJECTED: %v", err)
			return
		}
		if err := verify.Check(&m.session.Claim, out); err != nil {
			m.verdict = fmt.Sprintf("REJECTED: %v", err)
			return
		}
		m.verdict = "VERIFIED: claim matches replay"
	}
}

func (m model) View() string {
	state := m.replayer.State()

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s  (%dx%d)\n", m.session.ID, state.Width, state.Height)
	fmt.Fprintf(&b, "Move %d/%d  Phase %s  Score %d  Length %d\n\n",
		m.replayer.MovesApplied(), m.replayer.MovesTotal(), m.replayer.Phase(), state.Score(), state.Length())

	b.WriteString(renderBoard(state))

	b.WriteString("\n")
	if m.verdict != "" {
		b.WriteString(m.verdict + "\n\n")
	}
	b.WriteString("space/→ step  e run to end  r reset  q quit\n")
	return b.String()
}

// renderBoard draws the grid top row first: H head, digits for body
// occupancy, F the next pending food, '.' empty.
func renderBoard(state *game.GameState) string {
	w, h := int(state.Width), int(state.Height)
	if w <= 0 || h <= 0 || w > 60 || h > 60 {
		return fmt.Sprintf("(board %dx%d too large to draw)\n", w, h)
	}

	occ := make(map[game.Point]int, len(state.Snake))
	for _, p := range state.Snake {
		occ[p]++
	}
	head := state.Head()
	pending, hasPending := state.PendingFood()

	var b strings.Builder
	for y := h - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			p := game.Point{X: int32(x), Y: int32(y)}
			switch {
			case p == head:
				b.WriteByte('H')
			case hasPending && p == pending:
				b.WriteByte('F')
			case occ[p] > 0:
				c := occ[p]
				if c > 9 {
					c = 9
				}
				b.WriteByte(byte('0' + c))
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func main() {
	sessionPath := flag.String("session", "", "Path to a session .json file")
	flag.Parse()

	if *sessionPath == "" && flag.NArg() > 0 {
		*sessionPath = flag.Arg(0)
	}
	if *sessionPath == "" {
		log.Fatalf("Usage: replaytui -session <file.json>")
	}

	data, err := os.ReadFile(*sessionPath)
	if err != nil {
		log.Fatalf("Failed to read session: %v", err)
	}

	var session game.Session
	if err := json.Unmarshal(data, &session); err != nil {
		log.Fatalf("Failed to parse session: %v", err)
	}
	if session.ID == "" {
		session.ID = *sessionPath
	}

	m, err := newModel(&session)
	if err != nil {
		log.Fatalf("Session rejected before replay: %v", err)
	}

	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}
}
