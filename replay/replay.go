// Package replay deterministically re-simulates a recorded snake game
// from its witness. It is a pure fold over the move list: no I/O, no
// randomness, no shared state between runs.
package replay

import (
	"fmt"

	"github.com/icryptohunter/SnakeGame-SP1/game"
)

const (
	MoveUp    = 0
	MoveDown  = 1
	MoveLeft  = 2
	MoveRight = 3
)

// MoveNames maps move constants to display names.
var MoveNames = [4]string{"Up", "Down", "Left", "Right"}

func offset(move int) (dx, dy int32) {
	switch move {
	case MoveUp:
		return 0, 1
	case MoveDown:
		return 0, -1
	case MoveLeft:
		return -1, 0
	case MoveRight:
		return 1, 0
	}
	return 0, 0
}

// Phase is the lifecycle of a single replay run.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Outcome is the result of a completed replay.
type Outcome struct {
	Final       *game.GameState
	FoodsEaten  int32
	Score       int32
	FinalLength int32
}

// Step applies one move to the state in place.
//
// Order matters and encodes the classic tail off-by-one: the wall and
// reversal checks come first, then the grow-or-move decision, and only
// then the self-collision check against the body as it stands after that
// decision. A move into the cell the tail vacates this tick is legal.
func Step(s *game.GameState, move int) error {
	head := s.Head()
	dx, dy := offset(move)
	if dx == 0 && dy == 0 {
		return fmt.Errorf("unknown direction %d: %w", move, game.ErrInvalidClaim)
	}
	cand := game.Point{X: head.X + dx, Y: head.Y + dy}

	// 1. Bounds.
	if !s.InBounds(cand) {
		return fmt.Errorf("head (%d,%d) outside %dx%d grid: %w", cand.X, cand.Y, s.Width, s.Height, game.ErrWallCollision)
	}

	// 2. Reversal into the second segment. Checked before the tail-drop
	// decision: for a length-2 snake the second segment is also the
	// vacating tail, and reversing is still illegal.
	if len(s.Snake) > 1 && cand == s.Snake[1] {
		return fmt.Errorf("head (%d,%d) reverses into neck: %w", cand.X, cand.Y, game.ErrIllegalReversal)
	}

	// 3. Grow or move.
	ate := false
	if pending, ok := s.PendingFood(); ok && cand == pending {
		ate = true
	}

	body := s.Snake
	if !ate {
		// Tail vacates the same tick; exclude it from collision.
		body = body[:len(body)-1]
	}

	// 4. Self collision against the post-decision body.
	for i := 1; i < len(body); i++ {
		if cand == body[i] {
			return fmt.Errorf("head (%d,%d) hits body segment %d: %w", cand.X, cand.Y, i, game.ErrSelfCollision)
		}
	}

	next := make([]game.Point, 0, len(body)+1)
	next = append(next, cand)
	next = append(next, body...)
	s.Snake = next

	if ate {
		s.FoodsEaten++
	}
	s.Turn++
	return nil
}

// Replayer drives one verification run through its state machine:
// NotStarted -> Running -> {Completed, Failed}. Both terminal phases are
// final; replay is deterministic, so a failed run is never retried.
type Replayer struct {
	state *game.GameState
	moves []int
	next  int
	phase Phase
	err   error
}

// New validates the claim and witness and builds an isolated run. The
// returned Replayer owns deep copies of the snake and food layout;
// nothing is shared with the caller or with other runs.
func New(claim *game.Claim, witness *game.Witness) (*Replayer, error) {
	if err := claim.Validate(); err != nil {
		return nil, err
	}
	if err := witness.Validate(claim); err != nil {
		return nil, err
	}

	state := &game.GameState{
		Width:     claim.Width,
		Height:    claim.Height,
		Snake:     append([]game.Point(nil), claim.InitialSnake...),
		FoodQueue: append([]game.Point(nil), witness.FoodQueue...),
	}

	return &Replayer{
		state: state,
		moves: append([]int(nil), witness.Moves...),
	}, nil
}

func (r *Replayer) Phase() Phase { return r.phase }

// Err returns the terminal error of a failed run, nil otherwise.
func (r *Replayer) Err() error { return r.err }

// MovesApplied returns how many moves have been consumed so far.
func (r *Replayer) MovesApplied() int { return r.next }

// MovesTotal returns the length of the move list.
func (r *Replayer) MovesTotal() int { return len(r.moves) }

// State returns a snapshot of the current replay state.
func (r *Replayer) State() *game.GameState {
	return r.state.Clone()
}

// Advance applies the next move. It returns done=true once the run has
// reached a terminal phase; the error of a failed run is returned on the
// failing call and every call after it.
func (r *Replayer) Advance() (done bool, err error) {
	switch r.phase {
	case PhaseFailed:
		return true, r.err
	case PhaseCompleted:
		return true, nil
	}

	if r.next >= len(r.moves) {
		r.phase = PhaseCompleted
		return true, nil
	}

	r.phase = PhaseRunning
	if err := Step(r.state, r.moves[r.next]); err != nil {
		r.err = fmt.Errorf("move %d (%s): %w", r.next, MoveNames[r.moves[r.next]], err)
		r.phase = PhaseFailed
		return true, r.err
	}
	r.next++

	if r.next == len(r.moves) {
		r.phase = PhaseCompleted
		return true, nil
	}
	return false, nil
}

// Outcome returns the result of a completed run. Calling it on a failed
// run returns the run's error; replays offer no partial credit.
func (r *Replayer) Outcome() (*Outcome, error) {
	switch r.phase {
	case PhaseFailed:
		return nil, r.err
	case PhaseCompleted:
	default:
		return nil, fmt.Errorf("replay %s, outcome unavailable", r.phase)
	}

	return &Outcome{
		Final:       r.state.Clone(),
		FoodsEaten:  r.state.FoodsEaten,
		Score:       r.state.Score(),
		FinalLength: r.state.Length(),
	}, nil
}

// Run replays the entire witness against the claim's initial state and
// returns the outcome, or the first rule violation.
func Run(claim *game.Claim, witness *game.Witness) (*Outcome, error) {
	r, err := New(claim, witness)
	if err != nil {
		return nil, err
	}
	for {
		done, err := r.Advance()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return r.Outcome()
}
