// Package host exposes the game model for direct embedding, e.g. a UI
// driving a live game rather than replaying a recorded one. It runs the
// exact rules the verifier replays with, so a game played through this
// surface always verifies.
package host

import (
	"fmt"

	"github.com/icryptohunter/SnakeGame-SP1/game"
	"github.com/icryptohunter/SnakeGame-SP1/replay"
)

// Game is a live, mutable game. Not safe for concurrent use; hosts drive
// it from a single loop.
type Game struct {
	state *game.GameState
}

// New starts a game on a width x height grid with the standard centered
// three-segment snake.
func New(width, height int32) (*Game, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, game.ErrInvalidClaim)
	}
	// The centered spawn needs room for head plus two body segments left
	// of it: the tail sits at width/2-2, which is negative below width 4.
	if width < 4 {
		return nil, fmt.Errorf("grid width %d too small for spawn: %w", width, game.ErrInvalidClaim)
	}
	return &Game{state: game.NewCenteredState(width, height)}, nil
}

// QueueFood appends a food position for the snake to eat next, in order.
func (g *Game) QueueFood(x, y int32) error {
	p := game.Point{X: x, Y: y}
	if !g.state.InBounds(p) {
		return fmt.Errorf("food (%d,%d) out of bounds: %w", x, y, game.ErrInvalidClaim)
	}
	for _, seg := range g.state.Snake {
		if p == seg {
			return fmt.Errorf("food (%d,%d) on snake: %w", x, y, game.ErrInvalidClaim)
		}
	}
	g.state.FoodQueue = append(g.state.FoodQueue, p)
	return nil
}

// Step applies one move with full rules: wall, reversal and
// self-collision checks, growth on food.
func (g *Game) Step(move int) error {
	return replay.Step(g.state, move)
}

// CheckCollision reports whether moving the head to (x, y) would end the
// game: out of bounds, or on a body cell other than the head.
func (g *Game) CheckCollision(x, y int32) bool {
	p := game.Point{X: x, Y: y}
	if !g.state.InBounds(p) {
		return true
	}
	for _, seg := range g.state.Snake[1:] {
		if p == seg {
			return true
		}
	}
	return false
}

// Score returns the current score.
func (g *Game) Score() int32 {
	return g.state.Score()
}

// Length returns the current snake length.
func (g *Game) Length() int32 {
	return g.state.Length()
}

// VerifyScore reports whether a claimed score matches this game exactly.
// Each food is worth exactly game.PointsPerFood; there is no tolerance
// window.
func (g *Game) VerifyScore(score int32) bool {
	return score == g.state.Score()
}

// State returns a snapshot of the game state.
func (g *Game) State() *game.GameState {
	return g.state.Clone()
}
