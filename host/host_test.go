package host

import (
	"errors"
	"testing"

	"github.com/icryptohunter/SnakeGame-SP1/game"
	"github.com/icryptohunter/SnakeGame-SP1/replay"
)

func TestNew_CenteredSpawn(t *testing.T) {
	g, err := New(10, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	state := g.State()
	if state.Head() != (game.Point{X: 5, Y: 5}) {
		t.Fatalf("head=%v want (5,5)", state.Head())
	}
	if g.Length() != 3 || g.Score() != 0 {
		t.Fatalf("length=%d score=%d want 3, 0", g.Length(), g.Score())
	}
}

func TestNew_RejectsBadGrids(t *testing.T) {
	for _, dims := range [][2]int32{{0, 10}, {10, 0}, {-5, 10}, {2, 10}, {3, 5}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, game.ErrInvalidClaim) {
			t.Fatalf("grid %dx%d: err=%v want invalid claim", dims[0], dims[1], err)
		}
	}
}

func TestNew_SpawnInsideGrid(t *testing.T) {
	// Width 4 is the smallest grid the centered spawn fits: the tail
	// lands at x=0. Every accepted grid must place all segments in bounds.
	for _, dims := range [][2]int32{{4, 1}, {4, 5}, {5, 5}, {11, 11}} {
		g, err := New(dims[0], dims[1])
		if err != nil {
			t.Fatalf("grid %dx%d: New failed: %v", dims[0], dims[1], err)
		}
		state := g.State()
		for i, seg := range state.Snake {
			if !state.InBounds(seg) {
				t.Fatalf("grid %dx%d: segment %d at (%d,%d) outside grid",
					dims[0], dims[1], i, seg.X, seg.Y)
			}
		}
	}
}

func TestCheckCollision(t *testing.T) {
	g, err := New(10, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Walls.
	for _, p := range []game.Point{{X: -1, Y: 5}, {X: 10, Y: 5}, {X: 5, Y: -1}, {X: 5, Y: 10}} {
		if !g.CheckCollision(p.X, p.Y) {
			t.Fatalf("(%d,%d) should collide with wall", p.X, p.Y)
		}
	}

	// Body segments behind the head.
	if !g.CheckCollision(4, 5) || !g.CheckCollision(3, 5) {
		t.Fatalf("body cells should collide")
	}

	// The head cell itself and free cells do not.
	if g.CheckCollision(5, 5) {
		t.Fatalf("head cell should not count as collision")
	}
	if g.CheckCollision(6, 5) || g.CheckCollision(0, 0) {
		t.Fatalf("free cells should not collide")
	}
}

func TestStepAndScore(t *testing.T) {
	g, err := New(10, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := g.QueueFood(6, 5); err != nil {
		t.Fatalf("QueueFood failed: %v", err)
	}

	if err := g.Step(replay.MoveRight); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if g.Score() != game.PointsPerFood {
		t.Fatalf("score=%d want=%d", g.Score(), game.PointsPerFood)
	}
	if g.Length() != 4 {
		t.Fatalf("length=%d want=4", g.Length())
	}
	if head := g.State().Head(); head != (game.Point{X: 6, Y: 5}) {
		t.Fatalf("head=%v want (6,5)", head)
	}
}

func TestStep_EnforcesRules(t *testing.T) {
	g, err := New(10, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Reversing into the body is illegal even through the host surface.
	if err := g.Step(replay.MoveLeft); !errors.Is(err, game.ErrIllegalReversal) {
		t.Fatalf("err=%v want illegal reversal", err)
	}
}

func TestQueueFood_Validation(t *testing.T) {
	g, err := New(10, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := g.QueueFood(10, 5); !errors.Is(err, game.ErrInvalidClaim) {
		t.Fatalf("err=%v want invalid claim for out-of-bounds food", err)
	}
	if err := g.QueueFood(4, 5); !errors.Is(err, game.ErrInvalidClaim) {
		t.Fatalf("err=%v want invalid claim for food on snake", err)
	}
}

func TestVerifyScore_Exact(t *testing.T) {
	g, err := New(10, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := g.QueueFood(6, 5); err != nil {
		t.Fatalf("QueueFood failed: %v", err)
	}
	if err := g.Step(replay.MoveRight); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if !g.VerifyScore(10) {
		t.Fatalf("exact score rejected")
	}
	// Neighbouring scores were accepted by the old tolerance window; this
	// surface rejects them.
	for _, score := range []int32{0, 9, 11, 20} {
		if g.VerifyScore(score) {
			t.Fatalf("score %d accepted, want rejection", score)
		}
	}
}
