package game

import "fmt"

// Claim is the public commitment about a finished game: everything the
// verifier checks against, nothing that reveals how the game was played.
type Claim struct {
	Width        int32   `json:"width"`
	Height       int32   `json:"height"`
	InitialSnake []Point `json:"initial_snake"`
	// FinalStateHash commits to the final state; see StateHash for the
	// serialization it is computed over.
	FinalStateHash []byte `json:"final_state_hash"`
	Score          int32  `json:"score"`
	FinalLength    int32  `json:"final_length"`
}

// Witness is the private data justifying a claim: the moves played, one
// per tick, and the ordered food layout.
type Witness struct {
	Moves     []int   `json:"moves"`
	FoodQueue []Point `json:"food_queue"`
}

// Session bundles a claim with its witness. It is the unit of
// verification and the JSON record exchanged with game hosts.
type Session struct {
	ID      string  `json:"id"`
	Source  string  `json:"source,omitempty"`
	Claim   Claim   `json:"claim"`
	Witness Witness `json:"witness"`
}

// Validate checks the structural invariants of the claim. Violations are
// reported as ErrInvalidClaim; they are construction defects, not replay
// outcomes.
func (c *Claim) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid %dx%d: %w", c.Width, c.Height, ErrInvalidClaim)
	}
	if len(c.InitialSnake) == 0 {
		return fmt.Errorf("empty initial snake: %w", ErrInvalidClaim)
	}

	seen := make(map[Point]struct{}, len(c.InitialSnake))
	for i, p := range c.InitialSnake {
		if p.X < 0 || p.X >= c.Width || p.Y < 0 || p.Y >= c.Height {
			return fmt.Errorf("initial snake segment %d at (%d,%d) out of bounds: %w", i, p.X, p.Y, ErrInvalidClaim)
		}
		if _, ok := seen[p]; ok {
			return fmt.Errorf("initial snake overlaps itself at (%d,%d): %w", p.X, p.Y, ErrInvalidClaim)
		}
		seen[p] = struct{}{}

		if i == 0 {
			continue
		}
		prev := c.InitialSnake[i-1]
		if manhattan(prev, p) != 1 {
			return fmt.Errorf("initial snake not contiguous between segments %d and %d: %w", i-1, i, ErrInvalidClaim)
		}
	}

	if len(c.FinalStateHash) != HashSize {
		return fmt.Errorf("final state hash is %d bytes, want %d: %w", len(c.FinalStateHash), HashSize, ErrInvalidClaim)
	}

	return nil
}

// Validate checks the witness against its claim: food positions must be
// inside the grid and off the initial snake, and every move must be a
// known direction. Food overlapping the snake later in the game is not
// re-checked here; replay fails naturally at the step where it matters.
func (w *Witness) Validate(c *Claim) error {
	onSnake := make(map[Point]struct{}, len(c.InitialSnake))
	for _, p := range c.InitialSnake {
		onSnake[p] = struct{}{}
	}

	for i, f := range w.FoodQueue {
		if f.X < 0 || f.X >= c.Width || f.Y < 0 || f.Y >= c.Height {
			return fmt.Errorf("food %d at (%d,%d) out of bounds: %w", i, f.X, f.Y, ErrInvalidClaim)
		}
		if _, ok := onSnake[f]; ok {
			return fmt.Errorf("food %d at (%d,%d) on initial snake: %w", i, f.X, f.Y, ErrInvalidClaim)
		}
	}

	for i, m := range w.Moves {
		if m < 0 || m > 3 {
			return fmt.Errorf("move %d has unknown direction %d: %w", i, m, ErrInvalidClaim)
		}
	}

	return nil
}

func manhattan(a, b Point) int32 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
