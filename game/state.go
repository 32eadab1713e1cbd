// Package game defines the core state types for the snake replay verifier.
//
// These types represent the minimal state needed to re-simulate a recorded
// game and check a claimed outcome against it. The state is designed to be
// cheap to clone so every verification run owns an isolated copy.
package game

// Point is a board coordinate. (0,0) is bottom-left.
type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// PointsPerFood is the score awarded per food eaten.
const PointsPerFood = 10

// GameState is the complete replay state for a single game.
//
// Snake holds the body head-first. FoodQueue is the full ordered food
// layout from the witness; FoodsEaten doubles as the index of the next
// pending food, so the queue itself is never mutated during replay.
type GameState struct {
	Width      int32   `json:"width"`
	Height     int32   `json:"height"`
	Snake      []Point `json:"snake"`
	FoodQueue  []Point `json:"food_queue"`
	FoodsEaten int32   `json:"foods_eaten"`
	Turn       int32   `json:"turn"`
}

// NewCenteredState builds the standard starting state: a three-segment
// snake centered on the grid, head at (w/2, h/2), body extending left.
func NewCenteredState(width, height int32) *GameState {
	x := width / 2
	y := height / 2
	return &GameState{
		Width:  width,
		Height: height,
		Snake: []Point{
			{X: x, Y: y},
			{X: x - 1, Y: y},
			{X: x - 2, Y: y},
		},
	}
}

// Head returns the snake's head position. Snake is never empty for a
// state built through NewCenteredState or replay validation.
func (s *GameState) Head() Point {
	return s.Snake[0]
}

// Length returns the current snake length.
func (s *GameState) Length() int32 {
	return int32(len(s.Snake))
}

// PendingFood returns the next food the snake can eat, if any.
func (s *GameState) PendingFood() (Point, bool) {
	if int(s.FoodsEaten) >= len(s.FoodQueue) {
		return Point{}, false
	}
	return s.FoodQueue[s.FoodsEaten], true
}

// Score returns the score implied by the foods eaten so far.
func (s *GameState) Score() int32 {
	return s.FoodsEaten * PointsPerFood
}

// InBounds reports whether p lies inside the grid.
func (s *GameState) InBounds(p Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// Clone performs a deep copy of the game state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}

	out := &GameState{
		Width:      s.Width,
		Height:     s.Height,
		FoodsEaten: s.FoodsEaten,
		Turn:       s.Turn,
	}

	if len(s.Snake) > 0 {
		out.Snake = make([]Point, len(s.Snake))
		copy(out.Snake, s.Snake)
	}
	if len(s.FoodQueue) > 0 {
		out.FoodQueue = make([]Point, len(s.FoodQueue))
		copy(out.FoodQueue, s.FoodQueue)
	}

	return out
}
