package game

import "testing"

func baseState() *GameState {
	return &GameState{
		Width:  10,
		Height: 10,
		Snake:  []Point{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}},
	}
}

func TestStateHash_Deterministic(t *testing.T) {
	a := StateHash(baseState())
	b := StateHash(baseState())
	if a != b {
		t.Fatalf("hash not deterministic: %x vs %x", a, b)
	}
}

func TestStateHash_OrderSensitive(t *testing.T) {
	s := baseState()
	ref := StateHash(s)

	// Same cells, tail-to-head order: a different state, a different hash.
	s.Snake = []Point{{X: 3, Y: 5}, {X: 4, Y: 5}, {X: 5, Y: 5}}
	if StateHash(s) == ref {
		t.Fatalf("hash ignores body order")
	}
}

func TestStateHash_DimensionsBound(t *testing.T) {
	ref := StateHash(baseState())

	s := baseState()
	s.Width = 20
	if StateHash(s) == ref {
		t.Fatalf("hash ignores grid width")
	}

	s = baseState()
	s.Height = 20
	if StateHash(s) == ref {
		t.Fatalf("hash ignores grid height")
	}
}

func TestStateHash_PositionSensitive(t *testing.T) {
	ref := StateHash(baseState())

	s := baseState()
	s.Snake[2] = Point{X: 3, Y: 4}
	if StateHash(s) == ref {
		t.Fatalf("hash ignores segment position")
	}
}
