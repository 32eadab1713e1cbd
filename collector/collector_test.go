package collector

import (
	"encoding/json"
	"testing"

	"github.com/icryptohunter/SnakeGame-SP1/game"
)

func TestDecodeSession(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "sess_42",
		"source": "arcade",
		"claim": {
			"width": 10,
			"height": 10,
			"initial_snake": [{"x":5,"y":5},{"x":4,"y":5},{"x":3,"y":5}],
			"final_state_hash": "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
			"score": 10,
			"final_length": 4
		},
		"witness": {
			"moves": [3],
			"food_queue": [{"x":6,"y":5}]
		}
	}`)

	s, err := DecodeSession(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.ID != "sess_42" || s.Source != "arcade" {
		t.Fatalf("envelope=%+v", s)
	}
	if s.Claim.Width != 10 || s.Claim.Score != 10 || s.Claim.FinalLength != 4 {
		t.Fatalf("claim=%+v", s.Claim)
	}
	if len(s.Claim.InitialSnake) != 3 || s.Claim.InitialSnake[0].X != 5 {
		t.Fatalf("initial snake=%v", s.Claim.InitialSnake)
	}
	if len(s.Witness.Moves) != 1 || s.Witness.Moves[0] != 3 {
		t.Fatalf("moves=%v", s.Witness.Moves)
	}
	if len(s.Witness.FoodQueue) != 1 || s.Witness.FoodQueue[0] != (game.Point{X: 6, Y: 5}) {
		t.Fatalf("food queue=%v", s.Witness.FoodQueue)
	}
}

func TestDecodeSession_MissingID(t *testing.T) {
	if _, err := DecodeSession(json.RawMessage(`{"claim":{},"witness":{}}`)); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestDecodeSession_BadJSON(t *testing.T) {
	if _, err := DecodeSession(json.RawMessage(`{not json`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestHandleMessage_CountsAndDedupes(t *testing.T) {
	c := New(DefaultConfig(), map[string]bool{"seen": true})

	// Garbage and non-session events produce no session.
	if _, ok := c.handleMessage([]byte(`{not json`)); ok {
		t.Fatalf("garbage message produced a session")
	}
	if _, ok := c.handleMessage([]byte(`{"type":"heartbeat"}`)); ok {
		t.Fatalf("heartbeat produced a session")
	}
	if _, ok := c.handleMessage([]byte(`{"type":"session","data":{"claim":{},"witness":{}}}`)); ok {
		t.Fatalf("session without id produced a session")
	}

	// A known ID is skipped, a fresh one forwarded; repeats are skipped.
	if _, ok := c.handleMessage([]byte(`{"type":"session","data":{"id":"seen","claim":{},"witness":{}}}`)); ok {
		t.Fatalf("known session not deduped")
	}
	s, ok := c.handleMessage([]byte(`{"type":"session","data":{"id":"s1","claim":{},"witness":{}}}`))
	if !ok || s.ID != "s1" {
		t.Fatalf("fresh session not forwarded: %+v %v", s, ok)
	}
	if _, ok := c.handleMessage([]byte(`{"type":"session","data":{"id":"s1","claim":{},"witness":{}}}`)); ok {
		t.Fatalf("repeated session not deduped")
	}

	st := c.Stats()
	if st.SessionsReceived != 1 || st.SessionsSkipped != 2 || st.DecodeFailures != 2 {
		t.Fatalf("stats=%+v want received=1 skipped=2 decode_failures=2", st)
	}
}

func TestFeedEventParsing(t *testing.T) {
	msg := []byte(`{"type":"session","data":{"id":"s1","claim":{},"witness":{}}}`)

	var event FeedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Type != "session" {
		t.Fatalf("type=%q want session", event.Type)
	}

	s, err := DecodeSession(event.Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.ID != "s1" {
		t.Fatalf("id=%q want s1", s.ID)
	}
}
