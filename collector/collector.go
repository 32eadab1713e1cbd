// Package collector streams session envelopes (claim + witness) from a
// game host's websocket feed into a channel for verification.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/icryptohunter/SnakeGame-SP1/game"
)

// Config holds collector configuration.
type Config struct {
	// FeedURL is the websocket endpoint streaming session events.
	FeedURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	// ReconnectDelay is the pause between reconnect attempts.
	ReconnectDelay time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
		ReconnectDelay: 5 * time.Second,
	}
}

// Stats holds collection statistics. Fields are updated atomically.
type Stats struct {
	SessionsReceived int64
	SessionsSkipped  int64
	DecodeFailures   int64
}

// FeedEvent is one message on the feed stream.
type FeedEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DecodeSession parses a "session" feed event into its envelope.
func DecodeSession(data json.RawMessage) (*game.Session, error) {
	var s game.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("session has no id")
	}
	return &s, nil
}

// Collector reads the feed and forwards unseen sessions.
type Collector struct {
	config Config
	known  map[string]bool
	stats  Stats
}

// New creates a collector. known marks session IDs to skip; it is read
// only from the collector's own goroutine.
func New(config Config, known map[string]bool) *Collector {
	if known == nil {
		known = map[string]bool{}
	}
	return &Collector{config: config, known: known}
}

// Stats returns a snapshot of the collection counters.
func (c *Collector) Stats() Stats {
	return Stats{
		SessionsReceived: atomic.LoadInt64(&c.stats.SessionsReceived),
		SessionsSkipped:  atomic.LoadInt64(&c.stats.SessionsSkipped),
		DecodeFailures:   atomic.LoadInt64(&c.stats.DecodeFailures),
	}
}

// Run connects to the feed and forwards sessions to out until ctx is
// cancelled, reconnecting on errors. It closes out on return.
func (c *Collector) Run(ctx context.Context, out chan<- *game.Session) error {
	defer close(out)

	if c.config.FeedURL == "" {
		return fmt.Errorf("feed URL is required")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if err := c.collectOnce(ctx, out); err != nil {
			log.Printf("Feed connection lost: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.config.ReconnectDelay):
		}
	}
}

// handleMessage decodes one feed message and applies the event filter and
// session dedupe, updating the counters. The second return is false when
// the message carries no new session.
func (c *Collector) handleMessage(message []byte) (*game.Session, bool) {
	var event FeedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		atomic.AddInt64(&c.stats.DecodeFailures, 1)
		log.Printf("Failed to parse feed event: %v", err)
		return nil, false
	}
	if event.Type != "session" {
		return nil, false
	}

	session, err := DecodeSession(event.Data)
	if err != nil {
		atomic.AddInt64(&c.stats.DecodeFailures, 1)
		log.Printf("Failed to parse session event: %v", err)
		return nil, false
	}

	if c.known[session.ID] {
		atomic.AddInt64(&c.stats.SessionsSkipped, 1)
		return nil, false
	}
	c.known[session.ID] = true
	atomic.AddInt64(&c.stats.SessionsReceived, 1)
	return session, true
}

func (c *Collector) collectOnce(ctx context.Context, out chan<- *game.Session) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.ConnectTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.config.FeedURL, nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the context is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	log.Printf("Connected to session feed: %s", c.config.FeedURL)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		session, ok := c.handleMessage(message)
		if !ok {
			continue
		}

		select {
		case out <- session:
		case <-ctx.Done():
			return nil
		}
	}
}
