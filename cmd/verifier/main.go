// Command verifier checks claimed snake-game outcomes in bulk.
//
// Sessions (claim + witness JSON) are read from a directory and/or
// streamed from a websocket feed, replayed on a worker pool, and the
// verdicts archived as parquet batches. Already-verified session IDs are
// tracked in an append-only log so re-runs skip them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/icryptohunter/SnakeGame-SP1/collector"
	"github.com/icryptohunter/SnakeGame-SP1/game"
	"github.com/icryptohunter/SnakeGame-SP1/logging"
	"github.com/icryptohunter/SnakeGame-SP1/store"
	"github.com/icryptohunter/SnakeGame-SP1/verify"
)

func main() {
	inDir := flag.String("in-dir", getEnvOrDefault("IN_DIR", "sessions"), "Directory of session .json files to verify (empty to disable)")
	feedURL := flag.String("feed-url", getEnvOrDefault("FEED_URL", ""), "Websocket session feed URL (empty to disable)")
	outDir := flag.String("out-dir", getEnvOrDefault("OUT_DIR", "archive"), "Directory to write verdict .parquet batches")
	logPath := flag.String("log-path", getEnvOrDefault("VERIFIED_LOG", "archive/verified_sessions.log"), "Append-only log of session IDs already verified")
	workers := flag.Int("workers", getEnvIntOrDefault("WORKERS", runtime.NumCPU()), "Number of concurrent verification workers")
	flushSessions := flag.Int("flush-sessions", getEnvIntOrDefault("FLUSH_SESSIONS", 1000), "Flush when buffered verdicts reach this count")
	flushEvery := flag.Duration("flush-every", getEnvDurationOrDefault("FLUSH_EVERY", time.Minute), "Flush at this interval regardless of buffered count")
	verbose := flag.Bool("v", getEnvBoolOrDefault("VERBOSE", false), "Log every session verdict")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(logging.NewPrettyJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *inDir == "" && *feedURL == "" {
		logger.Error("nothing to do: set -in-dir and/or -feed-url")
		os.Exit(2)
	}

	verified, err := store.OpenVerifiedLog(*logPath)
	if err != nil {
		logger.Error("open verified log", "error", err)
		os.Exit(1)
	}
	defer verified.Close()

	logger.Info("starting verifier",
		"in_dir", *inDir,
		"feed_url", *feedURL,
		"out_dir", *outDir,
		"workers", *workers,
		"already_verified", verified.Count(),
		"already_rejected", verified.CountRejected(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := make(chan *game.Session, 256)
	var producers sync.WaitGroup

	if *inDir != "" {
		producers.Add(1)
		go func() {
			defer producers.Done()
			loadSessionDir(ctx, logger, *inDir, verified, sessions)
		}()
	}

	if *feedURL != "" {
		cfg := collector.DefaultConfig()
		cfg.FeedURL = *feedURL
		coll := collector.New(cfg, verified.SnapshotBoolMap())

		feed := make(chan *game.Session, 256)
		producers.Add(1)
		go func() {
			defer producers.Done()
			if err := coll.Run(ctx, feed); err != nil {
				logger.Error("session feed", "error", err)
			}
			st := coll.Stats()
			logger.Info("feed closed",
				"received", st.SessionsReceived,
				"skipped", st.SessionsSkipped,
				"decode_failures", st.DecodeFailures,
			)
		}()
		producers.Add(1)
		go func() {
			defer producers.Done()
			progress := time.NewTicker(30 * time.Second)
			defer progress.Stop()
			for {
				select {
				case s, ok := <-feed:
					if !ok {
						return
					}
					select {
					case sessions <- s:
					case <-ctx.Done():
						return
					}
				case <-progress.C:
					st := coll.Stats()
					logger.Info("feed progress",
						"received", st.SessionsReceived,
						"skipped", st.SessionsSkipped,
						"decode_failures", st.DecodeFailures,
					)
				}
			}
		}()
	}

	go func() {
		producers.Wait()
		close(sessions)
	}()

	verdicts := make(chan store.VerificationRow, 256)

	var workersWG sync.WaitGroup
	for i := 0; i < *workers; i++ {
		workersWG.Add(1)
		go func() {
			defer workersWG.Done()
			for s := range sessions {
				res := verify.VerifySession(s)
				if res.Valid {
					logger.Debug("session valid", "session", s.ID, "score", s.Claim.Score)
				} else {
					logger.Debug("session rejected", "session", s.ID, "kind", res.ErrorKind, "error", fmt.Sprint(res.Err))
				}
				verdicts <- store.RowFromResult(s, res)
			}
		}()
	}
	go func() {
		workersWG.Wait()
		close(verdicts)
	}()

	flushTicker := time.NewTicker(*flushEvery)
	defer flushTicker.Stop()

	// Verdict rows stream straight into the current batch file; Finalize
	// publishes it and a fresh writer starts the next batch.
	writer, err := store.NewBatchWriter(*outDir)
	if err != nil {
		logger.Error("open batch writer", "error", err)
		os.Exit(1)
	}

	logBuf := make([]store.SessionVerdict, 0, 1024)

	var total, valid, rejected, batches int

	flush := func(reason string) {
		if writer.BufferedRows() == 0 {
			return
		}
		outPath, rows, err := writer.Finalize()
		if err != nil {
			logger.Error("flush failed", "reason", reason, "error", err)
		} else {
			if err := verified.AddMany(logBuf); err != nil {
				// Parquet is already written; not fatal, just re-verified next run.
				logger.Warn("verified log append failed", "error", err)
			}
			batches++
			logger.Info("flushed batch", "reason", reason, "rows", rows, "path", outPath)
		}
		logBuf = logBuf[:0]
		if writer, err = store.NewBatchWriter(*outDir); err != nil {
			logger.Error("open batch writer", "error", err)
			os.Exit(1)
		}
	}

	for {
		select {
		case <-flushTicker.C:
			flush("ticker")
		case row, ok := <-verdicts:
			if !ok {
				flush("final")
				// Discard the empty batch opened by the last flush.
				if _, _, err := writer.Finalize(); err != nil {
					logger.Warn("close batch writer", "error", err)
				}
				logger.Info("verification complete",
					"sessions", total,
					"valid", valid,
					"rejected", rejected,
					"batches", batches,
				)
				return
			}
			if err := writer.WriteRows([]store.VerificationRow{row}); err != nil {
				logger.Error("buffer verdict", "session", row.SessionID, "error", err)
			} else {
				logBuf = append(logBuf, store.SessionVerdict{ID: row.SessionID, Kind: row.ErrorKind})
			}
			total++
			if row.Valid {
				valid++
			} else {
				rejected++
			}
			if writer.BufferedRows() >= *flushSessions {
				flush("count")
			}
		}
	}
}

// loadSessionDir feeds every unverified session .json file under dir.
func loadSessionDir(ctx context.Context, logger *slog.Logger, dir string, verified *store.VerifiedLog, out chan<- *game.Session) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error("read session dir", "dir", dir, "error", err)
		return
	}

	var loaded, skipped, failed int
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			failed++
			logger.Warn("read session file", "path", path, "error", err)
			continue
		}

		var s game.Session
		if err := json.Unmarshal(data, &s); err != nil {
			failed++
			logger.Warn("parse session file", "path", path, "error", err)
			continue
		}
		if s.ID == "" {
			s.ID = strings.TrimSuffix(e.Name(), ".json")
		}
		if s.Source == "" {
			s.Source = "file"
		}

		if verified.Has(s.ID) {
			skipped++
			continue
		}

		select {
		case out <- &s:
			loaded++
		case <-ctx.Done():
			return
		}
	}

	logger.Info("session dir loaded", "dir", dir, "loaded", loaded, "skipped", skipped, "failed", failed)
}

// Environment variable helpers
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
