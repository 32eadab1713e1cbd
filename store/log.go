package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SessionVerdict is one verified session as recorded in the log: the
// session ID plus the error kind it was rejected with. Kind is empty for
// valid sessions.
type SessionVerdict struct {
	ID   string
	Kind string
}

// VerifiedLog tracks which sessions have already been verified and
// archived, backed by an append-only file with one verdict per line:
// the session ID, then the rejection kind for rejected sessions.
//
// On startup the file is read into memory for fast dedupe; on success the
// verdict is appended and fsynced. Partial final lines from a crash are
// ignored on the next load. This is a dedupe list, not a WAL.
type VerifiedLog struct {
	mu       sync.RWMutex
	path     string
	file     *os.File
	verified map[string]string
}

func OpenVerifiedLog(path string) (*VerifiedLog, error) {
	if path == "" {
		return nil, fmt.Errorf("log path is required")
	}

	verified := make(map[string]string)

	// Best-effort load of existing verdicts.
	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			kind := ""
			if len(fields) > 1 {
				kind = fields[1]
			}
			verified[fields[0]] = kind
		}
		_ = f.Close()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &VerifiedLog{
		path:     path,
		file:     file,
		verified: verified,
	}, nil
}

func (l *VerifiedLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *VerifiedLog) Has(sessionID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.verified[sessionID]
	return ok
}

// KindOf returns the recorded rejection kind for a session. The kind is
// empty both for valid sessions and for unknown IDs; use Has to tell
// those apart.
func (l *VerifiedLog) KindOf(sessionID string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verified[sessionID]
}

func (l *VerifiedLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.verified)
}

// CountRejected returns how many logged sessions carry a rejection kind.
func (l *VerifiedLog) CountRejected() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, kind := range l.verified {
		if kind != "" {
			n++
		}
	}
	return n
}

// SnapshotBoolMap returns a copy of the verified ID set, for callers that
// dedupe without holding the log open.
func (l *VerifiedLog) SnapshotBoolMap() map[string]bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m := make(map[string]bool, len(l.verified))
	for id := range l.verified {
		m[id] = true
	}
	return m
}

func (l *VerifiedLog) Add(v SessionVerdict) error {
	if v.ID == "" {
		return fmt.Errorf("session ID is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.verified[v.ID]; ok {
		return nil
	}
	if l.file == nil {
		return fmt.Errorf("log file is closed")
	}

	if _, err := l.file.WriteString(formatLine(v)); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}

	l.verified[v.ID] = v.Kind
	return nil
}

// AddMany appends multiple verdicts and syncs once. Sessions already in
// the log are ignored.
func (l *VerifiedLog) AddMany(verdicts []SessionVerdict) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("log file is closed")
	}

	added := 0
	for _, v := range verdicts {
		if v.ID == "" {
			continue
		}
		if _, ok := l.verified[v.ID]; ok {
			continue
		}
		if _, err := l.file.WriteString(formatLine(v)); err != nil {
			return fmt.Errorf("append log: %w", err)
		}
		l.verified[v.ID] = v.Kind
		added++
	}

	if added == 0 {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}
	return nil
}

func formatLine(v SessionVerdict) string {
	if v.Kind == "" {
		return v.ID + "\n"
	}
	return v.ID + " " + v.Kind + "\n"
}
