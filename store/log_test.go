package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVerifiedLog_AddHasCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verified.log")

	l, err := OpenVerifiedLog(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	if l.Has("a") || l.Count() != 0 {
		t.Fatalf("fresh log should be empty")
	}

	if err := l.Add(SessionVerdict{ID: "a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Duplicate adds are no-ops.
	if err := l.Add(SessionVerdict{ID: "a", Kind: "wall_collision"}); err != nil {
		t.Fatalf("dup add: %v", err)
	}

	if !l.Has("a") || l.Count() != 1 {
		t.Fatalf("has=%v count=%d want true, 1", l.Has("a"), l.Count())
	}
	// The first verdict wins; the session stays recorded as valid.
	if kind := l.KindOf("a"); kind != "" {
		t.Fatalf("kind=%q want empty", kind)
	}
}

func TestVerifiedLog_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verified.log")

	l, err := OpenVerifiedLog(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	verdicts := []SessionVerdict{
		{ID: "s1"},
		{ID: "s2", Kind: "hash_mismatch"},
		{ID: ""},
		{ID: "s1"},
	}
	if err := l.AddMany(verdicts); err != nil {
		t.Fatalf("add many: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenVerifiedLog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if reopened.Count() != 2 {
		t.Fatalf("count=%d want=2", reopened.Count())
	}
	if !reopened.Has("s1") || !reopened.Has("s2") {
		t.Fatalf("IDs lost across reopen")
	}
	if kind := reopened.KindOf("s2"); kind != "hash_mismatch" {
		t.Fatalf("kind=%q want hash_mismatch", kind)
	}
	if reopened.CountRejected() != 1 {
		t.Fatalf("rejected=%d want=1", reopened.CountRejected())
	}

	m := reopened.SnapshotBoolMap()
	if len(m) != 2 || !m["s1"] || !m["s2"] {
		t.Fatalf("snapshot=%v want s1,s2", m)
	}
}

func TestVerifiedLog_IgnoresPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verified.log")
	if err := os.WriteFile(path, []byte("s1\ns2 self_collision\n\n   \n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	l, err := OpenVerifiedLog(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	if l.Count() != 2 {
		t.Fatalf("count=%d want=2 (blank lines skipped)", l.Count())
	}
	if kind := l.KindOf("s2"); kind != "self_collision" {
		t.Fatalf("kind=%q want self_collision", kind)
	}
}

func TestVerifiedLog_ClosedWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verified.log")

	l, err := OpenVerifiedLog(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Double close is fine.
	if err := l.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	if err := l.Add(SessionVerdict{ID: "late"}); err == nil {
		t.Fatalf("expected error adding to closed log")
	}
}
