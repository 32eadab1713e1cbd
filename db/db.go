// Package db answers summary queries over the parquet verification
// archive using an in-memory DuckDB view.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Archive is a read-only view over one or more archive roots.
type Archive struct {
	db *sql.DB
}

// Open builds a DuckDB view named "verdicts" over every parquet batch
// under the given roots. Glob patterns are handed to DuckDB directly,
// which is much faster than enumerating files; tmp/ staging dirs are
// excluded so half-written batches are never read.
func Open(roots []string) (*Archive, error) {
	conn, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// Basic pragmas; ignore errors for compatibility across versions.
	_, _ = conn.Exec("PRAGMA threads=4")

	globs := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		glob := filepath.Join(root, "**", "*.parquet")
		globs = append(globs, "'"+escapeSQLString(glob)+"'")
	}

	if len(globs) == 0 {
		_ = conn.Close()
		return nil, fmt.Errorf("no archive roots given")
	}

	sqlText := `CREATE OR REPLACE VIEW verdicts AS
		SELECT * FROM read_parquet([` + strings.Join(globs, ",") + `], filename=true, union_by_name=true)
		WHERE NOT contains(filename, '/tmp/')`
	if _, err := conn.Exec(sqlText); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create verdicts view: %w", err)
	}

	return &Archive{db: conn}, nil
}

func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Stats is the top-level archive summary.
type Stats struct {
	Total    int64
	Valid    int64
	Rejected int64
}

func (a *Archive) Summary(ctx context.Context) (Stats, error) {
	var s Stats
	row := a.db.QueryRowContext(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE valid),
		       count(*) FILTER (WHERE NOT valid)
		FROM verdicts`)
	if err := row.Scan(&s.Total, &s.Valid, &s.Rejected); err != nil {
		return Stats{}, fmt.Errorf("summary query: %w", err)
	}
	return s, nil
}

// KindCount is a rejection count for one error kind.
type KindCount struct {
	Kind  string
	Count int64
}

// RejectionsByKind returns rejection counts grouped by error kind, most
// frequent first.
func (a *Archive) RejectionsByKind(ctx context.Context) ([]KindCount, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT error_kind, count(*) AS n
		FROM verdicts
		WHERE NOT valid
		GROUP BY error_kind
		ORDER BY n DESC, error_kind`)
	if err != nil {
		return nil, fmt.Errorf("rejections query: %w", err)
	}
	defer rows.Close()

	var out []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, err
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}

// Rejection is one rejected session, for spot inspection.
type Rejection struct {
	SessionID     string
	Source        string
	ErrorKind     string
	ClaimedScore  int32
	ReplayedScore int32
	VerifiedAtMs  int64
}

// RecentRejections returns the n most recently verified rejections.
func (a *Archive) RecentRejections(ctx context.Context, n int) ([]Rejection, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT session_id, source, error_kind, claimed_score, replayed_score, verified_at_ms
		FROM verdicts
		WHERE NOT valid
		ORDER BY verified_at_ms DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("recent rejections query: %w", err)
	}
	defer rows.Close()

	var out []Rejection
	for rows.Next() {
		var r Rejection
		if err := rows.Scan(&r.SessionID, &r.Source, &r.ErrorKind, &r.ClaimedScore, &r.ReplayedScore, &r.VerifiedAtMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
