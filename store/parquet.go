package store

import (
	"encoding/hex"
	"time"

	"github.com/icryptohunter/SnakeGame-SP1/game"
	"github.com/icryptohunter/SnakeGame-SP1/verify"
)

// VerificationRow is a single archived verdict.
//
// One row per session. Replayed fields are -1 when replay itself failed
// before producing an outcome. ErrorKind holds the stable error code for
// rejections and is empty for valid sessions.
type VerificationRow struct {
	SessionID string `parquet:"session_id,dict"`
	Source    string `parquet:"source,dict"`

	Width  int32 `parquet:"width"`
	Height int32 `parquet:"height"`
	Moves  int32 `parquet:"moves"`

	ClaimedScore  int32 `parquet:"claimed_score"`
	ClaimedLength int32 `parquet:"claimed_length"`

	ReplayedScore  int32 `parquet:"replayed_score"`
	ReplayedLength int32 `parquet:"replayed_length"`
	FoodsEaten     int32 `parquet:"foods_eaten"`

	Valid     bool   `parquet:"valid"`
	ErrorKind string `parquet:"error_kind,dict"`

	// FinalStateHash is the claimed commitment, hex-encoded.
	FinalStateHash string `parquet:"final_state_hash"`

	VerifiedAtMs int64 `parquet:"verified_at_ms"`
}

const schemaName = "verification_row_v1"

// RowFromResult flattens a session verdict into its archive row.
func RowFromResult(s *game.Session, res verify.Result) VerificationRow {
	row := VerificationRow{
		SessionID:      s.ID,
		Source:         s.Source,
		Width:          s.Claim.Width,
		Height:         s.Claim.Height,
		Moves:          int32(len(s.Witness.Moves)),
		ClaimedScore:   s.Claim.Score,
		ClaimedLength:  s.Claim.FinalLength,
		ReplayedScore:  -1,
		ReplayedLength: -1,
		FoodsEaten:     -1,
		Valid:          res.Valid,
		ErrorKind:      res.ErrorKind,
		FinalStateHash: hex.EncodeToString(s.Claim.FinalStateHash),
		VerifiedAtMs:   time.Now().UnixMilli(),
	}
	if res.Outcome != nil {
		row.ReplayedScore = res.Outcome.Score
		row.ReplayedLength = res.Outcome.FinalLength
		row.FoodsEaten = res.Outcome.FoodsEaten
	}
	return row
}
