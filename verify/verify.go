// Package verify checks claimed game outcomes against deterministic
// replays. The caller learns only pass/fail plus a diagnostic error kind;
// the witness never leaves this boundary.
package verify

import (
	"crypto/subtle"
	"fmt"

	"github.com/icryptohunter/SnakeGame-SP1/game"
	"github.com/icryptohunter/SnakeGame-SP1/replay"
)

// Check compares a replay outcome against the public claim. All checks
// must hold; the first violation is returned and near-miss values are
// never coerced. Score and length are exact matches.
func Check(claim *game.Claim, out *replay.Outcome) error {
	if out.Score != claim.Score {
		return fmt.Errorf("replayed score %d, claimed %d: %w", out.Score, claim.Score, game.ErrScoreMismatch)
	}
	if out.FinalLength != claim.FinalLength {
		return fmt.Errorf("replayed length %d, claimed %d: %w", out.FinalLength, claim.FinalLength, game.ErrLengthMismatch)
	}

	want := game.StateHash(out.Final)
	if subtle.ConstantTimeCompare(want[:], claim.FinalStateHash) != 1 {
		return fmt.Errorf("final state hash does not match commitment: %w", game.ErrHashMismatch)
	}

	if claim.Score%game.PointsPerFood != 0 {
		return fmt.Errorf("score %d is not a multiple of %d: %w", claim.Score, game.PointsPerFood, game.ErrScoreMismatch)
	}

	return nil
}

// Verify replays the witness and checks the claim against the outcome.
// nil means the claim is legitimate.
func Verify(claim *game.Claim, witness *game.Witness) error {
	out, err := replay.Run(claim, witness)
	if err != nil {
		return err
	}
	return Check(claim, out)
}

// Result is the archivable verdict for one session. Outcome is nil when
// replay itself failed.
type Result struct {
	SessionID string
	Valid     bool
	ErrorKind string
	Outcome   *replay.Outcome
	Err       error
}

// VerifySession verifies a session envelope and reduces the verdict to a
// Result. It never panics or returns an unhandled fault: a failing claim
// always comes back as Valid=false with its error kind.
func VerifySession(s *game.Session) Result {
	res := Result{SessionID: s.ID}

	out, err := replay.Run(&s.Claim, &s.Witness)
	if err != nil {
		res.Err = err
		res.ErrorKind = game.Kind(err)
		return res
	}
	res.Outcome = out

	if err := Check(&s.Claim, out); err != nil {
		res.Err = err
		res.ErrorKind = game.Kind(err)
		return res
	}

	res.Valid = true
	return res
}
