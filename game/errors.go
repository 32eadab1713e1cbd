package game

import "errors"

// VerificationError is the discriminated error set for a verification run.
// String values double as the error-kind codes recorded in the archive, so
// they must stay stable.
type VerificationError string

const (
	// ErrWallCollision indicates a move took the head outside the grid.
	ErrWallCollision VerificationError = "wall_collision"

	// ErrSelfCollision indicates the head entered an occupied body cell.
	// Moving into the cell the tail vacates on the same tick is legal and
	// does not raise this.
	ErrSelfCollision VerificationError = "self_collision"

	// ErrIllegalReversal indicates a move back into the second segment,
	// reversing the direction of travel.
	ErrIllegalReversal VerificationError = "illegal_reversal"

	// ErrScoreMismatch indicates the claimed score does not equal the
	// replayed score.
	ErrScoreMismatch VerificationError = "score_mismatch"

	// ErrLengthMismatch indicates the claimed final length does not equal
	// the replayed length.
	ErrLengthMismatch VerificationError = "length_mismatch"

	// ErrHashMismatch indicates the claimed final-state hash does not match
	// the hash of the replayed final state.
	ErrHashMismatch VerificationError = "hash_mismatch"

	// ErrInvalidClaim indicates malformed inputs: non-positive grid bounds,
	// a non-contiguous or overlapping initial snake, food outside the grid
	// or on the initial snake, or an out-of-range move value.
	ErrInvalidClaim VerificationError = "invalid_claim"
)

func (e VerificationError) Error() string {
	return string(e)
}

// Kind extracts the VerificationError from an error chain. It returns
// the empty string when the chain carries no verification error.
func Kind(err error) string {
	var verr VerificationError
	if errors.As(err, &verr) {
		return string(verr)
	}
	return ""
}
