package services

import "errors"

// Error taxonomy surfaced by the service layer. Handlers map these to HTTP
// status codes with errors.Is; anything unmatched is an internal error.
var (
	// ErrTeamNotFound marks an unknown team id. Detected before any
	// mutation is attempted.
	ErrTeamNotFound = errors.New("team not found")

	// ErrValidation marks malformed or out-of-range submission fields.
	// Detected before any mutation is attempted.
	ErrValidation = errors.New("invalid request")

	// ErrCommitFailed marks a write-back that failed after the in-memory
	// update succeeded. The stored state is unknown to the caller: it must
	// re-read before retrying rather than blindly resubmit.
	ErrCommitFailed = errors.New("commit failed")
)
