package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownRating indicates an unrecognised outcome rating value.
	ErrUnknownRating = errors.New("unknown rating")

	// ErrNoPendingDecision indicates approve/reject targeted a decision
	// identifier that is not currently pending.
	ErrNoPendingDecision = errors.New("no such pending decision")

	// ErrApprovalQueueFull indicates a decision required approval while the
	// pending slots were already occupied. The new decision is rejected
	// rather than silently replacing an existing pending one.
	ErrApprovalQueueFull = errors.New("approval queue full")

	// ErrGeneratorUnavailable indicates no answer generator is configured.
	// Decisions degrade to the deterministic evidence-only fallback.
	ErrGeneratorUnavailable = errors.New("answer generator unavailable")

	// ErrReviewerUnavailable indicates no answer reviewer is configured.
	// Review output is advisory, so decisions proceed without it.
	ErrReviewerUnavailable = errors.New("answer reviewer unavailable")
)
