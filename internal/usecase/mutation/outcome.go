package mutation

import (
	"errors"

	"listkeeper/internal/domain/entity"
)

// Outcome is the tagged result of a mutation, derived from its error.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeAlreadyInFlight  Outcome = "already_in_flight"
	OutcomeRemoteFailed     Outcome = "remote_failed"
	OutcomeUnauthorized     Outcome = "unauthorized"
	OutcomeNotFound         Outcome = "not_found"
	// OutcomeStaleSnapshot means the mutation went through but the reload did not.
	OutcomeStaleSnapshot Outcome = "stale_snapshot"
)

// Classify maps an error returned by the Coordinator onto an Outcome.
// Unknown errors count as remote failures.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, entity.ErrStaleSnapshot):
		return OutcomeStaleSnapshot
	case errors.Is(err, entity.ErrValidationFailed):
		return OutcomeValidationFailed
	case errors.Is(err, entity.ErrAlreadyInFlight):
		return OutcomeAlreadyInFlight
	case errors.Is(err, entity.ErrUnauthorized):
		return OutcomeUnauthorized
	case errors.Is(err, entity.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeRemoteFailed
	}
}

// Succeeded reports whether the remote change was applied, even if the reload failed.
func (o Outcome) Succeeded() bool {
	return o == OutcomeOK || o == OutcomeStaleSnapshot
}
