package staging

import (
	"errors"
	"fmt"
)

// Constraint rule names surfaced to callers.
const (
	RuleLengthMismatch = "length-mismatch"
	RuleBatchTooLarge  = "batch-too-large"
)

// Field failure reasons.
const (
	ReasonRequired       = "required"
	ReasonOutOfRange     = "out-of-range"
	ReasonMustBePositive = "must-be-positive"
	ReasonInvalidAddress = "invalid-address"
)

// ErrUpstreamUnavailable is returned when a ledger RPC dependency fails.
// Recoverable; the caller may retry.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field %q %s", e.Field, e.Reason)
}

// ConstraintViolation reports a violated batch or structural rule.
type ConstraintViolation struct {
	Rule string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violated: %s", e.Rule)
}

// missingField builds the ValidationError for an absent required field.
func missingField(field string) error {
	return &ValidationError{Field: field, Reason: ReasonRequired}
}
