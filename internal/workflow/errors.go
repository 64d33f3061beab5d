// internal/workflow/errors.go
package workflow

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Typed outcomes of lifecycle operations. Every operation either commits
// fully or fails with one of these; partial state is never written.
var (
	// ErrNotFound: no entity with that id (for this kind).
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: the transition is not legal from the current status.
	// Also returned when a concurrent transition wins the race, which makes
	// retrying an already-applied decision safe.
	ErrInvalidState = errors.New("invalid state for this operation")
	// ErrForbidden: the actor's role does not permit the action.
	ErrForbidden = errors.New("role not permitted for this action")
)

// MinReasonLength is the shortest acceptable review reason. Every rejection
// must be auditable, including automatic threshold rejections.
const MinReasonLength = 10

// ThresholdError blocks an approval whose amount exceeds the admission
// threshold. It is distinct from validation failure: the request itself is
// well-formed, it just cannot be approved against current income, only
// rejected.
type ThresholdError struct {
	Requested   decimal.Decimal
	Threshold   decimal.Decimal
	IncomeTotal decimal.Decimal
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("requested amount %s exceeds approval threshold %s (total park income %s)",
		e.Requested.StringFixed(2), e.Threshold.StringFixed(2), e.IncomeTotal.StringFixed(2))
}

// AuditReason is the prefilled rejection reason for a threshold-blocked
// request, worded the way reviewers record it.
func (e *ThresholdError) AuditReason() string {
	return fmt.Sprintf("Request amount exceeds 40%% of total park income (%s USD)", e.Threshold.StringFixed(2))
}

// ValidationError covers malformed input: missing fields, non-positive
// amounts, bad enum values, invalid budget items, missing review reasons.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
