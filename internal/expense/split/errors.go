package split

import "errors"

// ValidationError is returned when an expense input cannot be split.
// Code is stable and safe to hand to API clients.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// AsValidationError unwraps err to a *ValidationError if it carries one
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	ErrInvalidAmount   = newValidationError("INVALID_AMOUNT", "amount must be a positive number")
	ErrNoMembers       = newValidationError("NO_MEMBERS", "at least one member is required")
	ErrDuplicateMember = newValidationError("DUPLICATE_MEMBER", "member listed more than once")
	ErrUnknownMember   = newValidationError("UNKNOWN_MEMBER", "member does not belong to the group")
	ErrPayerNotMember  = newValidationError("INVALID_PAYER", "payer must be a member of the group")
	ErrNegativeValue   = newValidationError("NEGATIVE_VALUE", "split values cannot be negative")
	ErrSplitMismatch   = newValidationError("SPLIT_MISMATCH", "split mismatch")
	ErrUnknownPolicy   = newValidationError("UNKNOWN_POLICY", "unknown split type")
)
