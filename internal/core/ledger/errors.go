package ledger

import "errors"

// Validation errors returned by Validate and Post. All are caller errors:
// they are detected before any state mutation and are not retriable without
// fixing the input.
var (
	ErrMissingField     = errors.New("required entry field is missing")
	ErrTooFewLines      = errors.New("entry must have at least 2 lines")
	ErrUnknownAccount   = errors.New("line references unknown account")
	ErrTenantMismatch   = errors.New("line account belongs to a different tenant")
	ErrInvalidAmount    = errors.New("amount must be a non-negative integer number of cents")
	ErrAmbiguousLine    = errors.New("line must have exactly one of debit or credit > 0")
	ErrUnbalancedEntry  = errors.New("entry is unbalanced")
	ErrDuplicateEntryID = errors.New("entry id already exists")
)

var validationErrors = []error{
	ErrMissingField,
	ErrTooFewLines,
	ErrUnknownAccount,
	ErrTenantMismatch,
	ErrInvalidAmount,
	ErrAmbiguousLine,
	ErrUnbalancedEntry,
	ErrDuplicateEntryID,
}

// IsValidationError reports whether err is (or wraps) one of the ledger
// validation errors, as opposed to an infrastructure failure.
func IsValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
