package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the requested state transition is not allowed
// (e.g. approving an invoice that is not a draft).
var ErrConflict = errors.New("conflicting state")

// ErrInternal indicates an infrastructure failure (connection loss, constraint
// violation, ...). Unlike validation errors, callers may retry these with the
// same entry id; the duplicate-id check makes the retry safe.
var ErrInternal = errors.New("internal error")
