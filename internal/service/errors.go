package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and repositories. Repositories map
// driver-level "no rows" results onto ErrNotFound so callers never see
// sql.ErrNoRows, and duplicate-key failures onto ErrDuplicate.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// ValidationError reports malformed or inconsistent input. No side effect
// has been performed when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
