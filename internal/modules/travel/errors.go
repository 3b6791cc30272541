// README: Validation errors carry the user-facing message naming the violated rule.
package travel

import "errors"

// ValidationError is a recoverable user-input error. Its message names the
// specific rule that failed so the UI can show it directly.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
