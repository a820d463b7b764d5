package service

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input. Its message is field-level and
// safe to show clients; any other error leaving a service is an internal
// failure whose detail must stay hidden at the API boundary.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
