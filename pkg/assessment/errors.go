package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete is matched by the ValidationError returned when scoring or
	// submitting a response set that still has unanswered questions.
	ErrIncomplete = errors.New("incomplete assessment")
	// ErrAlreadySubmitted is matched when a submitted response set is reused.
	ErrAlreadySubmitted = errors.New("assessment already submitted")
)

// ValidationError reports bad caller input: an out-of-range rating or
// question index, or an attempt to score an incomplete response set.
// It is always recoverable by re-prompting the user.
type ValidationError struct {
	Field   string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.err }

func validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func incompleteError() *ValidationError {
	return &ValidationError{Message: ErrIncomplete.Error(), err: ErrIncomplete}
}

func alreadySubmittedError() *ValidationError {
	return &ValidationError{Message: ErrAlreadySubmitted.Error(), err: ErrAlreadySubmitted}
}

// InvariantViolation reports a malformed questionnaire definition. It is a
// configuration error and should stop startup.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string {
	return "invalid questionnaire: " + e.Message
}

func invariantf(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Message: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failure of the backend collaborator. The response
// set that was being submitted is left intact for another attempt.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
