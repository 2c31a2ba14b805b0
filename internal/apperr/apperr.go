package apperr

import (
	"errors"
	"fmt"
)

// Sentinels for the two failure kinds the engine surfaces to callers.
// Handlers map them to 404 and 400 with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string        { return e.msg }
func (e *kindError) Is(target error) bool { return target == e.kind }

// NotFound reports a missing (or not owned) entity, e.g. NotFound("Goal").
func NotFound(entity string) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf("%s not found", entity)}
}

// InvalidState reports a rejected state transition with a caller-facing message.
func InvalidState(message string) error {
	return &kindError{kind: ErrInvalidState, msg: message}
}
