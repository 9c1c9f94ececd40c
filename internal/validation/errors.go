package validation

import (
	"errors"
	"fmt"
)

// ErrInvalid is matched by every validation failure via errors.Is.
var ErrInvalid = errors.New("validation failed")

// Error описывает ошибку валидации конкретного поля
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrInvalid) true for any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

func fieldError(field, format string, args ...any) error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}
