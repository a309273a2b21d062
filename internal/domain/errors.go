package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ValidationError bloquea una transición y se muestra inline al usuario.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingPrerequisiteError indica que se pidió un paso sin los datos previos.
// Redirect es el paso más cercano que puede proveerlos.
type MissingPrerequisiteError struct {
	Step     Step
	Missing  string
	Redirect Step
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("step %s requires %s", e.Step, e.Missing)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsMissingPrerequisite(err error) bool {
	var mp *MissingPrerequisiteError
	return errors.As(err, &mp)
}
