package query

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery matches every query validation failure.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnsupported matches unknown filter operators and export formats.
	ErrUnsupported = errors.New("unsupported operation")
)

// InvalidQueryError describes malformed or disallowed query input. Callers map it to
// a 400-class response.
type InvalidQueryError struct {
	Param       string
	Message     string
	Unsupported bool
}

// Error implements the error interface
func (e *InvalidQueryError) Error() string {
	if e.Param == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Param, e.Message)
}

// Is lets errors.Is match the package sentinels.
func (e *InvalidQueryError) Is(target error) bool {
	switch target {
	case ErrInvalidQuery:
		return true
	case ErrUnsupported:
		return e.Unsupported
	}
	return false
}

func invalidf(param, format string, args ...any) error {
	return &InvalidQueryError{Param: param, Message: fmt.Sprintf(format, args...)}
}

func unsupportedf(param, format string, args ...any) error {
	return &InvalidQueryError{Param: param, Message: fmt.Sprintf(format, args...), Unsupported: true}
}
