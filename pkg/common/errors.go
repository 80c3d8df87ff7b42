package common

import "errors"

// The three failure kinds surfaced by this module. Wrap them with
// fmt.Errorf("...: %w", ...) so callers can classify with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrOverflow    = errors.New("overflow")
	ErrUnsupported = errors.New("unsupported")
)

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsOverflow(err error) bool {
	return errors.Is(err, ErrOverflow)
}

func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
