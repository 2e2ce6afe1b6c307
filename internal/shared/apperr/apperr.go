package apperr

import "errors"

// Error classes shared across features. Services wrap these via Wrap so
// handlers can map any error to a response with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrExtraction       = errors.New("text extraction failed")
)

type classified struct {
	class error
	msg   string
}

func (e *classified) Error() string { return e.msg }

func (e *classified) Unwrap() error { return e.class }

// Wrap attaches an error class to a caller-facing message.
func Wrap(class error, msg string) error {
	if msg == "" {
		return class
	}
	return &classified{class: class, msg: msg}
}
