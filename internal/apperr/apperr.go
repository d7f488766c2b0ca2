package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for logging, metrics and the HTTP status mapping.
type Kind string

const (
	KindNone          Kind = "ok"
	KindLoad          Kind = "load_error"
	KindValidation    Kind = "validation_error"
	KindInference     Kind = "inference_error"
	KindConfiguration Kind = "configuration_error"
	KindUnavailable   Kind = "unavailable"
	KindInternal      Kind = "internal_error"
)

// ErrUnavailable is returned for every prediction while no model is loaded.
var ErrUnavailable = errors.New("model not available")

// Error is a classified failure. Op names the step that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Load marks an artifact that is missing or cannot be deserialized.
func Load(op string, err error) error {
	return newError(KindLoad, op, err)
}

// Configuration marks an artifact whose content is unusable, such as an empty feature schema.
func Configuration(op string, err error) error {
	return newError(KindConfiguration, op, err)
}

// Inference marks a failed estimator call. The original message is kept.
func Inference(op string, err error) error {
	return newError(KindInference, op, err)
}

// Validation marks a malformed or incomplete request.
func Validation(op string, err error) error {
	return newError(KindValidation, op, err)
}

// Validationf builds a validation error from a format string.
func Validationf(format string, args ...interface{}) error {
	return newError(KindValidation, "", fmt.Errorf(format, args...))
}

// KindOf reports the classification of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrUnavailable) {
		return KindUnavailable
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
