package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Class partitions service errors by how callers are expected to react:
// validation and not-found surface as client errors, conflicts may be
// retried, integrity failures require administrative correction and are
// never repaired automatically.
type Class string

const (
	ClassValidation Class = "validation"
	ClassConflict   Class = "conflict"
	ClassIntegrity  Class = "integrity"
	ClassNotFound   Class = "not_found"
	ClassInternal   Class = "internal"
)

type Error struct {
	Class   Class
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Status maps the error class to the HTTP status the API layer reports.
func (e *Error) Status() int {
	switch e.Class {
	case ClassValidation:
		return http.StatusBadRequest
	case ClassNotFound:
		return http.StatusNotFound
	case ClassConflict:
		return http.StatusConflict
	case ClassIntegrity:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func New(class Class, code, message string) *Error {
	return &Error{Class: class, Code: code, Message: message}
}

func Wrap(class Class, code, message string, cause error) *Error {
	return &Error{Class: class, Code: code, Message: message, Cause: cause}
}

func Validation(code, message string) *Error {
	return New(ClassValidation, code, message)
}

func Conflict(code, message string, cause error) *Error {
	return Wrap(ClassConflict, code, message, cause)
}

func Integrity(code, message string) *Error {
	return New(ClassIntegrity, code, message)
}

func NotFound(code, message string) *Error {
	return New(ClassNotFound, code, message)
}

func Internal(code, message string, cause error) *Error {
	return Wrap(ClassInternal, code, message, cause)
}

// IsClass reports whether err (or anything it wraps) is a service error
// of the given class.
func IsClass(err error, class Class) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Class == class
}
