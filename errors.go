package lumina

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the gallery packages.
var (
	// ErrNoImageData is returned when a synthesis response has no inline image.
	ErrNoImageData = errors.New("no image data found in response")

	// ErrEmptyPrompt is returned when a generation prompt is blank.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrInvalidDataURI is returned when a data URI is not base64 encoded.
	ErrInvalidDataURI = errors.New("invalid data uri")

	// ErrNotFound is returned when an artwork id is unknown.
	ErrNotFound = errors.New("artwork not found")

	// ErrDuplicateArtwork is returned when an artwork id is already stored.
	ErrDuplicateArtwork = errors.New("artwork already exists")

	// ErrBusy is returned when a generation is already in flight.
	ErrBusy = errors.New("generation already in progress")

	// ErrNoPreview is returned when saving or downloading without a preview.
	ErrNoPreview = errors.New("no preview to save")
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates a temporary failure such as a rate limit or server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates a failure that will not resolve on its own,
	// such as an invalid API key or unknown model.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the request itself must be corrected.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that reports how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	StatusCode() int // HTTP status code if applicable, 0 otherwise
}

// Error is a categorized error with metadata for handling decisions.
type Error struct {
	Msg   string
	Cat   ErrorCategory
	Code  int   // HTTP status code, 0 if not applicable
	Cause error // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// NewTransientError creates an error for a temporary failure.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, Cause: cause}
}

// NewPermanentError creates an error that will not resolve on its own.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// NewUserInputError creates an error indicating invalid user input.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, Code: statusCode, Cause: cause}
}

// CategorizeStatusCode maps an upstream HTTP status code to an error category.
func CategorizeStatusCode(code int) ErrorCategory {
	switch {
	case code == 429:
		return ErrorTransient
	case code >= 500 && code < 600:
		return ErrorTransient
	case code == 401 || code == 403:
		return ErrorPermanent
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// WrapStatusError wraps an upstream error with the category for its status code.
func WrapStatusError(code int, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch CategorizeStatusCode(code) {
	case ErrorTransient:
		return NewTransientError(msg, code, err)
	case ErrorUserInput:
		return NewUserInputError(msg, code, err)
	default:
		return NewPermanentError(msg, code, err)
	}
}

// IsTransient returns true if err or any wrapped error is categorized as transient.
func IsTransient(err error) bool {
	return categoryOf(err) == ErrorTransient
}

// IsPermanent returns true if err or any wrapped error is categorized as permanent.
func IsPermanent(err error) bool {
	return categoryOf(err) == ErrorPermanent
}

// IsUserInput returns true if err or any wrapped error is categorized as user input.
func IsUserInput(err error) bool {
	return categoryOf(err) == ErrorUserInput
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

func categoryOf(err error) ErrorCategory {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category()
	}
	return ""
}

// ImageError represents a failure while fetching or decoding an image.
type ImageError struct {
	Op  string // "fetch", "decode", or "read"
	URL string // the image URL, or "data-uri"
	Err error  // underlying error
}

// Error returns a formatted error message describing the image failure.
func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s error for %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ImageError) Unwrap() error {
	return e.Err
}
