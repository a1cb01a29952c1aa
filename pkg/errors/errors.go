package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used in the HTTP error envelope
const (
	CodeValidation    = "validation_error"
	CodeNotFound      = "not_found"
	CodeAlreadyExists = "already_exists"
	CodeUpload        = "upload_error"
	CodeInternal      = "internal_error"
)

// ValidationError represents a rejected write: a missing required field or
// a constraint the database refused.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// WrapValidationError creates a validation error that carries the raw
// underlying error text as its message.
func WrapValidationError(err error) *ValidationError {
	return &ValidationError{
		Message: err.Error(),
		Err:     err,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns the envelope code for this error
func (e *ValidationError) Code() string {
	return CodeValidation
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// Code returns the envelope code for this error
func (e *NotFoundError) Code() string {
	return CodeNotFound
}

// AlreadyExistsError represents a resource already exists error.
// Registration conflicts are reported as 400, matching the public contract.
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns the envelope code for this error
func (e *AlreadyExistsError) Code() string {
	return CodeAlreadyExists
}

// UploadError represents a failure to read or store an uploaded file
type UploadError struct {
	Message string
	Err     error
}

// NewUploadError creates a new upload error
func NewUploadError(message string, err error) *UploadError {
	return &UploadError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *UploadError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *UploadError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns the envelope code for this error
func (e *UploadError) Code() string {
	return CodeUpload
}

// InternalError represents an internal server error with context.
// The wrapped error text is part of Error() so callers see the raw diagnostic.
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// Code returns the envelope code for this error
func (e *InternalError) Code() string {
	return CodeInternal
}

// HTTPError is implemented by every error that knows its HTTP status
type HTTPError interface {
	error
	HTTPStatus() int
	Code() string
}

// StatusOf returns the HTTP status, envelope code and message for err.
// Errors that do not implement HTTPError map to 500.
func StatusOf(err error) (int, string, string) {
	var he HTTPError
	if errors.As(err, &he) {
		return he.HTTPStatus(), he.Code(), he.Error()
	}
	return http.StatusInternalServerError, CodeInternal, err.Error()
}
