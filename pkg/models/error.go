package models

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	DetailsKeyLocator   = "Locator"
	DetailsKeyPath      = "Path"
	DetailsKeyAlgorithm = "Algorithm"
	DetailsKeyExpected  = "Expected"
	DetailsKeyActual    = "Actual"
	DetailsKeyStatus    = "Status"
)

const (
	BadRequestError      ErrorCode = "BadRequest"
	InternalError        ErrorCode = "InternalError"
	NotFoundError        ErrorCode = "NotFound"
	NotImplemented       ErrorCode = "NotImplemented"
	ValidationFailed     ErrorCode = "ValidationFailed"
	ConfigurationError   ErrorCode = "ConfigurationError"
	MalformedLocator     ErrorCode = "MalformedLocator"
	NetworkFailure       ErrorCode = "NetworkFailure"
	TimeoutError         ErrorCode = "Timeout"
	DestinationError     ErrorCode = "DestinationError"
	ExtractionError      ErrorCode = "ExtractionError"
	UnsupportedAlgorithm ErrorCode = "UnsupportedAlgorithm"
	InvalidDigest        ErrorCode = "InvalidDigest"
	IntegrityError       ErrorCode = "IntegrityError"
)

type HasHint interface {
	// Hint A human-readable string that advises the user on how they might solve the error.
	Hint() string
}

type HasRetryable interface {
	// Retryable Whether the error could be retried, assuming the same input and
	// configuration; i.e. the error is transient and due to network capacity
	// or a service outage.
	//
	// Nothing in this module retries on its own. Callers that wrap a fetch in a
	// retry loop should use this to decide whether another attempt makes sense.
	Retryable() bool
}

type HasDetails interface {
	// Details An extra set of metadata provided by the error.
	Details() map[string]string
}

type HasCode interface {
	// Code a unique code identifying the kind of failure
	Code() ErrorCode
}

// BaseError is a custom error type that provides additional fields and
// methods for more detailed error handling. It implements the error
// interface, as well as additional interfaces for providing a hint,
// indicating whether the error is retryable, and for providing additional
// details. The optional cause is exposed through Unwrap so errors.Is and
// errors.As see through it.
type BaseError struct {
	message   string
	hint      string
	retryable bool
	component string
	details   map[string]string
	code      ErrorCode
	cause     error
}

// IsBaseError is a helper function that checks if an error is a BaseError.
func IsBaseError(err error) bool {
	var baseError *BaseError
	ok := errors.As(err, &baseError)
	return ok
}

// NewBaseError is a constructor function that creates a new BaseError with
// only the message field set.
func NewBaseError(format string, a ...any) *BaseError {
	return &BaseError{
		component: "Cortex",
		message:   fmt.Sprintf(format, a...),
	}
}

// WithHint is a method that sets the hint field of BaseError and returns
// the BaseError itself for chaining.
func (e *BaseError) WithHint(hint string) *BaseError {
	e.hint = hint
	return e
}

// WithRetryable is a method that sets the retryable field of BaseError and
// returns the BaseError itself for chaining.
func (e *BaseError) WithRetryable() *BaseError {
	e.retryable = true
	return e
}

// WithDetails is a method that sets the details field of BaseError and
// returns the BaseError itself for chaining.
func (e *BaseError) WithDetails(details map[string]string) *BaseError {
	e.details = details
	return e
}

// WithDetail adds a single key to the details of the BaseError.
func (e *BaseError) WithDetail(key, value string) *BaseError {
	if e.details == nil {
		e.details = make(map[string]string)
	}
	e.details[key] = value
	return e
}

// WithCode is a method that sets the code field of BaseError and
// returns the BaseError itself for chaining
func (e *BaseError) WithCode(code ErrorCode) *BaseError {
	e.code = code
	return e
}

// WithComponent is a method that sets the component field of BaseError and
// returns the BaseError itself for chaining. This method allows specifying
// which component of the system generated the error, providing more context
// for debugging and error handling.
func (e *BaseError) WithComponent(component string) *BaseError {
	e.component = component
	return e
}

// WithCause records the underlying error.
func (e *BaseError) WithCause(err error) *BaseError {
	e.cause = err
	return e
}

// Error is a method that returns the message field of BaseError, followed by
// the cause when one is set.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the cause of the error, if any.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Hint is a method that returns the hint field of BaseError.
func (e *BaseError) Hint() string {
	return e.hint
}

// Retryable is a method that returns the retryable field of BaseError.
func (e *BaseError) Retryable() bool {
	return e.retryable
}

// Details is a method that returns the details field of BaseError.
func (e *BaseError) Details() map[string]string {
	return e.details
}

// Code returns a unique code to identify the error
func (e *BaseError) Code() ErrorCode {
	return e.code
}

// Component is a method that returns the component field of BaseError.
func (e *BaseError) Component() string {
	return e.component
}

// IsErrorWithCode reports whether the outermost BaseError in err's chain
// carries the given code.
func IsErrorWithCode(err error, code ErrorCode) bool {
	var baseErr *BaseError
	if errors.As(err, &baseErr) {
		errCode := baseErr.Code()
		if errCode == code {
			return true
		}
	}
	return false
}

// ErrorCodeOf returns the code of the outermost BaseError in err's chain, or
// an empty code if there is none.
func ErrorCodeOf(err error) ErrorCode {
	var baseErr *BaseError
	if errors.As(err, &baseErr) {
		return baseErr.Code()
	}
	return ""
}
