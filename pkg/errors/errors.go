package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrFinalized          = New("FINALIZED", http.StatusConflict, "resource finalized")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Scheduling and grading validation errors. Callers can fix these by
// re-checking their input before submitting again.
var (
	ErrInvalidRange        = New("INVALID_RANGE", http.StatusUnprocessableEntity, "time slot end must be after start")
	ErrInvalidDay          = New("INVALID_DAY", http.StatusUnprocessableEntity, "day must be between MONDAY and SATURDAY")
	ErrTimeOverlap         = New("TIME_OVERLAP", http.StatusConflict, "time slot overlaps an existing slot of the class")
	ErrRoomConflict        = New("ROOM_CONFLICT", http.StatusConflict, "room already booked for this time")
	ErrBudgetExceeded      = New("BUDGET_EXCEEDED", http.StatusUnprocessableEntity, "weekly hour budget exceeded")
	ErrDuplicateAssignment = New("DUPLICATE_ASSIGNMENT", http.StatusConflict, "course already assigned to this class for the school year")
	ErrInvalidHours        = New("INVALID_HOURS", http.StatusUnprocessableEntity, "invalid weekly hours")
	ErrOutOfRange          = New("OUT_OF_RANGE", http.StatusUnprocessableEntity, "value out of range")
	ErrNoTimeSlots         = New("NO_TIME_SLOTS", http.StatusUnprocessableEntity, "assignment has no time slots")
)

// ErrInvalidStateTransition signals an illegal or terminal status change.
var ErrInvalidStateTransition = New("INVALID_STATE_TRANSITION", http.StatusConflict, "invalid state transition")

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == target.Code
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
