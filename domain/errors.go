package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeInvalid       ErrorCode = "INVALID"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeEconomicLimit ErrorCode = "ECONOMIC_LIMIT"
	ErrCodeInternal      ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound     = NewError(ErrCodeNotFound, "user not found")
	ErrActivityNotFound = NewError(ErrCodeNotFound, "activity does not exist")
	ErrTaskNotFound     = NewError(ErrCodeNotFound, "task not found")
	ErrSessionNotFound  = NewError(ErrCodeNotFound, "session not found")

	ErrAlreadyRegistered = NewError(ErrCodeConflict, "address already registered")
	ErrAlreadyMember     = NewError(ErrCodeConflict, "address is already a member")
	ErrAlreadyCompleted  = NewError(ErrCodeConflict, "task already completed")

	ErrNotRegistered    = NewError(ErrCodeForbidden, "address is not registered")
	ErrNotActivityOwner = NewError(ErrCodeForbidden, "caller is not the activity owner")
	ErrNotPermitted     = NewError(ErrCodeForbidden, "sender is not a permitted relay")
	ErrUnauthorized     = NewError(ErrCodeUnauthorized, "unauthorized")

	ErrPriceCeilingExceeded = NewError(ErrCodeEconomicLimit, "native price limit crossed for level")
	ErrInsufficientCredits  = NewError(ErrCodeEconomicLimit, "not enough credits for creating the activity")
	ErrInsufficientPayment  = NewError(ErrCodeEconomicLimit, "not enough native currency sent")
	ErrInsufficientBalance  = NewError(ErrCodeEconomicLimit, "insufficient custody balance")
	ErrInsufficientFunds    = NewError(ErrCodeEconomicLimit, "insufficient account funds")
	ErrActivityFull         = NewError(ErrCodeEconomicLimit, "activity member limit reached")

	ErrAssigneeNotMember = NewError(ErrCodeInvalid, "assignee is not an activity member")
	ErrInvalidPayload    = NewError(ErrCodeInvalid, "invalid payload")
	ErrZeroAmount        = NewError(ErrCodeInvalid, "amount must be greater than zero")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
