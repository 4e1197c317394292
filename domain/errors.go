package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeAIResponse   ErrorCode = "AI_RESPONSE"
	ErrCodeExternal     ErrorCode = "EXTERNAL"
	ErrCodeInternal     ErrorCode = "INTERNAL"
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
	ErrUserNotFound         = NewError(ErrCodeNotFound, "user not found")
	ErrTeamNotFound         = NewError(ErrCodeNotFound, "team not found")
	ErrProjectNotFound      = NewError(ErrCodeNotFound, "project not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrMemberNotFound       = NewError(ErrCodeNotFound, "member not found in this team")
	ErrNotificationNotFound = NewError(ErrCodeNotFound, "notification not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidCredentials   = NewError(ErrCodeUnauthorized, "invalid email or password")
	ErrAccountDisabled      = NewError(ErrCodeForbidden, "account is deactivated")
	ErrNotTeamMember        = NewError(ErrCodeForbidden, "you are not a member of this team")
	ErrEmailTaken           = NewError(ErrCodeConflict, "user with this email already exists")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
)

// Generative-model boundary errors. EXTERNAL failures are the only kind the
// suggestion orchestrator recovers from in-process; AI_RESPONSE marks payloads
// that failed structural parsing and is terminal for the request.
var (
	ErrAIKeyInvalid  = NewError(ErrCodeExternal, "invalid generative api key")
	ErrAIQuota       = NewError(ErrCodeExternal, "generative api quota exceeded")
	ErrAISafetyBlock = NewError(ErrCodeExternal, "content was blocked by safety filters")
	ErrAIUnavailable = NewError(ErrCodeExternal, "generative api call failed")
	ErrAIBadResponse = NewError(ErrCodeAIResponse, "generative model returned an invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
