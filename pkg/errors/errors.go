package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents missing or malformed input errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConflict represents uniqueness conflicts (username, friendship)
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeNotFound represents lookups of unknown users or friendships
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypePrecondition represents operations blocked by a business rule
	ErrorTypePrecondition ErrorType = "precondition"
	// ErrorTypeMalformedID represents identifiers that fail to parse as UUIDs
	ErrorTypeMalformedID ErrorType = "malformed_id"
	// ErrorTypeStore represents backing-store failures
	ErrorTypeStore ErrorType = "store"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind returns the error category. Errors embedding *BaseError inherit it,
// so IsErrorType works on the concrete error structs as well.
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// UserMessage returns the message without the category prefix or the
// wrapped cause, suitable for caller-facing responses.
func (e *BaseError) UserMessage() string {
	return e.Message
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation Errors

// ErrMissingField is returned when a required request field is absent
type ErrMissingField struct {
	*BaseError
	Field string
}

func NewMissingField(field string) *ErrMissingField {
	return &ErrMissingField{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("missing required field: %s", field), nil),
		Field:     field,
	}
}

// ErrSelfLink is returned when a user tries to befriend themselves
type ErrSelfLink struct {
	*BaseError
	UserID string
}

func NewSelfLink(userID string) *ErrSelfLink {
	return &ErrSelfLink{
		BaseError: NewBaseError(ErrorTypeValidation, "cannot create friendship with oneself", nil),
		UserID:    userID,
	}
}

// ErrMalformedUserID is returned when an identifier is not a valid UUID
type ErrMalformedUserID struct {
	*BaseError
	Value string
}

func NewMalformedUserID(value string, err error) *ErrMalformedUserID {
	return &ErrMalformedUserID{
		BaseError: NewBaseError(ErrorTypeMalformedID, fmt.Sprintf("invalid user ID format: %s", value), err),
		Value:     value,
	}
}

// Conflict Errors

// ErrDuplicateUsername is returned when the username is already taken
type ErrDuplicateUsername struct {
	*BaseError
	Username string
}

func NewDuplicateUsername(username string, err error) *ErrDuplicateUsername {
	return &ErrDuplicateUsername{
		BaseError: NewBaseError(ErrorTypeConflict, fmt.Sprintf("username already exists: %s", username), err),
		Username:  username,
	}
}

// ErrDuplicateFriendship is returned when the canonical pair already exists
type ErrDuplicateFriendship struct {
	*BaseError
	UserIDA string
	UserIDB string
}

func NewDuplicateFriendship(idA, idB string, err error) *ErrDuplicateFriendship {
	return &ErrDuplicateFriendship{
		BaseError: NewBaseError(ErrorTypeConflict, "these users are already friends", err),
		UserIDA:   idA,
		UserIDB:   idB,
	}
}

// Not Found Errors

// ErrUserNotFound is returned when a user ID matches no stored user
type ErrUserNotFound struct {
	*BaseError
	UserID string
}

func NewUserNotFound(userID string) *ErrUserNotFound {
	return &ErrUserNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("user not found: %s", userID), nil),
		UserID:    userID,
	}
}

// ErrFriendshipNotFound is returned when no edge exists for the canonical pair
type ErrFriendshipNotFound struct {
	*BaseError
	UserIDA string
	UserIDB string
}

func NewFriendshipNotFound(idA, idB string) *ErrFriendshipNotFound {
	return &ErrFriendshipNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, "friendship not found", nil),
		UserIDA:   idA,
		UserIDB:   idB,
	}
}

// Precondition Errors

// ErrUserHasFriendships is returned when deleting a user with incident edges
type ErrUserHasFriendships struct {
	*BaseError
	UserID string
}

func NewUserHasFriendships(userID string) *ErrUserHasFriendships {
	return &ErrUserHasFriendships{
		BaseError: NewBaseError(ErrorTypePrecondition, "cannot delete user, please remove all friendships first", nil),
		UserID:    userID,
	}
}

// Store Errors

// ErrStoreQueryFailed is returned when a store operation fails unexpectedly
type ErrStoreQueryFailed struct {
	*BaseError
	Operation string
}

func NewStoreQueryFailed(operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("store operation failed: %s", operation), err),
		Operation: operation,
	}
}

// Helper functions

// UserMessage extracts the caller-facing message from a typed error,
// walking wrapped errors. Returns empty for non-typed errors.
func UserMessage(err error) string {
	for err != nil {
		if m, ok := err.(interface{ UserMessage() string }); ok {
			return m.UserMessage()
		}
		wrapped, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = wrapped.Unwrap()
	}
	return ""
}

// IsErrorType checks if an error is of a specific type, walking wrapped errors
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if kinder, ok := err.(interface{ Kind() ErrorType }); ok {
			return kinder.Kind() == errType
		}
		wrapped, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = wrapped.Unwrap()
	}
	return false
}
