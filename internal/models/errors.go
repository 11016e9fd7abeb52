package models

import "errors"

// Validation errors
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("new password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrDemoTypeTooLong    = errors.New("demo type must be at most 50 characters")
)

// Authentication and authorization errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrForbidden          = errors.New("admin access required")
	ErrTrialsExhausted    = errors.New("no trials remaining")
)

// Lookup errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// Conflict errors
var (
	ErrUserAlreadyExists        = errors.New("user already exists")
	ErrCannotResetAdmin         = errors.New("cannot reset admin user trials")
	ErrPasswordUnchanged        = errors.New("new password must be different from current password")
	ErrIncorrectCurrentPassword = errors.New("current password is incorrect")
)

// ErrorKind groups errors by how they are reported to API clients
type ErrorKind int

const (
	KindStore ErrorKind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

var errorKinds = map[error]ErrorKind{
	ErrMissingFields:            KindValidation,
	ErrInvalidEmailFormat:       KindValidation,
	ErrPasswordTooShort:         KindValidation,
	ErrPasswordTooLong:          KindValidation,
	ErrInvalidUserID:            KindValidation,
	ErrDemoTypeTooLong:          KindValidation,
	ErrInvalidCredentials:       KindAuth,
	ErrInvalidToken:             KindAuth,
	ErrTokenExpired:             KindAuth,
	ErrForbidden:                KindForbidden,
	ErrTrialsExhausted:          KindForbidden,
	ErrUserNotFound:             KindNotFound,
	ErrUserAlreadyExists:        KindConflict,
	ErrCannotResetAdmin:         KindConflict,
	ErrPasswordUnchanged:        KindConflict,
	ErrIncorrectCurrentPassword: KindConflict,
}

// ErrorKindOf classifies err. Errors that wrap none of the sentinel errors are store errors.
func ErrorKindOf(err error) ErrorKind {
	for sentinel, kind := range errorKinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindStore
}
