package auth

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication    = errors.New("incorrect username or password")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrUnauthorized      = errors.New("not authenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrCorruptCredential = errors.New("stored credential is corrupt")
)

// AuthFailure names which half of a credential check failed.
type AuthFailure string

const (
	FailureUnknownSubject AuthFailure = "unknown subject"
	FailureWrongPassword  AuthFailure = "wrong password"
)

// AuthenticationError is returned for any rejected login. Its message is the
// same for every failure so callers cannot probe which subjects exist.
type AuthenticationError struct {
	SubjectID string
	Reason    AuthFailure
}

func (e *AuthenticationError) Error() string {
	return ErrAuthentication.Error()
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// Detail describes the failure precisely. It never includes the password.
func (e *AuthenticationError) Detail() string {
	switch e.Reason {
	case FailureUnknownSubject:
		return fmt.Sprintf("user '%s' does not exist", e.SubjectID)
	case FailureWrongPassword:
		return fmt.Sprintf("wrong password for user '%s'", e.SubjectID)
	default:
		return e.Error()
	}
}

// TokenInvalidError is returned when a token cannot be decoded into trusted claims.
type TokenInvalidError struct {
	Reason string
	Err    error
}

func (e *TokenInvalidError) Error() string {
	if e.Reason == "" {
		return ErrTokenInvalid.Error()
	}
	return fmt.Sprintf("%v: %s", ErrTokenInvalid, e.Reason)
}

func (e *TokenInvalidError) Is(target error) bool {
	return target == ErrTokenInvalid
}

func (e *TokenInvalidError) Unwrap() error {
	return e.Err
}

// ForbiddenError reports a valid identity that lacks a required role.
type ForbiddenError struct {
	Role string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role '%s' required", e.Role)
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}
