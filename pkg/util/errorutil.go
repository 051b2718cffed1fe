package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

// NewDuplicateAccount reports an email that is already registered.
func NewDuplicateAccount() error {
	return NewDomainError("DUPLICATE_ACCOUNT", "user already exists", http.StatusBadRequest)
}

// NewInvalidCredentials covers both unknown email and wrong password so the
// response does not reveal which applies.
func NewInvalidCredentials() error {
	return NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusBadRequest)
}

// NewNotVerified rejects logins from accounts that never confirmed their email.
func NewNotVerified() error {
	return NewDomainError("NOT_VERIFIED", "please verify your email before logging in", http.StatusBadRequest)
}

// NewInvalidOrExpiredToken covers both wrong and expired verification tokens
// with a single message.
func NewInvalidOrExpiredToken() error {
	return NewDomainError("INVALID_OR_EXPIRED_TOKEN", "invalid or expired verification token", http.StatusBadRequest)
}

func NewNoToken() error {
	return NewDomainError("NO_TOKEN", "no token, authorization denied", http.StatusUnauthorized)
}

func NewTokenExpired() error {
	return NewDomainError("TOKEN_EXPIRED", "token expired", http.StatusUnauthorized)
}

func NewTokenInvalid() error {
	return NewDomainError("TOKEN_INVALID", "token is not valid", http.StatusUnauthorized)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden)
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Store failures and
// anything unexpected surface as an opaque 500 to avoid leaking internals.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource").(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
