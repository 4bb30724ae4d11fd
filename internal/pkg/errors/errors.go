package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrCredentialNotFound  = errors.New("credential not found")
	ErrSubscriptionExpired = errors.New("subscription inactive or expired")
	ErrQuotaExhausted      = errors.New("token quota exhausted")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
	ErrProviderTimeout     = errors.New("provider call timed out")
	ErrTextNotFound        = errors.New("reference text not found")
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// ProviderError carries the backend detail for a failed provider call.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type Error struct {
	Err     error
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
		Code:    "INTERNAL_ERROR",
	}
}
