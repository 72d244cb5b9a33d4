package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication means the webhook signature did not verify
	ErrAuthentication = errors.New("invalid webhook signature")

	// ErrUnauthorized means the provider rejected the access token (HTTP 401)
	ErrUnauthorized = errors.New("provider rejected access token")

	// ErrNotFound is returned by stores for missing rows
	ErrNotFound = errors.New("not found")

	// ErrNoCredential means no token is stored
	ErrNoCredential = errors.New("no stored credential")
)

// ValidationError is a malformed request
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

// ClassificationError wraps a failed intent classification
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return "classification failed: " + e.Err.Error()
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// DeliveryError is a failed outbound send
type DeliveryError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *DeliveryError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("delivery failed (status %d): %s", e.StatusCode, msg)
	}
	return "delivery failed: " + msg
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// CredentialError is a failed token refresh
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return "credential refresh failed: " + e.Err.Error()
}

func (e *CredentialError) Unwrap() error { return e.Err }
